package fleet

import (
	"encoding/json"
	"log"
	"os"
)

// Coordinates is a known station location, keyed by display name in the
// metadata file.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type metaEntry struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// LoadStationMeta reads the optional station-coordinates file. A missing or
// unreadable file yields an empty map; the map view simply has no coordinates
// for stations that never report their own.
func LoadStationMeta(path string) map[string]Coordinates {
	meta := make(map[string]Coordinates)
	if path == "" {
		return meta
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		log.Printf("station metadata not loaded: %v", err)
		return meta
	}

	var entries []metaEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		log.Printf("station metadata not loaded: %v", err)
		return meta
	}

	for _, e := range entries {
		meta[e.Name] = Coordinates{Lat: e.Lat, Lon: e.Lon}
	}
	log.Printf("loaded %d station metadata entries", len(meta))
	return meta
}
