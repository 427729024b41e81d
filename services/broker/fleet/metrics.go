package fleet

import "github.com/prometheus/client_golang/prometheus"

var (
	updatesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "vakula_station_updates_total",
		Help: "Station updates accepted by the broker.",
	})
	alertsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vakula_alerts_total",
		Help: "Alert notifications triggered, by status.",
	}, []string{"status"})
	broadcastsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "vakula_broadcasts_total",
		Help: "World-state broadcasts issued.",
	})
	stationsTracked = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "vakula_stations_tracked",
		Help: "Distinct stations ever seen by the broker.",
	})
	streamSubscribers = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "vakula_stream_subscribers",
		Help: "Currently connected streaming subscribers.",
	})
)

func init() {
	prometheus.MustRegister(updatesTotal, alertsTotal, broadcastsTotal, stationsTracked, streamSubscribers)
}
