package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zerotwo/vakula/services/relay/config"
)

// Server bundles router and dependencies for the telegram relay.
type Server struct {
	cfg    config.Config
	client *http.Client
	engine *gin.Engine
}

// New constructs a server with routes and middleware.
func New(cfg config.Config) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(gin.Logger())

	server := &Server{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.RequestTimeout},
		engine: engine,
	}
	server.registerRoutes()
	return server
}

// Engine exposes the underlying gin engine (for tests).
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run starts the HTTP server and blocks until shutdown.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.ListenAddr(),
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	s.engine.POST("/api/send", s.handleSend)
}

type sendRequest struct {
	Message   string `json:"message" binding:"required"`
	ChatID    string `json:"chat_id,omitempty"`
	ParseMode string `json:"parse_mode,omitempty"`
}

// handleSend forwards one message to the Telegram Bot API.
// POST /api/send
func (s *Server) handleSend(c *gin.Context) {
	var req sendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if s.cfg.BotToken == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "TELEGRAM_BOT_TOKEN is not set"})
		return
	}

	chatID := req.ChatID
	if chatID == "" {
		chatID = s.cfg.DefaultChatID
	}
	if chatID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "chat_id is required"})
		return
	}

	data, err := s.sendMessage(c.Request.Context(), chatID, req.Message, req.ParseMode)
	if err != nil {
		log.Printf("telegram send failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "telegram API request failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "telegram_response": data})
}

func (s *Server) sendMessage(ctx context.Context, chatID, text, parseMode string) (map[string]any, error) {
	payload := map[string]string{"chat_id": chatID, "text": text}
	if parseMode != "" {
		payload["parse_mode"] = parseMode
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", s.cfg.APIBase, s.cfg.BotToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	var data map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode telegram response: %w", err)
	}
	return data, nil
}
