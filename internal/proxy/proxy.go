// Package proxy forwards VQA form posts to the upstream inference endpoint,
// adding the upstream credentials so clients never hold them.
package proxy

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/set-night/skyvqa/internal/config"
)

const defaultContentType = "application/json"

type Options struct {
	UpstreamURL string
	Username    string
	Password    string
	Timeout     time.Duration
}

// OptionsFromConfig builds proxy options from the loaded environment.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		UpstreamURL: cfg.UpstreamURL,
		Username:    cfg.UpstreamUser,
		Password:    cfg.UpstreamPass,
		Timeout:     config.ProxyTimeout,
	}
}

type Server struct {
	echo       *echo.Echo
	opts       Options
	httpClient *http.Client
}

func New(opts Options) *Server {
	if opts.Timeout <= 0 {
		opts.Timeout = config.ProxyTimeout
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(fmt.Sprintf("%dM", config.MaxImageSize/(1024*1024)+1)))

	s := &Server{
		echo:       e,
		opts:       opts,
		httpClient: &http.Client{Timeout: opts.Timeout},
	}
	e.POST("/api/proxy", s.handleProxy)
	e.GET("/healthz", s.handleHealth)
	return s
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves until Shutdown is called. http.ErrServerClosed is not an error.
func (s *Server) Start(addr string) error {
	slog.Info("proxy listening", "addr", addr, "upstream", s.opts.UpstreamURL)
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("proxy server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleProxy(c echo.Context) error {
	req := c.Request()

	body, err := io.ReadAll(req.Body)
	if err != nil {
		return s.fail(c, fmt.Errorf("read request: %w", err))
	}

	upReq, err := http.NewRequestWithContext(req.Context(), http.MethodPost, s.opts.UpstreamURL, bytes.NewReader(body))
	if err != nil {
		return s.fail(c, fmt.Errorf("create upstream request: %w", err))
	}
	if ct := req.Header.Get(echo.HeaderContentType); ct != "" {
		upReq.Header.Set(echo.HeaderContentType, ct)
	}
	upReq.SetBasicAuth(s.opts.Username, s.opts.Password)
	upReq.Header.Set("ngrok-skip-browser-warning", "true")

	resp, err := s.httpClient.Do(upReq)
	if err != nil {
		return s.fail(c, fmt.Errorf("upstream request: %w", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return s.fail(c, fmt.Errorf("read upstream response: %w", err))
	}

	contentType := resp.Header.Get(echo.HeaderContentType)
	if contentType == "" {
		contentType = defaultContentType
	}

	slog.Debug("proxied request",
		"status", resp.StatusCode,
		"request_bytes", len(body),
		"response_bytes", len(respBody),
	)
	return c.Blob(resp.StatusCode, contentType, respBody)
}

func (s *Server) fail(c echo.Context, err error) error {
	slog.Error("proxy error", "error", err)
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
}
