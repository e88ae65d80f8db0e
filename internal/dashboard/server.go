// Package dashboard serves the operational HTTP surface: a plain-text
// landing page, a health probe, and the JSON stats endpoint.
package dashboard

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/bitcorise/earnbot/internal/service"
)

type Server struct {
	echo  *echo.Echo
	stats *service.Stats
}

func New(stats *service.Stats) *Server {
	r := echo.New()
	r.HideBanner = true
	r.HidePort = true

	r.Pre(middleware.RemoveTrailingSlash())
	r.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339}\t${method}\t${uri}\t${status}\t${latency_human}\n",
	}))
	r.Use(middleware.Recover())

	s := &Server{echo: r, stats: stats}

	r.GET("/", s.home)
	r.GET("/health", s.health)
	r.GET("/api/stats", s.apiStats)

	return s
}

func (s *Server) home(c echo.Context) error {
	sum := s.stats.Collect()
	return c.String(http.StatusOK, fmt.Sprintf(
		"earnbot is running\nusers: %d\npending payouts: %d\n",
		sum.TotalUsers, sum.PendingPayouts))
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) apiStats(c echo.Context) error {
	return c.JSON(http.StatusOK, s.stats.Collect())
}

// Start blocks serving HTTP until the listener fails or Shutdown is called.
func (s *Server) Start(port int) error {
	err := s.echo.Start(fmt.Sprintf(":%d", port))
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("dashboard: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
