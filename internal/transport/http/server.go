// Package http provides the HTTP server for the chat API.
package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/Andrewp2/andrew-chat/internal/metrics"
	"github.com/Andrewp2/andrew-chat/internal/service"
	v1 "github.com/Andrewp2/andrew-chat/internal/transport/http/v1"
	"github.com/Andrewp2/andrew-chat/internal/transport/ws"
)

// NewServer creates and configures the HTTP server. m may be nil, in which
// case /metrics is not served.
func NewServer(svc *service.Service, wsServer *ws.Server, m *metrics.Metrics) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(requestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Handlers
	v1Handler := v1.NewHandler(svc)

	// Register Routes
	v1Handler.RegisterRoutes(e)
	e.GET("/v1/conversations/:id/ws", wsServer.HandleStream)
	if m != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))
	}

	return e
}

// requestLogger logs one zerolog line per request.
func requestLogger() echo.MiddlewareFunc {
	logger := log.With().Str("component", "http").Logger()
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			event := logger.Info()
			if v.Error != nil || v.Status >= 500 {
				event = logger.Error().Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
