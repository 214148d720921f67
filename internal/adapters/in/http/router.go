package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterHandlers mounts the API, the health check and the metrics endpoint on e.
func RegisterHandlers(e *echo.Echo, s *Server, registry *prometheus.Registry) {
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})))

	e.GET("/execute/users/:userId/orders/:orderId", s.ExecuteOrder)

	api := e.Group("/api/v1")
	api.POST("/users/:userId/orders", s.CreateOrder)
	api.GET("/orders/:orderId", s.GetOrder)
	api.PUT("/orders/:orderId", s.UpdateOrder)
	api.DELETE("/orders/:orderId", s.DeleteOrder)
	api.POST("/vouchers", s.GenerateVouchers)
	api.POST("/sequences/:name", s.NextSequenceID)
}
