// Package httpapi содержит REST-интерфейс сервиса: маршрутизацию,
// обработчики и middleware поверх gin.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/soms/internal/domain"
	"github.com/vladislavdragonenkov/soms/internal/service/customers"
	"github.com/vladislavdragonenkov/soms/internal/service/serviceorders"
)

// Server маршрутизирует HTTP-запросы к сервисам клиентов и заказов.
type Server struct {
	engine      *gin.Engine
	customers   *customers.Service
	orders      *serviceorders.Service
	idempotency domain.IdempotencyRepository
	logger      *log.Entry
	now         func() time.Time
}

// NewServer собирает gin-приложение со всеми маршрутами и middleware.
// idempotency может быть nil: тогда заголовок Idempotency-Key игнорируется.
func NewServer(
	customerService *customers.Service,
	orderService *serviceorders.Service,
	idempotency domain.IdempotencyRepository,
	logger *log.Entry,
) *Server {
	if logger == nil {
		logger = log.WithField("component", "http-server")
	}

	s := &Server{
		customers:   customerService,
		orders:      orderService,
		idempotency: idempotency,
		logger:      logger,
		now:         time.Now,
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(s.requestLogger())
	engine.Use(requestMetrics())

	api := engine.Group("/api/v1")
	{
		api.POST("/customers", s.idempotent(s.createCustomer))
		api.GET("/customers", s.listCustomers)
		api.GET("/customers/:id", s.getCustomer)
		api.PUT("/customers/:id", s.updateCustomer)
		api.DELETE("/customers/:id", s.deleteCustomer)

		api.POST("/service-orders", s.idempotent(s.createServiceOrder))
		api.GET("/service-orders", s.listServiceOrders)
		api.GET("/service-orders/:id", s.getServiceOrder)
		api.POST("/service-orders/:id/finish", s.finishServiceOrder)
		api.POST("/service-orders/:id/cancel", s.cancelServiceOrder)
		api.POST("/service-orders/:id/comments", s.idempotent(s.addServiceOrderComment))
		api.GET("/service-orders/:id/timeline", s.serviceOrderTimeline)
	}

	s.engine = engine
	return s
}

// Handler возвращает корневой http.Handler сервера.
func (s *Server) Handler() http.Handler {
	return s.engine
}
