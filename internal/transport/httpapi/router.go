package httpapi

import (
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/checkout/internal/health"
	"github.com/vladislavdragonenkov/checkout/internal/service/order"
)

// Server — HTTP-фасад сервиса заказов.
type Server struct {
	engine *gin.Engine
	orders *order.Service
	health *health.Handler
	logger *log.Entry
}

// NewServer собирает gin-движок с middleware и маршрутами API.
func NewServer(orders *order.Service, healthHandler *health.Handler, logger *log.Entry) *Server {
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	logger = logger.WithField("component", "http_server")

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(logger))

	s := &Server{
		engine: engine,
		orders: orders,
		health: healthHandler,
		logger: logger,
	}
	s.registerRoutes()
	return s
}

// Engine возвращает собранный gin.Engine для запуска http.Server.
func (s *Server) Engine() *gin.Engine { return s.engine }

func (s *Server) registerRoutes() {
	if s.health != nil {
		s.engine.GET("/healthz", gin.WrapF(health.LivenessHandler))
		s.engine.GET("/readyz", gin.WrapF(s.health.ReadinessHandler))
		s.engine.GET("/health", gin.WrapH(s.health))
	}

	api := s.engine.Group("/api", callerFromHeaders())
	{
		orders := api.Group("/orders")
		orders.POST("", s.createOrder)
		orders.GET("", s.listAllOrders)
		orders.GET("/my", s.listOwnOrders)
		orders.GET("/:id", s.getOrder)
		orders.PATCH("/:id/status", s.updateOrderStatus)
	}
}
