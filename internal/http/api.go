package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"village/internal/domain"
	"village/internal/service"
)

// Services groups the domain services the API delegates to.
type Services struct {
	Auth         service.AuthService
	Users        service.UserService
	Units        service.UnitService
	Reservations service.ReservationService
	Tickets      service.TicketService
	Visitors     service.VisitorService
	Payments     service.PaymentService
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	auth         service.AuthService
	users        service.UserService
	units        service.UnitService
	reservations service.ReservationService
	tickets      service.TicketService
	visitors     service.VisitorService
	payments     service.PaymentService
	metrics      *Metrics
	logger       *logrus.Logger
}

func NewHandler(svc Services, metrics *Metrics, logger *logrus.Logger) (*Handler, error) {
	if err := registerValidators(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logrus.New()
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	return &Handler{
		auth:         svc.Auth,
		users:        svc.Users,
		units:        svc.Units,
		reservations: svc.Reservations,
		tickets:      svc.Tickets,
		visitors:     svc.Visitors,
		payments:     svc.Payments,
		metrics:      metrics,
		logger:       logger,
	}, nil
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(h.requestLogging(), h.metrics.middleware(), corsMiddleware())
	router.GET("/metrics", h.metrics.handler())

	api := router.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", h.register)
		authGroup.POST("/login", h.login)
	}

	secured := api.Group("", h.authenticate())
	admin := h.requireRole(domain.RoleAdmin)
	{
		secured.GET("/auth/me", h.me)
		secured.PUT("/auth/me", h.updateMe)

		users := secured.Group("/users", admin)
		users.GET("", h.listUsers)
		users.POST("", h.createUser)
		users.GET("/:id", h.getUser)
		users.PUT("/:id", h.updateUser)
		users.DELETE("/:id", h.deleteUser)

		secured.GET("/units", h.listUnits)
		secured.GET("/units/:id", h.getUnit)
		secured.POST("/units", admin, h.createUnit)
		secured.PUT("/units/:id", admin, h.updateUnit)
		secured.DELETE("/units/:id", admin, h.deleteUnit)

		secured.GET("/amenities", h.listAmenities)
		secured.GET("/amenities/:id", h.getAmenity)
		secured.POST("/amenities", admin, h.createAmenity)
		secured.DELETE("/amenities/:id", admin, h.deleteAmenity)

		secured.POST("/reservations", h.createReservation)
		secured.GET("/reservations", h.listReservations)
		secured.GET("/reservations/availability", h.checkAvailability)
		secured.GET("/reservations/:id", h.getReservation)
		secured.PUT("/reservations/:id", admin, h.updateReservation)
		secured.DELETE("/reservations/:id", h.deleteReservation)

		secured.POST("/tickets", h.createTicket)
		secured.GET("/tickets", h.listTickets)
		secured.GET("/tickets/:id", h.getTicket)
		secured.PUT("/tickets/:id", admin, h.updateTicket)
		secured.DELETE("/tickets/:id", admin, h.deleteTicket)

		secured.POST("/visitors", h.createVisitor)
		secured.GET("/visitors", admin, h.listVisitors)
		secured.GET("/visitors/:id", admin, h.getVisitor)
		secured.DELETE("/visitors/:id", admin, h.deleteVisitor)

		secured.POST("/payments", h.createPayment)
		secured.GET("/payments", h.listPayments)
		secured.GET("/payments/receipts", admin, h.listReceipts)
		secured.GET("/payments/:id", h.getPayment)
		secured.GET("/payments/:id/receipt", h.paymentReceipt)
		secured.DELETE("/payments/:id", admin, h.deletePayment)
	}
}
