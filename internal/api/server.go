package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/openrace/corrida-api/docs"
	v1 "github.com/openrace/corrida-api/internal/api/handler/v1"
	"github.com/openrace/corrida-api/internal/api/middleware"
	"github.com/openrace/corrida-api/internal/config"
	"github.com/openrace/corrida-api/internal/payment"
	"github.com/openrace/corrida-api/internal/repository"
	"github.com/openrace/corrida-api/internal/repository/dao"
	"github.com/openrace/corrida-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB, reaper *service.ExpirationReaper) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	admissionHandler := s.initAdmissionHandler(db, reaper)
	orderHandler := s.initOrderHandler(db)
	eventHandler := s.initEventHandler(db)
	s.MountHandlers(admissionHandler, orderHandler, eventHandler)

	return s
}

func (s *Server) initAdmissionHandler(db *gorm.DB, reaper *service.ExpirationReaper) *v1.AdmissionHandler {
	admissionDAO := dao.NewAdmissionDAO(db)
	repo := repository.NewAdmissionRepository(admissionDAO)
	svc := service.NewAdmissionService(repo, s.Config.Orders.PendingTTL())
	handler := v1.NewAdmissionHandler(svc, reaper)

	return handler
}

func (s *Server) initOrderHandler(db *gorm.DB) *v1.OrderHandler {
	orderDAO := dao.NewOrderDAO(db)
	repo := repository.NewOrderRepository(orderDAO)
	gateway := payment.NewStripeGateway(s.Config.Stripe.SecretKey)
	svc := service.NewOrderService(repo, gateway)
	handler := v1.NewOrderHandler(svc)

	return handler
}

func (s *Server) initEventHandler(db *gorm.DB) *v1.EventHandler {
	eventDAO := dao.NewEventDAO(db)
	repo := repository.NewEventRepository(eventDAO)
	svc := service.NewEventService(repo)

	orderDAO := dao.NewOrderDAO(db)
	orderRepo := repository.NewOrderRepository(orderDAO)
	orderSvc := service.NewOrderService(orderRepo, payment.NewStripeGateway(s.Config.Stripe.SecretKey))

	handler := v1.NewEventHandler(svc, orderSvc)

	return handler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(admissionHandler *v1.AdmissionHandler, orderHandler *v1.OrderHandler, eventHandler *v1.EventHandler) {
	const basePath = "/api/v1"

	routes := s.Router.Group(basePath)
	{
		routes.GET("/events", eventHandler.HandleGetEvents)
		routes.GET("/events/:eventID", eventHandler.HandleGetEvent)
		routes.POST("/events", eventHandler.HandleCreateEvent)
		routes.POST("/events/:eventID/modalities", eventHandler.HandleCreateModality)
		routes.POST("/events/:eventID/batches", eventHandler.HandleCreateBatch)
		routes.POST("/modalities/:modalityID/prices", eventHandler.HandleCreatePrice)

		routes.GET("/events/:eventID/registrations", eventHandler.HandleGetRegistrations)
		routes.POST("/events/:eventID/registrations", admissionHandler.HandleAdmitRegistration)

		routes.POST("/orders/:orderID/confirm", orderHandler.HandleConfirmOrder)
		routes.POST("/orders/:orderID/cancel", orderHandler.HandleCancelOrder)

		routes.POST("/admin/expiration-sweep", admissionHandler.HandleRunExpirationSweep)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Race Registration API"
	docs.SwaggerInfo.Description = "Event registration with capacity admission across event, modality and pricing batch."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
