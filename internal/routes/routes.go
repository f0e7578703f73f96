package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"citas-medicas-server/internal/cardvault"
	"citas-medicas-server/internal/config"
	"citas-medicas-server/internal/handlers"
	"citas-medicas-server/internal/middleware"
	"citas-medicas-server/internal/store"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Store  store.Store
	Vault  *cardvault.Vault
	Logger zerolog.Logger
}

// NewRouter builds the engine with ambient middleware and every route.
func NewRouter(cfg *config.Config, deps Deps) *gin.Engine {
	router := gin.New()
	// ClientIP is the socket peer unless that peer is a listed proxy.
	if err := router.SetTrustedProxies(cfg.TrustedProxyList()); err != nil {
		deps.Logger.Error().Err(err).Msg("invalid trusted proxies, forwarding headers ignored")
		_ = router.SetTrustedProxies(nil)
	}
	router.Use(
		middleware.RequestID(deps.Logger),
		middleware.Logger(),
		middleware.Recovery(),
		cors.New(corsConfig(cfg)),
	)

	SetupRoutes(router, cfg, deps)
	return router
}

func corsConfig(cfg *config.Config) cors.Config {
	corsConfig := cors.DefaultConfig()
	if cfg.Origin == "" || cfg.Origin == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = []string{cfg.Origin}
		corsConfig.AllowCredentials = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{middleware.RequestIDHeader}
	return corsConfig
}

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, cfg *config.Config, deps Deps) {
	s := deps.Store

	authHandler := handlers.NewAuthHandler(s, s, cfg.BcryptCost)
	userHandler := handlers.NewUserHandler(s)
	appointmentHandler := handlers.NewAppointmentHandler(s, cfg.Policy())
	medicalRecordHandler := handlers.NewMedicalRecordHandler(s)
	paymentHandler := handlers.NewPaymentHandler(s, deps.Vault)
	hospitalHandler := handlers.NewHospitalHandler(s)
	healthHandler := handlers.NewHealthHandler(s)

	var limiter *middleware.LoginRateLimiter
	if cfg.LoginRateLimitRPS > 0 {
		limiter = middleware.NewLoginRateLimiter(cfg.LoginRateLimitRPS, cfg.LoginRateLimitBurst)
	}
	throttle := middleware.LoginRateLimit(limiter)

	api := router.Group("/api")
	{
		// Accounts
		api.POST("/register", authHandler.Register)
		api.POST("/login", throttle, authHandler.Login)
		api.POST("/medico-login", throttle, authHandler.DoctorLogin)
		api.GET("/usuarios", userHandler.GetUsers)
		api.GET("/usuarios/:id", userHandler.GetUserByID)

		// Appointments. The first segment after /citas is a patient id on
		// the listing and an appointment id everywhere else.
		citas := api.Group("/citas")
		{
			citas.POST("", appointmentHandler.CreateAppointment)
			citas.GET("/:id", appointmentHandler.GetPatientAppointments)
			citas.GET("/idcita/:id", appointmentHandler.GetAppointmentByID)
			citas.PUT("/:id", appointmentHandler.UpdateAppointment)
			citas.DELETE("/:id", appointmentHandler.DeleteAppointment)
			citas.PUT("/:id/confirmar", appointmentHandler.ConfirmAppointment)
			citas.PUT("/:id/cancelar", appointmentHandler.CancelAppointment)
			citas.POST("/:id/finalizar", appointmentHandler.FinalizeAppointment)
		}
		api.GET("/citas-medico/:id", appointmentHandler.GetDoctorAppointments)
		api.GET("/test-citas/:id", appointmentHandler.TestPatientAppointments)

		// Medical history. GET takes a patient id, PUT/DELETE a record id.
		historial := api.Group("/historial-medico")
		{
			historial.GET("/:id", medicalRecordHandler.GetMedicalRecordsForPatient)
			historial.PUT("/:id", medicalRecordHandler.UpdateMedicalRecord)
			historial.DELETE("/:id", medicalRecordHandler.DeleteMedicalRecord)
		}

		// Payments
		api.POST("/registrar-pagos", paymentHandler.CreatePayment)
		pagos := api.Group("/pagos")
		{
			pagos.POST("", paymentHandler.CreatePayment)
			pagos.GET("", paymentHandler.GetPayments)
			pagos.GET("/:id", paymentHandler.GetPaymentByID)
			pagos.PUT("/:id", paymentHandler.UpdatePayment)
			pagos.DELETE("/:id", paymentHandler.DeletePayment)
		}

		// Hospitals
		api.POST("/registrar-hospital", hospitalHandler.CreateHospital)
		hospital := api.Group("/hospital")
		{
			hospital.POST("", hospitalHandler.CreateHospital)
			hospital.GET("", hospitalHandler.GetHospitals)
			hospital.GET("/:id", hospitalHandler.GetHospitalByID)
			hospital.PUT("/:id", hospitalHandler.UpdateHospital)
			hospital.DELETE("/:id", hospitalHandler.DeleteHospital)
		}
	}

	router.GET("/health", healthHandler.Health)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ruta no encontrada"})
	})
}
