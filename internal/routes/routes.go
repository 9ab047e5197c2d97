package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/BruksfildServices01/nail-scheduler/internal/app"
	"github.com/BruksfildServices01/nail-scheduler/internal/handlers"
	"github.com/BruksfildServices01/nail-scheduler/internal/metrics"
	"github.com/BruksfildServices01/nail-scheduler/internal/middleware"
	"github.com/BruksfildServices01/nail-scheduler/internal/usecase/media"
)

func RegisterRoutes(r *gin.Engine, a *app.Container) {
	cfg := a.Cfg
	db := a.DB

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(
		middleware.RequestID(),
		middleware.Logger(),
		gin.Recovery(),
		middleware.CORSMiddleware(cfg.CORSOrigins),
		metrics.Middleware(),
	)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	healthHandler := handlers.NewHealthHandler(db, a.RedisPinger())

	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	salonHandler := handlers.NewSalonHandler(db, a.Audit)

	serviceHandler := handlers.NewServiceHandler(db, a.Audit)
	employeeHandler := handlers.NewEmployeeHandler(db, a.Audit)
	workingHoursHandler := handlers.NewWorkingHoursHandler(db, a.Audit)
	clientHandler := handlers.NewClientHandler(db, a.Audit)

	appointmentHandler := handlers.NewAppointmentHandler(a.Appointments)
	timeSlotHandler := handlers.NewTimeSlotHandler(a.Slots)
	paymentHandler := handlers.NewPaymentHandler(a.Payments)

	promotionHandler := handlers.NewPromotionHandler(db, a.Audit, a.Promotions)
	productHandler := handlers.NewProductHandler(db, a.Audit, a.Stock)
	mediaHandler := handlers.NewMediaHandler(a.Upload)

	notificationHandler := handlers.NewNotificationHandler(a.Outbox)
	dashboardHandler := handlers.NewDashboardHandler(a.Dashboard)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	publicHandler := handlers.NewPublicHandler(db, a.Appointments, a.Promotions, a.Payments)

	// ======================================================
	// 🩺 OPERAÇÃO
	// ======================================================
	r.GET("/health", healthHandler.Health)
	r.GET("/ready", healthHandler.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 API PÚBLICA
		// ------------------------------
		publicAPI := api.Group("/public/:slug")
		{
			publicAPI.GET("", publicHandler.GetSalon)
			publicAPI.GET("/services", publicHandler.ListServices)
			publicAPI.GET("/employees", publicHandler.ListEmployees)
			publicAPI.GET("/availability", publicHandler.Availability)
			publicAPI.POST("/promotions/validate", publicHandler.ValidatePromotion)

			publicAPI.POST("/appointments", publicHandler.CreateAppointment)
			publicAPI.GET("/appointments/:id", publicHandler.GetAppointment)
			publicAPI.PATCH("/appointments/:id/reschedule", publicHandler.RescheduleAppointment)
			publicAPI.PATCH("/appointments/:id/cancel", publicHandler.CancelAppointment)
			publicAPI.POST("/appointments/:id/deposit", publicHandler.CreateDeposit)
		}

		// ------------------------------
		// 💳 WEBHOOKS
		// ------------------------------
		api.POST("/webhooks/mercadopago", paymentHandler.Webhook)

		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/me")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("", meHandler.GetMe)

			secured.GET("/salon", salonHandler.Get)
			secured.PATCH("/salon", middleware.RequireRole("owner"), salonHandler.Update)

			// catálogo
			secured.GET("/services", serviceHandler.List)
			secured.POST("/services", serviceHandler.Create)
			secured.PATCH("/services/:id", serviceHandler.Update)
			secured.DELETE("/services/:id", serviceHandler.Delete)
			secured.POST("/services/:id/image", mediaHandler.Upload(media.EntityService))

			secured.GET("/employees", employeeHandler.List)
			secured.POST("/employees", employeeHandler.Create)
			secured.GET("/employees/:id", employeeHandler.Get)
			secured.PATCH("/employees/:id", employeeHandler.Update)
			secured.DELETE("/employees/:id", employeeHandler.Delete)
			secured.PUT("/employees/:id/services", employeeHandler.SetServices)
			secured.GET("/employees/:id/working-hours", workingHoursHandler.Get)
			secured.PUT("/employees/:id/working-hours", workingHoursHandler.Update)
			secured.POST("/employees/:id/image", mediaHandler.Upload(media.EntityEmployee))

			secured.GET("/clients", clientHandler.List)
			secured.GET("/clients/:id", clientHandler.Get)
			secured.PATCH("/clients/:id", clientHandler.Update)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.POST("/appointments", appointmentHandler.Create)
			secured.GET("/appointments", appointmentHandler.ListByDate)
			secured.GET("/appointments/month", appointmentHandler.ListByMonth)
			secured.GET("/appointments/availability", appointmentHandler.Availability)
			secured.GET("/appointments/:id", appointmentHandler.Get)
			secured.PATCH("/appointments/:id/confirm", appointmentHandler.Confirm)
			secured.PATCH("/appointments/:id/reschedule", appointmentHandler.Reschedule)
			secured.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.PATCH("/appointments/:id/complete", appointmentHandler.Complete)
			secured.PATCH("/appointments/:id/no-show", appointmentHandler.NoShow)
			secured.POST("/appointments/:id/deposit", paymentHandler.CreateDeposit)

			// ------------------------------
			// TIME SLOTS
			// ------------------------------
			secured.GET("/time-slots", timeSlotHandler.List)
			secured.POST("/time-slots/generate", timeSlotHandler.Generate)
			secured.POST("/time-slots/reconcile", timeSlotHandler.Reconcile)
			secured.PATCH("/time-slots/:id/block", timeSlotHandler.Block)
			secured.PATCH("/time-slots/:id/unblock", timeSlotHandler.Unblock)
			secured.PATCH("/time-slots/:id/cancel", timeSlotHandler.Cancel)

			// ------------------------------
			// PAYMENTS
			// ------------------------------
			secured.GET("/payments", paymentHandler.List)
			secured.POST("/payments/:id/refund", middleware.RequireRole("owner"), paymentHandler.Refund)

			// ------------------------------
			// PROMOTIONS / PRODUCTS
			// ------------------------------
			secured.GET("/promotions", promotionHandler.List)
			secured.POST("/promotions", promotionHandler.Create)
			secured.PATCH("/promotions/:id", promotionHandler.Update)
			secured.DELETE("/promotions/:id", promotionHandler.Delete)
			secured.POST("/promotions/validate", promotionHandler.Validate)

			secured.GET("/products", productHandler.List)
			secured.POST("/products", productHandler.Create)
			secured.PATCH("/products/:id", productHandler.Update)
			secured.POST("/products/:id/stock", productHandler.AdjustStock)
			secured.GET("/products/:id/movements", productHandler.Movements)
			secured.POST("/products/:id/image", mediaHandler.Upload(media.EntityProduct))

			// ------------------------------
			// OPERAÇÃO
			// ------------------------------
			secured.GET("/notifications", notificationHandler.List)
			secured.GET("/dashboard", dashboardHandler.Summary)
			secured.GET("/audit-logs", middleware.RequireRole("owner"), auditLogsHandler.List)
		}
	}
}
