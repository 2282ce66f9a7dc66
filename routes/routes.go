package routes

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/whalechillz/go-singsing-sub006/config"
	"github.com/whalechillz/go-singsing-sub006/controllers"
	"github.com/whalechillz/go-singsing-sub006/middleware"
	"github.com/whalechillz/go-singsing-sub006/services"
	"github.com/whalechillz/go-singsing-sub006/utils"
)

// Deps holds every controller plus the services the middleware needs.
type Deps struct {
	Auth        *controllers.AuthController
	Admins      *controllers.AdminController
	Roles       *controllers.RoleController
	Settings    *controllers.SettingsController
	Tours       *controllers.TourController
	Products    *controllers.ProductController
	Schedules   *controllers.ScheduleController
	Boarding    *controllers.BoardingController
	Participant *controllers.ParticipantController
	Rooms       *controllers.RoomController
	TeeTimes    *controllers.TeeTimeController
	Messages    *controllers.MessageController
	Customers   *controllers.CustomerController
	Memos       *controllers.MemoController
	Payments    *controllers.PaymentController
	Settlements *controllers.SettlementController
	Quotes      *controllers.QuoteController
	Portal      *controllers.PortalController
	Letters     *controllers.LetterController

	RoleSvc   *services.RoleService
	PortalSvc *services.PortalService
}

// NewDeps builds services and controllers on top of db.
func NewDeps(db *gorm.DB, s config.Settings, sender services.SMSSender, mailer services.Mailer, cache *services.DocumentCache) Deps {
	adminSvc := services.NewAdminService(db, s.JWTSecret, time.Duration(s.JWTExpireMin)*time.Minute)
	roleSvc := services.NewRoleService(db)
	docSvc := services.NewDocumentService(db)
	portalSvc := services.NewPortalService(db, docSvc, cache, s.PortalBaseURL)
	messagingSvc := services.NewMessagingService(db, sender, s.SolapiSender, s.KakaoPfID, s.MessageRatePerSec)

	return Deps{
		Auth:        controllers.NewAuthController(adminSvc),
		Admins:      controllers.NewAdminController(adminSvc),
		Roles:       controllers.NewRoleController(roleSvc),
		Settings:    controllers.NewSettingsController(services.NewSettingsService(db)),
		Tours:       controllers.NewTourController(services.NewTourService(db)),
		Products:    controllers.NewProductController(services.NewProductService(db)),
		Schedules:   controllers.NewScheduleController(services.NewScheduleService(db)),
		Boarding:    controllers.NewBoardingController(services.NewBoardingService(db)),
		Participant: controllers.NewParticipantController(services.NewParticipantService(db)),
		Rooms:       controllers.NewRoomController(services.NewRoomService(db)),
		TeeTimes:    controllers.NewTeeTimeController(services.NewTeeTimeService(db)),
		Messages:    controllers.NewMessageController(services.NewMessageTemplateService(db), messagingSvc),
		Customers:   controllers.NewCustomerController(services.NewCustomerService(db)),
		Memos:       controllers.NewMemoController(services.NewMemoService(db)),
		Payments:    controllers.NewPaymentController(services.NewPaymentService(db)),
		Settlements: controllers.NewSettlementController(services.NewSettlementService(db)),
		Quotes:      controllers.NewQuoteController(services.NewQuoteService(db, mailer), docSvc),
		Portal:      controllers.NewPortalController(portalSvc, docSvc),
		Letters:     controllers.NewLetterController(services.NewLetterService(db, s.OpenAIAPIKey, s.OpenAIModel, s.OpenAIBaseURL)),

		RoleSvc:   roleSvc,
		PortalSvc: portalSvc,
	}
}

func SetupRouter(s config.Settings, d Deps) *gin.Engine {
	if err := utils.RegisterValidators(); err != nil {
		log.Printf("⚠️ validator registration failed: %v", err)
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger())
	r.Static("/uploads", "./uploads")

	origins := s.CorsOriginList()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Portal links are opened by customers without an account.
	public := r.Group("/public", middleware.NewIPRateLimiter(s.PublicRateLimit, 10).Middleware())
	{
		public.GET("/:token", d.Portal.ViewPortal)
	}

	perm := func(p string) gin.HandlerFunc { return middleware.RequirePermission(d.RoleSvc, p) }

	api := r.Group("/api")
	api.POST("/auth/login", d.Auth.Login)

	api.Use(middleware.AuthRequired(s.JWTSecret))
	{
		api.GET("/auth/me", d.Auth.Me)

		admins := api.Group("/admins")
		{
			admins.GET("", perm("admins.view"), d.Admins.GetAdmins)
			admins.POST("", perm("admins.create"), d.Admins.CreateAdmin)
			admins.DELETE("/:id", perm("admins.delete"), d.Admins.DeleteAdmin)
		}

		roles := api.Group("/roles")
		{
			roles.GET("", perm("roles.view"), d.Roles.GetRoles)
			roles.PUT("/:id/permissions", perm("roles.edit"), d.Roles.UpdateRolePermissions)
		}

		settings := api.Group("/settings")
		{
			settings.GET("/company", perm("settings.view"), d.Settings.GetCompanySettings)
			settings.PUT("/company", perm("settings.edit"), d.Settings.UpdateCompanySettings)
		}

		products := api.Group("/products")
		{
			products.GET("", perm("tours.view"), d.Products.GetProducts)
			products.GET("/:id", perm("tours.view"), d.Products.GetProduct)
			products.POST("", perm("tours.create"), d.Products.CreateProduct)
			products.PUT("/:id", perm("tours.edit"), d.Products.UpdateProduct)
			products.DELETE("/:id", perm("tours.delete"), d.Products.DeleteProduct)
			products.POST("/:id/images", perm("tours.edit"), d.Products.UploadImage)
		}

		api.GET("/tours", perm("tours.view"), d.Tours.GetTours)
		api.POST("/tours", perm("tours.create"), d.Tours.CreateTour)

		// Writes under a tour invalidate its cached portal documents.
		tour := api.Group("/tours/:id", middleware.InvalidatePortal(d.PortalSvc.InvalidateTour))
		{
			tour.GET("", perm("tours.view"), d.Tours.GetTour)
			tour.PUT("", perm("tours.edit"), d.Tours.UpdateTour)
			tour.DELETE("", perm("tours.delete"), d.Tours.DeleteTour)

			tour.GET("/schedules", perm("tours.view"), d.Schedules.GetSchedules)
			tour.POST("/schedules", perm("tours.edit"), d.Schedules.CreateSchedule)

			tour.GET("/boarding-times", perm("tours.view"), d.Boarding.GetTimes)
			tour.POST("/boarding-times", perm("tours.edit"), d.Boarding.SaveTime)

			tour.GET("/participants", perm("participants.view"), d.Participant.GetParticipants)
			tour.POST("/participants", perm("participants.create"), d.Participant.CreateParticipant)
			tour.POST("/participants/import", perm("participants.create"), d.Participant.ImportParticipants)
			tour.GET("/participants/export", perm("participants.export"), d.Participant.ExportParticipants)

			tour.GET("/rooms", perm("rooms.view"), d.Rooms.GetRooms)
			tour.POST("/rooms", perm("rooms.edit"), d.Rooms.CreateRoom)
			tour.POST("/rooms/bulk", perm("rooms.edit"), d.Rooms.BulkCreateRooms)
			tour.GET("/rooms/overview", perm("rooms.view"), d.Rooms.GetOverview)

			tour.GET("/tee-times", perm("teeTimes.view"), d.TeeTimes.GetTeeTimes)
			tour.POST("/tee-times", perm("teeTimes.edit"), d.TeeTimes.CreateTeeTime)
			tour.POST("/tee-times/bulk", perm("teeTimes.edit"), d.TeeTimes.BulkCreateTeeTimes)
			tour.POST("/tee-times/auto-assign", perm("teeTimes.edit"), d.TeeTimes.AutoAssign)
			tour.POST("/tee-times/dedupe", perm("teeTimes.edit"), d.TeeTimes.RemoveDuplicates)
			tour.GET("/tee-times/schedule", perm("teeTimes.view"), d.TeeTimes.GetSchedule)

			tour.POST("/customers/sync", perm("customers.edit"), d.Customers.SyncFromTour)

			tour.GET("/payments", perm("payments.view"), d.Payments.GetPayments)
			tour.POST("/payments", perm("payments.edit"), d.Payments.CreatePayment)
			tour.GET("/payments/summary", perm("payments.view"), d.Payments.GetSummary)

			tour.GET("/expenses", perm("settlements.view"), d.Settlements.GetExpenses)
			tour.POST("/expenses", perm("settlements.edit"), d.Settlements.CreateExpense)
			tour.GET("/settlement", perm("settlements.view"), d.Settlements.GetSettlement)
			tour.GET("/settlement/compute", perm("settlements.view"), d.Settlements.ComputeSettlement)
			tour.POST("/settlement", perm("settlements.edit"), d.Settlements.SaveSettlement)
			tour.POST("/settlement/confirm", perm("settlements.confirm"), d.Settlements.ConfirmSettlement)
			tour.POST("/settlement/reopen", perm("settlements.confirm"), d.Settlements.ReopenSettlement)

			tour.GET("/links", perm("tours.view"), d.Portal.GetLinks)
			tour.GET("/documents/:type", perm("tours.view"), d.Portal.GetTourDocument)
		}

		schedules := api.Group("/schedules")
		{
			schedules.PUT("/:id", perm("tours.edit"), d.Schedules.UpdateSchedule)
			schedules.DELETE("/:id", perm("tours.edit"), d.Schedules.DeleteSchedule)
		}

		places := api.Group("/boarding-places")
		{
			places.GET("", perm("tours.view"), d.Boarding.GetPlaces)
			places.POST("", perm("tours.edit"), d.Boarding.CreatePlace)
			places.PUT("/:id", perm("tours.edit"), d.Boarding.UpdatePlace)
			places.DELETE("/:id", perm("tours.edit"), d.Boarding.DeletePlace)
		}
		api.DELETE("/boarding-times/:id", perm("tours.edit"), d.Boarding.DeleteTime)

		participants := api.Group("/participants")
		{
			participants.GET("/:id", perm("participants.view"), d.Participant.GetParticipant)
			participants.PUT("/:id", perm("participants.edit"), d.Participant.UpdateParticipant)
			participants.DELETE("/:id", perm("participants.delete"), d.Participant.DeleteParticipant)
			participants.POST("/:id/cancel", perm("participants.edit"), d.Participant.CancelParticipant)
			participants.DELETE("/:id/room", perm("rooms.edit"), d.Rooms.UnassignParticipant)
		}

		roomTypes := api.Group("/room-types")
		{
			roomTypes.GET("", perm("rooms.view"), d.Rooms.GetRoomTypes)
			roomTypes.POST("", perm("rooms.edit"), d.Rooms.CreateRoomType)
			roomTypes.DELETE("/:id", perm("rooms.edit"), d.Rooms.DeleteRoomType)
		}

		rooms := api.Group("/rooms")
		{
			rooms.PUT("/:id", perm("rooms.edit"), d.Rooms.UpdateRoom)
			rooms.DELETE("/:id", perm("rooms.edit"), d.Rooms.DeleteRoom)
			rooms.POST("/:id/assign", perm("rooms.edit"), d.Rooms.AssignParticipant)
		}

		teeTimes := api.Group("/tee-times")
		{
			teeTimes.PUT("/:id", perm("teeTimes.edit"), d.TeeTimes.UpdateTeeTime)
			teeTimes.DELETE("/:id", perm("teeTimes.edit"), d.TeeTimes.DeleteTeeTime)
			teeTimes.POST("/:id/players", perm("teeTimes.edit"), d.TeeTimes.AssignPlayers)
			teeTimes.DELETE("/:id/players/:participantId", perm("teeTimes.edit"), d.TeeTimes.UnassignPlayer)
		}

		templates := api.Group("/message-templates")
		{
			templates.GET("", perm("messages.view"), d.Messages.GetTemplates)
			templates.POST("", perm("messages.send"), d.Messages.CreateTemplate)
			templates.POST("/preview", perm("messages.view"), d.Messages.PreviewTemplate)
			templates.PUT("/:id", perm("messages.send"), d.Messages.UpdateTemplate)
			templates.DELETE("/:id", perm("messages.send"), d.Messages.DeleteTemplate)
		}

		messages := api.Group("/messages")
		{
			messages.POST("/send", perm("messages.send"), d.Messages.SendMessages)
			messages.POST("/retry", perm("messages.send"), d.Messages.RetryFailed)
			messages.GET("/logs", perm("messages.view"), d.Messages.GetLogs)
		}

		customers := api.Group("/customers")
		{
			customers.GET("", perm("customers.view"), d.Customers.GetCustomers)
			customers.POST("", perm("customers.create"), d.Customers.CreateCustomer)
			customers.GET("/:id", perm("customers.view"), d.Customers.GetCustomer)
			customers.PUT("/:id", perm("customers.edit"), d.Customers.UpdateCustomer)
			customers.DELETE("/:id", perm("customers.delete"), d.Customers.DeleteCustomer)
			customers.GET("/:id/tours", perm("customers.view"), d.Customers.GetHistory)
		}

		memos := api.Group("/memos")
		{
			memos.GET("", perm("memos.view"), d.Memos.GetMemos)
			memos.POST("", perm("memos.create"), d.Memos.CreateMemo)
			memos.PUT("/:id", perm("memos.edit"), d.Memos.UpdateMemo)
			memos.POST("/:id/complete", perm("memos.edit"), d.Memos.CompleteMemo)
			memos.DELETE("/:id", perm("memos.delete"), d.Memos.DeleteMemo)
		}

		payments := api.Group("/payments")
		{
			payments.PUT("/:id", perm("payments.edit"), d.Payments.UpdatePayment)
			payments.DELETE("/:id", perm("payments.edit"), d.Payments.DeletePayment)
		}

		expenses := api.Group("/expenses")
		{
			expenses.PUT("/:id", perm("settlements.edit"), d.Settlements.UpdateExpense)
			expenses.DELETE("/:id", perm("settlements.edit"), d.Settlements.DeleteExpense)
		}
		api.GET("/settlements/report", perm("settlements.view"), d.Settlements.GetReport)

		// Quote writes invalidate cached quote documents.
		quotes := api.Group("/quotes", middleware.InvalidatePortal(d.PortalSvc.InvalidateQuote))
		{
			quotes.GET("", perm("quotes.view"), d.Quotes.GetQuotes)
			quotes.POST("", perm("quotes.create"), d.Quotes.CreateQuote)
			quotes.GET("/:id", perm("quotes.view"), d.Quotes.GetQuote)
			quotes.PUT("/:id", perm("quotes.edit"), d.Quotes.UpdateQuote)
			quotes.DELETE("/:id", perm("quotes.edit"), d.Quotes.DeleteQuote)
			quotes.POST("/:id/email", perm("quotes.send"), d.Quotes.EmailQuote)
			quotes.GET("/:id/document", perm("quotes.view"), d.Quotes.GetDocument)
		}

		links := api.Group("/links")
		{
			links.POST("", perm("tours.edit"), d.Portal.CreateLink)
			links.PATCH("/:id", perm("tours.edit"), d.Portal.UpdateLink)
			links.DELETE("/:id", perm("tours.edit"), d.Portal.DeleteLink)
		}

		letters := api.Group("/letters")
		{
			letters.GET("", perm("customers.view"), d.Letters.GetLetters)
			letters.POST("", perm("customers.edit"), d.Letters.GenerateLetter)
			letters.DELETE("/:id", perm("customers.edit"), d.Letters.DeleteLetter)
		}
	}

	return r
}
