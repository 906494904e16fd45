package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/klmalviya77/trimtime-queue-master/internal/config"
	"github.com/klmalviya77/trimtime-queue-master/internal/events"
	"github.com/klmalviya77/trimtime-queue-master/internal/handlers"
	infraRepo "github.com/klmalviya77/trimtime-queue-master/internal/infra/repository"
	"github.com/klmalviya77/trimtime-queue-master/internal/middleware"
	"github.com/klmalviya77/trimtime-queue-master/internal/models"
	"github.com/klmalviya77/trimtime-queue-master/internal/realtime"
	ucQueue "github.com/klmalviya77/trimtime-queue-master/internal/usecase/queue"
	"github.com/klmalviya77/trimtime-queue-master/internal/usecase/stats"
)

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	rdb *redis.Client,
	cfg *config.Config,
	logger *zap.Logger,
) {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	queueRepo := infraRepo.NewQueueGormRepository(db)

	eventRecorder := events.NewRecorder(db)
	eventDispatcher := events.NewDispatcher(eventRecorder, rdb, logger)

	// ======================================================
	// USE CASES — QUEUE
	// ======================================================
	joinUC := ucQueue.NewJoinQueue(queueRepo, eventDispatcher)
	cancelUC := ucQueue.NewCancelBooking(queueRepo, eventDispatcher)
	transitionUC := ucQueue.NewTransitionBooking(queueRepo, eventDispatcher)
	statsUC := stats.NewDailyStats(db)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg, logger)
	meHandler := handlers.NewMeHandler(db)
	publicHandler := handlers.NewPublicHandler(db)
	shopHandler := handlers.NewShopHandler(db)

	bookingHandler := handlers.NewBookingHandler(db, joinUC, cancelUC)
	queueHandler := handlers.NewQueueHandler(db, transitionUC, statsUC)
	reviewHandler := handlers.NewReviewHandler(db)
	favoriteHandler := handlers.NewFavoriteHandler(db)
	registrationHandler := handlers.NewRegistrationHandler(db)

	realtimeHandler := realtime.NewHandler(db, rdb, logger)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/shops", publicHandler.ListShops)
			publicAPI.GET("/shops/:slug", publicHandler.GetShop)
			publicAPI.GET("/shops/:slug/queue/ws", realtimeHandler.QueueFeed)
			publicAPI.GET("/shops/:slug/reviews", reviewHandler.ListForShop)

			publicAPI.POST("/registration-requests", registrationHandler.Submit)
			publicAPI.GET("/registration-requests/:token", registrationHandler.Track)
		}

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// PRIVATE
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)
			secured.PATCH("/me", meHandler.UpdateMe)

			// ------------------------------
			// BOOKINGS (customer)
			// ------------------------------
			secured.POST("/me/bookings", bookingHandler.Join)
			secured.GET("/me/bookings", bookingHandler.ListMine)
			secured.PATCH("/me/bookings/:id/cancel", bookingHandler.Cancel)

			secured.POST("/me/bookings/:id/review", reviewHandler.Create)
			secured.PATCH("/me/reviews/:id", reviewHandler.Update)

			// ------------------------------
			// FAVORITES
			// ------------------------------
			secured.GET("/me/favorites", favoriteHandler.List)
			secured.POST("/me/favorites", favoriteHandler.Add)
			secured.DELETE("/me/favorites/:shopID", favoriteHandler.Remove)

			// ------------------------------
			// SHOP OWNER
			// ------------------------------
			owner := secured.Group("/me/shop")
			owner.Use(middleware.RequireRole(models.RoleBarber, models.RoleAdmin))
			{
				owner.GET("", shopHandler.GetMyShop)
				owner.PATCH("", shopHandler.UpdateMyShop)

				owner.GET("/queue", queueHandler.ListQueue)
				owner.PATCH("/queue/:bookingID/status", queueHandler.Transition)

				owner.GET("/stats/daily", queueHandler.DailyStats)
				owner.GET("/events", queueHandler.ListEvents)
			}

			// ------------------------------
			// ADMIN
			// ------------------------------
			admin := secured.Group("/admin")
			admin.Use(middleware.RequireRole(models.RoleAdmin))
			{
				admin.GET("/registration-requests", registrationHandler.List)
				admin.PATCH("/registration-requests/:id", registrationHandler.Decide)
			}
		}
	}
}
