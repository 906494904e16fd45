package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/klmalviya77/trimtime-queue-master/internal/config"
	appdb "github.com/klmalviya77/trimtime-queue-master/internal/db"
	"github.com/klmalviya77/trimtime-queue-master/internal/events"
	infraRepo "github.com/klmalviya77/trimtime-queue-master/internal/infra/repository"
	"github.com/klmalviya77/trimtime-queue-master/internal/middleware"
	"github.com/klmalviya77/trimtime-queue-master/internal/models"
	ucQueue "github.com/klmalviya77/trimtime-queue-master/internal/usecase/queue"
	"github.com/klmalviya77/trimtime-queue-master/internal/usecase/stats"
)

var (
	testDB  *gorm.DB
	testCfg *config.Config
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	testCfg = &config.Config{
		JWTSecret:             "test-secret-key-for-unit-tests",
		ProfileCreationStrict: true,
	}

	var err error
	testDB, err = gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		panic("failed to connect to test database: " + err.Error())
	}

	// One open connection keeps every goroutine on the same in-memory
	// database.
	sqlDB, _ := testDB.DB()
	sqlDB.SetMaxOpenConns(1)

	if err := appdb.Migrate(testDB); err != nil {
		panic("failed to migrate test database: " + err.Error())
	}

	os.Exit(m.Run())
}

// freshDB clears all rows, children before parents.
func freshDB() *gorm.DB {
	testDB.Exec("DELETE FROM queue_events")
	testDB.Exec("DELETE FROM reviews")
	testDB.Exec("DELETE FROM favorites")
	testDB.Exec("DELETE FROM bookings")
	testDB.Exec("DELETE FROM registration_requests")
	testDB.Exec("DELETE FROM shops")
	testDB.Exec("DELETE FROM profiles")
	testDB.Exec("DELETE FROM users")
	return testDB
}

// setupRouter wires the full API surface against the given database,
// with Redis publishing disabled.
func setupRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()

	logger := zap.NewNop()

	queueRepo := infraRepo.NewQueueGormRepository(db)
	dispatcher := events.NewDispatcher(events.NewRecorder(db), nil, logger)

	joinUC := ucQueue.NewJoinQueue(queueRepo, dispatcher)
	cancelUC := ucQueue.NewCancelBooking(queueRepo, dispatcher)
	transitionUC := ucQueue.NewTransitionBooking(queueRepo, dispatcher)
	statsUC := stats.NewDailyStats(db)

	authHandler := NewAuthHandler(db, testCfg, logger)
	meHandler := NewMeHandler(db)
	publicHandler := NewPublicHandler(db)
	shopHandler := NewShopHandler(db)
	bookingHandler := NewBookingHandler(db, joinUC, cancelUC)
	queueHandler := NewQueueHandler(db, transitionUC, statsUC)
	reviewHandler := NewReviewHandler(db)
	favoriteHandler := NewFavoriteHandler(db)
	registrationHandler := NewRegistrationHandler(db)

	api := r.Group("/api")

	publicAPI := api.Group("/public")
	publicAPI.GET("/shops", publicHandler.ListShops)
	publicAPI.GET("/shops/:slug", publicHandler.GetShop)
	publicAPI.GET("/shops/:slug/reviews", reviewHandler.ListForShop)
	publicAPI.POST("/registration-requests", registrationHandler.Submit)
	publicAPI.GET("/registration-requests/:token", registrationHandler.Track)

	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	secured := api.Group("/")
	secured.Use(middleware.AuthMiddleware(testCfg))

	secured.GET("/me", meHandler.GetMe)
	secured.PATCH("/me", meHandler.UpdateMe)

	secured.POST("/me/bookings", bookingHandler.Join)
	secured.GET("/me/bookings", bookingHandler.ListMine)
	secured.PATCH("/me/bookings/:id/cancel", bookingHandler.Cancel)

	secured.POST("/me/bookings/:id/review", reviewHandler.Create)
	secured.PATCH("/me/reviews/:id", reviewHandler.Update)

	secured.GET("/me/favorites", favoriteHandler.List)
	secured.POST("/me/favorites", favoriteHandler.Add)
	secured.DELETE("/me/favorites/:shopID", favoriteHandler.Remove)

	owner := secured.Group("/me/shop")
	owner.Use(middleware.RequireRole(models.RoleBarber, models.RoleAdmin))
	owner.GET("", shopHandler.GetMyShop)
	owner.PATCH("", shopHandler.UpdateMyShop)
	owner.GET("/queue", queueHandler.ListQueue)
	owner.PATCH("/queue/:bookingID/status", queueHandler.Transition)
	owner.GET("/stats/daily", queueHandler.DailyStats)
	owner.GET("/events", queueHandler.ListEvents)

	admin := secured.Group("/admin")
	admin.Use(middleware.RequireRole(models.RoleAdmin))
	admin.GET("/registration-requests", registrationHandler.List)
	admin.PATCH("/registration-requests/:id", registrationHandler.Decide)

	return r
}

// ==================== Seed Helpers ====================

func signToken(t *testing.T, userID uint, role string) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
		"iat":  time.Now().Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(testCfg.JWTSecret))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return token
}

// seedUser creates a user with a profile and returns it with a valid
// token. The password is always "password123".
func seedUser(t *testing.T, email, role string) (models.User, string) {
	t.Helper()

	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)

	user := models.User{Email: email, PasswordHash: string(hash)}
	if err := testDB.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	profile := models.Profile{UserID: user.ID, Name: "Test User", Role: role}
	if err := testDB.Create(&profile).Error; err != nil {
		t.Fatalf("failed to seed profile: %v", err)
	}

	return user, signToken(t, user.ID, role)
}

// seedShop creates an active shop with a 30 minute average service
// time; mut adjusts it before insert.
func seedShop(t *testing.T, ownerID uint, slug string, mut func(*models.Shop)) models.Shop {
	t.Helper()

	shop := models.Shop{
		OwnerID:       ownerID,
		Name:          "Shop " + slug,
		Slug:          slug,
		AvgServiceMin: 30,
		IsActive:      true,
		Timezone:      "Asia/Kolkata",
	}
	if mut != nil {
		mut(&shop)
	}

	if err := testDB.Create(&shop).Error; err != nil {
		t.Fatalf("failed to seed shop: %v", err)
	}
	return shop
}

// deactivateShop flips is_active after insert, because the column
// default would swallow a false on create.
func deactivateShop(t *testing.T, shopID uint) {
	t.Helper()
	if err := testDB.Model(&models.Shop{}).
		Where("id = ?", shopID).
		Update("is_active", false).Error; err != nil {
		t.Fatalf("failed to deactivate shop: %v", err)
	}
}

func seedBooking(t *testing.T, shopID, customerID uint, status string, joinedAt time.Time) models.Booking {
	t.Helper()

	booking := models.Booking{
		ShopID:     shopID,
		CustomerID: customerID,
		Status:     status,
		JoinedAt:   joinedAt,
	}
	if err := testDB.Create(&booking).Error; err != nil {
		t.Fatalf("failed to seed booking: %v", err)
	}
	return booking
}

// ==================== Request Helpers ====================

func jsonRequest(method, url string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func authRequest(method, url string, body interface{}, token string) *http.Request {
	req := jsonRequest(method, url, body)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

// ==================== Response Helpers ====================

func parseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

func parseResponseArray(w *httptest.ResponseRecorder) []interface{} {
	var result []interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}
