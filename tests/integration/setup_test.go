package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"sampatti/internal/handlers"
	"sampatti/internal/logger"
	"sampatti/internal/middleware"
	"sampatti/internal/models"
	"sampatti/internal/services"
	"sampatti/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Address{},
		&models.NotificationPreferences{},
		&models.Nominee{},
		&models.NomineeAccessLog{},
		&models.Asset{},
		&models.Document{},
		&models.AuditLog{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	// Services
	userService := services.NewUserService(db)
	recoveryService := services.NewRecoveryService(db, userService)
	nomineeService := services.NewNomineeService(db)
	assetService := services.NewAssetService(db)
	documentService := services.NewDocumentService(db)
	emergencyService := services.NewEmergencyService(db, assetService, documentService)
	auditService := services.NewAuditService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, recoveryService, auditService)
	nomineeHandler := handlers.NewNomineeHandler(nomineeService, auditService)
	emergencyHandler := handlers.NewEmergencyHandler(emergencyService)
	assetHandler := handlers.NewAssetHandler(assetService)
	documentHandler := handlers.NewDocumentHandler(documentService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/login", authHandler.Login)
	auth.POST("/verify-recovery-words", authHandler.VerifyRecoveryWords)
	auth.POST("/reset-password", authHandler.ResetPassword)

	v1.POST("/emergency/access", emergencyHandler.RequestAccess)

	nomineeProtected := v1.Group("/")
	nomineeProtected.Use(middleware.NomineeAuthMiddleware())
	nomineeProtected.GET("/emergency/data", emergencyHandler.GetData)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(userService))

	protected.GET("/profile", authHandler.GetProfile)
	protected.PUT("/profile", authHandler.UpdateProfile)
	protected.DELETE("/profile", authHandler.DeleteProfile)
	protected.POST("/profile/change-password", authHandler.ChangePassword)

	nominees := protected.Group("/nominees")
	nominees.POST("", nomineeHandler.CreateNominee)
	nominees.GET("", nomineeHandler.GetNominees)
	nominees.GET("/access-logs", nomineeHandler.GetAccessLogs)
	nominees.GET("/:id", nomineeHandler.GetNominee)
	nominees.PUT("/:id", nomineeHandler.UpdateNominee)
	nominees.DELETE("/:id", nomineeHandler.DeleteNominee)
	nominees.POST("/:id/access-code", nomineeHandler.RegenerateAccessCode)
	nominees.POST("/:id/revoke", nomineeHandler.RevokeNominee)

	assets := protected.Group("/assets")
	assets.POST("", assetHandler.CreateAsset)
	assets.GET("", assetHandler.GetAssets)
	assets.GET("/:id", assetHandler.GetAsset)
	assets.DELETE("/:id", assetHandler.DeleteAsset)

	documents := protected.Group("/documents")
	documents.POST("", documentHandler.CreateDocument)
	documents.GET("", documentHandler.GetDocuments)
	documents.GET("/:id", documentHandler.GetDocument)
	documents.DELETE("/:id", documentHandler.DeleteDocument)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// errorCode extracts the error code from an error response body.
func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	result := parseJSON(t, rec)
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response: %s", rec.Body.String())
	}
	code, _ := errObj["code"].(string)
	return code
}

// signupUser registers a new user and returns the token, the one-time
// recovery words, and the user ID.
func (app *testApp) signupUser(t *testing.T, email, password string) (token string, recoveryWords []string, userID string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"first_name":"Test","last_name":"User","phone_number":"+911234567890"}`, email, password)
	rec := app.request("POST", "/api/v1/auth/signup", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	rawWords := result["recovery_words"].([]interface{})
	words := make([]string, 0, len(rawWords))
	for _, w := range rawWords {
		words = append(words, w.(string))
	}
	user := result["user"].(map[string]interface{})
	return result["token"].(string), words, user["id"].(string)
}

// loginUser logs in and returns the token.
func (app *testApp) loginUser(t *testing.T, email, password string) string {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["token"].(string)
}

// createNominee creates a nominee for the authenticated user and returns the
// nominee ID and one-time access code.
func (app *testApp) createNominee(t *testing.T, token, email, accessLevel string) (nomineeID, accessCode string) {
	t.Helper()
	body := fmt.Sprintf(`{"name":"Priya","email":%q,"access_level":%q,"relationship":"Spouse"}`, email, accessLevel)
	rec := app.request("POST", "/api/v1/nominees", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create nominee failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	nominee := result["nominee"].(map[string]interface{})
	return nominee["id"].(string), result["access_code"].(string)
}

// activateNominee regenerates the nominee's access code, which also moves the
// nominee to Active status, and returns the new code.
func (app *testApp) activateNominee(t *testing.T, token, nomineeID string) string {
	t.Helper()
	rec := app.request("POST", "/api/v1/nominees/"+nomineeID+"/access-code", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("regenerate access code failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["access_code"].(string)
}

// createAsset creates an asset for the authenticated user.
func (app *testApp) createAsset(t *testing.T, token, name string, sensitive bool) string {
	t.Helper()
	body := fmt.Sprintf(`{"name":%q,"type":"FixedDeposit","current_value":100000,"sensitive":%v}`, name, sensitive)
	rec := app.request("POST", "/api/v1/assets", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create asset failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	asset := result["asset"].(map[string]interface{})
	return asset["id"].(string)
}

// createDocument creates a document for the authenticated user.
func (app *testApp) createDocument(t *testing.T, token, title string, accessible bool) string {
	t.Helper()
	body := fmt.Sprintf(`{"title":%q,"type":"Will","accessible_to_nominees":%v}`, title, accessible)
	rec := app.request("POST", "/api/v1/documents", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create document failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	doc := result["document"].(map[string]interface{})
	return doc["id"].(string)
}
