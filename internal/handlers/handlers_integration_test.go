package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"

	"lapak/internal/handlers"
	"lapak/internal/models"
	"lapak/internal/repositories"
	"lapak/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupApp builds a Fiber app over an in-memory SQLite database with all
// handlers and services wired, mirroring the production wiring in main.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	viper.SetDefault("JWT_SECRET", "test_jwt_secret")
	viper.AutomaticEnv()
	jwtSecret := viper.GetString("JWT_SECRET")

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err, "failed to connect to in-memory database")
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Product{}))

	userRepo := repositories.NewGORMUserRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)

	authService := services.NewAuthService(userRepo, jwtSecret)
	policy := services.NewAccessPolicy(userRepo, productRepo)
	catalogService := services.NewCatalogService(productRepo, policy, nil)
	storeService := services.NewStoreService(userRepo)

	app := fiber.New()
	api := app.Group("/api")
	handlers.NewAuthHandler(authService).RegisterRoutes(api)
	handlers.NewProductHandler(catalogService, authService).RegisterRoutes(api)
	handlers.NewStoreHandler(storeService).RegisterRoutes(api)
	return app
}

// doRequest performs a JSON request against the app and decodes the response
// envelope.
func doRequest(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, path, reqBody)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	envelope := make(map[string]interface{})
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &envelope), "response body: %s", raw)
	}
	return resp.StatusCode, envelope
}

func registerAndLogin(t *testing.T, app *fiber.App, username, storeName string) string {
	t.Helper()

	status, _ := doRequest(t, app, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"username":   username,
		"email":      fmt.Sprintf("%s@example.com", username),
		"password":   "password123",
		"store_name": storeName,
	})
	require.Equal(t, http.StatusCreated, status)

	status, envelope := doRequest(t, app, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"username": username,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, status)
	data := envelope["data"].(map[string]interface{})
	token := data["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestCatalogEndToEnd(t *testing.T) {
	app := setupApp(t)

	aliceToken := registerAndLogin(t, app, "alice", "Alice's Mugs")
	bobToken := registerAndLogin(t, app, "bob", "Bob's Bikes")

	var productID string

	t.Run("CreateProduct", func(t *testing.T) {
		status, envelope := doRequest(t, app, http.MethodPost, "/api/products", aliceToken, map[string]interface{}{
			"name":  "Mug",
			"price": 9.99,
			"image": "http://x/mug.png",
		})
		assert.Equal(t, http.StatusCreated, status)
		assert.Equal(t, true, envelope["success"])

		data := envelope["data"].(map[string]interface{})
		productID = data["id"].(string)
		assert.NotEmpty(t, productID)
		assert.Equal(t, "Mug", data["name"])
		assert.Equal(t, 9.99, data["price"])

		owner := data["owner"].(map[string]interface{})
		assert.Equal(t, "alice", owner["username"])
		assert.Equal(t, "Alice's Mugs", owner["store_name"])
	})

	t.Run("CreateWithMissingPrice", func(t *testing.T) {
		status, envelope := doRequest(t, app, http.MethodPost, "/api/products", aliceToken, map[string]interface{}{
			"name":  "Broken",
			"image": "http://x/broken.png",
		})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, false, envelope["success"])
		assert.Contains(t, envelope["message"], "price")

		// Nothing was persisted
		status, envelope = doRequest(t, app, http.MethodGet, "/api/products", aliceToken, nil)
		assert.Equal(t, http.StatusOK, status)
		assert.Len(t, envelope["data"], 1)
	})

	t.Run("CreateWithoutToken", func(t *testing.T) {
		status, _ := doRequest(t, app, http.MethodPost, "/api/products", "", map[string]interface{}{
			"name":  "Mug",
			"price": 1,
			"image": "http://x/mug.png",
		})
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("PrivateListRequiresToken", func(t *testing.T) {
		status, envelope := doRequest(t, app, http.MethodGet, "/api/products", "", nil)
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, false, envelope["success"])
	})

	t.Run("PublicListByUsername", func(t *testing.T) {
		// No credential at all
		status, envelope := doRequest(t, app, http.MethodGet, "/api/products?username=alice", "", nil)
		assert.Equal(t, http.StatusOK, status)
		products := envelope["data"].([]interface{})
		assert.Len(t, products, 1)
		product := products[0].(map[string]interface{})
		assert.Equal(t, "Mug", product["name"])
		assert.Equal(t, "alice", product["owner"].(map[string]interface{})["username"])

		// Authenticated as bob, the username still wins
		status, envelope = doRequest(t, app, http.MethodGet, "/api/products?username=alice", bobToken, nil)
		assert.Equal(t, http.StatusOK, status)
		assert.Len(t, envelope["data"], 1)
	})

	t.Run("PublicListUnknownUsername", func(t *testing.T) {
		status, envelope := doRequest(t, app, http.MethodGet, "/api/products?username=nobody", "", nil)
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, false, envelope["success"])
	})

	t.Run("OwnListIsScoped", func(t *testing.T) {
		status, envelope := doRequest(t, app, http.MethodGet, "/api/products", bobToken, nil)
		assert.Equal(t, http.StatusOK, status)
		assert.Len(t, envelope["data"], 0)
	})

	t.Run("UpdateByNonOwnerIsForbidden", func(t *testing.T) {
		status, envelope := doRequest(t, app, http.MethodPut, "/api/products/"+productID, bobToken, map[string]interface{}{
			"name": "Stolen Mug",
		})
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, false, envelope["success"])
	})

	t.Run("UpdateUnknownIdIsNotFound", func(t *testing.T) {
		status, _ := doRequest(t, app, http.MethodPut, "/api/products/does-not-exist", bobToken, map[string]interface{}{
			"name": "Ghost",
		})
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("PartialUpdateByOwner", func(t *testing.T) {
		status, envelope := doRequest(t, app, http.MethodPatch, "/api/products/"+productID, aliceToken, map[string]interface{}{
			"price": 42,
		})
		assert.Equal(t, http.StatusOK, status)
		data := envelope["data"].(map[string]interface{})
		assert.Equal(t, 42.0, data["price"])
		assert.Equal(t, "Mug", data["name"])
		assert.Equal(t, "http://x/mug.png", data["image"])

		// The change is visible to a subsequent read
		status, envelope = doRequest(t, app, http.MethodGet, "/api/products?username=alice", "", nil)
		assert.Equal(t, http.StatusOK, status)
		product := envelope["data"].([]interface{})[0].(map[string]interface{})
		assert.Equal(t, 42.0, product["price"])
	})

	t.Run("StoreInfo", func(t *testing.T) {
		status, envelope := doRequest(t, app, http.MethodGet, "/api/stores/alice", "", nil)
		assert.Equal(t, http.StatusOK, status)
		data := envelope["data"].(map[string]interface{})
		assert.Equal(t, "alice", data["username"])
		assert.Equal(t, "Alice's Mugs", data["store_name"])
		// Never leaks credentials
		assert.NotContains(t, data, "email")
		assert.NotContains(t, data, "password")

		status, _ = doRequest(t, app, http.MethodGet, "/api/stores/nobody", "", nil)
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("Me", func(t *testing.T) {
		status, envelope := doRequest(t, app, http.MethodGet, "/api/auth/me", aliceToken, nil)
		assert.Equal(t, http.StatusOK, status)
		data := envelope["data"].(map[string]interface{})
		assert.Equal(t, "alice", data["username"])
	})

	t.Run("DeleteByNonOwnerIsForbidden", func(t *testing.T) {
		status, _ := doRequest(t, app, http.MethodDelete, "/api/products/"+productID, bobToken, nil)
		assert.Equal(t, http.StatusForbidden, status)
	})

	t.Run("DeleteByOwner", func(t *testing.T) {
		status, envelope := doRequest(t, app, http.MethodDelete, "/api/products/"+productID, aliceToken, nil)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, true, envelope["success"])

		// Gone from subsequent reads
		status, envelope = doRequest(t, app, http.MethodGet, "/api/products", aliceToken, nil)
		assert.Equal(t, http.StatusOK, status)
		assert.Len(t, envelope["data"], 0)

		// A second delete is NotFound, not a crash
		status, _ = doRequest(t, app, http.MethodDelete, "/api/products/"+productID, aliceToken, nil)
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("DuplicateRegistration", func(t *testing.T) {
		status, envelope := doRequest(t, app, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
			"username":   "alice",
			"email":      "other@example.com",
			"password":   "password123",
			"store_name": "Another Store",
		})
		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, false, envelope["success"])
	})
}
