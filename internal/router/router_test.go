package router

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"pocketbook/internal/config"
	"pocketbook/internal/logging"
	"pocketbook/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Category{},
		&models.Transaction{},
	))

	cfg := &config.Config{}
	cfg.Server.Mode = gin.TestMode
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpireHours = 1
	cfg.Security.BcryptCost = 4

	return SetupRouter(cfg, db, logging.Setup("error")), db
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token, body string) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var parsed map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &parsed); err != nil {
		parsed = nil
	}
	return w.Code, parsed
}

func registerAndLogin(t *testing.T, r *gin.Engine, email string) string {
	t.Helper()
	code, _ := doJSON(t, r, http.MethodPost, "/api/auth/register", "",
		`{"email":"`+email+`","password":"Password123"}`)
	require.Equal(t, http.StatusOK, code)

	code, resp := doJSON(t, r, http.MethodPost, "/api/auth/login", "",
		`{"email":"`+email+`","password":"Password123"}`)
	require.Equal(t, http.StatusOK, code)

	data := resp["data"].(map[string]interface{})
	return data["token"].(string)
}

func TestHealthz(t *testing.T) {
	r, _ := setupTestRouter(t)
	code, resp := doJSON(t, r, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", resp["status"])
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	r, _ := setupTestRouter(t)
	for _, path := range []string{"/api/me", "/api/categories", "/api/balance"} {
		code, _ := doJSON(t, r, http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusUnauthorized, code, path)
	}
}

func TestRegisterSeedsDefaultCategories(t *testing.T) {
	r, _ := setupTestRouter(t)
	token := registerAndLogin(t, r, "a@example.com")

	code, resp := doJSON(t, r, http.MethodGet, "/api/categories", token, "")
	require.Equal(t, http.StatusOK, code)
	data := resp["data"].(map[string]interface{})
	assert.Len(t, data["categories"], 30)

	// seeding again must not duplicate anything
	code, _ = doJSON(t, r, http.MethodPost, "/api/setup-default-categories", token, "")
	require.Equal(t, http.StatusOK, code)
	code, resp = doJSON(t, r, http.MethodGet, "/api/categories", token, "")
	require.Equal(t, http.StatusOK, code)
	data = resp["data"].(map[string]interface{})
	assert.Len(t, data["categories"], 30)
}

func TestCategoryConflictMapsTo409(t *testing.T) {
	r, _ := setupTestRouter(t)
	token := registerAndLogin(t, r, "a@example.com")

	code, _ := doJSON(t, r, http.MethodPost, "/api/categories", token,
		`{"name":"Rent","type":"expense"}`)
	require.Equal(t, http.StatusOK, code)

	code, _ = doJSON(t, r, http.MethodPost, "/api/categories", token,
		`{"name":"Rent","type":"expense"}`)
	assert.Equal(t, http.StatusConflict, code)

	// a different user is free to use the name
	other := registerAndLogin(t, r, "b@example.com")
	code, _ = doJSON(t, r, http.MethodPost, "/api/categories", other,
		`{"name":"Rent","type":"expense"}`)
	assert.Equal(t, http.StatusOK, code)
}

func TestTransactionFlowAndBalance(t *testing.T) {
	r, _ := setupTestRouter(t)
	token := registerAndLogin(t, r, "a@example.com")

	// find the seeded Salary and Food ids
	_, resp := doJSON(t, r, http.MethodGet, "/api/categories", token, "")
	var salaryID, foodID float64
	for _, raw := range resp["data"].(map[string]interface{})["categories"].([]interface{}) {
		cat := raw.(map[string]interface{})
		switch cat["name"] {
		case "Salary":
			salaryID = cat["id"].(float64)
		case "Food":
			foodID = cat["id"].(float64)
		}
	}
	require.NotZero(t, salaryID)
	require.NotZero(t, foodID)

	code, _ := doJSON(t, r, http.MethodPost, "/api/transactions", token,
		`{"amount":"1000.00","category_id":`+jsonNum(salaryID)+`,"created_at":"2024-05-01"}`)
	require.Equal(t, http.StatusOK, code)
	code, _ = doJSON(t, r, http.MethodPost, "/api/transactions", token,
		`{"amount":"650.50","category_id":`+jsonNum(foodID)+`,"note":"groceries","created_at":"2024-05-02"}`)
	require.Equal(t, http.StatusOK, code)

	code, resp = doJSON(t, r, http.MethodGet, "/api/balance", token, "")
	require.Equal(t, http.StatusOK, code)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "1000.00", data["income"])
	assert.Equal(t, "650.50", data["expense"])
	assert.Equal(t, "349.50", data["net"])

	code, resp = doJSON(t, r, http.MethodGet,
		"/api/report/month?year=2024&month=5&timezone=UTC", token, "")
	require.Equal(t, http.StatusOK, code)
	rows := resp["data"].(map[string]interface{})["rows"].([]interface{})
	require.Len(t, rows, 2)
	first := rows[0].(map[string]interface{})
	assert.Equal(t, "Salary", first["category"])
}

func TestCrossOwnerCategoryReferenceRejected(t *testing.T) {
	r, _ := setupTestRouter(t)
	tokenA := registerAndLogin(t, r, "a@example.com")
	tokenB := registerAndLogin(t, r, "b@example.com")

	code, resp := doJSON(t, r, http.MethodPost, "/api/categories", tokenA,
		`{"name":"Private","type":"expense"}`)
	require.Equal(t, http.StatusOK, code)
	cat := resp["data"].(map[string]interface{})["category"].(map[string]interface{})
	id := cat["id"].(float64)

	code, _ = doJSON(t, r, http.MethodPost, "/api/transactions", tokenB,
		`{"amount":"5.00","category_id":`+jsonNum(id)+`}`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestExportCSV(t *testing.T) {
	r, _ := setupTestRouter(t)
	token := registerAndLogin(t, r, "a@example.com")

	req := httptest.NewRequest(http.MethodGet, "/api/export/csv", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.True(t, strings.HasPrefix(w.Body.String(), "id,created_at,amount,note,category,type"))
}

func TestLoginStampsLastLogin(t *testing.T) {
	r, db := setupTestRouter(t)
	registerAndLogin(t, r, "a@example.com")

	var user models.User
	require.NoError(t, db.Where("email = ?", "a@example.com").First(&user).Error)
	require.NotNil(t, user.LastLoginAt)
	assert.WithinDuration(t, time.Now(), *user.LastLoginAt, time.Minute)
}

func TestLogoutRevokesSession(t *testing.T) {
	r, _ := setupTestRouter(t)
	token := registerAndLogin(t, r, "a@example.com")

	code, _ := doJSON(t, r, http.MethodPost, "/api/auth/logout", token, "")
	require.Equal(t, http.StatusOK, code)

	code, _ = doJSON(t, r, http.MethodGet, "/api/me", token, "")
	assert.Equal(t, http.StatusUnauthorized, code)
}

func jsonNum(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
