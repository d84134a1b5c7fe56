package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"ideaboard/internal/db"
	"ideaboard/internal/middleware"
	"ideaboard/internal/models"
	"ideaboard/internal/router"
	"ideaboard/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
)

// setupTestDB points the global connection at a fresh sqlite file and runs
// migration plus seeding (two categories, the anonymous sentinel).
// _fk=1 turns on sqlite foreign key enforcement so constraint behavior
// matches postgres.
func setupTestDB(t *testing.T) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, db.Connect(sqlite.Open(path+"?_fk=1")))
}

// setupRouter mirrors the middleware stack of cmd/server.
func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	store := cookie.NewStore([]byte("test_secret"))
	r.Use(sessions.Sessions("ideaboard_session", store))
	r.Use(middleware.LoadUser())
	router.RegisterRoutes(r)
	return r
}

// performRequest sends a JSON request, carrying any session cookies.
func performRequest(r http.Handler, method, path string, body interface{}, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewBuffer(payload)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// createUser inserts a user directly and logs in through the endpoint,
// returning the user row and its session cookies.
func createUser(t *testing.T, r http.Handler, name, email, role string) (*models.User, []*http.Cookie) {
	t.Helper()

	hash, err := utils.HashPassword("password123")
	require.NoError(t, err)

	user := models.User{Name: name, Email: email, Password: hash, Role: role}
	require.NoError(t, db.DB.Create(&user).Error)

	w := performRequest(r, "POST", "/api/auth/login", gin.H{
		"email":    email,
		"password": "password123",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	return &user, cookies
}

// createIdea submits an idea through the API as the given session.
func createIdea(t *testing.T, r http.Handler, cookies []*http.Cookie, title string, categoryID uint) uint {
	t.Helper()
	w := performRequest(r, "POST", "/api/ideas", gin.H{
		"title":       title,
		"description": "<p>some description</p>",
		"category_id": categoryID,
	}, cookies)
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	return uint(body["id"].(float64))
}
