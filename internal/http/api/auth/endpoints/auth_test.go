package endpoints

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/prayertimes/internal/http/api"
	"github.com/Nixie-Tech-LLC/prayertimes/internal/http/middleware"
)

func setupRouter(t *testing.T, secret, hash string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	require.NoError(t, api.MountGroup(r, api.GroupConfig{Prefix: "/api"}, AuthPublicModule(secret, hash)))
	return r
}

func login(r http.Handler, body any) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAdminLogin(t *testing.T) {
	hash, err := middleware.HashPassword("12345678")
	require.NoError(t, err)
	r := setupRouter(t, "supersecret", hash)

	w := login(r, map[string]string{"password": "12345678"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token     string `json:"token"`
		ExpiresAt string `json:"expires_at"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.NotEmpty(t, resp.ExpiresAt)

	// the issued token opens protected groups
	protected := gin.New()
	protected.GET("/me", middleware.JWTMiddleware("supersecret"), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAdminLoginRejects(t *testing.T) {
	hash, err := middleware.HashPassword("12345678")
	require.NoError(t, err)
	r := setupRouter(t, "supersecret", hash)

	assert.Equal(t, http.StatusUnauthorized, login(r, map[string]string{"password": "nope"}).Code)
	assert.Equal(t, http.StatusBadRequest, login(r, map[string]string{}).Code)

	unset := setupRouter(t, "supersecret", "")
	assert.Equal(t, http.StatusUnauthorized, login(unset, map[string]string{"password": "12345678"}).Code)
}
