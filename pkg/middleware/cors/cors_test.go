package cors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(origins []string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(New(origins))
	r.POST("/inscricao", func(c *gin.Context) { c.JSON(http.StatusCreated, gin.H{"id": "x"}) })
	return r
}

func TestPreflightAnswersOK(t *testing.T) {
	r := newEngine(nil)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/anything", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "DELETE")
	assert.JSONEq(t, `{}`, w.Body.String())
}

func TestAllowedOriginIsEchoed(t *testing.T) {
	r := newEngine([]string{"https://escola.example/"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/inscricao", nil)
	req.Header.Set("Origin", "https://escola.example")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "https://escola.example", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestUnknownOriginIsNotAllowed(t *testing.T) {
	r := newEngine([]string{"https://escola.example"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/inscricao", nil)
	req.Header.Set("Origin", "https://evil.example")
	r.ServeHTTP(w, req)

	assert.Equal(t, "null", w.Header().Get("Access-Control-Allow-Origin"))
}
