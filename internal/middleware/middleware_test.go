package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recetario/internal/docstore"
	"github.com/pageza/recetario/internal/identity"
	"github.com/pageza/recetario/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fixedUser struct{ id *identity.Identity }

func (f fixedUser) User() *identity.Identity { return f.id }

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{&service.ValidationError{Field: "text", Err: service.ErrEmptyText}, http.StatusBadRequest},
		{&service.ValidationError{Field: "user", Err: service.ErrUnauthenticated}, http.StatusUnauthorized},
		{identity.ErrTokenExpired, http.StatusUnauthorized},
		{fmt.Errorf("recipe r9: %w", docstore.ErrNotFound), http.StatusNotFound},
		{docstore.ErrPredicateTooLarge, http.StatusBadRequest},
		{&service.StoreError{Op: "add comment", Err: errors.New("offline")}, http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.err), tt.err.Error())
	}
}

func TestErrorHandler(t *testing.T) {
	router := gin.New()
	router.Use(ErrorHandler())
	router.GET("/store", func(c *gin.Context) {
		c.Error(&service.StoreError{Op: "rate recipe", Err: errors.New("offline")})
	})
	router.GET("/validation", func(c *gin.Context) {
		c.Error(&service.ValidationError{Field: "stars", Message: "out of range", Err: service.ErrStarsOutOfRange})
	})
	router.GET("/internal", func(c *gin.Context) {
		c.Error(errors.New("secret detail"))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/store", nil))
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), `"alert":"`+StoreAlert+`"`)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/validation", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"stars"`)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/internal", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "secret detail")
}

func TestRequireIdentity(t *testing.T) {
	handler := func(c *gin.Context) { c.String(http.StatusOK, c.GetString(ContextUserID)) }

	router := gin.New()
	router.GET("/out", RequireIdentity(fixedUser{}), handler)
	router.GET("/in", RequireIdentity(fixedUser{id: &identity.Identity{UID: "u1"}}), handler)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/out", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/in", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", w.Body.String())
}

func TestCORS(t *testing.T) {
	router := gin.New()
	router.Use(CORS([]string{"http://localhost:4200"}))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "http://localhost:4200")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "http://localhost:4200", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	rl := NewRateLimiter(client, RateLimitConfig{Window: time.Hour, Limit: 2, KeyPrefix: "test"})
	router := gin.New()
	router.POST("/comments", RequireIdentity(fixedUser{id: &identity.Identity{UID: "u1"}}), rl.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/comments", nil))
		codes = append(codes, w.Code)
	}
	require.Len(t, codes, 3)
	assert.Equal(t, []int{http.StatusCreated, http.StatusCreated, http.StatusTooManyRequests}, codes)
}
