package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/dashpratyush277/hrms-1/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestIdempotency(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("first request runs the handler and caches the response", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()

		r := gin.New()
		handled := 0
		r.POST("/leave-applications", middleware.Idempotency(rdb), func(c *gin.Context) {
			handled++
			resp := gin.H{"id": "abc"}
			c.Set("idempotency_response", resp)
			c.JSON(http.StatusCreated, resp)
		})

		cacheKey := "idemp:/leave-applications::key-1"
		lockKey := cacheKey + ":lock"
		payload, _ := json.Marshal(gin.H{"id": "abc"})

		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(true)
		mock.ExpectSet(cacheKey, payload, 24*time.Hour).SetVal("OK")
		mock.ExpectDel(lockKey).SetVal(1)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leave-applications", nil)
		req.Header.Set("Idempotency-Key", "key-1")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 1, handled)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("replay is served from cache without the handler", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()

		r := gin.New()
		handled := 0
		r.POST("/leave-applications", middleware.Idempotency(rdb), func(c *gin.Context) {
			handled++
			c.JSON(http.StatusCreated, gin.H{"id": "abc"})
		})

		cacheKey := "idemp:/leave-applications::key-1"
		mock.ExpectGet(cacheKey).SetVal(`{"id":"abc"}`)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leave-applications", nil)
		req.Header.Set("Idempotency-Key", "key-1")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"id":"abc"`)
		assert.Zero(t, handled)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("concurrent duplicate is rejected while the lock is held", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()

		r := gin.New()
		r.POST("/leave-applications", middleware.Idempotency(rdb), func(c *gin.Context) {
			c.JSON(http.StatusCreated, gin.H{})
		})

		cacheKey := "idemp:/leave-applications::key-1"
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(cacheKey+":lock", "locked", 30*time.Second).SetVal(false)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leave-applications", nil)
		req.Header.Set("Idempotency-Key", "key-1")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "PROCESSING")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("requests without a key pass straight through", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()

		r := gin.New()
		handled := 0
		r.POST("/leave-applications", middleware.Idempotency(rdb), func(c *gin.Context) {
			handled++
			c.JSON(http.StatusCreated, gin.H{})
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/leave-applications", nil))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 1, handled)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")

	signToken := func(t *testing.T, claims jwt.MapClaims) string {
		t.Helper()
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		signed, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
		assert.NoError(t, err)
		return signed
	}

	t.Run("valid token populates the request identity", func(t *testing.T) {
		tenantID := uuid.New().String()
		employeeID := uuid.New().String()

		r := gin.New()
		r.GET("/me", middleware.AuthMiddleware(), func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"tenant_id":   c.GetString("tenant_id"),
				"employee_id": c.GetString("employee_id"),
				"role":        c.GetString("role"),
			})
		})

		token := signToken(t, jwt.MapClaims{
			"user_id":     uuid.New().String(),
			"tenant_id":   tenantID,
			"employee_id": employeeID,
			"role":        "MANAGER",
			"exp":         time.Now().Add(time.Hour).Unix(),
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), tenantID)
		assert.Contains(t, w.Body.String(), "MANAGER")
	})

	t.Run("missing token", func(t *testing.T) {
		r := gin.New()
		r.GET("/me", middleware.AuthMiddleware(), func(c *gin.Context) {})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{
			"user_id":     uuid.New().String(),
			"tenant_id":   uuid.New().String(),
			"employee_id": uuid.New().String(),
			"exp":         time.Now().Add(-time.Hour).Unix(),
		})

		r := gin.New()
		r.GET("/me", middleware.AuthMiddleware(), func(c *gin.Context) {})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "TOKEN_EXPIRED")
	})

	t.Run("token missing tenant claim", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{
			"user_id":     uuid.New().String(),
			"employee_id": uuid.New().String(),
			"exp":         time.Now().Add(time.Hour).Unix(),
		})

		r := gin.New()
		r.GET("/me", middleware.AuthMiddleware(), func(c *gin.Context) {})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRateLimitByIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/ping", middleware.RateLimitByIP(1, 1), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w1 := httptest.NewRecorder()
	r.ServeHTTP(w1, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w1.Code)

	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusTooManyRequests, w2.Code)
}

func TestRBACAuthorize(t *testing.T) {
	gin.SetMode(gin.TestMode)

	allow := func(role, resource, action string) (bool, error) {
		return role == "MANAGER" && resource == "leave" && action == "approve", nil
	}

	r := gin.New()
	r.POST("/approve", func(c *gin.Context) {
		c.Set("role", c.GetHeader("X-Test-Role"))
	}, middleware.RBACAuthorize(enforceFunc(allow), "leave", "approve"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/approve", nil)
	req.Header.Set("X-Test-Role", "MANAGER")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodPost, "/approve", nil)
	req2.Header.Set("X-Test-Role", "EMPLOYEE")
	r.ServeHTTP(w2, req2)
	assert.Equal(t, http.StatusForbidden, w2.Code)
}

type enforceFunc func(role, resource, action string) (bool, error)

func (f enforceFunc) Enforce(role, resource, action string) (bool, error) {
	return f(role, resource, action)
}
