package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Idempotency caches POST responses keyed by the Idempotency-Key header
// and holds a short redis lock while the first request is in flight, so
// a retried apply cannot create two applications.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader("Idempotency-Key")
		if idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		employeeID := c.GetString("employee_id")
		cacheKey := fmt.Sprintf("idemp:%s:%s:%s", c.FullPath(), employeeID, idempKey)
		lockKey := cacheKey + ":lock"

		if val, err := rdb.Get(c.Request.Context(), cacheKey).Result(); err == nil {
			var cached any
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				c.AbortWithStatusJSON(http.StatusOK, gin.H{"ok": true, "data": cached})
				return
			}
		}

		// Short expiry so a crashed server cannot wedge the key forever.
		isNew, _ := rdb.SetNX(c.Request.Context(), lockKey, "locked", 30*time.Second).Result()
		if !isNew {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"code":    "PROCESSING",
				"message": "A request with this idempotency key is already in progress",
			})
			return
		}

		c.Set("idempotency_cache_key", cacheKey)
		c.Set("idempotency_lock_key", lockKey)

		c.Next()

		// Cache the response body on success; best effort.
		if c.Writer.Status() < 300 {
			if body, exists := c.Get("idempotency_response"); exists {
				if payload, err := json.Marshal(body); err == nil {
					rdb.Set(c.Request.Context(), cacheKey, payload, 24*time.Hour)
				}
			}
		}
		rdb.Del(c.Request.Context(), lockKey)
	}
}
