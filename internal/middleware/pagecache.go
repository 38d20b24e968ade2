// Package middleware holds the gin middleware the server composes
// around its routes.
package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/cookbook/internal/cache"
	"github.com/pageza/cookbook/internal/logger"
)

// cachedPage is the stored form of a rendered response.
type cachedPage struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// PageCache serves GET responses from the store and fills it after a
// miss. Only 200 responses are cached. Concurrent misses each render
// and write; the last writer wins.
func PageCache(store cache.Store, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := pageKey(c.Request.URL.Path)
		data, err := store.Get(c.Request.Context(), key)
		if err == nil {
			var page cachedPage
			if err := json.Unmarshal(data, &page); err == nil {
				c.Data(page.Status, page.ContentType, page.Body)
				c.Abort()
				return
			}
			// Undecodable entry: drop it and re-render.
			_ = store.Delete(c.Request.Context(), key)
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		rec := &pageRecorder{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = rec
		c.Next()

		if rec.Status() != http.StatusOK {
			return
		}
		payload, err := json.Marshal(cachedPage{
			Status:      rec.Status(),
			ContentType: rec.Header().Get("Content-Type"),
			Body:        rec.body.Bytes(),
		})
		if err != nil {
			return
		}
		// The response has already been written; a failed fill only
		// costs the next request a render.
		if err := store.Set(c.Request.Context(), key, payload, ttl); err != nil {
			logger.Warn("page cache fill failed", zap.String("key", key), zap.Error(err))
		}
	}
}

func pageKey(path string) string {
	return "page:" + path
}

// pageRecorder duplicates everything written to the response into a
// buffer so the rendered page can be cached afterwards.
type pageRecorder struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (r *pageRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *pageRecorder) WriteString(s string) (int, error) {
	r.body.WriteString(s)
	return r.ResponseWriter.WriteString(s)
}
