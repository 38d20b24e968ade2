package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/cookbook/config"
	"github.com/pageza/cookbook/internal/cache"
	"github.com/pageza/cookbook/internal/testutil"
)

// setupTestRouter builds a fully wired router over an in-memory SQLite
// database and memory cache store, mirroring the production wiring in
// SetupAPI.
func setupTestRouter(t *testing.T, cacheEnabled bool) (*gin.Engine, *gorm.DB, cache.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	store := cache.NewMemoryStore(time.Minute)
	cfg := &config.Config{
		CacheBackend:    config.CacheBackendMemory,
		CacheTTLSeconds: 60,
		CacheEnabled:    cacheEnabled,
	}

	router := gin.New()
	router.SetHTMLTemplate(PageTemplates())
	SetupAPI(router, db, store, cfg)
	return router, db, store
}

// performRequest runs a request through the router, JSON-encoding body
// when one is given.
func performRequest(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
