package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fsgate/fsgate/internal/fsops"
	"github.com/fsgate/fsgate/internal/infrastructure/monitoring"
	"github.com/fsgate/fsgate/internal/logging"
	"github.com/fsgate/fsgate/internal/providers"
	"github.com/fsgate/fsgate/internal/service"
)

func newTestRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	resolver, err := fsops.NewResolver(t.TempDir())
	require.NoError(t, err)

	registry := service.NewRegistry()
	require.NoError(t, registry.Register(providers.NewFilesystem(resolver, nil)))

	metrics := monitoring.NewMetricsWith(prometheus.NewRegistry())
	handlers := NewHandlers(registry, metrics, logging.NewNop(), resolver.Root())

	router := gin.New()
	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.GET("/services", handlers.Services)
	router.POST("/services/execute", handlers.Execute)
	return router, resolver.Root()
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
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
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	return w, parsed
}

func TestRootEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	w, body := doJSON(t, router, http.MethodGet, "/", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "fsgate", body["service"])
	assert.Equal(t, "running", body["status"])
}

func TestHealthEndpoint(t *testing.T) {
	router, root := newTestRouter(t)
	w, body := doJSON(t, router, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, root, body["allowed_root"])
}

func TestServicesEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	w, body := doJSON(t, router, http.MethodGet, "/services", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), body["count"])

	services, ok := body["services"].([]interface{})
	require.True(t, ok)
	require.Len(t, services, 1)
	svc := services[0].(map[string]interface{})
	assert.Equal(t, "filesystem", svc["id"])
}

func TestExecuteEndpoint(t *testing.T) {
	router, root := newTestRouter(t)

	t.Run("successful write", func(t *testing.T) {
		w, body := doJSON(t, router, http.MethodPost, "/services/execute", map[string]interface{}{
			"tool_id": "filesystem.write_file",
			"params":  map[string]interface{}{"path": "hello.txt", "content": "hi"},
		})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, body["request_id"])

		result := body["result"].(map[string]interface{})
		assert.Equal(t, true, result["success"])

		data, err := os.ReadFile(filepath.Join(root, "hello.txt"))
		require.NoError(t, err)
		assert.Equal(t, "hi", string(data))
	})

	t.Run("operation failure stays HTTP 200", func(t *testing.T) {
		w, body := doJSON(t, router, http.MethodPost, "/services/execute", map[string]interface{}{
			"tool_id": "filesystem.read_file",
			"params":  map[string]interface{}{"path": "absent.txt"},
		})
		assert.Equal(t, http.StatusOK, w.Code)

		result := body["result"].(map[string]interface{})
		assert.Equal(t, false, result["success"])
		errInfo := result["error"].(map[string]interface{})
		assert.Equal(t, "not_found", errInfo["kind"])
	})

	t.Run("traversal reported as permission denied", func(t *testing.T) {
		w, body := doJSON(t, router, http.MethodPost, "/services/execute", map[string]interface{}{
			"tool_id": "filesystem.read_file",
			"params":  map[string]interface{}{"path": "../escape"},
		})
		assert.Equal(t, http.StatusOK, w.Code)

		result := body["result"].(map[string]interface{})
		errInfo := result["error"].(map[string]interface{})
		assert.Equal(t, "permission_denied", errInfo["kind"])
	})

	t.Run("missing tool_id is a bad request", func(t *testing.T) {
		w, _ := doJSON(t, router, http.MethodPost, "/services/execute", map[string]interface{}{
			"params": map[string]interface{}{"path": "x"},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed body is a bad request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/services/execute", bytes.NewReader([]byte("{not json")))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
