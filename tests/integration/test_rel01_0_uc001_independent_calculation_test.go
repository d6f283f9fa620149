// Integration tests for independent-mode calculation over HTTP.
// Implements: test-rel01.0-uc001-independent-calculation;
//
//	rel01.0-uc001-independent-calculation S1-S6.
package integration

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndependentCalculation_EndToEnd(t *testing.T) {
	env := newTestEnv(t)
	srv := env.startServer(t)

	t.Run("health reports OK", func(t *testing.T) {
		status, body := srv.doJSON(http.MethodGet, "/calculator/health", nil)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, `"OK"`, strings.TrimSpace(string(body)))
	})

	t.Run("calculates plus", func(t *testing.T) {
		status, body := srv.doJSON(http.MethodPost, "/calculator/independent/calculate",
			map[string]any{"arguments": []int64{3, 4}, "operation": "plus"})
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, float64(7), resultOf(t, body))
	})

	t.Run("operation name is case-insensitive", func(t *testing.T) {
		status, body := srv.doJSON(http.MethodPost, "/calculator/independent/calculate",
			map[string]any{"arguments": []int64{2, 10}, "operation": "PoW"})
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, float64(1024), resultOf(t, body))
	})

	t.Run("unknown operation is a conflict", func(t *testing.T) {
		status, body := srv.doJSON(http.MethodPost, "/calculator/independent/calculate",
			map[string]any{"arguments": []int64{1, 2}, "operation": "Modulo"})
		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, "Error: unknown operation: Modulo", errorMessageOf(t, body))
	})

	t.Run("too few arguments is a conflict", func(t *testing.T) {
		status, body := srv.doJSON(http.MethodPost, "/calculator/independent/calculate",
			map[string]any{"arguments": []int64{1}, "operation": "plus"})
		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, "Error: Not enough arguments to perform the operation plus", errorMessageOf(t, body))
	})

	t.Run("division by zero is a conflict", func(t *testing.T) {
		status, body := srv.doJSON(http.MethodPost, "/calculator/independent/calculate",
			map[string]any{"arguments": []int64{8, 0}, "operation": "divide"})
		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, "Error while performing operation Divide: division by 0", errorMessageOf(t, body))
	})

	t.Run("malformed body is a bad request", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPost,
			srv.BaseURL+"/calculator/independent/calculate", strings.NewReader("not json"))
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("responses carry a correlation id", func(t *testing.T) {
		resp, err := http.Get(srv.BaseURL + "/calculator/health")
		require.NoError(t, err)
		resp.Body.Close()
		assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	})
}
