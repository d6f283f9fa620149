// Integration tests for dual-store persistence: every calculation lands on
// both tapes under one shared identifier, and history can be served from
// either store by name.
// Implements: test-rel01.1-uc002-dual-store-history;
//
//	rel01.1-uc002-dual-store-history S1-S5.
package integration

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDualStoreHistory_SharedIdentifiers(t *testing.T) {
	env := newTestEnv(t)
	srv := env.startServer(t)

	// One independent calculation, then one stack calculation.
	status, _ := srv.doJSON(http.MethodPost, "/calculator/independent/calculate",
		map[string]any{"arguments": []int64{10, 4}, "operation": "minus"})
	require.Equal(t, http.StatusOK, status)

	status, _ = srv.doJSON(http.MethodPut, "/calculator/stack/arguments",
		map[string]any{"arguments": []int64{2, 5}})
	require.Equal(t, http.StatusOK, status)
	status, body := srv.doJSON(http.MethodGet, "/calculator/stack/operate?operation=pow", nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, float64(25), resultOf(t, body))

	status, body = srv.doJSON(http.MethodGet, "/calculator/history?persistenceMethod=SQLITE", nil)
	require.Equal(t, http.StatusOK, status)
	fromSQL := records(t, body)
	require.Len(t, fromSQL, 2)

	status, body = srv.doJSON(http.MethodGet, "/calculator/history?persistenceMethod=PEBBLE", nil)
	require.Equal(t, http.StatusOK, status)
	fromDoc := records(t, body)
	require.Len(t, fromDoc, 2)

	// Identifiers are assigned by the relational tape and mirrored verbatim
	// into the document tape.
	for i := range fromSQL {
		assert.Equal(t, float64(i+1), fromSQL[i]["id"])
		assert.Equal(t, fromSQL[i]["id"], fromDoc[i]["id"])
		assert.Equal(t, fromSQL[i]["operation"], fromDoc[i]["operation"])
		assert.Equal(t, fromSQL[i]["result"], fromDoc[i]["result"])
	}

	// Save order is request order: the independent calculation came first.
	assert.Equal(t, "INDEPENDENT", fromSQL[0]["flavor"])
	assert.Equal(t, "minus", fromSQL[0]["operation"])
	assert.Equal(t, "STACK", fromSQL[1]["flavor"])
	assert.Equal(t, []any{float64(5), float64(2)}, fromSQL[1]["arguments"])
	assert.Equal(t, float64(25), fromSQL[1]["result"])
}

func TestDualStoreHistory_MethodSelection(t *testing.T) {
	env := newTestEnv(t)
	srv := env.startServer(t)

	status, _ := srv.doJSON(http.MethodPost, "/calculator/independent/calculate",
		map[string]any{"arguments": []int64{6, 7}, "operation": "times"})
	require.Equal(t, http.StatusOK, status)
	status, _ = srv.doJSON(http.MethodPut, "/calculator/stack/arguments",
		map[string]any{"arguments": []int64{3, 4}})
	require.Equal(t, http.StatusOK, status)
	status, _ = srv.doJSON(http.MethodGet, "/calculator/stack/operate?operation=plus", nil)
	require.Equal(t, http.StatusOK, status)

	t.Run("tape history filters by flavor", func(t *testing.T) {
		status, body := srv.doJSON(http.MethodGet,
			"/calculator/history?persistenceMethod=PEBBLE&flavor=stack", nil)
		require.Equal(t, http.StatusOK, status)

		recs := records(t, body)
		require.Len(t, recs, 1)
		assert.Equal(t, "plus", recs[0]["operation"])
		assert.Equal(t, float64(7), recs[0]["result"])
	})

	t.Run("unknown persistence method yields an empty list", func(t *testing.T) {
		status, body := srv.doJSON(http.MethodGet, "/calculator/history?persistenceMethod=MONGO", nil)
		require.Equal(t, http.StatusOK, status)
		assert.Empty(t, records(t, body))
	})

	t.Run("persistence method match is case-sensitive", func(t *testing.T) {
		status, body := srv.doJSON(http.MethodGet, "/calculator/history?persistenceMethod=sqlite", nil)
		require.Equal(t, http.StatusOK, status)
		assert.Empty(t, records(t, body))
	})
}
