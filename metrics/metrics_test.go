package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveExternal(t *testing.T) {
	ObserveExternal("test.ok", time.Now(), nil)
	ObserveExternal("test.fail", time.Now(), errors.New("boom"))
	ObserveExternal("test.fail", time.Now(), errors.New("boom"))

	assert.Equal(t, 2, testutil.CollectAndCount(ExternalLatency))
}

func TestHandlerExposesCounters(t *testing.T) {
	ChatTurns.WithLabelValues("collecting_info").Inc()

	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `appointly_assistant_chat_turns_total{status="collecting_info"}`)
}
