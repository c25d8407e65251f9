package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupServer(t *testing.T) {
	srv := SetupServer("127.0.0.1:0")
	CommandTotal.WithLabelValues("discord", "roast").Inc()
	FallbackTotal.WithLabelValues("roast", "disabled").Inc()

	ts := httptest.NewServer(srv.Handler)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(body))

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `roastbot_command_total{command="roast",platform="discord"}`)
	assert.Contains(t, string(body), "roastbot_fallback_total")
	assert.Contains(t, string(body), "roastbot_messages_sent")
}
