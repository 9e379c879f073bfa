package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&strings.Builder{}, nil))
}

func TestHandleStatus_ServesLatestSnapshot(t *testing.T) {
	eng := &engine{log: testLogger(), hub: newHub(testLogger())}
	eng.publish(Status{TotalSteps: 42, StepsLastHour: 17, ActivityLevel: "sedentary"})

	rec := httptest.NewRecorder()
	eng.handleStatus(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var got Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.EqualValues(t, 42, got.TotalSteps)
	assert.EqualValues(t, 17, got.StepsLastHour)
	assert.Equal(t, "sedentary", got.ActivityLevel)
}

func TestHub_BroadcastReachesClient(t *testing.T) {
	hub := newHub(testLogger())
	srv := httptest.NewServer(http.HandlerFunc(hub.handleWS))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	// Registration happens on the server goroutine; keep broadcasting until
	// the frame comes through.
	payload := []byte(`{"total_steps":7}`)
	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				hub.Broadcast(payload)
			}
		}
	}()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	kind, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.TextMessage, kind)
	assert.Equal(t, payload, msg)
}
