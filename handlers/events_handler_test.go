package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"habitTrackerAPI/middleware"
	"habitTrackerAPI/services"
)

func TestEventsSocketReceivesOwnEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := services.NewEventHub()
	go hub.Run(ctx)

	h := NewEventsHandler(hub)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.Connect(w, r.WithContext(middleware.WithClerkID(r.Context(), testClerkID)))
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Publish("someone_else", services.Event{Type: services.EventGoalsChanged})
	hub.Publish(testClerkID, services.Event{Type: services.EventHabitsChanged})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var ev services.Event
	require.NoError(t, json.Unmarshal(msg, &ev))
	assert.Equal(t, services.EventHabitsChanged, ev.Type)
	assert.False(t, ev.At.IsZero())
}

func TestEventsSocketRequiresAuth(t *testing.T) {
	h := NewEventsHandler(services.NewEventHub())

	rr := doRequest(t, http.HandlerFunc(h.Connect), http.MethodGet, "/events/ws", nil, "")

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
