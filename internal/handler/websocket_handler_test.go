package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/HoussamEddineSmati/SpendKiler/internal/websocket"
	ws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAllowedOrigins = []string{"http://localhost:3000", "https://spendkiler.app"}

func TestWebSocketHandler_CheckOrigin(t *testing.T) {
	h := NewWebSocketHandler(websocket.NewHub(), testAllowedOrigins)

	tests := []struct {
		origin   string
		expected bool
	}{
		{"", true},
		{"http://localhost:3000", true},
		{"https://spendkiler.app", true},
		{"https://evil.example", false},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/ws", nil)
		if tt.origin != "" {
			req.Header.Set("Origin", tt.origin)
		}
		assert.Equal(t, tt.expected, h.checkOrigin(req), "origin %q", tt.origin)
	}
}

func TestWebSocketHandler_HandleWS_NoUpgrade(t *testing.T) {
	e := echo.New()
	h := NewWebSocketHandler(websocket.NewHub(), testAllowedOrigins)

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// gorilla/websocket rejects requests without upgrade headers
	err := h.HandleWS(c)
	assert.Error(t, err)
}

func TestWebSocketHandler_HandleWS_RegistersClient(t *testing.T) {
	e := echo.New()
	hub := websocket.NewHub()
	h := NewWebSocketHandler(hub, testAllowedOrigins)
	e.GET("/ws", h.HandleWS)

	server := httptest.NewServer(e)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := ws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	assert.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	hub.Publish(websocket.ReminderDue(map[string]string{"message": "log today"}))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"reminder.due"`)
}
