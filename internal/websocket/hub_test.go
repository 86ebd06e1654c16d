package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func startHub(t *testing.T, secret []byte) (*Hub, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub(zap.NewNop())
	done := make(chan struct{})
	t.Cleanup(func() { close(done) })
	go hub.Run(done)

	r := gin.New()
	r.GET("/ws", func(c *gin.Context) { ServeWs(hub, c, secret) })
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return hub, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token="
}

func dial(t *testing.T, url string, secret []byte, sub string) *websocket.Conn {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": sub}).SignedString(secret)
	require.NoError(t, err)
	conn, _, err := websocket.DefaultDialer.Dial(url+tok, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestHub_PublishReachesOnlyOwner(t *testing.T) {
	secret := []byte("ws-secret")
	hub, url := startHub(t, secret)

	owner, other := uuid.New(), uuid.New()
	ownerConn := dial(t, url, secret, owner.String())
	otherConn := dial(t, url, secret, other.String())

	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, 2*time.Second, 10*time.Millisecond)

	hub.Publish(owner, "calculation_log.saved", map[string]string{"id": "abc"})

	require.NoError(t, ownerConn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := ownerConn.ReadMessage()
	require.NoError(t, err)

	var ev struct {
		Event string            `json:"event"`
		Data  map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(msg, &ev))
	assert.Equal(t, "calculation_log.saved", ev.Event)
	assert.Equal(t, "abc", ev.Data["id"])

	require.NoError(t, otherConn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err = otherConn.ReadMessage()
	assert.Error(t, err, "another user's connection must not receive the event")
}

func TestServeWs_RejectsBadToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	secret := []byte("secret")
	hub := NewHub(zap.NewNop())

	r := gin.New()
	r.GET("/ws", func(c *gin.Context) { ServeWs(hub, c, secret) })

	notUUID, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u1"}).SignedString(secret)
	require.NoError(t, err)

	for _, q := range []string{"", "?token=garbage", "?token=" + notUUID} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ws"+q, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, q)
	}
}

func TestHub_StopReleasesConnections(t *testing.T) {
	gin.SetMode(gin.TestMode)
	secret := []byte("ws-secret")

	hub := NewHub(zap.NewNop())
	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		hub.Run(done)
		close(stopped)
	}()

	r := gin.New()
	r.GET("/ws", func(c *gin.Context) { ServeWs(hub, c, secret) })
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token="

	before := dial(t, url, secret, uuid.New().String())
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	close(done)
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop")
	}

	require.NoError(t, before.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := before.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived, websocket.CloseAbnormalClosure), "got %v", err)

	// a connection upgraded after the hub stopped is closed instead of hanging
	after := dial(t, url, secret, uuid.New().String())
	require.NoError(t, after.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = after.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
	assert.Zero(t, hub.ClientCount())

	finished := make(chan struct{})
	go func() {
		hub.detach(&Client{hub: hub, userID: uuid.New()})
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("detach blocked after the hub stopped")
	}
}

func TestHub_PublishWithoutClientsDoesNotBlock(t *testing.T) {
	hub := NewHub(zap.NewNop())
	for i := 0; i < 100; i++ {
		hub.Publish(uuid.New(), "noop", i)
	}
	assert.Zero(t, hub.ClientCount())
}
