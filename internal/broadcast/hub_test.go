package broadcast

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

	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/engine"
)

// startHub runs a hub behind an httptest server. Viewers pick their match
// with the "match" query parameter. An "initial" parameter sends a
// state_reverted emission with that seq before anything live.
func startHub(t *testing.T) (*Hub, string) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := NewHub(nil)
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		matchID := r.URL.Query().Get("match")
		var initial *engine.Emission
		if r.URL.Query().Has("initial") {
			initial = &engine.Emission{Kind: engine.EmitStateReverted, MatchID: matchID, Seq: 99}
		}
		if err := hub.Serve(ctx, w, r, matchID, initial); err != nil {
			t.Logf("serve: %v", err)
		}
	}))
	t.Cleanup(srv.Close)

	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEmission(t *testing.T, conn *websocket.Conn) engine.Emission {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var e engine.Emission
	require.NoError(t, json.Unmarshal(data, &e))
	return e
}

func TestHub_DeliversOnlyToViewersOfTheMatch(t *testing.T) {
	hub, url := startHub(t)
	m1 := dial(t, url+"?match=m1")
	m2 := dial(t, url+"?match=m2")

	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, hub.Publish(t.Context(), engine.Emission{Kind: engine.EmitBallApplied, MatchID: "m1", Seq: 4, Commentary: "0.1 dot"}))
	require.NoError(t, hub.Publish(t.Context(), engine.Emission{Kind: engine.EmitBallApplied, MatchID: "m1", Seq: 5}))

	first := readEmission(t, m1)
	assert.Equal(t, engine.EmitBallApplied, first.Kind)
	assert.Equal(t, int64(4), first.Seq)
	assert.Equal(t, "0.1 dot", first.Commentary)
	assert.Equal(t, int64(5), readEmission(t, m1).Seq)

	require.NoError(t, m2.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err := m2.ReadMessage()
	assert.Error(t, err, "m2 viewer must not see m1 emissions")
}

func TestHub_InitialMessageComesFirst(t *testing.T) {
	hub, url := startHub(t)
	conn := dial(t, url+"?match=m1&initial=1")

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, hub.Publish(t.Context(), engine.Emission{Kind: engine.EmitBallApplied, MatchID: "m1", Seq: 100}))

	initial := readEmission(t, conn)
	assert.Equal(t, engine.EmitStateReverted, initial.Kind)
	assert.Equal(t, int64(99), initial.Seq)
	assert.Equal(t, int64(100), readEmission(t, conn).Seq)
}

func TestHub_ViewerDisconnectUnregisters(t *testing.T) {
	hub, url := startHub(t)
	conn := dial(t, url+"?match=m1")
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_StoppedHubDoesNotBlock(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	assert.False(t, hub.Register(newClient("c1", "m1", nil, hub)))
	hub.Unregister(newClient("c2", "m1", nil, hub))
	assert.NoError(t, hub.Publish(context.Background(), engine.Emission{MatchID: "m1"}))
	assert.Equal(t, 0, hub.ClientCount())
}
