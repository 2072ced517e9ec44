package notify

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-mol/engine/scene"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestSelectionBroadcast(t *testing.T) {
	h := NewHub()
	defer h.Close()
	srv := httptest.NewServer(h)
	defer srv.Close()

	a, b := dial(t, srv), dial(t, srv)
	require.Eventually(t, func() bool { return h.ClientCount() == 2 }, time.Second, 5*time.Millisecond)

	h.SelectionChanged([]int{3, 1})

	for _, conn := range []*websocket.Conn{a, b} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		var ev Event
		require.NoError(t, conn.ReadJSON(&ev))
		assert.Equal(t, EventSelectionChanged, ev.Type)
		assert.Equal(t, []int{3, 1}, ev.Selected)
		assert.False(t, ev.Time.IsZero())
	}
}

func TestSceneReadyCountsAtoms(t *testing.T) {
	h := NewHub()
	defer h.Close()
	srv := httptest.NewServer(h)
	defer srv.Close()

	conn := dial(t, srv)
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	h.SceneReady(scene.NewScene())
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, EventSceneReady, ev.Type)
	assert.Zero(t, ev.Atoms)
}

func TestClickCommand(t *testing.T) {
	var (
		mu  sync.Mutex
		got []int
	)
	h := NewHub(WithClickHandler(func(serial int) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, serial)
	}))
	defer h.Close()
	srv := httptest.NewServer(h)
	defer srv.Close()

	conn := dial(t, srv)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	require.NoError(t, conn.WriteJSON(Command{Type: "wave"}))
	require.NoError(t, conn.WriteJSON(Command{Type: CommandClick, Serial: 7}))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1 && got[0] == 7
	}, time.Second, 5*time.Millisecond)
}

func TestClientDisconnectIsDropped(t *testing.T) {
	h := NewHub()
	defer h.Close()
	srv := httptest.NewServer(h)
	defer srv.Close()

	conn := dial(t, srv)
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 5*time.Millisecond)
	conn.Close()
	require.Eventually(t, func() bool { return h.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
}

func TestPublishAfterClose(t *testing.T) {
	h := NewHub()
	h.Close()
	h.Close()
	assert.Error(t, h.Publish(context.Background(), Event{Type: EventSelectionChanged}))
}

func TestCloseWhileClientsConnect(t *testing.T) {
	h := NewHub()
	srv := httptest.NewServer(h)
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			conn, _, err := websocket.DefaultDialer.Dial(url, nil)
			if err != nil {
				return
			}
			defer conn.Close()
			_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
			_, _, _ = conn.ReadMessage()
		}()
	}

	closed := make(chan struct{})
	go func() {
		h.Close()
		close(closed)
	}()
	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not return while clients were connecting")
	}

	late := dial(t, srv)
	require.NoError(t, late.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := late.ReadMessage()
	assert.Error(t, err, "connections after Close are dropped")
	assert.Zero(t, h.ClientCount())

	wg.Wait()
}
