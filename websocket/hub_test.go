package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub(checker FriendChecker) *Hub {
	h := NewHub(checker)
	go h.Run()
	return h
}

func registerTestClient(h *Hub, id, userID string) *Client {
	c := &Client{
		ID:     id,
		UserID: userID,
		Hub:    h,
		Send:   make(chan []byte, 8),
	}
	h.register <- c
	waitFor(func() bool {
		h.mu.RLock()
		defer h.mu.RUnlock()
		return h.clients[id] == c
	})
	return c
}

func waitFor(cond func() bool) {
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
}

func receive(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case data := <-c.Send:
		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	case <-time.After(time.Second):
		t.Fatal("no message received")
		return Message{}
	}
}

func TestHubRegisterAndOnline(t *testing.T) {
	h := newTestHub(nil)

	assert.False(t, h.IsOnline("alice"))
	c := registerTestClient(h, "c1", "alice")
	assert.True(t, h.IsOnline("alice"))

	h.unregister <- c
	waitFor(func() bool { return !h.IsOnline("alice") })
	assert.False(t, h.IsOnline("alice"))
}

func TestSendToUserReachesAllConnections(t *testing.T) {
	h := newTestHub(nil)

	first := registerTestClient(h, "c1", "alice")
	second := registerTestClient(h, "c2", "alice")

	h.SendToUser("alice", &Message{Event: "friend.request"})

	assert.Equal(t, "friend.request", receive(t, first).Event)
	assert.Equal(t, "friend.request", receive(t, second).Event)
}

func TestRelayCallSignalBetweenFriends(t *testing.T) {
	h := newTestHub(func(a, b string) (bool, error) { return true, nil })

	caller := registerTestClient(h, "c1", "alice")
	callee := registerTestClient(h, "c2", "bob")

	caller.relayCallSignal(&ClientMessage{Action: "call.invite", To: "bob"})

	msg := receive(t, callee)
	assert.Equal(t, "call.invite", msg.Event)
	data := msg.Data.(map[string]interface{})
	assert.Equal(t, "alice", data["from"])
	assert.Equal(t, "alice:bob", data["channel_id"])
}

func TestRelayCallSignalBlockedForNonFriends(t *testing.T) {
	h := newTestHub(func(a, b string) (bool, error) { return false, nil })

	caller := registerTestClient(h, "c1", "alice")
	stranger := registerTestClient(h, "c2", "mallory")

	caller.relayCallSignal(&ClientMessage{Action: "call.invite", To: "mallory"})

	select {
	case <-stranger.Send:
		t.Fatal("signal relayed to a non-friend")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestRelayCallSignalIgnoresSelf(t *testing.T) {
	h := newTestHub(func(a, b string) (bool, error) { return true, nil })

	caller := registerTestClient(h, "c1", "alice")

	caller.relayCallSignal(&ClientMessage{Action: "call.invite", To: "alice"})

	select {
	case <-caller.Send:
		t.Fatal("self-call should be dropped")
	case <-time.After(50 * time.Millisecond):
	}
}
