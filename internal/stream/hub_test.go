package stream

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestHubBroadcast(t *testing.T) {
	hub := NewHub(nil)
	client := hub.Register("session-1")
	defer hub.Unregister(client)

	payload := []byte(`{"playback":1}`)
	hub.Broadcast("session-1", payload)

	select {
	case msg := <-client.Send:
		if string(msg) != `{"playback":1}` {
			t.Fatalf("unexpected message")
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("timeout waiting for message")
	}
}

func TestHubHelpers(t *testing.T) {
	ch := redisChannel("abc")
	if ch != "replay:abc:frames" {
		t.Fatalf("unexpected channel: %s", ch)
	}
	if sessionIDFromChannel(ch) != "abc" {
		t.Fatalf("unexpected session id")
	}
	if sessionIDFromChannel("bad") != "" {
		t.Fatalf("expected empty session id")
	}
}

func TestUnregisterCloses(t *testing.T) {
	hub := NewHub(nil)
	client := hub.Register("session-2")
	hub.Unregister(client)
	_, ok := <-client.Send
	if ok {
		t.Fatalf("expected channel closed")
	}
}

func TestHubRedisBroadcastAndSubscribe(t *testing.T) {
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer client.Close()

	hub := NewHub(client)
	viewer := hub.Register("session-redis")
	defer hub.Unregister(viewer)

	// give the subscriber a moment to attach before publishing
	time.Sleep(50 * time.Millisecond)

	hub.Broadcast("session-redis", []byte("frame"))

	select {
	case msg := <-viewer.Send:
		if string(msg) != "frame" {
			t.Fatalf("unexpected payload: %s", msg)
		}
	case <-time.After(time.Second):
		t.Fatalf("timeout waiting for broadcast")
	}
}

func TestBroadcastDropsWhenViewerSlow(t *testing.T) {
	hub := NewHub(nil)
	client := hub.Register("session-3")
	defer hub.Unregister(client)

	// fill the buffer past capacity; extra frames must be dropped, not block
	for i := 0; i < 200; i++ {
		hub.Broadcast("session-3", []byte("tick"))
	}
}
