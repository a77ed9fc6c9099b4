package ws

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
)

func recvEvent(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case raw := <-c.send:
		var ev Event
		if err := json.Unmarshal(raw, &ev); err != nil {
			t.Fatalf("bad event payload: %v", err)
		}
		return ev
	default:
		t.Fatal("expected a buffered event")
	}
	return Event{}
}

func assertEmpty(t *testing.T, c *Client) {
	t.Helper()
	select {
	case raw := <-c.send:
		t.Fatalf("unexpected event: %s", raw)
	default:
	}
}

func TestHub_EmitToUser(t *testing.T) {
	hub := NewHub(nil)
	alice := uuid.New()
	bob := uuid.New()

	aliceClient := NewClient(hub, nil, alice)
	bobClient := NewClient(hub, nil, bob)
	hub.Register(aliceClient)
	hub.Register(bobClient)

	hub.EmitToUser(alice, "unread_count", map[string]int{"unread": 3})

	ev := recvEvent(t, aliceClient)
	if ev.Event != "unread_count" {
		t.Fatalf("unexpected event %q", ev.Event)
	}
	assertEmpty(t, bobClient)

	// Unknown recipients are dropped silently.
	hub.EmitToUser(uuid.New(), "unread_count", map[string]int{"unread": 1})
	assertEmpty(t, aliceClient)
	assertEmpty(t, bobClient)
}

func TestHub_EmitToUser_FansOutToAllConnections(t *testing.T) {
	hub := NewHub(nil)
	alice := uuid.New()

	laptop := NewClient(hub, nil, alice)
	phone := NewClient(hub, nil, alice)
	hub.Register(laptop)
	hub.Register(phone)

	hub.EmitToUser(alice, "notification_created", map[string]string{"title": "hi"})

	if ev := recvEvent(t, laptop); ev.Event != "notification_created" {
		t.Fatalf("unexpected event %q", ev.Event)
	}
	if ev := recvEvent(t, phone); ev.Event != "notification_created" {
		t.Fatalf("unexpected event %q", ev.Event)
	}
}

func TestHub_IsUserConnected(t *testing.T) {
	hub := NewHub(nil)
	alice := uuid.New()

	if hub.IsUserConnected(alice) {
		t.Fatal("no client registered yet")
	}

	client := NewClient(hub, nil, alice)
	hub.Register(client)
	if !hub.IsUserConnected(alice) {
		t.Fatal("expected connected after register")
	}

	hub.Unregister(client)
	if hub.IsUserConnected(alice) {
		t.Fatal("expected disconnected after unregister")
	}
	if hub.ClientCount() != 0 {
		t.Fatalf("expected empty hub, got %d clients", hub.ClientCount())
	}
}

func TestHub_ChannelSubscription(t *testing.T) {
	hub := NewHub(nil)
	member := NewClient(hub, nil, uuid.New())
	outsider := NewClient(hub, nil, uuid.New())
	hub.Register(member)
	hub.Register(outsider)

	channel := "conversation:" + uuid.NewString()
	hub.Subscribe(member, channel)

	hub.EmitToChannel(channel, "message_received", map[string]string{"body": "hello"})

	if ev := recvEvent(t, member); ev.Event != "message_received" {
		t.Fatalf("unexpected event %q", ev.Event)
	}
	assertEmpty(t, outsider)

	hub.Unsubscribe(member, channel)
	hub.EmitToChannel(channel, "message_received", map[string]string{"body": "again"})
	assertEmpty(t, member)
}

func TestHub_UnregisterRemovesChannelMembership(t *testing.T) {
	hub := NewHub(nil)
	client := NewClient(hub, nil, uuid.New())
	hub.Register(client)

	channel := "conversation:" + uuid.NewString()
	hub.Subscribe(client, channel)
	hub.Unregister(client)

	// No panic, no delivery: the membership died with the client.
	hub.EmitToChannel(channel, "message_received", map[string]string{"body": "late"})

	if _, open := <-client.send; open {
		t.Fatal("expected send channel closed on unregister")
	}
}
