package authkit

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"
)

// gatedSink blocks deliveries until released, for backpressure tests.
type gatedSink struct {
	started chan struct{}
	release chan struct{}
}

func newGatedSink() *gatedSink {
	return &gatedSink{
		started: make(chan struct{}, 16),
		release: make(chan struct{}),
	}
}

func (s *gatedSink) Emit(_ context.Context, _ AuditEvent) {
	s.started <- struct{}{}
	<-s.release
}

func TestAuditEngineEmitsLoginEvents(t *testing.T) {
	sink := NewChannelSink(32)

	cfg := testConfig()
	cfg.Audit.Enabled = true

	engine, err := New().WithConfig(cfg).WithAuditSink(sink).Build()
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}

	seedAccount(t, engine, "sita@example.com", RoleSeller)
	if _, _, err := engine.Login(context.Background(), Credentials{
		Email:    "sita@example.com",
		Password: "Password1!",
	}); err != nil {
		t.Fatalf("Login error: %v", err)
	}

	// Close drains the dispatcher so every queued event reaches the sink.
	engine.Close()

	var sawSignup, sawLogin bool
	for {
		select {
		case event := <-sink.Events():
			switch event.EventType {
			case EventSignupSuccess:
				sawSignup = true
			case EventLoginSuccess:
				sawLogin = true
				if event.UserID == "" || event.Role != string(RoleSeller) {
					t.Errorf("login event incomplete: %+v", event)
				}
				if !event.Success {
					t.Error("login event must be marked successful")
				}
			}
		default:
			if !sawSignup || !sawLogin {
				t.Fatalf("missing events: signup=%v login=%v", sawSignup, sawLogin)
			}
			return
		}
	}
}

func TestAuditDisabledEmitsNothing(t *testing.T) {
	sink := NewChannelSink(8)

	cfg := testConfig()
	cfg.Audit.Enabled = false

	engine, err := New().WithConfig(cfg).WithAuditSink(sink).Build()
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	seedAccount(t, engine, "sita@example.com", RoleBuyer)
	engine.Close()

	select {
	case event := <-sink.Events():
		t.Fatalf("unexpected event: %+v", event)
	default:
	}
	if engine.AuditDropped() != 0 {
		t.Fatal("disabled audit must not count drops")
	}
}

func TestAuditDispatcherDropsWhenFull(t *testing.T) {
	sink := newGatedSink()
	d := newAuditDispatcher(AuditConfig{
		Enabled:    true,
		BufferSize: 1,
		DropIfFull: true,
	}, sink)

	// First event reaches the sink and blocks the worker there.
	d.Emit(context.Background(), AuditEvent{EventType: "one"})
	select {
	case <-sink.started:
	case <-time.After(time.Second):
		t.Fatal("worker never delivered the first event")
	}

	// Second fills the buffer, third has nowhere to go.
	d.Emit(context.Background(), AuditEvent{EventType: "two"})
	d.Emit(context.Background(), AuditEvent{EventType: "three"})

	if got := d.Dropped(); got != 1 {
		t.Fatalf("dropped = %d, want 1", got)
	}

	close(sink.release)
	d.Close()
}

func TestAuditDispatcherCloseDrains(t *testing.T) {
	sink := NewChannelSink(16)
	d := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 16}, sink)

	for i := 0; i < 5; i++ {
		d.Emit(context.Background(), AuditEvent{EventType: EventLogout})
	}
	d.Close()

	var delivered int
	for {
		select {
		case <-sink.Events():
			delivered++
		default:
			if delivered != 5 {
				t.Fatalf("delivered = %d, want 5", delivered)
			}
			return
		}
	}
}

func TestAuditDispatcherEmitAfterClose(t *testing.T) {
	sink := NewChannelSink(4)
	d := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 4}, sink)
	d.Close()

	d.Emit(context.Background(), AuditEvent{EventType: EventLogout})

	select {
	case event := <-sink.Events():
		t.Fatalf("event delivered after close: %+v", event)
	default:
	}
}

func TestJSONWriterSinkFormat(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONWriterSink(&buf)

	sink.Emit(context.Background(), AuditEvent{
		EventType: EventAccessDecision,
		UserID:    "u-1",
		Success:   true,
		Metadata:  map[string]string{"decision": "allow"},
	})

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON line: %v", err)
	}
	if decoded["event_type"] != EventAccessDecision {
		t.Fatalf("event_type = %v", decoded["event_type"])
	}
	if decoded["user_id"] != "u-1" {
		t.Fatalf("user_id = %v", decoded["user_id"])
	}
}
