package model

import (
	"testing"
	"time"
)

func TestSessionModel_BasicLifecycle(t *testing.T) {
	m := NewSessionModel()
	base := time.Unix(0, 0)

	m.OnTick(true, base)
	m.OnTick(true, base.Add(5*time.Second))
	run, total := m.Values()
	if run != 5*time.Second || total != 5*time.Second {
		t.Fatalf("expected 5s run & total; got run=%v total=%v", run, total)
	}

	m.OnTick(false, base.Add(5*time.Second))
	run, total = m.Values()
	if run != 5*time.Second || total != 5*time.Second {
		t.Fatalf("after stop expected persisted 5s; got run=%v total=%v", run, total)
	}

	// Idle ticks change nothing.
	m.OnTick(false, base.Add(7*time.Second))
	run2, total2 := m.Values()
	if run2 != run || total2 != total {
		t.Fatalf("idle tick changed durations: %v/%v -> %v/%v", run, total, run2, total2)
	}

	m.OnTick(true, base.Add(10*time.Second))
	m.OnTick(true, base.Add(13*time.Second))
	run3, total3 := m.Values()
	if run3 != 3*time.Second || total3 != 8*time.Second {
		t.Fatalf("second run expected 3s/8s, got %v/%v", run3, total3)
	}

	m.OnTick(false, base.Add(13*time.Second))
	if r, tot := m.Values(); r != 3*time.Second || tot != 8*time.Second {
		t.Fatalf("final expected 3s/8s got %v/%v", r, tot)
	}
}

func TestSessionModel_NilSafe(t *testing.T) {
	var m *SessionModel
	m.OnTick(true, time.Now())
	if r, tot := m.Values(); r != 0 || tot != 0 {
		t.Fatalf("nil model must report zero")
	}
}
