package watcher

import (
	"testing"
	"time"

	"snajper/internal/domain"
)

func receive(t *testing.T, ch <-chan domain.ChangeEvent, timeout time.Duration) (domain.ChangeEvent, bool) {
	t.Helper()
	select {
	case ev, ok := <-ch:
		return ev, ok
	case <-time.After(timeout):
		return domain.ChangeEvent{}, false
	}
}

func TestCoalescer_CollapsesBurst(t *testing.T) {
	c := NewCoalescer(50 * time.Millisecond)
	defer c.Close()

	for i := 0; i < 5; i++ {
		c.Add(domain.ChangeEvent{Path: "/repo/a.py", Kind: domain.Modified})
	}
	if c.Pending() != 1 {
		t.Errorf("expected 1 pending path, got %d", c.Pending())
	}

	ev, ok := receive(t, c.Events(), time.Second)
	if !ok {
		t.Fatal("expected a coalesced event")
	}
	if ev.Path != "/repo/a.py" || ev.Kind != domain.Modified {
		t.Errorf("unexpected event %+v", ev)
	}

	if extra, ok := receive(t, c.Events(), 150*time.Millisecond); ok {
		t.Errorf("burst should produce one event, got extra %+v", extra)
	}
}

func TestCoalescer_LatestKindWins(t *testing.T) {
	c := NewCoalescer(30 * time.Millisecond)
	defer c.Close()

	c.Add(domain.ChangeEvent{Path: "/repo/a.py", Kind: domain.Modified})
	c.Add(domain.ChangeEvent{Path: "/repo/a.py", Kind: domain.Deleted})

	ev, ok := receive(t, c.Events(), time.Second)
	if !ok {
		t.Fatal("expected an event")
	}
	if ev.Kind != domain.Deleted {
		t.Errorf("expected deleted, got %s", ev.Kind)
	}
}

func TestCoalescer_PathsAreIndependent(t *testing.T) {
	c := NewCoalescer(30 * time.Millisecond)
	defer c.Close()

	c.Add(domain.ChangeEvent{Path: "/repo/a.py"})
	c.Add(domain.ChangeEvent{Path: "/repo/b.py"})

	seen := make(map[string]bool)
	for i := 0; i < 2; i++ {
		ev, ok := receive(t, c.Events(), time.Second)
		if !ok {
			t.Fatalf("expected 2 events, got %d", i)
		}
		seen[ev.Path] = true
	}
	if !seen["/repo/a.py"] || !seen["/repo/b.py"] {
		t.Errorf("expected both paths, got %v", seen)
	}
}

func TestCoalescer_ZeroWindowForwardsEverything(t *testing.T) {
	c := NewCoalescer(0)
	defer c.Close()

	c.Add(domain.ChangeEvent{Path: "/repo/a.py"})
	c.Add(domain.ChangeEvent{Path: "/repo/a.py"})

	for i := 0; i < 2; i++ {
		if _, ok := receive(t, c.Events(), time.Second); !ok {
			t.Fatalf("expected event %d", i+1)
		}
	}
}

func TestCoalescer_Close(t *testing.T) {
	c := NewCoalescer(time.Hour)
	c.Add(domain.ChangeEvent{Path: "/repo/a.py"})
	c.Close()

	if _, ok := <-c.Events(); ok {
		t.Error("pending events must be dropped on close")
	}

	// Adding and closing again after close are no-ops
	c.Add(domain.ChangeEvent{Path: "/repo/b.py"})
	c.Close()
}
