package reward

import (
	"testing"
	"time"
)

func TestLavaActivatesAfterIdleWindow(t *testing.T) {
	e, cur := newTestEngine(t)
	s := snapAt(41, 7, 4)
	initBaselineAt(t, e, s)

	// Still inside the window: revisits are free.
	total, _ := e.CalculateReward(s, s, LevelUnknown, 0)
	approx(t, total, 0)
	if e.lavaActive {
		t.Fatalf("lava active before the trigger window")
	}

	*cur = cur.Add(31 * time.Second)

	// First step past the window activates the mode and counts the first
	// visit, which is free.
	total, _ = e.CalculateReward(s, s, LevelUnknown, 0)
	approx(t, total, 0)
	if !e.lavaActive {
		t.Fatalf("lava should be active after %v idle", 31*time.Second)
	}

	// Revisits escalate: base * multiplier^(n-1).
	total, b := e.CalculateReward(s, s, LevelUnknown, 0)
	approx(t, total, -1.0)
	approx(t, b.Lava, -1.0)

	total, _ = e.CalculateReward(s, s, LevelUnknown, 0)
	approx(t, total, -1.5)

	total, _ = e.CalculateReward(s, s, LevelUnknown, 0)
	approx(t, total, -2.25)
}

func TestLavaExitsOnPositiveReward(t *testing.T) {
	e, cur := newTestEngine(t)
	s := snapAt(41, 7, 4)
	initBaselineAt(t, e, s)

	*cur = cur.Add(31 * time.Second)
	e.CalculateReward(s, s, LevelUnknown, 0)
	e.CalculateReward(s, s, LevelUnknown, 0)
	if !e.lavaActive {
		t.Fatalf("lava should be active")
	}

	// A new tile goes positive, which exits the mode and drops counters.
	fresh := snapAt(41, 7, 5)
	total, _ := e.CalculateReward(s, fresh, LevelUnknown, 0)
	if total <= 0 {
		t.Fatalf("new tile should be net positive, got %v", total)
	}
	if e.lavaActive {
		t.Fatalf("positive step should exit lava mode")
	}
	if len(e.lavaVisits) != 0 {
		t.Fatalf("exit should drop revisit counters, %d left", len(e.lavaVisits))
	}

	// The idle timer re-armed: an immediate revisit is free again.
	total, _ = e.CalculateReward(fresh, s, LevelUnknown, 0)
	approx(t, total, 0)
}

func TestLavaPenaltySuppressedBelowCurriculumGate(t *testing.T) {
	e, cur := newTestEngine(t)
	s := snapAt(41, 7, 4)
	initBaselineAt(t, e, s)

	*cur = cur.Add(31 * time.Second)
	e.CalculateReward(s, s, 3, 0)
	total, _ := e.CalculateReward(s, s, 3, 0)
	approx(t, total, 0)
	if !e.lavaActive {
		t.Fatalf("mode still activates; only the charge is gated")
	}
}

func TestLavaDisabledByConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LavaEnabled = false
	e := New(cfg, NewStore("", nil), nil, nil, nil, nil)
	cur := time.Unix(1_700_000_000, 0)
	e.now = func() time.Time { return cur }
	e.Reset()

	s := snapAt(41, 7, 4)
	initBaselineAt(t, e, s)

	cur = cur.Add(31 * time.Second)
	for i := 0; i < 5; i++ {
		total, _ := e.CalculateReward(s, s, LevelUnknown, 0)
		approx(t, total, 0)
	}
	if e.lavaActive {
		t.Fatalf("disabled controller should never activate")
	}
}
