package reward

import (
	"math"
	"testing"
	"time"

	"crystalrl.ai/internal/reward/gravity"
	"crystalrl.ai/internal/snapshot"
)

// newTestEngine builds an engine on defaults with a controllable clock.
// Advance the clock through the returned pointer.
func newTestEngine(t *testing.T) (*Engine, *time.Time) {
	t.Helper()
	e := New(DefaultConfig(), NewStore("", nil), nil, nil, nil, nil)
	cur := time.Unix(1_700_000_000, 0)
	e.now = func() time.Time { return cur }
	e.Reset()
	return e, &cur
}

func snapAt(m, x, y int) *snapshot.Snapshot {
	return &snapshot.Snapshot{
		Map: m, X: x, Y: y,
		PartyCount:   1,
		Party:        []snapshot.Monster{{Species: 1, Level: 5, HP: 20, MaxHP: 20}},
		PokedexOwned: 1,
		Money:        3000,
	}
}

// initBaselineAt feeds the first valid pair, which only initializes.
func initBaselineAt(t *testing.T, e *Engine, s *snapshot.Snapshot) {
	t.Helper()
	total, b := e.CalculateReward(s, s, LevelUnknown, 0)
	if total != 0 || b.Total() != 0 {
		t.Fatalf("baseline step should score zero, got %v", total)
	}
}

func approx(t *testing.T, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestFirstStepOnlyInitializes(t *testing.T) {
	e, _ := newTestEngine(t)
	s := snapAt(41, 7, 4)
	initBaselineAt(t, e, s)
	if !e.initialized {
		t.Fatalf("engine should be initialized after first valid pair")
	}
	if !e.visitedTiles[snapshot.PosKeyOf(s)] {
		t.Fatalf("baseline tile should be marked visited")
	}
}

func TestNewTilePaysBasePlusDistanceBonus(t *testing.T) {
	e, _ := newTestEngine(t)
	prev := snapAt(41, 7, 4)
	initBaselineAt(t, e, prev)

	// One tile from the map-41 heal center: bonus = 1 * 0.01.
	curr := snapAt(41, 7, 5)
	total, b := e.CalculateReward(prev, curr, LevelUnknown, 0)
	approx(t, total, 3.5+0.01)
	approx(t, b.Exploration, total)
}

func TestNewTileDistanceBonusIsCapped(t *testing.T) {
	e, _ := newTestEngine(t)
	prev := snapAt(41, 7, 4)
	initBaselineAt(t, e, prev)

	// 56 tiles out: raw bonus 0.56 clamps to 0.5.
	curr := snapAt(41, 7, 60)
	total, _ := e.CalculateReward(prev, curr, LevelUnknown, 0)
	approx(t, total, 3.5+0.5)
}

func TestNewMapPaysBuildingBonus(t *testing.T) {
	e, _ := newTestEngine(t)
	prev := snapAt(41, 7, 4)
	initBaselineAt(t, e, prev)

	// Map 58 heal center sits at (7,4), so the distance bonus is zero.
	curr := snapAt(58, 7, 4)
	total, b := e.CalculateReward(prev, curr, LevelUnknown, 0)
	approx(t, total, 3.5+10.0)
	approx(t, b.Exploration, total)
}

func TestRevisitedTilePaysNothing(t *testing.T) {
	e, _ := newTestEngine(t)
	prev := snapAt(41, 7, 4)
	initBaselineAt(t, e, prev)

	total, _ := e.CalculateReward(prev, prev, LevelUnknown, 0)
	approx(t, total, 0)
}

func TestGarbageStepLeavesTrackersUntouched(t *testing.T) {
	e, _ := newTestEngine(t)
	prev := snapAt(41, 7, 4)
	initBaselineAt(t, e, prev)
	tilesBefore := len(e.visitedTiles)

	bad := snapAt(41, 7, 5)
	bad.PartyCount = 7
	total, b := e.CalculateReward(prev, bad, LevelUnknown, 0)
	if total != 0 || b.Total() != 0 {
		t.Fatalf("garbage step should score zero, got %v", total)
	}
	if len(e.visitedTiles) != tilesBefore {
		t.Fatalf("garbage step mutated visited tiles")
	}
	if !e.initialized {
		t.Fatalf("garbage step dropped the baseline")
	}

	// The same transition scores normally once the read is clean.
	curr := snapAt(41, 7, 5)
	total, _ = e.CalculateReward(prev, curr, LevelUnknown, 0)
	approx(t, total, 3.5+0.01)
}

func TestBadgePaysAgainstBaseline(t *testing.T) {
	e, _ := newTestEngine(t)
	prev := snapAt(41, 7, 4)
	initBaselineAt(t, e, prev)

	curr := snapAt(41, 7, 4)
	curr.Badges = 1
	total, b := e.CalculateReward(prev, curr, LevelUnknown, 0)
	approx(t, total, 50000)
	approx(t, b.Progression, 50000)

	// Same badge count again pays nothing.
	total, _ = e.CalculateReward(curr, curr, LevelUnknown, 0)
	approx(t, total, 0)
}

func TestBadgeRegressionNeverRefunds(t *testing.T) {
	e, _ := newTestEngine(t)
	prev := snapAt(41, 7, 4)
	prev.Badges = 2
	initBaselineAt(t, e, prev)

	dropped := snapAt(41, 7, 4)
	dropped.Badges = 1
	total, _ := e.CalculateReward(prev, dropped, LevelUnknown, 0)
	approx(t, total, 0)

	// Climbing back to the old maximum is not a new milestone.
	back := snapAt(41, 7, 4)
	back.Badges = 2
	total, _ = e.CalculateReward(dropped, back, LevelUnknown, 0)
	approx(t, total, 0)
}

func TestStuckPenaltyFiresOnceAtThreshold(t *testing.T) {
	e, _ := newTestEngine(t)
	s := snapAt(41, 7, 4)
	initBaselineAt(t, e, s)

	negatives := 0
	var worst float64
	for i := 0; i < 101; i++ {
		total, b := e.CalculateReward(s, s, LevelUnknown, 0)
		if total < 0 {
			negatives++
			worst = b.Penalties
		}
	}
	if negatives != 1 {
		t.Fatalf("stuck penalty fired %d times, want 1", negatives)
	}
	approx(t, worst, -10)
}

func TestMovementResetsStuckStreak(t *testing.T) {
	e, _ := newTestEngine(t)
	a := snapAt(41, 7, 4)
	initBaselineAt(t, e, a)

	for i := 0; i < 50; i++ {
		e.CalculateReward(a, a, LevelUnknown, 0)
	}
	b := snapAt(41, 7, 5)
	e.CalculateReward(a, b, LevelUnknown, 0)
	if e.stuckStreak != 0 {
		t.Fatalf("streak after movement: got %d want 0", e.stuckStreak)
	}
}

func TestMenuPenaltyGatedByEpisodeLevel(t *testing.T) {
	e, _ := newTestEngine(t)
	prev := snapAt(41, 7, 4)
	initBaselineAt(t, e, prev)

	inMenu := snapAt(41, 7, 4)
	inMenu.TextBoxID = 1
	inMenu.MenuItem = menuSave

	// Below the penalty enable level nothing is charged.
	total, _ := e.CalculateReward(prev, inMenu, 3, 0)
	approx(t, total, 0)

	// Unknown level keeps penalties on at full scale.
	total, b := e.CalculateReward(prev, inMenu, LevelUnknown, 0)
	approx(t, total, -100)
	approx(t, b.Penalties, -100)
}

func TestNoiseCurriculumScalesPenalties(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PenaltyEnableLevel = 1
	e := New(cfg, NewStore("", nil), nil, nil, nil, nil)
	cur := time.Unix(1_700_000_000, 0)
	e.now = func() time.Time { return cur }
	e.Reset()

	prev := snapAt(41, 7, 4)
	initBaselineAt(t, e, prev)

	inMenu := snapAt(41, 7, 4)
	inMenu.TextBoxID = 1
	inMenu.MenuItem = menuSave

	// Level 3 of 6 halves the penalty.
	total, _ := e.CalculateReward(prev, inMenu, 3, 0)
	approx(t, total, -50)
}

func TestGravityEngineNeverChargesLava(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GravityEnabled = true
	e := New(cfg, NewStore("", nil), gravity.NewField("", nil), nil, nil, nil)
	cur := time.Unix(1_700_000_000, 0)
	e.now = func() time.Time { return cur }
	e.Reset()

	if e.cfg.LavaEnabled {
		t.Fatalf("constructing with gravity on must force lava off")
	}

	s := snapAt(41, 7, 4)
	initBaselineAt(t, e, s)

	// Well past the lava trigger window: revisits may be charged only by
	// the discovery field, never by the lava controller.
	cur = cur.Add(31 * time.Second)
	for i := 0; i < 5; i++ {
		_, b := e.CalculateReward(s, s, LevelUnknown, 0)
		if b.Lava != 0 {
			t.Fatalf("lava charged %v with gravity active", b.Lava)
		}
	}
	if e.lavaActive {
		t.Fatalf("lava controller activated while gravity owns idleness")
	}
}

func TestGravityEngineRoutesFieldRewardToExploration(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GravityEnabled = true
	e := New(cfg, NewStore("", nil), gravity.NewField("", nil), nil, nil, nil)
	cur := time.Unix(1_700_000_000, 0)
	e.now = func() time.Time { return cur }
	e.Reset()

	prev := snapAt(41, 7, 4)
	initBaselineAt(t, e, prev)

	// New tile one step from the map-41 heal center. The field anchors its
	// entry repulsion at the current tile, so its delta term is -1.3 and
	// its own new-tile bonus is +1.0 on top of the tracker's 3.51.
	curr := snapAt(41, 7, 5)
	total, b := e.CalculateReward(prev, curr, LevelUnknown, 0)
	approx(t, total, 3.51-1.3+1.0)
	approx(t, b.Exploration, total)
	approx(t, b.Lava, 0)
}

func TestResetDropsBaselines(t *testing.T) {
	e, _ := newTestEngine(t)
	prev := snapAt(41, 7, 4)
	initBaselineAt(t, e, prev)

	curr := snapAt(41, 7, 5)
	total, _ := e.CalculateReward(prev, curr, LevelUnknown, 0)
	if total <= 0 {
		t.Fatalf("expected positive reward before reset")
	}

	e.Reset()
	if e.initialized {
		t.Fatalf("reset should drop the baseline")
	}

	// First pair after reset only re-initializes, then the same tile is
	// new again.
	initBaselineAt(t, e, prev)
	total, _ = e.CalculateReward(prev, curr, LevelUnknown, 0)
	approx(t, total, 3.5+0.01)
}
