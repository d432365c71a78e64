package reward

import (
	"testing"

	"crystalrl.ai/internal/snapshot"
)

func facingTile(tileset, tile int, moves [4]int) *snapshot.Snapshot {
	s := snapAt(41, 7, 4)
	s.MapTileset = tileset
	s.TileAhead = tile
	s.Party[0].Moves = moves
	return s
}

func TestHMTilePaysWithCapability(t *testing.T) {
	e, _ := newTestEngine(t)
	initBaselineAt(t, e, snapAt(41, 7, 4))

	prev := snapAt(41, 7, 4)
	curr := facingTile(0, 0x3D, [4]int{moveCut, 0, 0, 0})
	total, b := e.CalculateReward(prev, curr, LevelUnknown, 0)
	approx(t, total, 10)
	approx(t, b.Exploration, 10)
}

func TestHMTileWithoutMovePaysNothing(t *testing.T) {
	e, _ := newTestEngine(t)
	initBaselineAt(t, e, snapAt(41, 7, 4))

	prev := snapAt(41, 7, 4)
	curr := facingTile(0, 0x3D, [4]int{33, 45, 0, 0})
	total, _ := e.CalculateReward(prev, curr, LevelUnknown, 0)
	approx(t, total, 0)
}

func TestHMTileMemoizesLastFacing(t *testing.T) {
	e, _ := newTestEngine(t)
	initBaselineAt(t, e, snapAt(41, 7, 4))

	curr := facingTile(0, 0x3D, [4]int{moveCut, 0, 0, 0})
	total, _ := e.CalculateReward(snapAt(41, 7, 4), curr, LevelUnknown, 0)
	approx(t, total, 10)

	// Standing still facing the same tree never re-pays.
	for i := 0; i < 5; i++ {
		total, _ = e.CalculateReward(curr, curr, LevelUnknown, 0)
		approx(t, total, 0)
	}

	// Turning away and back re-evaluates.
	away := facingTile(0, 0, [4]int{moveCut, 0, 0, 0})
	e.CalculateReward(curr, away, LevelUnknown, 0)
	total, _ = e.CalculateReward(away, curr, LevelUnknown, 0)
	approx(t, total, 10)
}

func TestHMTileTilesetDisambiguates(t *testing.T) {
	e, _ := newTestEngine(t)
	initBaselineAt(t, e, snapAt(41, 7, 4))

	// Same tile byte under an unmapped tileset is plain terrain.
	curr := facingTile(3, 0x3D, [4]int{moveCut, 0, 0, 0})
	total, _ := e.CalculateReward(snapAt(41, 7, 4), curr, LevelUnknown, 0)
	approx(t, total, 0)
}

func TestStrengthBoulder(t *testing.T) {
	e, _ := newTestEngine(t)
	initBaselineAt(t, e, snapAt(41, 7, 4))

	curr := facingTile(0, 0x34, [4]int{moveStrength, 0, 0, 0})
	total, b := e.CalculateReward(snapAt(41, 7, 4), curr, LevelUnknown, 0)
	approx(t, total, 10)
	approx(t, b.Exploration, 10)
}
