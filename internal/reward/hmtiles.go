package reward

import "crystalrl.ai/internal/snapshot"

// tileRef keys a capability-gated obstacle by (tileset, tile id); the same
// tile byte means different terrain under different tilesets.
type tileRef struct {
	Tileset int
	Tile    int
}

// Cuttable trees and liftable boulders, by tileset.
var (
	cutTreeTiles = map[tileRef]bool{
		{0, 0x3D}: true,
		{0, 0x50}: true,
		{7, 0x3D}: true,
	}
	strengthBoulderTiles = map[tileRef]bool{
		{0, 0x34}: true,
	}
)

// Field-move ids.
const (
	moveCut      = 15
	moveStrength = 70
)

// hmTileKey memoizes the last examined facing. Re-evaluating only when it
// changes is the anti-spam mechanism: standing still facing the same
// obstacle never re-pays.
type hmTileKey struct {
	Map       int
	X         int
	Y         int
	TileAhead int
}

// scoreHMTiles pays for standing before a capability-gated obstacle when
// the roster actually holds the matching field move. Without the move it
// pays nothing; the proximity is only worth something the agent can act
// on.
func (e *Engine) scoreHMTiles(b *Breakdown, cfg HMDetectionWeights, curr *snapshot.Snapshot) {
	key := hmTileKey{Map: curr.Map, X: curr.X, Y: curr.Y, TileAhead: curr.TileAhead}
	if e.lastHMTileOK && key == e.lastHMTile {
		return
	}
	e.lastHMTile = key
	e.lastHMTileOK = true

	ref := tileRef{Tileset: curr.MapTileset, Tile: curr.TileAhead}
	switch {
	case cutTreeTiles[ref]:
		if curr.HasMove(moveCut) {
			b.Exploration += cfg.NearCutTree
		} else if e.logger != nil {
			e.logger.Printf("hm: cuttable tree ahead, party lacks Cut")
		}
	case strengthBoulderTiles[ref]:
		if curr.HasMove(moveStrength) {
			b.Exploration += cfg.NearStrengthBoulder
		} else if e.logger != nil {
			e.logger.Printf("hm: boulder ahead, party lacks Strength")
		}
	}
}
