package reward

import "crystalrl.ai/internal/snapshot"

// landmark is a known heal-center position used as the distance anchor for
// the new-tile bonus.
type landmark struct {
	Map int
	X   int
	Y   int
}

// healCenters lists the known heal-center locations by legacy map id.
var healCenters = []landmark{
	{41, 7, 4},  // Viridian
	{58, 7, 4},  // Pewter
	{64, 7, 4},  // Cerulean
	{68, 7, 4},  // Lavender
	{89, 7, 4},  // Vermilion
	{133, 7, 4}, // Celadon
	{154, 7, 4}, // Fuchsia
	{166, 7, 4}, // Saffron
	{174, 7, 4}, // Cinnabar
	{178, 7, 4}, // Indigo Plateau
}

const (
	// Cross-map distance proxy: each map id of difference counts as this
	// many tiles. Intentionally large so early reward biases toward
	// inter-map travel over sweeping one map.
	crossMapTilePenalty = 10

	// distanceCoefficient converts landmark distance to bonus reward.
	distanceCoefficient = 0.01

	// Fallback when no landmark is known.
	defaultLandmarkDistance = 50.0
)

// scoreExploration pays for unseen tiles and unseen maps. Revisits pay
// exactly zero. Returns whether a new tile fired and its value, for the
// walk audit.
func (e *Engine) scoreExploration(b *Breakdown, cfg ExplorationWeights, curr *snapshot.Snapshot, curPos snapshot.PosKey) (bool, float64) {
	newTile := false
	newTileValue := 0.0

	if !e.visitedTiles[curPos] {
		dist := distanceToNearestLandmark(curr.Map, curPos.X, curPos.Y)
		bonus := dist * distanceCoefficient
		if bonus > cfg.NewTileDistanceBonusMax {
			bonus = cfg.NewTileDistanceBonusMax
		}
		newTileValue = cfg.NewTile + bonus
		b.Exploration += newTileValue
		e.visitedTiles[curPos] = true
		newTile = true
	}

	mapKey := snapshot.MapKeyOf(curr)
	if !e.visitedMaps[mapKey] {
		b.Exploration += cfg.NewBuilding
		e.visitedMaps[mapKey] = true
	}

	return newTile, newTileValue
}

// distanceToNearestLandmark is Manhattan on the same map, or Manhattan
// plus a per-map-difference penalty across maps.
func distanceToNearestLandmark(mapID, x, y int) float64 {
	best := -1
	for _, lm := range healCenters {
		d := absInt(x-lm.X) + absInt(y-lm.Y)
		if lm.Map != mapID {
			d += absInt(mapID-lm.Map) * crossMapTilePenalty
		}
		if best < 0 || d < best {
			best = d
		}
	}
	if best < 0 {
		return defaultLandmarkDistance
	}
	return float64(best)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
