// Package gravity implements the discovery-potential curriculum: a
// per-map scalar field that pulls the agent toward undiscovered doors and
// points of interest while pushing it away from the entry it came in by.
// It is a pluggable alternative to the lava controller for sparse-reward
// early exploration, with its own independent idle timer.
package gravity

import (
	"log"
	"time"

	"crystalrl.ai/internal/snapshot"
)

type tile struct {
	X int
	Y int
}

// Field tracks per-map doors, POIs with cooldowns, and visited tiles.
// Door/POI sets only grow within an episode; Reset clears them wholesale.
type Field struct {
	store *configStore
	now   func() time.Time

	doorsPerMap map[snapshot.MapKey]map[tile]bool
	poisPerMap  map[snapshot.MapKey]map[tile]time.Time
	visited     map[snapshot.MapKey]map[tile]bool

	currentMap   snapshot.MapKey
	hasMap       bool
	entryPos     tile
	hasEntry     bool
	stepsInRoom  int
	lavaActive   bool
	lastPositive time.Time
}

// NewField builds a field reading its parameters from path; empty path
// uses the defaults with no reloading.
func NewField(path string, logger *log.Logger) *Field {
	f := &Field{
		store: newConfigStore(path, logger),
		now:   time.Now,
	}
	f.resetState()
	return f
}

func (f *Field) resetState() {
	f.doorsPerMap = map[snapshot.MapKey]map[tile]bool{}
	f.poisPerMap = map[snapshot.MapKey]map[tile]time.Time{}
	f.visited = map[snapshot.MapKey]map[tile]bool{}
	f.hasMap = false
	f.hasEntry = false
	f.stepsInRoom = 0
	f.lavaActive = false
	f.lastPositive = f.now()
}

// Reset clears the discovery graph for a new episode.
func (f *Field) Reset() { f.resetState() }

// Update records door and POI discoveries from one transition. A map
// change marks door endpoints on both sides; a freshly opened dialogue box
// marks a POI at the current tile. The action id is accepted for parity
// with the engine call but does not affect discovery.
func (f *Field) Update(prev, curr *snapshot.Snapshot, action int) {
	_ = action
	f.store.reloadIfStale()

	prevMap := snapshot.MapKeyOf(prev)
	currMap := snapshot.MapKeyOf(curr)
	prevPos := tile{X: prev.X, Y: prev.Y}
	currPos := tile{X: curr.X, Y: curr.Y}

	if !f.hasMap || f.currentMap != currMap {
		f.currentMap = currMap
		f.hasMap = true
		f.stepsInRoom = 0
		f.entryPos = currPos
		f.hasEntry = true
	}

	if prevMap != currMap {
		f.addDoor(prevMap, prevPos)
		f.addDoor(currMap, currPos)
	} else {
		f.stepsInRoom++
	}

	if curr.TextBoxID > 0 && curr.TextBoxID != prev.TextBoxID {
		f.addPOI(currMap, currPos)
	}
}

func (f *Field) addDoor(m snapshot.MapKey, p tile) {
	if f.doorsPerMap[m] == nil {
		f.doorsPerMap[m] = map[tile]bool{}
	}
	f.doorsPerMap[m][p] = true
}

func (f *Field) addPOI(m snapshot.MapKey, p tile) {
	if f.poisPerMap[m] == nil {
		f.poisPerMap[m] = map[tile]time.Time{}
	}
	f.poisPerMap[m][p] = f.now()
}

// PositionValue is the potential at (m, x, y): the best linearly-decaying
// door/POI value minus the entry-anchored negative term.
func (f *Field) PositionValue(m snapshot.MapKey, x, y int) float64 {
	cfg := f.store.cfg
	best := 0.0

	for d := range f.doorsPerMap[m] {
		dist := float64(absInt(x-d.X) + absInt(y-d.Y))
		v := valueFromDistance(dist, cfg.DoorMinReward, cfg.DoorMaxReward, cfg.DoorDistanceMax)
		if v > best {
			best = v
		}
	}

	for p, last := range f.poisPerMap[m] {
		if f.now().Sub(last) < time.Duration(cfg.POICooldownSeconds*float64(time.Second)) {
			continue
		}
		dist := float64(absInt(x-p.X) + absInt(y-p.Y))
		v := valueFromDistance(dist, cfg.POIMinReward, cfg.POIMaxReward, cfg.POIDistanceMax)
		if v > best {
			best = v
		}
	}

	if f.entryNegativeActive(m) {
		dist := float64(absInt(x-f.entryPos.X) + absInt(y-f.entryPos.Y))
		penalty := valueFromDistance(dist, cfg.DoorMinReward, cfg.DoorMaxReward, cfg.DoorDistanceMax)
		best -= penalty * cfg.EntryNegativeScale
	}

	return best
}

// entryNegativeActive gates the entry-repulsion term: while the room is
// young it discourages bouncing straight back out; once more than one door
// is known the room is mapped and the term stays on indefinitely.
func (f *Field) entryNegativeActive(m snapshot.MapKey) bool {
	if !f.hasEntry {
		return false
	}
	if len(f.doorsPerMap[m]) <= 1 {
		return f.stepsInRoom < f.store.cfg.EntryNegativeSteps
	}
	return true
}

// ComputeReward is the step reward: the potential delta between the two
// positions (scaled), a flat bonus for map-local never-visited tiles, and
// a repeat penalty only while the field's own idle mode is active.
func (f *Field) ComputeReward(prev, curr *snapshot.Snapshot) float64 {
	cfg := f.store.cfg
	if !cfg.Enabled {
		return 0
	}

	prevMap := snapshot.MapKeyOf(prev)
	currMap := snapshot.MapKeyOf(curr)

	prevValue := f.PositionValue(prevMap, prev.X, prev.Y)
	currValue := f.PositionValue(currMap, curr.X, curr.Y)
	reward := (currValue - prevValue) * cfg.DeltaScale

	currPos := tile{X: curr.X, Y: curr.Y}
	if f.visited[currMap] == nil {
		f.visited[currMap] = map[tile]bool{}
	}
	if !f.visited[currMap][currPos] {
		f.visited[currMap][currPos] = true
		reward += cfg.NewTileReward
	} else if f.lavaActive {
		reward -= cfg.RepeatPenalty
	}

	if reward > 0 {
		f.lastPositive = f.now()
		f.lavaActive = false
	} else if trigger := time.Duration(cfg.LavaTriggerSeconds * float64(time.Second)); trigger > 0 {
		if f.now().Sub(f.lastPositive) >= trigger {
			f.lavaActive = true
		}
	}

	return reward
}

// GridValues renders the potential over a width x height grid, row-major
// by y. Used by external field viewers.
func (f *Field) GridValues(m snapshot.MapKey, width, height int) [][]float64 {
	grid := make([][]float64, 0, height)
	for y := 0; y < height; y++ {
		row := make([]float64, 0, width)
		for x := 0; x < width; x++ {
			row = append(row, f.PositionValue(m, x, y))
		}
		grid = append(grid, row)
	}
	return grid
}

// valueFromDistance decays linearly from maxVal at distance zero to
// minVal at maxDist, clamping below at minVal.
func valueFromDistance(dist, minVal, maxVal, maxDist float64) float64 {
	if maxDist <= 0 {
		return maxVal
	}
	step := (maxVal - minVal) / maxDist
	v := maxVal - dist*step
	if v < minVal {
		return minVal
	}
	return v
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
