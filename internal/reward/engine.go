// Package reward implements the reward shaping and curriculum engine: it
// turns successive snapshot pairs into a scalar reward plus per-category
// breakdown while defending against corrupted reads, reward-hacking
// exploits, and stagnation.
package reward

import (
	"log"
	"time"

	"crystalrl.ai/internal/persistence/trace"
	"crystalrl.ai/internal/reward/gravity"
	"crystalrl.ai/internal/snapshot"
)

// LevelUnknown marks an absent episode level: penalties stay enabled and
// the noise scale is 1.0.
const LevelUnknown = -1

// Engine is the per-trainer reward state machine. It is single-threaded by
// contract: one CalculateReward call per environment step, Reset only
// between steps. All tracker state below is owned exclusively by the
// engine and touched only from the calling goroutine.
type Engine struct {
	cfg    Config
	store  *Store
	logger *log.Logger

	gravity   *gravity.Field
	rewardLog trace.Sink
	walkLog   trace.Sink

	now func() time.Time

	stepIndex uint64

	// Milestone baselines; monotonic non-decreasing once initialized.
	initialized    bool
	maxBadges      int
	maxPokedex     int
	maxPartyLevels [snapshot.PartySize]int
	maxMoney       int

	visitedTiles map[snapshot.PosKey]bool
	visitedMaps  map[snapshot.MapKey]bool

	// Idle / "lava" mode.
	lastPositive time.Time
	lavaActive   bool
	lavaVisits   map[snapshot.PosKey]int

	// Battle session tracking.
	prevEnemyHP       int
	prevPlayerMove    int
	prevInBattle      int
	battleLowestHP    map[int]float64
	battleStatusTurns map[int]int

	// Capability-gated tile memoization.
	lastHMTile   hmTileKey
	lastHMTileOK bool

	// Stuck detection.
	stuckPos    snapshot.PosKey
	stuckBound  bool
	stuckStreak int
}

// New builds an engine. store must be non-nil; grav may be nil when the
// discovery curriculum is off; nil sinks disable the matching stream.
func New(cfg Config, store *Store, grav *gravity.Field, rewardLog, walkLog trace.Sink, logger *log.Logger) *Engine {
	cfg.applyDefaults()
	if rewardLog == nil {
		rewardLog = trace.Nop{}
	}
	if walkLog == nil {
		walkLog = trace.Nop{}
	}
	e := &Engine{
		cfg:       cfg,
		store:     store,
		logger:    logger,
		gravity:   grav,
		rewardLog: rewardLog,
		walkLog:   walkLog,
		now:       time.Now,
	}
	e.resetState()
	return e
}

func (e *Engine) resetState() {
	e.initialized = false
	e.maxBadges = 0
	e.maxPokedex = 0
	e.maxPartyLevels = [snapshot.PartySize]int{}
	e.maxMoney = 0
	e.visitedTiles = map[snapshot.PosKey]bool{}
	e.visitedMaps = map[snapshot.MapKey]bool{}

	e.lastPositive = e.now()
	e.lavaActive = false
	e.lavaVisits = map[snapshot.PosKey]int{}

	e.prevEnemyHP = 0
	e.prevPlayerMove = 0
	e.prevInBattle = 0
	e.battleLowestHP = map[int]float64{}
	e.battleStatusTurns = map[int]int{}

	e.lastHMTileOK = false
	e.stuckBound = false
	e.stuckStreak = 0
}

// Reset wipes all tracker state for a new episode: baselines drop, the
// idle timer re-arms, and the discovery graph clears. Must be called
// between steps, never concurrently with CalculateReward.
func (e *Engine) Reset() {
	e.resetState()
	if e.gravity != nil {
		e.gravity.Reset()
	}
}

// CalculateReward scores one prev -> curr transition.
//
// episodeLevel is the externally supplied curriculum level, or
// LevelUnknown. action is the last taken action id; it is forwarded to the
// discovery field and otherwise unused.
//
// Garbage snapshots short-circuit to a zero reward with no tracker
// mutation. The first valid pair initializes baselines and also returns
// zero.
func (e *Engine) CalculateReward(prev, curr *snapshot.Snapshot, episodeLevel int, action int) (float64, Breakdown) {
	e.store.ReloadIfStale()
	e.stepIndex++

	var b Breakdown

	if snapshot.IsGarbage(prev) || snapshot.IsGarbage(curr) {
		e.auditWalk(curr, 0, false, 0, "garbage_state")
		return 0, b
	}

	if !e.initialized {
		e.initBaseline(prev)
		e.auditWalk(curr, 0, false, 0, "baseline_init")
		return 0, b
	}

	w := e.store.Current()
	noise := noiseScale(w.Noise, episodeLevel)
	penaltiesOn := e.penaltiesEnabled(episodeLevel)

	if e.cfg.GravityEnabled && e.gravity != nil {
		e.gravity.Update(prev, curr, action)
		b.Exploration += e.gravity.ComputeReward(prev, curr)
	}

	curPos := snapshot.PosKeyOf(curr)

	newTile, newTileValue := e.scoreExploration(&b, w.Exploration, curr, curPos)
	e.scoreLava(&b, w.LavaMode, curPos, noise, penaltiesOn)
	e.scoreMenu(&b, w.Penalties, curr, noise, penaltiesOn)
	e.scoreBattle(&b, w.Battle, prev, curr)
	e.scoreHMTiles(&b, w.HMDetection, curr)
	e.scoreParty(&b, w, prev, curr, noise, penaltiesOn)
	e.scoreMilestones(&b, w.Progression, curr)
	e.scoreEconomy(&b, w.Economy, prev, curr, noise, penaltiesOn)
	e.scoreStuck(&b, w.Penalties, curPos, noise, penaltiesOn)

	total := b.Total()

	// Any positive step re-arms the idle timer and leaves lava mode,
	// dropping its revisit counters.
	if total > 0 {
		e.lastPositive = e.now()
		if e.lavaActive {
			e.lavaActive = false
			e.lavaVisits = map[snapshot.PosKey]int{}
		}
	}

	e.auditReward(curr, total, b)
	reason := "repeat_tile"
	if newTile {
		reason = "new_tile"
	}
	e.auditWalk(curr, total, newTile, newTileValue, reason)

	return total, b
}

// initBaseline captures the first valid snapshot as the milestone
// baseline and marks its position visited. Guards against scoring
// transitions out of an undefined pre-boot memory state.
func (e *Engine) initBaseline(s *snapshot.Snapshot) {
	e.maxBadges = s.Badges
	e.maxPokedex = s.PokedexOwned
	e.maxMoney = s.Money
	e.visitedMaps[snapshot.MapKeyOf(s)] = true
	e.visitedTiles[snapshot.PosKeyOf(s)] = true
	e.initialized = true
	e.lastPositive = e.now()
	if e.logger != nil {
		e.logger.Printf("baseline: %d badges, %d pokedex", e.maxBadges, e.maxPokedex)
	}
}

func (e *Engine) penaltiesEnabled(episodeLevel int) bool {
	return episodeLevel < 0 || episodeLevel >= e.cfg.PenaltyEnableLevel
}

// StepIndex returns the number of CalculateReward calls made, including
// rejected and pre-baseline steps. Used by the walk audit stream.
func (e *Engine) StepIndex() uint64 { return e.stepIndex }
