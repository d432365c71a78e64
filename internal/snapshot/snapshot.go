// Package snapshot defines the structured memory-read record the reward
// engine consumes, plus the stable position keys derived from it.
//
// Snapshots arrive from the emulator bridge once per control step. They are
// read-only to everything in this repository: the engine derives keys and
// deltas from them but never mutates one.
package snapshot

// PartySize is the roster cap. Reads reporting more slots are corrupt.
const PartySize = 6

// Monster is one occupied party slot.
type Monster struct {
	Species int `json:"species" yaml:"species"`
	Level   int `json:"level" yaml:"level"`
	HP      int `json:"hp" yaml:"hp"`
	MaxHP   int `json:"max_hp" yaml:"max_hp"`
	Status  int `json:"status" yaml:"status"`

	Moves [4]int `json:"moves" yaml:"moves"`

	Attack  int `json:"attack,omitempty" yaml:"attack,omitempty"`
	Defense int `json:"defense,omitempty" yaml:"defense,omitempty"`
	Speed   int `json:"speed,omitempty" yaml:"speed,omitempty"`
	Special int `json:"special,omitempty" yaml:"special,omitempty"`
}

// Snapshot is one instant's read of game memory.
//
// MapGroup/MapNumber are the stable map identifiers; Map is the legacy
// single-byte id kept for games (and memory layouts) that lack the pair.
// Optional fields use pointers so "not read this step" is distinct from
// zero: map bounds are only validated when the bridge reported them.
type Snapshot struct {
	Map       int  `json:"map" yaml:"map"`
	MapGroup  *int `json:"map_group,omitempty" yaml:"map_group,omitempty"`
	MapNumber *int `json:"map_number,omitempty" yaml:"map_number,omitempty"`
	X         int  `json:"x" yaml:"x"`
	Y         int  `json:"y" yaml:"y"`
	MapWidth  *int `json:"map_width,omitempty" yaml:"map_width,omitempty"`
	MapHeight *int `json:"map_height,omitempty" yaml:"map_height,omitempty"`

	PartyCount int       `json:"party_count" yaml:"party_count"`
	Party      []Monster `json:"party,omitempty" yaml:"party,omitempty"`

	Badges       int `json:"badges" yaml:"badges"`
	PokedexOwned int `json:"pokedex_owned" yaml:"pokedex_owned"`
	Money        int `json:"money" yaml:"money"`

	InBattle   int `json:"in_battle" yaml:"in_battle"`
	EnemyHP    int `json:"enemy_hp" yaml:"enemy_hp"`
	PlayerMove int `json:"player_move" yaml:"player_move"`

	TextBoxID int `json:"text_box_id" yaml:"text_box_id"`
	MenuItem  int `json:"menu_item" yaml:"menu_item"`

	TileAhead  int `json:"tile_ahead" yaml:"tile_ahead"`
	MapTileset int `json:"map_tileset" yaml:"map_tileset"`
}

// MapKey identifies a map stably across reads. The (group, number) pair is
// preferred over the legacy id because the legacy byte jitters across the
// game's memory banks; legacy-only snapshots get Group == -1.
type MapKey struct {
	Group  int
	Number int
}

// PosKey identifies one tile of one map.
type PosKey struct {
	Map MapKey
	X   int
	Y   int
}

// MapKeyOf returns the stable map identifier for s.
func MapKeyOf(s *Snapshot) MapKey {
	if s.MapGroup != nil && s.MapNumber != nil {
		return MapKey{Group: *s.MapGroup, Number: *s.MapNumber}
	}
	return MapKey{Group: -1, Number: s.Map}
}

// PosKeyOf returns the position key for s, with coordinates clamped to the
// reported map bounds when known. Clamping keeps a single bad coordinate
// read from minting an unbounded run of "new" tiles.
func PosKeyOf(s *Snapshot) PosKey {
	x, y := s.X, s.Y
	if s.MapWidth != nil && s.MapHeight != nil {
		w, h := *s.MapWidth, *s.MapHeight
		if w > 0 && w <= 100 && h > 0 && h <= 100 {
			x = clamp(x, 0, w-1)
			y = clamp(y, 0, h-1)
		}
	}
	return PosKey{Map: MapKeyOf(s), X: x, Y: y}
}

// Slot returns the monster in party slot i, or nil when the slot is not
// occupied or was not read.
func (s *Snapshot) Slot(i int) *Monster {
	if i < 0 || i >= s.PartyCount || i >= len(s.Party) {
		return nil
	}
	return &s.Party[i]
}

// HasMove reports whether any occupied slot knows move id.
func (s *Snapshot) HasMove(move int) bool {
	n := s.PartyCount
	if n > PartySize {
		n = PartySize
	}
	for i := 0; i < n && i < len(s.Party); i++ {
		for _, m := range s.Party[i].Moves {
			if m == move {
				return true
			}
		}
	}
	return false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
