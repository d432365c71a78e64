package snapshot

// Hard maxima for a plausible read. Values above these only appear in
// corrupted memory.
const (
	MaxBadges  = 8
	MaxPokedex = 151

	// A pokedex count this far beyond the roster is implausible early
	// game, which is the only time a corrupt read could sneak under the
	// hard maxima.
	pokedexPartyMargin = 10
)

// IsGarbage reports whether s looks like a corrupted memory read.
//
// The caller must treat a garbage snapshot as unscoreable: reward zero,
// no tracker mutation. Corrupt reads are routine when sampling a live
// emulator process, so this is the first gate on every step.
func IsGarbage(s *Snapshot) bool {
	if s == nil {
		return true
	}
	if s.PartyCount < 0 || s.PartyCount > PartySize {
		return true
	}
	if s.Badges > MaxBadges || s.PokedexOwned > MaxPokedex {
		return true
	}
	if s.PartyCount > 0 && s.PokedexOwned > s.PartyCount+pokedexPartyMargin {
		return true
	}
	// Map identifiers do not drop to zero in a valid room. An empty
	// roster means the intro sequence, where the zero sentinel is real.
	intro := s.PartyCount == 0
	if s.MapGroup != nil && s.MapNumber != nil {
		if *s.MapGroup == 0 && *s.MapNumber == 0 && !intro {
			return true
		}
	} else if s.Map == 0 && !intro {
		return true
	}
	// Coordinates stay inside the reported bounds when bounds are known.
	if s.MapWidth != nil && s.MapHeight != nil {
		w, h := *s.MapWidth, *s.MapHeight
		if w > 0 && h > 0 {
			if s.X < 0 || s.Y < 0 || s.X >= w || s.Y >= h {
				return true
			}
		}
	}
	return false
}
