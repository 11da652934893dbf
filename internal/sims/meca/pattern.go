package meca

import "strings"

// PatternKind enumerates initial-lattice seedings.
type PatternKind uint8

const (
	// PatternNone leaves the Bernoulli(0.5) random seeding in place.
	PatternNone PatternKind = iota
	// PatternBits tiles an explicit bitstring across the lattice.
	PatternBits
	// PatternSingleSeed sets only the middle cell.
	PatternSingleSeed
	// PatternSingleSeedInverse sets every cell except the middle one.
	PatternSingleSeedInverse
)

// Pattern describes how generation 0 is seeded.
type Pattern struct {
	Kind PatternKind
	Bits []bool
}

// ParsePattern reads "" or "none" (random), "S" or "single-seed", "SI" or
// "single-seed-inverse", or a string of '0' and '1' characters.
func ParsePattern(s string) (Pattern, error) {
	raw := strings.TrimSpace(s)
	switch strings.ToLower(raw) {
	case "", "none", "random":
		return Pattern{}, nil
	case "s", "single-seed":
		return Pattern{Kind: PatternSingleSeed}, nil
	case "si", "single-seed-inverse":
		return Pattern{Kind: PatternSingleSeedInverse}, nil
	}
	bits := make([]bool, len(raw))
	for i, ch := range raw {
		switch ch {
		case '0':
		case '1':
			bits[i] = true
		default:
			return Pattern{}, configErr("pattern", s, "only '0' and '1' are allowed")
		}
	}
	return Pattern{Kind: PatternBits, Bits: bits}, nil
}

// Validate rejects unknown kinds and empty bitstrings.
func (p Pattern) Validate() error {
	switch p.Kind {
	case PatternNone, PatternSingleSeed, PatternSingleSeedInverse:
		return nil
	case PatternBits:
		if len(p.Bits) == 0 {
			return configErr("pattern", "", "bitstring is empty")
		}
		return nil
	default:
		return configErr("pattern", p.Kind, "unrecognized kind")
	}
}

// apply overrides the states of cells through SetState.
func (p Pattern) apply(cells []Cell) {
	switch p.Kind {
	case PatternBits:
		for i := range cells {
			cells[i].SetState(p.Bits[i%len(p.Bits)])
		}
	case PatternSingleSeed, PatternSingleSeedInverse:
		inverse := p.Kind == PatternSingleSeedInverse
		for i := range cells {
			cells[i].SetState(inverse)
		}
		cells[len(cells)/2].SetState(!inverse)
	}
}

func (p Pattern) String() string {
	switch p.Kind {
	case PatternBits:
		var sb strings.Builder
		for _, b := range p.Bits {
			if b {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('0')
			}
		}
		return sb.String()
	case PatternSingleSeed:
		return "S"
	case PatternSingleSeedInverse:
		return "SI"
	default:
		return ""
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Pattern) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Pattern) UnmarshalText(text []byte) error {
	parsed, err := ParsePattern(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
