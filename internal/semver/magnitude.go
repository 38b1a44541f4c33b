package semver

import "fmt"

// Magnitude describes how far a version must advance.
// Values are ordered so that a larger Magnitude is a bigger change.
type Magnitude int

const (
	// MagnitudeNone means no change.
	MagnitudeNone Magnitude = iota
	Prerelease
	Patch
	Minor
	Major
)

var magnitudeNames = map[Magnitude]string{
	MagnitudeNone: "none",
	Prerelease:    "prerelease",
	Patch:         "patch",
	Minor:         "minor",
	Major:         "major",
}

// String returns the lowercase name of the magnitude.
func (m Magnitude) String() string {
	if name, ok := magnitudeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Magnitude(%d)", int(m))
}

// ParseMagnitude parses a magnitude name as produced by String.
func ParseMagnitude(s string) (Magnitude, error) {
	for m, name := range magnitudeNames {
		if name == s {
			return m, nil
		}
	}
	return MagnitudeNone, fmt.Errorf("unknown magnitude %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Magnitude) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Magnitude) UnmarshalText(text []byte) error {
	parsed, err := ParseMagnitude(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Max returns the larger of two magnitudes.
func Max(a, b Magnitude) Magnitude {
	if a > b {
		return a
	}
	return b
}
