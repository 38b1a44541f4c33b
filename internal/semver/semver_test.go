// Package semver tests magnitude diffing and version increments.
// Related: internal/semver/semver.go, internal/semver/magnitude.go
// Tags: semver, version, magnitude

package semver

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		from string
		to   string
		want Magnitude
	}{
		"release to release candidate": {from: "0.224.0", to: "1.0.0-rc.1", want: Prerelease},
		"prerelease to prerelease":     {from: "1.0.0-rc.1", to: "1.0.0-rc.2", want: Prerelease},
		"major":                        {from: "1.2.3", to: "2.0.0", want: Major},
		"minor":                        {from: "1.2.3", to: "1.3.0", want: Minor},
		"patch":                        {from: "1.2.3", to: "1.2.4", want: Patch},
		"new module minor":             {from: Zero, to: "0.1.0", want: Minor},
		"new module patch":             {from: Zero, to: "0.0.1", want: Patch},
		"new module major":             {from: Zero, to: "1.0.0", want: Major},
		"finalize major prerelease":    {from: "1.0.0-rc.1", to: "1.0.0", want: Major},
		"finalize minor prerelease":    {from: "1.1.0-rc.1", to: "1.1.0", want: Minor},
		"finalize patch prerelease":    {from: "1.1.1-rc.1", to: "1.1.1", want: Patch},
		"downgrade still differs":      {from: "2.0.0", to: "1.9.0", want: Major},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := Diff(tt.from, tt.to)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDiff_Errors(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		from         string
		to           string
		inconsistent bool
	}{
		"equal releases":          {from: "1.2.3", to: "1.2.3", inconsistent: true},
		"metadata only":           {from: "1.2.3+a", to: "1.2.3+b", inconsistent: true},
		"invalid from":            {from: "1.2", to: "1.2.3"},
		"invalid to":              {from: "1.2.3", to: "latest"},
		"v prefix is not allowed": {from: "v1.2.3", to: "1.2.4"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := Diff(tt.from, tt.to)
			require.Error(t, err)
			assert.Equal(t, tt.inconsistent, errors.Is(err, ErrInconsistentVersion))
		})
	}
}

func TestIncrement(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		version   string
		magnitude Magnitude
		want      string
	}{
		"patch":                          {version: "1.2.3", magnitude: Patch, want: "1.2.4"},
		"minor resets patch":             {version: "1.2.3", magnitude: Minor, want: "1.3.0"},
		"major resets minor and patch":   {version: "1.2.3", magnitude: Major, want: "2.0.0"},
		"patch clears prerelease":        {version: "1.2.3-rc.1", magnitude: Patch, want: "1.2.4"},
		"minor clears prerelease":        {version: "1.2.3-rc.1", magnitude: Minor, want: "1.3.0"},
		"major clears prerelease":        {version: "1.0.0-rc.1", magnitude: Major, want: "2.0.0"},
		"prerelease counter":             {version: "1.0.0-rc.1", magnitude: Prerelease, want: "1.0.0-rc.2"},
		"prerelease last numeric":        {version: "1.0.0-rc.1.beta", magnitude: Prerelease, want: "1.0.0-rc.2.beta"},
		"prerelease without counter":     {version: "1.0.0-rc", magnitude: Prerelease, want: "1.0.0-rc.0"},
		"prerelease from release":        {version: "1.2.3", magnitude: Prerelease, want: "1.2.4-0"},
		"prerelease numeric only":        {version: "1.2.3-9", magnitude: Prerelease, want: "1.2.3-10"},
		"build metadata dropped on bump": {version: "1.2.3+build.5", magnitude: Patch, want: "1.2.4"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := Increment(tt.version, tt.magnitude)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIncrement_Errors(t *testing.T) {
	t.Parallel()

	_, err := Increment("1.2.3", MagnitudeNone)
	assert.Error(t, err)

	_, err = Increment("not-a-version", Patch)
	assert.Error(t, err)
}

func TestMagnitude_Text(t *testing.T) {
	t.Parallel()

	for _, m := range []Magnitude{MagnitudeNone, Prerelease, Patch, Minor, Major} {
		text, err := m.MarshalText()
		require.NoError(t, err)

		var parsed Magnitude
		require.NoError(t, parsed.UnmarshalText(text))
		assert.Equal(t, m, parsed)
	}

	var m Magnitude
	assert.Error(t, m.UnmarshalText([]byte("huge")))
	assert.Equal(t, "Magnitude(42)", Magnitude(42).String())
}

func TestMax(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Major, Max(Minor, Major))
	assert.Equal(t, Minor, Max(Minor, Patch))
	assert.Equal(t, Patch, Max(Patch, Patch))
}
