// Package semver computes version magnitudes and increments for wsbump.
//
// Versions are parsed strictly (MAJOR.MINOR.PATCH with optional prerelease and build
// metadata, no "v" prefix) using Masterminds/semver. The package adds the two operations
// the planner needs on top of it: Diff, which derives how far a hand-edited version moved,
// and Increment, which computes the next version for a magnitude.
package semver

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	mmsemver "github.com/Masterminds/semver/v3"
)

// ErrInconsistentVersion is returned by Diff when two versions are known to differ but
// no magnitude can be derived from them.
var ErrInconsistentVersion = errors.New("inconsistent version change")

// Zero is the implicit version of a module that did not exist yet.
const Zero = "0.0.0"

// Parse parses a strict semantic version.
func Parse(version string) (*mmsemver.Version, error) {
	v, err := mmsemver.StrictNewVersion(version)
	if err != nil {
		return nil, fmt.Errorf("invalid version %q: %w", version, err)
	}
	return v, nil
}

// IsValid reports whether version is a strict semantic version.
func IsValid(version string) bool {
	_, err := mmsemver.StrictNewVersion(version)
	return err == nil
}

// Diff returns the magnitude of the change from one version to another.
//
// A prerelease target is always a prerelease change. Otherwise the first differing
// component among major, minor and patch decides. When only a prerelease was dropped
// (1.0.0-rc.1 -> 1.0.0) the release finalizes the prerelease line and the magnitude is
// taken from the highest-precision non-zero component of the target. Any other pair is
// reported as ErrInconsistentVersion.
func Diff(from, to string) (Magnitude, error) {
	a, err := Parse(from)
	if err != nil {
		return MagnitudeNone, err
	}
	b, err := Parse(to)
	if err != nil {
		return MagnitudeNone, err
	}

	if b.Prerelease() != "" {
		return Prerelease, nil
	}

	switch {
	case a.Major() != b.Major():
		return Major, nil
	case a.Minor() != b.Minor():
		return Minor, nil
	case a.Patch() != b.Patch():
		return Patch, nil
	}

	if a.Prerelease() != "" {
		switch {
		case b.Patch() != 0:
			return Patch, nil
		case b.Minor() != 0:
			return Minor, nil
		default:
			return Major, nil
		}
	}

	return MagnitudeNone, fmt.Errorf("%w: %s -> %s", ErrInconsistentVersion, from, to)
}

// Increment returns version advanced by magnitude. Build metadata is dropped.
//
// Major, minor and patch reset the lower components and clear the prerelease.
// Prerelease bumps the last numeric prerelease identifier (1.0.0-rc.1 -> 1.0.0-rc.2),
// appends ".0" when there is none (1.0.0-rc -> 1.0.0-rc.0) and starts a new
// prerelease of the next patch when the version is a release (1.2.3 -> 1.2.4-0).
func Increment(version string, magnitude Magnitude) (string, error) {
	v, err := Parse(version)
	if err != nil {
		return "", err
	}

	var next *mmsemver.Version
	switch magnitude {
	case Major:
		next = mmsemver.New(v.Major()+1, 0, 0, "", "")
	case Minor:
		next = mmsemver.New(v.Major(), v.Minor()+1, 0, "", "")
	case Patch:
		next = mmsemver.New(v.Major(), v.Minor(), v.Patch()+1, "", "")
	case Prerelease:
		if v.Prerelease() == "" {
			next = mmsemver.New(v.Major(), v.Minor(), v.Patch()+1, "0", "")
		} else {
			next = mmsemver.New(v.Major(), v.Minor(), v.Patch(), bumpPrerelease(v.Prerelease()), "")
		}
	default:
		return "", fmt.Errorf("cannot increment %s by %s", version, magnitude)
	}

	return next.String(), nil
}

// bumpPrerelease increments the last numeric identifier of a prerelease string.
func bumpPrerelease(pre string) string {
	ids := strings.Split(pre, ".")
	for i := len(ids) - 1; i >= 0; i-- {
		n, err := strconv.ParseUint(ids[i], 10, 64)
		if err != nil {
			continue
		}
		ids[i] = strconv.FormatUint(n+1, 10)
		return strings.Join(ids, ".")
	}
	return pre + ".0"
}
