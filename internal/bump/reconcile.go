package bump

import (
	"fmt"

	"github.com/ariel-frischer/wsbump/internal/semver"
)

// Reconcile computes the next version of a module.
//
// current is the module's version at the base point and prior its version at the start
// point; an empty prior means the module did not exist at the start point.
//
// Rules, first match wins:
//  1. No prior version: the module is new; the change is measured from 0.0.0 and the
//     decision is ignored.
//  2. current differs from prior: a human already set the version; the change is
//     measured between the two and the decision is ignored.
//  3. Otherwise the decision's severity is applied to current, downgraded one step on a
//     0.x line and forced to prerelease on a prerelease line.
//
// Only rules 1 and 2 can fail, when the two versions do not describe a change
// (semver.ErrInconsistentVersion).
func Reconcile(decision ModuleDecision, current, prior string) (VersionResolution, error) {
	res := VersionResolution{Module: decision.Module}

	if prior == "" || current != prior {
		from := prior
		if from == "" {
			from = semver.Zero
		}
		magnitude, err := semver.Diff(from, current)
		if err != nil {
			return res, fmt.Errorf("module %s: %w", decision.Module, err)
		}
		res.From, res.To, res.Magnitude = from, current, magnitude
		return res, nil
	}

	res.From = current
	magnitude, err := effectiveMagnitude(decision.Severity, current)
	if err != nil {
		return res, fmt.Errorf("module %s: %w", decision.Module, err)
	}
	if magnitude == semver.MagnitudeNone {
		res.To = current
		return res, nil
	}

	next, err := semver.Increment(current, magnitude)
	if err != nil {
		return res, fmt.Errorf("module %s: %w", decision.Module, err)
	}
	res.To, res.Magnitude = next, magnitude
	return res, nil
}

// effectiveMagnitude applies the 0.x and prerelease downgrades to a severity.
func effectiveMagnitude(severity semver.Magnitude, current string) (semver.Magnitude, error) {
	v, err := semver.Parse(current)
	if err != nil {
		return semver.MagnitudeNone, err
	}
	if severity == semver.MagnitudeNone {
		return severity, nil
	}

	if v.Major() == 0 {
		switch severity {
		case semver.Major:
			severity = semver.Minor
		case semver.Minor:
			severity = semver.Patch
		}
	}

	if v.Prerelease() != "" {
		severity = semver.Prerelease
	}

	return severity, nil
}
