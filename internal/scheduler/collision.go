package scheduler

import (
	"strings"

	"github.com/krisbarrett/go-appsweep/internal/uninstall"
)

// collisionClass folds a mechanism into its collision equivalence
// class. InstallShield, sdbinst, Windows feature removal and unknown
// mechanisms all contend for the same installer lock as msiexec, so
// they share its class. Every other mechanism is its own class.
func collisionClass(m uninstall.Mechanism) uninstall.Mechanism {
	switch m {
	case uninstall.MechanismInstallShield,
		uninstall.MechanismSdbInst,
		uninstall.MechanismWindowsFeature,
		uninstall.MechanismUnknown:
		return uninstall.MechanismMsiexec
	default:
		return m
	}
}

// mechanismCollides reports whether two jobs contend for the same
// underlying install mechanism. Both sides are normalized through
// collisionClass before comparison.
func mechanismCollides(a, b uninstall.Descriptor) bool {
	return collisionClass(a.Mechanism) == collisionClass(b.Mechanism)
}

// footprintCollides reports whether two jobs appear to target the same
// or nested installations: matching publishers, or one install path
// being a prefix of the other. Comparisons use simple Unicode case
// folding so results do not depend on the process locale.
func footprintCollides(a, b uninstall.Descriptor) bool {
	if strings.EqualFold(a.Publisher, b.Publisher) {
		return true
	}
	if a.InstallPath != "" && b.InstallPath != "" {
		if foldHasPrefix(a.InstallPath, b.InstallPath) || foldHasPrefix(b.InstallPath, a.InstallPath) {
			return true
		}
	}
	return false
}

func foldHasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// collides reports whether a candidate conflicts with one running job
// under either the mechanism-class or the footprint rule.
func collides(candidate, running uninstall.Descriptor) bool {
	return mechanismCollides(candidate, running) || footprintCollides(candidate, running)
}

// eligible reports whether a candidate may be launched given the
// currently running records. oneLoudLimit additionally blocks a
// non-silent candidate while any non-silent job is running; silent
// candidates are never blocked by that rule.
func eligible(candidate *JobRecord, running []*JobRecord, oneLoudLimit bool) bool {
	if candidate.Status() != StatusWaiting {
		return false
	}
	cd := candidate.Descriptor()
	for _, r := range running {
		rd := r.Descriptor()
		if oneLoudLimit && !cd.Silent && !rd.Silent {
			return false
		}
		if collides(cd, rd) {
			return false
		}
	}
	return true
}
