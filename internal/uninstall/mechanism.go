package uninstall

import (
	"fmt"
	"strings"
)

// Mechanism identifies the installer technology behind an application,
// which determines how its removal is driven and which jobs can safely
// run alongside it.
type Mechanism string

const (
	MechanismMsiexec        Mechanism = "msiexec"
	MechanismInstallShield  Mechanism = "installshield"
	MechanismSdbInst        Mechanism = "sdbinst"
	MechanismWindowsFeature Mechanism = "windows_feature"
	MechanismNsis           Mechanism = "nsis"
	MechanismInnoSetup      Mechanism = "innosetup"
	MechanismSimpleDelete   Mechanism = "simple_delete"
	MechanismUnknown        Mechanism = "unknown"
)

// ParseMechanism maps a config string to a Mechanism. Unrecognised
// values are an error rather than silently Unknown so typos in config
// files surface at load time.
func ParseMechanism(s string) (Mechanism, error) {
	switch Mechanism(strings.ToLower(strings.TrimSpace(s))) {
	case MechanismMsiexec:
		return MechanismMsiexec, nil
	case MechanismInstallShield:
		return MechanismInstallShield, nil
	case MechanismSdbInst:
		return MechanismSdbInst, nil
	case MechanismWindowsFeature:
		return MechanismWindowsFeature, nil
	case MechanismNsis:
		return MechanismNsis, nil
	case MechanismInnoSetup:
		return MechanismInnoSetup, nil
	case MechanismSimpleDelete:
		return MechanismSimpleDelete, nil
	case MechanismUnknown, "":
		return MechanismUnknown, nil
	default:
		return MechanismUnknown, fmt.Errorf("unrecognised mechanism %q", s)
	}
}

func (m Mechanism) String() string {
	return string(m)
}
