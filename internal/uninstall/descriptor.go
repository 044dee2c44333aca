// Package uninstall holds the read-only description of a removable
// application: which installer technology owns it, who published it,
// where it lives on disk, and how its uninstaller is invoked.
package uninstall

// Descriptor describes one application to be removed. It is owned by
// the caller and never mutated by the scheduler or executor.
type Descriptor struct {
	// Name is the human-readable display name, used only for logging.
	Name string

	// Publisher is the normalized vendor string. Two jobs with the
	// same publisher are assumed to share an installed footprint.
	Publisher string

	// InstallPath is the root directory of the installation, empty if
	// unknown.
	InstallPath string

	// Mechanism is the installer technology driving removal.
	Mechanism Mechanism

	// Silent reports whether the mechanism's native UI runs unattended.
	// Non-silent ("loud") jobs pop interactive windows.
	Silent bool

	// Command is the uninstall invocation as argv. Command[0] is the
	// program, the rest its arguments.
	Command []string

	// QuietCommand is an optional unattended variant of Command,
	// preferred when the scheduler is configured to run quiet.
	QuietCommand []string
}
