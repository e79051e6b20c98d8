package cli

import (
	"fmt"

	flag "github.com/spf13/pflag"
)

// mode is the check-or-write choice shared by every rewriting command.
type mode struct {
	check     *bool
	write     *bool
	writeName string
	// writeByDefault selects write mode when neither flag is given.
	writeByDefault bool
}

// addMode registers --check and the write flag (--in-place, --fix or
// --write) on fs.
func addMode(fs *flag.FlagSet, writeName string, writeByDefault bool) *mode {
	m := &mode{writeName: writeName, writeByDefault: writeByDefault}

	m.check = fs.Bool("check", false, "Report pending changes without writing (exit 1 if any)")
	m.write = fs.Bool(writeName, false, "Rewrite files in place")

	return m
}

// writing reports whether files should be written. Both flags together
// are a usage error.
func (m *mode) writing() (bool, error) {
	if *m.check && *m.write {
		return false, usageError(fmt.Errorf("--check and --%s: %w", m.writeName, errModeConflict))
	}

	if *m.check {
		return false, nil
	}

	if *m.write {
		return true, nil
	}

	return m.writeByDefault, nil
}
