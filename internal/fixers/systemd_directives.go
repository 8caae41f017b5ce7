package fixers

import (
	"context"

	"github.com/debtidy/debtidy/internal/deb/systemd"
)

// syslogOutputs maps obsolete StandardOutput/StandardError values to their
// journal equivalents. systemd forwards journal output to syslog anyway and
// warns about the old values.
var syslogOutputs = map[string]string{
	"syslog":         "journal",
	"syslog+console": "journal+console",
}

// SystemdDirectives replaces obsolete directive values in systemd units
// shipped under debian/.
type SystemdDirectives struct{}

func (SystemdDirectives) Name() string { return "systemd-obsolete-directives" }

func (SystemdDirectives) Tags() []string {
	return []string{"systemd-service-file-uses-deprecated-syslog-facility"}
}

func (SystemdDirectives) Fix(_ context.Context, tree *Tree) (*Result, error) {
	units, err := systemd.FindUnits(tree.Path("debian"))
	if err != nil {
		return nil, err
	}

	var changedPaths []string
	for _, unit := range units {
		ed, err := systemd.Open(unit)
		if err != nil {
			if skippable(err) {
				continue
			}
			return nil, err
		}
		service := ed.Model().Section("Service")
		if service != nil {
			for _, key := range []string{"StandardOutput", "StandardError"} {
				value, ok := service.Get(key)
				if !ok {
					continue
				}
				if replacement, obsolete := syslogOutputs[value]; obsolete {
					service.Set(key, replacement)
				}
			}
		}
		changed, err := ed.Close()
		if err != nil {
			return nil, err
		}
		if changed {
			changedPaths = append(changedPaths, tree.Rel(unit))
		}
	}
	if len(changedPaths) == 0 {
		return &Result{}, nil
	}
	return &Result{
		Summary:   "Use the journal instead of obsolete syslog output in systemd units.",
		Changed:   changedPaths,
		FixedTags: []string{"systemd-service-file-uses-deprecated-syslog-facility"},
	}, nil
}
