// Package desktop edits freedesktop.org desktop entries.
package desktop

import (
	"fmt"

	"github.com/debtidy/debtidy/internal/deb/inifile"
	"github.com/debtidy/debtidy/internal/edit"
)

// MainSection is the group every desktop entry must carry.
const MainSection = "Desktop Entry"

// Open opens path as a desktop entry. A file without the [Desktop Entry]
// group is not machine readable.
func Open(path string, opts ...edit.Option) (*edit.Editor[*inifile.File], error) {
	ed, err := inifile.Open(path, inifile.DesktopOptions, opts...)
	if err != nil {
		return nil, err
	}
	if ed.Model().Section(MainSection) == nil {
		ed.Abort()
		return nil, fmt.Errorf("%w: %s: no [%s] group", edit.ErrNotMachineReadable, path, MainSection)
	}
	return ed, nil
}

// Entry returns the main group of an opened desktop entry.
func Entry(ed *edit.Editor[*inifile.File]) *inifile.Section {
	return ed.Model().Section(MainSection)
}
