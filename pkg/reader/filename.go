package reader

import "path/filepath"

// ResolveFilename normalises a user-supplied recording name into the
// canonical recording filename: names without an extension get ".log"
// appended, and bare names are resolved against the recordings directory.
// Pure string transform, no I/O.
func ResolveFilename(name, dir string) string {
	if filepath.Ext(name) == "" {
		name += ".log"
	}
	if dir != "" && !filepath.IsAbs(name) && filepath.Dir(name) == "." {
		name = filepath.Join(dir, name)
	}
	return name
}
