// Package uri resolves trajectory resource URIs of the form
// scheme:path#fragment against a local search path.
//
// Recognized schemes: "file" resolves the path against the search
// directories; schemes in the resolver's alias set behave like "file"; an
// empty scheme with an empty path resolves to nothing; unknown schemes
// resolve to nothing.
package uri

import (
	"os"
	"path/filepath"
	"strings"
)

// Parts is a URI split into its components.
type Parts struct {
	Scheme   string
	Path     string
	Fragment string
}

// Parse splits a URI into scheme, path and fragment. The fragment starts at
// the last '#'; the scheme ends at the first ':'. A URI without a colon has
// an empty scheme.
func Parse(raw string) Parts {
	var p Parts
	p.Path = raw
	if i := strings.LastIndexByte(p.Path, '#'); i >= 0 {
		p.Fragment = p.Path[i+1:]
		p.Path = p.Path[:i]
	}
	if i := strings.IndexByte(p.Path, ':'); i >= 0 {
		p.Scheme = p.Path[:i]
		p.Path = p.Path[i+1:]
	}
	return p
}

// Resolver locates local files referenced by URIs.
type Resolver struct {
	// SearchDirs are tried in order when a path is not absolute and does
	// not exist relative to the current directory.
	SearchDirs []string

	// SchemeAliases are additional schemes treated like "file".
	SchemeAliases []string
}

// Resolve returns the local filesystem path for a URI, or "" when the URI
// does not resolve to anything.
func (r *Resolver) Resolve(raw string) string {
	p := Parse(raw)
	if p.Scheme == "" && p.Path == "" {
		return ""
	}
	if p.Scheme == "file" {
		return r.findLocalFile(p.Path)
	}
	for _, alias := range r.SchemeAliases {
		if p.Scheme == alias {
			return r.findLocalFile(p.Path)
		}
	}
	return ""
}

// findLocalFile resolves a path against the search directories; absolute
// paths and paths that exist as given win.
func (r *Resolver) findLocalFile(path string) string {
	if path == "" {
		return ""
	}
	if filepath.IsAbs(path) {
		if fileExists(path) {
			return path
		}
		return ""
	}
	if fileExists(path) {
		return path
	}
	for _, dir := range r.SearchDirs {
		candidate := filepath.Join(dir, path)
		if fileExists(candidate) {
			return candidate
		}
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
