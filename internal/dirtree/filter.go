package dirtree

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/sabhiram/go-gitignore"
)

// IgnoreFileNames are the per-directory rule files honoured during the walk.
//
//nolint:gochecknoglobals // Config constant
var IgnoreFileNames = []string{".gitignore", ".ignore"}

// isHidden reports whether a base name is a dot file.
func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// ignoreRules matches paths against the ignore files found between the root
// and an entry. Compiled files are cached per directory; the cache is the
// only state shared between walker goroutines.
type ignoreRules struct {
	root  string
	cache sync.Map // directory -> []*gitignore.GitIgnore
}

func newIgnoreRules(root string) *ignoreRules {
	return &ignoreRules{root: root}
}

// matchers returns the compiled ignore files of dir.
func (r *ignoreRules) matchers(dir string) []*gitignore.GitIgnore {
	if cached, ok := r.cache.Load(dir); ok {
		return cached.([]*gitignore.GitIgnore) //nolint:forcetypeassert // Only this type is stored
	}

	var compiled []*gitignore.GitIgnore

	for _, name := range IgnoreFileNames {
		matcher, err := gitignore.CompileIgnoreFile(filepath.Join(dir, name))
		if err != nil {
			continue // Missing or unreadable
		}

		compiled = append(compiled, matcher)
	}

	actual, _ := r.cache.LoadOrStore(dir, compiled)

	return actual.([]*gitignore.GitIgnore) //nolint:forcetypeassert // Only this type is stored
}

// ignored reports whether any ignore file from the root down to the entry's
// parent matches it.
func (r *ignoreRules) ignored(entryPath string, isDir bool) bool {
	for dir := filepath.Dir(entryPath); ; dir = filepath.Dir(dir) {
		if rel, err := filepath.Rel(dir, entryPath); err == nil {
			rel = filepath.ToSlash(rel)
			if isDir {
				rel += "/"
			}

			for _, matcher := range r.matchers(dir) {
				if matcher.MatchesPath(rel) {
					return true
				}
			}
		}

		if dir == r.root || dir == filepath.Dir(dir) {
			return false
		}
	}
}

// overrideMatch is the verdict of the override globs for a path.
type overrideMatch uint8

const (
	overrideNone overrideMatch = iota
	overrideInclude
	overrideExclude
)

type overridePattern struct {
	glob string
	// fold matches case-insensitively.
	fold bool
	// base matches against the base name instead of the root-relative path.
	base bool
}

func (p overridePattern) matches(rel string) bool {
	subject := rel
	if p.base {
		subject = path.Base(rel)
	}

	if p.fold {
		subject = strings.ToLower(subject)
	}

	matched, err := doublestar.Match(p.glob, subject)

	return err == nil && matched
}

// overrides holds explicit include/exclude globs. Includes form a whitelist
// for files; directories are only ever excluded by negated globs.
type overrides struct {
	include []overridePattern
	exclude []overridePattern
}

// compileOverrides validates and compiles --glob and --iglob patterns.
func compileOverrides(globs, iglobs []string) (*overrides, error) {
	o := &overrides{}

	add := func(raw string, fold bool) error {
		glob := strings.TrimSpace(raw)
		if glob == "" {
			return nil
		}

		negate := strings.HasPrefix(glob, "!")
		glob = strings.TrimPrefix(glob, "!")
		glob = strings.TrimPrefix(glob, "/")

		if fold {
			glob = strings.ToLower(glob)
		}

		if !doublestar.ValidatePattern(glob) {
			return fmt.Errorf("invalid glob %q", raw)
		}

		pattern := overridePattern{glob: glob, fold: fold, base: !strings.Contains(glob, "/")}

		if negate {
			o.exclude = append(o.exclude, pattern)
		} else {
			o.include = append(o.include, pattern)
		}

		return nil
	}

	for _, g := range globs {
		if err := add(g, false); err != nil {
			return nil, err
		}
	}

	for _, g := range iglobs {
		if err := add(g, true); err != nil {
			return nil, err
		}
	}

	if len(o.include) == 0 && len(o.exclude) == 0 {
		return nil, nil //nolint:nilnil // No overrides configured
	}

	return o, nil
}

// match returns the verdict for a slash-separated path relative to the root.
func (o *overrides) match(rel string, isDir bool) overrideMatch {
	for _, p := range o.exclude {
		if p.matches(rel) {
			return overrideExclude
		}
	}

	for _, p := range o.include {
		if p.matches(rel) {
			return overrideInclude
		}
	}

	if len(o.include) > 0 && !isDir {
		return overrideExclude
	}

	return overrideNone
}
