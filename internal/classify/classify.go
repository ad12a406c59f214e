// Package classify decides a project's technology label from the entries of
// its root directory.
//
// Classification is an ordered list of marker checks; the first one that
// matches wins. Some markers are more specific than others (a Rust crate with
// a package.json for tooling is still a Rust project), so the order is part of
// the contract:
//
//  1. Cargo.toml                  -> rust
//  2. pubspec.yaml                -> dart
//  3. *.xcodeproj                 -> applescript
//  4. app + gradle                -> android
//  5. package.json                -> nuxt, vue, vscode, react_ts, react, hexo,
//     typescript or javascript
//  6. go.mod (valid module file)  -> go
//  7. anything else               -> unknown
//
// Entry names are compared case-insensitively by set membership.
package classify

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/mod/modfile"

	"github.com/steveyegge/pj/internal/types"
)

const (
	manifestName = "package.json"
	goModName    = "go.mod"
	xcodeSuffix  = ".xcodeproj"
	tsConfigName = "tsconfig.json"
)

// Classifier labels project roots. The zero value is not usable; call New.
type Classifier struct {
	// ReadFile loads marker files whose content matters (package.json, go.mod).
	ReadFile func(name string) ([]byte, error)

	logger zerolog.Logger
}

// New creates a Classifier that reads manifests from the local filesystem.
func New(logger zerolog.Logger) *Classifier {
	return &Classifier{
		ReadFile: os.ReadFile,
		logger:   logger,
	}
}

// Classify returns the label for a directory given its immediate children.
func (c *Classifier) Classify(children []types.ChildInfo) types.TypeLabel {
	entries := newEntrySet(children)

	switch {
	case entries.hasAll("cargo.toml"):
		return types.TypeRust
	case entries.hasAll("pubspec.yaml"):
		return types.TypeDart
	case entries.countSuffix(xcodeSuffix) == 1:
		return types.TypeXcode
	case entries.hasAll("app", "gradle"):
		return types.TypeAndroid
	case entries.hasAll(manifestName):
		return c.classifyJS(entries)
	case entries.hasAll(goModName) && c.isGoModule(entries.path(goModName)):
		return types.TypeGo
	}
	return types.TypeUnknown
}

func (c *Classifier) classifyJS(entries entrySet) types.TypeLabel {
	switch {
	case entries.hasAll("nuxt.config.js"):
		return types.TypeNuxt
	case entries.hasAll("vue.config.js"):
		return types.TypeVue
	case entries.hasAll(".vscodeignore"):
		return types.TypeVSCode
	}

	manifestPath := entries.path(manifestName)
	data, err := c.ReadFile(manifestPath)
	if err != nil {
		c.logger.Debug().Err(err).Str("path", manifestPath).Msg("Unreadable package manifest")
		return types.TypeUnknown
	}
	manifest, err := ParseManifest(data)
	if err != nil {
		c.logger.Debug().Err(err).Str("path", manifestPath).Msg("Invalid package manifest")
		return types.TypeUnknown
	}

	isTS := entries.hasAll(tsConfigName)
	deps := manifest.DependencyNames()

	switch {
	case containsAll(deps, "react"):
		if isTS {
			return types.TypeReactTS
		}
		return types.TypeReact
	case containsAll(deps, "hexo"):
		return types.TypeHexo
	case isTS:
		return types.TypeTypeScript
	}
	return types.TypeJavaScript
}

func (c *Classifier) isGoModule(path string) bool {
	data, err := c.ReadFile(path)
	if err != nil {
		c.logger.Debug().Err(err).Str("path", path).Msg("Unreadable go.mod")
		return false
	}
	f, err := modfile.ParseLax(path, data, nil)
	if err != nil {
		c.logger.Debug().Err(err).Str("path", path).Msg("Invalid go.mod")
		return false
	}
	return f.Module != nil && f.Module.Mod.Path != ""
}

// entrySet indexes one directory's children by lower-cased name.
type entrySet struct {
	children []types.ChildInfo
	lower    []string
}

func newEntrySet(children []types.ChildInfo) entrySet {
	lower := make([]string, len(children))
	for i, child := range children {
		lower[i] = strings.ToLower(child.Name)
	}
	return entrySet{children: children, lower: lower}
}

// hasAll reports whether the number of children named in required equals the
// size of required. Names must already be lower case.
func (e entrySet) hasAll(required ...string) bool {
	want := toSet(required)
	found := 0
	for _, name := range e.lower {
		if _, ok := want[name]; ok {
			found++
		}
	}
	return found == len(want)
}

func (e entrySet) countSuffix(suffix string) int {
	n := 0
	for _, name := range e.lower {
		if len(name) > len(suffix) && strings.HasSuffix(name, suffix) {
			n++
		}
	}
	return n
}

// path returns the full path of the first child with the given lower-case name.
func (e entrySet) path(name string) string {
	for i, lower := range e.lower {
		if lower == name {
			return e.children[i].Path
		}
	}
	return ""
}

// containsAll reports whether deps holds at least as many case-insensitive
// matches as there are required names. Extra dependencies are ignored.
func containsAll(deps []string, required ...string) bool {
	want := toSet(required)
	found := 0
	for _, dep := range deps {
		if _, ok := want[strings.ToLower(dep)]; ok {
			found++
		}
	}
	return found >= len(want)
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[strings.ToLower(name)] = struct{}{}
	}
	return set
}
