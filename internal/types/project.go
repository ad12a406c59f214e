package types

import "fmt"

// Project is one discovered project root together with its usage history.
type Project struct {
	Name    string    `json:"name"`
	Path    string    `json:"path"`
	Type    TypeLabel `json:"type"`
	Hits    int       `json:"hits"`
	IDEPath string    `json:"idePath"`
}

// Validate checks if the project has valid field values
func (p *Project) Validate() error {
	if p.Path == "" {
		return fmt.Errorf("path is required")
	}
	if p.Hits < 0 {
		return fmt.Errorf("hits cannot be negative (got %d)", p.Hits)
	}
	if !p.Type.IsValid() {
		return fmt.Errorf("invalid project type: %s", p.Type)
	}
	return nil
}

// HasHistory reports whether the project carries usage data worth keeping
// across scans.
func (p *Project) HasHistory() bool {
	return p.Hits > 0 || p.IDEPath != ""
}

// TypeLabel classifies a project by technology stack
type TypeLabel string

const (
	TypeRust       TypeLabel = "rust"
	TypeDart       TypeLabel = "dart"
	TypeXcode      TypeLabel = "applescript" // historical label, icon assets are keyed by it
	TypeAndroid    TypeLabel = "android"
	TypeNuxt       TypeLabel = "nuxt"
	TypeVue        TypeLabel = "vue"
	TypeVSCode     TypeLabel = "vscode"
	TypeReact      TypeLabel = "react"
	TypeReactTS    TypeLabel = "react_ts"
	TypeHexo       TypeLabel = "hexo"
	TypeTypeScript TypeLabel = "typescript"
	TypeJavaScript TypeLabel = "javascript"
	TypeGo         TypeLabel = "go"
	TypeUnknown    TypeLabel = "unknown"
)

// IsValid checks if the type label is one of the known labels
func (t TypeLabel) IsValid() bool {
	switch t {
	case TypeRust, TypeDart, TypeXcode, TypeAndroid, TypeNuxt, TypeVue, TypeVSCode,
		TypeReact, TypeReactTS, TypeHexo, TypeTypeScript, TypeJavaScript, TypeGo, TypeUnknown:
		return true
	}
	return false
}

// ChildInfo is a single directory entry observed during a scan. Never persisted.
type ChildInfo struct {
	Name  string
	IsDir bool
	Path  string
}

// ResultItem is the record handed to the launcher for one project.
type ResultItem struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Arg      string `json:"arg"`
	Valid    bool   `json:"valid"`
	Icon     Icon   `json:"icon"`
}

// Icon references the image the launcher renders next to a result.
type Icon struct {
	Path string `json:"path"`
}

// ScriptFilter is the envelope the launcher expects on stdout.
type ScriptFilter struct {
	Items []ResultItem `json:"items"`
}
