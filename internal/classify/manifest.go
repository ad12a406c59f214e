package classify

import (
	"encoding/json"
	"fmt"
	"sort"
)

// DependencyMap is a manifest dependency object. Only the keys matter; version
// specifiers are kept raw and never interpreted.
type DependencyMap map[string]json.RawMessage

// Manifest is the subset of a package.json that classification looks at.
// A map is nil when its field is absent or is not a JSON object.
type Manifest struct {
	Dependencies    DependencyMap `json:"dependencies"`
	DevDependencies DependencyMap `json:"devDependencies"`
}

// ParseManifest decodes a package.json document. Only malformed JSON is an
// error: a document or dependency field of an unexpected shape yields empty
// dependencies.
func ParseManifest(data []byte) (Manifest, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return Manifest{}, fmt.Errorf("failed to parse package manifest: %w", err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return Manifest{}, nil
	}
	return Manifest{
		Dependencies:    dependencyObject(fields["dependencies"]),
		DevDependencies: dependencyObject(fields["devDependencies"]),
	}, nil
}

func dependencyObject(raw json.RawMessage) DependencyMap {
	if len(raw) == 0 {
		return nil
	}
	var deps DependencyMap
	if err := json.Unmarshal(raw, &deps); err != nil {
		return nil
	}
	return deps
}

// DependencyNames merges the keys of dependencies and devDependencies.
// The result is sorted and free of duplicates.
func (m Manifest) DependencyNames() []string {
	merged := make(map[string]struct{}, len(m.Dependencies)+len(m.DevDependencies))
	for _, deps := range []DependencyMap{m.Dependencies, m.DevDependencies} {
		for name := range deps {
			merged[name] = struct{}{}
		}
	}

	names := make([]string, 0, len(merged))
	for name := range merged {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
