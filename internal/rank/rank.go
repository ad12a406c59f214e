// Package rank filters projects by keyword and orders them for the launcher.
package rank

import (
	"sort"
	"strings"

	"github.com/steveyegge/pj/internal/types"
)

// Filter returns the projects whose name contains keyword, ignoring case.
//
// Names that start with keyword exactly (case-sensitive) come first; the
// remaining matches follow. Each group is ordered by hits, highest first, and
// projects with equal hits keep their input order. projects is not modified.
func Filter(projects []types.Project, keyword string) []types.Project {
	needle := strings.ToLower(keyword)

	var prefix, other []types.Project
	for _, p := range projects {
		if !strings.Contains(strings.ToLower(p.Name), needle) {
			continue
		}
		if strings.HasPrefix(p.Name, keyword) {
			prefix = append(prefix, p)
		} else {
			other = append(other, p)
		}
	}

	byHits(prefix)
	byHits(other)

	result := make([]types.Project, 0, len(prefix)+len(other))
	result = append(result, prefix...)
	return append(result, other...)
}

func byHits(projects []types.Project) {
	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].Hits > projects[j].Hits
	})
}
