package explore

import (
	"sort"
)

// facetID identifies a facet category.
type facetID int

const (
	facetEngine facetID = iota
	facetKind
	facetOutcome
)

// facetDef defines a facet category.
type facetDef struct {
	ID    facetID
	Label string
}

var facetDefs = []facetDef{
	{facetEngine, "Engine"},
	{facetKind, "Kind"},
	{facetOutcome, "Outcome"},
}

// facetValue is a single selectable value within a facet.
type facetValue struct {
	FacetID  facetID
	Value    string
	Count    int
	Selected bool
}

// facetState holds the complete filter state.
type facetState struct {
	Values map[facetID][]*facetValue
}

func newFacetState() *facetState {
	return &facetState{
		Values: make(map[facetID][]*facetValue),
	}
}

// facetValueOf returns the value a run contributes to a facet.
func facetValueOf(id facetID, r *runRow) string {
	switch id {
	case facetEngine:
		return r.Engine
	case facetKind:
		return r.Kind
	case facetOutcome:
		return r.Outcome
	}
	return ""
}

// buildFacets builds facet values from run data.
func buildFacets(runs []*runRow) *facetState {
	fs := newFacetState()
	for _, def := range facetDefs {
		counts := make(map[string]int)
		for _, r := range runs {
			counts[facetValueOf(def.ID, r)]++
		}
		fs.Values[def.ID] = mapToFacetValues(def.ID, counts)
	}
	return fs
}

func mapToFacetValues(id facetID, counts map[string]int) []*facetValue {
	values := make([]*facetValue, 0, len(counts))
	for v, c := range counts {
		values = append(values, &facetValue{FacetID: id, Value: v, Count: c})
	}
	sort.Slice(values, func(i, j int) bool {
		return values[i].Value < values[j].Value
	})
	return values
}

// selectedValues returns the set of selected values for a facet.
func (fs *facetState) selectedValues(id facetID) map[string]bool {
	selected := make(map[string]bool)
	for _, v := range fs.Values[id] {
		if v.Selected {
			selected[v.Value] = true
		}
	}
	return selected
}

// hasActiveFilters returns true if any facet has selections.
func (fs *facetState) hasActiveFilters() bool {
	for _, values := range fs.Values {
		for _, v := range values {
			if v.Selected {
				return true
			}
		}
	}
	return false
}

// resetAll deselects all facet values.
func (fs *facetState) resetAll() {
	for _, values := range fs.Values {
		for _, v := range values {
			v.Selected = false
		}
	}
}

// matchesRun returns true if a run passes all active filters.
// Within a facet: OR (union). Across facets: AND (intersection).
func (fs *facetState) matchesRun(r *runRow) bool {
	for _, def := range facetDefs {
		selected := fs.selectedValues(def.ID)
		if len(selected) == 0 {
			continue // no filter active for this facet
		}
		if !selected[facetValueOf(def.ID, r)] {
			return false
		}
	}
	return true
}

// updateCounts recounts facet values based on currently visible runs.
func (fs *facetState) updateCounts(runs []*runRow) {
	for _, values := range fs.Values {
		for _, v := range values {
			v.Count = 0
		}
	}

	for _, r := range runs {
		if !fs.matchesRun(r) {
			continue
		}
		for _, def := range facetDefs {
			value := facetValueOf(def.ID, r)
			for _, v := range fs.Values[def.ID] {
				if v.Value == value {
					v.Count++
				}
			}
		}
	}
}
