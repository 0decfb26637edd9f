package state

import (
	"slices"
	"strings"
)

// Champion is a pickable champion; identity is the id.
type Champion struct {
	ID   uint16 `json:"id"`
	Name string `json:"name"`
}

// AutoPickConfig is the user's pick priority. Selected is ordered by
// priority, highest first.
type AutoPickConfig struct {
	Selected   []Champion `json:"selected"`
	Unselected []Champion `json:"unselected"`
	Enabled    bool       `json:"enabled"`
}

// Clone returns a copy that shares no slices with c.
func (c AutoPickConfig) Clone() AutoPickConfig {
	return AutoPickConfig{
		Selected:   slices.Clone(c.Selected),
		Unselected: slices.Clone(c.Unselected),
		Enabled:    c.Enabled,
	}
}

// Priorities returns the selected champion ids in priority order.
func (c AutoPickConfig) Priorities() []uint16 {
	ids := make([]uint16, 0, len(c.Selected))
	for _, ch := range c.Selected {
		ids = append(ids, ch.ID)
	}
	return ids
}

// Select moves the unselected champion at index i to the end of Selected.
func (c *AutoPickConfig) Select(i int) bool {
	if i < 0 || i >= len(c.Unselected) {
		return false
	}
	ch := c.Unselected[i]
	c.Unselected = slices.Delete(c.Unselected, i, i+1)
	c.Selected = append(c.Selected, ch)
	return true
}

// Deselect moves the selected champion at index i back to Unselected,
// keeping Unselected sorted by name.
func (c *AutoPickConfig) Deselect(i int) bool {
	if i < 0 || i >= len(c.Selected) {
		return false
	}
	ch := c.Selected[i]
	c.Selected = slices.Delete(c.Selected, i, i+1)
	pos, _ := slices.BinarySearchFunc(c.Unselected, ch, byName)
	c.Unselected = slices.Insert(c.Unselected, pos, ch)
	return true
}

// Move shifts the selected champion at index i by delta positions, clamped
// to the list bounds. It returns the new index.
func (c *AutoPickConfig) Move(i, delta int) int {
	if i < 0 || i >= len(c.Selected) {
		return i
	}
	j := min(max(i+delta, 0), len(c.Selected)-1)
	ch := c.Selected[i]
	c.Selected = slices.Delete(c.Selected, i, i+1)
	c.Selected = slices.Insert(c.Selected, j, ch)
	return j
}

// SetOwned replaces the champion pool with owned champions. Selected
// entries that are still owned keep their order; everything else becomes
// Unselected, sorted by name.
func (c *AutoPickConfig) SetOwned(owned []Champion) {
	byID := make(map[uint16]Champion, len(owned))
	for _, ch := range owned {
		byID[ch.ID] = ch
	}

	selected := make([]Champion, 0, len(c.Selected))
	for _, ch := range c.Selected {
		if o, ok := byID[ch.ID]; ok {
			selected = append(selected, o)
			delete(byID, ch.ID)
		}
	}

	unselected := make([]Champion, 0, len(byID))
	for _, ch := range owned {
		if _, ok := byID[ch.ID]; ok {
			unselected = append(unselected, ch)
		}
	}
	slices.SortFunc(unselected, byName)

	c.Selected = selected
	c.Unselected = unselected
}

// SelectByName appends, in argument order, the first unselected champion
// whose name contains each query (case-insensitive). Queries matching
// neither list are returned.
func (c *AutoPickConfig) SelectByName(queries []string) []string {
	var missing []string
	for _, q := range queries {
		q = strings.ToLower(strings.TrimSpace(q))
		if q == "" {
			continue
		}
		idx := slices.IndexFunc(c.Unselected, func(ch Champion) bool {
			return strings.Contains(strings.ToLower(ch.Name), q)
		})
		if idx < 0 {
			if !slices.ContainsFunc(c.Selected, func(ch Champion) bool {
				return strings.Contains(strings.ToLower(ch.Name), q)
			}) {
				missing = append(missing, q)
			}
			continue
		}
		c.Select(idx)
	}
	return missing
}

func byName(a, b Champion) int {
	return strings.Compare(a.Name, b.Name)
}
