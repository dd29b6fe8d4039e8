// Package model defines the core domain models used throughout the application.
package model

// Category represents a category as defined in the remote ledger. The name is
// canonical: exact-match comparisons against suggestions use it verbatim.
type Category struct {
	Name        string
	Description string
	ID          int
	Archived    bool
	IsGroup     bool
}

// Active reports whether the category belongs to the working set for a run.
// Archived categories and category groups are never offered or committed.
func (c Category) Active() bool {
	return !c.Archived && !c.IsGroup
}

// ActiveCategories returns the active subset of cats, preserving order.
func ActiveCategories(cats []Category) []Category {
	active := make([]Category, 0, len(cats))
	for _, c := range cats {
		if c.Active() {
			active = append(active, c)
		}
	}
	return active
}
