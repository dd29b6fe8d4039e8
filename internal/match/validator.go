package match

import "github.com/jcowell/sift/internal/model"

// Validate filters suggestions down to those whose name is a literal,
// case-sensitive match to a canonical category name. Stricter than Resolve
// on purpose: suggestions offered for one-click selection must be
// unambiguous, so fuzzy resolution is reserved for names the user has
// already accepted. Dropped suggestions are returned for reporting.
func Validate(suggestions []model.Suggestion, categories []model.Category) (valid, dropped []model.Suggestion) {
	names := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		names[c.Name] = struct{}{}
	}

	for _, s := range suggestions {
		if _, ok := names[s.Name]; ok {
			valid = append(valid, s)
		} else {
			dropped = append(dropped, s)
		}
	}

	return valid, dropped
}
