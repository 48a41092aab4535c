package product

import "strings"

// AllergenDetector scans ingredient text for a configured keyword set.
type AllergenDetector struct {
	keywords []string
}

// NewAllergenDetector normalizes the keyword list for case-insensitive
// matching. Empty keywords are discarded.
func NewAllergenDetector(keywords []string) *AllergenDetector {
	normalized := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		normalized = append(normalized, kw)
	}
	return &AllergenDetector{keywords: normalized}
}

// Detect returns every keyword found as a substring of the ingredient text,
// duplicates removed, in keyword-list order. Matching is case-insensitive.
func (d *AllergenDetector) Detect(ingredients string) []string {
	if d == nil || ingredients == "" {
		return nil
	}

	haystack := strings.ToLower(ingredients)
	var found []string
	seen := make(map[string]struct{}, len(d.keywords))
	for _, kw := range d.keywords {
		if _, dup := seen[kw]; dup {
			continue
		}
		if strings.Contains(haystack, kw) {
			seen[kw] = struct{}{}
			found = append(found, kw)
		}
	}
	return found
}

// Merge combines allergens reported by the remote database with locally
// detected keywords, preserving order and dropping duplicates.
func Merge(reported, detected []string) []string {
	var merged []string
	seen := make(map[string]struct{}, len(reported)+len(detected))
	for _, group := range [][]string{reported, detected} {
		for _, allergen := range group {
			allergen = strings.ToLower(strings.TrimSpace(allergen))
			if allergen == "" {
				continue
			}
			if _, dup := seen[allergen]; dup {
				continue
			}
			seen[allergen] = struct{}{}
			merged = append(merged, allergen)
		}
	}
	return merged
}
