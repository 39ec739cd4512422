// Package category holds the spending-category taxonomy: an ordered list of
// keyword-scored categories built once at startup and never mutated.
package category

import (
	"fmt"
	"strings"
)

// Category is one taxonomy entry. Keywords are lowercase substrings matched
// against message or statement text.
type Category struct {
	Name     string
	Label    string
	Keywords []string
}

// IsCatchAll reports whether this category matches when nothing else does.
// The catch-all is the single entry with an empty keyword set.
func (c Category) IsCatchAll() bool {
	return len(c.Keywords) == 0
}

// Taxonomy is an immutable ordered set of categories. Exactly one catch-all
// exists and is ordered last; New enforces this at construction.
type Taxonomy struct {
	categories []Category
}

// New validates and builds a taxonomy from an ordered category list.
func New(categories []Category) (*Taxonomy, error) {
	if len(categories) == 0 {
		return nil, fmt.Errorf("category.New: empty taxonomy")
	}

	normalized := make([]Category, 0, len(categories))
	catchAlls := 0
	for i, c := range categories {
		if strings.TrimSpace(c.Name) == "" {
			return nil, fmt.Errorf("category.New: entry %d has no name", i)
		}
		if c.IsCatchAll() {
			catchAlls++
		}
		keywords := make([]string, 0, len(c.Keywords))
		for _, kw := range c.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				return nil, fmt.Errorf("category.New: category %q has an empty keyword", c.Name)
			}
			keywords = append(keywords, kw)
		}
		normalized = append(normalized, Category{
			Name:     c.Name,
			Label:    c.Label,
			Keywords: keywords,
		})
	}

	if catchAlls != 1 {
		return nil, fmt.Errorf("category.New: want exactly one catch-all category, got %d", catchAlls)
	}
	if !normalized[len(normalized)-1].IsCatchAll() {
		return nil, fmt.Errorf("category.New: catch-all category must be ordered last")
	}

	return &Taxonomy{categories: normalized}, nil
}

// Categories returns the taxonomy entries in declared order.
func (t *Taxonomy) Categories() []Category {
	out := make([]Category, len(t.categories))
	copy(out, t.categories)
	return out
}

// CatchAll returns the terminal catch-all category.
func (t *Taxonomy) CatchAll() Category {
	return t.categories[len(t.categories)-1]
}

// FirstMatch returns the first category, in declared order and excluding the
// catch-all, with a case-insensitive keyword substring hit in text. The
// catch-all is returned when nothing matches.
func (t *Taxonomy) FirstMatch(text string) Category {
	lower := strings.ToLower(text)
	for _, c := range t.categories {
		if c.IsCatchAll() {
			continue
		}
		for _, kw := range c.Keywords {
			if strings.Contains(lower, kw) {
				return c
			}
		}
	}
	return t.CatchAll()
}

// BestScore returns the category with the highest count of distinct keyword
// hits in text. Ties break by declared order; zero hits anywhere yields the
// catch-all. Retained alongside FirstMatch as a separate contract: callers
// picked one or the other historically and both behaviors are depended on.
func (t *Taxonomy) BestScore(text string) Category {
	lower := strings.ToLower(text)
	best := t.CatchAll()
	bestScore := 0
	for _, c := range t.categories {
		if c.IsCatchAll() {
			continue
		}
		score := 0
		for _, kw := range c.Keywords {
			if strings.Contains(lower, kw) {
				score++
			}
		}
		if score > bestScore {
			best = c
			bestScore = score
		}
	}
	return best
}
