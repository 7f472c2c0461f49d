package discover

import (
	"net/url"
	"strings"

	"tastytrail/globals"
)

// ParseCriteria reads the discovery form from a query string.
//
//	q         free-text title search
//	sort      recent | prep | popular (default recent)
//	cat       repeated, one per checked category
//	filtered  set to 1 when the category boxes were submitted
//
// Browsers do not send unchecked boxes, so without the filtered marker the
// toggle map stays nil and every category is shown.
func ParseCriteria(q url.Values) Criteria {
	c := Criteria{
		Query: strings.TrimSpace(q.Get("q")),
		Sort:  parseSort(q.Get("sort")),
	}
	if q.Get("filtered") == "" {
		return c
	}

	c.Categories = make(map[string]bool, len(globals.Categories))
	for _, name := range globals.Categories {
		c.Categories[name] = false
	}
	for _, name := range q["cat"] {
		if _, known := c.Categories[name]; known {
			c.Categories[name] = true
		}
	}
	return c
}

func parseSort(s string) SortMode {
	switch SortMode(strings.ToLower(strings.TrimSpace(s))) {
	case SortPrepTime:
		return SortPrepTime
	case SortPopular:
		return SortPopular
	default:
		return SortRecent
	}
}

// Values encodes c back into the form the discovery page submits.
func (c Criteria) Values() url.Values {
	v := url.Values{}
	if c.Query != "" {
		v.Set("q", c.Query)
	}
	v.Set("sort", string(c.Sort))
	if c.Categories != nil {
		v.Set("filtered", "1")
		for _, name := range globals.Categories {
			if c.Categories[name] {
				v.Add("cat", name)
			}
		}
	}
	return v
}

// Included reports whether the box for category should be checked.
func (c Criteria) Included(category string) bool {
	included, ok := c.Categories[category]
	return !ok || included
}

// Categories is the fixed category list offered as toggles.
func Categories() []string {
	return globals.Categories
}
