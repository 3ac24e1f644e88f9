package countries

import (
	"sort"
	"strings"
)

// Option is one select option: the alpha-2 code as value, the country name
// as label.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Search filters the list by query. Name prefix matches rank before name
// substring matches; an exact code match always ranks first. An empty query
// returns nothing unless EmptySearchTop is configured, in which case the top
// of the list is returned up to the limit.
func Search(list []Country, query string, limit int, opts Options) []Country {
	limit = clampLimit(limit, opts)
	if limit == 0 {
		return nil
	}

	query = strings.TrimSpace(query)
	if query == "" {
		if opts.EmptySearchMode == EmptySearchTop {
			if len(list) <= limit {
				return append([]Country{}, list...)
			}
			return append([]Country{}, list[:limit]...)
		}
		return nil
	}

	q := strings.ToLower(query)
	matches := make([]matchedCountry, 0, 32)
	for _, c := range list {
		lowerName := strings.ToLower(c.Name)
		codeMatch := strings.EqualFold(c.Code, query)
		if !codeMatch && !strings.Contains(lowerName, q) {
			continue
		}
		matches = append(matches, matchedCountry{
			country:  c,
			isCode:   codeMatch,
			isPrefix: strings.HasPrefix(lowerName, q),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].isCode != matches[j].isCode {
			return matches[i].isCode
		}
		if matches[i].isPrefix != matches[j].isPrefix {
			return matches[i].isPrefix
		}
		return matches[i].country.Name < matches[j].country.Name
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]Country, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.country)
	}
	return out
}

// SearchOptions runs Search and shapes the result as select options.
func SearchOptions(list []Country, query string, limit int, opts Options) []Option {
	results := Search(list, query, limit, opts)
	if len(results) == 0 {
		return nil
	}

	out := make([]Option, 0, len(results))
	for _, c := range results {
		out = append(out, Option{Value: c.Code, Label: c.Name})
	}
	return out
}

type matchedCountry struct {
	country  Country
	isCode   bool
	isPrefix bool
}
