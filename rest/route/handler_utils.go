package route

import (
	"net/url"
	"strconv"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// getPage reads the page number from the query string, falling back to
// the default when the parameter is absent, non-numeric, or not
// positive.
func getPage(vals url.Values) int {
	if p, ok := vals["page"]; ok && len(p) > 0 {
		if page, err := strconv.Atoi(p[0]); err == nil && page > 0 {
			return page
		}
	}

	return defaultPage
}

// getLimit reads the page size from the query string with the same
// fallback behavior as getPage.
func getLimit(vals url.Values) int {
	if l, ok := vals["limit"]; ok && len(l) > 0 {
		if limit, err := strconv.Atoi(l[0]); err == nil && limit > 0 {
			return limit
		}
	}

	return defaultLimit
}
