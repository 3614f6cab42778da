package clients

import (
	"net/url"
	"strconv"
)

type filter struct {
	field string
	value string
}

// Query describes the Directus query parameters of an items request.
type Query struct {
	filters []filter
	sort    string
	limit   int
	fields  string
}

// NewQuery returns an empty query.
func NewQuery() Query {
	return Query{}
}

// Eq adds filter[field][_eq]=value.
func (q Query) Eq(field, value string) Query {
	q.filters = append(append([]filter(nil), q.filters...), filter{field: field, value: value})
	return q
}

// Sort sets the sort expression, e.g. "sort" or "-date_created".
func (q Query) Sort(expr string) Query {
	q.sort = expr
	return q
}

func (q Query) Limit(n int) Query {
	q.limit = n
	return q
}

// Fields sets the field selection; "*.*" expands first-level relations.
func (q Query) Fields(expr string) Query {
	q.fields = expr
	return q
}

// Values encodes the query as URL parameters.
func (q Query) Values() url.Values {
	v := url.Values{}
	for _, f := range q.filters {
		v.Add("filter["+f.field+"][_eq]", f.value)
	}
	if q.sort != "" {
		v.Set("sort", q.sort)
	}
	if q.limit > 0 {
		v.Set("limit", strconv.Itoa(q.limit))
	}
	if q.fields != "" {
		v.Set("fields", q.fields)
	}
	return v
}
