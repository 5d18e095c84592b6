// Package query translates untrusted query-string parameters into a
// bounded MongoDB query descriptor. Translation runs in four ordered
// stages (filter, sort, project, paginate); each stage returns a new
// descriptor, so partial translations can never leak between requests.
package query

import (
	"net/url"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

const (
	// DefaultPage and DefaultLimit apply when page/limit are absent or
	// malformed. Malformed values deliberately fall back instead of
	// failing the request.
	DefaultPage  = 1
	DefaultLimit = 100

	// VersionMarker is excluded from results unless the caller asks for
	// an explicit field set.
	VersionMarker = "__v"
)

// reserved keys control translation and never become filters.
var reserved = map[string]bool{
	"page":   true,
	"sort":   true,
	"limit":  true,
	"fields": true,
}

// comparison suffixes rewritten to Mongo operators.
var operators = map[string]string{
	"gte": "$gte",
	"gt":  "$gt",
	"lte": "$lte",
	"lt":  "$lt",
}

// Descriptor is a refined, executable query. Zero value means
// "everything, default order, first page".
type Descriptor struct {
	Filter     bson.M
	Sort       bson.D
	Projection bson.M
	Skip       int64
	Limit      int64
}

// Translate builds a Descriptor from raw query parameters.
func Translate(values url.Values) Descriptor {
	d := Descriptor{}
	d = d.filter(values)
	d = d.sort(values)
	d = d.project(values)
	d = d.paginate(values)
	return d
}

// filter turns every non-reserved key into a filter condition.
// `duration[gte]=5` becomes {duration: {$gte: 5}}; plain keys become
// equality matches; repeated values become $in. Unknown fields pass
// through untouched, validation belongs to the entity.
func (d Descriptor) filter(values url.Values) Descriptor {
	filter := bson.M{}
	for key, vals := range values {
		if len(vals) == 0 {
			continue
		}

		field, op := splitOperator(key)
		if reserved[field] {
			continue
		}

		var cond any
		switch {
		case op != "":
			cond = bson.M{op: coerce(vals[len(vals)-1])}
		case len(vals) > 1:
			members := make([]any, len(vals))
			for i, v := range vals {
				members[i] = coerce(v)
			}
			cond = bson.M{"$in": members}
		default:
			cond = coerce(vals[0])
		}

		// field[gte]=5&field[lte]=9 merges into one comparison object
		if existing, ok := filter[field].(bson.M); ok {
			if next, ok := cond.(bson.M); ok {
				for k, v := range next {
					existing[k] = v
				}
				continue
			}
		}
		filter[field] = cond
	}

	d.Filter = filter
	return d
}

// sort applies a comma-separated multi-key sort, `-` prefix meaning
// descending. Without a sort key, newest documents come first.
func (d Descriptor) sort(values url.Values) Descriptor {
	raw := values.Get("sort")
	if raw == "" {
		d.Sort = bson.D{{Key: "createdAt", Value: -1}}
		return d
	}

	sort := bson.D{}
	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		order := 1
		if strings.HasPrefix(field, "-") {
			order = -1
			field = field[1:]
		}
		sort = append(sort, bson.E{Key: field, Value: order})
	}

	if len(sort) == 0 {
		sort = bson.D{{Key: "createdAt", Value: -1}}
	}
	d.Sort = sort
	return d
}

// project selects the requested fields, or everything minus the
// version marker.
func (d Descriptor) project(values url.Values) Descriptor {
	raw := values.Get("fields")
	if raw == "" {
		d.Projection = bson.M{VersionMarker: 0}
		return d
	}

	projection := bson.M{}
	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		projection[field] = 1
	}

	if len(projection) == 0 {
		projection = bson.M{VersionMarker: 0}
	}
	d.Projection = projection
	return d
}

// paginate computes skip/limit. No upper bound is enforced on limit
// here; the rate limiter owns abuse prevention.
func (d Descriptor) paginate(values url.Values) Descriptor {
	page := positiveInt(values.Get("page"), DefaultPage)
	limit := positiveInt(values.Get("limit"), DefaultLimit)

	d.Skip = (page - 1) * limit
	d.Limit = limit
	return d
}

// splitOperator parses "duration[gte]" into ("duration", "$gte").
// Keys without a recognized suffix come back with an empty operator.
func splitOperator(key string) (field, op string) {
	open := strings.IndexByte(key, '[')
	if open < 0 || !strings.HasSuffix(key, "]") {
		return key, ""
	}
	suffix := key[open+1 : len(key)-1]
	if mongoOp, ok := operators[suffix]; ok {
		return key[:open], mongoOp
	}
	return key, ""
}

// coerce parses numeric-looking values so Mongo compares numbers, not
// strings. Everything else stays a literal string.
func coerce(v string) any {
	if n, err := strconv.ParseFloat(v, 64); err == nil {
		return n
	}
	if v == "true" {
		return true
	}
	if v == "false" {
		return false
	}
	return v
}

func positiveInt(raw string, fallback int64) int64 {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
