// Package params holds the normalized parameter set accepted by the entity search endpoint.
package params

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Pagination defaults of the entity search endpoint.
const (
	FirstPage    = 1
	DefaultLimit = 50
	MaxLimit     = 1000
)

// Parameter keys.
const (
	KeyQuery       = "q"
	KeyPage        = "page"
	KeyLimit       = "limit"
	KeyBornAfter   = "born_after"
	KeyBornBefore  = "born_before"
	KeyDiedAfter   = "died_after"
	KeyDiedBefore  = "died_before"
	KeyOccupations = "occupations_id"
	KeyKind        = "kind"
	KeyBBox        = "bbox"
)

// Params is a compiled search request. Zero fields are absent, not empty filters.
type Params struct {
	Q             string    `json:"q,omitempty"`
	Page          int       `json:"page"`
	Limit         int       `json:"limit,omitempty"`
	BornAfter     string    `json:"born_after,omitempty"`
	BornBefore    string    `json:"born_before,omitempty"`
	DiedAfter     string    `json:"died_after,omitempty"`
	DiedBefore    string    `json:"died_before,omitempty"`
	OccupationsID []string  `json:"occupations_id,omitempty"`
	Kind          []string  `json:"kind,omitempty"`
	BBox          []float64 `json:"bbox,omitempty"`
}

// NormalizeLimit elides the default page size and clamps to MaxLimit.
func NormalizeLimit(limit int) int {
	if limit <= 0 || limit == DefaultLimit {
		return 0
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Values encodes the parameters as a query string. Arrays become repeated keys,
// bbox a comma-separated list.
func (p Params) Values() url.Values {
	v := url.Values{}
	if p.Q != "" {
		v.Set(KeyQuery, p.Q)
	}
	if p.Page > 0 {
		v.Set(KeyPage, strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		v.Set(KeyLimit, strconv.Itoa(p.Limit))
	}
	setIf(v, KeyBornAfter, p.BornAfter)
	setIf(v, KeyBornBefore, p.BornBefore)
	setIf(v, KeyDiedAfter, p.DiedAfter)
	setIf(v, KeyDiedBefore, p.DiedBefore)
	for _, id := range p.OccupationsID {
		v.Add(KeyOccupations, id)
	}
	for _, k := range p.Kind {
		v.Add(KeyKind, k)
	}
	if len(p.BBox) == 4 {
		parts := make([]string, len(p.BBox))
		for i, f := range p.BBox {
			parts[i] = strconv.FormatFloat(f, 'f', -1, 64)
		}
		v.Set(KeyBBox, strings.Join(parts, ","))
	}
	return v
}

// Encode returns the canonical query string (keys sorted, array order preserved).
func (p Params) Encode() string {
	return p.Values().Encode()
}

// CacheKey identifies the parameter set for caching and staleness checks.
func (p Params) CacheKey() string {
	return p.Encode()
}

// Unpaged returns a copy without pagination. Aggregate endpoints are not paginated.
func (p Params) Unpaged() Params {
	p.Page = 0
	p.Limit = 0
	return p
}

// Parse decodes a query string produced by Values.
func Parse(v url.Values) (Params, error) {
	p := Params{
		Q:             v.Get(KeyQuery),
		Page:          FirstPage,
		BornAfter:     v.Get(KeyBornAfter),
		BornBefore:    v.Get(KeyBornBefore),
		DiedAfter:     v.Get(KeyDiedAfter),
		DiedBefore:    v.Get(KeyDiedBefore),
		OccupationsID: v[KeyOccupations],
		Kind:          v[KeyKind],
	}
	if s := v.Get(KeyPage); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return Params{}, fmt.Errorf("invalid page %q", s)
		}
		p.Page = n
	}
	if s := v.Get(KeyLimit); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return Params{}, fmt.Errorf("invalid limit %q", s)
		}
		p.Limit = NormalizeLimit(n)
	}
	if s := v.Get(KeyBBox); s != "" {
		parts := strings.Split(s, ",")
		if len(parts) != 4 {
			return Params{}, fmt.Errorf("bbox must have 4 numbers, got %d", len(parts))
		}
		box := make([]float64, 4)
		for i, part := range parts {
			f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil {
				return Params{}, fmt.Errorf("invalid bbox value %q", part)
			}
			box[i] = f
		}
		p.BBox = box
	}
	return p, nil
}

func setIf(v url.Values, key, val string) {
	if val != "" {
		v.Set(key, val)
	}
}
