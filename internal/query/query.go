// AngelaMos | 2026
// query.go

// Package query turns list request parameters into SQL filter, sort and
// pagination fragments.
package query

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/carterperez-dev/leadflow/internal/core"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	// MaxPage keeps (page-1)*limit inside a 32-bit offset.
	MaxPage = math.MaxInt32 / MaxLimit
)

type Params struct {
	Page       int
	Limit      int
	Status     string
	Search     string
	AssignedTo string
	Sort       string
}

// FromRequest reads page, limit, status, search, assignedTo and sort from
// the query string. Non-numeric page or limit values fall back to defaults.
func FromRequest(r *http.Request) Params {
	q := r.URL.Query()

	p := Params{
		Page:       intParam(q.Get("page"), DefaultPage),
		Limit:      intParam(q.Get("limit"), DefaultLimit),
		Status:     strings.TrimSpace(q.Get("status")),
		Search:     strings.TrimSpace(q.Get("search")),
		AssignedTo: strings.TrimSpace(q.Get("assignedTo")),
		Sort:       strings.TrimSpace(q.Get("sort")),
	}
	p.Normalize()

	return p
}

func (p *Params) Normalize() {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

func intParam(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

type Order struct {
	Column string
	Desc   bool
}

// ParseSort resolves a sort expression such as "-createdAt" against the
// allowed field-to-column map. An empty raw value uses def.
func ParseSort(raw, def string, fields map[string]string) (Order, error) {
	if raw == "" {
		raw = def
	}

	desc := strings.HasPrefix(raw, "-")
	name := strings.TrimPrefix(raw, "-")

	column, ok := fields[name]
	if !ok {
		return Order{}, fmt.Errorf("unsupported sort field %q: %w", name, core.ErrInvalidInput)
	}

	return Order{Column: column, Desc: desc}, nil
}

// SQL renders the ORDER BY expression with id as a stable tiebreaker.
func (o Order) SQL() string {
	dir := "ASC"
	if o.Desc {
		dir = "DESC"
	}
	return fmt.Sprintf("%s %s, id %s", o.Column, dir, dir)
}

// Page is one page of a filtered listing plus the size of the whole set.
type Page[T any] struct {
	Items []T
	Total int
	Page  int
	Limit int
}
