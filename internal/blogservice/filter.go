package blogservice

import (
	"strings"

	"github.com/Taiwo-asiyanbi/blogging-api/internal/common"
)

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

// Filter narrows the public listing. All fields are optional; State is pinned
// to published by the query itself.
type Filter struct {
	// Title is matched as a case-insensitive substring.
	Title string
	// Tags matches blogs whose tag set intersects these tags.
	Tags []string
	// Author is a case-insensitive substring matched against a user's first
	// or last name. A non-empty Author that resolves to nobody makes the
	// listing fail with ErrAuthorNotFound.
	Author string
}

// Page holds pagination parameters. OrderBy sorts descending and must be one
// of the sortable columns.
type Page struct {
	Page    int
	Limit   int
	OrderBy string
}

// Metadata is the pagination block returned alongside every listing.
type Metadata struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

var sortColumns = []string{"created_at", "read_count", "reading_time"}

// ParseTags splits a comma-separated tag parameter into trimmed tags,
// dropping empty entries.
func ParseTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	var tags []string
	for _, tag := range strings.Split(s, ",") {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			tags = append(tags, tag)
		}
	}

	return tags
}

func (p *Page) validate(v *common.Validator) {
	if p.OrderBy != "" {
		v.Check(common.In(p.OrderBy, sortColumns...), "order_by", "must be one of created_at, read_count, reading_time")
	}
}

// normalize applies defaults and clamps the page size.
func (p *Page) normalize() {
	if p.Page < 1 {
		p.Page = defaultPage
	}

	if p.Limit < 1 {
		p.Limit = defaultLimit
	}

	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}

	if p.OrderBy == "" {
		p.OrderBy = "created_at"
	}
}

func (p Page) offset() int {
	return (p.Page - 1) * p.Limit
}

// orderColumn must only be called after validate: the value is interpolated
// into SQL and is safe only because it comes from the allow-list.
func (p Page) orderColumn() string {
	return p.OrderBy
}

func newMetadata(total int, p Page) Metadata {
	pages := 0
	if total > 0 {
		pages = (total + p.Limit - 1) / p.Limit
	}

	return Metadata{
		Page:  p.Page,
		Limit: p.Limit,
		Total: total,
		Pages: pages,
	}
}
