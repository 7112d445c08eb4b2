package query

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/hickst/qmtools/internal/model"
)

// DefaultPageSize is the number of records requested per page when the
// builder is not given a positive page size.
const DefaultPageSize = 1000

// newestFirst sorts results by creation time, most recent first.
const newestFirst = "-_created"

// Builder constructs query URLs against one MRIQC server.
type Builder struct {
	baseURL  string
	pageSize int
}

// NewBuilder returns a Builder for the server at baseURL.
// A trailing slash on baseURL is ignored. Non-positive pageSize falls back
// to DefaultPageSize.
func NewBuilder(baseURL string, pageSize int) *Builder {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &Builder{
		baseURL:  strings.TrimRight(baseURL, "/"),
		pageSize: pageSize,
	}
}

// BaseURL returns the server URL queries are built against.
func (b *Builder) BaseURL() string {
	return b.baseURL
}

// PageSize returns the default page size.
func (b *Builder) PageSize() int {
	return b.pageSize
}

// Build returns the URL for one page of modality records.
//
// Page numbers below 1 are clamped to 1 and maxResults below 1 to the
// builder's page size. When latest is true the server is asked to return the
// most recently created records first. Criteria, when present, are joined
// with " and " into a single escaped where parameter.
func (b *Builder) Build(modality model.Modality, page, maxResults int, latest bool, criteria Criteria) (string, error) {
	if !modality.Valid() {
		return "", fmt.Errorf("%w: modality %q must be one of %s",
			model.ErrInvalidArgument, modality, strings.Join(model.ModalityNames(), ", "))
	}
	if page < 1 {
		page = 1
	}
	if maxResults < 1 {
		maxResults = b.pageSize
	}

	// url.Values.Encode sorts keys, so the query string is assembled by hand
	// to keep max_results, page, sort, where in that order.
	var sb strings.Builder
	sb.WriteString(b.baseURL)
	sb.WriteByte('/')
	sb.WriteString(string(modality))
	sb.WriteString("?max_results=")
	sb.WriteString(strconv.Itoa(maxResults))
	sb.WriteString("&page=")
	sb.WriteString(strconv.Itoa(page))
	if latest {
		sb.WriteString("&sort=")
		sb.WriteString(newestFirst)
	}
	if len(criteria) > 0 {
		sb.WriteString("&where=")
		sb.WriteString(url.QueryEscape(criteria.Where()))
	}
	return sb.String(), nil
}

// HealthQuery returns a minimal query used to check server availability.
func (b *Builder) HealthQuery() string {
	return b.baseURL + "/" + string(model.ModalityBold) + "?max_results=1"
}
