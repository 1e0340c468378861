// Package archive keeps local copies of external articles so feed entries
// still have a readable source when the original page disappears.
package archive

import (
	"errors"
	"fmt"
)

// Article is the readable content extracted from a fetched page.
type Article struct {
	URL    string
	Title  string
	Author string

	// PublishDate is YYYY-MM-DD, or empty when the page does not say.
	PublishDate string

	// Body is sanitized article markup.
	Body string
}

var (
	// ErrInvalidURL is returned for URLs that are not http or https.
	ErrInvalidURL = errors.New("url must start with http:// or https://")

	// ErrInvalidSlug is returned for slugs that are not lowercase and hyphenated.
	ErrInvalidSlug = errors.New("slug must be lowercase letters, digits and hyphens")
)

// StatusError reports a non-200 response from the article host.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("article host returned HTTP %d for %s", e.Code, e.URL)
}
