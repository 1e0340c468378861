// Package roster loads the candidate roster used for profile links.
//
// The roster is plain configuration: it is loaded once, validated, and
// then passed explicitly to whatever renders or links candidate names.
package roster

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Candidate is one person with a profile page on the site.
type Candidate struct {
	Name      string `json:"name" yaml:"name" toml:"name"`
	Slug      string `json:"slug" yaml:"slug" toml:"slug"`
	Status    string `json:"status,omitempty" yaml:"status,omitempty" toml:"status,omitempty"`
	Incumbent bool   `json:"incumbent,omitempty" yaml:"incumbent,omitempty" toml:"incumbent,omitempty"`
	Photo     string `json:"photo,omitempty" yaml:"photo,omitempty" toml:"photo,omitempty"`
}

// Roster is the full candidate list.
type Roster struct {
	Candidates []Candidate `json:"candidates" yaml:"candidates" toml:"candidates"`
}

// Format identifies a roster file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

var (
	// ErrUnsupportedFormat is returned for roster files with an unknown extension.
	ErrUnsupportedFormat = errors.New("unsupported roster format")

	slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
)

// FormatFor picks the roster format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
}

// Load reads, parses and validates a roster file.
func Load(path string) (*Roster, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path) // #nosec G304 -- roster path is operator configuration
	if err != nil {
		return nil, fmt.Errorf("failed to read roster: %w", err)
	}

	r, err := Parse(data, format)
	if err != nil {
		return nil, err
	}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("invalid roster %s: %w", path, err)
	}
	return r, nil
}

// Parse decodes roster data in the given format without validating it.
func Parse(data []byte, format Format) (*Roster, error) {
	var r Roster
	var err error

	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &r)
	case FormatYAML:
		err = yaml.NewDecoder(bytes.NewReader(data)).Decode(&r)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	case FormatTOML:
		err = toml.Unmarshal(data, &r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse roster: %w", err)
	}
	return &r, nil
}

// Validate checks every candidate and rejects duplicate names.
func (r *Roster) Validate() error {
	seen := make(map[string]bool, len(r.Candidates))
	for i := range r.Candidates {
		c := &r.Candidates[i]
		if err := c.Validate(); err != nil {
			return fmt.Errorf("candidate %d (%s): %w", i, c.Name, err)
		}
		if seen[c.Name] {
			return fmt.Errorf("candidate %d: duplicate name %q", i, c.Name)
		}
		seen[c.Name] = true
	}
	return nil
}

// Validate checks a single candidate record.
func (c Candidate) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required, validation.By(trimmed)),
		validation.Field(&c.Slug, validation.Required, validation.Match(slugPattern).Error("must be lowercase words joined by hyphens")),
	)
}

func trimmed(value any) error {
	s, _ := value.(string)
	if s != strings.TrimSpace(s) {
		return errors.New("must not have leading or trailing spaces")
	}
	return nil
}

// Find returns the candidate with the given slug.
func (r *Roster) Find(slug string) (Candidate, bool) {
	if r == nil {
		return Candidate{}, false
	}
	for _, c := range r.Candidates {
		if c.Slug == slug {
			return c, true
		}
	}
	return Candidate{}, false
}

// Len reports how many candidates the roster holds. A nil roster is empty.
func (r *Roster) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Candidates)
}
