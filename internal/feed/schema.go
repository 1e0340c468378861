package feed

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// DefaultSchema is the schema applied when none is named.
const DefaultSchema = "feed-entry"

//go:embed schemas/*.json
var schemaFS embed.FS

var (
	schemaMu    sync.Mutex
	schemaCache = map[string]*jsonschema.Schema{}
)

// ErrUnknownSchema is returned for a schema name with no embedded definition.
var ErrUnknownSchema = errors.New("unknown schema")

// SchemaError lists every problem found in a feed file.
type SchemaError struct {
	Issues []string
	cause  error
}

func (e *SchemaError) Unwrap() error { return e.cause }

func (e *SchemaError) Error() string {
	if len(e.Issues) == 1 {
		return e.Issues[0]
	}
	return fmt.Sprintf("%d error(s): %s", len(e.Issues), strings.Join(e.Issues, "; "))
}

// dateLayouts are the date shapes accepted in stored entries.
var dateLayouts = []string{
	time.RFC3339,
	DateLayout,
	"2006-01-02T15:04",
	"2006-01-02",
}

// CheckFile validates the feed file at path and returns its entry count.
func CheckFile(path, schemaName string) (int, error) {
	raw, err := os.ReadFile(path) // #nosec G304 -- caller-supplied path is the point
	if err != nil {
		return 0, fmt.Errorf("error reading %s: %w", path, err)
	}

	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return 0, fmt.Errorf("error reading %s: %w", path, err)
	}

	if err := CheckEntries(data, schemaName); err != nil {
		return 0, err
	}
	entries, _ := data.([]any)
	return len(entries), nil
}

// CheckEntries validates decoded JSON against a named entry schema.
// data must be a JSON array; each element is checked on its own so the
// issues can name the entry index.
func CheckEntries(data any, schemaName string) error {
	if schemaName == "" {
		schemaName = DefaultSchema
	}
	sch, err := loadSchema(schemaName)
	if err != nil {
		return &SchemaError{Issues: []string{fmt.Sprintf("Unknown schema: %s", schemaName)}, cause: err}
	}

	entries, ok := data.([]any)
	if !ok {
		return &SchemaError{Issues: []string{"Data must be an array"}}
	}

	var issues []string
	for i, entry := range entries {
		if err := sch.Validate(entry); err != nil {
			issues = append(issues, entryIssues(i, err)...)
		}
		if obj, ok := entry.(map[string]any); ok {
			if date, ok := obj["date"].(string); ok && date != "" && !validDate(date) {
				issues = append(issues, fmt.Sprintf("Entry %d: invalid date %q", i, date))
			}
		}
	}

	if len(issues) > 0 {
		return &SchemaError{Issues: issues}
	}
	return nil
}

func loadSchema(name string) (*jsonschema.Schema, error) {
	schemaMu.Lock()
	defer schemaMu.Unlock()

	if sch, ok := schemaCache[name]; ok {
		return sch, nil
	}

	file := name + ".json"
	f, err := schemaFS.Open("schemas/" + file)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSchema, name)
	}
	defer func() { _ = f.Close() }()

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(file, f); err != nil {
		return nil, fmt.Errorf("failed to load schema %s: %w", name, err)
	}
	sch, err := compiler.Compile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema %s: %w", name, err)
	}

	schemaCache[name] = sch
	return sch, nil
}

func entryIssues(index int, err error) []string {
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return []string{fmt.Sprintf("Entry %d: %v", index, err)}
	}

	var issues []string
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if len(node.Causes) == 0 {
			msg := strings.TrimSpace(node.Message)
			if loc := strings.TrimPrefix(strings.TrimSpace(node.InstanceLocation), "/"); loc != "" {
				msg = fmt.Sprintf("%q %s", loc, msg)
			}
			issues = append(issues, fmt.Sprintf("Entry %d: %s", index, msg))
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(verr)
	return issues
}

func validDate(s string) bool {
	_, ok := ParseDate(s)
	return ok
}

// ParseDate parses a stored entry date. ok is false for unparseable values.
func ParseDate(s string) (t time.Time, ok bool) {
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}
