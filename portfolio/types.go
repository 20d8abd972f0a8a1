package portfolio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/appadook/full-stack-portfolio/internal/errors"
)

// Kind is one of the two manageable content types.
type Kind string

const (
	KindExperience Kind = "experience"
	KindProject    Kind = "project"
)

// Kinds lists every entity kind.
var Kinds = []Kind{KindExperience, KindProject}

// Collection returns the REST collection segment for the kind.
func (k Kind) Collection() string {
	return string(k) + "s"
}

// Validate returns ErrUnknownKind for anything but an experience or project.
func (k Kind) Validate() error {
	switch k {
	case KindExperience, KindProject:
		return nil
	default:
		return fmt.Errorf("%w: %q", errors.ErrUnknownKind, string(k))
	}
}

// ParseKind accepts the singular or plural form ("project", "projects").
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "s"))
	return k, k.Validate()
}

// Entity is implemented by Experience and Project.
type Entity interface {
	EntityKind() Kind
	EntityID() ID
	Validate() FieldErrors
}

// ID identifies a persisted entity. The backend has served both document ids
// (strings) and integer primary keys, so both decode.
type ID string

func (id ID) IsNew() bool {
	return id == ""
}

func (id ID) String() string {
	return string(id)
}

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Timestamp decodes RFC 3339 values as well as the zone-less ISO format the
// backend emits for naive datetimes (treated as UTC).
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	time.DateOnly,
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognised timestamp %q", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

// FormatTimestamp renders an optional timestamp as a date, or "-" when unset.
func FormatTimestamp(t *Timestamp) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Format(time.DateOnly)
}
