package portfolio

import (
	"fmt"
	"sort"
	"strings"

	"github.com/appadook/full-stack-portfolio/internal/errors"
)

// FieldErrors maps a form field name to its inline error message.
type FieldErrors map[string]string

func (fe FieldErrors) OK() bool {
	return len(fe) == 0
}

// Err returns nil when there are no field errors, and an error wrapping
// errors.ErrValidation listing the fields otherwise.
func (fe FieldErrors) Err() error {
	if fe.OK() {
		return nil
	}
	return fmt.Errorf("%w: %s", errors.ErrValidation, fe.String())
}

func (fe FieldErrors) String() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+fe[f])
	}
	return strings.Join(parts, "; ")
}

// AddTag appends a trimmed value unless it is blank or already present.
func AddTag(tags []string, value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return tags
	}
	for _, t := range tags {
		if t == value {
			return tags
		}
	}
	return append(tags, value)
}

// RemoveTag returns tags without value. The input slice is not modified.
func RemoveTag(tags []string, value string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t != value {
			out = append(out, t)
		}
	}
	return out
}
