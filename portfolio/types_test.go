package portfolio_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/appadook/full-stack-portfolio/internal/errors"
	"github.com/appadook/full-stack-portfolio/portfolio"
)

func TestParseKind(t *testing.T) {
	for _, in := range []string{"project", "projects", " Projects "} {
		k, err := portfolio.ParseKind(in)
		require.NoError(t, err)
		require.Equal(t, portfolio.KindProject, k)
	}
	require.Equal(t, "experiences", portfolio.KindExperience.Collection())
	for _, kind := range portfolio.Kinds {
		parsed, err := portfolio.ParseKind(kind.Collection())
		require.NoError(t, err)
		require.Equal(t, kind, parsed)
	}

	_, err := portfolio.ParseKind("skills")
	require.ErrorIs(t, err, errors.ErrUnknownKind)
}

func TestID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected portfolio.ID
	}{
		{name: "document id", input: `{"id":"aB3xYz"}`, expected: "aB3xYz"},
		{name: "integer primary key", input: `{"id":42}`, expected: "42"},
		{name: "null", input: `{"id":null}`, expected: ""},
		{name: "absent", input: `{}`, expected: ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var p portfolio.Project
			require.NoError(t, json.Unmarshal([]byte(test.input), &p))
			require.Equal(t, test.expected, p.ID)
			require.Equal(t, test.expected == "", p.ID.IsNew())
		})
	}

	var p portfolio.Project
	require.Error(t, json.Unmarshal([]byte(`{"id":true}`), &p))
}

func TestTimestamp_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Time
	}{
		{input: `"2024-03-01T10:20:30Z"`, expected: time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC)},
		{input: `"2024-03-01T10:20:30.123456"`, expected: time.Date(2024, 3, 1, 10, 20, 30, 123456000, time.UTC)},
		{input: `"2024-03-01 10:20:30"`, expected: time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC)},
		{input: `"2024-03-01"`, expected: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			var ts portfolio.Timestamp
			require.NoError(t, json.Unmarshal([]byte(test.input), &ts))
			require.True(t, test.expected.Equal(ts.Time), "got %s", ts.Time)
		})
	}

	var ts portfolio.Timestamp
	require.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
	require.Equal(t, "-", portfolio.FormatTimestamp(nil))
	require.Equal(t, "2024-03-01", portfolio.FormatTimestamp(&portfolio.Timestamp{Time: tests[0].expected}))
}
