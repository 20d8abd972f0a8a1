package portfolio_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/appadook/full-stack-portfolio/internal/errors"
	"github.com/appadook/full-stack-portfolio/portfolio"
)

func TestExperience_Validate(t *testing.T) {
	valid := portfolio.Experience{
		Title:        "Engineer",
		Company:      "Acme",
		Duration:     "2024",
		Description:  []string{"built"},
		Technologies: []string{"Go"},
	}
	require.True(t, valid.Validate().OK())
	require.NoError(t, valid.Validate().Err())

	errs := portfolio.Experience{Title: "  "}.Validate()
	require.Equal(t, portfolio.FieldErrors{
		"title":        "Title is required",
		"company":      "Company is required",
		"duration":     "Duration is required",
		"description":  "At least one description point is required",
		"technologies": "At least one technology is required",
	}, errs)
	require.ErrorIs(t, errs.Err(), errors.ErrValidation)
}

func TestProject_Validate(t *testing.T) {
	errs := portfolio.Project{Title: "x", Description: "y", Technologies: []string{"Go"}}.Validate()
	require.Equal(t, "category: At least one category is required; image: Image URL is required", errs.String())

	p := portfolio.Project{Category: []string{"ML", "SWE"}}
	require.True(t, p.HasCategory("SWE"))
	require.False(t, p.HasCategory("swe"))
}

func TestTags(t *testing.T) {
	tags := portfolio.AddTag(nil, " Go ")
	tags = portfolio.AddTag(tags, "Go")
	tags = portfolio.AddTag(tags, "   ")
	tags = portfolio.AddTag(tags, "React")
	require.Equal(t, []string{"Go", "React"}, tags)

	trimmed := portfolio.RemoveTag(tags, "Go")
	require.Equal(t, []string{"React"}, trimmed)
	require.Equal(t, []string{"Go", "React"}, tags)
}
