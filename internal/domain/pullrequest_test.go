package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	for _, in := range []string{"open", "MERGED", " closed "} {
		_, err := ParseStatus(in)
		assert.NoError(t, err, in)
	}
	_, err := ParseStatus("draft")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestDefaultSelection(t *testing.T) {
	sel := DefaultSelection()
	assert.Equal(t, AllRepositories, sel.Repository)
	assert.Empty(t, sel.Authors)
	assert.Equal(t, []Status{StatusOpen, StatusMerged, StatusClosed}, sel.Statuses)
	assert.Equal(t, "last-30-days", sel.DateRange)

	sel.Statuses[0] = StatusClosed
	assert.Equal(t, StatusOpen, AllStatuses[0], "default selection must not alias AllStatuses")
}

func TestFilterSelection_Toggles(t *testing.T) {
	sel := DefaultSelection()

	sel.ToggleAuthor("ann")
	sel.ToggleAuthor("bob")
	assert.Equal(t, []string{"ann", "bob"}, sel.Authors)
	sel.ToggleAuthor("ann")
	assert.Equal(t, []string{"bob"}, sel.Authors)

	sel.ToggleStatus(StatusMerged)
	assert.Equal(t, []Status{StatusOpen, StatusClosed}, sel.Statuses)
	sel.ToggleStatus(StatusMerged)
	assert.Equal(t, []Status{StatusOpen, StatusClosed, StatusMerged}, sel.Statuses)
}

func TestParseSeverityFilter(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
		wantErr  bool
	}{
		{input: "all", expected: "all"},
		{input: "Critical", expected: "critical"},
		{input: "warning", expected: "warning"},
		{input: "info", expected: "info"},
		{input: "success", wantErr: true},
		{input: "", wantErr: true},
	}
	for _, tc := range testCases {
		got, err := ParseSeverityFilter(tc.input)
		if tc.wantErr {
			assert.ErrorIs(t, err, ErrUnknownSeverity, tc.input)
			continue
		}
		require.NoError(t, err, tc.input)
		assert.Equal(t, tc.expected, got)
	}
}

func TestNormalizeAuthors(t *testing.T) {
	testCases := []struct {
		name     string
		input    []string
		expected []string
	}{
		{name: "nil", input: nil, expected: []string{}},
		{name: "blank only", input: []string{"", "  "}, expected: []string{}},
		{name: "duplicates and blanks", input: []string{"ann", "", "bob", "ann", " bob "}, expected: []string{"ann", "bob"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, NormalizeAuthors(tc.input))
		})
	}
}

func TestParseEventTypeFilter(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
		wantErr  bool
	}{
		{input: "all", expected: EventTypeAll},
		{input: "Deployment", expected: EventDeployment},
		{input: " ci_failure ", expected: EventCIFailure},
		{input: "sync_issue", expected: EventSyncIssue},
		{input: "health_improvement", expected: EventHealthImprovement},
		{input: "", wantErr: true},
		{input: "rollback", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseEventTypeFilter(tc.input)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrUnknownEventType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}
