package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d := ParseDate("2024-03-09")
	require.NotNil(t, d)
	assert.Equal(t, time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), *d)
}

func TestParseDate_MalformedIsNil(t *testing.T) {
	for _, s := range []string{"", "  ", "09/03/2024", "2024-13-01", "tomorrow"} {
		assert.Nil(t, ParseDate(s), "input=%q", s)
	}
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "", FormatDate(nil))
	assert.Equal(t, "2024-03-09", FormatDate(ParseDate("2024-03-09")))
}

func TestDateOf_UsesLocalCalendarDay(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	late := time.Date(2024, 1, 15, 23, 30, 0, 0, loc)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), DateOf(late))
}

func TestStageValidate(t *testing.T) {
	s := &Stage{Name: "Foundations", StartDate: ParseDate("2024-02-01"), EndDate: ParseDate("2024-01-01")}
	require.Error(t, s.Validate())

	s.EndDate = ParseDate("2024-02-28")
	assert.NoError(t, s.Validate())
}

func TestProjectValidate(t *testing.T) {
	p := &Project{Name: "Harbour Tower"}
	err := p.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start date")

	p.StartDate = *ParseDate("2024-01-01")
	assert.NoError(t, p.Validate())
}
