package eligibility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/hoops-draft-client/internal/draft"
)

func TestSearchQuery(t *testing.T) {
	con := bosWindow()
	con.NameLetter = "KM"
	con.NamePart = draft.NamePartEither
	con.AllowRetired = false

	q, ok := SearchQuery("kev", con, true)
	require.True(t, ok)
	assert.Equal(t, "kev", q.Q)
	assert.Equal(t, []int{bos.ID}, q.StintTeamIDs)
	require.NotNil(t, q.StintStartYear)
	assert.Equal(t, 2008, *q.StintStartYear)
	assert.Equal(t, 2015, *q.StintEndYear)
	assert.Equal(t, []string{"K", "M"}, q.NameLetters)
	assert.Equal(t, draft.NamePartEither, q.NamePart)
	assert.Equal(t, "active", q.Status)

	plain, ok := SearchQuery("kev", con, false)
	require.True(t, ok)
	assert.Empty(t, plain.StintTeamIDs)
	assert.Nil(t, plain.StintStartYear)

	_, ok = SearchQuery("", draft.Constraint{}, true)
	assert.False(t, ok)
}

func TestSearchQuery_SeveralWindowsNotPushedDown(t *testing.T) {
	con := draft.Constraint{
		YearLabel:    "1960-1969, 2000-2009",
		YearStart:    intp(1960),
		YearEnd:      intp(2009),
		Windows:      []draft.YearWindow{{Start: 1960, End: 1969}, {Start: 2000, End: 2009}},
		AllowActive:  true,
		AllowRetired: true,
	}
	q, ok := SearchQuery("", con, true)
	require.True(t, ok)
	assert.Nil(t, q.StintStartYear)
	assert.Nil(t, q.StintEndYear)
}
