package backend

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/hoops-draft-client/internal/draft"
	"github.com/DoyleJ11/hoops-draft-client/internal/testutil"
)

func intp(v int) *int { return &v }

func TestClient_IdentityDraftAndJoin(t *testing.T) {
	fake := testutil.NewFakeBackend()
	defer fake.Close()

	fake.SetIdentity(draft.Identity{ID: "u-guest", Username: "guest"})
	fake.PutDraft(draft.SessionDescriptor{ID: 7, HostID: "u-host", Status: "lobby", PicksPerPlayer: 5})

	c := New(fake.URL(), "token")
	ctx := context.Background()

	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u-guest", me.ID)

	d, err := c.Draft(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, "u-host", d.HostID)
	assert.False(t, d.HasGuest())

	joined, err := c.JoinDraft(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, "u-guest", joined.GuestID)
	assert.Equal(t, 1, fake.JoinCalls())
}

func TestClient_ErrorsUnwrap(t *testing.T) {
	fake := testutil.NewFakeBackend()
	defer fake.Close()

	c := New(fake.URL(), "")
	_, err := c.Draft(context.Background(), "404")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Draft not found", apiErr.Detail)

	fake.SetIdentity(draft.Identity{ID: "x"})
	fake.PutDraft(draft.SessionDescriptor{ID: 3, HostID: "h", GuestID: "g"})
	_, err = c.JoinDraft(context.Background(), "3")
	assert.True(t, errors.Is(err, ErrConflict))
}

func TestClient_TeamsFilteredByYears(t *testing.T) {
	fake := testutil.NewFakeBackend()
	defer fake.Close()

	fake.SetTeams([]draft.Team{
		{ID: 1, Abbreviation: "SEA", FoundedYear: intp(1967), DissolvedYear: intp(2008)},
		{ID: 2, Abbreviation: "OKC", FoundedYear: intp(2008), PreviousTeamID: intp(1)},
	})

	c := New(fake.URL(), "")
	teams, err := c.Teams(context.Background(), TeamQuery{ActiveStartYear: intp(2010), ActiveEndYear: intp(2019)})
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, "OKC", teams[0].Abbreviation)
	require.NotNil(t, teams[0].PreviousTeamID)
	assert.Equal(t, 1, *teams[0].PreviousTeamID)
}

func TestClient_PlayerDetail(t *testing.T) {
	fake := testutil.NewFakeBackend()
	defer fake.Close()

	fake.PutPlayer(draft.PlayerDetail{
		Player:         draft.Player{ID: 10, Name: "Kevin Garnett"},
		RetirementYear: intp(2016),
		Stints:         []draft.Stint{{TeamID: 2, StartYear: 2007, EndYear: intp(2013)}},
	})

	c := New(fake.URL(), "")
	d, err := c.PlayerDetail(context.Background(), 10)
	require.NoError(t, err)
	assert.True(t, d.Retired())
	require.Len(t, d.Stints, 1)
	assert.Equal(t, 2007, d.Stints[0].StartYear)
}

func TestPlayerQueryValues(t *testing.T) {
	q := PlayerQuery{
		Q:              "kev",
		StintTeamIDs:   []int{14, 2},
		StintStartYear: intp(2008),
		StintEndYear:   intp(2015),
		NameLetters:    []string{"K", "M"},
		Status:         "retired",
		MinStints:      2,
		Limit:          25,
	}
	v := q.Values()
	assert.Equal(t, "kev", v.Get("q"))
	assert.Equal(t, "14,2", v.Get("stint_team_ids"))
	assert.Equal(t, "2008", v.Get("stint_start_year"))
	assert.Equal(t, "2015", v.Get("stint_end_year"))
	assert.Equal(t, "K,M", v.Get("name_letters"))
	assert.Equal(t, "first", v.Get("name_part"))
	assert.Equal(t, "retired", v.Get("status"))
	assert.Equal(t, "2", v.Get("min_stints"))
	assert.Equal(t, "25", v.Get("limit"))
	assert.Empty(t, v.Get("offset"))
}

func TestClient_SearchPlayersSendsQuery(t *testing.T) {
	fake := testutil.NewFakeBackend()
	defer fake.Close()
	fake.PutPlayer(draft.PlayerDetail{Player: draft.Player{ID: 1, Name: "Larry Bird"}})

	c := New(fake.URL(), "")
	players, err := c.SearchPlayers(context.Background(), PlayerQuery{Q: "bird", NameLetters: []string{"B"}, NamePart: draft.NamePartLast})
	require.NoError(t, err)
	require.Len(t, players, 1)
	assert.Equal(t, "last", fake.LastPlayerQuery()["name_part"])
}
