// Package detailcache caches player detail and team lists so eligibility
// checks do not refetch them on every selection change.
package detailcache

import (
	"context"
	"errors"

	"github.com/DoyleJ11/hoops-draft-client/internal/draft"
)

var ErrMiss = errors.New("cache miss")

type Store interface {
	GetPlayerDetail(ctx context.Context, id int) (draft.PlayerDetail, error)
	SavePlayerDetail(ctx context.Context, d draft.PlayerDetail) error

	// Team lists are keyed by the query that produced them, see TeamsKey.
	GetTeams(ctx context.Context, key string) ([]draft.Team, error)
	SaveTeams(ctx context.Context, key string, teams []draft.Team) error

	Close() error
}

// TeamsKey names a team list by its active-year window; nil bounds mean
// the unfiltered list.
func TeamsKey(start, end *int) string {
	if start == nil || end == nil {
		return "all"
	}
	return draft.YearLabel(*start, *end)
}
