package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/DoyleJ11/hoops-draft-client/internal/detailcache"
	"github.com/DoyleJ11/hoops-draft-client/internal/draft"
)

type StoreSuite struct {
	suite.Suite
	mini  *miniredis.Miniredis
	store *Store
	ctx   context.Context
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.DetailTTL = time.Hour
	cfg.TeamsTTL = 2 * time.Hour

	s.store = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StoreSuite) TearDownTest() {
	if s.store != nil {
		_ = s.store.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StoreSuite) TestPlayerDetailRoundTrip() {
	retired := 2016
	d := draft.PlayerDetail{
		Player:         draft.Player{ID: 21, Name: "Kevin Garnett"},
		RetirementYear: &retired,
		Stints:         []draft.Stint{{TeamID: 2, StartYear: 2007}},
	}
	s.Require().NoError(s.store.SavePlayerDetail(s.ctx, d))

	got, err := s.store.GetPlayerDetail(s.ctx, 21)
	s.Require().NoError(err)
	s.Equal("Kevin Garnett", got.Name)
	s.True(got.Retired())
	s.Len(got.Stints, 1)
}

func (s *StoreSuite) TestMiss() {
	_, err := s.store.GetPlayerDetail(s.ctx, 404)
	s.ErrorIs(err, detailcache.ErrMiss)

	_, err = s.store.GetTeams(s.ctx, "all")
	s.ErrorIs(err, detailcache.ErrMiss)
}

func (s *StoreSuite) TestEntriesExpire() {
	s.Require().NoError(s.store.SavePlayerDetail(s.ctx, draft.PlayerDetail{Player: draft.Player{ID: 1}}))
	s.Require().NoError(s.store.SaveTeams(s.ctx, "1990-1999", []draft.Team{{ID: 1}}))

	s.mini.FastForward(time.Hour + time.Second)

	_, err := s.store.GetPlayerDetail(s.ctx, 1)
	s.ErrorIs(err, detailcache.ErrMiss)

	teams, err := s.store.GetTeams(s.ctx, "1990-1999")
	s.Require().NoError(err)
	s.Len(teams, 1)
}
