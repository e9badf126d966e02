package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/DoyleJ11/hoops-draft-client/internal/detailcache"
	"github.com/DoyleJ11/hoops-draft-client/internal/draft"
)

// Store keeps entries for the lifetime of the process.
type Store struct {
	mu      sync.RWMutex
	details map[int]draft.PlayerDetail
	teams   map[string][]draft.Team
}

func New() *Store {
	return &Store{
		details: make(map[int]draft.PlayerDetail),
		teams:   make(map[string][]draft.Team),
	}
}

var _ detailcache.Store = (*Store)(nil)

func (s *Store) GetPlayerDetail(ctx context.Context, id int) (draft.PlayerDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.details[id]
	if !ok {
		return draft.PlayerDetail{}, detailcache.ErrMiss
	}
	return d, nil
}

func (s *Store) SavePlayerDetail(ctx context.Context, d draft.PlayerDetail) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d.Stints = slices.Clone(d.Stints)
	s.details[d.ID] = d
	return nil
}

func (s *Store) GetTeams(ctx context.Context, key string) ([]draft.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	teams, ok := s.teams[key]
	if !ok {
		return nil, detailcache.ErrMiss
	}
	return slices.Clone(teams), nil
}

func (s *Store) SaveTeams(ctx context.Context, key string, teams []draft.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teams[key] = slices.Clone(teams)
	return nil
}

func (s *Store) Close() error { return nil }
