package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/DoyleJ11/hoops-draft-client/internal/detailcache"
	"github.com/DoyleJ11/hoops-draft-client/internal/draft"
)

// Store shares cached detail between client processes, e.g. the two
// participants of a local draft running on one machine.
type Store struct {
	client *redis.Client
	cfg    Config
}

func New(cfg Config) (*Store, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}
	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return &Store{client: client, cfg: cfg}, nil
}

// NewWithClient wraps an existing client (for testing).
func NewWithClient(client *redis.Client, cfg Config) *Store {
	return &Store{client: client, cfg: cfg}
}

var _ detailcache.Store = (*Store)(nil)

func (s *Store) GetPlayerDetail(ctx context.Context, id int) (draft.PlayerDetail, error) {
	var d draft.PlayerDetail
	err := s.get(ctx, playerDetailKey(id), &d)
	return d, err
}

func (s *Store) SavePlayerDetail(ctx context.Context, d draft.PlayerDetail) error {
	return s.set(ctx, playerDetailKey(d.ID), d, s.cfg.DetailTTL)
}

func (s *Store) GetTeams(ctx context.Context, key string) ([]draft.Team, error) {
	var teams []draft.Team
	err := s.get(ctx, teamsKey(key), &teams)
	return teams, err
}

func (s *Store) SaveTeams(ctx context.Context, key string, teams []draft.Team) error {
	return s.set(ctx, teamsKey(key), teams, s.cfg.TeamsTTL)
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) get(ctx context.Context, key string, v any) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return detailcache.ErrMiss
		}
		return err
	}
	return json.Unmarshal(data, v)
}

func (s *Store) set(ctx context.Context, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}
