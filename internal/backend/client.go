// Package backend is the request/response client for the draft CRUD API:
// identity, session descriptors, guest join, and team and player lookups.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/DoyleJ11/hoops-draft-client/internal/draft"
)

var ErrNotFound = errors.New("not found")
var ErrConflict = errors.New("conflict")
var ErrForbidden = errors.New("forbidden")

// APIError is a non-2xx response. It unwraps to ErrNotFound, ErrConflict or
// ErrForbidden for the matching status codes.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("HTTP %d", e.Status)
	}
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Detail)
}

func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	case http.StatusForbidden:
		return ErrForbidden
	}
	return nil
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.httpClient = hc } }

func WithLogger(l *zap.Logger) Option { return func(c *Client) { c.logger = l } }

func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Me(ctx context.Context) (draft.Identity, error) {
	var id draft.Identity
	err := c.do(ctx, http.MethodGet, "/me", nil, nil, &id)
	return id, err
}

func (c *Client) Draft(ctx context.Context, ref string) (draft.SessionDescriptor, error) {
	var d draft.SessionDescriptor
	err := c.do(ctx, http.MethodGet, "/drafts/"+url.PathEscape(ref), nil, nil, &d)
	return d, err
}

func (c *Client) JoinDraft(ctx context.Context, ref string) (draft.SessionDescriptor, error) {
	var d draft.SessionDescriptor
	err := c.do(ctx, http.MethodPost, "/drafts/"+url.PathEscape(ref)+"/join", nil, struct{}{}, &d)
	return d, err
}

type TeamQuery struct {
	Q               string
	ActiveStartYear *int
	ActiveEndYear   *int
	Limit           int
}

func (q TeamQuery) Values() url.Values {
	v := url.Values{}
	if q.Q != "" {
		v.Set("q", q.Q)
	}
	if q.ActiveStartYear != nil {
		v.Set("active_start_year", strconv.Itoa(*q.ActiveStartYear))
	}
	if q.ActiveEndYear != nil {
		v.Set("active_end_year", strconv.Itoa(*q.ActiveEndYear))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

func (c *Client) Teams(ctx context.Context, q TeamQuery) ([]draft.Team, error) {
	var teams []draft.Team
	err := c.do(ctx, http.MethodGet, "/teams", q.Values(), nil, &teams)
	return teams, err
}

type PlayerQuery struct {
	Q              string
	StintTeamIDs   []int
	StintStartYear *int
	StintEndYear   *int
	NameLetters    []string
	NamePart       draft.NamePart
	// Status is "active", "retired" or empty for both.
	Status    string
	MinStints int
	Limit     int
	Offset    int
}

func (q PlayerQuery) Values() url.Values {
	v := url.Values{}
	if q.Q != "" {
		v.Set("q", q.Q)
	}
	if len(q.StintTeamIDs) > 0 {
		ids := make([]string, len(q.StintTeamIDs))
		for i, id := range q.StintTeamIDs {
			ids[i] = strconv.Itoa(id)
		}
		v.Set("stint_team_ids", strings.Join(ids, ","))
	}
	if q.StintStartYear != nil {
		v.Set("stint_start_year", strconv.Itoa(*q.StintStartYear))
	}
	if q.StintEndYear != nil {
		v.Set("stint_end_year", strconv.Itoa(*q.StintEndYear))
	}
	if len(q.NameLetters) > 0 {
		v.Set("name_letters", strings.Join(q.NameLetters, ","))
		part := q.NamePart
		if part == "" {
			part = draft.NamePartFirst
		}
		v.Set("name_part", string(part))
	}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	if q.MinStints > 0 {
		v.Set("min_stints", strconv.Itoa(q.MinStints))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		v.Set("offset", strconv.Itoa(q.Offset))
	}
	return v
}

func (c *Client) SearchPlayers(ctx context.Context, q PlayerQuery) ([]draft.Player, error) {
	var players []draft.Player
	err := c.do(ctx, http.MethodGet, "/players", q.Values(), nil, &players)
	return players, err
}

func (c *Client) PlayerDetail(ctx context.Context, id int) (draft.PlayerDetail, error) {
	var d draft.PlayerDetail
	err := c.do(ctx, http.MethodGet, "/players/"+strconv.Itoa(id)+"/details", nil, nil, &d)
	return d, err
}

type errorBody struct {
	Detail any `json:"detail"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, result any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	c.logger.Debug("backend request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		var eb errorBody
		if err := json.Unmarshal(respBody, &eb); err == nil && eb.Detail != nil {
			if s, ok := eb.Detail.(string); ok {
				apiErr.Detail = s
			} else {
				apiErr.Detail = fmt.Sprint(eb.Detail)
			}
		} else {
			apiErr.Detail = strings.TrimSpace(string(respBody))
		}
		return apiErr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}
