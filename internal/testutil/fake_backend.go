package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/DoyleJ11/hoops-draft-client/internal/draft"
)

// FakeBackend serves the subset of the CRUD API the draft client consumes.
type FakeBackend struct {
	s *httptest.Server

	mu          sync.Mutex
	identity    draft.Identity
	drafts      map[string]draft.SessionDescriptor
	teams       []draft.Team
	details     map[int]draft.PlayerDetail
	joinCalls   int
	detailCalls map[int]int
	failDetail  map[int]bool
	lastQuery   map[string]string
}

func NewFakeBackend() *FakeBackend {
	f := &FakeBackend{
		drafts:      map[string]draft.SessionDescriptor{},
		details:     map[int]draft.PlayerDetail{},
		detailCalls: map[int]int{},
		failDetail:  map[int]bool{},
	}

	r := chi.NewRouter()
	r.Get("/me", f.meHandler)
	r.Get("/drafts/{ref}", f.draftHandler)
	r.Post("/drafts/{ref}/join", f.joinHandler)
	r.Get("/teams", f.teamsHandler)
	r.Get("/players", f.playersHandler)
	r.Get("/players/{id}/details", f.detailHandler)

	f.s = httptest.NewServer(r)
	return f
}

func (f *FakeBackend) Close() { f.s.Close() }

func (f *FakeBackend) URL() string { return f.s.URL }

func (f *FakeBackend) SetIdentity(id draft.Identity) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.identity = id
}

func (f *FakeBackend) PutDraft(d draft.SessionDescriptor) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.drafts[d.Ref()] = d
}

func (f *FakeBackend) Draft(ref string) draft.SessionDescriptor {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.drafts[ref]
}

func (f *FakeBackend) SetTeams(teams []draft.Team) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.teams = teams
}

func (f *FakeBackend) PutPlayer(d draft.PlayerDetail) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.details[d.ID] = d
}

func (f *FakeBackend) FailDetail(id int, fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failDetail[id] = fail
}

func (f *FakeBackend) JoinCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.joinCalls
}

func (f *FakeBackend) DetailCalls(id int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.detailCalls[id]
}

func (f *FakeBackend) LastPlayerQuery() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastQuery
}

func (f *FakeBackend) meHandler(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	id := f.identity
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, id)
}

func (f *FakeBackend) draftHandler(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	d, ok := f.drafts[chi.URLParam(r, "ref")]
	f.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Draft not found"})
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (f *FakeBackend) joinHandler(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.joinCalls++
	ref := chi.URLParam(r, "ref")
	d, ok := f.drafts[ref]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Draft not found"})
		return
	}
	if f.identity.ID == d.HostID {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Host cannot join as guest"})
		return
	}
	if d.GuestID != "" && d.GuestID != f.identity.ID {
		writeJSON(w, http.StatusConflict, map[string]string{"detail": "Draft already has a guest"})
		return
	}
	d.GuestID = f.identity.ID
	f.drafts[ref] = d
	writeJSON(w, http.StatusOK, d)
}

func (f *FakeBackend) teamsHandler(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	teams := slices.Clone(f.teams)
	f.mu.Unlock()

	q := r.URL.Query()
	start, hasStart := atoi(q.Get("active_start_year"))
	end, hasEnd := atoi(q.Get("active_end_year"))
	if !hasStart {
		start = end
	}
	if !hasEnd {
		end = start
	}
	out := []draft.Team{}
	for _, t := range teams {
		if (hasStart || hasEnd) && !t.ActiveIn(start, end) {
			continue
		}
		out = append(out, t)
	}
	writeJSON(w, http.StatusOK, out)
}

func (f *FakeBackend) playersHandler(w http.ResponseWriter, r *http.Request) {
	q := map[string]string{}
	for k := range r.URL.Query() {
		q[k] = r.URL.Query().Get(k)
	}
	f.mu.Lock()
	f.lastQuery = q
	out := []draft.Player{}
	for _, d := range f.details {
		if name := q["q"]; name != "" && !strings.Contains(strings.ToLower(d.Name), strings.ToLower(name)) {
			continue
		}
		out = append(out, d.Player)
	}
	f.mu.Unlock()
	slices.SortFunc(out, func(a, b draft.Player) int { return a.ID - b.ID })
	writeJSON(w, http.StatusOK, out)
}

func (f *FakeBackend) detailHandler(w http.ResponseWriter, r *http.Request) {
	id, _ := atoi(chi.URLParam(r, "id"))
	f.mu.Lock()
	f.detailCalls[id]++
	fail := f.failDetail[id]
	d, ok := f.details[id]
	f.mu.Unlock()
	if fail {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "boom"})
		return
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Player not found"})
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func atoi(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	return n, err == nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
