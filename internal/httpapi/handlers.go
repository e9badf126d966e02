package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/DoyleJ11/hoops-draft-client/internal/channel"
	"github.com/DoyleJ11/hoops-draft-client/internal/draft"
	"github.com/DoyleJ11/hoops-draft-client/internal/eligibility"
	"github.com/DoyleJ11/hoops-draft-client/internal/reconcile"
	"github.com/DoyleJ11/hoops-draft-client/internal/turn"
	"github.com/DoyleJ11/hoops-draft-client/pkg/types"
)

var ErrNotAllowed = errors.New("action not available")
var ErrUnknownCommand = errors.New("unknown command")

type SelectionStatus struct {
	Selection draft.PendingSelection `json:"selection"`
	Verdict   string                 `json:"verdict"`
	Reason    eligibility.Reason     `json:"reason,omitempty"`
	Error     string                 `json:"error,omitempty"`
}

type StateResponse struct {
	View        reconcile.View   `json:"view"`
	Affordances turn.Affordances `json:"affordances"`
	Selection   *SelectionStatus `json:"selection,omitempty"`
}

type CommandRequest struct {
	Type       string `json:"type"`
	PlayerID   *int   `json:"player_id,omitempty"`
	PlayerName string `json:"player_name,omitempty"`
	Value      *bool  `json:"value,omitempty"`
	Name       string `json:"name,omitempty"`
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func State(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := d.Session.View(r.Context())
		if err != nil {
			writeError(w, http.StatusServiceUnavailable, err)
			return
		}
		sel, status := selection(r, d, v)
		writeJSON(w, http.StatusOK, StateResponse{
			View:        v,
			Affordances: turn.Evaluate(v, sel),
			Selection:   status,
		})
	}
}

// selection evaluates the acting role's previewed player against the
// current constraint.
func selection(r *http.Request, d Deps, v reconcile.View) (*turn.Selection, *SelectionStatus) {
	pending, ok := v.State.Pending[turn.ActingRole(v)]
	if !ok {
		return nil, nil
	}
	p := draft.Player{ID: pending.PlayerID, Name: pending.PlayerName, ImageURL: pending.ImageURL}
	res := eligibility.Result{Verdict: eligibility.Pending}
	if v.Constraint != nil && d.Checker != nil {
		res = d.Checker.Check(r.Context(), p, *v.Constraint, eligibility.PickedSet(v.State.PickedIDs()))
	}
	status := &SelectionStatus{Selection: pending, Verdict: res.Verdict.String(), Reason: res.Reason}
	if res.Err != nil {
		status.Error = res.Err.Error()
	}
	return &turn.Selection{Player: p, Verdict: res.Verdict}, status
}

func Players(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := d.Session.View(r.Context())
		if err != nil {
			writeError(w, http.StatusServiceUnavailable, err)
			return
		}
		var con draft.Constraint
		onlyEligible := v.OnlyEligible && v.Constraint != nil
		if onlyEligible {
			con = *v.Constraint
		}
		q, ok := eligibility.SearchQuery(r.URL.Query().Get("q"), con, onlyEligible)
		if !ok {
			writeJSON(w, http.StatusOK, []draft.Player{})
			return
		}
		players, err := d.Searcher.SearchPlayers(r.Context(), q)
		if err != nil {
			d.Logger.Warn("player search failed", zap.Error(err))
			writeError(w, http.StatusBadGateway, err)
			return
		}
		writeJSON(w, http.StatusOK, players)
	}
}

func Commands(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CommandRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		v, err := d.Session.View(r.Context())
		if err != nil {
			writeError(w, http.StatusServiceUnavailable, err)
			return
		}

		cmd, err := toCommand(r, d, v, req)
		if err != nil {
			status := http.StatusConflict
			if errors.Is(err, ErrUnknownCommand) {
				status = http.StatusBadRequest
			}
			writeError(w, status, err)
			return
		}

		if err := d.Session.Send(r.Context(), cmd); err != nil {
			status := http.StatusBadGateway
			if errors.Is(err, channel.ErrChannelClosed) {
				status = http.StatusServiceUnavailable
			}
			writeError(w, status, err)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}
}

// toCommand validates the request against the current affordances before
// it reaches the channel.
func toCommand(r *http.Request, d Deps, v reconcile.View, req CommandRequest) (types.ClientMessage, error) {
	privileged := v.Mode == reconcile.ModeLocal || v.LocalRole == draft.RoleHost

	switch req.Type {
	case types.TypeStartDraft:
		if !turn.CanStart(v) {
			return types.ClientMessage{}, ErrNotAllowed
		}
		return channel.StartDraft(), nil

	case types.TypeRoll:
		switch {
		case turn.CanRoll(v):
		case turn.CanReroll(v):
		default:
			return types.ClientMessage{}, ErrNotAllowed
		}
		return channel.Roll(), nil

	case types.TypeForceReroll:
		if !privileged || v.State.Spinning || turn.IsComplete(v) {
			return types.ClientMessage{}, ErrNotAllowed
		}
		return channel.ForceReroll(), nil

	case types.TypeUndoPick:
		if !privileged || len(v.State.Picks) == 0 {
			return types.ClientMessage{}, ErrNotAllowed
		}
		return channel.UndoPick(), nil

	case types.TypeSetOnlyEligible:
		if !privileged || req.Value == nil {
			return types.ClientMessage{}, ErrNotAllowed
		}
		return channel.SetOnlyEligible(*req.Value), nil

	case types.TypeRenameDraft:
		if !privileged || req.Name == "" {
			return types.ClientMessage{}, ErrNotAllowed
		}
		return channel.RenameDraft(req.Name), nil

	case types.TypePreviewSelection:
		if !turn.CanAct(v) || turn.IsComplete(v) {
			return types.ClientMessage{}, ErrNotAllowed
		}
		return channel.PreviewSelection(req.PlayerID), nil

	case types.TypeMakePick:
		if req.PlayerID == nil {
			return types.ClientMessage{}, ErrNotAllowed
		}
		sel := &turn.Selection{Player: draft.Player{ID: *req.PlayerID, Name: req.PlayerName}, Verdict: eligibility.Pending}
		if v.Constraint != nil && d.Checker != nil {
			res := d.Checker.Check(r.Context(), sel.Player, *v.Constraint, eligibility.PickedSet(v.State.PickedIDs()))
			sel.Verdict = res.Verdict
		}
		if !turn.CanConfirm(v, sel) {
			return types.ClientMessage{}, ErrNotAllowed
		}
		return channel.MakePick(*req.PlayerID, v.Constraint), nil
	}
	return types.ClientMessage{}, ErrUnknownCommand
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
