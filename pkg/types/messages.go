// Package types is the JSON protocol spoken on the draft duplex channel.
// Every message is one JSON object with a "type" discriminator.
package types

// Server -> Client
const (
	TypeLobbyReady          = "lobby_ready"
	TypeLobbyUpdate         = "lobby_update"
	TypeDraftStarted        = "draft_started"
	TypePickMade            = "pick_made"
	TypeRollStarted         = "roll_started"
	TypeRollStageResult     = "roll_stage_result"
	TypeRollResult          = "roll_result"
	TypeRollError           = "roll_error"
	TypeRerollsUpdated      = "rerolls_updated"
	TypeOnlyEligibleUpdated = "only_eligible_updated"
	TypeDraftRenamed        = "draft_renamed"
	TypeSelectionUpdated    = "selection_updated"
	TypeError               = "error"
)

// Client -> Server
const (
	TypeStartDraft       = "start_draft"
	TypeMakePick         = "make_pick"
	TypeRoll             = "roll"
	TypeForceReroll      = "force_reroll"
	TypeUndoPick         = "undo_pick"
	TypeSetOnlyEligible  = "set_only_eligible"
	TypeRenameDraft      = "rename_draft"
	TypePreviewSelection = "preview_selection"
)

// Roll stages named by roll_started. "decade" is the year stage.
const (
	StageDecade     = "decade"
	StageYear       = "year"
	StageTeam       = "team"
	StageNameLetter = "name_letter"
)

// ServerMessage is the union of every server push. Which fields are set
// depends on Type.
type ServerMessage struct {
	Type          string `json:"type"`
	DraftID       int    `json:"draft_id,omitempty"`
	DraftPublicID string `json:"draft_public_id,omitempty"`

	// lobby_ready, lobby_update
	Connected []string `json:"connected,omitempty"`

	// lobby_ready
	Started      *bool                `json:"started,omitempty"`
	Status       string               `json:"status,omitempty"`
	CurrentTurn  string               `json:"current_turn,omitempty"`
	Picks        []Pick               `json:"picks,omitempty"`
	OnlyEligible *bool                `json:"only_eligible,omitempty"`
	DraftName    string               `json:"draft_name,omitempty"`
	Rerolls      map[string]Rerolls   `json:"rerolls,omitempty"`
	Selections   map[string]Selection `json:"selections,omitempty"`

	// lobby_ready, draft_started
	FirstTurn string `json:"first_turn,omitempty"`

	// lobby_ready, roll_stage_result, roll_result
	Constraint *Constraint `json:"constraint,omitempty"`

	// roll_result as sent by servers that flatten the rolled window.
	DecadeLabel string `json:"decade_label,omitempty"`
	DecadeStart *int   `json:"decade_start,omitempty"`
	DecadeEnd   *int   `json:"decade_end,omitempty"`
	Team        *Team  `json:"team,omitempty"`

	// roll_started
	Stage  string `json:"stage,omitempty"`
	ByRole string `json:"by_role,omitempty"`

	// pick_made
	PickNumber       int    `json:"pick_number,omitempty"`
	PlayerID         int    `json:"player_id,omitempty"`
	PlayerName       string `json:"player_name,omitempty"`
	PlayerImageURL   string `json:"player_image_url,omitempty"`
	ConstraintTeam   string `json:"constraint_team,omitempty"`
	ConstraintYear   string `json:"constraint_year,omitempty"`
	ConstraintLetter string `json:"constraint_letter,omitempty"`
	NextTurn         string `json:"next_turn,omitempty"`

	// pick_made, rerolls_updated, selection_updated
	Role string `json:"role,omitempty"`

	// rerolls_updated
	Remaining *int `json:"remaining,omitempty"`
	Max       *int `json:"max,omitempty"`

	// selection_updated; nil clears the role's preview.
	Selection *Selection `json:"selection,omitempty"`

	// only_eligible_updated
	Value *bool `json:"value,omitempty"`

	// draft_renamed
	Name string `json:"name,omitempty"`

	// error, roll_error
	Message string `json:"message,omitempty"`
}

// ClientMessage is the union of every client command.
type ClientMessage struct {
	Type             string `json:"type"`
	PlayerID         *int   `json:"player_id,omitempty"`
	ConstraintTeam   string `json:"constraint_team,omitempty"`
	ConstraintYear   string `json:"constraint_year,omitempty"`
	ConstraintLetter string `json:"constraint_letter,omitempty"`
	Value            *bool  `json:"value,omitempty"`
	Name             string `json:"name,omitempty"`
}

// MadePick extracts the pick carried by a pick_made message.
func (m ServerMessage) MadePick() Pick {
	return Pick{
		PickNumber:       m.PickNumber,
		Role:             m.Role,
		PlayerID:         m.PlayerID,
		PlayerName:       m.PlayerName,
		PlayerImageURL:   m.PlayerImageURL,
		ConstraintTeam:   m.ConstraintTeam,
		ConstraintYear:   m.ConstraintYear,
		ConstraintLetter: m.ConstraintLetter,
	}
}
