package types

// Pick is an accepted pick. The constraint_* fields record the constraint
// the pick was made under.
type Pick struct {
	PickNumber       int    `json:"pick_number,omitempty"`
	Role             string `json:"role,omitempty"`
	PlayerID         int    `json:"player_id,omitempty"`
	PlayerName       string `json:"player_name,omitempty"`
	PlayerImageURL   string `json:"player_image_url,omitempty"`
	ConstraintTeam   string `json:"constraint_team,omitempty"`
	ConstraintYear   string `json:"constraint_year,omitempty"`
	ConstraintLetter string `json:"constraint_letter,omitempty"`
}

type Team struct {
	ID             int    `json:"id"`
	Name           string `json:"name,omitempty"`
	Abbreviation   string `json:"abbreviation,omitempty"`
	LogoURL        string `json:"logo_url,omitempty"`
	PreviousTeamID *int   `json:"previous_team_id,omitempty"`
	FoundedYear    *int   `json:"founded_year,omitempty"`
	DissolvedYear  *int   `json:"dissolved_year,omitempty"`
	// Years is the member's span when the team is shown as part of a franchise.
	Years string `json:"years,omitempty"`
}

// Constraint is the rolled or fixed restriction for the current turn.
// Absent allow flags mean allowed.
type Constraint struct {
	Teams        []Team `json:"teams,omitempty"`
	YearLabel    string `json:"year_label,omitempty"`
	YearStart    *int   `json:"year_start,omitempty"`
	YearEnd      *int   `json:"year_end,omitempty"`
	NameLetter   string `json:"name_letter,omitempty"`
	NamePart     string `json:"name_part,omitempty"`
	AllowActive  *bool  `json:"allow_active,omitempty"`
	AllowRetired *bool  `json:"allow_retired,omitempty"`

	// Snapshot form: lobby_ready carries the session's stored constraint
	// as the rolled decade and a single team.
	DecadeLabel string `json:"decadeLabel,omitempty"`
	DecadeStart *int   `json:"decadeStart,omitempty"`
	DecadeEnd   *int   `json:"decadeEnd,omitempty"`
	Team        *Team  `json:"team,omitempty"`
}

type Rerolls struct {
	Remaining int `json:"remaining"`
	Max       int `json:"max"`
}

type Selection struct {
	PlayerID   int    `json:"player_id"`
	PlayerName string `json:"player_name,omitempty"`
	ImageURL   string `json:"image_url,omitempty"`
}
