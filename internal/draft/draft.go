package draft

import (
	"errors"
	"strconv"
)

var ErrInvalidRole = errors.New("invalid role")
var ErrInvalidRef = errors.New("invalid draft reference")
var ErrInvalidYearLabel = errors.New("invalid year label")

type Role string

const (
	RoleHost  Role = "host"
	RoleGuest Role = "guest"
)

var Roles = []Role{RoleHost, RoleGuest}

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleHost, RoleGuest:
		return Role(s), nil
	default:
		return "", ErrInvalidRole
	}
}

func (r Role) Other() Role {
	if r == RoleHost {
		return RoleGuest
	}
	return RoleHost
}

func (r Role) Valid() bool { return r == RoleHost || r == RoleGuest }

type Status string

const (
	StatusOpen      Status = "open"
	StatusDrafting  Status = "drafting"
	StatusCompleted Status = "completed"
)

// ParseStatus maps server status strings onto the three client states.
// The backend still reports "lobby" for drafts that have not started.
func ParseStatus(s string) Status {
	switch s {
	case "drafting", "started", "in_progress":
		return StatusDrafting
	case "completed", "complete", "done":
		return StatusCompleted
	default:
		return StatusOpen
	}
}

type Field string

const (
	FieldYear       Field = "year"
	FieldTeam       Field = "team"
	FieldNameLetter Field = "name_letter"
)

type NamePart string

const (
	NamePartFirst  NamePart = "first"
	NamePartLast   NamePart = "last"
	NamePartEither NamePart = "either"
)

func ParseNamePart(s string) NamePart {
	switch NamePart(s) {
	case NamePartLast, NamePartEither:
		return NamePart(s)
	default:
		return NamePartFirst
	}
}

type Team struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	City           string `json:"city,omitempty"`
	Abbreviation   string `json:"abbreviation,omitempty"`
	LogoURL        string `json:"logo_url,omitempty"`
	PreviousTeamID *int   `json:"previous_team_id,omitempty"`
	FoundedYear    *int   `json:"founded_year,omitempty"`
	DissolvedYear  *int   `json:"dissolved_year,omitempty"`
	Conference     string `json:"conference,omitempty"`
	Division       string `json:"division,omitempty"`
}

// ActiveIn reports whether the team existed at any point in [start, end].
// Unknown founding or dissolution years are treated as open-ended.
func (t Team) ActiveIn(start, end int) bool {
	if t.FoundedYear != nil && *t.FoundedYear > end {
		return false
	}
	if t.DissolvedYear != nil && *t.DissolvedYear < start {
		return false
	}
	return true
}

type Stint struct {
	TeamID    int  `json:"team_id"`
	StartYear int  `json:"start_year"`
	EndYear   *int `json:"end_year,omitempty"`
}

type Player struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url,omitempty"`
}

type PlayerDetail struct {
	Player
	RetirementYear *int    `json:"retirement_year,omitempty"`
	CareerStart    *int    `json:"career_start_year,omitempty"`
	Stints         []Stint `json:"team_stints"`
	StintCount     int     `json:"coalesced_stint_count"`
}

func (d PlayerDetail) Retired() bool { return d.RetirementYear != nil }

// Segment is one team of a (possibly coalesced) team constraint. Years is
// the display span of that team inside its franchise, e.g. "1967-2008".
type Segment struct {
	Team  Team   `json:"team"`
	Years string `json:"years,omitempty"`
}

type Constraint struct {
	Segments  []Segment `json:"segments,omitempty"`
	YearLabel string    `json:"year_label,omitempty"`
	YearStart *int      `json:"year_start,omitempty"`
	YearEnd   *int      `json:"year_end,omitempty"`
	// Windows holds the allowed ranges when a fixed rule allows several
	// decades; YearStart and YearEnd are then their overall span.
	Windows      []YearWindow `json:"windows,omitempty"`
	NameLetter   string       `json:"name_letter,omitempty"`
	NamePart     NamePart     `json:"name_part,omitempty"`
	AllowActive  bool         `json:"allow_active"`
	AllowRetired bool         `json:"allow_retired"`
}

type YearWindow struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func (c Constraint) HasYearWindow() bool { return c.YearStart != nil && c.YearEnd != nil }

// YearWindows returns the ranges a stint may overlap, or nil when years are
// unrestricted.
func (c Constraint) YearWindows() []YearWindow {
	if len(c.Windows) > 0 {
		return c.Windows
	}
	if !c.HasYearWindow() {
		return nil
	}
	return []YearWindow{{Start: *c.YearStart, End: *c.YearEnd}}
}

// Unrestricted reports whether c has no team, year or letter clause.
func (c Constraint) Unrestricted() bool {
	return len(c.Segments) == 0 && !c.HasYearWindow() && len(c.Windows) == 0 && c.NameLetter == ""
}

func (c Constraint) TeamIDs() []int {
	ids := make([]int, 0, len(c.Segments))
	for _, s := range c.Segments {
		ids = append(ids, s.Team.ID)
	}
	return ids
}

// TeamLabel is the value stored on a pick as its team constraint.
func (c Constraint) TeamLabel() string {
	if len(c.Segments) == 0 {
		return ""
	}
	t := c.Segments[len(c.Segments)-1].Team
	if t.Abbreviation != "" {
		return t.Abbreviation
	}
	return t.Name
}

func (c Constraint) Clone() Constraint {
	out := c
	out.Segments = append([]Segment(nil), c.Segments...)
	out.Windows = append([]YearWindow(nil), c.Windows...)
	if c.YearStart != nil {
		v := *c.YearStart
		out.YearStart = &v
	}
	if c.YearEnd != nil {
		v := *c.YearEnd
		out.YearEnd = &v
	}
	return out
}

type Pick struct {
	Number           int    `json:"pick_number"`
	Role             Role   `json:"role"`
	PlayerID         int    `json:"player_id"`
	PlayerName       string `json:"player_name"`
	PlayerImageURL   string `json:"player_image_url,omitempty"`
	ConstraintTeam   string `json:"constraint_team,omitempty"`
	ConstraintYear   string `json:"constraint_year,omitempty"`
	ConstraintLetter string `json:"constraint_letter,omitempty"`
}

type RerollBudget struct {
	Remaining int `json:"remaining"`
	Max       int `json:"max"`
}

type PendingSelection struct {
	PlayerID   int    `json:"player_id"`
	PlayerName string `json:"player_name,omitempty"`
	ImageURL   string `json:"image_url,omitempty"`
}

type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username,omitempty"`
}

type SessionDescriptor struct {
	ID             int     `json:"id"`
	PublicID       string  `json:"public_id"`
	Name           string  `json:"name,omitempty"`
	HostID         string  `json:"host_id"`
	GuestID        string  `json:"guest_id,omitempty"`
	Status         string  `json:"status"`
	PicksPerPlayer int     `json:"picks_per_player"`
	Local          bool    `json:"is_local"`
	Rules          RuleSet `json:"rules"`
}

func (d SessionDescriptor) Ref() string {
	if d.PublicID != "" {
		return d.PublicID
	}
	return strconv.Itoa(d.ID)
}

func (d SessionDescriptor) HasGuest() bool { return d.GuestID != "" }
