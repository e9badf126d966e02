package channel

import (
	"github.com/DoyleJ11/hoops-draft-client/internal/draft"
	"github.com/DoyleJ11/hoops-draft-client/pkg/types"
)

func StartDraft() types.ClientMessage { return types.ClientMessage{Type: types.TypeStartDraft} }

func Roll() types.ClientMessage { return types.ClientMessage{Type: types.TypeRoll} }

func ForceReroll() types.ClientMessage { return types.ClientMessage{Type: types.TypeForceReroll} }

func UndoPick() types.ClientMessage { return types.ClientMessage{Type: types.TypeUndoPick} }

// MakePick records the constraint the pick is made under alongside it.
func MakePick(playerID int, con *draft.Constraint) types.ClientMessage {
	m := types.ClientMessage{Type: types.TypeMakePick, PlayerID: &playerID}
	if con != nil {
		m.ConstraintTeam = con.TeamLabel()
		m.ConstraintYear = con.YearLabel
		m.ConstraintLetter = con.NameLetter
	}
	return m
}

func SetOnlyEligible(v bool) types.ClientMessage {
	return types.ClientMessage{Type: types.TypeSetOnlyEligible, Value: &v}
}

func RenameDraft(name string) types.ClientMessage {
	return types.ClientMessage{Type: types.TypeRenameDraft, Name: name}
}

// PreviewSelection with a nil id clears the preview.
func PreviewSelection(playerID *int) types.ClientMessage {
	m := types.ClientMessage{Type: types.TypePreviewSelection}
	if playerID != nil {
		id := *playerID
		m.PlayerID = &id
	}
	return m
}
