package cli

import (
	"fmt"
	"strings"

	"github.com/DoyleJ11/hoops-draft-client/internal/draft"
	"github.com/DoyleJ11/hoops-draft-client/internal/reconcile"
	"github.com/DoyleJ11/hoops-draft-client/internal/spin"
	"github.com/DoyleJ11/hoops-draft-client/internal/turn"
)

func describeConstraint(c *draft.Constraint) string {
	if c == nil {
		return "not rolled"
	}
	var parts []string
	if len(c.Segments) > 0 {
		teams := make([]string, 0, len(c.Segments))
		for _, s := range c.Segments {
			name := s.Team.Abbreviation
			if name == "" {
				name = s.Team.Name
			}
			if s.Years != "" {
				name += " (" + s.Years + ")"
			}
			teams = append(teams, name)
		}
		parts = append(parts, strings.Join(teams, " / "))
	}
	if c.YearLabel != "" {
		parts = append(parts, c.YearLabel)
	}
	if c.NameLetter != "" {
		part := c.NamePart
		if part == "" {
			part = draft.NamePartFirst
		}
		parts = append(parts, fmt.Sprintf("%s name %s", part, c.NameLetter))
	}
	switch {
	case !c.AllowActive && !c.AllowRetired:
		parts = append(parts, "nobody allowed")
	case !c.AllowActive:
		parts = append(parts, "retired only")
	case !c.AllowRetired:
		parts = append(parts, "active only")
	}
	if len(parts) == 0 {
		return "anyone"
	}
	return strings.Join(parts, ", ")
}

func describeView(v reconcile.View) string {
	a := turn.Evaluate(v, nil)
	st := v.State

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", st.Status, v.Session.Name)
	if a.Complete {
		b.WriteString(" complete")
	} else if st.CurrentTurn != "" {
		fmt.Fprintf(&b, " turn=%s", st.CurrentTurn)
	}
	fmt.Fprintf(&b, " picks=%d/%d", len(st.Picks), 2*v.Session.PicksPerPlayer)
	fmt.Fprintf(&b, " host=%s guest=%s", v.Conns[draft.RoleHost], v.Conns[draft.RoleGuest])
	if st.Spinning {
		b.WriteString(" rolling")
	} else if v.Session.Rules.HasSpin() || v.Constraint != nil {
		fmt.Fprintf(&b, " constraint=%q", describeConstraint(v.Constraint))
	}
	if a.Attention {
		b.WriteString(" <- your turn")
	}
	if st.LastError != nil {
		fmt.Fprintf(&b, " error(%s)=%q", st.LastError.Kind, st.LastError.Message)
	}
	return b.String()
}

func describeFrame(f spin.Frame) string {
	return fmt.Sprintf("  %s: %s", f.Stage, f.Value)
}
