package statusutil

import (
	"fmt"
	"strings"

	"docdesk/internal/model"
)

// NormalizeStatusID resolves user input (id or label, any case) against the enumeration.
func NormalizeStatusID(defs []model.StatusDef, s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("invalid status: empty")
	}
	for _, def := range defs {
		if def.ID == s {
			return def.ID, nil
		}
	}
	for _, def := range defs {
		if strings.EqualFold(def.ID, s) || strings.EqualFold(def.Label, s) {
			return def.ID, nil
		}
	}
	return "", fmt.Errorf("invalid status: %s", s)
}

func ValidateStatusID(defs []model.StatusDef, statusID string) bool {
	sid := strings.TrimSpace(statusID)
	if sid == "" {
		return false
	}
	for _, def := range defs {
		if def.ID == sid {
			return true
		}
	}
	return false
}

func Label(defs []model.StatusDef, statusID string) string {
	for _, def := range defs {
		if def.ID == statusID {
			return def.Label
		}
	}
	return statusID
}

// Choice is one entry of a change-status menu.
type Choice struct {
	Def     model.StatusDef
	Current bool
}

// Choices lists every status in enumeration order. Any status may follow any other;
// the current one is marked rather than removed.
func Choices(defs []model.StatusDef, current string) []Choice {
	out := make([]Choice, 0, len(defs))
	for _, def := range defs {
		out = append(out, Choice{Def: def, Current: def.ID == current})
	}
	return out
}

// Options converts the enumeration to plain options for facet construction.
func Options(defs []model.StatusDef) []model.Option {
	out := make([]model.Option, 0, len(defs))
	for _, def := range defs {
		out = append(out, model.Option{Value: def.ID, Label: def.Label})
	}
	return out
}
