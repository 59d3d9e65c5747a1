package actions

import (
	"fmt"
	"strings"

	"docdesk/internal/filter"
	"docdesk/internal/model"
)

// Kind is a row action.
type Kind int

const (
	CopyID Kind = iota
	View
	Edit
	Release
	ChangeStatus
	Delete
)

var kindNames = map[Kind]string{
	CopyID:       "copy-id",
	View:         "view",
	Edit:         "edit",
	Release:      "release",
	ChangeStatus: "change-status",
	Delete:       "delete",
}

var kindLabels = map[Kind]string{
	CopyID:       "Copy ID",
	View:         "View",
	Edit:         "Edit",
	Release:      "Release",
	ChangeStatus: "Change Status",
	Delete:       "Delete",
}

// Kinds lists the row actions in menu order.
func Kinds() []Kind {
	return []Kind{CopyID, View, Edit, Release, ChangeStatus, Delete}
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func (k Kind) Label() string { return kindLabels[k] }

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: action %q", filter.ErrInvalidValue, s)
}

// Action is a requested row action. NewStatus is only used by ChangeStatus.
type Action struct {
	Kind      Kind
	NewStatus string
}

func Do(k Kind) Action { return Action{Kind: k} }

func SetStatus(status string) Action { return Action{Kind: ChangeStatus, NewStatus: status} }

// Target is the part of a row the dispatcher needs.
type Target struct {
	ID     string
	Status string
}

func TargetOf(d model.Document) Target {
	return Target{ID: d.ID, Status: d.Status}
}

// Intent is a validated, not yet executed row action.
type Intent struct {
	Kind      Kind   `json:"kind"`
	ID        string `json:"id"`
	NewStatus string `json:"newStatus,omitempty"`
	// FromStatus is the row's status when the intent was built.
	FromStatus string `json:"fromStatus,omitempty"`
}

// IsNoop reports a status change to the status the row already has. Consumers skip
// side effects for it.
func (i Intent) IsNoop() bool {
	return i.Kind == ChangeStatus && i.NewStatus == i.FromStatus
}

// IsNavigation reports intents that change what the user sees, not stored data.
func (i Intent) IsNavigation() bool {
	switch i.Kind {
	case CopyID, View, Edit:
		return true
	}
	return false
}

func (i Intent) String() string {
	if i.Kind == ChangeStatus {
		return fmt.Sprintf("%s %s -> %s", i.Kind, i.ID, i.NewStatus)
	}
	return fmt.Sprintf("%s %s", i.Kind, i.ID)
}
