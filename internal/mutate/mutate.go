// Package mutate carries out row action intents against the store.
package mutate

import (
	"context"
	"errors"
	"strings"
	"time"

	"docdesk/internal/actions"
	"docdesk/internal/logging"
	"docdesk/internal/model"
	"docdesk/internal/perm"
	"docdesk/internal/store"
)

var ErrInvalidStatus = errors.New("invalid status")

const DefaultReleasedStatus = "released"

// Result describes what Apply did.
type Result struct {
	Intent actions.Intent `json:"intent"`
	// Changed is false for no-ops (same status, already released) and navigation.
	Changed bool `json:"changed"`
	// Navigate is set for intents that only change what the user sees.
	Navigate bool `json:"navigate,omitempty"`
	// Document is the row after the mutation; nil after Delete.
	Document *model.Document `json:"document,omitempty"`
}

// Applier executes intents for one actor.
type Applier struct {
	Store    store.Store
	Statuses []model.StatusDef
	// Actor is nil for the unrestricted local operator.
	Actor *model.User
	// ReleasedStatus defaults to DefaultReleasedStatus.
	ReleasedStatus string
	// Now defaults to time.Now.
	Now func() time.Time
}

func (a Applier) now() time.Time {
	if a.Now != nil {
		return a.Now().UTC()
	}
	return time.Now().UTC()
}

func (a Applier) releasedStatus() string {
	if s := strings.TrimSpace(a.ReleasedStatus); s != "" {
		return s
	}
	return DefaultReleasedStatus
}

// Apply executes in. Navigation intents (View, Edit, CopyID) write nothing and return
// Navigate. A ChangeStatus to the current status writes nothing.
func (a Applier) Apply(ctx context.Context, in actions.Intent) (Result, error) {
	res := Result{Intent: in}
	if err := perm.Check(a.Actor, in.Kind); err != nil {
		return res, err
	}
	log := logging.With("component", "mutate", "kind", in.Kind.String(), "id", in.ID)

	if in.IsNavigation() {
		d, err := a.Store.GetDocument(ctx, in.ID)
		if err != nil {
			return res, err
		}
		res.Navigate = true
		res.Document = &d
		return res, nil
	}

	switch in.Kind {
	case actions.ChangeStatus:
		if len(a.Statuses) > 0 && !validStatus(a.Statuses, in.NewStatus) {
			return res, ErrInvalidStatus
		}
		if in.IsNoop() {
			d, err := a.Store.GetDocument(ctx, in.ID)
			if err != nil {
				return res, err
			}
			res.Document = &d
			log.Debug("status unchanged", "status", in.NewStatus)
			return res, nil
		}
		changed, err := a.Store.SetDocumentStatus(ctx, in.ID, in.NewStatus, a.now())
		if err != nil {
			return res, err
		}
		res.Changed = changed
	case actions.Release:
		changed, err := a.Store.ReleaseDocument(ctx, in.ID, a.releasedStatus(), a.now())
		if err != nil {
			return res, err
		}
		res.Changed = changed
	case actions.Delete:
		if err := a.Store.DeleteDocument(ctx, in.ID); err != nil {
			return res, err
		}
		res.Changed = true
		log.Info("document deleted")
		return res, nil
	default:
		return res, errors.New("unsupported action: " + in.Kind.String())
	}

	d, err := a.Store.GetDocument(ctx, in.ID)
	if err != nil {
		return res, err
	}
	res.Document = &d
	if res.Changed {
		log.Info("document updated", "status", d.Status)
	}
	return res, nil
}

// Retitle is the write behind the Edit action.
func (a Applier) Retitle(ctx context.Context, id, title string) (model.Document, error) {
	if err := perm.Check(a.Actor, actions.Edit); err != nil {
		return model.Document{}, err
	}
	if err := a.Store.RetitleDocument(ctx, id, title, a.now()); err != nil {
		return model.Document{}, err
	}
	return a.Store.GetDocument(ctx, id)
}

func validStatus(defs []model.StatusDef, id string) bool {
	for _, d := range defs {
		if d.ID == id {
			return true
		}
	}
	return false
}
