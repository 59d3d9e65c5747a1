package actions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"docdesk/internal/filter"
	"docdesk/internal/logging"
	"docdesk/internal/model"
	"docdesk/internal/statusutil"
)

var ErrClipboardUnavailable = errors.New("clipboard unavailable")

// Clipboard is a best-effort text sink.
type Clipboard interface {
	Write(ctx context.Context, text string) error
}

// Notice reports the outcome of an asynchronous side effect (today: clipboard writes).
type Notice struct {
	Intent Intent
	Text   string
	Err    error
}

func (n Notice) Message() string {
	if n.Err != nil {
		return "Clipboard error: " + n.Err.Error()
	}
	return "Copied: " + n.Text
}

const (
	noticeBuffer     = 16
	clipboardTimeout = 2 * time.Second
)

// Dispatcher validates row actions and turns them into intents. It never mutates
// documents; callers hand the intent to a mutation collaborator.
type Dispatcher struct {
	statuses []model.StatusDef
	clip     Clipboard
	exec     func(func())
	gate     func(Kind) error
	notices  chan Notice
	log      *slog.Logger
}

type Option func(*Dispatcher)

// WithExecutor replaces the goroutine used for clipboard writes. The web UI runs them
// inline so the write lands on the request's event stream.
func WithExecutor(fn func(func())) Option {
	return func(d *Dispatcher) { d.exec = fn }
}

// WithGate checks each action before it becomes an intent. A non-nil error rejects the
// action and nothing runs, including the clipboard write.
func WithGate(fn func(Kind) error) Option {
	return func(d *Dispatcher) { d.gate = fn }
}

func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) { d.log = l }
}

// NewDispatcher builds a dispatcher over the given status enumeration. clip may be nil,
// in which case CopyID reports ErrClipboardUnavailable through Notices.
func NewDispatcher(statuses []model.StatusDef, clip Clipboard, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		statuses: statuses,
		clip:     clip,
		exec:     func(fn func()) { go fn() },
		notices:  make(chan Notice, noticeBuffer),
	}
	for _, o := range opts {
		o(d)
	}
	if d.log == nil {
		d.log = logging.With("component", "actions")
	}
	return d
}

// Notices delivers clipboard outcomes. Reading it is optional; when nobody reads and the
// buffer is full, notices are dropped rather than blocking.
func (d *Dispatcher) Notices() <-chan Notice { return d.notices }

func (d *Dispatcher) Statuses() []model.StatusDef { return d.statuses }

// Dispatch validates a against row and returns exactly one intent.
func (d *Dispatcher) Dispatch(row Target, a Action) (Intent, error) {
	id := strings.TrimSpace(row.ID)
	if id == "" {
		return Intent{}, fmt.Errorf("%w: empty row id", filter.ErrInvalidValue)
	}
	in := Intent{Kind: a.Kind, ID: id}
	switch a.Kind {
	case CopyID, View, Edit, Release, Delete:
	case ChangeStatus:
		if !statusutil.ValidateStatusID(d.statuses, a.NewStatus) {
			return Intent{}, fmt.Errorf("%w: status %q", filter.ErrInvalidValue, a.NewStatus)
		}
		in.NewStatus = a.NewStatus
		in.FromStatus = row.Status
	default:
		return Intent{}, fmt.Errorf("%w: action %d", filter.ErrInvalidValue, int(a.Kind))
	}
	if d.gate != nil {
		if err := d.gate(in.Kind); err != nil {
			return Intent{}, err
		}
	}

	d.log.Debug("row action", "kind", in.Kind.String(), "id", in.ID, "newStatus", in.NewStatus, "noop", in.IsNoop())
	if in.Kind == CopyID {
		d.copy(in)
	}
	return in, nil
}

func (d *Dispatcher) copy(in Intent) {
	clip := d.clip
	d.exec(func() {
		n := Notice{Intent: in, Text: in.ID}
		defer func() {
			if r := recover(); r != nil {
				n.Err = fmt.Errorf("%w: %v", ErrClipboardUnavailable, r)
				d.notify(n)
			}
		}()
		if clip == nil {
			n.Err = ErrClipboardUnavailable
		} else {
			ctx, cancel := context.WithTimeout(context.Background(), clipboardTimeout)
			defer cancel()
			if err := clip.Write(ctx, in.ID); err != nil {
				if !errors.Is(err, ErrClipboardUnavailable) {
					err = fmt.Errorf("%w: %v", ErrClipboardUnavailable, err)
				}
				n.Err = err
			}
		}
		d.notify(n)
	})
}

func (d *Dispatcher) notify(n Notice) {
	if n.Err != nil {
		d.log.Warn("clipboard write failed", "id", n.Intent.ID, "err", n.Err)
	}
	select {
	case d.notices <- n:
	default:
		d.log.Warn("notice dropped", "id", n.Intent.ID)
	}
}
