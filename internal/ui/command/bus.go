package command

import (
	"context"
	"fmt"
	"time"

	"github.com/atomicstack/chat-prefix/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
)

// DefaultTimeout bounds a single job's storage round trips.
const DefaultTimeout = 5 * time.Second

// Request encapsulates a background job started from the UI: persisting a
// selection, delivering a message or writing the clipboard.
type Request struct {
	ID    string
	Label string
	Run   func(ctx context.Context) tea.Msg
}

// Bus runs UI jobs under a shared parent context.
type Bus struct {
	ctx     context.Context
	timeout time.Duration
}

// New initialises a bus bound to ctx. A non-positive timeout uses
// DefaultTimeout.
func New(ctx context.Context, timeout time.Duration) *Bus {
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Bus{ctx: ctx, timeout: timeout}
}

// Timeout reports the per-job deadline.
func (b *Bus) Timeout() time.Duration { return b.timeout }

// Execute wraps a request into a Bubble Tea command while emitting trace logs.
// The job's context is cancelled once Run returns.
func (b *Bus) Execute(req Request) tea.Cmd {
	events.Command.Queue(req.ID, req.Label)
	return func() tea.Msg {
		if req.Run == nil {
			events.Command.Skip(req.ID, req.Label)
			return nil
		}
		ctx, cancel := context.WithTimeout(b.ctx, b.timeout)
		defer cancel()
		started := time.Now()
		msg := req.Run(ctx)
		events.Command.Result(req.ID, req.Label, fmt.Sprintf("%T", msg), time.Since(started))
		return msg
	}
}
