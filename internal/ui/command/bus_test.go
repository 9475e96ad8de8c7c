package command

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type doneMsg struct{ label string }

func TestExecuteRunsRequest(t *testing.T) {
	bus := New(context.Background(), 0)
	ran := 0
	cmd := bus.Execute(Request{ID: "save", Label: "casual", Run: func(context.Context) tea.Msg {
		ran++
		return doneMsg{label: "casual"}
	}})
	if ran != 0 {
		t.Fatalf("request should not run until the command is invoked")
	}
	msg := cmd()
	if ran != 1 {
		t.Fatalf("expected request to run once, ran %d", ran)
	}
	if got, ok := msg.(doneMsg); !ok || got.label != "casual" {
		t.Fatalf("unexpected message %#v", msg)
	}
}

func TestExecuteSkipsMissingRun(t *testing.T) {
	cmd := New(nil, 0).Execute(Request{ID: "noop"})
	if msg := cmd(); msg != nil {
		t.Fatalf("expected nil message, got %#v", msg)
	}
}

func TestExecuteAppliesDeadline(t *testing.T) {
	bus := New(context.Background(), time.Minute)
	if bus.Timeout() != time.Minute {
		t.Fatalf("expected minute timeout, got %v", bus.Timeout())
	}
	var deadline time.Time
	var jobCtx context.Context
	cmd := bus.Execute(Request{ID: "send", Run: func(ctx context.Context) tea.Msg {
		deadline, _ = ctx.Deadline()
		jobCtx = ctx
		return nil
	}})
	cmd()
	if deadline.IsZero() || time.Until(deadline) > time.Minute {
		t.Fatalf("unexpected deadline %v", deadline)
	}
	if jobCtx.Err() == nil {
		t.Fatalf("expected job context to be cancelled after Run")
	}
}

func TestExecuteInheritsCancellation(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	cancel()
	var got error
	New(parent, 0).Execute(Request{ID: "save", Run: func(ctx context.Context) tea.Msg {
		got = ctx.Err()
		return nil
	}})()
	if got == nil {
		t.Fatalf("expected cancelled parent to propagate")
	}
}
