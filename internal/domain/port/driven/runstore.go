package driven

import (
	"context"

	"github.com/awakzdev/stockfeed/internal/domain/model"
)

// RunStore defines the driven port for the invocation ledger.
type RunStore interface {
	// Begin records the start of an invocation and returns its ledger ID.
	Begin(ctx context.Context, inv model.Invocation) (int64, error)

	// Finish records the terminal status of a previously begun invocation.
	// errText is empty for succeeded runs.
	Finish(ctx context.Context, id int64, status model.RunStatus, errText string) error

	// ListRecent returns the most recent invocations, newest first.
	ListRecent(ctx context.Context, limit int) ([]model.Invocation, error)
}
