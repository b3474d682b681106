// Package application contains use-case orchestration services.
package application

import (
	"context"
	"log/slog"

	"github.com/awakzdev/stockfeed/internal/domain/model"
	"github.com/awakzdev/stockfeed/internal/domain/port/driven"
)

// Operation is the single action one invocation dispatches: either adding a
// symbol to the watchlist or running the default update. Symbol is set only
// for add operations.
type Operation struct {
	Kind   model.OperationKind
	Symbol string
}

// SelectOperation decides which operation an invocation runs. It is a pure
// function of the optional symbol, independent of the trigger: any non-empty
// symbol selects Add, only a truly absent symbol selects Update. The raw
// value decides the split; whether the symbol survives normalization is the
// add operation's own concern, so a whitespace-only input becomes an add
// no-op rather than a full update.
func SelectOperation(optionalSymbol string) Operation {
	if optionalSymbol != "" {
		return Operation{Kind: model.OperationAdd, Symbol: model.NormalizeTicker(optionalSymbol)}
	}
	return Operation{Kind: model.OperationUpdate}
}

// SymbolAdder runs the add operation.
type SymbolAdder interface {
	Add(ctx context.Context, symbol string) error
}

// Updater runs the default update operation.
type Updater interface {
	Update(ctx context.Context) error
}

// Dispatcher runs exactly one operation per invocation and records the
// outcome in the run ledger. It performs no work of its own; failures from
// the dispatched operation propagate unchanged.
type Dispatcher struct {
	adder   SymbolAdder
	updater Updater
	runs    driven.RunStore
}

// NewDispatcher creates a Dispatcher with all required dependencies.
func NewDispatcher(adder SymbolAdder, updater Updater, runs driven.RunStore) *Dispatcher {
	return &Dispatcher{
		adder:   adder,
		updater: updater,
		runs:    runs,
	}
}

// Dispatch runs one invocation: select the operation from the optional
// symbol, record it in the ledger, run it, record the outcome. The returned
// error is the operation's own error, untouched. Ledger failures are logged
// but never mask or replace the operation result.
func (d *Dispatcher) Dispatch(ctx context.Context, trigger model.TriggerKind, optionalSymbol string) error {
	op := SelectOperation(optionalSymbol)

	slog.Info("dispatching",
		"trigger", string(trigger),
		"operation", string(op.Kind),
		"symbol", op.Symbol,
	)

	runID, err := d.runs.Begin(ctx, model.Invocation{
		Trigger:   trigger,
		Operation: op.Kind,
		Symbol:    op.Symbol,
	})
	if err != nil {
		slog.Error("run ledger begin failed", "error", err)
		runID = 0
	}

	var opErr error
	switch op.Kind {
	case model.OperationAdd:
		opErr = d.adder.Add(ctx, op.Symbol)
	default:
		opErr = d.updater.Update(ctx)
	}

	if runID != 0 {
		status := model.RunSucceeded
		errText := ""
		if opErr != nil {
			status = model.RunFailed
			errText = opErr.Error()
		}
		if err := d.runs.Finish(ctx, runID, status, errText); err != nil {
			slog.Error("run ledger finish failed", "run_id", runID, "error", err)
		}
	}

	return opErr
}
