package model

import "time"

// TriggerKind identifies what started an invocation.
type TriggerKind string

const (
	TriggerScheduled TriggerKind = "scheduled"
	TriggerManual    TriggerKind = "manual"
)

// OperationKind identifies which of the two operations an invocation dispatched.
type OperationKind string

const (
	OperationAdd    OperationKind = "add"
	OperationUpdate OperationKind = "update"
)

// RunStatus is the terminal state of an invocation.
type RunStatus string

const (
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

// Invocation is one run of the dispatch controller, as recorded in the run
// ledger. Symbol is empty for update runs. Error holds the failure text for
// failed runs and is empty otherwise.
type Invocation struct {
	ID         int64
	Trigger    TriggerKind
	Operation  OperationKind
	Symbol     string
	StartedAt  time.Time
	FinishedAt time.Time
	Status     RunStatus
	Error      string
}
