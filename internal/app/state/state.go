// Package state holds the per-session view state and the single function
// allowed to advance it.
package state

import (
	"wallet_dashboard/internal/domain/entity"
)

// Phase is the connection/loading phase shown by the view.
type Phase int

const (
	PhaseDisconnected Phase = iota
	PhaseLoading
	PhaseLoaded
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	default:
		return "disconnected"
	}
}

// State is an immutable snapshot. Reduce returns a new value and never
// mutates its input, including the Transactions slice.
type State struct {
	Phase        Phase
	Account      string
	Balance      string
	Transactions []entity.Transaction
	// HistoryKnown is set once a transaction read completed, even with no results.
	HistoryKnown bool
	Err          error
	// Token identifies the fetch started by the latest Connected event.
	Token uint64
}

// Connected reports whether an account is set.
func (s State) Connected() bool {
	return s.Account != ""
}

// ErrorMessage is the text for the error slot, empty when there is no error.
func (s State) ErrorMessage() string {
	return entity.UserMessage(s.Err)
}

// Event is one of the state transitions below.
type Event interface {
	isEvent()
}

// Connected: the bridge granted access to Account. Starts a new fetch.
type Connected struct {
	Account string
}

// ConnectFailed: the connect attempt was rejected or no bridge exists.
type ConnectFailed struct {
	Err error
}

// DataLoaded: the fetch identified by Token finished.
type DataLoaded struct {
	Token uint64
	Data  entity.AccountData
}

// DataFailed: the fetch identified by Token failed. Partial may carry a balance.
type DataFailed struct {
	Token   uint64
	Err     error
	Partial entity.AccountData
}

// Disconnected clears the account.
type Disconnected struct{}

func (Connected) isEvent()     {}
func (ConnectFailed) isEvent() {}
func (DataLoaded) isEvent()    {}
func (DataFailed) isEvent()    {}
func (Disconnected) isEvent()  {}
