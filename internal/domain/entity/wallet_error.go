package entity

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures of the connect and fetch flows.
type ErrorKind int

const (
	// KindBridgeUnavailable means no wallet capability was detected.
	KindBridgeUnavailable ErrorKind = iota + 1
	// KindConnectionRejected means the user declined or the bridge failed during authorization.
	KindConnectionRejected
	// KindConfigMissing means a required credential is absent.
	KindConfigMissing
	// KindFetchFailed covers network, HTTP status and decoding failures.
	KindFetchFailed
	// KindIndexerRejected means the block explorer reported a logical failure.
	KindIndexerRejected
)

func (k ErrorKind) String() string {
	switch k {
	case KindBridgeUnavailable:
		return "BridgeUnavailable"
	case KindConnectionRejected:
		return "ConnectionRejected"
	case KindConfigMissing:
		return "ConfigMissing"
	case KindFetchFailed:
		return "FetchFailed"
	case KindIndexerRejected:
		return "IndexerRejected"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Sentinels for errors.Is matching on kind alone.
var (
	ErrBridgeUnavailable  = &WalletError{Kind: KindBridgeUnavailable}
	ErrConnectionRejected = &WalletError{Kind: KindConnectionRejected}
	ErrConfigMissing      = &WalletError{Kind: KindConfigMissing}
	ErrFetchFailed        = &WalletError{Kind: KindFetchFailed}
	ErrIndexerRejected    = &WalletError{Kind: KindIndexerRejected}
)

// WalletError represents a failure of one step of the connect/fetch flow.
type WalletError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

// NewWalletError wraps err with a kind and the operation that failed.
func NewWalletError(kind ErrorKind, op string, err error) *WalletError {
	return &WalletError{Kind: kind, Op: op, Err: err}
}

func (e *WalletError) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Op)
	default:
		return e.Kind.String()
	}
}

func (e *WalletError) Unwrap() error {
	return e.Err
}

// Is matches any WalletError of the same kind.
func (e *WalletError) Is(target error) bool {
	var we *WalletError
	if !errors.As(target, &we) {
		return false
	}
	return we.Kind == e.Kind
}

// KindOf extracts the error kind, falling back to FetchFailed for foreign errors.
func KindOf(err error) ErrorKind {
	var we *WalletError
	if errors.As(err, &we) {
		return we.Kind
	}
	return KindFetchFailed
}

// UserMessage converts any flow error into the single message shown to the user.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	switch KindOf(err) {
	case KindBridgeUnavailable:
		return "No wallet detected. Install a compatible wallet extension to continue."
	case KindConnectionRejected:
		return "Failed to connect wallet."
	case KindConfigMissing:
		return "Transaction history is not configured: the block explorer API key is missing."
	case KindIndexerRejected:
		return "Could not fetch transactions."
	default:
		return "Failed to fetch data."
	}
}
