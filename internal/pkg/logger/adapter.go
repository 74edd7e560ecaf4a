package logger

import "wallet_dashboard/internal/app/port"

// slogAdapter implements port.Logger on top of the package-level functions.
type slogAdapter struct{}

// NewSlogAdapter returns a port.Logger backed by the global slog logger.
func NewSlogAdapter() port.Logger {
	return &slogAdapter{}
}

func (a *slogAdapter) Info(msg string, args ...any)  { Info(msg, args...) }
func (a *slogAdapter) Debug(msg string, args ...any) { Debug(msg, args...) }
func (a *slogAdapter) Warn(msg string, args ...any)  { Warn(msg, args...) }
func (a *slogAdapter) Error(msg string, args ...any) { Error(msg, args...) }

// Nop discards everything. Handy in tests.
type Nop struct{}

func (Nop) Info(string, ...any)  {}
func (Nop) Debug(string, ...any) {}
func (Nop) Warn(string, ...any)  {}
func (Nop) Error(string, ...any) {}
