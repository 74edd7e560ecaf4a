package utils

import (
	"fmt"
	"strings"
)

// Take selects which end of a list a Window keeps.
type Take string

const (
	// TakeHead keeps the first entries.
	TakeHead Take = "head"
	// TakeTail keeps the last entries.
	TakeTail Take = "tail"
)

// Window truncates a history list to a fixed number of entries.
type Window struct {
	Size int  `yaml:"size"`
	Take Take `yaml:"take"`
}

// Validate checks that the window can be applied.
func (w Window) Validate() error {
	if w.Size <= 0 {
		return fmt.Errorf("window size must be positive, got %d", w.Size)
	}
	switch Take(strings.ToLower(string(w.Take))) {
	case TakeHead, TakeTail:
		return nil
	default:
		return fmt.Errorf("unknown window take %q, expected %q or %q", w.Take, TakeHead, TakeTail)
	}
}

// ApplyWindow returns a copy of items truncated according to w.
// A non-positive size keeps everything.
func ApplyWindow[T any](items []T, w Window) []T {
	if w.Size <= 0 || len(items) <= w.Size {
		return append([]T(nil), items...)
	}
	if Take(strings.ToLower(string(w.Take))) == TakeTail {
		return append([]T(nil), items[len(items)-w.Size:]...)
	}
	return append([]T(nil), items[:w.Size]...)
}

// Reverse returns a reversed copy of items.
func Reverse[T any](items []T) []T {
	out := make([]T, len(items))
	for i, item := range items {
		out[len(items)-1-i] = item
	}
	return out
}
