package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Handler processes tasks of a single name.
type Handler interface {
	Name() string
	Handle(ctx context.Context, payload json.RawMessage) error
}

// HandlerFunc is the typed processing function wrapped by NewHandler.
type HandlerFunc[T any] func(ctx context.Context, payload T) error

// NewHandler wraps a typed function as a Handler. The task name is derived
// from the payload type, matching the name the Enqueuer assigns when no
// custom name is given.
func NewHandler[T any](handler HandlerFunc[T]) Handler {
	var payload T
	return &taskHandler[T]{
		name:    qualifiedStructName(payload),
		handler: handler,
	}
}

type taskHandler[T any] struct {
	name    string
	handler HandlerFunc[T]
}

func (h *taskHandler[T]) Name() string {
	return h.name
}

func (h *taskHandler[T]) Handle(ctx context.Context, payload json.RawMessage) error {
	var t T
	if err := json.Unmarshal(payload, &t); err != nil {
		return err
	}
	return h.handler(ctx, t)
}

func qualifiedStructName(v any) string {
	return strings.TrimLeft(fmt.Sprintf("%T", v), "*")
}
