package probe

import (
	"context"

	"github.com/Feandil/netlog/internal/event"
)

// Source produces connection events and hands them to submit. Run blocks
// until ctx is done or the source fails; submit must be safe to call from
// the source's goroutine and never blocks.
type Source interface {
	Run(ctx context.Context, submit func(event.Event)) error
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, submit func(event.Event)) error

// Run calls f.
func (f SourceFunc) Run(ctx context.Context, submit func(event.Event)) error {
	return f(ctx, submit)
}
