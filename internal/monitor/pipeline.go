// internal/monitor/pipeline.go
package monitor

import (
	"context"
	"sync"

	"github.com/tamzrod/anesthesia-monitor/internal/poller"
)

// Source emits poll results until ctx is cancelled. *poller.Poller satisfies it.
type Source interface {
	Run(ctx context.Context, out chan<- poller.PollResult)
}

// Launch wires src to u over an unbuffered channel and runs both loops.
// wg is released once both have returned, so callers can wait for it
// before closing the transports the loops use.
func Launch(ctx context.Context, wg *sync.WaitGroup, u *Unit, src Source) {
	ch := make(chan poller.PollResult)

	wg.Add(2)
	go func() {
		defer wg.Done()
		u.Run(ctx, ch)
	}()
	go func() {
		defer wg.Done()
		src.Run(ctx, ch)
	}()
}
