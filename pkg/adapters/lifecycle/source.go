package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/loam-export/pkg/core"
)

// ChangeEvent reports that the notes of a store changed.
type ChangeEvent struct {
	Seq int
	At  time.Time
}

func (e ChangeEvent) String() string {
	return fmt.Sprintf("notes changed (#%d)", e.Seq)
}

type storeSource struct {
	store    core.Watchable
	debounce time.Duration
	out      chan lifecycle.Event
}

// NewSource creates a lifecycle.Source that emits a ChangeEvent each time
// the store settles after a change. Changes arriving while an event is
// still pending are folded into it.
func NewSource(store core.Watchable, debounce time.Duration) lifecycle.Source {
	return &storeSource{
		store:    store,
		debounce: debounce,
		out:      make(chan lifecycle.Event),
	}
}

func (s *storeSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *storeSource) Start(ctx context.Context) error {
	pending := make(chan ChangeEvent, 1)
	seq := 0

	// onChange runs serially on the watcher goroutine.
	err := s.store.Watch(ctx, s.debounce, func(ctx context.Context) {
		seq++
		select {
		case pending <- ChangeEvent{Seq: seq, At: time.Now()}:
		default:
		}
	})
	if err != nil {
		return err
	}

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e := <-pending:
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
