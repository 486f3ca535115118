package workflow

import (
	"context"

	"github.com/rs/zerolog/log"
)

type compensation struct {
	step string
	undo func(context.Context) error
}

// saga records how to undo every committed step.
type saga struct {
	done []compensation
}

func (s *saga) committed(step string, undo func(context.Context) error) {
	s.done = append(s.done, compensation{step: step, undo: undo})
}

// rollback undoes in reverse order. It keeps going past failures and runs
// even when the request context was cancelled.
func (s *saga) rollback(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	for i := len(s.done) - 1; i >= 0; i-- {
		c := s.done[i]
		if err := c.undo(ctx); err != nil {
			log.Error().Err(err).Str("step", c.step).Msg("compensation failed, manual cleanup needed")
		}
	}
	s.done = nil
}
