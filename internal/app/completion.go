package app

import (
	"context"

	"github.com/google/uuid"

	"github.com/dshills/promptline/internal/engine/buffer"
	"github.com/dshills/promptline/internal/engine/document"
	"github.com/dshills/promptline/internal/logging"
	"github.com/dshills/promptline/internal/loop"
)

// DefaultMaxCompletions bounds the candidates pulled per request.
const DefaultMaxCompletions = 1000

// Complete asks the completer for candidates off the loop, pulling at most
// Options.MaxCompletions of them. A single candidate is inserted; several
// open the menu with the first (or, going backwards, the last) selected.
// Results for a document that has changed since the request are dropped.
func (s *Session) Complete(forward bool) {
	if s.opts.Completer == nil || s.active == nil {
		return
	}
	s.cancelCompletion()
	ctx, cancel := context.WithCancel(s.active.ctx)
	s.cancelComp = cancel

	doc := s.buffer.Document()
	completer := s.opts.Completer
	limit := s.opts.MaxCompletions
	if limit <= 0 {
		limit = DefaultMaxCompletions
	}
	log := s.logger.WithField("completion", uuid.NewString())
	log.Debug("requesting completions")

	loop.Offload(s.loop, ctx,
		func(ctx context.Context) ([]buffer.Completion, error) {
			ev := buffer.CompleteEvent{CompletionRequested: true}
			return buffer.Collect(ctx, completer.Completions(ctx, doc, ev), limit)
		},
		func(items []buffer.Completion, err error) {
			s.deliverCompletions(log, doc, forward, items, err)
		})
}

func (s *Session) deliverCompletions(log *logging.Logger, doc document.Document, forward bool, items []buffer.Completion, err error) {
	if s.active == nil {
		return
	}
	if err != nil {
		log.Warn("completer failed: %v", err)
		s.metrics.RecordCompletion(true, false)
		return
	}
	if !s.buffer.Document().Equal(doc) {
		log.Debug("dropping stale completions")
		s.metrics.RecordCompletion(false, true)
		return
	}
	s.metrics.RecordCompletion(false, false)

	switch len(items) {
	case 0:
		return
	case 1:
		if err := s.buffer.ApplyCompletion(items[0]); err != nil {
			log.Warn("apply completion: %v", err)
		}
	default:
		s.buffer.SetCompletions(items)
		if forward {
			s.buffer.CompleteNext(1)
		} else {
			s.buffer.CompletePrev(1)
		}
	}
	s.render()
}

func (s *Session) cancelCompletion() {
	if s.cancelComp != nil {
		s.cancelComp()
		s.cancelComp = nil
	}
}
