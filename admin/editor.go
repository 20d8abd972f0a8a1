package admin

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/appadook/full-stack-portfolio/portfolio"
)

// Editor is the create/edit/delete form of one admin section. A successful
// write refetches only its own kind.
type Editor[T portfolio.Entity] struct {
	controller *Controller
	repo       portfolio.Repo[T]
	kind       portfolio.Kind

	mu          sync.Mutex
	draft       *T
	fieldErrors portfolio.FieldErrors
	banner      string
	submitting  bool
}

func newEditor[T portfolio.Entity](c *Controller, repo portfolio.Repo[T], kind portfolio.Kind) *Editor[T] {
	return &Editor[T]{
		controller: c,
		repo:       repo,
		kind:       kind,
	}
}

// Submit creates the draft when it has no id and updates it otherwise. It
// returns false when validation fails (nothing is sent) or the write fails;
// in both cases the draft is kept for another attempt.
func (e *Editor[T]) Submit(ctx context.Context, draft T) bool {
	e.mu.Lock()
	e.draft = &draft
	e.fieldErrors = draft.Validate()
	if !e.fieldErrors.OK() {
		e.mu.Unlock()
		return false
	}
	e.submitting = true
	e.banner = ""
	e.mu.Unlock()

	var err error
	if id := draft.EntityID(); id.IsNew() {
		_, err = e.repo.Create(ctx, draft)
	} else {
		_, err = e.repo.Update(ctx, id, draft)
	}

	if err != nil {
		log.Err(err).Str("kind", string(e.kind)).Msg("Error saving")
		e.finish(fmt.Sprintf("Failed to save %s. Please try again.", e.kind), false)
		return false
	}

	e.finish("", true)
	e.controller.Refetch(ctx, e.kind)
	return true
}

// Delete removes entity. An entity that was never saved is ignored.
func (e *Editor[T]) Delete(ctx context.Context, entity T) bool {
	id := entity.EntityID()
	if id.IsNew() {
		return false
	}

	e.mu.Lock()
	e.submitting = true
	e.banner = ""
	e.mu.Unlock()

	if err := e.repo.Delete(ctx, id); err != nil {
		log.Err(err).Str("kind", string(e.kind)).Str("id", id.String()).Msg("Error deleting")
		e.finish(fmt.Sprintf("Failed to delete %s. Please try again.", e.kind), false)
		return false
	}

	e.finish("", false)
	e.controller.Refetch(ctx, e.kind)
	return true
}

func (e *Editor[T]) finish(banner string, clearDraft bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.submitting = false
	e.banner = banner
	if clearDraft {
		e.draft = nil
		e.fieldErrors = nil
	}
}

func (e *Editor[T]) Banner() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.banner
}

func (e *Editor[T]) DismissBanner() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.banner = ""
}

// Draft returns the form contents kept after a failed submit.
func (e *Editor[T]) Draft() (T, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.draft == nil {
		var zero T
		return zero, false
	}
	return *e.draft, true
}

func (e *Editor[T]) FieldErrors() portfolio.FieldErrors {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fieldErrors
}

func (e *Editor[T]) Submitting() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.submitting
}
