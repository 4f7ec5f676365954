// Package services holds the request-scoped operations behind the HTTP
// handlers. Every service reads the caller from the context placed there by
// the auth middleware.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/adaptiq/adaptiq-backend/internal/events"
	"github.com/adaptiq/adaptiq-backend/internal/observability"
	"github.com/adaptiq/adaptiq-backend/internal/platform/apierr"
	"github.com/adaptiq/adaptiq-backend/internal/platform/ctxutil"
	"github.com/adaptiq/adaptiq-backend/internal/platform/logger"
	"github.com/adaptiq/adaptiq-backend/internal/platform/pending"
)

// ErrSuperseded is returned to a caller whose request was replaced by a newer
// one for the same learner and surface before it finished.
var ErrSuperseded = apierr.New(http.StatusConflict, "superseded", errors.New("request superseded by a newer one"))

func learnerID(ctx context.Context) (uuid.UUID, error) {
	id := ctxutil.LearnerID(ctx)
	if id == uuid.Nil {
		return uuid.Nil, apierr.ErrUnauthorized
	}
	return id, nil
}

// publish is fire-and-forget: a failed fan-out is logged and never fails the
// write that produced it.
func publish(ctx context.Context, log *logger.Logger, pub events.Publisher, e events.Event) {
	if pub == nil {
		return
	}
	err := pub.Publish(ctx, e)
	observability.Current().IncEventPublished(string(e.Type), err)
	if err != nil {
		log.Warn("Event publish failed", "event_type", e.Type, "user_id", e.UserID, "error", err)
	}
}

func slotKey(userID uuid.UUID, surface string) string {
	return userID.String() + ":" + surface
}

// runLatest runs fn inside the pending slot for (learner, surface). If a newer
// request for the same slot begins while fn runs, the older caller gets
// ErrSuperseded and its result is dropped.
func runLatest[T any](ctx context.Context, slots *pending.Slots, key string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if slots == nil {
		return fn(ctx)
	}
	opCtx, ticket := slots.Begin(ctx, key)
	out, err := fn(opCtx)
	if !ticket.Done() {
		return zero, ErrSuperseded
	}
	if err != nil {
		return zero, err
	}
	return out, nil
}

// callProvider times one external call and records it.
func callProvider[T any](provider, op string, fn func() (T, error)) (T, error) {
	start := time.Now()
	out, err := fn()
	observability.Current().ObserveProvider(provider, op, err, time.Since(start))
	if err != nil {
		wrapped := fmt.Errorf("%s %s: %w", provider, op, err)
		if errors.Is(err, context.Canceled) || errors.Is(err, apierr.ErrInvalidArgument) {
			return out, wrapped
		}
		return out, apierr.New(http.StatusBadGateway, "provider_error", wrapped)
	}
	return out, nil
}
