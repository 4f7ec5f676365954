package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type learnerKey struct{}

// LearnerData is attached by the auth middleware once a bearer token is verified.
type LearnerData struct {
	UserID uuid.UUID
	Token  string
}

func WithLearner(ctx context.Context, ld *LearnerData) context.Context {
	return context.WithValue(ctx, learnerKey{}, ld)
}

func GetLearner(ctx context.Context) *LearnerData {
	if ctx == nil {
		return nil
	}
	if ld, ok := ctx.Value(learnerKey{}).(*LearnerData); ok {
		return ld
	}
	return nil
}

// LearnerID returns uuid.Nil when no learner is attached.
func LearnerID(ctx context.Context) uuid.UUID {
	if ld := GetLearner(ctx); ld != nil {
		return ld.UserID
	}
	return uuid.Nil
}

// Default returns context.Background() when ctx is nil.
func Default(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
