package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adaptiq/adaptiq-backend/internal/domain/learner"
)

func SeedProfile(tb testing.TB, ctx context.Context, db *gorm.DB, tags ...learner.DisabilityType) *learner.ProfileRecord {
	tb.Helper()
	row := &learner.ProfileRecord{UserID: uuid.New(), FullName: "Sam Learner", Age: 9}
	row.Apply(learner.Profile{
		DisabilityTypes:     tags,
		LearningPreferences: learner.DefaultPreferences(),
		CognitiveProfile:    learner.DefaultCognitiveProfile(),
		PerformanceHistory:  learner.PerformanceHistory{AverageAccuracy: 0.7, StrugglingConcepts: []string{}, MasteredConcepts: []string{}},
	})
	if err := db.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed profile: %v", err)
	}
	return row
}
