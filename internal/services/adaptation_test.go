package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/adaptiq/adaptiq-backend/internal/domain/learner"
	"github.com/adaptiq/adaptiq-backend/internal/modules/adaptation"
	"github.com/adaptiq/adaptiq-backend/internal/modules/catalog"
	"github.com/adaptiq/adaptiq-backend/internal/platform/apierr"
)

type adaptationFixture struct {
	deps     testDeps
	profiles ProfileService
	settings SettingsService
	svc      AdaptationService
}

func newAdaptationFixture(t *testing.T) adaptationFixture {
	t.Helper()
	d := newTestDeps(t)
	settings := NewSettingsService(d.log, d.settings, d.cache, d.pub)
	return adaptationFixture{
		deps:     d,
		profiles: newProfileService(d),
		settings: settings,
		svc:      NewAdaptationService(d.log, nil, d.profiles, settings),
	}
}

func (f adaptationFixture) saveProfile(t *testing.T, ctx context.Context, p learner.Profile) {
	t.Helper()
	if _, _, err := f.profiles.Save(ctx, ProfileInput{FullName: "Kim", Age: 8, Profile: p}); err != nil {
		t.Fatalf("Save profile: %v", err)
	}
}

func TestAdaptationEvaluateWithoutProfile(t *testing.T) {
	f := newAdaptationFixture(t)
	ctx, _ := learnerCtx(t)

	got, err := f.svc.Evaluate(ctx, nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if diff := cmp.Diff(adaptation.Baseline(), got.Parameters); diff != "" {
		t.Fatalf("Evaluate mismatch (-want +got):\n%s", diff)
	}
	if len(got.FiredRules) != 0 {
		t.Fatalf("fired=%v, want none", got.FiredRules)
	}
}

func TestAdaptationEvaluateStoredState(t *testing.T) {
	f := newAdaptationFixture(t)
	ctx, _ := learnerCtx(t)
	f.saveProfile(t, ctx, learner.Profile{DisabilityTypes: []learner.DisabilityType{learner.HearingImpairment}})
	if _, err := f.settings.Update(ctx, map[string]json.RawMessage{"audioEnabled": json.RawMessage(`true`)}); err != nil {
		t.Fatalf("Update settings: %v", err)
	}

	got, err := f.svc.Evaluate(ctx, nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !got.Parameters.AudioSupport || got.Parameters.VisualSupport != adaptation.SupportExtensive {
		t.Fatalf("params=%+v", got.Parameters)
	}
	if diff := cmp.Diff([]string{"hearing_impairment", "audio_enabled"}, got.FiredRules); diff != "" {
		t.Fatalf("fired mismatch (-want +got):\n%s", diff)
	}
}

func TestAdaptationEvaluateOverride(t *testing.T) {
	f := newAdaptationFixture(t)
	ctx, _ := learnerCtx(t)
	f.saveProfile(t, ctx, learner.Profile{DisabilityTypes: []learner.DisabilityType{learner.ADHD}})

	override := learner.Profile{DisabilityTypes: []learner.DisabilityType{learner.VisualImpairment}}
	got, err := f.svc.Evaluate(ctx, &override)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got.Parameters.InteractionType != adaptation.InteractVoice || got.Parameters.Pacing != adaptation.PacingSelf {
		t.Fatalf("override ignored: %+v", got.Parameters)
	}

	bad := learner.Profile{DisabilityTypes: []learner.DisabilityType{"unknown"}}
	if _, err := f.svc.Evaluate(ctx, &bad); !errors.Is(err, apierr.ErrInvalidArgument) {
		t.Fatalf("Evaluate(bad override) err=%v", err)
	}
}

func TestAdaptationAdaptCatalogLesson(t *testing.T) {
	f := newAdaptationFixture(t)
	ctx, _ := learnerCtx(t)
	f.saveProfile(t, ctx, learner.Profile{DisabilityTypes: []learner.DisabilityType{learner.Dyslexia}})

	cat, err := catalog.Load()
	if err != nil {
		t.Fatalf("catalog.Load: %v", err)
	}
	lessons := NewLessonService(f.deps.log, cat, f.svc)

	out, err := lessons.Adapted(ctx, "1", AdaptOptions{IncludeSimplified: true})
	if err != nil {
		t.Fatalf("Adapted: %v", err)
	}
	if out.AdaptedContent.ID != "1" || out.OriginalContent.Title != "Basic Addition" {
		t.Fatalf("adapted wrong lesson: %+v", out.AdaptedContent)
	}
	if !out.Parameters.AudioSupport || out.AlternativeFormats.Audio == nil {
		t.Fatalf("dyslexia lesson missing audio: %+v", out.AlternativeFormats)
	}
	if out.AlternativeFormats.Simplified == nil || out.AlternativeFormats.Simplified.SimplifiedText == "" {
		t.Fatalf("simplified format missing")
	}
	if out.ConfidenceScore != 0.8 {
		t.Fatalf("confidence=%v, want 0.8", out.ConfidenceScore)
	}

	plain, err := lessons.Adapted(ctx, "2", AdaptOptions{})
	if err != nil || plain.AlternativeFormats.Simplified != nil {
		t.Fatalf("Adapted without simplified=(%+v,%v)", plain.AlternativeFormats.Simplified, err)
	}

	if _, err := lessons.Adapted(ctx, "99", AdaptOptions{}); !errors.Is(err, apierr.ErrNotFound) {
		t.Fatalf("Adapted(unknown) err=%v", err)
	}
}

func TestAdaptationRecommend(t *testing.T) {
	f := newAdaptationFixture(t)
	ctx, _ := learnerCtx(t)

	got, err := f.svc.Recommend(ctx)
	if err != nil || got == nil || len(got) != 0 {
		t.Fatalf("Recommend(no profile)=(%v,%v)", got, err)
	}

	f.saveProfile(t, ctx, learner.Profile{PerformanceHistory: learner.PerformanceHistory{
		AverageAccuracy:    0.4,
		StrugglingConcepts: []string{"a", "b", "c", "d"},
	}})
	got, err = f.svc.Recommend(ctx)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	var actions []string
	for _, r := range got {
		actions = append(actions, r.Action)
	}
	if diff := cmp.Diff([]string{"reduce_difficulty", "suggest_review"}, actions); diff != "" {
		t.Fatalf("actions mismatch (-want +got):\n%s", diff)
	}
}

func TestFocusFor(t *testing.T) {
	cases := []struct {
		tags []learner.DisabilityType
		want adaptation.Focus
	}{
		{nil, adaptation.FocusGeneral},
		{[]learner.DisabilityType{learner.Autism, learner.ADHD}, adaptation.FocusADHD},
		{[]learner.DisabilityType{learner.Autism, learner.Dyslexia}, adaptation.FocusDyslexia},
		{[]learner.DisabilityType{learner.HearingImpairment}, adaptation.FocusGeneral},
	}
	for _, tc := range cases {
		if got := focusFor(learner.Profile{DisabilityTypes: tc.tags}); got != tc.want {
			t.Errorf("focusFor(%v)=%q, want %q", tc.tags, got, tc.want)
		}
	}
}
