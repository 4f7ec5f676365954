package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/adaptiq/adaptiq-backend/internal/domain/learner"
	"github.com/adaptiq/adaptiq-backend/internal/events"
	"github.com/adaptiq/adaptiq-backend/internal/platform/apierr"
	"github.com/adaptiq/adaptiq-backend/internal/platform/dbctx"
)

func newProfileService(d testDeps) ProfileService {
	return NewProfileService(d.db, d.log, d.profiles, d.settings, d.favorites, d.cache, d.pub)
}

func TestProfileServiceSaveAndGet(t *testing.T) {
	d := newTestDeps(t)
	svc := newProfileService(d)
	ctx, userID := learnerCtx(t)

	if _, err := svc.Get(ctx); !errors.Is(err, apierr.ErrNotFound) {
		t.Fatalf("Get(before save) err=%v, want ErrNotFound", err)
	}

	in := ProfileInput{
		FullName: "  Maya  ",
		Age:      9,
		Profile: learner.Profile{
			DisabilityTypes: []learner.DisabilityType{learner.Dyslexia, learner.Dyslexia, learner.ADHD},
		},
	}
	row, created, err := svc.Save(ctx, in)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !created || row.FullName != "Maya" || row.UserID != userID {
		t.Fatalf("Save returned created=%v row=%+v", created, row)
	}
	p := row.Profile()
	if diff := cmp.Diff([]learner.DisabilityType{learner.Dyslexia, learner.ADHD}, p.DisabilityTypes); diff != "" {
		t.Fatalf("tags mismatch (-want +got):\n%s", diff)
	}
	if p.LearningPreferences.ProcessingSpeed != learner.SpeedNormal {
		t.Fatalf("processing speed not defaulted: %q", p.LearningPreferences.ProcessingSpeed)
	}

	in.Age = 10
	row2, created, err := svc.Save(ctx, in)
	if err != nil {
		t.Fatalf("Save(update): %v", err)
	}
	if created || row2.ID != row.ID || row2.Age != 10 {
		t.Fatalf("Save(update) created=%v row=%+v", created, row2)
	}

	got, err := svc.Get(ctx)
	if err != nil || got.Age != 10 {
		t.Fatalf("Get=(%+v,%v)", got, err)
	}
	if diff := cmp.Diff([]events.Type{events.ProfileCreated, events.ProfileUpdated}, eventTypes(d.pub)); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestProfileServiceSaveRejects(t *testing.T) {
	d := newTestDeps(t)
	svc := newProfileService(d)
	ctx, _ := learnerCtx(t)

	cases := []struct {
		name string
		in   ProfileInput
	}{
		{name: "missing_name", in: ProfileInput{Age: 8}},
		{name: "age_out_of_range", in: ProfileInput{FullName: "A", Age: 1}},
		{name: "unknown_tag", in: ProfileInput{FullName: "A", Age: 8, Profile: learner.Profile{DisabilityTypes: []learner.DisabilityType{"color_blind"}}}},
		{name: "accuracy_above_one", in: ProfileInput{FullName: "A", Age: 8, Profile: learner.Profile{PerformanceHistory: learner.PerformanceHistory{AverageAccuracy: 1.5}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := svc.Save(ctx, tc.in); !errors.Is(err, apierr.ErrInvalidArgument) {
				t.Fatalf("Save err=%v, want ErrInvalidArgument", err)
			}
		})
	}
	if len(d.pub.Events()) != 0 {
		t.Fatalf("rejected saves published %v", eventTypes(d.pub))
	}
}

func TestProfileServiceRequiresLearner(t *testing.T) {
	svc := newProfileService(newTestDeps(t))
	if _, err := svc.Get(context.Background()); !errors.Is(err, apierr.ErrUnauthorized) {
		t.Fatalf("Get without learner err=%v", err)
	}
}

func TestProfileServiceDeleteCascades(t *testing.T) {
	d := newTestDeps(t)
	svc := newProfileService(d)
	settingsSvc := NewSettingsService(d.log, d.settings, d.cache, d.pub)
	ctx, userID := learnerCtx(t)

	if _, _, err := svc.Save(ctx, ProfileInput{FullName: "Ben", Age: 7}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := settingsSvc.Update(ctx, map[string]json.RawMessage{"audioEnabled": json.RawMessage("true")}); err != nil {
		t.Fatalf("Update settings: %v", err)
	}
	dbc := dbctx.New(ctx)
	if err := d.favorites.Add(dbc, userID, "Hello"); err != nil {
		t.Fatalf("Add favorite: %v", err)
	}

	if err := svc.Delete(ctx); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if rec, _ := d.settings.GetByUserID(dbc, userID); rec != nil {
		t.Fatalf("settings survived delete: %+v", rec)
	}
	if words, _ := d.favorites.ListByUserID(dbc, userID); len(words) != 0 {
		t.Fatalf("favorites survived delete: %v", words)
	}
	if d.cache.has(userID) {
		t.Fatalf("settings cache not invalidated")
	}
	if err := svc.Delete(ctx); !errors.Is(err, apierr.ErrNotFound) {
		t.Fatalf("second Delete err=%v, want ErrNotFound", err)
	}

	// a new profile after deletion starts from default settings
	if _, created, err := svc.Save(ctx, ProfileInput{FullName: "Ben", Age: 7}); err != nil || !created {
		t.Fatalf("Save after delete created=%v err=%v", created, err)
	}
	st, err := settingsSvc.Get(ctx)
	if err != nil || st.AudioEnabled {
		t.Fatalf("settings after re-create=(%+v,%v)", st, err)
	}
}
