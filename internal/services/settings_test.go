package services

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/adaptiq/adaptiq-backend/internal/domain/accessibility"
	"github.com/adaptiq/adaptiq-backend/internal/events"
	"github.com/adaptiq/adaptiq-backend/internal/platform/apierr"
	"github.com/adaptiq/adaptiq-backend/internal/platform/dbctx"
)

func TestSettingsServiceDefaultsWithoutRow(t *testing.T) {
	d := newTestDeps(t)
	svc := NewSettingsService(d.log, d.settings, d.cache, d.pub)
	ctx, userID := learnerCtx(t)

	got, err := svc.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if diff := cmp.Diff(accessibility.Defaults(), got); diff != "" {
		t.Fatalf("Get mismatch (-want +got):\n%s", diff)
	}
	if rec, _ := d.settings.GetByUserID(dbctx.New(ctx), userID); rec != nil {
		t.Fatalf("Get persisted defaults: %+v", rec)
	}
	if !d.cache.has(userID) {
		t.Fatalf("Get did not populate cache")
	}
}

func TestSettingsServiceUpdate(t *testing.T) {
	d := newTestDeps(t)
	svc := NewSettingsService(d.log, d.settings, d.cache, d.pub)
	ctx, userID := learnerCtx(t)

	got, err := svc.Update(ctx, map[string]json.RawMessage{
		"audioEnabled": json.RawMessage(`true`),
		"audioSpeed":   json.RawMessage(`3.5`),
		"textSize":     json.RawMessage(`"large"`),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	want := accessibility.Defaults()
	want.AudioEnabled = true
	want.AudioSpeed = accessibility.MaxAudioSpeed
	want.TextSize = accessibility.TextLarge
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Update mismatch (-want +got):\n%s", diff)
	}

	rec, err := d.settings.GetByUserID(dbctx.New(ctx), userID)
	if err != nil || rec == nil {
		t.Fatalf("stored=(%v,%v)", rec, err)
	}
	if diff := cmp.Diff(want, rec.Settings); diff != "" {
		t.Fatalf("stored mismatch (-want +got):\n%s", diff)
	}

	// a second patch keeps earlier fields
	got, err = svc.Update(ctx, map[string]json.RawMessage{"reducedMotion": json.RawMessage(`true`)})
	if err != nil || !got.AudioEnabled || !got.ReducedMotion {
		t.Fatalf("second Update=(%+v,%v)", got, err)
	}

	if _, err := svc.Update(ctx, map[string]json.RawMessage{"fontFamily": json.RawMessage(`"serif"`)}); !errors.Is(err, apierr.ErrInvalidArgument) {
		t.Fatalf("Update(unknown key) err=%v", err)
	}
	if _, err := svc.Update(ctx, map[string]json.RawMessage{"contrast": json.RawMessage(`"neon"`)}); !errors.Is(err, apierr.ErrInvalidArgument) {
		t.Fatalf("Update(bad enum) err=%v", err)
	}

	if diff := cmp.Diff([]events.Type{events.SettingsUpdated, events.SettingsUpdated}, eventTypes(d.pub)); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestSettingsServiceReset(t *testing.T) {
	d := newTestDeps(t)
	svc := NewSettingsService(d.log, d.settings, nil, d.pub)
	ctx, _ := learnerCtx(t)

	if _, err := svc.Update(ctx, map[string]json.RawMessage{"contrast": json.RawMessage(`"high"`)}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := svc.Reset(ctx)
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if diff := cmp.Diff(accessibility.Defaults(), got); diff != "" {
		t.Fatalf("Reset mismatch (-want +got):\n%s", diff)
	}
	again, err := svc.Get(ctx)
	if err != nil || again.Contrast != accessibility.ContrastNormal {
		t.Fatalf("Get after reset=(%+v,%v)", again, err)
	}
	types := eventTypes(d.pub)
	if types[len(types)-1] != events.SettingsReset {
		t.Fatalf("last event=%v, want settings.reset", types[len(types)-1])
	}
}

func TestSettingsServiceUpdateIgnoresStaleCache(t *testing.T) {
	d := newTestDeps(t)
	svc := NewSettingsService(d.log, d.settings, d.cache, d.pub)
	ctx, userID := learnerCtx(t)

	// a peer instance wrote audio settings; this instance still caches defaults
	peer := accessibility.Defaults()
	peer.AudioEnabled = true
	peer.AudioSpeed = 1.5
	if _, err := d.settings.Upsert(dbctx.New(ctx), userID, peer); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := d.cache.Set(ctx, userID, accessibility.Defaults()); err != nil {
		t.Fatalf("cache Set: %v", err)
	}

	got, err := svc.Update(ctx, map[string]json.RawMessage{"contrast": json.RawMessage(`"high"`)})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	want := peer
	want.Contrast = accessibility.ContrastHigh
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Update mismatch (-want +got):\n%s", diff)
	}

	got, err = svc.Update(ctx, map[string]json.RawMessage{"reducedMotion": json.RawMessage(`true`)})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	want.ReducedMotion = true
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("second Update mismatch (-want +got):\n%s", diff)
	}
	rec, err := d.settings.GetByUserID(dbctx.New(ctx), userID)
	if err != nil || rec == nil {
		t.Fatalf("GetByUserID: %v %v", rec, err)
	}
	if diff := cmp.Diff(want, rec.Settings); diff != "" {
		t.Fatalf("stored mismatch (-want +got):\n%s", diff)
	}
}

func TestSettingsServiceUpdateEmptyPatch(t *testing.T) {
	d := newTestDeps(t)
	svc := NewSettingsService(d.log, d.settings, d.cache, d.pub)
	ctx, userID := learnerCtx(t)

	_, err := svc.Update(ctx, map[string]json.RawMessage{})
	if !errors.Is(err, apierr.ErrInvalidArgument) {
		t.Fatalf("Update err = %v, want invalid argument", err)
	}
	if rec, _ := d.settings.GetByUserID(dbctx.New(ctx), userID); rec != nil {
		t.Fatalf("empty patch created a row: %+v", rec)
	}
}
