package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "invalid", err: Invalid("unknown disability tag %q", "x"), wantStatus: http.StatusBadRequest, wantCode: "invalid_argument"},
		{name: "wrapped_not_found", err: fmt.Errorf("load profile: %w", ErrNotFound), wantStatus: http.StatusNotFound, wantCode: "not_found"},
		{name: "explicit", err: New(http.StatusConflict, "profile_exists", errors.New("exists")), wantStatus: http.StatusConflict, wantCode: "profile_exists"},
		{name: "unavailable", err: fmt.Errorf("tts: %w", ErrUnavailable), wantStatus: http.StatusServiceUnavailable, wantCode: "unavailable"},
		{name: "other", err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantCode: "internal"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, code := Classify(tc.err)
			if status != tc.wantStatus || code != tc.wantCode {
				t.Fatalf("Classify(%v)=(%d,%q), want (%d,%q)", tc.err, status, code, tc.wantStatus, tc.wantCode)
			}
		})
	}
}
