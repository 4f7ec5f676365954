package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/adaptiq/adaptiq-backend/internal/platform/ctxutil"
	"github.com/adaptiq/adaptiq-backend/internal/platform/logger"
)

var testSecret = []byte("test-secret")

func TestParseToken(t *testing.T) {
	userID := uuid.New()
	valid, err := SignToken(testSecret, userID, time.Hour)
	if err != nil {
		t.Fatalf("SignToken: %v", err)
	}
	expired, _ := SignToken(testSecret, userID, -time.Minute)
	otherKey, _ := SignToken([]byte("other"), userID, time.Hour)
	badSubject, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "learner-7",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(testSecret)
	noExpiry, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: userID.String(),
	}).SignedString(testSecret)
	unsigned, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   userID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	got, err := ParseToken(testSecret, valid)
	if err != nil || got != userID {
		t.Fatalf("ParseToken(valid)=(%v,%v), want %v", got, err, userID)
	}

	rejects := map[string]string{
		"expired":     expired,
		"other_key":   otherKey,
		"bad_subject": badSubject,
		"no_expiry":   noExpiry,
		"alg_none":    unsigned,
		"garbage":     "not.a.token",
	}
	for name, tok := range rejects {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseToken(testSecret, tok); err == nil {
				t.Fatalf("ParseToken accepted %s token", name)
			}
		})
	}
}

func TestRequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	am := NewAuthMiddleware(log, string(testSecret))

	var seen uuid.UUID
	r := gin.New()
	r.GET("/api/me", am.RequireAuth(), func(c *gin.Context) {
		seen = ctxutil.LearnerID(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	userID := uuid.New()
	tok, _ := SignToken(testSecret, userID, time.Hour)

	cases := []struct {
		name   string
		setup  func(req *http.Request)
		status int
	}{
		{name: "missing", setup: func(*http.Request) {}, status: http.StatusUnauthorized},
		{name: "bearer", setup: func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+tok) }, status: http.StatusNoContent},
		{name: "lowercase_scheme", setup: func(req *http.Request) { req.Header.Set("Authorization", "bearer "+tok) }, status: http.StatusNoContent},
		{name: "query", setup: func(req *http.Request) { req.URL.RawQuery = "token=" + tok }, status: http.StatusNoContent},
		{name: "invalid", setup: func(req *http.Request) { req.Header.Set("Authorization", "Bearer nope") }, status: http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			seen = uuid.Nil
			req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			tc.setup(req)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != tc.status {
				t.Fatalf("status=%d want %d body=%s", rec.Code, tc.status, rec.Body.String())
			}
			if tc.status == http.StatusNoContent && seen != userID {
				t.Fatalf("learner=%v want %v", seen, userID)
			}
			if tc.status == http.StatusUnauthorized && !strings.Contains(rec.Body.String(), `"code":"unauthorized"`) {
				t.Fatalf("missing error envelope: %s", rec.Body.String())
			}
		})
	}
}

func TestAttachTraceContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())
	var td *ctxutil.TraceData
	r.GET("/x", func(c *gin.Context) {
		td = ctxutil.GetTraceData(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(headerRequestID, "req-1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if td == nil || td.RequestID != "req-1" || td.TraceID == "" {
		t.Fatalf("trace data=%+v", td)
	}
	if rec.Header().Get(headerRequestID) != "req-1" || rec.Header().Get(headerTraceID) != td.TraceID {
		t.Fatalf("response headers=%v", rec.Header())
	}
}
