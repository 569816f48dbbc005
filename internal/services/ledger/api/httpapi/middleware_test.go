package httpapi

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/time/rate"

	"github.com/louisbranch/crowdfund/internal/platform/identity"
	"github.com/louisbranch/crowdfund/internal/services/ledger/service"
	"github.com/louisbranch/crowdfund/internal/services/ledger/storage/memory"
)

func signTestToken(t *testing.T, key ed25519.PrivateKey, subject string, expires time.Time) string {
	t.Helper()

	claims := jwt.RegisteredClaims{
		Issuer:    "crowdfund-test",
		Audience:  jwt.ClaimStrings{"ledger"},
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestIdentityMiddleware(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	public, private, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	svc := service.NewCampaignService(memory.New(),
		service.WithClock(func() time.Time { return now }),
	)
	handler := New(svc, WithIdentity(identity.Config{
		Issuer:   "crowdfund-test",
		Audience: "ledger",
		Key:      public,
		Now:      func() time.Time { return now },
	}))

	body, err := json.Marshal(createCampaignRequest{
		Title: "t", Description: "d", Goal: 100, DeadlineDays: 1,
	})
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}

	t.Run("missing token is rejected", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodPost, "/campaigns", bytes.NewReader(body))
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)

		if recorder.Code != http.StatusUnauthorized {
			t.Fatalf("expected status 401, got %d", recorder.Code)
		}
	})

	t.Run("principal becomes the proposer", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodPost, "/campaigns", bytes.NewReader(body))
		request.Header.Set("Authorization", "Bearer "+signTestToken(t, private, "user-42", now.Add(time.Hour)))
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)

		if recorder.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d: %s", recorder.Code, recorder.Body.String())
		}
		created := decodeCampaign(t, recorder)
		if created.Proposer != "user-42" {
			t.Fatalf("expected proposer user-42, got %q", created.Proposer)
		}
	})

	t.Run("health probe stays open", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)

		if recorder.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", recorder.Code)
		}
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	svc := service.NewCampaignService(memory.New())
	handler := New(svc, WithRateLimit(rate.Limit(1), 1))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/campaigns", nil))
	if first.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", first.Code)
	}

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/campaigns", nil))
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status 429, got %d", second.Code)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	h := &Handler{}
	wrapped := h.withRecovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	recorder := httptest.NewRecorder()
	wrapped.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/campaigns", nil))

	if recorder.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", recorder.Code)
	}
	if code := decodeErrorCode(t, recorder); code != "STORAGE_FAILURE" {
		t.Fatalf("expected code STORAGE_FAILURE, got %s", code)
	}
}
