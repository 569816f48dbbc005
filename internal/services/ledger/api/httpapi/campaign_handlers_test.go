package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/louisbranch/crowdfund/internal/services/ledger/domain/campaign"
	"github.com/louisbranch/crowdfund/internal/services/ledger/service"
	"github.com/louisbranch/crowdfund/internal/services/ledger/storage/memory"
)

func newTestHandler(t *testing.T, now time.Time) (http.Handler, *service.CampaignService) {
	t.Helper()

	index := 0
	generator := func() (string, error) {
		index++
		return fmt.Sprintf("camp-%03d", index), nil
	}
	svc := service.NewCampaignService(memory.New(),
		service.WithClock(func() time.Time { return now }),
		service.WithIDGenerator(generator),
	)
	return New(svc), svc
}

func doJSON(t *testing.T, handler http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	request := httptest.NewRequest(method, target, reader)
	request.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

func decodeCampaign(t *testing.T, recorder *httptest.ResponseRecorder) campaign.Campaign {
	t.Helper()

	var decoded campaign.Campaign
	if err := json.Unmarshal(recorder.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("decode campaign response: %v", err)
	}
	return decoded
}

func decodeErrorCode(t *testing.T, recorder *httptest.ResponseRecorder) string {
	t.Helper()

	var body errorBody
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return body.Error.Code
}

func createTestCampaign(t *testing.T, handler http.Handler) campaign.Campaign {
	t.Helper()

	recorder := doJSON(t, handler, http.MethodPost, "/campaigns", createCampaignRequest{
		Proposer:     "proposer-1",
		Title:        "Community Well",
		Description:  "Dig a well for the north district",
		Goal:         100,
		DeadlineDays: 1,
	})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", recorder.Code, recorder.Body.String())
	}
	return decodeCampaign(t, recorder)
}

func TestCreateCampaign(t *testing.T) {
	handler, _ := newTestHandler(t, time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC))

	created := createTestCampaign(t, handler)
	if created.ID == "" {
		t.Fatal("expected assigned campaign id")
	}
	if created.TotalDonations != 0 {
		t.Fatalf("expected zero total, got %d", created.TotalDonations)
	}
	if len(created.Donors) != 0 {
		t.Fatalf("expected empty donor list, got %d entries", len(created.Donors))
	}
}

func TestCreateCampaignValidation(t *testing.T) {
	tests := []struct {
		name     string
		request  createCampaignRequest
		wantCode string
	}{
		{
			name: "missing proposer",
			request: createCampaignRequest{
				Title: "t", Description: "d", Goal: 10, DeadlineDays: 1,
			},
			wantCode: "CAMPAIGN_PROPOSER_MISSING",
		},
		{
			name: "missing title",
			request: createCampaignRequest{
				Proposer: "p", Description: "d", Goal: 10, DeadlineDays: 1,
			},
			wantCode: "CAMPAIGN_TITLE_EMPTY",
		},
		{
			name: "missing description",
			request: createCampaignRequest{
				Proposer: "p", Title: "t", Goal: 10, DeadlineDays: 1,
			},
			wantCode: "CAMPAIGN_DESCRIPTION_EMPTY",
		},
		{
			name: "non-positive goal",
			request: createCampaignRequest{
				Proposer: "p", Title: "t", Description: "d", Goal: 0, DeadlineDays: 1,
			},
			wantCode: "CAMPAIGN_GOAL_NOT_POSITIVE",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handler, _ := newTestHandler(t, time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC))

			recorder := doJSON(t, handler, http.MethodPost, "/campaigns", tc.request)
			if recorder.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d", recorder.Code)
			}
			if code := decodeErrorCode(t, recorder); code != tc.wantCode {
				t.Fatalf("expected code %s, got %s", tc.wantCode, code)
			}
		})
	}
}

func TestCreateCampaignMalformedBody(t *testing.T) {
	handler, _ := newTestHandler(t, time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC))

	request := httptest.NewRequest(http.MethodPost, "/campaigns", strings.NewReader("{not json"))
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", recorder.Code)
	}
	if code := decodeErrorCode(t, recorder); code != "MALFORMED_REQUEST" {
		t.Fatalf("expected code MALFORMED_REQUEST, got %s", code)
	}
}

func TestDonateFlow(t *testing.T) {
	handler, _ := newTestHandler(t, time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC))
	created := createTestCampaign(t, handler)

	recorder := doJSON(t, handler, http.MethodPost, "/campaigns/"+created.ID+"/donations", donateRequest{
		Donor: "donor-1", Amount: 50,
	})
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	updated := decodeCampaign(t, recorder)
	if updated.TotalDonations != 50 {
		t.Fatalf("expected total 50, got %d", updated.TotalDonations)
	}

	recorder = doJSON(t, handler, http.MethodPost, "/campaigns/"+created.ID+"/donations", donateRequest{
		Donor: "donor-2", Amount: 60,
	})
	if recorder.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", recorder.Code)
	}
	if code := decodeErrorCode(t, recorder); code != "CAMPAIGN_GOAL_EXCEEDED" {
		t.Fatalf("expected code CAMPAIGN_GOAL_EXCEEDED, got %s", code)
	}

	recorder = doJSON(t, handler, http.MethodGet, "/campaigns/"+created.ID, nil)
	current := decodeCampaign(t, recorder)
	if current.TotalDonations != 50 {
		t.Fatalf("expected total unchanged at 50, got %d", current.TotalDonations)
	}
	if len(current.Donors) != 1 {
		t.Fatalf("expected 1 donor, got %d", len(current.Donors))
	}
}

func TestDonateAfterDeadline(t *testing.T) {
	handler, _ := newTestHandler(t, time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC))

	recorder := doJSON(t, handler, http.MethodPost, "/campaigns", createCampaignRequest{
		Proposer: "p", Title: "t", Description: "d", Goal: 100, DeadlineDays: 0,
	})
	created := decodeCampaign(t, recorder)

	recorder = doJSON(t, handler, http.MethodPost, "/campaigns/"+created.ID+"/donations", donateRequest{
		Donor: "donor-1", Amount: 1,
	})
	if recorder.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", recorder.Code)
	}
	if code := decodeErrorCode(t, recorder); code != "CAMPAIGN_ENDED" {
		t.Fatalf("expected code CAMPAIGN_ENDED, got %s", code)
	}
}

func TestDonateLocalizedError(t *testing.T) {
	handler, _ := newTestHandler(t, time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC))
	created := createTestCampaign(t, handler)

	encoded, err := json.Marshal(donateRequest{Donor: "donor-1", Amount: 500})
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	request := httptest.NewRequest(http.MethodPost, "/campaigns/"+created.ID+"/donations", bytes.NewReader(encoded))
	request.Header.Set("Accept-Language", "pt-BR")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	var body errorBody
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if !strings.Contains(body.Error.Message, "ultrapassaria") {
		t.Fatalf("expected pt-BR message, got %q", body.Error.Message)
	}
}

func TestUpdateCampaignAndDeadline(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	handler, _ := newTestHandler(t, now)
	created := createTestCampaign(t, handler)

	recorder := doJSON(t, handler, http.MethodPatch, "/campaigns/"+created.ID, updateCampaignRequest{
		Title: "New Title", Description: "New description",
	})
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", recorder.Code)
	}
	updated := decodeCampaign(t, recorder)
	if updated.Title != "New Title" || updated.Description != "New description" {
		t.Fatalf("expected amended fields, got %q / %q", updated.Title, updated.Description)
	}

	recorder = doJSON(t, handler, http.MethodPut, "/campaigns/"+created.ID+"/deadline", updateDeadlineRequest{Days: 7})
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", recorder.Code)
	}

	recorder = doJSON(t, handler, http.MethodGet, "/campaigns/"+created.ID+"/deadline", nil)
	var deadline deadlineResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &deadline); err != nil {
		t.Fatalf("decode deadline response: %v", err)
	}
	want := now.UnixNano() + (7 * 24 * time.Hour).Nanoseconds()
	if deadline.Deadline != want {
		t.Fatalf("expected deadline %d, got %d", want, deadline.Deadline)
	}
}

func TestDeleteCampaign(t *testing.T) {
	handler, _ := newTestHandler(t, time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC))
	created := createTestCampaign(t, handler)

	recorder := doJSON(t, handler, http.MethodDelete, "/campaigns/"+created.ID, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", recorder.Code)
	}

	recorder = doJSON(t, handler, http.MethodGet, "/campaigns/"+created.ID, nil)
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", recorder.Code)
	}
	if code := decodeErrorCode(t, recorder); code != "NOT_FOUND" {
		t.Fatalf("expected code NOT_FOUND, got %s", code)
	}
}

func TestCampaignStatus(t *testing.T) {
	handler, _ := newTestHandler(t, time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC))
	created := createTestCampaign(t, handler)

	doJSON(t, handler, http.MethodPost, "/campaigns/"+created.ID+"/donations", donateRequest{Donor: "d1", Amount: 100})

	recorder := doJSON(t, handler, http.MethodGet, "/campaigns/"+created.ID+"/status", nil)
	var status statusResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode status response: %v", err)
	}
	if !status.GoalReached {
		t.Fatal("expected goal reached after full funding")
	}
	if status.Ended {
		t.Fatal("expected campaign still running")
	}
}

func TestListCampaignsAndDonors(t *testing.T) {
	handler, _ := newTestHandler(t, time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC))
	first := createTestCampaign(t, handler)
	createTestCampaign(t, handler)

	recorder := doJSON(t, handler, http.MethodGet, "/campaigns", nil)
	var list campaignListResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if len(list.Campaigns) != 2 {
		t.Fatalf("expected 2 campaigns, got %d", len(list.Campaigns))
	}

	doJSON(t, handler, http.MethodPost, "/campaigns/"+first.ID+"/donations", donateRequest{Donor: "d1", Amount: 10})

	recorder = doJSON(t, handler, http.MethodGet, "/campaigns/"+first.ID+"/donors", nil)
	var donors donorListResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &donors); err != nil {
		t.Fatalf("decode donors response: %v", err)
	}
	if len(donors.Donors) != 1 || donors.Donors[0].ID != "d1" {
		t.Fatalf("expected donor d1 recorded, got %+v", donors.Donors)
	}
}

func TestAddDonorSkipsTotal(t *testing.T) {
	handler, _ := newTestHandler(t, time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC))
	created := createTestCampaign(t, handler)

	recorder := doJSON(t, handler, http.MethodPost, "/campaigns/"+created.ID+"/donors", addDonorRequest{
		ID: "import-1", Amount: 40,
	})
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	updated := decodeCampaign(t, recorder)
	if len(updated.Donors) != 1 {
		t.Fatalf("expected 1 donor, got %d", len(updated.Donors))
	}
	if updated.TotalDonations != 0 {
		t.Fatalf("expected total untouched by donor append, got %d", updated.TotalDonations)
	}
}

func TestHealthz(t *testing.T) {
	handler, _ := newTestHandler(t, time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC))

	recorder := doJSON(t, handler, http.MethodGet, "/healthz", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", recorder.Code)
	}
}

func TestStatisticsEndpoint(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	store := memory.New()
	svc := service.NewCampaignService(store,
		service.WithClock(func() time.Time { return now }),
	)
	handler := New(svc, WithStatistics(store))

	recorder := doJSON(t, handler, http.MethodPost, "/campaigns", createCampaignRequest{
		Proposer:     "proposer-1",
		Title:        "Community Well",
		Description:  "Dig a well for the north district",
		Goal:         100,
		DeadlineDays: 1,
	})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", recorder.Code)
	}
	created := decodeCampaign(t, recorder)

	recorder = doJSON(t, handler, http.MethodPost, "/campaigns/"+created.ID+"/donations", donateRequest{
		Donor: "donor-1", Amount: 40,
	})
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}

	recorder = doJSON(t, handler, http.MethodGet, "/stats", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	var stats statisticsResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode stats response: %v", err)
	}
	if stats.CampaignCount != 1 {
		t.Fatalf("expected 1 campaign, got %d", stats.CampaignCount)
	}
	if stats.DonorCount != 1 {
		t.Fatalf("expected 1 donor, got %d", stats.DonorCount)
	}
	if stats.DonatedTotal != 40 {
		t.Fatalf("expected donated total 40, got %d", stats.DonatedTotal)
	}
}

func TestStatisticsEndpointDisabledByDefault(t *testing.T) {
	handler, _ := newTestHandler(t, time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC))

	recorder := doJSON(t, handler, http.MethodGet, "/stats", nil)
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without statistics store, got %d", recorder.Code)
	}
}
