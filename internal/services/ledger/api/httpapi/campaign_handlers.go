package httpapi

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/louisbranch/crowdfund/internal/platform/errors"
	"github.com/louisbranch/crowdfund/internal/platform/identity"
	"github.com/louisbranch/crowdfund/internal/services/ledger/domain/campaign"
)

type createCampaignRequest struct {
	Proposer     string `json:"proposer,omitempty"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Goal         int64  `json:"goal"`
	DeadlineDays int    `json:"deadline_days"`
}

type updateCampaignRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type updateDeadlineRequest struct {
	Days int `json:"days"`
}

type donateRequest struct {
	Donor  string `json:"donor,omitempty"`
	Amount int64  `json:"amount"`
}

type addDonorRequest struct {
	ID     string `json:"id"`
	Amount int64  `json:"amount"`
}

type campaignListResponse struct {
	Campaigns []campaign.Campaign `json:"campaigns"`
}

type donorListResponse struct {
	Donors []campaign.Donor `json:"donors"`
}

type deadlineResponse struct {
	Deadline int64 `json:"deadline"`
}

type statusResponse struct {
	GoalReached bool `json:"goal_reached"`
	Ended       bool `json:"ended"`
}

// decode parses a JSON request body, rejecting unknown fields.
func decode(r *http.Request, target any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return apperrors.Wrap(apperrors.CodeMalformedRequest, "decode request body", err)
	}
	return nil
}

// callerIdentity returns the authenticated principal when token verification
// is on; otherwise the identity supplied in the request body stands.
func (h *Handler) callerIdentity(r *http.Request, fromBody string) string {
	if principal, ok := identity.FromContext(r.Context()); ok {
		return principal.Subject
	}
	return fromBody
}

func (h *Handler) createCampaign(w http.ResponseWriter, r *http.Request) {
	var req createCampaignRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	created, err := h.service.CreateCampaign(r.Context(), campaign.CreateInput{
		Proposer:     h.callerIdentity(r, req.Proposer),
		Title:        req.Title,
		Description:  req.Description,
		Goal:         req.Goal,
		DeadlineDays: req.DeadlineDays,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordCampaignCreated()
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) listCampaigns(w http.ResponseWriter, r *http.Request) {
	all, err := h.service.ListCampaigns(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if all == nil {
		all = []campaign.Campaign{}
	}
	writeJSON(w, http.StatusOK, campaignListResponse{Campaigns: all})
}

func (h *Handler) getCampaign(w http.ResponseWriter, r *http.Request) {
	current, err := h.service.GetCampaign(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, current)
}

func (h *Handler) updateCampaign(w http.ResponseWriter, r *http.Request) {
	var req updateCampaignRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := h.service.UpdateTitleAndDescription(r.Context(), r.PathValue("id"), req.Title, req.Description)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) deleteCampaign(w http.ResponseWriter, r *http.Request) {
	removed, err := h.service.DeleteCampaign(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordCampaignDeleted()
	}
	writeJSON(w, http.StatusOK, removed)
}

func (h *Handler) getDeadline(w http.ResponseWriter, r *http.Request) {
	deadline, err := h.service.GetDeadline(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deadlineResponse{Deadline: deadline})
}

func (h *Handler) updateDeadline(w http.ResponseWriter, r *http.Request) {
	var req updateDeadlineRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := h.service.UpdateDeadline(r.Context(), r.PathValue("id"), req.Days)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) getStatus(w http.ResponseWriter, r *http.Request) {
	campaignID := r.PathValue("id")

	reached, err := h.service.HasReachedGoal(r.Context(), campaignID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ended, err := h.service.HasEnded(r.Context(), campaignID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{GoalReached: reached, Ended: ended})
}

func (h *Handler) donate(w http.ResponseWriter, r *http.Request) {
	var req donateRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	donor := h.callerIdentity(r, req.Donor)
	updated, err := h.service.Donate(r.Context(), r.PathValue("id"), donor, req.Amount)
	if err != nil {
		if h.metrics != nil {
			h.metrics.RecordDonation("rejected", req.Amount)
		}
		writeError(w, r, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordDonation("accepted", req.Amount)
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) listDonors(w http.ResponseWriter, r *http.Request) {
	donors, err := h.service.GetDonors(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if donors == nil {
		donors = []campaign.Donor{}
	}
	writeJSON(w, http.StatusOK, donorListResponse{Donors: donors})
}

// addDonor appends a donor record through the administrative override path.
// The accepted total is left as-is; see the service documentation for the
// weaker contract.
func (h *Handler) addDonor(w http.ResponseWriter, r *http.Request) {
	var req addDonorRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := h.service.AddDonor(r.Context(), r.PathValue("id"), campaign.Donor{
		ID:     req.ID,
		Amount: req.Amount,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

type statisticsResponse struct {
	CampaignCount int64 `json:"campaign_count"`
	DonorCount    int64 `json:"donor_count"`
	DonatedTotal  int64 `json:"donated_total"`
}

func (h *Handler) getStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statistics.GetLedgerStatistics(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statisticsResponse{
		CampaignCount: stats.CampaignCount,
		DonorCount:    stats.DonorCount,
		DonatedTotal:  stats.DonatedTotal,
	})
}
