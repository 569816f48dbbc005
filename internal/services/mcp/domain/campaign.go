package domain

import (
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/crowdfund/internal/services/ledger/domain/campaign"
)

// CampaignCreateInput represents the MCP tool input for campaign creation.
type CampaignCreateInput struct {
	Proposer     string `json:"proposer" jsonschema:"identity of the campaign proposer"`
	Title        string `json:"title" jsonschema:"campaign title"`
	Description  string `json:"description" jsonschema:"campaign description"`
	Goal         int64  `json:"goal" jsonschema:"funding goal, a positive amount"`
	DeadlineDays int    `json:"deadline_days" jsonschema:"deadline in whole days from now"`
}

// CampaignUpdateInput represents the MCP tool input for amending campaign text.
type CampaignUpdateInput struct {
	CampaignID  string `json:"campaign_id" jsonschema:"campaign identifier"`
	Title       string `json:"title" jsonschema:"replacement title"`
	Description string `json:"description" jsonschema:"replacement description"`
}

// CampaignIDInput represents the MCP tool input for id-keyed operations.
type CampaignIDInput struct {
	CampaignID string `json:"campaign_id" jsonschema:"campaign identifier"`
}

// DonateInput represents the MCP tool input for recording a donation.
type DonateInput struct {
	CampaignID string `json:"campaign_id" jsonschema:"campaign identifier"`
	Donor      string `json:"donor" jsonschema:"identity of the donor"`
	Amount     int64  `json:"amount" jsonschema:"donation amount, a positive amount"`
}

// DeadlineUpdateInput represents the MCP tool input for moving a deadline.
type DeadlineUpdateInput struct {
	CampaignID string `json:"campaign_id" jsonschema:"campaign identifier"`
	Days       int    `json:"days" jsonschema:"new deadline in whole days from now"`
}

// DonorAddInput represents the MCP tool input for the administrative donor
// append. It bypasses the donation gates and leaves the accepted total
// untouched.
type DonorAddInput struct {
	CampaignID string `json:"campaign_id" jsonschema:"campaign identifier"`
	DonorID    string `json:"donor_id" jsonschema:"identity of the donor record"`
	Amount     int64  `json:"amount" jsonschema:"recorded amount"`
}

// DonorEntry is one recorded contribution.
type DonorEntry struct {
	ID     string `json:"id" jsonschema:"donor identity"`
	Amount int64  `json:"amount" jsonschema:"recorded amount"`
}

// CampaignResult is the campaign state returned by mutating and read tools.
type CampaignResult struct {
	ID             string       `json:"id" jsonschema:"campaign identifier"`
	Proposer       string       `json:"proposer" jsonschema:"identity of the proposer"`
	Title          string       `json:"title" jsonschema:"campaign title"`
	Description    string       `json:"description" jsonschema:"campaign description"`
	Goal           int64        `json:"goal" jsonschema:"funding goal"`
	TotalDonations int64        `json:"total_donations" jsonschema:"sum of accepted donations"`
	Deadline       int64        `json:"deadline" jsonschema:"deadline in nanoseconds since the Unix epoch"`
	DeadlineTime   string       `json:"deadline_time" jsonschema:"deadline as an RFC3339 timestamp"`
	Donors         []DonorEntry `json:"donors" jsonschema:"recorded contributions in donation order"`
}

// CampaignListResult represents the MCP tool output for campaign listing.
type CampaignListResult struct {
	Campaigns []CampaignResult `json:"campaigns" jsonschema:"all campaigns in store order"`
}

// CampaignStatusResult represents the MCP tool output for derived status.
type CampaignStatusResult struct {
	CampaignID  string `json:"campaign_id" jsonschema:"campaign identifier"`
	GoalReached bool   `json:"goal_reached" jsonschema:"whether accepted donations meet or exceed the goal"`
	Ended       bool   `json:"ended" jsonschema:"whether the deadline has passed"`
}

// DeadlineResult represents the MCP tool output for deadline queries.
type DeadlineResult struct {
	CampaignID   string `json:"campaign_id" jsonschema:"campaign identifier"`
	Deadline     int64  `json:"deadline" jsonschema:"deadline in nanoseconds since the Unix epoch"`
	DeadlineTime string `json:"deadline_time" jsonschema:"deadline as an RFC3339 timestamp"`
}

// DonorListResult represents the MCP tool output for donor listing.
type DonorListResult struct {
	CampaignID string       `json:"campaign_id" jsonschema:"campaign identifier"`
	Donors     []DonorEntry `json:"donors" jsonschema:"recorded contributions in donation order"`
}

// CampaignCreateTool defines the MCP tool schema for campaign creation.
func CampaignCreateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "campaign_create",
		Description: "Creates a crowdfunding campaign with a goal and deadline",
	}
}

// CampaignUpdateTool defines the MCP tool schema for amending campaign text.
func CampaignUpdateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "campaign_update",
		Description: "Replaces a campaign's title and description",
	}
}

// CampaignDeleteTool defines the MCP tool schema for campaign deletion.
func CampaignDeleteTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "campaign_delete",
		Description: "Deletes a campaign and returns the removed record",
	}
}

// CampaignGetTool defines the MCP tool schema for fetching one campaign.
func CampaignGetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "campaign_get",
		Description: "Fetches a campaign by id",
	}
}

// CampaignListTool defines the MCP tool schema for listing campaigns.
func CampaignListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "campaign_list",
		Description: "Lists all campaigns in store order",
	}
}

// CampaignStatusTool defines the MCP tool schema for derived status queries.
func CampaignStatusTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "campaign_status",
		Description: "Reports whether a campaign reached its goal and whether it ended",
	}
}

// DonateTool defines the MCP tool schema for recording a donation.
func DonateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "campaign_donate",
		Description: "Records a donation, enforcing the deadline and goal gates",
	}
}

// DeadlineGetTool defines the MCP tool schema for reading a deadline.
func DeadlineGetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "campaign_deadline_get",
		Description: "Returns a campaign's deadline",
	}
}

// DeadlineUpdateTool defines the MCP tool schema for moving a deadline.
func DeadlineUpdateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "campaign_deadline_update",
		Description: "Recomputes a campaign's deadline as now plus the given days",
	}
}

// DonorListTool defines the MCP tool schema for listing donors.
func DonorListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "campaign_donors",
		Description: "Lists a campaign's recorded donors in donation order",
	}
}

// DonorAddTool defines the MCP tool schema for the administrative donor
// append.
func DonorAddTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "campaign_donor_add",
		Description: "Administrative override: appends a donor record without donation gates and without updating the accepted total",
	}
}

// campaignResult maps the domain campaign onto the MCP wire shape.
func campaignResult(c campaign.Campaign) CampaignResult {
	donors := make([]DonorEntry, 0, len(c.Donors))
	for _, donor := range c.Donors {
		donors = append(donors, DonorEntry{ID: donor.ID, Amount: donor.Amount})
	}
	return CampaignResult{
		ID:             c.ID,
		Proposer:       c.Proposer,
		Title:          c.Title,
		Description:    c.Description,
		Goal:           c.Goal,
		TotalDonations: c.TotalDonations,
		Deadline:       c.Deadline,
		DeadlineTime:   formatDeadline(c.Deadline),
		Donors:         donors,
	}
}

// formatDeadline renders a nanosecond epoch deadline as RFC3339 UTC.
func formatDeadline(deadline int64) string {
	return time.Unix(0, deadline).UTC().Format(time.RFC3339)
}
