package domain

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/crowdfund/internal/platform/timeouts"
	"github.com/louisbranch/crowdfund/internal/services/ledger/domain/campaign"
	"github.com/louisbranch/crowdfund/internal/services/ledger/service"
)

// CampaignCreateHandler executes a campaign creation request.
func CampaignCreateHandler(svc *service.CampaignService) mcp.ToolHandlerFor[CampaignCreateInput, CampaignResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CampaignCreateInput) (*mcp.CallToolResult, CampaignResult, error) {
		callCtx, cancel := context.WithTimeout(ctx, timeouts.ToolCall)
		defer cancel()

		created, err := svc.CreateCampaign(callCtx, campaign.CreateInput{
			Proposer:     input.Proposer,
			Title:        input.Title,
			Description:  input.Description,
			Goal:         input.Goal,
			DeadlineDays: input.DeadlineDays,
		})
		if err != nil {
			return nil, CampaignResult{}, fmt.Errorf("campaign create failed: %w", err)
		}
		return nil, campaignResult(created), nil
	}
}

// CampaignUpdateHandler executes a title and description amendment.
func CampaignUpdateHandler(svc *service.CampaignService) mcp.ToolHandlerFor[CampaignUpdateInput, CampaignResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CampaignUpdateInput) (*mcp.CallToolResult, CampaignResult, error) {
		callCtx, cancel := context.WithTimeout(ctx, timeouts.ToolCall)
		defer cancel()

		updated, err := svc.UpdateTitleAndDescription(callCtx, input.CampaignID, input.Title, input.Description)
		if err != nil {
			return nil, CampaignResult{}, fmt.Errorf("campaign update failed: %w", err)
		}
		return nil, campaignResult(updated), nil
	}
}

// CampaignDeleteHandler executes a campaign deletion.
func CampaignDeleteHandler(svc *service.CampaignService) mcp.ToolHandlerFor[CampaignIDInput, CampaignResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CampaignIDInput) (*mcp.CallToolResult, CampaignResult, error) {
		callCtx, cancel := context.WithTimeout(ctx, timeouts.ToolCall)
		defer cancel()

		removed, err := svc.DeleteCampaign(callCtx, input.CampaignID)
		if err != nil {
			return nil, CampaignResult{}, fmt.Errorf("campaign delete failed: %w", err)
		}
		return nil, campaignResult(removed), nil
	}
}

// CampaignGetHandler fetches one campaign.
func CampaignGetHandler(svc *service.CampaignService) mcp.ToolHandlerFor[CampaignIDInput, CampaignResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CampaignIDInput) (*mcp.CallToolResult, CampaignResult, error) {
		callCtx, cancel := context.WithTimeout(ctx, timeouts.ToolCall)
		defer cancel()

		current, err := svc.GetCampaign(callCtx, input.CampaignID)
		if err != nil {
			return nil, CampaignResult{}, fmt.Errorf("campaign get failed: %w", err)
		}
		return nil, campaignResult(current), nil
	}
}

// CampaignListHandler lists all campaigns.
func CampaignListHandler(svc *service.CampaignService) mcp.ToolHandlerFor[struct{}, CampaignListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, CampaignListResult, error) {
		callCtx, cancel := context.WithTimeout(ctx, timeouts.ToolCall)
		defer cancel()

		all, err := svc.ListCampaigns(callCtx)
		if err != nil {
			return nil, CampaignListResult{}, fmt.Errorf("campaign list failed: %w", err)
		}
		result := CampaignListResult{Campaigns: make([]CampaignResult, 0, len(all))}
		for _, current := range all {
			result.Campaigns = append(result.Campaigns, campaignResult(current))
		}
		return nil, result, nil
	}
}

// CampaignStatusHandler reports the derived goal and deadline status.
func CampaignStatusHandler(svc *service.CampaignService) mcp.ToolHandlerFor[CampaignIDInput, CampaignStatusResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CampaignIDInput) (*mcp.CallToolResult, CampaignStatusResult, error) {
		callCtx, cancel := context.WithTimeout(ctx, timeouts.ToolCall)
		defer cancel()

		reached, err := svc.HasReachedGoal(callCtx, input.CampaignID)
		if err != nil {
			return nil, CampaignStatusResult{}, fmt.Errorf("campaign status failed: %w", err)
		}
		ended, err := svc.HasEnded(callCtx, input.CampaignID)
		if err != nil {
			return nil, CampaignStatusResult{}, fmt.Errorf("campaign status failed: %w", err)
		}
		return nil, CampaignStatusResult{
			CampaignID:  input.CampaignID,
			GoalReached: reached,
			Ended:       ended,
		}, nil
	}
}

// DonateHandler records a donation through the gated path.
func DonateHandler(svc *service.CampaignService) mcp.ToolHandlerFor[DonateInput, CampaignResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input DonateInput) (*mcp.CallToolResult, CampaignResult, error) {
		callCtx, cancel := context.WithTimeout(ctx, timeouts.ToolCall)
		defer cancel()

		updated, err := svc.Donate(callCtx, input.CampaignID, input.Donor, input.Amount)
		if err != nil {
			return nil, CampaignResult{}, fmt.Errorf("donation failed: %w", err)
		}
		return nil, campaignResult(updated), nil
	}
}

// DeadlineGetHandler returns the campaign deadline.
func DeadlineGetHandler(svc *service.CampaignService) mcp.ToolHandlerFor[CampaignIDInput, DeadlineResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CampaignIDInput) (*mcp.CallToolResult, DeadlineResult, error) {
		callCtx, cancel := context.WithTimeout(ctx, timeouts.ToolCall)
		defer cancel()

		deadline, err := svc.GetDeadline(callCtx, input.CampaignID)
		if err != nil {
			return nil, DeadlineResult{}, fmt.Errorf("deadline get failed: %w", err)
		}
		return nil, DeadlineResult{
			CampaignID:   input.CampaignID,
			Deadline:     deadline,
			DeadlineTime: formatDeadline(deadline),
		}, nil
	}
}

// DeadlineUpdateHandler moves the campaign deadline.
func DeadlineUpdateHandler(svc *service.CampaignService) mcp.ToolHandlerFor[DeadlineUpdateInput, CampaignResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input DeadlineUpdateInput) (*mcp.CallToolResult, CampaignResult, error) {
		callCtx, cancel := context.WithTimeout(ctx, timeouts.ToolCall)
		defer cancel()

		updated, err := svc.UpdateDeadline(callCtx, input.CampaignID, input.Days)
		if err != nil {
			return nil, CampaignResult{}, fmt.Errorf("deadline update failed: %w", err)
		}
		return nil, campaignResult(updated), nil
	}
}

// DonorListHandler lists the recorded donors of one campaign.
func DonorListHandler(svc *service.CampaignService) mcp.ToolHandlerFor[CampaignIDInput, DonorListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CampaignIDInput) (*mcp.CallToolResult, DonorListResult, error) {
		callCtx, cancel := context.WithTimeout(ctx, timeouts.ToolCall)
		defer cancel()

		donors, err := svc.GetDonors(callCtx, input.CampaignID)
		if err != nil {
			return nil, DonorListResult{}, fmt.Errorf("donor list failed: %w", err)
		}
		result := DonorListResult{CampaignID: input.CampaignID, Donors: make([]DonorEntry, 0, len(donors))}
		for _, donor := range donors {
			result.Donors = append(result.Donors, DonorEntry{ID: donor.ID, Amount: donor.Amount})
		}
		return nil, result, nil
	}
}

// DonorAddHandler appends a donor record through the administrative
// override path. The accepted total is left untouched.
func DonorAddHandler(svc *service.CampaignService) mcp.ToolHandlerFor[DonorAddInput, CampaignResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input DonorAddInput) (*mcp.CallToolResult, CampaignResult, error) {
		callCtx, cancel := context.WithTimeout(ctx, timeouts.ToolCall)
		defer cancel()

		updated, err := svc.AddDonor(callCtx, input.CampaignID, campaign.Donor{
			ID:     input.DonorID,
			Amount: input.Amount,
		})
		if err != nil {
			return nil, CampaignResult{}, fmt.Errorf("donor add failed: %w", err)
		}
		return nil, campaignResult(updated), nil
	}
}
