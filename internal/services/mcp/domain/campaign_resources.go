package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/crowdfund/internal/platform/timeouts"
	"github.com/louisbranch/crowdfund/internal/services/ledger/service"
)

// CampaignListResource describes the read-only campaign listing.
func CampaignListResource() *mcp.Resource {
	return &mcp.Resource{
		URI:         "campaign://list",
		Name:        "campaign-list",
		Description: "All campaigns in store order",
		MIMEType:    "application/json",
	}
}

// CampaignResourceTemplate describes the per-campaign resource.
func CampaignResourceTemplate() *mcp.ResourceTemplate {
	return &mcp.ResourceTemplate{
		URITemplate: "campaign://{campaign_id}",
		Name:        "campaign",
		Description: "One campaign by id",
		MIMEType:    "application/json",
	}
}

// CampaignDonorsResourceTemplate describes the per-campaign donor listing.
func CampaignDonorsResourceTemplate() *mcp.ResourceTemplate {
	return &mcp.ResourceTemplate{
		URITemplate: "campaign://{campaign_id}/donors",
		Name:        "campaign-donors",
		Description: "Recorded donors of one campaign in donation order",
		MIMEType:    "application/json",
	}
}

// CampaignListResourceHandler serves the campaign listing payload.
func CampaignListResourceHandler(svc *service.CampaignService) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		callCtx, cancel := context.WithTimeout(ctx, timeouts.ToolCall)
		defer cancel()

		all, err := svc.ListCampaigns(callCtx)
		if err != nil {
			return nil, fmt.Errorf("campaign list failed: %w", err)
		}

		payload := CampaignListResult{Campaigns: make([]CampaignResult, 0, len(all))}
		for _, current := range all {
			payload.Campaigns = append(payload.Campaigns, campaignResult(current))
		}
		return jsonResourceResult(CampaignListResource().URI, payload)
	}
}

// CampaignResourceHandler serves one campaign payload addressed as
// campaign://{campaign_id}.
func CampaignResourceHandler(svc *service.CampaignService) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		uri, campaignID, err := campaignIDFromRequest(req)
		if err != nil {
			return nil, err
		}

		callCtx, cancel := context.WithTimeout(ctx, timeouts.ToolCall)
		defer cancel()

		current, err := svc.GetCampaign(callCtx, campaignID)
		if err != nil {
			return nil, fmt.Errorf("campaign get failed: %w", err)
		}
		return jsonResourceResult(uri, campaignResult(current))
	}
}

// CampaignDonorsResourceHandler serves the donor listing addressed as
// campaign://{campaign_id}/donors.
func CampaignDonorsResourceHandler(svc *service.CampaignService) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		uri, campaignID, err := campaignIDFromRequest(req)
		if err != nil {
			return nil, err
		}

		callCtx, cancel := context.WithTimeout(ctx, timeouts.ToolCall)
		defer cancel()

		donors, err := svc.GetDonors(callCtx, campaignID)
		if err != nil {
			return nil, fmt.Errorf("donor list failed: %w", err)
		}
		payload := DonorListResult{CampaignID: campaignID, Donors: make([]DonorEntry, 0, len(donors))}
		for _, donor := range donors {
			payload.Donors = append(payload.Donors, DonorEntry{ID: donor.ID, Amount: donor.Amount})
		}
		return jsonResourceResult(uri, payload)
	}
}

func campaignIDFromRequest(req *mcp.ReadResourceRequest) (uri, campaignID string, err error) {
	if req == nil || req.Params == nil || strings.TrimSpace(req.Params.URI) == "" {
		return "", "", fmt.Errorf("campaign id is required; use URI format campaign://{campaign_id}")
	}
	uri = req.Params.URI

	campaignID, err = parseCampaignIDFromURI(uri)
	if err != nil {
		return "", "", fmt.Errorf("parse campaign id from URI: %w", err)
	}
	return uri, campaignID, nil
}

// parseCampaignIDFromURI extracts the campaign id from a campaign:// URI,
// tolerating a trailing sub-path such as /donors.
func parseCampaignIDFromURI(uri string) (string, error) {
	rest, found := strings.CutPrefix(uri, "campaign://")
	if !found {
		return "", fmt.Errorf("URI %q does not use the campaign:// scheme", uri)
	}
	campaignID, _, _ := strings.Cut(rest, "/")
	campaignID = strings.TrimSpace(campaignID)
	if campaignID == "" {
		return "", fmt.Errorf("URI %q is missing a campaign id", uri)
	}
	return campaignID, nil
}

func jsonResourceResult(uri string, payload any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal resource payload: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(data),
			},
		},
	}, nil
}
