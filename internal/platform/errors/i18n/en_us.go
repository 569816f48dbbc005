package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeUnknown                   = "UNKNOWN"
	CodeMalformedRequest          = "MALFORMED_REQUEST"
	CodeCampaignProposerMissing   = "CAMPAIGN_PROPOSER_MISSING"
	CodeCampaignTitleEmpty        = "CAMPAIGN_TITLE_EMPTY"
	CodeCampaignDescriptionEmpty  = "CAMPAIGN_DESCRIPTION_EMPTY"
	CodeCampaignGoalNotPositive   = "CAMPAIGN_GOAL_NOT_POSITIVE"
	CodeDonationAmountNotPositive = "DONATION_AMOUNT_NOT_POSITIVE"
	CodeCampaignEnded             = "CAMPAIGN_ENDED"
	CodeCampaignGoalExceeded      = "CAMPAIGN_GOAL_EXCEEDED"
	CodeIdentityTokenInvalid      = "IDENTITY_TOKEN_INVALID"
	CodeIdentityTokenExpired      = "IDENTITY_TOKEN_EXPIRED"
	CodeNotFound                  = "NOT_FOUND"
	CodeRecordTooLarge            = "RECORD_TOO_LARGE"
	CodeStorageFailure            = "STORAGE_FAILURE"
)

var enUSCatalog = &Catalog{
	locale: "en-US",
	messages: map[Code]string{
		CodeUnknown:          "An unexpected error occurred",
		CodeMalformedRequest: "The request body could not be parsed",

		// Campaign validation errors
		CodeCampaignProposerMissing:  "Campaign proposer is required",
		CodeCampaignTitleEmpty:       "Campaign title cannot be empty",
		CodeCampaignDescriptionEmpty: "Campaign description cannot be empty",
		CodeCampaignGoalNotPositive:  "Campaign goal must be greater than zero",

		// Donation errors
		CodeDonationAmountNotPositive: "Donation amount must be greater than zero",
		CodeCampaignEnded:             "Campaign {{.CampaignID}} has already ended",
		CodeCampaignGoalExceeded:      "Donation of {{.Amount}} would exceed the campaign goal of {{.Goal}}",

		// Identity errors
		CodeIdentityTokenInvalid: "The bearer token is invalid",
		CodeIdentityTokenExpired: "The bearer token has expired",

		// Storage errors
		CodeNotFound:       "The requested campaign was not found",
		CodeRecordTooLarge: "Record size {{.Size}} exceeds the storage limit",
		CodeStorageFailure: "The operation failed due to a storage error",
	},
}
