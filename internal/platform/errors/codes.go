// Package errors provides structured error handling with i18n support.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Campaign validation errors
	CodeCampaignProposerMissing  Code = "CAMPAIGN_PROPOSER_MISSING"
	CodeCampaignTitleEmpty       Code = "CAMPAIGN_TITLE_EMPTY"
	CodeCampaignDescriptionEmpty Code = "CAMPAIGN_DESCRIPTION_EMPTY"
	CodeCampaignGoalNotPositive  Code = "CAMPAIGN_GOAL_NOT_POSITIVE"

	// Request errors
	CodeMalformedRequest Code = "MALFORMED_REQUEST"

	// Donation errors
	CodeDonationAmountNotPositive Code = "DONATION_AMOUNT_NOT_POSITIVE"
	CodeCampaignEnded             Code = "CAMPAIGN_ENDED"
	CodeCampaignGoalExceeded      Code = "CAMPAIGN_GOAL_EXCEEDED"

	// Identity errors
	CodeIdentityTokenInvalid Code = "IDENTITY_TOKEN_INVALID"
	CodeIdentityTokenExpired Code = "IDENTITY_TOKEN_EXPIRED"

	// Storage errors
	CodeNotFound       Code = "NOT_FOUND"
	CodeRecordTooLarge Code = "RECORD_TOO_LARGE"
	CodeStorageFailure Code = "STORAGE_FAILURE"
)

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	// Bad request - validation failures, bad input
	case CodeMalformedRequest,
		CodeCampaignProposerMissing,
		CodeCampaignTitleEmpty,
		CodeCampaignDescriptionEmpty,
		CodeCampaignGoalNotPositive,
		CodeDonationAmountNotPositive:
		return http.StatusBadRequest

	// Conflict - campaign state does not allow the operation
	case CodeCampaignEnded,
		CodeCampaignGoalExceeded:
		return http.StatusConflict

	// Unauthorized - bearer token rejected
	case CodeIdentityTokenInvalid,
		CodeIdentityTokenExpired:
		return http.StatusUnauthorized

	// NotFound - resource doesn't exist
	case CodeNotFound:
		return http.StatusNotFound

	// Payload too large - record exceeds the durable layer's bounds
	case CodeRecordTooLarge:
		return http.StatusRequestEntityTooLarge

	default:
		return http.StatusInternalServerError
	}
}
