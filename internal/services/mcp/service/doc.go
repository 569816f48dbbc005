// Package service hosts the MCP server for the campaign ledger.
//
// The server registers the ledger tools and resources from the domain
// package over a shared CampaignService and serves them on stdio for local
// agents or over streamable HTTP for remote ones.
package service
