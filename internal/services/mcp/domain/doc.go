// Package domain defines the MCP tool and resource surface for the ledger.
//
// Each tool wraps exactly one CampaignService operation; the input and
// output structs are the wire schema the MCP client sees. Resources expose
// read-only campaign views under the campaign:// URI scheme.
package domain
