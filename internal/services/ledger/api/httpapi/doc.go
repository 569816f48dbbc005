// Package httpapi exposes the campaign ledger operations as a JSON HTTP API.
//
// Each route maps one-to-one onto a CampaignService operation; the handlers
// decode the request, call the service, and translate the typed service
// errors into HTTP statuses with localized messages. Identity, logging,
// metrics, rate limiting, and panic recovery are layered as middleware
// around the route mux.
package httpapi
