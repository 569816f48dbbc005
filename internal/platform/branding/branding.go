// Package branding centralizes the user-facing product name.
package branding

// AppName is the product name used across service surfaces.
const AppName = "Crowdfund"
