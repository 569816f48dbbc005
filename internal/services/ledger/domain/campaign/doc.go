// Package campaign provides the campaign aggregate and its state transitions.
//
// A campaign is a funding request with a goal, a deadline, and an append-only
// donor list. The package holds the pure domain logic: constructors, donation
// acceptance, and derived queries. Transitions never mutate their input; they
// return a fresh copy so a rejected transition provably leaves the caller's
// record untouched.
//
// # Donation Gating
//
// A donation is accepted only while the campaign is running (current time not
// past the deadline) and only when it fits within the remaining goal. The
// ended check runs before the goal check, so a campaign that is both ended
// and over-subscribed reports the ended failure.
//
// # Administrative Override
//
// AddDonor appends a donor record without any gating and without updating
// the accepted total. It exists for manual corrections and imports; it can
// leave the recorded total out of sync with the donor list, so it must not
// be used in place of Donate.
package campaign
