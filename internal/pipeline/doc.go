// Package pipeline builds the per-school report.
//
// A Runner logs in to each school subdomain in turn, enumerates the
// identities to report on (the account itself, or each child of a parent
// account), and runs a Pipeline of steps for every identity. Each step
// (timetable, grades, notifications, lunch) fetches its data through the
// Portal interface, applies the selection rules, and stores the result in
// its section of the identity report.
//
// Failures are contained at the narrowest level: a failed fetch becomes a
// FetchError in its section, a failed child switch becomes an
// IdentitySwitchError on that child, and a failed login becomes an
// AuthenticationError on that school. The Runner itself only stops on
// context cancellation.
//
// The portal keeps the active child on the server side. WithDependent
// scopes a switch so the session always returns to the parent account.
package pipeline
