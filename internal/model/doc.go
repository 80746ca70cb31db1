// Package model defines the core data structures used throughout edureport.
//
// This package contains the following main types:
//   - Identity: the account a report is produced for (self or a dependent)
//   - Timetable, Grade, Notification, MealDay: records fetched from the portal
//   - SchoolReport and IdentityReport: the assembled report for one subdomain
//
// The portal client, the pipeline steps, and the writers all share these
// types; model imports none of them.
package model
