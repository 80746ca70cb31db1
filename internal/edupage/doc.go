// Package edupage is a client for the EduPage school portal.
//
// Login authenticates with a username and password against a school's
// subdomain and returns a Client bound to that session. The Client reads
// the timetable, grades, notification timeline and meal orders of the
// active identity, and switches the active identity between a parent
// account and its children.
//
// The portal has no documented API. Data comes from the JSON payloads the
// web pages embed (userhome, znamkyStudentViewer, edupageData) and from the
// timetable RPC endpoint the web client calls.
package edupage
