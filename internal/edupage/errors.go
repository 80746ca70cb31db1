package edupage

import "errors"

// Portal client errors.
// Callers match them with errors.Is; the wrapped message carries the detail.
var (
	// ErrBadCredentials is returned when the portal rejects the username or password.
	ErrBadCredentials = errors.New("invalid username or password")

	// ErrMissingCSRFToken is returned when the login form carries no csrfauth token.
	// This usually means the subdomain does not host an EduPage portal.
	ErrMissingCSRFToken = errors.New("login form has no csrf token")

	// ErrUnexpectedResponse is returned when a page or API response does not
	// have the expected structure.
	ErrUnexpectedResponse = errors.New("unexpected portal response")

	// ErrHTTPStatus is returned for non-2xx responses.
	ErrHTTPStatus = errors.New("unexpected HTTP status")

	// ErrBodyTooLarge is returned when a response exceeds the configured size limit.
	ErrBodyTooLarge = errors.New("response body exceeds size limit")

	// ErrSwitchRejected is returned when the portal refuses an identity switch.
	ErrSwitchRejected = errors.New("identity switch rejected")

	// ErrNoTimetable is returned when the active identity has no timetable of
	// its own (a parent account).
	ErrNoTimetable = errors.New("active identity has no timetable")

	// ErrInvalidProxy is returned for an unsupported or malformed proxy URL.
	ErrInvalidProxy = errors.New("invalid proxy URL: expected http://, https://, socks5:// or socks5h://")
)
