package config

import "strings"

// Credentials is the portal login shared by every school subdomain.
type Credentials struct {
	// Username is the EduPage login name (parent or student account).
	Username string

	// Password is the EduPage password. It must never be logged;
	// the secure logger masks any attribute named "password".
	Password string
}

// Validate returns ErrMissingCredentials if either field is empty.
func (c Credentials) Validate() error {
	if c.Username == "" || c.Password == "" {
		return ErrMissingCredentials
	}
	return nil
}

// ParseTargets splits a comma-separated SUBDOMAINS value.
// Entries are trimmed, blank entries are dropped, and duplicates keep
// their first position so the run order is stable.
func ParseTargets(value string) []string {
	parts := strings.Split(value, ",")
	targets := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))

	for _, part := range parts {
		target := strings.TrimSpace(part)
		if target == "" {
			continue
		}
		if _, ok := seen[target]; ok {
			continue
		}
		seen[target] = struct{}{}
		targets = append(targets, target)
	}

	return targets
}
