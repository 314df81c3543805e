package utils

import (
	"fmt"
	"net/url"
	"strings"
)

// WithIsolatedRole rewrites the DB URL to connect as the per-CI-run role,
// so parallel pipeline runs get schema isolation. The password carries
// over; only the user changes.
func WithIsolatedRole(baseURL, runnerID, runNumber string) (string, error) {
	if runnerID == "" || runNumber == "" {
		return "", fmt.Errorf("runnerID and runNumber must be non-empty")
	}

	role := strings.ToLower(runnerID + "-" + runNumber)

	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid DB URL: %w", err)
	}

	password, _ := u.User.Password()
	u.User = url.UserPassword(role, password)

	return u.String(), nil
}
