package auth

import (
	"fmt"
	"strings"
)

// AuthenticationError reports a terminal non-success status from the
// authentication poll, or a rejected refresh token. Code is the server's
// status code and is stable for programmatic branching.
type AuthenticationError struct {
	Code        int
	Description string
	Details     []string
}

func (e *AuthenticationError) Error() string {
	msg := fmt.Sprintf("authentication failed: %d %s", e.Code, e.Description)
	if len(e.Details) > 0 {
		msg += " (" + strings.Join(e.Details, ", ") + ")"
	}
	return msg
}
