package model

// Processing status codes used by every asynchronous KSeF operation.
const (
	// StatusInProgress indicates server-side processing has not finished.
	StatusInProgress = 100
	// StatusSuccess indicates the operation completed successfully.
	StatusSuccess = 200
	// StatusSessionClosed is reported for a session after an explicit close.
	StatusSessionClosed = 440
)

// StatusInfo is the universal status envelope returned by asynchronous
// operations (authentication, sessions, exports). Code 100 means the
// operation is still in progress, 200 means it succeeded; any other code
// is a terminal failure described by Description and Details.
type StatusInfo struct {
	Code        int      `json:"code"`
	Description string   `json:"description,omitempty"`
	Details     []string `json:"details,omitempty"`
}

// InProgress reports whether the operation is still being processed.
func (s StatusInfo) InProgress() bool {
	return s.Code == StatusInProgress
}

// Succeeded reports whether the operation completed successfully.
func (s StatusInfo) Succeeded() bool {
	return s.Code == StatusSuccess
}

// Terminal reports whether the status will no longer change.
func (s StatusInfo) Terminal() bool {
	return s.Code != StatusInProgress
}
