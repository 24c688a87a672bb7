// Package checks holds the individual doctor checks. Each check reports a
// status instead of failing, so one broken dependency never hides the rest.
package checks

// Check statuses.
const (
	StatusOK       = "ok"
	StatusWarning  = "warning"
	StatusError    = "error"
	StatusDisabled = "disabled"
)

// Check is the outcome of one check.
type Check struct {
	Name    string   `json:"name"`
	Status  string   `json:"status"`
	Detail  string   `json:"detail,omitempty"`
	Missing []string `json:"missing,omitempty"`
}

func failed(name string, err error) Check {
	return Check{Name: name, Status: StatusError, Detail: err.Error()}
}
