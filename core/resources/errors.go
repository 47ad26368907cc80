package resources

import (
	"fmt"
	"strings"
)

// APIError is returned for fullnode responses that are neither successful nor
// a not-found condition.
type APIError struct {
	StatusCode  int    `json:"-"`
	Message     string `json:"message"`
	ErrorCode   string `json:"error_code"`
	VMErrorCode *int   `json:"vm_error_code,omitempty"`
}

func (e *APIError) Error() string {
	if e == nil {
		return "resources: api error"
	}
	code := strings.TrimSpace(e.ErrorCode)
	if code == "" {
		code = "unknown"
	}
	return fmt.Sprintf("resources: api error status %d (%s): %s", e.StatusCode, code, strings.TrimSpace(e.Message))
}

// isNotFound reports whether the error code denotes a missing account,
// resource or table item.
func (e *APIError) isNotFound() bool {
	return e != nil && strings.HasSuffix(strings.TrimSpace(e.ErrorCode), "_not_found")
}
