package provider

import "fmt"

// HTTPError is a non-2xx response from the provider gateway, decoded from
// its JSON error payload where possible.
type HTTPError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("provider http %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("provider http %d: %s", e.StatusCode, e.Message)
}
