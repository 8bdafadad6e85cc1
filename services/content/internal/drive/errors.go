package drive

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnauthorized = errors.New("drive: credential rejected by provider")
	ErrNotFound     = errors.New("drive: file not found")
	ErrPermission   = errors.New("drive: permission denied")

	// ErrAPIDisabled: the Drive API is switched off at the Google Cloud
	// project level. Raw provider text for this case is opaque to
	// tenant admins, so it is translated into an actionable message.
	ErrAPIDisabled = errors.New("drive: google drive api is not enabled for the configured project; enable it in the google cloud console (APIs & Services > Library > Google Drive API) and retry")

	ErrRemote = errors.New("drive: provider error")
)

// Error wraps a provider failure with its HTTP status and the reason
// code Google attaches to the first error detail.
type Error struct {
	StatusCode int
	Reason     string
	Message    string
	Err        error
}

func (e *Error) Error() string {
	return fmt.Sprintf("drive: %s (status %d, reason %q)", e.Message, e.StatusCode, e.Reason)
}

func (e *Error) Unwrap() error { return e.Err }

type apiErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
		Errors  []struct {
			Reason  string `json:"reason"`
			Message string `json:"message"`
		} `json:"errors"`
	} `json:"error"`
}

func classify(statusCode int, body []byte) *Error {
	var parsed apiErrorBody
	_ = json.Unmarshal(body, &parsed)

	reason := ""
	if len(parsed.Error.Errors) > 0 {
		reason = parsed.Error.Errors[0].Reason
	}
	message := parsed.Error.Message
	if message == "" {
		message = strings.TrimSpace(string(body))
	}

	e := &Error{StatusCode: statusCode, Reason: reason, Message: message}
	switch {
	case apiDisabled(statusCode, reason, message):
		e.Err = ErrAPIDisabled
	case statusCode == 401:
		e.Err = ErrUnauthorized
	case statusCode == 404:
		e.Err = ErrNotFound
	case statusCode == 403:
		e.Err = ErrPermission
	default:
		e.Err = ErrRemote
	}
	return e
}

// apiDisabled spots the project-level "Drive API not enabled" 403.
func apiDisabled(statusCode int, reason, message string) bool {
	if statusCode != 403 {
		return false
	}
	if reason == "accessNotConfigured" {
		return true
	}
	lower := strings.ToLower(message)
	return strings.Contains(lower, "has not been used in project") ||
		strings.Contains(lower, "it is disabled")
}

// permissionExists spots Google's duplicate link-share grant rejection,
// which the adapter treats as success.
func permissionExists(err error) bool {
	var de *Error
	if !errors.As(err, &de) {
		return false
	}
	if de.Reason == "duplicate" {
		return true
	}
	return strings.Contains(strings.ToLower(de.Message), "permission already exists")
}
