package errors

import "fmt"

// NoActiveGroup is returned when a selection edit is attempted without an active group
func NoActiveGroup() *Error {
	return New(ErrCodeNoActiveGroup, "select an infrastructure group first")
}

// UnknownItem is returned when an item id is not rendered in its category
func UnknownItem(category string, id int) *Error {
	return New(ErrCodeUnknownItem, fmt.Sprintf("no %s item with id %d", category, id)).
		WithDetail("category", category).
		WithDetail("id", id)
}

// Network wraps a failed backend call
func Network(op string, err error) *Error {
	return Wrap(err, ErrCodeNetwork, fmt.Sprintf("%s failed", op)).
		WithDetail("op", op)
}

// MalformedRemoteData describes a backend field that could not be understood
func MalformedRemoteData(field string, raw string) *Error {
	return New(ErrCodeMalformedRemoteData, fmt.Sprintf("malformed value for %s", field)).
		WithDetail("field", field).
		WithDetail("raw", raw)
}

// NotImplemented is returned when the backend answers 501
func NotImplemented(feature string) *Error {
	return New(ErrCodeNotImplemented, fmt.Sprintf("%s is not implemented by the server", feature)).
		WithDetail("feature", feature)
}

// RunBlocked is returned when a simulation is requested without a group and a scenario
func RunBlocked() *Error {
	return New(ErrCodeRunBlocked, "select a scenario and an infrastructure group first")
}

// InvalidInput describes rejected user input
func InvalidInput(reason string) *Error {
	return New(ErrCodeInvalidInput, reason)
}

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *Error {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *Error {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}
