package domain

import "fmt"

// DomainError represents a business rule violation tagged with one of the
// system's error codes (see the Code constants below).
type DomainError struct {
	Code    string
	Message string
	Cause   error
}

func (e DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e DomainError) Unwrap() error { return e.Cause }

func NewDomainError(code, message string, cause error) DomainError {
	return DomainError{Code: code, Message: message, Cause: cause}
}

// Error code taxonomy shared across domain and application layers.
const (
	CodeValidationFailed    = "VALIDATION_FAILED"
	CodeAlreadyExists       = "ALREADY_EXISTS"
	CodeNotFound            = "NOT_FOUND"
	CodeNotActive           = "NOT_ACTIVE"
	CodeNoChanges           = "NO_CHANGES"
	CodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	CodePermissionDenied    = "PERMISSION_DENIED"
	CodeFeatureDisabled     = "FEATURE_DISABLED"
	CodeQuotaExceeded       = "QUOTA_EXCEEDED"
	CodeInternal            = "INTERNAL"
)

// ValidationError represents a validation failure for a single field.
type ValidationError struct {
	Field   string
	Message string
	Value   interface{}
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: field '%s': %s", CodeValidationFailed, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", CodeValidationFailed, e.Message)
}

func NewValidationError(field, message string, value interface{}) ValidationError {
	return ValidationError{Field: field, Message: message, Value: value}
}

// ConcurrencyError represents an optimistic concurrency violation: the
// aggregate's version changed between load and save.
type ConcurrencyError struct {
	AggregateID string
	Expected    int64
	Actual      int64
}

func (e ConcurrencyError) Error() string {
	return fmt.Sprintf("%s: aggregate '%s': expected version %d, got %d",
		CodeConcurrencyConflict, e.AggregateID, e.Expected, e.Actual)
}

func NewConcurrencyError(aggregateID string, expected, actual int64) ConcurrencyError {
	return ConcurrencyError{AggregateID: aggregateID, Expected: expected, Actual: actual}
}

// NotFoundError indicates no aggregate or read-model row matched the lookup.
type NotFoundError struct {
	AggregateType string
	ID            string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s '%s' not found", CodeNotFound, e.AggregateType, e.ID)
}

func NewNotFoundError(aggregateType, id string) NotFoundError {
	return NotFoundError{AggregateType: aggregateType, ID: id}
}

// AlreadyExistsError indicates a uniqueness constraint (ID or natural key)
// was violated.
type AlreadyExistsError struct {
	AggregateType string
	Key           string
}

func (e AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s: %s '%s' already exists", CodeAlreadyExists, e.AggregateType, e.Key)
}

func NewAlreadyExistsError(aggregateType, key string) AlreadyExistsError {
	return AlreadyExistsError{AggregateType: aggregateType, Key: key}
}

// NotActiveError indicates a mutating command targeted an aggregate that is
// not in StateActive.
type NotActiveError struct {
	AggregateType string
	ID            string
	State         AggregateState
}

func (e NotActiveError) Error() string {
	return fmt.Sprintf("%s: %s '%s' is %s, not active", CodeNotActive, e.AggregateType, e.ID, e.State)
}

func NewNotActiveError(aggregateType, id string, state AggregateState) NotActiveError {
	return NotActiveError{AggregateType: aggregateType, ID: id, State: state}
}

// NoChangesError indicates a command would have produced no observable
// state change and was rejected instead of emitting a no-op event.
type NoChangesError struct {
	AggregateType string
	ID            string
}

func (e NoChangesError) Error() string {
	return fmt.Sprintf("%s: %s '%s' unchanged", CodeNoChanges, e.AggregateType, e.ID)
}

func NewNoChangesError(aggregateType, id string) NoChangesError {
	return NoChangesError{AggregateType: aggregateType, ID: id}
}

// PermissionDeniedError indicates the authorization context lacked the
// required instance permission or IAM membership.
type PermissionDeniedError struct {
	Subject    string
	Permission string
}

func (e PermissionDeniedError) Error() string {
	return fmt.Sprintf("%s: subject '%s' lacks permission '%s'", CodePermissionDenied, e.Subject, e.Permission)
}

func NewPermissionDeniedError(subject, permission string) PermissionDeniedError {
	return PermissionDeniedError{Subject: subject, Permission: permission}
}

// FeatureDisabledError indicates the instance's feature set does not
// include the feature a command requires.
type FeatureDisabledError struct {
	Feature string
}

func (e FeatureDisabledError) Error() string {
	return fmt.Sprintf("%s: feature '%s' is disabled for this instance", CodeFeatureDisabled, e.Feature)
}

func NewFeatureDisabledError(feature string) FeatureDisabledError {
	return FeatureDisabledError{Feature: feature}
}

// QuotaExceededError indicates a command would push a counted resource
// past its instance quota.
type QuotaExceededError struct {
	Resource string
	Limit    int64
}

func (e QuotaExceededError) Error() string {
	return fmt.Sprintf("%s: quota for '%s' (limit %d) exceeded", CodeQuotaExceeded, e.Resource, e.Limit)
}

func NewQuotaExceededError(resource string, limit int64) QuotaExceededError {
	return QuotaExceededError{Resource: resource, Limit: limit}
}
