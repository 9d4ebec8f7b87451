package errors

import "errors"

var (
	// ErrConfiguration is returned when the service is misconfigured,
	// e.g. the subscriptions table is missing at startup
	ErrConfiguration = errors.New("invalid configuration")

	// ErrPersistence is returned when a store operation fails
	ErrPersistence = errors.New("store operation failed")

	// ErrAlreadyExists is returned when a row with the same provider
	// subscription identifier already exists
	ErrAlreadyExists = errors.New("subscription already exists")

	// ErrRemoteRegistration is returned when the notification provider
	// rejected a registration or was unreachable
	ErrRemoteRegistration = errors.New("remote registration failed")

	// ErrNotFound is returned when no row matches the given provider
	// subscription identifier
	ErrNotFound = errors.New("subscription not found")

	// ErrInconsistency is returned when the provider and the store have
	// diverged and require manual reconciliation. It must never be
	// silently swallowed.
	ErrInconsistency = errors.New("store and provider state diverged")

	// ErrInvalidDomain is returned when the domain is empty
	ErrInvalidDomain = errors.New("domain must not be empty")

	// ErrInvalidModel is returned when the model is empty
	ErrInvalidModel = errors.New("model must not be empty")

	// ErrInvalidExpiry is returned when the expiry is missing or not an
	// absolute timestamp
	ErrInvalidExpiry = errors.New("expiry must be a valid absolute timestamp")
)
