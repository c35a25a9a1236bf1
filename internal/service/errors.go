package service

import "errors"

// Typed errors returned by the services. The conversation engine and the
// admin handlers branch on these to tell invalid-state failures apart from
// dependency failures.
var (
	// ErrPendingAppealExists is returned when a user who already holds a
	// PENDING appeal tries to open another one.
	ErrPendingAppealExists = errors.New("user already has a pending appeal")

	// ErrAppealProcessed is returned when an admin acts on an appeal that
	// has already been accepted or rejected.
	ErrAppealProcessed = errors.New("appeal has already been processed")

	// ErrFeedbackExists is returned when a feedback form already exists for
	// the session.
	ErrFeedbackExists = errors.New("feedback form already exists for this session")

	// ErrInvalidStatus is returned when an admin submits a status value
	// outside the entity's enumeration.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrInvalidCredentials is returned when an admin login fails. It hides
	// whether the email or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
