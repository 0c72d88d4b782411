package service

import "errors"

var (
	ErrInvalidForm        = errors.New("invalid registration form")
	ErrDuplicateDocument  = errors.New("document number is already registered")
	ErrAlreadyVerified    = errors.New("voter is already verified")
	ErrRegistrationClosed = errors.New("registration is not open")
	ErrNotConnected       = errors.New("provider is not connected")
	ErrNoAccount          = errors.New("no account available")
	ErrNotReflected       = errors.New("registration not reflected on ledger")
	ErrWorkerStopped      = errors.New("sync worker stopped")
)
