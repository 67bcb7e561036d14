// Package errs defines the fail-fast error taxonomy of the ledger engine.
// Every precondition violation maps to exactly one sentinel; a rejected
// operation leaves no observable state change behind.
package errs

import "errors"

var (
	ErrNotOperational         = errors.New("contract is not operational")
	ErrNotOwner               = errors.New("caller is not the contract owner")
	ErrNotAuthorizedCaller    = errors.New("caller is not an authorized caller")
	ErrDuplicateAirline       = errors.New("airline address already registered")
	ErrUnknownAirline         = errors.New("airline address is not registered")
	ErrInvalidCallerState     = errors.New("caller lacks the required airline state")
	ErrAlreadyApproved        = errors.New("caller already approved this airline")
	ErrInsufficientStake      = errors.New("payment is below the minimum stake")
	ErrInvalidPayment         = errors.New("payment must be a positive amount")
	ErrExcessPayment          = errors.New("payment exceeds the per-purchase cap")
	ErrAlreadyPurchased       = errors.New("caller already holds insurance on this flight")
	ErrFlightAlreadyProcessed = errors.New("flight status has already been processed")
	ErrNoPositiveCredit       = errors.New("caller has no positive credit balance")
	ErrReentrancyDetected     = errors.New("reentrant call detected during fund transfer")
)
