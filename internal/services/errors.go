package services

import "errors"

// Sentinel errors returned by the services. Handlers map them onto HTTP
// status codes with errors.Is; the messages double as the response bodies.
var (
	ErrRecipientNotFound = errors.New("recipient not found")
	ErrSelfRequest       = errors.New("cannot send swap request to yourself")
	ErrDuplicateRequest  = errors.New("pending request already exists for this skill")
	ErrSwapNotFound      = errors.New("swap request not found")
	ErrNotAuthorized     = errors.New("not authorized to update this request")
	ErrInvalidStatus     = errors.New("status must be accepted or rejected")
	ErrNotPending        = errors.New("can only respond to pending requests")
	ErrDeleteNotPending  = errors.New("can only delete pending requests")
	ErrNotAccepted       = errors.New("can only complete accepted requests")
	ErrSwapNotCompleted  = errors.New("invalid or incomplete swap request")
	ErrFeedbackExists    = errors.New("feedback already submitted for this swap")
	ErrUserNotFound      = errors.New("user not found")
)
