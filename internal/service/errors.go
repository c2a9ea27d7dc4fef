package service

import "errors"

var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrAuthenticationRequired = errors.New("authentication credentials were not provided")
	ErrAuthenticationFailed   = errors.New("authentication failed")
	ErrPermissionDenied       = errors.New("permission denied")
	ErrTweetNotFound          = errors.New("tweet not found")
	ErrCommentNotFound        = errors.New("comment not found")
	ErrRegistrationFailed     = errors.New("registration failed: a user with that username already exists")
	ErrInternalServer         = errors.New("internal server error")
)
