package service

import "errors"

// Not-found errors: the referenced entity does not exist. Surfaced to the
// caller as-is; retrying will not help.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrProfileNotFound = errors.New("profile not found, complete onboarding first")
	ErrMatchNotFound   = errors.New("match not found")
)

// Validation errors: rejected before any write; the caller must re-prompt.
var (
	ErrProfileIncomplete = errors.New("profile is not complete")
	ErrInvalidAgeRange   = errors.New("minimum age must not exceed maximum age")
	ErrInvalidDistance   = errors.New("distance radius must be positive")
	ErrUnderage          = errors.New("users must be at least 18 years old")
	ErrInvalidAction     = errors.New("invalid swipe action")
	ErrSelfSwipe         = errors.New("cannot swipe on yourself")
	ErrEmptyMessage      = errors.New("message text must not be empty")
	ErrNotMatchMember    = errors.New("sender and receiver must be the two members of the match")
)

// Auth errors
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrGoogleAccount      = errors.New("this account uses Google login")
)

// NotFound reports whether err is one of the not-found sentinels.
func NotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrProfileNotFound) ||
		errors.Is(err, ErrMatchNotFound)
}

// Validation reports whether err is one of the validation sentinels.
func Validation(err error) bool {
	for _, e := range []error{
		ErrProfileIncomplete, ErrInvalidAgeRange, ErrInvalidDistance,
		ErrUnderage, ErrInvalidAction, ErrSelfSwipe, ErrEmptyMessage,
		ErrNotMatchMember,
	} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
