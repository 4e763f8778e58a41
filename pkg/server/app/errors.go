/* Copyright 2025 Lyricsmith Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package app

import (
	"fmt"
)

// Kind classifies an error by how it is reported to clients
type Kind int

const (
	// KindInternal is an unexpected failure
	KindInternal Kind = iota
	// KindUnauthenticated is a missing or invalid identity
	KindUnauthenticated
	// KindUnauthorized is a role or ownership mismatch
	KindUnauthorized
	// KindNotFound is a missing resource
	KindNotFound
	// KindConflict is a uniqueness violation
	KindConflict
	// KindQuotaExceeded is a daily generation cap reached
	KindQuotaExceeded
	// KindGenerationFailed is a failed call to the lyrics service
	KindGenerationFailed
	// KindValidationFailed is a malformed request
	KindValidationFailed
	// KindInvalidOrExpiredToken is an unknown or expired single use token
	KindInvalidOrExpiredToken
)

// Error is an error whose message is safe to show to clients
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func validationError(format string, a ...interface{}) *Error {
	return &Error{Kind: KindValidationFailed, Message: fmt.Sprintf(format, a...)}
}

var (
	// ErrUnauthenticated is returned when no valid identity is present
	ErrUnauthenticated = &Error{KindUnauthenticated, "Unauthorized"}
	// ErrUnauthorized is returned when the principal may not perform the action
	ErrUnauthorized = &Error{KindUnauthorized, "You do not have permission to perform this action"}
	// ErrNotFound is returned when a resource does not exist
	ErrNotFound = &Error{KindNotFound, "Not found"}
	// ErrSongNotFound is returned when a song does not exist
	ErrSongNotFound = &Error{KindNotFound, "Song not found"}
	// ErrCommentNotFound is returned when a comment does not exist
	ErrCommentNotFound = &Error{KindNotFound, "Comment not found"}
	// ErrUserNotFound is returned when a user does not exist
	ErrUserNotFound = &Error{KindNotFound, "User not found"}
	// ErrDuplicateEmail is returned when registering a taken email
	ErrDuplicateEmail = &Error{KindConflict, "This email is already registered"}
	// ErrQuotaExceeded is returned when the daily generation limit is reached
	ErrQuotaExceeded = &Error{KindQuotaExceeded, fmt.Sprintf("You reached a daily limit of %d songs.", DailySongQuota)}
	// ErrGenerationFailed is returned when the lyrics could not be generated
	ErrGenerationFailed = &Error{KindGenerationFailed, "Could not get a response from the lyrics service"}
	// ErrInvalidOrExpiredToken is returned for unknown or expired verification and reset tokens
	ErrInvalidOrExpiredToken = &Error{KindInvalidOrExpiredToken, "Invalid or expired link"}

	// ErrLoginUserNotFound is returned when logging in with an unknown email
	ErrLoginUserNotFound = &Error{KindUnauthenticated, "User not found"}
	// ErrLoginNotVerified is returned when logging in before verifying the email
	ErrLoginNotVerified = &Error{KindUnauthenticated, "Email not verified. Please check your inbox."}
	// ErrLoginNoPassword is returned when an identity provider account uses the password path
	ErrLoginNoPassword = &Error{KindUnauthenticated, "This account can only sign in with Google"}
	// ErrLoginInvalid is returned for a wrong password
	ErrLoginInvalid = &Error{KindUnauthenticated, "Wrong password"}

	// ErrEmailRequired is returned when an email is missing
	ErrEmailRequired = validationError("email is required")
	// ErrUsernameRequired is returned when a username is missing
	ErrUsernameRequired = validationError("username is required")
	// ErrPasswordTooShort is returned when a password is too short
	ErrPasswordTooShort = validationError("password must be at least %d characters", MinPasswordLength)
	// ErrEmailNotRegistered is returned when requesting a reset for an unknown email
	ErrEmailNotRegistered = validationError("This email address is not registered")
	// ErrCommentTextRequired is returned when a comment has no text
	ErrCommentTextRequired = validationError("text is required")
	// ErrPasswordConfirmationMismatch is returned when the password confirmation does not match
	ErrPasswordConfirmationMismatch = validationError("password confirmation does not match")
	// ErrInvalidRequest is returned for a body or query that cannot be decoded
	ErrInvalidRequest = validationError("invalid request")
)
