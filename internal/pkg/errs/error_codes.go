/*
Package errs provides custom error types and application-level error code constants.

These codes identify business and system failures both inside the server and in
responses and realtime envelopes sent to clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body is not valid JSON.
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates extra content after the JSON document.
	ErrExtraContentInBody = 1004
)

// 2xxx: Channel and Message Errors
const (
	// ErrChannelNotFound indicates that the requested channel does not exist.
	ErrChannelNotFound = 2101

	// ErrChannelForbidden indicates that the user may not join or read the channel.
	ErrChannelForbidden = 2102

	// ErrChannelExists indicates a channel with the same name and visibility already exists.
	ErrChannelExists = 2103

	// ErrMessageNotFound indicates that the requested message does not exist.
	ErrMessageNotFound = 2201

	// ErrMessageEmpty indicates that the message content is empty after trimming.
	ErrMessageEmpty = 2202

	// ErrMessageContentTooLong indicates that the message content exceeded the limit.
	ErrMessageContentTooLong = 2203

	// ErrMessageNotStored indicates that the message could not be persisted.
	ErrMessageNotStored = 2204

	// ErrHistoryUnavailable indicates that channel history could not be loaded.
	ErrHistoryUnavailable = 2205

	// ErrCannotDMSelf indicates an attempt to open a direct channel with oneself.
	ErrCannotDMSelf = 2301
)

// 3xxx: User, Session, and Security Errors
const (
	// ErrUnauthorized indicates a missing, invalid, expired or revoked credential.
	ErrUnauthorized = 3001

	// ErrForbidden indicates that the authenticated user lacks the required role.
	ErrForbidden = 3002

	// ErrInvalidEmail indicates that the email does not pass validation.
	ErrInvalidEmail = 3003

	// ErrInvalidPassword indicates that the password does not meet the length policy.
	ErrInvalidPassword = 3004

	// ErrUserAlreadyExists indicates that the email is already registered.
	ErrUserAlreadyExists = 3005

	// ErrInvalidCredentials indicates an email/password mismatch.
	ErrInvalidCredentials = 3006

	// ErrUserNotFound indicates that the referenced user does not exist.
	ErrUserNotFound = 3007

	// ErrRoleNotFound indicates that the referenced role does not exist.
	ErrRoleNotFound = 3008

	// ErrRoleExists indicates that a role with the same name already exists.
	ErrRoleExists = 3009
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified internal server error.
	ErrUnknown = 5000
)
