/*
Package errs provides custom error types and application-level error code constants.

This file maps every error code to its CustomError template: the user-facing message,
the HTTP status used by REST handlers and the close code used when a realtime
connection is rejected.
*/
package errs

import (
	"net/http"

	"github.com/gorilla/websocket"
)

var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:        {Code: ErrInvalidParams, Message: "Invalid request parameters.", Status: http.StatusBadRequest},
	ErrUnsupportedMediaType: {Code: ErrUnsupportedMediaType, Message: "Unsupported request format.", Status: http.StatusUnsupportedMediaType},
	ErrInvalidJSONFormat:    {Code: ErrInvalidJSONFormat, Message: "Unsupported request format.", Status: http.StatusBadRequest},
	ErrExtraContentInBody:   {Code: ErrExtraContentInBody, Message: "Request contains unexpected data.", Status: http.StatusBadRequest},

	// 2xxx: Channel and Message Errors
	ErrChannelNotFound:       {Code: ErrChannelNotFound, Message: "Channel not found.", Status: http.StatusNotFound, CloseCode: websocket.CloseUnsupportedData},
	ErrChannelForbidden:      {Code: ErrChannelForbidden, Message: "You are not allowed in this channel.", Status: http.StatusForbidden, CloseCode: websocket.ClosePolicyViolation},
	ErrChannelExists:         {Code: ErrChannelExists, Message: "Channel already exists.", Status: http.StatusConflict},
	ErrMessageNotFound:       {Code: ErrMessageNotFound, Message: "Message not found.", Status: http.StatusNotFound},
	ErrMessageEmpty:          {Code: ErrMessageEmpty, Message: "Message is empty.", Status: http.StatusBadRequest},
	ErrMessageContentTooLong: {Code: ErrMessageContentTooLong, Message: "Message is too long (max %d bytes).", Status: http.StatusBadRequest},
	ErrMessageNotStored:      {Code: ErrMessageNotStored, Message: "Your message could not be saved. Please try again."},
	ErrHistoryUnavailable:    {Code: ErrHistoryUnavailable, Message: "Channel history is unavailable.", CloseCode: websocket.CloseInternalServerErr},
	ErrCannotDMSelf:          {Code: ErrCannotDMSelf, Message: "Cannot open a direct conversation with yourself.", Status: http.StatusBadRequest},

	// 3xxx: User, Session, and Security Errors
	ErrUnauthorized:       {Code: ErrUnauthorized, Message: "Please sign in to continue.", Status: http.StatusUnauthorized, CloseCode: websocket.ClosePolicyViolation},
	ErrForbidden:          {Code: ErrForbidden, Message: "You do not have permission to do this.", Status: http.StatusForbidden, CloseCode: websocket.ClosePolicyViolation},
	ErrInvalidEmail:       {Code: ErrInvalidEmail, Message: "Invalid email address.", Status: http.StatusBadRequest},
	ErrInvalidPassword:    {Code: ErrInvalidPassword, Message: "Password must be between 6 and 72 characters.", Status: http.StatusBadRequest},
	ErrUserAlreadyExists:  {Code: ErrUserAlreadyExists, Message: "Email is already registered.", Status: http.StatusConflict},
	ErrInvalidCredentials: {Code: ErrInvalidCredentials, Message: "Incorrect email or password.", Status: http.StatusUnauthorized},
	ErrUserNotFound:       {Code: ErrUserNotFound, Message: "User not found.", Status: http.StatusNotFound},
	ErrRoleNotFound:       {Code: ErrRoleNotFound, Message: "Role not found.", Status: http.StatusNotFound},
	ErrRoleExists:         {Code: ErrRoleExists, Message: "Role already exists.", Status: http.StatusConflict},

	// 5xxx: Internal System Errors
	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
}
