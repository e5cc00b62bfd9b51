// Package common holds wire types shared by the HTTP API and its clients.
package common

import (
	"github.com/turtacn/AeroOps/pkg/errors"
)

// FieldError is a single request-validation failure.
type FieldError struct {
	Path string `json:"path"`
	Info string `json:"info"`
}

// ErrorDetail carries the stable code plus human-readable text.
type ErrorDetail struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Detail  string       `json:"detail,omitempty"`
	Fields  []FieldError `json:"fields,omitempty"`
}

// ErrorEnvelope is the body of every API failure.
type ErrorEnvelope struct {
	Error ErrorDetail `json:"error"`
}

// NewErrorEnvelope renders ae. An empty message falls back to the code's
// default text.
func NewErrorEnvelope(ae *errors.AppError, fields ...FieldError) ErrorEnvelope {
	msg := ae.Message
	if msg == "" {
		msg = errors.DefaultMessageForCode(ae.Code)
	}
	return ErrorEnvelope{Error: ErrorDetail{
		Code:    string(ae.Code),
		Message: msg,
		Detail:  ae.Detail,
		Fields:  fields,
	}}
}

// AppError rebuilds the server error. ok is false when the envelope carries
// no code, as with bodies written by proxies.
func (e ErrorEnvelope) AppError() (*errors.AppError, bool) {
	if e.Error.Code == "" {
		return nil, false
	}
	return errors.New(errors.ErrorCode(e.Error.Code), e.Error.Message).WithDetail(e.Error.Detail), true
}

//Personal.AI order the ending
