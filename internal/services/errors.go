package services

import "errors"

// Common service errors
var (
	ErrNotFound     = errors.New("record not found")
	ErrUnauthorized = errors.New("not authorized")
	ErrInvalidState = errors.New("invalid state transition")
	ErrDuplicate    = errors.New("duplicate record")
	ErrBillInvoiced = errors.New("bill already has an invoice generated against it")
)
