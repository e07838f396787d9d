package bizerror

import (
	"errors"
	"net/http"
)

var ErrUnauthenticated = errors.New("unauthenticated")
var ErrForbidden = errors.New("forbidden")
var ErrNotFound = errors.New("record not found")
var ErrTooManyRequests = errors.New("request rate limited")

var ErrInvalidPassword = errors.New("invalid password")
var ErrAccountExisted = errors.New("account existed")
var ErrUnknownRole = errors.New("unknown role")

var ErrProjectNotPayable = errors.New("project is not payable")
var ErrApprovalOutOfOrder = errors.New("approval out of order")
var ErrApprovalConflict = errors.New("approval state changed concurrently")
var ErrUnknownPaymentMethod = errors.New("unknown payment method")
var ErrInvalidStateTransition = errors.New("invalid state transition")
var ErrUnknownState = errors.New("unknown state")

var ErrAlreadyClockedIn = errors.New("already clocked in")
var ErrNotClockedIn = errors.New("not clocked in")

type BizError interface {
	Respond() *BizErrorDetail
}

type BizErrorDetail struct {
	Status  int
	Code    string
	Message string

	Data  interface{}
	Cause error
}

type ErrBadParam struct {
	Cause error
}

func (e *ErrBadParam) Unwrap() error {
	return e.Cause
}
func (e *ErrBadParam) Error() string {
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return "common.bad_param"
}
func (e *ErrBadParam) Respond() *BizErrorDetail {
	message := "common.bad_param"
	if e.Cause != nil {
		message = e.Cause.Error()
	}
	return &BizErrorDetail{Status: http.StatusBadRequest, Code: "common.bad_param", Message: message}
}

// ErrInvalidPaymentDetail reports which field of a payment-method form
// failed validation. No request is applied when this is returned.
type ErrInvalidPaymentDetail struct {
	Method string
	Field  string
	Reason string
}

func (e *ErrInvalidPaymentDetail) Error() string {
	return "invalid " + e.Method + " detail: " + e.Field + " " + e.Reason
}
func (e *ErrInvalidPaymentDetail) Respond() *BizErrorDetail {
	return &BizErrorDetail{Status: http.StatusBadRequest, Code: "payment.invalid_detail", Message: e.Error()}
}
