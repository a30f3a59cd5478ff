package bizerror

import (
	"errors"
	"net/http"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")

	ErrInvalidPassword = errors.New("invalid password")
	ErrAccountBlocked  = errors.New("account blocked")
	ErrEmailRegistered = errors.New("email already registered")

	ErrUnknownState          = errors.New("unknown state")
	ErrStateConflict         = errors.New("state conflict")
	ErrApplicationDuplicated = errors.New("application duplicated")
	ErrInsufficientCapacity  = errors.New("insufficient capacity")
	ErrProjectInUse          = errors.New("project has pending applications or orders")

	ErrInvalidImage  = errors.New("only JPG and PNG images are allowed")
	ErrImageTooLarge = errors.New("image size exceeds the limit")
)

type BizError interface {
	Respond() *BizErrorDetail
}

type BizErrorDetail struct {
	Status  int
	Code    string
	Message string
	Data    interface{}
	Cause   error
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
	return &BizErrorDetail{Status: http.StatusBadRequest, Code: "common.bad_param", Message: message, Data: nil}
}

// BadParam wraps a validation failure message
func BadParam(message string) error {
	return &ErrBadParam{Cause: errors.New(message)}
}
