package bizerror

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"construxflow/misc"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jinzhu/gorm"
	"github.com/sirupsen/logrus"
)

type sentinelResponse struct {
	err     error
	status  int
	code    string
	message string
}

var sentinelResponses = []sentinelResponse{
	{ErrUnauthenticated, http.StatusUnauthorized, "common.unauthenticated", "unauthenticated"},
	{ErrForbidden, http.StatusForbidden, "security.forbidden", "access forbidden"},
	{ErrInvalidPassword, http.StatusUnauthorized, "account.invalid_password", "invalid password"},
	{ErrAccountBlocked, http.StatusForbidden, "account.blocked", "account has been blocked"},
	{ErrEmailRegistered, http.StatusConflict, "account.email_registered", "email already registered"},
	{ErrUnknownState, http.StatusBadRequest, "workflow.unknown_state", "unknown state"},
	{ErrStateConflict, http.StatusConflict, "workflow.state_conflict", "state has been changed"},
	{ErrApplicationDuplicated, http.StatusConflict, "application.duplicated", "already applied to this project"},
	{ErrInsufficientCapacity, http.StatusConflict, "ledger.insufficient_capacity", "insufficient capacity"},
	{ErrProjectInUse, http.StatusConflict, "project.pending_decisions", "project has pending applications or orders"},
	{ErrInvalidImage, http.StatusBadRequest, "profile.invalid_image", "only JPG and PNG images are allowed"},
	{ErrImageTooLarge, http.StatusBadRequest, "profile.image_too_large", "image size exceeds the limit"},
}

func ErrorHandling() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handle(c)
		c.Next()
	}
}

func handle(c *gin.Context) {
	if ret := recover(); ret != nil {
		err, ok := ret.(error)
		if !ok {
			err = fmt.Errorf("%v", ret)
		}
		HandleError(c, err)
	} else {
		if err := c.Errors.Last(); err != nil {
			HandleError(c, err)
		}
	}
}

func HandleError(c *gin.Context, err error) {
	genericErr := err
	var ginErr *gin.Error
	if errors.As(err, &ginErr) {
		genericErr = ginErr.Err
	}

	status, body := Render(genericErr)
	if status >= http.StatusInternalServerError {
		logrus.Error(err)
	} else {
		logrus.Info(err)
	}
	c.JSON(status, body)
	c.Abort()
}

// Render maps an error onto its http status and response body
func Render(err error) (int, *misc.ErrorBody) {
	var bizErr BizError
	if errors.As(err, &bizErr) {
		respond := bizErr.Respond()
		return respond.Status, &misc.ErrorBody{Code: respond.Code, Message: respond.Message, Data: respond.Data}
	}

	// bad request: io.EOF (no body).
	if errors.Is(err, io.EOF) {
		return http.StatusBadRequest, &misc.ErrorBody{Code: "common.bad_param", Message: "EOF"}
	}
	// bad request: json syntax Error
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return http.StatusBadRequest, &misc.ErrorBody{Code: "common.bad_param", Message: syntaxErr.Error()}
	}
	// validation failed
	var validationErr validator.ValidationErrors
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, &misc.ErrorBody{Code: "common.bad_param", Message: validationErr.Error()}
	}

	for _, r := range sentinelResponses {
		if errors.Is(err, r.err) {
			return r.status, &misc.ErrorBody{Code: r.code, Message: r.message}
		}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, ErrNotFound) {
		return http.StatusNotFound, &misc.ErrorBody{Code: "common.record_not_found", Message: "record not found"}
	}

	return http.StatusInternalServerError, &misc.ErrorBody{Code: "common.internal_server_error", Message: err.Error()}
}
