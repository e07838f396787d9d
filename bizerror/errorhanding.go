package bizerror

import (
	"encoding/json"
	"errors"
	"fieldflow/misc"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jinzhu/gorm"
	"github.com/sirupsen/logrus"
)

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
			err = errors.New(fmt.Sprintf("%s", ret))
		}
		HandleError(c, err)
	} else {
		if err := c.Errors.Last(); err != nil {
			HandleError(c, err)
		}
	}
}

func HandleError(c *gin.Context, err error) {
	logrus.Error(err)

	genericErr := err
	var ginErr *gin.Error
	if errors.As(err, &ginErr) {
		genericErr = ginErr.Err
	}

	if bizErr, ok := genericErr.(BizError); ok {
		respond := bizErr.Respond()
		c.JSON(respond.Status, &misc.Envelope{Status: respond.Code, Error: respond.Message})
		c.Abort()
		return
	}

	// bad request: io.EOF (no body)
	if errors.Is(genericErr, io.EOF) {
		c.JSON(http.StatusBadRequest, &misc.Envelope{Status: "bad_request.body_not_found", Error: "body not found"})
		c.Abort()
		return
	}
	// bad request: json syntax error
	if syntaxErr, ok := genericErr.(*json.SyntaxError); ok {
		c.JSON(http.StatusBadRequest, &misc.Envelope{Status: "bad_request.invalid_body_format", Error: syntaxErr.Error()})
		c.Abort()
		return
	}
	// validation failed
	if validationErr, ok := genericErr.(validator.ValidationErrors); ok {
		c.JSON(http.StatusBadRequest, &misc.Envelope{Status: "bad_request.validation_failed", Error: validationErr.Error()})
		c.Abort()
		return
	}

	if errors.Is(genericErr, ErrUnauthenticated) {
		c.JSON(http.StatusUnauthorized, &misc.Envelope{Status: "common.unauthenticated", Error: "unauthenticated"})
		c.Abort()
		return
	}
	if errors.Is(genericErr, ErrForbidden) {
		c.JSON(http.StatusForbidden, &misc.Envelope{Status: "security.forbidden", Error: "access forbidden"})
		c.Abort()
		return
	}
	if errors.Is(genericErr, ErrTooManyRequests) {
		c.JSON(http.StatusTooManyRequests, &misc.Envelope{Status: "common.rate_limited", Error: "request rate limited"})
		c.Abort()
		return
	}
	if errors.Is(genericErr, ErrInvalidPassword) {
		c.JSON(http.StatusUnauthorized, &misc.Envelope{Status: "account.invalid_credential", Error: "invalid name or password"})
		c.Abort()
		return
	}
	if errors.Is(genericErr, ErrAccountExisted) {
		c.JSON(http.StatusConflict, &misc.Envelope{Status: "account.existed", Error: "account existed"})
		c.Abort()
		return
	}
	if errors.Is(genericErr, ErrUnknownRole) {
		c.JSON(http.StatusBadRequest, &misc.Envelope{Status: "account.unknown_role", Error: "unknown role"})
		c.Abort()
		return
	}
	if errors.Is(genericErr, ErrProjectNotPayable) {
		c.JSON(http.StatusConflict, &misc.Envelope{Status: "payment.project_not_payable", Error: "project is not completed and approved"})
		c.Abort()
		return
	}
	if errors.Is(genericErr, ErrApprovalOutOfOrder) {
		c.JSON(http.StatusConflict, &misc.Envelope{Status: "payment.approval_out_of_order", Error: "first level approval has not been given"})
		c.Abort()
		return
	}
	if errors.Is(genericErr, ErrApprovalConflict) {
		c.JSON(http.StatusConflict, &misc.Envelope{Status: "payment.approval_conflict", Error: "approval state changed concurrently"})
		c.Abort()
		return
	}
	if errors.Is(genericErr, ErrUnknownPaymentMethod) {
		c.JSON(http.StatusBadRequest, &misc.Envelope{Status: "payment.unknown_method", Error: "unknown payment method"})
		c.Abort()
		return
	}
	if errors.Is(genericErr, ErrInvalidStateTransition) {
		c.JSON(http.StatusConflict, &misc.Envelope{Status: "project.invalid_state_transition", Error: "invalid state transition"})
		c.Abort()
		return
	}
	if errors.Is(genericErr, ErrUnknownState) {
		c.JSON(http.StatusBadRequest, &misc.Envelope{Status: "project.unknown_state", Error: "unknown state"})
		c.Abort()
		return
	}
	if errors.Is(genericErr, ErrAlreadyClockedIn) {
		c.JSON(http.StatusConflict, &misc.Envelope{Status: "attendance.already_clocked_in", Error: "already clocked in for this project today"})
		c.Abort()
		return
	}
	if errors.Is(genericErr, ErrNotClockedIn) {
		c.JSON(http.StatusConflict, &misc.Envelope{Status: "attendance.not_clocked_in", Error: "no open attendance record for this project"})
		c.Abort()
		return
	}
	if errors.Is(genericErr, gorm.ErrRecordNotFound) || errors.Is(genericErr, ErrNotFound) {
		c.JSON(http.StatusNotFound, &misc.Envelope{Status: "common.record_not_found", Error: "record not found"})
		c.Abort()
		return
	}

	c.JSON(http.StatusInternalServerError, &misc.Envelope{Status: "common.internal_server_error", Error: err.Error()})
	c.Abort()
}
