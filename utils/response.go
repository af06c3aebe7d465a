package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	"pastillero-service/errs"

	"github.com/gin-gonic/gin"
)

// Response is the envelope every JSON endpoint answers with.
type Response struct {
	Success      bool            `json:"success"`
	Message      string          `json:"message,omitempty"`
	Data         interface{}     `json:"data,omitempty"`
	DeletedCount *int64          `json:"deletedCount,omitempty"`
	Error        string          `json:"error,omitempty"`
	Details      string          `json:"details,omitempty"`
	Received     json.RawMessage `json:"received,omitempty"`
}

// SuccessResponse sends a success response
func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// SuccessMessageResponse sends a success response with a message
func SuccessMessageResponse(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// DeletedResponse reports how many records a bulk delete removed
func DeletedResponse(c *gin.Context, message string, deleted int64) {
	c.JSON(http.StatusOK, Response{
		Success:      true,
		Message:      message,
		DeletedCount: &deleted,
	})
}

// ErrorResponse sends an error response
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Error:   message,
	})
}

// BadRequestResponse sends a 400 error response
func BadRequestResponse(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusBadRequest, message)
}

// ValidationErrorResponse sends a 400 echoing what the client sent.
// received is left out when it is not valid JSON.
func ValidationErrorResponse(c *gin.Context, message string, received []byte) {
	resp := Response{
		Success: false,
		Error:   message,
	}
	if len(received) > 0 && json.Valid(received) {
		resp.Received = json.RawMessage(received)
	}
	c.JSON(http.StatusBadRequest, resp)
}

// NotFoundResponse sends a 404 error response
func NotFoundResponse(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusNotFound, message)
}

// InternalErrorResponse sends a 500 error response
func InternalErrorResponse(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusInternalServerError, message)
}

// FailureResponse converts err into the envelope, using the status of its
// errs.Kind. Unclassified errors are 500s. details is optional.
func FailureResponse(c *gin.Context, err error, details string) {
	status := http.StatusInternalServerError
	message := err.Error()

	var appErr *errs.Error
	if errors.As(err, &appErr) {
		status = appErr.Status()
		message = appErr.Public()
	}

	c.JSON(status, Response{
		Success: false,
		Error:   message,
		Details: details,
	})
}
