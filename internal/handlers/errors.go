package handlers

import (
	"errors"
	"net/http"
	"strings"

	dom "taskflow/internal/domain"
	"taskflow/internal/dto"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// statusFor is the only place a failure kind becomes an HTTP status.
func statusFor(k dom.Kind) int {
	switch k {
	case dom.KindInvalidInput:
		return http.StatusBadRequest
	case dom.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (h *TaskHandler) writeError(c *gin.Context, err error) {
	e := dom.AsError(err, "request failed")
	if e.Kind == dom.KindDatabase {
		h.log.WithError(e.Err).WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.FullPath(),
			"request_id": c.GetString(RequestIDKey),
		}).Error(e.Detail)
	}
	c.AbortWithStatusJSON(statusFor(e.Kind), dto.ErrorResponse{Status: "error", Error: e.Error()})
}

// bindError turns a JSON binding failure into an InvalidInput naming the violated rule.
func bindError(err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return dom.InvalidInput("malformed JSON body")
	}
	fe := ve[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return dom.InvalidInput(field + " is required")
	case "max":
		return dom.InvalidInput(field + " must be at most " + fe.Param() + " characters")
	default:
		return dom.InvalidInput(field + " is invalid")
	}
}
