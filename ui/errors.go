package ui

import (
	"context"
	"errors"
	"net/http"

	"cardiodash/internal/ingest"

	apperrors "cardiodash/internal/errors"

	"github.com/gin-gonic/gin"
)

var statusByCode = map[string]int{
	apperrors.CodeParseError:      http.StatusUnprocessableEntity,
	apperrors.CodeNotFound:        http.StatusNotFound,
	apperrors.CodeExternalService: http.StatusBadGateway,
	apperrors.CodeTooLarge:        http.StatusRequestEntityTooLarge,
	apperrors.CodeInvalidInput:    http.StatusBadRequest,
	apperrors.CodeValidationError: http.StatusBadRequest,
	apperrors.CodeStaleLoad:       http.StatusConflict,
}

// errorCode classifies err by its AppError code, falling back to the domain sentinels
func errorCode(err error) string {
	if apperrors.IsAppError(err) {
		return apperrors.GetCode(err)
	}
	return apperrors.FromDomain(err)
}

// respondError writes {"error", "code", "detail"} and, for parse failures, the
// rejection tally
func (s *Server) respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	code := errorCode(err)
	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		status = http.StatusGatewayTimeout
	}

	msg := apperrors.Message(err)
	body := gin.H{"error": msg, "code": code}
	if detail := err.Error(); detail != msg {
		body["detail"] = detail
	}
	var pe *ingest.ParseError
	if errors.As(err, &pe) {
		body["reason"] = pe.Reason
		body["rows"] = pe.Rows
		body["rejected"] = pe.Rejected
	}
	c.JSON(status, body)
}

func (s *Server) badRequest(c *gin.Context, err error) {
	s.respondError(c, apperrors.WithCode(apperrors.CodeInvalidInput, err))
}
