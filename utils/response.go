package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the uniform error envelope for every non-2xx response.
type ErrorBody struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// Success writes data as a 200 response.
func Success(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, data)
}

// Created writes data as a 201 response.
func Created(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusCreated, data)
}

// Error writes the uniform error envelope.
func Error(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, ErrorBody{Error: message})
}

// ErrorWithDetails writes the envelope with field-level or diagnostic details.
func ErrorWithDetails(ctx *gin.Context, status int, message string, details interface{}) {
	ctx.JSON(status, ErrorBody{Error: message, Details: details})
}

// ValidationError writes a 422 with the binding failure details.
func ValidationError(ctx *gin.Context, err error) {
	ErrorWithDetails(ctx, http.StatusUnprocessableEntity, "validation failed", err.Error())
}
