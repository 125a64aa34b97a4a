package app

import (
	"net/http"

	"vehicle-inspector/pkg/response"
)

var (
	ErrModelUnavailable = response.NewError(http.StatusInternalServerError, "model is not loaded")
	ErrInputMissing     = response.NewError(http.StatusBadRequest, "no image supplied")
	ErrProcessing       = response.NewError(http.StatusInternalServerError, "image processing failed")
)
