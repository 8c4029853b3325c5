package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const defaultSuccessMessage = "Request successful"

// envelope is the body shape of every API response.
type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Data    any               `json:"data,omitempty"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

func respondOK(c *gin.Context, data any) {
	respond(c, http.StatusOK, defaultSuccessMessage, data)
}

func respondCreated(c *gin.Context, message string, data any) {
	respond(c, http.StatusCreated, message, data)
}

func respond(c *gin.Context, status int, message string, data any) {
	if message == "" {
		message = defaultSuccessMessage
	}
	c.JSON(status, envelope{Success: true, Message: message, Data: data})
}
