package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSON writes a JSON response with the given status.
func JSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

// OK writes a 200 JSON response.
func OK(c *gin.Context, payload any) {
	JSON(c, http.StatusOK, payload)
}

// Created writes a 201 JSON response and exposes the new resource id as a header.
func Created(c *gin.Context, id string, payload any) {
	if id != "" {
		c.Header("X-Resource-Id", id)
	}
	JSON(c, http.StatusCreated, payload)
}
