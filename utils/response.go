package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status  int         `json:"-"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, &Response{
		Status: http.StatusOK,
		Data:   data,
	})
}

// SuccessMessage is Success with a human readable message next to the data.
func SuccessMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, &Response{
		Status:  http.StatusOK,
		Message: message,
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, &Response{
		Status:  http.StatusCreated,
		Message: "Resource created successfully",
		Data:    data,
	})
}

func Unauthorized(c *gin.Context, message string) {
	abortWithError(c, http.StatusUnauthorized, message)
}

func BadRequest(c *gin.Context, message string) {
	abortWithError(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context, message string) {
	abortWithError(c, http.StatusNotFound, message)
}

func InternalError(c *gin.Context, message string) {
	abortWithError(c, http.StatusInternalServerError, message)
}

func Conflict(c *gin.Context, message string) {
	abortWithError(c, http.StatusConflict, message)
}

func Forbidden(c *gin.Context, message string) {
	abortWithError(c, http.StatusForbidden, message)
}

func ServiceUnavailable(c *gin.Context, message string, data interface{}) {
	c.AbortWithStatusJSON(http.StatusServiceUnavailable, &Response{
		Status: http.StatusServiceUnavailable,
		Error:  message,
		Data:   data,
	})
}

func abortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, &Response{
		Status: status,
		Error:  message,
	})
}
