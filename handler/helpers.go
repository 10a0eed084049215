package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/pankaj3399/time-track-sub001/usecase"
	"github.com/pankaj3399/time-track-sub001/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// getUserID reads the id AuthMiddleware stored. It answers 401 itself when
// the id is missing.
func getUserID(c *gin.Context) (string, bool) {
	userID := c.GetString("user_id")
	if userID == "" {
		utils.Unauthorized(c, "Unauthorized")
		return "", false
	}
	return userID, true
}

// bindJSON answers 400 naming the first failing field.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.TrackError("validation", "invalid_request")
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			utils.BadRequest(c, "Invalid value for "+verrs[0].Field())
			return false
		}
		utils.BadRequest(c, "Invalid request body")
		return false
	}
	return true
}

// respondError maps service errors onto the response envelope. Unknown
// errors are logged and hidden behind a generic message.
func respondError(c *gin.Context, err error, action string) {
	var bulk *usecase.BulkUpdateError
	switch {
	case usecase.IsValidation(err):
		utils.BadRequest(c, err.Error())
	case usecase.IsNotFound(err):
		utils.NotFound(c, err.Error())
	case usecase.IsUnauthorized(err):
		utils.Unauthorized(c, err.Error())
	case usecase.IsConflict(err):
		utils.Conflict(c, err.Error())
	case errors.As(err, &bulk):
		utils.TrackError("handler", action)
		utils.Logger.Warn().Err(err).Str("user_id", c.GetString("user_id")).Msg("bulk update partially failed")
		c.AbortWithStatusJSON(http.StatusInternalServerError, &utils.Response{Error: err.Error(), Data: bulk.Result})
	default:
		utils.TrackError("handler", action)
		utils.Logger.Error().Err(err).
			Str("action", action).
			Str("request_id", c.GetString("request_id")).
			Str("user_id", c.GetString("user_id")).
			Msg("request failed")
		utils.InternalError(c, "Failed to "+action)
	}
}

// parseTimeParam accepts RFC 3339 timestamps or plain dates.
func parseTimeParam(c *gin.Context, name string, def time.Time) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := utils.ParseDate(raw)
	if err != nil {
		return time.Time{}, &usecase.ValidationError{Field: name, Message: err.Error()}
	}
	return t, nil
}
