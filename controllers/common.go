package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imprimerie/print-shop-app/services"
	"github.com/imprimerie/print-shop-app/utils"
)

// currentUser reads the actor set by the auth middleware.
func currentUser(c *gin.Context) (uint, string) {
	var userID uint
	if v, exists := c.Get("user_id"); exists {
		if id, ok := v.(uint); ok {
			userID = id
		}
	}
	role := c.GetString("role")
	return userID, role
}

// respondAppError maps a domain error to its HTTP status; anything
// unclassified becomes a 500 so persistence failures are never mistaken for
// client mistakes.
func respondAppError(c *gin.Context, err error) {
	var appErr *services.AppError
	if errors.As(err, &appErr) {
		// err, not appErr: wrapped sentinels carry detail in the outer message.
		utils.RespondError(c, appErr.Status, err)
		return
	}
	utils.RespondError(c, http.StatusInternalServerError, err)
}
