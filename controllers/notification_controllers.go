package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/imprimerie/print-shop-app/services"
	"github.com/imprimerie/print-shop-app/utils"
)

type NotificationController struct {
	Notifications *services.NotificationService
}

func NewNotificationController(notifications *services.NotificationService) *NotificationController {
	return &NotificationController{Notifications: notifications}
}

// GetMyNotifications lists the authenticated user's notifications.
func (nc *NotificationController) GetMyNotifications(c *gin.Context) {
	userID, _ := currentUser(c)

	filter := services.NotificationFilter{}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if v := c.Query("read"); v != "" {
		read := v == "true"
		filter.Read = &read
	}

	list, err := nc.Notifications.ListForUser(userID, filter)
	if err != nil {
		respondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of notifications", list)
}

// GetUnreadCount is polled by the frontend badge.
func (nc *NotificationController) GetUnreadCount(c *gin.Context) {
	userID, _ := currentUser(c)

	count, err := nc.Notifications.UnreadCount(userID)
	if err != nil {
		respondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Unread count", gin.H{"unread_count": count})
}

func (nc *NotificationController) MarkAsRead(c *gin.Context) {
	userID, _ := currentUser(c)
	notifID, _ := strconv.Atoi(c.Param("notification_id"))

	notif, err := nc.Notifications.MarkAsRead(uint(notifID), userID)
	if err != nil {
		respondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Notification lue", notif)
}

func (nc *NotificationController) MarkAllAsRead(c *gin.Context) {
	userID, _ := currentUser(c)

	if err := nc.Notifications.MarkAllAsRead(userID); err != nil {
		respondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Toutes les notifications lues", nil)
}

// PruneOld removes read notifications older than ?days (admin maintenance).
func (nc *NotificationController) PruneOld(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	removed, err := nc.Notifications.DeleteOld(days)
	if err != nil {
		respondAppError(c, err)
		return
	}

	utils.InfoLogger.Printf("Pruned %d old notifications (older than %d days)", removed, days)
	utils.RespondJSON(c, http.StatusOK, "Anciennes notifications supprimées", gin.H{"removed": removed})
}

func (nc *NotificationController) DeleteNotification(c *gin.Context) {
	userID, _ := currentUser(c)
	notifID, _ := strconv.Atoi(c.Param("notification_id"))

	if err := nc.Notifications.Delete(uint(notifID), userID); err != nil {
		respondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Notification supprimée", gin.H{"notification_id": notifID})
}
