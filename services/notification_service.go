package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/imprimerie/print-shop-app/models"
)

// NotificationService persists per-user notifications and pushes them through
// the event sink. Emission failures never surface to callers.
type NotificationService struct {
	db     *gorm.DB
	events EventSink
}

func NewNotificationService(db *gorm.DB, events EventSink) *NotificationService {
	return &NotificationService{db: db, events: events}
}

// Create stores a notification and emits it to the target user.
func (ns *NotificationService) Create(userID uint, title, message, notifType string, orderID *uint) (*models.Notification, error) {
	if notifType == "" {
		notifType = models.NotificationInfo
	}
	notif := models.Notification{
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      notifType,
		OrderID:   orderID,
		CreatedAt: time.Now(),
	}
	if err := ns.db.Create(&notif).Error; err != nil {
		return nil, err
	}

	if ns.events != nil {
		ns.events.EmitToUser(userID, EventNotification, notif)
	}
	return &notif, nil
}

type NotificationFilter struct {
	Read  *bool
	Page  int
	Limit int
}

// ListResult bundles a notification page with the user's unread count.
type NotificationList struct {
	Data        []models.Notification `json:"data"`
	UnreadCount int64                 `json:"unread_count"`
	Pagination  Pagination            `json:"pagination"`
}

// ListForUser returns one user's notifications, newest first.
func (ns *NotificationService) ListForUser(userID uint, f NotificationFilter) (*NotificationList, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}

	query := ns.db.Model(&models.Notification{}).Where("user_id = ?", userID)
	if f.Read != nil {
		query = query.Where("is_read = ?", *f.Read)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var notifs []models.Notification
	err := query.Order("created_at desc").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&notifs).Error
	if err != nil {
		return nil, err
	}

	unread, err := ns.UnreadCount(userID)
	if err != nil {
		return nil, err
	}

	return &NotificationList{
		Data:        notifs,
		UnreadCount: unread,
		Pagination:  NewPagination(f.Page, f.Limit, total),
	}, nil
}

// UnreadCount returns the user's number of unread notifications.
func (ns *NotificationService) UnreadCount(userID uint) (int64, error) {
	var count int64
	err := ns.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkAsRead flips one notification owned by the user.
func (ns *NotificationService) MarkAsRead(notifID, userID uint) (*models.Notification, error) {
	var notif models.Notification
	err := ns.db.Where("id = ? AND user_id = ?", notifID, userID).First(&notif).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotificationNotFound
	}
	if err != nil {
		return nil, err
	}

	now := time.Now()
	notif.Read = true
	notif.ReadAt = &now
	if err := ns.db.Model(&notif).Updates(map[string]interface{}{
		"is_read": true,
		"read_at": now,
	}).Error; err != nil {
		return nil, err
	}
	return &notif, nil
}

// MarkAllAsRead flips every unread notification of the user.
func (ns *NotificationService) MarkAllAsRead(userID uint) error {
	return ns.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": time.Now(),
		}).Error
}

// Delete removes one notification owned by the user.
func (ns *NotificationService) Delete(notifID, userID uint) error {
	res := ns.db.Where("id = ? AND user_id = ?", notifID, userID).
		Delete(&models.Notification{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// DeleteOld prunes read notifications older than daysOld days and returns the
// number removed.
func (ns *NotificationService) DeleteOld(daysOld int) (int64, error) {
	if daysOld <= 0 {
		daysOld = 30
	}
	cutoff := time.Now().AddDate(0, 0, -daysOld)
	res := ns.db.Where("created_at < ? AND is_read = ?", cutoff, true).
		Delete(&models.Notification{})
	return res.RowsAffected, res.Error
}
