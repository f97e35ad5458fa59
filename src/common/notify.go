package common

import (
	"errors"
	"eventplanning/src/db"
	"eventplanning/src/lib"
	"eventplanning/src/models"
	"eventplanning/src/types"
	"log"

	"gorm.io/gorm"
)

// NotifyUser records an in-app notification and mirrors it to the broker
// when one is configured. Side effect only: failures are logged, never
// surfaced to the triggering request.
func NotifyUser(userID uint, eventID *uint, title, message string, ntype types.NotificationType) {
	d := db.GetDb()
	n := models.Notification{
		UserID:  userID,
		EventID: eventID,
		Title:   title,
		Message: message,
		Type:    ntype,
		Status:  types.NOTIFICATION_UNREAD,
	}
	if err := d.Create(&n).Error; err != nil {
		log.Printf("Could not create notification for user [%d]: %s\n", userID, err.Error())
		return
	}
	if err := lib.KafkaProduceNotification(&n); err != nil {
		log.Printf("Error producing notification message: %s\n", err.Error())
	}
}

func findUserByEmailOrUsername(tx *gorm.DB, value string) (*models.User, error) {
	var user models.User
	err := tx.
		Where("username = ? OR email = ?", value, value).
		First(&user).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("user not found: %s", value)
		}
		return nil, err
	}
	return &user, nil
}

func CreateNotification(p types.Principal, body *types.NotificationRequestBody) (*models.Notification, error) {
	if !Allowed(p, ActionBroadcast, 0) {
		return nil, errors.New("not allowed to create notifications")
	}
	d := db.GetDb()
	user, err := findUserByEmailOrUsername(d, body.Username)
	if err != nil {
		return nil, err
	}
	ntype := body.Type
	if ntype == "" {
		ntype = types.NOTIFICATION_GENERAL
	}
	n := models.Notification{
		UserID:  user.ID,
		Title:   body.Title,
		Message: body.Message,
		Type:    ntype,
		Status:  types.NOTIFICATION_UNREAD,
	}
	if err := d.Create(&n).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

func BroadcastNotification(p types.Principal, title, message string, ntype types.NotificationType) error {
	if !Allowed(p, ActionBroadcast, 0) {
		return errors.New("not allowed to broadcast notifications")
	}
	if ntype == "" {
		ntype = types.NOTIFICATION_GENERAL
	}
	d := db.GetDb()
	var ids []uint
	if err := d.Model(&models.User{}).Pluck("id", &ids).Error; err != nil {
		return err
	}
	for _, id := range ids {
		NotifyUser(id, nil, title, message, ntype)
	}
	return nil
}

func ListNotifications(p types.Principal, onlyUnread bool, limit int) ([]models.Notification, error) {
	d := db.GetDb()
	tx := d.
		Where("user_id = ?", p.ID).
		Where("status <> ?", types.NOTIFICATION_ARCHIVED).
		Order("created_at DESC")
	if onlyUnread {
		tx = d.
			Where("user_id = ? AND status = ?", p.ID, types.NOTIFICATION_UNREAD).
			Order("created_at DESC")
	}
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	var notifications []models.Notification
	err := tx.Find(&notifications).Error
	return notifications, err
}

func UnreadNotificationCount(p types.Principal) (int64, error) {
	d := db.GetDb()
	var count int64
	err := d.
		Model(&models.Notification{}).
		Where("user_id = ? AND status = ?", p.ID, types.NOTIFICATION_UNREAD).
		Count(&count).
		Error
	return count, err
}

func setNotificationStatus(p types.Principal, id uint, status types.NotificationStatus) error {
	d := db.GetDb()
	var n models.Notification
	if err := d.First(&n, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("notification not found")
		}
		return err
	}
	if n.UserID != p.ID {
		return errors.New("you cannot modify this notification")
	}
	return d.Model(&n).Update("status", status).Error
}

func MarkNotificationRead(p types.Principal, id uint) error {
	return setNotificationStatus(p, id, types.NOTIFICATION_READ)
}

func ArchiveNotification(p types.Principal, id uint) error {
	return setNotificationStatus(p, id, types.NOTIFICATION_ARCHIVED)
}

func MarkAllNotificationsRead(p types.Principal) error {
	d := db.GetDb()
	return d.
		Model(&models.Notification{}).
		Where("user_id = ? AND status = ?", p.ID, types.NOTIFICATION_UNREAD).
		Update("status", types.NOTIFICATION_READ).
		Error
}

func AdminDeleteNotification(p types.Principal, id uint) error {
	if !Allowed(p, ActionBroadcast, 0) {
		return errors.New("not allowed to delete notifications")
	}
	d := db.GetDb()
	res := d.Delete(&models.Notification{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.New("notification not found")
	}
	return nil
}
