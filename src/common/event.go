package common

import (
	"errors"
	"eventplanning/src/config"
	"eventplanning/src/db"
	"eventplanning/src/models"
	"eventplanning/src/types"
	"log"
	"time"

	"gorm.io/gorm"
)

func parseEventTimes(body *types.EventRequestBody) (start, end time.Time, err error) {
	start, err = time.Parse(config.TIME_PARSE_FORMAT, body.StartTime)
	if err != nil {
		return
	}
	end, err = time.Parse(config.TIME_PARSE_FORMAT, body.EndTime)
	return
}

func CreateEvent(p types.Principal, body *types.EventRequestBody) (*models.Event, error) {
	start, end, err := parseEventTimes(body)
	if err != nil {
		return nil, BadRequestf("invalid event time: %s", err.Error())
	}
	event := models.Event{
		Title:       body.Name,
		Description: body.Description,
		Venue:       body.Location,
		StartTime:   start,
		EndTime:     end,
		Status:      types.EVENT_DRAFT,
		OrganizerID: p.ID,
		Active:      true,
	}
	db := db.GetDb()
	if err := db.Create(&event).Error; err != nil {
		log.Printf("Error creating event: %s\n", err.Error())
		return nil, err
	}
	return &event, nil
}

func GetEvent(tx *gorm.DB, id uint) (*models.Event, error) {
	var event models.Event
	if err := tx.First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("event not found")
		}
		return nil, err
	}
	return &event, nil
}

func UpdateEvent(p types.Principal, id uint, body *types.EventRequestBody) (*models.Event, error) {
	start, end, err := parseEventTimes(body)
	if err != nil {
		return nil, BadRequestf("invalid event time: %s", err.Error())
	}
	db := db.GetDb()
	event, err := GetEvent(db, id)
	if err != nil {
		return nil, err
	}
	if !Allowed(p, ActionManageEvent, event.OrganizerID) {
		return nil, errors.New("not allowed to edit this event")
	}
	event.Title = body.Name
	event.Description = body.Description
	event.Venue = body.Location
	event.StartTime = start
	event.EndTime = end
	if err := db.Save(event).Error; err != nil {
		return nil, err
	}
	return event, nil
}

func PublishEvent(p types.Principal, id uint) (*models.Event, error) {
	db := db.GetDb()
	event, err := GetEvent(db, id)
	if err != nil {
		return nil, err
	}
	if !Allowed(p, ActionManageEvent, event.OrganizerID) {
		return nil, errors.New("not allowed to publish this event")
	}
	event.Status = types.EVENT_PUBLISHED
	if err := db.Save(event).Error; err != nil {
		return nil, err
	}
	return event, nil
}

// CancelEvent hard-deletes the event together with its ticket types,
// bookings and payments in one transaction. Cancelling has always meant
// deletion on this API; the cascade keeps child rows from being orphaned.
func CancelEvent(p types.Principal, id uint) error {
	db := db.GetDb()
	event, err := GetEvent(db, id)
	if err != nil {
		return err
	}
	if !Allowed(p, ActionManageEvent, event.OrganizerID) {
		return errors.New("not allowed to cancel this event")
	}
	return deleteEventCascade(id)
}

func AdminDeleteEvent(p types.Principal, id uint) error {
	if !Allowed(p, ActionAdminDeleteEvent, 0) {
		return errors.New("not allowed to delete events")
	}
	db := db.GetDb()
	if _, err := GetEvent(db, id); err != nil {
		return err
	}
	return deleteEventCascade(id)
}

func deleteEventCascade(id uint) error {
	d := db.GetDb()
	return d.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&models.Payment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", id).Delete(&models.Booking{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", id).Delete(&models.TicketType{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Event{}, id).Error
	})
}

// SearchEvents lists active events with optional title match and scope
// filtering. Upcoming events sort soonest-first, everything else
// latest-first, matching the listing the clients have always rendered.
func SearchEvents(q *types.EventSearchQuery) ([]models.Event, int64, error) {
	d := db.GetDb()
	now := time.Now()
	tx := d.Model(&models.Event{}).Where("active = ?", true)
	if q.Q != "" {
		tx = tx.Where("LOWER(title) LIKE LOWER(?)", "%"+q.Q+"%")
	}
	switch q.Scope {
	case "upcoming":
		tx = tx.Where("start_time >= ?", now).Order("start_time ASC")
	case "past":
		tx = tx.Where("end_time < ?", now).Order("start_time DESC")
	default:
		tx = tx.Order("start_time DESC")
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var events []models.Event
	if err := tx.Offset(q.Page * q.Size).Limit(q.Size).Find(&events).Error; err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func MyEvents(p types.Principal) ([]models.Event, error) {
	d := db.GetDb()
	var events []models.Event
	err := d.
		Where(&models.Event{OrganizerID: p.ID}).
		Order("start_time DESC").
		Find(&events).
		Error
	return events, err
}
