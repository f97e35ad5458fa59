package common

import (
	"errors"
	"eventplanning/src/db"
	"eventplanning/src/models"
	"eventplanning/src/types"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SoldCount derives how many tickets of a type are held by confirmed
// bookings. There is no stored counter; this is the source of truth.
func SoldCount(tx *gorm.DB, ticketTypeID uint) (int, error) {
	var sold int64
	err := tx.
		Model(&models.Booking{}).
		Where("ticket_type_id = ? AND status = ?", ticketTypeID, types.BOOKING_CONFIRMED).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&sold).
		Error
	return int(sold), err
}

func ListTicketTypes(eventID uint) ([]models.TicketType, error) {
	d := db.GetDb()
	if _, err := GetEvent(d, eventID); err != nil {
		return nil, err
	}
	var ticketTypes []models.TicketType
	if err := d.
		Where(&models.TicketType{EventID: eventID}).
		Find(&ticketTypes).
		Error; err != nil {
		return nil, err
	}
	for i := range ticketTypes {
		sold, err := SoldCount(d, ticketTypes[i].ID)
		if err != nil {
			return nil, err
		}
		ticketTypes[i].Sold = sold
	}
	return ticketTypes, nil
}

func CreateTicketType(p types.Principal, eventID uint, body *types.TicketTypeRequestBody) (*models.TicketType, error) {
	d := db.GetDb()
	event, err := GetEvent(d, eventID)
	if err != nil {
		return nil, err
	}
	if !Allowed(p, ActionManageTicketTypes, event.OrganizerID) {
		return nil, errors.New("not allowed to add ticket types to this event")
	}
	ticketType := models.TicketType{
		EventID:  eventID,
		Name:     body.Name,
		Price:    decimal.NewFromFloat(body.Price),
		Capacity: body.Capacity,
	}
	if err := d.Create(&ticketType).Error; err != nil {
		return nil, err
	}
	return &ticketType, nil
}

func DeleteTicketType(p types.Principal, eventID, ticketTypeID uint) error {
	d := db.GetDb()
	event, err := GetEvent(d, eventID)
	if err != nil {
		return err
	}
	if !Allowed(p, ActionManageTicketTypes, event.OrganizerID) {
		return errors.New("not allowed to delete ticket types from this event")
	}
	var ticketType models.TicketType
	if err := d.First(&ticketType, ticketTypeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("ticket type not found")
		}
		return err
	}
	if ticketType.EventID != eventID {
		return errors.New("ticket type does not belong to this event")
	}
	return d.Delete(&ticketType).Error
}
