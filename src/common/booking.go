package common

import (
	"errors"
	"eventplanning/src/db"
	"eventplanning/src/lib"
	"eventplanning/src/models"
	"eventplanning/src/types"
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lockForUpdate row-locks subsequent reads so that concurrent booking
// writes against the same ticket type serialize on the inventory check.
// sqlite (used by the test suites) has no FOR UPDATE; its single writer
// lock covers the same invariant.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

func getBookingOrFail(tx *gorm.DB, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := tx.First(&booking, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("booking not found")
		}
		return nil, err
	}
	return &booking, nil
}

// CreateBooking reserves quantity tickets of a type. The ticket-type row is
// locked and sold is recounted inside the transaction, so two concurrent
// requests cannot jointly exceed capacity: exactly one wins.
func CreateBooking(p types.Principal, body *types.BookingRequestBody) (*models.Booking, error) {
	if body.Quantity <= 0 {
		return nil, BadRequestf("quantity must be greater than zero")
	}
	d := db.GetDb()
	var booking models.Booking
	err := d.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, p.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("user not found")
			}
			return err
		}
		event, err := GetEvent(tx, body.EventID)
		if err != nil {
			return err
		}
		var ticketType models.TicketType
		if err := lockForUpdate(tx).First(&ticketType, body.TicketTypeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("ticket type not found")
			}
			return err
		}
		if ticketType.EventID != event.ID {
			return errors.New("ticket type does not belong to this event")
		}
		if body.Quantity > ticketType.Capacity {
			return errors.New("not enough tickets available for this type")
		}
		sold, err := SoldCount(tx, ticketType.ID)
		if err != nil {
			return err
		}
		if body.Quantity > ticketType.Capacity-sold {
			return errors.New("not enough tickets available for this type")
		}
		booking = models.Booking{
			EventID:      event.ID,
			TicketTypeID: ticketType.ID,
			UserID:       user.ID,
			Quantity:     body.Quantity,
			TotalPrice:   ticketType.Price.Mul(decimal.NewFromInt(int64(body.Quantity))),
			Status:       types.BOOKING_CONFIRMED,
		}
		return tx.Create(&booking).Error
	})
	if err != nil {
		lib.TrackBookingCreated("rejected")
		return nil, err
	}
	lib.TrackBookingCreated("confirmed")
	go NotifyUser(p.ID, &booking.EventID, "Booking confirmed",
		fmt.Sprintf("Your booking #%d (%d tickets) is confirmed", booking.ID, booking.Quantity),
		types.NOTIFICATION_BOOKING)
	return &booking, nil
}

func GetBooking(p types.Principal, id uint) (*models.Booking, error) {
	d := db.GetDb()
	var booking models.Booking
	err := d.
		Preload("Event").
		Preload("TicketType").
		First(&booking, id).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("booking not found")
		}
		return nil, err
	}
	if !Allowed(p, ActionViewBooking, booking.UserID) {
		return nil, errors.New("you cannot view this booking")
	}
	return &booking, nil
}

// MyBookings lists only the caller's confirmed bookings, newest first.
func MyBookings(p types.Principal) ([]models.Booking, error) {
	d := db.GetDb()
	var bookings []models.Booking
	err := d.
		Where("user_id = ? AND status = ?", p.ID, types.BOOKING_CONFIRMED).
		Preload("Event").
		Preload("TicketType").
		Order("created_at DESC").
		Find(&bookings).
		Error
	return bookings, err
}

// UpdateBooking changes the quantity and recomputes the price snapshot from
// the ticket type's current price. Cancelled bookings stay cancelled.
func UpdateBooking(p types.Principal, id uint, quantity int) (*models.Booking, error) {
	if quantity <= 0 {
		return nil, BadRequestf("quantity must be greater than zero")
	}
	d := db.GetDb()
	var booking *models.Booking
	err := d.Transaction(func(tx *gorm.DB) error {
		var err error
		booking, err = getBookingOrFail(tx, id)
		if err != nil {
			return err
		}
		if !Allowed(p, ActionModifyBooking, booking.UserID) {
			return errors.New("you cannot update this booking")
		}
		if booking.Status == types.BOOKING_CANCELED {
			return errors.New("cannot update a cancelled booking")
		}
		var ticketType models.TicketType
		if err := lockForUpdate(tx).First(&ticketType, booking.TicketTypeID).Error; err != nil {
			return err
		}
		if quantity > ticketType.Capacity {
			return errors.New("not enough tickets available")
		}
		sold, err := SoldCount(tx, ticketType.ID)
		if err != nil {
			return err
		}
		// This booking's own confirmed quantity is part of sold.
		if quantity > ticketType.Capacity-sold+booking.Quantity {
			return errors.New("not enough tickets available")
		}
		booking.Quantity = quantity
		booking.TotalPrice = ticketType.Price.Mul(decimal.NewFromInt(int64(quantity)))
		return tx.Save(booking).Error
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// CancelBooking is one-way. Cancelling an already cancelled booking is a
// state no-op and not an error.
func CancelBooking(p types.Principal, id uint) error {
	d := db.GetDb()
	return d.Transaction(func(tx *gorm.DB) error {
		booking, err := getBookingOrFail(tx, id)
		if err != nil {
			return err
		}
		if !Allowed(p, ActionModifyBooking, booking.UserID) {
			return errors.New("you cannot cancel this booking")
		}
		err = tx.
			Model(&models.Booking{}).
			Where("id = ?", id).
			Update("status", types.BOOKING_CANCELED).
			Error
		if err != nil {
			log.Printf("Could not cancel booking [%d]: %s\n", id, err.Error())
		}
		return err
	})
}

func AllBookings(p types.Principal) ([]models.Booking, error) {
	if !Allowed(p, ActionListAllBookings, 0) {
		return nil, errors.New("not allowed to list all bookings")
	}
	d := db.GetDb()
	var bookings []models.Booking
	err := d.
		Preload("Event").
		Preload("TicketType").
		Preload("User").
		Order("created_at DESC").
		Find(&bookings).
		Error
	return bookings, err
}
