package common

import (
	"context"
	"encoding/json"
	"errors"
	"eventplanning/src/db"
	"eventplanning/src/lib"
	"eventplanning/src/models"
	"eventplanning/src/types"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const summaryCacheKey = "payments:summary"

// UploadSlip stores a bank-transfer proof and opens a PENDING payment for
// the booking. The amount is recomputed from the ticket type's current
// price, deliberately independent of the booking's own price snapshot.
func UploadSlip(p types.Principal, bookingID uint, filename string, file io.Reader) (*models.Payment, error) {
	d := db.GetDb()
	var payment models.Payment
	err := d.Transaction(func(tx *gorm.DB) error {
		booking, err := getBookingOrFail(tx, bookingID)
		if err != nil {
			return err
		}
		if !Allowed(p, ActionModifyBooking, booking.UserID) {
			return errors.New("you cannot pay for this booking")
		}
		var ticketType models.TicketType
		if err := tx.First(&ticketType, booking.TicketTypeID).Error; err != nil {
			return err
		}
		name := fmt.Sprintf("%s_%s", uuid.NewString(), filename)
		slipPath, err := lib.SaveSlip(name, file)
		if err != nil {
			log.Printf("Could not store slip for booking [%d]: %s\n", bookingID, err.Error())
			return err
		}
		payment = models.Payment{
			BookingID: booking.ID,
			EventID:   booking.EventID,
			PayerID:   booking.UserID,
			Method:    types.PAYMENT_BANK_TRANSFER,
			Status:    types.PAYMENT_PENDING,
			Amount:    ticketType.Price.Mul(decimal.NewFromInt(int64(booking.Quantity))),
			SlipPath:  slipPath,
		}
		return tx.Create(&payment).Error
	})
	if err != nil {
		return nil, err
	}
	invalidateSummaryCache()
	return &payment, nil
}

// ReviewPayment is the admin decision on a pending payment. It is terminal:
// a decided payment cannot be reviewed again. The linked booking follows
// the decision (approve confirms it, reject cancels it).
func ReviewPayment(p types.Principal, id uint, approve bool) (*models.Payment, error) {
	if !Allowed(p, ActionReviewPayment, 0) {
		return nil, errors.New("not allowed to review payments")
	}
	d := db.GetDb()
	var payment models.Payment
	err := d.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&payment, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("payment not found")
			}
			return err
		}
		if payment.Status != types.PAYMENT_PENDING {
			return errors.New("payment already reviewed")
		}
		now := time.Now()
		payment.ReviewedByID = &p.ID
		payment.ReviewedAt = &now
		bookingStatus := types.BOOKING_CONFIRMED
		if approve {
			payment.Status = types.PAYMENT_APPROVED
		} else {
			payment.Status = types.PAYMENT_REJECTED
			bookingStatus = types.BOOKING_CANCELED
		}
		if err := tx.Save(&payment).Error; err != nil {
			return err
		}
		return tx.
			Model(&models.Booking{}).
			Where("id = ?", payment.BookingID).
			Update("status", bookingStatus).
			Error
	})
	if err != nil {
		return nil, err
	}
	invalidateSummaryCache()
	title := "Payment approved"
	decision := "approved"
	if !approve {
		title = "Payment rejected"
		decision = "rejected"
	}
	lib.TrackPaymentReviewed(decision)
	go NotifyUser(payment.PayerID, &payment.EventID, title,
		fmt.Sprintf("Your payment #%d has been %s", payment.ID, payment.Status),
		types.NOTIFICATION_PAYMENT)
	return &payment, nil
}

func ListPayments(p types.Principal, status types.PaymentStatus) ([]models.Payment, error) {
	if !Allowed(p, ActionReviewPayment, 0) {
		return nil, errors.New("not allowed to list payments")
	}
	d := db.GetDb()
	tx := d.Preload("Booking").Preload("Payer").Order("created_at DESC")
	if status != "" {
		tx = tx.Where("status = ?", status)
	}
	var payments []models.Payment
	err := tx.Find(&payments).Error
	return payments, err
}

func MyPayments(p types.Principal) ([]models.Payment, error) {
	d := db.GetDb()
	var user models.User
	if err := d.First(&user, p.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewStatusError(http.StatusNotFound, "user not found")
		}
		return nil, err
	}
	var payments []models.Payment
	err := d.
		Where("payer_id = ?", user.ID).
		Preload("Booking").
		Order("created_at DESC").
		Find(&payments).
		Error
	return payments, err
}

// PaymentSummaryReport aggregates the review dashboard counters. The result
// is cached briefly in Redis; reviews and uploads bust the cache.
func PaymentSummaryReport(p types.Principal) (*types.PaymentSummary, error) {
	if !Allowed(p, ActionViewSummary, 0) {
		return nil, errors.New("not allowed to view the payment summary")
	}
	if rd := lib.GetRedisClient(); rd != nil {
		if val, err := rd.Get(context.Background(), summaryCacheKey).Result(); err == nil {
			var cached types.PaymentSummary
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				return &cached, nil
			}
		}
	}
	d := db.GetDb()
	var summary types.PaymentSummary
	counts := map[types.PaymentStatus]*int64{
		types.PAYMENT_PENDING:  &summary.Pending,
		types.PAYMENT_APPROVED: &summary.Approved,
		types.PAYMENT_REJECTED: &summary.Rejected,
	}
	for status, dst := range counts {
		if err := d.
			Model(&models.Payment{}).
			Where("status = ?", status).
			Count(dst).
			Error; err != nil {
			return nil, err
		}
	}
	var revenue decimal.Decimal
	if err := d.
		Model(&models.Payment{}).
		Where("status = ?", types.PAYMENT_APPROVED).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&revenue).
		Error; err != nil {
		return nil, err
	}
	summary.TotalRevenue = revenue.InexactFloat64()

	if rd := lib.GetRedisClient(); rd != nil {
		if data, err := json.Marshal(&summary); err == nil {
			if err := rd.Set(context.Background(), summaryCacheKey, data, 30*time.Second).Err(); err != nil {
				log.Printf("[redis] Error caching payment summary: %s\n", err.Error())
			}
		}
	}
	return &summary, nil
}

func invalidateSummaryCache() {
	rd := lib.GetRedisClient()
	if rd == nil {
		return
	}
	if err := rd.Del(context.Background(), summaryCacheKey).Err(); err != nil {
		log.Printf("[redis] Error invalidating payment summary cache: %s\n", err.Error())
	}
}
