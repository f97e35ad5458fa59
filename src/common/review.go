package common

import (
	"errors"
	"eventplanning/src/db"
	"eventplanning/src/models"
	"eventplanning/src/types"

	"gorm.io/gorm"
)

func CreateReview(p types.Principal, body *types.ReviewRequestBody) (*models.Review, error) {
	if body.EventID == nil && body.VendorID == nil {
		return nil, BadRequestf("review must target an event or a vendor")
	}
	d := db.GetDb()
	if body.EventID != nil {
		if _, err := GetEvent(d, *body.EventID); err != nil {
			return nil, err
		}
	}
	if body.VendorID != nil {
		if _, err := getVendorOrFail(d, *body.VendorID); err != nil {
			return nil, err
		}
	}
	review := models.Review{
		UserID:   p.ID,
		EventID:  body.EventID,
		VendorID: body.VendorID,
		Rating:   body.Rating,
		Comment:  body.Comment,
	}
	if err := d.Create(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func getReviewOrFail(tx *gorm.DB, id uint) (*models.Review, error) {
	var review models.Review
	if err := tx.First(&review, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("review not found")
		}
		return nil, err
	}
	return &review, nil
}

func ReviewsForEvent(eventID uint) ([]models.Review, error) {
	d := db.GetDb()
	var reviews []models.Review
	err := d.
		Where("event_id = ?", eventID).
		Preload("User").
		Order("created_at DESC").
		Find(&reviews).
		Error
	return reviews, err
}

func ReviewsForVendor(vendorID uint) ([]models.Review, error) {
	d := db.GetDb()
	var reviews []models.Review
	err := d.
		Where("vendor_id = ?", vendorID).
		Preload("User").
		Order("created_at DESC").
		Find(&reviews).
		Error
	return reviews, err
}

func UpdateReview(p types.Principal, id uint, body *types.ReviewRequestBody) (*models.Review, error) {
	d := db.GetDb()
	review, err := getReviewOrFail(d, id)
	if err != nil {
		return nil, err
	}
	if !Allowed(p, ActionManageReview, review.UserID) {
		return nil, errors.New("you cannot update this review")
	}
	review.Rating = body.Rating
	review.Comment = body.Comment
	if err := d.Save(review).Error; err != nil {
		return nil, err
	}
	return review, nil
}

func DeleteReview(p types.Principal, id uint) error {
	d := db.GetDb()
	review, err := getReviewOrFail(d, id)
	if err != nil {
		return err
	}
	if !Allowed(p, ActionManageReview, review.UserID) {
		return errors.New("you cannot delete this review")
	}
	return d.Delete(review).Error
}
