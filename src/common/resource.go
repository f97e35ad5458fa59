package common

import (
	"errors"
	"eventplanning/src/db"
	"eventplanning/src/models"
	"eventplanning/src/types"

	"gorm.io/gorm"
)

func CreateVendor(p types.Principal, body *types.VendorRequestBody) (*models.Vendor, error) {
	d := db.GetDb()
	vendor := models.Vendor{
		Name:        body.Name,
		Category:    body.Category,
		Address:     body.Address,
		Email:       body.Email,
		Phone:       body.Phone,
		Description: body.Description,
		OwnerID:     p.ID,
	}
	if err := d.Create(&vendor).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

func getVendorOrFail(tx *gorm.DB, id uint) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := tx.First(&vendor, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("vendor not found")
		}
		return nil, err
	}
	return &vendor, nil
}

func ListVendors(q string) ([]models.Vendor, error) {
	d := db.GetDb()
	tx := d.Order("name")
	if q != "" {
		like := "%" + q + "%"
		tx = tx.Where("LOWER(name) LIKE LOWER(?) OR LOWER(category) LIKE LOWER(?)", like, like)
	}
	var vendors []models.Vendor
	err := tx.Find(&vendors).Error
	return vendors, err
}

func GetVendor(id uint) (*models.Vendor, error) {
	return getVendorOrFail(db.GetDb(), id)
}

func UpdateVendor(p types.Principal, id uint, body *types.VendorRequestBody) (*models.Vendor, error) {
	d := db.GetDb()
	vendor, err := getVendorOrFail(d, id)
	if err != nil {
		return nil, err
	}
	if !Allowed(p, ActionManageVendor, vendor.OwnerID) {
		return nil, errors.New("not allowed to update this vendor")
	}
	vendor.Name = body.Name
	vendor.Category = body.Category
	vendor.Address = body.Address
	vendor.Email = body.Email
	vendor.Phone = body.Phone
	vendor.Description = body.Description
	if err := d.Save(vendor).Error; err != nil {
		return nil, err
	}
	return vendor, nil
}

func ApproveVendor(p types.Principal, id uint) (*models.Vendor, error) {
	if !Allowed(p, ActionApproveResource, 0) {
		return nil, errors.New("not allowed to approve vendors")
	}
	d := db.GetDb()
	vendor, err := getVendorOrFail(d, id)
	if err != nil {
		return nil, err
	}
	if err := d.Model(vendor).Update("approved", true).Error; err != nil {
		return nil, err
	}
	return vendor, nil
}

func DeleteVendor(p types.Principal, id uint) error {
	d := db.GetDb()
	vendor, err := getVendorOrFail(d, id)
	if err != nil {
		return err
	}
	if !Allowed(p, ActionManageVendor, vendor.OwnerID) {
		return errors.New("not allowed to delete this vendor")
	}
	return d.Delete(vendor).Error
}

func CreateVenue(body *types.VenueRequestBody) (*models.Venue, error) {
	d := db.GetDb()
	venue := models.Venue{
		Name:        body.Name,
		Address:     body.Address,
		Description: body.Description,
		Capacity:    body.Capacity,
	}
	if err := d.Create(&venue).Error; err != nil {
		return nil, err
	}
	return &venue, nil
}

func getVenueOrFail(tx *gorm.DB, id uint) (*models.Venue, error) {
	var venue models.Venue
	if err := tx.First(&venue, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("venue not found")
		}
		return nil, err
	}
	return &venue, nil
}

func ListVenues(q string) ([]models.Venue, error) {
	d := db.GetDb()
	tx := d.Order("name")
	if q != "" {
		like := "%" + q + "%"
		tx = tx.Where("LOWER(name) LIKE LOWER(?) OR LOWER(address) LIKE LOWER(?)", like, like)
	}
	var venues []models.Venue
	err := tx.Find(&venues).Error
	return venues, err
}

func GetVenue(id uint) (*models.Venue, error) {
	return getVenueOrFail(db.GetDb(), id)
}

func UpdateVenue(p types.Principal, id uint, body *types.VenueRequestBody) (*models.Venue, error) {
	if !Allowed(p, ActionApproveResource, 0) {
		return nil, errors.New("not allowed to update venues")
	}
	d := db.GetDb()
	venue, err := getVenueOrFail(d, id)
	if err != nil {
		return nil, err
	}
	venue.Name = body.Name
	venue.Address = body.Address
	venue.Description = body.Description
	venue.Capacity = body.Capacity
	if err := d.Save(venue).Error; err != nil {
		return nil, err
	}
	return venue, nil
}

func ApproveVenue(p types.Principal, id uint) (*models.Venue, error) {
	if !Allowed(p, ActionApproveResource, 0) {
		return nil, errors.New("not allowed to approve venues")
	}
	d := db.GetDb()
	venue, err := getVenueOrFail(d, id)
	if err != nil {
		return nil, err
	}
	if err := d.Model(venue).Update("approved", true).Error; err != nil {
		return nil, err
	}
	return venue, nil
}

func DeleteVenue(p types.Principal, id uint) error {
	if !Allowed(p, ActionApproveResource, 0) {
		return errors.New("not allowed to delete venues")
	}
	d := db.GetDb()
	venue, err := getVenueOrFail(d, id)
	if err != nil {
		return err
	}
	return d.Delete(venue).Error
}
