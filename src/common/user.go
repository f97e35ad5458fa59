package common

import (
	"errors"
	"eventplanning/src/config"
	"eventplanning/src/db"
	"eventplanning/src/lib"
	"eventplanning/src/models"
	"eventplanning/src/types"
	"eventplanning/src/utils"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func getUserOrFail(tx *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	if err := tx.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user not found")
		}
		return nil, err
	}
	return &user, nil
}

func RegisterUser(body *types.RegisterUserRequestBody) (*models.User, error) {
	d := db.GetDb()
	var count int64
	if err := d.
		Model(&models.User{}).
		Where("username = ?", body.Username).
		Count(&count).
		Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("username already exists")
	}
	if err := d.
		Model(&models.User{}).
		Where("email = ?", body.Email).
		Count(&count).
		Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("email already exists")
	}
	hashed, err := utils.HashPassword(body.Password)
	if err != nil {
		return nil, err
	}
	role := body.Role
	if role == "" {
		role = types.ROLE_USER
	}
	user := models.User{
		Username: body.Username,
		Email:    body.Email,
		Password: hashed,
		Role:     role,
	}
	if err := d.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func GetUser(id uint) (*models.User, error) {
	return getUserOrFail(db.GetDb(), id)
}

func ListUsers(p types.Principal, q string, page, size int) ([]models.User, int64, error) {
	if p.Role != types.ROLE_ADMIN {
		return nil, 0, errors.New("not allowed to list users")
	}
	d := db.GetDb()
	tx := d.Model(&models.User{})
	if q != "" {
		like := "%" + q + "%"
		tx = tx.Where("LOWER(username) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?)", like, like)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []models.User
	if err := tx.Order("id").Offset(page * size).Limit(size).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func UpdateUser(p types.Principal, id uint, body *types.UpdateUserRequestBody) (*models.User, error) {
	if !Allowed(p, ActionManageUsers, id) {
		return nil, errors.New("not allowed to update this user")
	}
	d := db.GetDb()
	user, err := getUserOrFail(d, id)
	if err != nil {
		return nil, err
	}
	if body.Email != nil && *body.Email != "" {
		user.Email = *body.Email
	}
	// Role changes are an admin concern; self-service updates keep the role.
	if body.Role != nil && p.Role == types.ROLE_ADMIN {
		user.Role = *body.Role
	}
	if body.Password != nil && *body.Password != "" {
		hashed, err := utils.HashPassword(*body.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hashed
	}
	if err := d.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func DeleteUser(p types.Principal, id uint) error {
	if p.Role != types.ROLE_ADMIN {
		return errors.New("not allowed to delete users")
	}
	d := db.GetDb()
	res := d.Delete(&models.User{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.New("user not found")
	}
	return nil
}

func ChangePassword(p types.Principal, body *types.ChangePasswordRequestBody) error {
	d := db.GetDb()
	user, err := getUserOrFail(d, p.ID)
	if err != nil {
		return err
	}
	if !utils.CheckPassword(user.Password, body.OldPassword) {
		return errors.New("old password is incorrect")
	}
	hashed, err := utils.HashPassword(body.NewPassword)
	if err != nil {
		return err
	}
	return d.Model(user).Update("password", hashed).Error
}

// RequestPasswordReset issues a fresh single-use token for the address and
// mails it out. Older tokens for the same address are discarded first.
func RequestPasswordReset(email string) (string, error) {
	d := db.GetDb()
	var user models.User
	if err := d.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", errors.New("no user found with that email")
		}
		return "", err
	}
	token := uuid.NewString()
	err := d.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("email = ?", email).Delete(&models.PasswordResetToken{}).Error; err != nil {
			return err
		}
		reset := models.PasswordResetToken{
			Token:     token,
			Email:     email,
			ExpiresAt: time.Now().Add(config.RESET_TOKEN_TTL_MINUTES * time.Minute).Unix(),
		}
		return tx.Create(&reset).Error
	})
	if err != nil {
		return "", err
	}
	if err := lib.SendPasswordResetMail(email, token); err != nil {
		log.Printf("Could not send password reset mail to %s: %s\n", email, err.Error())
	}
	return token, nil
}

func ResetPassword(token, newPassword string) error {
	d := db.GetDb()
	return d.Transaction(func(tx *gorm.DB) error {
		var reset models.PasswordResetToken
		if err := tx.Where("token = ?", token).First(&reset).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("invalid or expired token")
			}
			return err
		}
		if time.Now().Unix() > reset.ExpiresAt {
			return errors.New("token expired")
		}
		var user models.User
		if err := tx.Where("email = ?", reset.Email).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("user not found")
			}
			return err
		}
		hashed, err := utils.HashPassword(newPassword)
		if err != nil {
			return err
		}
		if err := tx.Model(&user).Update("password", hashed).Error; err != nil {
			return err
		}
		return tx.Delete(&reset).Error
	})
}

// PurgeExpiredResetTokens runs from the background scheduler.
func PurgeExpiredResetTokens() {
	d := db.GetDb()
	res := d.Where("expires_at < ?", time.Now().Unix()).Delete(&models.PasswordResetToken{})
	if res.Error != nil {
		log.Printf("Error purging expired reset tokens: %s\n", res.Error.Error())
		return
	}
	if res.RowsAffected > 0 {
		log.Printf("Purged %d expired password reset tokens\n", res.RowsAffected)
	}
}
