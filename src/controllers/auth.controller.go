package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"eventplanning/src/common"
	"eventplanning/src/db"
	"eventplanning/src/lib"
	"eventplanning/src/models"
	"eventplanning/src/types"
	"eventplanning/src/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func AuthLogin(ctx *gin.Context) (token *string, role types.UserRole, status int, err error) {
	var body types.LoginRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, "", http.StatusBadRequest, err
	}

	d := db.GetDb()
	var user models.User
	if err := d.
		Model(&models.User{}).
		Where("username = ?", body.Username).
		First(&user).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", http.StatusUnauthorized, errors.New("invalid username or password")
		}
		log.Printf("error: %s\n", err.Error())
		return nil, "", http.StatusBadRequest, err
	}
	if !utils.CheckPassword(user.Password, body.Password) {
		return nil, "", http.StatusUnauthorized, errors.New("invalid username or password")
	}

	jwt, err := utils.GenerateJWT(user.ID, user.Username, user.Role)
	if err != nil {
		log.Printf("Error signing token for user [%d]: %s\n", user.ID, err.Error())
		return nil, "", http.StatusInternalServerError, errors.New("could not sign token")
	}

	if rd := lib.GetRedisClient(); rd != nil {
		if data, err := json.Marshal(&user); err == nil {
			if err := rd.Set(context.Background(), fmt.Sprintf("%d:user", user.ID), data, 24*time.Hour).Err(); err != nil {
				log.Printf("[redis] Error updating user cache: %s\n", err.Error())
			}
		}
	}
	return &jwt, user.Role, http.StatusOK, nil
}

// AuthForgotPassword always reports success so the endpoint does not leak
// which emails exist. The token travels by mail.
func AuthForgotPassword(ctx *gin.Context) (status int, err error) {
	var body types.ForgotPasswordRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return http.StatusBadRequest, err
	}
	if _, err := common.RequestPasswordReset(body.Email); err != nil {
		log.Printf("Password reset request for %s: %s\n", body.Email, err.Error())
	}
	return http.StatusOK, nil
}

func AuthResetPassword(ctx *gin.Context) (status int, err error) {
	var body types.ResetPasswordRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return http.StatusBadRequest, err
	}
	if err := common.ResetPassword(body.Token, body.NewPassword); err != nil {
		return common.HTTPStatus(err), err
	}
	return http.StatusOK, nil
}
