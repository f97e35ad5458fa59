package middlewares

import (
	"log"
	"strconv"
	"strings"

	"eventplanning/src/db"
	"eventplanning/src/models"
	"eventplanning/src/utils"

	"github.com/gin-gonic/gin"
)

func AuthMiddleware(ctx *gin.Context) {
	bearerToken := ctx.Request.Header.Get("Authorization")
	if !strings.HasPrefix(bearerToken, "Bearer ") {
		ctx.AbortWithStatus(401)
		return
	}
	reqToken := strings.Split(bearerToken, " ")[1]
	if reqToken == "" {
		ctx.AbortWithStatus(401)
		return
	}
	claims, err := utils.ParseJWT(reqToken)
	if err != nil {
		log.Printf("token error: %s\n", err.Error())
		ctx.AbortWithStatus(401)
		return
	}

	d := db.GetDb()
	uid, err := strconv.Atoi(claims.Subject)
	if err != nil {
		log.Println("error parsing claims:", err.Error())
		ctx.AbortWithStatus(401)
		return
	}
	var user models.User
	d.Model(&models.User{}).Where(&models.User{ID: uint(uid)}).Find(&user)
	if uint(uid) != user.ID || user.ID < 1 {
		ctx.AbortWithStatus(401)
		return
	}
	ctx.Set("id", user.ID)
	ctx.Set("username", user.Username)
	ctx.Set("role", user.Role)
}
