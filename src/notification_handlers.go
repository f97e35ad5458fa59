package main

import (
	"net/http"
	"strconv"

	"eventplanning/src/common"
	"eventplanning/src/types"

	"github.com/gin-gonic/gin"
)

func notificationHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/notifications", func(ctx *gin.Context) {
			var body types.NotificationRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			notification, err := common.CreateNotification(principal(ctx), &body)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": notification})
		}).
		POST("/notifications/broadcast", func(ctx *gin.Context) {
			var body types.NotificationRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			err := common.BroadcastNotification(principal(ctx), body.Title, body.Message, types.NotificationType(body.Type))
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.Status(http.StatusAccepted)
		}).
		GET("/notifications", func(ctx *gin.Context) {
			onlyUnread := ctx.Query("unread") == "true"
			limit, err := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			notifications, err := common.ListNotifications(principal(ctx), onlyUnread, limit)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": notifications, "count": len(notifications)})
		}).
		GET("/notifications/unread-count", func(ctx *gin.Context) {
			count, err := common.UnreadNotificationCount(principal(ctx))
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": gin.H{"count": count}})
		}).
		PUT("/notifications/:id/read", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if err := common.MarkNotificationRead(principal(ctx), params.ID); err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		PUT("/notifications/:id/archive", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if err := common.ArchiveNotification(principal(ctx), params.ID); err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		PUT("/notifications/read-all", func(ctx *gin.Context) {
			if err := common.MarkAllNotificationsRead(principal(ctx)); err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		DELETE("/notifications/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if err := common.AdminDeleteNotification(principal(ctx), params.ID); err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}
