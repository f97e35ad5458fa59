package main

import (
	"net/http"

	"eventplanning/src/common"
	"eventplanning/src/types"

	"github.com/gin-gonic/gin"
)

// guestUserHandlers holds registration, the only unauthenticated user route.
func guestUserHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/users", func(ctx *gin.Context) {
			var body types.RegisterUserRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			user, err := common.RegisterUser(&body)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": user})
		})
	return g
}

func userHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/users/me", func(ctx *gin.Context) {
			user, err := common.GetUser(principal(ctx).ID)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": user})
		}).
		PUT("/users/me", func(ctx *gin.Context) {
			var body types.UpdateUserRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			p := principal(ctx)
			user, err := common.UpdateUser(p, p.ID, &body)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": user})
		}).
		POST("/users/me/change-password", func(ctx *gin.Context) {
			var body types.ChangePasswordRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if err := common.ChangePassword(principal(ctx), &body); err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		GET("/users", func(ctx *gin.Context) {
			var query types.EventSearchQuery
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			users, total, err := common.ListUsers(principal(ctx), query.Q, query.Page, query.Size)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": users, "total": total, "page": query.Page, "size": query.Size})
		}).
		GET("/users/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			p := principal(ctx)
			if !common.Allowed(p, common.ActionManageUsers, params.ID) && p.ID != params.ID {
				ctx.JSON(http.StatusConflict, gin.H{"error": "you cannot view this user"})
				return
			}
			user, err := common.GetUser(params.ID)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": user})
		}).
		PUT("/users/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.UpdateUserRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			user, err := common.UpdateUser(principal(ctx), params.ID, &body)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": user})
		}).
		DELETE("/users/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if err := common.DeleteUser(principal(ctx), params.ID); err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}
