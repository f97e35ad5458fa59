package main

import (
	"net/http"

	"eventplanning/src/common"
	"eventplanning/src/types"

	"github.com/gin-gonic/gin"
)

func reviewHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/reviews", func(ctx *gin.Context) {
			var body types.ReviewRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			review, err := common.CreateReview(principal(ctx), &body)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": review})
		}).
		PUT("/reviews/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.ReviewRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			review, err := common.UpdateReview(principal(ctx), params.ID, &body)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": review})
		}).
		DELETE("/reviews/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if err := common.DeleteReview(principal(ctx), params.ID); err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}
