package main

import (
	"net/http"

	"eventplanning/src/common"
	"eventplanning/src/types"

	"github.com/gin-gonic/gin"
)

func bookingHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/bookings", func(ctx *gin.Context) {
			var body types.BookingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			booking, err := common.CreateBooking(principal(ctx), &body)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": booking})
		}).
		GET("/bookings/mine", func(ctx *gin.Context) {
			bookings, err := common.MyBookings(principal(ctx))
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": bookings, "count": len(bookings)})
		}).
		GET("/bookings", func(ctx *gin.Context) {
			bookings, err := common.AllBookings(principal(ctx))
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": bookings, "count": len(bookings)})
		}).
		GET("/bookings/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			booking, err := common.GetBooking(principal(ctx), params.ID)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		}).
		PUT("/bookings/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.UpdateBookingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			booking, err := common.UpdateBooking(principal(ctx), params.ID, body.Quantity)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		}).
		DELETE("/bookings/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if err := common.CancelBooking(principal(ctx), params.ID); err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}
