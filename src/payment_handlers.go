package main

import (
	"errors"
	"net/http"
	"strconv"

	"eventplanning/src/common"
	"eventplanning/src/db"
	"eventplanning/src/lib"
	"eventplanning/src/models"
	"eventplanning/src/types"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func paymentHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/payments/bookings/:bookingId/bank-transfer", func(ctx *gin.Context) {
			atoi, err := strconv.Atoi(ctx.Params.ByName("bookingId"))
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			fileHeader, err := ctx.FormFile("file")
			if err != nil || fileHeader.Size == 0 {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "payment slip file is required"})
				return
			}
			file, err := fileHeader.Open()
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			defer file.Close()
			payment, err := common.UploadSlip(principal(ctx), uint(atoi), fileHeader.Filename, file)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": payment})
		}).
		POST("/payments/:id/approve", func(ctx *gin.Context) {
			reviewPayment(ctx, true)
		}).
		POST("/payments/:id/reject", func(ctx *gin.Context) {
			reviewPayment(ctx, false)
		}).
		GET("/payments", func(ctx *gin.Context) {
			status := types.PaymentStatus(ctx.Query("status"))
			payments, err := common.ListPayments(principal(ctx), status)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": payments, "count": len(payments)})
		}).
		GET("/payments/mine", func(ctx *gin.Context) {
			payments, err := common.MyPayments(principal(ctx))
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": payments, "count": len(payments)})
		}).
		GET("/payments/summary", func(ctx *gin.Context) {
			summary, err := common.PaymentSummaryReport(principal(ctx))
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": summary})
		}).
		GET("/payments/:id/slip", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			p := principal(ctx)
			var payment models.Payment
			if err := db.GetDb().First(&payment, params.ID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					abortWithError(ctx, errors.New("payment not found"))
					return
				}
				abortWithError(ctx, err)
				return
			}
			if !common.Allowed(p, common.ActionViewBooking, payment.PayerID) {
				abortWithError(ctx, errors.New("you cannot view this payment slip"))
				return
			}
			url, err := lib.SlipURL(payment.SlipPath)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": gin.H{"url": url}})
		})
	return g
}

func reviewPayment(ctx *gin.Context, approve bool) {
	var params types.SimpleRequestParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	payment, err := common.ReviewPayment(principal(ctx), params.ID, approve)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": payment})
}
