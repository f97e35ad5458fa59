package main

import (
	"net/http"
	"strconv"

	"eventplanning/src/common"
	"eventplanning/src/db"
	"eventplanning/src/types"

	"github.com/gin-gonic/gin"
)

// guestEventHandlers covers the read-only event surface: anyone can browse
// published events and their ticket inventory.
func guestEventHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/events", func(ctx *gin.Context) {
			var query types.EventSearchQuery
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			events, total, err := common.SearchEvents(&query)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": events, "total": total, "page": query.Page, "size": query.Size})
		}).
		GET("/events/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			event, err := common.GetEvent(db.GetDb(), params.ID)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": event})
		}).
		GET("/events/:id/ticket-types", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ticketTypes, err := common.ListTicketTypes(params.ID)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": ticketTypes, "count": len(ticketTypes)})
		}).
		GET("/events/:id/reviews", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			reviews, err := common.ReviewsForEvent(params.ID)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": reviews, "count": len(reviews)})
		})
	return g
}

func eventHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/events", func(ctx *gin.Context) {
			var body types.EventRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			event, err := common.CreateEvent(principal(ctx), &body)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": event})
		}).
		GET("/events/mine", func(ctx *gin.Context) {
			events, err := common.MyEvents(principal(ctx))
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": events, "count": len(events)})
		}).
		PUT("/events/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.EventRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			event, err := common.UpdateEvent(principal(ctx), params.ID, &body)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": event})
		}).
		POST("/events/:id/publish", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			event, err := common.PublishEvent(principal(ctx), params.ID)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": event})
		}).
		DELETE("/events/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			p := principal(ctx)
			var err error
			if p.Role == types.ROLE_ADMIN {
				err = common.AdminDeleteEvent(p, params.ID)
			} else {
				err = common.CancelEvent(p, params.ID)
			}
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		POST("/events/:id/ticket-types", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.TicketTypeRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ticketType, err := common.CreateTicketType(principal(ctx), params.ID, &body)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": ticketType})
		}).
		DELETE("/events/:id/ticket-types/:ticketTypeId", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			atoi, err := strconv.Atoi(ctx.Params.ByName("ticketTypeId"))
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if err := common.DeleteTicketType(principal(ctx), params.ID, uint(atoi)); err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}
