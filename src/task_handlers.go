package main

import (
	"net/http"

	"eventplanning/src/common"
	"eventplanning/src/types"

	"github.com/gin-gonic/gin"
)

func taskHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/tasks", func(ctx *gin.Context) {
			var body types.TaskRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			task, err := common.CreateTask(principal(ctx), &body)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": task})
		}).
		GET("/tasks/mine", func(ctx *gin.Context) {
			tasks, err := common.MyTasks(principal(ctx))
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": tasks, "count": len(tasks)})
		}).
		GET("/tasks", func(ctx *gin.Context) {
			if q := ctx.Query("q"); q != "" {
				tasks, err := common.SearchTasks(q)
				if err != nil {
					abortWithError(ctx, err)
					return
				}
				ctx.JSON(http.StatusOK, gin.H{"data": tasks, "count": len(tasks)})
				return
			}
			tasks, err := common.AllTasks(principal(ctx))
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": tasks, "count": len(tasks)})
		}).
		GET("/events/:id/tasks", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			tasks, err := common.TasksByEvent(principal(ctx), params.ID)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": tasks, "count": len(tasks)})
		}).
		PUT("/tasks/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.TaskRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			task, err := common.UpdateTask(principal(ctx), params.ID, &body)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": task})
		}).
		PUT("/tasks/:id/status", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.UpdateTaskStatusRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			task, err := common.UpdateTaskStatus(principal(ctx), params.ID, types.TaskStatus(body.Status))
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": task})
		}).
		DELETE("/tasks/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if err := common.DeleteTask(principal(ctx), params.ID); err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}
