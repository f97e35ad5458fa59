package main

import (
	"io"
	"log"
	"net/http"
	"os"
	"path"
	"regexp"
	"time"

	"eventplanning/src/common"
	"eventplanning/src/config"
	"eventplanning/src/controllers"
	"eventplanning/src/db"
	"eventplanning/src/lib"
	"eventplanning/src/middlewares"
	"eventplanning/src/models"
	"eventplanning/src/types"

	"github.com/covalenthq/lumberjack"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	apiPrefix string = "/api"
)

var eventDateValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(string)
	datetime, err := time.Parse(config.TIME_PARSE_FORMAT, date)
	if err != nil {
		return false
	}
	if ok {
		today := time.Now()
		if today.After(datetime) {
			return false
		}
	}
	return true
}

var gtfield validator.Func = func(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(string)
	datetime, err := time.Parse(config.TIME_PARSE_FORMAT, date)
	if err != nil {
		return false
	}
	field := fl.Parent().FieldByName(fl.Param())
	fieldValue := field.Interface().(string)
	fielddatetime, err := time.Parse(config.TIME_PARSE_FORMAT, fieldValue)
	if err != nil {
		return false
	}
	if ok {
		if fielddatetime.After(datetime) {
			return false
		}
	}
	return true
}

// principal reconstructs the authenticated caller from the context values the
// auth middleware sets.
func principal(ctx *gin.Context) types.Principal {
	role, _ := ctx.MustGet("role").(types.UserRole)
	return types.Principal{
		ID:       ctx.GetUint("id"),
		Username: ctx.GetString("username"),
		Role:     role,
	}
}

func abortWithError(ctx *gin.Context, err error) {
	ctx.JSON(common.HTTPStatus(err), gin.H{"error": err.Error()})
}

func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("eventdate", eventDateValidatorFunc)
		v.RegisterValidation("gtdate", gtfield)
	}
}

func migrateModels() {
	d := db.GetDb()
	if err := d.AutoMigrate(
		&models.User{},
		&models.PasswordResetToken{},
		&models.Event{},
		&models.TicketType{},
		&models.Booking{},
		&models.Payment{},
		&models.Vendor{},
		&models.Venue{},
		&models.Review{},
		&models.Task{},
		&models.Notification{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %s", err)
	}
}

func setupRouter() *gin.Engine {
	router := gin.Default()
	router.Use(middlewares.SecureHeaders)
	router.Use(middlewares.MetricsMiddleware)
	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, "ok")
	})
	router.GET("/healthz", func(ctx *gin.Context) {
		sql, err := db.GetDb().DB()
		if err == nil {
			err = sql.Ping()
		}
		if err != nil {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "error": err.Error()})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"status": "up"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return router
}

func guestRoutes(g *gin.Engine) *gin.RouterGroup {
	api := g.Group(apiPrefix)

	auth := api.Group("/auth")
	auth.
		POST("/login", func(ctx *gin.Context) {
			token, role, status, err := controllers.AuthLogin(ctx)
			if err != nil {
				log.Printf("[AuthLogin] error: %s\n", err.Error())
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"token": token, "role": role})
		}).
		POST("/forgot-password", func(ctx *gin.Context) {
			status, err := controllers.AuthForgotPassword(ctx)
			if err != nil {
				log.Printf("[AuthForgotPassword] error: %s\n", err.Error())
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": "if the email exists, a reset token has been sent"})
		}).
		POST("/reset-password", func(ctx *gin.Context) {
			status, err := controllers.AuthResetPassword(ctx)
			if err != nil {
				log.Printf("[AuthResetPassword] error: %s\n", err.Error())
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": "password has been reset"})
		})

	guestUserHandlers(api)
	guestEventHandlers(api)
	return api
}

func initLogger() {
	cwd, _ := os.Getwd()
	serverLogs := path.Join(cwd, "logs", "server.log")
	apiLogs := path.Join(cwd, "logs", "api.log")
	gin.ForceConsoleColor()

	f, _ := os.Create(apiLogs)
	gin.DefaultWriter = io.MultiWriter(f, os.Stdout)
	log.SetOutput(&lumberjack.Logger{
		Filename:   serverLogs,
		MaxSize:    500,
		MaxBackups: 3,
		MaxAge:     30,
		Compress:   true,
	})
}

func startScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Printf("Scheduler unavailable: %s\n", err.Error())
		return
	}
	if _, err := lib.CreateCronJob(common.PurgeExpiredResetTokens, 5*time.Minute); err != nil {
		log.Printf("Could not register reset token purge job: %s\n", err.Error())
	}
	sched.Start()
}

func main() {
	apiEnv := os.Getenv("API_ENV")
	if apiEnv == "local" {
		cwd, _ := os.Getwd()
		if err := godotenv.Load(path.Join(cwd, ".env")); err != nil {
			panic(err)
		}
	}
	initLogger()

	migrateModels()
	startScheduler()

	router := setupRouter()

	appHost := os.Getenv("APP_HOST")
	if apiEnv == "local" {
		router.Use(cors.Default())
	} else {
		cc := cors.DefaultConfig()
		cc.AllowMethods = append(cc.AllowMethods, "GET", "POST", "PATCH", "PUT", "DELETE", "HEAD")
		cc.AllowHeaders = append(cc.AllowHeaders, "Origin", "Authorization")
		cc.AllowOriginFunc = func(origin string) bool {
			match, _ := regexp.MatchString(appHost, origin)
			return match
		}
		cc.AllowCredentials = true
		cc.AllowAllOrigins = false
		router.Use(cors.New(cc))
	}

	registerValidators()

	guestRoutes(router)

	authorized := router.Group(apiPrefix)
	authorized.Use(middlewares.AuthMiddleware)
	{
		authorized = userHandlers(authorized)
		authorized = eventHandlers(authorized)
		authorized = bookingHandlers(authorized)
		authorized = paymentHandlers(authorized)
		authorized = vendorHandlers(authorized)
		authorized = venueHandlers(authorized)
		authorized = reviewHandlers(authorized)
		authorized = taskHandlers(authorized)
		authorized = notificationHandlers(authorized)
	}

	if err := router.Run(":9090"); err != nil {
		log.Fatalf("Failed to start server: %s", err)
	}
}
