package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"sort"
	"testing"
	"time"

	"eventplanning/src/common"
	"eventplanning/src/config"
	"eventplanning/src/db"
	"eventplanning/src/middlewares"
	"eventplanning/src/models"
	"eventplanning/src/types"
	"eventplanning/src/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/tidwall/gjson"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type TestSuite struct {
	suite.Suite
	DB     *gorm.DB
	Router *gin.Engine

	AdminToken     string
	OrganizerToken string
	UserToken      string
	OtherToken     string

	OrganizerID uint
	UserID      uint
	OtherID     uint
}

func (s *TestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET", "testing-secret")

	d, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening gorm database", err)
	}
	inner, err := d.DB()
	if err != nil {
		log.Fatalf("Error accessing inner db instance: %s\n", err.Error())
	}
	inner.SetMaxOpenConns(1)
	db.NewDB(d)
	s.DB = d

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
		log.Fatalf("error migration: %s", err.Error())
	}

	registerValidators()

	router := setupRouter()
	guestRoutes(router)
	authorized := router.Group(apiPrefix)
	authorized.Use(middlewares.AuthMiddleware)
	userHandlers(authorized)
	eventHandlers(authorized)
	bookingHandlers(authorized)
	paymentHandlers(authorized)
	vendorHandlers(authorized)
	venueHandlers(authorized)
	reviewHandlers(authorized)
	taskHandlers(authorized)
	notificationHandlers(authorized)
	s.Router = router

	s.AdminToken = s.seedUser("admin", "admin@example.com", types.ROLE_ADMIN, nil)
	s.OrganizerToken = s.seedUser("alice", "alice@example.com", types.ROLE_ORGANIZER, &s.OrganizerID)
	s.UserToken = s.seedUser("bob", "bob@example.com", types.ROLE_USER, &s.UserID)
	s.OtherToken = s.seedUser("carol", "carol@example.com", types.ROLE_USER, &s.OtherID)
}

func (s *TestSuite) TearDownSuite() {
	os.RemoveAll(config.SLIP_UPLOAD_DIR)
	os.RemoveAll("uploads")
	if inner, err := s.DB.DB(); err == nil {
		inner.Close()
	}
}

func (s *TestSuite) seedUser(username, email string, role types.UserRole, idOut *uint) string {
	user, err := common.RegisterUser(&types.RegisterUserRequestBody{
		Username: username,
		Email:    email,
		Password: "password123",
	})
	if err != nil {
		log.Fatalf("Could not create user due to error: %s\n", err.Error())
	}
	if role != types.ROLE_USER {
		if err := s.DB.Model(&models.User{}).Where("id = ?", user.ID).Update("role", role).Error; err != nil {
			log.Fatalf("Could not assign role: %s\n", err.Error())
		}
	}
	if idOut != nil {
		*idOut = user.ID
	}
	token, err := utils.GenerateJWT(user.ID, user.Username, role)
	if err != nil {
		log.Fatalf("Error generating JWT token: %s\n", err.Error())
	}
	return token
}

func (s *TestSuite) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		assert.Nil(s.T(), err)
		reader = bytes.NewReader(b)
	}
	req, _ := http.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	}
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)
	return w
}

func (s *TestSuite) uploadSlip(bookingID any, token, filename string, content []byte) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	assert.Nil(s.T(), err)
	fw.Write(content)
	mw.Close()

	req, _ := http.NewRequest("POST", fmt.Sprintf("/api/payments/bookings/%v/bank-transfer", bookingID), &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)
	return w
}

func futureTime(hours int) string {
	return time.Now().Add(time.Duration(hours) * time.Hour).UTC().Format(config.TIME_PARSE_FORMAT)
}

// newPublishedEvent drives the organizer flow over HTTP: draft, publish, one
// ticket type. Returns event and ticket type ids.
func (s *TestSuite) newPublishedEvent(name string, price float64, capacity int) (int64, int64) {
	w := s.do("POST", "/api/events", s.OrganizerToken, map[string]any{
		"name":        name,
		"description": "integration fixture",
		"location":    "Main Hall",
		"startTime":   futureTime(72),
		"endTime":     futureTime(76),
	})
	assert.Equal(s.T(), http.StatusCreated, w.Code)
	eventID := gjson.Get(w.Body.String(), "data.id").Int()
	assert.Equal(s.T(), "DRAFT", gjson.Get(w.Body.String(), "data.status").String())

	w = s.do("POST", fmt.Sprintf("/api/events/%d/publish", eventID), s.OrganizerToken, nil)
	assert.Equal(s.T(), http.StatusOK, w.Code)
	assert.Equal(s.T(), "PUBLISHED", gjson.Get(w.Body.String(), "data.status").String())

	w = s.do("POST", fmt.Sprintf("/api/events/%d/ticket-types", eventID), s.OrganizerToken, map[string]any{
		"name":     "Standard",
		"price":    price,
		"capacity": capacity,
	})
	assert.Equal(s.T(), http.StatusCreated, w.Code)
	ticketTypeID := gjson.Get(w.Body.String(), "data.id").Int()
	return eventID, ticketTypeID
}

func (s *TestSuite) book(token string, eventID, ticketTypeID int64, quantity int) *httptest.ResponseRecorder {
	return s.do("POST", "/api/bookings", token, map[string]any{
		"eventId":      eventID,
		"ticketTypeId": ticketTypeID,
		"quantity":     quantity,
	})
}

func (s *TestSuite) soldFor(eventID, ticketTypeID int64) int64 {
	w := s.do("GET", fmt.Sprintf("/api/events/%d/ticket-types", eventID), "", nil)
	assert.Equal(s.T(), http.StatusOK, w.Code)
	for _, tt := range gjson.Get(w.Body.String(), "data").Array() {
		if tt.Get("id").Int() == ticketTypeID {
			return tt.Get("sold").Int()
		}
	}
	return -1
}

func (s *TestSuite) TestPingRoute() {
	w := s.do("GET", "/", "", nil)
	assert.Equal(s.T(), 200, w.Code)

	w = s.do("GET", "/healthz", "", nil)
	assert.Equal(s.T(), 200, w.Code)
	assert.Equal(s.T(), "up", gjson.Get(w.Body.String(), "status").String())
}

func (s *TestSuite) TestAuthFlows() {
	s.Run("Should login with valid credentials", func() {
		w := s.do("POST", "/api/auth/login", "", map[string]any{
			"username": "bob",
			"password": "password123",
		})
		assert.Equal(s.T(), 200, w.Code)
		assert.NotEmpty(s.T(), gjson.Get(w.Body.String(), "token").String())
		assert.Equal(s.T(), "USER", gjson.Get(w.Body.String(), "role").String())
	})

	s.Run("Should reject a wrong password", func() {
		w := s.do("POST", "/api/auth/login", "", map[string]any{
			"username": "bob",
			"password": "wrong",
		})
		assert.Equal(s.T(), 401, w.Code)
		assert.Equal(s.T(), "invalid username or password", gjson.Get(w.Body.String(), "error").String())
	})

	s.Run("Should register a new user as guest", func() {
		w := s.do("POST", "/api/users", "", map[string]any{
			"username": "dana",
			"email":    "dana@example.com",
			"password": "password123",
		})
		assert.Equal(s.T(), 201, w.Code)
		assert.Equal(s.T(), "USER", gjson.Get(w.Body.String(), "data.role").String())
		assert.Empty(s.T(), gjson.Get(w.Body.String(), "data.password").String())
	})

	s.Run("Should reject a duplicate username", func() {
		w := s.do("POST", "/api/users", "", map[string]any{
			"username": "dana",
			"email":    "dana2@example.com",
			"password": "password123",
		})
		assert.Equal(s.T(), 409, w.Code)
		assert.Equal(s.T(), "username already exists", gjson.Get(w.Body.String(), "error").String())
	})

	s.Run("Should require a token on protected routes", func() {
		w := s.do("GET", "/api/bookings/mine", "", nil)
		assert.Equal(s.T(), 401, w.Code)
	})
}

func (s *TestSuite) TestEventLifecycle() {
	eventID, ticketTypeID := s.newPublishedEvent("Launch Party", 10.00, 5)

	s.Run("Should list the published event publicly", func() {
		w := s.do("GET", "/api/events?q=launch", "", nil)
		assert.Equal(s.T(), 200, w.Code)
		assert.GreaterOrEqual(s.T(), gjson.Get(w.Body.String(), "total").Int(), int64(1))
	})

	var bookingID int64
	s.Run("Should confirm a booking and snapshot the price", func() {
		w := s.book(s.UserToken, eventID, ticketTypeID, 3)
		assert.Equal(s.T(), 201, w.Code)
		bookingID = gjson.Get(w.Body.String(), "data.id").Int()
		assert.Equal(s.T(), "CONFIRMED", gjson.Get(w.Body.String(), "data.status").String())
		assert.Equal(s.T(), float64(30), gjson.Get(w.Body.String(), "data.totalPrice").Float())
		assert.Equal(s.T(), int64(3), s.soldFor(eventID, ticketTypeID))
	})

	var paymentID int64
	s.Run("Should open a pending payment from a slip upload", func() {
		w := s.uploadSlip(bookingID, s.UserToken, "slip.jpg", []byte("fake image bytes"))
		assert.Equal(s.T(), 201, w.Code)
		paymentID = gjson.Get(w.Body.String(), "data.id").Int()
		assert.Equal(s.T(), "PENDING", gjson.Get(w.Body.String(), "data.status").String())
		assert.Equal(s.T(), float64(30), gjson.Get(w.Body.String(), "data.amount").Float())
		assert.Equal(s.T(), "BANK_TRANSFER", gjson.Get(w.Body.String(), "data.method").String())
	})

	s.Run("Should reject a slip upload without a file", func() {
		w := s.do("POST", fmt.Sprintf("/api/payments/bookings/%d/bank-transfer", bookingID), s.UserToken, nil)
		assert.Equal(s.T(), 400, w.Code)
	})

	s.Run("Should approve the payment as admin", func() {
		w := s.do("POST", fmt.Sprintf("/api/payments/%d/approve", paymentID), s.AdminToken, nil)
		assert.Equal(s.T(), 200, w.Code)
		assert.Equal(s.T(), "APPROVED", gjson.Get(w.Body.String(), "data.status").String())

		w = s.do("GET", fmt.Sprintf("/api/bookings/%d", bookingID), s.UserToken, nil)
		assert.Equal(s.T(), 200, w.Code)
		assert.Equal(s.T(), "CONFIRMED", gjson.Get(w.Body.String(), "data.status").String())
	})

	s.Run("Should refuse to review the payment twice", func() {
		w := s.do("POST", fmt.Sprintf("/api/payments/%d/reject", paymentID), s.AdminToken, nil)
		assert.Equal(s.T(), 409, w.Code)
		assert.Equal(s.T(), "payment already reviewed", gjson.Get(w.Body.String(), "error").String())
	})

	s.Run("Should forbid payment review for a regular user", func() {
		w := s.do("POST", fmt.Sprintf("/api/payments/%d/approve", paymentID), s.UserToken, nil)
		assert.Equal(s.T(), 409, w.Code)
	})
}

func (s *TestSuite) TestBookingValidation() {
	eventID, ticketTypeID := s.newPublishedEvent("Small Venue Gig", 12.50, 5)

	s.Run("Should reject a zero quantity", func() {
		w := s.book(s.UserToken, eventID, ticketTypeID, 0)
		assert.Equal(s.T(), 400, w.Code)
		assert.Equal(s.T(), "quantity must be greater than zero", gjson.Get(w.Body.String(), "error").String())
	})

	s.Run("Should reject a quantity above capacity", func() {
		w := s.book(s.UserToken, eventID, ticketTypeID, 6)
		assert.Equal(s.T(), 409, w.Code)
		assert.Equal(s.T(), "not enough tickets available for this type", gjson.Get(w.Body.String(), "error").String())
		assert.Equal(s.T(), int64(0), s.soldFor(eventID, ticketTypeID))
	})

	s.Run("Should reject a booking against a foreign ticket type", func() {
		otherEventID, _ := s.newPublishedEvent("Unrelated Event", 5, 5)
		w := s.book(s.UserToken, otherEventID, ticketTypeID, 1)
		assert.Equal(s.T(), 409, w.Code)
		assert.Equal(s.T(), "ticket type does not belong to this event", gjson.Get(w.Body.String(), "error").String())
	})
}

func (s *TestSuite) TestBookingOwnership() {
	eventID, ticketTypeID := s.newPublishedEvent("Private Show", 20, 10)

	w := s.book(s.UserToken, eventID, ticketTypeID, 2)
	assert.Equal(s.T(), 201, w.Code)
	bookingID := gjson.Get(w.Body.String(), "data.id").Int()

	s.Run("Should hide the booking from another user", func() {
		w := s.do("GET", fmt.Sprintf("/api/bookings/%d", bookingID), s.OtherToken, nil)
		assert.Equal(s.T(), 409, w.Code)
		assert.Equal(s.T(), "you cannot view this booking", gjson.Get(w.Body.String(), "error").String())
	})

	s.Run("Should keep another user from paying for the booking", func() {
		w := s.uploadSlip(bookingID, s.OtherToken, "slip.jpg", []byte("someone else's money"))
		assert.Equal(s.T(), 409, w.Code)
		assert.Equal(s.T(), "you cannot pay for this booking", gjson.Get(w.Body.String(), "error").String())
	})

	s.Run("Should show the booking to an admin", func() {
		w := s.do("GET", fmt.Sprintf("/api/bookings/%d", bookingID), s.AdminToken, nil)
		assert.Equal(s.T(), 200, w.Code)
	})

	s.Run("Should list only own confirmed bookings", func() {
		w := s.do("GET", "/api/bookings/mine", s.OtherToken, nil)
		assert.Equal(s.T(), 200, w.Code)
		for _, b := range gjson.Get(w.Body.String(), "data").Array() {
			assert.Equal(s.T(), s.OtherID, uint(b.Get("userId").Uint()))
		}
	})
}

func (s *TestSuite) TestConcurrentBookingsOversell() {
	eventID, ticketTypeID := s.newPublishedEvent("Last Seats Rush", 18, 5)

	// Two buyers race for the same five seats; only one order can land.
	results := make(chan int, 2)
	for _, token := range []string{s.UserToken, s.OtherToken} {
		go func(token string) {
			w := s.book(token, eventID, ticketTypeID, 5)
			results <- w.Code
		}(token)
	}
	codes := []int{<-results, <-results}
	sort.Ints(codes)
	assert.Equal(s.T(), []int{201, 409}, codes)
	assert.Equal(s.T(), int64(5), s.soldFor(eventID, ticketTypeID))
}

func (s *TestSuite) TestCancelRestoresCapacity() {
	eventID, ticketTypeID := s.newPublishedEvent("Sold Out Night", 15, 5)

	w := s.book(s.UserToken, eventID, ticketTypeID, 5)
	assert.Equal(s.T(), 201, w.Code)
	bookingID := gjson.Get(w.Body.String(), "data.id").Int()

	w = s.book(s.OtherToken, eventID, ticketTypeID, 1)
	assert.Equal(s.T(), 409, w.Code)

	w = s.do("DELETE", fmt.Sprintf("/api/bookings/%d", bookingID), s.UserToken, nil)
	assert.Equal(s.T(), 204, w.Code)
	assert.Equal(s.T(), int64(0), s.soldFor(eventID, ticketTypeID))

	w = s.book(s.OtherToken, eventID, ticketTypeID, 5)
	assert.Equal(s.T(), 201, w.Code)

	s.Run("Should keep a cancelled booking cancelled", func() {
		w := s.do("PUT", fmt.Sprintf("/api/bookings/%d", bookingID), s.UserToken, map[string]any{"quantity": 1})
		assert.Equal(s.T(), 409, w.Code)
		assert.Equal(s.T(), "cannot update a cancelled booking", gjson.Get(w.Body.String(), "error").String())
	})
}

func (s *TestSuite) TestPriceSnapshotSurvivesRepricing() {
	eventID, ticketTypeID := s.newPublishedEvent("Reprice Fest", 10, 20)

	w := s.book(s.UserToken, eventID, ticketTypeID, 2)
	assert.Equal(s.T(), 201, w.Code)
	bookingID := gjson.Get(w.Body.String(), "data.id").Int()
	assert.Equal(s.T(), float64(20), gjson.Get(w.Body.String(), "data.totalPrice").Float())

	err := s.DB.Model(&models.TicketType{}).Where("id = ?", ticketTypeID).Update("price", "25.50").Error
	assert.Nil(s.T(), err)

	w = s.do("GET", fmt.Sprintf("/api/bookings/%d", bookingID), s.UserToken, nil)
	assert.Equal(s.T(), 200, w.Code)
	assert.Equal(s.T(), float64(20), gjson.Get(w.Body.String(), "data.totalPrice").Float())

	w = s.book(s.OtherToken, eventID, ticketTypeID, 1)
	assert.Equal(s.T(), 201, w.Code)
	assert.Equal(s.T(), 25.5, gjson.Get(w.Body.String(), "data.totalPrice").Float())
}

func (s *TestSuite) TestRejectedPaymentCancelsBooking() {
	eventID, ticketTypeID := s.newPublishedEvent("Strict Review", 8, 10)

	w := s.book(s.UserToken, eventID, ticketTypeID, 4)
	assert.Equal(s.T(), 201, w.Code)
	bookingID := gjson.Get(w.Body.String(), "data.id").Int()

	w = s.uploadSlip(bookingID, s.UserToken, "proof.png", []byte("pixels"))
	assert.Equal(s.T(), 201, w.Code)
	paymentID := gjson.Get(w.Body.String(), "data.id").Int()

	w = s.do("POST", fmt.Sprintf("/api/payments/%d/reject", paymentID), s.AdminToken, nil)
	assert.Equal(s.T(), 200, w.Code)
	assert.Equal(s.T(), "REJECTED", gjson.Get(w.Body.String(), "data.status").String())

	var booking models.Booking
	assert.Nil(s.T(), s.DB.First(&booking, bookingID).Error)
	assert.Equal(s.T(), types.BOOKING_CANCELED, booking.Status)
	assert.Equal(s.T(), int64(0), s.soldFor(eventID, ticketTypeID))
}

func (s *TestSuite) TestPasswordReset() {
	_ = s.seedUser("erin", "erin@example.com", types.ROLE_USER, nil)

	token, err := common.RequestPasswordReset("erin@example.com")
	assert.Nil(s.T(), err)
	assert.NotEmpty(s.T(), token)

	w := s.do("POST", "/api/auth/reset-password", "", map[string]any{
		"token":       token,
		"newPassword": "freshpassword",
	})
	assert.Equal(s.T(), 200, w.Code)

	w = s.do("POST", "/api/auth/login", "", map[string]any{
		"username": "erin",
		"password": "freshpassword",
	})
	assert.Equal(s.T(), 200, w.Code)

	s.Run("Should burn the token after one use", func() {
		w := s.do("POST", "/api/auth/reset-password", "", map[string]any{
			"token":       token,
			"newPassword": "anotherpassword",
		})
		assert.Equal(s.T(), 409, w.Code)
		assert.Equal(s.T(), "invalid or expired token", gjson.Get(w.Body.String(), "error").String())
	})

	s.Run("Should always accept forgot-password requests", func() {
		w := s.do("POST", "/api/auth/forgot-password", "", map[string]any{
			"email": "unknown@example.com",
		})
		assert.Equal(s.T(), 200, w.Code)
	})
}

func (s *TestSuite) TestPaymentSummary() {
	s.Run("Should serve the summary to an admin", func() {
		w := s.do("GET", "/api/payments/summary", s.AdminToken, nil)
		assert.Equal(s.T(), 200, w.Code)
		body := w.Body.String()
		assert.True(s.T(), gjson.Get(body, "data.pending").Exists())
		assert.True(s.T(), gjson.Get(body, "data.approved").Exists())
		assert.True(s.T(), gjson.Get(body, "data.rejected").Exists())
		assert.True(s.T(), gjson.Get(body, "data.totalRevenue").Exists())
	})

	s.Run("Should refuse the summary for a regular user", func() {
		w := s.do("GET", "/api/payments/summary", s.UserToken, nil)
		assert.Equal(s.T(), 409, w.Code)
	})
}

func (s *TestSuite) TestVendorsAndVenues() {
	w := s.do("POST", "/api/vendors", s.OtherToken, map[string]any{
		"name":     "Catering Plus",
		"category": "catering",
		"email":    "hello@cateringplus.example",
	})
	assert.Equal(s.T(), 201, w.Code)
	vendorID := gjson.Get(w.Body.String(), "data.id").Int()
	assert.False(s.T(), gjson.Get(w.Body.String(), "data.approved").Bool())

	s.Run("Should let only admins approve vendors", func() {
		w := s.do("POST", fmt.Sprintf("/api/vendors/%d/approve", vendorID), s.OtherToken, nil)
		assert.Equal(s.T(), 409, w.Code)

		w = s.do("POST", fmt.Sprintf("/api/vendors/%d/approve", vendorID), s.AdminToken, nil)
		assert.Equal(s.T(), 200, w.Code)
		assert.True(s.T(), gjson.Get(w.Body.String(), "data.approved").Bool())
	})

	s.Run("Should find vendors by name", func() {
		w := s.do("GET", "/api/vendors?q=catering", s.UserToken, nil)
		assert.Equal(s.T(), 200, w.Code)
		assert.GreaterOrEqual(s.T(), gjson.Get(w.Body.String(), "count").Int(), int64(1))
	})

	w = s.do("POST", "/api/venues", s.OrganizerToken, map[string]any{
		"name":     "Riverside Hall",
		"address":  "1 River Road",
		"capacity": 300,
	})
	assert.Equal(s.T(), 201, w.Code)
	venueID := gjson.Get(w.Body.String(), "data.id").Int()

	s.Run("Should restrict venue updates to admins", func() {
		body := map[string]any{
			"name":     "Riverside Hall",
			"address":  "1 River Road",
			"capacity": 350,
		}
		w := s.do("PUT", fmt.Sprintf("/api/venues/%d", venueID), s.OrganizerToken, body)
		assert.Equal(s.T(), 409, w.Code)
		assert.Equal(s.T(), "not allowed to update venues", gjson.Get(w.Body.String(), "error").String())

		w = s.do("PUT", fmt.Sprintf("/api/venues/%d", venueID), s.AdminToken, body)
		assert.Equal(s.T(), 200, w.Code)
		assert.Equal(s.T(), int64(350), gjson.Get(w.Body.String(), "data.capacity").Int())
	})

	s.Run("Should restrict venue deletion to admins", func() {
		w := s.do("DELETE", fmt.Sprintf("/api/venues/%d", venueID), s.UserToken, nil)
		assert.Equal(s.T(), 409, w.Code)

		w = s.do("DELETE", fmt.Sprintf("/api/venues/%d", venueID), s.AdminToken, nil)
		assert.Equal(s.T(), 204, w.Code)
	})
}

func (s *TestSuite) TestReviews() {
	eventID, _ := s.newPublishedEvent("Reviewed Concert", 30, 50)

	w := s.do("POST", "/api/reviews", s.UserToken, map[string]any{
		"eventId": eventID,
		"rating":  5,
		"comment": "great show",
	})
	assert.Equal(s.T(), 201, w.Code)
	reviewID := gjson.Get(w.Body.String(), "data.id").Int()

	s.Run("Should reject an out-of-range rating", func() {
		w := s.do("POST", "/api/reviews", s.UserToken, map[string]any{
			"eventId": eventID,
			"rating":  7,
		})
		assert.Equal(s.T(), 400, w.Code)
	})

	s.Run("Should list event reviews publicly", func() {
		w := s.do("GET", fmt.Sprintf("/api/events/%d/reviews", eventID), "", nil)
		assert.Equal(s.T(), 200, w.Code)
		assert.GreaterOrEqual(s.T(), gjson.Get(w.Body.String(), "count").Int(), int64(1))
	})

	s.Run("Should keep other users from editing a review", func() {
		w := s.do("PUT", fmt.Sprintf("/api/reviews/%d", reviewID), s.OtherToken, map[string]any{
			"eventId": eventID,
			"rating":  1,
		})
		assert.Equal(s.T(), 409, w.Code)
	})

	s.Run("Should let the author delete the review", func() {
		w := s.do("DELETE", fmt.Sprintf("/api/reviews/%d", reviewID), s.UserToken, nil)
		assert.Equal(s.T(), 204, w.Code)
	})
}

func (s *TestSuite) TestTasks() {
	eventID, _ := s.newPublishedEvent("Task Heavy Gala", 40, 100)

	w := s.do("POST", "/api/tasks", s.OrganizerToken, map[string]any{
		"title":            "Book the caterer",
		"eventId":          eventID,
		"assignedToUserId": s.UserID,
		"dueDate":          futureTime(48),
	})
	assert.Equal(s.T(), 201, w.Code)
	taskID := gjson.Get(w.Body.String(), "data.id").Int()
	assert.Equal(s.T(), "TODO", gjson.Get(w.Body.String(), "data.status").String())

	s.Run("Should let the assignee move the task forward", func() {
		w := s.do("PUT", fmt.Sprintf("/api/tasks/%d/status", taskID), s.UserToken, map[string]any{
			"status": "IN_PROGRESS",
		})
		assert.Equal(s.T(), 200, w.Code)
		assert.Equal(s.T(), "IN_PROGRESS", gjson.Get(w.Body.String(), "data.status").String())
	})

	s.Run("Should keep outsiders from touching the task", func() {
		w := s.do("PUT", fmt.Sprintf("/api/tasks/%d/status", taskID), s.OtherToken, map[string]any{
			"status": "DONE",
		})
		assert.Equal(s.T(), 409, w.Code)
	})

	s.Run("Should list event tasks for the organizer", func() {
		w := s.do("GET", fmt.Sprintf("/api/events/%d/tasks", eventID), s.OrganizerToken, nil)
		assert.Equal(s.T(), 200, w.Code)
		assert.GreaterOrEqual(s.T(), gjson.Get(w.Body.String(), "count").Int(), int64(1))
	})

	s.Run("Should list assigned tasks for the assignee", func() {
		w := s.do("GET", "/api/tasks/mine", s.UserToken, nil)
		assert.Equal(s.T(), 200, w.Code)
		found := false
		for _, task := range gjson.Get(w.Body.String(), "data").Array() {
			if task.Get("id").Int() == taskID {
				found = true
			}
		}
		assert.True(s.T(), found)
	})

	s.Run("Should let the organizer delete the task", func() {
		w := s.do("DELETE", fmt.Sprintf("/api/tasks/%d", taskID), s.OrganizerToken, nil)
		assert.Equal(s.T(), 204, w.Code)
	})
}

func (s *TestSuite) TestNotifications() {
	w := s.do("POST", "/api/notifications", s.AdminToken, map[string]any{
		"username": "carol",
		"title":    "Venue changed",
		"message":  "The gala moved to Riverside Hall",
		"type":     "GENERAL",
	})
	assert.Equal(s.T(), 201, w.Code)
	notificationID := gjson.Get(w.Body.String(), "data.id").Int()

	s.Run("Should deny notification creation to non-admins", func() {
		w := s.do("POST", "/api/notifications", s.UserToken, map[string]any{
			"username": "carol",
			"title":    "Spam",
			"message":  "Spam",
		})
		assert.Equal(s.T(), 409, w.Code)
	})

	s.Run("Should surface the notification to its recipient", func() {
		w := s.do("GET", "/api/notifications?unread=true", s.OtherToken, nil)
		assert.Equal(s.T(), 200, w.Code)
		assert.GreaterOrEqual(s.T(), gjson.Get(w.Body.String(), "count").Int(), int64(1))

		w = s.do("GET", "/api/notifications/unread-count", s.OtherToken, nil)
		assert.Equal(s.T(), 200, w.Code)
		assert.GreaterOrEqual(s.T(), gjson.Get(w.Body.String(), "data.count").Int(), int64(1))
	})

	s.Run("Should mark the notification read", func() {
		w := s.do("PUT", fmt.Sprintf("/api/notifications/%d/read", notificationID), s.OtherToken, nil)
		assert.Equal(s.T(), 204, w.Code)
	})

	s.Run("Should broadcast to everyone as admin", func() {
		w := s.do("POST", "/api/notifications/broadcast", s.AdminToken, map[string]any{
			"username": "everyone",
			"title":    "Maintenance window",
			"message":  "Short downtime tonight",
		})
		assert.Equal(s.T(), 202, w.Code)
	})

	s.Run("Should let an admin delete any notification", func() {
		w := s.do("DELETE", fmt.Sprintf("/api/notifications/%d", notificationID), s.AdminToken, nil)
		assert.Equal(s.T(), 204, w.Code)
	})
}

func (s *TestSuite) TestEventDeleteCascades() {
	eventID, ticketTypeID := s.newPublishedEvent("Doomed Event", 10, 10)

	w := s.book(s.UserToken, eventID, ticketTypeID, 2)
	assert.Equal(s.T(), 201, w.Code)
	bookingID := gjson.Get(w.Body.String(), "data.id").Int()

	w = s.uploadSlip(bookingID, s.UserToken, "slip.jpg", []byte("bytes"))
	assert.Equal(s.T(), 201, w.Code)

	s.Run("Should keep other organizers out", func() {
		w := s.do("DELETE", fmt.Sprintf("/api/events/%d", eventID), s.OtherToken, nil)
		assert.Equal(s.T(), 409, w.Code)
	})

	w = s.do("DELETE", fmt.Sprintf("/api/events/%d", eventID), s.OrganizerToken, nil)
	assert.Equal(s.T(), 204, w.Code)

	var count int64
	s.DB.Model(&models.Event{}).Where("id = ?", eventID).Count(&count)
	assert.Equal(s.T(), int64(0), count)
	s.DB.Model(&models.Booking{}).Where("event_id = ?", eventID).Count(&count)
	assert.Equal(s.T(), int64(0), count)
	s.DB.Model(&models.TicketType{}).Where("event_id = ?", eventID).Count(&count)
	assert.Equal(s.T(), int64(0), count)
	s.DB.Model(&models.Payment{}).Where("event_id = ?", eventID).Count(&count)
	assert.Equal(s.T(), int64(0), count)
}

func (s *TestSuite) TestEventValidation() {
	s.Run("Should reject a past start time", func() {
		w := s.do("POST", "/api/events", s.OrganizerToken, map[string]any{
			"name":        "Time Traveler",
			"description": "already happened",
			"location":    "Nowhere",
			"startTime":   time.Now().Add(-48 * time.Hour).UTC().Format(config.TIME_PARSE_FORMAT),
			"endTime":     futureTime(4),
		})
		assert.Equal(s.T(), 400, w.Code)
	})

	s.Run("Should reject an end time before the start", func() {
		w := s.do("POST", "/api/events", s.OrganizerToken, map[string]any{
			"name":        "Backwards",
			"description": "ends before it begins",
			"location":    "Nowhere",
			"startTime":   futureTime(76),
			"endTime":     futureTime(72),
		})
		assert.Equal(s.T(), 400, w.Code)
	})

	s.Run("Should keep a foreign organizer from editing", func() {
		eventID, _ := s.newPublishedEvent("Owned Event", 10, 5)
		w := s.do("PUT", fmt.Sprintf("/api/events/%d", eventID), s.OtherToken, map[string]any{
			"name":        "Hijacked",
			"description": "nope",
			"location":    "Elsewhere",
			"startTime":   futureTime(72),
			"endTime":     futureTime(76),
		})
		assert.Equal(s.T(), 409, w.Code)
		assert.Equal(s.T(), "not allowed to edit this event", gjson.Get(w.Body.String(), "error").String())
	})
}

func TestRunner(t *testing.T) {
	suite.Run(t, new(TestSuite))
}
