package types

import (
	"time"
)

type Timestamps struct {
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt,omitempty"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt,omitempty"`
}

type UserRole string

const (
	ROLE_USER      UserRole = "USER"
	ROLE_ORGANIZER UserRole = "ORGANIZER"
	ROLE_VENDOR    UserRole = "VENDOR"
	ROLE_ADMIN     UserRole = "ADMIN"
)

type EventStatus string

const (
	EVENT_DRAFT     EventStatus = "DRAFT"
	EVENT_PUBLISHED EventStatus = "PUBLISHED"
)

type BookingStatus string

const (
	BOOKING_CONFIRMED BookingStatus = "CONFIRMED"
	BOOKING_CANCELED  BookingStatus = "CANCELLED"
)

type PaymentStatus string

const (
	PAYMENT_PENDING  PaymentStatus = "PENDING"
	PAYMENT_APPROVED PaymentStatus = "APPROVED"
	PAYMENT_REJECTED PaymentStatus = "REJECTED"
)

type PaymentMethod string

const (
	PAYMENT_BANK_TRANSFER PaymentMethod = "BANK_TRANSFER"
)

type TaskStatus string

const (
	TASK_TODO        TaskStatus = "TODO"
	TASK_IN_PROGRESS TaskStatus = "IN_PROGRESS"
	TASK_DONE        TaskStatus = "DONE"
)

type NotificationType string

const (
	NOTIFICATION_GENERAL NotificationType = "GENERAL"
	NOTIFICATION_BOOKING NotificationType = "BOOKING"
	NOTIFICATION_PAYMENT NotificationType = "PAYMENT"
	NOTIFICATION_TASK    NotificationType = "TASK"
)

type NotificationStatus string

const (
	NOTIFICATION_UNREAD   NotificationStatus = "UNREAD"
	NOTIFICATION_READ     NotificationStatus = "READ"
	NOTIFICATION_ARCHIVED NotificationStatus = "ARCHIVED"
)

// Principal identifies the authenticated caller. Core operations take it
// explicitly instead of reading ambient request state.
type Principal struct {
	ID       uint
	Username string
	Role     UserRole
}

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type LoginRequestBody struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterUserRequestBody struct {
	Username string   `json:"username" binding:"required,max=50"`
	Email    string   `json:"email" binding:"required,email,max=100"`
	Password string   `json:"password" binding:"required,max=255"`
	Role     UserRole `json:"role,omitempty"`
}

type UpdateUserRequestBody struct {
	Email    *string   `json:"email,omitempty" binding:"omitempty,email"`
	Password *string   `json:"password,omitempty"`
	Role     *UserRole `json:"role,omitempty"`
}

type ChangePasswordRequestBody struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

type ForgotPasswordRequestBody struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequestBody struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

type EventRequestBody struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"required,max=500"`
	Location    string `json:"location" binding:"required,max=200"`
	StartTime   string `json:"startTime" binding:"required,eventdate"`
	EndTime     string `json:"endTime" binding:"required,eventdate,gtdate=StartTime"`
}

type EventSearchQuery struct {
	Q     string `form:"q"`
	Scope string `form:"scope" binding:"omitempty,oneof=upcoming past"`
	Page  int    `form:"page,default=0" binding:"min=0"`
	Size  int    `form:"size,default=10" binding:"min=1,max=100"`
}

type TicketTypeRequestBody struct {
	Name     string  `json:"name" binding:"required,max=100"`
	Price    float64 `json:"price" binding:"min=0"`
	Capacity int     `json:"capacity" binding:"required,min=1"`
}

type BookingRequestBody struct {
	EventID      uint `json:"eventId" binding:"required"`
	TicketTypeID uint `json:"ticketTypeId" binding:"required"`
	Quantity     int  `json:"quantity"`
}

type UpdateBookingRequestBody struct {
	Quantity int `json:"quantity"`
}

type VendorRequestBody struct {
	Name        string `json:"name" binding:"required,max=150"`
	Category    string `json:"category" binding:"required,max=100"`
	Address     string `json:"address,omitempty" binding:"max=300"`
	Email       string `json:"email,omitempty" binding:"omitempty,email,max=120"`
	Phone       string `json:"phone,omitempty" binding:"max=40"`
	Description string `json:"description,omitempty" binding:"max=1000"`
}

type VenueRequestBody struct {
	Name        string `json:"name" binding:"required,max=150"`
	Address     string `json:"address" binding:"required,max=300"`
	Description string `json:"description,omitempty" binding:"max=1000"`
	Capacity    int    `json:"capacity,omitempty" binding:"omitempty,min=1"`
}

type ReviewRequestBody struct {
	EventID  *uint  `json:"eventId,omitempty"`
	VendorID *uint  `json:"vendorId,omitempty"`
	Rating   int    `json:"rating" binding:"required,min=1,max=5"`
	Comment  string `json:"comment,omitempty" binding:"max=1000"`
}

type TaskRequestBody struct {
	Title            string  `json:"title" binding:"required,max=200"`
	Description      string  `json:"description,omitempty" binding:"max=1000"`
	DueDate          *string `json:"dueDate,omitempty"`
	AssignedToUserID *uint   `json:"assignedToUserId,omitempty"`
	EventID          uint    `json:"eventId" binding:"required"`
}

type UpdateTaskStatusRequestBody struct {
	Status TaskStatus `json:"status" binding:"required,oneof=TODO IN_PROGRESS DONE"`
}

type NotificationRequestBody struct {
	Username string           `json:"username" binding:"required"`
	Title    string           `json:"title" binding:"required,max=200"`
	Message  string           `json:"message" binding:"required,max=1000"`
	Type     NotificationType `json:"type,omitempty"`
}

type PaymentSummary struct {
	Pending      int64   `json:"pending"`
	Approved     int64   `json:"approved"`
	Rejected     int64   `json:"rejected"`
	TotalRevenue float64 `json:"totalRevenue"`
}
