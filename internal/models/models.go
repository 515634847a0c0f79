package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	CourseTypeFree = "free"
	CourseTypePaid = "paid"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// QuizOptionCount is the fixed number of answer options per question.
const QuizOptionCount = 4

type User struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	FullName string `json:"full_name"`
	Password string `gorm:"not null" json:"-"`
	Role     string `gorm:"type:varchar(32);default:'user'" json:"role"`

	AvatarURL string `json:"avatar_url"`
}

// Course is a catalog entry. Type, PriceLabel and ButtonText are derived from
// Price once, at creation time, by DeriveCoursePricing.
type Course struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Title       string  `gorm:"not null" json:"title"`
	Description string  `gorm:"type:text" json:"description"`
	Price       float64 `gorm:"not null;default:0" json:"price"`
	PriceLabel  string  `json:"price_label"`
	Type        string  `gorm:"type:varchar(16);not null;index" json:"type"`
	ImageURL    string  `json:"image"`
	ButtonText  string  `json:"button_text"`
	PromoVideo  string  `json:"promo_video,omitempty"`
}

// Lesson belongs to a course. OrderIndex is assigned at creation and never
// renumbered on delete, so gaps in the sequence are expected.
type Lesson struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	CourseID    uint   `gorm:"not null;index;uniqueIndex:idx_lessons_course_order,priority:1" json:"course_id"`
	Title       string `gorm:"not null" json:"title"`
	Duration    string `json:"duration"`
	VideoURL    string `json:"video_url"`
	DocumentURL string `json:"document_url,omitempty"`
	ResourceURL string `json:"resource_url,omitempty"`
	OrderIndex  int    `gorm:"not null;uniqueIndex:idx_lessons_course_order,priority:2" json:"order_index"`
}

// QuizQuestion carries exactly four option strings and the index of the
// correct one.
type QuizQuestion struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	CourseID      uint        `gorm:"not null;index" json:"course_id"`
	Question      string      `gorm:"type:text;not null" json:"question"`
	Options       QuizOptions `gorm:"type:jsonb;not null" json:"options"`
	CorrectOption int         `gorm:"not null" json:"correct_option"`
}

// Enrollment records full paid access for a user/course pair. Created by the
// payment flow; its presence is what survives reloads and re-logins.
type Enrollment struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID   uint `gorm:"not null;index;uniqueIndex:idx_enrollments_user_course,priority:1" json:"user_id"`
	CourseID uint `gorm:"not null;index;uniqueIndex:idx_enrollments_user_course,priority:2" json:"course_id"`
}

// PaymentAttempt is the audit trail of gateway charges, successful or not.
// Every attempt carries a fresh reference id; retries are new rows.
type PaymentAttempt struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID      uint    `gorm:"not null;index" json:"user_id"`
	CourseID    uint    `gorm:"not null;index" json:"course_id"`
	Method      string  `gorm:"type:varchar(16);not null" json:"method"`
	Amount      float64 `gorm:"not null" json:"amount"`
	PhoneNumber string  `json:"phone_number"`
	ReferenceID string  `gorm:"type:varchar(64);index" json:"reference_id"`
	Success     bool    `gorm:"not null" json:"success"`
	Message     string  `json:"message"`
}
