package models

// RequestCodeRequest starts the two-phase sign-up by mailing a one-time code.
type RequestCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// SignUpRequest completes sign-up: the emailed code plus the chosen password.
type SignUpRequest struct {
	FullName        string `json:"full_name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	Code            string `json:"code" binding:"required"`
	// PendingCourseID carries the course the visitor picked before the auth
	// modal opened, so the flow can resume there.
	PendingCourseID uint `json:"pending_course_id"`
}

type LoginRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	PendingCourseID uint   `json:"pending_course_id"`
}

type UpdateProfileRequest struct {
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
}

// CreateCourseRequest carries only the raw price; type, price label and
// button text are derived server-side.
type CreateCourseRequest struct {
	Title       string  `json:"title" binding:"required,no_html"`
	Description string  `json:"description" binding:"required"`
	Price       float64 `json:"price" binding:"gte=0"`
	ImageURL    string  `json:"image"`
	PromoVideo  string  `json:"promo_video"`
	ButtonText  string  `json:"button_text"`
}

type CreateLessonRequest struct {
	Title       string `json:"title" binding:"required,no_html"`
	Duration    string `json:"duration"`
	VideoURL    string `json:"video_url" binding:"required"`
	DocumentURL string `json:"document_url"`
	ResourceURL string `json:"resource_url"`
}

type CreateQuizQuestionRequest struct {
	Question      string   `json:"question" binding:"required"`
	Options       []string `json:"options" binding:"required,len=4,dive,required"`
	CorrectOption int      `json:"correct_option" binding:"gte=0,lt=4"`
}

// SelectCourseRequest identifies the catalog card the user clicked.
type SelectCourseRequest struct {
	CourseID uint `json:"course_id" binding:"required,gt=0"`
}

// ProcessPaymentRequest is the pay-now form: wallet method, amount and payer
// number.
type ProcessPaymentRequest struct {
	CourseID    uint    `json:"course_id" binding:"required,gt=0"`
	Method      string  `json:"method" binding:"required"`
	Amount      float64 `json:"amount" binding:"gt=0"`
	PhoneNumber string  `json:"phone_number"`
}

// SubmitQuizRequest maps question id to the selected option index. Every
// question must be answered before submission is accepted.
type SubmitQuizRequest struct {
	Answers map[uint]int `json:"answers" binding:"required"`
}

// MarkCompleteRequest records a finished lesson.
type MarkCompleteRequest struct {
	LessonID uint `json:"lesson_id" binding:"required,gt=0"`
}
