package service

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"shiine-academy-backend/internal/config"
	"shiine-academy-backend/internal/models"
	"shiine-academy-backend/internal/repository"
	"shiine-academy-backend/pkg/cache"
	"shiine-academy-backend/pkg/logger"
)

// AuthEventType distinguishes sign-in from sign-out notifications.
type AuthEventType string

const (
	AuthEventSignIn  = AuthEventType("sign_in")
	AuthEventSignOut = AuthEventType("sign_out")
)

// AuthEvent is published to subscribers whenever a session starts or ends, so
// dependent services can react without the auth service knowing about them.
type AuthEvent struct {
	Type   AuthEventType
	UserID uint
	Email  string
}

type otpEntry struct {
	code    string
	expires time.Time
}

// AuthService owns sign-up, login and token issuance. Sign-up is two-phase: a
// verification code is mailed first, and account creation requires it.
type AuthService struct {
	userRepo repository.UserRepository
	cache    *cache.Cache
	config   *config.Config
	sender   CodeSender

	otpMu   sync.Mutex
	otpFall map[string]otpEntry

	listenerMu sync.Mutex
	listeners  map[int]func(AuthEvent)
	nextID     int
}

func NewAuthService(userRepo repository.UserRepository, c *cache.Cache, cfg *config.Config, sender CodeSender) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		cache:     c,
		config:    cfg,
		sender:    sender,
		otpFall:   make(map[string]otpEntry),
		listeners: make(map[int]func(AuthEvent)),
	}
}

// Subscribe registers a listener for auth events and returns a function that
// removes it. Listeners run synchronously on the goroutine that triggered the
// event.
func (s *AuthService) Subscribe(listener func(AuthEvent)) func() {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = listener

	return func() {
		s.listenerMu.Lock()
		defer s.listenerMu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *AuthService) publish(event AuthEvent) {
	s.listenerMu.Lock()
	listeners := make([]func(AuthEvent), 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.listenerMu.Unlock()

	for _, l := range listeners {
		l(event)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RequestCode starts sign-up: it issues a one-time code for the address and
// hands it to the mail sender. Addresses that already have an account are
// rejected before any code is generated.
func (s *AuthService) RequestCode(email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return newValidationError("email is required")
	}

	existing, err := s.userRepo.GetByEmail(email)
	if err == nil && existing != nil && existing.ID != 0 {
		return ErrEmailTaken
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	code, err := generateCode(s.config.OTPLength)
	if err != nil {
		return err
	}

	ttl := time.Duration(s.config.OTPTTLMinutes) * time.Minute
	if err := s.storeCode(email, code, ttl); err != nil {
		return err
	}

	if err := s.sender.SendCode(email, code); err != nil {
		logger.Error(err, "Failed to send verification code", map[string]interface{}{
			"email": email,
		})
		return errors.New("failed to send verification code")
	}

	logger.Info("Verification code issued", map[string]interface{}{"email": email})
	return nil
}

// SignUp completes registration. The emailed code is consumed on success, so
// a second submission with the same code fails.
func (s *AuthService) SignUp(req models.SignUpRequest) (string, *models.User, error) {
	email := normalizeEmail(req.Email)

	if req.Password != req.ConfirmPassword {
		return "", nil, ErrPasswordMismatch
	}
	if len(req.Password) < s.config.MinPasswordChars {
		return "", nil, newValidationError("password must be at least %d characters long", s.config.MinPasswordChars)
	}

	if !s.verifyCode(email, req.Code) {
		return "", nil, ErrInvalidCode
	}

	existing, err := s.userRepo.GetByEmail(email)
	if err == nil && existing != nil && existing.ID != 0 {
		return "", nil, ErrEmailTaken
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, err
	}

	user := &models.User{
		Email:     email,
		FullName:  strings.TrimSpace(req.FullName),
		Password:  string(hashedPassword),
		Role:      s.initialRole(email),
		AvatarURL: placeholderAvatarURL(req.FullName),
	}

	if err := s.userRepo.Create(user); err != nil {
		return "", nil, err
	}
	s.consumeCode(email)

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	logger.Info("User registered", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})
	s.publish(AuthEvent{Type: AuthEventSignIn, UserID: user.ID, Email: user.Email})

	return token, user, nil
}

func (s *AuthService) Login(req models.LoginRequest) (string, *models.User, error) {
	user, err := s.userRepo.GetByEmail(normalizeEmail(req.Email))
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	s.publish(AuthEvent{Type: AuthEventSignIn, UserID: user.ID, Email: user.Email})
	return token, user, nil
}

// Logout only publishes the event; tokens stay valid until expiry and the
// client drops its copy. Subscribers handle the cleanup, so the session ends
// cleanly even when the account row is already gone.
func (s *AuthService) Logout(userID uint, email string) {
	if userID == 0 {
		return
	}
	s.publish(AuthEvent{Type: AuthEventSignOut, UserID: userID, Email: email})
}

func (s *AuthService) GetUserByID(id uint) (*models.User, error) {
	return s.userRepo.GetByID(id)
}

func (s *AuthService) GetAllUsers() ([]models.User, error) {
	return s.userRepo.GetAll()
}

func (s *AuthService) DeleteUser(id uint) error {
	return s.userRepo.Delete(id)
}

func (s *AuthService) UpdateUserRole(id uint, role string) error {
	if role != models.RoleUser && role != models.RoleAdmin {
		return newValidationError("unknown role: %s", role)
	}

	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return err
	}

	user.Role = role
	return s.userRepo.Update(user)
}

func (s *AuthService) UpdateProfile(userID uint, req models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(req.FullName); name != "" {
		user.FullName = name
	}
	if req.AvatarURL != "" {
		user.AvatarURL = req.AvatarURL
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// IsAdmin grants admin either by role or by the configured email allow-list.
// The allow-list mirrors how the storefront originally gated its console and
// lets an operator bootstrap the first admin without touching the database.
func (s *AuthService) IsAdmin(user *models.User) bool {
	if user == nil {
		return false
	}
	if user.Role == models.RoleAdmin {
		return true
	}
	for _, email := range s.config.AdminEmails {
		if normalizeEmail(email) == normalizeEmail(user.Email) {
			return true
		}
	}
	return false
}

func (s *AuthService) initialRole(email string) string {
	for _, admin := range s.config.AdminEmails {
		if normalizeEmail(admin) == email {
			return models.RoleAdmin
		}
	}
	return models.RoleUser
}

func (s *AuthService) generateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
		"exp":     time.Now().Add(time.Hour * 72).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

func (s *AuthService) ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.config.JWTSecret), nil
	})
}

func otpKey(email string) string {
	return "auth:otp:" + email
}

func (s *AuthService) storeCode(email, code string, ttl time.Duration) error {
	if s.cache.Enabled() {
		return s.cache.SetString(otpKey(email), code, ttl)
	}

	s.otpMu.Lock()
	defer s.otpMu.Unlock()
	s.otpFall[email] = otpEntry{code: code, expires: time.Now().Add(ttl)}
	return nil
}

func (s *AuthService) verifyCode(email, code string) bool {
	if code == "" {
		return false
	}

	if s.cache.Enabled() {
		stored, err := s.cache.GetString(otpKey(email))
		if err != nil {
			return false
		}
		return subtle.ConstantTimeCompare([]byte(stored), []byte(code)) == 1
	}

	s.otpMu.Lock()
	defer s.otpMu.Unlock()
	entry, ok := s.otpFall[email]
	if !ok || time.Now().After(entry.expires) {
		delete(s.otpFall, email)
		return false
	}
	return subtle.ConstantTimeCompare([]byte(entry.code), []byte(code)) == 1
}

func (s *AuthService) consumeCode(email string) {
	if s.cache.Enabled() {
		_ = s.cache.Delete(otpKey(email))
		return
	}

	s.otpMu.Lock()
	defer s.otpMu.Unlock()
	delete(s.otpFall, email)
}

func generateCode(length int) (string, error) {
	if length <= 0 {
		length = 6
	}

	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	digits := make([]byte, length)
	for i, b := range buf {
		digits[i] = '0' + b%10
	}
	return string(digits), nil
}

// placeholderAvatarURL builds a generated-initials avatar for accounts that
// never uploaded a picture.
func placeholderAvatarURL(fullName string) string {
	name := strings.TrimSpace(fullName)
	if name == "" {
		name = "Student"
	}
	return fmt.Sprintf("https://ui-avatars.com/api/?name=%s&background=111827&color=fff", url.QueryEscape(name))
}
