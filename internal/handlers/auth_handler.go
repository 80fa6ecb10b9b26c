package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "sampatti/internal/errors"
	"sampatti/internal/middleware"
	"sampatti/internal/services"
)

// AuthHandler handles signup, login, the recovery-word reset flow, and the
// authenticated user's own profile.
type AuthHandler struct {
	userService     services.UserServicer
	recoveryService services.RecoveryServicer
	auditService    services.AuditServicer
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(userService services.UserServicer, recoveryService services.RecoveryServicer, auditService services.AuditServicer) *AuthHandler {
	return &AuthHandler{
		userService:     userService,
		recoveryService: recoveryService,
		auditService:    auditService,
	}
}

// AddressRequest represents an address payload.
type AddressRequest struct {
	Street  string `json:"street" binding:"max=255"`
	City    string `json:"city" binding:"max=100"`
	State   string `json:"state" binding:"max=100"`
	ZipCode string `json:"zip_code" binding:"max=20"`
	Country string `json:"country" binding:"max=100"`
}

// NotificationsRequest represents notification preference flags.
type NotificationsRequest struct {
	Email        *bool `json:"email"`
	SMS          *bool `json:"sms"`
	AssetUpdates *bool `json:"asset_updates"`
}

// SignupRequest represents the registration request payload.
type SignupRequest struct {
	Email         string                `json:"email" binding:"required,email,max=255"`
	Password      string                `json:"password" binding:"required,min=8,max=128"`
	FirstName     string                `json:"first_name" binding:"max=100"`
	LastName      string                `json:"last_name" binding:"max=100"`
	PhoneNumber   string                `json:"phone_number" binding:"max=20"`
	DateOfBirth   *time.Time            `json:"date_of_birth"`
	RecoveryEmail string                `json:"recovery_email" binding:"omitempty,email,max=255"`
	Language      string                `json:"language" binding:"omitempty,language_code"`
	Address       *AddressRequest       `json:"address"`
	Notifications *NotificationsRequest `json:"notifications"`
}

// LoginRequest represents the login request payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// VerifyRecoveryWordsRequest carries the email and six-word recovery phrase.
type VerifyRecoveryWordsRequest struct {
	Email         string   `json:"email" binding:"required,email"`
	RecoveryWords []string `json:"recovery_words" binding:"required,len=6"`
}

// ResetPasswordRequest consumes a reset token and sets a new password.
type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	ResetToken  string `json:"reset_token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=128"`
}

// ChangePasswordRequest changes the password of an authenticated user.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=128"`
}

// UpdateProfileRequest represents a partial profile update.
type UpdateProfileRequest struct {
	FirstName     *string               `json:"first_name" binding:"omitempty,max=100"`
	LastName      *string               `json:"last_name" binding:"omitempty,max=100"`
	PhoneNumber   *string               `json:"phone_number" binding:"omitempty,max=20"`
	DateOfBirth   *time.Time            `json:"date_of_birth"`
	RecoveryEmail *string               `json:"recovery_email" binding:"omitempty,email,max=255"`
	Language      *string               `json:"language" binding:"omitempty,language_code"`
	Address       *AddressRequest       `json:"address"`
	Notifications *NotificationsRequest `json:"notifications"`
}

// AuthResponse represents the authentication response with token.
type AuthResponse struct {
	Token string      `json:"token"`
	User  interface{} `json:"user"`
}

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

func addressInput(req *AddressRequest) *services.AddressInput {
	if req == nil {
		return nil
	}
	return &services.AddressInput{
		Street:  req.Street,
		City:    req.City,
		State:   req.State,
		ZipCode: req.ZipCode,
		Country: req.Country,
	}
}

func notificationsInput(req *NotificationsRequest) *services.NotificationsInput {
	if req == nil {
		return nil
	}
	return &services.NotificationsInput{
		Email:        req.Email,
		SMS:          req.SMS,
		AssetUpdates: req.AssetUpdates,
	}
}

// Signup handles user registration
// @Summary     Register a new user
// @Description Register a new user. The response includes the recovery words exactly once; they cannot be retrieved again.
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body SignupRequest true "User registration data"
// @Success     201 {object} AuthResponse "User registered and token generated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Email already registered"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, words, err := h.userService.CreateUser(services.CreateUserInput{
		Email:         req.Email,
		Password:      req.Password,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		PhoneNumber:   req.PhoneNumber,
		DateOfBirth:   req.DateOfBirth,
		RecoveryEmail: req.RecoveryEmail,
		Language:      req.Language,
		Address:       addressInput(req.Address),
		Notifications: notificationsInput(req.Notifications),
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	token, err := middleware.GenerateUserToken(user)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	ip, _ := clientInfo(c)
	h.auditService.Log(user.ID, "user.signup", "user", user.ID, ip, nil)

	c.JSON(http.StatusCreated, gin.H{
		"token":          token,
		"user":           user,
		"recovery_words": words,
	})
}

// Login handles user login
// @Summary     Login user
// @Description Authenticate a user and get a token. Accounts lock for 30 minutes after 5 failed attempts.
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "User login credentials"
// @Success     200 {object} AuthResponse "User authenticated and token generated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid credentials"
// @Failure     403 {object} ErrorResponse "Account locked or inactive"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.AttemptLogin(req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	token, err := middleware.GenerateUserToken(user)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	ip, _ := clientInfo(c)
	h.auditService.Log(user.ID, "user.login", "user", user.ID, ip, nil)

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

// VerifyRecoveryWords verifies the recovery phrase and issues a reset token
// @Summary     Verify recovery words
// @Description Verify the six-word recovery phrase and receive a single-use password reset token valid for 30 minutes.
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body VerifyRecoveryWordsRequest true "Email and recovery words"
// @Success     200 {object} map[string]string "Reset token issued"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid recovery words"
// @Failure     403 {object} ErrorResponse "Account locked"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /auth/verify-recovery-words [post]
func (h *AuthHandler) VerifyRecoveryWords(c *gin.Context) {
	var req VerifyRecoveryWordsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	token, err := h.recoveryService.VerifyRecoveryWords(req.Email, req.RecoveryWords)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reset_token": token,
		"message":     "Recovery words verified. Use the reset token to set a new password.",
	})
}

// ResetPassword consumes a reset token and sets a new password
// @Summary     Reset password
// @Description Set a new password using a reset token from the recovery-word verification step. The token is single-use.
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body ResetPasswordRequest true "Email, reset token, and new password"
// @Success     200 {object} map[string]string "Password reset"
// @Failure     400 {object} ErrorResponse "Invalid input or token"
// @Router      /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.recoveryService.ResetPassword(req.Email, req.ResetToken, req.NewPassword); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Password has been reset. Please log in with your new password.",
	})
}

// ChangePassword changes the authenticated user's password
// @Summary     Change password
// @Description Change the password after verifying the current one.
// @Tags        user
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ChangePasswordRequest true "Old and new password"
// @Success     200 {object} map[string]string "Password changed"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Wrong current password"
// @Router      /profile/change-password [post]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.userService.ChangePassword(userID, req.OldPassword, req.NewPassword); err != nil {
		respondWithError(c, err)
		return
	}

	ip, _ := clientInfo(c)
	h.auditService.Log(userID, "user.change_password", "user", userID, ip, nil)

	c.JSON(http.StatusOK, gin.H{"message": "Password changed"})
}

// GetProfile returns the user's profile
// @Summary     Get user profile
// @Description Get the authenticated user's profile with address and notification preferences.
// @Tags        user
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "User profile"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateProfile applies a partial update to the user's profile
// @Summary     Update user profile
// @Description Update profile fields, address, and notification preferences. Omitted fields are left unchanged.
// @Tags        user
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdateProfileRequest true "Profile fields to update"
// @Success     200 {object} map[string]interface{} "Updated profile"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /profile [put]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.UpdateProfile(userID, services.UpdateProfileInput{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		PhoneNumber:   req.PhoneNumber,
		DateOfBirth:   req.DateOfBirth,
		RecoveryEmail: req.RecoveryEmail,
		Language:      req.Language,
		Address:       addressInput(req.Address),
		Notifications: notificationsInput(req.Notifications),
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	ip, _ := clientInfo(c)
	h.auditService.Log(userID, "user.update_profile", "user", userID, ip, nil)

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// DeleteProfile permanently deletes the user's account
// @Summary     Delete account
// @Description Permanently delete the account and all associated data.
// @Tags        user
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]string "Account deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /profile [delete]
func (h *AuthHandler) DeleteProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.userService.DeleteUser(userID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account deleted"})
}
