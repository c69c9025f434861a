package authenticating

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/seleradigital/merchant-admin-api/infrastructure/repository"
	"github.com/seleradigital/merchant-admin-api/internal/config"
	"github.com/seleradigital/merchant-admin-api/internal/domain"
	"github.com/seleradigital/merchant-admin-api/pkg/apiErrors"
	"github.com/seleradigital/merchant-admin-api/pkg/utils"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type Authenticator interface {
	CreateUser(user *domain.User) (*domain.User, error)
	UpdateUser(user *domain.UpdateUserRequest) error
	ListUser() ([]*domain.User, error)
	LoginUser(email, password string) (string, error)
	GetUserProfile(userID int) (*domain.User, error)
	ValidateToken(tokenString string) (*domain.Claims, error)
	ChangePassword(userID int, currentPassword, newPassword string) error
	ValidatePasswordStrength(password string) error
	RequestPasswordReset(email string) (string, error)
	ResetPassword(token, newPassword string) error
	SelectMerchant(claims *domain.Claims, merchantID string) (string, error)
	GetUserLinkedMerchants(userID int) ([]*domain.Merchant, error)
	LinkUserMerchant(userID int, merchantID string) error
	UnlinkUserMerchant(userID int, merchantID string) error
	ManageUserMerchants(userID int, merchantIDs []string) error
}

type Service struct {
	userRepo     repository.UserRepository
	merchantRepo repository.MerchantRepository
	resetRepo    repository.PasswordResetRepository
	cfg          *config.Config
	now          func() time.Time
}

func NewService(
	userRepo repository.UserRepository,
	merchantRepo repository.MerchantRepository,
	resetRepo repository.PasswordResetRepository,
	cfg *config.Config,
) Authenticator {
	return &Service{
		userRepo:     userRepo,
		merchantRepo: merchantRepo,
		resetRepo:    resetRepo,
		cfg:          cfg,
		now:          time.Now,
	}
}

func (s *Service) CreateUser(user *domain.User) (*domain.User, error) {
	if user.Email == "" || user.Name == "" || user.Lastname == "" || user.PasswordHash == "" {
		return nil, NewAuthError(ErrMissingRequiredData, apiErrors.ErrMissingRequiredData, "Email, name, lastname and password are required")
	}

	user.Email = handleEmail(user.Email)

	existing, err := s.userRepo.GetUserByEmail(user.Email)
	if err != nil {
		return nil, NewAuthError(err, apiErrors.ErrDatabaseOperation, "Failed to check existing user")
	}
	if existing != nil {
		return nil, NewAuthError(ErrUserAlreadyExists, apiErrors.ErrUserAlreadyExists, "Email already registered")
	}

	if err := s.ValidatePasswordStrength(user.PasswordHash); err != nil {
		return nil, NewAuthError(ErrWeakPassword, apiErrors.ErrWeakPassword, err.Error())
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.PasswordHash), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	if user.RoleID == 0 {
		user.RoleID = domain.RoleStaff
	}

	user.PasswordHash = string(hashedPassword)
	user.Active = false

	user, err = s.userRepo.CreateUser(user)
	if err != nil {
		return nil, NewAuthError(err, apiErrors.ErrDatabaseOperation, "Failed to create user")
	}

	return user, nil
}

func (s *Service) UpdateUser(user *domain.UpdateUserRequest) error {
	if user.ID == 0 {
		return errors.New("ID is required")
	}

	userDatabase, err := s.userRepo.GetUserByID(user.ID)
	if err != nil {
		return err
	}
	if userDatabase == nil {
		return fmt.Errorf("user not found to ID: %d", user.ID)
	}

	if user.Name != nil {
		userDatabase.Name = *user.Name
	}

	if user.Lastname != nil {
		userDatabase.Lastname = *user.Lastname
	}

	if user.Email != nil {
		userDatabase.Email = handleEmail(*user.Email)
	}

	if user.Active != nil {
		userDatabase.Active = *user.Active
	}

	if user.RoleID != nil {
		userDatabase.RoleID = *user.RoleID
	}

	if user.Deleted != nil {
		now := s.now()
		userDatabase.Deleted = *user.Deleted
		userDatabase.DeletedAt = &now
	}

	return s.userRepo.UpdateUser(userDatabase)
}

func (s *Service) ListUser() ([]*domain.User, error) {
	users, err := s.userRepo.ListUser()
	if err != nil {
		return nil, err
	}

	return users, nil
}

func (s *Service) LoginUser(email, password string) (string, error) {
	if email == "" || password == "" {
		return "", NewAuthError(ErrMissingRequiredData, apiErrors.ErrMissingRequiredData, "Email and password are required")
	}

	email = handleEmail(email)

	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		return "", NewAuthError(err, apiErrors.ErrDatabaseOperation, "Failed to query user")
	}

	if user == nil {
		return "", NewAuthError(ErrUserNotFound, apiErrors.ErrUserNotFound, "User not found")
	}

	if !user.Active {
		return "", NewUserAuthError(ErrUserDisabled, apiErrors.ErrUserDisabled, user.ID, "Account disabled")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", NewUserAuthError(ErrInvalidCredentials, apiErrors.ErrInvalidCredentials, user.ID, "Incorrect password")
	}

	token, err := s.generateJWT(user, "")
	if err != nil {
		return "", NewAuthError(err, apiErrors.ErrInternalServer, "Failed to generate authentication token")
	}

	return token, nil
}

func (s *Service) GetUserProfile(userID int) (*domain.User, error) {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		logrus.Error(err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *Service) generateJWT(user *domain.User, activeMerchantID string) (string, error) {
	claims := domain.Claims{
		UserID:           user.ID,
		UserName:         user.Name,
		UserLastname:     user.Lastname,
		UserEmail:        user.Email,
		UserActive:       user.Active,
		UserRoleID:       user.RoleID,
		UserMerchants:    user.LinkedMerchants,
		ActiveMerchantID: activeMerchantID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(s.now().Add(time.Duration(s.cfg.Auth.TokenTTLHours) * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.SecretKey))
}

func (s *Service) ValidateToken(tokenString string) (*domain.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &domain.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.SecretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*domain.Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// SelectMerchant issues a new token scoped to one of the user's linked
// merchants. Super admins may select any merchant.
func (s *Service) SelectMerchant(claims *domain.Claims, merchantID string) (string, error) {
	if merchantID == "" {
		return "", NewAuthError(ErrMissingRequiredData, apiErrors.ErrMissingRequiredData, "Merchant ID is required")
	}

	user, err := s.userRepo.GetUserByID(claims.UserID)
	if err != nil {
		return "", NewAuthError(err, apiErrors.ErrDatabaseOperation, "Failed to query user")
	}
	if user == nil {
		return "", NewAuthError(ErrUserNotFound, apiErrors.ErrUserNotFound, "User not found")
	}

	merchant, err := s.merchantRepo.GetByID(merchantID)
	if err != nil {
		return "", NewAuthError(err, apiErrors.ErrDatabaseOperation, "Failed to query merchant")
	}
	if merchant == nil || !merchant.Active {
		return "", NewAuthError(ErrMerchantNotLinked, apiErrors.ErrMerchantNotLinked, "Merchant not found or inactive")
	}

	if user.RoleID != domain.RoleSuperAdmin && !containsMerchant(user.LinkedMerchants, merchantID) {
		return "", NewUserAuthError(ErrMerchantNotLinked, apiErrors.ErrMerchantNotLinked, user.ID, "Merchant is not linked to the user")
	}

	token, err := s.generateJWT(user, merchantID)
	if err != nil {
		return "", NewAuthError(err, apiErrors.ErrInternalServer, "Failed to generate authentication token")
	}

	return token, nil
}

// RequestPasswordReset creates a single-use reset token for the user.
// It returns an empty string without error when the email is unknown, so
// callers cannot probe which emails are registered.
func (s *Service) RequestPasswordReset(email string) (string, error) {
	if email == "" {
		return "", NewAuthError(ErrMissingRequiredData, apiErrors.ErrMissingRequiredData, "Email is required")
	}

	email = handleEmail(email)

	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		return "", NewAuthError(err, apiErrors.ErrDatabaseOperation, "Failed to query user")
	}
	if user == nil || !user.Active {
		return "", nil
	}

	token, err := utils.GenerateResetToken()
	if err != nil {
		return "", err
	}

	resetToken := &domain.PasswordResetToken{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: s.now().Add(time.Duration(s.cfg.Auth.ResetTokenTTLMinutes) * time.Minute),
	}

	if err := s.resetRepo.Create(resetToken); err != nil {
		return "", NewUserAuthError(err, apiErrors.ErrDatabaseOperation, user.ID, "Failed to store reset token")
	}

	return token, nil
}

// ResetPassword consumes a reset token and sets the new password.
func (s *Service) ResetPassword(token, newPassword string) error {
	if token == "" || newPassword == "" {
		return NewAuthError(ErrMissingRequiredData, apiErrors.ErrMissingRequiredData, "Token and new password are required")
	}

	resetToken, err := s.resetRepo.GetByToken(token)
	if err != nil {
		return NewAuthError(err, apiErrors.ErrDatabaseOperation, "Failed to query reset token")
	}
	if resetToken == nil || !resetToken.Usable(s.now()) {
		return NewAuthError(ErrInvalidResetToken, apiErrors.ErrInvalidResetToken, "Token is invalid, expired or already used")
	}

	if err := s.ValidatePasswordStrength(newPassword); err != nil {
		return NewAuthError(ErrWeakPassword, apiErrors.ErrWeakPassword, err.Error())
	}

	user, err := s.userRepo.GetUserByID(resetToken.UserID)
	if err != nil {
		return NewAuthError(err, apiErrors.ErrDatabaseOperation, "Failed to query user")
	}
	if user == nil {
		return NewAuthError(ErrUserNotFound, apiErrors.ErrUserNotFound, "User not found")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hashedPassword)
	if err := s.userRepo.UpdateUser(user); err != nil {
		return NewUserAuthError(err, apiErrors.ErrDatabaseOperation, user.ID, "Failed to update password")
	}

	if err := s.resetRepo.MarkUsed(resetToken.ID, s.now()); err != nil {
		logrus.Warnf("failed to mark reset token %d as used: %v", resetToken.ID, err)
	}

	return nil
}

// ChangePassword lets a user change their own password after confirming
// the current one.
func (s *Service) ChangePassword(userID int, currentPassword, newPassword string) error {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return NewUserAuthError(ErrInvalidCredentials, apiErrors.ErrInvalidCredentials, userID, "Current password is incorrect")
	}

	if err := s.ValidatePasswordStrength(newPassword); err != nil {
		return NewAuthError(ErrWeakPassword, apiErrors.ErrWeakPassword, err.Error())
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hashedPassword)
	return s.userRepo.UpdateUser(user)
}

// ValidatePasswordStrength requires at least 8 characters mixing upper and
// lower case letters, numbers and special characters.
func (s *Service) ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return errors.New("password must contain at least 8 characters")
	}

	var (
		hasUpper   bool
		hasLower   bool
		hasNumber  bool
		hasSpecial bool
	)

	const (
		lowerChars   = "abcdefghijklmnopqrstuvwxyz"
		upperChars   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
		numberChars  = "0123456789"
		specialChars = "!@#$%^&*()-_=+[]{}|;:,.<>?"
	)

	for _, char := range password {
		switch {
		case strings.ContainsRune(lowerChars, char):
			hasLower = true
		case strings.ContainsRune(upperChars, char):
			hasUpper = true
		case strings.ContainsRune(numberChars, char):
			hasNumber = true
		case strings.ContainsRune(specialChars, char):
			hasSpecial = true
		}
	}

	if !hasUpper {
		return errors.New("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return errors.New("password must contain at least one lowercase letter")
	}
	if !hasNumber {
		return errors.New("password must contain at least one number")
	}
	if !hasSpecial {
		return errors.New("password must contain at least one special character")
	}

	return nil
}

// GetUserLinkedMerchants returns the active merchants linked to a user.
func (s *Service) GetUserLinkedMerchants(userID int) ([]*domain.Merchant, error) {
	merchantIDs, err := s.userRepo.GetUserLinkedMerchants(userID)
	if err != nil {
		return nil, err
	}

	merchants := make([]*domain.Merchant, 0)
	for _, id := range merchantIDs {
		merchant, err := s.merchantRepo.GetByID(id)
		if err != nil {
			return nil, err
		}

		if merchant == nil || !merchant.Active {
			continue
		}

		merchants = append(merchants, merchant)
	}

	return merchants, nil
}

func (s *Service) LinkUserMerchant(userID int, merchantID string) error {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	merchant, err := s.merchantRepo.GetByID(merchantID)
	if err != nil {
		return err
	}
	if merchant == nil {
		return ErrMerchantNotLinked
	}

	return s.userRepo.LinkUserMerchant(userID, merchantID)
}

func (s *Service) UnlinkUserMerchant(userID int, merchantID string) error {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	return s.userRepo.UnlinkUserMerchant(userID, merchantID)
}

// ManageUserMerchants replaces the user's merchant links with the given set.
func (s *Service) ManageUserMerchants(userID int, merchantIDs []string) error {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	currentMerchants, err := s.userRepo.GetUserLinkedMerchants(userID)
	if err != nil {
		return err
	}

	for _, current := range currentMerchants {
		if !containsMerchant(merchantIDs, current) {
			if err := s.userRepo.UnlinkUserMerchant(userID, current); err != nil {
				logrus.Warnf("failed to unlink merchant %s from user %d: %v", current, userID, err)
			}
		}
	}

	for _, wanted := range merchantIDs {
		if !containsMerchant(currentMerchants, wanted) {
			if err := s.userRepo.LinkUserMerchant(userID, wanted); err != nil {
				logrus.Warnf("failed to link merchant %s to user %d: %v", wanted, userID, err)
			}
		}
	}

	return nil
}

func containsMerchant(merchantIDs []string, merchantID string) bool {
	for _, id := range merchantIDs {
		if id == merchantID {
			return true
		}
	}
	return false
}

func handleEmail(s string) string {
	email := strings.ToLower(s)
	email = strings.TrimSpace(email)
	email = strings.ReplaceAll(email, " ", "")
	return email
}
