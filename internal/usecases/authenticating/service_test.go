package authenticating

import (
	"errors"
	"testing"
	"time"

	"github.com/seleradigital/merchant-admin-api/infrastructure/repository/mocks"
	"github.com/seleradigital/merchant-admin-api/internal/config"
	"github.com/seleradigital/merchant-admin-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *mocks.MockUserRepository, *mocks.MockMerchantRepository, *mocks.MockPasswordResetRepository) {
	ctrl := gomock.NewController(t)

	mockUserRepo := mocks.NewMockUserRepository(ctrl)
	mockMerchantRepo := mocks.NewMockMerchantRepository(ctrl)
	mockResetRepo := mocks.NewMockPasswordResetRepository(ctrl)

	cfg := &config.Config{
		SecretKey: "test-secret-key",
		Auth: config.Auth{
			TokenTTLHours:        24,
			ResetTokenTTLMinutes: 30,
		},
	}

	service := &Service{
		userRepo:     mockUserRepo,
		merchantRepo: mockMerchantRepo,
		resetRepo:    mockResetRepo,
		cfg:          cfg,
		now:          func() time.Time { return testNow },
	}

	return service, mockUserRepo, mockMerchantRepo, mockResetRepo
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(hashed)
}

func activeUser(t *testing.T, password string) *domain.User {
	return &domain.User{
		ID:              1,
		Name:            "Dewi",
		Lastname:        "Santoso",
		Email:           "dewi@example.com",
		PasswordHash:    hashPassword(t, password),
		Active:          true,
		RoleID:          domain.RoleMerchantAdmin,
		LinkedMerchants: []string{"MRC001"},
	}
}

func TestService_LoginUser(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		setup    func(userRepo *mocks.MockUserRepository)
		wantErr  error
	}{
		{
			name:     "valid credentials return a signed token",
			email:    "dewi@example.com",
			password: "Str0ng!Pass",
			setup: func(userRepo *mocks.MockUserRepository) {
				userRepo.EXPECT().GetUserByEmail("dewi@example.com").Return(activeUser(t, "Str0ng!Pass"), nil)
			},
		},
		{
			name:     "email is lowercased and trimmed before lookup",
			email:    "  Dewi@Example.com ",
			password: "Str0ng!Pass",
			setup: func(userRepo *mocks.MockUserRepository) {
				userRepo.EXPECT().GetUserByEmail("dewi@example.com").Return(activeUser(t, "Str0ng!Pass"), nil)
			},
		},
		{
			name:     "wrong password is rejected",
			email:    "dewi@example.com",
			password: "wrong-password",
			setup: func(userRepo *mocks.MockUserRepository) {
				userRepo.EXPECT().GetUserByEmail("dewi@example.com").Return(activeUser(t, "Str0ng!Pass"), nil)
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:     "disabled account is rejected",
			email:    "dewi@example.com",
			password: "Str0ng!Pass",
			setup: func(userRepo *mocks.MockUserRepository) {
				user := activeUser(t, "Str0ng!Pass")
				user.Active = false
				userRepo.EXPECT().GetUserByEmail("dewi@example.com").Return(user, nil)
			},
			wantErr: ErrUserDisabled,
		},
		{
			name:     "unknown email is rejected",
			email:    "nobody@example.com",
			password: "Str0ng!Pass",
			setup: func(userRepo *mocks.MockUserRepository) {
				userRepo.EXPECT().GetUserByEmail("nobody@example.com").Return(nil, nil)
			},
			wantErr: ErrUserNotFound,
		},
		{
			name:     "missing credentials are rejected without a lookup",
			email:    "",
			password: "",
			setup:    func(userRepo *mocks.MockUserRepository) {},
			wantErr:  ErrMissingRequiredData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, mockUserRepo, _, _ := newTestService(t)
			tt.setup(mockUserRepo)

			token, err := service.LoginUser(tt.email, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, token)
				return
			}

			assert.NoError(t, err)
			assert.NotEmpty(t, token)

			claims, err := service.ValidateToken(token)
			assert.NoError(t, err)
			assert.Equal(t, 1, claims.UserID)
			assert.Equal(t, domain.RoleMerchantAdmin, claims.UserRoleID)
			assert.Equal(t, []string{"MRC001"}, claims.UserMerchants)
			assert.Empty(t, claims.ActiveMerchantID, "login issues an unscoped token")
		})
	}
}

func TestService_ValidateToken(t *testing.T) {
	service, mockUserRepo, _, _ := newTestService(t)

	t.Run("garbage token is invalid", func(t *testing.T) {
		claims, err := service.ValidateToken("not-a-jwt")

		assert.ErrorIs(t, err, ErrInvalidToken)
		assert.Nil(t, claims)
	})

	t.Run("expired token is reported as expired", func(t *testing.T) {
		mockUserRepo.EXPECT().GetUserByEmail("dewi@example.com").Return(activeUser(t, "Str0ng!Pass"), nil)

		// Issue a token already past its TTL
		service.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
		token, err := service.LoginUser("dewi@example.com", "Str0ng!Pass")
		assert.NoError(t, err)

		claims, err := service.ValidateToken(token)

		assert.ErrorIs(t, err, ErrExpiredToken)
		assert.Nil(t, claims)
	})

	t.Run("token signed with another key is invalid", func(t *testing.T) {
		service, _, _, _ := newTestService(t)

		other, otherUserRepo, _, _ := newTestService(t)
		other.cfg = &config.Config{SecretKey: "another-key", Auth: other.cfg.Auth}
		otherUserRepo.EXPECT().GetUserByEmail("dewi@example.com").Return(activeUser(t, "Str0ng!Pass"), nil)

		token, err := other.LoginUser("dewi@example.com", "Str0ng!Pass")
		assert.NoError(t, err)

		claims, err := service.ValidateToken(token)

		assert.ErrorIs(t, err, ErrInvalidToken)
		assert.Nil(t, claims)
	})
}

func TestService_SelectMerchant(t *testing.T) {
	claims := &domain.Claims{UserID: 1}

	tests := []struct {
		name       string
		merchantID string
		setup      func(userRepo *mocks.MockUserRepository, merchantRepo *mocks.MockMerchantRepository)
		wantErr    error
	}{
		{
			name:       "linked merchant yields a scoped token",
			merchantID: "MRC001",
			setup: func(userRepo *mocks.MockUserRepository, merchantRepo *mocks.MockMerchantRepository) {
				userRepo.EXPECT().GetUserByID(1).Return(activeUser(t, "Str0ng!Pass"), nil)
				merchantRepo.EXPECT().GetByID("MRC001").Return(&domain.Merchant{ID: "MRC001", Active: true}, nil)
			},
		},
		{
			name:       "merchant not linked to the user is rejected",
			merchantID: "MRC999",
			setup: func(userRepo *mocks.MockUserRepository, merchantRepo *mocks.MockMerchantRepository) {
				userRepo.EXPECT().GetUserByID(1).Return(activeUser(t, "Str0ng!Pass"), nil)
				merchantRepo.EXPECT().GetByID("MRC999").Return(&domain.Merchant{ID: "MRC999", Active: true}, nil)
			},
			wantErr: ErrMerchantNotLinked,
		},
		{
			name:       "super admin may select any active merchant",
			merchantID: "MRC999",
			setup: func(userRepo *mocks.MockUserRepository, merchantRepo *mocks.MockMerchantRepository) {
				admin := activeUser(t, "Str0ng!Pass")
				admin.RoleID = domain.RoleSuperAdmin
				userRepo.EXPECT().GetUserByID(1).Return(admin, nil)
				merchantRepo.EXPECT().GetByID("MRC999").Return(&domain.Merchant{ID: "MRC999", Active: true}, nil)
			},
		},
		{
			name:       "inactive merchant is rejected",
			merchantID: "MRC001",
			setup: func(userRepo *mocks.MockUserRepository, merchantRepo *mocks.MockMerchantRepository) {
				userRepo.EXPECT().GetUserByID(1).Return(activeUser(t, "Str0ng!Pass"), nil)
				merchantRepo.EXPECT().GetByID("MRC001").Return(&domain.Merchant{ID: "MRC001", Active: false}, nil)
			},
			wantErr: ErrMerchantNotLinked,
		},
		{
			name:       "empty merchant ID is rejected",
			merchantID: "",
			setup:      func(userRepo *mocks.MockUserRepository, merchantRepo *mocks.MockMerchantRepository) {},
			wantErr:    ErrMissingRequiredData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, mockUserRepo, mockMerchantRepo, _ := newTestService(t)
			tt.setup(mockUserRepo, mockMerchantRepo)

			token, err := service.SelectMerchant(claims, tt.merchantID)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, token)
				return
			}

			assert.NoError(t, err)

			scoped, err := service.ValidateToken(token)
			assert.NoError(t, err)
			assert.Equal(t, tt.merchantID, scoped.ActiveMerchantID)
		})
	}
}

func TestService_RequestPasswordReset(t *testing.T) {
	t.Run("active user gets a token with the configured TTL", func(t *testing.T) {
		service, mockUserRepo, _, mockResetRepo := newTestService(t)

		mockUserRepo.EXPECT().GetUserByEmail("dewi@example.com").Return(activeUser(t, "Str0ng!Pass"), nil)

		var stored *domain.PasswordResetToken
		mockResetRepo.EXPECT().Create(gomock.Any()).DoAndReturn(func(token *domain.PasswordResetToken) error {
			stored = token
			return nil
		})

		token, err := service.RequestPasswordReset("dewi@example.com")

		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, token, stored.Token)
		assert.Equal(t, 1, stored.UserID)
		assert.Equal(t, testNow.Add(30*time.Minute), stored.ExpiresAt)
	})

	t.Run("unknown email returns empty without error", func(t *testing.T) {
		service, mockUserRepo, _, _ := newTestService(t)

		mockUserRepo.EXPECT().GetUserByEmail("nobody@example.com").Return(nil, nil)

		token, err := service.RequestPasswordReset("nobody@example.com")

		assert.NoError(t, err)
		assert.Empty(t, token)
	})

	t.Run("disabled user returns empty without error", func(t *testing.T) {
		service, mockUserRepo, _, _ := newTestService(t)

		user := activeUser(t, "Str0ng!Pass")
		user.Active = false
		mockUserRepo.EXPECT().GetUserByEmail("dewi@example.com").Return(user, nil)

		token, err := service.RequestPasswordReset("dewi@example.com")

		assert.NoError(t, err)
		assert.Empty(t, token)
	})
}

func TestService_ResetPassword(t *testing.T) {
	usableToken := func() *domain.PasswordResetToken {
		return &domain.PasswordResetToken{
			ID:        7,
			UserID:    1,
			Token:     "reset-token",
			ExpiresAt: testNow.Add(10 * time.Minute),
		}
	}

	tests := []struct {
		name        string
		newPassword string
		setup       func(userRepo *mocks.MockUserRepository, resetRepo *mocks.MockPasswordResetRepository)
		wantErr     error
	}{
		{
			name:        "usable token updates the password and is marked used",
			newPassword: "N3w!Passw0rd",
			setup: func(userRepo *mocks.MockUserRepository, resetRepo *mocks.MockPasswordResetRepository) {
				resetRepo.EXPECT().GetByToken("reset-token").Return(usableToken(), nil)
				userRepo.EXPECT().GetUserByID(1).Return(activeUser(t, "Str0ng!Pass"), nil)
				userRepo.EXPECT().UpdateUser(gomock.Any()).DoAndReturn(func(user *domain.User) error {
					err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("N3w!Passw0rd"))
					assert.NoError(t, err, "stored hash must match the new password")
					return nil
				})
				resetRepo.EXPECT().MarkUsed(7, testNow).Return(nil)
			},
		},
		{
			name:        "expired token is rejected",
			newPassword: "N3w!Passw0rd",
			setup: func(userRepo *mocks.MockUserRepository, resetRepo *mocks.MockPasswordResetRepository) {
				expired := usableToken()
				expired.ExpiresAt = testNow.Add(-time.Minute)
				resetRepo.EXPECT().GetByToken("reset-token").Return(expired, nil)
			},
			wantErr: ErrInvalidResetToken,
		},
		{
			name:        "already used token is rejected",
			newPassword: "N3w!Passw0rd",
			setup: func(userRepo *mocks.MockUserRepository, resetRepo *mocks.MockPasswordResetRepository) {
				usedAt := testNow.Add(-time.Hour)
				used := usableToken()
				used.UsedAt = &usedAt
				resetRepo.EXPECT().GetByToken("reset-token").Return(used, nil)
			},
			wantErr: ErrInvalidResetToken,
		},
		{
			name:        "unknown token is rejected",
			newPassword: "N3w!Passw0rd",
			setup: func(userRepo *mocks.MockUserRepository, resetRepo *mocks.MockPasswordResetRepository) {
				resetRepo.EXPECT().GetByToken("reset-token").Return(nil, nil)
			},
			wantErr: ErrInvalidResetToken,
		},
		{
			name:        "weak password is rejected before touching the user",
			newPassword: "weak",
			setup: func(userRepo *mocks.MockUserRepository, resetRepo *mocks.MockPasswordResetRepository) {
				resetRepo.EXPECT().GetByToken("reset-token").Return(usableToken(), nil)
			},
			wantErr: ErrWeakPassword,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, mockUserRepo, _, mockResetRepo := newTestService(t)
			tt.setup(mockUserRepo, mockResetRepo)

			err := service.ResetPassword("reset-token", tt.newPassword)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestService_ChangePassword(t *testing.T) {
	t.Run("correct current password updates the hash", func(t *testing.T) {
		service, mockUserRepo, _, _ := newTestService(t)

		mockUserRepo.EXPECT().GetUserByID(1).Return(activeUser(t, "Str0ng!Pass"), nil)
		mockUserRepo.EXPECT().UpdateUser(gomock.Any()).DoAndReturn(func(user *domain.User) error {
			return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("N3w!Passw0rd"))
		})

		err := service.ChangePassword(1, "Str0ng!Pass", "N3w!Passw0rd")

		assert.NoError(t, err)
	})

	t.Run("wrong current password is rejected", func(t *testing.T) {
		service, mockUserRepo, _, _ := newTestService(t)

		mockUserRepo.EXPECT().GetUserByID(1).Return(activeUser(t, "Str0ng!Pass"), nil)

		err := service.ChangePassword(1, "wrong", "N3w!Passw0rd")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestService_CreateUser(t *testing.T) {
	tests := []struct {
		name    string
		user    *domain.User
		setup   func(userRepo *mocks.MockUserRepository)
		wantErr error
	}{
		{
			name: "new user is created disabled with the staff role",
			user: &domain.User{Name: "Budi", Lastname: "Wijaya", Email: "Budi@Example.com", PasswordHash: "Str0ng!Pass"},
			setup: func(userRepo *mocks.MockUserRepository) {
				userRepo.EXPECT().GetUserByEmail("budi@example.com").Return(nil, nil)
				userRepo.EXPECT().CreateUser(gomock.Any()).DoAndReturn(func(user *domain.User) (*domain.User, error) {
					assert.Equal(t, "budi@example.com", user.Email)
					assert.Equal(t, domain.RoleStaff, user.RoleID)
					assert.False(t, user.Active)
					assert.NotEqual(t, "Str0ng!Pass", user.PasswordHash, "password must be stored hashed")
					user.ID = 42
					return user, nil
				})
			},
		},
		{
			name: "duplicate email is rejected",
			user: &domain.User{Name: "Budi", Lastname: "Wijaya", Email: "budi@example.com", PasswordHash: "Str0ng!Pass"},
			setup: func(userRepo *mocks.MockUserRepository) {
				userRepo.EXPECT().GetUserByEmail("budi@example.com").Return(&domain.User{ID: 9}, nil)
			},
			wantErr: ErrUserAlreadyExists,
		},
		{
			name: "weak password is rejected",
			user: &domain.User{Name: "Budi", Lastname: "Wijaya", Email: "budi@example.com", PasswordHash: "weak"},
			setup: func(userRepo *mocks.MockUserRepository) {
				userRepo.EXPECT().GetUserByEmail("budi@example.com").Return(nil, nil)
			},
			wantErr: ErrWeakPassword,
		},
		{
			name:    "missing fields are rejected",
			user:    &domain.User{Email: "budi@example.com"},
			setup:   func(userRepo *mocks.MockUserRepository) {},
			wantErr: ErrMissingRequiredData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, mockUserRepo, _, _ := newTestService(t)
			tt.setup(mockUserRepo)

			created, err := service.CreateUser(tt.user)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, created)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, 42, created.ID)
		})
	}
}

func TestService_ValidatePasswordStrength(t *testing.T) {
	service, _, _, _ := newTestService(t)

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "all character classes present", password: "Str0ng!Pass", wantErr: false},
		{name: "too short", password: "S7!a", wantErr: true},
		{name: "missing uppercase", password: "str0ng!pass", wantErr: true},
		{name: "missing lowercase", password: "STR0NG!PASS", wantErr: true},
		{name: "missing number", password: "Strong!Pass", wantErr: true},
		{name: "missing special character", password: "Str0ngPass", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.ValidatePasswordStrength(tt.password)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestService_ManageUserMerchants(t *testing.T) {
	service, mockUserRepo, _, _ := newTestService(t)

	mockUserRepo.EXPECT().GetUserByID(1).Return(activeUser(t, "Str0ng!Pass"), nil)
	mockUserRepo.EXPECT().GetUserLinkedMerchants(1).Return([]string{"MRC001", "MRC002"}, nil)
	mockUserRepo.EXPECT().UnlinkUserMerchant(1, "MRC002").Return(nil)
	mockUserRepo.EXPECT().LinkUserMerchant(1, "MRC003").Return(nil)

	err := service.ManageUserMerchants(1, []string{"MRC001", "MRC003"})

	assert.NoError(t, err)
}

func TestService_GetUserLinkedMerchants(t *testing.T) {
	service, mockUserRepo, mockMerchantRepo, _ := newTestService(t)

	mockUserRepo.EXPECT().GetUserLinkedMerchants(1).Return([]string{"MRC001", "MRC002", "MRC003"}, nil)
	mockMerchantRepo.EXPECT().GetByID("MRC001").Return(&domain.Merchant{ID: "MRC001", Active: true}, nil)
	mockMerchantRepo.EXPECT().GetByID("MRC002").Return(&domain.Merchant{ID: "MRC002", Active: false}, nil)
	mockMerchantRepo.EXPECT().GetByID("MRC003").Return(nil, nil)

	merchants, err := service.GetUserLinkedMerchants(1)

	assert.NoError(t, err)
	assert.Len(t, merchants, 1, "inactive and missing merchants are filtered out")
	assert.Equal(t, "MRC001", merchants[0].ID)
}

func TestAuthError(t *testing.T) {
	base := errors.New("boom")
	authErr := NewUserAuthError(base, "AUTH_001", 7, "details")

	assert.ErrorIs(t, authErr, base)
	assert.Equal(t, 7, authErr.UserID)

	var target *AuthError
	assert.True(t, errors.As(authErr, &target))
	assert.Equal(t, "AUTH_001", target.Code)
}
