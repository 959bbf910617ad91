package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"reviwa-backend/internal/domain"
	"reviwa-backend/internal/logger"
	"reviwa-backend/internal/repository"
	"reviwa-backend/internal/security"
)

// ResetTokenTTL is how long a password reset link stays valid.
const ResetTokenTTL = 10 * time.Minute

var errInvalidCredentials = domain.Authenticationf("invalid email or password")

type authService struct {
	userRepo        repository.UserRepository
	achievementRepo repository.AchievementRepository
	gamification    GamificationService
	tokens          security.TokenManager
	notifier        Notifier
	now             func() time.Time
	newResetToken   func() (string, string, error)
}

func NewAuthService(
	userRepo repository.UserRepository,
	achievementRepo repository.AchievementRepository,
	gamification GamificationService,
	tokens security.TokenManager,
	notifier Notifier,
) AuthService {
	return &authService{
		userRepo:        userRepo,
		achievementRepo: achievementRepo,
		gamification:    gamification,
		tokens:          tokens,
		notifier:        notifier,
		now:             time.Now,
		newResetToken:   security.NewResetToken,
	}
}

func (s *authService) TokenTTL() time.Duration {
	return s.tokens.TTL()
}

func validateName(name string) error {
	n := utf8.RuneCountInString(name)
	if n < 2 || n > 50 {
		return domain.Validationf("name must be between 2 and 50 characters")
	}
	return nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", domain.Validationf("please provide a valid email")
	}
	return email, nil
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*domain.User, string, error) {
	logger.EnterMethod("authService.Register", "email", in.Email, "role", in.Role)

	in.Name = strings.TrimSpace(in.Name)
	if err := validateName(in.Name); err != nil {
		return nil, "", err
	}
	addr, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, "", err
	}
	if err := security.ValidatePasswordStrength(in.Password); err != nil {
		return nil, "", err
	}
	if in.Role == "" {
		in.Role = domain.RoleCitizen
	}
	if in.Role != domain.RoleCitizen && in.Role != domain.RoleEnvironmentalOrg {
		return nil, "", domain.Validationf("role must be user or environmental_org")
	}

	if existing, err := s.userRepo.GetByEmail(ctx, addr); err == nil && existing != nil {
		return nil, "", domain.Conflictf("User already exists with this email")
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, "", fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := security.HashPassword(in.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Name:                    in.Name,
		Email:                   addr,
		PasswordHash:            hash,
		Role:                    in.Role,
		Location:                domain.UserLocation{City: strings.TrimSpace(in.City), State: strings.TrimSpace(in.State)},
		Privacy:                 domain.DefaultPrivacySettings(),
		NotificationPreferences: domain.DefaultNotificationPreferences(),
		IsActive:                true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		logger.ExitMethodWithError("authService.Register", err, "email", addr)
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}
	user.RefreshLevel()

	if user.Role == domain.RoleCitizen {
		balance, err := s.gamification.Award(ctx, user.ID, domain.PointsWelcomeBonus, domain.ActivityWelcomeBonus, nil)
		if err != nil {
			logger.Error("Failed to award welcome bonus", "userID", user.ID, "error", err)
		} else {
			user.GreenPoints = balance.GreenPoints
		}
	}

	if err := s.notifier.Welcome(ctx, user); err != nil {
		logger.Warn("Failed to send welcome email", "userID", user.ID, "error", err)
	}

	token, _, err := s.tokens.Generate(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	logger.ExitMethod("authService.Register", "userID", user.ID)
	return user, token, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	logger.EnterMethod("authService.Login", "email", email)

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", domain.Validationf("please provide email and password")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		logger.ExitMethodWithError("authService.Login", errInvalidCredentials, "email", email)
		return nil, "", errInvalidCredentials
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to get user: %w", err)
	}

	if err := security.CheckPassword(user.PasswordHash, password); err != nil {
		logger.ExitMethodWithError("authService.Login", err, "email", email)
		if errors.Is(err, domain.ErrAuthentication) {
			return nil, "", errInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to verify password: %w", err)
	}
	if !user.IsActive {
		return nil, "", domain.Authenticationf("Account is deactivated")
	}

	now := s.now().UTC()
	if err := s.userRepo.TouchLastLogin(ctx, user.ID, now); err != nil {
		logger.Warn("Failed to update last login", "userID", user.ID, "error", err)
	} else {
		user.LastLogin = &now
	}

	token, _, err := s.tokens.Generate(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	logger.ExitMethod("authService.Login", "userID", user.ID)
	return user, token, nil
}

func (s *authService) Me(ctx context.Context, userID int32) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	achievements, err := s.achievementRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", err)
	}
	user.Achievements = achievements
	return user, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.Authenticationf("Not authorized to access this route")
	}
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, domain.Authenticationf("Not authorized to access this route")
	}
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.Authenticationf("No user found with this token")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !user.IsActive {
		return nil, domain.Authenticationf("Account is deactivated")
	}
	return user, nil
}

func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	logger.EnterMethod("authService.ForgotPassword", "email", email)

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return domain.Validationf("please provide an email")
	}
	user, err := s.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		// Unknown addresses get the same response as known ones.
		logger.ExitMethod("authService.ForgotPassword", "email", email, "known", false)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if !user.IsActive {
		logger.ExitMethod("authService.ForgotPassword", "email", email, "active", false)
		return nil
	}

	token, hash, err := s.newResetToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}
	if err := s.userRepo.SetResetToken(ctx, user.ID, hash, s.now().UTC().Add(ResetTokenTTL)); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	if err := s.notifier.PasswordReset(ctx, user, token, ResetTokenTTL); err != nil {
		logger.Warn("Failed to send password reset email", "userID", user.ID, "error", err)
	}

	logger.ExitMethod("authService.ForgotPassword", "userID", user.ID)
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, token, password string) (*domain.User, string, error) {
	logger.EnterMethod("authService.ResetPassword")

	if token == "" {
		return nil, "", domain.Validationf("invalid or expired reset token")
	}
	if err := security.ValidatePasswordStrength(password); err != nil {
		return nil, "", err
	}

	user, err := s.userRepo.GetByResetToken(ctx, security.HashResetToken(token), s.now().UTC())
	if errors.Is(err, domain.ErrNotFound) {
		return nil, "", domain.Validationf("invalid or expired reset token")
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to look up reset token: %w", err)
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, hash); err != nil {
		logger.ExitMethodWithError("authService.ResetPassword", err, "userID", user.ID)
		return nil, "", fmt.Errorf("failed to update password: %w", err)
	}
	user.PasswordHash = hash
	user.ResetTokenHash = ""
	user.ResetTokenExpires = nil

	jwtToken, _, err := s.tokens.Generate(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	logger.ExitMethod("authService.ResetPassword", "userID", user.ID)
	return user, jwtToken, nil
}
