package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jobboard/jobboard-api/internal/core/domain"
	"github.com/jobboard/jobboard-api/internal/core/ports"
)

const minPasswordLength = 6

// AuthService implements registration, login and the current-user profile.
type AuthService struct {
	users     ports.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
	now       func() time.Time
	log       zerolog.Logger
}

func NewAuthService(users ports.UserRepository, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{users: users, jwtSecret: jwtSecret, tokenTTL: tokenTTL, now: time.Now, log: log}
}

// Register creates the account and the profile matching its role in one write.
// Role defaults to job_seeker; admins cannot self-register.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	now := s.now().UTC()
	email := strings.ToLower(strings.TrimSpace(in.Email))

	role := in.Role
	if role == "" {
		role = domain.RoleJobSeeker
	}

	verr := &domain.ValidationError{}
	if len(in.Password) < minPasswordLength {
		verr.Add("password", fmt.Sprintf("password is too short (minimum is %d characters)", minPasswordLength))
	}
	if role != domain.RoleCompany && role != domain.RoleJobSeeker {
		verr.Add("role", "role must be one of: company job_seeker")
	}

	user := &domain.User{
		ID:        uuid.NewString(),
		Email:     email,
		Role:      role,
		Phone:     strings.TrimSpace(in.Phone),
		CreatedAt: now,
		UpdatedAt: now,
	}
	mergeValidation(verr, domain.Validate(user))

	switch role {
	case domain.RoleCompany:
		p := in.Company
		if p == nil {
			p = &ports.CompanyProfileInput{}
		}
		user.Company = newCompany(user.ID, *p, now)
		mergeValidation(verr, user.Company.Validate(now))
	case domain.RoleJobSeeker:
		p := in.JobSeeker
		if p == nil {
			p = &ports.JobSeekerProfileInput{}
		}
		user.JobSeeker = newJobSeeker(user.ID, *p, now)
		mergeValidation(verr, domain.Validate(user.JobSeeker))
	}
	if len(verr.Fields) > 0 {
		return nil, verr
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}
	user.PasswordHash = string(hash)

	if err := s.users.CreateWithProfile(ctx, user); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("user registered")
	return &ports.AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}
	return user, nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"role":  string(user.Role),
		"iat":   now.Unix(),
		"exp":   now.Add(s.tokenTTL).Unix(),
	}
	if user.Company != nil {
		claims["company_id"] = user.Company.ID
	}
	if user.JobSeeker != nil {
		claims["job_seeker_id"] = user.JobSeeker.ID
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func newCompany(userID string, in ports.CompanyProfileInput, now time.Time) *domain.Company {
	size := domain.CompanySize(in.Size)
	if size == "" {
		size = domain.SizeStartup
	}
	return &domain.Company{
		ID:           uuid.NewString(),
		UserID:       userID,
		Name:         strings.TrimSpace(in.Name),
		Description:  strings.TrimSpace(in.Description),
		Website:      strings.TrimSpace(in.Website),
		Industry:     strings.TrimSpace(in.Industry),
		Size:         size,
		FoundedYear:  in.FoundedYear,
		Headquarters: strings.TrimSpace(in.Headquarters),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func newJobSeeker(userID string, in ports.JobSeekerProfileInput, now time.Time) *domain.JobSeeker {
	return &domain.JobSeeker{
		ID:              uuid.NewString(),
		UserID:          userID,
		FirstName:       strings.TrimSpace(in.FirstName),
		LastName:        strings.TrimSpace(in.LastName),
		Phone:           strings.TrimSpace(in.Phone),
		Location:        strings.TrimSpace(in.Location),
		Bio:             strings.TrimSpace(in.Bio),
		ExperienceYears: in.ExperienceYears,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// mergeValidation folds the field messages of err into dst. Non-validation
// errors are recorded under "base".
func mergeValidation(dst *domain.ValidationError, err error) {
	if err == nil {
		return
	}
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		for k, v := range ve.Fields {
			dst.Add(k, v)
		}
		return
	}
	dst.Add("base", err.Error())
}
