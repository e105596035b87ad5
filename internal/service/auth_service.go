package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"estatehub/api/internal/config"
	"estatehub/api/internal/mailer"
	"estatehub/api/internal/models"
	"estatehub/api/internal/repository"
	"estatehub/api/internal/security"
)

var (
	ErrMissingCredentials = errors.New("please provide email and password")
	// ErrInvalidCredentials covers unknown email, wrong password and a
	// deactivated account; callers cannot tell them apart.
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrUnknownEmail       = errors.New("there is no user with this email address")
	ErrResetTokenInvalid  = errors.New("token is invalid or has expired")
	ErrMailDelivery       = errors.New("there was an error sending the email, try again later")
	ErrWrongPassword      = errors.New("incorrect password")
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v1/userinfo?alt=json"

// UserStore is the slice of the user repository the auth flows need.
type UserStore interface {
	Create(ctx context.Context, user models.User) (models.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	SetResetToken(ctx context.Context, id primitive.ObjectID, tokenHash string, expires time.Time) error
	ClearResetToken(ctx context.Context, id primitive.ObjectID) error
	FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (models.User, error)
	UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string, changedAt time.Time) error
}

type AuthService struct {
	users UserStore
	mail  mailer.Mailer
	cfg   *config.AppConfig
	oauth *oauth2.Config
	log   zerolog.Logger
}

func NewAuthService(users UserStore, mail mailer.Mailer, cfg *config.AppConfig, log zerolog.Logger) *AuthService {
	oauthCfg := &oauth2.Config{
		ClientID:     cfg.Google.ClientID,
		ClientSecret: cfg.Google.ClientSecret,
		RedirectURL:  cfg.Google.RedirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}

	return &AuthService{
		users: users,
		mail:  mail,
		cfg:   cfg,
		oauth: oauthCfg,
		log:   log,
	}
}

type SignupInput struct {
	Name            string
	Email           string
	Password        string
	PasswordConfirm string
	Role            models.UserRole
}

func (s *AuthService) Signup(ctx context.Context, input SignupInput) (models.User, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))

	if input.Password == "" || input.Password != input.PasswordConfirm {
		return models.User{}, errors.New("passwords do not match")
	}
	if len(input.Password) < 8 {
		return models.User{}, errors.New("password must be at least 8 characters")
	}

	role := input.Role
	if role == "" {
		role = models.UserRoleViewer
	}

	user := models.User{
		Name:   input.Name,
		Email:  input.Email,
		Role:   role,
		Active: true,
	}
	if err := user.Validate(); err != nil {
		return models.User{}, err
	}

	hash, err := security.HashPassword(input.Password)
	if err != nil {
		return models.User{}, err
	}
	user.Password = hash

	return s.users.Create(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (models.User, error) {
	if email == "" || password == "" {
		return models.User{}, ErrMissingCredentials
	}

	email = strings.TrimSpace(strings.ToLower(email))
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}

	// A deactivated account is deliberately indistinguishable from wrong
	// credentials.
	if !user.Active || !security.VerifyPassword(password, user.Password) {
		return models.User{}, ErrInvalidCredentials
	}

	return user, nil
}

// ForgotPassword stores a hashed single-use token and mails the raw one. On
// delivery failure the stored fields are rolled back so a retry starts clean.
func (s *AuthService) ForgotPassword(ctx context.Context, email, baseURL string) error {
	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUnknownEmail
		}
		return err
	}

	rawToken, tokenHash, err := security.GenerateResetToken()
	if err != nil {
		return err
	}

	expires := time.Now().UTC().Add(s.cfg.Security.ResetTokenTTL)
	if err := s.users.SetResetToken(ctx, user.ID, tokenHash, expires); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/api/v1/auth/resetPassword/%s", strings.TrimSuffix(baseURL, "/"), rawToken)
	if err := s.mail.SendPasswordReset(user.Email, user.Name, resetURL); err != nil {
		s.log.Error().Err(err).Str("email", user.Email).Msg("reset mail delivery failed")
		if clearErr := s.users.ClearResetToken(ctx, user.ID); clearErr != nil {
			s.log.Error().Err(clearErr).Msg("reset token rollback failed")
		}
		return ErrMailDelivery
	}

	return nil
}

// ResetPassword completes the single-use reset: the submitted raw token is
// hashed with the same algorithm and matched against the stored hash under
// an unexpired deadline.
func (s *AuthService) ResetPassword(ctx context.Context, rawToken, password, passwordConfirm string) (models.User, error) {
	if password == "" || password != passwordConfirm {
		return models.User{}, errors.New("passwords do not match")
	}

	user, err := s.users.FindByResetToken(ctx, security.HashResetToken(rawToken), time.Now().UTC())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.User{}, ErrResetTokenInvalid
		}
		return models.User{}, err
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	changedAt := time.Now().UTC()
	if err := s.users.UpdatePassword(ctx, user.ID, hash, changedAt); err != nil {
		return models.User{}, err
	}

	user.Password = hash
	user.PasswordChangedAt = &changedAt
	user.PasswordResetToken = ""
	user.PasswordResetExpires = nil
	return user, nil
}

func (s *AuthService) UpdatePassword(ctx context.Context, userID primitive.ObjectID, current, newPassword, confirm string) (models.User, error) {
	if current == "" || newPassword == "" || confirm == "" {
		return models.User{}, errors.New("please enter the current password, new password and confirmation")
	}
	if newPassword != confirm {
		return models.User{}, errors.New("passwords do not match")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return models.User{}, err
	}

	if !security.VerifyPassword(current, user.Password) {
		return models.User{}, ErrWrongPassword
	}

	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return models.User{}, err
	}

	changedAt := time.Now().UTC()
	if err := s.users.UpdatePassword(ctx, user.ID, hash, changedAt); err != nil {
		return models.User{}, err
	}

	user.Password = hash
	user.PasswordChangedAt = &changedAt
	return user, nil
}

type googleProfile struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// GoogleLogin exchanges the authorization code, fetches the provider profile
// and finds-or-creates the local user by email. The session issuance contract
// is identical to password login.
func (s *AuthService) GoogleLogin(ctx context.Context, code string) (models.User, error) {
	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return models.User{}, fmt.Errorf("exchange code: %w", err)
	}

	client := s.oauth.Client(ctx, token)
	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		return models.User{}, fmt.Errorf("fetch profile: %w", err)
	}
	defer resp.Body.Close()

	var profile googleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return models.User{}, fmt.Errorf("decode profile: %w", err)
	}
	if profile.Email == "" {
		return models.User{}, errors.New("provider profile has no email")
	}

	email := strings.ToLower(profile.Email)
	user, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return models.User{}, err
	}

	user = models.User{
		Name:   profile.Name,
		Email:  email,
		Photo:  profile.Picture,
		Role:   models.UserRoleViewer,
		Active: true,
	}
	return s.users.Create(ctx, user)
}
