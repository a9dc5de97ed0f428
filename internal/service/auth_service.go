package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"gorm.io/gorm"

	"github.com/sevalink/marketplace_server/config"
	"github.com/sevalink/marketplace_server/internal/model"
	"github.com/sevalink/marketplace_server/internal/model/dto"
	"github.com/sevalink/marketplace_server/internal/pkg/jwt"
	"github.com/sevalink/marketplace_server/internal/pkg/oauth"
	"github.com/sevalink/marketplace_server/internal/repository"
)

// GoogleProvider is the OAuth client used for social sign-in.
type GoogleProvider interface {
	GetAuthURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	GetUser(ctx context.Context, token *oauth2.Token) (*oauth.GoogleUser, error)
}

type AuthService struct {
	userRepo *repository.UserRepository
	states   *oauth.StateStore
	google   GoogleProvider
	cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, states *oauth.StateStore, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		states:   states,
		google: oauth.NewGoogleOAuth(
			cfg.OAuth.Google.ClientID,
			cfg.OAuth.Google.ClientSecret,
			cfg.OAuth.Google.RedirectURI,
		),
		cfg: cfg,
	}
}

// Register signs up with email and password.
func (s *AuthService) Register(req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	exists, err := s.userRepo.ExistsByEmail(email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	hash := string(hashed)

	role := req.Role
	if role == "" {
		role = model.RoleCustomer
	}

	user := &model.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        &email,
		PasswordHash: &hash,
		Role:         role,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	return &dto.RegisterResponse{UserID: user.ID}, nil
}

// Login checks email and password and issues a token.
func (s *AuthService) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if user.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issue(user, "")
}

// GoogleAuthURL starts social sign-in. returnTo is where the user lands
// afterwards, e.g. the provider page whose connect button needed a login.
func (s *AuthService) GoogleAuthURL(ctx context.Context, returnTo string) (string, error) {
	state, err := s.states.GenerateState(ctx, oauth.StateData{ReturnTo: SafeReturnPath(returnTo)})
	if err != nil {
		return "", err
	}
	return s.google.GetAuthURL(state), nil
}

// GoogleCallback finishes social sign-in, linking or creating the account.
func (s *AuthService) GoogleCallback(ctx context.Context, code, state string) (*dto.LoginResponse, error) {
	data, err := s.states.ValidateState(ctx, state)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOAuthFailed, err)
	}

	token, err := s.google.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: exchange code: %v", ErrOAuthFailed, err)
	}
	guser, err := s.google.GetUser(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch profile: %v", ErrOAuthFailed, err)
	}

	user, err := s.findOrCreateGoogleUser(guser)
	if err != nil {
		return nil, err
	}
	log.Ctx(ctx).Info().Int64("user_id", user.ID).Msg("google sign-in")

	return s.issue(user, data.ReturnTo)
}

func (s *AuthService) findOrCreateGoogleUser(guser *oauth.GoogleUser) (*model.User, error) {
	user, err := s.userRepo.GetByGoogleID(guser.Sub)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	email := strings.ToLower(guser.Email)
	if email != "" && guser.EmailVerified {
		user, err = s.userRepo.GetByEmail(email)
		if err == nil {
			sub := guser.Sub
			user.GoogleID = &sub
			user.EmailVerified = true
			if user.AvatarURL == "" {
				user.AvatarURL = guser.Picture
			}
			if err := s.userRepo.Update(user); err != nil {
				return nil, err
			}
			return user, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	sub := guser.Sub
	user = &model.User{
		Name:          guser.Name,
		GoogleID:      &sub,
		AvatarURL:     guser.Picture,
		Role:          model.RoleCustomer,
		EmailVerified: guser.EmailVerified,
	}
	if user.Name == "" {
		user.Name = "Customer"
	}
	if email != "" && guser.EmailVerified {
		user.Email = &email
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *AuthService) GetUserByID(id int64) (*model.User, error) {
	return s.userRepo.GetByID(id)
}

func (s *AuthService) issue(user *model.User, returnTo string) (*dto.LoginResponse, error) {
	token, err := jwt.GenerateToken(user.ID, user.Role, s.cfg.JWT.Secret, s.cfg.JWT.ExpireHours)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:    token,
		User:     toUserInfo(user),
		ReturnTo: returnTo,
	}, nil
}

// SafeReturnPath keeps only same-site relative paths.
func SafeReturnPath(p string) string {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.Contains(p, "\\") {
		return ""
	}
	return p
}

func toUserInfo(user *model.User) *dto.UserInfo {
	info := &dto.UserInfo{
		ID:            user.ID,
		Name:          user.Name,
		Phone:         user.Phone,
		AvatarURL:     user.AvatarURL,
		Role:          user.Role,
		EmailVerified: user.EmailVerified,
	}
	if user.Email != nil {
		info.Email = *user.Email
	}
	if !user.CreatedAt.IsZero() {
		info.CreatedAt = user.CreatedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	return info
}
