package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"pokecatalog/internal/models"
)

// Timeouts for the auth flows. On timeout the flow proceeds with a degraded
// safe state (signed out, no profile) instead of blocking.
const (
	sessionTimeout = 3 * time.Second
	profileTimeout = 2 * time.Second
	signInTimeout  = 8 * time.Second
	signOutTimeout = 5 * time.Second

	// profileAttempts bounds the profile fetch retry loop.
	profileAttempts = 2
	profileBackoff  = 250 * time.Millisecond

	sessionTTL = 7 * 24 * time.Hour
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("an account with this email already exists")
)

// AuthState is the bootstrap outcome. Degraded means an upstream step timed
// out or failed and the state was forced to a safe default.
type AuthState struct {
	SignedIn bool            `json:"signed_in"`
	Session  *models.Session `json:"session,omitempty"`
	Profile  *models.Profile `json:"profile,omitempty"`
	Degraded bool            `json:"degraded,omitempty"`
}

// AuthService manages accounts, sessions, and the bootstrap sequence.
type AuthService struct {
	db *gorm.DB
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db}
}

// SignUp registers a new account.
func (s *AuthService) SignUp(ctx context.Context, email, password, name string) (*models.Profile, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	profile := models.Profile{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.db.WithContext(ctx).Create(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		var existing models.Profile
		if s.db.First(&existing, "email = ?", email).Error == nil {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return &profile, nil
}

// SignIn verifies credentials and opens a session, bounded at signInTimeout.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*models.Session, *models.Profile, error) {
	type signedIn struct {
		session *models.Session
		profile *models.Profile
	}

	result, err := runWithTimeout(ctx, signInTimeout, func(ctx context.Context) (signedIn, error) {
		var profile models.Profile
		if err := s.db.WithContext(ctx).First(&profile, "email = ?", email).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return signedIn{}, ErrInvalidCredentials
			}
			return signedIn{}, err
		}
		if bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)) != nil {
			return signedIn{}, ErrInvalidCredentials
		}

		session := models.Session{
			Token:     uuid.NewString(),
			UserID:    profile.ID,
			ExpiresAt: time.Now().Add(sessionTTL),
			CreatedAt: time.Now(),
		}
		if err := s.db.WithContext(ctx).Create(&session).Error; err != nil {
			return signedIn{}, err
		}
		return signedIn{session: &session, profile: &profile}, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return result.session, result.profile, nil
}

// SignOut deletes the session, bounded at signOutTimeout. A timeout is not an
// error: the caller's local state is cleared regardless, the row expires on
// its own.
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	_, err := runWithTimeout(ctx, signOutTimeout, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.db.WithContext(ctx).Delete(&models.Session{}, "token = ?", token).Error
	})
	if errors.Is(err, context.DeadlineExceeded) {
		log.Printf("Auth: sign-out timed out for token, forcing local sign-out")
		return nil
	}
	return err
}

// CurrentSession resolves a token to a live session, bounded at
// sessionTimeout. Unknown and expired tokens both return (nil, nil).
func (s *AuthService) CurrentSession(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, nil
	}
	return runWithTimeout(ctx, sessionTimeout, func(ctx context.Context) (*models.Session, error) {
		var session models.Session
		if err := s.db.WithContext(ctx).First(&session, "token = ?", token).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil
			}
			return nil, err
		}
		if session.Expired() {
			return nil, nil
		}
		return &session, nil
	})
}

// ProfileFor fetches a user's profile with a bounded retry: at most
// profileAttempts attempts, each capped at profileTimeout.
func (s *AuthService) ProfileFor(ctx context.Context, userID string) (*models.Profile, error) {
	var lastErr error
	for attempt := 1; attempt <= profileAttempts; attempt++ {
		profile, err := runWithTimeout(ctx, profileTimeout, func(ctx context.Context) (*models.Profile, error) {
			var p models.Profile
			if err := s.db.WithContext(ctx).First(&p, "id = ?", userID).Error; err != nil {
				return nil, err
			}
			return &p, nil
		})
		if err == nil {
			return profile, nil
		}
		lastErr = err
		if attempt < profileAttempts {
			log.Printf("Auth: profile fetch attempt %d failed, retrying: %v", attempt, err)
			time.Sleep(profileBackoff)
		}
	}
	return nil, lastErr
}

// Bootstrap resolves a token into the full auth state. Failures degrade
// rather than propagate: a dead session means signed out, a failed profile
// fetch means a session without a profile.
func (s *AuthService) Bootstrap(ctx context.Context, token string) AuthState {
	session, err := s.CurrentSession(ctx, token)
	if err != nil {
		log.Printf("Auth: session bootstrap failed, continuing signed out: %v", err)
		return AuthState{Degraded: true}
	}
	if session == nil {
		return AuthState{}
	}

	profile, err := s.ProfileFor(ctx, session.UserID)
	if err != nil {
		log.Printf("Auth: profile fetch failed for user %s, continuing without profile: %v", session.UserID, err)
		return AuthState{SignedIn: true, Session: session, Degraded: true}
	}

	return AuthState{SignedIn: true, Session: session, Profile: profile}
}

// UpdateProfile applies partial profile changes.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, req models.UpdateProfileRequest) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.WithContext(ctx).First(&profile, "id = ?", userID).Error; err != nil {
		return nil, err
	}

	if req.Name != nil {
		profile.Name = *req.Name
	}
	if req.AvatarURL != nil {
		profile.AvatarURL = *req.AvatarURL
	}
	profile.UpdatedAt = time.Now()

	if err := s.db.WithContext(ctx).Save(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// runWithTimeout races fn against a deadline. fn keeps running in its
// goroutine after a timeout; only the result is abandoned.
func runWithTimeout[T any](ctx context.Context, d time.Duration, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	type outcome struct {
		value T
		err   error
	}
	done := make(chan outcome, 1)
	go func() {
		v, err := fn(ctx)
		done <- outcome{v, err}
	}()

	select {
	case o := <-done:
		return o.value, o.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
