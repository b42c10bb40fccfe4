package userservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gofrs/uuid/v5"
	"github.com/sushihentaime/bloglist/internal/common"
)

var (
	ErrAuthenticationFailure = fmt.Errorf("username or password incorrect")
)

func NewUserService(m UserStore, mb common.MessageProducer, secret []byte, logger *slog.Logger) *UserService {
	return &UserService{
		m:      m,
		mb:     mb,
		secret: secret,
		logger: logger,
	}
}

// Register creates a new user account and publishes a user.registered event.
// The password hash never leaves the store; the returned user is safe to
// serialize as-is.
func (s *UserService) Register(ctx context.Context, displayName, username, password string) (*User, error) {
	v := common.NewValidator()
	validateCredentials(v, username, password)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}

	u := User{
		ID:          id.String(),
		DisplayName: displayName,
		Username:    username,
		Blogs:       []BlogRef{},
	}

	if err := u.Password.set(password); err != nil {
		return nil, err
	}

	if err := s.m.Insert(ctx, &u); err != nil {
		return nil, err
	}

	event := struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	}{
		ID:       u.ID,
		Username: u.Username,
	}

	eventData, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}

	// the account is already persisted; a broker failure must not turn a
	// completed signup into an error response
	if err := s.mb.Publish(ctx, eventData, common.UserRegisteredKey, common.UserExchange); err != nil {
		s.logger.Error("could not publish user.registered event", slog.String("username", u.Username), slog.String("error", err.Error()))
	}

	return &u, nil
}

// Login exchanges a username/password pair for a signed token. An unknown
// username and a wrong password fail with the same error so callers cannot
// probe which one was at fault.
func (s *UserService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	v := common.NewValidator()
	validateLogin(v, username, password)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	user, err := s.m.GetByUsername(ctx, username)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return nil, ErrAuthenticationFailure
		default:
			return nil, err
		}
	}

	ok, err := user.Password.compare(password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAuthenticationFailure
	}

	token, err := signToken(s.secret, user.Username, user.ID)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Token:       token,
		Username:    user.Username,
		DisplayName: user.DisplayName,
	}, nil
}

// Users returns all users with their owned blogs expanded to projections.
func (s *UserService) Users(ctx context.Context) ([]User, error) {
	return s.m.GetAll(ctx)
}

// Reset wipes all user records. Only reachable through the test-only routes.
func (s *UserService) Reset(ctx context.Context) error {
	return s.m.Reset(ctx)
}
