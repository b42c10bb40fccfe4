package userservice_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/sushihentaime/bloglist/internal/blogservice"
	"github.com/sushihentaime/bloglist/internal/common"
	"github.com/sushihentaime/bloglist/internal/memstore"
	"github.com/sushihentaime/bloglist/internal/userservice"
)

type failingProducer struct{}

func (failingProducer) Publish(context.Context, []byte, common.BindingKey, common.Exchange) error {
	return errors.New("broker unavailable")
}

func newTestService(t *testing.T) (*userservice.UserService, *memstore.Store, *common.MockProducer) {
	t.Helper()

	store := memstore.New()
	producer := common.NewMockProducer()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := userservice.NewUserService(store.UserStore(), producer, []byte("test-secret"), logger)

	return s, store, producer
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		s, _, producer := newTestService(t)

		user, err := s.Register(ctx, "Matti Luukkainen", "mluukkai", "salainen")
		assert.NoError(t, err)
		assert.NotEmpty(t, user.ID)
		assert.Equal(t, "mluukkai", user.Username)
		assert.Equal(t, "Matti Luukkainen", user.DisplayName)
		assert.Equal(t, []userservice.BlogRef{}, user.Blogs)

		// the password hash must never be serialized
		data, err := json.Marshal(user)
		assert.NoError(t, err)
		assert.NotContains(t, string(data), "password")
		assert.NotContains(t, string(data), "salainen")

		// a user.registered event is published
		assert.Len(t, producer.Messages, 1)
		assert.Equal(t, common.UserRegisteredKey, producer.Keys[0])
	})

	t.Run("duplicate username", func(t *testing.T) {
		s, _, _ := newTestService(t)

		_, err := s.Register(ctx, "First", "mluukkai", "salainen")
		assert.NoError(t, err)

		_, err = s.Register(ctx, "Second", "mluukkai", "salainen")
		assert.True(t, errors.Is(err, userservice.ErrDuplicateUsername))
	})

	t.Run("short credentials", func(t *testing.T) {
		s, store, _ := newTestService(t)

		_, err := s.Register(ctx, "Short", "ml", "sa")

		var validationErr common.ValidationError
		assert.True(t, errors.As(err, &validationErr))
		assert.Equal(t, "username and password must be at least 3 characters long", validationErr.Message)

		// the store must not gain a user
		users, err := store.UserStore().GetAll(ctx)
		assert.NoError(t, err)
		assert.Empty(t, users)
	})

	t.Run("broker failure does not fail the signup", func(t *testing.T) {
		store := memstore.New()
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		s := userservice.NewUserService(store.UserStore(), failingProducer{}, []byte("test-secret"), logger)

		user, err := s.Register(ctx, "Matti Luukkainen", "mluukkai", "salainen")
		assert.NoError(t, err)
		assert.NotEmpty(t, user.ID)

		// the account is persisted even though the event never left
		stored, err := store.UserStore().GetByUsername(ctx, "mluukkai")
		assert.NoError(t, err)
		assert.Equal(t, user.ID, stored.ID)
	})

	t.Run("missing username", func(t *testing.T) {
		s, _, _ := newTestService(t)

		_, err := s.Register(ctx, "Nameless", "", "salainen")

		var validationErr common.ValidationError
		assert.True(t, errors.As(err, &validationErr))
		assert.Equal(t, "username is required", validationErr.Message)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*userservice.UserService, *userservice.User) {
		s, _, _ := newTestService(t)
		user, err := s.Register(ctx, "World", "World", "hello world!")
		assert.NoError(t, err)
		return s, user
	}

	t.Run("success", func(t *testing.T) {
		s, user := setup(t)

		result, err := s.Login(ctx, "World", "hello world!")
		assert.NoError(t, err)
		assert.Equal(t, "World", result.Username)
		assert.NotEmpty(t, result.Token)

		identity, err := s.VerifyAccessToken(result.Token)
		assert.NoError(t, err)
		assert.Equal(t, user.ID, identity.ID)
		assert.Equal(t, "World", identity.Username)
	})

	t.Run("repeated logins stay verifiable", func(t *testing.T) {
		s, user := setup(t)

		for i := 0; i < 3; i++ {
			result, err := s.Login(ctx, "World", "hello world!")
			assert.NoError(t, err)

			identity, err := s.VerifyAccessToken(result.Token)
			assert.NoError(t, err)
			assert.Equal(t, user.ID, identity.ID)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		s, _ := setup(t)

		_, err := s.Login(ctx, "World", "wrong password")
		assert.True(t, errors.Is(err, userservice.ErrAuthenticationFailure))
	})

	t.Run("unknown username yields the same error", func(t *testing.T) {
		s, _ := setup(t)

		_, wrongPassword := s.Login(ctx, "World", "wrong password")
		_, unknownUser := s.Login(ctx, "nobody", "hello world!")
		assert.Equal(t, wrongPassword, unknownUser)
	})

	t.Run("missing fields", func(t *testing.T) {
		s, _ := setup(t)

		_, err := s.Login(ctx, "", "")

		var validationErr common.ValidationError
		assert.True(t, errors.As(err, &validationErr))
		assert.Equal(t, "username and password required!", validationErr.Message)
	})
}

func TestUsersProjection(t *testing.T) {
	ctx := context.Background()

	s, store, _ := newTestService(t)

	user, err := s.Register(ctx, "Michael Chan", "mchan", "salainen")
	assert.NoError(t, err)

	blogs := blogservice.NewBlogService(store.BlogStore(), common.NewCache(0, 0))
	identity := &userservice.Identity{ID: user.ID, Username: user.Username}

	first, err := blogs.Create(ctx, identity, &blogservice.CreateBlogRequest{
		Title:  "React patterns",
		Author: "Michael Chan",
		URL:    "https://reactpatterns.com/",
	})
	assert.NoError(t, err)

	_, err = blogs.Create(ctx, identity, &blogservice.CreateBlogRequest{
		Title:  "Go Concurrency Patterns",
		Author: "Rob Pike",
		URL:    "https://go.dev/talks/2012/concurrency.slide",
	})
	assert.NoError(t, err)

	users, err := s.Users(ctx)
	assert.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, []userservice.BlogRef{
		{URL: "https://reactpatterns.com/", Title: "React patterns", Author: "Michael Chan"},
		{URL: "https://go.dev/talks/2012/concurrency.slide", Title: "Go Concurrency Patterns", Author: "Rob Pike"},
	}, users[0].Blogs)

	// deleting a blog leaves a stale reference that is dropped from the
	// projection, not a cascading update
	err = blogs.Delete(ctx, identity, first.ID)
	assert.NoError(t, err)

	users, err = s.Users(ctx)
	assert.NoError(t, err)
	assert.Len(t, users[0].Blogs, 1)
	assert.Equal(t, "Go Concurrency Patterns", users[0].Blogs[0].Title)
}
