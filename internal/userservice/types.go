package userservice

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/sushihentaime/bloglist/internal/common"
)

type UserService struct {
	m      UserStore
	mb     common.MessageProducer
	secret []byte
	logger *slog.Logger
}

type User struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"user"`
	Username    string    `json:"username"`
	Password    Password  `json:"-"`
	Blogs       []BlogRef `json:"blogs"`
}

// BlogRef is the owned-blog projection embedded in user listings.
type BlogRef struct {
	URL    string `json:"url"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

// Password holds only the bcrypt hash; the plain text is never retained.
type Password struct {
	hash []byte
}

// Identity is the verified token claim attached to an authenticated request.
type Identity struct {
	ID       string
	Username string
}

type LoginResult struct {
	Token       string `json:"token"`
	Username    string `json:"username"`
	DisplayName string `json:"user"`
}

// UserStore is the persistence boundary for users. Implementations must
// enforce username uniqueness and keep the owned-blog id list ordered.
type UserStore interface {
	Insert(ctx context.Context, u *User) error
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetAll(ctx context.Context) ([]User, error)
	Reset(ctx context.Context) error
}

type DBModel struct {
	db *sql.DB
}
