package blogservice

import (
	"context"
	"database/sql"

	"github.com/sushihentaime/bloglist/internal/common"
)

type Blog struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
	Likes  int    `json:"likes"`
	// Creator is nil for legacy entries that never recorded one.
	Creator *Creator `json:"creator,omitempty"`
}

// Creator is the {id, username} expansion of a blog's creator reference.
type Creator struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type Comment struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	// BlogID is a soft reference: it is never checked against the blogs table.
	BlogID string `json:"blogId"`
}

// BlogStore is the persistence boundary for blogs and comments. Insert must
// persist the blog and append its id to the creator's owned-blog list in a
// single atomic step.
type BlogStore interface {
	Insert(ctx context.Context, b *Blog) error
	GetByID(ctx context.Context, id string) (*Blog, error)
	GetAll(ctx context.Context) ([]Blog, error)
	Update(ctx context.Context, b *Blog) error
	Delete(ctx context.Context, id string) error
	InsertComment(ctx context.Context, c *Comment) error
	CommentsByBlog(ctx context.Context, blogID string) ([]Comment, error)
	UserExists(ctx context.Context, userID string) (bool, error)
	Reset(ctx context.Context) error
}

type BlogService struct {
	m BlogStore
	c *common.Cache
}

type DBModel struct {
	db *sql.DB
}
