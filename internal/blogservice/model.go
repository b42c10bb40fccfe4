package blogservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrUserNotExist   = errors.New("user does not exist")
	ErrNoCreator      = errors.New("blog has no registered creator")
	ErrNotOwner       = errors.New("unauthorized user")
)

func NewBlogModel(db *sql.DB) *DBModel {
	return &DBModel{db: db}
}

// ForeignKeyError is a helper function to check if the error is a foreign key constraint error.
func ForeignKeyError(err error, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == "23503" && pqErr.Constraint == name {
			return true
		}
	}

	return false
}

// Insert persists the blog and appends its id to the creator's owned-blog
// list in one transaction, so a crash never leaves a blog missing from its
// owner's list.
func (m *DBModel) Insert(ctx context.Context, b *Blog) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO blogs (id, title, author, url, likes, creator_id)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))`

	var creatorID string
	if b.Creator != nil {
		creatorID = b.Creator.ID
	}

	_, err = tx.ExecContext(ctx, query, b.ID, b.Title, b.Author, b.URL, b.Likes, creatorID)
	if err != nil {
		_ = tx.Rollback()
		switch {
		case ForeignKeyError(err, "blogs_creator_id_fkey"):
			return ErrUserNotExist
		default:
			return err
		}
	}

	if b.Creator != nil {
		query = `
			UPDATE users
			SET blog_ids = array_append(blog_ids, $1)
			WHERE id = $2`

		_, err = tx.ExecContext(ctx, query, b.ID, b.Creator.ID)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

// GetByID returns a blog by id with the creator expanded via the users table.
func (m *DBModel) GetByID(ctx context.Context, id string) (*Blog, error) {
	query := `
		SELECT b.id, b.title, b.author, b.url, b.likes, b.creator_id, u.username
		FROM blogs b
		LEFT JOIN users u ON b.creator_id = u.id
		WHERE b.id = $1`

	var blog Blog
	var creatorID, creatorName sql.NullString

	err := m.db.QueryRowContext(ctx, query, id).Scan(&blog.ID, &blog.Title, &blog.Author, &blog.URL, &blog.Likes, &creatorID, &creatorName)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	if creatorID.Valid {
		blog.Creator = &Creator{ID: creatorID.String, Username: creatorName.String}
	}

	return &blog, nil
}

func (m *DBModel) GetAll(ctx context.Context) ([]Blog, error) {
	query := `
		SELECT b.id, b.title, b.author, b.url, b.likes, b.creator_id, u.username
		FROM blogs b
		LEFT JOIN users u ON b.creator_id = u.id
		ORDER BY b.created_at`

	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	blogs := []Blog{}
	for rows.Next() {
		var blog Blog
		var creatorID, creatorName sql.NullString

		err := rows.Scan(&blog.ID, &blog.Title, &blog.Author, &blog.URL, &blog.Likes, &creatorID, &creatorName)
		if err != nil {
			return nil, err
		}

		if creatorID.Valid {
			blog.Creator = &Creator{ID: creatorID.String, Username: creatorName.String}
		}

		blogs = append(blogs, blog)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return blogs, nil
}

// Update overwrites every mutable field of the row. A missing id affects no
// rows and is deliberately not reported as an error.
func (m *DBModel) Update(ctx context.Context, b *Blog) error {
	query := `
		UPDATE blogs
		SET title = $1, author = $2, url = $3, likes = $4, creator_id = NULLIF($5, '')
		WHERE id = $6`

	var creatorID string
	if b.Creator != nil {
		creatorID = b.Creator.ID
	}

	_, err := m.db.ExecContext(ctx, query, b.Title, b.Author, b.URL, b.Likes, creatorID, b.ID)
	if err != nil {
		switch {
		case ForeignKeyError(err, "blogs_creator_id_fkey"):
			return ErrUserNotExist
		default:
			return err
		}
	}

	return nil
}

func (m *DBModel) Delete(ctx context.Context, id string) error {
	query := `
		DELETE FROM blogs
		WHERE id = $1`

	res, err := m.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows != 1 {
		switch {
		case rows == 0:
			return ErrRecordNotFound
		default:
			return fmt.Errorf("expected 1 row to be affected, got %d", rows)
		}
	}

	return nil
}

func (m *DBModel) InsertComment(ctx context.Context, c *Comment) error {
	query := `
		INSERT INTO comments (id, content, blog_id)
		VALUES ($1, $2, $3)`

	_, err := m.db.ExecContext(ctx, query, c.ID, c.Content, c.BlogID)
	return err
}

func (m *DBModel) CommentsByBlog(ctx context.Context, blogID string) ([]Comment, error) {
	query := `
		SELECT id, content, blog_id
		FROM comments
		WHERE blog_id = $1
		ORDER BY created_at`

	rows, err := m.db.QueryContext(ctx, query, blogID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []Comment{}
	for rows.Next() {
		var c Comment
		err := rows.Scan(&c.ID, &c.Content, &c.BlogID)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return comments, nil
}

func (m *DBModel) UserExists(ctx context.Context, userID string) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`

	var exists bool
	err := m.db.QueryRowContext(ctx, query, userID).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}

func (m *DBModel) Reset(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, "TRUNCATE comments, blogs")
	return err
}
