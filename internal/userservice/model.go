package userservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

var (
	ErrDuplicateUsername = errors.New("duplicate username")
	ErrNotFound          = errors.New("user not found")
)

func NewUserModel(db *sql.DB) *DBModel {
	return &DBModel{db: db}
}

func (m *DBModel) Insert(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (id, display_name, username, password)
		VALUES ($1, $2, $3, $4)`

	args := []any{
		u.ID,
		u.DisplayName,
		u.Username,
		u.Password.hash,
	}

	_, err := m.db.ExecContext(ctx, query, args...)
	if err != nil {
		switch {
		case err.Error() == "pq: duplicate key value violates unique constraint \"users_username_key\"":
			return ErrDuplicateUsername
		default:
			return err
		}
	}
	return nil
}

func (m *DBModel) GetByUsername(ctx context.Context, username string) (*User, error) {
	query := `
		SELECT id, display_name, username, password
		FROM users
		WHERE username = $1`

	var u User

	err := m.db.QueryRowContext(ctx, query, username).Scan(&u.ID, &u.DisplayName, &u.Username, &u.Password.hash)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrNotFound
		default:
			return nil, err
		}
	}

	return &u, nil
}

// GetAll returns every user with the owned-blog id list expanded to
// {url, title, author} projections, preserving append order. Stale ids whose
// blog no longer exists are dropped from the projection.
func (m *DBModel) GetAll(ctx context.Context) ([]User, error) {
	query := `
		SELECT id, display_name, username, blog_ids
		FROM users
		ORDER BY created_at`

	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	var blogIDs []pq.StringArray
	for rows.Next() {
		var u User
		var ids pq.StringArray
		err := rows.Scan(&u.ID, &u.DisplayName, &u.Username, &ids)
		if err != nil {
			return nil, err
		}
		u.Blogs = []BlogRef{}
		users = append(users, u)
		blogIDs = append(blogIDs, ids)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range users {
		if len(blogIDs[i]) == 0 {
			continue
		}

		blogs, err := m.getBlogRefs(ctx, blogIDs[i])
		if err != nil {
			return nil, err
		}
		users[i].Blogs = blogs
	}

	return users, nil
}

func (m *DBModel) getBlogRefs(ctx context.Context, ids pq.StringArray) ([]BlogRef, error) {
	query := `
		SELECT b.url, b.title, b.author
		FROM blogs b
		JOIN unnest($1::text[]) WITH ORDINALITY AS ref(id, ord) ON b.id = ref.id
		ORDER BY ref.ord`

	rows, err := m.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	blogs := []BlogRef{}
	for rows.Next() {
		var b BlogRef
		err := rows.Scan(&b.URL, &b.Title, &b.Author)
		if err != nil {
			return nil, err
		}
		blogs = append(blogs, b)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return blogs, nil
}

func (m *DBModel) Reset(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, "TRUNCATE users CASCADE")
	return err
}
