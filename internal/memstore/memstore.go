// Package memstore provides an in-memory implementation of the user and blog
// store boundaries for handler and service tests, mirroring the semantics of
// the postgres models: username uniqueness, ordered owned-blog lists, soft
// comment references and no cascading deletes.
package memstore

import (
	"context"
	"sync"

	"github.com/sushihentaime/bloglist/internal/blogservice"
	"github.com/sushihentaime/bloglist/internal/userservice"
)

type Store struct {
	mu sync.Mutex

	users     map[string]userservice.User
	userOrder []string
	userBlogs map[string][]string

	blogs     map[string]blogservice.Blog
	blogOrder []string

	comments []blogservice.Comment
}

func New() *Store {
	return &Store{
		users:     make(map[string]userservice.User),
		userBlogs: make(map[string][]string),
		blogs:     make(map[string]blogservice.Blog),
	}
}

// UserStore returns the userservice view of the shared store.
func (s *Store) UserStore() *UserStore {
	return &UserStore{s: s}
}

// BlogStore returns the blogservice view of the shared store.
func (s *Store) BlogStore() *BlogStore {
	return &BlogStore{s: s}
}

type UserStore struct {
	s *Store
}

func (us *UserStore) Insert(ctx context.Context, u *userservice.User) error {
	s := us.s
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.userOrder {
		if s.users[id].Username == u.Username {
			return userservice.ErrDuplicateUsername
		}
	}

	s.users[u.ID] = *u
	s.userOrder = append(s.userOrder, u.ID)
	return nil
}

func (us *UserStore) GetByUsername(ctx context.Context, username string) (*userservice.User, error) {
	s := us.s
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.userOrder {
		if s.users[id].Username == username {
			u := s.users[id]
			return &u, nil
		}
	}

	return nil, userservice.ErrNotFound
}

func (us *UserStore) GetAll(ctx context.Context) ([]userservice.User, error) {
	s := us.s
	s.mu.Lock()
	defer s.mu.Unlock()

	users := []userservice.User{}
	for _, id := range s.userOrder {
		u := s.users[id]
		u.Blogs = []userservice.BlogRef{}
		for _, blogID := range s.userBlogs[id] {
			blog, ok := s.blogs[blogID]
			if !ok {
				// stale reference, dropped from the projection
				continue
			}
			u.Blogs = append(u.Blogs, userservice.BlogRef{
				URL:    blog.URL,
				Title:  blog.Title,
				Author: blog.Author,
			})
		}
		users = append(users, u)
	}

	return users, nil
}

func (us *UserStore) Reset(ctx context.Context) error {
	s := us.s
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = make(map[string]userservice.User)
	s.userOrder = nil
	s.userBlogs = make(map[string][]string)
	// the postgres model truncates with CASCADE, taking referencing blogs
	// with it
	s.blogs = make(map[string]blogservice.Blog)
	s.blogOrder = nil
	return nil
}

type BlogStore struct {
	s *Store
}

func (bs *BlogStore) Insert(ctx context.Context, b *blogservice.Blog) error {
	s := bs.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if b.Creator != nil {
		if _, ok := s.users[b.Creator.ID]; !ok {
			return blogservice.ErrUserNotExist
		}
		s.userBlogs[b.Creator.ID] = append(s.userBlogs[b.Creator.ID], b.ID)
	}

	s.blogs[b.ID] = *b
	s.blogOrder = append(s.blogOrder, b.ID)
	return nil
}

func (bs *BlogStore) GetByID(ctx context.Context, id string) (*blogservice.Blog, error) {
	s := bs.s
	s.mu.Lock()
	defer s.mu.Unlock()

	blog, ok := s.blogs[id]
	if !ok {
		return nil, blogservice.ErrRecordNotFound
	}

	return &blog, nil
}

func (bs *BlogStore) GetAll(ctx context.Context) ([]blogservice.Blog, error) {
	s := bs.s
	s.mu.Lock()
	defer s.mu.Unlock()

	blogs := []blogservice.Blog{}
	for _, id := range s.blogOrder {
		blogs = append(blogs, s.blogs[id])
	}

	return blogs, nil
}

func (bs *BlogStore) Update(ctx context.Context, b *blogservice.Blog) error {
	s := bs.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.blogs[b.ID]; !ok {
		// missing id is a silent no-op
		return nil
	}

	if b.Creator != nil {
		if _, ok := s.users[b.Creator.ID]; !ok {
			return blogservice.ErrUserNotExist
		}
	}

	s.blogs[b.ID] = *b
	return nil
}

func (bs *BlogStore) Delete(ctx context.Context, id string) error {
	s := bs.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.blogs[id]; !ok {
		return blogservice.ErrRecordNotFound
	}

	delete(s.blogs, id)
	for i, blogID := range s.blogOrder {
		if blogID == id {
			s.blogOrder = append(s.blogOrder[:i], s.blogOrder[i+1:]...)
			break
		}
	}

	// comments and owned-blog lists keep their references; there is no
	// cascading delete
	return nil
}

func (bs *BlogStore) InsertComment(ctx context.Context, c *blogservice.Comment) error {
	s := bs.s
	s.mu.Lock()
	defer s.mu.Unlock()

	s.comments = append(s.comments, *c)
	return nil
}

func (bs *BlogStore) CommentsByBlog(ctx context.Context, blogID string) ([]blogservice.Comment, error) {
	s := bs.s
	s.mu.Lock()
	defer s.mu.Unlock()

	comments := []blogservice.Comment{}
	for _, c := range s.comments {
		if c.BlogID == blogID {
			comments = append(comments, c)
		}
	}

	return comments, nil
}

func (bs *BlogStore) UserExists(ctx context.Context, userID string) (bool, error) {
	s := bs.s
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.users[userID]
	return ok, nil
}

func (bs *BlogStore) Reset(ctx context.Context) error {
	s := bs.s
	s.mu.Lock()
	defer s.mu.Unlock()

	s.blogs = make(map[string]blogservice.Blog)
	s.blogOrder = nil
	s.comments = nil
	return nil
}
