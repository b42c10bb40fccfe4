package blogservice

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/sushihentaime/bloglist/internal/common"
	"github.com/sushihentaime/bloglist/internal/userservice"
)

func NewBlogService(m BlogStore, c *common.Cache) *BlogService {
	return &BlogService{m: m, c: c}
}

type CreateBlogRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
	// Likes is a pointer so an explicit 0 is distinguishable from an absent
	// field; only the latter is defaulted.
	Likes *int `json:"likes"`
}

type UpdateBlogRequest struct {
	Title   string `json:"title"`
	Author  string `json:"author"`
	URL     string `json:"url"`
	Likes   int    `json:"likes"`
	Creator string `json:"creator"`
}

// Blogs returns all blog posts with the creator expanded to {id, username}.
func (s *BlogService) Blogs(ctx context.Context) ([]Blog, error) {
	if cached, ok := s.c.Get(common.CacheKeyBlogs()); ok {
		if blogs, ok := cached.([]Blog); ok {
			return blogs, nil
		}
	}

	blogs, err := s.m.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	s.c.Set(common.CacheKeyBlogs(), blogs)

	return blogs, nil
}

// Create persists a new blog post owned by the authenticated identity and
// appends its id to the owner's blog list in the same transaction.
func (s *BlogService) Create(ctx context.Context, identity *userservice.Identity, req *CreateBlogRequest) (*Blog, error) {
	likes := 0
	if req.Likes != nil {
		likes = *req.Likes
	}

	v := common.NewValidator()
	validateLikes(v, likes)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	ok, err := s.m.UserExists(ctx, identity.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUserNotExist
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}

	blog := Blog{
		ID:     id.String(),
		Title:  req.Title,
		Author: req.Author,
		URL:    req.URL,
		Likes:  likes,
		Creator: &Creator{
			ID:       identity.ID,
			Username: identity.Username,
		},
	}

	if err := s.m.Insert(ctx, &blog); err != nil {
		return nil, err
	}

	s.c.Delete(common.CacheKeyBlogs())

	return &blog, nil
}

// Delete removes a blog post. Only the user recorded as its creator may do
// so; entries without a creator cannot be deleted through this path.
func (s *BlogService) Delete(ctx context.Context, identity *userservice.Identity, blogID string) error {
	blog, err := s.m.GetByID(ctx, blogID)
	if err != nil {
		return err
	}

	if blog.Creator == nil {
		return ErrNoCreator
	}

	if blog.Creator.ID != identity.ID {
		return ErrNotOwner
	}

	if err := s.m.Delete(ctx, blogID); err != nil {
		return err
	}

	s.c.Delete(common.CacheKeyBlogs())

	return nil
}

// Update overwrites a blog post by id without any ownership or
// authentication check; see DESIGN.md. Updating a nonexistent id is a no-op
// that still reports the submitted fields back.
func (s *BlogService) Update(ctx context.Context, blogID string, req *UpdateBlogRequest) (*Blog, error) {
	v := common.NewValidator()
	validateLikes(v, req.Likes)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	blog := Blog{
		ID:     blogID,
		Title:  req.Title,
		Author: req.Author,
		URL:    req.URL,
		Likes:  req.Likes,
	}
	if req.Creator != "" {
		blog.Creator = &Creator{ID: req.Creator}
	}

	if err := s.m.Update(ctx, &blog); err != nil {
		return nil, err
	}

	s.c.Delete(common.CacheKeyBlogs())

	return &blog, nil
}

// Comments returns all comments attached to the given blog id. The id is not
// checked against the blogs table.
func (s *BlogService) Comments(ctx context.Context, blogID string) ([]Comment, error) {
	if cached, ok := s.c.Get(common.CacheKeyBlogComments(blogID)); ok {
		if comments, ok := cached.([]Comment); ok {
			return comments, nil
		}
	}

	comments, err := s.m.CommentsByBlog(ctx, blogID)
	if err != nil {
		return nil, err
	}

	s.c.Set(common.CacheKeyBlogComments(blogID), comments)

	return comments, nil
}

// AddComment attaches a comment to a blog id on behalf of the authenticated
// identity. Comments are immutable once created.
func (s *BlogService) AddComment(ctx context.Context, identity *userservice.Identity, blogID, content string) (*Comment, error) {
	v := common.NewValidator()
	validateContent(v, content)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	ok, err := s.m.UserExists(ctx, identity.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUserNotExist
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}

	comment := Comment{
		ID:      id.String(),
		Content: content,
		BlogID:  blogID,
	}

	if err := s.m.InsertComment(ctx, &comment); err != nil {
		return nil, err
	}

	s.c.Delete(common.CacheKeyBlogComments(blogID))

	return &comment, nil
}

// Reset wipes all blog and comment records. Only reachable through the
// test-only routes.
func (s *BlogService) Reset(ctx context.Context) error {
	s.c.Flush()
	return s.m.Reset(ctx)
}
