package blogservice_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sushihentaime/bloglist/internal/blogservice"
	"github.com/sushihentaime/bloglist/internal/common"
	"github.com/sushihentaime/bloglist/internal/memstore"
	"github.com/sushihentaime/bloglist/internal/userservice"
)

func newTestService(t *testing.T) (*blogservice.BlogService, *memstore.Store, *userservice.Identity) {
	t.Helper()

	store := memstore.New()
	s := blogservice.NewBlogService(store.BlogStore(), common.NewCache(0, 0))

	user := userservice.User{ID: "user-1", DisplayName: "Root User", Username: "root"}
	err := store.UserStore().Insert(context.Background(), &user)
	require.NoError(t, err)

	return s, store, &userservice.Identity{ID: user.ID, Username: user.Username}
}

func intPtr(n int) *int {
	return &n
}

func TestCreateBlog(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		s, _, identity := newTestService(t)

		blog, err := s.Create(ctx, identity, &blogservice.CreateBlogRequest{
			Title:  "React patterns",
			Author: "Michael Chan",
			URL:    "https://reactpatterns.com/",
			Likes:  intPtr(7),
		})
		require.NoError(t, err)
		assert.NotEmpty(t, blog.ID)
		assert.Equal(t, 7, blog.Likes)
		require.NotNil(t, blog.Creator)
		assert.Equal(t, "user-1", blog.Creator.ID)
		assert.Equal(t, "root", blog.Creator.Username)
	})

	t.Run("missing likes defaults to zero", func(t *testing.T) {
		s, _, identity := newTestService(t)

		blog, err := s.Create(ctx, identity, &blogservice.CreateBlogRequest{
			Title:  "Type wars",
			Author: "Robert C. Martin",
			URL:    "http://blog.cleancoder.com/",
		})
		require.NoError(t, err)
		assert.Equal(t, 0, blog.Likes)
	})

	t.Run("explicit zero likes is preserved", func(t *testing.T) {
		s, _, identity := newTestService(t)

		blog, err := s.Create(ctx, identity, &blogservice.CreateBlogRequest{
			Title:  "Type wars",
			Author: "Robert C. Martin",
			URL:    "http://blog.cleancoder.com/",
			Likes:  intPtr(0),
		})
		require.NoError(t, err)
		assert.Equal(t, 0, blog.Likes)
	})

	t.Run("negative likes", func(t *testing.T) {
		s, _, identity := newTestService(t)

		_, err := s.Create(ctx, identity, &blogservice.CreateBlogRequest{
			Title: "Broken",
			Likes: intPtr(-1),
		})

		var validationErr common.ValidationError
		require.True(t, errors.As(err, &validationErr))
		assert.Equal(t, "likes must not be negative", validationErr.Message)
	})

	t.Run("vanished creator", func(t *testing.T) {
		s, _, _ := newTestService(t)

		ghost := &userservice.Identity{ID: "gone", Username: "ghost"}
		_, err := s.Create(ctx, ghost, &blogservice.CreateBlogRequest{Title: "Orphan"})
		assert.ErrorIs(t, err, blogservice.ErrUserNotExist)
	})
}

func TestDeleteBlog(t *testing.T) {
	ctx := context.Background()

	t.Run("owner can delete", func(t *testing.T) {
		s, _, identity := newTestService(t)

		blog, err := s.Create(ctx, identity, &blogservice.CreateBlogRequest{Title: "Mine"})
		require.NoError(t, err)

		err = s.Delete(ctx, identity, blog.ID)
		require.NoError(t, err)

		blogs, err := s.Blogs(ctx)
		require.NoError(t, err)
		assert.Empty(t, blogs)
	})

	t.Run("unknown id", func(t *testing.T) {
		s, _, identity := newTestService(t)

		err := s.Delete(ctx, identity, "missing")
		assert.ErrorIs(t, err, blogservice.ErrRecordNotFound)
	})

	t.Run("blog without creator", func(t *testing.T) {
		s, store, identity := newTestService(t)

		orphan := blogservice.Blog{ID: "blog-orphan", Title: "Orphan"}
		err := store.BlogStore().Insert(ctx, &orphan)
		require.NoError(t, err)

		err = s.Delete(ctx, identity, orphan.ID)
		assert.ErrorIs(t, err, blogservice.ErrNoCreator)
	})

	t.Run("non-owner is rejected and the blog survives", func(t *testing.T) {
		s, store, identity := newTestService(t)

		other := userservice.User{ID: "user-2", DisplayName: "Other", Username: "other"}
		err := store.UserStore().Insert(ctx, &other)
		require.NoError(t, err)

		blog, err := s.Create(ctx, identity, &blogservice.CreateBlogRequest{Title: "Mine"})
		require.NoError(t, err)

		err = s.Delete(ctx, &userservice.Identity{ID: other.ID, Username: other.Username}, blog.ID)
		assert.ErrorIs(t, err, blogservice.ErrNotOwner)

		blogs, err := s.Blogs(ctx)
		require.NoError(t, err)
		assert.Len(t, blogs, 1)
	})
}

func TestUpdateBlog(t *testing.T) {
	ctx := context.Background()

	t.Run("overwrites all fields without ownership checks", func(t *testing.T) {
		s, _, identity := newTestService(t)

		blog, err := s.Create(ctx, identity, &blogservice.CreateBlogRequest{
			Title:  "React patterns",
			Author: "Michael Chan",
			URL:    "https://reactpatterns.com/",
			Likes:  intPtr(7),
		})
		require.NoError(t, err)

		updated, err := s.Update(ctx, blog.ID, &blogservice.UpdateBlogRequest{
			Title:  "React patterns",
			Author: "Michael Chan",
			URL:    "https://reactpatterns.com/",
			Likes:  8,
		})
		require.NoError(t, err)
		assert.Equal(t, 8, updated.Likes)
		// the creator link is dropped because the overwrite carried none
		assert.Nil(t, updated.Creator)

		stored, err := s.Blogs(ctx)
		require.NoError(t, err)
		require.Len(t, stored, 1)
		assert.Equal(t, 8, stored[0].Likes)
	})

	t.Run("missing id is a silent no-op", func(t *testing.T) {
		s, _, _ := newTestService(t)

		updated, err := s.Update(ctx, "missing", &blogservice.UpdateBlogRequest{Title: "Ghost", Likes: 3})
		require.NoError(t, err)
		assert.Equal(t, "missing", updated.ID)
		assert.Equal(t, 3, updated.Likes)

		blogs, err := s.Blogs(ctx)
		require.NoError(t, err)
		assert.Empty(t, blogs)
	})

	t.Run("unknown creator id", func(t *testing.T) {
		s, _, identity := newTestService(t)

		blog, err := s.Create(ctx, identity, &blogservice.CreateBlogRequest{Title: "Mine"})
		require.NoError(t, err)

		_, err = s.Update(ctx, blog.ID, &blogservice.UpdateBlogRequest{Title: "Mine", Creator: "nobody"})
		assert.ErrorIs(t, err, blogservice.ErrUserNotExist)
	})

	t.Run("negative likes", func(t *testing.T) {
		s, _, _ := newTestService(t)

		_, err := s.Update(ctx, "any", &blogservice.UpdateBlogRequest{Likes: -5})

		var validationErr common.ValidationError
		require.True(t, errors.As(err, &validationErr))
		assert.Equal(t, "likes must not be negative", validationErr.Message)
	})
}

func TestComments(t *testing.T) {
	ctx := context.Background()

	t.Run("add and list per blog", func(t *testing.T) {
		s, _, identity := newTestService(t)

		blog, err := s.Create(ctx, identity, &blogservice.CreateBlogRequest{Title: "Mine"})
		require.NoError(t, err)

		first, err := s.AddComment(ctx, identity, blog.ID, "great post")
		require.NoError(t, err)
		assert.Equal(t, blog.ID, first.BlogID)

		_, err = s.AddComment(ctx, identity, blog.ID, "still great")
		require.NoError(t, err)

		_, err = s.AddComment(ctx, identity, "other-blog", "unrelated")
		require.NoError(t, err)

		comments, err := s.Comments(ctx, blog.ID)
		require.NoError(t, err)
		require.Len(t, comments, 2)
		assert.Equal(t, "great post", comments[0].Content)
		assert.Equal(t, "still great", comments[1].Content)
	})

	t.Run("empty content", func(t *testing.T) {
		s, _, identity := newTestService(t)

		_, err := s.AddComment(ctx, identity, "blog-1", "")

		var validationErr common.ValidationError
		require.True(t, errors.As(err, &validationErr))
		assert.Equal(t, "the content cannot be empty", validationErr.Message)
	})

	t.Run("comments are not checked against blogs", func(t *testing.T) {
		s, _, identity := newTestService(t)

		comment, err := s.AddComment(ctx, identity, "never-existed", "floating")
		require.NoError(t, err)
		assert.Equal(t, "never-existed", comment.BlogID)

		comments, err := s.Comments(ctx, "never-existed")
		require.NoError(t, err)
		assert.Len(t, comments, 1)
	})

	t.Run("deleting the blog keeps its comments", func(t *testing.T) {
		s, _, identity := newTestService(t)

		blog, err := s.Create(ctx, identity, &blogservice.CreateBlogRequest{Title: "Mine"})
		require.NoError(t, err)

		_, err = s.AddComment(ctx, identity, blog.ID, "orphaned soon")
		require.NoError(t, err)

		err = s.Delete(ctx, identity, blog.ID)
		require.NoError(t, err)

		comments, err := s.Comments(ctx, blog.ID)
		require.NoError(t, err)
		assert.Len(t, comments, 1)
	})
}

func TestBlogsCaching(t *testing.T) {
	ctx := context.Background()

	s, store, identity := newTestService(t)

	_, err := s.Create(ctx, identity, &blogservice.CreateBlogRequest{Title: "First"})
	require.NoError(t, err)

	blogs, err := s.Blogs(ctx)
	require.NoError(t, err)
	require.Len(t, blogs, 1)

	// a write bypassing the service is invisible until the cache is
	// invalidated by a service-level write
	err = store.BlogStore().Insert(ctx, &blogservice.Blog{ID: "blog-direct", Title: "Hidden"})
	require.NoError(t, err)

	blogs, err = s.Blogs(ctx)
	require.NoError(t, err)
	assert.Len(t, blogs, 1)

	_, err = s.Create(ctx, identity, &blogservice.CreateBlogRequest{Title: "Second"})
	require.NoError(t, err)

	blogs, err = s.Blogs(ctx)
	require.NoError(t, err)
	assert.Len(t, blogs, 3)
}
