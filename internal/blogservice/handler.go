package blogservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/Taiwo-asiyanbi/blogging-api/internal/common"
)

var (
	// ErrNotOwner covers both a non-owner mutating a blog and a non-owner
	// viewing somebody else's draft.
	ErrNotOwner = errors.New("not the blog owner")

	ErrInvalidState = errors.New("invalid blog state")
)

func NewBlogService(db *sql.DB) *BlogService {
	return &BlogService{m: newBlogModel(db)}
}

type CreateBlogRequest struct {
	Title       string
	Description string
	Body        string
	Tags        []string
	AuthorID    uuid.UUID
}

// CreateBlog creates a new blog post in draft state. The state is never
// taken from the caller: every blog starts as a draft.
func (s *BlogService) CreateBlog(ctx context.Context, req *CreateBlogRequest) (*Blog, error) {
	v := common.NewValidator()
	validateTitle(v, req.Title)
	validateBody(v, req.Body)
	validateTags(v, req.Tags)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	blog := &Blog{
		Title:       req.Title,
		Description: req.Description,
		Body:        req.Body,
		Tags:        req.Tags,
		AuthorID:    req.AuthorID,
		State:       StateDraft,
		ReadingTime: ReadingTime(req.Body),
	}

	if blog.Tags == nil {
		blog.Tags = []string{}
	}

	if err := s.m.insert(ctx, blog); err != nil {
		return nil, err
	}

	return s.m.getBlogByID(ctx, blog.ID)
}

// GetBlogByID returns a single blog applying the visibility rule: published
// blogs are visible to everyone, drafts only to their author. viewerID is nil
// for anonymous requests. Every permitted view bumps read_count by exactly
// one, the author's own views included.
func (s *BlogService) GetBlogByID(ctx context.Context, id uuid.UUID, viewerID *uuid.UUID) (*Blog, error) {
	blog, err := s.m.getBlogByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if blog.State != StatePublished {
		if viewerID == nil || *viewerID != blog.AuthorID {
			return nil, ErrNotOwner
		}
	}

	if err := s.m.incrementReadCount(ctx, blog); err != nil {
		return nil, err
	}

	return blog, nil
}

// GetPublishedBlogs lists published blogs matching the filter. Drafts never
// appear here, not even the caller's own. An author filter that resolves to
// no user fails with ErrAuthorNotFound rather than returning an empty page.
func (s *BlogService) GetPublishedBlogs(ctx context.Context, f Filter, p Page) ([]Blog, Metadata, error) {
	v := common.NewValidator()
	validateTags(v, f.Tags)
	p.validate(v)
	if !v.Valid() {
		return nil, Metadata{}, v.ValidationError()
	}

	p.normalize()

	var authorID *uuid.UUID
	if f.Author != "" {
		id, err := s.m.searchAuthor(ctx, f.Author)
		if err != nil {
			return nil, Metadata{}, err
		}
		authorID = &id
	}

	return s.m.getPublished(ctx, f, authorID, p)
}

// GetUserBlogs lists the caller's own blogs, drafts included, optionally
// narrowed to one state.
func (s *BlogService) GetUserBlogs(ctx context.Context, authorID uuid.UUID, state *BlogState, p Page) ([]Blog, Metadata, error) {
	v := common.NewValidator()
	p.validate(v)
	if !v.Valid() {
		return nil, Metadata{}, v.ValidationError()
	}

	if state != nil && *state != StateDraft && *state != StatePublished {
		return nil, Metadata{}, ErrInvalidState
	}

	p.normalize()

	return s.m.getBlogsByAuthor(ctx, authorID, state, p)
}

// UpdateBlogRequest carries the only fields a caller may change. Author, id,
// state and the derived counters are not part of it, so a request can never
// overwrite them.
type UpdateBlogRequest struct {
	Title       *string
	Description *string
	Body        *string
	Tags        *[]string
}

// UpdateBlog merges the provided fields into the blog. Only the author may
// update; reading_time is recomputed whenever the body changes.
func (s *BlogService) UpdateBlog(ctx context.Context, id, callerID uuid.UUID, req *UpdateBlogRequest) (*Blog, error) {
	blog, err := s.m.getBlogByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if blog.AuthorID != callerID {
		return nil, ErrNotOwner
	}

	if req.Title != nil {
		blog.Title = *req.Title
	}
	if req.Description != nil {
		blog.Description = *req.Description
	}
	if req.Body != nil {
		blog.Body = *req.Body
		blog.ReadingTime = ReadingTime(blog.Body)
	}
	if req.Tags != nil {
		blog.Tags = *req.Tags
		if blog.Tags == nil {
			blog.Tags = []string{}
		}
	}

	v := common.NewValidator()
	validateTitle(v, blog.Title)
	validateBody(v, blog.Body)
	validateTags(v, blog.Tags)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if err := s.m.update(ctx, blog); err != nil {
		return nil, err
	}

	return blog, nil
}

// UpdateBlogState transitions a blog between draft and published. Both
// directions are legal; only the author may transition.
func (s *BlogService) UpdateBlogState(ctx context.Context, id, callerID uuid.UUID, state BlogState) (*Blog, error) {
	v := common.NewValidator()
	validateState(v, state)
	if !v.Valid() {
		return nil, ErrInvalidState
	}

	blog, err := s.m.getBlogByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if blog.AuthorID != callerID {
		return nil, ErrNotOwner
	}

	blog.State = state

	if err := s.m.update(ctx, blog); err != nil {
		return nil, err
	}

	return blog, nil
}

// DeleteBlog permanently removes a blog. Only the author may delete.
func (s *BlogService) DeleteBlog(ctx context.Context, id, callerID uuid.UUID) error {
	blog, err := s.m.getBlogByID(ctx, id)
	if err != nil {
		return err
	}

	if blog.AuthorID != callerID {
		return ErrNotOwner
	}

	return s.m.deleteBlog(ctx, blog.ID, callerID)
}
