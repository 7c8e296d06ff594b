package blogservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	ErrRecordNotFound   = errors.New("record not found")
	ErrDuplicateTitle   = errors.New("duplicate title")
	ErrAuthorNotFound   = errors.New("author not found")
	ErrAuthorForeignKey = errors.New("author_id does not exist")
)

func newBlogModel(db *sql.DB) *BlogModel {
	return &BlogModel{db: db}
}

// ForeignKeyError reports whether err is a foreign key violation on the named
// constraint.
func ForeignKeyError(err error, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23503" && pqErr.Constraint == name
	}

	return false
}

func uniqueViolation(err error, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505" && pqErr.Constraint == name
	}

	return false
}

// blogColumns is the select list shared by every query that returns blogs
// joined with their author.
const blogColumns = `
	b.id, b.title, b.description, b.body, b.tags, b.author_id, b.state,
	b.read_count, b.reading_time, b.created_at, b.updated_at, b.version,
	u.id, u.first_name, u.last_name, u.email`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBlog(row rowScanner, blog *Blog, extra ...any) error {
	dest := []any{
		&blog.ID, &blog.Title, &blog.Description, &blog.Body, pq.Array(&blog.Tags),
		&blog.AuthorID, &blog.State, &blog.ReadCount, &blog.ReadingTime,
		&blog.CreatedAt, &blog.UpdatedAt, &blog.Version,
		&blog.Author.ID, &blog.Author.FirstName, &blog.Author.LastName, &blog.Author.Email,
	}
	dest = append(dest, extra...)

	return row.Scan(dest...)
}

func (m *BlogModel) insert(ctx context.Context, blog *Blog) error {
	query := `
		INSERT INTO blogs (title, description, body, tags, author_id, state, reading_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, read_count, created_at, updated_at, version`

	args := []any{
		blog.Title,
		blog.Description,
		blog.Body,
		pq.Array(blog.Tags),
		blog.AuthorID,
		blog.State,
		blog.ReadingTime,
	}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&blog.ID, &blog.ReadCount, &blog.CreatedAt, &blog.UpdatedAt, &blog.Version)
	if err != nil {
		switch {
		case uniqueViolation(err, "blogs_title_key"):
			return ErrDuplicateTitle
		case ForeignKeyError(err, "blogs_author_id_fkey"):
			return ErrAuthorForeignKey
		default:
			return err
		}
	}

	return nil
}

// getBlogByID returns a blog joined with its author.
func (m *BlogModel) getBlogByID(ctx context.Context, id uuid.UUID) (*Blog, error) {
	query := `
		SELECT ` + blogColumns + `
		FROM blogs b
		JOIN users u ON b.author_id = u.id
		WHERE b.id = $1`

	var blog Blog
	err := scanBlog(m.db.QueryRowContext(ctx, query, id), &blog)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &blog, nil
}

// incrementReadCount adds exactly one view atomically at the store, so
// concurrent views never lose an increment.
func (m *BlogModel) incrementReadCount(ctx context.Context, blog *Blog) error {
	query := `
		UPDATE blogs
		SET read_count = read_count + 1
		WHERE id = $1
		RETURNING read_count, updated_at`

	err := m.db.QueryRowContext(ctx, query, blog.ID).Scan(&blog.ReadCount, &blog.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrRecordNotFound
		default:
			return err
		}
	}

	return nil
}

// searchAuthor resolves an author-name filter to a user id by
// case-insensitive substring match on first or last name.
func (m *BlogModel) searchAuthor(ctx context.Context, name string) (uuid.UUID, error) {
	query := `
		SELECT id
		FROM users
		WHERE first_name ILIKE '%' || $1 || '%' OR last_name ILIKE '%' || $1 || '%'
		ORDER BY created_at ASC
		LIMIT 1`

	var id uuid.UUID
	err := m.db.QueryRowContext(ctx, query, name).Scan(&id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return uuid.Nil, ErrAuthorNotFound
		default:
			return uuid.Nil, err
		}
	}

	return id, nil
}

// getPublished lists published blogs matching the filter, newest first unless
// another sort column is requested.
func (m *BlogModel) getPublished(ctx context.Context, f Filter, authorID *uuid.UUID, p Page) ([]Blog, Metadata, error) {
	query := `
		SELECT ` + blogColumns + `, count(*) OVER() AS total
		FROM blogs b
		JOIN users u ON b.author_id = u.id
		WHERE b.state = 'published'`

	var args []any

	if f.Title != "" {
		args = append(args, f.Title)
		query += fmt.Sprintf(" AND b.title ILIKE '%%' || $%d || '%%'", len(args))
	}

	if len(f.Tags) > 0 {
		args = append(args, pq.Array(f.Tags))
		query += fmt.Sprintf(" AND b.tags && $%d", len(args))
	}

	if authorID != nil {
		args = append(args, *authorID)
		query += fmt.Sprintf(" AND b.author_id = $%d", len(args))
	}

	args = append(args, p.Limit, p.offset())
	query += fmt.Sprintf(" ORDER BY b.%s DESC, b.id ASC LIMIT $%d OFFSET $%d", p.orderColumn(), len(args)-1, len(args))

	return m.listBlogs(ctx, query, args, p)
}

// getBlogsByAuthor lists every blog owned by authorID, drafts included,
// optionally narrowed to one state.
func (m *BlogModel) getBlogsByAuthor(ctx context.Context, authorID uuid.UUID, state *BlogState, p Page) ([]Blog, Metadata, error) {
	query := `
		SELECT ` + blogColumns + `, count(*) OVER() AS total
		FROM blogs b
		JOIN users u ON b.author_id = u.id
		WHERE b.author_id = $1`

	args := []any{authorID}

	if state != nil {
		args = append(args, *state)
		query += fmt.Sprintf(" AND b.state = $%d", len(args))
	}

	args = append(args, p.Limit, p.offset())
	query += fmt.Sprintf(" ORDER BY b.%s DESC, b.id ASC LIMIT $%d OFFSET $%d", p.orderColumn(), len(args)-1, len(args))

	return m.listBlogs(ctx, query, args, p)
}

func (m *BlogModel) listBlogs(ctx context.Context, query string, args []any, p Page) ([]Blog, Metadata, error) {
	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, Metadata{}, err
	}
	defer rows.Close()

	total := 0
	blogs := []Blog{}
	for rows.Next() {
		var blog Blog
		if err := scanBlog(rows, &blog, &total); err != nil {
			return nil, Metadata{}, err
		}
		blogs = append(blogs, blog)
	}

	if err := rows.Err(); err != nil {
		return nil, Metadata{}, err
	}

	return blogs, newMetadata(total, p), nil
}

// update persists the mutable fields with an optimistic version check. A
// vanished row or a concurrent edit both surface as ErrRecordNotFound.
func (m *BlogModel) update(ctx context.Context, blog *Blog) error {
	query := `
		UPDATE blogs
		SET title = $1, description = $2, body = $3, tags = $4, state = $5,
			reading_time = $6, updated_at = now(), version = version + 1
		WHERE id = $7 AND version = $8
		RETURNING updated_at, version`

	args := []any{
		blog.Title,
		blog.Description,
		blog.Body,
		pq.Array(blog.Tags),
		blog.State,
		blog.ReadingTime,
		blog.ID,
		blog.Version,
	}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&blog.UpdatedAt, &blog.Version)
	if err != nil {
		switch {
		case uniqueViolation(err, "blogs_title_key"):
			return ErrDuplicateTitle
		case errors.Is(err, sql.ErrNoRows):
			return ErrRecordNotFound
		default:
			return err
		}
	}

	return nil
}

func (m *BlogModel) deleteBlog(ctx context.Context, blogID, authorID uuid.UUID) error {
	query := `
		DELETE FROM blogs
		WHERE id = $1 AND author_id = $2`

	res, err := m.db.ExecContext(ctx, query, blogID, authorID)
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
