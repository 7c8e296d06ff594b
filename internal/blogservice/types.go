package blogservice

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/Taiwo-asiyanbi/blogging-api/internal/userservice"
)

type BlogState string

const (
	StateDraft     BlogState = "draft"
	StatePublished BlogState = "published"
)

type Blog struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
	// Description is optional free text shown in listings.
	Description string `json:"description"`
	// Body is stored verbatim; reading_time is derived from it.
	Body        string           `json:"body"`
	Tags        []string         `json:"tags"`
	Author      userservice.User `json:"author"`
	AuthorID    uuid.UUID        `json:"author_id"`
	State       BlogState        `json:"state"`
	ReadCount   int              `json:"read_count"`
	ReadingTime int              `json:"reading_time"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	Version     int              `json:"-"`
}

type BlogModel struct {
	db *sql.DB
}

type BlogService struct {
	m *BlogModel
}
