package userservice

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/Taiwo-asiyanbi/blogging-api/internal/common"
)

const (
	// DefaultAccessTokenTTL applies when the configuration does not set one.
	DefaultAccessTokenTTL = 7 * 24 * time.Hour

	// userCacheTTL bounds how long an authenticated-user lookup may be served
	// from memory after the token row changed.
	userCacheTTL = 5 * time.Minute
)

var (
	AnonymousUser = User{}
)

type UserService struct {
	m        *DBModel
	mb       common.MessageProducer
	c        *common.Cache
	tokenTTL time.Duration
}

type DBModel struct {
	db *sql.DB
}

type User struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Password  Password  `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"-"`
}

type Password struct {
	plain string
	hash  []byte
}

// Token is an opaque bearer credential. Only the SHA-256 hash is stored.
type Token struct {
	Plain  string    `json:"token"`
	Hash   []byte    `json:"-"`
	UserID uuid.UUID `json:"-"`
	Expiry time.Time `json:"expiry"`
}
