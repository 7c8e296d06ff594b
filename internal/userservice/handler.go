package userservice

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/Taiwo-asiyanbi/blogging-api/internal/common"
)

var (
	ErrAuthenticationFailure = errors.New("invalid credentials")
)

func NewUserService(db *sql.DB, mb common.MessageProducer, c *common.Cache, tokenTTL time.Duration) *UserService {
	if tokenTTL <= 0 {
		tokenTTL = DefaultAccessTokenTTL
	}

	return &UserService{
		m:        newUserModel(db),
		mb:       mb,
		c:        c,
		tokenTTL: tokenTTL,
	}
}

// CreateUser registers a new account, issues an access token and publishes a
// user.created event for the welcome email consumer.
func (s *UserService) CreateUser(ctx context.Context, firstName, lastName, email, password string) (*User, *Token, error) {
	v := common.NewValidator()
	validateName(v, firstName, "first_name")
	validateName(v, lastName, "last_name")
	validateEmail(v, email)
	validatePassword(v, password)
	if !v.Valid() {
		return nil, nil, v.ValidationError()
	}

	u := User{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
	}

	err := u.Password.set(password)
	if err != nil {
		return nil, nil, err
	}

	err = s.m.insertUser(ctx, &u)
	if err != nil {
		return nil, nil, err
	}

	token, err := s.m.createToken(ctx, u.ID, s.tokenTTL)
	if err != nil {
		return nil, nil, err
	}

	data := struct {
		Email     string
		FirstName string
	}{
		Email:     u.Email,
		FirstName: u.FirstName,
	}

	eventData, err := json.Marshal(data)
	if err != nil {
		return nil, nil, err
	}

	err = s.mb.Publish(ctx, eventData, common.UserCreatedKey, common.UserExchange)
	if err != nil {
		return nil, nil, err
	}

	return &u, token, nil
}

// LoginUser authenticates by email and password and issues a fresh access
// token. A wrong email and a wrong password are indistinguishable to the
// caller.
func (s *UserService) LoginUser(ctx context.Context, email, password string) (*User, *Token, error) {
	v := common.NewValidator()
	validateEmail(v, email)
	validatePassword(v, password)
	if !v.Valid() {
		return nil, nil, v.ValidationError()
	}

	user, err := s.m.getUserByEmail(ctx, email)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return nil, nil, ErrAuthenticationFailure
		default:
			return nil, nil, err
		}
	}

	ok, err := user.Password.compare(password)
	if err != nil {
		return nil, nil, err
	}

	if !ok {
		return nil, nil, ErrAuthenticationFailure
	}

	token, err := s.m.createToken(ctx, user.ID, s.tokenTTL)
	if err != nil {
		return nil, nil, err
	}

	return user, token, nil
}

// GetUserByAccessToken resolves a bearer token to its user. Lookups are
// served from the cache when possible; a cached entry may outlive a deleted
// token row by at most userCacheTTL.
func (s *UserService) GetUserByAccessToken(ctx context.Context, token string) (*User, error) {
	v := common.NewValidator()
	ValidateToken(v, token)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	hash := hashToken(token)
	key := common.CacheKeyUserByAccessToken(hash)

	if s.c != nil {
		if cached, ok := s.c.Get(key); ok {
			if user, ok := cached.(*User); ok {
				return user, nil
			}
		}
	}

	user, err := s.m.getUserByTokenHash(ctx, hash)
	if err != nil {
		return nil, err
	}

	if s.c != nil {
		s.c.Set(key, user, userCacheTTL)
	}

	return user, nil
}

// DeleteExpiredTokens prunes expired token rows. Run it periodically from the
// application.
func (s *UserService) DeleteExpiredTokens(ctx context.Context) error {
	return s.m.deleteExpiredTokens(ctx)
}

func (u *User) IsAnonymous() bool {
	return u == &AnonymousUser
}
