package authsvc

import (
	"context"
	"errors"
	"strings"

	"github.com/ancax2/textbook-resale-project/model"
	userrepo "github.com/ancax2/textbook-resale-project/repository/user"
	"github.com/ancax2/textbook-resale-project/util/hash"
	jwtutil "github.com/ancax2/textbook-resale-project/util/jwt"
)

var (
	ErrInvalidCreds = errors.New("invalid email or password")
	ErrUserNotFound = errors.New("user not found")
)

// Code maps an error back to the sentinel it wraps, or nil for
// unclassified failures.
func Code(err error) error {
	for _, sentinel := range []error{ErrInvalidCreds, ErrUserNotFound} {
		if errors.Is(err, sentinel) {
			return sentinel
		}
	}
	return nil
}

const sessionTTLHours = 24

type Service interface {
	Login(ctx context.Context, req model.LoginReq) (*model.User, string, error)
	UserByID(ctx context.Context, id int64) (*model.User, error)
}

type service struct {
	ur     userrepo.Repo
	secret string
}

func New(ur userrepo.Repo, secret string) Service { return &service{ur: ur, secret: secret} }

// Login verifies credentials and issues a session token. Unknown email
// and wrong password are indistinguishable to the caller.
func (s *service) Login(ctx context.Context, req model.LoginReq) (*model.User, string, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		return nil, "", ErrInvalidCreds
	}

	u, err := s.ur.ByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if u == nil || !hash.Check(u.PasswordHash, req.Password) {
		return nil, "", ErrInvalidCreds
	}

	token, err := jwtutil.Issue(s.secret, u.ID, u.Email, u.Role, sessionTTLHours)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// UserByID resolves the authenticated identity for GET /api/user.
func (s *service) UserByID(ctx context.Context, id int64) (*model.User, error) {
	u, err := s.ur.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}
