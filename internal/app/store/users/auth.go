package userstore

import (
	"context"
	"net/http"

	"github.com/dalemusser/skillmatch/internal/app/system/api"
)

// Identity is what the backend returns after a successful sign-in or
// verification.
type Identity struct {
	UserID    string `json:"uId"`
	Role      string `json:"role"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// SignedIn pairs the identity with the backend's session cookies, which
// must be replayed on every later call.
type SignedIn struct {
	Identity
	Cookies []*http.Cookie
}

// Registration holds the fields sent to auth/register.
type Registration struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (s *Store) signIn(ctx context.Context, path string, body any) (SignedIn, error) {
	var id Identity
	resp, err := s.c.Do(ctx, api.Anonymous{}, api.Request{Method: http.MethodPost, Path: path, Body: body}, &id)
	if err != nil {
		return SignedIn{}, err
	}
	return SignedIn{Identity: id, Cookies: resp.Cookies}, nil
}

// Login checks credentials with the backend.
func (s *Store) Login(ctx context.Context, email, password string) (SignedIn, error) {
	return s.signIn(ctx, "auth/login", map[string]string{"email": email, "password": password})
}

// Register creates an unverified account and returns its id. The backend
// mails a verification code.
func (s *Store) Register(ctx context.Context, reg Registration) (string, error) {
	out, err := api.Fetch[struct {
		UserID string `json:"uId"`
	}](ctx, s.c, api.Anonymous{}, api.Request{Method: http.MethodPost, Path: "auth/register", Body: reg})
	return out.UserID, err
}

// Verify confirms the emailed code and signs the account in.
func (s *Store) Verify(ctx context.Context, uid, code string) (SignedIn, error) {
	return s.signIn(ctx, "auth/verify", map[string]string{"uId": uid, "code": code})
}

// Logout ends the backend session.
func (s *Store) Logout(ctx context.Context, sess api.Session) error {
	_, err := s.c.Do(ctx, sess, api.Request{
		Method: http.MethodPost,
		Path:   "auth/logout",
		Body:   map[string]string{"uId": sess.UserID()},
	}, nil)
	return err
}
