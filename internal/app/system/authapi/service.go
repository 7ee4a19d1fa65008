package authapi

import (
	"context"
	"errors"
)

// Backend paths.
const (
	SignInPath = "/authentication/sign-in"
	SignUpPath = "/authentication/sign-up"
)

// SignInRequest is the sign-in payload.
type SignInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignInResponse is what the backend returns for a successful sign-in.
type SignInResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

// SignUpRequest is the sign-up payload.
type SignUpRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignUpResponse is what the backend returns for a created account.
type SignUpResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Service calls the authentication endpoints. Both calls go through the
// same injected Transport.
type Service struct {
	transport Transport
}

// NewService wraps t.
func NewService(t Transport) *Service {
	return &Service{transport: t}
}

var errNoTransport = errors.New("authapi: no transport configured")

// SignIn posts req to the sign-in endpoint.
func (s *Service) SignIn(ctx context.Context, req SignInRequest) (SignInResponse, error) {
	var out SignInResponse
	if s == nil || s.transport == nil {
		return out, errNoTransport
	}
	if err := s.transport.Post(ctx, SignInPath, req, &out); err != nil {
		return SignInResponse{}, err
	}
	return out, nil
}

// SignUp posts req to the sign-up endpoint.
func (s *Service) SignUp(ctx context.Context, req SignUpRequest) (SignUpResponse, error) {
	var out SignUpResponse
	if s == nil || s.transport == nil {
		return out, errNoTransport
	}
	if err := s.transport.Post(ctx, SignUpPath, req, &out); err != nil {
		return SignUpResponse{}, err
	}
	return out, nil
}
