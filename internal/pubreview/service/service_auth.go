package service

import (
	"context"
	"errors"
	"fmt"

	"pubreview/internal/pubreview/auth"
	"pubreview/internal/pubreview/model"
	"pubreview/internal/pubreview/repository"
)

func (s *Service) Register(ctx context.Context, req model.RegisterReq) (*model.SessionResponse, error) {
	if err := s.ensureAvailable(ctx, &req.Username, &req.Email, nil); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:     req.Email,
		Username:  req.Username,
		Password:  hash,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      model.RoleDefault,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return s.session(ctx, user)
}

// Login accepts either the username or the email address.
func (s *Service) Login(ctx context.Context, req model.LoginReq) (*model.SessionResponse, error) {
	user, err := s.Repo.FindUserByLogin(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := auth.ComparePassword(user.Password, req.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	return s.session(ctx, user)
}

func (s *Service) session(ctx context.Context, user *model.User) (*model.SessionResponse, error) {
	pair, err := s.Tokens.Issue(ctx, user.ID.Hex())
	if err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}
	return &model.SessionResponse{
		Token:        pair.Token,
		RefreshToken: pair.RefreshToken,
		User:         user.View(),
	}, nil
}

// ensureAvailable checks that neither the username nor the email belongs to
// somebody other than self.
func (s *Service) ensureAvailable(ctx context.Context, username, email *string, self *model.User) error {
	if username != nil {
		other, err := s.Repo.FindUserByUsername(ctx, *username)
		if err != nil {
			return err
		}
		if other != nil && (self == nil || other.ID != self.ID) {
			return ErrUsernameTaken
		}
	}
	if email != nil {
		other, err := s.Repo.FindUserByLogin(ctx, *email)
		if err != nil {
			return err
		}
		if other != nil && (self == nil || other.ID != self.ID) {
			return ErrEmailTaken
		}
	}
	return nil
}
