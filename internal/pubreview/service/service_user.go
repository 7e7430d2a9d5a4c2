package service

import (
	"context"
	"errors"

	"pubreview/internal/pubreview/model"
	"pubreview/internal/pubreview/repository"
)

func (s *Service) PatchUser(ctx context.Context, target *model.User, req model.PatchUserReq) (*model.UserResponse, error) {
	patch := req.Patch()
	if patch.Empty() {
		return &model.UserResponse{User: target.View()}, nil
	}
	if err := s.ensureAvailable(ctx, patch.Username, patch.Email, target); err != nil {
		return nil, err
	}

	updated, err := s.Repo.UpdateUser(ctx, target.ID, patch)
	if err != nil {
		return nil, mapRepoErr(err, ErrUsernameTaken)
	}
	return &model.UserResponse{User: updated.View()}, nil
}

// ChangeRole sets the role of target. Nobody may hand out a role ranked above
// their own.
func (s *Service) ChangeRole(ctx context.Context, requester, target *model.User, role model.Role) (*model.RoleResponse, error) {
	if !model.MeetsOrExceeds(requester.Role, role) {
		return nil, ErrRoleElevation
	}
	if target.Role == role {
		return &model.RoleResponse{Role: role}, nil
	}

	updated, err := s.Repo.UpdateUserRole(ctx, target.ID, role)
	if err != nil {
		return nil, mapRepoErr(err, nil)
	}
	return &model.RoleResponse{Role: updated.Role}, nil
}

// DeleteUser removes target together with everything they own.
func (s *Service) DeleteUser(ctx context.Context, target *model.User) (*model.UserResponse, error) {
	if err := s.Repo.DeleteUser(ctx, target.ID); err != nil {
		return nil, mapRepoErr(err, nil)
	}
	return &model.UserResponse{User: target.View()}, nil
}

// mapRepoErr translates repository sentinels. duplicate is returned for
// unique index violations when non-nil.
func mapRepoErr(err error, duplicate error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case duplicate != nil && errors.Is(err, repository.ErrDuplicate):
		return duplicate
	}
	return err
}
