package service

import (
	"context"
	"errors"

	"pubreview/internal/pubreview/model"
	"pubreview/internal/pubreview/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const linkListLimit = 50

// Follow makes requester follow target. created is false when the link
// already existed.
func (s *Service) Follow(ctx context.Context, requester, target *model.User) (resp *model.FollowStatusResponse, created bool, err error) {
	if requester.ID == target.ID {
		return nil, false, ErrSelfFollow
	}

	existing, err := s.Repo.FindFollow(ctx, requester.ID, target.ID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return &model.FollowStatusResponse{Following: true}, false, nil
	}

	err = s.Repo.CreateFollow(ctx, &model.Follow{Follower: requester.ID, Following: target.ID})
	if errors.Is(err, repository.ErrDuplicate) {
		return &model.FollowStatusResponse{Following: true}, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &model.FollowStatusResponse{Following: true}, true, nil
}

// Unfollow removes the link if there is one.
func (s *Service) Unfollow(ctx context.Context, requester, target *model.User) (*model.FollowStatusResponse, error) {
	err := s.Repo.DeleteFollow(ctx, requester.ID, target.ID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	return &model.FollowStatusResponse{Following: false}, nil
}

func (s *Service) FollowStatus(ctx context.Context, requester, target *model.User) (*model.FollowStatusResponse, error) {
	link, err := s.Repo.FindFollow(ctx, requester.ID, target.ID)
	if err != nil {
		return nil, err
	}
	return &model.FollowStatusResponse{Following: link != nil}, nil
}

func (s *Service) Followers(ctx context.Context, target *model.User) (*model.FollowersResponse, error) {
	ids, err := s.Repo.ListFollowers(ctx, target.ID, linkListLimit)
	if err != nil {
		return nil, err
	}
	users, err := s.userViews(ctx, ids)
	if err != nil {
		return nil, err
	}
	return &model.FollowersResponse{Followers: users}, nil
}

func (s *Service) Following(ctx context.Context, target *model.User) (*model.FollowingResponse, error) {
	ids, err := s.Repo.ListFollowing(ctx, target.ID, linkListLimit)
	if err != nil {
		return nil, err
	}
	users, err := s.userViews(ctx, ids)
	if err != nil {
		return nil, err
	}
	return &model.FollowingResponse{Following: users}, nil
}

// Feed pages through the live activity of target and everybody target
// follows, limited to what requester is allowed to see.
func (s *Service) Feed(ctx context.Context, requester, target *model.User, q model.UserFeedQuery) (*model.ActivityListResponse, error) {
	following, err := s.Repo.ListFollowing(ctx, target.ID, 0)
	if err != nil {
		return nil, err
	}

	return s.activityPage(ctx, model.ActivityFilter{
		Owners:     append([]primitive.ObjectID{target.ID}, following...),
		Visibility: model.RolesAtOrBelow(requester.Role),
		Skip:       q.Skip,
		Take:       q.Take,
	})
}

// userViews loads the users with the given ids, keeping the order of ids and
// skipping accounts that no longer exist.
func (s *Service) userViews(ctx context.Context, ids []primitive.ObjectID) ([]model.UserView, error) {
	users, err := s.usersByID(ctx, ids)
	if err != nil {
		return nil, err
	}
	views := make([]model.UserView, 0, len(ids))
	for _, id := range ids {
		if u, ok := users[id]; ok {
			views = append(views, u.View())
		}
	}
	return views, nil
}
