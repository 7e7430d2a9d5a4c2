package service

import (
	"context"

	"pubreview/internal/pubreview/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ListActivities returns the live feed visible to requester: records whose
// visibility floor is at or below the requester's role, newest first.
func (s *Service) ListActivities(ctx context.Context, requester *model.User, q model.ActivityListQuery) (*model.ActivityListResponse, error) {
	filter := model.ActivityFilter{
		Visibility: model.RolesAtOrBelow(requester.Role),
		Skip:       q.Skip,
		Take:       q.Take,
	}
	if q.Owner != "" {
		owner, err := primitive.ObjectIDFromHex(q.Owner)
		if err != nil {
			return nil, ErrBadRequest
		}
		filter.Owner = &owner
	}

	return s.activityPage(ctx, filter)
}

// activityPage runs filter and attaches the owner of every activity.
func (s *Service) activityPage(ctx context.Context, filter model.ActivityFilter) (*model.ActivityListResponse, error) {
	activities, total, err := s.Repo.ListActivities(ctx, filter)
	if err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(activities))
	for _, a := range activities {
		ids = append(ids, a.Owner)
	}
	owners, err := s.usersByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]model.ActivityView, 0, len(activities))
	for _, a := range activities {
		views = append(views, a.View(owners[a.Owner]))
	}
	return &model.ActivityListResponse{
		Activities: views,
		Total:      total,
		Skip:       filter.Skip,
		Take:       filter.Take,
	}, nil
}
