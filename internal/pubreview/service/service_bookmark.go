package service

import (
	"context"
	"errors"

	"pubreview/internal/pubreview/model"
	"pubreview/internal/pubreview/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Bookmark saves p for requester. created is false when it was already saved.
func (s *Service) Bookmark(ctx context.Context, requester *model.User, p *model.PopulatedPublication) (resp *model.BookmarkStatusResponse, created bool, err error) {
	existing, err := s.Repo.FindBookmark(ctx, requester.ID, p.ID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return &model.BookmarkStatusResponse{Bookmarked: true}, false, nil
	}

	err = s.Repo.CreateBookmark(ctx, &model.Bookmark{User: requester.ID, Publication: p.ID})
	if errors.Is(err, repository.ErrDuplicate) {
		return &model.BookmarkStatusResponse{Bookmarked: true}, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &model.BookmarkStatusResponse{Bookmarked: true}, true, nil
}

func (s *Service) RemoveBookmark(ctx context.Context, requester *model.User, p *model.PopulatedPublication) (*model.BookmarkStatusResponse, error) {
	err := s.Repo.DeleteBookmark(ctx, requester.ID, p.ID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	return &model.BookmarkStatusResponse{Bookmarked: false}, nil
}

func (s *Service) BookmarkStatus(ctx context.Context, requester *model.User, p *model.PopulatedPublication) (*model.BookmarkStatusResponse, error) {
	link, err := s.Repo.FindBookmark(ctx, requester.ID, p.ID)
	if err != nil {
		return nil, err
	}
	return &model.BookmarkStatusResponse{Bookmarked: link != nil}, nil
}

func (s *Service) Bookmarkers(ctx context.Context, p *model.PopulatedPublication) (*model.BookmarkersResponse, error) {
	ids, err := s.Repo.ListBookmarkers(ctx, p.ID, linkListLimit)
	if err != nil {
		return nil, err
	}
	users, err := s.userViews(ctx, ids)
	if err != nil {
		return nil, err
	}
	return &model.BookmarkersResponse{Bookmarkers: users}, nil
}

// Bookmarks lists what target saved, most recent bookmark first.
func (s *Service) Bookmarks(ctx context.Context, target *model.User) (*model.BookmarksResponse, error) {
	ids, err := s.Repo.ListBookmarks(ctx, target.ID, linkListLimit)
	if err != nil {
		return nil, err
	}
	found, err := s.Repo.FindPublicationsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[primitive.ObjectID]*model.Publication, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	ordered := make([]*model.Publication, 0, len(found))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}

	views, err := s.publicationViews(ctx, ordered)
	if err != nil {
		return nil, err
	}
	return &model.BookmarksResponse{Bookmarks: views}, nil
}
