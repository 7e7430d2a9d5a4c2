package service

import (
	"context"

	"pubreview/internal/pubreview/model"
	"pubreview/internal/pubreview/policy"
	"pubreview/internal/pubreview/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

// reviewCountConcurrency bounds the review count lookups of one listing.
const reviewCountConcurrency = 8

func (s *Service) ListPublications(ctx context.Context, q model.PublicationListQuery) (*model.PublicationListResponse, error) {
	publications, total, err := s.Repo.ListPublications(ctx, repository.PublicationFilter{
		Current: q.CurrentOnly(),
		Skip:    q.Skip,
		Take:    q.Take,
	})
	if err != nil {
		return nil, err
	}

	views, err := s.publicationViews(ctx, publications)
	if err != nil {
		return nil, err
	}
	return &model.PublicationListResponse{
		Publications: views,
		Total:        total,
		Skip:         q.Skip,
		Take:         q.Take,
	}, nil
}

func (s *Service) GetPublication(ctx context.Context, p *model.PopulatedPublication) (*model.PublicationResponse, error) {
	reviews, err := s.Repo.CountCompletedReviews(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return &model.PublicationResponse{Publication: p.View(p.OwnerUser, reviews)}, nil
}

func (s *Service) ListRevisions(ctx context.Context, family *policy.PublicationFamily) (*model.RevisionListResponse, error) {
	revisions, err := s.Repo.FindRevisions(ctx, family.Owner.ID, family.Name)
	if err != nil {
		return nil, err
	}

	views := make([]model.PublicationView, 0, len(revisions))
	for _, p := range revisions {
		if p.Draft && !family.IncludeDrafts {
			continue
		}
		views = append(views, p.View(family.Owner, 0))
	}
	if len(views) == 0 {
		return nil, ErrNotFound
	}
	return &model.RevisionListResponse{Revisions: views}, nil
}

// CreatePublication stores the first revision of a new publication as a
// draft owned by requester.
func (s *Service) CreatePublication(ctx context.Context, requester *model.User, req model.CreatePublicationReq) (*model.PublicationResponse, error) {
	count, err := s.Repo.CountPublicationsByName(ctx, requester.ID, req.Name)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrNameTaken
	}

	collaborators, err := s.collaboratorIDs(ctx, requester, req.Collaborators)
	if err != nil {
		return nil, err
	}

	publication := &model.Publication{
		Owner:         requester.ID,
		Name:          req.Name,
		Revision:      req.Revision,
		Title:         req.Title,
		Introduction:  req.Introduction,
		About:         req.About,
		Draft:         true,
		Current:       true,
		Collaborators: collaborators,
	}
	if err := s.Repo.CreatePublication(ctx, publication); err != nil {
		return nil, mapRepoErr(err, ErrNameTaken)
	}
	return &model.PublicationResponse{Publication: publication.View(requester, 0)}, nil
}

func (s *Service) PatchPublication(ctx context.Context, p *model.PopulatedPublication, req model.PatchPublicationReq) (*model.PublicationResponse, error) {
	patch := model.PublicationPatch{
		Title:        req.Title,
		Introduction: req.Introduction,
		About:        req.About,
		Changelog:    req.Changelog,
		Pinned:       req.Pinned,
	}
	if req.Collaborators != nil {
		ids, err := s.collaboratorIDs(ctx, p.OwnerUser, *req.Collaborators)
		if err != nil {
			return nil, err
		}
		patch.Collaborators = &ids
	}

	updated, err := s.Repo.UpdatePublication(ctx, p.ID, patch)
	if err != nil {
		return nil, mapRepoErr(err, nil)
	}
	return s.GetPublication(ctx, &model.PopulatedPublication{Publication: *updated, OwnerUser: p.OwnerUser})
}

// RevisePublication replaces the current revision of p with a new draft
// revision carrying the same metadata.
func (s *Service) RevisePublication(ctx context.Context, p *model.PopulatedPublication, req model.RevisePublicationReq) (*model.PublicationResponse, error) {
	if !p.Current {
		return nil, ErrNotCurrent
	}
	existing, err := s.Repo.FindPublication(ctx, p.Owner, p.Name, req.Revision)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrRevisionTaken
	}

	next := p.Publication
	next.ID = primitive.NilObjectID
	next.Revision = req.Revision
	next.Changelog = req.Changelog
	next.Draft = true
	next.Pinned = false

	if err := s.Repo.RevisePublication(ctx, &p.Publication, &next); err != nil {
		return nil, mapRepoErr(err, ErrRevisionTaken)
	}
	return &model.PublicationResponse{
		Publication:      next.View(p.OwnerUser, 0),
		PreviousRevision: p.Revision,
	}, nil
}

// PublishPublication clears the draft flag and lets the activities that were
// waiting on it show up in feeds.
func (s *Service) PublishPublication(ctx context.Context, p *model.PopulatedPublication) (*model.PublicationResponse, error) {
	if !p.Draft {
		return nil, ErrAlreadyPublished
	}
	published, err := s.Repo.PublishPublication(ctx, p.ID)
	if err != nil {
		return nil, mapRepoErr(err, nil)
	}

	activated, err := s.Repo.ActivatePending(ctx, p.ID)
	if err != nil {
		s.Logger.Warn("failed to activate pending activities", "publication", p.ID.Hex(), "error", err)
	} else {
		s.Logger.Debug("activated pending activities", "publication", p.ID.Hex(), "count", activated)
	}
	return &model.PublicationResponse{Publication: published.View(p.OwnerUser, 0)}, nil
}

func (s *Service) DeletePublication(ctx context.Context, p *model.PopulatedPublication) (*model.PublicationDeletion, error) {
	if err := s.Repo.DeletePublication(ctx, p.ID); err != nil {
		return nil, mapRepoErr(err, nil)
	}
	return &model.PublicationDeletion{
		Name:     p.Name,
		Revision: p.Revision,
		Deleted:  1,
		Document: p.ID.Hex(),
	}, nil
}

func (s *Service) DeletePublicationFamily(ctx context.Context, family *policy.PublicationFamily) (*model.PublicationDeletion, error) {
	deleted, err := s.Repo.DeletePublicationsByName(ctx, family.Owner.ID, family.Name)
	if err != nil {
		return nil, mapRepoErr(err, nil)
	}
	return &model.PublicationDeletion{Name: family.Name, Deleted: deleted}, nil
}

// collaboratorIDs resolves usernames. Unknown names and the owner are rejected.
func (s *Service) collaboratorIDs(ctx context.Context, owner *model.User, usernames []string) ([]primitive.ObjectID, error) {
	unique := dedupe(usernames)
	if len(unique) == 0 {
		return []primitive.ObjectID{}, nil
	}
	users, err := s.Repo.FindUsersByUsernames(ctx, unique)
	if err != nil {
		return nil, err
	}
	if len(users) != len(unique) {
		return nil, ErrUnknownUsers
	}

	ids := make([]primitive.ObjectID, 0, len(users))
	for _, u := range users {
		if owner != nil && u.ID == owner.ID {
			return nil, ErrBadRequest
		}
		ids = append(ids, u.ID)
	}
	return ids, nil
}

// publicationViews attaches owners and completed review counts.
func (s *Service) publicationViews(ctx context.Context, publications []*model.Publication) ([]model.PublicationView, error) {
	owners, err := s.usersByID(ctx, ownersOf(publications))
	if err != nil {
		return nil, err
	}

	counts := make([]int64, len(publications))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(reviewCountConcurrency)
	for i, p := range publications {
		g.Go(func() error {
			n, err := s.Repo.CountCompletedReviews(gctx, p.ID)
			if err != nil {
				return err
			}
			counts[i] = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	views := make([]model.PublicationView, 0, len(publications))
	for i, p := range publications {
		views = append(views, p.View(owners[p.Owner], counts[i]))
	}
	return views, nil
}

func (s *Service) usersByID(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*model.User, error) {
	users, err := s.Repo.FindUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[primitive.ObjectID]*model.User, len(users))
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

func ownersOf(publications []*model.Publication) []primitive.ObjectID {
	seen := map[primitive.ObjectID]bool{}
	var ids []primitive.ObjectID
	for _, p := range publications {
		if !seen[p.Owner] {
			seen[p.Owner] = true
			ids = append(ids, p.Owner)
		}
	}
	return ids
}

func dedupe(in []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
