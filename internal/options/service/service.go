// Package service implements dropdown option administration for an
// organization: the call status, rating, industry and call type lists that
// drive the capture form's selects.
package service

import (
	"context"

	"staffing_crm_backend/internal/options/repository"
	"staffing_crm_backend/platform/apperr"
	"staffing_crm_backend/platform/logger"
	"staffing_crm_backend/platform/sanitize"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// defaultLabels is what a freshly provisioned organization starts with.
var defaultLabels = map[repository.Kind][]string{
	repository.KindCallStatus: {"New Contact", "Call Back", "Not Interested", "Placed"},
	repository.KindRating:     {"Hot", "Warm", "Cold"},
	repository.KindIndustry:   {"Construction", "Manufacturing", "Hospitality", "Logistics", "Healthcare", "Other"},
	repository.KindCallType:   {"Walk-in", "Phone", "Follow-up"},
}

// Bundle carries all four option lists for one form load.
type Bundle struct {
	CallStatuses []repository.Option `json:"callStatuses"`
	Ratings      []repository.Option `json:"ratings"`
	Industries   []repository.Option `json:"industries"`
	CallTypes    []repository.Option `json:"callTypes"`
}

// Service exposes option administration operations.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// List returns one kind's options for the organization.
func (s *Service) List(ctx context.Context, organizationID uuid.UUID, kind repository.Kind, activeOnly bool) ([]repository.Option, error) {
	if !kind.Valid() {
		return nil, apperr.Validation("unknown option kind")
	}
	return s.repo.List(ctx, repository.ListParams{
		OrganizationID: organizationID,
		Kind:           kind,
		ActiveOnly:     activeOnly,
	})
}

// GetBundle loads all four lists concurrently. The capture form needs every
// list before it can render, so one round trip serves them together.
func (s *Service) GetBundle(ctx context.Context, organizationID uuid.UUID, activeOnly bool) (*Bundle, error) {
	var bundle Bundle
	group, groupCtx := errgroup.WithContext(ctx)

	fetch := func(kind repository.Kind, target *[]repository.Option) {
		group.Go(func() error {
			items, err := s.repo.List(groupCtx, repository.ListParams{
				OrganizationID: organizationID,
				Kind:           kind,
				ActiveOnly:     activeOnly,
			})
			if err != nil {
				return err
			}
			*target = items
			return nil
		})
	}

	fetch(repository.KindCallStatus, &bundle.CallStatuses)
	fetch(repository.KindRating, &bundle.Ratings)
	fetch(repository.KindIndustry, &bundle.Industries)
	fetch(repository.KindCallType, &bundle.CallTypes)

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return &bundle, nil
}

// Create adds an option to one of the lists.
func (s *Service) Create(ctx context.Context, organizationID uuid.UUID, kind repository.Kind, label string, sortOrder int) (repository.Option, error) {
	if !kind.Valid() {
		return repository.Option{}, apperr.Validation("unknown option kind")
	}
	label = sanitize.Text(label)
	if label == "" {
		return repository.Option{}, apperr.Validation("label is required")
	}
	return s.repo.Create(ctx, repository.CreateParams{
		OrganizationID: organizationID,
		Kind:           kind,
		Label:          label,
		SortOrder:      sortOrder,
	})
}

// Update changes an option's label, active flag or position.
func (s *Service) Update(ctx context.Context, params repository.UpdateParams) (repository.Option, error) {
	if !params.Kind.Valid() {
		return repository.Option{}, apperr.Validation("unknown option kind")
	}
	if params.Label != nil {
		cleaned := sanitize.Text(*params.Label)
		if cleaned == "" {
			return repository.Option{}, apperr.Validation("label cannot be empty")
		}
		params.Label = &cleaned
	}
	return s.repo.Update(ctx, params)
}

// Delete removes an option.
func (s *Service) Delete(ctx context.Context, organizationID uuid.UUID, kind repository.Kind, id uuid.UUID) error {
	if !kind.Valid() {
		return apperr.Validation("unknown option kind")
	}
	return s.repo.Delete(ctx, organizationID, kind, id)
}

// Reorder rewrites a list's sort order to match the given ID sequence.
func (s *Service) Reorder(ctx context.Context, organizationID uuid.UUID, kind repository.Kind, orderedIDs []uuid.UUID) error {
	if !kind.Valid() {
		return apperr.Validation("unknown option kind")
	}
	if len(orderedIDs) == 0 {
		return apperr.Validation("ids are required")
	}
	return s.repo.Reorder(ctx, organizationID, kind, orderedIDs)
}

// SeedDefaults provisions the standard lists for a new organization.
func (s *Service) SeedDefaults(ctx context.Context, organizationID uuid.UUID) error {
	if err := s.repo.SeedDefaults(ctx, organizationID, defaultLabels); err != nil {
		return err
	}
	s.log.Info("seeded default options", "organization_id", organizationID)
	return nil
}

// DefaultLabels exposes the seed content for tests and documentation.
func DefaultLabels() map[repository.Kind][]string {
	copied := make(map[repository.Kind][]string, len(defaultLabels))
	for kind, labels := range defaultLabels {
		copied[kind] = append([]string(nil), labels...)
	}
	return copied
}
