package service

import (
	"context"
	"testing"

	"staffing_crm_backend/internal/options/repository"
	"staffing_crm_backend/platform/apperr"
	"staffing_crm_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeRepo struct {
	options map[repository.Kind][]repository.Option
	seeded  map[repository.Kind][]string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{options: make(map[repository.Kind][]repository.Option)}
}

func (f *fakeRepo) List(ctx context.Context, params repository.ListParams) ([]repository.Option, error) {
	items := make([]repository.Option, 0)
	for _, option := range f.options[params.Kind] {
		if params.ActiveOnly && !option.Active {
			continue
		}
		items = append(items, option)
	}
	return items, nil
}

func (f *fakeRepo) Create(ctx context.Context, params repository.CreateParams) (repository.Option, error) {
	option := repository.Option{
		ID:             uuid.New(),
		OrganizationID: params.OrganizationID,
		Label:          params.Label,
		Active:         true,
		SortOrder:      params.SortOrder,
	}
	f.options[params.Kind] = append(f.options[params.Kind], option)
	return option, nil
}

func (f *fakeRepo) Update(ctx context.Context, params repository.UpdateParams) (repository.Option, error) {
	for i, option := range f.options[params.Kind] {
		if option.ID == params.ID {
			if params.Label != nil {
				option.Label = *params.Label
			}
			if params.Active != nil {
				option.Active = *params.Active
			}
			if params.SortOrder != nil {
				option.SortOrder = *params.SortOrder
			}
			f.options[params.Kind][i] = option
			return option, nil
		}
	}
	return repository.Option{}, apperr.NotFound("option not found")
}

func (f *fakeRepo) Delete(ctx context.Context, organizationID uuid.UUID, kind repository.Kind, id uuid.UUID) error {
	return nil
}

func (f *fakeRepo) Reorder(ctx context.Context, organizationID uuid.UUID, kind repository.Kind, orderedIDs []uuid.UUID) error {
	return nil
}

func (f *fakeRepo) SeedDefaults(ctx context.Context, organizationID uuid.UUID, defaults map[repository.Kind][]string) error {
	f.seeded = defaults
	return nil
}

func newTestService(repo repository.Repository) *Service {
	return New(repo, logger.New("development"))
}

func TestSeedDefaultsContent(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	if err := svc.SeedDefaults(context.Background(), uuid.New()); err != nil {
		t.Fatalf("SeedDefaults() returned error: %v", err)
	}

	expectations := map[repository.Kind][]string{
		repository.KindCallStatus: {"New Contact", "Call Back", "Not Interested", "Placed"},
		repository.KindRating:     {"Hot", "Warm", "Cold"},
		repository.KindIndustry:   {"Construction", "Manufacturing", "Hospitality", "Logistics", "Healthcare", "Other"},
		repository.KindCallType:   {"Walk-in", "Phone", "Follow-up"},
	}

	for kind, expected := range expectations {
		got := repo.seeded[kind]
		if len(got) != len(expected) {
			t.Fatalf("seeded %s = %v, expected %v", kind, got, expected)
		}
		for i := range expected {
			if got[i] != expected[i] {
				t.Errorf("seeded %s[%d] = %q, expected %q", kind, i, got[i], expected[i])
			}
		}
	}
}

func TestGetBundleLoadsAllKinds(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	orgID := uuid.New()

	for _, kind := range repository.Kinds {
		if _, err := svc.Create(context.Background(), orgID, kind, "Label "+string(kind), 0); err != nil {
			t.Fatalf("Create(%s) returned error: %v", kind, err)
		}
	}

	bundle, err := svc.GetBundle(context.Background(), orgID, true)
	if err != nil {
		t.Fatalf("GetBundle() returned error: %v", err)
	}

	if len(bundle.CallStatuses) != 1 || len(bundle.Ratings) != 1 ||
		len(bundle.Industries) != 1 || len(bundle.CallTypes) != 1 {
		t.Errorf("bundle missing lists: %+v", bundle)
	}
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	svc := newTestService(newFakeRepo())
	orgID := uuid.New()

	if _, err := svc.Create(context.Background(), orgID, repository.Kind("bogus"), "Label", 0); !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("expected validation error for unknown kind, got %v", err)
	}

	if _, err := svc.Create(context.Background(), orgID, repository.KindRating, "  <script>  ", 0); !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("expected validation error for empty sanitized label, got %v", err)
	}
}

func TestListRejectsUnknownKind(t *testing.T) {
	svc := newTestService(newFakeRepo())

	if _, err := svc.List(context.Background(), uuid.New(), repository.Kind("bogus"), true); !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}
