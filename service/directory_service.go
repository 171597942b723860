package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gokmency/web3turkiyetoplulugu/core"
	"github.com/gokmency/web3turkiyetoplulugu/ports"
)

// DirectoryService is the directory facade used by the HTTP handlers and the CLI.
// Read operations never fail: gateway errors are logged and yield empty results.
// Write operations validate their input and return gateway errors to the caller.
type DirectoryService struct {
	source ports.DataSource
	log    *zap.SugaredLogger
	now    func() time.Time
}

// NewDirectoryService creates a facade over source.
func NewDirectoryService(source ports.DataSource, log *zap.SugaredLogger) *DirectoryService {
	return &DirectoryService{source: source, log: log, now: time.Now}
}

// ListProjects returns the projects of category, or all of them for "" and core.FilterAll.
func (s *DirectoryService) ListProjects(ctx context.Context, category string) []core.Project {
	return s.SearchProjects(ctx, "", category)
}

// SearchProjects matches term against name, description and category.
func (s *DirectoryService) SearchProjects(ctx context.Context, term, category string) []core.Project {
	projects, err := s.source.ListProjects(ctx, core.ProjectFilter{Category: category, Term: strings.TrimSpace(term)})
	if err != nil {
		s.log.Errorw("failed to list projects", "category", category, "term", term, "err", err)
		return []core.Project{}
	}
	return projects
}

// GetProject returns nil when the project does not exist or cannot be read.
func (s *DirectoryService) GetProject(ctx context.Context, id string) *core.Project {
	project, err := s.source.GetProject(ctx, id)
	if err != nil {
		if !errors.Is(err, core.ErrNotFound) {
			s.log.Errorw("failed to get project", "id", id, "err", err)
		}
		return nil
	}
	return project
}

func (s *DirectoryService) CreateProject(ctx context.Context, project core.Project) (*core.Project, error) {
	project.Name = strings.TrimSpace(project.Name)
	if project.Name == "" {
		return nil, fmt.Errorf("%w: project name is required", core.ErrInvalidInput)
	}
	if !project.Category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", core.ErrInvalidInput, project.Category)
	}
	if project.ID == "" {
		project.ID = uuid.New().String()
	}
	if project.CreatedAt.IsZero() {
		project.CreatedAt = s.now().UTC()
	}

	created, err := s.source.CreateProject(ctx, &project)
	if err != nil {
		s.log.Errorw("failed to create project", "name", project.Name, "err", err)
		return nil, err
	}
	return created, nil
}

func (s *DirectoryService) UpdateProject(ctx context.Context, id string, patch core.ProjectPatch) (*core.Project, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, fmt.Errorf("%w: project name is required", core.ErrInvalidInput)
	}
	if patch.Category != nil && !patch.Category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", core.ErrInvalidInput, *patch.Category)
	}

	updated, err := s.source.UpdateProject(ctx, id, patch)
	if err != nil {
		s.log.Errorw("failed to update project", "id", id, "err", err)
		return nil, err
	}
	return updated, nil
}

func (s *DirectoryService) DeleteProject(ctx context.Context, id string) error {
	if err := s.source.DeleteProject(ctx, id); err != nil {
		s.log.Errorw("failed to delete project", "id", id, "err", err)
		return err
	}
	return nil
}

// ListPeople returns the people with role, or all of them for "" and core.FilterAll.
func (s *DirectoryService) ListPeople(ctx context.Context, role string) []core.Person {
	return s.SearchPeople(ctx, "", role)
}

// SearchPeople matches term against name, bio and location.
func (s *DirectoryService) SearchPeople(ctx context.Context, term, role string) []core.Person {
	people, err := s.source.ListPeople(ctx, core.PersonFilter{Role: role, Term: strings.TrimSpace(term)})
	if err != nil {
		s.log.Errorw("failed to list people", "role", role, "term", term, "err", err)
		return []core.Person{}
	}
	return people
}

func (s *DirectoryService) GetPerson(ctx context.Context, id string) *core.Person {
	person, err := s.source.GetPerson(ctx, id)
	if err != nil {
		if !errors.Is(err, core.ErrNotFound) {
			s.log.Errorw("failed to get person", "id", id, "err", err)
		}
		return nil
	}
	return person
}

func (s *DirectoryService) GetPersonByWallet(ctx context.Context, address string) *core.Person {
	person, err := s.source.GetPersonByWallet(ctx, address)
	if err != nil {
		if !errors.Is(err, core.ErrNotFound) {
			s.log.Errorw("failed to get person by wallet", "address", address, "err", err)
		}
		return nil
	}
	return person
}

func (s *DirectoryService) CreatePerson(ctx context.Context, person core.Person) (*core.Person, error) {
	person.Name = strings.TrimSpace(person.Name)
	if person.Name == "" {
		return nil, fmt.Errorf("%w: name is required", core.ErrInvalidInput)
	}
	if person.WalletAddress == "" {
		return nil, fmt.Errorf("%w: wallet address is required", core.ErrInvalidInput)
	}
	if !person.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", core.ErrInvalidInput, person.Role)
	}
	if person.ID == "" {
		person.ID = uuid.New().String()
	}
	if person.CreatedAt.IsZero() {
		person.CreatedAt = s.now().UTC()
	}

	created, err := s.source.CreatePerson(ctx, &person)
	if err != nil {
		s.log.Errorw("failed to create person", "address", person.WalletAddress, "err", err)
		return nil, err
	}
	return created, nil
}

// CreateProfile creates the directory profile of a wallet. A wallet that
// already has a profile gets core.ErrProfileExists.
func (s *DirectoryService) CreateProfile(ctx context.Context, person core.Person) (*core.Person, error) {
	_, err := s.source.GetPersonByWallet(ctx, person.WalletAddress)
	switch {
	case err == nil:
		return nil, core.ErrProfileExists
	case !errors.Is(err, core.ErrNotFound):
		return nil, fmt.Errorf("%w: %w", core.ErrLookupFailed, err)
	}
	return s.CreatePerson(ctx, person)
}

func (s *DirectoryService) UpdatePerson(ctx context.Context, id string, patch core.PersonPatch) (*core.Person, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", core.ErrInvalidInput)
	}
	if patch.Role != nil && !patch.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", core.ErrInvalidInput, *patch.Role)
	}

	updated, err := s.source.UpdatePerson(ctx, id, patch)
	if err != nil {
		s.log.Errorw("failed to update person", "id", id, "err", err)
		return nil, err
	}
	return updated, nil
}

func (s *DirectoryService) DeletePerson(ctx context.Context, id string) error {
	if err := s.source.DeletePerson(ctx, id); err != nil {
		s.log.Errorw("failed to delete person", "id", id, "err", err)
		return err
	}
	return nil
}

// Stats returns the landing page totals. A failed count yields all zeros.
func (s *DirectoryService) Stats(ctx context.Context) core.Stats {
	projects, err := s.source.CountProjects(ctx)
	if err != nil {
		s.log.Errorw("failed to count projects", "err", err)
		return core.Stats{}
	}
	people, err := s.source.CountPeople(ctx)
	if err != nil {
		s.log.Errorw("failed to count people", "err", err)
		return core.Stats{}
	}

	var st core.Stats
	for _, n := range projects {
		st.TotalProjects += n
	}
	for _, n := range people {
		st.TotalPeople += n
	}
	st.TotalBuilders = people[core.PersonDeveloper]
	st.TotalCreators = people[core.PersonContentCreator]
	st.TotalInvestors = people[core.PersonInvestor]
	st.TotalDegens = people[core.PersonCommunityManager]
	return st
}

// ProjectsByCategory distributes the projects over every category.
func (s *DirectoryService) ProjectsByCategory(ctx context.Context) core.Breakdown {
	counts, err := s.source.CountProjects(ctx)
	if err != nil {
		s.log.Errorw("failed to count projects", "err", err)
		counts = nil
	}

	keys := make([]string, 0, len(core.Categories))
	byKey := make(map[string]int, len(counts))
	for _, c := range core.Categories {
		keys = append(keys, string(c))
	}
	for c, n := range counts {
		byKey[string(c)] = n
	}
	return core.NewBreakdown(keys, byKey)
}

// PeopleByRole distributes the people over every person role.
func (s *DirectoryService) PeopleByRole(ctx context.Context) core.Breakdown {
	counts, err := s.source.CountPeople(ctx)
	if err != nil {
		s.log.Errorw("failed to count people", "err", err)
		counts = nil
	}

	keys := make([]string, 0, len(core.PersonRoles))
	byKey := make(map[string]int, len(counts))
	for _, r := range core.PersonRoles {
		keys = append(keys, string(r))
	}
	for r, n := range counts {
		byKey[string(r)] = n
	}
	return core.NewBreakdown(keys, byKey)
}
