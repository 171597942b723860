package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/gokmency/web3turkiyetoplulugu/core"
	"github.com/gokmency/web3turkiyetoplulugu/ports"
)

// FallbackSource serves fixture data whenever the live source fails. Not found
// results are passed through; every other live error is logged and replaced by
// the answer of the fixture source.
type FallbackSource struct {
	live    ports.DataSource
	fixture ports.DataSource
	log     *zap.SugaredLogger
}

var _ ports.DataSource = (*FallbackSource)(nil)

func NewFallbackSource(live, fixture ports.DataSource, log *zap.SugaredLogger) *FallbackSource {
	return &FallbackSource{live: live, fixture: fixture, log: log}
}

func (f *FallbackSource) degrade(op string, err error) bool {
	if err == nil || errors.Is(err, core.ErrNotFound) {
		return false
	}
	f.log.Warnw("live data source failed, serving fixture data", "op", op, "err", err)
	return true
}

func (f *FallbackSource) ListProjects(ctx context.Context, filter core.ProjectFilter) ([]core.Project, error) {
	projects, err := f.live.ListProjects(ctx, filter)
	if f.degrade("list_projects", err) {
		return f.fixture.ListProjects(ctx, filter)
	}
	return projects, err
}

func (f *FallbackSource) GetProject(ctx context.Context, id string) (*core.Project, error) {
	project, err := f.live.GetProject(ctx, id)
	if f.degrade("get_project", err) {
		return f.fixture.GetProject(ctx, id)
	}
	return project, err
}

func (f *FallbackSource) CreateProject(ctx context.Context, project *core.Project) (*core.Project, error) {
	created, err := f.live.CreateProject(ctx, project)
	if f.degrade("create_project", err) {
		return f.fixture.CreateProject(ctx, project)
	}
	return created, err
}

func (f *FallbackSource) UpdateProject(ctx context.Context, id string, patch core.ProjectPatch) (*core.Project, error) {
	updated, err := f.live.UpdateProject(ctx, id, patch)
	if f.degrade("update_project", err) {
		return f.fixture.UpdateProject(ctx, id, patch)
	}
	return updated, err
}

func (f *FallbackSource) DeleteProject(ctx context.Context, id string) error {
	err := f.live.DeleteProject(ctx, id)
	if f.degrade("delete_project", err) {
		return f.fixture.DeleteProject(ctx, id)
	}
	return err
}

func (f *FallbackSource) CountProjects(ctx context.Context) (map[core.Category]int, error) {
	counts, err := f.live.CountProjects(ctx)
	if f.degrade("count_projects", err) {
		return f.fixture.CountProjects(ctx)
	}
	return counts, err
}

func (f *FallbackSource) ListPeople(ctx context.Context, filter core.PersonFilter) ([]core.Person, error) {
	people, err := f.live.ListPeople(ctx, filter)
	if f.degrade("list_people", err) {
		return f.fixture.ListPeople(ctx, filter)
	}
	return people, err
}

func (f *FallbackSource) GetPerson(ctx context.Context, id string) (*core.Person, error) {
	person, err := f.live.GetPerson(ctx, id)
	if f.degrade("get_person", err) {
		return f.fixture.GetPerson(ctx, id)
	}
	return person, err
}

func (f *FallbackSource) GetPersonByWallet(ctx context.Context, address string) (*core.Person, error) {
	person, err := f.live.GetPersonByWallet(ctx, address)
	if f.degrade("get_person_by_wallet", err) {
		return f.fixture.GetPersonByWallet(ctx, address)
	}
	return person, err
}

func (f *FallbackSource) CreatePerson(ctx context.Context, person *core.Person) (*core.Person, error) {
	created, err := f.live.CreatePerson(ctx, person)
	if f.degrade("create_person", err) {
		return f.fixture.CreatePerson(ctx, person)
	}
	return created, err
}

func (f *FallbackSource) UpdatePerson(ctx context.Context, id string, patch core.PersonPatch) (*core.Person, error) {
	updated, err := f.live.UpdatePerson(ctx, id, patch)
	if f.degrade("update_person", err) {
		return f.fixture.UpdatePerson(ctx, id, patch)
	}
	return updated, err
}

func (f *FallbackSource) DeletePerson(ctx context.Context, id string) error {
	err := f.live.DeletePerson(ctx, id)
	if f.degrade("delete_person", err) {
		return f.fixture.DeletePerson(ctx, id)
	}
	return err
}

func (f *FallbackSource) CountPeople(ctx context.Context) (map[core.PersonRole]int, error) {
	counts, err := f.live.CountPeople(ctx)
	if f.degrade("count_people", err) {
		return f.fixture.CountPeople(ctx)
	}
	return counts, err
}
