// Package fixture serves a fixed in-memory directory used as demo data when no
// database is configured.
package fixture

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/gokmency/web3turkiyetoplulugu/core"
)

// Gateway is a read-only data source over the fixture set. Creates return a
// synthesized record that is not stored; updates and deletes fail with core.ErrReadOnly.
type Gateway struct {
	projects []core.Project
	people   []core.Person
	now      func() time.Time
}

// New builds the fixture set with creation times relative to now.
func New(now time.Time) *Gateway {
	return &Gateway{
		projects: seedProjects(now),
		people:   seedPeople(now),
		now:      time.Now,
	}
}

// matcher tests folded case substring containment.
type matcher struct {
	caser cases.Caser
	term  string
}

func newMatcher(term string) *matcher {
	if term == "" {
		return nil
	}
	c := cases.Fold()
	return &matcher{caser: c, term: c.String(term)}
}

func (m *matcher) any(fields ...string) bool {
	if m == nil {
		return true
	}
	for _, f := range fields {
		if strings.Contains(m.caser.String(f), m.term) {
			return true
		}
	}
	return false
}

func filterSet(v string) bool {
	return v != "" && v != core.FilterAll
}

func newestFirst[T any](items []T, createdAt func(T) time.Time) {
	slices.SortStableFunc(items, func(a, b T) int {
		return cmp.Compare(createdAt(b).UnixNano(), createdAt(a).UnixNano())
	})
}

func (g *Gateway) ListProjects(ctx context.Context, filter core.ProjectFilter) ([]core.Project, error) {
	m := newMatcher(filter.Term)
	out := make([]core.Project, 0, len(g.projects))
	for _, p := range g.projects {
		if filterSet(filter.Category) && string(p.Category) != filter.Category {
			continue
		}
		if !m.any(p.Name, p.Description, string(p.Category)) {
			continue
		}
		out = append(out, p)
	}
	newestFirst(out, func(p core.Project) time.Time { return p.CreatedAt })
	return out, nil
}

func (g *Gateway) GetProject(ctx context.Context, id string) (*core.Project, error) {
	for _, p := range g.projects {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, core.ErrNotFound
}

func (g *Gateway) CreateProject(ctx context.Context, project *core.Project) (*core.Project, error) {
	p := *project
	now := g.now()
	p.ID = fmt.Sprintf("project-%d", now.UnixMilli())
	p.CreatedAt = now.UTC()
	return &p, nil
}

func (g *Gateway) UpdateProject(ctx context.Context, id string, patch core.ProjectPatch) (*core.Project, error) {
	return nil, core.ErrReadOnly
}

func (g *Gateway) DeleteProject(ctx context.Context, id string) error {
	return core.ErrReadOnly
}

func (g *Gateway) CountProjects(ctx context.Context) (map[core.Category]int, error) {
	counts := make(map[core.Category]int)
	for _, p := range g.projects {
		counts[p.Category]++
	}
	return counts, nil
}

func (g *Gateway) ListPeople(ctx context.Context, filter core.PersonFilter) ([]core.Person, error) {
	m := newMatcher(filter.Term)
	out := make([]core.Person, 0, len(g.people))
	for _, p := range g.people {
		if filterSet(filter.Role) && string(p.Role) != filter.Role {
			continue
		}
		fields := append([]string{p.Name, p.Bio, p.Location}, p.Skills...)
		if !m.any(fields...) {
			continue
		}
		out = append(out, clonePerson(p))
	}
	newestFirst(out, func(p core.Person) time.Time { return p.CreatedAt })
	return out, nil
}

func (g *Gateway) GetPerson(ctx context.Context, id string) (*core.Person, error) {
	for _, p := range g.people {
		if p.ID == id {
			c := clonePerson(p)
			return &c, nil
		}
	}
	return nil, core.ErrNotFound
}

func (g *Gateway) GetPersonByWallet(ctx context.Context, address string) (*core.Person, error) {
	for _, p := range g.people {
		if p.WalletAddress == address {
			c := clonePerson(p)
			return &c, nil
		}
	}
	return nil, core.ErrNotFound
}

func (g *Gateway) CreatePerson(ctx context.Context, person *core.Person) (*core.Person, error) {
	p := clonePerson(*person)
	now := g.now()
	p.ID = fmt.Sprintf("person-%d", now.UnixMilli())
	p.CreatedAt = now.UTC()
	return &p, nil
}

func (g *Gateway) UpdatePerson(ctx context.Context, id string, patch core.PersonPatch) (*core.Person, error) {
	return nil, core.ErrReadOnly
}

func (g *Gateway) DeletePerson(ctx context.Context, id string) error {
	return core.ErrReadOnly
}

func (g *Gateway) CountPeople(ctx context.Context) (map[core.PersonRole]int, error) {
	counts := make(map[core.PersonRole]int)
	for _, p := range g.people {
		counts[p.Role]++
	}
	return counts, nil
}

func clonePerson(p core.Person) core.Person {
	if p.SocialLinks != nil {
		links := *p.SocialLinks
		p.SocialLinks = &links
	}
	p.Skills = slices.Clone(p.Skills)
	return p
}
