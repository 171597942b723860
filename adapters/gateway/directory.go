package gateway

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/gokmency/web3turkiyetoplulugu/core"
)

const (
	projectColumns = `id, name, description, category, image_url, website_url, twitter_url, github_url, created_at`
	personColumns  = `id, wallet_address, name, bio, role, location, avatar_url, social_links, skills, created_at, updated_at`
)

// LiveGateway serves directory data from the SQL database.
type LiveGateway struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewLiveGateway(db *sqlx.DB) *LiveGateway {
	return &LiveGateway{db: db, now: time.Now}
}

type projectRow struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Category    string    `db:"category"`
	ImageURL    string    `db:"image_url"`
	WebsiteURL  string    `db:"website_url"`
	TwitterURL  string    `db:"twitter_url"`
	GitHubURL   string    `db:"github_url"`
	CreatedAt   time.Time `db:"created_at"`
}

func (r projectRow) toProject() core.Project {
	return core.Project{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Category:    core.Category(r.Category),
		ImageURL:    r.ImageURL,
		WebsiteURL:  r.WebsiteURL,
		TwitterURL:  r.TwitterURL,
		GitHubURL:   r.GitHubURL,
		CreatedAt:   r.CreatedAt,
	}
}

type personRow struct {
	ID            string       `db:"id"`
	WalletAddress string       `db:"wallet_address"`
	Name          string       `db:"name"`
	Bio           string       `db:"bio"`
	Role          string       `db:"role"`
	Location      string       `db:"location"`
	AvatarURL     string       `db:"avatar_url"`
	SocialLinks   string       `db:"social_links"`
	Skills        string       `db:"skills"`
	CreatedAt     time.Time    `db:"created_at"`
	UpdatedAt     sql.NullTime `db:"updated_at"`
}

func (r personRow) toPerson() (core.Person, error) {
	p := core.Person{
		ID:            r.ID,
		WalletAddress: r.WalletAddress,
		Name:          r.Name,
		Bio:           r.Bio,
		Role:          core.PersonRole(r.Role),
		Location:      r.Location,
		AvatarURL:     r.AvatarURL,
		CreatedAt:     r.CreatedAt,
	}
	if r.UpdatedAt.Valid {
		t := r.UpdatedAt.Time
		p.UpdatedAt = &t
	}
	if r.SocialLinks != "" {
		p.SocialLinks = &core.SocialLinks{}
		if err := json.Unmarshal([]byte(r.SocialLinks), p.SocialLinks); err != nil {
			return core.Person{}, fmt.Errorf("failed to decode social links of %s: %w", r.ID, err)
		}
	}
	if r.Skills != "" {
		if err := json.Unmarshal([]byte(r.Skills), &p.Skills); err != nil {
			return core.Person{}, fmt.Errorf("failed to decode skills of %s: %w", r.ID, err)
		}
	}
	return p, nil
}

func newPersonRow(p *core.Person) (personRow, error) {
	row := personRow{
		ID:            p.ID,
		WalletAddress: p.WalletAddress,
		Name:          p.Name,
		Bio:           p.Bio,
		Role:          string(p.Role),
		Location:      p.Location,
		AvatarURL:     p.AvatarURL,
		CreatedAt:     p.CreatedAt.UTC(),
	}
	if p.UpdatedAt != nil {
		row.UpdatedAt = sql.NullTime{Time: p.UpdatedAt.UTC(), Valid: true}
	}
	if p.SocialLinks != nil {
		data, err := json.Marshal(p.SocialLinks)
		if err != nil {
			return personRow{}, fmt.Errorf("failed to encode social links: %w", err)
		}
		row.SocialLinks = string(data)
	}
	if len(p.Skills) > 0 {
		data, err := json.Marshal(p.Skills)
		if err != nil {
			return personRow{}, fmt.Errorf("failed to encode skills: %w", err)
		}
		row.Skills = string(data)
	}
	return row, nil
}

// where accumulates AND-ed conditions with positional arguments.
type where struct {
	conds []string
	args  []any
}

func (w *where) add(cond string, args ...any) {
	w.conds = append(w.conds, cond)
	w.args = append(w.args, args...)
}

// search matches term as a case-folded substring of the row's search_text.
func (w *where) search(term string) {
	if term == "" {
		return
	}
	w.add(`search_text LIKE ? ESCAPE '\'`, containsPattern(term))
}

func (w *where) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

func filterSet(v string) bool {
	return v != "" && v != core.FilterAll
}

// ListProjects returns matching projects, newest first.
func (g *LiveGateway) ListProjects(ctx context.Context, filter core.ProjectFilter) ([]core.Project, error) {
	var w where
	if filterSet(filter.Category) {
		w.add(`category = ?`, filter.Category)
	}
	w.search(filter.Term)

	query := g.db.Rebind(`SELECT ` + projectColumns + ` FROM turkish_projects` + w.String() + ` ORDER BY created_at DESC`)

	var rows []projectRow
	if err := g.db.SelectContext(ctx, &rows, query, w.args...); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	projects := make([]core.Project, len(rows))
	for i, row := range rows {
		projects[i] = row.toProject()
	}
	return projects, nil
}

func (g *LiveGateway) GetProject(ctx context.Context, id string) (*core.Project, error) {
	query := g.db.Rebind(`SELECT ` + projectColumns + ` FROM turkish_projects WHERE id = ?`)

	var row projectRow
	if err := g.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	p := row.toProject()
	return &p, nil
}

// CreateProject inserts project, assigning id and creation time when unset.
func (g *LiveGateway) CreateProject(ctx context.Context, project *core.Project) (*core.Project, error) {
	p := *project
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = g.now().UTC()
	}

	query := g.db.Rebind(`INSERT INTO turkish_projects (` + projectColumns + `, search_text) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := g.db.ExecContext(ctx, query,
		p.ID, p.Name, p.Description, string(p.Category),
		p.ImageURL, p.WebsiteURL, p.TwitterURL, p.GitHubURL,
		p.CreatedAt.UTC(), projectSearchText(&p),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert project: %w", err)
	}
	return &p, nil
}

func (g *LiveGateway) UpdateProject(ctx context.Context, id string, patch core.ProjectPatch) (*core.Project, error) {
	tx, err := g.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var row projectRow
	if err := tx.GetContext(ctx, &row, tx.Rebind(`SELECT `+projectColumns+` FROM turkish_projects WHERE id = ?`), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	p := row.toProject()
	patch.Apply(&p)

	query := tx.Rebind(`
		UPDATE turkish_projects
		SET name = ?, description = ?, category = ?, image_url = ?, website_url = ?, twitter_url = ?, github_url = ?,
		    search_text = ?
		WHERE id = ?`)
	_, err = tx.ExecContext(ctx, query,
		p.Name, p.Description, string(p.Category), p.ImageURL, p.WebsiteURL, p.TwitterURL, p.GitHubURL,
		projectSearchText(&p), id)
	if err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit project update: %w", err)
	}
	return &p, nil
}

func (g *LiveGateway) DeleteProject(ctx context.Context, id string) error {
	res, err := g.db.ExecContext(ctx, g.db.Rebind(`DELETE FROM turkish_projects WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return requireAffected(res)
}

// CountProjects groups projects by category.
func (g *LiveGateway) CountProjects(ctx context.Context) (map[core.Category]int, error) {
	var rows []struct {
		Key   string `db:"category"`
		Count int    `db:"n"`
	}
	if err := g.db.SelectContext(ctx, &rows, `SELECT category, COUNT(*) AS n FROM turkish_projects GROUP BY category`); err != nil {
		return nil, fmt.Errorf("failed to count projects: %w", err)
	}

	counts := make(map[core.Category]int, len(rows))
	for _, r := range rows {
		counts[core.Category(r.Key)] = r.Count
	}
	return counts, nil
}

// ListPeople returns matching people, newest first.
func (g *LiveGateway) ListPeople(ctx context.Context, filter core.PersonFilter) ([]core.Person, error) {
	var w where
	if filterSet(filter.Role) {
		w.add(`role = ?`, filter.Role)
	}
	w.search(filter.Term)

	query := g.db.Rebind(`SELECT ` + personColumns + ` FROM turkish_people` + w.String() + ` ORDER BY created_at DESC`)

	var rows []personRow
	if err := g.db.SelectContext(ctx, &rows, query, w.args...); err != nil {
		return nil, fmt.Errorf("failed to list people: %w", err)
	}
	return toPeople(rows)
}

func (g *LiveGateway) GetPerson(ctx context.Context, id string) (*core.Person, error) {
	return g.getPersonBy(ctx, "id", id)
}

// GetPersonByWallet matches the stored wallet address exactly.
func (g *LiveGateway) GetPersonByWallet(ctx context.Context, address string) (*core.Person, error) {
	return g.getPersonBy(ctx, "wallet_address", address)
}

func (g *LiveGateway) getPersonBy(ctx context.Context, column, value string) (*core.Person, error) {
	query := g.db.Rebind(`SELECT ` + personColumns + ` FROM turkish_people WHERE ` + column + ` = ? ORDER BY created_at LIMIT 1`)

	var row personRow
	if err := g.db.GetContext(ctx, &row, query, value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get person: %w", err)
	}
	p, err := row.toPerson()
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreatePerson inserts person, assigning id and creation time when unset.
func (g *LiveGateway) CreatePerson(ctx context.Context, person *core.Person) (*core.Person, error) {
	p := *person
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = g.now().UTC()
	}

	row, err := newPersonRow(&p)
	if err != nil {
		return nil, err
	}

	query := g.db.Rebind(`INSERT INTO turkish_people (` + personColumns + `, search_text) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err = g.db.ExecContext(ctx, query,
		row.ID, row.WalletAddress, row.Name, row.Bio, row.Role, row.Location,
		row.AvatarURL, row.SocialLinks, row.Skills, row.CreatedAt, row.UpdatedAt,
		personSearchText(&p),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert person: %w", err)
	}
	return &p, nil
}

func (g *LiveGateway) UpdatePerson(ctx context.Context, id string, patch core.PersonPatch) (*core.Person, error) {
	tx, err := g.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var current personRow
	if err := tx.GetContext(ctx, &current, tx.Rebind(`SELECT `+personColumns+` FROM turkish_people WHERE id = ?`), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get person: %w", err)
	}

	p, err := current.toPerson()
	if err != nil {
		return nil, err
	}
	patch.Apply(&p)
	now := g.now().UTC()
	p.UpdatedAt = &now

	row, err := newPersonRow(&p)
	if err != nil {
		return nil, err
	}

	query := tx.Rebind(`
		UPDATE turkish_people
		SET name = ?, bio = ?, role = ?, location = ?, avatar_url = ?, social_links = ?, skills = ?, updated_at = ?,
		    search_text = ?
		WHERE id = ?`)
	_, err = tx.ExecContext(ctx, query,
		row.Name, row.Bio, row.Role, row.Location, row.AvatarURL, row.SocialLinks, row.Skills, row.UpdatedAt,
		personSearchText(&p), id)
	if err != nil {
		return nil, fmt.Errorf("failed to update person: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit person update: %w", err)
	}
	return &p, nil
}

func (g *LiveGateway) DeletePerson(ctx context.Context, id string) error {
	res, err := g.db.ExecContext(ctx, g.db.Rebind(`DELETE FROM turkish_people WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete person: %w", err)
	}
	return requireAffected(res)
}

// CountPeople groups people by role.
func (g *LiveGateway) CountPeople(ctx context.Context) (map[core.PersonRole]int, error) {
	var rows []struct {
		Key   string `db:"role"`
		Count int    `db:"n"`
	}
	if err := g.db.SelectContext(ctx, &rows, `SELECT role, COUNT(*) AS n FROM turkish_people GROUP BY role`); err != nil {
		return nil, fmt.Errorf("failed to count people: %w", err)
	}

	counts := make(map[core.PersonRole]int, len(rows))
	for _, r := range rows {
		counts[core.PersonRole(r.Key)] = r.Count
	}
	return counts, nil
}

func projectSearchText(p *core.Project) string {
	return searchText(p.Name, p.Description, string(p.Category))
}

func personSearchText(p *core.Person) string {
	return searchText(append([]string{p.Name, p.Bio, p.Location}, p.Skills...)...)
}

func toPeople(rows []personRow) ([]core.Person, error) {
	people := make([]core.Person, 0, len(rows))
	for _, row := range rows {
		p, err := row.toPerson()
		if err != nil {
			return nil, err
		}
		people = append(people, p)
	}
	return people, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}
