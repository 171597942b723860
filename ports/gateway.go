package ports

import (
	"context"
	"time"

	"github.com/gokmency/web3turkiyetoplulugu/core"
)

// UserRepository is the user profile table of the persistence gateway.
type UserRepository interface {
	// GetByWallet matches the stored address exactly and returns core.ErrNotFound when absent.
	GetByWallet(ctx context.Context, address string) (*core.User, error)
	// Touch sets updated_at and returns the refreshed row.
	Touch(ctx context.Context, address string, at time.Time) (*core.User, error)
	// Create returns core.ErrUserAlreadyExists when the wallet is already registered.
	Create(ctx context.Context, user *core.User) error
	UpdateProfile(ctx context.Context, address string, update core.ProfileUpdate, at time.Time) (*core.User, error)
	// List returns users ordered by creation time, newest first.
	List(ctx context.Context) ([]core.User, error)
}

// DataSource is the directory data capability. Live and fixture gateways both implement it.
type DataSource interface {
	ListProjects(ctx context.Context, filter core.ProjectFilter) ([]core.Project, error)
	GetProject(ctx context.Context, id string) (*core.Project, error)
	CreateProject(ctx context.Context, project *core.Project) (*core.Project, error)
	UpdateProject(ctx context.Context, id string, patch core.ProjectPatch) (*core.Project, error)
	DeleteProject(ctx context.Context, id string) error
	CountProjects(ctx context.Context) (map[core.Category]int, error)

	ListPeople(ctx context.Context, filter core.PersonFilter) ([]core.Person, error)
	GetPerson(ctx context.Context, id string) (*core.Person, error)
	GetPersonByWallet(ctx context.Context, address string) (*core.Person, error)
	CreatePerson(ctx context.Context, person *core.Person) (*core.Person, error)
	UpdatePerson(ctx context.Context, id string, patch core.PersonPatch) (*core.Person, error)
	DeletePerson(ctx context.Context, id string) error
	CountPeople(ctx context.Context) (map[core.PersonRole]int, error)
}

// ObjectStore holds uploaded files addressable by key and public URL.
type ObjectStore interface {
	// Put fails with core.ErrObjectExists instead of overwriting.
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
	// KeyFromURL reverses PublicURL.
	KeyFromURL(url string) (string, error)
}
