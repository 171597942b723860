package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/gokmency/web3turkiyetoplulugu/adapters/fixture"
	"github.com/gokmency/web3turkiyetoplulugu/adapters/gateway"
	"github.com/gokmency/web3turkiyetoplulugu/core"
	"github.com/gokmency/web3turkiyetoplulugu/ports"
)

// Data source modes
const (
	ModeAuto     = "auto"
	ModeLive     = "live"
	ModeFixture  = "fixture"
	ModeFallback = "fallback"
)

// DataSources is the composition chosen at startup.
type DataSources struct {
	Directory ports.DataSource
	// Users fails with core.ErrGatewayUnavailable when no database is available.
	Users ports.UserRepository
	DB    *sqlx.DB
	Mode  string
}

// Close releases the database handle, if any.
func (d *DataSources) Close() error {
	if d.DB == nil {
		return nil
	}
	return d.DB.Close()
}

// SelectDataSource opens the configured backend once. Mode auto uses the
// database when dsn is set and reachable and the fixture set otherwise; live
// requires the database; fallback wraps the database with the fixture set.
func SelectDataSource(ctx context.Context, mode, driver, dsn string, log *zap.SugaredLogger) (*DataSources, error) {
	switch mode {
	case ModeAuto, ModeLive, ModeFixture, ModeFallback, "":
	default:
		return nil, fmt.Errorf("unknown data source mode %q", mode)
	}

	fixtures := fixture.New(time.Now())
	if mode == ModeFixture {
		log.Infow("using fixture data source")
		return &DataSources{Directory: fixtures, Users: offlineUsers{}, Mode: ModeFixture}, nil
	}

	var db *sqlx.DB
	var err error
	if dsn == "" {
		err = core.ErrGatewayUnavailable
	} else {
		db, err = gateway.Open(ctx, driver, dsn)
	}

	switch mode {
	case ModeLive:
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		return liveSources(db, ModeLive), nil

	case ModeFallback:
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		ds := liveSources(db, ModeFallback)
		ds.Directory = NewFallbackSource(ds.Directory, fixtures, log)
		return ds, nil

	default:
		if err != nil {
			log.Warnw("database unavailable, using fixture data source", "err", err)
			return &DataSources{Directory: fixtures, Users: offlineUsers{}, Mode: ModeFixture}, nil
		}
		return liveSources(db, ModeLive), nil
	}
}

func liveSources(db *sqlx.DB, mode string) *DataSources {
	return &DataSources{
		Directory: gateway.NewLiveGateway(db),
		Users:     gateway.NewUserRepository(db),
		DB:        db,
		Mode:      mode,
	}
}

// offlineUsers stands in for the user registry without a database, so sign-in
// reports a database error instead of succeeding against demo data.
type offlineUsers struct{}

func (offlineUsers) GetByWallet(context.Context, string) (*core.User, error) {
	return nil, core.ErrGatewayUnavailable
}

func (offlineUsers) Touch(context.Context, string, time.Time) (*core.User, error) {
	return nil, core.ErrGatewayUnavailable
}

func (offlineUsers) Create(context.Context, *core.User) error {
	return core.ErrGatewayUnavailable
}

func (offlineUsers) UpdateProfile(context.Context, string, core.ProfileUpdate, time.Time) (*core.User, error) {
	return nil, core.ErrGatewayUnavailable
}

func (offlineUsers) List(context.Context) ([]core.User, error) {
	return nil, core.ErrGatewayUnavailable
}
