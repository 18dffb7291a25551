// Package app wires the configured database, repository, validator and
// transfer engine together for the daemon and the CLI.
package app

import (
	"github.com/sirupsen/logrus"

	"robot-registry/config"
	"robot-registry/internal/db"
	"robot-registry/internal/repository"
	"robot-registry/internal/store"
	"robot-registry/internal/transfer"
	"robot-registry/internal/validation"
)

// App holds the long-lived services built from a Config.
type App struct {
	Config     *config.Config
	Store      store.Store
	Repository *repository.Repository
	Validator  *validation.Validator
	Transfer   *transfer.Engine
}

// New opens the database described by cfg and builds every service on top.
func New(cfg *config.Config) (*App, error) {
	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		return nil, err
	}
	return Wire(cfg, store.NewGormStore(gormDB)), nil
}

// Wire builds the services on an already opened store.
func Wire(cfg *config.Config, s store.Store) *App {
	repo := repository.New(s)
	v := validation.New()

	var opts []transfer.Option
	if cfg.Transfer.ShouldValidateOnImport() {
		opts = append(opts, transfer.WithInputCheck(v.Input))
	} else {
		logrus.Warn("import validation disabled; records are created as read")
	}

	return &App{
		Config:     cfg,
		Store:      s,
		Repository: repo,
		Validator:  v,
		Transfer:   transfer.New(repo, opts...),
	}
}

// Close releases the database connection.
func (a *App) Close() error {
	return a.Store.Close()
}
