package kvrepos

import (
	"context"
	"sync"

	"github.com/brightpath/academia/core"
	"github.com/brightpath/academia/core/admission"
	"github.com/brightpath/academia/storage/kv"
)

type applicationRepository struct {
	mu     sync.RWMutex
	st     kv.Store
	logger core.Logger
}

var _ admission.Repository = (*applicationRepository)(nil)

func NewApplicationRepository(st kv.Store, logger core.Logger) admission.Repository {
	return &applicationRepository{st: st, logger: logger}
}

func (repo *applicationRepository) load() []admission.Application {
	var apps []admission.Application
	kv.LoadSlice(context.Background(), repo.st, repo.logger, keyApplications, &apps, nil)
	return apps
}

func (repo *applicationRepository) save(apps []admission.Application) error {
	return kv.SaveSlice(context.Background(), repo.st, keyApplications, apps)
}

func (repo *applicationRepository) CreateApplication(app admission.Application) (admission.Application, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	apps := append(repo.load(), app)
	if err := repo.save(apps); err != nil {
		return admission.Application{}, err
	}
	return app, nil
}

func (repo *applicationRepository) QueryAllApplications() ([]admission.Application, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	return repo.load(), nil
}

func (repo *applicationRepository) GetApplicationByID(id string) (admission.Application, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, app := range repo.load() {
		if app.ID == id {
			return app, nil
		}
	}
	return admission.Application{}, admission.ErrNotFound
}

func (repo *applicationRepository) UpdateApplication(app admission.Application) (admission.Application, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	apps := repo.load()
	for i := range apps {
		if apps[i].ID == app.ID {
			apps[i] = app
			if err := repo.save(apps); err != nil {
				return admission.Application{}, err
			}
			return app, nil
		}
	}
	return admission.Application{}, admission.ErrNotFound
}
