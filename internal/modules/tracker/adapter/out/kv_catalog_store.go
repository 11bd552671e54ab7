package out

import (
	"context"

	"tasktrack/internal/modules/tracker/domain"
	trackerout "tasktrack/internal/modules/tracker/port/out"
	"tasktrack/internal/platform/kv"
)

const (
	keyProjects    = "projects"
	keyTasks       = "tasks"
	keyProjectMeta = "projectMeta"
)

type KVCatalogStore struct {
	store kv.Store
}

func NewKVCatalogStore(store kv.Store) trackerout.CatalogStore {
	return &KVCatalogStore{store: store}
}

func (s *KVCatalogStore) LoadCatalog(ctx context.Context) (domain.Catalog, error) {
	catalog := domain.Catalog{}
	if _, err := s.store.Get(ctx, keyProjects, &catalog.Projects); err != nil {
		return domain.Catalog{}, err
	}
	if _, err := s.store.Get(ctx, keyTasks, &catalog.Tasks); err != nil {
		return domain.Catalog{}, err
	}
	if _, err := s.store.Get(ctx, keyProjectMeta, &catalog.Meta); err != nil {
		return domain.Catalog{}, err
	}
	if catalog.Meta == nil {
		catalog.Meta = map[string]domain.ProjectMeta{}
	}
	return catalog, nil
}

func (s *KVCatalogStore) SaveProjects(ctx context.Context, projects []string, meta map[string]domain.ProjectMeta) error {
	if projects == nil {
		projects = []string{}
	}
	if meta == nil {
		meta = map[string]domain.ProjectMeta{}
	}
	if err := s.store.Set(ctx, keyProjects, projects); err != nil {
		return err
	}
	return s.store.Set(ctx, keyProjectMeta, meta)
}

func (s *KVCatalogStore) SaveTasks(ctx context.Context, tasks []string) error {
	if tasks == nil {
		tasks = []string{}
	}
	return s.store.Set(ctx, keyTasks, tasks)
}
