package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"Civitas/internal/city/domain"
	"Civitas/internal/city/entity"
)

// CityRepository 进程内存储，单机调试和测试用；存取都做深拷贝。
type CityRepository struct {
	mu   sync.RWMutex
	data map[domain.CityID]*entity.CityPersistSnapshot
}

func NewCityRepository() *CityRepository {
	return &CityRepository{data: make(map[domain.CityID]*entity.CityPersistSnapshot)}
}

func (r *CityRepository) Load(_ context.Context, id domain.CityID) (*entity.CityPersistSnapshot, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.data[id]
	if !ok {
		return nil, false, nil
	}
	return clone(s), true, nil
}

// Save 旧版本不会覆盖新版本。
func (r *CityRepository) Save(_ context.Context, s *entity.CityPersistSnapshot) error {
	if s == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.data[s.CityID]; ok && cur.Version > s.Version {
		return nil
	}
	r.data[s.CityID] = clone(s)
	return nil
}

func clone(s *entity.CityPersistSnapshot) *entity.CityPersistSnapshot {
	cp := *s
	cp.Buildings = slices.Clone(s.Buildings)
	cp.Allocation.Plots = slices.Clone(s.Allocation.Plots)
	cp.Allocation.SpecialistsInBuilding = maps.Clone(s.Allocation.SpecialistsInBuilding)
	cp.Allocation.ForcedSpecialistsInBuilding = maps.Clone(s.Allocation.ForcedSpecialistsInBuilding)
	cp.Allocation.GreatPersonProgress = maps.Clone(s.Allocation.GreatPersonProgress)
	return &cp
}
