package port

import (
	"context"

	"Civitas/internal/city/domain"
	"Civitas/internal/city/entity"
)

// CityRepository 城市快照存储。Load 没有记录时返回 (nil, false, nil)。
type CityRepository interface {
	Load(ctx context.Context, id domain.CityID) (*entity.CityPersistSnapshot, bool, error)
	Save(ctx context.Context, s *entity.CityPersistSnapshot) error
}
