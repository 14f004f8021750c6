package mysql

import (
	"context"
	"errors"

	"Civitas/internal/city/domain"
	"Civitas/internal/city/entity"
	"Civitas/internal/city/infra/persistence/model"
	"Civitas/modules/kit/errx"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	OpLoadCity = "repo.city.Load"
	OpSaveCity = "repo.city.Save"
)

type CityRepository struct {
	db *gorm.DB
}

func NewCityRepository(db *gorm.DB) *CityRepository {
	return &CityRepository{db: db}
}

// AutoMigrate 建表，启动和测试时调用。
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.CityAllocation{}, &model.CityPlot{})
}

func (r *CityRepository) WithTx(tx *gorm.DB) *CityRepository {
	return &CityRepository{db: tx}
}

func (r *CityRepository) Load(ctx context.Context, id domain.CityID) (*entity.CityPersistSnapshot, bool, error) {
	var row model.CityAllocation
	err := r.db.WithContext(ctx).Where("city_id = ?", int64(id)).First(&row).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, false, nil
	case err != nil:
		return nil, false, wrap(OpLoadCity, id, err)
	}

	var plots []model.CityPlot
	if err := r.db.WithContext(ctx).Where("city_id = ?", int64(id)).Order("q, r").Find(&plots).Error; err != nil {
		return nil, false, wrap(OpLoadCity, id, err)
	}
	return model.ToSnapshot(row, plots), true, nil
}

// Save 主表 upsert，地块表整城替换，同一事务；库里版本更高时跳过。
func (r *CityRepository) Save(ctx context.Context, s *entity.CityPersistSnapshot) error {
	if s == nil {
		return nil
	}
	row, plots := model.FromSnapshot(s)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cur model.CityAllocation
		err := tx.Select("version").Where("city_id = ?", row.CityID).First(&cur).Error
		switch {
		case err == nil && cur.Version > row.Version:
			return nil
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error; err != nil {
			return err
		}
		if err := tx.Where("city_id = ?", row.CityID).Delete(&model.CityPlot{}).Error; err != nil {
			return err
		}
		if len(plots) == 0 {
			return nil
		}
		return tx.Create(&plots).Error
	})
	if err != nil {
		return wrap(OpSaveCity, s.CityID, err)
	}
	return nil
}

func wrap(op string, id domain.CityID, err error) error {
	return errx.ErrUnavailable.WithCause(err).WithData("op", op).WithData("city_id", int(id))
}
