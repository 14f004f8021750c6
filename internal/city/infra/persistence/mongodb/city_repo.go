package mongodb

import (
	"context"
	"errors"

	"Civitas/internal/city/domain"
	"Civitas/internal/city/entity"
	"Civitas/modules/kit/errx"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const defaultCollectionName = "city_allocation"

const (
	OpLoadCity = "repo.city.Load"
	OpSaveCity = "repo.city.Save"
)

// CityRepository 一座城市一个文档，_id 为城市 ID。
type CityRepository struct {
	coll *mongo.Collection
}

func NewCityRepository(db *mongo.Database) *CityRepository {
	if db == nil {
		return &CityRepository{}
	}
	return &CityRepository{coll: db.Collection(defaultCollectionName)}
}

func (r *CityRepository) Load(ctx context.Context, id domain.CityID) (*entity.CityPersistSnapshot, bool, error) {
	if r == nil || r.coll == nil {
		return nil, false, errx.ErrUnavailable.WithData("op", OpLoadCity)
	}
	var doc entity.CityPersistSnapshot
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	switch {
	case err == nil:
		return &doc, true, nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, false, nil
	default:
		return nil, false, errx.ErrUnavailable.WithCause(err).WithData("op", OpLoadCity).WithData("city_id", int(id))
	}
}

// Save 整体替换；版本更高的文档已存在时不覆盖。
func (r *CityRepository) Save(ctx context.Context, s *entity.CityPersistSnapshot) error {
	if s == nil {
		return nil
	}
	if r == nil || r.coll == nil {
		return errx.ErrUnavailable.WithData("op", OpSaveCity)
	}
	filter := bson.M{"_id": s.CityID, "version": bson.M{"$lt": s.Version}}
	_, err := r.coll.ReplaceOne(ctx, filter, s, options.Replace().SetUpsert(true))
	if mongo.IsDuplicateKeyError(err) {
		// 库里已是更新的版本
		return nil
	}
	if err != nil {
		return errx.ErrUnavailable.WithCause(err).WithData("op", OpSaveCity).WithData("city_id", int(s.CityID))
	}
	return nil
}

// EnsureIndexes 按所属玩家查城市用。
func (r *CityRepository) EnsureIndexes(ctx context.Context) error {
	if r == nil || r.coll == nil {
		return errx.ErrUnavailable.WithData("op", "repo.city.EnsureIndexes")
	}
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner", Value: 1}},
	})
	return err
}
