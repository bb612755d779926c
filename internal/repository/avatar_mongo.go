package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"motion_arena/internal/adapters"
	avatarDomain "motion_arena/internal/domain/avatar"
	errs "motion_arena/internal/errors"
)

type MongoAvatarStorage struct {
	adapter *adapters.AdapterMongo
	log     *zap.SugaredLogger
}

func NewMongoAvatarStorage(adapter *adapters.AdapterMongo, log *zap.SugaredLogger) *MongoAvatarStorage {
	return &MongoAvatarStorage{adapter: adapter, log: log}
}

func (m *MongoAvatarStorage) List(ctx context.Context) ([]avatarDomain.Avatar, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	collection := m.adapter.Database.Collection("avatars")
	cursor, err := collection.Find(ctx, bson.M{})
	if err != nil {
		m.log.Error(err)
		return nil, err
	}
	defer cursor.Close(ctx)

	var result []avatarDomain.Avatar
	for cursor.Next(ctx) {
		var a avatarDomain.Avatar
		if err = cursor.Decode(&a); err != nil {
			m.log.Error(err)
			return nil, err
		}
		result = append(result, a)
	}

	return result, nil
}

func (m *MongoAvatarStorage) GetByID(ctx context.Context, id string) (avatarDomain.Avatar, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	collection := m.adapter.Database.Collection("avatars")

	var result avatarDomain.Avatar
	err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(&result)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return avatarDomain.Avatar{}, errs.ErrAvatarNotFound
	} else if err != nil {
		m.log.Error(err)
		return avatarDomain.Avatar{}, err
	}

	return result, nil
}

// SaveCustomization replaces the whole customization blob of the avatar.
func (m *MongoAvatarStorage) SaveCustomization(ctx context.Context, id string, c avatarDomain.Customization) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	collection := m.adapter.Database.Collection("avatars")
	res, err := collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"customization": c}})
	if err != nil {
		m.log.Errorf("failed to save customization for avatar %s: %v", id, err)
		return err
	}
	if res.MatchedCount == 0 {
		return errs.ErrAvatarNotFound
	}
	return nil
}

// Seed inserts the default catalog on an empty collection. A non-empty
// catalog is left untouched.
func (m *MongoAvatarStorage) Seed(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	collection := m.adapter.Database.Collection("avatars")
	count, err := collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		m.log.Error(err)
		return err
	}
	if count > 0 {
		return nil
	}

	defaults := []interface{}{
		avatarDomain.Avatar{ID: uuid.New().String(), Name: "Default", ImagePath: "default.png", Health: 100, Strength: 10, Speed: 10, Defense: 10},
		avatarDomain.Avatar{ID: uuid.New().String(), Name: "Boxer", ImagePath: "boxer.png", Health: 100, Strength: 14, Speed: 8, Defense: 12},
		avatarDomain.Avatar{ID: uuid.New().String(), Name: "Wizard", ImagePath: "wizard.png", Health: 90, Strength: 12, Speed: 10, Defense: 8},
		avatarDomain.Avatar{ID: uuid.New().String(), Name: "Ninja", ImagePath: "ninja.png", Health: 85, Strength: 10, Speed: 16, Defense: 9},
	}

	if _, err = collection.InsertMany(ctx, defaults); err != nil {
		m.log.Error(err)
		return err
	}

	m.log.Info("avatar catalog seeded")
	return nil
}
