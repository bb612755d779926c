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
	"motion_arena/internal/domain/user"
	errs "motion_arena/internal/errors"
)

type MongoUserStorage struct {
	adapter *adapters.AdapterMongo
	log     *zap.SugaredLogger
}

func NewMongoUserStorage(adapter *adapters.AdapterMongo, log *zap.SugaredLogger) *MongoUserStorage {
	return &MongoUserStorage{adapter: adapter, log: log}
}

func (m *MongoUserStorage) CheckExists(username string) bool {
	_, ok := m.GetUser(username)
	return ok
}

func (m *MongoUserStorage) GetUser(username string) (user.User, bool) {
	collection := m.adapter.Database.Collection("users")
	filter := bson.D{{Key: "username", Value: username}}

	var result user.User
	err := collection.FindOne(context.TODO(), filter).Decode(&result)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			m.log.Error(err)
		}
		return user.User{}, false
	}
	return result, true
}

func (m *MongoUserStorage) GetUserByID(id string) (user.User, bool) {
	collection := m.adapter.Database.Collection("users")
	filter := bson.D{{Key: "_id", Value: id}}

	var result user.User
	err := collection.FindOne(context.TODO(), filter).Decode(&result)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			m.log.Error(err)
		}
		return user.User{}, false
	}
	return result, true
}

func (m *MongoUserStorage) GetUserByEmail(email string) (user.User, bool) {
	collection := m.adapter.Database.Collection("users")
	filter := bson.D{{Key: "email", Value: email}}

	var result user.User
	err := collection.FindOne(context.TODO(), filter).Decode(&result)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			m.log.Error(err)
		}
		return user.User{}, false
	}
	return result, true
}

func (m *MongoUserStorage) CreateUser(username, email, passwordHash string) (user.User, error) {
	_, found := m.GetUser(username)
	if found {
		return user.User{}, errs.ErrUserExists
	}

	collection := m.adapter.Database.Collection("users")
	newUser := user.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		CreatedAt:    time.Now(),
		LastSeen:     time.Now(),
		PasswordHash: passwordHash,
		Statistic: user.UserStatistic{
			Wins:   0,
			Losses: 0,
			Draws:  0,
		},
	}

	_, err := collection.InsertOne(context.TODO(), newUser)
	if err != nil {
		m.log.Error(err)
		return user.User{}, errs.ErrInternal
	}
	return newUser, nil
}

func (m *MongoUserStorage) UpdateLastSeen(id string) error {
	collection := m.adapter.Database.Collection("users")
	_, err := collection.UpdateOne(context.TODO(),
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"last_seen": time.Now()}})
	if err != nil {
		m.log.Error(err)
	}
	return err
}

func (m *MongoUserStorage) SetAvatar(id string, avatarID string) error {
	collection := m.adapter.Database.Collection("users")
	res, err := collection.UpdateOne(context.TODO(),
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"avatar_id": avatarID}})
	if err != nil {
		m.log.Error(err)
		return err
	}
	if res.MatchedCount == 0 {
		return errs.ErrUserNotFound
	}
	return nil
}

func (m *MongoUserStorage) SetResetToken(id string, token string, expiresAt time.Time) error {
	collection := m.adapter.Database.Collection("users")
	_, err := collection.UpdateOne(context.TODO(),
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"reset_token":            token,
			"reset_token_expires_at": expiresAt,
		}})
	if err != nil {
		m.log.Error(err)
	}
	return err
}

// ResetPassword clears the token in the same update that writes the new
// hash, a used token must not stay valid.
func (m *MongoUserStorage) ResetPassword(id string, passwordHash string) error {
	collection := m.adapter.Database.Collection("users")
	_, err := collection.UpdateOne(context.TODO(),
		bson.M{"_id": id},
		bson.M{
			"$set":   bson.M{"password_hash": passwordHash},
			"$unset": bson.M{"reset_token": "", "reset_token_expires_at": ""},
		})
	if err != nil {
		m.log.Error(err)
	}
	return err
}
