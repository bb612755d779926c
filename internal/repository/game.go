package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"motion_arena/internal/bootstrap"
	"motion_arena/internal/domain/session"
	errs "motion_arena/internal/errors"
	"motion_arena/internal/statuses"
)

const liveSessionKeyPrefix = "live_session:"

type GameRepository struct {
	cfg   bootstrap.Config
	log   *zap.SugaredLogger
	redis *redis.Client
	mongo *mongo.Database
}

func NewGameRepository(cfg bootstrap.Config, log *zap.SugaredLogger, redisClient *redis.Client, mongoDB *mongo.Database) *GameRepository {
	return &GameRepository{
		cfg:   cfg,
		log:   log,
		redis: redisClient,
		mongo: mongoDB,
	}
}

func (g *GameRepository) CreateSession(ctx context.Context, s session.GameSession) (session.GameSession, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	s.ID = uuid.New().String()

	collection := g.mongo.Collection("game_sessions")
	_, err := collection.InsertOne(ctx, s)
	if err != nil {
		g.log.Errorf("failed to insert game session: %v", err)
		return session.GameSession{}, err
	}

	g.cacheSession(s)
	g.log.Infof("game session created with id: %s", s.ID)
	return s, nil
}

func (g *GameRepository) GetSessionByID(ctx context.Context, id string) (session.GameSession, error) {
	if cached, err := g.loadCachedSession(id); err == nil {
		return cached, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	collection := g.mongo.Collection("game_sessions")
	filter := bson.M{"_id": id}

	var result session.GameSession
	err := collection.FindOne(ctx, filter).Decode(&result)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return session.GameSession{}, errs.ErrGameNotFound
	} else if err != nil {
		g.log.Error(err)
		return session.GameSession{}, err
	}

	g.cacheSession(result)
	return result, nil
}

func (g *GameRepository) UpdateSession(ctx context.Context, s session.GameSession) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	collection := g.mongo.Collection("game_sessions")
	filter := bson.M{"_id": s.ID}

	res, err := collection.ReplaceOne(ctx, filter, s)
	if err != nil {
		g.log.Errorf("failed to update game session %s: %v", s.ID, err)
		return err
	}
	if res.MatchedCount == 0 {
		return errs.ErrGameNotFound
	}

	g.cacheSession(s)
	return nil
}

// CompleteSession writes the terminal session state and the player stat
// increments in one transaction so a crash cannot leave the stats and
// the session out of step.
func (g *GameRepository) CompleteSession(ctx context.Context, s session.GameSession, result session.MatchResult) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	mongoSession, err := g.mongo.Client().StartSession()
	if err != nil {
		g.log.Errorf("failed to start mongo session: %v", err)
		return err
	}
	defer mongoSession.EndSession(ctx)

	sessions := g.mongo.Collection("game_sessions")
	users := g.mongo.Collection("users")

	_, err = mongoSession.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		res, err := sessions.ReplaceOne(sc, bson.M{"_id": s.ID}, s)
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, errs.ErrGameNotFound
		}

		if result.Draw {
			_, err = users.UpdateMany(sc,
				bson.M{"_id": bson.M{"$in": []string{s.Player1ID, s.Player2ID}}},
				bson.M{"$inc": bson.M{"statistic.draws": 1}})
			if err != nil {
				return nil, err
			}
		} else if result.WinnerID != "" {
			if _, err = users.UpdateOne(sc,
				bson.M{"_id": result.WinnerID},
				bson.M{"$inc": bson.M{"statistic.wins": 1}}); err != nil {
				return nil, err
			}
			if _, err = users.UpdateOne(sc,
				bson.M{"_id": result.LoserID},
				bson.M{"$inc": bson.M{"statistic.losses": 1}}); err != nil {
				return nil, err
			}
		}

		return nil, nil
	})
	if err != nil {
		g.log.Errorf("failed to complete game session %s: %v", s.ID, err)
		return err
	}

	g.cacheSession(s)
	return nil
}

func (g *GameRepository) HasUserActiveSession(ctx context.Context, userID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	collection := g.mongo.Collection("game_sessions")
	filter := bson.M{
		"$and": []bson.M{
			{
				"$or": []bson.M{
					{"player1_id": userID},
					{"player2_id": userID},
				},
			},
			{
				"status": bson.M{
					"$in": []string{statuses.StatusWaiting, statuses.StatusActive},
				},
			},
		},
	}

	err := collection.FindOne(ctx, filter).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	} else if err != nil {
		g.log.Error(err)
		return false, err
	}

	return true, nil
}

func (g *GameRepository) CreateRound(ctx context.Context, r session.GameRound) (session.GameRound, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	r.ID = uuid.New().String()

	_, err := g.mongo.Collection("game_rounds").InsertOne(ctx, r)
	if err != nil {
		g.log.Errorf("failed to insert round %d of session %s: %v", r.RoundNumber, r.SessionID, err)
		return session.GameRound{}, err
	}

	return r, nil
}

func (g *GameRepository) GetRound(ctx context.Context, sessionID string, roundNumber int) (session.GameRound, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	collection := g.mongo.Collection("game_rounds")
	filter := bson.M{"session_id": sessionID, "round_number": roundNumber}

	var result session.GameRound
	err := collection.FindOne(ctx, filter).Decode(&result)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return session.GameRound{}, errs.ErrRoundNotFound
	} else if err != nil {
		g.log.Error(err)
		return session.GameRound{}, err
	}

	return result, nil
}

func (g *GameRepository) UpdateRound(ctx context.Context, r session.GameRound) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	collection := g.mongo.Collection("game_rounds")
	filter := bson.M{"session_id": r.SessionID, "round_number": r.RoundNumber}

	res, err := collection.ReplaceOne(ctx, filter, r)
	if err != nil {
		g.log.Errorf("failed to update round %d of session %s: %v", r.RoundNumber, r.SessionID, err)
		return err
	}
	if res.MatchedCount == 0 {
		return errs.ErrRoundNotFound
	}
	return nil
}

// NextRoundNumber returns the number the next round of the session
// should get, starting from 1.
func (g *GameRepository) NextRoundNumber(ctx context.Context, sessionID string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	collection := g.mongo.Collection("game_rounds")
	filter := bson.M{"session_id": sessionID}
	opts := options.FindOne().SetSort(bson.D{{Key: "round_number", Value: -1}})

	var last session.GameRound
	err := collection.FindOne(ctx, filter, opts).Decode(&last)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 1, nil
	} else if err != nil {
		g.log.Error(err)
		return 0, err
	}

	return last.RoundNumber + 1, nil
}

func (g *GameRepository) ListRounds(ctx context.Context, sessionID string) ([]session.GameRound, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	collection := g.mongo.Collection("game_rounds")
	opts := options.Find().SetSort(bson.D{{Key: "round_number", Value: 1}})

	cursor, err := collection.Find(ctx, bson.M{"session_id": sessionID}, opts)
	if err != nil {
		g.log.Error(err)
		return nil, err
	}
	defer cursor.Close(ctx)

	var result []session.GameRound
	for cursor.Next(ctx) {
		var r session.GameRound
		if err = cursor.Decode(&r); err != nil {
			g.log.Error(err)
			return nil, err
		}
		result = append(result, r)
	}

	return result, nil
}

// Live session snapshots are mirrored into redis so the hot read path
// of the realtime channel does not hit mongo on every event.
func (g *GameRepository) cacheSession(s session.GameSession) {
	data, err := json.Marshal(s)
	if err != nil {
		g.log.Error(err)
		return
	}

	key := liveSessionKeyPrefix + s.ID
	if s.IsTerminal() {
		g.redis.Del(context.Background(), key)
		return
	}
	if err := g.redis.Set(context.Background(), key, data, 0).Err(); err != nil {
		g.log.Errorf("failed to cache session %s: %v", s.ID, err)
	}
}

func (g *GameRepository) loadCachedSession(id string) (session.GameSession, error) {
	data, err := g.redis.Get(context.Background(), liveSessionKeyPrefix+id).Result()
	if err != nil {
		return session.GameSession{}, err
	}

	var s session.GameSession
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return session.GameSession{}, fmt.Errorf("corrupt cached session %s: %w", id, err)
	}
	return s, nil
}
