package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/pankaj3399/time-track-sub001/config"
	"github.com/pankaj3399/time-track-sub001/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const dbTimeout = 10 * time.Second

// Connect opens a pooled client and pings the primary before returning it.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetMaxConnIdleTime(cfg.MaxConnIdleTime).
		SetRetryWrites(cfg.RetryWrites).
		SetPoolMonitor(utils.MongoPoolMonitor())

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	utils.Logger.Info().
		Uint64("max_pool_size", cfg.MaxPoolSize).
		Uint64("min_pool_size", cfg.MinPoolSize).
		Str("database", cfg.DatabaseName).
		Msg("connected to MongoDB")
	return client, nil
}

// Repositories bundles one repository per collection of a database.
type Repositories struct {
	Users    *UserRepo
	Sessions *SessionRepo
	Events   *EventRepo
	Goals    *GoalRepo
	Habits   *HabitRepo
	Settings *SettingRepo
}

func NewRepositories(db *mongo.Database, c config.Collections) *Repositories {
	return &Repositories{
		Users:    &UserRepo{MongoCollection: db.Collection(c.Users)},
		Sessions: &SessionRepo{MongoCollection: db.Collection(c.Sessions)},
		Events:   &EventRepo{MongoCollection: db.Collection(c.Events)},
		Goals:    &GoalRepo{MongoCollection: db.Collection(c.Goals)},
		Habits: &HabitRepo{
			MongoCollection: db.Collection(c.Habits),
			Completions:     db.Collection(c.Completions),
			Memos:           db.Collection(c.Memos),
		},
		Settings: &SettingRepo{MongoCollection: db.Collection(c.Settings)},
	}
}

func decodeAll[T any](ctx context.Context, cur *mongo.Cursor) ([]*T, error) {
	defer cur.Close(ctx)
	out := []*T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
