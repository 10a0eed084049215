package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/pankaj3399/time-track-sub001/config"
	"github.com/pankaj3399/time-track-sub001/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionIndexes lists the indexes SetupIndexes creates, keyed by
// collection name.
func CollectionIndexes(c config.Collections) map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		c.Users: {
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}},
				Options: options.Index().SetName("user_id_unique").SetUnique(true),
			},
			{
				Keys:    bson.D{{Key: "username", Value: 1}},
				Options: options.Index().SetName("username_unique").SetUnique(true),
			},
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetName("email_unique").SetUnique(true),
			},
		},
		c.Sessions: {
			{
				Keys:    bson.D{{Key: "session_id", Value: 1}},
				Options: options.Index().SetName("session_id_unique").SetUnique(true),
			},
			{
				Keys: bson.D{
					{Key: "user_id", Value: 1},
					{Key: "is_active", Value: 1},
					{Key: "last_activity_at", Value: 1},
				},
				Options: options.Index().SetName("user_active_sessions"),
			},
		},
		c.Events: {
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "start", Value: 1}},
				Options: options.Index().SetName("user_events_start"),
			},
			{
				Keys: bson.D{
					{Key: "user_id", Value: 1},
					{Key: "frequency", Value: 1},
					{Key: "interval", Value: 1},
				},
				Options: options.Index().SetName("user_recurrence_group"),
			},
		},
		c.Goals: {
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "start_date", Value: 1}},
				Options: options.Index().SetName("user_goals_start"),
			},
		},
		c.Habits: {
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: 1}},
				Options: options.Index().SetName("user_habits_date"),
			},
		},
		c.Completions: {
			{
				Keys: bson.D{
					{Key: "habit_id", Value: 1},
					{Key: "user_id", Value: 1},
					{Key: "date", Value: 1},
				},
				Options: options.Index().SetName("habit_day_unique").SetUnique(true),
			},
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: -1}},
				Options: options.Index().SetName("user_completions_date"),
			},
		},
		c.Memos: {
			{
				Keys: bson.D{
					{Key: "habit_id", Value: 1},
					{Key: "user_id", Value: 1},
					{Key: "date", Value: -1},
				},
				Options: options.Index().SetName("habit_memos_date"),
			},
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "tags", Value: 1}},
				Options: options.Index().SetName("user_memo_tags"),
			},
		},
		c.Settings: {
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "type", Value: 1}},
				Options: options.Index().SetName("user_settings_type"),
			},
		},
	}
}

func SetupIndexes(ctx context.Context, db *mongo.Database, c config.Collections) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	for name, indexes := range CollectionIndexes(c) {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", name, err)
		}
	}

	utils.Logger.Info().Str("database", db.Name()).Msg("successfully created all indexes")
	return nil
}
