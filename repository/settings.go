package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/pankaj3399/time-track-sub001/model"
	"github.com/pankaj3399/time-track-sub001/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SettingRepo struct {
	MongoCollection *mongo.Collection
}

func (r *SettingRepo) CreateSetting(ctx context.Context, setting *model.Setting) error {
	timer := utils.TrackDBOperation("insert", "settings")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if _, err := r.MongoCollection.InsertOne(ctx, setting); err != nil {
		utils.TrackError("database", "setting_creation_failed")
		return fmt.Errorf("failed to insert setting: %w", err)
	}
	return nil
}

func (r *SettingRepo) GetSettingByID(ctx context.Context, userID, settingID string) (*model.Setting, error) {
	timer := utils.TrackDBOperation("find", "settings")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var setting model.Setting
	err := r.MongoCollection.FindOne(ctx, bson.M{"_id": settingID, "user_id": userID}).Decode(&setting)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		utils.TrackError("database", "setting_lookup_error")
		return nil, err
	}
	return &setting, nil
}

func (r *SettingRepo) ListSettings(ctx context.Context, userID string) ([]*model.Setting, error) {
	timer := utils.TrackDBOperation("find", "settings")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := r.MongoCollection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		utils.TrackError("database", "setting_list_error")
		return nil, err
	}
	return decodeAll[model.Setting](ctx, cur)
}

func (r *SettingRepo) UpdateSetting(ctx context.Context, setting *model.Setting) (int64, error) {
	timer := utils.TrackDBOperation("update", "settings")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	result, err := r.MongoCollection.ReplaceOne(ctx, bson.M{"_id": setting.ID, "user_id": setting.UserID}, setting)
	if err != nil {
		utils.TrackError("database", "setting_update_failed")
		return 0, fmt.Errorf("failed to update setting: %w", err)
	}
	return result.MatchedCount, nil
}

func (r *SettingRepo) SetSettingEnabled(ctx context.Context, userID, settingID string, enabled bool) (int64, error) {
	timer := utils.TrackDBOperation("update", "settings")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	result, err := r.MongoCollection.UpdateOne(ctx,
		bson.M{"_id": settingID, "user_id": userID},
		bson.M{"$set": bson.M{"enabled": enabled, "updated_at": time.Now().UTC()}})
	if err != nil {
		utils.TrackError("database", "setting_update_failed")
		return 0, fmt.Errorf("failed to toggle setting: %w", err)
	}
	return result.MatchedCount, nil
}

func (r *SettingRepo) DeleteSetting(ctx context.Context, userID, settingID string) (int64, error) {
	timer := utils.TrackDBOperation("delete", "settings")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	result, err := r.MongoCollection.DeleteOne(ctx, bson.M{"_id": settingID, "user_id": userID})
	if err != nil {
		utils.TrackError("database", "setting_deletion_failed")
		return 0, fmt.Errorf("failed to delete setting: %w", err)
	}
	return result.DeletedCount, nil
}

func (r *SettingRepo) DeleteUserData(ctx context.Context, userID string) (int64, error) {
	return deleteByUser(ctx, r.MongoCollection, "settings", userID)
}
