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

// HabitRepo stores habits in MongoCollection and their completions and memos
// in two side collections keyed by habit_id.
type HabitRepo struct {
	MongoCollection *mongo.Collection
	Completions     *mongo.Collection
	Memos           *mongo.Collection
}

func (r *HabitRepo) CreateHabit(ctx context.Context, habit *model.Habit) error {
	timer := utils.TrackDBOperation("insert", "habits")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if _, err := r.MongoCollection.InsertOne(ctx, habit); err != nil {
		utils.TrackError("database", "habit_creation_failed")
		return fmt.Errorf("failed to insert habit: %w", err)
	}
	return nil
}

func (r *HabitRepo) GetHabitByID(ctx context.Context, userID, habitID string) (*model.Habit, error) {
	timer := utils.TrackDBOperation("find", "habits")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var habit model.Habit
	err := r.MongoCollection.FindOne(ctx, bson.M{"_id": habitID, "user_id": userID}).Decode(&habit)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		utils.TrackError("database", "habit_lookup_error")
		return nil, err
	}
	return &habit, nil
}

func (r *HabitRepo) ListHabits(ctx context.Context, userID string) ([]*model.Habit, error) {
	timer := utils.TrackDBOperation("find", "habits")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := r.MongoCollection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		utils.TrackError("database", "habit_list_error")
		return nil, err
	}
	return decodeAll[model.Habit](ctx, cur)
}

func (r *HabitRepo) UpdateHabit(ctx context.Context, habit *model.Habit) (int64, error) {
	timer := utils.TrackDBOperation("update", "habits")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	result, err := r.MongoCollection.ReplaceOne(ctx, bson.M{"_id": habit.ID, "user_id": habit.UserID}, habit)
	if err != nil {
		utils.TrackError("database", "habit_update_failed")
		return 0, fmt.Errorf("failed to update habit: %w", err)
	}
	return result.MatchedCount, nil
}

// DeleteHabit removes the habit, then its completions and memos.
func (r *HabitRepo) DeleteHabit(ctx context.Context, userID, habitID string) (int64, error) {
	timer := utils.TrackDBOperation("delete", "habits")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	result, err := r.MongoCollection.DeleteOne(ctx, bson.M{"_id": habitID, "user_id": userID})
	if err != nil {
		utils.TrackError("database", "habit_deletion_failed")
		return 0, fmt.Errorf("failed to delete habit: %w", err)
	}
	if result.DeletedCount == 0 {
		return 0, nil
	}

	children := bson.M{"habit_id": habitID, "user_id": userID}
	if _, err := r.Completions.DeleteMany(ctx, children); err != nil {
		utils.TrackError("database", "completion_deletion_failed")
		return result.DeletedCount, fmt.Errorf("failed to delete habit completions: %w", err)
	}
	if _, err := r.Memos.DeleteMany(ctx, children); err != nil {
		utils.TrackError("database", "memo_deletion_failed")
		return result.DeletedCount, fmt.Errorf("failed to delete habit memos: %w", err)
	}
	return result.DeletedCount, nil
}

// UpsertCompletion keeps one completion document per habit and day.
func (r *HabitRepo) UpsertCompletion(ctx context.Context, completion *model.HabitCompletion) error {
	timer := utils.TrackDBOperation("upsert", "habit_completions")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	filter := bson.M{
		"habit_id": completion.HabitID,
		"user_id":  completion.UserID,
		"date":     completion.Date,
	}
	update := bson.M{
		"$set":         bson.M{"count": completion.Count, "notes": completion.Notes},
		"$setOnInsert": bson.M{"_id": completion.ID},
	}

	var stored model.HabitCompletion
	err := r.Completions.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)).Decode(&stored)
	if err != nil {
		utils.TrackError("database", "completion_upsert_failed")
		return fmt.Errorf("failed to record completion: %w", err)
	}
	completion.ID = stored.ID
	return nil
}

func (r *HabitRepo) DeleteCompletion(ctx context.Context, userID, habitID string, date time.Time) (int64, error) {
	timer := utils.TrackDBOperation("delete", "habit_completions")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	result, err := r.Completions.DeleteOne(ctx, bson.M{"habit_id": habitID, "user_id": userID, "date": date})
	if err != nil {
		utils.TrackError("database", "completion_deletion_failed")
		return 0, fmt.Errorf("failed to delete completion: %w", err)
	}
	return result.DeletedCount, nil
}

func (r *HabitRepo) ListCompletions(ctx context.Context, userID, habitID string) ([]*model.HabitCompletion, error) {
	timer := utils.TrackDBOperation("find", "habit_completions")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cur, err := r.Completions.Find(ctx, bson.M{"habit_id": habitID, "user_id": userID}, opts)
	if err != nil {
		utils.TrackError("database", "completion_list_error")
		return nil, err
	}
	return decodeAll[model.HabitCompletion](ctx, cur)
}

// CountCompletionsSince sums completion counts across all of the user's
// habits from since onwards.
func (r *HabitRepo) CountCompletionsSince(ctx context.Context, userID string, since time.Time) (int64, error) {
	timer := utils.TrackDBOperation("aggregate", "habit_completions")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user_id": userID, "date": bson.M{"$gte": since}}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$count"}}}},
	}
	cur, err := r.Completions.Aggregate(ctx, pipeline)
	if err != nil {
		utils.TrackError("database", "completion_count_error")
		return 0, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		Total int64 `bson:"total"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

func (r *HabitRepo) CreateMemo(ctx context.Context, memo *model.HabitMemo) error {
	timer := utils.TrackDBOperation("insert", "habit_memos")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if _, err := r.Memos.InsertOne(ctx, memo); err != nil {
		utils.TrackError("database", "memo_creation_failed")
		return fmt.Errorf("failed to insert memo: %w", err)
	}
	return nil
}

func (r *HabitRepo) ListMemos(ctx context.Context, userID, habitID string) ([]*model.HabitMemo, error) {
	timer := utils.TrackDBOperation("find", "habit_memos")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "created_at", Value: -1}})
	cur, err := r.Memos.Find(ctx, bson.M{"habit_id": habitID, "user_id": userID}, opts)
	if err != nil {
		utils.TrackError("database", "memo_list_error")
		return nil, err
	}
	return decodeAll[model.HabitMemo](ctx, cur)
}

func (r *HabitRepo) UpdateMemo(ctx context.Context, memo *model.HabitMemo) (int64, error) {
	timer := utils.TrackDBOperation("update", "habit_memos")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	result, err := r.Memos.UpdateOne(ctx,
		bson.M{"_id": memo.ID, "habit_id": memo.HabitID, "user_id": memo.UserID},
		bson.M{"$set": bson.M{
			"content":    memo.Content,
			"date":       memo.Date,
			"tags":       memo.Tags,
			"updated_at": memo.UpdatedAt,
		}})
	if err != nil {
		utils.TrackError("database", "memo_update_failed")
		return 0, fmt.Errorf("failed to update memo: %w", err)
	}
	return result.MatchedCount, nil
}

func (r *HabitRepo) DeleteMemo(ctx context.Context, userID, habitID, memoID string) (int64, error) {
	timer := utils.TrackDBOperation("delete", "habit_memos")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	result, err := r.Memos.DeleteOne(ctx, bson.M{"_id": memoID, "habit_id": habitID, "user_id": userID})
	if err != nil {
		utils.TrackError("database", "memo_deletion_failed")
		return 0, fmt.Errorf("failed to delete memo: %w", err)
	}
	return result.DeletedCount, nil
}

// DeleteUserData removes the user's habits with their completions and memos.
func (r *HabitRepo) DeleteUserData(ctx context.Context, userID string) (int64, error) {
	var total int64
	for _, c := range []struct {
		coll *mongo.Collection
		name string
	}{
		{r.Completions, "habit_completions"},
		{r.Memos, "habit_memos"},
		{r.MongoCollection, "habits"},
	} {
		n, err := deleteByUser(ctx, c.coll, c.name, userID)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}
