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

type GoalRepo struct {
	MongoCollection *mongo.Collection
}

func (r *GoalRepo) CreateGoal(ctx context.Context, goal *model.Goal) error {
	timer := utils.TrackDBOperation("insert", "goals")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if _, err := r.MongoCollection.InsertOne(ctx, goal); err != nil {
		utils.TrackError("database", "goal_creation_failed")
		return fmt.Errorf("failed to insert goal: %w", err)
	}
	return nil
}

func (r *GoalRepo) GetGoalByID(ctx context.Context, userID, goalID string) (*model.Goal, error) {
	timer := utils.TrackDBOperation("find", "goals")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var goal model.Goal
	err := r.MongoCollection.FindOne(ctx, bson.M{"_id": goalID, "user_id": userID}).Decode(&goal)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		utils.TrackError("database", "goal_lookup_error")
		return nil, err
	}
	return &goal, nil
}

func (r *GoalRepo) ListGoals(ctx context.Context, userID string) ([]*model.Goal, error) {
	timer := utils.TrackDBOperation("find", "goals")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "start_date", Value: 1}, {Key: "created_at", Value: 1}})
	cur, err := r.MongoCollection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		utils.TrackError("database", "goal_list_error")
		return nil, err
	}
	return decodeAll[model.Goal](ctx, cur)
}

func (r *GoalRepo) UpdateGoal(ctx context.Context, goal *model.Goal) (int64, error) {
	timer := utils.TrackDBOperation("update", "goals")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	result, err := r.MongoCollection.ReplaceOne(ctx, bson.M{"_id": goal.ID, "user_id": goal.UserID}, goal)
	if err != nil {
		utils.TrackError("database", "goal_update_failed")
		return 0, fmt.Errorf("failed to update goal: %w", err)
	}
	return result.MatchedCount, nil
}

func (r *GoalRepo) DeleteGoal(ctx context.Context, userID, goalID string) (int64, error) {
	timer := utils.TrackDBOperation("delete", "goals")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	result, err := r.MongoCollection.DeleteOne(ctx, bson.M{"_id": goalID, "user_id": userID})
	if err != nil {
		utils.TrackError("database", "goal_deletion_failed")
		return 0, fmt.Errorf("failed to delete goal: %w", err)
	}
	return result.DeletedCount, nil
}

// UpdateSubtaskStatus sets one embedded subtask's status in place. Zero means
// the goal or the subtask was not found.
func (r *GoalRepo) UpdateSubtaskStatus(ctx context.Context, userID, goalID, subtaskID string, status model.SubtaskStatus) (int64, error) {
	timer := utils.TrackDBOperation("update", "goals")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	result, err := r.MongoCollection.UpdateOne(ctx,
		bson.M{"_id": goalID, "user_id": userID, "subtasks.id": subtaskID},
		bson.M{"$set": bson.M{
			"subtasks.$.status": status,
			"updated_at":        time.Now().UTC(),
		}})
	if err != nil {
		utils.TrackError("database", "subtask_update_failed")
		return 0, fmt.Errorf("failed to update subtask: %w", err)
	}
	return result.MatchedCount, nil
}

func (r *GoalRepo) DeleteUserData(ctx context.Context, userID string) (int64, error) {
	return deleteByUser(ctx, r.MongoCollection, "goals", userID)
}
