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

type EventRepo struct {
	MongoCollection *mongo.Collection
}

func (r *EventRepo) CreateEvent(ctx context.Context, event *model.CalendarEvent) error {
	timer := utils.TrackDBOperation("insert", "events")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if _, err := r.MongoCollection.InsertOne(ctx, event); err != nil {
		utils.TrackError("database", "event_creation_failed")
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

// GetEventByID returns nil, nil when the event does not exist or belongs to
// another user.
func (r *EventRepo) GetEventByID(ctx context.Context, userID, eventID string) (*model.CalendarEvent, error) {
	timer := utils.TrackDBOperation("find", "events")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var event model.CalendarEvent
	err := r.MongoCollection.FindOne(ctx, bson.M{"_id": eventID, "user_id": userID}).Decode(&event)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		utils.TrackError("database", "event_lookup_error")
		return nil, err
	}
	return &event, nil
}

// ListEvents returns the events that can produce an occurrence in [from, to]:
// one-off events overlapping the range and series that have started by `to`
// and have not ended before `from`.
func (r *EventRepo) ListEvents(ctx context.Context, userID string, from, to time.Time) ([]*model.CalendarEvent, error) {
	timer := utils.TrackDBOperation("find", "events")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	filter := bson.M{
		"user_id": userID,
		"$or": bson.A{
			bson.M{
				"frequency": bson.M{"$in": bson.A{nil, ""}},
				"start":     bson.M{"$lte": to},
				"end":       bson.M{"$gte": from},
			},
			bson.M{
				"frequency": bson.M{"$nin": bson.A{nil, ""}},
				"start":     bson.M{"$lte": to},
				"$or": bson.A{
					bson.M{"end_recur": bson.M{"$exists": false}},
					bson.M{"end_recur": bson.M{"$gte": from}},
				},
			},
		},
	}
	opts := options.Find().SetSort(bson.D{{Key: "start", Value: 1}})

	cur, err := r.MongoCollection.Find(ctx, filter, opts)
	if err != nil {
		utils.TrackError("database", "event_list_error")
		return nil, err
	}
	return decodeAll[model.CalendarEvent](ctx, cur)
}

func (r *EventRepo) ListAllEvents(ctx context.Context, userID string) ([]*model.CalendarEvent, error) {
	timer := utils.TrackDBOperation("find", "events")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "start", Value: 1}})
	cur, err := r.MongoCollection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		utils.TrackError("database", "event_list_error")
		return nil, err
	}
	return decodeAll[model.CalendarEvent](ctx, cur)
}

// UpdateEvent replaces the stored document, keeping created_at. It returns
// the number of matched documents.
func (r *EventRepo) UpdateEvent(ctx context.Context, event *model.CalendarEvent) (int64, error) {
	timer := utils.TrackDBOperation("update", "events")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	result, err := r.MongoCollection.ReplaceOne(ctx,
		bson.M{"_id": event.ID, "user_id": event.UserID}, event)
	if err != nil {
		utils.TrackError("database", "event_update_failed")
		return 0, fmt.Errorf("failed to update event: %w", err)
	}
	return result.MatchedCount, nil
}

func (r *EventRepo) DeleteEvent(ctx context.Context, userID, eventID string) (int64, error) {
	timer := utils.TrackDBOperation("delete", "events")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	result, err := r.MongoCollection.DeleteOne(ctx, bson.M{"_id": eventID, "user_id": userID})
	if err != nil {
		utils.TrackError("database", "event_deletion_failed")
		return 0, fmt.Errorf("failed to delete event: %w", err)
	}
	return result.DeletedCount, nil
}

// SetEndRecur ends a series at endRecur without touching earlier occurrences.
func (r *EventRepo) SetEndRecur(ctx context.Context, userID, eventID string, endRecur time.Time) (int64, error) {
	timer := utils.TrackDBOperation("update", "events")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	result, err := r.MongoCollection.UpdateOne(ctx,
		bson.M{"_id": eventID, "user_id": userID},
		bson.M{"$set": bson.M{"end_recur": endRecur, "updated_at": time.Now().UTC()}})
	if err != nil {
		utils.TrackError("database", "event_update_failed")
		return 0, fmt.Errorf("failed to truncate series: %w", err)
	}
	return result.MatchedCount, nil
}

// DeleteRecurrenceGroup removes every event of the user whose recurrence
// tuple equals group's, comparing the by-fields as sets.
func (r *EventRepo) DeleteRecurrenceGroup(ctx context.Context, userID string, group *model.CalendarEvent) (int64, error) {
	timer := utils.TrackDBOperation("delete", "events")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	result, err := r.MongoCollection.DeleteMany(ctx, recurrenceGroupFilter(userID, group))
	if err != nil {
		utils.TrackError("database", "event_deletion_failed")
		return 0, fmt.Errorf("failed to delete recurrence group: %w", err)
	}
	return result.DeletedCount, nil
}

func recurrenceGroupFilter(userID string, group *model.CalendarEvent) bson.M {
	return bson.M{
		"user_id":     userID,
		"frequency":   group.Frequency,
		"interval":    group.Interval,
		"by_weekday":  setEquals(group.ByWeekday),
		"by_monthday": setEquals(group.ByMonthday),
		"by_month":    setEquals(group.ByMonth),
	}
}

// setEquals matches an array field holding exactly the members of values,
// in any order. An empty set matches missing, null and empty arrays.
func setEquals[T any](values []T) bson.M {
	if len(values) == 0 {
		return bson.M{"$in": bson.A{nil, bson.A{}}}
	}
	return bson.M{
		"$all": values,
		"$not": bson.M{"$elemMatch": bson.M{"$nin": values}},
	}
}

func (r *EventRepo) CountEvents(ctx context.Context, userID string) (total, recurring int64, err error) {
	timer := utils.TrackDBOperation("count", "events")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	total, err = r.MongoCollection.CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, 0, err
	}
	recurring, err = r.MongoCollection.CountDocuments(ctx, bson.M{
		"user_id":   userID,
		"frequency": bson.M{"$nin": bson.A{nil, ""}},
	})
	if err != nil {
		return 0, 0, err
	}
	return total, recurring, nil
}

func (r *EventRepo) DeleteUserData(ctx context.Context, userID string) (int64, error) {
	return deleteByUser(ctx, r.MongoCollection, "events", userID)
}

func deleteByUser(ctx context.Context, coll *mongo.Collection, name, userID string) (int64, error) {
	timer := utils.TrackDBOperation("delete", name)
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	result, err := coll.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		utils.TrackError("database", name+"_purge_failed")
		return 0, fmt.Errorf("failed to delete %s of user: %w", name, err)
	}
	return result.DeletedCount, nil
}
