package usecase

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/pankaj3399/time-track-sub001/model"
	"github.com/pankaj3399/time-track-sub001/utils"

	"golang.org/x/sync/errgroup"
)

// GoalStore persists goals with their embedded resources and subtasks.
// GetGoalByID returns nil, nil when no row matches.
type GoalStore interface {
	CreateGoal(ctx context.Context, goal *model.Goal) error
	GetGoalByID(ctx context.Context, userID, goalID string) (*model.Goal, error)
	ListGoals(ctx context.Context, userID string) ([]*model.Goal, error)
	UpdateGoal(ctx context.Context, goal *model.Goal) (int64, error)
	DeleteGoal(ctx context.Context, userID, goalID string) (int64, error)
	UpdateSubtaskStatus(ctx context.Context, userID, goalID, subtaskID string, status model.SubtaskStatus) (int64, error)
}

// bulkConcurrency bounds in-flight subtask writes for one bulk save.
const bulkConcurrency = 8

type GoalService struct {
	store GoalStore
	now   func() time.Time
}

func NewGoalService(store GoalStore) *GoalService {
	return &GoalService{store: store, now: time.Now}
}

func (svc *GoalService) CreateGoal(ctx context.Context, goal *model.Goal) error {
	if goal.UserID == "" {
		return ErrUserIDRequired
	}
	if err := normalizeGoal(goal); err != nil {
		return err
	}

	now := svc.now().UTC()
	goal.ID = utils.NewID()
	goal.CreatedAt = now
	goal.UpdatedAt = now
	return svc.store.CreateGoal(ctx, goal)
}

func (svc *GoalService) GetGoal(ctx context.Context, userID, goalID string) (*model.Goal, error) {
	goal, err := svc.store.GetGoalByID(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}
	if goal == nil {
		return nil, ErrGoalNotFound
	}
	return goal, nil
}

func (svc *GoalService) ListGoals(ctx context.Context, userID string) ([]*model.Goal, error) {
	goals, err := svc.store.ListGoals(ctx, userID)
	if err != nil {
		return nil, err
	}
	if goals == nil {
		goals = []*model.Goal{}
	}
	return goals, nil
}

func (svc *GoalService) UpdateGoal(ctx context.Context, goal *model.Goal) error {
	existing, err := svc.GetGoal(ctx, goal.UserID, goal.ID)
	if err != nil {
		return err
	}
	if err := normalizeGoal(goal); err != nil {
		return err
	}

	goal.CreatedAt = existing.CreatedAt
	goal.UpdatedAt = svc.now().UTC()
	matched, err := svc.store.UpdateGoal(ctx, goal)
	if err != nil {
		return err
	}
	if matched == 0 {
		return ErrGoalNotFound
	}
	return nil
}

// DeleteGoal removes the goal together with its resources and subtasks.
func (svc *GoalService) DeleteGoal(ctx context.Context, userID, goalID string) error {
	n, err := svc.store.DeleteGoal(ctx, userID, goalID)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrGoalNotFound
	}
	return nil
}

func (svc *GoalService) UpdateSubtaskStatus(ctx context.Context, userID, goalID, subtaskID string, status model.SubtaskStatus) error {
	if !status.Valid() {
		return invalid("status", "must be one of Backlog, In Progress, In Review, Done")
	}
	n, err := svc.store.UpdateSubtaskStatus(ctx, userID, goalID, subtaskID, status)
	if err != nil {
		return err
	}
	if n == 0 {
		// tell a missing goal apart from a missing subtask
		if _, err := svc.GetGoal(ctx, userID, goalID); err != nil {
			return err
		}
		return ErrSubtaskNotFound
	}
	utils.TrackSubtaskUpdate(string(status))
	return nil
}

type SubtaskStatusChange struct {
	SubtaskID string              `json:"subtask_id" binding:"required"`
	Status    model.SubtaskStatus `json:"status" binding:"required,subtaskstatus"`
}

type SubtaskFailure struct {
	SubtaskID string `json:"subtask_id"`
	Error     string `json:"error"`
}

type BulkStatusResult struct {
	Updated []string         `json:"updated"`
	Failed  []SubtaskFailure `json:"failed"`
}

// BulkUpdateError is returned when at least one change in a bulk save failed.
// Changes that succeeded stay applied.
type BulkUpdateError struct {
	Result *BulkStatusResult
}

func (e *BulkUpdateError) Error() string {
	return fmt.Sprintf("%d of %d subtask updates failed",
		len(e.Result.Failed), len(e.Result.Failed)+len(e.Result.Updated))
}

// BulkUpdateSubtaskStatus issues every change concurrently and waits for all
// of them. There is no rollback: the batch succeeds only if every change did.
func (svc *GoalService) BulkUpdateSubtaskStatus(ctx context.Context, userID, goalID string, changes []SubtaskStatusChange) (*BulkStatusResult, error) {
	if len(changes) == 0 {
		return nil, invalid("changes", "at least one change is required")
	}
	goal, err := svc.GetGoal(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}
	for _, ch := range changes {
		if !ch.Status.Valid() {
			return nil, invalid("status", "invalid status %q for subtask %s", ch.Status, ch.SubtaskID)
		}
		if goal.FindSubtask(ch.SubtaskID) == nil {
			return nil, invalid("subtask_id", "unknown subtask %s", ch.SubtaskID)
		}
	}

	var (
		mu     sync.Mutex
		result = &BulkStatusResult{Updated: []string{}, Failed: []SubtaskFailure{}}
		g      errgroup.Group
	)
	g.SetLimit(bulkConcurrency)
	for _, ch := range changes {
		ch := ch
		g.Go(func() error {
			n, err := svc.store.UpdateSubtaskStatus(ctx, userID, goalID, ch.SubtaskID, ch.Status)
			if err == nil && n == 0 {
				err = ErrSubtaskNotFound
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed = append(result.Failed, SubtaskFailure{SubtaskID: ch.SubtaskID, Error: err.Error()})
				return err
			}
			result.Updated = append(result.Updated, ch.SubtaskID)
			utils.TrackSubtaskUpdate(string(ch.Status))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		utils.Logger.Warn().Err(err).
			Str("goal_id", goalID).
			Int("failed", len(result.Failed)).
			Int("updated", len(result.Updated)).
			Msg("bulk subtask update partially failed")
		return result, &BulkUpdateError{Result: result}
	}
	return result, nil
}

// Timeline lays out the user's goals visible in the window.
func (svc *GoalService) Timeline(ctx context.Context, userID string, w Window) ([]TimelineItem, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	goals, err := svc.store.ListGoals(ctx, userID)
	if err != nil {
		return nil, err
	}
	return BuildTimeline(goals, w), nil
}

func (svc *GoalService) Board(ctx context.Context, userID, goalID string) ([]BoardColumn, error) {
	goal, err := svc.GetGoal(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}
	return Board(goal), nil
}

func normalizeGoal(g *model.Goal) error {
	g.Title = strings.TrimSpace(g.Title)
	if g.Title == "" {
		return invalid("title", "is required")
	}
	if g.StartDate.IsZero() {
		return invalid("start_date", "is required")
	}
	if g.DueDate.IsZero() {
		return invalid("due_date", "is required")
	}
	g.StartDate = utils.DateOf(g.StartDate)
	g.DueDate = utils.DateOf(g.DueDate)
	if g.DueDate.Before(g.StartDate) {
		return invalid("due_date", "must not be before start_date")
	}

	resources := make([]model.Resource, 0, len(g.Resources))
	for _, r := range g.Resources {
		r.Label = strings.TrimSpace(r.Label)
		r.URL = strings.TrimSpace(r.URL)
		if r.URL == "" {
			continue
		}
		if !isWebURL(r.URL) {
			return invalid("resources", "%q is not an absolute http(s) URL", r.URL)
		}
		if r.Label == "" {
			r.Label = r.URL
		}
		resources = append(resources, r)
	}
	g.Resources = resources

	seen := make(map[string]struct{}, len(g.Subtasks))
	subtasks := make([]model.Subtask, 0, len(g.Subtasks))
	for _, st := range g.Subtasks {
		st.Title = strings.TrimSpace(st.Title)
		if st.Title == "" {
			return invalid("subtasks", "subtask title is required")
		}
		if st.Status == "" {
			st.Status = model.StatusBacklog
		}
		if !st.Status.Valid() {
			return invalid("subtasks", "invalid status %q", st.Status)
		}
		if _, dup := seen[st.ID]; st.ID == "" || dup {
			st.ID = utils.NewID()
		}
		seen[st.ID] = struct{}{}
		subtasks = append(subtasks, st)
	}
	g.Subtasks = subtasks
	return nil
}

func isWebURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
