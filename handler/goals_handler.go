package handler

import (
	"strconv"
	"time"

	"github.com/pankaj3399/time-track-sub001/dto"
	"github.com/pankaj3399/time-track-sub001/usecase"
	"github.com/pankaj3399/time-track-sub001/utils"

	"github.com/gin-gonic/gin"
)

const defaultTimelineDays = 30

type GoalHandler struct {
	goals GoalService
	now   func() time.Time
}

func NewGoalHandler(goals GoalService) *GoalHandler {
	return &GoalHandler{goals: goals, now: time.Now}
}

func (h *GoalHandler) ListGoals(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	goals, err := h.goals.ListGoals(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "list goals")
		return
	}
	utils.Success(c, dto.ToGoalResponses(goals, h.now()))
}

func (h *GoalHandler) GetGoal(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	goal, err := h.goals.GetGoal(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err, "fetch goal")
		return
	}
	utils.Success(c, dto.ToGoalResponse(goal, h.now()))
}

// Timeline lays goals out over ?start (default today) and ?days (default 30).
func (h *GoalHandler) Timeline(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	start, err := parseTimeParam(c, "start", h.now())
	if err != nil {
		respondError(c, err, "build timeline")
		return
	}
	days := defaultTimelineDays
	if raw := c.Query("days"); raw != "" {
		if days, err = strconv.Atoi(raw); err != nil {
			utils.BadRequest(c, "days must be a whole number")
			return
		}
	}

	w := usecase.Window{Start: utils.DateOf(start), Days: days}
	items, err := h.goals.Timeline(c.Request.Context(), userID, w)
	if err != nil {
		respondError(c, err, "build timeline")
		return
	}
	utils.Success(c, gin.H{
		"start": utils.FormatDate(w.Start),
		"end":   utils.FormatDate(w.End()),
		"days":  w.Days,
		"items": items,
	})
}

func (h *GoalHandler) Board(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	columns, err := h.goals.Board(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err, "build board")
		return
	}
	utils.Success(c, columns)
}

func (h *GoalHandler) CreateGoal(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req dto.GoalRequest
	if !bindJSON(c, &req) {
		return
	}
	goal, err := req.ToModel(userID)
	if err == nil {
		err = h.goals.CreateGoal(c.Request.Context(), goal)
	}
	if err != nil {
		respondError(c, err, "create goal")
		return
	}
	utils.Created(c, dto.ToGoalResponse(goal, h.now()))
}

func (h *GoalHandler) UpdateGoal(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req dto.GoalRequest
	if !bindJSON(c, &req) {
		return
	}
	goal, err := req.ToModel(userID)
	if err == nil {
		goal.ID = c.Param("id")
		err = h.goals.UpdateGoal(c.Request.Context(), goal)
	}
	if err != nil {
		respondError(c, err, "update goal")
		return
	}
	utils.Success(c, dto.ToGoalResponse(goal, h.now()))
}

func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	if err := h.goals.DeleteGoal(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err, "delete goal")
		return
	}
	utils.SuccessMessage(c, "Goal deleted", nil)
}

func (h *GoalHandler) UpdateSubtaskStatus(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req dto.SubtaskStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	err := h.goals.UpdateSubtaskStatus(c.Request.Context(), userID, c.Param("id"), c.Param("subtaskId"), req.Status)
	if err != nil {
		respondError(c, err, "update subtask")
		return
	}
	utils.SuccessMessage(c, "Subtask updated", gin.H{"subtask_id": c.Param("subtaskId"), "status": req.Status})
}

// BulkUpdateSubtaskStatus saves every change; the batch only succeeds when
// all of them do.
func (h *GoalHandler) BulkUpdateSubtaskStatus(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req dto.BulkSubtaskStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.goals.BulkUpdateSubtaskStatus(c.Request.Context(), userID, c.Param("id"), req.Changes)
	if err != nil {
		respondError(c, err, "update subtasks")
		return
	}
	utils.SuccessMessage(c, "Subtasks updated", result)
}
