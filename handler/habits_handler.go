package handler

import (
	"github.com/pankaj3399/time-track-sub001/dto"
	"github.com/pankaj3399/time-track-sub001/usecase"
	"github.com/pankaj3399/time-track-sub001/utils"

	"github.com/gin-gonic/gin"
)

type HabitHandler struct {
	habits HabitService
}

func NewHabitHandler(habits HabitService) *HabitHandler {
	return &HabitHandler{habits: habits}
}

func (h *HabitHandler) ListHabits(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	habits, err := h.habits.ListHabits(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "list habits")
		return
	}
	utils.Success(c, habits)
}

func (h *HabitHandler) GetHabit(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	habit, err := h.habits.GetHabit(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err, "fetch habit")
		return
	}
	utils.Success(c, habit)
}

func (h *HabitHandler) CreateHabit(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req dto.HabitRequest
	if !bindJSON(c, &req) {
		return
	}
	habit := req.ToModel(userID)
	if err := h.habits.CreateHabit(c.Request.Context(), habit); err != nil {
		respondError(c, err, "create habit")
		return
	}
	utils.Created(c, habit)
}

func (h *HabitHandler) UpdateHabit(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req dto.HabitRequest
	if !bindJSON(c, &req) {
		return
	}
	habit := req.ToModel(userID)
	habit.ID = c.Param("id")
	if err := h.habits.UpdateHabit(c.Request.Context(), habit); err != nil {
		respondError(c, err, "update habit")
		return
	}
	utils.Success(c, habit)
}

func (h *HabitHandler) DeleteHabit(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	if err := h.habits.DeleteHabit(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err, "delete habit")
		return
	}
	utils.SuccessMessage(c, "Habit deleted", nil)
}

func (h *HabitHandler) LogCompletion(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	req := dto.CompletionRequest{Count: 1}
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	day, err := req.Day()
	if err != nil {
		respondError(c, err, "log completion")
		return
	}
	completion, err := h.habits.LogCompletion(c.Request.Context(), userID, c.Param("id"), day, req.Count, req.Notes)
	if err != nil {
		respondError(c, err, "log completion")
		return
	}
	utils.Created(c, completion)
}

func (h *HabitHandler) RemoveCompletion(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	day, err := utils.ParseDate(c.Param("date"))
	if err != nil {
		respondError(c, &usecase.ValidationError{Field: "date", Message: err.Error()}, "remove completion")
		return
	}
	if err := h.habits.RemoveCompletion(c.Request.Context(), userID, c.Param("id"), day); err != nil {
		respondError(c, err, "remove completion")
		return
	}
	utils.SuccessMessage(c, "Completion removed", nil)
}

func (h *HabitHandler) Streak(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	streak, err := h.habits.Streak(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err, "compute streak")
		return
	}
	utils.Success(c, streak)
}

func (h *HabitHandler) ListMemos(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	memos, err := h.habits.ListMemos(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err, "list memos")
		return
	}
	utils.Success(c, memos)
}

func (h *HabitHandler) AddMemo(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req dto.MemoRequest
	if !bindJSON(c, &req) {
		return
	}
	memo, err := req.ToModel(userID, c.Param("id"))
	if err == nil {
		err = h.habits.AddMemo(c.Request.Context(), memo)
	}
	if err != nil {
		respondError(c, err, "add memo")
		return
	}
	utils.Created(c, memo)
}

func (h *HabitHandler) UpdateMemo(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req dto.MemoRequest
	if !bindJSON(c, &req) {
		return
	}
	memo, err := req.ToModel(userID, c.Param("id"))
	if err == nil {
		memo.ID = c.Param("memoId")
		err = h.habits.UpdateMemo(c.Request.Context(), memo)
	}
	if err != nil {
		respondError(c, err, "update memo")
		return
	}
	utils.Success(c, memo)
}

func (h *HabitHandler) DeleteMemo(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	if err := h.habits.DeleteMemo(c.Request.Context(), userID, c.Param("id"), c.Param("memoId")); err != nil {
		respondError(c, err, "delete memo")
		return
	}
	utils.SuccessMessage(c, "Memo deleted", nil)
}
