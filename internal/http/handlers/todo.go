package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"todo_webapp/internal/domain"
	"todo_webapp/internal/logger"
	"todo_webapp/internal/service"
	"todo_webapp/internal/view"

	"github.com/gin-gonic/gin"
)

// TodoHandler serves the /todos REST surface.
type TodoHandler struct {
	Todos *service.TodoService
}

func NewTodoHandler(todos *service.TodoService) *TodoHandler {
	return &TodoHandler{Todos: todos}
}

// List returns todos, optionally filtered and sorted by query parameters:
// text, priority, status, ascendingPriority, ascendingDueDate.
func (h *TodoHandler) List(c *gin.Context) {
	st, err := stateFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tasks, err := h.Todos.List(c.Request.Context(), st)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// stateFromQuery builds a view state from the list query. When both sort
// parameters are given the due date one wins.
func stateFromQuery(c *gin.Context) (view.State, error) {
	st := view.NewState().WithText(c.Query("text"))

	priority, err := view.ParsePriorityFilter(c.Query("priority"))
	if err != nil {
		return st, err
	}
	st = st.WithPriority(priority)

	status, err := view.ParseStatus(c.Query("status"))
	if err != nil {
		return st, err
	}
	st = st.WithStatus(status)

	if v := c.Query("ascendingPriority"); v != "" {
		asc, err := strconv.ParseBool(v)
		if err != nil {
			return st, errors.New("ascendingPriority must be true or false")
		}
		st.Sort = view.SortPriority
		st.PriorityAscending = asc
	}
	if v := c.Query("ascendingDueDate"); v != "" {
		asc, err := strconv.ParseBool(v)
		if err != nil {
			return st, errors.New("ascendingDueDate must be true or false")
		}
		st.Sort = view.SortDueDate
		st.DueDateAscending = asc
	}
	return st, nil
}

func (h *TodoHandler) Get(c *gin.Context) {
	id, ok := todoID(c)
	if !ok {
		return
	}
	t, err := h.Todos.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TodoHandler) Create(c *gin.Context) {
	var req domain.Task
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	created, err := h.Todos.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// updateRequest is the PUT body. Absent fields are kept; "dueDate": null
// clears the due date.
type updateRequest struct {
	Text     *string         `json:"text"`
	Priority domain.Priority `json:"priority"`
	DueDate  json.RawMessage `json:"dueDate"`
}

func (r updateRequest) toUpdate() (service.TodoUpdate, error) {
	u := service.TodoUpdate{Text: r.Text, Priority: r.Priority}
	switch {
	case len(r.DueDate) == 0:
	case string(r.DueDate) == "null":
		u.ClearDueDate = true
	default:
		var due domain.Timestamp
		if err := json.Unmarshal(r.DueDate, &due); err != nil {
			return u, fmt.Errorf("%w: %v", service.ErrInvalidTodo, err)
		}
		u.DueDate = &due
	}
	return u, nil
}

func (h *TodoHandler) Update(c *gin.Context) {
	id, ok := todoID(c)
	if !ok {
		return
	}
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	u, err := req.toUpdate()
	if err != nil {
		respondError(c, err)
		return
	}

	updated, err := h.Todos.Update(c.Request.Context(), id, u)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *TodoHandler) MarkDone(c *gin.Context) {
	id, ok := todoID(c)
	if !ok {
		return
	}
	t, err := h.Todos.MarkDone(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TodoHandler) MarkNotDone(c *gin.Context) {
	id, ok := todoID(c)
	if !ok {
		return
	}
	t, err := h.Todos.MarkNotDone(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TodoHandler) Delete(c *gin.Context) {
	id, ok := todoID(c)
	if !ok {
		return
	}
	if err := h.Todos.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// todoID parses :id and answers 400 itself when it is not a positive integer.
func todoID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTodoNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "todo not found"})
	case errors.Is(err, service.ErrInvalidTodo):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.WithContext(c.Request.Context()).Error("todo request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
	}
}
