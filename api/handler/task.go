package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/teamups/api/transport"
	"github.com/fastygo/teamups/domain"
	"github.com/fastygo/teamups/pkg/httpcontext"
	taskUC "github.com/fastygo/teamups/usecase/task"
)

type TaskHandler struct {
	baseHandler
	uc *taskUC.UseCase
}

func NewTaskHandler(uc *taskUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List tasks of the caller's teams
// @Tags tasks
// @Router /api/v1/tasks [get]
func (h *TaskHandler) GetTasks(ctx *fasthttp.RequestCtx) {
	userID := h.actorID(ctx)
	if userID == "" {
		return
	}

	status := domain.TaskStatus(ctx.QueryArgs().Peek("status"))
	p := pageFromQuery(ctx)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.ListForUser(stdCtx, userID, status, p.Limit, p.Offset)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewList(tasks, p))
}

// @Summary Create task
// @Tags tasks
// @Router /api/v1/tasks [post]
func (h *TaskHandler) CreateTask(ctx *fasthttp.RequestCtx) {
	userID := h.actorID(ctx)
	if userID == "" {
		return
	}

	var req transport.TaskCreateRequest
	if !h.decode(ctx, &req) {
		return
	}
	deadline, err := time.Parse(time.RFC3339, req.Deadline)
	if err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "deadline must be RFC 3339", nil))
		return
	}

	task := &domain.Task{
		Title:       req.Title,
		Description: req.Description,
		Deadline:    deadline.UTC(),
		TeamID:      req.TeamID,
		CreatedByID: userID,
		Type:        domain.TaskType(req.Type),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.Create(stdCtx, task)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Get task
// @Tags tasks
// @Router /api/v1/tasks/{id} [get]
func (h *TaskHandler) GetTask(ctx *fasthttp.RequestCtx) {
	if h.actorID(ctx) == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.Get(stdCtx, pathParam(ctx, "id"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, task)
}

// @Summary Complete task
// @Tags tasks
// @Router /api/v1/tasks/{id}/complete [post]
func (h *TaskHandler) CompleteTask(ctx *fasthttp.RequestCtx) {
	userID := h.actorID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.MarkCompleted(stdCtx, pathParam(ctx, "id"), userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, task)
}

// @Summary Extend task deadline
// @Tags tasks
// @Router /api/v1/tasks/{id}/extend [post]
func (h *TaskHandler) ExtendDeadline(ctx *fasthttp.RequestCtx) {
	userID := h.actorID(ctx)
	if userID == "" {
		return
	}

	var req transport.ExtendDeadlineRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	deadline, err := h.uc.ExtendDeadline(stdCtx, pathParam(ctx, "id"), userID, req.Days)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{"deadline": deadline})
}
