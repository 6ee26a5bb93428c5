package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/teamups/api/transport"
	"github.com/fastygo/teamups/pkg/httpcontext"
	"github.com/fastygo/teamups/repository"
	notificationUC "github.com/fastygo/teamups/usecase/notification"
)

type NotificationHandler struct {
	baseHandler
	uc *notificationUC.UseCase
}

func NewNotificationHandler(uc *notificationUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List the caller's notifications
// @Tags notifications
// @Router /api/v1/notifications [get]
func (h *NotificationHandler) List(ctx *fasthttp.RequestCtx) {
	actor := h.actorID(ctx)
	if actor == "" {
		return
	}

	p := pageFromQuery(ctx)
	filter := repository.NotificationFilter{
		UserID:     actor,
		UnreadOnly: ctx.QueryArgs().GetBool("unread"),
		Limit:      p.Limit,
		Offset:     p.Offset,
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	items, err := h.uc.List(stdCtx, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewList(items, p))
}

// @Summary Mark a notification read
// @Tags notifications
// @Router /api/v1/notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(ctx *fasthttp.RequestCtx) {
	actor := h.actorID(ctx)
	if actor == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	n, err := h.uc.MarkRead(stdCtx, pathParam(ctx, "id"), actor)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, n)
}
