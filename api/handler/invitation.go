package handler

import (
	"context"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/teamups/domain"
	"github.com/fastygo/teamups/pkg/httpcontext"
	invitationUC "github.com/fastygo/teamups/usecase/invitation"
)

type InvitationHandler struct {
	baseHandler
	uc *invitationUC.UseCase
}

func NewInvitationHandler(uc *invitationUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *InvitationHandler {
	return &InvitationHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List the caller's pending invitations
// @Tags invitations
// @Router /api/v1/invitations [get]
func (h *InvitationHandler) ListPending(ctx *fasthttp.RequestCtx) {
	actor := h.actorID(ctx)
	if actor == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	invs, err := h.uc.ListPending(stdCtx, actor)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, invs)
}

// @Summary Accept an invitation
// @Tags invitations
// @Router /api/v1/invitations/{id}/accept [post]
func (h *InvitationHandler) Accept(ctx *fasthttp.RequestCtx) {
	h.resolve(ctx, h.uc.Accept)
}

// @Summary Decline an invitation
// @Tags invitations
// @Router /api/v1/invitations/{id}/decline [post]
func (h *InvitationHandler) Decline(ctx *fasthttp.RequestCtx) {
	h.resolve(ctx, h.uc.Decline)
}

func (h *InvitationHandler) resolve(ctx *fasthttp.RequestCtx, fn func(context.Context, string, string) (*domain.Invitation, error)) {
	actor := h.actorID(ctx)
	if actor == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	inv, err := fn(stdCtx, pathParam(ctx, "id"), actor)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, inv)
}
