package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/teamups/api/transport"
	"github.com/fastygo/teamups/pkg/httpcontext"
	invitationUC "github.com/fastygo/teamups/usecase/invitation"
	teamUC "github.com/fastygo/teamups/usecase/team"
)

type TeamHandler struct {
	baseHandler
	uc          *teamUC.UseCase
	invitations *invitationUC.UseCase
}

func NewTeamHandler(uc *teamUC.UseCase, invitations *invitationUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TeamHandler {
	return &TeamHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		invitations: invitations,
	}
}

// @Summary Create a team led by the caller
// @Tags teams
// @Router /api/v1/teams [post]
func (h *TeamHandler) Create(ctx *fasthttp.RequestCtx) {
	actor := h.actorID(ctx)
	if actor == "" {
		return
	}

	var req transport.TeamCreateRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	team, err := h.uc.Create(stdCtx, actor, req.Name, req.MaxMembers)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, team)
}

// @Summary List the caller's teams
// @Tags teams
// @Router /api/v1/teams [get]
func (h *TeamHandler) List(ctx *fasthttp.RequestCtx) {
	actor := h.actorID(ctx)
	if actor == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	teams, err := h.uc.ListForUser(stdCtx, actor)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, teams)
}

// @Summary Get a team
// @Tags teams
// @Router /api/v1/teams/{id} [get]
func (h *TeamHandler) Get(ctx *fasthttp.RequestCtx) {
	if h.actorID(ctx) == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	team, err := h.uc.Get(stdCtx, pathParam(ctx, "id"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, team)
}

// @Summary Delete a team
// @Tags teams
// @Router /api/v1/teams/{id} [delete]
func (h *TeamHandler) Delete(ctx *fasthttp.RequestCtx) {
	actor := h.actorID(ctx)
	if actor == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Delete(stdCtx, pathParam(ctx, "id"), actor); err != nil {
		h.respondError(ctx, err)
		return
	}
	ctx.SetStatusCode(http.StatusNoContent)
}

// @Summary Add a member directly
// @Tags teams
// @Router /api/v1/teams/{id}/members [post]
func (h *TeamHandler) AddMember(ctx *fasthttp.RequestCtx) {
	actor := h.actorID(ctx)
	if actor == "" {
		return
	}

	var req transport.MemberRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	team, err := h.uc.AddMember(stdCtx, pathParam(ctx, "id"), req.UserID, actor)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, team)
}

// @Summary Remove a member
// @Tags teams
// @Router /api/v1/teams/{id}/members/{userID} [delete]
func (h *TeamHandler) RemoveMember(ctx *fasthttp.RequestCtx) {
	actor := h.actorID(ctx)
	if actor == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	team, err := h.uc.RemoveMember(stdCtx, pathParam(ctx, "id"), pathParam(ctx, "userID"), actor)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, team)
}

// @Summary Rate a team's teamwork
// @Tags teams
// @Router /api/v1/teams/{id}/ratings [post]
func (h *TeamHandler) Rate(ctx *fasthttp.RequestCtx) {
	actor := h.actorID(ctx)
	if actor == "" {
		return
	}

	var req transport.RatingRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	team, err := h.uc.Rate(stdCtx, pathParam(ctx, "id"), actor, req.Rating)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, team)
}

// @Summary Invite a user to the team
// @Tags teams
// @Router /api/v1/teams/{id}/invitations [post]
func (h *TeamHandler) Invite(ctx *fasthttp.RequestCtx) {
	actor := h.actorID(ctx)
	if actor == "" {
		return
	}

	var req transport.InviteRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	inv, err := h.invitations.Send(stdCtx, pathParam(ctx, "id"), req.UserID, actor)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, inv)
}
