package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/teamups/api/transport"
	"github.com/fastygo/teamups/domain"
	"github.com/fastygo/teamups/pkg/httpcontext"
	userUC "github.com/fastygo/teamups/usecase/user"
)

type UserHandler struct {
	baseHandler
	uc *userUC.UseCase
}

func NewUserHandler(uc *userUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Register a user
// @Tags users
// @Router /api/v1/users [post]
func (h *UserHandler) SignUp(ctx *fasthttp.RequestCtx) {
	var req transport.SignUpRequest
	if !h.decode(ctx, &req) {
		return
	}

	u := &domain.User{
		Username: req.Username,
		Email:    req.Email,
		Skills:   req.Skills,
		Location: req.Location,
	}
	if req.Role != "" {
		u.Role, _ = domain.ParseRole(req.Role)
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.SignUp(stdCtx, u)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Get a user
// @Tags users
// @Router /api/v1/users/{id} [get]
func (h *UserHandler) Get(ctx *fasthttp.RequestCtx) {
	if h.actorID(ctx) == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	u, err := h.uc.Get(stdCtx, pathParam(ctx, "id"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{
		"user":     u,
		"location": u.DisplayLocation(),
	})
}

// @Summary Toggle the caller's availability
// @Tags users
// @Router /api/v1/users/me/availability [put]
func (h *UserHandler) SetAvailability(ctx *fasthttp.RequestCtx) {
	actor := h.actorID(ctx)
	if actor == "" {
		return
	}

	var req transport.AvailabilityRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	u, err := h.uc.SetAvailability(stdCtx, actor, *req.Available)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, u)
}

// @Summary Rate a teammate
// @Tags users
// @Router /api/v1/users/{id}/ratings [post]
func (h *UserHandler) Rate(ctx *fasthttp.RequestCtx) {
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

	u, err := h.uc.Rate(stdCtx, pathParam(ctx, "id"), actor, req.Rating)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, u)
}
