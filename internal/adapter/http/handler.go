package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"petkeeper/internal/app/botctl"
	"petkeeper/internal/app/delegation"
	"petkeeper/internal/app/history"
	"petkeeper/internal/app/petcycle"
	"petkeeper/internal/app/ports"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

type Handler struct {
	Bot        botctl.UseCase
	Delegation delegation.UseCase
	History    history.UseCase
	Cycle      *petcycle.Orchestrator
	Secret     string
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware())

	s.GET("/health", h.health)

	bot := s.Group("/api/bot")
	bot.GET("/status", h.status)
	bot.POST("/start", h.start)
	bot.POST("/stop", h.stop)
	bot.POST("/trigger", h.trigger)
	bot.GET("/config", h.config)
	bot.GET("/frequency", h.frequencyGet)
	bot.POST("/frequency", h.frequencySet)
	bot.GET("/logs", h.workerLogs)

	tx := s.Group("/api/transactions")
	tx.GET("", h.transactions)
	tx.POST("/clear", h.clearTransactions)
	tx.GET("/:hash", h.transactionByHash)

	errs := s.Group("/api/errors")
	errs.GET("", h.errors)
	errs.POST("/clear", h.clearErrors)

	del := s.Group("/api/delegation")
	del.POST("/register", h.register)
	del.POST("/unregister", h.unregister)
	del.GET("/owners", h.owners)
	del.GET("/registered", h.registered)
	del.POST("/clear-all", h.clearAllOwners)

	s.GET("/api/delegated-owners", h.delegatedOwners)
	s.GET("/api/stats", h.stats)
}

func (h Handler) health(_ context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": nowMilli(),
	})
}

func (h Handler) status(c context.Context, ctx *app.RequestContext) {
	if err := h.requireSecret(ctx); err != nil {
		writeError(ctx, err)
		return
	}
	state, err := h.Bot.Status(c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, state)
}

func (h Handler) start(c context.Context, ctx *app.RequestContext) {
	if err := h.requireSecret(ctx); err != nil {
		writeError(ctx, err)
		return
	}
	if _, err := h.Bot.Start(c); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"success": true, "running": true})
}

func (h Handler) stop(c context.Context, ctx *app.RequestContext) {
	if err := h.requireSecret(ctx); err != nil {
		writeError(ctx, err)
		return
	}
	if _, err := h.Bot.Stop(c); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"success": true, "running": false})
}

type triggerRequest struct {
	Force *bool `json:"force"`
}

func (h Handler) trigger(c context.Context, ctx *app.RequestContext) {
	if err := h.requireSecret(ctx); err != nil {
		writeError(ctx, err)
		return
	}
	var body triggerRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	// Manual triggers default to forced; pass {"force": false} to respect
	// the cooldown evaluation.
	force := body.Force == nil || *body.Force
	res, err := h.Cycle.Trigger(c, force)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"success": true, "result": res})
}

func (h Handler) config(c context.Context, ctx *app.RequestContext) {
	if err := h.requireSecret(ctx); err != nil {
		writeError(ctx, err)
		return
	}
	cfg, err := h.Bot.Config(c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, cfg)
}

func (h Handler) frequencyGet(c context.Context, ctx *app.RequestContext) {
	if err := h.requireSecret(ctx); err != nil {
		writeError(ctx, err)
		return
	}
	hours, err := h.Bot.Frequency(c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"pettingIntervalHours": hours})
}

type frequencyRequest struct {
	PettingIntervalHours *float64 `json:"pettingIntervalHours"`
}

func (h Handler) frequencySet(c context.Context, ctx *app.RequestContext) {
	if err := h.requireSecret(ctx); err != nil {
		writeError(ctx, err)
		return
	}
	var body frequencyRequest
	if err := decodeJSON(ctx, &body); err != nil || body.PettingIntervalHours == nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "pettingIntervalHours is required")
		return
	}
	if err := h.Bot.SetFrequency(c, *body.PettingIntervalHours); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{
		"pettingIntervalHours": *body.PettingIntervalHours,
		"ok":                   true,
	})
}

func (h Handler) workerLogs(c context.Context, ctx *app.RequestContext) {
	if err := h.requireSecret(ctx); err != nil {
		writeError(ctx, err)
		return
	}
	logs, err := h.History.WorkerLogs(c, queryLimit(ctx))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"logs": logs})
}

func (h Handler) stats(c context.Context, ctx *app.RequestContext) {
	if err := h.requireSecret(ctx); err != nil {
		writeError(ctx, err)
		return
	}
	stats, err := h.History.Stats(c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, stats)
}

func (h Handler) transactions(c context.Context, ctx *app.RequestContext) {
	if err := h.requireSecret(ctx); err != nil {
		writeError(ctx, err)
		return
	}
	entries, err := h.History.Executions(c, queryLimit(ctx))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, entries)
}

func (h Handler) transactionByHash(c context.Context, ctx *app.RequestContext) {
	if err := h.requireSecret(ctx); err != nil {
		writeError(ctx, err)
		return
	}
	tx, err := h.History.ByHash(c, ctx.Param("hash"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, tx)
}

func (h Handler) clearTransactions(c context.Context, ctx *app.RequestContext) {
	if err := h.requireSecret(ctx); err != nil {
		writeError(ctx, err)
		return
	}
	if err := h.History.ClearExecutions(c); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"success": true})
}

func (h Handler) errors(c context.Context, ctx *app.RequestContext) {
	if err := h.requireSecret(ctx); err != nil {
		writeError(ctx, err)
		return
	}
	errsList, err := h.History.Errors(c, queryLimit(ctx))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, errsList)
}

func (h Handler) clearErrors(c context.Context, ctx *app.RequestContext) {
	if err := h.requireSecret(ctx); err != nil {
		writeError(ctx, err)
		return
	}
	if err := h.History.ClearErrors(c); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"success": true})
}

// register is gated by the owner's own session cookie, not the API secret:
// an owner may only register the address their session carries.
func (h Handler) register(c context.Context, ctx *app.RequestContext) {
	owner, err := ownerFromSession(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	if err := h.Delegation.Register(c, owner); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{
		"success": true,
		"message": "Registered for auto-petting.",
	})
}

type ownerRequest struct {
	OwnerAddress string `json:"ownerAddress"`
}

func (h Handler) unregister(c context.Context, ctx *app.RequestContext) {
	if err := h.requireSecret(ctx); err != nil {
		writeError(ctx, err)
		return
	}
	var body ownerRequest
	if err := decodeJSON(ctx, &body); err != nil || body.OwnerAddress == "" {
		writeErrorBody(ctx, consts.StatusBadRequest, "missing_owner", "ownerAddress is required")
		return
	}
	if err := h.Delegation.Unregister(c, body.OwnerAddress); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"success": true})
}

func (h Handler) owners(c context.Context, ctx *app.RequestContext) {
	if err := h.requireSecret(ctx); err != nil {
		writeError(ctx, err)
		return
	}
	h.writeOwners(c, ctx)
}

// delegatedOwners serves the worker-facing endpoint; same payload, same
// shared-secret gate, kept at its original path.
func (h Handler) delegatedOwners(c context.Context, ctx *app.RequestContext) {
	if err := h.requireSecret(ctx); err != nil {
		writeError(ctx, err)
		return
	}
	h.writeOwners(c, ctx)
}

func (h Handler) writeOwners(c context.Context, ctx *app.RequestContext) {
	owners, err := h.Delegation.List(c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"owners": owners})
}

func (h Handler) registered(c context.Context, ctx *app.RequestContext) {
	if err := h.requireSecret(ctx); err != nil {
		writeError(ctx, err)
		return
	}
	address := string(ctx.Query("address"))
	ok, err := h.Delegation.IsRegistered(c, address)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"registered": ok})
}

func (h Handler) clearAllOwners(c context.Context, ctx *app.RequestContext) {
	if err := h.requireSecret(ctx); err != nil {
		writeError(ctx, err)
		return
	}
	n, err := h.Delegation.ClearAll(c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"success": true, "cleared": n})
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func queryLimit(ctx *app.RequestContext) int {
	limit, _ := strconv.Atoi(string(ctx.Query("limit")))
	return limit
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, errMissingSecret), errors.Is(err, errBadSecret):
		writeErrorBody(ctx, consts.StatusUnauthorized, "unauthorized", "unauthorized")
	case errors.Is(err, errMissingSession):
		writeErrorBody(ctx, consts.StatusUnauthorized, "not_authenticated", err.Error())
	case errors.Is(err, delegation.ErrInvalidAddress),
		errors.Is(err, delegation.ErrNotApproved),
		errors.Is(err, delegation.ErrNotRegistered),
		errors.Is(err, botctl.ErrIntervalOutOfRange):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, petcycle.ErrCycleInProgress):
		writeErrorBody(ctx, consts.StatusConflict, "cycle_in_progress", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", "not found")
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", err.Error())
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
