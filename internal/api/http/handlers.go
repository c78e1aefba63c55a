package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/appshell/internal/domain/session"
	"github.com/GriffinCanCode/appshell/internal/menu"
	"github.com/GriffinCanCode/appshell/internal/shared/types"
	"github.com/GriffinCanCode/appshell/internal/shared/utils"
	"github.com/GriffinCanCode/appshell/internal/store"
)

// Catalog describes the bridge operations.
type Catalog interface {
	Catalog() []types.Service
}

// Menus exposes the menu tree and its activation.
type Menus interface {
	Snapshot() []menu.Snapshot
}

// Activator activates menu items as if the user picked them.
type Activator interface {
	Activate(ctx context.Context, id string) (menu.Outcome, error)
}

// Application is the app state shown over HTTP.
type Application interface {
	InstanceID() string
	ElapsedMilliseconds() int64
	DropFiles(paths ...string)
}

// Runtime reports the auxiliary runtime state.
type Runtime interface {
	Snapshot() (session.State, int)
}

// Connections counts connected content.
type Connections interface {
	Connections() int
}

// History lists recorded launches.
type History interface {
	Launches() ([]store.Launch, error)
}

// Options holds the collaborators served by Handlers. Nil fields disable
// the matching endpoints' data.
type Options struct {
	Catalog     Catalog
	Menus       Menus
	Activator   Activator
	App         Application
	Runtime     Runtime
	Connections Connections
	History     History
	Logger      *zap.Logger
}

// Handlers contains all HTTP handlers
type Handlers struct {
	opts Options
	log  *zap.Logger
}

// NewHandlers creates a new handler set
func NewHandlers(opts Options) *Handlers {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Handlers{opts: opts, log: opts.Logger.Named("http")}
}

// Root handles the service banner
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "appshell",
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	resp := gin.H{"status": "healthy"}
	if h.opts.App != nil {
		resp["instance_id"] = h.opts.App.InstanceID()
		resp["uptime_ms"] = h.opts.App.ElapsedMilliseconds()
	}
	if h.opts.Runtime != nil {
		state, port := h.opts.Runtime.Snapshot()
		resp["runtime"] = gin.H{"state": state.String(), "port": port}
	}
	if h.opts.Connections != nil {
		resp["connections"] = h.opts.Connections.Connections()
	}
	c.JSON(http.StatusOK, resp)
}

// ListOperations lists the bridge operations by category
func (h *Handlers) ListOperations(c *gin.Context) {
	services := []types.Service{}
	if h.opts.Catalog != nil {
		services = h.opts.Catalog.Catalog()
	}
	c.JSON(http.StatusOK, gin.H{"services": services})
}

// GetMenus returns the menu tree
func (h *Handlers) GetMenus(c *gin.Context) {
	menus := []menu.Snapshot{}
	if h.opts.Menus != nil {
		menus = h.opts.Menus.Snapshot()
	}
	c.JSON(http.StatusOK, gin.H{"menus": menus})
}

// ActivateMenuItem runs a menu item as if it had been picked
func (h *Handlers) ActivateMenuItem(c *gin.Context) {
	itemID := c.Param("id")

	if err := utils.ValidateMenuID(itemID, "id", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if h.opts.Activator == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "menus unavailable"})
		return
	}

	outcome, err := h.opts.Activator.Activate(c.Request.Context(), itemID)
	switch {
	case errors.Is(err, menu.ErrUnknownItem):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "id": itemID})
		return
	case errors.Is(err, menu.ErrNotActionable):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "id": itemID})
		return
	case err != nil:
		h.log.Warn("Menu activation failed", zap.String("id", itemID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   err.Error(),
			"id":      itemID,
			"outcome": outcome.String(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":      itemID,
		"outcome": outcome.String(),
	})
}

// DropRequest lists files dropped onto the window
type DropRequest struct {
	Paths []string `json:"paths"`
}

// DropFiles records files dropped onto the window
func (h *Handlers) DropFiles(c *gin.Context) {
	var req DropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if len(req.Paths) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no paths provided"})
		return
	}
	for _, p := range req.Paths {
		if err := utils.ValidatePath(p, "path"); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if h.opts.App == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "application unavailable"})
		return
	}

	h.opts.App.DropFiles(req.Paths...)
	c.JSON(http.StatusOK, gin.H{"dropped": len(req.Paths)})
}

// ListLaunches returns the recorded launch history, oldest first
func (h *Handlers) ListLaunches(c *gin.Context) {
	if h.opts.History == nil {
		c.JSON(http.StatusOK, gin.H{"launches": []gin.H{}})
		return
	}

	launches, err := h.opts.History.Launches()
	if err != nil {
		h.log.Error("Failed to read launch history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read launch history"})
		return
	}

	out := make([]gin.H, 0, len(launches))
	for _, l := range launches {
		out = append(out, gin.H{"run_id": l.RunID, "started_at": l.StartedAt})
	}
	c.JSON(http.StatusOK, gin.H{"launches": out})
}
