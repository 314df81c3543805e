package controllers

import (
	"context"
	"net/http"

	"github.com/remontasupport/remontamarketplace-sub005/internal/app"
	"github.com/remontasupport/remontamarketplace-sub005/internal/dtos"
	"github.com/remontasupport/remontamarketplace-sub005/internal/utils"
)

// DBPinger is the one pool method the health check needs.
type DBPinger interface {
	Ping(ctx context.Context) error
}

type HealthController struct {
	db DBPinger
}

func NewHealthController(app *app.App) *HealthController {
	return &HealthController{db: app.DB}
}

func (c *HealthController) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	if err := c.db.Ping(r.Context()); err != nil {
		utils.RespondErrorWithCode(w, http.StatusServiceUnavailable, utils.ErrCodeInternal, "Database unreachable", nil, err)
		return
	}
	resp := dtos.HealthCheckResponse{Status: "OK"}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}
