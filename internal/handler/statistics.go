package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/growai/arbitrageos-admin/internal/model"
)

// StatsSource provides platform totals.  *repository.StatsRepo
// satisfies it.
type StatsSource interface {
	Totals(ctx context.Context) (model.Statistics, error)
}

type StatsHandler struct {
	Stats StatsSource
}

func NewStatsHandler(stats StatsSource) *StatsHandler {
	return &StatsHandler{Stats: stats}
}

// Get computes the dashboard totals.  Counts are always recomputed
// from the datastore; there is no cache layer in front of them.
func (h *StatsHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	stats, err := h.Stats.Totals(ctx)
	if err != nil {
		return failInternal(c)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "statistics": stats})
}
