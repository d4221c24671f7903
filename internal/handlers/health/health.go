package health

import (
	"context"
	"net/http"

	"github.com/antonyoatec/case-tecnofit/pkg/utils"
)

//go:generate mockgen -source=health.go -destination=mock_health.go -package=health

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	pinger Pinger
}

func New(pinger Pinger) *HealthHandler {
	return &HealthHandler{pinger: pinger}
}

// Check godoc
//
//	@Summary		Service health check
//	@Description	Report readiness of the service and its database connection.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	utils.Response	"Service is healthy"
//	@Failure		503	{object}	utils.Response	"Database unavailable"
//	@Router			/health [get]
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	if err := h.pinger.Ping(r.Context()); err != nil {
		utils.RespondWithError(w, http.StatusServiceUnavailable, "DEPENDENCY_UNAVAILABLE", "database is unavailable")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
