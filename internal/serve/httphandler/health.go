package httphandler

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

// HealthHandler reports process liveness. Node reachability is not probed
// here; RPC failures are visible through the metrics endpoint.
type HealthHandler struct{}

func (h HealthHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "pass"}); err != nil {
		logrus.WithError(err).Error("writing health response")
	}
}
