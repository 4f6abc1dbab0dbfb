// Package api exposes a small HTTP status surface next to the TCP
// listener: health, registered tools, and registered resources.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/freeshineit/mcp-server-go/internal/logger"
	"github.com/freeshineit/mcp-server-go/internal/mcp"
	"github.com/freeshineit/mcp-server-go/internal/resources"
	"github.com/freeshineit/mcp-server-go/internal/tools"
)

type StatusAPI struct {
	tools     *tools.Registry
	resources *resources.Registry
	log       zerolog.Logger
}

func NewStatusAPI(t *tools.Registry, r *resources.Registry) *StatusAPI {
	return &StatusAPI{
		tools:     t,
		resources: r,
		log:       logger.WithComponent("status"),
	}
}

// Router builds the route table for the status server.
func (api *StatusAPI) Router() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/healthz", api.Health).Methods("GET")
	router.HandleFunc("/tools", api.Tools).Methods("GET")
	router.HandleFunc("/resources", api.Resources).Methods("GET")
	return router
}

func (api *StatusAPI) Health(w http.ResponseWriter, r *http.Request) {
	api.writeJSON(w, map[string]string{"status": "ok"})
}

func (api *StatusAPI) Tools(w http.ResponseWriter, r *http.Request) {
	api.writeJSON(w, mcp.ListToolsResult{Tools: api.tools.List()})
}

func (api *StatusAPI) Resources(w http.ResponseWriter, r *http.Request) {
	api.writeJSON(w, mcp.ListResourcesResult{Resources: api.resources.List()})
}

func (api *StatusAPI) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		api.log.Error().Err(err).Msg("failed to write status response")
	}
}
