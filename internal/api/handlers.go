package api

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Aman-CERP/motiva/internal/ftm/model"
)

// handleMatch implements POST /match/{scope}.
func handleMatch(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "" {
			mt, _, err := mime.ParseMediaType(ct)
			if err != nil || mt != "application/json" {
				writeJSON(w, http.StatusUnsupportedMediaType, errorBody{Error: "expected application/json"})
				return
			}
		}

		var body matchRequestBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "invalid request body: " + err.Error()})
			return
		}
		if len(body.Queries) == 0 {
			writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "queries must not be empty"})
			return
		}
		for name, q := range body.Queries {
			if q == nil || q.Schema == "" || len(q.Properties) == 0 {
				writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: fmt.Sprintf("query %q missing schema or properties", name)})
				return
			}
		}

		scope := chi.URLParam(r, "scope")
		params := mergeParams(scope, r.URL.Query(), body.Params)

		resp, err := svc.Match(r.Context(), scope, body.Queries, params)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// handleEntity implements GET /entities/{id}?nested=.
func handleEntity(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		nestedExpand, _ := strconv.ParseBool(r.URL.Query().Get("nested"))

		outcome, graph, err := svc.GetEntity(r.Context(), id, nestedExpand)
		if err != nil {
			writeError(w, err)
			return
		}
		if outcome.Referent {
			http.Redirect(w, r, "/entities/"+outcome.Canonical, http.StatusPermanentRedirect)
			return
		}
		if graph != nil {
			writeJSON(w, http.StatusOK, renderEntity(graph[outcome.Entity.ID], map[string]bool{}))
			return
		}
		writeJSON(w, http.StatusOK, renderEntity(model.NewEntityRef(outcome.Entity), map[string]bool{}))
	}
}

// handleCatalog implements GET /catalog?force_refresh=.
func handleCatalog(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		forceRefresh, _ := strconv.ParseBool(r.URL.Query().Get("force_refresh"))
		cat, err := svc.GetCatalog(r.Context(), forceRefresh)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, cat)
	}
}

// handleAlgorithms implements GET /algorithms.
func handleAlgorithms() http.HandlerFunc {
	resp := Algorithms()
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, resp)
	}
}

// handleHealthz implements GET /healthz: always 200, liveness only.
func handleHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// handleReadyz implements GET /readyz: 200/503 from the index provider's
// own health check.
func handleReadyz(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := svc.Provider.Health(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

// handleVersion implements GET /-/version.
func handleVersion(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"version": version})
	}
}
