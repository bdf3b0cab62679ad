package server

import (
	database_sql "database/sql"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/project-causica/causica/pkg/condaenv"
	"github.com/project-causica/causica/pkg/lint"
	"github.com/project-causica/causica/pkg/registry"
	"github.com/project-causica/causica/pkg/store"
	"github.com/project-causica/causica/pkg/store/model"
	"github.com/project-causica/causica/pkg/workflow"
	"github.com/sirupsen/logrus"
)

type LintResult struct {
	Valid    bool           `json:"valid"`
	Findings []lint.Finding `json:"findings"`
}

type ResolveResult struct {
	CacheHit   bool              `json:"cacheHit"`
	Resolution *model.Resolution `json:"resolution"`
}

func lintEnvironment(w http.ResponseWriter, r *http.Request) {
	lintRequests.WithLabelValues("environment").Inc()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	policy := r.Context().Value("policy").(*condaenv.Policy)
	findings, err := condaenv.Lint(body, policy)
	if err != nil {
		logrus.Errorf("cannot lint manifest: %s", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	writeJSON(w, LintResult{
		Valid:    !lint.HasErrors(findings),
		Findings: findings,
	})
}

func lintWorkflow(w http.ResponseWriter, r *http.Request) {
	lintRequests.WithLabelValues("workflow").Inc()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	// no checkout on the server side, file existence rules are skipped
	findings, err := workflow.Lint(body, "")
	if err != nil {
		logrus.Errorf("cannot lint workflow: %s", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	writeJSON(w, LintResult{
		Valid:    !lint.HasErrors(findings),
		Findings: findings,
	})
}

// resolve verifies a manifest against the registries. Runs with the same
// manifest content short-circuit to the stored result, mirroring how the CI
// cache key is derived from the manifest hash.
func resolve(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	db := r.Context().Value("store").(*store.Store)
	key := condaenv.Hash(body)

	stored, err := db.ResolutionByKey(key)
	if err == nil && stored.Status == model.StatusResolved {
		resolutionCacheHits.Inc()
		writeJSON(w, ResolveResult{CacheHit: true, Resolution: stored})
		return
	}
	if err != nil && err != database_sql.ErrNoRows {
		logrus.Errorf("cannot query resolutions: %s", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	resolver := r.Context().Value("resolver").(*registry.Resolver)
	result, err := resolver.Resolve(r.Context(), body)
	if err != nil {
		logrus.Errorf("cannot resolve manifest: %s", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	resolutionsProcessed.Inc()

	status := model.StatusResolved
	if !result.Resolved() {
		status = model.StatusFailed
	}
	resolution := &model.Resolution{
		Key:     key,
		EnvName: result.EnvName,
		Status:  status,
		Result:  result,
	}
	err = db.SaveResolution(resolution)
	if err != nil {
		logrus.Errorf("cannot save resolution: %s", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	writeJSON(w, ResolveResult{CacheHit: false, Resolution: resolution})
}

func getResolutions(w http.ResponseWriter, r *http.Request) {
	db := r.Context().Value("store").(*store.Store)

	resolutions, err := db.Resolutions(50)
	if err != nil {
		logrus.Errorf("cannot list resolutions: %s", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	writeJSON(w, resolutions)
}

func getResolution(w http.ResponseWriter, r *http.Request) {
	db := r.Context().Value("store").(*store.Store)
	key := chi.URLParam(r, "key")

	resolution, err := db.ResolutionByKey(key)
	if err == database_sql.ErrNoRows {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}
	if err != nil {
		logrus.Errorf("cannot query resolution: %s", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	writeJSON(w, resolution)
}

func deleteResolution(w http.ResponseWriter, r *http.Request) {
	db := r.Context().Value("store").(*store.Store)
	key := chi.URLParam(r, "key")

	err := db.DeleteResolutionByKey(key)
	if err != nil {
		logrus.Errorf("cannot delete resolution: %s", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func writeJSON(w http.ResponseWriter, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		logrus.Errorf("cannot serialize response: %s", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
