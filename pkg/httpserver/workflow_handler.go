package httpserver

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/Shresth-Senwal/djedops2nd/internal/storage"
	"github.com/Shresth-Senwal/djedops2nd/internal/workflow"
)

// WorkflowHandler executes submitted workflow graphs and serves the stored
// run history (the server-side replacement for browser local storage).
type WorkflowHandler struct {
	executor *workflow.Executor
	storage  storage.Storage
	logger   *zap.Logger
}

// NewWorkflowHandler creates a new workflow handler.
func NewWorkflowHandler(executor *workflow.Executor, store storage.Storage, logger *zap.Logger) *WorkflowHandler {
	return &WorkflowHandler{
		executor: executor,
		storage:  store,
		logger:   logger,
	}
}

// HandleExecute handles POST /api/workflows/execute requests.
// The body is a workflow graph document; the response is the full run result.
func (h *WorkflowHandler) HandleExecute(w http.ResponseWriter, r *http.Request) {
	var graph workflow.Graph

	err := json.NewDecoder(r.Body).Decode(&graph)
	if err != nil {
		writeError(w, h.logger, "invalid workflow graph: "+err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.executor.Execute(r.Context(), &graph)
	if err != nil {
		writeError(w, h.logger, err.Error(), http.StatusBadRequest)
		return
	}

	err = h.storage.StoreWorkflowRun(r.Context(), result)
	if err != nil {
		// History persistence is best effort; the run itself succeeded.
		h.logger.Error("failed-to-store-workflow-run",
			zap.String("run-id", result.ID),
			zap.Error(err))
	}

	writeJSON(w, h.logger, result)
}

// RunHistoryResponse is the /api/workflows/history payload.
type RunHistoryResponse struct {
	Runs  []*workflow.RunResult `json:"runs"`
	Count int                   `json:"count"`
}

// HandleHistory handles GET /api/workflows/history requests.
func (h *WorkflowHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	runs, err := h.storage.ListWorkflowRuns(r.Context())
	if err != nil {
		h.logger.Error("failed-to-list-workflow-runs", zap.Error(err))
		writeError(w, h.logger, "run history unavailable", http.StatusInternalServerError)
		return
	}

	writeJSON(w, h.logger, RunHistoryResponse{Runs: runs, Count: len(runs)})
}

// HandleClear handles DELETE /api/workflows/history requests.
// The history is cleared wholesale, mirroring the single-key storage model.
func (h *WorkflowHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	err := h.storage.ClearWorkflowRuns(r.Context())
	if err != nil {
		h.logger.Error("failed-to-clear-workflow-runs", zap.Error(err))
		writeError(w, h.logger, "failed to clear run history", http.StatusInternalServerError)
		return
	}

	writeJSON(w, h.logger, map[string]bool{"cleared": true})
}
