package httpadapter

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/MonumentLabsRVA/ProjectDaylight-sub000/internal/core/ports"
)

const userIDHeader = "X-User-Id"

type Router struct {
	submitUC   ports.JournalSubmitter
	evidenceUC ports.EvidenceIntake
	exportUC   ports.TimelineExportService
	journals   ports.JournalRepository
	jobs       ports.JobRepository
	evidence   ports.EvidenceRepository

	rateLimitRPS   float64
	rateLimitBurst int
}

func NewRouter(
	submitUC ports.JournalSubmitter,
	evidenceUC ports.EvidenceIntake,
	exportUC ports.TimelineExportService,
	journals ports.JournalRepository,
	jobs ports.JobRepository,
	evidence ports.EvidenceRepository,
	rateLimitRPS float64,
	rateLimitBurst int,
) *Router {
	return &Router{
		submitUC:       submitUC,
		evidenceUC:     evidenceUC,
		exportUC:       exportUC,
		journals:       journals,
		jobs:           jobs,
		evidence:       evidence,
		rateLimitRPS:   rateLimitRPS,
		rateLimitBurst: rateLimitBurst,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/journal-entries", rt.submitEntry)
	mux.HandleFunc("/v1/journal-entries/", rt.journalEntrySubroutes)
	mux.HandleFunc("/v1/jobs/", rt.getJobByID)
	mux.HandleFunc("/v1/evidence", rt.uploadEvidence)
	mux.HandleFunc("/v1/evidence/", rt.getEvidenceByID)
	mux.HandleFunc("/v1/export/timeline", rt.exportTimeline)

	var handler http.Handler = mux
	handler = backpressureMiddleware(handler, maxInFlightRequests, 100*time.Millisecond)
	handler = rateLimitMiddleware(handler, rt.rateLimitRPS, rt.rateLimitBurst)
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

// maxInFlightRequests bounds concurrency ahead of the model and the
// database; anything past it gets a fast 503 instead of a queue.
const maxInFlightRequests = 64

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) submitEntry(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req struct {
		EventText     string   `json:"event_text"`
		ReferenceDate string   `json:"reference_date"`
		Timezone      string   `json:"timezone"`
		EvidenceIDs   []string `json:"evidence_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	entry, job, err := rt.submitUC.Submit(r.Context(), userID, req.EventText, req.ReferenceDate, req.Timezone, req.EvidenceIDs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{"entry": entry, "job": job})
}

func (rt *Router) journalEntrySubroutes(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/journal-entries/")
	if id, found := strings.CutSuffix(rest, "/redo"); found {
		rt.redoEntry(w, r, id)
		return
	}
	rt.getEntryByID(w, r, rest)
}

func (rt *Router) getEntryByID(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "journal entry id is required"})
		return
	}

	entry, err := rt.journals.GetEntry(r.Context(), userID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (rt *Router) redoEntry(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "journal entry id is required"})
		return
	}

	job, err := rt.submitUC.Redo(r.Context(), userID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, job)
}

func (rt *Router) getJobByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/v1/jobs/")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "job id is required"})
		return
	}

	job, err := rt.jobs.GetJob(r.Context(), userID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (rt *Router) uploadEvidence(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	ev, err := rt.evidenceUC.Upload(
		r.Context(),
		userID,
		r.FormValue("journal_entry_id"),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, ev)
}

func (rt *Router) getEvidenceByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/v1/evidence/")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "evidence id is required"})
		return
	}

	ev, err := rt.evidence.GetEvidence(r.Context(), userID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

func (rt *Router) exportTimeline(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	filename := fmt.Sprintf("timeline-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := rt.exportUC.Export(r.Context(), userID, w); err != nil {
		// Headers are already sent; log and let the truncated body
		// signal the failure.
		slog.Error("timeline_export",
			"request_id", requestIDFromContext(r.Context()),
			"user_id", userID,
			"error", err,
		)
	}
}

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := strings.TrimSpace(r.Header.Get(userIDHeader))
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "X-User-Id header is required"})
		return "", false
	}
	return userID, true
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
