package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/fieldworks/jobsector/internal/classifier"
	"github.com/fieldworks/jobsector/internal/export"
	"github.com/fieldworks/jobsector/internal/schemas"
	"github.com/fieldworks/jobsector/internal/types"
)

var validate = validator.New()

// maxBodySize bounds request bodies; job postings are a few thousand
// characters at most.
const maxBodySize = 1 << 20

// recentActionsInStats is how many actions the stats endpoint returns.
const recentActionsInStats = 20

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var job types.JobPosting
	if err := decodeJSON(r, &job); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := classifier.Classify(job, s.taxonomy, s.thresholds)
	writeJSON(w, http.StatusOK, result)
}

// feedbackResponse reports what happened to a submitted feedback item,
// including whether the correction had to be captured in the local fallback
// store (a warning, not a failure).
type feedbackResponse struct {
	Actions       []types.LearningAction `json:"actions"`
	Storage       string                 `json:"storage,omitempty"` // "remote" or "local-fallback"
	Warning       string                 `json:"warning,omitempty"`
	LearningState types.LearningStatus   `json:"learning_status"`
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	if err := schemas.ValidateFeedback(body); err != nil {
		var ve *schemas.ValidationError
		if errors.As(err, &ve) {
			writeError(w, http.StatusBadRequest, ve.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "schema validation failed")
		return
	}

	var fb types.JobFeedback
	if err := json.Unmarshal(body, &fb); err != nil {
		writeError(w, http.StatusBadRequest, "invalid feedback JSON")
		return
	}
	if err := validate.Struct(fb); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	actions, err := s.engine.ProcessFeedback(fb)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := feedbackResponse{Actions: actions, LearningState: types.LearningStatusProcessed}
	if actions == nil {
		resp.Actions = []types.LearningAction{}
	}

	// Corrections are additionally persisted to the correction store.
	if !fb.IsConfirmation() && s.corrections != nil {
		correction := types.StoredCorrection{
			JobID:             fb.JobID,
			OriginalCategory:  fb.Original.Primary,
			CorrectedCategory: fb.Correction.CorrectedPrimary,
			Timestamp:         time.Now().UTC(),
		}
		fellBack, err := s.corrections.Save(r.Context(), correction)
		switch {
		case err != nil:
			resp.Warning = "correction could not be persisted: " + err.Error()
		case fellBack:
			resp.Storage = "local-fallback"
			resp.Warning = "remote store unavailable; correction captured locally"
		default:
			resp.Storage = "remote"
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Stats(recentActionsInStats))
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Insights())
}

// handleReport serves the flat learning report in the requested format so
// offline tooling can pull it from the running process.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	recent := recentActionsInStats
	if raw := r.URL.Query().Get("recent"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "recent must be a non-negative integer")
			return
		}
		recent = n
	}

	report := export.Build(s.engine, recent)
	switch r.URL.Query().Get("format") {
	case "", "json":
		w.Header().Set("Content-Type", "application/json")
		if err := report.WriteJSON(w); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		if err := report.WriteSuggestionsCSV(w); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
	default:
		writeError(w, http.StatusBadRequest, "format must be json or csv")
	}
}

// resetRequest must carry an explicit confirmation before learned data is
// destroyed.
type resetRequest struct {
	Confirm bool `json:"confirm"`
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.engine.ClearAllData(req.Confirm); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (s *Server) handleTaxonomy(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.taxonomy.Categories())
}

func (s *Server) handleTaxonomyExport(w http.ResponseWriter, r *http.Request) {
	data, err := s.taxonomy.ExportYAML()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleCorrections(w http.ResponseWriter, r *http.Request) {
	if s.corrections == nil {
		writeJSON(w, http.StatusOK, map[string]types.StoredCorrection{})
		return
	}
	all, err := s.corrections.All(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, all)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	if err := dec.Decode(v); err != nil {
		return errors.New("invalid JSON body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
