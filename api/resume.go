/*
resume.go - Resume analysis endpoint

PURPOSE:
  Scores plain resume text against a job's core skills and the industry's
  in-demand and future skills from the student dashboard.

USAGE VIA API:
  POST /api/resume/analyze
  {"industry": "IT", "job_title": "Data Scientist", "text": "..."}

SEE ALSO:
  - resume/resume.go: Matching and scoring
*/
package api

import (
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/sirupsen/logrus"

	"github.com/warp/workforce-engine/resume"
)

// AnalyzeResume scores resume text for an industry and job.
// POST /api/resume/analyze
func (h *Handler) AnalyzeResume(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeResumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Industry == "" || req.JobTitle == "" {
		writeError(w, http.StatusBadRequest, "industry and job_title are required", nil)
		return
	}
	if req.Year == 0 {
		req.Year = h.opts.ForecastYear
	}

	model, err := h.Model()
	if err != nil {
		writeDomainError(w, "No dataset loaded", err)
		return
	}
	dash, err := model.StudentDashboard(req.Industry, req.Year)
	if err != nil {
		writeDomainError(w, "Industry skills unavailable", err)
		return
	}

	list, err := h.jobs(r.Context(), req.Industry)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list jobs", err)
		return
	}
	job, err := resume.FindJob(list, req.JobTitle)
	if err != nil {
		writeDomainError(w, "Job not found", err)
		return
	}

	result, err := resume.Analyze(req.Text, job, dash.StudentInsights.Skills, req.Year)
	if err != nil {
		writeDomainError(w, "Resume could not be analyzed", err)
		return
	}

	h.log.WithFields(logrus.Fields{
		"industry": req.Industry,
		"job":      job.Title,
		"score":    result.ATSMatchScore,
	}).Debug("resume analyzed")

	writeJSON(w, http.StatusOK, AnalyzeResumeResponse{
		Industry: req.Industry,
		JobTitle: job.Title,
		Company:  req.Company,
		Year:     req.Year,
		Analysis: result,
	})
}
