/*
datasets.go - Dataset management endpoints

PURPOSE:
  Lists the built-in demo datasets and replaces the stored dataset with a
  demo or an inline document. Every successful load rebuilds the cached
  analysis model before responding.

AVAILABLE DEMOS:
  See dataset/demo.go (baseline-market, talent-shortage, attrition-crisis).

USAGE VIA API:
  POST /api/datasets/load
  {"demo": "talent-shortage"}

  POST /api/datasets/load
  {"name": "q3-import", "document": {"industries": [...]}}

NOTE:
  Loading replaces every stored record and company. Recorded simulation
  runs are kept; /api/datasets/reset clears those too.

SEE ALSO:
  - dataset/dataset.go: Document schema and validation
  - store/sqlite: ReplaceDataset
*/
package api

import (
	"context"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/sirupsen/logrus"

	"github.com/warp/workforce-engine/company"
	"github.com/warp/workforce-engine/dataset"
	"github.com/warp/workforce-engine/resume"
)

// ListDatasets returns the demo datasets and the current load.
// GET /api/datasets
func (h *Handler) ListDatasets(w http.ResponseWriter, r *http.Request) {
	resp := DatasetsResponse{Demos: dataset.Demos()}

	latest, err := h.Store.LatestDatasetLoad(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read dataset history", err)
		return
	}
	if latest != nil {
		resp.Current = &DatasetLoadDTO{
			Name:        latest.Name,
			RecordCount: latest.RecordCount,
			LoadedAt:    latest.LoadedAt,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// LoadDataset replaces the stored dataset.
// POST /api/datasets/load
func (h *Handler) LoadDataset(w http.ResponseWriter, r *http.Request) {
	var req LoadDatasetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var (
		doc  *dataset.Document
		name string
		err  error
	)
	switch {
	case req.Document != nil && req.Demo != "":
		writeError(w, http.StatusBadRequest, "Provide either demo or document, not both", nil)
		return
	case req.Document != nil:
		doc, name = req.Document, req.Name
		if name == "" {
			name = "custom"
		}
		err = doc.Validate()
	case req.Demo != "":
		name = req.Demo
		doc, err = dataset.LoadDemo(req.Demo)
	default:
		writeError(w, http.StatusBadRequest, "demo or document is required", nil)
		return
	}
	if err != nil {
		writeDomainError(w, "Invalid dataset", err)
		return
	}

	if err := h.ApplyDataset(r.Context(), name, doc); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load dataset", err)
		return
	}

	model, err := h.Model()
	if err != nil {
		writeDomainError(w, "Dataset loaded but model unavailable", err)
		return
	}
	writeJSON(w, http.StatusOK, LoadDatasetResponse{
		Name:       name,
		Records:    len(doc.Records()),
		Industries: model.Industries(),
	})
}

// ApplyDataset stores a validated document and rebuilds the model.
func (h *Handler) ApplyDataset(ctx context.Context, name string, doc *dataset.Document) error {
	records := doc.Records()
	if err := h.Store.ReplaceDataset(ctx, name, records, doc.Catalog(company.DefaultCatalog), doc.Jobs(resume.DefaultJobs)); err != nil {
		return err
	}
	h.log.WithFields(logrus.Fields{
		"dataset": name,
		"records": len(records),
	}).Info("dataset loaded")
	return h.Refresh(ctx)
}

// ResetDataset clears every table and the cached model.
// POST /api/datasets/reset
func (h *Handler) ResetDataset(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	if err := h.Refresh(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to refresh model", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}
