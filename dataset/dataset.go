/*
Package dataset parses and validates workforce dataset documents.

PURPOSE:
  Converts YAML or JSON dataset definitions into analysis.Record values and
  per-industry company catalogs. Operators can swap the observed history
  without code changes; the seed command and the load endpoint both go
  through here.

DOCUMENT SCHEMA:
  industries:
    - name: IT
      companies: [MetaSystems, CyberCloud]
      jobs:
        - title: Software Engineer
          core_skills: [Python, Git, SQL]
      records:
        - year: 2024
          interns_intake: 1450
          conversion_rate: 0.66
          attrition_rate: 0.14
          growth_rate: 8.2
          top_skills: [Python, Cloud Computing, Machine Learning]

VALIDATION:
  - Industry names are non-empty and unique
  - Every industry carries at least one record, one per year
  - All numbers are finite; intake >= 0; rates in [0,1]
  - Job titles are non-empty and unique within an industry

USAGE:
  doc, err := dataset.ParseFile("data/market.yaml")
  store.SaveRecords(ctx, doc.Records())

SEE ALSO:
  - demo.go: built-in demo datasets
  - store/sqlite: persistence of loaded records
*/
package dataset

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/warp/workforce-engine/analysis"
	"github.com/warp/workforce-engine/resume"
)

// =============================================================================
// DOCUMENT TYPES
// =============================================================================

// Document is a complete dataset.
type Document struct {
	Industries []Industry `json:"industries" yaml:"industries"`
}

// Industry is the history and company catalog of one industry.
type Industry struct {
	Name      string         `json:"name" yaml:"name"`
	Companies []string       `json:"companies,omitempty" yaml:"companies,omitempty"`
	Jobs      []resume.Job   `json:"jobs,omitempty" yaml:"jobs,omitempty"`
	Records   []RecordSchema `json:"records" yaml:"records"`
}

// RecordSchema is one observed year.
type RecordSchema struct {
	Year           int      `json:"year" yaml:"year"`
	InternsIntake  float64  `json:"interns_intake" yaml:"interns_intake"`
	ConversionRate float64  `json:"conversion_rate" yaml:"conversion_rate"`
	AttritionRate  float64  `json:"attrition_rate" yaml:"attrition_rate"`
	GrowthRate     float64  `json:"growth_rate" yaml:"growth_rate"`
	TopSkills      []string `json:"top_skills,omitempty" yaml:"top_skills,omitempty"`
}

// Format is the encoding of a document.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// =============================================================================
// PARSING
// =============================================================================

// Parse decodes and validates a document.
func Parse(data []byte, format Format) (*Document, error) {
	var doc Document
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, &ValidationError{Reason: "malformed JSON: " + err.Error()}
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, &ValidationError{Reason: "malformed YAML: " + err.Error()}
		}
	default:
		return nil, fmt.Errorf("unsupported dataset format %q", format)
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ParseFile reads a document, choosing the format from the extension.
// Anything other than .json is read as YAML.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	return Parse(data, FormatFor(path))
}

// FormatFor picks the format for a file name.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks document invariants.
func (d *Document) Validate() error {
	if len(d.Industries) == 0 {
		return &ValidationError{Reason: "no industries"}
	}

	seen := make(map[string]bool, len(d.Industries))
	for _, ind := range d.Industries {
		name := strings.TrimSpace(ind.Name)
		if name == "" {
			return &ValidationError{Reason: "industry name is required"}
		}
		if seen[name] {
			return &ValidationError{Industry: name, Reason: "duplicate industry"}
		}
		seen[name] = true

		if len(ind.Records) == 0 {
			return &ValidationError{Industry: name, Reason: "no records"}
		}
		years := make(map[int]bool, len(ind.Records))
		for _, r := range ind.Records {
			if years[r.Year] {
				return &ValidationError{Industry: name, Year: r.Year, Reason: "duplicate year"}
			}
			years[r.Year] = true
			if err := validateRecord(name, r); err != nil {
				return err
			}
		}

		titles := make(map[string]bool, len(ind.Jobs))
		for _, j := range ind.Jobs {
			title := strings.ToLower(strings.TrimSpace(j.Title))
			if title == "" {
				return &ValidationError{Industry: name, Field: "jobs.title", Reason: "job title is required"}
			}
			if titles[title] {
				return &ValidationError{Industry: name, Field: "jobs.title", Reason: "duplicate job " + j.Title}
			}
			titles[title] = true
		}
	}
	return nil
}

func validateRecord(industry string, r RecordSchema) error {
	if r.Year <= 0 {
		return &ValidationError{Industry: industry, Year: r.Year, Field: "year", Reason: "must be positive"}
	}

	checks := []struct {
		field  string
		v      float64
		lo, hi float64
	}{
		{"interns_intake", r.InternsIntake, 0, math.Inf(1)},
		{"conversion_rate", r.ConversionRate, 0, 1},
		{"attrition_rate", r.AttritionRate, 0, 1},
		{"growth_rate", r.GrowthRate, math.Inf(-1), math.Inf(1)},
	}
	for _, c := range checks {
		if math.IsNaN(c.v) || math.IsInf(c.v, 0) {
			return &ValidationError{Industry: industry, Year: r.Year, Field: c.field, Reason: "must be finite"}
		}
		if c.v < c.lo || c.v > c.hi {
			return &ValidationError{
				Industry: industry,
				Year:     r.Year,
				Field:    c.field,
				Reason:   fmt.Sprintf("%v outside [%v, %v]", c.v, c.lo, c.hi),
			}
		}
	}
	return nil
}

// =============================================================================
// CONVERSION
// =============================================================================

// Records flattens the document into analysis records.
func (d *Document) Records() []analysis.Record {
	var out []analysis.Record
	for _, ind := range d.Industries {
		name := strings.TrimSpace(ind.Name)
		for _, r := range ind.Records {
			out = append(out, analysis.Record{
				Industry:       name,
				Year:           r.Year,
				InternsIntake:  r.InternsIntake,
				ConversionRate: r.ConversionRate,
				AttritionRate:  r.AttritionRate,
				GrowthRate:     r.GrowthRate,
				TopSkills:      append([]string(nil), r.TopSkills...),
			})
		}
	}
	return out
}

// Catalog returns the company names per industry. Industries without an
// explicit list fall back to fallback[industry].
func (d *Document) Catalog(fallback map[string][]string) map[string][]string {
	out := make(map[string][]string, len(d.Industries))
	for _, ind := range d.Industries {
		name := strings.TrimSpace(ind.Name)
		names := ind.Companies
		if len(names) == 0 {
			names = fallback[name]
		}
		out[name] = append([]string(nil), names...)
	}
	return out
}

// Jobs returns the job catalog per industry, falling back to
// fallback[industry] like Catalog.
func (d *Document) Jobs(fallback map[string][]resume.Job) map[string][]resume.Job {
	out := make(map[string][]resume.Job, len(d.Industries))
	for _, ind := range d.Industries {
		name := strings.TrimSpace(ind.Name)
		jobs := ind.Jobs
		if len(jobs) == 0 {
			jobs = fallback[name]
		}
		out[name] = append([]resume.Job(nil), jobs...)
	}
	return out
}

// Encode writes the document in the given format.
func (d *Document) Encode(format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(d, "", "  ")
	case FormatYAML:
		return yaml.Marshal(d)
	default:
		return nil, fmt.Errorf("unsupported dataset format %q", format)
	}
}
