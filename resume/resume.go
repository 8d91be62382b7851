/*
Package resume scores a resume against a job and an industry's skills.

PURPOSE:
  Gives a student a quick ATS-style reading of how well their resume text
  covers what a role and its industry ask for, and what to work on next.

SCORING:
  Three skill groups, each weighted by its share of matched skills:

    score = core/total * 60 + in_demand/total * 30 + future/total * 10

  An empty group contributes its full weight. The score is rounded half to
  even and held to [0,100].

  Readiness: >= 80 High, >= 50 Moderate, else Critical Review Needed.

MATCHING:
  Resume text is lower-cased and stripped to [a-z0-9] and whitespace.
  A skill matches on a whole-word hit of its name or of a known
  abbreviation ("ml" <-> "machine learning").

SEE ALSO:
  - jobs.go: Job catalog
  - analysis/student.go: in-demand and future skill tiers
*/
package resume

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/warp/workforce-engine/analysis"
)

// Score weights per skill group.
const (
	coreWeight     = 60.0
	inDemandWeight = 30.0
	futureWeight   = 10.0
)

// Readiness thresholds.
const (
	HighReadinessScore     = 80
	ModerateReadinessScore = 50
	strongWindowScore      = 70
)

type Readiness string

const (
	HighReadiness     Readiness = "High"
	ModerateReadiness Readiness = "Moderate"
	CriticalReview    Readiness = "Critical Review Needed"
)

var (
	// ErrEmptyResume is returned when no usable text remains after
	// normalization.
	ErrEmptyResume = errors.New("resume text is empty")

	// ErrJobNotFound is returned when the job title is not offered in the
	// industry.
	ErrJobNotFound = errors.New("job not found")
)

// abbreviations maps short forms to the skill names they stand for.
var abbreviations = map[string]string{
	"ml":    "machine learning",
	"ai":    "artificial intelligence",
	"js":    "javascript",
	"aws":   "amazon web services",
	"genai": "generative ai",
	"nlp":   "natural language processing",
}

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s]`)

// Analysis is the result of scoring one resume.
type Analysis struct {
	ATSMatchScore         int       `json:"ATS_Match_Score"`
	ReadinessLevel        Readiness `json:"Readiness_Level"`
	FoundSkills           []string  `json:"Found_Skills"`
	MissingCriticalSkills []string  `json:"Missing_Critical_Skills"`
	MissingIndustrySkills []string  `json:"Missing_Industry_Skills"`
	MissingFutureSkills   []string  `json:"Missing_Future_Skills"`
	Recommendations       []string  `json:"Recommendations"`
}

// Normalize lower-cases text and replaces anything but [a-z0-9] and
// whitespace with a space.
func Normalize(text string) string {
	return nonAlphanumeric.ReplaceAllString(strings.ToLower(text), " ")
}

// Analyze scores resume text against the job's core skills and the
// industry's in-demand and future skills. year only shapes the wording of
// the recommendations.
func Analyze(text string, job Job, skills analysis.SkillTiers, year int) (*Analysis, error) {
	normalized := Normalize(text)
	if strings.TrimSpace(normalized) == "" {
		return nil, ErrEmptyResume
	}

	core := lowerAll(job.CoreSkills)
	inDemand := skillNames(skills.InDemand)
	future := skillNames(skills.Future)

	foundCore, missingCore := match(normalized, core)
	foundInd, missingInd := match(normalized, inDemand)
	foundFut, missingFut := match(normalized, future)

	raw := share(len(foundCore), len(core), coreWeight) +
		share(len(foundInd), len(inDemand), inDemandWeight) +
		share(len(foundFut), len(future), futureWeight)
	score := int(decimal.NewFromFloat(raw).RoundBank(0).IntPart())
	score = max(0, min(100, score))

	a := &Analysis{
		ATSMatchScore:         score,
		ReadinessLevel:        ReadinessFor(score),
		FoundSkills:           append(append(foundCore, foundInd...), foundFut...),
		MissingCriticalSkills: missingCore,
		MissingIndustrySkills: missingInd,
		MissingFutureSkills:   missingFut,
	}
	a.Recommendations = recommendations(a, year)
	return a, nil
}

// ReadinessFor maps a score to its readiness level.
func ReadinessFor(score int) Readiness {
	switch {
	case score >= HighReadinessScore:
		return HighReadiness
	case score >= ModerateReadinessScore:
		return ModerateReadiness
	default:
		return CriticalReview
	}
}

func share(found, total int, weight float64) float64 {
	if total == 0 {
		return weight
	}
	return float64(found) / float64(total) * weight
}

// match splits skills (lower-case) into found and missing, title-cased.
func match(text string, skills []string) (found, missing []string) {
	found, missing = []string{}, []string{}
	for _, skill := range skills {
		hit := false
		for _, v := range variants(skill) {
			if wordPattern(v).MatchString(text) {
				hit = true
				break
			}
		}
		if hit {
			found = append(found, titleCase(skill))
		} else {
			missing = append(missing, titleCase(skill))
		}
	}
	return found, missing
}

func variants(skill string) []string {
	out := []string{skill}
	for short, long := range abbreviations {
		if skill == long {
			out = append(out, short)
		}
		if skill == short {
			out = append(out, long)
		}
	}
	return out
}

func wordPattern(s string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(s) + `\b`)
}

func recommendations(a *Analysis, year int) []string {
	var out []string
	if n := len(a.MissingCriticalSkills); n > 0 {
		out = append(out, fmt.Sprintf("Focus on mastering core job requirements: %s.",
			strings.Join(a.MissingCriticalSkills[:min(2, n)], ", ")))
	}
	if len(a.MissingIndustrySkills) > 0 {
		out = append(out, fmt.Sprintf("Enhance your industry alignment by adding projects related to %s.",
			a.MissingIndustrySkills[0]))
	}
	if len(a.MissingFutureSkills) > 0 {
		out = append(out, fmt.Sprintf("Prepare for %d hiring trends by learning %s.",
			year, a.MissingFutureSkills[0]))
	}

	if a.ATSMatchScore > strongWindowScore {
		out = append(out, "Your resume shows strong readiness for the current hiring window.")
	} else {
		out = append(out, "Strengthening foundational skills will significantly improve your match rate.")
	}
	return out
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func skillNames(skills []analysis.Skill) []string {
	names := make([]string, 0, len(skills))
	for _, s := range skills {
		names = append(names, s.Name)
	}
	return lowerAll(names)
}

// titleCase upper-cases the first letter of every run of letters and
// lower-cases the rest ("3d modeling" -> "3D Modeling").
func titleCase(s string) string {
	var b strings.Builder
	prevLetter := false
	for _, r := range s {
		if prevLetter {
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(unicode.ToUpper(r))
		}
		prevLetter = unicode.IsLetter(r)
	}
	return b.String()
}
