/*
demo.go - Built-in demo datasets

PURPOSE:
  Provides generated datasets for development and demonstrations, so the
  service is useful without an external data file. Each demo is derived from
  the same five industry profiles with a different market storyline.

AVAILABLE DEMOS:
  baseline-market:  steady trends, moderate noise
  talent-shortage:  intake and conversion fall from 2022 while growth climbs
  attrition-crisis: attrition ramps toward 30% in every industry

Generation is deterministic: a demo always yields identical records.

USAGE:
  doc, err := dataset.LoadDemo("talent-shortage")
*/
package dataset

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/warp/workforce-engine/analysis"
)

// DefaultDemo is the demo loaded on first start.
const DefaultDemo = "baseline-market"

const (
	demoFirstYear = 2018
	demoLastYear  = 2026
)

// Demo describes a built-in dataset.
type Demo struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	shape func(p *profile, yearIndex int)
}

var demos = []Demo{
	{
		Name:        "baseline-market",
		Description: "Steady industry trends with moderate year-to-year noise",
		shape:       func(*profile, int) {},
	},
	{
		Name:        "talent-shortage",
		Description: "Intake and conversion fall from 2022 while growth accelerates",
		shape: func(p *profile, i int) {
			if demoFirstYear+i < 2022 {
				return
			}
			p.intake *= 0.92
			p.conversion -= 0.02
			p.growth += 0.8
		},
	},
	{
		Name:        "attrition-crisis",
		Description: "Attrition ramps toward 30% across every industry",
		shape: func(p *profile, i int) {
			p.attrition += (0.30 - p.attrition) * 0.18
		},
	},
}

// Demos lists the built-in datasets.
func Demos() []Demo {
	return append([]Demo(nil), demos...)
}

// LoadDemo generates a built-in dataset by name.
func LoadDemo(name string) (*Document, error) {
	for _, d := range demos {
		if d.Name == name {
			return d.generate(), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownDemo, name)
}

// =============================================================================
// INDUSTRY PROFILES
// =============================================================================

type profile struct {
	industry   string
	intake     float64
	conversion float64
	attrition  float64
	growth     float64

	intakeTrend float64 // fractional change per year
	growthTrend float64 // points per year
	skills      []string
}

func baseProfiles() []profile {
	return []profile{
		{
			industry: "IT", intake: 1400, conversion: 0.65, attrition: 0.14, growth: 9,
			intakeTrend: 0.05, growthTrend: 0.3,
			skills: []string{"Python", "Cloud Computing", "Machine Learning", "Cybersecurity", "DevOps"},
		},
		{
			industry: "Healthcare", intake: 900, conversion: 0.72, attrition: 0.11, growth: 6,
			intakeTrend: 0.03, growthTrend: 0.2,
			skills: []string{"Patient Care", "Health Informatics", "Telemedicine", "Clinical Research"},
		},
		{
			industry: "Manufacturing", intake: 700, conversion: 0.58, attrition: 0.16, growth: 3.5,
			intakeTrend: 0.01, growthTrend: 0.05,
			skills: []string{"CAD", "Lean Manufacturing", "Robotics", "Quality Control"},
		},
		{
			industry: "EV", intake: 500, conversion: 0.6, attrition: 0.12, growth: 12,
			intakeTrend: 0.09, growthTrend: 0.6,
			skills: []string{"Battery Engineering", "Embedded Systems", "Power Electronics", "Autonomous Systems", "EV Charging"},
		},
		{
			industry: "Finance", intake: 1100, conversion: 0.68, attrition: 0.13, growth: 5,
			intakeTrend: 0.02, growthTrend: 0.1,
			skills: []string{"Financial Modeling", "Risk Analysis", "Blockchain", "Data Analytics"},
		},
	}
}

// =============================================================================
// GENERATION
// =============================================================================

func (d Demo) generate() *Document {
	doc := &Document{}
	for _, base := range baseProfiles() {
		rng := rand.New(rand.NewSource(seedFor(d.Name + "/" + base.industry)))
		p := base

		ind := Industry{Name: p.industry}
		for i := 0; demoFirstYear+i <= demoLastYear; i++ {
			if i > 0 {
				p.intake *= 1 + p.intakeTrend
				p.growth += p.growthTrend
			}
			d.shape(&p, i)

			ind.Records = append(ind.Records, RecordSchema{
				Year:           demoFirstYear + i,
				InternsIntake:  math.Round(math.Max(0, p.intake*(1+noise(rng, 0.04)))),
				ConversionRate: analysis.Round3(clamp(p.conversion+noise(rng, 0.02), 0.05, 0.98)),
				AttritionRate:  analysis.Round3(clamp(p.attrition+noise(rng, 0.01), 0.01, 0.6)),
				GrowthRate:     analysis.Round2(p.growth + noise(rng, 0.6)),
				TopSkills:      rotate(p.skills, i),
			})
		}
		doc.Industries = append(doc.Industries, ind)
	}
	return doc
}

// noise is uniform in [-amp, amp).
func noise(rng *rand.Rand, amp float64) float64 {
	return (rng.Float64()*2 - 1) * amp
}

// rotate moves the third skill to the front from the fourth year on.
func rotate(skills []string, yearIndex int) []string {
	out := append([]string(nil), skills...)
	if yearIndex >= 3 && len(out) > 2 {
		out[0], out[2] = out[2], out[0]
	}
	return out
}

func seedFor(s string) int64 {
	var h int64 = 17
	for _, r := range s {
		h = h*31 + int64(r)
	}
	return h
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
