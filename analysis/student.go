/*
student.go - Student-facing reframing of the industry view

PURPOSE:
  Translates the same scored row into guidance for someone entering the
  industry: hiring outlook, competition level, preparation steps, skills by
  tier and an optional suggestion to look at a different industry.
*/
package analysis

import (
	"fmt"

	"github.com/warp/workforce-engine/simulation"
)

// Skill is a named competency with a level and a one-line rationale.
type Skill struct {
	Name  string `json:"name"`
	Level string `json:"level"`
	Why   string `json:"why"`
}

// SkillTiers groups skills by horizon.
type SkillTiers struct {
	Core     []Skill `json:"core"`
	InDemand []Skill `json:"in_demand"`
	Future   []Skill `json:"future"`
}

// IndustrySwitch suggests an industry with a better demand-to-risk balance.
type IndustrySwitch struct {
	TargetIndustry string `json:"Target_Industry"`
	Reason         string `json:"Reason"`
}

// StudentInsights is the student reframing of one industry/year.
type StudentInsights struct {
	HiringOutlook          string          `json:"Hiring_Outlook"`
	OutlookDescription     string          `json:"Outlook_Description"`
	CompetitionLevel       string          `json:"Competition_Level"`
	CompetitionDescription string          `json:"Competition_Description"`
	PreparationGuidance    []string        `json:"Preparation_Guidance"`
	IndustrySwitch         *IndustrySwitch `json:"Industry_Switch"`
	Skills                 SkillTiers      `json:"Skills"`
}

// Competition levels.
const (
	HyperCompetitive = "Hyper-Competitive"
	Selective        = "Selective"
	HighOpportunity  = "High Opportunity"
	GrowthLed        = "Growth-led"
	Balanced         = "Balanced"
)

// StudentDashboard is Dashboard with StudentInsights attached.
func (m *Model) StudentDashboard(industry string, year int) (*Dashboard, error) {
	d, err := m.Dashboard(industry, year)
	if err != nil {
		return nil, err
	}
	row, _ := m.Row(industry, year)
	d.StudentInsights = m.studentInsights(row)
	return d, nil
}

func (m *Model) studentInsights(row Row) *StudentInsights {
	in := &StudentInsights{}
	in.HiringOutlook, in.OutlookDescription = outlook(row)
	in.CompetitionLevel, in.CompetitionDescription = competition(row)
	in.PreparationGuidance = m.guidance(row, in.CompetitionLevel)
	in.IndustrySwitch = m.industrySwitch(row)
	in.Skills = m.skills(row)
	return in
}

func outlook(row Row) (string, string) {
	risk, demand := row.RiskScore, row.DemandScore
	growth, conversion := row.GrowthRate, row.ConversionRate
	industry := row.Industry

	switch {
	case risk <= 30 && demand >= 60:
		label := "Favorable"
		if growth > 0.08 {
			label = "Excellent"
		}
		if growth > 0.05 {
			return label, fmt.Sprintf("Rapidly expanding %s market. Strong demand combined with high growth makes this an ideal entry point for early-career professionals.", industry)
		}
		return label, fmt.Sprintf("Stable and favorable %s outlook. Consistent hiring and low risk provide a secure career trajectory.", industry)
	case risk <= 55:
		label := "Moderate"
		if conversion > 0.8 {
			label = "Promising"
		}
		if conversion > 0.75 {
			return label, "Balanced market with high internship-to-job conversion. Competition exists, but focus on hands-on experience as a primary differentiator."
		}
		return label, fmt.Sprintf("Transitional %s market. Evolving industry requirements mean students should focus on both traditional and emerging skills to stay relevant.", industry)
	default:
		label := "Competitive"
		if risk > 85 {
			label = "Niche-only"
		}
		return label, fmt.Sprintf("High-bar entry environment in %s. Success requires elite technical specializations and a strong professional network to bypass standard filters.", industry)
	}
}

func competition(row Row) (string, string) {
	gap := row.Gap()
	industry := row.Industry

	switch {
	case gap < -30:
		return HyperCompetitive, fmt.Sprintf("Market saturation in %s is high. Generalist roles are extremely contested; focus on distinct technical edge cases.", industry)
	case gap < -15:
		return Selective, fmt.Sprintf("Applicant supply in %s outpaces standard demand. Focus on highly specialized niches to stand out from the general pool.", industry)
	case gap > 20:
		return HighOpportunity, fmt.Sprintf("Significant talent shortage in %s. Employers are actively competing for graduates with core competencies.", industry)
	case gap > 5 || (gap > 0 && row.GrowthRate > 0.08):
		return GrowthLed, fmt.Sprintf("Emerging demand in %s is creating new vacancies faster than they can be filled. Early entry is highly advantageous.", industry)
	default:
		return Balanced, fmt.Sprintf("Stable talent equilibrium in %s. Typical recruitment cycles; standard qualifications and strong portfolios are the keys to success.", industry)
	}
}

func (m *Model) guidance(row Row, level string) []string {
	var out []string

	surge := m.HiringSurge(row)
	switch {
	case surge != nil && *surge == simulation.OneToThreeMonths:
		out = append(out, "Immediate Action: Finalize your portfolio and start applying now to catch the upcoming hiring peak.")
	case surge != nil && *surge == simulation.FourToSixMonths:
		out = append(out, "Strategic Prep: Use the next quarter to master 1-2 'In-Demand' skills before the surge begins.")
	default:
		out = append(out, "Plan Ahead: Aim for foundational certifications and early internships to build a long-term lead.")
	}

	switch level {
	case HyperCompetitive, Selective:
		out = append(out, "Differentiation: Focus on multi-disciplinary projects to stand out in a crowded applicant pool.")
	case HighOpportunity:
		out = append(out, "Speed-to-Market: Optimize your LinkedIn and resume for rapid technical screening.")
	}

	out = append(out, fmt.Sprintf("Network Strategy: Connect with 3-5 professionals currently in %s to understand team culture.", row.Industry))

	if row.ConversionRate > 0.7 {
		out = append(out, "Internship Focus: Target top-tier internships here, as conversion rates to full-time roles are exceptional.")
	} else {
		out = append(out, "Broaden Search: Diversify your applications beyond just internships to include direct entry-level roles.")
	}
	return out
}

// industrySwitch picks the industry with the best demand-minus-risk score in
// the same year, if it beats the current one.
func (m *Model) industrySwitch(row Row) *IndustrySwitch {
	current := row.DemandScore - row.RiskScore
	best, bestDiff := "", -999.0

	for _, industry := range m.industries {
		if industry == row.Industry {
			continue
		}
		other, err := m.Row(industry, row.Year)
		if err != nil {
			continue
		}
		if diff := other.DemandScore - other.RiskScore; diff > bestDiff {
			best, bestDiff = industry, diff
		}
	}

	if best == "" || bestDiff <= current {
		return nil
	}
	return &IndustrySwitch{
		TargetIndustry: best,
		Reason:         fmt.Sprintf("%s offers stronger opportunities with a better demand-to-risk ratio.", best),
	}
}

// skills reads the top skills of the row's year, falling back to the most
// recent observed year when the row carries none (forecast rows).
func (m *Model) skills(row Row) SkillTiers {
	names := row.TopSkills
	if len(names) == 0 {
		rows := m.rows[row.Industry]
		for i := len(rows) - 1; i >= 0; i-- {
			if len(rows[i].TopSkills) > 0 {
				names = rows[i].TopSkills
				break
			}
		}
	}

	var tiers SkillTiers
	if len(names) > 0 {
		tiers.Core = append(tiers.Core, Skill{Name: names[0], Level: "High", Why: "Essential foundational competency"})
	}
	tiers.Core = append(tiers.Core, Skill{Name: "Communication", Level: "High", Why: "Cross-functional collaboration"})

	if len(names) > 1 {
		tiers.InDemand = append(tiers.InDemand, Skill{Name: names[1], Level: "Medium", Why: "High-velocity technical requirement"})
	}
	analytics := "Data Analysis"
	if len(names) > 4 {
		analytics = names[2]
	}
	tiers.InDemand = append(tiers.InDemand, Skill{Name: analytics, Level: "Medium", Why: "Data-driven decision making"})

	if len(names) > 2 {
		tiers.Future = append(tiers.Future, Skill{Name: names[2], Level: "Emerging", Why: "Next-gen technical frontier"})
	}
	tiers.Future = append(tiers.Future, Skill{Name: "Cloud Architecture", Level: "Emerging", Why: "Scalable infrastructure expertise"})

	return tiers
}
