package resume

import (
	"fmt"
	"strings"
)

// Job is an entry-level role and the skills it requires.
type Job struct {
	Title      string   `json:"title" yaml:"title"`
	CoreSkills []string `json:"core_skills" yaml:"core_skills"`
}

// DefaultJobs lists the roles offered per industry when a dataset does not
// bring its own.
var DefaultJobs = map[string][]Job{
	"IT": {
		{Title: "Software Engineer", CoreSkills: []string{"Python", "Data Structures", "Git", "SQL", "REST APIs"}},
		{Title: "Cloud Engineer", CoreSkills: []string{"AWS", "Linux", "Docker", "Kubernetes", "Networking"}},
		{Title: "Data Scientist", CoreSkills: []string{"Python", "Statistics", "ML", "SQL", "Data Visualization"}},
	},
	"Healthcare": {
		{Title: "Health Informatics Analyst", CoreSkills: []string{"SQL", "EHR Systems", "Data Analysis", "HIPAA"}},
		{Title: "Clinical Research Associate", CoreSkills: []string{"Clinical Trials", "GCP", "Data Management", "Regulatory Compliance"}},
	},
	"Manufacturing": {
		{Title: "Process Engineer", CoreSkills: []string{"Lean Manufacturing", "Six Sigma", "CAD", "Root Cause Analysis"}},
		{Title: "Automation Engineer", CoreSkills: []string{"PLC Programming", "Robotics", "SCADA", "Python"}},
	},
	"EV": {
		{Title: "Battery Systems Engineer", CoreSkills: []string{"Battery Engineering", "MATLAB", "Thermal Management", "Power Electronics"}},
		{Title: "Embedded Software Engineer", CoreSkills: []string{"C", "Embedded Systems", "CAN Bus", "RTOS"}},
	},
	"Finance": {
		{Title: "Financial Analyst", CoreSkills: []string{"Financial Modeling", "Excel", "Accounting", "Valuation"}},
		{Title: "Quantitative Analyst", CoreSkills: []string{"Python", "Statistics", "Risk Analysis", "SQL"}},
	},
}

// FindJob returns the job with the given title (case-insensitive).
func FindJob(jobs []Job, title string) (Job, error) {
	want := strings.TrimSpace(title)
	for _, j := range jobs {
		if strings.EqualFold(j.Title, want) {
			return j, nil
		}
	}
	return Job{}, fmt.Errorf("%w: %q", ErrJobNotFound, title)
}
