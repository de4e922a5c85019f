package ai

import (
	"fmt"
	"strings"

	"github.com/careerai/careerai/pkg/models"
)

const (
	maxResumeBytes      = 12000
	maxDescriptionBytes = 8000
)

const analysisPrompt = `You are an expert resume reviewer and applicant tracking system (ATS) specialist.
Score the resume below and reply with JSON only. Do not wrap the output in markdown code blocks.

### OUTPUT SCHEMA:
{
  "total": number 0-100,
  "breakdown": {"ats": number 0-100, "impact": number 0-100, "keywords": number 0-100, "clarity": number 0-100},
  "explanation": {"ats": [string], "impact": [string], "keywords": [string], "clarity": [string]},
  "keywords": {"present": [string], "missing": [string], "irrelevant": [string]},
  "suggestions": [{
    "id": string,
    "type": one of %s,
    "severity": one of %s,
    "section_target": one of %s,
    "description": string,
    "proposed_fix": string
  }]
}
%s
### RESUME:
%s
`

const coverLetterPrompt = `You are a career coach writing a cover letter for a job application.
Write a concise, specific cover letter (250-350 words) in plain text. No placeholders, no markdown.

### ROLE:
%s at %s
%s%s`

const interviewPrepPrompt = `You are a senior interviewer preparing a candidate for an interview.
Produce interview preparation notes in markdown: likely questions grouped by theme, what a strong
answer covers for each, and three questions the candidate should ask the interviewer.

### ROLE:
%s at %s
%s%s`

func buildAnalysisPrompt(resume *models.Resume, job *models.Job) string {
	target := ""
	if job != nil {
		target = fmt.Sprintf("\n### TARGET ROLE:\n%s at %s\n%s\n", job.Title, job.CompanyName, describeJob(job))
	}
	return fmt.Sprintf(analysisPrompt,
		enumList(models.SuggestionTypes),
		enumList(models.SuggestionSeverity),
		enumList(models.SectionTargets),
		target,
		truncateString(resume.Content, maxResumeBytes),
	)
}

func buildDocumentPrompt(kind string, job *models.Job, resume *models.Resume) string {
	tmpl := coverLetterPrompt
	if kind == models.DocumentInterviewPrep {
		tmpl = interviewPrepPrompt
	}
	resumeSection := ""
	if resume != nil {
		resumeSection = "\n### CANDIDATE RESUME:\n" + truncateString(resume.Content, maxResumeBytes) + "\n"
	}
	return fmt.Sprintf(tmpl, job.Title, job.CompanyName, describeJob(job), resumeSection)
}

func describeJob(job *models.Job) string {
	if job.Description == nil || strings.TrimSpace(*job.Description) == "" {
		return ""
	}
	return "\n### JOB DESCRIPTION:\n" + truncateString(*job.Description, maxDescriptionBytes) + "\n"
}

func enumList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = `"` + v + `"`
	}
	return strings.Join(quoted, " | ")
}
