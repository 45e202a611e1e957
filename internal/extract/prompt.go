package extract

import "strings"

// BuildPrompt embeds the CV text into the fixed extraction instruction. The
// requested shape must match CandidateProfile exactly; the model is told to
// answer with bare JSON so ParseModelOutput can take the strict path.
func BuildPrompt(cvText string) string {
	var sb strings.Builder
	sb.WriteString("Analyze the following CV/resume and extract key information in a structured JSON format:\n\n")
	sb.WriteString(cvText)
	sb.WriteString(`

Extract and return a JSON object with the following structure:
{
  "name": "Candidate's full name",
  "title": "Job title/role",
  "contactInfo": "Email and/or phone",
  "location": "City, Country",
  "summary": "Brief professional summary",
  "skills": ["Skill 1", "Skill 2"],
  "experience": [
    {
      "position": "Job title",
      "company": "Company name",
      "duration": "Start date - End date",
      "description": "Brief description of responsibilities"
    }
  ],
  "education": [
    {
      "degree": "Degree name",
      "institution": "School/University name",
      "duration": "Start year - End year"
    }
  ],
  "aiAnalysis": "Provide a brief assessment of the candidate's strengths, experience level, and potential job fit"
}

Ensure the output is a valid JSON object without any markdown formatting or additional text.`)
	return sb.String()
}
