package extract

import (
	"bytes"
	"encoding/json"
	"strings"
)

type ExperienceEntry struct {
	Position    string `json:"position"`
	Company     string `json:"company"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

type EducationEntry struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Duration    string `json:"duration"`
}

// CandidateProfile is the shape the prompt asks the model for.
type CandidateProfile struct {
	Name        string            `json:"name"`
	Title       string            `json:"title"`
	ContactInfo string            `json:"contactInfo"`
	Location    string            `json:"location"`
	Summary     string            `json:"summary"`
	Skills      []string          `json:"skills"`
	Experience  []ExperienceEntry `json:"experience"`
	Education   []EducationEntry  `json:"education"`
	AIAnalysis  string            `json:"aiAnalysis"`
}

// Result is the outcome of parsing untrusted model output: either a
// validated CandidateProfile or the raw response text. It serializes as the
// profile object or as {"raw": <text>}, which is exactly what gets stored in
// the tracking row's extracted_result column.
type Result struct {
	Profile *CandidateProfile
	Raw     string
}

func (r Result) Structured() bool { return r.Profile != nil }

func (r Result) MarshalJSON() ([]byte, error) {
	if r.Profile != nil {
		return json.Marshal(r.Profile)
	}
	return json.Marshal(struct {
		Raw string `json:"raw"`
	}{Raw: r.Raw})
}

// ParseModelOutput turns model output into a Result without ever failing:
//  1. strip markdown fences, try a strict decode into CandidateProfile;
//  2. retry on the span between the first '{' and the last '}' (models like
//     to wrap the object in prose);
//  3. fall back to the raw text.
func ParseModelOutput(text string) Result {
	cleaned := stripFences(text)

	if p, ok := decodeProfile(cleaned); ok {
		return Result{Profile: p}
	}

	if span, ok := braceSpan(cleaned); ok && span != cleaned {
		if p, ok := decodeProfile(span); ok {
			return Result{Profile: p}
		}
	}

	return Result{Raw: text}
}

// decodeProfile is the strict parse: unknown fields are rejected and a
// profile carrying no recognizable content does not count as structured.
func decodeProfile(s string) (*CandidateProfile, bool) {
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.DisallowUnknownFields()

	var p CandidateProfile
	if err := dec.Decode(&p); err != nil {
		return nil, false
	}
	// trailing non-whitespace after the object means this was not bare JSON
	if dec.More() {
		return nil, false
	}
	if !p.hasContent() {
		return nil, false
	}
	return &p, true
}

func (p *CandidateProfile) hasContent() bool {
	return p.Name != "" || p.Title != "" || p.Summary != "" ||
		len(p.Skills) > 0 || len(p.Experience) > 0 || len(p.Education) > 0
}

func braceSpan(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
