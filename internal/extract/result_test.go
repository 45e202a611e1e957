package extract

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestParseModelOutputStructured(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "bare json",
			input: `{"name":"Jane Doe","title":"Backend Engineer","skills":["Go","SQL"]}`,
		},
		{
			name: "fenced json",
			input: "```json\n" +
				`{"name":"Jane Doe","title":"Backend Engineer","skills":["Go","SQL"]}` +
				"\n```",
		},
		{
			name:  "json wrapped in prose",
			input: "Here is the extracted profile:\n{\"name\":\"Jane Doe\",\"title\":\"Backend Engineer\",\"skills\":[\"Go\",\"SQL\"]}\nLet me know if you need anything else.",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseModelOutput(tc.input)
			if !got.Structured() {
				t.Fatalf("ParseModelOutput(%q) not structured, raw=%q", tc.input, got.Raw)
			}
			if got.Profile.Name != "Jane Doe" {
				t.Errorf("name = %q, want %q", got.Profile.Name, "Jane Doe")
			}
			if len(got.Profile.Skills) != 2 || got.Profile.Skills[0] != "Go" {
				t.Errorf("skills = %v, want [Go SQL]", got.Profile.Skills)
			}
		})
	}
}

func TestParseModelOutputFallsBackToRaw(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "plain text", input: "Not JSON at all"},
		{name: "empty", input: ""},
		{name: "unknown field", input: `{"name":"Jane","unexpected":"field"}`},
		{name: "empty object", input: `{}`},
		{name: "truncated json", input: `{"name":"Jane","skills":["Go"`},
		{name: "json array", input: `["Go","SQL"]`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseModelOutput(tc.input)
			if got.Structured() {
				t.Fatalf("ParseModelOutput(%q) = structured %+v, want raw fallback", tc.input, got.Profile)
			}
			if got.Raw != tc.input {
				t.Errorf("raw = %q, want the original text %q", got.Raw, tc.input)
			}
		})
	}
}

func TestParseModelOutputNestedEntries(t *testing.T) {
	input := `{
		"name": "Jane Doe",
		"title": "Backend Engineer",
		"contactInfo": "jane@example.com",
		"location": "Jakarta",
		"summary": "Seven years building services.",
		"skills": ["Go", "PostgreSQL"],
		"experience": [{"position":"Engineer","company":"Acme","duration":"2019-2024","description":"APIs"}],
		"education": [{"degree":"BSc","institution":"UI","duration":"2012-2016"}],
		"aiAnalysis": "Strong backend profile."
	}`

	got := ParseModelOutput(input)
	if !got.Structured() {
		t.Fatalf("expected structured result, got raw %q", got.Raw)
	}
	if len(got.Profile.Experience) != 1 || got.Profile.Experience[0].Company != "Acme" {
		t.Errorf("experience = %+v", got.Profile.Experience)
	}
	if len(got.Profile.Education) != 1 || got.Profile.Education[0].Degree != "BSc" {
		t.Errorf("education = %+v", got.Profile.Education)
	}
	if got.Profile.AIAnalysis == "" {
		t.Error("aiAnalysis lost in parse")
	}
}

func TestResultMarshalJSON(t *testing.T) {
	raw := Result{Raw: "Not JSON at all"}
	b, err := json.Marshal(raw)
	if err != nil {
		t.Fatalf("marshal raw result: %v", err)
	}
	if string(b) != `{"raw":"Not JSON at all"}` {
		t.Errorf("raw marshal = %s", b)
	}

	structured := Result{Profile: &CandidateProfile{Name: "Jane Doe", Skills: []string{"Go"}}}
	b, err = json.Marshal(structured)
	if err != nil {
		t.Fatalf("marshal structured result: %v", err)
	}
	if !strings.Contains(string(b), `"name":"Jane Doe"`) {
		t.Errorf("structured marshal = %s", b)
	}
	if strings.Contains(string(b), `"raw"`) {
		t.Errorf("structured marshal leaks raw wrapper: %s", b)
	}
}

func TestBuildPromptEmbedsText(t *testing.T) {
	prompt := BuildPrompt("JANE DOE\nBackend Engineer")
	if !strings.Contains(prompt, "JANE DOE") {
		t.Error("prompt does not carry the CV text")
	}
	if !strings.Contains(prompt, "aiAnalysis") {
		t.Error("prompt does not ask for the aiAnalysis field")
	}
}
