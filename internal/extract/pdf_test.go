package extract

import "testing"

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "collapses blank lines", in: "a\n\n\nb\n", want: "a\nb"},
		{name: "trims each line", in: "  a  \n\t b \n", want: "a\nb"},
		{name: "empty input", in: "\n \n\t\n", want: ""},
		{name: "single line", in: "hello", want: "hello"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CleanText(tc.in); got != tc.want {
				t.Errorf("CleanText(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestPDFExtractorRejectsGarbage(t *testing.T) {
	e := NewPDFExtractor()
	if _, err := e.Text([]byte("not a pdf")); err == nil {
		t.Fatal("expected error for non-PDF input")
	}
}
