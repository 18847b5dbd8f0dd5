package domain

import "testing"

func TestNormalizeSearch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "trim spaces", input: "  genie  ", want: "genie"},
		{name: "case preserved", input: "Génie Logiciel", want: "Génie Logiciel"},
		{name: "compress multiple spaces", input: "genie   logiciel", want: "genie logiciel"},
		{name: "empty string", input: "", want: ""},
		{name: "only spaces", input: "   ", want: ""},
		{name: "tabs and spaces", input: "\t info \t", want: "info"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeSearch(tt.input); got != tt.want {
				t.Errorf("NormalizeSearch(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
