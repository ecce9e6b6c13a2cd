package compiler

import "testing"

func TestSanitize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Normal Text", "Hello World", "Hello World"},
		{"Trim", "  padded  ", "padded"},
		{"Space Runs", "a  b     c", "a b c"},
		{"Double Quotes", `say "hi"`, "say ''hi''"},
		{"Separators", "one; two;three", "one two three"},
		{"Comment Start", "http://example.com", "http:/ /example.com"},
		{"Long Comment Run", "a///b", "a/ / /b"},
		{"Newlines Kept", "line one\nline two", "line one\nline two"},
		{"Tabs", "a\tb", "a b"},
		{"Control Chars", "bell\x07 null\x00", "bell null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitize(tt.input)
			if got != tt.expected {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
