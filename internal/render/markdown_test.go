package render

import (
	"strings"
	"testing"
)

func TestMarkdown_HTML(t *testing.T) {
	m := NewMarkdown()

	tests := []struct {
		name        string
		in          string
		contains    []string
		notContains []string
	}{
		{
			name:     "empty",
			in:       "",
			contains: nil,
		},
		{
			name:     "emphasis and lists",
			in:       "**ubiquitous** means:\n\n- found everywhere\n- very common",
			contains: []string{"<strong>ubiquitous</strong>", "<li>found everywhere</li>"},
		},
		{
			name:     "table",
			in:       "| word | meaning |\n|---|---|\n| apple | quả táo |",
			contains: []string{"<table>", "<td>quả táo</td>"},
		},
		{
			name:        "raw html is not passed through",
			in:          "hi <script>alert(1)</script>",
			notContains: []string{"<script>"},
		},
		{
			name:        "javascript links are dropped",
			in:          "[click](javascript:alert(1))",
			notContains: []string{"javascript:"},
		},
		{
			name:     "external links get nofollow",
			in:       "see https://dictionary.cambridge.org",
			contains: []string{"nofollow", `target="_blank"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.HTML(tt.in)
			if err != nil {
				t.Fatalf("HTML() unexpected error: %v", err)
			}
			if tt.in == "" && got != "" {
				t.Errorf("HTML(\"\") = %q, want empty", got)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("HTML() = %q, want it to contain %q", got, want)
				}
			}
			for _, bad := range tt.notContains {
				if strings.Contains(got, bad) {
					t.Errorf("HTML() = %q, must not contain %q", got, bad)
				}
			}
		})
	}
}
