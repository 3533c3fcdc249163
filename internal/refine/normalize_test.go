package refine

import (
	"strings"
	"testing"
)

func TestClampClarity(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  int
	}{
		{name: "above range clamps to ceiling", input: 15, want: 10},
		{name: "negative clamps to floor", input: -5, want: 1},
		{name: "zero means absent, maps to midpoint", input: 0, want: 5},
		{name: "in range unchanged", input: 7, want: 7},
		{name: "floor boundary", input: 1, want: 1},
		{name: "ceiling boundary", input: 10, want: 10},
		{name: "just above ceiling", input: 11, want: 10},
		{name: "fractional below floor", input: 0.5, want: 1},
		{name: "fractional in range truncates", input: 7.6, want: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClampClarity(tt.input)
			if got != tt.want {
				t.Errorf("ClampClarity(%v) = %d, want %d", tt.input, got, tt.want)
			}
			// clamping an already-clamped value is a no-op
			if again := ClampClarity(float64(got)); again != got {
				t.Errorf("ClampClarity not idempotent: %d -> %d", got, again)
			}
		})
	}
}

func TestParseContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantOK  bool
		wantLen int
	}{
		{
			name:    "plain json object",
			content: `{"suggestions":[{"id":"1","refined":"a","clarity":5,"explanation":"x"}]}`,
			wantOK:  true,
			wantLen: 1,
		},
		{
			name:    "fenced json",
			content: "```json\n{\"suggestions\":[{\"refined\":\"a\"}]}\n```",
			wantOK:  true,
			wantLen: 1,
		},
		{
			name:    "empty suggestions array is valid",
			content: `{"suggestions":[]}`,
			wantOK:  true,
			wantLen: 0,
		},
		{
			name:    "not json at all",
			content: "Invalid JSON response",
			wantOK:  false,
		},
		{
			name:    "json without suggestions key",
			content: `{"answers":[]}`,
			wantOK:  false,
		},
		{
			name:    "suggestions is not an array",
			content: `{"suggestions":"nope"}`,
			wantOK:  false,
		},
		{
			name:    "suggestion entries are not objects",
			content: `{"suggestions":["a","b"]}`,
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, ok := ParseContent(tt.content)
			if ok != tt.wantOK {
				t.Fatalf("ParseContent ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && len(raw) != tt.wantLen {
				t.Errorf("len = %d, want %d", len(raw), tt.wantLen)
			}
		})
	}
}

func TestNormalizeTruncatesToThree(t *testing.T) {
	raw := []map[string]any{
		{"refined": "one"},
		{"refined": "two"},
		{"refined": "three"},
		{"refined": "four"},
		{"refined": "five"},
	}

	got := Normalize(raw, "prompt")
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	// upstream order preserved
	for i, want := range []string{"one", "two", "three"} {
		if got[i].Refined != want {
			t.Errorf("suggestion %d refined = %q, want %q", i, got[i].Refined, want)
		}
	}
}

func TestNormalizeDefaults(t *testing.T) {
	const prompt = "Tell me about dogs"

	tests := []struct {
		name  string
		entry map[string]any
		check func(t *testing.T, id, refined string, clarity int, explanation string)
	}{
		{
			name:  "entirely empty entry",
			entry: map[string]any{},
			check: func(t *testing.T, id, refined string, clarity int, explanation string) {
				if id != "1" {
					t.Errorf("id = %q, want positional %q", id, "1")
				}
				if refined != prompt {
					t.Errorf("refined = %q, want original prompt", refined)
				}
				if clarity != 5 {
					t.Errorf("clarity = %d, want 5", clarity)
				}
				if explanation == "" {
					t.Error("explanation should have a non-empty default")
				}
			},
		},
		{
			name:  "numeric id kept as string",
			entry: map[string]any{"id": float64(7)},
			check: func(t *testing.T, id, _ string, _ int, _ string) {
				if id != "7" {
					t.Errorf("id = %q, want %q", id, "7")
				}
			},
		},
		{
			name:  "mistyped refined falls back to prompt",
			entry: map[string]any{"refined": float64(42)},
			check: func(t *testing.T, _, refined string, _ int, _ string) {
				if refined != prompt {
					t.Errorf("refined = %q, want original prompt", refined)
				}
			},
		},
		{
			name:  "mistyped clarity maps to midpoint",
			entry: map[string]any{"clarity": "very clear"},
			check: func(t *testing.T, _, _ string, clarity int, _ string) {
				if clarity != 5 {
					t.Errorf("clarity = %d, want 5", clarity)
				}
			},
		},
		{
			name:  "out of range clarity clamped",
			entry: map[string]any{"clarity": float64(99)},
			check: func(t *testing.T, _, _ string, clarity int, _ string) {
				if clarity != 10 {
					t.Errorf("clarity = %d, want 10", clarity)
				}
			},
		},
		{
			name: "well-formed entry untouched",
			entry: map[string]any{
				"id":          "s-1",
				"refined":     "Describe dog breeds in detail",
				"clarity":     float64(8),
				"explanation": "More specific",
			},
			check: func(t *testing.T, id, refined string, clarity int, explanation string) {
				if id != "s-1" || refined != "Describe dog breeds in detail" || clarity != 8 || explanation != "More specific" {
					t.Errorf("entry was altered: %q %q %d %q", id, refined, clarity, explanation)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize([]map[string]any{tt.entry}, prompt)
			if len(got) != 1 {
				t.Fatalf("len = %d, want 1", len(got))
			}
			s := got[0]
			tt.check(t, s.ID, s.Refined, s.Clarity, s.Explanation)
		})
	}
}

func TestNormalizePositionalIDs(t *testing.T) {
	raw := []map[string]any{{}, {}, {}}

	got := Normalize(raw, "p")
	for i, want := range []string{"1", "2", "3"} {
		if got[i].ID != want {
			t.Errorf("suggestion %d id = %q, want %q", i, got[i].ID, want)
		}
	}
}

func TestFallback(t *testing.T) {
	const prompt = "Tell me about dogs"

	got := Fallback(prompt)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	s := got[0]
	if !strings.Contains(s.Refined, prompt) {
		t.Errorf("fallback refined %q does not reference the original prompt", s.Refined)
	}
	if s.Clarity != 5 {
		t.Errorf("clarity = %d, want 5", s.Clarity)
	}
	if s.ID != "1" || s.Explanation == "" {
		t.Errorf("fallback shape wrong: id=%q explanation=%q", s.ID, s.Explanation)
	}
}
