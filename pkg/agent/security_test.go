package agent

import (
	"strings"
	"testing"
)

func TestValidate_SafeInputs(t *testing.T) {
	v := NewSecurityValidator()

	safe := []string{
		"summarize https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"hello",
		"https://youtu.be/dQw4w9WgXcQ please",
		"can you break down this video for me",
	}

	for _, input := range safe {
		if ok, reason := v.Validate(input); !ok {
			t.Errorf("Validate(%q) rejected safe input: %s", input, reason)
		}
	}
}

func TestValidate_Threats(t *testing.T) {
	v := NewSecurityValidator()

	tests := []struct {
		name   string
		input  string
		reason string
	}{
		{
			name:   "empty input",
			input:  "",
			reason: "non-empty string",
		},
		{
			name:   "sql injection",
			input:  "'; DROP TABLE users",
			reason: "SQL injection",
		},
		{
			name:   "sql comment",
			input:  "watch this -- totally legit",
			reason: "SQL injection",
		},
		{
			name:   "command injection",
			input:  "summarize `cat /etc/passwd`",
			reason: "command injection",
		},
		{
			name:   "command chaining",
			input:  "video && rm -rf /",
			reason: "command injection",
		},
		{
			name:   "path traversal",
			input:  "../../secret",
			reason: "path traversal",
		},
		{
			name:   "script injection",
			input:  "<script>alert(1)</script>",
			reason: "script injection",
		},
		{
			name:   "javascript url",
			input:  "javascript:alert(1)",
			reason: "script injection",
		},
		{
			name:   "null bytes",
			input:  "hello\x00world",
			reason: "Null bytes",
		},
		{
			name:   "excessive length",
			input:  strings.Repeat("a b ", 2000),
			reason: "maximum length",
		},
		{
			name:   "repeated characters",
			input:  strings.Repeat("z", 60),
			reason: "repetition",
		},
		{
			name:   "oversized URL",
			input:  "https://youtube.com/watch?v=" + strings.Repeat("a1", 1500),
			reason: "URL exceeds",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := v.Validate(tt.input)
			if ok {
				t.Fatalf("Validate(%q) accepted unsafe input", tt.input)
			}
			if !strings.Contains(reason, tt.reason) {
				t.Errorf("reason = %q, want substring %q", reason, tt.reason)
			}
		})
	}
}

func TestValidate_RepetitionBoundary(t *testing.T) {
	v := NewSecurityValidator()

	if ok, _ := v.Validate(strings.Repeat("x", 50)); !ok {
		t.Error("50 repeated chars should be allowed")
	}
	if ok, _ := v.Validate(strings.Repeat("x", 51)); ok {
		t.Error("51 repeated chars should be rejected")
	}
}

func TestSanitizeForLog(t *testing.T) {
	got := SanitizeForLog("hello\x00\x1bworld", 100)
	if got != "helloworld" {
		t.Errorf("SanitizeForLog() = %q", got)
	}

	long := strings.Repeat("a", 150)
	got = SanitizeForLog(long, 100)
	if got != strings.Repeat("a", 100)+"..." {
		t.Errorf("truncated output = %q", got)
	}
}

func TestGreetingResponse(t *testing.T) {
	for _, pt := range []promptType{promptIdentity, promptGreeting, promptGeneral} {
		if greetingResponse(pt) == "" {
			t.Errorf("greetingResponse(%q) returned empty string", pt)
		}
	}
}

func TestFormatError(t *testing.T) {
	if got := formatError("Oops", ""); got != " **Oops**" {
		t.Errorf("formatError without details = %q", got)
	}
	got := formatError("Oops", "details here")
	if !strings.Contains(got, "**Oops**") || !strings.Contains(got, "details here") {
		t.Errorf("formatError with details = %q", got)
	}
}
