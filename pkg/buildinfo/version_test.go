package buildinfo

import (
	"strings"
	"testing"
)

func TestTemplate(t *testing.T) {
	tmpl := Template()
	if !strings.Contains(tmpl, "{{.Name}}") {
		t.Errorf("Template() = %q, should reference the command name", tmpl)
	}
	if !strings.Contains(tmpl, Version) {
		t.Errorf("Template() = %q, should contain version %q", tmpl, Version)
	}
}

func TestUserAgent(t *testing.T) {
	old := Version
	Version = "v1.2.3"
	defer func() { Version = old }()

	if got := UserAgent(); !strings.HasPrefix(got, "rustprint/v1.2.3 ") {
		t.Errorf("UserAgent() = %q", got)
	}
}
