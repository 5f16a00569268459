package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type captureFatal struct{ msg string }

func (c *captureFatal) Fatalf(format string, args ...any) { c.msg = fmt.Sprintf(format, args...) }

func writeGo(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestDirectImportViolations(t *testing.T) {
	dir := t.TempDir()
	writeGo(t, dir, "a.go", "package x\n\nimport (\n\t\"fmt\"\n\t\"nanoeln/internal/eln\"\n\t\"nanoeln/pkg/domain\"\n)\n")
	writeGo(t, dir, "a_test.go", "package x\n\nimport \"nanoeln/internal/core\"\n")
	writeGo(t, dir, "notes.txt", "import \"nanoeln/internal/core\"")

	viols, err := directImportViolations(dir, ModuleImportsExcept("nanoeln/pkg/domain"))
	if err != nil {
		t.Fatalf("directImportViolations: %v", err)
	}
	if len(viols) != 1 || !strings.HasPrefix(viols[0], "nanoeln/internal/eln (in a.go)") {
		t.Fatalf("unexpected violations: %v", viols)
	}
}

func TestDirectImportViolationsParseError(t *testing.T) {
	dir := t.TempDir()
	writeGo(t, dir, "broken.go", "package x\nimport (\n")
	if _, err := directImportViolations(dir, InternalImportForbidden); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestModuleImportsExcept(t *testing.T) {
	pred := ModuleImportsExcept("nanoeln/pkg/domain")
	cases := map[string]bool{
		"fmt":                    false,
		"nanoeln/pkg/domain":     false,
		"nanoeln/internal/seed":  true,
		"nanoeln":                true,
		"nanoelnx/other":         false,
		"github.com/google/uuid": false,
	}
	for path, want := range cases {
		if got := pred(path); got != want {
			t.Fatalf("pred(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestFailIfDirectViolations(t *testing.T) {
	c := &captureFatal{}
	failIfDirectViolations(c, "reason", nil)
	if c.msg != "" {
		t.Fatalf("unexpected failure: %s", c.msg)
	}
	failIfDirectViolations(c, "domain purity", []string{"nanoeln/internal/eln (in a.go)"})
	if !strings.Contains(c.msg, "domain purity") || !strings.Contains(c.msg, "a.go") {
		t.Fatalf("unexpected message: %s", c.msg)
	}
}
