package domain

import (
	"testing"

	"nanoeln/testutil"
)

// The domain layer is imported by every other package, so it must not
// depend on any of them.
func TestDomainImportsNoModulePackages(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.ModuleImportsExcept(), "domain must stay free of implementation packages")
}
