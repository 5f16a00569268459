package predict

import (
	"testing"

	"nanoeln/testutil"
)

func TestPredictorDependsOnlyOnDomain(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.ModuleImportsExcept("nanoeln/pkg/domain"), "predictors must be replaceable without touching the store")
}
