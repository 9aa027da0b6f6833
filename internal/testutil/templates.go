// internal/testutil/templates.go
package testutil

import (
	"sync"
	"testing"

	"github.com/dalemusser/reliefhub/internal/app/resources"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

var (
	bootOnce sync.Once
	bootErr  error
)

// BootTemplates compiles every template set registered in the test binary
// (the shared layout plus each imported feature's set) and installs the
// engine used by templates.Render. Safe to call from every test.
func BootTemplates(t *testing.T) {
	t.Helper()
	bootOnce.Do(func() {
		resources.LoadSharedTemplates()
		eng := templates.New(false)
		if bootErr = eng.Boot(zap.NewNop()); bootErr != nil {
			return
		}
		templates.UseEngine(eng, zap.NewNop())
	})
	if bootErr != nil {
		t.Fatalf("template boot failed: %v", bootErr)
	}
}
