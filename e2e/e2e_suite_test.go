package e2e

import (
	"flag"
	"testing"

	"github.com/gravitational/hrmtest/e2e/framework"
)

func init() {
	framework.TestContext.RegisterFlags(flag.CommandLine)
}

func TestE2E(t *testing.T) {
	RunE2ETests(t)
}
