package e2e

import (
	"github.com/gravitational/hrmtest/e2e/framework"
	"github.com/gravitational/hrmtest/e2e/specs"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = framework.RoboDescribe("OrangeHRM", func() {
	var session *framework.Session

	BeforeEach(func() {
		session = startSession()
	})

	AfterEach(func() {
		stopSession(session)
		session = nil
	})

	for _, scenario := range specs.Scenarios {
		scenario := scenario
		It(scenario.Name+" "+scenario.Description, func() {
			Expect(scenario.Execute(session)).To(Succeed())
		})
	}
})
