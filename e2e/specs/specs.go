// Package specs implements the browser scenarios of the OrangeHRM
// login and employee management workflows.
//
// A scenario is a plain function over a test session. The same scenarios
// run under the ginkgo suite and the command line runner.
package specs

import (
	"fmt"
	"strings"

	"github.com/gravitational/hrmtest/e2e/framework"
	"github.com/gravitational/hrmtest/e2e/uimodel/dashboard"
	"github.com/gravitational/hrmtest/e2e/uimodel/page"
	"github.com/gravitational/hrmtest/lib/config"
	"github.com/gravitational/hrmtest/lib/constants"

	"github.com/gravitational/trace"
)

// Scenario is a single browser test
type Scenario struct {
	// Name identifies the scenario
	Name string
	// Description reads as a sentence after the scenario name
	Description string
	// LoggedIn runs the login precondition before the scenario
	LoggedIn bool
	// Run executes the scenario steps
	Run func(s *framework.Session) error
}

// Execute runs the scenario on s, signing in first if required
func (r Scenario) Execute(s *framework.Session) error {
	log := s.Log.WithField(constants.FieldScenario, r.Name)
	log.Infof("------- Starting %v ----------", r.Name)
	if r.LoggedIn {
		if err := Login(s); err != nil {
			return trace.Wrap(err)
		}
	}
	return trace.Wrap(r.Run(s))
}

// Scenarios lists every scenario in execution order
var Scenarios = []Scenario{
	{
		Name:        "UserLogin",
		Description: "should land on the dashboard after signing in",
		Run:         UserLogin,
	},
	{
		Name:        "UserLogout",
		Description: "should return to the sign-in screen after signing out",
		LoggedIn:    true,
		Run:         UserLogout,
	},
	{
		Name:        "AddEmployee",
		Description: "should find a newly added employee by id",
		LoggedIn:    true,
		Run:         AddEmployee,
	},
	{
		Name:        "DeletePIMRecord",
		Description: "should delete the first employee record",
		LoggedIn:    true,
		Run:         DeletePIMRecord,
	},
	{
		Name:        "SearchEmployeeByName",
		Description: "should find an existing employee by name",
		LoggedIn:    true,
		Run:         SearchEmployeeByName,
	},
	{
		Name:        "SidebarSearch",
		Description: "should filter the main menu",
		LoggedIn:    true,
		Run:         SidebarSearch,
	},
}

// Names returns the scenario names
func Names() []string {
	names := make([]string, 0, len(Scenarios))
	for _, scenario := range Scenarios {
		names = append(names, scenario.Name)
	}
	return names
}

// Lookup returns the named scenarios in the given order, or every
// scenario if names is empty. Unknown names result in a single
// trace.NotFound listing all of them
func Lookup(names ...string) ([]Scenario, error) {
	if len(names) == 0 {
		return Scenarios, nil
	}
	var found []Scenario
	var missing []string
	for _, name := range names {
		scenario, ok := lookup(name)
		if !ok {
			missing = append(missing, fmt.Sprintf("%q", name))
			continue
		}
		found = append(found, scenario)
	}
	if len(missing) != 0 {
		return nil, trace.NotFound("no scenario named %v, expected one of %v",
			strings.Join(missing, ", "), Names())
	}
	return found, nil
}

func lookup(name string) (Scenario, bool) {
	for _, scenario := range Scenarios {
		if scenario.Name == name {
			return scenario, true
		}
	}
	return Scenario{}, false
}

// Login signs in with the configured administrative user and verifies the
// dashboard shows up. On failure the screen is saved as login_failed_<suffix>.png
func Login(s *framework.Session) error {
	text, err := signIn(s)
	if err != nil && !page.IsLocatorTimeout(err) {
		return trace.Wrap(err)
	}
	if err == nil && text == dashboard.Title {
		return nil
	}
	message := fmt.Sprintf("expected %q but got %q", dashboard.Title, text)
	if err != nil {
		message = fmt.Sprintf("expected %q: %v", dashboard.Title, trace.UserMessage(err))
	}
	path, shotErr := s.Page().Screenshot(fmt.Sprintf("login_failed_%v", s.Suffix))
	if shotErr != nil {
		s.Log.WithError(shotErr).Warn("Failed to save screenshot on login failure.")
	}
	s.Log.WithField(constants.FieldScreenshot, path).Errorf("Login failed: %v.", message)
	return trace.Wrap(&page.AssertionError{Message: "login failed: " + message, Screenshot: path})
}

// signIn opens the sign-in screen, submits the credentials and returns
// the heading of the screen that follows
func signIn(s *framework.Session) (string, error) {
	settings := s.Settings()
	url := settings.Common.LoginURL
	if url == "" {
		return "", trace.NotFound("login URL is not configured, set %v", config.LoginURL)
	}
	login := s.UI.Login()
	if err := login.Open(url); err != nil {
		return "", trace.Wrap(err)
	}
	if err := login.LoginWithEmail(settings.Common.Email, settings.Common.Password); err != nil {
		return "", trace.Wrap(err)
	}
	text, err := s.UI.Dashboard().CaptureText()
	return text, trace.Wrap(err)
}

// expectEqual fails with a screenshot unless got equals want
func expectEqual(s *framework.Session, what, want, got string) error {
	if got == want {
		return nil
	}
	return trace.Wrap(s.Page().Fail("expected %v %q but got %q", what, want, got))
}
