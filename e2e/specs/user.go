package specs

import (
	"github.com/gravitational/hrmtest/e2e/framework"
	"github.com/gravitational/hrmtest/e2e/uimodel/dashboard"

	"github.com/gravitational/trace"
)

// UserLogin signs in and expects the dashboard heading
func UserLogin(s *framework.Session) error {
	s.Log.Infof("Opening URL: %v.", s.Settings().Common.LoginURL)
	text, err := signIn(s)
	if err != nil {
		return trace.Wrap(err)
	}
	return expectEqual(s, "dashboard heading", dashboard.Title, text)
}

// UserLogout signs out through the profile menu and expects the
// sign-in screen
func UserLogout(s *framework.Session) error {
	d := s.UI.Dashboard()
	if err := d.ClickProfileDropdown(); err != nil {
		return trace.Wrap(err)
	}
	s.Log.Info("Clicking logout button.")
	if err := d.ClickLogout(); err != nil {
		return trace.Wrap(err)
	}
	if !s.UI.Login().IsLogoPresent() {
		return trace.Wrap(s.Page().Fail("login page logo is not visible after logout"))
	}
	s.Log.Info("Logout successful, login page logo is visible.")
	return nil
}
