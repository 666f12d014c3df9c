package user

import (
	"github.com/gravitational/hrmtest/driver"
	"github.com/gravitational/hrmtest/e2e/uimodel/page"
	"github.com/gravitational/hrmtest/lib/constants"

	"github.com/gravitational/trace"
)

var (
	usernameField = driver.XPath("//input[@name='username']")
	passwordField = driver.XPath("//input[@placeholder='Password']")
	loginButton   = driver.XPath("//button[normalize-space()= 'Login']")
	companyLogo   = driver.XPath("//img[@alt='company-branding']")
)

// LoginPage is the sign-in screen
type LoginPage struct {
	*page.Page
}

// NewLoginPage returns the sign-in screen of the session behind p
func NewLoginPage(p *page.Page) LoginPage {
	return LoginPage{Page: p.WithLogger(p.WithField(constants.FieldLogger, "login"))}
}

// Open navigates to the sign-in screen at url
func (u LoginPage) Open(url string) error {
	return trace.Wrap(u.Navigate(url))
}

// EnterUsername types the login name
func (u LoginPage) EnterUsername(username string) error {
	return trace.Wrap(u.Type(usernameField, username))
}

// EnterPassword types the password
func (u LoginPage) EnterPassword(password string) error {
	return trace.Wrap(u.Type(passwordField, password))
}

// ClickLogin submits the sign-in form
func (u LoginPage) ClickLogin() error {
	return trace.Wrap(u.Click(loginButton))
}

// IsLogoPresent reports whether the company logo of the sign-in screen is visible
func (u LoginPage) IsLogoPresent() bool {
	return u.IsVisible(companyLogo)
}

// LoginWithEmail signs in with the given credentials
func (u LoginPage) LoginWithEmail(email, password string) error {
	u.Infof("Signing in as %v.", email)
	if err := u.EnterUsername(email); err != nil {
		return trace.Wrap(err)
	}
	if err := u.EnterPassword(password); err != nil {
		return trace.Wrap(err)
	}
	return trace.Wrap(u.ClickLogin())
}
