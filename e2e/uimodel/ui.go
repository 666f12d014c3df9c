package uimodel

import (
	"github.com/gravitational/hrmtest/e2e/uimodel/dashboard"
	"github.com/gravitational/hrmtest/e2e/uimodel/page"
	"github.com/gravitational/hrmtest/e2e/uimodel/pim"
	"github.com/gravitational/hrmtest/e2e/uimodel/user"
)

// UI is a facade for accessing high level ui model objects
type UI struct {
	page *page.Page
}

// New returns the facade over the session behind p
func New(p *page.Page) UI {
	return UI{page: p}
}

// Page returns the underlying page
func (u UI) Page() *page.Page {
	return u.page
}

// Login returns the sign-in screen
func (u UI) Login() user.LoginPage {
	return user.NewLoginPage(u.page)
}

// Dashboard returns the landing screen of a signed-in user
func (u UI) Dashboard() dashboard.Dashboard {
	return dashboard.New(u.page)
}

// PIM returns the employee management module
func (u UI) PIM() pim.PIM {
	return pim.New(u.page)
}
