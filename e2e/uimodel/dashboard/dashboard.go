package dashboard

import (
	"fmt"

	"github.com/gravitational/hrmtest/driver"
	"github.com/gravitational/hrmtest/e2e/uimodel/defaults"
	"github.com/gravitational/hrmtest/e2e/uimodel/page"
	"github.com/gravitational/hrmtest/lib/constants"

	"github.com/gravitational/trace"
)

// Title is the heading of the dashboard
const Title = "Dashboard"

var (
	heading         = driver.XPath(`//span//h6[normalize-space()="Dashboard"]`)
	profileDropdown = driver.XPath("//i[@class='oxd-icon bi-caret-down-fill oxd-userdropdown-icon']")
	logoutLink      = driver.XPath("//a[@class='oxd-userdropdown-link' and contains(text(),'Logout')]")
	pimMenu         = driver.XPath("//a[normalize-space()='PIM']")
	searchField     = driver.XPath("//input[@placeholder='Search']")
)

// menuItem matches the main menu entry with the given label
func menuItem(label string) driver.Locator {
	return driver.XPath(fmt.Sprintf("//a[contains(@class,'oxd-main-menu-item')]//span[normalize-space()=%v]", driver.XPathString(label)))
}

// Dashboard is the landing screen of a signed-in user
type Dashboard struct {
	*page.Page
}

// New returns the dashboard of the session behind p
func New(p *page.Page) Dashboard {
	return Dashboard{Page: p.WithLogger(p.WithField(constants.FieldLogger, "dashboard"))}
}

// CaptureText returns the dashboard heading
func (d Dashboard) CaptureText() (string, error) {
	text, err := d.WithTimeout(defaults.DashboardLoadTimeout).ReadText(heading)
	if err != nil {
		return "", trace.Wrap(err)
	}
	return text, nil
}

// IsLoaded reports whether the dashboard heading shows up
func (d Dashboard) IsLoaded() bool {
	return d.WithTimeout(defaults.DashboardLoadTimeout).IsVisible(heading)
}

// ClickProfileDropdown opens the user menu
func (d Dashboard) ClickProfileDropdown() error {
	return trace.Wrap(d.Click(profileDropdown))
}

// ClickLogout signs out from the opened user menu
func (d Dashboard) ClickLogout() error {
	return trace.Wrap(d.Click(logoutLink))
}

// ClickPIM opens the employee management module
func (d Dashboard) ClickPIM() error {
	return trace.Wrap(d.Click(pimMenu))
}

// Search filters the main menu by item
func (d Dashboard) Search(item string) error {
	return trace.Wrap(d.Type(searchField, item))
}

// HasMenuItem reports whether the main menu shows an entry labeled label
func (d Dashboard) HasMenuItem(label string) bool {
	return d.IsVisible(menuItem(label))
}
