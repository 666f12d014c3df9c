package dashboard

import (
	"testing"

	"github.com/gravitational/hrmtest/driver"
	"github.com/gravitational/hrmtest/driver/drivertest"
	"github.com/gravitational/hrmtest/e2e/uimodel/page/pagetest"

	"github.com/stretchr/testify/require"
)

func TestCaptureText(t *testing.T) {
	d := drivertest.New()
	d.Add(heading, &drivertest.Element{Label: "heading", InnerText: " Dashboard\n"})
	dash := New(pagetest.New(t, d))

	text, err := dash.CaptureText()
	require.NoError(t, err)
	require.Equal(t, Title, text)
	require.True(t, dash.IsLoaded())
}

func TestLogout(t *testing.T) {
	d := drivertest.New()
	dropdown := d.Add(profileDropdown, drivertest.NewElement("dropdown"))
	logout := d.Add(logoutLink, &drivertest.Element{Label: "logout", Hidden: true})
	dropdown.OnClick = func() { logout.Hidden = false }
	dash := New(pagetest.New(t, d))

	require.NoError(t, dash.ClickProfileDropdown())
	require.NoError(t, dash.ClickLogout())
	require.Equal(t, 1, logout.Clicks)
}

func TestClickPIM(t *testing.T) {
	d := drivertest.New()
	menu := d.Add(pimMenu, drivertest.NewElement("pim"))
	require.NoError(t, New(pagetest.New(t, d)).ClickPIM())
	require.Equal(t, 1, menu.Clicks)
}

func TestSearch(t *testing.T) {
	d := drivertest.New()
	field := d.Add(searchField, drivertest.NewElement("search"))
	d.Add(menuItem("Admin"), drivertest.NewElement("admin"))
	dash := New(pagetest.New(t, d))

	require.NoError(t, dash.Search("Admin"))
	require.Equal(t, "Admin", field.Value())
	require.True(t, dash.HasMenuItem("Admin"))
	require.False(t, dash.HasMenuItem("Time"))
}

func TestMenuItem(t *testing.T) {
	require.Equal(t,
		driver.XPath(`//a[contains(@class,'oxd-main-menu-item')]//span[normalize-space()="My Info's"]`),
		menuItem("My Info's"))
}
