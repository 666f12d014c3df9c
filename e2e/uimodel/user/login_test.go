package user

import (
	"testing"

	"github.com/gravitational/hrmtest/driver/drivertest"
	"github.com/gravitational/hrmtest/e2e/uimodel/page/pagetest"

	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	d := drivertest.New()
	username := d.Add(usernameField, drivertest.NewElement("username")).SetValue("stale")
	password := d.Add(passwordField, drivertest.NewElement("password"))
	button := d.Add(loginButton, drivertest.NewElement("login"))
	login := NewLoginPage(pagetest.New(t, d))

	require.NoError(t, login.Open("https://hrm.example.com/web/index.php/auth/login"))
	require.NoError(t, login.LoginWithEmail("Admin", "admin123"))
	require.Equal(t, []string{"https://hrm.example.com/web/index.php/auth/login"}, d.Navigations)
	require.Equal(t, "Admin", username.Value())
	require.Equal(t, "admin123", password.Value())
	require.Equal(t, 1, button.Clicks)
}

func TestLoginRejectsRelativeURL(t *testing.T) {
	login := NewLoginPage(pagetest.New(t, drivertest.New()))
	require.Error(t, login.Open("/auth/login"))
}

func TestIsLogoPresent(t *testing.T) {
	d := drivertest.New()
	login := NewLoginPage(pagetest.New(t, d))
	require.False(t, login.IsLogoPresent())

	d.Add(companyLogo, drivertest.NewElement("logo"))
	require.True(t, login.IsLogoPresent())
}
