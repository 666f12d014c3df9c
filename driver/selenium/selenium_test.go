package selenium

import (
	"testing"

	"github.com/gravitational/hrmtest/driver"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"github.com/tebeka/selenium"
)

func TestCapabilities(t *testing.T) {
	opts := driver.Options{Browser: driver.Edge, Headless: true}
	require.NoError(t, opts.CheckAndSetDefaults())
	caps := Capabilities(opts)
	require.Empty(t, cmp.Diff(selenium.Capabilities{
		"browserName": "MicrosoftEdge",
		"ms:edgeOptions": map[string]interface{}{
			"args": []string{
				"--disable-notifications",
				"--disable-save-password-bubble",
				"--start-maximized",
				"--headless=new",
				"--window-size=1920,1080",
			},
			"prefs": map[string]interface{}{
				"credentials_enable_service":       false,
				"profile.password_manager_enabled": false,
			},
		},
	}, caps))

	caps = Capabilities(driver.Options{Browser: driver.Chrome})
	require.Equal(t, "chrome", caps["browserName"])
	require.Contains(t, caps, "goog:chromeOptions")

	caps = Capabilities(driver.Options{Browser: driver.Firefox, Headless: true})
	require.Equal(t, "firefox", caps["browserName"])
	require.Contains(t, caps, "moz:firefoxOptions")
}

func TestBy(t *testing.T) {
	require.Equal(t, selenium.ByXPATH, by(driver.StrategyXPath))
	require.Equal(t, selenium.ByCSSSelector, by(driver.StrategyCSS))
	require.Equal(t, selenium.ByID, by(driver.StrategyID))
	require.Equal(t, selenium.ByName, by(driver.StrategyName))
}
