package webdriver

import (
	"testing"

	"github.com/gravitational/hrmtest/driver"

	"github.com/google/go-cmp/cmp"
	"github.com/sclevine/agouti"
	"github.com/stretchr/testify/require"
)

func TestDesiredCapabilities(t *testing.T) {
	require.Empty(t, cmp.Diff(agouti.Capabilities{
		"browserName":        "firefox",
		"moz:firefoxOptions": map[string]interface{}{"args": []string{"-headless"}},
	}, desired(driver.Options{Browser: driver.Firefox, Headless: true})))

	require.Empty(t, cmp.Diff(agouti.Capabilities{
		"browserName": "firefox",
	}, desired(driver.Options{Browser: driver.Firefox})))

	caps := desired(driver.Options{Browser: driver.Edge})
	require.Equal(t, "MicrosoftEdge", caps["browserName"])
	edge, ok := caps["ms:edgeOptions"].(map[string]interface{})
	require.True(t, ok)
	require.Contains(t, edge["args"], "--disable-notifications")
	require.NotContains(t, edge["args"], "--headless=new")
}

func TestNewRejectsUnknownBrowser(t *testing.T) {
	_, err := New(driver.Options{Browser: "safari"})
	require.Error(t, err)
}
