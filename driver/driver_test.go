package driver

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/gravitational/trace"
	"github.com/stretchr/testify/require"
)

func TestParseBrowser(t *testing.T) {
	for _, tc := range []struct {
		in       string
		expected Browser
	}{
		{"chrome", Chrome},
		{"Firefox", Firefox},
		{" edge ", Edge},
	} {
		browser, err := ParseBrowser(tc.in)
		require.NoError(t, err)
		require.Equal(t, tc.expected, browser)
	}
}

func TestParseBrowserRejectsUnknown(t *testing.T) {
	_, err := ParseBrowser("safari")
	require.Error(t, err)
	require.True(t, trace.IsBadParameter(err), "%v", err)
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	require.NoError(t, opts.CheckAndSetDefaults())
	require.Equal(t, Chrome, opts.Browser)
	require.Equal(t, 30*time.Second, opts.PageLoadTimeout)

	opts = Options{Browser: "opera"}
	require.Error(t, opts.CheckAndSetDefaults())
}

func TestChromeArgs(t *testing.T) {
	opts := Options{Browser: Chrome, Headless: true}
	args := opts.ChromeArgs()
	require.Contains(t, args, "--headless=new")
	require.Contains(t, args, "--disable-notifications")

	opts.Headless = false
	require.NotContains(t, opts.ChromeArgs(), "--headless=new")
	require.Empty(t, opts.FirefoxArgs())
}

func TestLocatorSelector(t *testing.T) {
	type result struct {
		Expr  string
		XPath bool
	}
	for _, tc := range []struct {
		locator  Locator
		expected result
	}{
		{XPath("//input[@name='username']"), result{"//input[@name='username']", true}},
		{CSS("input.oxd-input"), result{"input.oxd-input", false}},
		{ID("oxd-toaster_1"), result{`[id="oxd-toaster_1"]`, false}},
		{Name("username"), result{`[name="username"]`, false}},
	} {
		expr, xpath := tc.locator.Selector()
		if diff := cmp.Diff(tc.expected, result{expr, xpath}); diff != "" {
			t.Errorf("selector mismatch for %v (-want +got):\n%s", tc.locator, diff)
		}
	}
}

func TestXPathString(t *testing.T) {
	require.Equal(t, `'Admin'`, XPathString("Admin"))
	require.Equal(t, `"O'Neil"`, XPathString("O'Neil"))
	require.Equal(t, `concat('say "hi" to ', "'", 'em', "'", '')`, XPathString(`say "hi" to 'em'`))
}
