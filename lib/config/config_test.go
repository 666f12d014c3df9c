/*
Copyright 2020 Gravitational, Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/gravitational/trace"
	"github.com/stretchr/testify/require"
)

const sampleINI = `
[common info]
user_login_url = https://opensource-demo.orangehrmlive.com/web/index.php/auth/login
user_email = Admin
user_password = admin123
search_item = Admin
pim_emp_name = Orange

[harness]
default_timeout = 5s
log_level = debug
test_seed = 42
headless = yes
`

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Skipf("unable to write %s: %s", path, err)
	}
	return path
}

// env returns a lookup function serving vars instead of the process environment
func env(vars map[string]string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		value, ok := vars[name]
		return value, ok
	}
}

func TestFileValues(t *testing.T) {
	p, err := Load(writeFile(t, "config.ini", sampleINI))
	require.NoError(t, err)
	p.LookupEnv = env(nil)

	require.Equal(t, "Admin", p.String(Email, ""))
	require.Equal(t, "admin123", p.String(Password, ""))
	require.Equal(t, "Orange", p.String(EmployeeName, ""))
	require.Equal(t, "fallback", p.String(Key{Section: SectionCommon, Name: "missing"}, "fallback"))

	seed, err := p.Int(TestSeed, 0)
	require.NoError(t, err)
	require.Equal(t, 42, seed)

	headless, err := p.Bool(Key{Section: SectionHarness, Name: "headless"}, false)
	require.NoError(t, err)
	require.True(t, headless)

	timeout, err := p.Duration(DefaultTimeout, time.Second)
	require.NoError(t, err)
	require.Equal(t, 5*time.Second, timeout)
}

func TestEnvironmentTakesPrecedence(t *testing.T) {
	p, err := Load(writeFile(t, "config.ini", sampleINI))
	require.NoError(t, err)
	p.LookupEnv = env(map[string]string{
		"ADMIN_EMAIL":     "ci-admin",
		"ADMIN_LOGIN_URL": "http://localhost:8080/auth/login",
	})

	require.Equal(t, "ci-admin", p.String(Email, ""))
	url, err := p.Require(LoginURL)
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8080/auth/login", url)
	// keys without an override still come from the file
	require.Equal(t, "admin123", p.String(Password, ""))
}

func TestRequireMissing(t *testing.T) {
	p := New()
	p.LookupEnv = env(nil)

	_, err := p.Require(LoginURL)
	require.Error(t, err)
	require.True(t, IsMissing(err), "%v", err)

	p.LookupEnv = env(map[string]string{"ADMIN_LOGIN_URL": "  "})
	_, err = p.Require(LoginURL)
	require.True(t, IsMissing(err), "blank values count as missing: %v", err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.ini"))
	require.Error(t, err)
	require.True(t, IsMissing(err), "%v", err)
}

func TestLoadOrEnvWithoutFile(t *testing.T) {
	p, err := LoadOrEnv(filepath.Join(t.TempDir(), "absent.ini"))
	require.NoError(t, err)
	require.Equal(t, "", p.Path())
	p.LookupEnv = env(map[string]string{"ADMIN_EMAIL": "Admin"})
	require.Equal(t, "Admin", p.String(Email, ""))
}

func TestInvalidTypedValues(t *testing.T) {
	p := New()
	p.LookupEnv = env(map[string]string{"TEST_SEED": "abc", "DEFAULT_TIMEOUT": "soon"})

	_, err := p.Int(TestSeed, 0)
	require.True(t, trace.IsBadParameter(err), "%v", err)
	_, err = p.Duration(DefaultTimeout, 0)
	require.True(t, trace.IsBadParameter(err), "%v", err)
	_, err = p.Bool(Key{Section: SectionHarness, Name: "headless", Env: "TEST_SEED"}, false)
	require.True(t, trace.IsBadParameter(err), "%v", err)
}

func TestReload(t *testing.T) {
	path := writeFile(t, "config.ini", sampleINI)
	p, err := Load(path)
	require.NoError(t, err)
	p.LookupEnv = env(nil)
	require.Equal(t, "Admin", p.String(SearchItem, ""))

	require.NoError(t, os.WriteFile(path, []byte("[common info]\nsearch_item = PIM\n"), 0644))
	// cached until reloaded
	require.Equal(t, "Admin", p.String(SearchItem, ""))
	require.NoError(t, p.Reload())
	require.Equal(t, "PIM", p.String(SearchItem, ""))
	require.Equal(t, "", p.String(Email, ""))
}

func TestYAMLSettings(t *testing.T) {
	path := writeFile(t, "config.yaml", `
common info:
  user_login_url: http://hrm.local/web/index.php/auth/login
  user_email: Admin
harness:
  default_timeout: 3s
  test_seed: 7
`)
	p, err := Load(path)
	require.NoError(t, err)
	p.LookupEnv = env(nil)

	require.Equal(t, "Admin", p.String(Email, ""))
	seed, err := p.Int(TestSeed, 0)
	require.NoError(t, err)
	require.Equal(t, 7, seed)
}

func TestSettingsSnapshot(t *testing.T) {
	p, err := Load(writeFile(t, "config.ini", sampleINI))
	require.NoError(t, err)
	p.LookupEnv = env(nil)

	settings, err := p.Settings()
	require.NoError(t, err)

	expected := Settings{
		Common: Common{
			LoginURL:     "https://opensource-demo.orangehrmlive.com/web/index.php/auth/login",
			Email:        "Admin",
			Password:     "admin123",
			SearchItem:   "Admin",
			EmployeeName: "Orange",
		},
		Harness: Harness{
			DefaultTimeout: 5 * time.Second,
			ScreenshotDir:  "screenshots",
			ReportDir:      "Reports",
			LogDir:         "Logs",
			LogLevel:       "debug",
			TestSeed:       42,
		},
	}
	if diff := cmp.Diff(expected, *settings); diff != "" {
		t.Errorf("settings mismatch (-want +got):\n%s", diff)
	}
}

func TestSettingsEnvironmentOverride(t *testing.T) {
	p, err := Load(writeFile(t, "config.ini", sampleINI))
	require.NoError(t, err)
	p.LookupEnv = env(map[string]string{
		"ADMIN_EMAIL":     "from-env",
		"ADMIN_LOGIN_URL": "https://env.example.com/login",
		"LOG_DIR":         "/tmp/hrm-logs",
		"TEST_SEED":       "7",
	})

	settings, err := p.Settings()
	require.NoError(t, err)
	require.Equal(t, "from-env", settings.Common.Email)
	require.Equal(t, "https://env.example.com/login", settings.Common.LoginURL)
	require.Equal(t, p.String(LoginURL, ""), settings.Common.LoginURL)
	require.Equal(t, "/tmp/hrm-logs", settings.Harness.LogDir)
	require.Equal(t, 7, settings.Harness.TestSeed)
}

func TestSettingsEmptyEnvironmentOverride(t *testing.T) {
	p, err := Load(writeFile(t, "config.ini", sampleINI))
	require.NoError(t, err)
	p.LookupEnv = env(map[string]string{"ADMIN_LOGIN_URL": "", "LOG_DIR": ""})

	settings, err := p.Settings()
	require.NoError(t, err)
	require.Equal(t, "", settings.Common.LoginURL)
	require.Equal(t, p.String(LoginURL, "fallback"), settings.Common.LoginURL)
	// empty directories fall back to the defaults
	require.Equal(t, "Logs", settings.Harness.LogDir)
}

func TestSettingsValidation(t *testing.T) {
	p, err := Load(writeFile(t, "config.ini", "[common info]\nuser_login_url = not a url\n[harness]\nlog_level = chatty\n"))
	require.NoError(t, err)
	p.LookupEnv = env(nil)

	_, err = p.Settings()
	require.Error(t, err)
}
