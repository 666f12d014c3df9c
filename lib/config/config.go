// Package config provides the settings of a test run: the application
// under test, its credentials and the harness output locations.
//
// Settings are read from an INI (or YAML) file once and may be overridden
// per key by environment variables. A Provider is constructed once and
// passed by reference to every component that needs it.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-ini/ini"
	"github.com/gravitational/trace"
	"gopkg.in/yaml.v2"
)

const (
	// SectionCommon holds the application settings
	SectionCommon = "common info"
	// SectionHarness holds the harness settings
	SectionHarness = "harness"
)

// Key names a single setting and its environment override
type Key struct {
	Section string
	Name    string
	// Env is the environment variable that takes precedence over the file value
	Env string
}

func (r Key) String() string {
	if r.Env == "" {
		return fmt.Sprintf("[%v]%v", r.Section, r.Name)
	}
	return fmt.Sprintf("[%v]%v (or %v)", r.Section, r.Name, r.Env)
}

var (
	// LoginURL is the URL of the application login page
	LoginURL = Key{Section: SectionCommon, Name: "user_login_url", Env: "ADMIN_LOGIN_URL"}
	// Email is the login of the administrative user
	Email = Key{Section: SectionCommon, Name: "user_email", Env: "ADMIN_EMAIL"}
	// Password is the password of the administrative user
	Password = Key{Section: SectionCommon, Name: "user_password", Env: "ADMIN_PASSWORD"}
	// SearchItem is the main menu entry to look up in the sidebar search
	SearchItem = Key{Section: SectionCommon, Name: "search_item", Env: "ADMIN_SEARCH_ITEM"}
	// EmployeeName is the name of an existing employee to search for
	EmployeeName = Key{Section: SectionCommon, Name: "pim_emp_name", Env: "ADMIN_EMP_NAME"}

	// DefaultTimeout overrides the element wait timeout
	DefaultTimeout = Key{Section: SectionHarness, Name: "default_timeout", Env: "DEFAULT_TIMEOUT"}
	// ScreenshotDir is the screenshot output directory
	ScreenshotDir = Key{Section: SectionHarness, Name: "screenshot_dir", Env: "SCREENSHOT_DIR"}
	// ReportDir is the report output directory
	ReportDir = Key{Section: SectionHarness, Name: "report_dir", Env: "REPORT_DIR"}
	// LogDir is the log file directory
	LogDir = Key{Section: SectionHarness, Name: "log_dir", Env: "LOG_DIR"}
	// LogLevel is the log level
	LogLevel = Key{Section: SectionHarness, Name: "log_level", Env: "LOG_LEVEL"}
	// TestSeed seeds the test data generator
	TestSeed = Key{Section: SectionHarness, Name: "test_seed", Env: "TEST_SEED"}
)

// BaseURLEnv is consulted for relative navigation when no login URL is configured
const BaseURLEnv = "BASE_URL"

// Provider serves settings from a file with environment overrides
type Provider struct {
	mu   sync.RWMutex
	path string
	file *ini.File
	// LookupEnv resolves environment overrides, os.LookupEnv by default
	LookupEnv func(name string) (string, bool)
}

// New returns a provider without a backing file.
// All values come from the environment
func New() *Provider {
	return &Provider{file: ini.Empty(), LookupEnv: os.LookupEnv}
}

// Load reads settings from the file at path.
// Files with a .yaml or .yml extension are parsed as YAML mapping
// section names to key/value pairs, everything else as INI
func Load(path string) (*Provider, error) {
	p := &Provider{path: path, LookupEnv: os.LookupEnv}
	if err := p.Reload(); err != nil {
		return nil, trace.Wrap(err)
	}
	return p, nil
}

// LoadOrEnv reads settings from the file at path.
// If the file does not exist, all values come from the environment
func LoadOrEnv(path string) (*Provider, error) {
	p, err := Load(path)
	if err != nil {
		if IsMissing(err) {
			return New(), nil
		}
		return nil, trace.Wrap(err)
	}
	return p, nil
}

// Path returns the backing file path
func (p *Provider) Path() string {
	return p.path
}

// Reload re-reads the backing file
func (p *Provider) Reload() error {
	if p.path == "" {
		return nil
	}
	file, err := parse(p.path)
	if err != nil {
		return trace.Wrap(err)
	}
	p.mu.Lock()
	p.file = file
	p.mu.Unlock()
	return nil
}

// Lookup returns the value for key, preferring the environment over the file
func (p *Provider) Lookup(key Key) (string, bool) {
	if key.Env != "" && p.LookupEnv != nil {
		if value, ok := p.LookupEnv(key.Env); ok {
			return value, true
		}
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	section, err := p.file.GetSection(key.Section)
	if err != nil {
		return "", false
	}
	if !section.HasKey(key.Name) {
		return "", false
	}
	return section.Key(key.Name).String(), true
}

// String returns the value for key or fallback if unset
func (p *Provider) String(key Key, fallback string) string {
	if value, ok := p.Lookup(key); ok {
		return value
	}
	return fallback
}

// Require returns the value for key and fails with trace.NotFound
// if neither the environment nor the file provides a non-empty value
func (p *Provider) Require(key Key) (string, error) {
	value, ok := p.Lookup(key)
	if !ok || strings.TrimSpace(value) == "" {
		return "", trace.NotFound("missing configuration %v in %v", key, p.describe())
	}
	return value, nil
}

// Int returns the integer value for key or fallback if unset
func (p *Provider) Int(key Key, fallback int) (int, error) {
	value, ok := p.Lookup(key)
	if !ok {
		return fallback, nil
	}
	i, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, trace.BadParameter("configuration %v is not an int: %q", key, value)
	}
	return i, nil
}

// Bool returns the boolean value for key or fallback if unset.
// Accepts the INI boolean spellings (1/0, true/false, yes/no, on/off)
func (p *Provider) Bool(key Key, fallback bool) (bool, error) {
	value, ok := p.Lookup(key)
	if !ok {
		return fallback, nil
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on", "y", "t":
		return true, nil
	case "0", "false", "no", "off", "n", "f":
		return false, nil
	}
	return false, trace.BadParameter("configuration %v is not a boolean: %q", key, value)
}

// Duration returns the duration value for key or fallback if unset
func (p *Provider) Duration(key Key, fallback time.Duration) (time.Duration, error) {
	value, ok := p.Lookup(key)
	if !ok {
		return fallback, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return 0, trace.BadParameter("configuration %v is not a duration: %q", key, value)
	}
	if d < 0 {
		return 0, trace.BadParameter("configuration %v must be >= 0", key)
	}
	return d, nil
}

// IsMissing returns true if err signals a missing setting or settings file
func IsMissing(err error) bool {
	return trace.IsNotFound(err)
}

func (p *Provider) describe() string {
	if p.path == "" {
		return "environment"
	}
	return fmt.Sprintf("environment or %v", p.path)
}

func parse(path string) (*ini.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, trace.NotFound("config file not found: %v", path)
		}
		return nil, trace.ConvertSystemError(err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return parseYAML(data)
	}
	file, err := ini.InsensitiveLoad(data)
	if err != nil {
		return nil, trace.BadParameter("failed to parse %v: %v", path, err)
	}
	return file, nil
}

func parseYAML(data []byte) (*ini.File, error) {
	var sections map[string]map[string]interface{}
	if err := yaml.Unmarshal(data, &sections); err != nil {
		return nil, trace.BadParameter("failed to parse YAML settings: %v", err)
	}
	file := ini.Empty()
	for name, values := range sections {
		section, err := file.NewSection(strings.ToLower(name))
		if err != nil {
			return nil, trace.Wrap(err)
		}
		for key, value := range values {
			if value == nil {
				value = ""
			}
			if _, err := section.NewKey(strings.ToLower(key), fmt.Sprint(value)); err != nil {
				return nil, trace.Wrap(err)
			}
		}
	}
	return file, nil
}
