package config

import (
	"time"

	"github.com/gravitational/hrmtest/lib/defaults"

	"github.com/gravitational/trace"
	"gopkg.in/go-playground/validator.v9"
)

// Settings is a typed snapshot of the provider state
type Settings struct {
	Common  Common
	Harness Harness
}

// Common describes the application under test
type Common struct {
	// LoginURL is the URL of the login page
	LoginURL string `ini:"user_login_url" validate:"omitempty,url"`
	// Email is the login of the administrative user
	Email string `ini:"user_email"`
	// Password is the password of the administrative user
	Password string `ini:"user_password"`
	// SearchItem is the main menu entry used by the sidebar search
	SearchItem string `ini:"search_item"`
	// EmployeeName is an existing employee used by the employee search
	EmployeeName string `ini:"pim_emp_name"`
}

// Harness describes harness behavior and output locations
type Harness struct {
	// DefaultTimeout is the element wait timeout
	DefaultTimeout time.Duration `ini:"default_timeout" validate:"gte=0"`
	// ScreenshotDir is the screenshot output directory
	ScreenshotDir string `ini:"screenshot_dir"`
	// ReportDir is the report output directory
	ReportDir string `ini:"report_dir"`
	// LogDir is the log file directory
	LogDir string `ini:"log_dir"`
	// LogLevel is one of the logrus level names
	LogLevel string `ini:"log_level" validate:"omitempty,oneof=panic fatal error warn warning info debug trace PANIC FATAL ERROR WARN WARNING INFO DEBUG TRACE"`
	// TestSeed seeds the test data generator, 0 picks a random seed
	TestSeed int `ini:"test_seed"`
}

// CheckAndSetDefaults fills in unset harness values
func (r *Harness) CheckAndSetDefaults() error {
	if r.DefaultTimeout == 0 {
		r.DefaultTimeout = defaults.FindTimeout
	}
	if r.ScreenshotDir == "" {
		r.ScreenshotDir = defaults.ScreenshotDir
	}
	if r.ReportDir == "" {
		r.ReportDir = defaults.ReportDir
	}
	if r.LogDir == "" {
		r.LogDir = defaults.LogDir
	}
	if r.LogLevel == "" {
		r.LogLevel = defaults.LogLevel
	}
	return nil
}

// CheckAndSetDefaults validates the snapshot and fills in defaults
func (r *Settings) CheckAndSetDefaults() error {
	return trace.Wrap(r.Harness.CheckAndSetDefaults())
}

// Settings maps the file sections onto a Settings value, applies
// environment overrides and validates the result.
// Overrides follow Lookup: a variable that is set wins, even if empty
func (p *Provider) Settings() (*Settings, error) {
	var settings Settings
	p.mu.RLock()
	err := mapSection(p, SectionCommon, &settings.Common)
	if err == nil {
		err = mapSection(p, SectionHarness, &settings.Harness)
	}
	p.mu.RUnlock()
	if err != nil {
		return nil, trace.Wrap(err)
	}

	if err := p.override(&settings); err != nil {
		return nil, trace.Wrap(err)
	}
	if err := checkAndSetDefaults(&settings); err != nil {
		return nil, trace.Wrap(err)
	}
	return &settings, nil
}

// override replaces the mapped values with their environment overrides
func (p *Provider) override(settings *Settings) error {
	for key, value := range map[Key]*string{
		LoginURL:      &settings.Common.LoginURL,
		Email:         &settings.Common.Email,
		Password:      &settings.Common.Password,
		SearchItem:    &settings.Common.SearchItem,
		EmployeeName:  &settings.Common.EmployeeName,
		ScreenshotDir: &settings.Harness.ScreenshotDir,
		ReportDir:     &settings.Harness.ReportDir,
		LogDir:        &settings.Harness.LogDir,
		LogLevel:      &settings.Harness.LogLevel,
	} {
		*value = p.String(key, *value)
	}
	var err error
	settings.Harness.TestSeed, err = p.Int(TestSeed, settings.Harness.TestSeed)
	if err != nil {
		return trace.Wrap(err)
	}
	settings.Harness.DefaultTimeout, err = p.Duration(DefaultTimeout, settings.Harness.DefaultTimeout)
	return trace.Wrap(err)
}

func mapSection(p *Provider, name string, v interface{}) error {
	section, err := p.file.GetSection(name)
	if err != nil {
		// missing sections leave the zero values in place
		return nil
	}
	if err := section.MapTo(v); err != nil {
		return trace.BadParameter("invalid [%v] section: %v", name, err)
	}
	return nil
}

type defaulter interface {
	CheckAndSetDefaults() error
}

// checkAndSetDefaults validates parameters according to struct field tags and
// custom logic specified by implementing the defaulter interface.
func checkAndSetDefaults(param interface{}) error {
	if err := validator.New().Struct(param); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok {
			var errors []error
			for _, fieldError := range errs {
				errors = append(errors, trace.BadParameter("field %s=%v fails rule %s",
					fieldError.Namespace(), fieldError.Value(), fieldError.Tag()))
			}
			return trace.NewAggregate(errors...)
		}
		return trace.Wrap(err)
	}

	if d, ok := param.(defaulter); ok {
		return trace.Wrap(d.CheckAndSetDefaults())
	}
	return nil
}
