package defaults

import "time"

const (
	// RetryMaxDelay caps the exponential delay between retry attempts
	RetryMaxDelay = 30 * time.Second

	// FindTimeout defines the timeout to use for element lookup operations
	FindTimeout = 8 * time.Second
	// PageLoadTimeout bounds a single browser navigation
	PageLoadTimeout = 30 * time.Second

	// SessionStartAttempts is the number of attempts to start a browser session
	SessionStartAttempts = 3
	// SessionStartDelay is the initial delay between browser session start attempts
	SessionStartDelay = 2 * time.Second

	// ScriptTimeout bounds a single scripted operation on devtools sessions
	ScriptTimeout = 10 * time.Second
)

const (
	// ConfigFile is the default settings file, relative to the working directory
	ConfigFile = "configuration/config.ini"
	// ScreenshotDir is the default directory for screenshots
	ScreenshotDir = "screenshots"
	// ReportDir is the default directory for run reports
	ReportDir = "Reports"
	// LogDir is the default directory for log files
	LogDir = "Logs"
	// LogLevel is the default log level
	LogLevel = "info"
	// LogBackups is the number of rotated log files to keep
	LogBackups = 7
	// LogRotateSchedule is the cron schedule of log file rotation
	LogRotateSchedule = "@midnight"

	// SharedDirMask is the permission mask of output directories
	SharedDirMask = 0755
	// SharedReadWriteMask is the permission mask of output files
	SharedReadWriteMask = 0644
)
