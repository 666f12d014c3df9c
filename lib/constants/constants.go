package constants

const (
	// FieldLogger defines a logging field with the name of the component that emitted the entry
	FieldLogger = "logger"

	// FieldRoutine defines a logging field with the name of the flow of control, i.e. the running test
	FieldRoutine = "routine"

	// FieldLocator defines a logging field with the element locator an operation acted upon
	FieldLocator = "locator"

	// FieldScreenshot defines a logging field with the path of a captured screenshot
	FieldScreenshot = "screenshot"

	// FieldURL defines a logging field with a navigated URL
	FieldURL = "url"

	// FieldScenario defines a logging field with the scenario name
	FieldScenario = "scenario"
)

// TimestampFormat is used in generated file names
const TimestampFormat = "20060102_150405"
