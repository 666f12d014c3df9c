package pim

import (
	"github.com/gravitational/hrmtest/driver"
	"github.com/gravitational/hrmtest/e2e/uimodel/defaults"
	"github.com/gravitational/hrmtest/e2e/uimodel/page"
	"github.com/gravitational/hrmtest/lib/constants"

	"github.com/gravitational/trace"
)

// RecordFound is the search summary of a single match
const RecordFound = "(1) Record Found"

var (
	addButton  = driver.XPath("//button[normalize-space() = 'Add']")
	firstName  = driver.XPath("//input[@placeholder='First Name']")
	middleName = driver.XPath("//input[@placeholder='Middle Name']")
	lastName   = driver.XPath("//input[@placeholder='Last Name']")
	// employee id of the add form, may be prefilled by the application
	employeeID = driver.XPath("//label[normalize-space()='Employee Id']/following::input[1]")

	createLoginToggle    = driver.XPath("//div//p[normalize-space()='Create Login Details']/following::label[1]")
	usernameField        = driver.XPath("//label[normalize-space()='Username']/following::input[1]")
	passwordField        = driver.XPath("//label[normalize-space()='Password']/following::input[@type='password'][1]")
	confirmPasswordField = driver.XPath("//label[normalize-space()='Confirm Password']/following::input[@type='password'][1]")
	saveButton           = driver.XPath("//button[normalize-space()='Save']")

	employeeListMenu   = driver.XPath("//a[normalize-space()='Employee List']")
	employeeNameFilter = driver.XPath("//label[normalize-space()='Employee Name']/following::input[1]")
	employeeIDFilter   = driver.XPath("//label[normalize-space()='Employee Id']/following::input[1]")
	searchButton       = driver.XPath("//button[normalize-space()='Search']")
	recordFound        = driver.XPath("//span[normalize-space()='(1) Record Found']")
	resultRows         = driver.XPath("//div[@class='oxd-table-body']//div[contains(@class,'oxd-table-card')]")

	toast = driver.XPath("//div[contains(@class,'oxd-toaster') or @id='oxd-toaster_1' or contains(., 'Successfully')]")

	deleteRecordButton = driver.XPath("//span[contains(@class,'oxd-text--span') and contains(normalize-space(.),'Records')]/following::i[2]")
	confirmDelete      = driver.XPath("//button[normalize-space()='Yes, Delete']")
	deleteToast        = driver.XPath("//div[@id='oxd-toaster_1']")

	activeMenuItem = driver.XPath("//a[@class='oxd-main-menu-item active']")
)

// PIM is the employee management module
type PIM struct {
	*page.Page
}

// New returns the employee management module of the session behind p
func New(p *page.Page) PIM {
	return PIM{Page: p.WithLogger(p.WithField(constants.FieldLogger, "pim"))}
}

// AddNewEmployee opens the add employee form
func (p PIM) AddNewEmployee() error {
	return trace.Wrap(p.Click(addButton))
}

// EnterFirstName types the first name
func (p PIM) EnterFirstName(name string) error {
	return trace.Wrap(p.Type(firstName, name))
}

// EnterMiddleName types the middle name
func (p PIM) EnterMiddleName(name string) error {
	return trace.Wrap(p.Type(middleName, name))
}

// EnterLastName types the last name
func (p PIM) EnterLastName(name string) error {
	return trace.Wrap(p.Type(lastName, name))
}

// EnterEmployeeID types id and returns the id the form actually holds
func (p PIM) EnterEmployeeID(id string) (string, error) {
	if err := p.Type(employeeID, id); err != nil {
		return "", trace.Wrap(err)
	}
	return p.EmployeeID()
}

// EmployeeID returns the id the add form holds
func (p PIM) EmployeeID() (string, error) {
	value, err := p.ReadValue(employeeID)
	if err != nil {
		return "", trace.Wrap(err)
	}
	return value, nil
}

// ToggleCreateLoginDetails switches the login details part of the form
func (p PIM) ToggleCreateLoginDetails() error {
	return trace.Wrap(p.Click(createLoginToggle))
}

// EnterUsername types the login name of the new employee
func (p PIM) EnterUsername(username string) error {
	return trace.Wrap(p.Type(usernameField, username))
}

// EnterPassword types the password of the new employee
func (p PIM) EnterPassword(password string) error {
	return trace.Wrap(p.Type(passwordField, password))
}

// EnterConfirmPassword types the password confirmation
func (p PIM) EnterConfirmPassword(password string) error {
	return trace.Wrap(p.Type(confirmPasswordField, password))
}

// SaveDetails submits the form
func (p PIM) SaveDetails() error {
	return trace.Wrap(p.Click(saveButton))
}

// WaitForToast returns the text of the notification shown after saving.
// Returns false if no notification shows up
func (p PIM) WaitForToast() (string, bool) {
	pg := p.WithTimeout(defaults.ToastTimeout)
	if !pg.IsVisible(toast) {
		return "", false
	}
	text, err := pg.ReadText(toast)
	if err != nil {
		p.WithError(err).Debug("Notification went away.")
		return "", false
	}
	return text, true
}

// GoToEmployeeList opens the employee search
func (p PIM) GoToEmployeeList() error {
	return trace.Wrap(p.Click(employeeListMenu))
}

// SearchByEmployeeID filters the employee list by id
func (p PIM) SearchByEmployeeID(id string) error {
	if err := p.Type(employeeIDFilter, id); err != nil {
		return trace.Wrap(err)
	}
	return trace.Wrap(p.Click(searchButton))
}

// SearchByEmployeeName filters the employee list by name.
// Returns the name the filter ended up with, the field may autocomplete it
func (p PIM) SearchByEmployeeName(name string) (string, error) {
	value, err := p.TypeAndVerify(employeeNameFilter, name, page.AllowPartial())
	if err != nil {
		return "", trace.Wrap(err)
	}
	if err := p.Click(searchButton); err != nil {
		return "", trace.Wrap(err)
	}
	return value, nil
}

// ConfirmRecordFound returns the search summary of a single match
func (p PIM) ConfirmRecordFound() (string, error) {
	text, err := p.WithTimeout(defaults.SearchResultTimeout).ReadText(recordFound)
	if err != nil {
		return "", trace.Wrap(err)
	}
	return text, nil
}

// Records returns the rows of the employee list
func (p PIM) Records() []driver.Element {
	return p.WithTimeout(defaults.SearchResultTimeout).FindAll(resultRows)
}

// ClickPIM opens the module from the main menu entry marked active
func (p PIM) ClickPIM() error {
	return trace.Wrap(p.Click(activeMenuItem))
}

// ClickDelete deletes the first record of the employee list
func (p PIM) ClickDelete() error {
	return trace.Wrap(p.Click(deleteRecordButton))
}

// ConfirmDelete accepts the delete confirmation dialog
func (p PIM) ConfirmDelete() error {
	return trace.Wrap(p.Click(confirmDelete))
}

// DeleteToastVisible reports whether the delete notification shows up
func (p PIM) DeleteToastVisible() bool {
	return p.WithTimeout(defaults.ToastTimeout).IsVisible(deleteToast)
}
