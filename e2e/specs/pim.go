package specs

import (
	"github.com/gravitational/hrmtest/e2e/framework"
	"github.com/gravitational/hrmtest/e2e/uimodel/pim"
	"github.com/gravitational/hrmtest/lib/config"

	"github.com/gravitational/trace"
	"github.com/kr/pretty"
)

// AddEmployee adds a generated employee with login credentials and
// finds it in the employee list by the id the form assigned
func AddEmployee(s *framework.Session) error {
	if err := s.UI.Dashboard().ClickPIM(); err != nil {
		return trace.Wrap(err)
	}
	record := s.Data.Employee()
	if err := record.Validate(); err != nil {
		return trace.Wrap(err)
	}
	s.Log.Infof("Test data: %v", pretty.Sprint(record))

	p := s.UI.PIM()
	if err := p.AddNewEmployee(); err != nil {
		return trace.Wrap(err)
	}
	if err := p.EnterFirstName(record.FirstName); err != nil {
		return trace.Wrap(err)
	}
	if err := p.EnterMiddleName(record.MiddleName); err != nil {
		return trace.Wrap(err)
	}
	if err := p.EnterLastName(record.LastName); err != nil {
		return trace.Wrap(err)
	}
	id, err := p.EnterEmployeeID(record.EmployeeID)
	if err != nil {
		return trace.Wrap(err)
	}
	if id == "" {
		s.Log.Warnf("Employee id field is empty, searching by %v.", record.EmployeeID)
		id = record.EmployeeID
	}
	s.Log.Infof("Requested employee id %v, form holds %v.", record.EmployeeID, id)

	if err := p.ToggleCreateLoginDetails(); err != nil {
		return trace.Wrap(err)
	}
	if err := p.EnterUsername(record.Username); err != nil {
		return trace.Wrap(err)
	}
	if err := p.EnterPassword(record.Password); err != nil {
		return trace.Wrap(err)
	}
	if err := p.EnterConfirmPassword(record.ConfirmPassword); err != nil {
		return trace.Wrap(err)
	}
	if err := p.SaveDetails(); err != nil {
		return trace.Wrap(err)
	}
	if toast, ok := p.WaitForToast(); ok {
		s.Log.Infof("Toast: %v.", toast)
	}

	if err := p.GoToEmployeeList(); err != nil {
		return trace.Wrap(err)
	}
	if err := p.SearchByEmployeeID(id); err != nil {
		return trace.Wrap(err)
	}
	summary, err := p.ConfirmRecordFound()
	if err != nil {
		return trace.Wrap(err)
	}
	return expectEqual(s, "search summary", pim.RecordFound, summary)
}

// DeletePIMRecord deletes the first record of the employee list and
// expects the delete notification
func DeletePIMRecord(s *framework.Session) error {
	if err := s.UI.Dashboard().ClickPIM(); err != nil {
		return trace.Wrap(err)
	}
	p := s.UI.PIM()
	if err := p.ClickDelete(); err != nil {
		return trace.Wrap(err)
	}
	if err := p.ConfirmDelete(); err != nil {
		return trace.Wrap(err)
	}
	s.Log.Info("Confirming delete toast message.")
	if !p.DeleteToastVisible() {
		return trace.Wrap(s.Page().Fail("no notification after deleting the record"))
	}
	return nil
}

// SearchEmployeeByName searches the employee list for the configured
// employee and expects at least one result
func SearchEmployeeByName(s *framework.Session) error {
	name := s.Settings().Common.EmployeeName
	if name == "" {
		return trace.NotFound("employee name is not configured, set %v", config.EmployeeName)
	}
	if err := s.UI.Dashboard().ClickPIM(); err != nil {
		return trace.Wrap(err)
	}
	p := s.UI.PIM()
	value, err := p.SearchByEmployeeName(name)
	if err != nil {
		return trace.Wrap(err)
	}
	s.Log.Infof("Searched for %q, filter holds %q.", name, value)
	records := p.Records()
	if len(records) == 0 {
		return trace.Wrap(s.Page().Fail("no employee matches %q", name))
	}
	s.Log.Infof("Found %v record(s).", len(records))
	return nil
}
