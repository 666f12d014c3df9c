package defaults

import "time"

const (
	// PollInterval defines the frequency of element state checks
	PollInterval = 500 * time.Millisecond
	// ListPollInterval defines the frequency of checks while collecting element lists
	ListPollInterval = 150 * time.Millisecond
	// VerifyPollInterval defines the frequency of checks while verifying typed input
	VerifyPollInterval = 120 * time.Millisecond
	// SettleDelay defines the pause after a scripted value assignment
	SettleDelay = 120 * time.Millisecond

	// ToastTimeout specifies the amount of time a notification takes to show up
	ToastTimeout = 6 * time.Second
	// DashboardLoadTimeout specifies the amount of time needed for the dashboard to render after login
	DashboardLoadTimeout = 15 * time.Second
	// SearchResultTimeout specifies the amount of time needed to refresh the employee list after a search
	SearchResultTimeout = 10 * time.Second
)
