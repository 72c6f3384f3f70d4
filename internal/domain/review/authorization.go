package review

// CheckDeadline fails with a DeadlinePassedError when the phase deadline of the cycle has passed.
func CheckDeadline(cycle *ReviewCycle, phase Phase) error {
	if cycle.HasDeadlinePassed(phase) {
		return &DeadlinePassedError{Phase: phase}
	}
	return nil
}

// AuthorizeManager checks that manager is the stored manager of employee.
// A nil manager means the acting manager record was not found.
func AuthorizeManager(employee, manager *User) error {
	if manager == nil {
		return ErrManagerNotFound
	}
	if !employee.ReportsTo(manager.ID) {
		return ErrNotDirectReport
	}
	return nil
}
