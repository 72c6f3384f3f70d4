package review

// User is the read-only view of a person the review rules need.
type User struct {
	ID         UserID
	Name       string
	Email      string
	Level      EngineerLevel
	Department string
	ManagerID  *UserID
}

func (u *User) HasManager() bool {
	return u.ManagerID != nil && !u.ManagerID.IsZero()
}

// ReportsTo reports whether managerID is u's stored manager.
func (u *User) ReportsTo(managerID UserID) bool {
	return u.HasManager() && u.ManagerID.Equals(managerID)
}
