package enums

// ActivityAction names an entry in a customer's activity log.
type ActivityAction string

const (
	ActivityLogin    ActivityAction = "Login"
	ActivityLogout   ActivityAction = "Logout"
	ActivityRegister ActivityAction = "Register"
)

// String implements fmt.Stringer.
func (a ActivityAction) String() string {
	return string(a)
}
