package enums

// RegistrationState is the two-state lifecycle of an event registration.
type RegistrationState string

const (
	RegistrationStateEntered   RegistrationState = "entered"
	RegistrationStateWithdrawn RegistrationState = "withdrawn"
)

// String implements fmt.Stringer.
func (r RegistrationState) String() string {
	return string(r)
}
