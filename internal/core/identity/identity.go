package identity

// Persona is the capability role attached to a request by the authentication
// collaborator. The core treats it as an opaque tag except for the moderator
// check.
type Persona string

const (
	PersonaStudent       Persona = "Student"
	PersonaFaculty       Persona = "Faculty"
	PersonaStaff         Persona = "Staff"
	PersonaModerator     Persona = "Moderator"
	PersonaAdministrator Persona = "Administrator"
)

func (p Persona) IsModerator() bool {
	return p == PersonaModerator
}

// Identity is the already-authenticated caller. One active persona per
// username.
type Identity struct {
	Username string
	Persona  Persona
}
