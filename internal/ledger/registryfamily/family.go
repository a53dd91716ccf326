package registryfamily

type Action string

const (
	ActionRegister Action = "register"
)

const (
	FamilyName    string = "docregistry"
	FamilyVersion string = "1.0"
)
