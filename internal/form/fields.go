// Package form is the declarative form engine of the student and
// reinscription screens plus the per-entity form value mappers.
package form

// FieldKey names a form value. Only the keys declared here exist.
type FieldKey string

const (
	KeyCardNumber   FieldKey = "cardNumber"
	KeyLastName     FieldKey = "lastName"
	KeyFirstName    FieldKey = "firstName"
	KeySex          FieldKey = "sex"
	KeyBirthDate    FieldKey = "dateOfBirth"
	KeyBirthPlace   FieldKey = "placeOfBirth"
	KeyAddress      FieldKey = "address"
	KeyPhoneNumber  FieldKey = "phoneNumber"
	KeyEmail        FieldKey = "email"
	KeyNationality  FieldKey = "nationality"
	KeyCIN          FieldKey = "cinNumber"
	KeyCINDate      FieldKey = "cinDate"
	KeyCINPlace     FieldKey = "cinPlace"
	KeyBaccNumber   FieldKey = "baccNumber"
	KeyBaccSerie    FieldKey = "baccSerie"
	KeyBaccCenter   FieldKey = "baccCenter"
	KeyJob          FieldKey = "job"
	KeyFatherName   FieldKey = "fatherName"
	KeyMotherName   FieldKey = "motherName"
	KeyMention      FieldKey = "mention"
	KeyJourney      FieldKey = "journey"
	KeySemester     FieldKey = "semester"
	KeyAcademicYear FieldKey = "academicYear"
	KeyRepeatStatus FieldKey = "repeatStatus"
)

var knownKeys = map[FieldKey]struct{}{
	KeyCardNumber: {}, KeyLastName: {}, KeyFirstName: {}, KeySex: {},
	KeyBirthDate: {}, KeyBirthPlace: {}, KeyAddress: {}, KeyPhoneNumber: {},
	KeyEmail: {}, KeyNationality: {}, KeyCIN: {}, KeyCINDate: {},
	KeyCINPlace: {}, KeyBaccNumber: {}, KeyBaccSerie: {}, KeyBaccCenter: {},
	KeyJob: {}, KeyFatherName: {}, KeyMotherName: {}, KeyMention: {},
	KeyJourney: {}, KeySemester: {}, KeyAcademicYear: {}, KeyRepeatStatus: {},
}

// IsKnown reports whether k is a declared key.
func (k FieldKey) IsKnown() bool {
	_, ok := knownKeys[k]
	return ok
}

// FieldType is the control a field renders as in edit mode.
type FieldType string

const (
	TypeInput    FieldType = "input"
	TypeTextarea FieldType = "textarea"
	TypeSelect   FieldType = "select"
)

func (t FieldType) IsValid() bool {
	switch t {
	case TypeInput, TypeTextarea, TypeSelect:
		return true
	}
	return false
}

// Option is one choice of a select field.
type Option struct {
	Value string
	Label string
}

// Field declares one form control.
type Field struct {
	Label string
	Type  FieldType
	// InputType is the input flavour: "text", "date", "email", "tel".
	InputType   string
	Key         FieldKey
	Placeholder string
	Options     []Option
}

// SectionKey names a logical group of fields (identity, contact, birth...).
type SectionKey string

const (
	SectionIdentity SectionKey = "identity"
	SectionBirth    SectionKey = "birth"
	SectionContact  SectionKey = "contact"
	SectionCIN      SectionKey = "cin"
	SectionBacc     SectionKey = "baccalaureate"
	SectionParents  SectionKey = "parents"
)

// Section is a titled group of fields toggled between read-only and edit.
type Section struct {
	Key   SectionKey
	Title string
	// Style is a layout hint passed through to the view.
	Style  string
	Fields []Field
}

// State holds the current form values.
type State map[FieldKey]string

// Clone returns a copy of s.
func (s State) Clone() State {
	out := make(State, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// StudentSections is the layout of the student profile form.
func StudentSections() []Section {
	return []Section{
		{
			Key:   SectionIdentity,
			Title: "Identity",
			Fields: []Field{
				{Label: "Card number", Type: TypeInput, InputType: "text", Key: KeyCardNumber, Placeholder: "2101234"},
				{Label: "Last name", Type: TypeInput, InputType: "text", Key: KeyLastName},
				{Label: "First name", Type: TypeInput, InputType: "text", Key: KeyFirstName},
				{Label: "Sex", Type: TypeSelect, Key: KeySex, Options: []Option{
					{Value: "Masculin", Label: "Male"},
					{Value: "Féminin", Label: "Female"},
				}},
				{Label: "Nationality", Type: TypeInput, InputType: "text", Key: KeyNationality, Placeholder: "Malagasy"},
			},
		},
		{
			Key:   SectionBirth,
			Title: "Birth",
			Fields: []Field{
				{Label: "Date of birth", Type: TypeInput, InputType: "date", Key: KeyBirthDate},
				{Label: "Place of birth", Type: TypeInput, InputType: "text", Key: KeyBirthPlace},
			},
		},
		{
			Key:   SectionContact,
			Title: "Contact",
			Fields: []Field{
				{Label: "Phone", Type: TypeInput, InputType: "tel", Key: KeyPhoneNumber, Placeholder: "+261 34 00 000 00"},
				{Label: "Email", Type: TypeInput, InputType: "email", Key: KeyEmail},
				{Label: "Address", Type: TypeTextarea, Key: KeyAddress},
			},
		},
		{
			Key:   SectionCIN,
			Title: "National ID",
			Fields: []Field{
				{Label: "CIN number", Type: TypeInput, InputType: "text", Key: KeyCIN},
				{Label: "Issued on", Type: TypeInput, InputType: "date", Key: KeyCINDate},
				{Label: "Issued at", Type: TypeInput, InputType: "text", Key: KeyCINPlace},
			},
		},
		{
			Key:   SectionBacc,
			Title: "Baccalaureate",
			Fields: []Field{
				{Label: "Number", Type: TypeInput, InputType: "text", Key: KeyBaccNumber},
				{Label: "Series", Type: TypeInput, InputType: "text", Key: KeyBaccSerie, Placeholder: "C, D, A2..."},
				{Label: "Center", Type: TypeInput, InputType: "text", Key: KeyBaccCenter},
			},
		},
		{
			Key:   SectionParents,
			Title: "Parents",
			Fields: []Field{
				{Label: "Father", Type: TypeInput, InputType: "text", Key: KeyFatherName},
				{Label: "Mother", Type: TypeInput, InputType: "text", Key: KeyMotherName},
				{Label: "Job", Type: TypeInput, InputType: "text", Key: KeyJob},
			},
		},
	}
}
