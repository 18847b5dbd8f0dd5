package domain

// Student is a student profile as returned by the backend.
// Nullable fields are pointers so a lookup never overwrites form values with null.
type Student struct {
	ID          int64   `json:"id"`
	CardNumber  string  `json:"num_carte"`
	LastName    *string `json:"last_name"`
	FirstName   *string `json:"first_name"`
	Sex         *string `json:"sex"`
	BirthDate   *string `json:"date_of_birth"`
	BirthPlace  *string `json:"place_of_birth"`
	Address     *string `json:"address"`
	PhoneNumber *string `json:"phone_number"`
	Email       *string `json:"email"`
	Nationality *string `json:"nation"`
	CIN         *string `json:"num_of_cin"`
	CINDate     *string `json:"date_of_cin"`
	CINPlace    *string `json:"place_of_cin"`
	BaccNumber  *string `json:"num_of_baccalaureate"`
	BaccSerie   *string `json:"baccalaureate_series"`
	BaccCenter  *string `json:"center_of_baccalaureate"`
	JobTitle    *string `json:"job"`
	FatherName  *string `json:"father_name"`
	MotherName  *string `json:"mother_name"`
	MentionID   *int64  `json:"id_mention"`

	AnnualRegisters []AnnualRegister `json:"annual_register,omitempty"`
}

// AnnualRegister is a student's enrollment record for one academic year.
type AnnualRegister struct {
	ID                int64              `json:"id"`
	CardNumber        string             `json:"num_carte"`
	AcademicYearID    int64              `json:"id_academic_year"`
	RegisterType      string             `json:"register_type,omitempty"`
	RegisterSemesters []RegisterSemester `json:"register_semester"`
	Payments          []Payment          `json:"payment,omitempty"`
}

// AnnualRegisterPayload is the request body for an annual register.
type AnnualRegisterPayload struct {
	CardNumber     string `json:"num_carte"        validate:"required"`
	AcademicYearID int64  `json:"id_academic_year" validate:"required"`
	RegisterType   string `json:"register_type,omitempty"`
}

// RegisterSemester is a semester a student registered for within an annual register.
type RegisterSemester struct {
	ID           int64        `json:"id"`
	Semester     Semester     `json:"semester"`
	RepeatStatus RepeatStatus `json:"repeat_status"`
	JourneyID    int64        `json:"id_journey"`
}

// Payment is a fee payment attached to an annual register.
type Payment struct {
	ID        int64   `json:"id"`
	Reference string  `json:"num_receipt"`
	Amount    float64 `json:"payed"`
	Date      string  `json:"date_receipt"`
}

// StudentPayload is the request body for creating or updating a student.
type StudentPayload struct {
	CardNumber  string `json:"num_carte"      validate:"required"`
	LastName    string `json:"last_name"      validate:"required"`
	FirstName   string `json:"first_name,omitempty"`
	Sex         string `json:"sex,omitempty"`
	BirthDate   string `json:"date_of_birth,omitempty"`
	BirthPlace  string `json:"place_of_birth,omitempty"`
	Address     string `json:"address,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Email       string `json:"email,omitempty"`
	Nationality string `json:"nation,omitempty"`
	CIN         string `json:"num_of_cin,omitempty"`
	CINDate     string `json:"date_of_cin,omitempty"`
	CINPlace    string `json:"place_of_cin,omitempty"`
	BaccNumber  string `json:"num_of_baccalaureate,omitempty"`
	BaccSerie   string `json:"baccalaureate_series,omitempty"`
	BaccCenter  string `json:"center_of_baccalaureate,omitempty"`
	JobTitle    string `json:"job,omitempty"`
	FatherName  string `json:"father_name,omitempty"`
	MotherName  string `json:"mother_name,omitempty"`
	MentionID   int64  `json:"id_mention,omitempty"`
}
