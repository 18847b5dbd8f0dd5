package domain

// Mention is an academic major (department).
type Mention struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Abbreviation string `json:"abbreviation"`
	Plugged      string `json:"plugged"`
	Background   string `json:"background"`

	Journeys []Journey `json:"journeys,omitempty"`
}

// MentionPayload is the request body for creating or updating a mention.
type MentionPayload struct {
	Name         string `json:"name"         validate:"required"`
	Slug         string `json:"slug"         validate:"required"`
	Abbreviation string `json:"abbreviation" validate:"required"`
	Plugged      string `json:"plugged,omitempty"`
	Background   string `json:"background,omitempty"`
}

// Journey is a program (track) within a mention.
type Journey struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Abbreviation string     `json:"abbreviation"`
	MentionID    int64      `json:"id_mention"`
	SemesterList []Semester `json:"semester_list,omitempty"`

	Mention *Mention `json:"mention,omitempty"`
}

// JourneyPayload is the request body for creating or updating a journey.
type JourneyPayload struct {
	Name         string     `json:"name"          validate:"required"`
	Abbreviation string     `json:"abbreviation"  validate:"required"`
	MentionID    int64      `json:"id_mention"    validate:"required"`
	SemesterList []Semester `json:"semester_list,omitempty"`
}

// TeachingUnit is a curriculum unit (UE) belonging to a journey and semester.
type TeachingUnit struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	Semester  Semester `json:"semester"`
	JourneyID int64    `json:"id_journey"`

	Journey *Journey `json:"journey,omitempty"`
}

// TeachingUnitPayload is the request body for creating or updating a teaching unit.
type TeachingUnitPayload struct {
	Name      string   `json:"name"       validate:"required"`
	Semester  Semester `json:"semester"   validate:"required"`
	JourneyID int64    `json:"id_journey" validate:"required"`
}

// ConstituentElement is a course element (EC) belonging to a journey and semester.
type ConstituentElement struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	Semester  Semester `json:"semester"`
	JourneyID int64    `json:"id_journey"`
	Color     string   `json:"color,omitempty"`

	Journey *Journey `json:"journey,omitempty"`
}

// ConstituentElementPayload is the request body for a constituent element.
type ConstituentElementPayload struct {
	Name      string   `json:"name"       validate:"required"`
	Semester  Semester `json:"semester"   validate:"required"`
	JourneyID int64    `json:"id_journey" validate:"required"`
	Color     string   `json:"color,omitempty"`
}

// TeachingUnitOffering is a teaching unit offered during an academic year.
type TeachingUnitOffering struct {
	ID             int64   `json:"id"`
	TeachingUnitID int64   `json:"id_teaching_unit"`
	AcademicYearID int64   `json:"id_academic_year"`
	Credit         float64 `json:"credit"`

	TeachingUnit *TeachingUnit `json:"teaching_unit,omitempty"`
}

// TeachingUnitOfferingPayload is the request body for a teaching unit offering.
type TeachingUnitOfferingPayload struct {
	TeachingUnitID int64   `json:"id_teaching_unit" validate:"required"`
	AcademicYearID int64   `json:"id_academic_year" validate:"required"`
	Credit         float64 `json:"credit"           validate:"gte=0"`
}

// ConstituentElementOffering links a constituent element to a teaching unit offering.
type ConstituentElementOffering struct {
	ID                     int64   `json:"id"`
	ConstituentElementID   int64   `json:"id_constituent_element"`
	TeachingUnitOfferingID int64   `json:"id_teaching_unit_offering"`
	Weight                 float64 `json:"weight"`
	OptionalGroupID        *int64  `json:"id_optional_group,omitempty"`

	ConstituentElement   *ConstituentElement   `json:"constituent_element,omitempty"`
	TeachingUnitOffering *TeachingUnitOffering `json:"teaching_unit_offering,omitempty"`
}

// ConstituentElementOfferingPayload is the request body for a constituent element offering.
type ConstituentElementOfferingPayload struct {
	ConstituentElementID   int64   `json:"id_constituent_element"    validate:"required"`
	TeachingUnitOfferingID int64   `json:"id_teaching_unit_offering" validate:"required"`
	Weight                 float64 `json:"weight"                    validate:"gte=0"`
	OptionalGroupID        *int64  `json:"id_optional_group,omitempty"`
}

// Group is a set of students of a journey for a given semester.
type Group struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	JourneyID    int64    `json:"id_journey"`
	Semester     Semester `json:"semester"`
	StudentCount int      `json:"student_count,omitempty"`

	Journey *Journey `json:"journey,omitempty"`
}

// GroupPayload is the request body for creating or updating a group.
type GroupPayload struct {
	Name      string   `json:"name"       validate:"required"`
	JourneyID int64    `json:"id_journey" validate:"required"`
	Semester  Semester `json:"semester"   validate:"required"`
}

// AcademicYear is a school year such as 2024-2025.
type AcademicYear struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// AcademicYearPayload is the request body for an academic year.
type AcademicYearPayload struct {
	Name string `json:"name" validate:"required"`
	Code string `json:"code" validate:"required"`
}
