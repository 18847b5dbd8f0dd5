package form

import (
	"slices"
	"strings"

	"github.com/heartmarshall/scolary/internal/domain"
)

// Mapper converts between a record, its dialog values and the request body.
// ToFormValues(nil) is the value set of an empty create dialog.
type Mapper[T, V, P any] struct {
	ToFormValues func(record *T) V
	ToPayload    func(values V) (P, error)
}

// Default values of empty create dialogs.
const (
	DefaultSemester   = domain.Semester("S1")
	DefaultBackground = "#ffffff"
	DefaultColor      = "#3b82f6"
)

func trim(s string) string { return strings.TrimSpace(s) }

// ---------------------------------------------------------------------------
// Academics
// ---------------------------------------------------------------------------

type MentionValues struct {
	Name         string
	Slug         string
	Abbreviation string
	Plugged      string
	Background   string
}

var Mention = Mapper[domain.Mention, MentionValues, domain.MentionPayload]{
	ToFormValues: func(m *domain.Mention) MentionValues {
		if m == nil {
			return MentionValues{Background: DefaultBackground}
		}
		return MentionValues{
			Name:         m.Name,
			Slug:         m.Slug,
			Abbreviation: m.Abbreviation,
			Plugged:      m.Plugged,
			Background:   m.Background,
		}
	},
	// An empty slug is derived from the name.
	ToPayload: func(v MentionValues) (domain.MentionPayload, error) {
		p := domain.MentionPayload{
			Name:         trim(v.Name),
			Slug:         trim(v.Slug),
			Abbreviation: trim(v.Abbreviation),
			Plugged:      trim(v.Plugged),
			Background:   trim(v.Background),
		}
		if p.Slug == "" {
			p.Slug = Slugify(p.Name)
		}
		return p, Validate(p)
	},
}

type JourneyValues struct {
	Name         string
	Abbreviation string
	MentionID    int64
	SemesterList []domain.Semester
}

var Journey = Mapper[domain.Journey, JourneyValues, domain.JourneyPayload]{
	ToFormValues: func(j *domain.Journey) JourneyValues {
		if j == nil {
			return JourneyValues{SemesterList: []domain.Semester{}}
		}
		list := slices.Clone(j.SemesterList)
		if list == nil {
			list = []domain.Semester{}
		}
		return JourneyValues{
			Name:         j.Name,
			Abbreviation: j.Abbreviation,
			MentionID:    j.MentionID,
			SemesterList: list,
		}
	},
	ToPayload: func(v JourneyValues) (domain.JourneyPayload, error) {
		p := domain.JourneyPayload{
			Name:         trim(v.Name),
			Abbreviation: trim(v.Abbreviation),
			MentionID:    v.MentionID,
		}
		for _, s := range v.SemesterList {
			if !s.IsValid() {
				return p, domain.NewValidationError("semester_list", "semesters must be S1..S10")
			}
		}
		if len(v.SemesterList) > 0 {
			p.SemesterList = slices.Clone(v.SemesterList)
		}
		return p, Validate(p)
	},
}

type TeachingUnitValues struct {
	Name      string
	Semester  domain.Semester
	JourneyID int64
}

var TeachingUnit = Mapper[domain.TeachingUnit, TeachingUnitValues, domain.TeachingUnitPayload]{
	ToFormValues: func(u *domain.TeachingUnit) TeachingUnitValues {
		if u == nil {
			return TeachingUnitValues{Semester: DefaultSemester}
		}
		return TeachingUnitValues{Name: u.Name, Semester: u.Semester, JourneyID: u.JourneyID}
	},
	ToPayload: func(v TeachingUnitValues) (domain.TeachingUnitPayload, error) {
		p := domain.TeachingUnitPayload{Name: trim(v.Name), Semester: v.Semester, JourneyID: v.JourneyID}
		if err := checkSemester(p.Semester); err != nil {
			return p, err
		}
		return p, Validate(p)
	},
}

type ConstituentElementValues struct {
	Name      string
	Semester  domain.Semester
	JourneyID int64
	Color     string
}

var ConstituentElement = Mapper[domain.ConstituentElement, ConstituentElementValues, domain.ConstituentElementPayload]{
	ToFormValues: func(c *domain.ConstituentElement) ConstituentElementValues {
		if c == nil {
			return ConstituentElementValues{Semester: DefaultSemester, Color: DefaultColor}
		}
		return ConstituentElementValues{Name: c.Name, Semester: c.Semester, JourneyID: c.JourneyID, Color: c.Color}
	},
	ToPayload: func(v ConstituentElementValues) (domain.ConstituentElementPayload, error) {
		p := domain.ConstituentElementPayload{
			Name:      trim(v.Name),
			Semester:  v.Semester,
			JourneyID: v.JourneyID,
			Color:     trim(v.Color),
		}
		if err := checkSemester(p.Semester); err != nil {
			return p, err
		}
		return p, Validate(p)
	},
}

type GroupValues struct {
	Name      string
	JourneyID int64
	Semester  domain.Semester
}

var Group = Mapper[domain.Group, GroupValues, domain.GroupPayload]{
	ToFormValues: func(g *domain.Group) GroupValues {
		if g == nil {
			return GroupValues{Semester: DefaultSemester}
		}
		return GroupValues{Name: g.Name, JourneyID: g.JourneyID, Semester: g.Semester}
	},
	ToPayload: func(v GroupValues) (domain.GroupPayload, error) {
		p := domain.GroupPayload{Name: trim(v.Name), JourneyID: v.JourneyID, Semester: v.Semester}
		if err := checkSemester(p.Semester); err != nil {
			return p, err
		}
		return p, Validate(p)
	},
}

type ConstituentElementOfferingValues struct {
	ConstituentElementID   int64
	TeachingUnitOfferingID int64
	Weight                 float64
	OptionalGroupID        int64
}

var ConstituentElementOffering = Mapper[domain.ConstituentElementOffering, ConstituentElementOfferingValues, domain.ConstituentElementOfferingPayload]{
	ToFormValues: func(o *domain.ConstituentElementOffering) ConstituentElementOfferingValues {
		if o == nil {
			return ConstituentElementOfferingValues{Weight: 1}
		}
		v := ConstituentElementOfferingValues{
			ConstituentElementID:   o.ConstituentElementID,
			TeachingUnitOfferingID: o.TeachingUnitOfferingID,
			Weight:                 o.Weight,
		}
		if o.OptionalGroupID != nil {
			v.OptionalGroupID = *o.OptionalGroupID
		}
		return v
	},
	ToPayload: func(v ConstituentElementOfferingValues) (domain.ConstituentElementOfferingPayload, error) {
		p := domain.ConstituentElementOfferingPayload{
			ConstituentElementID:   v.ConstituentElementID,
			TeachingUnitOfferingID: v.TeachingUnitOfferingID,
			Weight:                 v.Weight,
		}
		if v.OptionalGroupID > 0 {
			id := v.OptionalGroupID
			p.OptionalGroupID = &id
		}
		return p, Validate(p)
	},
}

type AcademicYearValues struct {
	Name string
	Code string
}

var AcademicYear = Mapper[domain.AcademicYear, AcademicYearValues, domain.AcademicYearPayload]{
	ToFormValues: func(y *domain.AcademicYear) AcademicYearValues {
		if y == nil {
			return AcademicYearValues{}
		}
		return AcademicYearValues{Name: y.Name, Code: y.Code}
	},
	ToPayload: func(v AcademicYearValues) (domain.AcademicYearPayload, error) {
		p := domain.AcademicYearPayload{Name: trim(v.Name), Code: trim(v.Code)}
		return p, Validate(p)
	},
}

func checkSemester(s domain.Semester) error {
	if s != "" && !s.IsValid() {
		return domain.NewValidationError("semester", "must be S1..S10")
	}
	return nil
}

// ---------------------------------------------------------------------------
// Content
// ---------------------------------------------------------------------------

// CardValues holds the sample data as the text of a JSON text area.
type CardValues struct {
	Name       string
	Template   string
	SampleData string
	Width      float64
	Height     float64
}

var Card = Mapper[domain.Card, CardValues, domain.CardPayload]{
	ToFormValues: func(c *domain.Card) CardValues {
		if c == nil {
			return CardValues{SampleData: "{}"}
		}
		return CardValues{
			Name:       c.Name,
			Template:   c.Template,
			SampleData: FormatJSONField(c.SampleData),
			Width:      c.Width,
			Height:     c.Height,
		}
	},
	ToPayload: func(v CardValues) (domain.CardPayload, error) {
		p := domain.CardPayload{Name: trim(v.Name), Template: v.Template, Width: v.Width, Height: v.Height}
		data, err := ParseJSONField("sample_data", v.SampleData)
		if err != nil {
			return p, err
		}
		p.SampleData = data
		return p, Validate(p)
	},
}

type CmsPageValues struct {
	Slug    string
	Title   string
	Content string
	Meta    string
}

var CmsPage = Mapper[domain.CmsPage, CmsPageValues, domain.CmsPagePayload]{
	ToFormValues: func(c *domain.CmsPage) CmsPageValues {
		if c == nil {
			return CmsPageValues{Meta: "{}"}
		}
		return CmsPageValues{Slug: c.Slug, Title: c.Title, Content: c.Content, Meta: FormatJSONField(c.Meta)}
	},
	// An empty slug is derived from the title.
	ToPayload: func(v CmsPageValues) (domain.CmsPagePayload, error) {
		p := domain.CmsPagePayload{Slug: trim(v.Slug), Title: trim(v.Title), Content: v.Content}
		if p.Slug == "" {
			p.Slug = Slugify(p.Title)
		}
		meta, err := ParseJSONField("meta", v.Meta)
		if err != nil {
			return p, err
		}
		p.Meta = meta
		return p, Validate(p)
	},
}

type UniversityValues struct {
	Name    string
	Acronym string
	Address string
	Phone   string
	Email   string
}

var University = Mapper[domain.University, UniversityValues, domain.UniversityPayload]{
	ToFormValues: func(u *domain.University) UniversityValues {
		if u == nil {
			return UniversityValues{}
		}
		return UniversityValues{Name: u.Name, Acronym: u.Acronym, Address: u.Address, Phone: u.Phone, Email: u.Email}
	},
	ToPayload: func(v UniversityValues) (domain.UniversityPayload, error) {
		p := domain.UniversityPayload{
			Name:    trim(v.Name),
			Acronym: trim(v.Acronym),
			Address: trim(v.Address),
			Phone:   trim(v.Phone),
			Email:   trim(v.Email),
		}
		return p, Validate(p)
	},
}

// UserValues carries a password only when it is being set.
type UserValues struct {
	Email       string
	FirstName   string
	LastName    string
	Password    string
	IsSuperuser bool
	IsActive    bool
}

var User = Mapper[domain.User, UserValues, domain.UserPayload]{
	ToFormValues: func(u *domain.User) UserValues {
		if u == nil {
			return UserValues{IsActive: true}
		}
		return UserValues{
			Email:       u.Email,
			FirstName:   u.FirstName,
			LastName:    u.LastName,
			IsSuperuser: u.IsSuperuser,
			IsActive:    u.IsActive,
		}
	},
	ToPayload: func(v UserValues) (domain.UserPayload, error) {
		p := domain.UserPayload{
			Email:       trim(v.Email),
			FirstName:   trim(v.FirstName),
			LastName:    trim(v.LastName),
			Password:    v.Password,
			IsSuperuser: v.IsSuperuser,
			IsActive:    v.IsActive,
		}
		return p, Validate(p)
	},
}

// ---------------------------------------------------------------------------
// Enrollment
// ---------------------------------------------------------------------------

// Student edits a student through the same field state as the lookup form.
var Student = Mapper[domain.Student, State, domain.StudentPayload]{
	ToFormValues: func(s *domain.Student) State {
		st := State{}
		Fill(st, s)
		return st
	},
	ToPayload: StudentPayload,
}
