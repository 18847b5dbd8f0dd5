// Package filter turns list-screen selections (mention, journey, semester,
// academic year, free-text search) into backend where/relation parameters.
package filter

import (
	"strconv"

	"github.com/heartmarshall/scolary/internal/domain"
)

// Selection is the user's current filter choice. Zero values mean "any".
type Selection struct {
	MentionID      int64           `json:"mention_id,omitempty"`
	JourneyID      int64           `json:"journey_id,omitempty"`
	Semester       domain.Semester `json:"semester,omitempty"`
	AcademicYearID int64           `json:"academic_year_id,omitempty"`
	Search         string          `json:"search,omitempty"`
}

// IsZero reports whether nothing is selected.
func (s Selection) IsZero() bool {
	return s == Selection{}
}

// Spec maps a Selection onto one list endpoint. An empty key means the
// selection part is not filterable there.
type Spec struct {
	MentionKey      string
	JourneyKey      string
	SemesterKey     string
	AcademicYearKey string
	// AcademicYearParam sends the academic year as a plain query parameter
	// instead of a clause.
	AcademicYearParam string
	// SearchKey defaults to "name".
	SearchKey string
	Relation  []string
}

// Build returns the clauses and relation directives for sel, in the order
// mention, journey, semester, academic year, search. The mention clause is
// omitted once a journey is chosen since the journey implies it.
func (sp Spec) Build(sel Selection) ([]domain.Clause, []string) {
	var clauses []domain.Clause

	if sel.JourneyID > 0 && sp.JourneyKey != "" {
		clauses = append(clauses, domain.Clause{Key: sp.JourneyKey, Operator: domain.OpEqual, Value: sel.JourneyID})
	} else if sel.MentionID > 0 && sp.MentionKey != "" {
		clauses = append(clauses, domain.Clause{Key: sp.MentionKey, Operator: domain.OpEqual, Value: sel.MentionID})
	}
	if sel.Semester != "" && sp.SemesterKey != "" {
		clauses = append(clauses, domain.Clause{Key: sp.SemesterKey, Operator: domain.OpEqual, Value: string(sel.Semester)})
	}
	if sel.AcademicYearID > 0 && sp.AcademicYearKey != "" && sp.AcademicYearParam == "" {
		clauses = append(clauses, domain.Clause{Key: sp.AcademicYearKey, Operator: domain.OpEqual, Value: sel.AcademicYearID})
	}
	if c, ok := SearchClause(sp.searchKey(), sel.Search); ok {
		clauses = append(clauses, c)
	}

	var relation []string
	if len(sp.Relation) > 0 {
		relation = append(relation, sp.Relation...)
	}
	return clauses, relation
}

// ToListQuery builds the full list query of a page.
func (sp Spec) ToListQuery(sel Selection, page, pageSize int) domain.ListQuery {
	q := domain.PageQuery(page, pageSize)
	q.Where, q.Relation = sp.Build(sel)
	if sp.AcademicYearParam != "" && sel.AcademicYearID > 0 {
		q.Extra = map[string]string{sp.AcademicYearParam: strconv.FormatInt(sel.AcademicYearID, 10)}
	}
	return q
}

func (sp Spec) searchKey() string {
	if sp.SearchKey != "" {
		return sp.SearchKey
	}
	return "name"
}

// SearchClause returns the like clause for a free-text search, or false when
// the search is blank.
func SearchClause(key, search string) (domain.Clause, bool) {
	search = domain.NormalizeSearch(search)
	if search == "" {
		return domain.Clause{}, false
	}
	return domain.Clause{Key: key, Operator: domain.OpLike, Value: "%" + search + "%"}, true
}

// ---------------------------------------------------------------------------
// Screen specs
// ---------------------------------------------------------------------------

// Specs of the filterable admin screens.
var (
	TeachingUnits = Spec{
		MentionKey:  "journey.id_mention",
		JourneyKey:  "id_journey",
		SemesterKey: "semester",
		Relation:    []string{"journey{id,name,abbreviation}"},
	}

	ConstituentElements = Spec{
		MentionKey:  "journey.id_mention",
		JourneyKey:  "id_journey",
		SemesterKey: "semester",
		Relation:    []string{"journey{id,name}"},
	}

	Groups = Spec{
		MentionKey:  "journey.id_mention",
		JourneyKey:  "id_journey",
		SemesterKey: "semester",
		Relation:    []string{"journey{id,name}"},
	}

	Journeys = Spec{
		MentionKey: "id_mention",
		Relation:   []string{"mention{id,name}"},
	}

	Mentions = Spec{}

	Cards = Spec{}

	// Offerings filters constituent element offerings through their
	// teaching unit offering.
	Offerings = Spec{
		MentionKey:      "teaching_unit_offering.teaching_unit.journey.id_mention",
		JourneyKey:      "teaching_unit_offering.teaching_unit.id_journey",
		SemesterKey:     "teaching_unit_offering.teaching_unit.semester",
		AcademicYearKey: "teaching_unit_offering.id_academic_year",
		SearchKey:       "constituent_element.name",
		Relation: []string{
			"teaching_unit_offering.[teaching_unit.[id_journey,semester]]",
			"constituent_element{id,name,color}",
		},
	}

	Students = Spec{
		MentionKey:        "id_mention",
		AcademicYearParam: "academic_year_id",
		SearchKey:         "last_name",
	}
)
