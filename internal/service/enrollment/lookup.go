package enrollment

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/heartmarshall/scolary/internal/domain"
)

// LookupQuery identifies a student for the reinscription form.
type LookupQuery struct {
	CardNumber     string
	AcademicYearID int64
	Semester       domain.Semester
}

// Key is the dedupe key "cardNumber|id_year|semester".
func (q LookupQuery) Key() string {
	year := ""
	if q.AcademicYearID > 0 {
		year = strconv.FormatInt(q.AcademicYearID, 10)
	}
	return strings.TrimSpace(q.CardNumber) + "|" + year + "|" + string(q.Semester)
}

// Validate validates the lookup query.
func (q LookupQuery) Validate() error {
	var errs []domain.FieldError

	if strings.TrimSpace(q.CardNumber) == "" {
		errs = append(errs, domain.FieldError{Field: "num_carte", Message: "required"})
	}
	if q.Semester != "" && !q.Semester.IsValid() {
		errs = append(errs, domain.FieldError{Field: "semester", Message: "must be S1..S10"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// LookupStudent fetches a student by card number with annual registers,
// registered semesters and payments expanded. It bypasses the cache; the
// form layer decides when a lookup is repeated.
func (s *Service) LookupStudent(ctx context.Context, q LookupQuery) (*domain.Student, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	lq := domain.ListQuery{
		Where: []domain.Clause{{Key: "num_carte", Operator: domain.OpEqual, Value: strings.TrimSpace(q.CardNumber)}},
		Relation: []string{
			"annual_register.[register_semester,payment]",
		},
		Limit: 1,
		Extra: map[string]string{},
	}
	if q.AcademicYearID > 0 {
		lq.Extra["id_year"] = strconv.FormatInt(q.AcademicYearID, 10)
	}
	if q.Semester != "" {
		lq.Extra["semester"] = string(q.Semester)
	}

	resp, err := s.Students.Fetch(ctx, lq)
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("student %s: %w", q.CardNumber, domain.ErrNotFound)
	}

	s.log.DebugContext(ctx, "student lookup", slog.String("key", q.Key()))
	return &resp.Data[0], nil
}
