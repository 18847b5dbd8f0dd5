package enrollment

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/heartmarshall/scolary/internal/adapter/scolaryapi"
	"github.com/heartmarshall/scolary/internal/domain"
)

const (
	registeredListPath = "/liste/list_registered/"
	studentCardsPath   = "/carte/carte_student/"
)

// ReportQuery selects the students of a printed report.
type ReportQuery struct {
	AcademicYearID int64
	MentionID      int64
	JourneyID      int64
	Semester       domain.Semester
	CardNumbers    []string
}

// Validate validates the report query.
func (q ReportQuery) Validate() error {
	var errs []domain.FieldError

	if q.AcademicYearID <= 0 {
		errs = append(errs, domain.FieldError{Field: "id_year", Message: "required"})
	}
	if q.MentionID <= 0 {
		errs = append(errs, domain.FieldError{Field: "id_mention", Message: "required"})
	}
	if q.Semester != "" && !q.Semester.IsValid() {
		errs = append(errs, domain.FieldError{Field: "semester", Message: "must be S1..S10"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

func (q ReportQuery) values() url.Values {
	v := url.Values{}
	v.Set("id_year", strconv.FormatInt(q.AcademicYearID, 10))
	v.Set("id_mention", strconv.FormatInt(q.MentionID, 10))
	if q.JourneyID > 0 {
		v.Set("id_journey", strconv.FormatInt(q.JourneyID, 10))
	}
	if q.Semester != "" {
		v.Set("semester", string(q.Semester))
	}
	if len(q.CardNumbers) > 0 {
		v.Set("num_carte", strings.Join(q.CardNumbers, ","))
	}
	return v
}

// PrintRegisteredList renders the list of registered students as PDF.
func (s *Service) PrintRegisteredList(ctx context.Context, q ReportQuery) (*scolaryapi.Blob, error) {
	return s.print(ctx, registeredListPath, q)
}

// PrintStudentCards renders student cards as PDF.
func (s *Service) PrintStudentCards(ctx context.Context, q ReportQuery) (*scolaryapi.Blob, error) {
	return s.print(ctx, studentCardsPath, q)
}

func (s *Service) print(ctx context.Context, path string, q ReportQuery) (*scolaryapi.Blob, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	blob, err := s.api.DoBlob(ctx, path, scolaryapi.Request{Query: q.values()})
	if err != nil {
		return nil, err
	}
	if blob == nil || len(blob.Data) == 0 {
		return nil, fmt.Errorf("enrollment: %s returned an empty document", path)
	}

	s.log.InfoContext(ctx, "report printed",
		slog.String("path", path),
		slog.Int64("id_year", q.AcademicYearID),
		slog.Int("bytes", len(blob.Data)))
	return blob, nil
}
