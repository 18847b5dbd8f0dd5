package filter

import (
	"context"
	"fmt"
	"slices"

	"github.com/heartmarshall/scolary/internal/domain"
)

// journeySource loads the journeys of a mention.
type journeySource interface {
	JourneysByMention(ctx context.Context, mentionID int64) ([]domain.Journey, error)
}

// Cascade keeps the dependent options of a Selection in sync:
// mention -> journeys -> semesters.
type Cascade struct {
	src       journeySource
	journeys  []domain.Journey
	semesters []domain.Semester
}

// NewCascade creates a Cascade with no mention chosen.
func NewCascade(src journeySource) *Cascade {
	return &Cascade{src: src, semesters: domain.AllSemesters()}
}

// Journeys returns the journey options of the selected mention.
func (c *Cascade) Journeys() []domain.Journey { return c.journeys }

// Semesters returns the semester options of the selected journey.
func (c *Cascade) Semesters() []domain.Semester { return c.semesters }

// SelectMention sets the mention, reloads the journey options and clears the
// journey and semester.
func (c *Cascade) SelectMention(ctx context.Context, sel *Selection, mentionID int64) error {
	sel.MentionID = mentionID
	sel.JourneyID = 0
	sel.Semester = ""
	c.semesters = domain.AllSemesters()

	if mentionID <= 0 {
		c.journeys = nil
		return nil
	}

	journeys, err := c.src.JourneysByMention(ctx, mentionID)
	if err != nil {
		c.journeys = nil
		return fmt.Errorf("filter: load journeys of mention %d: %w", mentionID, err)
	}
	c.journeys = journeys
	return nil
}

// SelectJourney sets the journey and restricts the semester options to its
// semester list, or the full S1..S10 range when it has none. A selected
// semester that is no longer offered is cleared.
func (c *Cascade) SelectJourney(sel *Selection, journeyID int64) {
	sel.JourneyID = journeyID
	c.semesters = domain.AllSemesters()

	if journeyID > 0 {
		for _, j := range c.journeys {
			if j.ID == journeyID && len(j.SemesterList) > 0 {
				c.semesters = slices.Clone(j.SemesterList)
				break
			}
		}
	}

	if sel.Semester != "" && !slices.Contains(c.semesters, sel.Semester) {
		sel.Semester = ""
	}
}

// SelectSemester sets the semester if it is one of the current options.
func (c *Cascade) SelectSemester(sel *Selection, s domain.Semester) error {
	if s == "" {
		sel.Semester = ""
		return nil
	}
	if !slices.Contains(c.semesters, s) {
		return domain.NewValidationError("semester", fmt.Sprintf("%s is not offered", s))
	}
	sel.Semester = s
	return nil
}

// Restore rebuilds the options for a rehydrated selection and drops the parts
// that no longer match (a journey outside the mention, an unoffered semester).
func (c *Cascade) Restore(ctx context.Context, sel Selection) (Selection, error) {
	out := sel
	journeyID, semester := sel.JourneyID, sel.Semester

	if err := c.SelectMention(ctx, &out, sel.MentionID); err != nil {
		return Selection{AcademicYearID: sel.AcademicYearID, Search: sel.Search}, err
	}

	if journeyID > 0 && slices.ContainsFunc(c.journeys, func(j domain.Journey) bool { return j.ID == journeyID }) {
		out.Semester = semester
		c.SelectJourney(&out, journeyID)
	} else if semester.IsValid() {
		out.Semester = semester
	}
	return out, nil
}
