package page

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/heartmarshall/scolary/internal/domain"
	"github.com/heartmarshall/scolary/internal/filter"
	"github.com/heartmarshall/scolary/internal/form"
	"github.com/heartmarshall/scolary/internal/listing"
	"github.com/heartmarshall/scolary/internal/service/academics"
	"github.com/heartmarshall/scolary/internal/service/cards"
	"github.com/heartmarshall/scolary/internal/service/enrollment"
)

type (
	MentionsPage            = Controller[domain.Mention, form.MentionValues, domain.MentionPayload]
	JourneysPage            = Controller[domain.Journey, form.JourneyValues, domain.JourneyPayload]
	TeachingUnitsPage       = Controller[domain.TeachingUnit, form.TeachingUnitValues, domain.TeachingUnitPayload]
	ConstituentElementsPage = Controller[domain.ConstituentElement, form.ConstituentElementValues, domain.ConstituentElementPayload]
	GroupsPage              = Controller[domain.Group, form.GroupValues, domain.GroupPayload]
	OfferingsPage           = Controller[domain.ConstituentElementOffering, form.ConstituentElementOfferingValues, domain.ConstituentElementOfferingPayload]
	StudentsPage            = Controller[domain.Student, form.State, domain.StudentPayload]
	CardsPage               = Controller[domain.Card, form.CardValues, domain.CardPayload]
)

func formatID(n int64) string { return strconv.FormatInt(n, 10) }

func journeyName(j *domain.Journey) string {
	if j == nil {
		return ""
	}
	return j.Name
}

func options(svc *academics.Service) *OptionSources {
	return &OptionSources{Mentions: svc.Mentions, AcademicYears: svc.AcademicYears}
}

// NewMentionsPage builds the mentions screen.
func NewMentionsPage(logger *slog.Logger, svc *academics.Service, pageSize int) *MentionsPage {
	return New(logger, Config[domain.Mention, form.MentionValues, domain.MentionPayload]{
		Title:    "Mention",
		Resource: svc.Mentions,
		Mapper:   form.Mention,
		Filter:   filter.Mentions,
		PageSize: pageSize,
		Label:    func(m domain.Mention) string { return m.Name },
		Table: listing.Table[domain.Mention]{
			Columns: []listing.Column[domain.Mention]{
				{Header: "id", Value: func(m domain.Mention) string { return formatID(m.ID) }},
				{Header: "name", Value: func(m domain.Mention) string { return m.Name }},
				{Header: "abbreviation", Value: func(m domain.Mention) string { return m.Abbreviation }},
				{Header: "slug", Value: func(m domain.Mention) string { return m.Slug }},
				{Header: "plugged", Value: func(m domain.Mention) string { return m.Plugged }},
			},
			EmptyText: emptyText("mentions"),
			GridItem: func(m domain.Mention) string {
				return m.Abbreviation + "  " + m.Name + "\n  " + m.Slug
			},
		},
	})
}

// NewJourneysPage builds the journeys screen, filterable by mention.
func NewJourneysPage(logger *slog.Logger, svc *academics.Service, pageSize int) *JourneysPage {
	return New(logger, Config[domain.Journey, form.JourneyValues, domain.JourneyPayload]{
		Title:    "Journey",
		Resource: svc.Journeys,
		Mapper:   form.Journey,
		Filter:   filter.Journeys,
		PageSize: pageSize,
		Options:  options(svc),
		Label:    func(j domain.Journey) string { return j.Name },
		Table: listing.Table[domain.Journey]{
			Columns: []listing.Column[domain.Journey]{
				{Header: "id", Value: func(j domain.Journey) string { return formatID(j.ID) }},
				{Header: "name", Value: func(j domain.Journey) string { return j.Name }},
				{Header: "abbreviation", Value: func(j domain.Journey) string { return j.Abbreviation }},
				{Header: "mention", Value: func(j domain.Journey) string {
					if j.Mention != nil {
						return j.Mention.Name
					}
					return formatID(j.MentionID)
				}},
				{Header: "semesters", Value: func(j domain.Journey) string { return semesters(j.SemesterList) }},
			},
			EmptyText: emptyText("journeys"),
		},
	})
}

// NewTeachingUnitsPage builds the teaching units screen with persisted filters.
func NewTeachingUnitsPage(logger *slog.Logger, svc *academics.Service, store *filter.Store, pageSize int) *TeachingUnitsPage {
	return New(logger, Config[domain.TeachingUnit, form.TeachingUnitValues, domain.TeachingUnitPayload]{
		Title:     "Teaching unit",
		Resource:  svc.TeachingUnits,
		Mapper:    form.TeachingUnit,
		Filter:    filter.TeachingUnits,
		FilterKey: filter.TeachingUnitsKey,
		Store:     store,
		PageSize:  pageSize,
		Options:   options(svc),
		Label:     func(u domain.TeachingUnit) string { return u.Name },
		Table: listing.Table[domain.TeachingUnit]{
			Columns: []listing.Column[domain.TeachingUnit]{
				{Header: "id", Value: func(u domain.TeachingUnit) string { return formatID(u.ID) }},
				{Header: "name", Value: func(u domain.TeachingUnit) string { return u.Name }},
				{Header: "semester", Value: func(u domain.TeachingUnit) string { return string(u.Semester) }},
				{Header: "journey", Value: func(u domain.TeachingUnit) string { return journeyName(u.Journey) }},
			},
			EmptyText: emptyText("teaching units"),
		},
	})
}

// NewConstituentElementsPage builds the constituent elements screen with persisted filters.
func NewConstituentElementsPage(logger *slog.Logger, svc *academics.Service, store *filter.Store, pageSize int) *ConstituentElementsPage {
	return New(logger, Config[domain.ConstituentElement, form.ConstituentElementValues, domain.ConstituentElementPayload]{
		Title:     "Constituent element",
		Resource:  svc.ConstituentElements,
		Mapper:    form.ConstituentElement,
		Filter:    filter.ConstituentElements,
		FilterKey: filter.ConstituentElementsKey,
		Store:     store,
		PageSize:  pageSize,
		Options:   options(svc),
		Label:     func(c domain.ConstituentElement) string { return c.Name },
		Table: listing.Table[domain.ConstituentElement]{
			Columns: []listing.Column[domain.ConstituentElement]{
				{Header: "id", Value: func(c domain.ConstituentElement) string { return formatID(c.ID) }},
				{Header: "name", Value: func(c domain.ConstituentElement) string { return c.Name }},
				{Header: "semester", Value: func(c domain.ConstituentElement) string { return string(c.Semester) }},
				{Header: "journey", Value: func(c domain.ConstituentElement) string { return journeyName(c.Journey) }},
				{Header: "color", Value: func(c domain.ConstituentElement) string { return c.Color }},
			},
			EmptyText: emptyText("constituent elements"),
		},
	})
}

// NewGroupsPage builds the groups screen with persisted filters.
func NewGroupsPage(logger *slog.Logger, svc *academics.Service, store *filter.Store, pageSize int) *GroupsPage {
	return New(logger, Config[domain.Group, form.GroupValues, domain.GroupPayload]{
		Title:     "Group",
		Resource:  svc.Groups,
		Mapper:    form.Group,
		Filter:    filter.Groups,
		FilterKey: filter.GroupsKey,
		Store:     store,
		PageSize:  pageSize,
		Options:   options(svc),
		Label:     func(g domain.Group) string { return g.Name },
		Table: listing.Table[domain.Group]{
			Columns: []listing.Column[domain.Group]{
				{Header: "id", Value: func(g domain.Group) string { return formatID(g.ID) }},
				{Header: "name", Value: func(g domain.Group) string { return g.Name }},
				{Header: "semester", Value: func(g domain.Group) string { return string(g.Semester) }},
				{Header: "journey", Value: func(g domain.Group) string { return journeyName(g.Journey) }},
				{Header: "students", Value: func(g domain.Group) string { return strconv.Itoa(g.StudentCount) }},
			},
			EmptyText: emptyText("groups"),
		},
	})
}

// NewOfferingsPage builds the offering management screen: constituent element
// offerings filtered through their teaching unit offering, with persisted filters.
func NewOfferingsPage(logger *slog.Logger, svc *academics.Service, store *filter.Store, pageSize int) *OfferingsPage {
	return New(logger, Config[domain.ConstituentElementOffering, form.ConstituentElementOfferingValues, domain.ConstituentElementOfferingPayload]{
		Title:     "Offering",
		Resource:  svc.ConstituentElementOfferings,
		Mapper:    form.ConstituentElementOffering,
		Filter:    filter.Offerings,
		FilterKey: filter.OfferingsKey,
		Store:     store,
		PageSize:  pageSize,
		Options:   options(svc),
		Label:     offeringName,
		Table: listing.Table[domain.ConstituentElementOffering]{
			Columns: []listing.Column[domain.ConstituentElementOffering]{
				{Header: "id", Value: func(o domain.ConstituentElementOffering) string { return formatID(o.ID) }},
				{Header: "element", Value: offeringName},
				{Header: "semester", Value: func(o domain.ConstituentElementOffering) string {
					if o.TeachingUnitOffering != nil && o.TeachingUnitOffering.TeachingUnit != nil {
						return string(o.TeachingUnitOffering.TeachingUnit.Semester)
					}
					return ""
				}},
				{Header: "unit offering", Value: func(o domain.ConstituentElementOffering) string { return formatID(o.TeachingUnitOfferingID) }},
				{Header: "weight", Value: func(o domain.ConstituentElementOffering) string {
					return strconv.FormatFloat(o.Weight, 'f', -1, 64)
				}},
			},
			EmptyText: emptyText("offerings"),
		},
	})
}

func offeringName(o domain.ConstituentElementOffering) string {
	if o.ConstituentElement != nil {
		return o.ConstituentElement.Name
	}
	return formatID(o.ConstituentElementID)
}

// NewStudentsPage builds the students screen, filterable by mention and
// academic year.
func NewStudentsPage(logger *slog.Logger, svc *enrollment.Service, pageSize int) *StudentsPage {
	return New(logger, Config[domain.Student, form.State, domain.StudentPayload]{
		Title:    "Student",
		Resource: svc.Students,
		Mapper:   form.Student,
		Filter:   filter.Students,
		PageSize: pageSize,
		Label:    func(s domain.Student) string { return s.CardNumber },
		Table: listing.Table[domain.Student]{
			Columns: []listing.Column[domain.Student]{
				{Header: "card", Value: func(s domain.Student) string { return s.CardNumber }},
				{Header: "last name", Value: func(s domain.Student) string { return deref(s.LastName) }},
				{Header: "first name", Value: func(s domain.Student) string { return deref(s.FirstName) }},
				{Header: "email", Value: func(s domain.Student) string { return deref(s.Email) }},
			},
			EmptyText: emptyText("students"),
		},
	})
}

// NewCardsPage builds the card templates screen.
func NewCardsPage(logger *slog.Logger, svc *cards.Service, pageSize int) *CardsPage {
	return New(logger, Config[domain.Card, form.CardValues, domain.CardPayload]{
		Title:    "Card",
		Resource: svc,
		Mapper:   form.Card,
		Filter:   filter.Cards,
		PageSize: pageSize,
		Label:    func(c domain.Card) string { return c.Name },
		Table: listing.Table[domain.Card]{
			Columns: []listing.Column[domain.Card]{
				{Header: "id", Value: func(c domain.Card) string { return formatID(c.ID) }},
				{Header: "name", Value: func(c domain.Card) string { return c.Name }},
				{Header: "size", Value: func(c domain.Card) string {
					if c.Width == 0 && c.Height == 0 {
						return ""
					}
					return strconv.FormatFloat(c.Width, 'f', -1, 64) + "x" + strconv.FormatFloat(c.Height, 'f', -1, 64)
				}},
			},
			EmptyText: emptyText("cards"),
			GridItem:  func(c domain.Card) string { return c.Name },
		},
	})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func emptyText(what string) func(string) string {
	return func(lastErr string) string {
		if lastErr != "" {
			return "Could not load " + what + ": " + lastErr
		}
		return "No " + what + " found."
	}
}

func semesters(list []domain.Semester) string {
	parts := make([]string, len(list))
	for i, s := range list {
		parts[i] = string(s)
	}
	return strings.Join(parts, ",")
}
