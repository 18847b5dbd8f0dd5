// Package academics groups the curriculum resources: mentions, journeys,
// teaching units, constituent elements, their yearly offerings, groups and
// academic years.
package academics

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/scolary/internal/adapter/scolaryapi"
	"github.com/heartmarshall/scolary/internal/domain"
	"github.com/heartmarshall/scolary/internal/service/querycache"
	"github.com/heartmarshall/scolary/internal/service/resource"
)

// Cache entity keys.
const (
	EntityMentions                    = "mentions"
	EntityJourneys                    = "journeys"
	EntityTeachingUnits               = "teaching_units"
	EntityConstituentElements         = "constituent_elements"
	EntityTeachingUnitOfferings       = "teaching_unit_offerings"
	EntityConstituentElementOfferings = "constituent_element_offerings"
	EntityGroups                      = "groups"
	EntityAcademicYears               = "academic_years"
)

// api defines the HTTP client interface needed by academic services.
type api interface {
	Do(ctx context.Context, path string, req scolaryapi.Request, out any) error
}

// Definitions of the curriculum endpoints. Journeys are embedded in mention
// responses, and offerings embed each other, so mutations drop both keys.
var (
	MentionsDef = resource.Definition{Name: EntityMentions, Path: "/mentions/"}

	JourneysDef = resource.Definition{
		Name:        EntityJourneys,
		Path:        "/journeys/",
		Invalidates: []string{EntityMentions},
	}

	TeachingUnitsDef       = resource.Definition{Name: EntityTeachingUnits, Path: "/teaching_units/"}
	ConstituentElementsDef = resource.Definition{Name: EntityConstituentElements, Path: "/constituent_elements/"}

	TeachingUnitOfferingsDef = resource.Definition{
		Name:        EntityTeachingUnitOfferings,
		Path:        "/teaching_unit_offerings/",
		Invalidates: []string{EntityConstituentElementOfferings},
	}

	ConstituentElementOfferingsDef = resource.Definition{
		Name:        EntityConstituentElementOfferings,
		Path:        "/constituent_element_offerings/",
		Invalidates: []string{EntityTeachingUnitOfferings},
	}

	GroupsDef        = resource.Definition{Name: EntityGroups, Path: "/groups/"}
	AcademicYearsDef = resource.Definition{Name: EntityAcademicYears, Path: "/academic_years/"}
)

// Service bundles the curriculum resources.
type Service struct {
	log *slog.Logger

	Mentions                    *resource.Service[domain.Mention, domain.MentionPayload]
	Journeys                    *resource.Service[domain.Journey, domain.JourneyPayload]
	TeachingUnits               *resource.Service[domain.TeachingUnit, domain.TeachingUnitPayload]
	ConstituentElements         *resource.Service[domain.ConstituentElement, domain.ConstituentElementPayload]
	TeachingUnitOfferings       *resource.Service[domain.TeachingUnitOffering, domain.TeachingUnitOfferingPayload]
	ConstituentElementOfferings *resource.Service[domain.ConstituentElementOffering, domain.ConstituentElementOfferingPayload]
	Groups                      *resource.Service[domain.Group, domain.GroupPayload]
	AcademicYears               *resource.Service[domain.AcademicYear, domain.AcademicYearPayload]
}

// NewService creates the curriculum services over one client and cache.
func NewService(logger *slog.Logger, client api, cache *querycache.Cache) *Service {
	return &Service{
		log:                         logger.With("service", "academics"),
		Mentions:                    resource.New[domain.Mention, domain.MentionPayload](logger, client, cache, MentionsDef),
		Journeys:                    resource.New[domain.Journey, domain.JourneyPayload](logger, client, cache, JourneysDef),
		TeachingUnits:               resource.New[domain.TeachingUnit, domain.TeachingUnitPayload](logger, client, cache, TeachingUnitsDef),
		ConstituentElements:         resource.New[domain.ConstituentElement, domain.ConstituentElementPayload](logger, client, cache, ConstituentElementsDef),
		TeachingUnitOfferings:       resource.New[domain.TeachingUnitOffering, domain.TeachingUnitOfferingPayload](logger, client, cache, TeachingUnitOfferingsDef),
		ConstituentElementOfferings: resource.New[domain.ConstituentElementOffering, domain.ConstituentElementOfferingPayload](logger, client, cache, ConstituentElementOfferingsDef),
		Groups:                      resource.New[domain.Group, domain.GroupPayload](logger, client, cache, GroupsDef),
		AcademicYears:               resource.New[domain.AcademicYear, domain.AcademicYearPayload](logger, client, cache, AcademicYearsDef),
	}
}

// JourneysByMention lists every journey of a mention (cached).
func (s *Service) JourneysByMention(ctx context.Context, mentionID int64) ([]domain.Journey, error) {
	resp, err := s.Journeys.List(ctx, domain.ListQuery{
		Where: []domain.Clause{{Key: "id_mention", Operator: domain.OpEqual, Value: mentionID}},
	})
	if err != nil {
		return nil, fmt.Errorf("academics.JourneysByMention: %w", err)
	}
	return resp.Data, nil
}

// JourneysByMentions lists the journeys of several mentions with one request.
func (s *Service) JourneysByMentions(ctx context.Context, mentionIDs []int64) ([]domain.Journey, error) {
	if len(mentionIDs) == 0 {
		return []domain.Journey{}, nil
	}
	resp, err := s.Journeys.List(ctx, domain.ListQuery{
		Where: []domain.Clause{{Key: "id_mention", Operator: domain.OpIn, Value: mentionIDs}},
	})
	if err != nil {
		return nil, fmt.Errorf("academics.JourneysByMentions: %w", err)
	}
	return resp.Data, nil
}

// TeachingUnitsByJourneys lists the teaching units of several journeys with one request.
func (s *Service) TeachingUnitsByJourneys(ctx context.Context, journeyIDs []int64) ([]domain.TeachingUnit, error) {
	if len(journeyIDs) == 0 {
		return []domain.TeachingUnit{}, nil
	}
	resp, err := s.TeachingUnits.List(ctx, domain.ListQuery{
		Where: []domain.Clause{{Key: "id_journey", Operator: domain.OpIn, Value: journeyIDs}},
	})
	if err != nil {
		return nil, fmt.Errorf("academics.TeachingUnitsByJourneys: %w", err)
	}
	return resp.Data, nil
}

// MentionWithJourneys returns a mention with its journeys expanded.
func (s *Service) MentionWithJourneys(ctx context.Context, mentionID int64) (*domain.Mention, error) {
	m, err := s.Mentions.Get(ctx, mentionID)
	if err != nil {
		return nil, err
	}
	if len(m.Journeys) == 0 {
		journeys, err := s.JourneysByMention(ctx, mentionID)
		if err != nil {
			return nil, err
		}
		m.Journeys = journeys
	}
	return m, nil
}
