package filter

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/scolary/internal/adapter/localstore"
	"github.com/heartmarshall/scolary/internal/domain"
)

func TestSpec_Build(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		spec     Spec
		sel      Selection
		want     []domain.Clause
		relation []string
	}{
		{
			name:     "empty selection",
			spec:     TeachingUnits,
			sel:      Selection{},
			relation: []string{"journey{id,name,abbreviation}"},
		},
		{
			name:     "mention only",
			spec:     TeachingUnits,
			sel:      Selection{MentionID: 3},
			relation: []string{"journey{id,name,abbreviation}"},
			want:     []domain.Clause{{Key: "journey.id_mention", Operator: domain.OpEqual, Value: int64(3)}},
		},
		{
			name:     "journey replaces mention",
			spec:     Groups,
			sel:      Selection{MentionID: 3, JourneyID: 7, Semester: "S2"},
			relation: []string{"journey{id,name}"},
			want: []domain.Clause{
				{Key: "id_journey", Operator: domain.OpEqual, Value: int64(7)},
				{Key: "semester", Operator: domain.OpEqual, Value: "S2"},
			},
		},
		{
			name: "search trimmed",
			spec: Mentions,
			sel:  Selection{Search: "  info  "},
			want: []domain.Clause{{Key: "name", Operator: domain.OpLike, Value: "%info%"}},
		},
		{
			name: "blank search",
			spec: Mentions,
			sel:  Selection{Search: " \t "},
		},
		{
			name: "offerings through relation path",
			spec: Offerings,
			sel:  Selection{JourneyID: 7, Semester: "S1", AcademicYearID: 2, Search: "algo"},
			relation: []string{
				"teaching_unit_offering.[teaching_unit.[id_journey,semester]]",
				"constituent_element{id,name,color}",
			},
			want: []domain.Clause{
				{Key: "teaching_unit_offering.teaching_unit.id_journey", Operator: domain.OpEqual, Value: int64(7)},
				{Key: "teaching_unit_offering.teaching_unit.semester", Operator: domain.OpEqual, Value: "S1"},
				{Key: "teaching_unit_offering.id_academic_year", Operator: domain.OpEqual, Value: int64(2)},
				{Key: "constituent_element.name", Operator: domain.OpLike, Value: "%algo%"},
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			clauses, relation := tt.spec.Build(tt.sel)
			assert.Equal(t, tt.want, clauses)
			assert.Equal(t, tt.relation, relation)
		})
	}
}

func TestSpec_BuildDoesNotShareRelation(t *testing.T) {
	t.Parallel()

	_, relation := Groups.Build(Selection{})
	relation[0] = "mutated"
	assert.Equal(t, "journey{id,name}", Groups.Relation[0])
}

func TestSpec_ToListQuery(t *testing.T) {
	t.Parallel()

	q := TeachingUnits.ToListQuery(Selection{JourneyID: 7, Search: "algo"}, 3, 20)
	assert.Equal(t, 40, q.Offset)
	assert.Equal(t, 20, q.Limit)

	v, err := q.Values()
	require.NoError(t, err)

	var where []map[string]any
	require.NoError(t, json.Unmarshal([]byte(v.Get("where")), &where))
	require.Len(t, where, 2)
	assert.Equal(t, "id_journey", where[0]["key"])
	assert.Equal(t, "%algo%", where[1]["value"])
	assert.JSONEq(t, `["journey{id,name,abbreviation}"]`, v.Get("relation"))

	students := Students.ToListQuery(Selection{AcademicYearID: 4}, 1, 10)
	assert.Empty(t, students.Where)
	assert.Equal(t, map[string]string{"academic_year_id": "4"}, students.Extra)
}

// ---------------------------------------------------------------------------
// Cascade
// ---------------------------------------------------------------------------

type journeySourceMock struct {
	JourneysByMentionFunc func(ctx context.Context, mentionID int64) ([]domain.Journey, error)
	calls                 []int64
}

func (m *journeySourceMock) JourneysByMention(ctx context.Context, mentionID int64) ([]domain.Journey, error) {
	m.calls = append(m.calls, mentionID)
	return m.JourneysByMentionFunc(ctx, mentionID)
}

func newJourneySource() *journeySourceMock {
	return &journeySourceMock{
		JourneysByMentionFunc: func(_ context.Context, mentionID int64) ([]domain.Journey, error) {
			if mentionID != 1 {
				return []domain.Journey{}, nil
			}
			return []domain.Journey{
				{ID: 10, Name: "Génie logiciel", MentionID: 1, SemesterList: []domain.Semester{"S1", "S2"}},
				{ID: 11, Name: "Réseaux", MentionID: 1},
			}, nil
		},
	}
}

func TestCascade_SelectMentionClearsDependents(t *testing.T) {
	t.Parallel()
	src := newJourneySource()
	c := NewCascade(src)
	sel := Selection{MentionID: 2, JourneyID: 20, Semester: "S4", Search: "x"}

	require.NoError(t, c.SelectMention(context.Background(), &sel, 1))

	assert.Equal(t, Selection{MentionID: 1, Search: "x"}, sel)
	assert.Len(t, c.Journeys(), 2)
	assert.Equal(t, domain.AllSemesters(), c.Semesters())
	assert.Equal(t, []int64{1}, src.calls)
}

func TestCascade_SelectJourneyRestrictsSemesters(t *testing.T) {
	t.Parallel()
	c := NewCascade(newJourneySource())
	var sel Selection
	require.NoError(t, c.SelectMention(context.Background(), &sel, 1))

	sel.Semester = "S5"
	c.SelectJourney(&sel, 10)
	assert.Equal(t, []domain.Semester{"S1", "S2"}, c.Semesters())
	assert.Empty(t, sel.Semester)

	require.NoError(t, c.SelectSemester(&sel, "S2"))
	assert.Equal(t, domain.Semester("S2"), sel.Semester)
	require.ErrorIs(t, c.SelectSemester(&sel, "S3"), domain.ErrValidation)

	c.SelectJourney(&sel, 11)
	assert.Len(t, c.Semesters(), domain.MaxSemester)
	assert.Equal(t, domain.Semester("S2"), sel.Semester)
}

func TestCascade_NoMention(t *testing.T) {
	t.Parallel()
	src := newJourneySource()
	c := NewCascade(src)
	sel := Selection{MentionID: 1, JourneyID: 10}

	require.NoError(t, c.SelectMention(context.Background(), &sel, 0))
	assert.True(t, sel.IsZero())
	assert.Nil(t, c.Journeys())
	assert.Empty(t, src.calls)
}

func TestCascade_SourceError(t *testing.T) {
	t.Parallel()
	boom := errors.New("backend down")
	c := NewCascade(&journeySourceMock{
		JourneysByMentionFunc: func(context.Context, int64) ([]domain.Journey, error) { return nil, boom },
	})
	var sel Selection

	err := c.SelectMention(context.Background(), &sel, 1)
	require.ErrorIs(t, err, boom)
	assert.Nil(t, c.Journeys())
}

func TestCascade_Restore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	c := NewCascade(newJourneySource())
	got, err := c.Restore(ctx, Selection{MentionID: 1, JourneyID: 10, Semester: "S2", AcademicYearID: 3})
	require.NoError(t, err)
	assert.Equal(t, Selection{MentionID: 1, JourneyID: 10, Semester: "S2", AcademicYearID: 3}, got)
	assert.Equal(t, []domain.Semester{"S1", "S2"}, c.Semesters())

	c = NewCascade(newJourneySource())
	got, err = c.Restore(ctx, Selection{MentionID: 1, JourneyID: 99, Semester: "S7"})
	require.NoError(t, err)
	assert.Equal(t, Selection{MentionID: 1, Semester: "S7"}, got)
}

// ---------------------------------------------------------------------------
// Store
// ---------------------------------------------------------------------------

func newTestStore() (*Store, *localstore.MemoryStore) {
	kv := localstore.NewMemory()
	return NewStore(slog.New(slog.NewTextHandler(io.Discard, nil)), kv), kv
}

func TestStore_SaveLoad(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, kv := newTestStore()

	sel := Selection{MentionID: 1, JourneyID: 10, Semester: "S2", Search: "algo"}
	require.NoError(t, s.Save(ctx, TeachingUnitsKey, sel))
	assert.Equal(t, sel, s.Load(ctx, TeachingUnitsKey))

	raw, ok, err := kv.Get(ctx, TeachingUnitsKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"mention_id":1,"journey_id":10,"semester":"S2","search":"algo"}`, raw)

	assert.True(t, s.Load(ctx, GroupsKey).IsZero())
}

func TestStore_LoadRejectsBadShape(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	for _, raw := range []string{
		`[1,2]`,
		`"S1"`,
		`{"mention_id":true}`,
		`{"mention_id":-1}`,
		`{"mention_id":1.5}`,
		`{"semester":"S11"}`,
		`{"semester":3}`,
		`{"search":{}}`,
		`{broken`,
	} {
		s, kv := newTestStore()
		require.NoError(t, kv.Set(ctx, GroupsKey, raw))
		assert.True(t, s.Load(ctx, GroupsKey).IsZero(), raw)
	}
}

func TestParseSelection_Lenient(t *testing.T) {
	t.Parallel()

	sel, err := ParseSelection([]byte(`{"mention_id":"3","journey_id":"","semester":null,"extra":[1]}`))
	require.NoError(t, err)
	assert.Equal(t, Selection{MentionID: 3}, sel)
}
