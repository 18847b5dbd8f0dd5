package enrollment

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/scolary/internal/adapter/scolaryapi"
	"github.com/heartmarshall/scolary/internal/adapter/scolaryapi/apitest"
	"github.com/heartmarshall/scolary/internal/domain"
	"github.com/heartmarshall/scolary/internal/service/querycache"
)

func newTestService(t *testing.T) (*apitest.Server, *Service) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := apitest.New(t)
	registers := []map[string]any{{
		"id":               5,
		"num_carte":        "2101234",
		"id_academic_year": 2,
		"register_semester": []map[string]any{
			{"id": 9, "semester": "S3", "repeat_status": "Passant", "id_journey": 10},
		},
	}}
	srv.Collection("/students/", map[string]any{
		"id":              1,
		"num_carte":       "2101234",
		"last_name":       "Rakotomalala",
		"first_name":      nil,
		"nation":          "Malagasy",
		"id_mention":      1,
		"annual_register": registers,
	})
	srv.Collection("/annual_registers/")
	srv.Collection("/available_services/")
	srv.Collection("/service_documents/")
	client, err := scolaryapi.New(srv.BaseURL(), nil, logger)
	require.NoError(t, err)
	return srv, NewService(logger, client, querycache.New(logger, 0))
}

func TestLookupQuery_Key(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "2101234|2|S3", LookupQuery{CardNumber: " 2101234 ", AcademicYearID: 2, Semester: "S3"}.Key())
	assert.Equal(t, "2101234||", LookupQuery{CardNumber: "2101234"}.Key())
}

func TestService_LookupStudent(t *testing.T) {
	t.Parallel()
	srv, svc := newTestService(t)

	st, err := svc.LookupStudent(context.Background(), LookupQuery{CardNumber: "2101234", AcademicYearID: 2, Semester: "S3"})
	require.NoError(t, err)
	require.NotNil(t, st.LastName)
	assert.Equal(t, "Rakotomalala", *st.LastName)
	assert.Nil(t, st.FirstName)
	require.Len(t, st.AnnualRegisters, 1)
	assert.Equal(t, domain.Semester("S3"), st.AnnualRegisters[0].RegisterSemesters[0].Semester)

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "2", reqs[0].Query["id_year"])
	assert.Equal(t, "S3", reqs[0].Query["semester"])
	var relation []string
	require.NoError(t, json.Unmarshal([]byte(reqs[0].Query["relation"]), &relation))
	assert.Equal(t, []string{"annual_register.[register_semester,payment]"}, relation)
}

func TestService_LookupStudent_NotFoundAndInvalid(t *testing.T) {
	t.Parallel()
	_, svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.LookupStudent(ctx, LookupQuery{CardNumber: "0000"})
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.LookupStudent(ctx, LookupQuery{CardNumber: "", Semester: "S11"})
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "required", ve.Field("num_carte"))
	assert.NotEmpty(t, ve.Field("semester"))
}

func TestService_ServiceDocumentsInvalidateServices(t *testing.T) {
	t.Parallel()
	srv, svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.AvailableServices.List(ctx, domain.ListQuery{})
	require.NoError(t, err)
	doc, err := svc.ServiceDocuments.Create(ctx, domain.ServiceDocumentPayload{ServiceID: 1, DocumentID: 4})
	require.NoError(t, err)
	_, err = svc.AvailableServices.List(ctx, domain.ListQuery{})
	require.NoError(t, err)
	require.NoError(t, svc.ServiceDocuments.Delete(ctx, doc.ID))
	_, err = svc.AvailableServices.List(ctx, domain.ListQuery{})
	require.NoError(t, err)

	assert.Equal(t, 3, srv.Count(http.MethodGet, "/available_services/"))
}

func TestService_Reports(t *testing.T) {
	t.Parallel()
	srv, svc := newTestService(t)
	ctx := context.Background()

	var gotQuery map[string]string
	pdf := func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"id_year":    r.URL.Query().Get("id_year"),
			"id_mention": r.URL.Query().Get("id_mention"),
			"id_journey": r.URL.Query().Get("id_journey"),
			"num_carte":  r.URL.Query().Get("num_carte"),
		}
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF"))
	}
	srv.Handle(registeredListPath, pdf)
	srv.Handle(studentCardsPath, pdf)

	blob, err := svc.PrintRegisteredList(ctx, ReportQuery{AcademicYearID: 2, MentionID: 1, JourneyID: 10})
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(blob.Data))
	assert.Equal(t, map[string]string{"id_year": "2", "id_mention": "1", "id_journey": "10", "num_carte": ""}, gotQuery)

	_, err = svc.PrintStudentCards(ctx, ReportQuery{AcademicYearID: 2, MentionID: 1, CardNumbers: []string{"a", "b"}})
	require.NoError(t, err)
	assert.Equal(t, "a,b", gotQuery["num_carte"])

	_, err = svc.PrintStudentCards(ctx, ReportQuery{})
	require.ErrorIs(t, err, domain.ErrValidation)
}
