package http_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	api "pickup/internal/adapters/in/http"
	"pickup/internal/adapters/out/memory"
	"pickup/internal/core/application/usecases/commands"
	"pickup/internal/core/application/usecases/queries"
	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/core/domain/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var now = time.Date(2025, 8, 12, 10, 0, 0, 0, time.UTC)

type funcUoWFactory func() commands.UoW

func (f funcUoWFactory) Create() commands.UoW { return f() }

type funcJobUoWFactory func() commands.JobUoW

func (f funcJobUoWFactory) Create() commands.JobUoW { return f() }

type funcCollectorUoWFactory func() commands.CollectorUoW

func (f funcCollectorUoWFactory) Create() commands.CollectorUoW { return f() }

type countingRecorder struct {
	calls int
}

func (r *countingRecorder) RecordDispatch(_ *float64, _ error) {
	r.calls++
}

type ServerTestSuite struct {
	suite.Suite
	e        *echo.Echo
	recorder *countingRecorder

	requester kernel.UUID
	operator  kernel.UUID
}

func (s *ServerTestSuite) SetupTest() {
	store := memory.NewStore()
	uows := memory.NewUnitOfWorkFactory(store)
	jobs := memory.NewJobRepository(store)
	collectors := memory.NewCollectorRepository(store)
	clock := kernel.ClockFunc(func() time.Time { return now })
	policy := commands.LifecyclePolicy{}

	full := funcUoWFactory(func() commands.UoW { return uows.Create() })
	jobOnly := funcJobUoWFactory(func() commands.JobUoW { return uows.Create() })
	collectorOnly := funcCollectorUoWFactory(func() commands.CollectorUoW { return uows.Create() })

	s.recorder = &countingRecorder{}
	server := api.NewServer(api.Handlers{
		CreateJob:               commands.NewCreateJobCommandHandler(jobOnly, clock, kernel.RandomIDGenerator{}),
		AcceptJob:               commands.NewAcceptJobCommandHandler(full, clock, policy),
		DispatchNearest:         commands.NewDispatchNearestCommandHandler(full, services.NewJobDispatcher(), clock, policy),
		AdvanceStatus:           commands.NewAdvanceStatusCommandHandler(jobOnly, clock),
		CancelJob:               commands.NewCancelJobCommandHandler(jobOnly, clock, policy),
		RegisterCollector:       commands.NewRegisterCollectorCommandHandler(collectorOnly, kernel.RandomIDGenerator{}),
		ReportCollectorLocation: commands.NewReportCollectorLocationCommandHandler(collectorOnly, clock),
		ListJobs:                queries.NewListJobsQueryHandler(jobs),
		GetJob:                  queries.NewGetJobQueryHandler(jobs),
		GetCollector:            queries.NewGetCollectorQueryHandler(collectors),
		ListCollectors:          queries.NewListCollectorsQueryHandler(collectors),
		GetCollectorJobs:        queries.NewGetCollectorJobsQueryHandler(jobs, collectors),
		GetDispatchBoard:        queries.NewGetDispatchBoardQueryHandler(jobs, collectors),
	}, 10, s.recorder)

	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "pickup_jobs 0\n")
	})
	s.e = api.NewEcho(server, metrics, slog.New(slog.NewTextHandler(io.Discard, nil)))

	s.requester = kernel.NewUUID()
	s.operator = kernel.NewUUID()
}

func (s *ServerTestSuite) do(method, path string, caller *kernel.Caller, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if caller != nil {
		req.Header.Set(api.HeaderCallerID, caller.ID.String())
		req.Header.Set(api.HeaderCallerRole, string(caller.Role))
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func as(id kernel.UUID, role kernel.Role) *kernel.Caller {
	return &kernel.Caller{ID: id, Role: role}
}

func decode[T any](s *ServerTestSuite, rec *httptest.ResponseRecorder) T {
	var out T
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (s *ServerTestSuite) createJob(lat, lng float64) string {
	body := `{"category":"paper","quantity":12.5,"scheduledTime":"2025-08-13T09:00:00Z",` +
		`"latitude":` + jsonFloat(lat) + `,"longitude":` + jsonFloat(lng) + `,"note":"back door"}`
	rec := s.do(http.MethodPost, "/api/v1/jobs", as(s.requester, kernel.RoleRequester), body)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	return decode[api.Created](s, rec).ID
}

func (s *ServerTestSuite) registerCollector(lat, lng *float64) kernel.UUID {
	body := `{"organizationId":"` + kernel.NewUUID().String() + `","fullName":"Deniz Kaya","phone":"+90 555 000"}`
	rec := s.do(http.MethodPost, "/api/v1/collectors", as(s.operator, kernel.RoleOperator), body)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	id, err := kernel.UUIDFromString(decode[api.Created](s, rec).ID)
	s.Require().NoError(err)

	if lat != nil {
		rec = s.do(http.MethodPut, "/api/v1/collectors/"+id.String()+"/location", as(id, kernel.RoleCollector),
			`{"latitude":`+jsonFloat(*lat)+`,"longitude":`+jsonFloat(*lng)+`}`)
		s.Require().Equal(http.StatusNoContent, rec.Code, rec.Body.String())
	}
	return id
}

func jsonFloat(f float64) string {
	b, _ := json.Marshal(f)
	return string(b)
}

func ptr(f float64) *float64 { return &f }

func (s *ServerTestSuite) TestHealthAndMetrics() {
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/health", nil, "").Code)

	rec := s.do(http.MethodGet, "/metrics", nil, "")
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "pickup_jobs")
}

func (s *ServerTestSuite) TestMissingIdentity() {
	rec := s.do(http.MethodGet, "/api/v1/jobs", nil, "")
	s.Equal(http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/jobs", as(kernel.NewUUID(), "courier"), "")
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *ServerTestSuite) TestCreateJob_ThenGet() {
	id := s.createJob(41.0082, 28.9784)

	rec := s.do(http.MethodGet, "/api/v1/jobs/"+id, as(s.requester, kernel.RoleRequester), "")
	s.Require().Equal(http.StatusOK, rec.Code)

	got := decode[api.Job](s, rec)
	s.Equal("Pending", got.Status)
	s.Nil(got.CollectorID)
	s.Equal(int64(1), got.Version)
	s.Equal("back door", got.Note)
	s.InDelta(41.0082, got.Location.Latitude, 1e-9)
	s.True(got.CreatedAt.Equal(now))

	other := s.do(http.MethodGet, "/api/v1/jobs/"+id, as(kernel.NewUUID(), kernel.RoleRequester), "")
	s.Equal(http.StatusForbidden, other.Code)
}

func (s *ServerTestSuite) TestCreateJob_Validation() {
	rec := s.do(http.MethodPost, "/api/v1/jobs", as(s.requester, kernel.RoleRequester),
		`{"category":"","quantity":0,"scheduledTime":"2025-08-13T09:00:00Z","latitude":95,"longitude":10}`)

	s.Require().Equal(http.StatusBadRequest, rec.Code)
	body := decode[api.Error](s, rec)
	fields := make([]string, 0, len(body.Details))
	for _, d := range body.Details {
		fields = append(fields, d.Field)
	}
	s.ElementsMatch([]string{"Category", "Quantity", "Latitude"}, fields)
}

func (s *ServerTestSuite) TestCreateJob_WrongRole() {
	rec := s.do(http.MethodPost, "/api/v1/jobs", as(kernel.NewUUID(), kernel.RoleCollector),
		`{"category":"paper","quantity":1,"scheduledTime":"2025-08-13T09:00:00Z","latitude":1,"longitude":1}`)

	s.Equal(http.StatusForbidden, rec.Code)
}

func (s *ServerTestSuite) TestDispatchNearest_PicksNearestAndRejectsSecondDispatch() {
	id := s.createJob(41.0, 29.0)
	s.registerCollector(ptr(41.03), ptr(29.0))
	near := s.registerCollector(ptr(41.01), ptr(29.0))
	s.registerCollector(ptr(41.07), ptr(29.0))

	rec := s.do(http.MethodPost, "/api/v1/jobs/"+id+"/dispatch-nearest", as(s.operator, kernel.RoleOperator), "")
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	res := decode[api.DispatchResult](s, rec)
	s.Equal(near.String(), res.CollectorID)
	s.Require().NotNil(res.DistanceKm)
	s.InDelta(1.11, *res.DistanceKm, 0.01)
	s.Equal("Accepted", res.Job.Status)

	again := s.do(http.MethodPost, "/api/v1/jobs/"+id+"/dispatch-nearest", as(s.operator, kernel.RoleOperator), "")
	s.Equal(http.StatusUnprocessableEntity, again.Code)
	s.Equal(2, s.recorder.calls)
}

func (s *ServerTestSuite) TestDispatchNearest_OutOfRange() {
	id := s.createJob(41.0, 29.0)
	s.registerCollector(ptr(41.5), ptr(29.0))

	rec := s.do(http.MethodPost, "/api/v1/jobs/"+id+"/dispatch-nearest", as(s.operator, kernel.RoleOperator),
		`{"latitude":41.0,"longitude":29.0,"radiusKm":5}`)

	s.Require().Equal(http.StatusUnprocessableEntity, rec.Code)
	s.Contains(decode[api.Error](s, rec).Message, "> 5 km")

	job := decode[api.Job](s, s.do(http.MethodGet, "/api/v1/jobs/"+id, as(s.operator, kernel.RoleOperator), ""))
	s.Equal("Pending", job.Status)
}

func (s *ServerTestSuite) TestDispatchNearest_BlindAssignmentHasNullDistance() {
	id := s.createJob(41.0, 29.0)
	s.registerCollector(nil, nil)

	rec := s.do(http.MethodPost, "/api/v1/jobs/"+id+"/dispatch-nearest", as(s.operator, kernel.RoleOperator), "")

	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.Contains(rec.Body.String(), `"distanceKm":null`)
}

func (s *ServerTestSuite) TestDispatchNearest_NoCandidates() {
	id := s.createJob(41.0, 29.0)

	rec := s.do(http.MethodPost, "/api/v1/jobs/"+id+"/dispatch-nearest", as(s.operator, kernel.RoleOperator), "")

	s.Equal(http.StatusUnprocessableEntity, rec.Code)
}

func (s *ServerTestSuite) TestDispatchNearest_HalfAnOrigin() {
	id := s.createJob(41.0, 29.0)

	rec := s.do(http.MethodPost, "/api/v1/jobs/"+id+"/dispatch-nearest", as(s.operator, kernel.RoleOperator),
		`{"latitude":41.0}`)

	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *ServerTestSuite) TestAcceptAdvanceComplete() {
	id := s.createJob(41.0, 29.0)
	worker := s.registerCollector(nil, nil)
	rival := s.registerCollector(nil, nil)

	early := s.do(http.MethodPost, "/api/v1/jobs/"+id+"/status", as(worker, kernel.RoleCollector), `{"status":"InProgress"}`)
	s.Equal(http.StatusUnprocessableEntity, early.Code)

	rec := s.do(http.MethodPost, "/api/v1/jobs/"+id+"/accept", as(worker, kernel.RoleCollector), "")
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.Equal(worker.String(), *decode[api.Job](s, rec).CollectorID)

	late := s.do(http.MethodPost, "/api/v1/jobs/"+id+"/accept", as(rival, kernel.RoleCollector), "")
	s.Equal(http.StatusUnprocessableEntity, late.Code)

	stranger := s.do(http.MethodPost, "/api/v1/jobs/"+id+"/status", as(rival, kernel.RoleCollector), `{"status":"InProgress"}`)
	s.Equal(http.StatusForbidden, stranger.Code)

	for _, status := range []string{"InProgress", "Completed"} {
		rec = s.do(http.MethodPost, "/api/v1/jobs/"+id+"/status", as(worker, kernel.RoleCollector), `{"status":"`+status+`"}`)
		s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
		s.Equal(status, decode[api.Job](s, rec).Status)
	}

	bad := s.do(http.MethodPost, "/api/v1/jobs/"+id+"/status", as(worker, kernel.RoleCollector), `{"status":"Cancelled"}`)
	s.Equal(http.StatusBadRequest, bad.Code)

	cancel := s.do(http.MethodPost, "/api/v1/jobs/"+id+"/cancel", as(s.requester, kernel.RoleRequester), "")
	s.Equal(http.StatusUnprocessableEntity, cancel.Code)
}

func (s *ServerTestSuite) TestAcceptUnknownJob() {
	worker := s.registerCollector(nil, nil)

	rec := s.do(http.MethodPost, "/api/v1/jobs/"+kernel.NewUUID().String()+"/accept", as(worker, kernel.RoleCollector), "")

	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *ServerTestSuite) TestCancel() {
	id := s.createJob(41.0, 29.0)

	forbidden := s.do(http.MethodPost, "/api/v1/jobs/"+id+"/cancel", as(kernel.NewUUID(), kernel.RoleRequester), "")
	s.Equal(http.StatusForbidden, forbidden.Code)

	rec := s.do(http.MethodPost, "/api/v1/jobs/"+id+"/cancel", as(s.requester, kernel.RoleRequester), "")
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	got := decode[api.Job](s, rec)
	s.Equal("Cancelled", got.Status)
	s.Nil(got.CollectorID)
}

func (s *ServerTestSuite) TestListJobs_RequesterSeesOnlyOwnJobs() {
	s.createJob(41.0, 29.0)
	s.createJob(41.1, 29.1)
	mine := s.requester
	s.requester = kernel.NewUUID()
	s.createJob(41.2, 29.2)

	rec := s.do(http.MethodGet, "/api/v1/jobs?requesterId="+s.requester.String(), as(mine, kernel.RoleRequester), "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Len(decode[[]api.Job](s, rec), 2)

	all := s.do(http.MethodGet, "/api/v1/jobs?status=pending", as(s.operator, kernel.RoleOperator), "")
	s.Require().Equal(http.StatusOK, all.Code)
	s.Len(decode[[]api.Job](s, all), 3)

	bad := s.do(http.MethodGet, "/api/v1/jobs?status=lost", as(s.operator, kernel.RoleOperator), "")
	s.Equal(http.StatusBadRequest, bad.Code)
}

func (s *ServerTestSuite) TestCollectorViews() {
	id := s.createJob(41.0, 29.0)
	worker := s.registerCollector(ptr(41.0), ptr(29.0))

	rec := s.do(http.MethodGet, "/api/v1/collectors/"+worker.String(), as(worker, kernel.RoleCollector), "")
	s.Require().Equal(http.StatusOK, rec.Code)
	c := decode[api.Collector](s, rec)
	s.Require().NotNil(c.Location)
	s.Require().NotNil(c.LastSeenAt)
	s.True(c.LastSeenAt.Equal(now))

	other := s.do(http.MethodGet, "/api/v1/collectors/"+kernel.NewUUID().String(), as(worker, kernel.RoleCollector), "")
	s.Equal(http.StatusForbidden, other.Code)

	rec = s.do(http.MethodGet, "/api/v1/collectors/"+worker.String()+"/jobs", as(worker, kernel.RoleCollector), "")
	s.Require().Equal(http.StatusOK, rec.Code)
	list := decode[api.CollectorJobs](s, rec)
	s.Require().Len(list.Available, 1)
	s.Equal(id, list.Available[0].ID)
	s.Empty(list.Assigned)

	rec = s.do(http.MethodGet, "/api/v1/dispatch/live", as(s.operator, kernel.RoleOperator), "")
	s.Require().Equal(http.StatusOK, rec.Code)
	board := decode[api.DispatchBoard](s, rec)
	s.Len(board.Collectors, 1)
	s.Len(board.PendingJobs, 1)

	rec = s.do(http.MethodGet, "/api/v1/collectors", as(s.operator, kernel.RoleOperator), "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Len(decode[[]api.Collector](s, rec), 1)
}

func (s *ServerTestSuite) TestReportLocation_UnknownCollector() {
	id := kernel.NewUUID()

	rec := s.do(http.MethodPut, "/api/v1/collectors/"+id.String()+"/location", as(id, kernel.RoleCollector),
		`{"latitude":1,"longitude":2}`)

	s.Equal(http.StatusNotFound, rec.Code)
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func TestErrorHandler_HidesInternalErrors(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = api.NewErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil)))
	e.GET("/boom", func(echo.Context) error { return io.ErrUnexpectedEOF })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "unexpected EOF")
}
