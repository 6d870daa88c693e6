package http

import (
	"log/slog"
	"net/http"

	"pickup/internal/core/application/usecases/commands"
	"pickup/internal/core/application/usecases/queries"
	"pickup/internal/core/domain/model/job"
	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Handlers are the use cases exposed over HTTP.
type Handlers struct {
	CreateJob               commands.CreateJobCommandHandler
	AcceptJob               commands.AcceptJobCommandHandler
	DispatchNearest         commands.DispatchNearestCommandHandler
	AdvanceStatus           commands.AdvanceStatusCommandHandler
	CancelJob               commands.CancelJobCommandHandler
	RegisterCollector       commands.RegisterCollectorCommandHandler
	ReportCollectorLocation commands.ReportCollectorLocationCommandHandler

	ListJobs         queries.ListJobsQueryHandler
	GetJob           queries.GetJobQueryHandler
	GetCollector     queries.GetCollectorQueryHandler
	ListCollectors   queries.ListCollectorsQueryHandler
	GetCollectorJobs queries.GetCollectorJobsQueryHandler
	GetDispatchBoard queries.GetDispatchBoardQueryHandler
}

// DispatchRecorder counts dispatch attempts.
type DispatchRecorder interface {
	RecordDispatch(distanceKm *float64, err error)
}

// Server handles the pickup REST API under /api/v1.
type Server struct {
	handlers        Handlers
	defaultRadiusKm float64
	recorder        DispatchRecorder
}

// NewServer creates the API. defaultRadiusKm applies to dispatch requests without a radius.
func NewServer(handlers Handlers, defaultRadiusKm float64, recorder DispatchRecorder) *Server {
	return &Server{
		handlers:        handlers,
		defaultRadiusKm: defaultRadiusKm,
		recorder:        recorder,
	}
}

// NewEcho builds the echo instance with validation, error mapping, request
// logging, health and metrics endpoints and the API routes.
func NewEcho(server *Server, metrics http.Handler, logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewRequestValidator()
	e.HTTPErrorHandler = NewErrorHandler(logger)

	requestLogger := logger.With("component", "http")
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			requestLogger.InfoContext(c.Request().Context(), "Request",
				"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency)
			return nil
		},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	if metrics != nil {
		e.GET("/metrics", echo.WrapHandler(metrics))
	}

	server.Register(e.Group("/api/v1", Identity()))
	return e
}

// Register mounts the API routes on g. g must carry the Identity middleware.
func (s *Server) Register(g *echo.Group) {
	requester := RequireRole(kernel.RoleRequester)
	collector := RequireRole(kernel.RoleCollector)
	operator := RequireRole(kernel.RoleOperator)
	collectorOrOperator := RequireRole(kernel.RoleCollector, kernel.RoleOperator)

	g.POST("/jobs", s.CreateJob, requester)
	g.GET("/jobs", s.ListJobs)
	g.GET("/jobs/:id", s.GetJob)
	g.POST("/jobs/:id/accept", s.AcceptJob, collector)
	g.POST("/jobs/:id/dispatch-nearest", s.DispatchNearest, operator)
	g.POST("/jobs/:id/status", s.AdvanceStatus, collector)
	g.POST("/jobs/:id/cancel", s.CancelJob)

	g.POST("/collectors", s.RegisterCollector, operator)
	g.GET("/collectors", s.ListCollectors, operator)
	g.GET("/collectors/:id", s.GetCollector, collectorOrOperator)
	g.PUT("/collectors/:id/location", s.ReportCollectorLocation, collectorOrOperator)
	g.GET("/collectors/:id/jobs", s.GetCollectorJobs, collectorOrOperator)

	g.GET("/dispatch/live", s.GetDispatchBoard, operator)
}

// CreateJob handles POST /api/v1/jobs. The caller is the requester.
func (s *Server) CreateJob(c echo.Context) error {
	caller, _ := callerFrom(c)

	var req CreateJobRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	location, err := kernel.NewLocation(*req.Latitude, *req.Longitude)
	if err != nil {
		return err
	}

	cmd, err := commands.NewCreateJobCommand(caller.ID, req.Category, req.Quantity, req.ScheduledTime, location, req.Note)
	if err != nil {
		return err
	}

	id, err := s.handlers.CreateJob.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, Created{ID: id.String()})
}

// ListJobs handles GET /api/v1/jobs?status=&collectorId=&requesterId=.
// Requesters only ever see their own jobs.
func (s *Server) ListJobs(c echo.Context) error {
	caller, _ := callerFrom(c)

	var status *job.Status
	if raw := c.QueryParam("status"); raw != "" {
		parsed, err := job.ParseStatus(raw)
		if err != nil {
			return err
		}
		status = &parsed
	}

	collectorID, err := optionalUUID(c.QueryParam("collectorId"))
	if err != nil {
		return err
	}

	requesterID, err := optionalUUID(c.QueryParam("requesterId"))
	if err != nil {
		return err
	}
	if caller.Is(kernel.RoleRequester) {
		requesterID = &caller.ID
	}

	query, err := queries.NewListJobsQuery(status, collectorID, requesterID)
	if err != nil {
		return err
	}

	views, err := s.handlers.ListJobs.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newJobs(views))
}

// GetJob handles GET /api/v1/jobs/:id.
func (s *Server) GetJob(c echo.Context) error {
	caller, _ := callerFrom(c)

	view, err := s.loadJob(c)
	if err != nil {
		return err
	}
	if caller.Is(kernel.RoleRequester) && !view.RequesterID.IsEqual(caller.ID) {
		return commands.ErrCallerIsNotAllowed
	}

	return c.JSON(http.StatusOK, newJob(view))
}

// AcceptJob handles POST /api/v1/jobs/:id/accept. The caller is the collector.
func (s *Server) AcceptJob(c echo.Context) error {
	caller, _ := callerFrom(c)

	jobID, err := pathUUID(c)
	if err != nil {
		return err
	}

	cmd, err := commands.NewAcceptJobCommand(jobID, caller.ID)
	if err != nil {
		return err
	}

	accepted, err := s.handlers.AcceptJob.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newJob(queries.NewJobView(accepted)))
}

// DispatchNearest handles POST /api/v1/jobs/:id/dispatch-nearest. Without
// coordinates the job's own location is the origin; without a radius the
// configured default applies.
func (s *Server) DispatchNearest(c echo.Context) error {
	jobID, err := pathUUID(c)
	if err != nil {
		return err
	}

	var req DispatchNearestRequest
	if err = bindAndValidate(c, &req); err != nil {
		return err
	}

	if (req.Latitude == nil) != (req.Longitude == nil) {
		return errs.NewValueIsRequiredError("latitude and longitude")
	}

	var origin kernel.Location
	if req.Latitude != nil {
		origin, err = kernel.NewLocation(*req.Latitude, *req.Longitude)
	} else {
		var view queries.JobView
		view, err = s.loadJob(c)
		origin = view.Location
	}
	if err != nil {
		return err
	}

	radiusKm := s.defaultRadiusKm
	if req.RadiusKm != nil {
		radiusKm = *req.RadiusKm
	}

	var organizationID *kernel.UUID
	if req.OrganizationID != nil {
		if organizationID, err = optionalUUID(*req.OrganizationID); err != nil {
			return err
		}
	}

	cmd, err := commands.NewDispatchNearestCommand(jobID, origin, radiusKm, organizationID)
	if err != nil {
		return err
	}

	res, err := s.handlers.DispatchNearest.Handle(c.Request().Context(), cmd)
	if s.recorder != nil {
		s.recorder.RecordDispatch(res.DistanceKm, err)
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newDispatchResult(res))
}

// AdvanceStatus handles POST /api/v1/jobs/:id/status. The caller is the assigned collector.
func (s *Server) AdvanceStatus(c echo.Context) error {
	caller, _ := callerFrom(c)

	jobID, err := pathUUID(c)
	if err != nil {
		return err
	}

	var req AdvanceStatusRequest
	if err = bindAndValidate(c, &req); err != nil {
		return err
	}

	target, err := job.ParseStatus(req.Status)
	if err != nil {
		return err
	}

	cmd, err := commands.NewAdvanceStatusCommand(jobID, caller.ID, target)
	if err != nil {
		return err
	}

	advanced, err := s.handlers.AdvanceStatus.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newJob(queries.NewJobView(advanced)))
}

// CancelJob handles POST /api/v1/jobs/:id/cancel. Who may cancel is decided by the command.
func (s *Server) CancelJob(c echo.Context) error {
	caller, _ := callerFrom(c)

	jobID, err := pathUUID(c)
	if err != nil {
		return err
	}

	cmd, err := commands.NewCancelJobCommand(jobID, caller)
	if err != nil {
		return err
	}

	cancelled, err := s.handlers.CancelJob.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newJob(queries.NewJobView(cancelled)))
}

// RegisterCollector handles POST /api/v1/collectors.
func (s *Server) RegisterCollector(c echo.Context) error {
	var req RegisterCollectorRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	organizationID, err := kernel.UUIDFromString(req.OrganizationID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewRegisterCollectorCommand(organizationID, req.FullName, req.Phone)
	if err != nil {
		return err
	}

	id, err := s.handlers.RegisterCollector.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, Created{ID: id.String()})
}

// ListCollectors handles GET /api/v1/collectors?organizationId=.
func (s *Server) ListCollectors(c echo.Context) error {
	organizationID, err := optionalUUID(c.QueryParam("organizationId"))
	if err != nil {
		return err
	}

	query, err := queries.NewListCollectorsQuery(organizationID)
	if err != nil {
		return err
	}

	views, err := s.handlers.ListCollectors.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newCollectors(views))
}

// GetCollector handles GET /api/v1/collectors/:id.
func (s *Server) GetCollector(c echo.Context) error {
	collectorID, err := s.selfOrOperator(c)
	if err != nil {
		return err
	}

	query, err := queries.NewGetCollectorQuery(collectorID)
	if err != nil {
		return err
	}

	view, err := s.handlers.GetCollector.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newCollector(view))
}

// ReportCollectorLocation handles PUT /api/v1/collectors/:id/location.
func (s *Server) ReportCollectorLocation(c echo.Context) error {
	collectorID, err := s.selfOrOperator(c)
	if err != nil {
		return err
	}

	var req ReportLocationRequest
	if err = bindAndValidate(c, &req); err != nil {
		return err
	}

	location, err := kernel.NewLocation(*req.Latitude, *req.Longitude)
	if err != nil {
		return err
	}

	cmd, err := commands.NewReportCollectorLocationCommand(collectorID, location)
	if err != nil {
		return err
	}

	if err = s.handlers.ReportCollectorLocation.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// GetCollectorJobs handles GET /api/v1/collectors/:id/jobs.
func (s *Server) GetCollectorJobs(c echo.Context) error {
	collectorID, err := s.selfOrOperator(c)
	if err != nil {
		return err
	}

	query, err := queries.NewGetCollectorJobsQuery(collectorID)
	if err != nil {
		return err
	}

	list, err := s.handlers.GetCollectorJobs.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, CollectorJobs{
		Available: newJobs(list.Available),
		Assigned:  newJobs(list.Assigned),
	})
}

// GetDispatchBoard handles GET /api/v1/dispatch/live.
func (s *Server) GetDispatchBoard(c echo.Context) error {
	board, err := s.handlers.GetDispatchBoard.Handle(c.Request().Context(), queries.NewGetDispatchBoardQuery())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, DispatchBoard{
		Collectors:  newCollectors(board.Collectors),
		PendingJobs: newJobs(board.PendingJobs),
	})
}

func (s *Server) loadJob(c echo.Context) (queries.JobView, error) {
	jobID, err := pathUUID(c)
	if err != nil {
		return queries.JobView{}, err
	}

	query, err := queries.NewGetJobQuery(jobID)
	if err != nil {
		return queries.JobView{}, err
	}

	return s.handlers.GetJob.Handle(c.Request().Context(), query)
}

// selfOrOperator returns the collector id from the path. Collectors may only address themselves.
func (s *Server) selfOrOperator(c echo.Context) (kernel.UUID, error) {
	caller, _ := callerFrom(c)

	collectorID, err := pathUUID(c)
	if err != nil {
		return kernel.UUID{}, err
	}
	if caller.Is(kernel.RoleCollector) && !caller.ID.IsEqual(collectorID) {
		return kernel.UUID{}, commands.ErrCallerIsNotAllowed
	}
	return collectorID, nil
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	return c.Validate(req)
}

func pathUUID(c echo.Context) (kernel.UUID, error) {
	return kernel.UUIDFromString(c.Param("id"))
}

func optionalUUID(raw string) (*kernel.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := kernel.UUIDFromString(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
