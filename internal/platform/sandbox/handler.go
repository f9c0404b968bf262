package sandbox

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ehr/fixtures/internal/domain/fixtures"
	"github.com/ehr/fixtures/internal/platform/export"
	"github.com/ehr/fixtures/pkg/pagination"
)

const formatNDJSON = "ndjson"

// ---------------------------------------------------------------------------
// SeedHandler: echo HTTP handlers
// ---------------------------------------------------------------------------

// SeedHandler serves one in-memory dataset and lets callers regenerate it.
type SeedHandler struct {
	base   SeedConfig
	logger zerolog.Logger

	mu     sync.Mutex
	seeder *Seeder
}

// NewSeedHandler creates a handler with no dataset. base supplies the hasher,
// reference date and any counts a seed request leaves out.
func NewSeedHandler(base SeedConfig, logger zerolog.Logger) *SeedHandler {
	return &SeedHandler{base: base, logger: logger}
}

// RegisterRoutes registers sandbox routes on g. mutate wraps the endpoints
// that replace or discard the dataset.
func (h *SeedHandler) RegisterRoutes(g *echo.Group, mutate ...echo.MiddlewareFunc) {
	g.POST("/seed", h.handleSeed, mutate...)
	g.POST("/reset", h.handleReset, mutate...)

	g.GET("/users", h.handleListUsers)
	g.GET("/users/:id", h.handleGetUser)
	g.GET("/medical-staff", h.handleListStaff)
	g.GET("/medical-staff/:id", h.handleGetStaff)
	g.GET("/medical-staff/:id/open-slots", h.handleOpenSlots)
	g.GET("/medical-staff/:id/appointments", h.handleStaffAppointments)
	g.GET("/patients", h.handleListPatients)
	g.GET("/patients/:id", h.handleGetPatient)

	g.GET("/export/:collection", h.handleExport)
}

// Config returns the configuration the current dataset was generated with,
// or the base configuration before the first seed.
func (h *SeedHandler) Config() SeedConfig {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.seeder == nil {
		return h.base
	}
	return h.seeder.Config()
}

// Seed generates a dataset from cfg and makes it current. The previous
// dataset stays in place when generation fails or ctx is done before the
// new dataset is ready.
func (h *SeedHandler) Seed(ctx context.Context, cfg SeedConfig) (*SeedResult, error) {
	seeder := NewSeeder(cfg)
	result, err := seeder.Generate(ctx)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	if err := ctx.Err(); err != nil {
		h.mu.Unlock()
		return nil, err
	}
	h.seeder = seeder
	h.mu.Unlock()

	h.logger.Info().
		Int("users", result.Users).
		Int("medical_staff", result.MedicalStaff).
		Int("patients", result.Patients).
		Int64("seed", result.Seed).
		Dur("duration", result.Duration).
		Msg("dataset seeded")
	return result, nil
}

// Dataset returns the current dataset, or nil before the first seed.
func (h *SeedHandler) Dataset() *fixtures.Dataset {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.seeder == nil {
		return nil
	}
	return h.seeder.Dataset()
}

func (h *SeedHandler) current() *fixtures.Dataset {
	if ds := h.Dataset(); ds != nil {
		return ds
	}
	return &fixtures.Dataset{
		Users:        []fixtures.User{},
		MedicalStaff: []fixtures.MedicalStaff{},
		Patients:     []fixtures.Patient{},
	}
}

type seedRequest struct {
	Doctors  int   `json:"doctors"`
	Patients int   `json:"patients"`
	Seed     int64 `json:"seed"`
}

func (h *SeedHandler) handleSeed(c echo.Context) error {
	var req seedRequest
	if err := c.Bind(&req); err != nil {
		status := http.StatusBadRequest
		msg := err.Error()
		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			msg = fmt.Sprint(he.Message)
		}
		return c.JSON(status, map[string]string{"error": msg})
	}

	// Zero values fall back to the server defaults.
	cfg := h.base
	if req.Doctors != 0 {
		cfg.Doctors = req.Doctors
	}
	if req.Patients != 0 {
		cfg.Patients = req.Patients
	}
	cfg.Seed = req.Seed

	result, err := h.Seed(c.Request().Context(), cfg)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return echo.NewHTTPError(http.StatusGatewayTimeout, "request timed out")
	case errors.Is(err, context.Canceled):
		return err
	case errors.Is(err, ErrInvalidDoctorCount) || errors.Is(err, ErrInvalidPatientCount):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, result)
}

func (h *SeedHandler) handleReset(c echo.Context) error {
	h.mu.Lock()
	h.seeder = nil
	h.mu.Unlock()

	h.logger.Info().Msg("dataset reset")
	return c.JSON(http.StatusOK, map[string]string{"status": "reset"})
}

func (h *SeedHandler) handleListUsers(c echo.Context) error {
	return c.JSON(http.StatusOK, pagination.Page(h.current().Users, pagination.FromContext(c)))
}

// handleListPatients lists patients. Any of first_name, last_name,
// contact_number or email narrows the list to patients matching at least one.
func (h *SeedHandler) handleListPatients(c echo.Context) error {
	patients := fixtures.FilterPatients(h.current().Patients, fixtures.PatientFilter{
		FirstName:     c.QueryParam("first_name"),
		LastName:      c.QueryParam("last_name"),
		ContactNumber: c.QueryParam("contact_number"),
		Email:         c.QueryParam("email"),
	})
	return c.JSON(http.StatusOK, pagination.Page(patients, pagination.FromContext(c)))
}

func (h *SeedHandler) handleListStaff(c echo.Context) error {
	staff, err := fixtures.FilterStaff(h.current().MedicalStaff, fixtures.StaffFilter{
		Specialisation: c.QueryParam("specialisation"),
		AvailableFrom:  c.QueryParam("available_from"),
		AvailableTo:    c.QueryParam("available_to"),
	})
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, pagination.Page(staff, pagination.FromContext(c)))
}

func (h *SeedHandler) handleGetUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	u, ok := h.current().UserByID(id)
	if !ok {
		return notFound(c, "user", id)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *SeedHandler) handleGetStaff(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	s, ok := h.current().StaffByID(id)
	if !ok {
		return notFound(c, "medical staff", id)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *SeedHandler) handleGetPatient(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	p, ok := h.current().PatientByID(id)
	if !ok {
		return notFound(c, "patient", id)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *SeedHandler) handleOpenSlots(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	date := c.QueryParam("date")
	slots, err := h.current().OpenSlots(id, date)
	switch {
	case errors.Is(err, fixtures.ErrStaffNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	case err != nil:
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"doctor_id":  id,
		"date":       date,
		"open_slots": slots,
	})
}

func (h *SeedHandler) handleStaffAppointments(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	from, to := c.QueryParam("from"), c.QueryParam("to")
	appts, err := h.current().AppointmentsForStaff(id, from, to)
	switch {
	case errors.Is(err, fixtures.ErrStaffNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	case err != nil:
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"doctor_id":    id,
		"from":         from,
		"to":           to,
		"appointments": appts,
	})
}

func (h *SeedHandler) handleExport(c echo.Context) error {
	name := c.Param("collection")
	ds := h.current()
	format := c.QueryParam("format")
	if format == "" {
		format = export.FormatJSON
	}

	data, err := export.Collection(ds, name)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	}

	var contentType string
	switch format {
	case formatNDJSON:
		contentType = "application/x-ndjson"
	case export.FormatJSON:
		contentType = echo.MIMEApplicationJSON
	case export.FormatYAML:
		contentType = "application/yaml"
	default:
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "format must be json, yaml or ndjson"})
	}

	c.Response().Header().Set(echo.HeaderContentType, contentType)
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+export.FileName(name, format))
	c.Response().WriteHeader(http.StatusOK)

	if format == formatNDJSON {
		return export.WriteNDJSON(c.Response().Writer, ds, name)
	}
	return export.Encode(c.Response().Writer, format, data)
}

func pathID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "id must be a positive integer")
	}
	return id, nil
}

func notFound(c echo.Context, kind string, id int) error {
	return c.JSON(http.StatusNotFound, map[string]string{"error": kind + " " + strconv.Itoa(id) + " not found"})
}
