package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/gig-scheduler/internal/model"
	"github.com/iliyamo/gig-scheduler/internal/schedule"
	"github.com/iliyamo/gig-scheduler/internal/service"
)

// GigService is the part of *service.GigService the handlers use.
type GigService interface {
	CreateGig(ctx context.Context, in service.CreateGigInput) (model.Gig, error)
	ValidateLineup(ctx context.Context, in service.CreateGigInput) ([]*schedule.Violation, error)
	GetSchedule(ctx context.Context, gigID uint64) ([]model.ScheduleEntry, error)
}

// Canceller is the part of *service.CancellationService the handlers use.
type Canceller interface {
	CancelAct(ctx context.Context, gigID uint64, actName string) (service.CancelOutcome, error)
}

// GigHandler serves gig creation, schedules and act cancellations.
type GigHandler struct {
	Gigs    GigService
	Cancels Canceller
}

func NewGigHandler(gigs GigService, cancels Canceller) *GigHandler {
	if gigs == nil || cancels == nil {
		panic("nil service passed to NewGigHandler")
	}
	return &GigHandler{Gigs: gigs, Cancels: cancels}
}

// requestTimeout bounds every service call made from a handler.
const requestTimeout = 5 * time.Second

// Accepted layouts for gig and slot times.  Offsets in RFC 3339 input are
// dropped; the wall-clock reading is what gets scheduled.
var timeLayouts = []string{"2006-01-02 15:04", "2006-01-02T15:04", time.RFC3339}

func parseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ----- DTOs -----

type performanceReq struct {
	ActID    uint64 `json:"act_id"`
	Fee      int    `json:"fee"`
	Start    string `json:"start"`
	Duration int    `json:"duration"`
}

type createGigReq struct {
	Venue        string           `json:"venue"`
	Title        string           `json:"title"`
	Start        string           `json:"start"`
	AdultPrice   int              `json:"adult_price"`
	Performances []performanceReq `json:"performances"`
}

func (r createGigReq) input() (service.CreateGigInput, string) {
	start, ok := parseTime(r.Start)
	if !ok {
		return service.CreateGigInput{}, "invalid start format"
	}
	in := service.CreateGigInput{
		Venue:        r.Venue,
		Title:        r.Title,
		Start:        start,
		AdultPrice:   r.AdultPrice,
		Performances: make([]service.PerformanceInput, 0, len(r.Performances)),
	}
	for i, p := range r.Performances {
		at, ok := parseTime(p.Start)
		if !ok {
			return service.CreateGigInput{}, "invalid start format in performances[" + strconv.Itoa(i) + "]"
		}
		in.Performances = append(in.Performances, service.PerformanceInput{
			ActID: p.ActID, Fee: p.Fee, Start: at, Duration: p.Duration,
		})
	}
	return in, ""
}

type gigResp struct {
	ID      uint64 `json:"id"`
	VenueID uint64 `json:"venue_id"`
	Title   string `json:"title"`
	Start   string `json:"start"`
	Status  string `json:"status"`
}

type violationResp struct {
	Rule   schedule.Rule `json:"rule"`
	Detail string        `json:"detail"`
}

type cancelReq struct {
	ActName string `json:"act_name"`
}

type cancelResp struct {
	Outcome           service.OutcomeKind   `json:"outcome"`
	GigID             uint64                `json:"gig_id"`
	ActName           string                `json:"act_name"`
	Reason            string                `json:"reason,omitempty"`
	RemovedMinutes    int                   `json:"removed_minutes"`
	AffectedCustomers []model.Customer      `json:"affected_customers,omitempty"`
	RemainingLineup   []model.ScheduleEntry `json:"remaining_lineup,omitempty"`
}

func gigID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

// Create handles POST /v1/gigs.
func (h *GigHandler) Create(c echo.Context) error {
	var req createGigReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	in, msg := req.input()
	if msg != "" {
		return badRequest(c, msg)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()
	gig, err := h.Gigs.CreateGig(ctx, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, gigResp{
		ID:      gig.ID,
		VenueID: gig.VenueID,
		Title:   gig.Title,
		Start:   gig.Start.Format("2006-01-02 15:04"),
		Status:  string(gig.Status),
	})
}

// Validate handles POST /v1/gigs/validate.  It reports every broken rule
// of the proposed gig and writes nothing.
func (h *GigHandler) Validate(c echo.Context) error {
	var req createGigReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	in, msg := req.input()
	if msg != "" {
		return badRequest(c, msg)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()
	violations, err := h.Gigs.ValidateLineup(ctx, in)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]violationResp, 0, len(violations))
	for _, v := range violations {
		out = append(out, violationResp{Rule: v.Rule, Detail: v.Detail})
	}
	return c.JSON(http.StatusOK, echo.Map{"valid": len(out) == 0, "violations": out})
}

// Schedule handles GET /v1/gigs/:id/schedule.
func (h *GigHandler) Schedule(c echo.Context) error {
	id, ok := gigID(c)
	if !ok {
		return badRequest(c, "invalid gig id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()
	entries, err := h.Gigs.GetSchedule(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"gig_id": id, "schedule": entries})
}

// Cancel handles POST /v1/gigs/:id/cancellations.
func (h *GigHandler) Cancel(c echo.Context) error {
	id, ok := gigID(c)
	if !ok {
		return badRequest(c, "invalid gig id")
	}
	var req cancelReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()
	out, err := h.Cancels.CancelAct(ctx, id, req.ActName)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, cancelResp{
		Outcome:           out.Kind,
		GigID:             out.GigID,
		ActName:           out.ActName,
		Reason:            out.Reason,
		RemovedMinutes:    out.RemovedMinutes,
		AffectedCustomers: out.AffectedCustomers,
		RemainingLineup:   out.RemainingLineup,
	})
}
