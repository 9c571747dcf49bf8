package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/gig-scheduler/internal/model"
	"github.com/iliyamo/gig-scheduler/internal/service"
)

// TicketSeller is the part of *service.TicketService the handlers use.
type TicketSeller interface {
	BuyTicket(ctx context.Context, in service.BuyTicketInput) (model.Ticket, error)
}

// TicketHandler sells tickets on the public API.
type TicketHandler struct {
	Tickets TicketSeller
}

func NewTicketHandler(tickets TicketSeller) *TicketHandler {
	return &TicketHandler{Tickets: tickets}
}

type buyTicketReq struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	PriceType string `json:"price_type"`
}

type ticketResp struct {
	ID        uint64 `json:"id"`
	GigID     uint64 `json:"gig_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	PriceType string `json:"price_type"`
	Cost      int    `json:"cost"`
}

// Buy handles POST /v1/gigs/:id/tickets.
func (h *TicketHandler) Buy(c echo.Context) error {
	id, ok := gigID(c)
	if !ok {
		return badRequest(c, "invalid gig id")
	}
	var req buyTicketReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()
	t, err := h.Tickets.BuyTicket(ctx, service.BuyTicketInput{
		GigID: id, Name: req.Name, Email: req.Email, PriceType: req.PriceType,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, ticketResp{
		ID:        t.ID,
		GigID:     t.GigID,
		Name:      t.CustomerName,
		Email:     t.CustomerEmail,
		PriceType: t.PriceType,
		Cost:      t.Cost,
	})
}
