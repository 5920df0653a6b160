package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/admission-service/internal/api/dto"
	"github.com/spec-kit/admission-service/internal/domain"
	"github.com/spec-kit/admission-service/internal/export"
	"github.com/spec-kit/admission-service/internal/scanner"
	"github.com/spec-kit/admission-service/internal/service"
	apperrors "github.com/spec-kit/admission-service/pkg/util"
)

// TicketsHandler manages ticket issuance and redemption endpoints.
type TicketsHandler struct {
	tickets    *service.TicketService
	redemption *service.RedemptionService
	images     *scanner.ImageSource
}

// NewTicketsHandler constructs the handler.
func NewTicketsHandler(tickets *service.TicketService, redemption *service.RedemptionService, images *scanner.ImageSource) *TicketsHandler {
	return &TicketsHandler{tickets: tickets, redemption: redemption, images: images}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.tickets.Create(c.UserContext(), service.TicketCreateInput{
		BuyerName:  req.BuyerName,
		BuyerEmail: req.BuyerEmail,
		EventName:  req.EventName,
	})
	if err != nil {
		return err
	}
	resp, err := h.ticketResponse(ticket)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	tickets, err := h.tickets.List(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		resp, err := h.ticketResponse(&tickets[i])
		if err != nil {
			return err
		}
		items = append(items, resp)
	}
	return c.JSON(items)
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.tickets.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	resp, err := h.ticketResponse(ticket)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// DeleteTicket DELETE /tickets/:id.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	if err := h.tickets.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "ticket deleted"})
}

// QRImage GET /tickets/:id/qr.png serves the printable raster.
func (h *TicketsHandler) QRImage(c *fiber.Ctx) error {
	png, err := h.tickets.QRImage(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}

// TicketPDF GET /tickets/:id/pdf serves the printable eTicket.
func (h *TicketsHandler) TicketPDF(c *fiber.Ctx) error {
	ticket, err := h.tickets.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	png, err := h.tickets.QRImage(c.UserContext(), ticket.ID)
	if err != nil {
		return err
	}
	pdfBytes, err := export.TicketPDF(ticket, png)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="ticket-`+ticket.ID+`.pdf"`)
	return c.Send(pdfBytes)
}

// ValidateTicket POST /tickets/validate. Advisory read; always 200 unless
// the id itself is missing from the request.
func (h *TicketsHandler) ValidateTicket(c *fiber.Ctx) error {
	var req dto.ValidateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	id := scanner.ManualInput(req.TicketID)
	if id == "" {
		return apperrors.NewValidationError("ticket_id is required", nil)
	}
	return h.respondValidation(c, id)
}

// RedeemTicket POST /tickets/redeem performs the one-way transition.
func (h *TicketsHandler) RedeemTicket(c *fiber.Ctx) error {
	var req dto.RedeemTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	id := scanner.ManualInput(req.TicketID)
	if id == "" {
		return apperrors.NewValidationError("ticket_id is required", nil)
	}

	ticket, err := h.redemption.Redeem(c.UserContext(), id)
	if err != nil {
		// The redeem route answers 400 for unknown ids, same as the
		// already-redeemed case; the codes stay distinct.
		var de *apperrors.DomainError
		if errors.As(err, &de) && de.Code == "NOT_FOUND" {
			return apperrors.NewDomainError(de.Code, de.Message, fiber.StatusBadRequest, de.Details)
		}
		return err
	}
	resp, err := h.ticketResponse(ticket)
	if err != nil {
		return err
	}
	return c.JSON(dto.RedeemTicketResponse{
		Message: "ticket redeemed successfully",
		Ticket:  &resp,
	})
}

// ScanImage POST /tickets/scan-image decodes an uploaded raster and
// validates the embedded payload in one round trip.
func (h *TicketsHandler) ScanImage(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return apperrors.NewValidationError("image file is required", nil)
	}
	file, err := fileHeader.Open()
	if err != nil {
		return apperrors.NewValidationError("image file unreadable", nil)
	}
	defer file.Close()

	payload, err := h.images.DecodeUpload(file)
	if err != nil {
		return err
	}
	return h.respondValidation(c, payload)
}

func (h *TicketsHandler) respondValidation(c *fiber.Ctx, id string) error {
	result, err := h.redemption.Validate(c.UserContext(), id)
	if err != nil {
		return err
	}

	resp := dto.ValidateTicketResponse{
		Valid:           result.Valid,
		AlreadyRedeemed: result.AlreadyRedeemed,
	}
	switch {
	case result.Valid:
		resp.Message = "ticket is valid"
	case result.AlreadyRedeemed:
		resp.Message = "ticket was already redeemed"
	default:
		resp.Message = "ticket not found"
	}
	if result.Ticket != nil {
		ticketResp, err := h.ticketResponse(result.Ticket)
		if err != nil {
			return err
		}
		resp.Ticket = &ticketResp
	}
	return c.JSON(resp)
}

func (h *TicketsHandler) ticketResponse(ticket *domain.Ticket) (dto.TicketResponse, error) {
	qrCode, err := h.tickets.QRDataURL(ticket.ID)
	if err != nil {
		return dto.TicketResponse{}, apperrors.NewInternalError(err)
	}
	return dto.TicketResponse{
		ID:         ticket.ID,
		BuyerName:  ticket.BuyerName,
		BuyerEmail: ticket.BuyerEmail,
		EventName:  ticket.EventName,
		Status:     ticket.Status,
		CreatedAt:  ticket.CreatedAt,
		QRCode:     qrCode,
	}, nil
}
