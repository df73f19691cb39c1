package payment

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/payments", h.createPayment)
	app.Get("/api/payments", h.getPayments)
	app.Get("/api/payments/:id", h.getPayment)
	app.Put("/api/payments/:id", h.updatePayment)
	app.Delete("/api/payments/:id", h.deletePayment)
}

// createPaymentRequest uses pointers for the numeric fields so a missing
// field is distinguishable from a zero value.
type createPaymentRequest struct {
	CartID     *int     `json:"cart"`
	Amount     *float64 `json:"payment"`
	CardHolder string   `json:"card_holder"`
	CardNumber string   `json:"card_number"`
	ExpDate    string   `json:"exp_date"`
}

func validatePaymentPayload(p *createPaymentRequest) map[string]string {
	errs := map[string]string{}
	if p.CartID == nil {
		errs["cart"] = "cart is required"
	}
	if p.Amount == nil {
		errs["payment"] = "payment is required"
	} else if *p.Amount < 0 {
		errs["payment"] = "payment must be >= 0"
	}
	if p.CardHolder == "" {
		errs["card_holder"] = "card_holder is required"
	}
	if p.CardNumber == "" {
		errs["card_number"] = "card_number is required"
	}
	if p.ExpDate == "" {
		errs["exp_date"] = "exp_date is required"
	}
	return errs
}

func (h *Handler) createPayment(c *fiber.Ctx) error {
	payload := new(createPaymentRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	if ves := validatePaymentPayload(payload); len(ves) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": ves})
	}

	created, err := h.service.Record(*payload.CartID, *payload.Amount, payload.CardHolder, payload.CardNumber, payload.ExpDate)
	if err != nil {
		switch {
		case errors.Is(err, ErrCartNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Cart not found"})
		case errors.Is(err, ErrCartPaid):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "cart already has a payment"})
		case errors.Is(err, ErrAmountMismatch):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) getPayments(c *fiber.Ctx) error {
	payments, err := h.service.List()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(payments)
}

func (h *Handler) getPayment(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	p, err := h.service.GetByID(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Payment not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(p)
}

func (h *Handler) updatePayment(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	p := new(Payment)
	if err := c.BodyParser(p); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	updated, err := h.service.Update(id, *p)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Payment not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(updated)
}

func (h *Handler) deletePayment(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	if err := h.service.Delete(id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Payment not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Payment deleted successfully"})
}
