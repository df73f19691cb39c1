package cart

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/freshmart/grocery-backend/internal/draft"
	"github.com/freshmart/grocery-backend/internal/user"
)

// Handler delegates cart operations to the reconciliation service. Mutating
// routes sit behind the JWT middleware; the dashboard count routes are
// public.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/cart/draft-orders", h.getDraftOrders)
	app.Get("/api/cart/get-sells-count", h.getSellsCount)
	app.Get("/api/cart/get-draft-count", h.getDraftCount)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/cart/", h.getCart)
	app.Post("/api/cart/add", h.addCart)
	app.Put("/api/cart/update/:cartId", h.updateCart)
	app.Delete("/api/cart/remove/:cartId", h.removeCart)
}

type addCartRequest struct {
	UserID int           `json:"userId"`
	Items  []ItemRequest `json:"items"`
	// Value and Status are part of the legacy wire contract. The server
	// recomputes the value; the status label is mapped through the closed
	// enumeration.
	Value  float64 `json:"value"`
	Status string  `json:"status"`
}

func writeCheckoutError(c *fiber.Ctx, err error) error {
	var oq *draft.OverQuantityError
	switch {
	case errors.Is(err, ErrEmptyCart):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "cart cannot be empty"})
	case errors.Is(err, draft.ErrNonPositiveQuantity):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	case errors.As(err, &oq):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message":   oq.Error(),
			"available": oq.Available,
		})
	case errors.Is(err, ErrProductNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Cart not found"})
	case errors.Is(err, ErrImmutable):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "cart is already paid"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
}

func (h *Handler) addCart(c *fiber.Ctx) error {
	payload := new(addCartRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	status, err := ParseStatus(payload.Status)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	var created Cart
	if status == StatusDraft {
		created, err = h.service.SaveDraft(userID, payload.Items)
	} else {
		created, err = h.service.Checkout(userID, payload.Items)
	}
	if err != nil {
		return writeCheckoutError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) getCart(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	current, err := h.service.GetLatestForUser(userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Cart not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(current)
}

type updateCartRequest struct {
	Items []ItemRequest `json:"items"`
}

func (h *Handler) updateCart(c *fiber.Ctx) error {
	cartID, err := strconv.Atoi(c.Params("cartId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	payload := new(updateCartRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	updated, err := h.service.Update(cartID, payload.Items)
	if err != nil {
		return writeCheckoutError(c, err)
	}
	return c.JSON(updated)
}

func (h *Handler) removeCart(c *fiber.Ctx) error {
	cartID, err := strconv.Atoi(c.Params("cartId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	if err := h.service.Remove(cartID); err != nil {
		return writeCheckoutError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Cart removed successfully"})
}

func (h *Handler) getDraftOrders(c *fiber.Ctx) error {
	drafts, err := h.service.ListDrafts()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(drafts)
}

func (h *Handler) getSellsCount(c *fiber.Ctx) error {
	n, err := h.service.SellsCount()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(fiber.Map{"sellsCount": n})
}

func (h *Handler) getDraftCount(c *fiber.Ctx) error {
	n, err := h.service.DraftCount()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(fiber.Map{"draftCount": n})
}
