package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jacksonmollel/pesamart/internal/core/domain"
	"github.com/jacksonmollel/pesamart/internal/core/orders"
)

type OrdersHandler struct {
	Svc *orders.Service
}

func (h *OrdersHandler) CreateOrder(c *fiber.Ctx) error {
	var order domain.Order
	if err := c.BodyParser(&order); err != nil {
		return badRequest(c, "Invalid request body")
	}
	created, err := h.Svc.CreateOrder(c.Context(), &order)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *OrdersHandler) GetOrder(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid order id")
	}
	order, err := h.Svc.GetOrder(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(order)
}

type OrderStatusRequest struct {
	Status domain.OrderStatus `json:"status"`
}

func (h *OrdersHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid order id")
	}
	var req OrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	order, err := h.Svc.UpdateOrderStatus(c.Context(), id, req.Status)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(order)
}

func (h *OrdersHandler) CreatePayment(c *fiber.Ctx) error {
	var payment domain.Payment
	if err := c.BodyParser(&payment); err != nil {
		return badRequest(c, "Invalid request body")
	}
	created, err := h.Svc.CreatePayment(c.Context(), &payment)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *OrdersHandler) ProcessPayment(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid payment id")
	}
	payment, err := h.Svc.ProcessPayment(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}

	slog.Info("✅ Payment Processed", "id", payment.ID, "transaction_id", payment.TransactionID)
	return c.JSON(payment)
}

func (h *OrdersHandler) RefundPayment(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid payment id")
	}
	payment, err := h.Svc.RefundPayment(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(payment)
}

func (h *OrdersHandler) FailPayment(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid payment id")
	}
	payment, err := h.Svc.FailPayment(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(payment)
}

func (h *OrdersHandler) ListOrderPayments(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid order id")
	}
	payments, err := h.Svc.ListPaymentsByOrder(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"payments": payments})
}

func (h *OrdersHandler) CreateDelivery(c *fiber.Ctx) error {
	var delivery domain.Delivery
	if err := c.BodyParser(&delivery); err != nil {
		return badRequest(c, "Invalid request body")
	}
	created, err := h.Svc.CreateDelivery(c.Context(), &delivery)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

type DeliveryStatusRequest struct {
	Status domain.DeliveryStatus `json:"status"`
}

func (h *OrdersHandler) UpdateDeliveryStatus(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid delivery id")
	}
	var req DeliveryStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	delivery, err := h.Svc.UpdateDeliveryStatus(c.Context(), id, req.Status)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(delivery)
}

type AssignPersonRequest struct {
	DeliveryPersonID int64 `json:"delivery_person_id"`
}

func (h *OrdersHandler) AssignDeliveryPerson(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid delivery id")
	}
	var req AssignPersonRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	delivery, err := h.Svc.AssignDeliveryPerson(c.Context(), id, req.DeliveryPersonID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(delivery)
}

func (h *OrdersHandler) DeleteDelivery(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid delivery id")
	}
	if err := h.Svc.DeleteDelivery(c.Context(), id); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *OrdersHandler) CreateDeliveryPerson(c *fiber.Ctx) error {
	var person domain.DeliveryPerson
	if err := c.BodyParser(&person); err != nil {
		return badRequest(c, "Invalid request body")
	}
	created, err := h.Svc.CreateDeliveryPerson(c.Context(), &person)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *OrdersHandler) AvailableDeliveryPersons(c *fiber.Ctx) error {
	persons, err := h.Svc.AvailableDeliveryPersons(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"delivery_persons": persons})
}

func (h *OrdersHandler) CreateCancellation(c *fiber.Ctx) error {
	var cancellation domain.Cancellation
	if err := c.BodyParser(&cancellation); err != nil {
		return badRequest(c, "Invalid request body")
	}
	created, err := h.Svc.CreateCancellation(c.Context(), &cancellation)
	if err != nil {
		return fail(c, err)
	}

	slog.Info("🛑 Order Cancelled", "order_id", created.OrderID, "cancellation_id", created.ID)
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *OrdersHandler) ProcessRefund(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid cancellation id")
	}
	cancellation, err := h.Svc.ProcessRefund(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(cancellation)
}

func (h *OrdersHandler) CompleteRefund(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid cancellation id")
	}
	cancellation, err := h.Svc.CompleteRefund(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(cancellation)
}

func (h *OrdersHandler) CreateProduct(c *fiber.Ctx) error {
	var product domain.Product
	if err := c.BodyParser(&product); err != nil {
		return badRequest(c, "Invalid request body")
	}
	created, err := h.Svc.CreateProduct(c.Context(), &product)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *OrdersHandler) CreateInventory(c *fiber.Ctx) error {
	var inventory domain.Inventory
	if err := c.BodyParser(&inventory); err != nil {
		return badRequest(c, "Invalid request body")
	}
	created, err := h.Svc.CreateInventory(c.Context(), &inventory)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

type StockRequest struct {
	Quantity int `json:"quantity"`
}

func (h *OrdersHandler) DecreaseStock(c *fiber.Ctx) error {
	productID, ok := paramID(c, "productId")
	if !ok {
		return badRequest(c, "Invalid product id")
	}
	var req StockRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	inventory, err := h.Svc.DecreaseStock(c.Context(), productID, req.Quantity)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(inventory)
}

func (h *OrdersHandler) IncreaseStock(c *fiber.Ctx) error {
	productID, ok := paramID(c, "productId")
	if !ok {
		return badRequest(c, "Invalid product id")
	}
	var req StockRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	inventory, err := h.Svc.IncreaseStock(c.Context(), productID, req.Quantity)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(inventory)
}

func (h *OrdersHandler) LowStock(c *fiber.Ctx) error {
	items, err := h.Svc.LowStock(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"items": items})
}

func (h *OrdersHandler) CreateDiscountRule(c *fiber.Ctx) error {
	var rule domain.DiscountRule
	if err := c.BodyParser(&rule); err != nil {
		return badRequest(c, "Invalid request body")
	}
	created, err := h.Svc.CreateDiscountRule(c.Context(), &rule)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *OrdersHandler) ToggleDiscountRule(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid rule id")
	}
	rule, err := h.Svc.ToggleDiscountRule(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(rule)
}

func (h *OrdersHandler) CalculateDiscount(c *fiber.Ctx) error {
	cartValue, err := decimal.NewFromString(c.Query("cart_value", "0"))
	if err != nil {
		return badRequest(c, "Invalid cart value")
	}
	discount, err := h.Svc.CalculateDiscount(c.Context(), cartValue)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"cart_value": cartValue, "discount": discount})
}
