package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jacksonmollel/pesamart/internal/core/domain"
	"github.com/jacksonmollel/pesamart/internal/core/ledger"
)

type LedgerHandler struct {
	Svc *ledger.Service
}

func (h *LedgerHandler) CreateAccount(c *fiber.Ctx) error {
	var account domain.Account
	if err := c.BodyParser(&account); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if account.AccountName == "" {
		return badRequest(c, "Account name is required")
	}

	created, err := h.Svc.CreateAccount(c.Context(), &account)
	if err != nil {
		return fail(c, err)
	}

	slog.Info("✅ Account Created", "id", created.ID, "user_id", created.UserID)
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *LedgerHandler) GetAccount(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid account id")
	}
	account, err := h.Svc.GetAccount(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(account)
}

func (h *LedgerHandler) ListAccounts(c *fiber.Ctx) error {
	accounts, err := h.Svc.ListAccounts(c.Context(), queryID(c, "user_id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"accounts": accounts})
}

func (h *LedgerHandler) CreateIncome(c *fiber.Ctx) error {
	var income domain.Income
	if err := c.BodyParser(&income); err != nil {
		return badRequest(c, "Invalid request body")
	}
	created, err := h.Svc.CreateIncome(c.Context(), &income)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *LedgerHandler) UpdateIncome(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid income id")
	}
	var details domain.Income
	if err := c.BodyParser(&details); err != nil {
		return badRequest(c, "Invalid request body")
	}
	updated, err := h.Svc.UpdateIncome(c.Context(), id, &details)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(updated)
}

func (h *LedgerHandler) DeleteIncome(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid income id")
	}
	if err := h.Svc.DeleteIncome(c.Context(), id); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *LedgerHandler) CreateExpense(c *fiber.Ctx) error {
	var expense domain.Expense
	if err := c.BodyParser(&expense); err != nil {
		return badRequest(c, "Invalid request body")
	}
	created, err := h.Svc.CreateExpense(c.Context(), &expense)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *LedgerHandler) UpdateExpense(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid expense id")
	}
	var details domain.Expense
	if err := c.BodyParser(&details); err != nil {
		return badRequest(c, "Invalid request body")
	}
	updated, err := h.Svc.UpdateExpense(c.Context(), id, &details)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(updated)
}

func (h *LedgerHandler) DeleteExpense(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid expense id")
	}
	if err := h.Svc.DeleteExpense(c.Context(), id); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *LedgerHandler) CreateTransfer(c *fiber.Ctx) error {
	var transfer domain.Transfer
	if err := c.BodyParser(&transfer); err != nil {
		return badRequest(c, "Invalid request body")
	}
	created, err := h.Svc.CreateTransfer(c.Context(), &transfer)
	if err != nil {
		return fail(c, err)
	}

	slog.Info("✅ Transfer Complete", "id", created.ID,
		"from", created.FromAccountID, "to", created.ToAccountID)
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *LedgerHandler) DeleteTransfer(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid transfer id")
	}
	if err := h.Svc.DeleteTransfer(c.Context(), id); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *LedgerHandler) CreateBudget(c *fiber.Ctx) error {
	var budget domain.Budget
	if err := c.BodyParser(&budget); err != nil {
		return badRequest(c, "Invalid request body")
	}
	created, err := h.Svc.CreateBudget(c.Context(), &budget)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *LedgerHandler) ListBudgets(c *fiber.Ctx) error {
	budgets, err := h.Svc.ListBudgets(c.Context(), queryID(c, "user_id"), c.Query("month"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"budgets": budgets})
}

func (h *LedgerHandler) CreateGoal(c *fiber.Ctx) error {
	var goal domain.Goal
	if err := c.BodyParser(&goal); err != nil {
		return badRequest(c, "Invalid request body")
	}
	created, err := h.Svc.CreateGoal(c.Context(), &goal)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

type ContributionRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (h *LedgerHandler) ContributeToGoal(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid goal id")
	}
	var req ContributionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	goal, err := h.Svc.ContributeToGoal(c.Context(), id, req.Amount)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(goal)
}

func (h *LedgerHandler) UserTotals(c *fiber.Ctx) error {
	userID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid user id")
	}
	income, err := h.Svc.TotalIncome(c.Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	expense, err := h.Svc.TotalExpense(c.Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"total_income":  income,
		"total_expense": expense,
		"net":           income.Sub(expense),
	})
}
