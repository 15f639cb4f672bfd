package handler

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/digital-banking/account-service/internal/api/service"
	"github.com/digital-banking/account-service/internal/domain/account"
	"github.com/digital-banking/account-service/internal/domain/customer"
)

// AccountHandler handles HTTP requests for account lifecycle operations
type AccountHandler struct {
	accountService service.AccountService
	logger         *slog.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(logger *slog.Logger, accountService service.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		logger:         logger,
	}
}

// CreateCurrent handles opening of a CURRENT account
func (h *AccountHandler) CreateCurrent(c *gin.Context) {
	var req CreateCurrentAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		RespondBadRequest(c, "Invalid customer ID")
		return
	}

	acc, err := h.accountService.CreateCurrentAccount(c.Request.Context(), req.InitialBalance, req.OverdraftLimit, customerID)
	if err != nil {
		h.respondCreateError(c, err)
		return
	}

	RespondCreated(c, mapAccountToResponse(acc))
}

// CreateSaving handles opening of a SAVING account
func (h *AccountHandler) CreateSaving(c *gin.Context) {
	var req CreateSavingAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		RespondBadRequest(c, "Invalid customer ID")
		return
	}

	acc, err := h.accountService.CreateSavingAccount(c.Request.Context(), req.InitialBalance, req.InterestRate, customerID)
	if err != nil {
		h.respondCreateError(c, err)
		return
	}

	RespondCreated(c, mapAccountToResponse(acc))
}

// GetByID retrieves an account by its ID, returning 404 if not found
func (h *AccountHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	acc, err := h.accountService.GetAccountByID(c.Request.Context(), id)
	if err != nil {
		h.respondAccountError(c, id, err)
		return
	}

	RespondOK(c, mapAccountToResponse(acc))
}

// List retrieves all accounts
func (h *AccountHandler) List(c *gin.Context) {
	accounts, err := h.accountService.ListAccounts(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list accounts", "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapAccountsToResponses(accounts))
}

// ListByCustomer retrieves all accounts owned by a customer
func (h *AccountHandler) ListByCustomer(c *gin.Context) {
	idParam := c.Param("id")
	customerID, err := uuid.Parse(idParam)
	if err != nil {
		RespondBadRequest(c, "Invalid customer ID")
		return
	}

	accounts, err := h.accountService.ListAccountsByCustomer(c.Request.Context(), customerID)
	if err != nil {
		h.logger.Error("Failed to list accounts for customer", "customer_id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapAccountsToResponses(accounts))
}

// Activate transitions the account from CREATED to ACTIVATED
func (h *AccountHandler) Activate(c *gin.Context) {
	h.transition(c, h.accountService.ActivateAccount)
}

// Suspend transitions the account from ACTIVATED to SUSPENDED
func (h *AccountHandler) Suspend(c *gin.Context) {
	h.transition(c, h.accountService.SuspendAccount)
}

func (h *AccountHandler) transition(c *gin.Context, apply func(ctx context.Context, id uuid.UUID) (*account.BankAccount, error)) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	acc, err := apply(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, account.ErrInvalidStatusTransition) {
			RespondConflict(c, "INVALID_STATUS_TRANSITION", err.Error())
			return
		}
		var conflict account.ErrConcurrentModification
		if errors.As(err, &conflict) {
			RespondConflict(c, "CONCURRENT_MODIFICATION", "Account was modified concurrently, retry")
			return
		}
		h.respondAccountError(c, id, err)
		return
	}

	RespondOK(c, mapAccountToResponse(acc))
}

func (h *AccountHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid account ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid account ID")
		return uuid.Nil, false
	}
	return id, true
}

func (h *AccountHandler) respondCreateError(c *gin.Context, err error) {
	var custNotFound customer.ErrCustomerNotFound
	switch {
	case errors.As(err, &custNotFound):
		RespondNotFound(c, "Customer not found")
	case errors.Is(err, account.ErrNegativeInitialBalance),
		errors.Is(err, account.ErrNegativeOverdraft),
		errors.Is(err, account.ErrNegativeInterestRate):
		RespondBadRequest(c, err.Error())
	default:
		h.logger.Error("Failed to create account", "error", err)
		RespondInternalError(c)
	}
}

func (h *AccountHandler) respondAccountError(c *gin.Context, id uuid.UUID, err error) {
	var notFound account.ErrAccountNotFound
	if errors.As(err, &notFound) {
		RespondNotFound(c, "Account not found")
		return
	}
	h.logger.Error("Account operation failed", "id", id.String(), "error", err)
	RespondInternalError(c)
}

func mapAccountsToResponses(accounts []*account.BankAccount) []AccountResponse {
	responses := make([]AccountResponse, 0, len(accounts))
	for _, acc := range accounts {
		responses = append(responses, mapAccountToResponse(acc))
	}
	return responses
}
