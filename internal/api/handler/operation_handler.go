package handler

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/digital-banking/account-service/internal/api/service"
	"github.com/digital-banking/account-service/internal/domain/account"
	"github.com/digital-banking/account-service/internal/domain/operation"
	"github.com/digital-banking/account-service/internal/engine"
)

// OperationHandler handles HTTP requests for balance operations and history
type OperationHandler struct {
	operations  service.OperationService
	maxPageSize int
	logger      *slog.Logger
}

// NewOperationHandler creates a new operation handler. maxPageSize bounds
// the history page size accepted from clients.
func NewOperationHandler(logger *slog.Logger, operations service.OperationService, maxPageSize int) *OperationHandler {
	return &OperationHandler{
		operations:  operations,
		maxPageSize: maxPageSize,
		logger:      logger,
	}
}

// Credit handles crediting an account
func (h *OperationHandler) Credit(c *gin.Context) {
	h.apply(c, h.operations.Credit)
}

// Debit handles debiting an account
func (h *OperationHandler) Debit(c *gin.Context) {
	h.apply(c, h.operations.Debit)
}

func (h *OperationHandler) apply(c *gin.Context, op func(ctx context.Context, accountID uuid.UUID, amount int64, description string) (*operation.Operation, error)) {
	id, ok := h.parseAccountID(c)
	if !ok {
		return
	}

	var req OperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := op(c.Request.Context(), id, req.Amount, req.Description)
	if err != nil {
		h.respondOperationError(c, err)
		return
	}

	RespondCreated(c, mapOperationToResponse(result))
}

// Transfer handles moving an amount between two accounts
func (h *OperationHandler) Transfer(c *gin.Context) {
	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	sourceID, err := uuid.Parse(req.SourceAccountID)
	if err != nil {
		RespondBadRequest(c, "Invalid source account ID")
		return
	}
	destinationID, err := uuid.Parse(req.DestinationAccountID)
	if err != nil {
		RespondBadRequest(c, "Invalid destination account ID")
		return
	}

	debitOp, creditOp, err := h.operations.Transfer(c.Request.Context(), sourceID, destinationID, req.Amount, req.Description)
	if err != nil {
		h.respondOperationError(c, err)
		return
	}

	RespondCreated(c, TransferResponse{
		Debit:  mapOperationToResponse(debitOp),
		Credit: mapOperationToResponse(creditOp),
	})
}

// History retrieves one page of an account's operation history. Pages are
// 0-based; pages past the end return an empty operations slice.
func (h *OperationHandler) History(c *gin.Context) {
	id, ok := h.parseAccountID(c)
	if !ok {
		return
	}

	var params HistoryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid pagination parameters: "+err.Error())
		return
	}
	if params.Size > h.maxPageSize {
		params.Size = h.maxPageSize
	}

	hist, err := h.operations.History(c.Request.Context(), id, params.Page, params.Size)
	if err != nil {
		h.respondOperationError(c, err)
		return
	}

	RespondOK(c, mapHistoryToResponse(hist))
}

func (h *OperationHandler) parseAccountID(c *gin.Context) (uuid.UUID, bool) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid account ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid account ID")
		return uuid.Nil, false
	}
	return id, true
}

// respondOperationError maps engine failure kinds to transport responses:
// not-found to 404, validation to 400, business rejections to 409, lock
// contention to 503, storage failures to 500.
func (h *OperationHandler) respondOperationError(c *gin.Context, err error) {
	var accNotFound account.ErrAccountNotFound
	switch {
	case errors.As(err, &accNotFound):
		RespondNotFound(c, "Account not found")
	case errors.Is(err, account.ErrInvalidAmount), errors.Is(err, engine.ErrInvalidPage):
		RespondBadRequest(c, err.Error())
	case errors.Is(err, account.ErrBalanceNotSufficient):
		RespondConflict(c, "BALANCE_NOT_SUFFICIENT", err.Error())
	case errors.Is(err, account.ErrAccountSuspended):
		RespondConflict(c, "ACCOUNT_SUSPENDED", err.Error())
	case errors.Is(err, account.ErrSameAccount):
		RespondConflict(c, "SAME_ACCOUNT", err.Error())
	case errors.Is(err, engine.ErrLockTimeout):
		RespondUnavailable(c, "Account is busy, retry the operation")
	default:
		h.logger.Error("Operation failed", "error", err)
		RespondInternalError(c)
	}
}
