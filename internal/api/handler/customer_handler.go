package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/digital-banking/account-service/internal/api/service"
	"github.com/digital-banking/account-service/internal/domain/customer"
)

// CustomerHandler handles HTTP requests for the customer directory
type CustomerHandler struct {
	customerService service.CustomerService
	logger          *slog.Logger
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(logger *slog.Logger, customerService service.CustomerService) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		logger:          logger,
	}
}

// Create handles registration of a new customer
func (h *CustomerHandler) Create(c *gin.Context) {
	var req CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	cust, err := h.customerService.CreateCustomer(c.Request.Context(), req.Name, req.Email)
	if err != nil {
		if errors.Is(err, customer.ErrEmptyName) || errors.Is(err, customer.ErrInvalidEmail) {
			RespondBadRequest(c, err.Error())
			return
		}
		h.logger.Error("Failed to create customer", "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, mapCustomerToResponse(cust))
}

// GetByID retrieves a customer by its ID, returning 404 if not found
func (h *CustomerHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	cust, err := h.customerService.GetCustomerByID(c.Request.Context(), id)
	if err != nil {
		h.respondCustomerError(c, id, err)
		return
	}

	RespondOK(c, mapCustomerToResponse(cust))
}

// Update changes a customer's name and email
func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	cust, err := h.customerService.UpdateCustomer(c.Request.Context(), id, req.Name, req.Email)
	if err != nil {
		if errors.Is(err, customer.ErrEmptyName) || errors.Is(err, customer.ErrInvalidEmail) {
			RespondBadRequest(c, err.Error())
			return
		}
		h.respondCustomerError(c, id, err)
		return
	}

	RespondOK(c, mapCustomerToResponse(cust))
}

// Delete removes a customer from the directory
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.customerService.DeleteCustomer(c.Request.Context(), id); err != nil {
		h.respondCustomerError(c, id, err)
		return
	}

	RespondNoContent(c)
}

// List retrieves all customers, optionally filtered by the keyword query
// parameter
func (h *CustomerHandler) List(c *gin.Context) {
	var (
		customers []*customer.Customer
		err       error
	)

	if keyword := c.Query("keyword"); keyword != "" {
		customers, err = h.customerService.SearchCustomers(c.Request.Context(), keyword)
	} else {
		customers, err = h.customerService.ListCustomers(c.Request.Context())
	}
	if err != nil {
		h.logger.Error("Failed to list customers", "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]CustomerResponse, 0, len(customers))
	for _, cust := range customers {
		responses = append(responses, mapCustomerToResponse(cust))
	}

	RespondOK(c, responses)
}

func (h *CustomerHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid customer ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid customer ID")
		return uuid.Nil, false
	}
	return id, true
}

func (h *CustomerHandler) respondCustomerError(c *gin.Context, id uuid.UUID, err error) {
	var notFound customer.ErrCustomerNotFound
	if errors.As(err, &notFound) {
		RespondNotFound(c, "Customer not found")
		return
	}
	h.logger.Error("Customer operation failed", "id", id.String(), "error", err)
	RespondInternalError(c)
}
