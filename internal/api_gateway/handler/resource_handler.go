package handler

import (
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hotel-booking-ledger/internal/api_gateway/service"
	"github.com/hotel-booking-ledger/internal/domain/pricing"
	"github.com/hotel-booking-ledger/internal/domain/resource"
)

// ResourceHandler handles HTTP requests for the resource catalog and quotes
type ResourceHandler struct {
	resourceService service.ResourceService
	logger          *slog.Logger
}

// NewResourceHandler creates a new resource handler
func NewResourceHandler(logger *slog.Logger, resourceService service.ResourceService) *ResourceHandler {
	return &ResourceHandler{
		resourceService: resourceService,
		logger:          logger,
	}
}

// List returns the catalog, optionally narrowed to one category
func (h *ResourceHandler) List(c *gin.Context) {
	var query ResourceListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		RespondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	resources, err := h.resourceService.ListResources(c.Request.Context(), resource.Category(query.Category))
	if err != nil {
		respondError(c, h.logger, "list resources", err)
		return
	}

	response := make([]ResourceResponse, 0, len(resources))
	for _, res := range resources {
		response = append(response, mapResourceToResponse(res))
	}
	RespondOK(c, response)
}

// GetByID retrieves a resource by its ID, returning 404 if not found
func (h *ResourceHandler) GetByID(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		RespondBadRequest(c, "Invalid resource ID")
		return
	}

	res, err := h.resourceService.GetResource(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "get resource", err)
		return
	}

	RespondOK(c, mapResourceToResponse(res))
}

// Quote prices a prospective booking. Forms call it on every change, so it
// never writes.
func (h *ResourceHandler) Quote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resourceID, err := uuid.Parse(req.ResourceID)
	if err != nil {
		RespondBadRequest(c, "Invalid resource ID")
		return
	}

	extras, err := mapExtrasFromRequest(req.Extras)
	if err != nil {
		respondError(c, h.logger, "quote", err)
		return
	}

	input := service.QuoteInput{
		ResourceID: resourceID,
		CheckIn:    req.CheckIn,
		Extras:     extras,
	}
	if req.CheckOut != nil {
		input.CheckOut = *req.CheckOut
	}

	result, err := h.resourceService.Quote(c.Request.Context(), input)
	if err != nil {
		respondError(c, h.logger, "quote", err)
		return
	}

	RespondOK(c, mapQuoteToResponse(result))
}

func mapExtrasFromRequest(reqs []ExtraRequest) ([]pricing.Extra, error) {
	extras := make([]pricing.Extra, 0, len(reqs))
	for i, r := range reqs {
		price, err := toMinorUnits(fmt.Sprintf("extras[%d].price", i), r.Price)
		if err != nil {
			return nil, err
		}
		name := r.Name
		if name == "" {
			name = r.ID
		}
		extras = append(extras, pricing.Extra{ID: r.ID, Name: name, UnitPrice: price, Quantity: r.Quantity})
	}
	return extras, nil
}

func mapExtrasToResponse(extras []pricing.Extra) []ExtraResponse {
	response := make([]ExtraResponse, 0, len(extras))
	for _, e := range extras {
		response = append(response, ExtraResponse{
			ID:       e.ID,
			Name:     e.Name,
			Price:    formatMoney(e.UnitPrice),
			Quantity: e.Quantity,
			Total:    formatMoney(e.Total()),
		})
	}
	return response
}

func mapResourceToResponse(res *resource.Resource) ResourceResponse {
	basis, _ := res.Category.Basis()
	response := ResourceResponse{
		ID:          res.ID.String(),
		Name:        res.Name,
		Category:    string(res.Category),
		BillingUnit: string(basis),
		Capacity:    res.Capacity,
	}
	if res.PricePerNight != nil {
		response.PricePerNight = formatMoney(*res.PricePerNight)
	}
	if res.PricePerHour != nil {
		response.PricePerHour = formatMoney(*res.PricePerHour)
	}
	return response
}

func mapQuoteToResponse(result *service.QuoteResult) QuoteResponse {
	q := result.Quote
	return QuoteResponse{
		ResourceID:   result.Resource.ID.String(),
		Category:     string(result.Resource.Category),
		CheckIn:      formatTime(result.Range.From),
		CheckOut:     formatTime(result.Range.To),
		Units:        q.Units,
		Unit:         string(q.Unit),
		UnitPrice:    formatMoney(q.UnitPrice),
		BaseAmount:   formatMoney(q.BaseAmount),
		ExtrasAmount: formatMoney(q.ExtrasAmount),
		Amount:       formatMoney(q.Amount),
		Extras:       mapExtrasToResponse(q.Extras),
	}
}
