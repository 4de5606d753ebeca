package controllers

import (
	"net/http"

	"github.com/storefront/backend/app/models"
	"github.com/storefront/backend/app/services"
	"github.com/storefront/backend/pkg/response"
	"github.com/storefront/backend/pkg/validate"
)

type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

// Place handles POST /orders.
func (c *OrderController) Place(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	var in services.PlaceOrderInput
	if !bindBody(w, r, &in) {
		return
	}
	// The address is a nested struct; validate its required fields here
	// since tag validation does not recurse.
	if errs := validate.Struct(&in.ShippingAddress); validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}
	order, err := c.orders.Place(r.Context(), p, in)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Created(w, order)
}

// My handles GET /orders/my-orders.
func (c *OrderController) My(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	orders, err := c.orders.MyOrders(r.Context(), p.ID)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.List(w, orders, len(orders))
}

// All handles GET /orders. Admin-only route.
func (c *OrderController) All(w http.ResponseWriter, r *http.Request) {
	orders, err := c.orders.All(r.Context())
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.List(w, orders, len(orders))
}

// Get handles GET /orders/{id}.
func (c *OrderController) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, err := objectIDParam(r, "id")
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	order, err := c.orders.Get(r.Context(), p, id)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Success(w, order)
}

// Pay handles PUT /orders/{id}/pay.
func (c *OrderController) Pay(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, err := objectIDParam(r, "id")
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	var result models.PaymentResult
	if !bindBody(w, r, &result) {
		return
	}
	order, err := c.orders.MarkPaid(r.Context(), p, id, result)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.SuccessMessage(w, "Order paid", order)
}

// UpdateStatus handles PUT /orders/{id}/status. Admin-only route.
func (c *OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r, "id")
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	var in services.UpdateStatusInput
	if !bindBody(w, r, &in) {
		return
	}
	order, err := c.orders.UpdateStatus(r.Context(), id, in.Status)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.SuccessMessage(w, "Order status updated", order)
}

// Cancel handles PUT /orders/{id}/cancel.
func (c *OrderController) Cancel(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, err := objectIDParam(r, "id")
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	order, err := c.orders.Cancel(r.Context(), p, id)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.SuccessMessage(w, "Order cancelled", order)
}
