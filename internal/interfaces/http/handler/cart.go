package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	shoppingapp "github.com/storefront/backend/internal/application/shopping"
)

// CartHandler handles shopping cart API endpoints. Every route operates
// on the authenticated user's own cart.
type CartHandler struct {
	BaseHandler
	cartService *shoppingapp.CartService
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService *shoppingapp.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

// Get godoc
// @ID           getCart
// @Summary      Get the current user's cart
// @Description  Line prices always reflect the current catalog
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.Response
// @Router       /cart [get]
func (h *CartHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	cart, err := h.cartService.GetCart(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cart)
}

// AddItem godoc
// @ID           addCartItem
// @Summary      Add a product to the cart
// @Description  Adding a product already in the cart merges quantities,
// @Description  capped at the available stock
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body shoppingapp.AddItemRequest true "Product and quantity"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Router       /cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req shoppingapp.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cart, err := h.cartService.AddItem(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cart)
}

// UpdateItem godoc
// @ID           updateCartItem
// @Summary      Set a cart line's quantity
// @Description  Quantity must be at least 1; use the delete route to
// @Description  remove a line
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        productId path string                       true "Product ID"
// @Param        request   body shoppingapp.UpdateItemRequest true "New quantity"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Router       /cart/items/{productId} [put]
func (h *CartHandler) UpdateItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req shoppingapp.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cart, err := h.cartService.UpdateItem(c.Request.Context(), userID, productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cart)
}

// RemoveItem godoc
// @ID           removeCartItem
// @Summary      Remove a product from the cart
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Param        productId path string true "Product ID"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Router       /cart/items/{productId} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	cart, err := h.cartService.RemoveItem(c.Request.Context(), userID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cart)
}
