package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dapurkita/restaurant-manager/middlewares"
	"github.com/dapurkita/restaurant-manager/models"
	"github.com/dapurkita/restaurant-manager/services"
	"github.com/dapurkita/restaurant-manager/utils"
)

// CartController mutates the session cart. Cached names/prices are display
// hints only; checkout re-reads everything from menu_items.
type CartController struct {
	DB *gorm.DB
}

func NewCartController(db *gorm.DB) *CartController {
	return &CartController{DB: db}
}

// GetCart returns the cart lines plus the CSRF token the client must echo
// on mutations.
func (cc *CartController) GetCart(c *gin.Context) {
	session := middlewares.GetSession(c)

	var subtotal float64
	for _, line := range session.Cart {
		subtotal += line.UnitPrice * float64(line.Quantity)
	}

	utils.RespondJSON(c, http.StatusOK, "Cart contents", gin.H{
		"items":      session.Cart,
		"subtotal":   utils.RoundMoney(subtotal),
		"csrf_token": session.CSRFToken,
	})
}

// AddItem adds a menu item to the cart or bumps its quantity.
func (cc *CartController) AddItem(c *gin.Context) {
	type request struct {
		MenuItemID uint `json:"menu_item_id" binding:"required"`
		Quantity   int  `json:"quantity"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	var item models.MenuItem
	if err := cc.DB.First(&item, req.MenuItemID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("menu item not found"))
		return
	}
	if !item.IsAvailable {
		utils.RespondError(c, http.StatusUnprocessableEntity, utils.Validationf("item is not available"))
		return
	}

	session := middlewares.GetSession(c)

	found := false
	for i := range session.Cart {
		if session.Cart[i].MenuItemID == item.ID {
			session.Cart[i].Quantity += req.Quantity
			session.Cart[i].UnitPrice = item.Price
			found = true
			break
		}
	}
	if !found {
		session.Cart = append(session.Cart, services.CartLine{
			MenuItemID: item.ID,
			Name:       item.Name,
			UnitPrice:  item.Price,
			Quantity:   req.Quantity,
		})
	}

	if err := middlewares.SaveSession(c, session); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Item added to cart", session.Cart)
}

// UpdateItem sets the quantity of a cart line; zero removes it.
func (cc *CartController) UpdateItem(c *gin.Context) {
	menuItemID, err := strconv.ParseUint(c.Param("menu_item_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid menu item id"))
		return
	}

	type request struct {
		Quantity int `json:"quantity"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Quantity < 0 {
		utils.RespondError(c, http.StatusUnprocessableEntity, utils.Validationf("quantity cannot be negative"))
		return
	}

	session := middlewares.GetSession(c)

	updated := false
	cart := session.Cart[:0]
	for _, line := range session.Cart {
		if line.MenuItemID == uint(menuItemID) {
			updated = true
			if req.Quantity == 0 {
				continue
			}
			line.Quantity = req.Quantity
		}
		cart = append(cart, line)
	}
	session.Cart = cart

	if !updated {
		utils.RespondError(c, http.StatusNotFound, errors.New("item not in cart"))
		return
	}

	if err := middlewares.SaveSession(c, session); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Cart updated", session.Cart)
}

// RemoveItem drops a single line from the cart.
func (cc *CartController) RemoveItem(c *gin.Context) {
	menuItemID, err := strconv.ParseUint(c.Param("menu_item_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid menu item id"))
		return
	}

	session := middlewares.GetSession(c)

	cart := session.Cart[:0]
	for _, line := range session.Cart {
		if line.MenuItemID != uint(menuItemID) {
			cart = append(cart, line)
		}
	}
	session.Cart = cart

	if err := middlewares.SaveSession(c, session); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Item removed", session.Cart)
}

// ClearCart empties the cart.
func (cc *CartController) ClearCart(c *gin.Context) {
	session := middlewares.GetSession(c)
	session.Cart = []services.CartLine{}

	if err := middlewares.SaveSession(c, session); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Cart cleared", session.Cart)
}
