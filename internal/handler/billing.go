package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/qdo10/loopin/internal/payment"
	"github.com/qdo10/loopin/internal/repository"
)

// BillingHandler starts checkout and billing-portal sessions. Subscription
// status itself changes out-of-band; these endpoints only hand out
// redirect URLs.
type BillingHandler struct {
	Users    *repository.UserRepo
	Provider payment.Provider
}

func NewBillingHandler(users *repository.UserRepo, provider payment.Provider) *BillingHandler {
	if users == nil || provider == nil {
		panic("nil dependency passed to NewBillingHandler")
	}
	return &BillingHandler{Users: users, Provider: provider}
}

// Checkout creates (lazily) a billing customer for the caller and returns
// a hosted checkout URL for the pro subscription.
func (h *BillingHandler) Checkout(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	customerID := ""
	if u.StripeCustomerID != nil {
		customerID = *u.StripeCustomerID
	} else {
		customerID, err = h.Provider.CreateCustomer(u.Email, u.ID)
		if err != nil {
			return c.JSON(http.StatusBadGateway, echo.Map{"error": "billing provider unavailable"})
		}
		if err := h.Users.SetStripeCustomer(ctx, u.ID, customerID); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
	}

	url, err := h.Provider.CreateCheckoutSession(customerID)
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "billing provider unavailable"})
	}
	return c.JSON(http.StatusOK, echo.Map{"url": url})
}

// Portal returns a billing-portal URL for managing an existing
// subscription. Users who never checked out have no customer record and
// get a 400.
func (h *BillingHandler) Portal(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if u.StripeCustomerID == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no subscription found"})
	}

	url, err := h.Provider.CreateBillingPortalSession(*u.StripeCustomerID)
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "billing provider unavailable"})
	}
	return c.JSON(http.StatusOK, echo.Map{"url": url})
}
