// Package payment wraps the billing provider behind a small interface.
// The gate and handlers only ever see opaque customer ids and redirect
// URLs; subscription status changes arrive out-of-band and are not handled
// here.
package payment

import (
	"strconv"

	"github.com/stripe/stripe-go/v78"
	portalsession "github.com/stripe/stripe-go/v78/billingportal/session"
	checkoutsession "github.com/stripe/stripe-go/v78/checkout/session"
	"github.com/stripe/stripe-go/v78/customer"
)

// Provider is the billing collaborator consumed by the handlers.
type Provider interface {
	// CreateCustomer registers the user with the billing provider and
	// returns the opaque customer id to store on the user row.
	CreateCustomer(email string, userID uint64) (string, error)
	// CreateCheckoutSession starts a subscription checkout for the pro
	// plan and returns the hosted page URL.
	CreateCheckoutSession(customerID string) (string, error)
	// CreateBillingPortalSession returns a URL where an existing customer
	// manages their subscription.
	CreateBillingPortalSession(customerID string) (string, error)
}

// StripeProvider implements Provider against the Stripe API.
type StripeProvider struct {
	ProPriceID string
	SuccessURL string
	CancelURL  string
	ReturnURL  string
}

// NewStripeProvider sets the package-level API key and returns a provider
// configured with the pro price and redirect targets.
func NewStripeProvider(secretKey, proPriceID, appURL string) *StripeProvider {
	stripe.Key = secretKey
	return &StripeProvider{
		ProPriceID: proPriceID,
		SuccessURL: appURL + "/dashboard?upgraded=true",
		CancelURL:  appURL + "/dashboard/billing",
		ReturnURL:  appURL + "/dashboard/billing",
	}
}

func (p *StripeProvider) CreateCustomer(email string, userID uint64) (string, error) {
	params := &stripe.CustomerParams{Email: stripe.String(email)}
	params.AddMetadata("user_id", strconv.FormatUint(userID, 10))
	c, err := customer.New(params)
	if err != nil {
		return "", err
	}
	return c.ID, nil
}

func (p *StripeProvider) CreateCheckoutSession(customerID string) (string, error) {
	s, err := checkoutsession.New(&stripe.CheckoutSessionParams{
		Customer: stripe.String(customerID),
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			Price:    stripe.String(p.ProPriceID),
			Quantity: stripe.Int64(1),
		}},
		SuccessURL: stripe.String(p.SuccessURL),
		CancelURL:  stripe.String(p.CancelURL),
	})
	if err != nil {
		return "", err
	}
	return s.URL, nil
}

func (p *StripeProvider) CreateBillingPortalSession(customerID string) (string, error) {
	s, err := portalsession.New(&stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(p.ReturnURL),
	})
	if err != nil {
		return "", err
	}
	return s.URL, nil
}
