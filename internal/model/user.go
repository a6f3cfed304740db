package model

import "time"

// User is a freelancer account. Portal viewers are anonymous and never
// get a row here.
//
// Fields:
//  ID               – primary key identifier.
//  Email            – login email, stored lowercase.
//  PasswordHash     – bcrypt hash of the login password.
//  Name             – display name (nullable).
//  BusinessName     – business name shown on portals (nullable).
//  LogoURL          – custom branding logo (nullable, pro only).
//  BrandColor       – hex accent color used on portals.
//  StripeCustomerID – billing provider customer reference (nullable).
//  Plan             – subscription status: free, pro or cancelled.
//  CreatedAt        – creation timestamp.
//  UpdatedAt        – last update timestamp.
type User struct {
	ID               uint64    // users.id
	Email            string    // users.email
	PasswordHash     string    // users.password_hash
	Name             *string   // users.name (nullable)
	BusinessName     *string   // users.business_name (nullable)
	LogoURL          *string   // users.logo_url (nullable)
	BrandColor       string    // users.brand_color
	StripeCustomerID *string   // users.stripe_customer_id (nullable)
	Plan             string    // users.subscription_status
	CreatedAt        time.Time // users.created_at
	UpdatedAt        time.Time // users.updated_at
}
