package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/qdo10/loopin/internal/model"
	"github.com/qdo10/loopin/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var ErrEmailExists = errors.New("email already exists")

const userColumns = "id,email,password_hash,name,business_name,logo_url,brand_color,stripe_customer_id,subscription_status,created_at,updated_at"

func scanUser(row *sql.Row) (model.User, error) {
	var (
		u                                 model.User
		name, business, logo, stripeCust sql.NullString
	)
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &name, &business, &logo,
		&u.BrandColor, &stripeCust, &u.Plan, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, err
	}
	u.Name = nullStr(name)
	u.BusinessName = nullStr(business)
	u.LogoURL = nullStr(logo)
	u.StripeCustomerID = nullStr(stripeCust)
	return u, nil
}

// Create inserts a user with a hashed password and returns its ID. New
// accounts start on the free plan.
func (r *UserRepo) Create(ctx context.Context, email, password string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash) VALUES (?,?)",
		email, hash)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// UpdateProfile sets the display and business names.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, name, businessName *string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET name=?, business_name=? WHERE id=?",
		name, businessName, id)
	return err
}

// UpdateBranding sets the portal branding fields. Plan gating happens in
// the handler; the repository just writes.
func (r *UserRepo) UpdateBranding(ctx context.Context, id uint64, logoURL *string, brandColor string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET logo_url=?, brand_color=? WHERE id=?",
		logoURL, brandColor, id)
	return err
}

// SetStripeCustomer stores the billing provider customer reference the
// first time a checkout session is created.
func (r *UserRepo) SetStripeCustomer(ctx context.Context, id uint64, customerID string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET stripe_customer_id=? WHERE id=?",
		customerID, id)
	return err
}

func nullStr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
