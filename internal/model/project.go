package model

import "time"

// Project is a client-facing portal owned by exactly one user. The share
// token is an unguessable capability string assigned at creation and never
// rotated; possession of the token is read authorization.
//
// Fields:
//  ID           – primary key identifier.
//  UserID       – owning user.
//  Name         – project name shown on the dashboard and portal.
//  ClientName   – client display name.
//  ClientEmail  – client contact email (nullable, used for notifications).
//  Description  – free-text description (nullable).
//  ShareToken   – unique capability token for the public portal URL.
//  PasswordHash – bcrypt hash gating the portal (nullable = no password).
//  Status       – active, completed or archived.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type Project struct {
	ID           uint64    // projects.id
	UserID       uint64    // projects.user_id
	Name         string    // projects.name
	ClientName   string    // projects.client_name
	ClientEmail  *string   // projects.client_email (nullable)
	Description  *string   // projects.description (nullable)
	ShareToken   string    // projects.share_token
	PasswordHash *string   // projects.password_hash (nullable)
	Status       string    // projects.status
	CreatedAt    time.Time // projects.created_at
	UpdatedAt    time.Time // projects.updated_at
}
