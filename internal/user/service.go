package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/noah-isme/storefront/internal/common"
	"github.com/noah-isme/storefront/internal/db"
	dbgen "github.com/noah-isme/storefront/internal/db/gen"
)

type queryProvider interface {
	EnsureProfile(ctx context.Context, arg dbgen.EnsureProfileParams) error
	GetProfile(ctx context.Context, id pgtype.UUID) (dbgen.Profile, error)
	UpdateProfile(ctx context.Context, arg dbgen.UpdateProfileParams) (dbgen.Profile, error)
	ListUserRoles(ctx context.Context, userID pgtype.UUID) ([]dbgen.AppRole, error)
	GrantUserRole(ctx context.Context, arg dbgen.GrantUserRoleParams) error
}

// Auditor records staff actions.
type Auditor interface {
	Record(ctx context.Context, action, resourceType, resourceID string, metadata map[string]any)
}

// Service manages the local mirror of auth-service accounts: profiles and roles.
type Service struct {
	Q     queryProvider
	Audit Auditor
}

// Profile is the /me payload.
type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	Phone     string    `json:"phone"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UpdateInput is the PATCH /me body. Nil fields are left unchanged.
type UpdateInput struct {
	FullName *string `json:"fullName" validate:"omitempty,max=120"`
	Phone    *string `json:"phone" validate:"omitempty,max=32"`
}

func (s *Service) ready() error {
	if s == nil || s.Q == nil {
		return errors.New("user service not configured")
	}
	return nil
}

// Me returns the caller's profile, creating the row on first access.
func (s *Service) Me(ctx context.Context, userID, email string) (Profile, error) {
	if err := s.ready(); err != nil {
		return Profile{}, err
	}
	uid, err := db.ParseUUID(userID)
	if err != nil {
		return Profile{}, common.Unauthorized("authentication required")
	}
	if err := s.Q.EnsureProfile(ctx, dbgen.EnsureProfileParams{ID: uid, Email: strings.TrimSpace(email)}); err != nil {
		return Profile{}, fmt.Errorf("ensure profile: %w", err)
	}
	row, err := s.Q.GetProfile(ctx, uid)
	if err != nil {
		return Profile{}, fmt.Errorf("get profile: %w", err)
	}
	return s.withRoles(ctx, row)
}

// Update changes the caller's name and phone.
func (s *Service) Update(ctx context.Context, userID, email string, in UpdateInput) (Profile, error) {
	current, err := s.Me(ctx, userID, email)
	if err != nil {
		return Profile{}, err
	}
	uid, _ := db.ParseUUID(userID)
	params := dbgen.UpdateProfileParams{ID: uid, FullName: current.FullName, Phone: current.Phone}
	if in.FullName != nil {
		params.FullName = strings.TrimSpace(*in.FullName)
	}
	if in.Phone != nil {
		params.Phone = strings.TrimSpace(*in.Phone)
	}
	row, err := s.Q.UpdateProfile(ctx, params)
	if err != nil {
		return Profile{}, fmt.Errorf("update profile: %w", err)
	}
	return s.withRoles(ctx, row)
}

// Roles returns the user's roles. Users without explicit grants are customers.
func (s *Service) Roles(ctx context.Context, userID string) ([]string, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	uid, err := db.ParseUUID(userID)
	if err != nil {
		return nil, common.Unauthorized("authentication required")
	}
	rows, err := s.Q.ListUserRoles(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	if len(rows) == 0 {
		return []string{common.RoleCustomer}, nil
	}
	roles := make([]string, 0, len(rows))
	for _, r := range rows {
		roles = append(roles, string(r))
	}
	return roles, nil
}

// GrantCashier gives an existing auth-service account the cashier role.
func (s *Service) GrantCashier(ctx context.Context, targetUserID string) error {
	if err := s.ready(); err != nil {
		return err
	}
	uid, err := db.ParseUUID(targetUserID)
	if err != nil {
		return common.BadRequest("invalid user id", err)
	}
	if err := s.Q.EnsureProfile(ctx, dbgen.EnsureProfileParams{ID: uid}); err != nil {
		return fmt.Errorf("ensure profile: %w", err)
	}
	if err := s.Q.GrantUserRole(ctx, dbgen.GrantUserRoleParams{UserID: uid, Role: dbgen.AppRoleCashier}); err != nil {
		return fmt.Errorf("grant role: %w", err)
	}
	if s.Audit != nil {
		s.Audit.Record(ctx, "role.grant", "user", db.UUIDString(uid), map[string]any{"role": string(dbgen.AppRoleCashier)})
	}
	return nil
}

func (s *Service) withRoles(ctx context.Context, row dbgen.Profile) (Profile, error) {
	roles, err := s.Roles(ctx, db.UUIDString(row.ID))
	if err != nil {
		return Profile{}, err
	}
	return Profile{
		ID:        db.UUIDString(row.ID),
		Email:     row.Email,
		FullName:  row.FullName,
		Phone:     row.Phone,
		Roles:     roles,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}, nil
}
