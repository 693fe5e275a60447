// Copyright (c) 2026 Fruvia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/fruvia/internal/platform/apperr"
	"github.com/taibuivan/fruvia/internal/platform/sec"
	"github.com/taibuivan/fruvia/internal/users/auth"
)

// # Service Layer

// Service orchestrates business logic for user accounts.
//
// It ensures that profile updates, customer administration, and session
// security cleanup follow established business constraints.
type Service struct {
	accountRepository AccountRepository
	sessionRepository SessionRepository
	logger            *slog.Logger
}

// NewService constructs a new [Service] with its repository dependencies.
func NewService(
	accountRepo AccountRepository,
	sessionRepo SessionRepository,
	logger *slog.Logger,
) *Service {
	return &Service{
		accountRepository: accountRepo,
		sessionRepository: sessionRepo,
		logger:            logger,
	}
}

// # Profile Management

/*
GetProfile retrieves the full private identity of a user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *auth.User: The hydrated user profile
  - error: Not found or execution failures
*/
func (service *Service) GetProfile(context context.Context, userID string) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_get_profile_failed: %w", err)
	}
	return user, nil
}

// UpdateProfileInput defines the mutable subset of user profile fields.
type UpdateProfileInput struct {
	Name    *string
	Phone   *string
	Address *string
}

/*
UpdateProfile applies a partial set of changes to a user's account metadata.

Description: Fetches the existing user state, overrides provided fields, and
synchronizes the change to persistent storage.

Parameters:
  - context: context.Context
  - userID: string
  - input: UpdateProfileInput

Returns:
  - *auth.User: The updated user profile
  - error: Update or storage failures
*/
func (service *Service) UpdateProfile(context context.Context, userID string, input UpdateProfileInput) (*auth.User, error) {

	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_update_lookup_failed: %w", err)
	}

	// Apply delta updates
	if input.Name != nil {
		user.Name = *input.Name
	}

	if input.Phone != nil {
		user.Phone = *input.Phone
	}

	if input.Address != nil {
		user.Address = *input.Address
	}

	// Persist changes
	if err := service.accountRepository.Update(context, user); err != nil {
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	service.logger.Info("user_profile_updated", slog.String("user_id", userID))

	return user, nil
}

/*
DeleteAccount performs an idempotent soft-deletion of a user account.

Description: Flags the account as deleted and immediately terminates all active
security sessions to force a global sign-out.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Execution failures
*/
func (service *Service) DeleteAccount(context context.Context, userID string) error {

	if err := service.accountRepository.SoftDelete(context, userID); err != nil {
		return fmt.Errorf("account_service_delete_failed: %w", err)
	}

	// Force global revocation of sessions for the deleted account
	_ = service.sessionRepository.RevokeAll(context, userID)

	service.logger.Warn("user_account_deleted", slog.String("user_id", userID))

	return nil
}

// # Session Security

/*
ListSessions provides a list of all active device sessions for the user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - []SessionInfo: List of active devices
  - error: Retrieval failures
*/
func (service *Service) ListSessions(context context.Context, userID string) ([]SessionInfo, error) {

	sessions, err := service.sessionRepository.FindActiveByUserID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_list_sessions_failed: %w", err)
	}

	return sessions, nil
}

/*
RevokeSession terminates a specific user session by its ID.

Parameters:
  - context: context.Context
  - userID: string
  - sessionID: string

Returns:
  - error: Revocation failures
*/
func (service *Service) RevokeSession(context context.Context, userID, sessionID string) error {
	if err := service.sessionRepository.Revoke(context, userID, sessionID); err != nil {
		return fmt.Errorf("account_service_revoke_session_failed: %w", err)
	}

	service.logger.Info("user_session_revoked",
		slog.String("user_id", userID),
		slog.String("session_id", sessionID),
	)

	return nil
}

// # Customer Administration

/*
ListAccounts retrieves a filtered page of accounts for staff review.

Parameters:
  - context: context.Context
  - filter: ListFilter

Returns:
  - []*auth.User: Matching accounts
  - int: Total matches (for pagination metadata)
  - error: Retrieval failures
*/
func (service *Service) ListAccounts(context context.Context, filter ListFilter) ([]*auth.User, int, error) {

	users, err := service.accountRepository.List(context, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("account_service_list_failed: %w", err)
	}

	total, err := service.accountRepository.Count(context, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("account_service_count_failed: %w", err)
	}

	return users, total, nil
}

// AdminUpdateInput defines the account fields staff may change.
type AdminUpdateInput struct {
	Name     *string
	Phone    *string
	Address  *string
	Role     *sec.UserRole
	IsActive *bool
}

/*
AdminUpdateAccount applies staff-initiated changes to a customer account.

Description: Regular admins may edit profile data and activation status.
Changing an account's role is restricted to superadmins, since it grants or
removes staff privileges.

Parameters:
  - context: context.Context
  - actorRole: sec.UserRole (The role of the staff member making the change)
  - accountID: string
  - input: AdminUpdateInput

Returns:
  - *auth.User: The updated account
  - error: Forbidden, not found, or storage failures
*/
func (service *Service) AdminUpdateAccount(context context.Context, actorRole sec.UserRole, accountID string, input AdminUpdateInput) (*auth.User, error) {

	user, err := service.accountRepository.FindByID(context, accountID)
	if err != nil {
		return nil, fmt.Errorf("account_service_admin_lookup_failed: %w", err)
	}

	if input.Role != nil {
		// Privilege escalation guard: only superadmins assign roles.
		if !actorRole.AtLeast(sec.RoleSuperAdmin) {
			return nil, apperr.Forbidden("Only superadmins can change account roles")
		}

		normalized := sec.Normalize(*input.Role)
		if !normalized.Valid() {
			return nil, apperr.Unprocessable("Unknown role")
		}
		user.Role = normalized
	}

	if input.Name != nil {
		user.Name = *input.Name
	}

	if input.Phone != nil {
		user.Phone = *input.Phone
	}

	if input.Address != nil {
		user.Address = *input.Address
	}

	if input.IsActive != nil {
		user.IsActive = *input.IsActive

		// Deactivation also kills live sessions so the lockout is immediate.
		if !user.IsActive {
			_ = service.sessionRepository.RevokeAll(context, accountID)
		}
	}

	if err := service.accountRepository.Update(context, user); err != nil {
		return nil, fmt.Errorf("account_service_admin_update_failed: %w", err)
	}

	service.logger.Info("account_admin_updated",
		slog.String("account_id", accountID),
		slog.String("role", string(user.Role)),
	)

	return user, nil
}

/*
AdminDeleteAccount soft-deletes a customer account on behalf of staff.

Parameters:
  - context: context.Context
  - accountID: string

Returns:
  - error: Execution failures
*/
func (service *Service) AdminDeleteAccount(context context.Context, accountID string) error {
	return service.DeleteAccount(context, accountID)
}
