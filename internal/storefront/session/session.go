// Copyright (c) 2026 Fruvia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package session holds the storefront's authentication state: tokens, the
identity snapshot, and role predicates.

# Architecture

  - Manager is an explicit state holder injected into whichever surface
    consumes it; nothing here is ambient or global.
  - All durable state lives in the key-value store. Login persists tokens
    and the user snapshot as one write; logout wipes every key tied to the
    identity, the cart and caches included.
  - The role is read from the user snapshot only. Two historical spellings
    of the superadmin role are accepted as the same rank.

Manager implements [api.CredentialSource], so the transport's silent token
refresh and the manager share one credential store.
*/
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/taibuivan/fruvia/internal/storefront/api"
	"github.com/taibuivan/fruvia/internal/storefront/kvstore"
)

// welcomeNoticeTTL is how long the post-registration notice stays visible.
const welcomeNoticeTTL = 5 * time.Second

// Identity is the authenticated user as seen by the storefront.
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Manager owns session state over the key-value store and the backend client.
type Manager struct {
	store  *kvstore.Store
	client *api.Client
	logger *slog.Logger

	noticeMutex sync.Mutex
	notice      string
	noticeUntil time.Time

	wipeMutex sync.Mutex
	onWipe    []func()
}

// NewManager constructs a session manager. The backend client is attached
// afterwards via [Manager.Bind] because the client's transport needs the
// manager as its credential source.
func NewManager(store *kvstore.Store, logger *slog.Logger) *Manager {
	return &Manager{store: store, logger: logger}
}

// Bind attaches the backend client once it exists.
func (manager *Manager) Bind(client *api.Client) {
	manager.client = client
}

// OnWipe registers a callback that fires after every identity wipe: logout,
// a failed refresh, and a forced logout from the transport. Holders of
// in-memory views over the store (the cart manager) register here so they
// never serve the previous customer's state.
func (manager *Manager) OnWipe(callback func()) {
	manager.wipeMutex.Lock()
	defer manager.wipeMutex.Unlock()

	manager.onWipe = append(manager.onWipe, callback)
}

// # Credential Source

// AccessToken returns the persisted access token, or "".
func (manager *Manager) AccessToken() string {
	return manager.store.GetString(kvstore.KeyToken)
}

// RefreshToken returns the persisted refresh token, or "".
func (manager *Manager) RefreshToken() string {
	return manager.store.GetString(kvstore.KeyRefreshToken)
}

// StoreTokens replaces both persisted tokens in one write.
func (manager *Manager) StoreTokens(accessToken, refreshToken string) error {
	return manager.store.SetMany(map[string]any{
		kvstore.KeyToken:        accessToken,
		kvstore.KeyRefreshToken: refreshToken,
	})
}

// ClearCredentials wipes all identity-scoped state. Called by the transport
// when a silent refresh fails for good.
func (manager *Manager) ClearCredentials() error {
	return manager.wipe()
}

// # Authentication Flow

/*
Login authenticates against the backend and persists the session.

Description: On success the access token, refresh token, and user snapshot
are persisted through one store write, then the identity is returned so the
caller can route on the role immediately. Backend failures propagate
untouched; nothing is persisted on failure. A failed persist is degraded
success: the session works for this process but will not survive a restart.

Parameters:
  - context: context.Context
  - email, password: string

Returns:
  - *Identity: The authenticated identity
  - error: Authentication or transport failure
*/
func (manager *Manager) Login(context context.Context, email, password string) (*Identity, error) {
	result, err := manager.client.Login(context, email, password)
	if err != nil {
		return nil, err
	}

	identity := identityOf(result.User)

	err = manager.store.SetMany(map[string]any{
		kvstore.KeyToken:        result.AccessToken,
		kvstore.KeyRefreshToken: result.RefreshToken,
		kvstore.KeyUser:         identity,
	})
	if err != nil {
		manager.logger.Warn("session_persist_degraded", slog.Any("error", err))
	}

	manager.logger.Info("session_started", slog.String("role", identity.Role))

	return &identity, nil
}

/*
Register enrolls a new account, logs it in, and sets a transient welcome
notice that expires on its own.

Parameters:
  - context: context.Context
  - input: api.RegisterInput

Returns:
  - *Identity: The enrolled identity
  - error: Enrollment or login failure
*/
func (manager *Manager) Register(context context.Context, input api.RegisterInput) (*Identity, error) {
	user, err := manager.client.Register(context, input)
	if err != nil {
		return nil, err
	}

	// Registration does not return tokens; establish the session explicitly.
	identity, err := manager.Login(context, input.Email, input.Password)
	if err != nil {
		return identityOfPtr(user), err
	}

	manager.noticeMutex.Lock()
	manager.notice = fmt.Sprintf("Welcome to Fruvia, %s!", identity.Name)
	manager.noticeUntil = time.Now().Add(welcomeNoticeTTL)
	manager.noticeMutex.Unlock()

	return identity, nil
}

// Notice returns the transient post-registration message, or "" once it has
// expired.
func (manager *Manager) Notice() string {
	manager.noticeMutex.Lock()
	defer manager.noticeMutex.Unlock()

	if time.Now().After(manager.noticeUntil) {
		manager.notice = ""
	}
	return manager.notice
}

/*
Logout revokes the session remotely (best effort) and wipes every
identity-scoped key: tokens, user snapshot, cart, preferences, and caches.

Parameters:
  - context: context.Context

Returns:
  - error: Local wipe failure; remote revocation failures are swallowed
*/
func (manager *Manager) Logout(context context.Context) error {
	if refreshToken := manager.RefreshToken(); refreshToken != "" {
		if err := manager.client.Logout(context, refreshToken); err != nil {
			manager.logger.Warn("remote_logout_failed", slog.Any("error", err))
		}
	}

	manager.logger.Info("session_ended")

	return manager.wipe()
}

/*
RefreshAccessToken explicitly exchanges the persisted refresh token for a
rotated pair.

Description: On any failure, including a missing refresh token, the session
is wiped the same way Logout wipes it, and the error is returned.

Parameters:
  - context: context.Context

Returns:
  - string: The new access token
  - error: Missing refresh token or a rejected refresh
*/
func (manager *Manager) RefreshAccessToken(context context.Context) (string, error) {
	refreshToken := manager.RefreshToken()
	if refreshToken == "" {
		_ = manager.wipe()
		return "", fmt.Errorf("session: no refresh token")
	}

	pair, err := manager.client.Refresh(context, refreshToken)
	if err != nil {
		_ = manager.wipe()
		return "", err
	}

	if err := manager.StoreTokens(pair.AccessToken, pair.RefreshToken); err != nil {
		manager.logger.Warn("session_persist_degraded", slog.Any("error", err))
	}

	return pair.AccessToken, nil
}

// # Identity & Role Predicates

// User returns the persisted identity snapshot, or nil when logged out.
func (manager *Manager) User() *Identity {
	var identity Identity
	if !manager.store.Get(kvstore.KeyUser, &identity) {
		return nil
	}
	return &identity
}

// IsAuthenticated reports whether an access token is present.
func (manager *Manager) IsAuthenticated() bool {
	return manager.AccessToken() != ""
}

// IsAdmin reports whether the session holds staff rank.
func (manager *Manager) IsAdmin() bool {
	switch manager.role() {
	case "admin", "superadmin", "super_admin":
		return true
	}
	return false
}

// IsSuperAdmin reports whether the session holds the top rank. Both
// historical spellings count.
func (manager *Manager) IsSuperAdmin() bool {
	switch manager.role() {
	case "superadmin", "super_admin":
		return true
	}
	return false
}

// IsCustomer reports whether the session belongs to a shopper.
func (manager *Manager) IsCustomer() bool {
	return manager.role() == "customer"
}

// role reads the role from the user snapshot, the single source of truth.
func (manager *Manager) role() string {
	user := manager.User()
	if user == nil {
		return ""
	}
	return user.Role
}

// wipe removes every identity-scoped key in one pass.
func (manager *Manager) wipe() error {
	keys := []string{
		kvstore.KeyToken,
		kvstore.KeyRefreshToken,
		kvstore.KeyUser,
		kvstore.KeyCart,
		kvstore.KeyPreferences,
	}
	keys = append(keys, manager.store.Keys(kvstore.CachePrefix)...)

	err := manager.store.Remove(keys...)

	manager.wipeMutex.Lock()
	callbacks := make([]func(), len(manager.onWipe))
	copy(callbacks, manager.onWipe)
	manager.wipeMutex.Unlock()
	for _, callback := range callbacks {
		callback()
	}

	return err
}

func identityOf(user api.User) Identity {
	return Identity{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role}
}

func identityOfPtr(user *api.User) *Identity {
	if user == nil {
		return nil
	}
	identity := identityOf(*user)
	return &identity
}
