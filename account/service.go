package account

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/kbukum/companion/auth"
	"github.com/kbukum/companion/auth/authctx"
	"github.com/kbukum/companion/auth/password"
	apperrors "github.com/kbukum/companion/errors"
	"github.com/kbukum/companion/logger"
	"github.com/kbukum/companion/observability"
	"github.com/kbukum/companion/resilience"
	"github.com/kbukum/companion/validation"
)

// dummyPassword is hashed once at startup; logins for unknown emails verify
// against its digest so they cost the same as a wrong password.
const dummyPassword = "companion-timing-equalizer"

// SignupInput is the data needed to register an account.
type SignupInput struct {
	Username    string
	EmailID     string
	Password    string
	FullName    string
	Bio         string
	Preferences json.RawMessage
}

// LoginInput is the data needed to authenticate.
type LoginInput struct {
	EmailID  string
	Password string
}

// UpdateInput carries a partial update. Nil fields are left unchanged.
type UpdateInput struct {
	Username    *string
	EmailID     *string
	Password    *string
	FullName    *string
	Bio         *string
	Preferences json.RawMessage
}

// AuthResult is returned by Signup and Login.
type AuthResult struct {
	Token   string
	Account *Account
}

// Service implements signup, login and the account CRUD operations.
// All returned errors are *errors.AppError.
type Service struct {
	dir      Directory
	hasher   password.Hasher
	tokens   auth.Issuer
	pool     *resilience.Bulkhead
	timeout  time.Duration
	maxPrefs int
	metrics  *observability.Metrics
	log      *logger.Logger
	dummy    string
}

// Option configures a Service.
type Option func(*Service)

// WithHashingPool routes hash and verify work through pool.
func WithHashingPool(pool *resilience.Bulkhead) Option {
	return func(s *Service) { s.pool = pool }
}

// WithMetrics records operation metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLogger sets the service logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Service) { s.log = l }
}

// NewService creates the account service.
func NewService(cfg Config, dir Directory, hasher password.Hasher, tokens auth.Issuer, opts ...Option) (*Service, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Service{
		dir:      dir,
		hasher:   hasher,
		tokens:   tokens,
		timeout:  cfg.DirectoryTimeout,
		maxPrefs: cfg.MaxPreferencesBytes,
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.pool == nil {
		s.pool = resilience.NewBulkhead(resilience.BulkheadConfig{
			Name:          "password-hasher",
			MaxConcurrent: runtime.NumCPU(),
		})
	}
	s.log = s.log.WithComponent("account")

	dummy, err := hasher.Hash(dummyPassword)
	if err != nil {
		return nil, fmt.Errorf("account: prepare dummy digest: %w", err)
	}
	s.dummy = dummy
	return s, nil
}

// Signup registers a new account and issues its first token.
func (s *Service) Signup(ctx context.Context, in SignupInput) (res *AuthResult, err error) {
	oc := observability.NewOperationContext("account", "signup", s.metrics)
	ctx, span := oc.Start(ctx)
	defer func() { oc.End(ctx, span, outcome(err), err) }()

	email := NormalizeEmail(in.EmailID)
	prefs, err := s.preferences(in.Preferences)
	if err != nil {
		return nil, err
	}

	err = s.call(ctx, func(ctx context.Context) error {
		_, err := s.dir.FindByUsernameOrEmail(ctx, in.Username, email)
		return err
	})
	switch {
	case err == nil:
		return nil, errConflict()
	case !errors.Is(err, ErrNotFound):
		return nil, s.internal(ctx, "signup", err)
	}

	digest, err := s.hash(ctx, in.Password)
	if err != nil {
		return nil, s.hashError(ctx, "signup", err)
	}

	acct := &Account{
		Username:      in.Username,
		EmailID:       email,
		PasswordHash:  digest,
		FullName:      in.FullName,
		Bio:           in.Bio,
		Preferences:   prefs,
		Role:          RoleUser,
		AccountStatus: StatusActive,
	}
	err = s.call(ctx, func(ctx context.Context) error { return s.dir.Create(ctx, acct) })
	if errors.Is(err, ErrConflict) {
		return nil, errConflict()
	}
	if err != nil {
		return nil, s.internal(ctx, "signup", err)
	}

	tok, err := s.tokens.Issue(acct.UserID, acct.Username)
	if err != nil {
		return nil, s.internal(ctx, "signup", err)
	}

	observability.SetSpanAttribute(ctx, observability.AttrUserID, acct.UserID)
	s.log.WithContext(ctx).Info("Account registered", logger.Fields(logger.FieldUserID, acct.UserID))
	return &AuthResult{Token: tok, Account: acct}, nil
}

// Login checks the credentials and issues a token. Unknown email, wrong
// password and inactive account all yield the same InvalidCredentials error.
func (s *Service) Login(ctx context.Context, in LoginInput) (res *AuthResult, err error) {
	oc := observability.NewOperationContext("account", "login", s.metrics)
	ctx, span := oc.Start(ctx)
	defer func() { oc.End(ctx, span, outcome(err), err) }()

	email := NormalizeEmail(in.EmailID)

	var acct *Account
	err = s.call(ctx, func(ctx context.Context) (err error) {
		acct, err = s.dir.FindByEmail(ctx, email)
		return err
	})
	if errors.Is(err, ErrNotFound) {
		if _, verr := s.verify(ctx, in.Password, s.dummy); verr != nil {
			return nil, s.hashError(ctx, "login", verr)
		}
		s.log.WithContext(ctx).Debug("Login rejected", logger.Fields(logger.FieldReason, "unknown_email"))
		return nil, apperrors.InvalidCredentials()
	}
	if err != nil {
		return nil, s.internal(ctx, "login", err)
	}

	ok, err := s.verify(ctx, in.Password, acct.PasswordHash)
	if err != nil {
		return nil, s.hashError(ctx, "login", err)
	}
	if !ok {
		s.log.WithContext(ctx).Debug("Login rejected", logger.Fields(logger.FieldReason, "password_mismatch"))
		return nil, apperrors.InvalidCredentials()
	}
	if !acct.IsActive() {
		s.log.WithContext(ctx).Info("Login rejected", logger.Fields(
			logger.FieldReason, "account_"+string(acct.AccountStatus),
			logger.FieldUserID, acct.UserID,
		))
		return nil, apperrors.InvalidCredentials()
	}

	tok, err := s.tokens.Issue(acct.UserID, acct.Username)
	if err != nil {
		return nil, s.internal(ctx, "login", err)
	}
	observability.SetSpanAttribute(ctx, observability.AttrUserID, acct.UserID)
	return &AuthResult{Token: tok, Account: acct}, nil
}

// Get returns the account with userID.
func (s *Service) Get(ctx context.Context, userID string) (acct *Account, err error) {
	oc := observability.NewOperationContext("account", "get", s.metrics)
	ctx, span := oc.Start(ctx)
	defer func() { oc.End(ctx, span, outcome(err), err) }()

	if err := validation.Check().UUID("userId", userID).Err(); err != nil {
		return nil, err
	}
	return s.find(ctx, "get", userID)
}

// Update applies a partial update on behalf of caller, who must own the account.
func (s *Service) Update(ctx context.Context, caller authctx.Identity, userID string, in UpdateInput) (acct *Account, err error) {
	oc := observability.NewOperationContext("account", "update", s.metrics)
	ctx, span := oc.Start(ctx)
	defer func() { oc.End(ctx, span, outcome(err), err) }()

	if err := authorizeOwner(caller, userID); err != nil {
		return nil, err
	}
	acct, err = s.find(ctx, "update", userID)
	if err != nil {
		return nil, err
	}

	if in.Username != nil {
		acct.Username = *in.Username
	}
	if in.EmailID != nil {
		acct.EmailID = NormalizeEmail(*in.EmailID)
	}
	if in.FullName != nil {
		acct.FullName = *in.FullName
	}
	if in.Bio != nil {
		acct.Bio = *in.Bio
	}
	if !isNullJSON(in.Preferences) {
		prefs, err := s.preferences(in.Preferences)
		if err != nil {
			return nil, err
		}
		acct.Preferences = prefs
	}
	if in.Password != nil {
		digest, err := s.hash(ctx, *in.Password)
		if err != nil {
			return nil, s.hashError(ctx, "update", err)
		}
		acct.PasswordHash = digest
	}

	err = s.call(ctx, func(ctx context.Context) error { return s.dir.Update(ctx, acct) })
	switch {
	case errors.Is(err, ErrConflict):
		return nil, errConflict()
	case errors.Is(err, ErrNotFound):
		return nil, apperrors.NotFound("User", userID)
	case err != nil:
		return nil, s.internal(ctx, "update", err)
	}

	s.log.WithContext(ctx).Info("Account updated", logger.Fields(logger.FieldUserID, userID))
	return acct, nil
}

// Delete removes the account on behalf of caller, who must own it.
func (s *Service) Delete(ctx context.Context, caller authctx.Identity, userID string) (err error) {
	oc := observability.NewOperationContext("account", "delete", s.metrics)
	ctx, span := oc.Start(ctx)
	defer func() { oc.End(ctx, span, outcome(err), err) }()

	if err := authorizeOwner(caller, userID); err != nil {
		return err
	}
	err = s.call(ctx, func(ctx context.Context) error { return s.dir.Delete(ctx, userID) })
	switch {
	case errors.Is(err, ErrNotFound):
		return apperrors.NotFound("User", userID)
	case err != nil:
		return s.internal(ctx, "delete", err)
	}

	s.log.WithContext(ctx).Info("Account deleted", logger.Fields(logger.FieldUserID, userID))
	return nil
}

func (s *Service) find(ctx context.Context, op, userID string) (*Account, error) {
	var acct *Account
	err := s.call(ctx, func(ctx context.Context) (err error) {
		acct, err = s.dir.FindByID(ctx, userID)
		return err
	})
	switch {
	case errors.Is(err, ErrNotFound):
		return nil, apperrors.NotFound("User", userID)
	case err != nil:
		return nil, s.internal(ctx, op, err)
	}
	return acct, nil
}

// call runs fn under the directory timeout.
func (s *Service) call(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return fn(ctx)
}

func (s *Service) hash(ctx context.Context, plaintext string) (string, error) {
	return resilience.ExecuteWithResult(s.pool, ctx, func() (string, error) {
		return s.hasher.Hash(plaintext)
	})
}

func (s *Service) verify(ctx context.Context, plaintext, digest string) (bool, error) {
	return resilience.ExecuteWithResult(s.pool, ctx, func() (bool, error) {
		return s.hasher.Verify(plaintext, digest), nil
	})
}

func (s *Service) hashError(ctx context.Context, op string, err error) error {
	switch {
	case resilience.IsRejection(err):
		s.log.WithContext(ctx).Warn("Password hashing pool saturated", logger.Fields(logger.FieldOperation, op))
		return apperrors.ServiceUnavailable("password hasher")
	case errors.Is(err, password.ErrEmptyPassword):
		return validation.Check().Fail("password", "is required").Err()
	case errors.Is(err, password.ErrPasswordTooLong):
		return validation.Check().Fail("password", fmt.Sprintf("must be at most %d bytes", password.MaxBcryptLength)).Err()
	default:
		return s.internal(ctx, op, err)
	}
}

func (s *Service) internal(ctx context.Context, op string, err error) error {
	s.log.WithContext(ctx).Error("Account operation failed", logger.ErrorFields(op, err))
	return apperrors.Internal(err)
}

func (s *Service) preferences(raw json.RawMessage) (string, error) {
	if isNullJSON(raw) {
		return "", nil
	}
	trimmed := bytes.TrimSpace(raw)
	err := validation.Check().
		JSON("preferences", trimmed).
		MaxBytes("preferences", len(trimmed), s.maxPrefs).
		Err()
	if err != nil {
		return "", err
	}
	return string(trimmed), nil
}

func authorizeOwner(caller authctx.Identity, userID string) error {
	if err := validation.Check().UUID("userId", userID).Err(); err != nil {
		return err
	}
	if caller.UserID != userID {
		return apperrors.Forbidden("You can only modify your own account.")
	}
	return nil
}

func isNullJSON(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func errConflict() error {
	return apperrors.AlreadyExists("Username or email already exists.")
}

// outcome is the status label recorded on spans and metrics.
func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if appErr, ok := apperrors.AsAppError(err); ok {
		return strings.ToLower(string(appErr.Code))
	}
	return "error"
}
