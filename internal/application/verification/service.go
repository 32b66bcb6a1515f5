package verification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/guild-verify-api/internal/domain"
	"github.com/guild-verify-api/internal/metrics"
	"github.com/guild-verify-api/internal/pkg/code"
	"github.com/guild-verify-api/internal/pkg/emailaddr"
	"github.com/guild-verify-api/internal/pkg/id"
)

// Fixed policy constants. Deliberately not per-tenant configurable.
const (
	CooldownSeconds       = 60
	GlobalCooldownSeconds = 300
	CodeTTL               = 15 * time.Minute
	MaxAttempts           = 3
)

const defaultVerifiedMessage = "You are verified. Welcome!"

// StartStatus is the terminal state of a StartVerification call.
type StartStatus string

const (
	StartCodeSent         StartStatus = "code_sent"
	StartAlreadyVerified  StartStatus = "already_verified"
	StartNotConfigured    StartStatus = "not_configured"
	StartDomainNotAllowed StartStatus = "domain_not_allowed"
	StartRateLimited      StartStatus = "rate_limited"
	StartSendRefused      StartStatus = "send_refused"
)

// SubmitStatus is the terminal state of a SubmitCode call.
type SubmitStatus string

const (
	SubmitVerified      SubmitStatus = "verified"
	SubmitInvalidFormat SubmitStatus = "invalid_format"
	SubmitNoSession     SubmitStatus = "no_session"
	SubmitExpired       SubmitStatus = "expired"
	SubmitMismatch      SubmitStatus = "mismatch"
	SubmitLocked        SubmitStatus = "locked"
	SubmitNotConfigured SubmitStatus = "not_configured"
	SubmitGrantFailed   SubmitStatus = "grant_failed"
)

// StartResult is the business outcome of StartVerification. Rejections are
// values, not errors; the error return is reserved for dependency failures.
type StartResult struct {
	Status            StartStatus `json:"status"`
	Message           string      `json:"message"`
	RetryAfterSeconds int64       `json:"retry_after_seconds,omitempty"`
	AllowedDomains    []string    `json:"allowed_domains,omitempty"`
}

// SubmitResult is the business outcome of SubmitCode.
type SubmitResult struct {
	Status            SubmitStatus `json:"status"`
	Message           string       `json:"message"`
	AttemptsRemaining int          `json:"attempts_remaining,omitempty"`
}

// SessionStore is the session state machine's persistence layer.
type SessionStore interface {
	CreateOrReplace(ctx context.Context, s *domain.VerificationSession) error
	Get(ctx context.Context, tenantID, userID string) (*domain.VerificationSession, error)
	IncrementAttempts(ctx context.Context, tenantID, userID string) (int, error)
	Delete(ctx context.Context, tenantID, userID string) error
}

// TenantConfigSource yields a tenant's verification policy. Implemented by
// the cached tenantcfg service.
type TenantConfigSource interface {
	Get(ctx context.Context, tenantID string) (*domain.TenantConfig, error)
}

// RecordStore is the permanent audit log.
type RecordStore interface {
	Append(ctx context.Context, rec *domain.VerificationRecord) error
	ExistsFor(ctx context.Context, tenantID, userID string) (bool, error)
}

// CooldownStore holds the tenant-agnostic per-user rate-limit markers.
type CooldownStore interface {
	Put(ctx context.Context, c *domain.UserCooldown) error
	Get(ctx context.Context, userID string) (*domain.UserCooldown, error)
}

// SuppressionChecker answers whether an address is on the bounce deny-list.
type SuppressionChecker interface {
	IsSuppressed(ctx context.Context, email string) (bool, error)
}

// CodeMailer dispatches the one-time code.
type CodeMailer interface {
	SendCode(to, code, customMessage string) error
}

// Granter assigns the verified role and posts channel notices.
type Granter interface {
	GrantRole(ctx context.Context, guildID, userID, roleID string) error
	Announce(ctx context.Context, channelID, message string) error
}

// EventPublisher fans out completion events. Optional.
type EventPublisher interface {
	PublishVerified(ctx context.Context, tenantID, userID string) error
}

type Service interface {
	StartVerification(ctx context.Context, tenantID, userID, email string) (*StartResult, error)
	SubmitCode(ctx context.Context, tenantID, userID, submitted string) (*SubmitResult, error)
}

// ServiceDeps lists everything the engine needs. Events may be nil.
type ServiceDeps struct {
	Sessions     SessionStore
	Tenants      TenantConfigSource
	Records      RecordStore
	Cooldowns    CooldownStore
	Suppressions SuppressionChecker
	Mailer       CodeMailer
	Granter      Granter
	Events       EventPublisher
}

type service struct {
	deps ServiceDeps
}

func NewService(deps ServiceDeps) Service {
	return &service{deps: deps}
}

func (s *service) StartVerification(ctx context.Context, tenantID, userID, email string) (*StartResult, error) {
	exists, err := s.deps.Records.ExistsFor(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	if exists {
		metrics.StartsTotal.WithLabelValues(string(StartAlreadyVerified)).Inc()
		return &StartResult{
			Status:  StartAlreadyVerified,
			Message: "You are already verified in this server.",
		}, nil
	}

	cfg, err := s.deps.Tenants.Get(ctx, tenantID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			metrics.StartsTotal.WithLabelValues(string(StartNotConfigured)).Inc()
			return &StartResult{
				Status:  StartNotConfigured,
				Message: "This server has not set up email verification yet.",
			}, nil
		}
		return nil, err
	}

	emailDomain := emailaddr.Domain(email)
	if emailDomain == "" || !domainAllowed(cfg.AllowedDomains, emailDomain) {
		metrics.StartsTotal.WithLabelValues(string(StartDomainNotAllowed)).Inc()
		return &StartResult{
			Status:         StartDomainNotAllowed,
			Message:        "Use an email address from: " + strings.Join(cfg.AllowedDomains, ", "),
			AllowedDomains: cfg.AllowedDomains,
		}, nil
	}

	now := time.Now()

	// Per-tenant cool-down: the existing session doubles as the ledger.
	// Checked before the global cool-down; a rejection here skips it.
	prev, err := s.deps.Sessions.Get(ctx, tenantID, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if prev != nil {
		if remaining := CooldownSeconds - (now.Unix() - prev.CreatedAt); remaining > 0 {
			metrics.StartsTotal.WithLabelValues(string(StartRateLimited)).Inc()
			return rateLimited(remaining), nil
		}
	}

	cd, err := s.deps.Cooldowns.Get(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if cd != nil {
		if remaining := GlobalCooldownSeconds - (now.Unix() - cd.CreatedAt); remaining > 0 {
			metrics.StartsTotal.WithLabelValues(string(StartRateLimited)).Inc()
			return rateLimited(remaining), nil
		}
	}

	// Deny-listed addresses are refused before any session is written, so
	// they never occupy a cool-down slot.
	suppressed, err := s.deps.Suppressions.IsSuppressed(ctx, email)
	if err != nil {
		return nil, err
	}
	if suppressed {
		slog.Info("start refused for suppressed address",
			"tenant_id", tenantID, "user_id", userID, "email", emailaddr.Redact(email))
		metrics.StartsTotal.WithLabelValues(string(StartSendRefused)).Inc()
		return &StartResult{
			Status:  StartSendRefused,
			Message: "We are unable to send mail to that address.",
		}, nil
	}

	sess := &domain.VerificationSession{
		TenantID:  tenantID,
		UserID:    userID,
		Code:      code.Generate(),
		Email:     email,
		CreatedAt: now.Unix(),
		ExpiresAt: now.Add(CodeTTL).Unix(),
	}
	if err := s.deps.Sessions.CreateOrReplace(ctx, sess); err != nil {
		return nil, err
	}

	welcome := ""
	if cfg.WelcomeMessage != nil {
		welcome = *cfg.WelcomeMessage
	}
	if err := s.deps.Mailer.SendCode(email, sess.Code, welcome); err != nil {
		// The user can never learn this code, so the session must not survive
		// to hold the cool-down slot.
		if delErr := s.deps.Sessions.Delete(ctx, tenantID, userID); delErr != nil {
			slog.Error("failed to delete undeliverable session",
				"tenant_id", tenantID, "user_id", userID, "err", delErr)
		}
		return nil, fmt.Errorf("send code to %s: %w", emailaddr.Redact(email), err)
	}

	if err := s.deps.Cooldowns.Put(ctx, &domain.UserCooldown{
		UserID:    userID,
		CreatedAt: now.Unix(),
		ExpiresAt: now.Unix() + GlobalCooldownSeconds,
	}); err != nil {
		// The per-tenant cool-down still holds; log and move on.
		slog.Warn("failed to write global cooldown", "user_id", userID, "err", err)
	}

	metrics.StartsTotal.WithLabelValues(string(StartCodeSent)).Inc()
	metrics.CodesSentTotal.Inc()
	slog.Info("verification code sent",
		"tenant_id", tenantID, "user_id", userID, "email", emailaddr.Redact(email))
	return &StartResult{
		Status:  StartCodeSent,
		Message: "Check your inbox for a 6-digit code.",
	}, nil
}

func (s *service) SubmitCode(ctx context.Context, tenantID, userID, submitted string) (*SubmitResult, error) {
	if !code.Valid(submitted) {
		// Malformed input never consumes an attempt.
		return &SubmitResult{
			Status:  SubmitInvalidFormat,
			Message: "The verification code is a 6-digit number.",
		}, nil
	}

	sess, err := s.deps.Sessions.Get(ctx, tenantID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			metrics.SubmitsTotal.WithLabelValues(string(SubmitNoSession)).Inc()
			return &SubmitResult{
				Status:  SubmitNoSession,
				Message: "No verification in progress. Start over to get a new code.",
			}, nil
		}
		return nil, err
	}

	now := time.Now()
	// Expiry wins over everything, including a correct code. The store's TTL
	// sweep is lazy, so the comparison happens here.
	if now.Unix() > sess.ExpiresAt {
		if err := s.deps.Sessions.Delete(ctx, tenantID, userID); err != nil {
			slog.Error("failed to delete expired session",
				"tenant_id", tenantID, "user_id", userID, "err", err)
		}
		metrics.SubmitsTotal.WithLabelValues(string(SubmitExpired)).Inc()
		return &SubmitResult{
			Status:  SubmitExpired,
			Message: "That code has expired. Start over to get a new one.",
		}, nil
	}

	if submitted != sess.Code {
		count, err := s.deps.Sessions.IncrementAttempts(ctx, tenantID, userID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// A concurrent submit consumed the session first.
				metrics.SubmitsTotal.WithLabelValues(string(SubmitNoSession)).Inc()
				return &SubmitResult{
					Status:  SubmitNoSession,
					Message: "No verification in progress. Start over to get a new code.",
				}, nil
			}
			return nil, err
		}
		if count > MaxAttempts {
			slog.Error("attempt counter exceeded maximum, deleting session",
				"tenant_id", tenantID, "user_id", userID, "attempts", count)
		}
		if count >= MaxAttempts {
			if err := s.deps.Sessions.Delete(ctx, tenantID, userID); err != nil {
				slog.Error("failed to delete locked session",
					"tenant_id", tenantID, "user_id", userID, "err", err)
			}
			metrics.SubmitsTotal.WithLabelValues(string(SubmitLocked)).Inc()
			return &SubmitResult{
				Status:  SubmitLocked,
				Message: "Too many wrong codes. Start over to get a new one.",
			}, nil
		}
		metrics.SubmitsTotal.WithLabelValues(string(SubmitMismatch)).Inc()
		remaining := MaxAttempts - count
		return &SubmitResult{
			Status:            SubmitMismatch,
			Message:           fmt.Sprintf("Wrong code. %d attempt(s) remaining.", remaining),
			AttemptsRemaining: remaining,
		}, nil
	}

	cfg, err := s.deps.Tenants.Get(ctx, tenantID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// The tenant deconfigured mid-flight; there is no role to grant.
			metrics.SubmitsTotal.WithLabelValues(string(SubmitNotConfigured)).Inc()
			return &SubmitResult{
				Status:  SubmitNotConfigured,
				Message: "This server is no longer set up for verification. Contact an admin.",
			}, nil
		}
		return nil, err
	}

	// The grant is the user-visible promise, so it goes first. On failure the
	// session survives: the user retries with the same code, no new email.
	if err := s.deps.Granter.GrantRole(ctx, tenantID, userID, cfg.RoleID); err != nil {
		slog.Error("role grant failed after correct code",
			"tenant_id", tenantID, "user_id", userID, "err", err)
		metrics.GrantFailuresTotal.Inc()
		metrics.SubmitsTotal.WithLabelValues(string(SubmitGrantFailed)).Inc()
		return &SubmitResult{
			Status:  SubmitGrantFailed,
			Message: "Your email is verified but the role assignment failed. Contact an admin.",
		}, nil
	}

	if err := s.deps.Sessions.Delete(ctx, tenantID, userID); err != nil {
		slog.Error("failed to delete session after grant",
			"tenant_id", tenantID, "user_id", userID, "err", err)
	}

	rec := &domain.VerificationRecord{
		RecordID:   id.New(),
		TenantID:   tenantID,
		UserID:     userID,
		TenantUser: domain.TenantUserKey(tenantID, userID),
		Email:      sess.Email,
		CreatedAt:  now.UnixMilli(),
	}
	if err := s.deps.Records.Append(ctx, rec); err != nil {
		// The role is already granted. Losing the audit record here is the
		// accepted at-least-once gap; it is logged, never surfaced.
		slog.Error("record append failed after grant",
			"tenant_id", tenantID, "user_id", userID, "err", err)
	}

	if s.deps.Events != nil {
		if err := s.deps.Events.PublishVerified(ctx, tenantID, userID); err != nil {
			slog.Warn("failed to publish verification event",
				"tenant_id", tenantID, "user_id", userID, "err", err)
		}
	}

	verifiedMsg := defaultVerifiedMessage
	if cfg.VerifiedMessage != nil {
		verifiedMsg = *cfg.VerifiedMessage
	}
	if cfg.ChannelID != "" {
		if err := s.deps.Granter.Announce(ctx, cfg.ChannelID, fmt.Sprintf("<@%s> just verified their email.", userID)); err != nil {
			slog.Warn("failed to announce verification",
				"tenant_id", tenantID, "channel_id", cfg.ChannelID, "err", err)
		}
	}

	metrics.SubmitsTotal.WithLabelValues(string(SubmitVerified)).Inc()
	slog.Info("verification completed",
		"tenant_id", tenantID, "user_id", userID, "email", emailaddr.Redact(sess.Email))
	return &SubmitResult{Status: SubmitVerified, Message: verifiedMsg}, nil
}

func rateLimited(remaining int64) *StartResult {
	return &StartResult{
		Status:            StartRateLimited,
		Message:           fmt.Sprintf("Please wait %d seconds before requesting another code.", remaining),
		RetryAfterSeconds: remaining,
	}
}

func domainAllowed(allowed []string, emailDomain string) bool {
	for _, d := range allowed {
		if d == emailDomain {
			return true
		}
	}
	return false
}
