package model

import (
	"time"
)

// Audited action kinds. Free-form values are accepted by the log but the
// application only emits these.
const (
	ActionRegister        = "register"
	ActionLoginSuccess    = "login_success"
	ActionLoginFailed     = "login_failed"
	ActionLogout          = "logout"
	ActionTokenRefresh    = "token_refresh"
	ActionCreateUserAdmin = "create_user_admin"
	ActionUpdateUserAdmin = "update_user_admin"
	ActionDeleteUserAdmin = "delete_user_admin"
	ActionStatsGlobal     = "stats_global"
	ActionStatsActivity   = "stats_activity"
	ActionStatsSignups    = "stats_signups"
	ActionEmailSent       = "email_sent"
)

// AuditRecord is an immutable append-only fact: who did what, when.
// ActorID is nil when the action has no resolvable actor (e.g. a failed
// login attempt).
type AuditRecord struct {
	ID        int64     `json:"id"`
	ActorID   *int64    `json:"actor_id"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"created_at"`

	// Actor is populated on reads when the actor row still exists. Its
	// hashed password never serializes.
	Actor *User `json:"actor,omitempty"`
}
