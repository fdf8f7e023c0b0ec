// Package authctx carries the authenticated identity through a request's
// context. The identity is always the live user record resolved by the
// authentication middleware, never the raw token claims.
package authctx

import (
	"context"
	"userpanel/internal/domain/model"
)

type ctxKey string

const userKey ctxKey = "current_user"

func WithUser(ctx context.Context, u *model.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

func User(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(userKey).(*model.User)
	return u, ok
}
