package auth

import "context"

type claimsKey struct{}

// WithClaims кладёт проверенные утверждения токена в контекст.
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

// FromContext достаёт утверждения, положенные middleware.
func FromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*Claims)
	return c, ok && c != nil
}

// SubjectFromContext возвращает sub текущего пользователя или пустую строку.
func SubjectFromContext(ctx context.Context) string {
	if c, ok := FromContext(ctx); ok {
		return c.Subject
	}
	return ""
}
