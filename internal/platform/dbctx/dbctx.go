package dbctx

import (
	"context"

	"gorm.io/gorm"
)

// Context carries the request context and, when set, the transaction a repo
// call must join. A nil Tx means "use the repo's own handle".
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}

func New(ctx context.Context) Context { return Context{Ctx: ctx} }

func (c Context) WithTx(tx *gorm.DB) Context {
	c.Tx = tx
	return c
}

func (c Context) Context() context.Context {
	if c.Ctx == nil {
		return context.Background()
	}
	return c.Ctx
}
