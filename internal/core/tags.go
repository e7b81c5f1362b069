package core

import "context"

// GetTags lists every tag name in use, sorted.
func (c *Core) GetTags(ctx context.Context) ([]string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	return c.models.Tags.Distinct(ctx, c.session.Executor())
}
