package client

import (
	"context"

	"github.com/dmitrijs2005/shutterpro/internal/client/models"
)

// Verify satisfies the session verifier contract by logging in against the
// server. A successful check leaves the client holding a bearer token, so
// the invoice dispatch endpoint works right after.
func (c *HTTPClient) Verify(ctx context.Context, email, plain string) (*models.UserRecord, error) {
	return c.Login(ctx, email, plain)
}
