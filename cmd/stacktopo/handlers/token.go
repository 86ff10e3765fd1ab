package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/imamik/stacktopo/internal/util/logging"
)

// Token authenticates and prints the session token to stdout. The token is
// never logged.
func Token(ctx context.Context, opts LoadOptions) error {
	cfg, client, err := dial(ctx, opts)
	if err != nil {
		return err
	}

	session := client.Session()
	logging.FromContext(ctx).Info("Authenticated",
		"identity", cfg.ControlPlane.BaseURL(),
		"project", session.Project,
		"expires_at", session.ExpiresAt.Format(time.RFC3339))
	fmt.Fprintln(stdout, session.Token)
	return nil
}
