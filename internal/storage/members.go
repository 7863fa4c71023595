package storage

import (
	"context"
	"fmt"
)

// GetOrCreateMember finds or creates a member by Tailscale login name.
// Returns the member ID. Updates last_seen and display_name on each call.
func (db *DB) GetOrCreateMember(ctx context.Context, login, displayName string) (int, error) {
	var id int
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO members (login, display_name)
		VALUES ($1, $2)
		ON CONFLICT (login) DO UPDATE
			SET last_seen = NOW(), display_name = COALESCE(NULLIF($2, ''), members.display_name)
		RETURNING id
	`, login, displayName).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upserting member %s: %w", login, err)
	}
	return id, nil
}
