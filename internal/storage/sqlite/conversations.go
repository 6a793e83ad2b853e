package sqlite

import (
	"context"
	"fmt"

	"github.com/sandevgo/chatlens/internal/core"
)

func (j *Journal) SaveContext(ctx context.Context, cc core.ConversationContext) error {
	query := `
		INSERT INTO conversations (chat_id, platform, title, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (chat_id) DO UPDATE SET
		    platform = excluded.platform,
		    title = excluded.title,
		    updated_at = CURRENT_TIMESTAMP`
	if _, err := j.db.ExecContext(ctx, query, cc.ChatID, string(cc.Platform), cc.Title); err != nil {
		return fmt.Errorf("failed to save conversation: %w", err)
	}
	return nil
}

// LoadContexts returns known conversations, most recently updated last.
func (j *Journal) LoadContexts(ctx context.Context) ([]core.ConversationContext, error) {
	rows, err := j.db.QueryContext(ctx, `SELECT chat_id, platform, title FROM conversations ORDER BY updated_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversations: %w", err)
	}
	defer rows.Close()

	var out []core.ConversationContext
	for rows.Next() {
		var cc core.ConversationContext
		var platform string
		if err := rows.Scan(&cc.ChatID, &platform, &cc.Title); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		cc.Platform = core.Platform(platform)
		out = append(out, cc)
	}
	return out, rows.Err()
}
