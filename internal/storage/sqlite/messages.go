package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sandevgo/chatlens/internal/core"
	"github.com/sandevgo/chatlens/pkg/log"
)

// Journal persists accepted messages in insertion order (seq) so the
// in-memory buffers can be rebuilt with the same FIFO semantics.
type Journal struct {
	db *sql.DB
}

func NewJournal(db *sql.DB) *Journal {
	return &Journal{db: db}
}

func (j *Journal) Append(ctx context.Context, chatID string, msg core.Message) error {
	query := `INSERT OR IGNORE INTO messages (chat_id, message_id, sender, text, reply_to, ts) VALUES (?, ?, ?, ?, ?, ?)`
	if _, err := j.db.ExecContext(ctx, query, chatID, msg.ID, msg.Sender, msg.Text, msg.ReplyTo, msg.Timestamp); err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

// Trim keeps only the newest keep rows of a chat.
func (j *Journal) Trim(ctx context.Context, chatID string, keep int) error {
	query := `
		DELETE FROM messages
		WHERE chat_id = ?
		  AND seq NOT IN (
		      SELECT seq FROM messages WHERE chat_id = ? ORDER BY seq DESC LIMIT ?
		  )`
	if _, err := j.db.ExecContext(ctx, query, chatID, chatID, keep); err != nil {
		return fmt.Errorf("failed to trim messages: %w", err)
	}
	return nil
}

func (j *Journal) PurgeBefore(ctx context.Context, cutoff int64) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE ts < ?`, cutoff)
	if err != nil {
		return fmt.Errorf("failed to purge messages: %w", err)
	}

	// conversations with no messages left are forgotten as well
	_, err = tx.ExecContext(ctx, `DELETE FROM conversations WHERE chat_id NOT IN (SELECT DISTINCT chat_id FROM messages)`)
	if err != nil {
		return fmt.Errorf("failed to purge conversations: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	n, _ := res.RowsAffected()
	log.FromCtx(ctx).Debug().Int64("rows", n).Msg("purged journal")
	return nil
}

// Load returns up to perChat newest messages per chat, oldest first.
func (j *Journal) Load(ctx context.Context, perChat int) (map[string][]core.Message, error) {
	query := `
		SELECT chat_id, message_id, sender, text, reply_to, ts
		FROM (
		    SELECT *, ROW_NUMBER() OVER (PARTITION BY chat_id ORDER BY seq DESC) AS rn
		    FROM messages
		)
		WHERE rn <= ?
		ORDER BY chat_id, seq`

	rows, err := j.db.QueryContext(ctx, query, perChat)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]core.Message)
	for rows.Next() {
		var m core.Message
		if err := rows.Scan(&m.ChatID, &m.ID, &m.Sender, &m.Text, &m.ReplyTo, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		out[m.ChatID] = append(out[m.ChatID], m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	log.FromCtx(ctx).Debug().Int("chats", len(out)).Msg("loaded journal")
	return out, nil
}
