package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"highpitch/internal/filler"
	"highpitch/internal/logging"
)

// Session is one recorded practice with its filler word counts.
type Session struct {
	ID        string
	Title     string
	StartedAt time.Time
	// TotalFillers is the filler word total reported by the transcriber.
	// It is stored as given and may differ from the sum of Words.
	TotalFillers int
	// SPM is the measured pace in syllables per minute, 0 when unmeasured.
	SPM    float64
	Source string
	Words  []filler.FillerWordRecord
}

// Summary is a session row without its word counts.
type Summary struct {
	ID           string
	Title        string
	StartedAt    time.Time
	TotalFillers int
	SPM          float64
	Source       string
	WordTypes    int
}

// SaveSession inserts or replaces a session and its words. A missing ID is
// filled with a new UUID and a zero StartedAt with the current time.
func (s *Store) SaveSession(ctx context.Context, sess *Session) error {
	if sess == nil {
		return errors.New("store: nil session")
	}
	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	if sess.StartedAt.IsZero() {
		sess.StartedAt = time.Now()
	}
	if sess.TotalFillers < 0 {
		sess.TotalFillers = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save %s: %w", sess.ID, err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sessions (id, title, started_at, total_fillers, spm, source)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			started_at = excluded.started_at,
			total_fillers = excluded.total_fillers,
			spm = excluded.spm,
			source = excluded.source`,
		sess.ID, sess.Title, sess.StartedAt.UTC().Format(time.RFC3339Nano),
		sess.TotalFillers, sess.SPM, sess.Source)
	if err != nil {
		return fmt.Errorf("save session %s: %w", sess.ID, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM filler_words WHERE session_id = ?`, sess.ID); err != nil {
		return fmt.Errorf("clear words %s: %w", sess.ID, err)
	}

	// Duplicate words in the input are summed.
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO filler_words (session_id, word, count) VALUES (?, ?, ?)
		ON CONFLICT(session_id, word) DO UPDATE SET count = count + excluded.count`)
	if err != nil {
		return fmt.Errorf("prepare words %s: %w", sess.ID, err)
	}
	defer stmt.Close()

	for _, w := range sess.Words {
		count := w.Count
		if count < 0 {
			count = 0
		}
		if _, err := stmt.ExecContext(ctx, sess.ID, w.Word, count); err != nil {
			return fmt.Errorf("save word %q: %w", w.Word, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save %s: %w", sess.ID, err)
	}

	logging.Store("saved session %s (%d words, total=%d)", sess.ID, len(sess.Words), sess.TotalFillers)
	return nil
}

// GetSession loads a session and its words in display order.
func (s *Store) GetSession(ctx context.Context, id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, started_at, total_fillers, spm, source
		FROM sessions WHERE id = ?`, id)

	sess, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
		}
		return nil, fmt.Errorf("get session %s: %w", id, err)
	}

	words, err := s.fillerWordsLocked(ctx, id)
	if err != nil {
		return nil, err
	}
	sess.Words = words
	return sess, nil
}

// LatestSession returns the most recently started session.
func (s *Store) LatestSession(ctx context.Context) (*Session, error) {
	s.mu.RLock()
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM sessions ORDER BY started_at DESC, id DESC LIMIT 1`).Scan(&id)
	s.mu.RUnlock()

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("latest session: %w", err)
	}
	return s.GetSession(ctx, id)
}

// ListSessions returns up to limit sessions, newest first. limit <= 0
// returns all of them.
func (s *Store) ListSessions(ctx context.Context, limit int) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT s.id, s.title, s.started_at, s.total_fillers, s.spm, s.source,
			(SELECT COUNT(*) FROM filler_words w WHERE w.session_id = s.id AND w.count > 0)
		FROM sessions s
		ORDER BY s.started_at DESC, s.id DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sum Summary
		var started string
		if err := rows.Scan(&sum.ID, &sum.Title, &started, &sum.TotalFillers, &sum.SPM, &sum.Source, &sum.WordTypes); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sum.StartedAt = parseTime(started)
		out = append(out, sum)
	}
	return out, rows.Err()
}

// DeleteSession removes a session and its words.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return nil
}

// FillerWords returns a session's words ordered by count descending, then
// word, which is the rank order the chart expects.
func (s *Store) FillerWords(ctx context.Context, sessionID string) ([]filler.FillerWordRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fillerWordsLocked(ctx, sessionID)
}

func (s *Store) fillerWordsLocked(ctx context.Context, sessionID string) ([]filler.FillerWordRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT word, count FROM filler_words
		WHERE session_id = ?
		ORDER BY count DESC, word ASC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("filler words %s: %w", sessionID, err)
	}
	defer rows.Close()

	var out []filler.FillerWordRecord
	for rows.Next() {
		var r filler.FillerWordRecord
		if err := rows.Scan(&r.Word, &r.Count); err != nil {
			return nil, fmt.Errorf("scan filler word: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// RecordPace stores a pace measurement on an existing session.
func (s *Store) RecordPace(ctx context.Context, sessionID string, spm float64) error {
	if spm <= 0 {
		return fmt.Errorf("pace must be positive, got %v", spm)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `UPDATE sessions SET spm = ? WHERE id = ?`, spm, sessionID)
	if err != nil {
		return fmt.Errorf("record pace %s: %w", sessionID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return nil
}

// LatestPace returns the pace of the newest session that has one. ok is
// false when no session has been measured.
func (s *Store) LatestPace(ctx context.Context) (spm float64, ok bool, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	err = s.db.QueryRowContext(ctx, `
		SELECT spm FROM sessions WHERE spm > 0
		ORDER BY started_at DESC, id DESC LIMIT 1`).Scan(&spm)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("latest pace: %w", err)
	}
	return spm, true, nil
}

// CountSessions returns the number of stored sessions.
func (s *Store) CountSessions(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return n, nil
}

func scanSession(row *sql.Row) (*Session, error) {
	var sess Session
	var started string
	if err := row.Scan(&sess.ID, &sess.Title, &started, &sess.TotalFillers, &sess.SPM, &sess.Source); err != nil {
		return nil, err
	}
	sess.StartedAt = parseTime(started)
	return &sess, nil
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		logging.StoreDebug("unparseable started_at %q: %v", s, err)
		return time.Time{}
	}
	return t
}
