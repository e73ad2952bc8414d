package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

type Repository interface {
	CreateBatch(ctx context.Context, batch *Batch) error
	GetBatch(ctx context.Context, id string) (*Batch, error)
	ListBatches(ctx context.Context, limit int) ([]*Batch, error)
	ListPendingBatches(ctx context.Context) ([]*Batch, error)
	UpdateBatchStatus(ctx context.Context, id, status, errorMsg string) error
	UpdateBatchOutput(ctx context.Context, id, shot, outputDir string) error
	UpdateBatchCounts(ctx context.Context, id string, succeeded, failed int) error

	CreateClip(ctx context.Context, clip *Clip) error
	GetClip(ctx context.Context, id string) (*Clip, error)
	GetClipByPath(ctx context.Context, path string) (*Clip, error)
	ListClipsByBatch(ctx context.Context, batchID string) ([]*Clip, error)
	UpdateClipPresent(ctx context.Context, id string, present bool) error
	CountClips(ctx context.Context) (int, error)

	GetConfig(ctx context.Context, key string) (string, error)
	SetConfig(ctx context.Context, key, value string) error
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) CreateBatch(ctx context.Context, b *Batch) error {
	cameras, err := json.Marshal(b.Cameras)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO batches (id, status, root_path, shot, output_dir, cameras, succeeded, failed,
			frame_start, frame_end, frame_rate, error, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, b.ID, b.Status, b.RootPath, b.Shot, b.OutputDir, string(cameras), b.Succeeded, b.Failed,
		b.FrameStart, b.FrameEnd, b.FrameRate, nullString(b.Error),
		b.CreatedAt.Format(time.RFC3339), b.UpdatedAt.Format(time.RFC3339))
	return err
}

const batchColumns = `id, status, root_path, shot, output_dir, cameras, succeeded, failed,
	frame_start, frame_end, frame_rate, error, created_at, updated_at`

func (r *SQLiteRepository) GetBatch(ctx context.Context, id string) (*Batch, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+batchColumns+` FROM batches WHERE id = ?
	`, id)
	return scanBatchRow(row.Scan)
}

func (r *SQLiteRepository) ListBatches(ctx context.Context, limit int) ([]*Batch, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+batchColumns+` FROM batches ORDER BY created_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanBatches(rows)
}

func (r *SQLiteRepository) ListPendingBatches(ctx context.Context) ([]*Batch, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+batchColumns+` FROM batches WHERE status = 'pending' ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanBatches(rows)
}

func scanBatches(rows *sql.Rows) ([]*Batch, error) {
	var batches []*Batch
	for rows.Next() {
		b, err := scanBatchRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		batches = append(batches, b)
	}
	return batches, rows.Err()
}

func scanBatchRow(scan func(dest ...any) error) (*Batch, error) {
	var b Batch
	var cameras string
	var errMsg sql.NullString
	var createdAt, updatedAt string

	err := scan(&b.ID, &b.Status, &b.RootPath, &b.Shot, &b.OutputDir, &cameras,
		&b.Succeeded, &b.Failed, &b.FrameStart, &b.FrameEnd, &b.FrameRate,
		&errMsg, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(cameras), &b.Cameras); err != nil {
		return nil, err
	}
	b.Error = errMsg.String
	b.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	b.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &b, nil
}

func (r *SQLiteRepository) UpdateBatchStatus(ctx context.Context, id, status, errorMsg string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE batches SET status = ?, error = ?, updated_at = ? WHERE id = ?
	`, status, nullString(errorMsg), time.Now().Format(time.RFC3339), id)
	return err
}

func (r *SQLiteRepository) UpdateBatchOutput(ctx context.Context, id, shot, outputDir string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE batches SET shot = ?, output_dir = ?, updated_at = ? WHERE id = ?
	`, shot, outputDir, time.Now().Format(time.RFC3339), id)
	return err
}

func (r *SQLiteRepository) UpdateBatchCounts(ctx context.Context, id string, succeeded, failed int) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE batches SET succeeded = ?, failed = ?, updated_at = ? WHERE id = ?
	`, succeeded, failed, time.Now().Format(time.RFC3339), id)
	return err
}

func (r *SQLiteRepository) CreateClip(ctx context.Context, c *Clip) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO clips (id, batch_id, position, camera, display_name, path, ok, error, present, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.BatchID, c.Position, c.Camera, c.DisplayName, c.Path,
		boolToInt(c.OK), nullString(c.Error), boolToInt(c.Present),
		c.CreatedAt.Format(time.RFC3339))
	return err
}

const clipColumns = `id, batch_id, position, camera, display_name, path, ok, error, present, created_at`

func (r *SQLiteRepository) GetClip(ctx context.Context, id string) (*Clip, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+clipColumns+` FROM clips WHERE id = ?
	`, id)
	return scanClipRow(row.Scan)
}

func (r *SQLiteRepository) GetClipByPath(ctx context.Context, path string) (*Clip, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+clipColumns+` FROM clips WHERE path = ? ORDER BY created_at DESC LIMIT 1
	`, path)
	return scanClipRow(row.Scan)
}

func (r *SQLiteRepository) ListClipsByBatch(ctx context.Context, batchID string) ([]*Clip, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+clipColumns+` FROM clips WHERE batch_id = ? ORDER BY position ASC
	`, batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clips []*Clip
	for rows.Next() {
		c, err := scanClipRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		clips = append(clips, c)
	}
	return clips, rows.Err()
}

func scanClipRow(scan func(dest ...any) error) (*Clip, error) {
	var c Clip
	var ok, present int
	var errMsg sql.NullString
	var createdAt string

	err := scan(&c.ID, &c.BatchID, &c.Position, &c.Camera, &c.DisplayName, &c.Path,
		&ok, &errMsg, &present, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	c.OK = ok == 1
	c.Present = present == 1
	c.Error = errMsg.String
	c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &c, nil
}

func (r *SQLiteRepository) UpdateClipPresent(ctx context.Context, id string, present bool) error {
	_, err := r.db.ExecContext(ctx, "UPDATE clips SET present = ? WHERE id = ?", boolToInt(present), id)
	return err
}

func (r *SQLiteRepository) CountClips(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM clips").Scan(&count)
	return count, err
}

func (r *SQLiteRepository) GetConfig(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, "SELECT value FROM config WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

func (r *SQLiteRepository) SetConfig(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
