package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"

	appctx "sieve/internal/core/context"
	"sieve/internal/core/id"
)

// CompressionAlgo specifies the compression algorithm used for a record.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// QueryAuditEntry records one resolved filter set applied on behalf of a
// caller. Filters are stored as JSON descriptors, compressed when large.
type QueryAuditEntry struct {
	ID                id.ID           `db:"id"`
	Resource          string          `db:"resource"`
	UserID            string          `db:"user_id"`
	TenantID          string          `db:"tenant_id"`
	Filters           json.RawMessage `db:"filters"`
	FiltersCompressed []byte          `db:"filters_compressed"`
	CompressionAlgo   CompressionAlgo `db:"compression_algo"`
	RowCount          int64           `db:"row_count"`
	CreatedAt         time.Time       `db:"created_at"`
}

// QueryAudit writes query audit records.
type QueryAudit struct {
	pool              *Pool
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int // bytes
}

// NewQueryAudit creates the audit writer.
func NewQueryAudit(pool *Pool) (*QueryAudit, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &QueryAudit{
		pool:              pool,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: 10 * 1024,
	}, nil
}

// Record stores one applied filter set. Best-effort from the caller's
// perspective: handlers log and continue when this fails.
func (a *QueryAudit) Record(ctx context.Context, resource string, filters map[string]any, rowCount int64) error {
	payload, err := json.Marshal(filters)
	if err != nil {
		return fmt.Errorf("marshal filters: %w", err)
	}

	entry := QueryAuditEntry{
		ID:              id.New(),
		Resource:        resource,
		Filters:         payload,
		CompressionAlgo: CompressionNone,
		RowCount:        rowCount,
		CreatedAt:       time.Now().UTC(),
	}

	if user := appctx.GetUser(ctx); user != nil {
		entry.UserID = user.UserID
		entry.TenantID = user.TenantID
	}

	if len(entry.Filters) > a.compressThreshold {
		entry.FiltersCompressed = a.encoder.EncodeAll(entry.Filters, nil)
		entry.Filters = nil
		entry.CompressionAlgo = CompressionZstd
	}

	sql := `
		INSERT INTO sieve_query_audit (
			id, resource, user_id, tenant_id,
			filters, filters_compressed, compression_algo,
			row_count, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = a.pool.Exec(ctx, sql,
		entry.ID, entry.Resource, entry.UserID, entry.TenantID,
		entry.Filters, entry.FiltersCompressed, entry.CompressionAlgo,
		entry.RowCount, entry.CreatedAt,
	)
	return err
}

// History retrieves recent audit records for a resource.
func (a *QueryAudit) History(ctx context.Context, resource string, limit int) ([]QueryAuditEntry, error) {
	sql := `
		SELECT id, resource, user_id, tenant_id,
			   filters, filters_compressed, compression_algo,
			   row_count, created_at
		FROM sieve_query_audit
		WHERE resource = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := a.pool.Query(ctx, sql, resource, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit history: %w", err)
	}
	defer rows.Close()

	var entries []QueryAuditEntry
	for rows.Next() {
		var e QueryAuditEntry
		err := rows.Scan(
			&e.ID, &e.Resource, &e.UserID, &e.TenantID,
			&e.Filters, &e.FiltersCompressed, &e.CompressionAlgo,
			&e.RowCount, &e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}

		if e.CompressionAlgo == CompressionZstd && len(e.FiltersCompressed) > 0 {
			decompressed, err := a.decoder.DecodeAll(e.FiltersCompressed, nil)
			if err != nil {
				return nil, fmt.Errorf("decompress filters: %w", err)
			}
			e.Filters = decompressed
			e.FiltersCompressed = nil
			e.CompressionAlgo = CompressionNone
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
