// Package cachestore persists the last successfully fetched campaign and
// donation snapshots in a local SQLite database, so the client has data to
// show before the first refresh of a new session completes. It is a cache,
// never an authority: every write replaces the whole snapshot.
package cachestore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/avdeevd/fundkeeper/internal/client/cachestore/migrations"
	"github.com/avdeevd/fundkeeper/internal/client/models"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// Store is a snapshot store backed by SQLite.
type Store struct {
	db *sql.DB
}

// RunMigrations applies the embedded goose migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return goose.UpContext(ctx, db, ".")
}

// Open opens (creating if needed) the snapshot database at dsn and brings
// its schema up to date.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveCampaigns replaces the persisted campaign snapshot.
func (s *Store) SaveCampaigns(ctx context.Context, campaigns []models.Campaign) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `delete from campaigns`); err != nil {
		return fmt.Errorf("failed to clear campaigns: %w", err)
	}

	query := `insert into campaigns
		(id, title, description, target, collected, target_date, status, owner,
		 proof_name, proof_content_type, proof_total_chunks)
		values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for _, c := range campaigns {
		var proofName, proofType sql.NullString
		var proofChunks sql.NullInt64
		if c.Proof != nil {
			proofName = sql.NullString{String: c.Proof.Name, Valid: true}
			proofType = sql.NullString{String: c.Proof.ContentType, Valid: true}
			proofChunks = sql.NullInt64{Int64: int64(c.Proof.TotalChunks), Valid: true}
		}
		_, err := tx.ExecContext(ctx, query,
			c.ID, c.Title, c.Description, c.Target, c.Collected,
			c.TargetDate.UTC().Format(time.RFC3339Nano), string(c.Status), c.Owner,
			proofName, proofType, proofChunks)
		if err != nil {
			return fmt.Errorf("failed to insert campaign: %w", err)
		}
	}
	return tx.Commit()
}

// LoadCampaigns returns the persisted campaign snapshot.
func (s *Store) LoadCampaigns(ctx context.Context) ([]models.Campaign, error) {
	query := `select id, title, description, target, collected, target_date,
		status, owner, proof_name, proof_content_type, proof_total_chunks
		from campaigns`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select campaigns: %w", err)
	}
	defer rows.Close()

	var result []models.Campaign
	for rows.Next() {
		var c models.Campaign
		var targetDate, status string
		var proofName, proofType sql.NullString
		var proofChunks sql.NullInt64
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.Target, &c.Collected,
			&targetDate, &status, &c.Owner, &proofName, &proofType, &proofChunks); err != nil {
			return nil, err
		}
		if c.TargetDate, err = time.Parse(time.RFC3339Nano, targetDate); err != nil {
			return nil, fmt.Errorf("bad target date: %w", err)
		}
		if c.Status, err = models.ParseStatus(status); err != nil {
			return nil, err
		}
		if proofName.Valid {
			c.Proof = &models.ProofInfo{
				Name:        proofName.String,
				ContentType: proofType.String,
				TotalChunks: int(proofChunks.Int64),
			}
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// SaveDonations replaces the persisted donation snapshot.
func (s *Store) SaveDonations(ctx context.Context, donations []models.Donation) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `delete from donations`); err != nil {
		return fmt.Errorf("failed to clear donations: %w", err)
	}

	query := `insert into donations (campaign_id, donor, amount, ts) values (?, ?, ?, ?)`
	for _, d := range donations {
		_, err := tx.ExecContext(ctx, query,
			d.CampaignID, d.Donor, d.Amount, d.Timestamp.UTC().Format(time.RFC3339Nano))
		if err != nil {
			return fmt.Errorf("failed to insert donation: %w", err)
		}
	}
	return tx.Commit()
}

// LoadDonations returns the persisted donation snapshot ordered by time.
func (s *Store) LoadDonations(ctx context.Context) ([]models.Donation, error) {
	query := `select campaign_id, donor, amount, ts from donations order by ts`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select donations: %w", err)
	}
	defer rows.Close()

	var result []models.Donation
	for rows.Next() {
		var d models.Donation
		var ts string
		if err := rows.Scan(&d.CampaignID, &d.Donor, &d.Amount, &ts); err != nil {
			return nil, err
		}
		if d.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, fmt.Errorf("bad donation timestamp: %w", err)
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
