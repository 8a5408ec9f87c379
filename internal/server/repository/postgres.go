package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avdeevd/fundkeeper/internal/server/repository/migrations"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

const pgUniqueViolation = "23505"

// PostgresRepository implements Repository on PostgreSQL via the pgx stdlib
// driver.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository opens the database and applies the embedded goose
// migrations.
func NewPostgresRepository(dsn string) (*PostgresRepository, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.UpContext(context.Background(), db, "."); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return &PostgresRepository{db: db}, nil
}

func (r *PostgresRepository) Close() error { return r.db.Close() }

func isDuplicate(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func (r *PostgresRepository) CreateUser(ctx context.Context, u *User) error {
	query := `insert into users (id, handle, password_hash, stake, created_at)
		values ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, u.ID, u.Handle, u.PasswordHash, u.Stake, u.CreatedAt)
	if isDuplicate(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UserByHandle(ctx context.Context, handle string) (*User, error) {
	query := `select id, handle, password_hash, stake, created_at from users where handle=$1`
	u := &User{}
	err := r.db.QueryRowContext(ctx, query, handle).
		Scan(&u.ID, &u.Handle, &u.PasswordHash, &u.Stake, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select user: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) AddStake(ctx context.Context, handle string, amount int64) error {
	res, err := r.db.ExecContext(ctx,
		`update users set stake = stake + $1 where handle=$2`, amount, handle)
	if err != nil {
		return fmt.Errorf("failed to add stake: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra != 1 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) CreateCampaign(ctx context.Context, c *Campaign) error {
	query := `insert into campaigns (id, title, description, target, collected, target_date, status, owner)
		values ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.Title, c.Description, c.Target, c.Collected, c.TargetDate, c.Status, c.Owner)
	if isDuplicate(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to insert campaign: %w", err)
	}
	return nil
}

const campaignColumns = `id, title, description, target, collected, target_date, status, owner`

func scanCampaign(row interface{ Scan(...any) error }, c *Campaign) error {
	return row.Scan(&c.ID, &c.Title, &c.Description, &c.Target, &c.Collected,
		&c.TargetDate, &c.Status, &c.Owner)
}

func (r *PostgresRepository) Campaign(ctx context.Context, id string) (*Campaign, error) {
	query := `select ` + campaignColumns + ` from campaigns where id=$1`
	c := &Campaign{}
	err := scanCampaign(r.db.QueryRowContext(ctx, query, id), c)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select campaign: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) selectCampaigns(ctx context.Context, query string, args ...any) ([]Campaign, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select campaigns: %w", err)
	}
	defer rows.Close()

	var result []Campaign
	for rows.Next() {
		var c Campaign
		if err := scanCampaign(rows, &c); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Campaigns(ctx context.Context) ([]Campaign, error) {
	return r.selectCampaigns(ctx, `select `+campaignColumns+` from campaigns order by target_date`)
}

func (r *PostgresRepository) CampaignsByOwner(ctx context.Context, owner string) ([]Campaign, error) {
	return r.selectCampaigns(ctx,
		`select `+campaignColumns+` from campaigns where owner=$1 order by target_date`, owner)
}

func (r *PostgresRepository) CampaignsByStatus(ctx context.Context, status string) ([]Campaign, error) {
	return r.selectCampaigns(ctx,
		`select `+campaignColumns+` from campaigns where status=$1 order by target_date`, status)
}

// TransitionStatus performs the conditional status update; the WHERE clause
// makes the state-machine transition atomic.
func (r *PostgresRepository) TransitionStatus(ctx context.Context, id, from, to string) error {
	res, err := r.db.ExecContext(ctx,
		`update campaigns set status=$1 where id=$2 and status=$3`, to, id, from)
	if err != nil {
		return fmt.Errorf("failed to transition status: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 1 {
		return nil
	}
	if _, err := r.Campaign(ctx, id); err != nil {
		return err
	}
	return ErrWrongState
}

func (r *PostgresRepository) AddDonation(ctx context.Context, d *Donation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`update campaigns set collected = collected + $1 where id=$2`, d.Amount, d.CampaignID)
	if err != nil {
		return fmt.Errorf("failed to update collected: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra != 1 {
		return ErrNotFound
	}

	_, err = tx.ExecContext(ctx,
		`insert into donations (campaign_id, donor, amount, created_at) values ($1, $2, $3, $4)`,
		d.CampaignID, d.Donor, d.Amount, d.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert donation: %w", err)
	}
	return tx.Commit()
}

func (r *PostgresRepository) selectDonations(ctx context.Context, query string, args ...any) ([]Donation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select donations: %w", err)
	}
	defer rows.Close()

	var result []Donation
	for rows.Next() {
		var d Donation
		if err := rows.Scan(&d.CampaignID, &d.Donor, &d.Amount, &d.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) DonationsByCampaign(ctx context.Context, campaignID string) ([]Donation, error) {
	return r.selectDonations(ctx,
		`select campaign_id, donor, amount, created_at from donations
		 where campaign_id=$1 order by created_at`, campaignID)
}

func (r *PostgresRepository) DonationsByDonor(ctx context.Context, donor string) ([]Donation, error) {
	return r.selectDonations(ctx,
		`select campaign_id, donor, amount, created_at from donations
		 where donor=$1 order by created_at`, donor)
}

// SetProof replaces the stored proof in one transaction, so readers never
// observe a half-written file.
func (r *PostgresRepository) SetProof(ctx context.Context, campaignID string, p *Proof) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `delete from proofs where campaign_id=$1`, campaignID); err != nil {
		return fmt.Errorf("failed to delete old proof: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`insert into proofs (campaign_id, name, content_type, total_chunks) values ($1, $2, $3, $4)`,
		campaignID, p.Name, p.ContentType, len(p.Chunks))
	if err != nil {
		return fmt.Errorf("failed to insert proof: %w", err)
	}
	for i, chunk := range p.Chunks {
		_, err = tx.ExecContext(ctx,
			`insert into proof_chunks (campaign_id, idx, data) values ($1, $2, $3)`,
			campaignID, i, chunk)
		if err != nil {
			return fmt.Errorf("failed to insert proof chunk: %w", err)
		}
	}
	return tx.Commit()
}

func (r *PostgresRepository) Proof(ctx context.Context, campaignID string) (*Proof, error) {
	p := &Proof{}
	var total int
	err := r.db.QueryRowContext(ctx,
		`select name, content_type, total_chunks from proofs where campaign_id=$1`, campaignID).
		Scan(&p.Name, &p.ContentType, &total)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select proof: %w", err)
	}
	p.Chunks = make([][]byte, total)
	return p, nil
}

func (r *PostgresRepository) ProofChunk(ctx context.Context, campaignID string, index int) ([]byte, error) {
	var data []byte
	err := r.db.QueryRowContext(ctx,
		`select data from proof_chunks where campaign_id=$1 and idx=$2`, campaignID, index).
		Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select proof chunk: %w", err)
	}
	return data, nil
}

func (r *PostgresRepository) DeleteProof(ctx context.Context, campaignID string) error {
	res, err := r.db.ExecContext(ctx, `delete from proofs where campaign_id=$1`, campaignID)
	if err != nil {
		return fmt.Errorf("failed to delete proof: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra != 1 {
		return ErrNotFound
	}
	return nil
}
