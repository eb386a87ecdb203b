package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/exchange-admin/internal/domain"
)

const documentColumns = `id, user_id, document_type, coalesce(file_key, ''), status, reviewer_id, reviewed_at, notes, submitted_at`

// KYCRepo stores KYC documents and the tier columns on users.
type KYCRepo struct {
	db *sql.DB
}

func NewKYCRepo(db *sql.DB) *KYCRepo {
	return &KYCRepo{db: db}
}

// WithinTx runs fn in a read-committed transaction. fn's error, or a commit
// failure, rolls everything back.
func (r *KYCRepo) WithinTx(ctx context.Context, fn func(domain.KYCReviewTx) error) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(&kycTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ListPending returns one page of pending documents, oldest first, and the
// total number pending.
func (r *KYCRepo) ListPending(ctx context.Context, limit, offset int) ([]domain.PendingDocument, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`select count(*) from kyc_documents where status = $1`, domain.KYCStatusPending,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, `
		select d.id, d.user_id, d.document_type, coalesce(d.file_key, ''), d.submitted_at,
		       u.email, u.first_name, u.last_name
		from kyc_documents d
		join users u on u.id = d.user_id
		where d.status = $1
		order by d.submitted_at asc, d.id asc
		limit $2 offset $3
	`, domain.KYCStatusPending, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]domain.PendingDocument, 0, limit)
	for rows.Next() {
		var (
			p       domain.PendingDocument
			docType string
		)
		if err := rows.Scan(&p.DocumentID, &p.UserID, &docType, &p.FileKey, &p.SubmittedAt,
			&p.Email, &p.FirstName, &p.LastName); err != nil {
			return nil, 0, err
		}
		p.DocumentType = domain.DocumentType(docType)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *KYCRepo) Get(ctx context.Context, documentID string) (*domain.KYCDocument, error) {
	return scanDocument(r.db.QueryRowContext(ctx,
		`select `+documentColumns+` from kyc_documents where id = $1`, documentID))
}

type kycTx struct {
	tx *sql.Tx
}

func (t *kycTx) LockDocument(ctx context.Context, documentID string) (*domain.KYCDocument, error) {
	return scanDocument(t.tx.QueryRowContext(ctx,
		`select `+documentColumns+` from kyc_documents where id = $1 for update`, documentID))
}

func (t *kycTx) MarkReviewed(ctx context.Context, review domain.KYCReview) error {
	res, err := t.tx.ExecContext(ctx, `
		update kyc_documents
		set status = $2, reviewer_id = $3, reviewed_at = $4, notes = $5
		where id = $1
	`, review.DocumentID, review.Status, review.ReviewerID, review.ReviewedAt, nullString(review.Notes))
	if err != nil {
		return err
	}
	return expectOneRow(res, domain.ErrDocumentNotFound)
}

func (t *kycTx) CountApproved(ctx context.Context, userID string) (int, error) {
	var n int
	err := t.tx.QueryRowContext(ctx,
		`select count(*) from kyc_documents where user_id = $1 and status = $2`,
		userID, domain.KYCStatusApproved,
	).Scan(&n)
	return n, err
}

func (t *kycTx) UpdateUserTier(ctx context.Context, userID string, level int, status domain.KYCStatus) error {
	res, err := t.tx.ExecContext(ctx,
		`update users set kyc_level = $2, kyc_status = $3, updated_at = now() where id = $1`,
		userID, level, status)
	if err != nil {
		return err
	}
	return expectOneRow(res, fmt.Errorf("user %s: %w", userID, domain.ErrNotFound))
}

func scanDocument(row *sql.Row) (*domain.KYCDocument, error) {
	var (
		d          domain.KYCDocument
		docType    string
		status     string
		reviewerID sql.NullString
		reviewedAt sql.NullTime
		notes      sql.NullString
	)
	err := row.Scan(&d.DocumentID, &d.UserID, &docType, &d.FileKey, &status, &reviewerID, &reviewedAt, &notes, &d.SubmittedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrDocumentNotFound
	}
	if err != nil {
		return nil, err
	}
	d.DocumentType = domain.DocumentType(docType)
	d.Status = domain.KYCStatus(status)
	if reviewerID.Valid {
		s := reviewerID.String
		d.ReviewerID = &s
	}
	if reviewedAt.Valid {
		t := reviewedAt.Time
		d.ReviewedAt = &t
	}
	if notes.Valid {
		s := notes.String
		d.Notes = &s
	}
	return &d, nil
}
