package listingrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ancax2/textbook-resale-project/model"
	"github.com/ancax2/textbook-resale-project/util/search"
)

type Repo interface {
	Count(ctx context.Context, f model.ListingFilter) (int, error)
	List(ctx context.Context, f model.ListingFilter, limit, offset int) ([]model.Listing, error)
	ByID(ctx context.Context, id int64) (*model.Listing, error)
	Create(ctx context.Context, l *model.Listing) error
	DistinctPrograms(ctx context.Context) ([]string, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

// listingColumns is the column list for listing SELECTs joined to the seller.
const listingColumns = `l.listing_id, l.seller_id, l.book_title, l.author, l.publish_year,
	l.program_name, l.program_year, l.price, l.condition_type, l.comments,
	l.image1_path, l.image2_path, l.image3_path, l.status, l.created_at,
	u.first_name, u.last_name`

// buildFilter turns optional filter values into a conjunctive WHERE clause.
// Every caller value is bound as a parameter; the active-status clause is
// unconditional and always first.
func buildFilter(f model.ListingFilter) (string, []any) {
	whereClauses := []string{"l.status = 'active'"}
	var args []any

	nextArg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if search.Active(f.Search) {
		p := nextArg(search.Pattern(strings.TrimSpace(f.Search)))
		whereClauses = append(whereClauses, fmt.Sprintf(
			`(l.book_title ILIKE %[1]s ESCAPE '\' OR l.author ILIKE %[1]s ESCAPE '\' OR l.program_name ILIKE %[1]s ESCAPE '\')`, p))
	}
	if f.ProgramName != "" {
		whereClauses = append(whereClauses, "l.program_name = "+nextArg(f.ProgramName))
	}
	if f.ProgramYear != nil {
		whereClauses = append(whereClauses, "l.program_year = "+nextArg(*f.ProgramYear))
	}
	if f.ConditionType != "" {
		whereClauses = append(whereClauses, "l.condition_type = "+nextArg(f.ConditionType))
	}
	if f.PriceMin != nil {
		whereClauses = append(whereClauses, "l.price >= "+nextArg(*f.PriceMin))
	}
	if f.PriceMax != nil {
		whereClauses = append(whereClauses, "l.price <= "+nextArg(*f.PriceMax))
	}

	return " WHERE " + strings.Join(whereClauses, " AND "), args
}

// Count returns the number of active listings matching the full predicate,
// unbounded by any page window.
func (r *repo) Count(ctx context.Context, f model.ListingFilter) (int, error) {
	whereSQL, args := buildFilter(f)
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM listings l"+whereSQL, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count listings: %w", err)
	}
	return n, nil
}

// List fetches one window of matching listings, newest first. Count and
// List run as separate reads; a write landing between them can skew the
// total by a row, which the query design accepts.
func (r *repo) List(ctx context.Context, f model.ListingFilter, limit, offset int) ([]model.Listing, error) {
	whereSQL, args := buildFilter(f)

	q := "SELECT " + listingColumns +
		" FROM listings l JOIN users u ON l.seller_id = u.user_id" +
		whereSQL +
		" ORDER BY l.created_at DESC, l.listing_id DESC"
	if limit > 0 {
		args = append(args, limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if offset > 0 {
		args = append(args, offset)
		q += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	defer rows.Close()

	var out []model.Listing
	for rows.Next() {
		var l model.Listing
		if err := rows.Scan(
			&l.ID, &l.SellerID, &l.BookTitle, &l.Author, &l.PublishYear,
			&l.ProgramName, &l.ProgramYear, &l.Price, &l.ConditionType, &l.Comments,
			&l.Image1Path, &l.Image2Path, &l.Image3Path, &l.Status, &l.CreatedAt,
			&l.SellerFirstName, &l.SellerLastName,
		); err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// ByID fetches a single listing with seller contact details, regardless
// of status. Returns (nil, nil) when the id is unknown.
func (r *repo) ByID(ctx context.Context, id int64) (*model.Listing, error) {
	l := &model.Listing{}
	err := r.db.QueryRowContext(ctx, "SELECT "+listingColumns+", u.email"+`
		FROM listings l JOIN users u ON l.seller_id = u.user_id
		WHERE l.listing_id = $1`,
		id,
	).Scan(
		&l.ID, &l.SellerID, &l.BookTitle, &l.Author, &l.PublishYear,
		&l.ProgramName, &l.ProgramYear, &l.Price, &l.ConditionType, &l.Comments,
		&l.Image1Path, &l.Image2Path, &l.Image3Path, &l.Status, &l.CreatedAt,
		&l.SellerFirstName, &l.SellerLastName, &l.SellerEmail,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing by id: %w", err)
	}
	return l, nil
}

// Create inserts a new listing; status and created_at come from the
// database defaults.
func (r *repo) Create(ctx context.Context, l *model.Listing) error {
	const q = `
INSERT INTO listings
	(seller_id, book_title, author, publish_year, program_name, program_year,
	 price, condition_type, comments, image1_path, image2_path, image3_path)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
RETURNING listing_id, status, created_at`
	return r.db.QueryRowContext(ctx, q,
		l.SellerID, l.BookTitle, l.Author, l.PublishYear, l.ProgramName, l.ProgramYear,
		l.Price, l.ConditionType, l.Comments, l.Image1Path, l.Image2Path, l.Image3Path,
	).Scan(&l.ID, &l.Status, &l.CreatedAt)
}

// DistinctPrograms lists program names currently used by active listings.
func (r *repo) DistinctPrograms(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT program_name
		FROM listings
		WHERE status = 'active'
		ORDER BY program_name ASC`)
	if err != nil {
		return nil, fmt.Errorf("distinct programs: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan program: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
