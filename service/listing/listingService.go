package listingsvc

import (
	"context"
	"fmt"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/ancax2/textbook-resale-project/model"
	listingrepo "github.com/ancax2/textbook-resale-project/repository/listing"
	"github.com/ancax2/textbook-resale-project/util/pagination"
	"github.com/ancax2/textbook-resale-project/util/storage"
)

const (
	DefaultPageSize = 25
	MaxPageSize     = 100
	maxImages       = 3
)

type Listing = model.Listing

type Repo interface {
	Count(ctx context.Context, f model.ListingFilter) (int, error)
	List(ctx context.Context, f model.ListingFilter, limit, offset int) ([]model.Listing, error)
	ByID(ctx context.Context, id int64) (*model.Listing, error)
	Create(ctx context.Context, l *model.Listing) error
	DistinctPrograms(ctx context.Context) ([]string, error)
}

// ImageStore is the slice of util/storage the service needs; the real
// store writes under the uploads directory.
type ImageStore interface {
	SaveImage(fh *multipart.FileHeader) (string, error)
	Remove(publicPath string)
}

type Service interface {
	List(ctx context.Context, f model.ListingFilter, page, limit int) ([]model.Listing, int, error)
	Detail(ctx context.Context, id int64) (*model.Listing, error)
	Create(ctx context.Context, sellerID int64, req model.CreateListingReq, images []*multipart.FileHeader) (int64, error)
	Programs(ctx context.Context) ([]string, error)
}

type service struct {
	r     Repo
	store ImageStore
}

func New(r Repo, store ImageStore) Service { return &service{r: r, store: store} }

var _ Repo = (listingrepo.Repo)(nil)

// List counts the full result set, clamps the requested page against it,
// then fetches one window. The two reads are not transactional; a
// concurrent write may skew total by a row, which is accepted.
func (s *service) List(ctx context.Context, f model.ListingFilter, page, limit int) ([]model.Listing, int, error) {
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	total, err := s.r.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []model.Listing{}, 0, nil
	}

	w := pagination.New(page, limit, total)
	rows, err := s.r.List(ctx, f, w.Limit, w.Offset)
	if err != nil {
		return nil, 0, err
	}
	if rows == nil {
		rows = []model.Listing{}
	}
	return rows, total, nil
}

func (s *service) Detail(ctx context.Context, id int64) (*model.Listing, error) {
	l, err := s.r.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, ErrNotFound
	}
	return l, nil
}

func (s *service) Programs(ctx context.Context) ([]string, error) {
	ps, err := s.r.DistinctPrograms(ctx)
	if err != nil {
		return nil, err
	}
	if ps == nil {
		ps = []string{}
	}
	return ps, nil
}

// Create validates every field and image before anything is written,
// then stores the image bytes and only afterwards inserts the row that
// references them. sellerID always comes from the authenticated session.
func (s *service) Create(ctx context.Context, sellerID int64, req model.CreateListingReq, images []*multipart.FileHeader) (int64, error) {
	l, verr := validateCreate(req, images)
	if verr != nil {
		return 0, verr
	}
	l.SellerID = sellerID

	var paths []string
	for _, fh := range images {
		p, err := s.store.SaveImage(fh)
		if err != nil {
			s.removeAll(paths)
			return 0, fmt.Errorf("save image: %w", err)
		}
		paths = append(paths, p)
	}
	l.Image1Path = paths[0]
	if len(paths) > 1 {
		l.Image2Path = &paths[1]
	}
	if len(paths) > 2 {
		l.Image3Path = &paths[2]
	}

	if err := s.r.Create(ctx, l); err != nil {
		s.removeAll(paths)
		return 0, fmt.Errorf("insert listing: %w", err)
	}
	return l.ID, nil
}

func (s *service) removeAll(paths []string) {
	for _, p := range paths {
		s.store.Remove(p)
	}
}

// validateCreate applies the authoritative creation rules and returns the
// parsed listing. It never trusts client-side checks.
func validateCreate(req model.CreateListingReq, images []*multipart.FileHeader) (*model.Listing, *ValidationError) {
	fields := map[string]string{}

	title := strings.TrimSpace(req.BookTitle)
	if title == "" {
		fields["book_title"] = "required"
	}
	author := strings.TrimSpace(req.Author)
	if author == "" {
		fields["author"] = "required"
	}
	program := strings.TrimSpace(req.ProgramName)
	if program == "" {
		fields["program_name"] = "required"
	}

	publishYear := 0
	if v := strings.TrimSpace(req.PublishYear); v == "" {
		fields["publish_year"] = "required"
	} else if y, err := strconv.Atoi(v); err != nil {
		fields["publish_year"] = "must be a number"
	} else if y < 1900 || y > 2026 {
		fields["publish_year"] = "must be between 1900 and 2026"
	} else {
		publishYear = y
	}

	programYear := 0
	if v := strings.TrimSpace(req.ProgramYear); v == "" {
		fields["program_year"] = "required"
	} else if y, err := strconv.Atoi(v); err != nil || y < 1 || y > 4 {
		fields["program_year"] = "must be between 1 and 4"
	} else {
		programYear = y
	}

	price := 0.0
	if v := strings.TrimSpace(req.Price); v == "" {
		fields["price"] = "required"
	} else if p, err := strconv.ParseFloat(v, 64); err != nil {
		fields["price"] = "must be a number"
	} else if p < 0 {
		fields["price"] = "must not be negative"
	} else {
		price = p
	}

	condition := model.Condition(strings.TrimSpace(req.ConditionType))
	if condition == "" {
		fields["condition_type"] = "required"
	} else if !condition.Valid() {
		fields["condition_type"] = "must be one of New, Like New, Good, Fair, Poor"
	}

	switch {
	case len(images) == 0:
		fields["images"] = "At least one image is required"
	case len(images) > maxImages:
		fields["images"] = "Maximum 3 images allowed"
	default:
		for _, fh := range images {
			if err := storage.ValidateImage(fh); err != nil {
				fields["images"] = "Only PNG and JPEG images are allowed"
				break
			}
		}
	}

	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	l := &model.Listing{
		BookTitle:     title,
		Author:        author,
		PublishYear:   publishYear,
		ProgramName:   program,
		ProgramYear:   programYear,
		Price:         price,
		ConditionType: condition,
	}
	if c := strings.TrimSpace(req.Comments); c != "" {
		l.Comments = &c
	}
	return l, nil
}
