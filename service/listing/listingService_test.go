package listingsvc_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ancax2/textbook-resale-project/model"
	listingsvc "github.com/ancax2/textbook-resale-project/service/listing"
)

type repoMock struct {
	countFn    func(ctx context.Context, f model.ListingFilter) (int, error)
	listFn     func(ctx context.Context, f model.ListingFilter, limit, offset int) ([]model.Listing, error)
	byIDFn     func(ctx context.Context, id int64) (*model.Listing, error)
	createFn   func(ctx context.Context, l *model.Listing) error
	programsFn func(ctx context.Context) ([]string, error)
}

var _ listingsvc.Repo = (*repoMock)(nil)

func (m *repoMock) Count(ctx context.Context, f model.ListingFilter) (int, error) {
	return m.countFn(ctx, f)
}
func (m *repoMock) List(ctx context.Context, f model.ListingFilter, limit, offset int) ([]model.Listing, error) {
	return m.listFn(ctx, f, limit, offset)
}
func (m *repoMock) ByID(ctx context.Context, id int64) (*model.Listing, error) {
	return m.byIDFn(ctx, id)
}
func (m *repoMock) Create(ctx context.Context, l *model.Listing) error {
	return m.createFn(ctx, l)
}
func (m *repoMock) DistinctPrograms(ctx context.Context) ([]string, error) {
	return m.programsFn(ctx)
}

type storeMock struct {
	saved   []string
	removed []string
	failOn  int // 1-based save call that fails; 0 = never
}

var _ listingsvc.ImageStore = (*storeMock)(nil)

func (m *storeMock) SaveImage(fh *multipart.FileHeader) (string, error) {
	if m.failOn > 0 && len(m.saved)+1 == m.failOn {
		return "", errors.New("disk full")
	}
	p := fmt.Sprintf("uploads/%d-%s", len(m.saved), fh.Filename)
	m.saved = append(m.saved, p)
	return p, nil
}

func (m *storeMock) Remove(p string) { m.removed = append(m.removed, p) }

var (
	pngBytes  = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}
	jpegBytes = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0, 0, 0, 0}
	gifBytes  = []byte("GIF89a\x00\x00\x00\x00")
)

// makeImages builds real multipart file headers the way echo hands them
// to the controller.
func makeImages(t *testing.T, files map[string][]byte) []*multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, content := range files {
		fw, err := w.CreateFormFile("images", name)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["images"]
}

func validReq() model.CreateListingReq {
	return model.CreateListingReq{
		BookTitle:     "Organic Chemistry",
		Author:        "Paula Bruice",
		PublishYear:   "2023",
		ProgramName:   "Science",
		ProgramYear:   "2",
		Price:         "120.00",
		ConditionType: "Like New",
		Comments:      "Clean, no writing",
	}
}

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	ve, ok := listingsvc.AsValidation(err)
	require.True(t, ok, "expected ValidationError, got %v", err)
	return ve.Fields
}

// --- Create ---

func TestCreate_Success(t *testing.T) {
	ctx := context.Background()
	store := &storeMock{}
	m := &repoMock{
		createFn: func(ctx context.Context, l *model.Listing) error {
			require.Equal(t, int64(7), l.SellerID)
			require.Equal(t, "Organic Chemistry", l.BookTitle)
			require.Equal(t, 2023, l.PublishYear)
			require.Equal(t, 2, l.ProgramYear)
			require.Equal(t, 120.00, l.Price)
			require.Equal(t, model.ConditionLikeNew, l.ConditionType)
			require.NotNil(t, l.Comments)
			// Image bytes must already be on disk when the row is inserted.
			require.Len(t, store.saved, 2)
			require.Equal(t, store.saved[0], l.Image1Path)
			require.NotNil(t, l.Image2Path)
			require.Equal(t, store.saved[1], *l.Image2Path)
			require.Nil(t, l.Image3Path)
			l.ID = 99
			return nil
		},
	}
	svc := listingsvc.New(m, store)

	images := makeImages(t, map[string][]byte{"front.png": pngBytes, "back.jpg": jpegBytes})
	id, err := svc.Create(ctx, 7, validReq(), images)
	require.NoError(t, err)
	require.Equal(t, int64(99), id)
	require.Empty(t, store.removed)
}

func TestCreate_SellerFromSessionNotPayload(t *testing.T) {
	ctx := context.Background()
	m := &repoMock{
		createFn: func(ctx context.Context, l *model.Listing) error {
			require.Equal(t, int64(12), l.SellerID)
			return nil
		},
	}
	svc := listingsvc.New(m, &storeMock{})

	images := makeImages(t, map[string][]byte{"a.png": pngBytes})
	_, err := svc.Create(ctx, 12, validReq(), images)
	require.NoError(t, err)
}

func TestCreate_MissingFields(t *testing.T) {
	svc := listingsvc.New(&repoMock{}, &storeMock{})
	req := validReq()
	req.BookTitle = "  "
	req.Author = ""
	req.Price = ""

	images := makeImages(t, map[string][]byte{"a.png": pngBytes})
	_, err := svc.Create(context.Background(), 1, req, images)

	fields := fieldsOf(t, err)
	require.Contains(t, fields, "book_title")
	require.Contains(t, fields, "author")
	require.Contains(t, fields, "price")
	require.NotContains(t, fields, "program_name")
}

func TestCreate_FieldRules(t *testing.T) {
	for _, tc := range []struct {
		name, field string
		mutate      func(*model.CreateListingReq)
	}{
		{"publish year too old", "publish_year", func(r *model.CreateListingReq) { r.PublishYear = "1899" }},
		{"publish year in future", "publish_year", func(r *model.CreateListingReq) { r.PublishYear = "2027" }},
		{"publish year not numeric", "publish_year", func(r *model.CreateListingReq) { r.PublishYear = "twenty" }},
		{"program year out of range", "program_year", func(r *model.CreateListingReq) { r.ProgramYear = "5" }},
		{"program year not numeric", "program_year", func(r *model.CreateListingReq) { r.ProgramYear = "first" }},
		{"price negative", "price", func(r *model.CreateListingReq) { r.Price = "-1" }},
		{"price not numeric", "price", func(r *model.CreateListingReq) { r.Price = "cheap" }},
		{"condition outside enum", "condition_type", func(r *model.CreateListingReq) { r.ConditionType = "Mint" }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			svc := listingsvc.New(&repoMock{}, &storeMock{})
			req := validReq()
			tc.mutate(&req)

			images := makeImages(t, map[string][]byte{"a.png": pngBytes})
			_, err := svc.Create(context.Background(), 1, req, images)
			require.Contains(t, fieldsOf(t, err), tc.field)
		})
	}
}

func TestCreate_NoImages(t *testing.T) {
	store := &storeMock{}
	svc := listingsvc.New(&repoMock{}, store)

	_, err := svc.Create(context.Background(), 1, validReq(), nil)
	fields := fieldsOf(t, err)
	require.Equal(t, "At least one image is required", fields["images"])
	require.Empty(t, store.saved, "nothing may be written on validation failure")
}

func TestCreate_TooManyImages(t *testing.T) {
	store := &storeMock{}
	svc := listingsvc.New(&repoMock{}, store)

	images := makeImages(t, map[string][]byte{
		"a.png": pngBytes, "b.png": pngBytes, "c.png": pngBytes, "d.png": pngBytes,
	})
	require.Len(t, images, 4)

	// Four images are rejected outright, not truncated to three.
	_, err := svc.Create(context.Background(), 1, validReq(), images)
	fields := fieldsOf(t, err)
	require.Equal(t, "Maximum 3 images allowed", fields["images"])
	require.Empty(t, store.saved)
}

func TestCreate_BadImageType(t *testing.T) {
	store := &storeMock{}
	svc := listingsvc.New(&repoMock{}, store)

	images := makeImages(t, map[string][]byte{"anim.gif": gifBytes})
	_, err := svc.Create(context.Background(), 1, validReq(), images)
	fields := fieldsOf(t, err)
	require.Equal(t, "Only PNG and JPEG images are allowed", fields["images"])
	require.Empty(t, store.saved)
}

func TestCreate_SpoofedExtension(t *testing.T) {
	store := &storeMock{}
	svc := listingsvc.New(&repoMock{}, store)

	// .png name, GIF bytes: the sniffed content decides.
	images := makeImages(t, map[string][]byte{"fake.png": gifBytes})
	_, err := svc.Create(context.Background(), 1, validReq(), images)
	require.Contains(t, fieldsOf(t, err), "images")
}

func TestCreate_InsertFailureCleansUpImages(t *testing.T) {
	store := &storeMock{}
	m := &repoMock{
		createFn: func(ctx context.Context, l *model.Listing) error {
			return errors.New("db down")
		},
	}
	svc := listingsvc.New(m, store)

	images := makeImages(t, map[string][]byte{"a.png": pngBytes, "b.jpg": jpegBytes})
	_, err := svc.Create(context.Background(), 1, validReq(), images)
	require.Error(t, err)
	_, isValidation := listingsvc.AsValidation(err)
	require.False(t, isValidation)
	require.ElementsMatch(t, store.saved, store.removed)
}

func TestCreate_SaveFailureCleansUpEarlierImages(t *testing.T) {
	store := &storeMock{failOn: 2}
	svc := listingsvc.New(&repoMock{}, store)

	images := makeImages(t, map[string][]byte{"a.png": pngBytes, "b.jpg": jpegBytes})
	_, err := svc.Create(context.Background(), 1, validReq(), images)
	require.Error(t, err)
	require.Len(t, store.saved, 1)
	require.Equal(t, store.saved, store.removed)
}

// --- List ---

func TestList_WindowFlow(t *testing.T) {
	var gotLimit, gotOffset int
	m := &repoMock{
		countFn: func(ctx context.Context, f model.ListingFilter) (int, error) { return 60, nil },
		listFn: func(ctx context.Context, f model.ListingFilter, limit, offset int) ([]model.Listing, error) {
			gotLimit, gotOffset = limit, offset
			return []model.Listing{{ID: 1}}, nil
		},
	}
	svc := listingsvc.New(m, &storeMock{})

	rows, total, err := svc.List(context.Background(), model.ListingFilter{}, 2, 25)
	require.NoError(t, err)
	require.Equal(t, 60, total)
	require.Len(t, rows, 1)
	require.Equal(t, 25, gotLimit)
	require.Equal(t, 25, gotOffset)
}

func TestList_PageBeyondLastClamps(t *testing.T) {
	var gotOffset int
	m := &repoMock{
		countFn: func(ctx context.Context, f model.ListingFilter) (int, error) { return 60, nil },
		listFn: func(ctx context.Context, f model.ListingFilter, limit, offset int) ([]model.Listing, error) {
			gotOffset = offset
			return nil, nil
		},
	}
	svc := listingsvc.New(m, &storeMock{})

	rows, total, err := svc.List(context.Background(), model.ListingFilter{}, 99, 25)
	require.NoError(t, err)
	require.Equal(t, 60, total)
	require.NotNil(t, rows)
	require.Equal(t, 50, gotOffset, "page 99 of 3 clamps to the last page")
}

func TestList_PageZeroClampsToFirst(t *testing.T) {
	var gotOffset int
	m := &repoMock{
		countFn: func(ctx context.Context, f model.ListingFilter) (int, error) { return 10, nil },
		listFn: func(ctx context.Context, f model.ListingFilter, limit, offset int) ([]model.Listing, error) {
			gotOffset = offset
			return nil, nil
		},
	}
	svc := listingsvc.New(m, &storeMock{})

	_, _, err := svc.List(context.Background(), model.ListingFilter{}, 0, 25)
	require.NoError(t, err)
	require.Equal(t, 0, gotOffset)
}

func TestList_LimitBounds(t *testing.T) {
	var gotLimit int
	m := &repoMock{
		countFn: func(ctx context.Context, f model.ListingFilter) (int, error) { return 500, nil },
		listFn: func(ctx context.Context, f model.ListingFilter, limit, offset int) ([]model.Listing, error) {
			gotLimit = limit
			return nil, nil
		},
	}
	svc := listingsvc.New(m, &storeMock{})

	_, _, err := svc.List(context.Background(), model.ListingFilter{}, 1, 1000)
	require.NoError(t, err)
	require.Equal(t, listingsvc.MaxPageSize, gotLimit)

	_, _, err = svc.List(context.Background(), model.ListingFilter{}, 1, 0)
	require.NoError(t, err)
	require.Equal(t, listingsvc.DefaultPageSize, gotLimit)
}

func TestList_EmptyResultSkipsFetch(t *testing.T) {
	m := &repoMock{
		countFn: func(ctx context.Context, f model.ListingFilter) (int, error) { return 0, nil },
		listFn: func(ctx context.Context, f model.ListingFilter, limit, offset int) ([]model.Listing, error) {
			t.Fatal("List must not run when the count is zero")
			return nil, nil
		},
	}
	svc := listingsvc.New(m, &storeMock{})

	rows, total, err := svc.List(context.Background(), model.ListingFilter{}, 1, 25)
	require.NoError(t, err)
	require.Equal(t, 0, total)
	require.NotNil(t, rows)
	require.Empty(t, rows)
}

func TestList_FilterPassedThrough(t *testing.T) {
	min := 10.0
	var gotFilter model.ListingFilter
	m := &repoMock{
		countFn: func(ctx context.Context, f model.ListingFilter) (int, error) {
			gotFilter = f
			return 1, nil
		},
		listFn: func(ctx context.Context, f model.ListingFilter, limit, offset int) ([]model.Listing, error) {
			require.Equal(t, gotFilter, f, "count and fetch must share one filter")
			return nil, nil
		},
	}
	svc := listingsvc.New(m, &storeMock{})

	f := model.ListingFilter{Search: "organic", PriceMin: &min}
	_, _, err := svc.List(context.Background(), f, 1, 25)
	require.NoError(t, err)
	require.Equal(t, f, gotFilter)
}

// --- Detail / Programs ---

func TestDetail_NotFound(t *testing.T) {
	m := &repoMock{
		byIDFn: func(ctx context.Context, id int64) (*model.Listing, error) { return nil, nil },
	}
	svc := listingsvc.New(m, &storeMock{})

	_, err := svc.Detail(context.Background(), 404)
	require.ErrorIs(t, err, listingsvc.ErrNotFound)
}

func TestDetail_Found(t *testing.T) {
	m := &repoMock{
		byIDFn: func(ctx context.Context, id int64) (*model.Listing, error) {
			return &model.Listing{ID: id, BookTitle: "Criminal Law"}, nil
		},
	}
	svc := listingsvc.New(m, &storeMock{})

	l, err := svc.Detail(context.Background(), 5)
	require.NoError(t, err)
	require.Equal(t, int64(5), l.ID)
}

func TestPrograms_NeverNil(t *testing.T) {
	m := &repoMock{
		programsFn: func(ctx context.Context) ([]string, error) { return nil, nil },
	}
	svc := listingsvc.New(m, &storeMock{})

	ps, err := svc.Programs(context.Background())
	require.NoError(t, err)
	require.NotNil(t, ps)
	require.Empty(t, ps)
}
