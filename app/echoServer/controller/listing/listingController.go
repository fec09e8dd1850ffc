package listing

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ancax2/textbook-resale-project/app/echoServer/jwtx"
	"github.com/ancax2/textbook-resale-project/model"
	listingsvc "github.com/ancax2/textbook-resale-project/service/listing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc listingsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// List
// @Summary      Browse listings
// @Description  Paginated active listings with search and filters
// @Tags         listings
// @Produce      json
// @Param        search          query  string  false  "substring search over title/author/program"
// @Param        program_name    query  string  false  "exact program"
// @Param        program_year    query  int     false  "1-4"
// @Param        condition_type  query  string  false  "New|Like New|Good|Fair|Poor"
// @Param        price_min       query  number  false  "inclusive lower bound"
// @Param        price_max       query  number  false  "inclusive upper bound"
// @Param        page            query  int     false  "page, default 1"
// @Param        limit           query  int     false  "page size, default 25, max 100"
// @Success      200  {object}  map[string]any
// @Failure      500  {object}  map[string]any
// @Router       /api/listings [get]
func (h *Controller) List(c echo.Context) error {
	var q ListQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid query"})
	}
	page, limit := q.Window()

	rows, total, err := h.Svc.List(c.Request().Context(), q.Filter(), page, limit)
	if err != nil {
		h.Log.Error("listing list error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"listings": rows, "total": total})
}

// Detail
// @Summary      Listing detail
// @Description  Full listing record with seller name and email
// @Tags         listings
// @Produce      json
// @Param        id  path  int  true  "listing id"
// @Success      200  {object}  model.Listing
// @Failure      404  {object}  map[string]any
// @Router       /api/listings/{id} [get]
func (h *Controller) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Listing not found"})
	}
	row, err := h.Svc.Detail(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, listingsvc.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Listing not found"})
		}
		h.Log.Error("listing detail error", "err", err, "id", id)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Database error"})
	}
	return c.JSON(http.StatusOK, row)
}

// Programs
// @Summary      Distinct programs
// @Description  Program names used by active listings, ascending
// @Tags         listings
// @Produce      json
// @Success      200  {array}  string
// @Failure      500  {object}  map[string]any
// @Router       /api/programs [get]
func (h *Controller) Programs(c echo.Context) error {
	ps, err := h.Svc.Programs(c.Request().Context())
	if err != nil {
		h.Log.Error("programs error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Database error"})
	}
	return c.JSON(http.StatusOK, ps)
}

// Create
// @Summary      Create listing
// @Description  Multipart form with fields and 1-3 "images" files
// @Tags         listings
// @Accept       multipart/form-data
// @Produce      json
// @Success      201  {object}  map[string]any
// @Failure      400  {object}  map[string]any "structured field errors"
// @Failure      401  {object}  map[string]any
// @Router       /api/listings [post]
func (h *Controller) Create(c echo.Context) error {
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Must be logged in"})
	}

	var req model.CreateListingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid form"})
	}

	// Boundary check: required presence only. The service re-validates
	// everything independently before any write.
	if err := h.V.Struct(req); err != nil {
		var ves validator.ValidationErrors
		if errors.As(err, &ves) {
			missing := echo.Map{}
			for _, fe := range ves {
				missing[fe.Field()] = true
			}
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error":   "Please fill in all required fields",
				"missing": missing,
			})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid form"})
	}

	form, err := c.MultipartForm()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid form"})
	}
	images := form.File["images"]

	id, err := h.Svc.Create(c.Request().Context(), uid, req, images)
	if err != nil {
		if ve, ok := listingsvc.AsValidation(err); ok {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error":  validationMessage(ve),
				"fields": ve.Fields,
			})
		}
		rid := c.Response().Header().Get(echo.HeaderXRequestID)
		h.Log.Error("listing create error", "err", err, "req_id", rid, "seller_id", uid)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create listing"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success":    true,
		"message":    "Listing created successfully!",
		"listing_id": id,
	})
}

// validationMessage picks the headline error: the image rule when it is
// the only failure, otherwise the generic required-fields message.
func validationMessage(ve *listingsvc.ValidationError) string {
	if len(ve.Fields) == 1 {
		if msg, ok := ve.Fields["images"]; ok {
			return msg
		}
	}
	return "Please fill in all required fields"
}
