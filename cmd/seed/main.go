// Seeds a fresh database with demo users and listings so the
// marketplace is browsable out of the box.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ancax2/textbook-resale-project/config"
	"github.com/ancax2/textbook-resale-project/model"
	listingrepo "github.com/ancax2/textbook-resale-project/repository/listing"
	userrepo "github.com/ancax2/textbook-resale-project/repository/user"
	"github.com/ancax2/textbook-resale-project/util/database"
	"github.com/ancax2/textbook-resale-project/util/hash"
)

type seedListing struct {
	seller      int // index into the seeded users
	title       string
	author      string
	publishYear int
	program     string
	programYear int
	price       float64
	condition   model.Condition
	comments    string
	image       string
}

var users = []model.User{
	{FirstName: "Ava", LastName: "Tremblay", Email: "ava.tremblay@campus.ca", Role: "student"},
	{FirstName: "Noah", LastName: "Singh", Email: "noah.singh@campus.ca", Role: "student"},
	{FirstName: "Maya", LastName: "Chen", Email: "maya.chen@campus.ca", Role: "student"},
	{FirstName: "Liam", LastName: "Osei", Email: "liam.osei@campus.ca", Role: "student"},
}

var listings = []seedListing{
	{0, "Organic Chemistry", "Paula Bruice", 2023, "Science", 2, 120.00, model.ConditionLikeNew, "Clean, no writing", "uploads/book5.jpg"},
	{1, "Human Anatomy & Physiology", "Elaine Marieb", 2022, "Nursing", 1, 95.00, model.ConditionGood, "Used for two semesters", "uploads/book6.jpg"},
	{2, "Data Structures and Algorithms", "Michael Goodrich", 2021, "Computer Science", 2, 75.00, model.ConditionFair, "Some wear on cover", "uploads/book7.jpg"},
	{3, "Financial Accounting", "Jerry Weygandt", 2023, "Business Administration", 1, 65.00, model.ConditionNew, "Access code unused", "uploads/book8.jpg"},
	{1, "Criminal Law", "Joel Samaha", 2022, "Criminal Justice", 2, 85.00, model.ConditionLikeNew, "Highlighting in first 3 chapters only", "uploads/book9.jpg"},
	{0, "Physics for Scientists and Engineers", "Raymond Serway", 2022, "Engineering", 1, 110.00, model.ConditionGood, "Includes study guide", "uploads/book10.jpg"},
	{2, "Operating System Concepts", "Abraham Silberschatz", 2021, "Computer Science", 3, 70.00, model.ConditionGood, "Ninth edition", "uploads/book11.jpg"},
	{3, "Principles of Microeconomics", "N. Gregory Mankiw", 2023, "Business Administration", 1, 58.00, model.ConditionNew, "Sealed", "uploads/book12.jpg"},
	{1, "Introduction to Psychology", "James Kalat", 2023, "Social Sciences", 1, 52.00, model.ConditionLikeNew, "Minimal highlighting", "uploads/book13.jpg"},
	{0, "Linear Algebra and Its Applications", "David Lay", 2022, "Mathematics", 2, 88.00, model.ConditionGood, "Worked examples inside", "uploads/book14.jpg"},
	{2, "Networking Essentials", "Jeffrey Beasley", 2021, "Computer Science", 2, 62.00, model.ConditionFair, "Previous edition", "uploads/book15.jpg"},
	{3, "Strategic Management", "Fred David", 2022, "Business Administration", 3, 78.00, model.ConditionLikeNew, "Case studies unmarked", "uploads/book16.jpg"},
	{1, "Introduction to Sociology", "Anthony Giddens", 2023, "Social Sciences", 1, 48.00, model.ConditionGood, "Few pages bent", "uploads/book17.jpg"},
	{0, "Statics and Mechanics of Materials", "Ferdinand Beer", 2022, "Engineering", 2, 125.00, model.ConditionLikeNew, "Comes with access", "uploads/book18.jpg"},
	{2, "Software Engineering", "Ian Sommerville", 2021, "Computer Science", 3, 68.00, model.ConditionGood, "Tenth edition", "uploads/book19.jpg"},
	{1, "Medical-Surgical Nursing", "Donna Ignatavicius", 2022, "Nursing", 2, 98.00, model.ConditionGood, "Heavy use but intact", "uploads/book20.jpg"},
}

func main() {
	cfg := config.Load()
	ctx := context.Background()
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Error("db migrate failed", "err", err)
		os.Exit(1)
	}

	ur := userrepo.New(db)
	lr := listingrepo.New(db)

	// Every demo account logs in with the same password.
	pw, err := hash.HashPassword("password123")
	if err != nil {
		log.Error("hash failed", "err", err)
		os.Exit(1)
	}

	ids := make([]int64, len(users))
	for i := range users {
		u := users[i]
		u.PasswordHash = pw
		if err := ur.Create(ctx, &u); err != nil {
			// Re-running the seeder against a seeded database is fine;
			// reuse the existing account instead of duplicating it.
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
				existing, lookupErr := ur.ByEmail(ctx, u.Email)
				if lookupErr != nil || existing == nil {
					log.Error("seed user lookup failed", "email", u.Email, "err", lookupErr)
					os.Exit(1)
				}
				ids[i] = existing.ID
				continue
			}
			log.Error("seed user failed", "email", u.Email, "err", err)
			os.Exit(1)
		}
		ids[i] = u.ID
	}

	if n, err := lr.Count(ctx, model.ListingFilter{}); err != nil {
		log.Error("seed listing count failed", "err", err)
		os.Exit(1)
	} else if n > 0 {
		log.Info("listings already seeded", "count", n)
		return
	}

	for _, s := range listings {
		comments := s.comments
		l := &model.Listing{
			SellerID:      ids[s.seller],
			BookTitle:     s.title,
			Author:        s.author,
			PublishYear:   s.publishYear,
			ProgramName:   s.program,
			ProgramYear:   s.programYear,
			Price:         s.price,
			ConditionType: s.condition,
			Comments:      &comments,
			Image1Path:    s.image,
		}
		if err := lr.Create(ctx, l); err != nil {
			log.Error("seed listing failed", "title", s.title, "err", err)
			os.Exit(1)
		}
	}

	log.Info("seed complete", "users", len(users), "listings", len(listings))
}
