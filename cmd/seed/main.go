package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/nail-scheduler/internal/app"
	"github.com/BruksfildServices01/nail-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/nail-scheduler/internal/db"
	apDomain "github.com/BruksfildServices01/nail-scheduler/internal/domain/appointment"
	productDomain "github.com/BruksfildServices01/nail-scheduler/internal/domain/product"
	"github.com/BruksfildServices01/nail-scheduler/internal/models"
	"github.com/BruksfildServices01/nail-scheduler/internal/timezone"
	"github.com/BruksfildServices01/nail-scheduler/internal/usecase/product"
	"github.com/BruksfildServices01/nail-scheduler/internal/usecase/timeslot"
)

type seedService struct {
	name     string
	category string
	minutes  int
	price    float64
	deposit  float64
}

var catalog = []seedService{
	{"Manicure tradicional", "maos", 45, 35, 0},
	{"Pedicure tradicional", "pes", 50, 40, 0},
	{"Pé e mão", "combo", 90, 70, 0},
	{"Esmaltação em gel", "maos", 60, 80, 30},
	{"Alongamento em fibra", "alongamento", 150, 180, 40},
	{"Manutenção de fibra", "alongamento", 90, 110, 30},
	{"Spa dos pés", "pes", 60, 65, 0},
}

var products = []string{"Esmalte cremoso", "Base fortalecedora", "Óleo de cutícula", "Top coat", "Gel construtor"}

// Seeds a demo salon with catalog, team, schedules, clients and two weeks
// of generated time slots.
func main() {
	slug := flag.String("slug", "studio-demo", "salon slug")
	email := flag.String("email", "dona@studio-demo.com", "owner login")
	password := flag.String("password", "demo1234", "owner password")
	employees := flag.Int("employees", 3, "employees to create")
	clients := flag.Int("clients", 40, "clients to create")
	days := flag.Int("days", 14, "days of time slots to generate")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)
	container := app.New(cfg, db)
	defer container.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var shop models.Salon
	var owner models.User
	var services []models.Service
	var team []models.Employee

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if shop, owner, err = seedSalon(tx, *slug, *email, *password); err != nil {
			return fmt.Errorf("salon: %w", err)
		}
		if services, err = seedServices(tx, shop.ID); err != nil {
			return fmt.Errorf("services: %w", err)
		}
		if team, err = seedEmployees(tx, shop.ID, services, *employees); err != nil {
			return fmt.Errorf("employees: %w", err)
		}
		if err := seedClients(tx, shop.ID, *clients); err != nil {
			return fmt.Errorf("clients: %w", err)
		}
		return seedPromotion(tx, shop.ID)
	})
	if err != nil {
		log.Fatalf("seed: %v", err)
	}

	if err := seedProducts(ctx, db, container.Stock, shop.ID, owner.ID); err != nil {
		log.Fatalf("seed products: %v", err)
	}

	generateSlots(ctx, container.Slots, shop, owner.ID, team, *days)

	log.Printf("seed complete: salon=%s login=%s", shop.Slug, owner.Email)
}

func seedSalon(tx *gorm.DB, slug, email, password string) (models.Salon, models.User, error) {
	shop := models.Salon{
		Name:      "Studio " + gofakeit.LastName() + " Nails",
		Slug:      slug,
		Phone:     fakeWhatsApp(),
		Address:   fmt.Sprintf("%s, %d - %s", gofakeit.Street(), gofakeit.Number(10, 2000), gofakeit.City()),
		Timezone:  timezone.DefaultTimezone,
		OpenTime:  "09:00",
		CloseTime: "19:00",
	}
	if err := tx.Where("slug = ?", slug).FirstOrCreate(&shop).Error; err != nil {
		return shop, models.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return shop, models.User{}, err
	}

	owner := models.User{
		SalonID:      shop.ID,
		Name:         gofakeit.Name(),
		Email:        strings.ToLower(email),
		PasswordHash: string(hash),
		Phone:        shop.Phone,
		Role:         "owner",
	}
	if err := tx.Where("email = ?", owner.Email).FirstOrCreate(&owner).Error; err != nil {
		return shop, owner, err
	}

	log.Printf("salon %q ready (id=%d)", shop.Name, shop.ID)
	return shop, owner, nil
}

func seedServices(tx *gorm.DB, salonID uint) ([]models.Service, error) {
	out := make([]models.Service, 0, len(catalog))
	for _, s := range catalog {
		svc := models.Service{
			SalonID:           salonID,
			Name:              s.name,
			Description:       "Categoria " + s.category,
			DurationMin:       s.minutes,
			Price:             s.price,
			Category:          s.category,
			Active:            true,
			DepositRequired:   s.deposit > 0,
			DepositPercentage: s.deposit,
		}
		if err := tx.Where("salon_id = ? AND name = ?", salonID, s.name).FirstOrCreate(&svc).Error; err != nil {
			return nil, err
		}
		out = append(out, svc)
	}
	log.Printf("%d services seeded", len(out))
	return out, nil
}

func seedEmployees(tx *gorm.DB, salonID uint, services []models.Service, count int) ([]models.Employee, error) {
	out := make([]models.Employee, 0, count)
	for i := 0; i < count; i++ {
		// every employee does the basics; the rest is random
		offered := []models.Service{services[0], services[1]}
		for _, s := range services[2:] {
			if gofakeit.Bool() {
				offered = append(offered, s)
			}
		}

		emp := models.Employee{
			SalonID:     salonID,
			Name:        gofakeit.FirstName() + " " + gofakeit.LastName(),
			Phone:       fakeWhatsApp(),
			Specialties: offered[len(offered)-1].Category,
			Active:      true,
			Services:    offered,
		}
		for wd := 1; wd <= 6; wd++ {
			emp.Schedules = append(emp.Schedules, models.EmployeeSchedule{Weekday: wd, StartTime: "09:00", EndTime: "12:00"})
			if wd < 6 {
				emp.Schedules = append(emp.Schedules, models.EmployeeSchedule{Weekday: wd, StartTime: "13:00", EndTime: "19:00"})
			}
		}

		if err := tx.Create(&emp).Error; err != nil {
			return nil, err
		}
		out = append(out, emp)
	}
	log.Printf("%d employees seeded", len(out))
	return out, nil
}

func seedClients(tx *gorm.DB, salonID uint, count int) error {
	clients := make([]models.Client, 0, count)
	for i := 0; i < count; i++ {
		c := models.Client{
			SalonID:  salonID,
			Name:     gofakeit.Name(),
			WhatsApp: fakeWhatsApp(),
		}
		if gofakeit.Bool() {
			c.Email = strings.ToLower(gofakeit.Email())
		}
		clients = append(clients, c)
	}
	if err := tx.CreateInBatches(&clients, 100).Error; err != nil {
		return err
	}
	log.Printf("%d clients seeded", count)
	return nil
}

func seedPromotion(tx *gorm.DB, salonID uint) error {
	until := time.Now().AddDate(0, 1, 0)
	promo := models.Promotion{
		SalonID:       salonID,
		Code:          "BEMVINDA10",
		Description:   "10% na primeira visita",
		DiscountType:  apDomain.DiscountPercent,
		DiscountValue: 10,
		ValidTo:       &until,
		MaxUses:       100,
		Active:        true,
	}
	return tx.Where("salon_id = ? AND code = ?", salonID, promo.Code).FirstOrCreate(&promo).Error
}

// seedProducts goes through the stock use case so opening stock gets a movement.
func seedProducts(ctx context.Context, db *gorm.DB, stock *product.Stock, salonID, ownerID uint) error {
	for _, name := range products {
		p := models.Product{
			SalonID:  salonID,
			Name:     name,
			SKU:      strings.ToUpper(gofakeit.LetterN(3)) + fmt.Sprint(gofakeit.Number(100, 999)),
			Price:    gofakeit.Price(15, 90),
			MinStock: 5,
			Active:   true,
		}
		if err := db.WithContext(ctx).Create(&p).Error; err != nil {
			return err
		}

		if _, err := stock.Adjust(ctx, product.AdjustStockInput{
			SalonID:   salonID,
			ProductID: p.ID,
			UserID:    &ownerID,
			Type:      productDomain.MovementIn,
			Quantity:  gofakeit.Number(3, 30),
			Reason:    "estoque inicial",
		}); err != nil {
			return err
		}
	}
	log.Printf("%d products seeded", len(products))
	return nil
}

func generateSlots(
	ctx context.Context,
	slots *timeslot.Service,
	shop models.Salon,
	ownerID uint,
	team []models.Employee,
	days int,
) {
	today := timezone.NowIn(shop.Timezone)
	from := today.Format(timezone.DateLayout)
	to := today.AddDate(0, 0, days-1).Format(timezone.DateLayout)

	total := 0
	for i := range team {
		for _, svc := range team[i].Services {
			res, err := slots.GenerateRange(ctx, timeslot.GenerateInput{
				SalonID:    shop.ID,
				ServiceID:  svc.ID,
				EmployeeID: &team[i].ID,
				From:       from,
				To:         to,
				ActorID:    &ownerID,
			})
			if err != nil {
				log.Printf("slots for %s / %s skipped: %v", team[i].Name, svc.Name, err)
				continue
			}
			total += int(res.Inserted)
		}
	}
	log.Printf("%d time slots generated (%s to %s)", total, from, to)
}

// fakeWhatsApp returns an 11 digit mobile number with a São Paulo area code.
func fakeWhatsApp() string {
	return fmt.Sprintf("119%08d", gofakeit.Number(0, 99999999))
}
