// Command seed loads a demo restaurant: one tenant, an admin account, a few
// tables and a small catalog.  Running it twice is a no-op.
package main

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/restaurant-orders/internal/config"
	"github.com/iliyamo/restaurant-orders/internal/database"
	"github.com/iliyamo/restaurant-orders/internal/logger"
	"github.com/iliyamo/restaurant-orders/internal/model"
	"github.com/iliyamo/restaurant-orders/internal/repository"
	"github.com/iliyamo/restaurant-orders/internal/utils"
)

const (
	adminUsername = "admin"
	adminEmail    = "admin@srluis.com"
	adminPassword = "123456"
)

var demoProducts = []struct {
	name  string
	price string
}{
	{"Bandeja Paisa", "32000"},
	{"Ajiaco", "28000"},
	{"Sancocho", "26000"},
	{"Empanada", "4500"},
	{"Limonada de coco", "9000"},
	{"Café tinto", "3000"},
}

func strPtr(s string) *string { return &s }

func main() {
	cfg := config.Load()
	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}).WithComponent("seed")

	db, err := database.Open(database.Options{
		User: cfg.DBUser, Pass: cfg.DBPass, Host: cfg.DBHost, Port: cfg.DBPort, Name: cfg.DBName,
	})
	if err != nil {
		log.Fatal("connect database", "error", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if cfg.DBAutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			log.Fatal("migrate database", "error", err)
		}
	}

	users := repository.NewUserRepo(db)
	exists, err := users.UsernameExists(ctx, adminUsername)
	if err != nil {
		log.Fatal("check admin", "error", err)
	}
	if exists {
		log.Info("admin already exists, nothing to seed", "username", adminUsername)
		return
	}

	hash, err := utils.HashPassword(adminPassword, cfg.BcryptCost)
	if err != nil {
		log.Fatal("hash password", "error", err)
	}

	tenants := repository.NewTenantRepo(db)
	tables := repository.NewTableRepo(db)
	products := repository.NewProductRepo(db)

	err = repository.NewTransactor(db).WithinTx(ctx, func(ctx context.Context) error {
		t := &model.Tenant{
			Name:    "Restaurante Sr. Luis",
			NIT:     strPtr("900.123.456-7"),
			Address: strPtr("Calle 123 #45-67, Bogotá"),
			Phone:   strPtr("300-123-4567"),
			Email:   strPtr("info@srluis.com"),
		}
		if err := tenants.Create(ctx, t); err != nil {
			return err
		}
		if _, err := users.Create(ctx, model.NewUser{
			TenantID:     t.ID,
			Username:     adminUsername,
			Email:        adminEmail,
			PasswordHash: hash,
			FirstName:    "Administrador",
			LastName:     "Sistema",
			Role:         model.RoleAdmin,
		}); err != nil {
			return err
		}
		for n := 1; n <= 5; n++ {
			if err := tables.Create(ctx, &model.Table{TenantID: t.ID, Number: n, Capacity: 4}); err != nil {
				return err
			}
		}
		for _, p := range demoProducts {
			if err := products.Create(ctx, &model.Product{
				TenantID:  t.ID,
				Name:      p.name,
				Price:     decimal.RequireFromString(p.price),
				Available: true,
			}); err != nil {
				return err
			}
		}
		log.Info("seeded", "tenant_id", t.ID)
		return nil
	})
	if err != nil {
		log.Fatal("seed", "error", err)
	}
	log.Info("demo credentials", "username", adminUsername, "email", adminEmail, "password", adminPassword, "role", model.RoleAdmin)
}
