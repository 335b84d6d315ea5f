// Package bootstrap seeds demo data at process start. Seeding is explicit
// (DB_SEED) and idempotent per entity kind: a kind with any existing records
// is left alone, so restarts never duplicate or clobber live data.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/globatech/sirest/internal/kvstore"
	"github.com/globatech/sirest/internal/models"
	"github.com/globatech/sirest/internal/services"
)

const seededBy = "bootstrap"

// Run seeds tables, products, demo users and the configuration record.
func Run(ctx context.Context, kv *kvstore.Store, repos *services.Repos, settings *services.Settings, log *logrus.Logger) error {
	blog := log.WithField("component", "bootstrap")

	if err := seedTables(ctx, repos, blog); err != nil {
		return err
	}
	if err := seedProducts(ctx, repos, blog); err != nil {
		return err
	}
	if err := seedUsers(ctx, kv, repos, blog, log); err != nil {
		return err
	}
	return seedConfiguration(ctx, settings, blog)
}

func seedTables(ctx context.Context, repos *services.Repos, log *logrus.Entry) error {
	existing, err := repos.Tables.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		log.WithField("count", len(existing)).Debug("tables present, skipping seed")
		return nil
	}
	for i := 1; i <= 12; i++ {
		capacity := 4
		if i%3 == 0 {
			capacity = 6
		}
		table := models.Table{
			Number:   fmt.Sprintf("%d", i),
			Capacity: capacity,
			Status:   models.TableAvailable,
		}
		if err := repos.Tables.Create(ctx, &table, seededBy); err != nil {
			return err
		}
	}
	log.Info("seeded 12 tables")
	return nil
}

func seedProducts(ctx context.Context, repos *services.Repos, log *logrus.Entry) error {
	existing, err := repos.Products.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		log.WithField("count", len(existing)).Debug("products present, skipping seed")
		return nil
	}
	menu := []models.Product{
		{Name: "Bandeja Paisa", Category: "main", Price: decimal.NewFromInt(28000), Stock: 25, MinStock: 5},
		{Name: "Ajiaco Santafereño", Category: "main", Price: decimal.NewFromInt(22000), Stock: 20, MinStock: 5},
		{Name: "Sancocho de Gallina", Category: "main", Price: decimal.NewFromInt(24000), Stock: 15, MinStock: 5},
		{Name: "Arepa con Queso", Category: "starter", Price: decimal.NewFromInt(8000), Stock: 40, MinStock: 10},
		{Name: "Empanadas (x3)", Category: "starter", Price: decimal.NewFromInt(6000), Stock: 50, MinStock: 10},
		{Name: "Limonada de Coco", Category: "drink", Price: decimal.NewFromInt(7000), Stock: 35, MinStock: 10},
		{Name: "Jugo de Lulo", Category: "drink", Price: decimal.NewFromInt(6000), Stock: 35, MinStock: 10},
		{Name: "Tres Leches", Category: "dessert", Price: decimal.NewFromInt(9000), Stock: 18, MinStock: 4},
	}
	for i := range menu {
		if err := repos.Products.Create(ctx, &menu[i], seededBy); err != nil {
			return err
		}
	}
	log.WithField("count", len(menu)).Info("seeded products")
	return nil
}

func seedUsers(ctx context.Context, kv *kvstore.Store, repos *services.Repos, log *logrus.Entry, base *logrus.Logger) error {
	existing, err := repos.Users.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		log.WithField("count", len(existing)).Debug("users present, skipping seed")
		return nil
	}
	users := services.NewUserService(kv, repos, base)
	demo := []services.SignupInput{
		{Email: "admin@sirest.local", Password: "admin123", Name: "Admin Demo", Role: models.RoleAdmin},
		{Email: "mesero@sirest.local", Password: "mesero123", Name: "Carlos Mesero", Role: models.RoleWaiter},
		{Email: "cajero@sirest.local", Password: "cajero123", Name: "Lucía Cajera", Role: models.RoleCashier},
		{Email: "cocina@sirest.local", Password: "cocina123", Name: "Pedro Cocinero", Role: models.RoleCook},
		{Email: "cliente@sirest.local", Password: "cliente123", Name: "Cliente Demo", Role: models.RoleCustomer},
	}
	for _, in := range demo {
		if _, err := users.Register(ctx, in, seededBy); err != nil {
			return err
		}
	}
	log.WithField("count", len(demo)).Info("seeded demo users")
	return nil
}

func seedConfiguration(ctx context.Context, settings *services.Settings, log *logrus.Entry) error {
	exists, err := settings.Exists(ctx)
	if err != nil {
		return err
	}
	if exists {
		log.Debug("configuration present, skipping seed")
		return nil
	}
	defaults, err := settings.Get(ctx)
	if err != nil {
		return err
	}
	if _, err := settings.Put(ctx, defaults, seededBy); err != nil {
		return err
	}
	log.Info("seeded configuration")
	return nil
}
