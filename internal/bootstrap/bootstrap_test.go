package bootstrap

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/globatech/sirest/internal/kvstore"
	"github.com/globatech/sirest/internal/models"
	"github.com/globatech/sirest/internal/services"
)

func newSeedEnv(t *testing.T) (*kvstore.Store, *services.Repos, *services.Settings, *logrus.Logger) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&kvstore.Entry{}))

	log := logrus.New()
	log.SetOutput(io.Discard)

	kv := kvstore.New(db)
	repos := services.NewRepos(kv)
	settings := services.NewSettings(kv, models.Configuration{
		RestaurantName: "SiRest",
		TaxRate:        decimal.RequireFromString("0.19"),
		ServiceRate:    decimal.RequireFromString("0.10"),
		Currency:       "COP",
		Timezone:       "America/Bogota",
	})
	return kv, repos, settings, log
}

func TestRunSeedsEverything(t *testing.T) {
	kv, repos, settings, log := newSeedEnv(t)
	ctx := context.Background()

	require.NoError(t, Run(ctx, kv, repos, settings, log))

	tables, err := repos.Tables.List(ctx)
	require.NoError(t, err)
	assert.Len(t, tables, 12)

	products, err := repos.Products.List(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 8)

	users, err := repos.Users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 5)

	exists, err := settings.Exists(ctx)
	require.NoError(t, err)
	assert.True(t, exists)

	// The demo admin can log in.
	userSvc := services.NewUserService(kv, repos, log)
	admin, err := userSvc.Authenticate(ctx, "admin@sirest.local", "admin123")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
}

func TestRunIsIdempotent(t *testing.T) {
	kv, repos, settings, log := newSeedEnv(t)
	ctx := context.Background()

	require.NoError(t, Run(ctx, kv, repos, settings, log))
	require.NoError(t, Run(ctx, kv, repos, settings, log))

	tables, err := repos.Tables.List(ctx)
	require.NoError(t, err)
	assert.Len(t, tables, 12)

	users, err := repos.Users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 5)
}

func TestRunRespectsExistingData(t *testing.T) {
	kv, repos, settings, log := newSeedEnv(t)
	ctx := context.Background()

	custom := models.Table{Number: "99", Capacity: 2, Status: models.TableAvailable}
	require.NoError(t, repos.Tables.Create(ctx, &custom, "admin-1"))

	require.NoError(t, Run(ctx, kv, repos, settings, log))

	// The pre-existing table kind is untouched; other kinds still seed.
	tables, err := repos.Tables.List(ctx)
	require.NoError(t, err)
	assert.Len(t, tables, 1)

	products, err := repos.Products.List(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 8)
}
