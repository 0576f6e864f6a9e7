package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupGateway starts a disposable Postgres and points both handles at it.
func setupGateway(t *testing.T) *database.Gateway {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping database tests in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_DB":       "testdb",
				"POSTGRES_USER":     "testuser",
				"POSTGRES_PASSWORD": "testpass",
			},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("5432/tcp"),
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			).WithDeadline(3 * time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err, "failed to start container")
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://testuser:testpass@%s:%s/testdb?sslmode=disable", host, port.Port())
	var db *gorm.DB
	for i := 0; i < 10; i++ {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
		if err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	require.NoError(t, err, "failed to connect")

	gw := &database.Gateway{Privileged: db, Restricted: db}
	require.NoError(t, gw.Migrate())
	t.Cleanup(func() { _ = gw.Close() })
	return gw
}

func TestRepositories(t *testing.T) {
	gw := setupGateway(t)
	ctx := context.Background()

	accounts := NewAccountRepository(gw)
	profiles := NewProfileRepository(gw)
	products := NewProductRepository(gw)
	subs := NewSubscriptionRepository(gw)

	t.Run("accounts", func(t *testing.T) {
		acc, err := accounts.SignUp(ctx, " A@X.com ", "password1")
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", acc.Email)
		assert.NotEqual(t, "password1", acc.PasswordHash)

		_, err = accounts.SignUp(ctx, "a@x.com", "password2")
		assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

		got, err := accounts.SignIn(ctx, "a@x.com", "password1")
		require.NoError(t, err)
		assert.Equal(t, acc.ID, got.ID)

		_, err = accounts.SignIn(ctx, "a@x.com", "wrong-password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		_, err = accounts.SignIn(ctx, "nobody@x.com", "password1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("profiles", func(t *testing.T) {
		id := uuid.NewString()
		require.NoError(t, profiles.Create(ctx, &models.Profile{ID: id, Email: "p@x.com", FullName: "P", Role: models.RoleUser}))

		dup := &models.Profile{ID: uuid.NewString(), Email: "p@x.com", FullName: "Q", Role: models.RoleUser}
		assert.Equal(t, apperr.KindConflict, apperr.KindOf(profiles.Create(ctx, dup)))

		name := "Pat"
		p, err := profiles.Update(ctx, id, models.ProfileChanges{FullName: &name})
		require.NoError(t, err)
		assert.Equal(t, "Pat", p.FullName)
		assert.Equal(t, "p@x.com", p.Email)

		_, err = profiles.Update(ctx, uuid.NewString(), models.ProfileChanges{FullName: &name})
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
		_, err = profiles.Get(ctx, uuid.NewString())
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})

	t.Run("products", func(t *testing.T) {
		p := &models.Product{Name: "Pro", Price: 19.99}
		require.NoError(t, products.Create(ctx, p))
		require.NotEmpty(t, p.ID)

		got, err := products.Get(ctx, p.ID)
		require.NoError(t, err)
		assert.Empty(t, got.Features)
		assert.False(t, got.HasStripePrice())

		updated, err := products.Update(ctx, p.ID, models.ProductInput{Name: "Pro+", Price: 29, Features: []string{"sso"}})
		require.NoError(t, err)
		assert.Equal(t, "Pro+", updated.Name)
		assert.Equal(t, []string{"sso"}, []string(updated.Features))

		_, err = products.Update(ctx, uuid.NewString(), models.ProductInput{Name: "X", Price: 1})
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

		bad := &models.Product{Name: "Free", Price: 0}
		assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(products.Create(ctx, bad)))
	})

	t.Run("stripe price is set once", func(t *testing.T) {
		p := &models.Product{Name: "Team", Price: 49}
		require.NoError(t, products.Create(ctx, p))

		stored, err := products.SetStripePriceID(ctx, p.ID, "price_first")
		require.NoError(t, err)
		assert.True(t, stored)

		stored, err = products.SetStripePriceID(ctx, p.ID, "price_second")
		require.NoError(t, err)
		assert.False(t, stored)

		got, err := products.Get(ctx, p.ID)
		require.NoError(t, err)
		require.True(t, got.HasStripePrice())
		assert.Equal(t, "price_first", *got.StripePriceID)
	})

	t.Run("subscriptions", func(t *testing.T) {
		userID := uuid.NewString()
		require.NoError(t, profiles.Create(ctx, &models.Profile{ID: userID, Email: "s@x.com", FullName: "S", Role: models.RoleUser}))
		product := &models.Product{Name: "Solo", Price: 9}
		require.NoError(t, products.Create(ctx, product))

		stripeID := "sub_" + uuid.NewString()
		start := time.Now().UTC()
		end := start.Add(models.SubscriptionPeriod)
		sub := &models.Subscription{
			UserID:               userID,
			ProductID:            product.ID,
			Status:               models.StatusActive,
			StartDate:            start,
			EndDate:              &end,
			StripeSubscriptionID: &stripeID,
		}
		require.NoError(t, subs.Create(ctx, sub))

		orphan := &models.Subscription{UserID: userID, ProductID: uuid.NewString(), Status: models.StatusActive, StartDate: start}
		assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(subs.Create(ctx, orphan)))

		mine, err := subs.ListByUser(ctx, userID)
		require.NoError(t, err)
		require.Len(t, mine, 1)

		n, err := subs.SetStatusByStripeID(ctx, stripeID, models.StatusPastDue)
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)

		canceledAt := time.Now().UTC().Truncate(time.Second)
		canceled, err := subs.UpdateStatus(ctx, sub.ID, models.StatusCanceled, &canceledAt)
		require.NoError(t, err)
		assert.Equal(t, models.StatusCanceled, canceled.Status)
		require.NotNil(t, canceled.EndDate)
		assert.True(t, canceledAt.Equal(*canceled.EndDate))

		_, err = subs.UpdateStatus(ctx, uuid.NewString(), models.StatusActive, nil)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

		// A product with subscriptions cannot be deleted.
		assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(products.Delete(ctx, product.ID)))
	})
}
