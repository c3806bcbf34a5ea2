package couponrepo_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"marketplace/internal/adapters/out/postgres/couponrepo"
	"marketplace/internal/core/domain/model/coupon"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// CouponRepositoryIntegrationTestSuite provides integration tests for CouponRepository
// using PostgreSQL containers to verify the guarded redemption increment.
type CouponRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *couponrepo.GormCouponRepository
}

func (suite *CouponRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&couponrepo.CouponDTO{}))
}

func (suite *CouponRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE coupons").Error)
	suite.repository = couponrepo.NewGormCouponRepository(suite.db)
}

func (suite *CouponRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *CouponRepositoryIntegrationTestSuite) TestAddAndGet_FlatCoupon_RoundTrips() {
	ctx := context.Background()

	original := suite.flatCoupon("SAVE10", 100)
	suite.Require().NoError(suite.repository.Add(ctx, original))

	retrieved, err := suite.repository.Get(ctx, "save10")
	suite.Require().NoError(err)

	suite.Equal("SAVE10", retrieved.Code())
	suite.Equal(coupon.Flat, retrieved.DiscountType())
	suite.Equal(kernel.MustMoney(1000), retrieved.FlatAmount())
	suite.Equal(kernel.MustMoney(2000), retrieved.MinOrderAmount())
	suite.Equal(100, retrieved.MaxRedemptions())
	suite.Equal(0, retrieved.Redemptions())
}

func (suite *CouponRepositoryIntegrationTestSuite) TestAddAndGet_PercentageCoupon_RoundTrips() {
	ctx := context.Background()

	maxDiscount := kernel.MustMoney(500)
	original, err := coupon.NewPercentageCoupon(
		"TENOFF", 0.1, &maxDiscount,
		kernel.MustMoney(0), time.Now().UTC().Add(24*time.Hour), 50,
	)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Add(ctx, original))

	retrieved, err := suite.repository.Get(ctx, "TENOFF")
	suite.Require().NoError(err)

	suite.Equal(coupon.Percentage, retrieved.DiscountType())
	suite.InDelta(0.1, retrieved.PercentValue(), 1e-9)
	suite.Require().NotNil(retrieved.MaxDiscount())
	suite.Equal(kernel.MustMoney(500), *retrieved.MaxDiscount())
}

func (suite *CouponRepositoryIntegrationTestSuite) TestGet_NonExistentCoupon_ReturnsNotFoundError() {
	retrieved, err := suite.repository.Get(context.Background(), "NOPE")

	suite.Nil(retrieved)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *CouponRepositoryIntegrationTestSuite) TestGet_DeactivatedCoupon_ReturnsNotFoundError() {
	ctx := context.Background()

	suite.Require().NoError(suite.repository.Add(ctx, suite.flatCoupon("OLD", 10)))
	suite.Require().NoError(suite.db.Exec("UPDATE coupons SET active = false WHERE code = 'OLD'").Error)

	retrieved, err := suite.repository.Get(ctx, "OLD")

	suite.Nil(retrieved)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *CouponRepositoryIntegrationTestSuite) TestIncrementRedemption_MovesCounter() {
	ctx := context.Background()

	suite.Require().NoError(suite.repository.Add(ctx, suite.flatCoupon("SAVE10", 100)))

	suite.Require().NoError(suite.repository.IncrementRedemption(ctx, "SAVE10"))
	suite.Require().NoError(suite.repository.IncrementRedemption(ctx, "save10"))

	retrieved, err := suite.repository.Get(ctx, "SAVE10")
	suite.Require().NoError(err)
	suite.Equal(2, retrieved.Redemptions())
}

func (suite *CouponRepositoryIntegrationTestSuite) TestIncrementRedemption_ExhaustedBudget_ReturnsExhausted() {
	ctx := context.Background()

	suite.Require().NoError(suite.repository.Add(ctx, suite.flatCoupon("LAST1", 1)))

	suite.Require().NoError(suite.repository.IncrementRedemption(ctx, "LAST1"))

	err := suite.repository.IncrementRedemption(ctx, "LAST1")
	suite.Require().ErrorIs(err, coupon.ErrExhausted)
}

func (suite *CouponRepositoryIntegrationTestSuite) TestIncrementRedemption_NonExistentCoupon_ReturnsNotFoundError() {
	err := suite.repository.IncrementRedemption(context.Background(), "NOPE")
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

// TestIncrementRedemption_ConcurrentRace verifies the database guard admits
// exactly the redemption budget under concurrent load.
func (suite *CouponRepositoryIntegrationTestSuite) TestIncrementRedemption_ConcurrentRace() {
	ctx := context.Background()
	const budget = 5
	const attempts = 20

	suite.Require().NoError(suite.repository.Add(ctx, suite.flatCoupon("RACE", budget)))

	var redeemed, exhausted atomic.Int64
	var wg sync.WaitGroup
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			switch err := suite.repository.IncrementRedemption(ctx, "RACE"); {
			case err == nil:
				redeemed.Add(1)
			default:
				exhausted.Add(1)
			}
		}()
	}
	wg.Wait()

	suite.Equal(int64(budget), redeemed.Load())
	suite.Equal(int64(attempts-budget), exhausted.Load())

	retrieved, err := suite.repository.Get(ctx, "RACE")
	suite.Require().NoError(err)
	suite.Equal(budget, retrieved.Redemptions())
}

// flatCoupon creates a 10.00 flat coupon with a 20.00 minimum and the given budget.
func (suite *CouponRepositoryIntegrationTestSuite) flatCoupon(code string, budget int) *coupon.Coupon {
	cpn, err := coupon.NewFlatCoupon(
		code, kernel.MustMoney(1000), kernel.MustMoney(2000),
		time.Now().UTC().Add(24*time.Hour), budget,
	)
	suite.Require().NoError(err)
	return cpn
}

func TestCouponRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(CouponRepositoryIntegrationTestSuite))
}
