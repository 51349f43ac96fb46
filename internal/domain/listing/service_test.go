package listing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gallopmart/internal/domain/seller"
	"gallopmart/internal/domain/subscription"
)

var t0 = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

type fixture struct {
	svc     *Service
	subs    *subscription.Service
	sellers seller.Repository
	clock   *testClock
	db      *gorm.DB
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()
	dsn := fmt.Sprintf("file:listing_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&seller.Seller{}, &subscription.Subscription{}, &Listing{}); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}

	clock := &testClock{now: t0}
	sellerRepo := seller.NewRepository(db)
	sellerSvc := seller.NewService(sellerRepo, zerolog.Nop())
	subs := subscription.NewService(subscription.NewRepository(db), sellerSvc, zerolog.Nop()).WithClock(clock.Now)
	svc := NewService(NewRepository(db), subs, sellerRepo, zerolog.Nop()).WithClock(clock.Now)

	return &fixture{svc: svc, subs: subs, sellers: sellerRepo, clock: clock, db: db}
}

// newSeller creates a seller on plan; PlanNone leaves the subscription inactive.
func (f *fixture) newSeller(t *testing.T, userID int64, plan subscription.Plan) int64 {
	t.Helper()
	ctx := context.Background()
	s := &seller.Seller{UserID: userID, StableName: fmt.Sprintf("Stable %d", userID), VerificationLevel: seller.VerificationNone}
	require.NoError(t, f.sellers.CreateWithSubscription(ctx, s))
	if plan != subscription.PlanNone {
		_, err := f.subs.ActivateWithProof(ctx, s.ID, plan, subscription.PaymentProof{Accepted: true, Reference: "pay_test"})
		require.NoError(t, err)
	}
	return s.ID
}

func (f *fixture) draft(t *testing.T, sellerID int64, photos, videos int) *Listing {
	t.Helper()
	l, err := f.svc.CreateDraft(context.Background(), sellerID, CreateDraftRequest{
		Title:      "Marwari mare",
		PhotoCount: photos,
		VideoCount: videos,
	})
	require.NoError(t, err)
	return l
}

func (f *fixture) activeCount(t *testing.T, sellerID int64) int {
	t.Helper()
	s, err := f.sellers.GetByID(context.Background(), sellerID)
	require.NoError(t, err)
	return s.ActiveListingsCount
}

// staleRepo keeps serving the listing as it was first read, the view two
// overlapping requests both start from.
type staleRepo struct {
	Repository
	snapshot *Listing
}

func (r *staleRepo) GetForSeller(ctx context.Context, id, sellerID int64) (*Listing, error) {
	if r.snapshot == nil {
		l, err := r.Repository.GetForSeller(ctx, id, sellerID)
		if err != nil {
			return nil, err
		}
		r.snapshot = l
	}
	cp := *r.snapshot
	return &cp, nil
}

// failingRepo fails every write that touches column.
type failingRepo struct {
	Repository
	column string
	err    error
}

func (r *failingRepo) UpdateIfStatus(ctx context.Context, id int64, status Status, fields map[string]any) (bool, error) {
	if _, ok := fields[r.column]; ok {
		return false, r.err
	}
	return r.Repository.UpdateIfStatus(ctx, id, status, fields)
}

func (f *fixture) serviceWith(repo Repository) *Service {
	return NewService(repo, f.subs, f.sellers, zerolog.Nop()).WithClock(f.clock.Now)
}

func (f *fixture) spotlightsUsed(t *testing.T, sellerID int64) int {
	t.Helper()
	n, err := f.sellers.CountSpotlightsThisMonth(context.Background(), sellerID, f.clock.now)
	require.NoError(t, err)
	return n
}

func TestCreateDraft_Validation(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	sellerID := f.newSeller(t, 1, subscription.PlanTrot)

	_, err := f.svc.CreateDraft(ctx, sellerID, CreateDraftRequest{Title: "  "})
	assert.ErrorIs(t, err, ErrInvalidTitle)

	_, err = f.svc.CreateDraft(ctx, sellerID, CreateDraftRequest{Title: "Colt", PhotoCount: -1})
	assert.ErrorIs(t, err, ErrInvalidMedia)

	_, err = f.svc.CreateDraft(ctx, sellerID, CreateDraftRequest{Title: "Colt", PhotoCount: 11})
	assert.ErrorIs(t, err, subscription.ErrPhotoLimitReached)

	l := f.draft(t, sellerID, 10, 1)
	assert.Equal(t, StatusDraft, l.Status)
	assert.Zero(t, f.activeCount(t, sellerID), "drafts do not use quota")

	s, err := f.sellers.GetByID(ctx, sellerID)
	require.NoError(t, err)
	assert.Equal(t, 1, s.TotalListings)
}

func TestCreateDraft_WithoutSubscription(t *testing.T) {
	f := setupFixture(t)
	sellerID := f.newSeller(t, 2, subscription.PlanNone)

	l := f.draft(t, sellerID, 40, 9)
	assert.Equal(t, StatusDraft, l.Status)
}

func TestPublish_RequiresActiveSubscription(t *testing.T) {
	f := setupFixture(t)
	sellerID := f.newSeller(t, 3, subscription.PlanNone)
	l := f.draft(t, sellerID, 1, 0)

	_, err := f.svc.Publish(context.Background(), sellerID, l.ID)
	assert.ErrorIs(t, err, subscription.ErrSubscriptionInactive)
	assert.Zero(t, f.activeCount(t, sellerID))
}

func TestPublish_SetsExpiryAndFeatured(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	gallop := f.newSeller(t, 4, subscription.PlanGallop)
	l := f.draft(t, gallop, 5, 1)
	pub, err := f.svc.Publish(ctx, gallop, l.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusActive, pub.Status)
	assert.True(t, pub.Featured)
	assert.True(t, pub.ExpiresAt.Time.Equal(t0.AddDate(0, 0, 30)))
	assert.Equal(t, 1, f.activeCount(t, gallop))

	_, err = f.svc.Publish(ctx, gallop, l.ID)
	assert.ErrorIs(t, err, ErrAlreadyPublished)

	free := f.newSeller(t, 5, subscription.PlanFree)
	fl := f.draft(t, free, 1, 0)
	pub, err = f.svc.Publish(ctx, free, fl.ID)
	require.NoError(t, err)
	assert.False(t, pub.Featured)
	assert.True(t, pub.ExpiresAt.Time.Equal(t0.AddDate(0, 0, 7)))
}

func TestPublish_MediaCheckedAgainstPlan(t *testing.T) {
	f := setupFixture(t)
	sellerID := f.newSeller(t, 6, subscription.PlanNone)
	l := f.draft(t, sellerID, 2, 0)

	_, err := f.subs.Subscribe(context.Background(), sellerID, "Free")
	require.NoError(t, err)

	_, err = f.svc.Publish(context.Background(), sellerID, l.ID)
	var limitErr *subscription.LimitError
	require.ErrorAs(t, err, &limitErr)
	assert.ErrorIs(t, err, subscription.ErrPhotoLimitReached)
	assert.Equal(t, 1, limitErr.Limit)
	assert.Zero(t, f.activeCount(t, sellerID))
}

func TestPublish_EnforcesListingCeiling(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	sellerID := f.newSeller(t, 7, subscription.PlanTrot)

	for i := 0; i < 10; i++ {
		l := f.draft(t, sellerID, 1, 0)
		_, err := f.svc.Publish(ctx, sellerID, l.ID)
		require.NoError(t, err)
	}

	extra := f.draft(t, sellerID, 1, 0)
	_, err := f.svc.Publish(ctx, sellerID, extra.ID)
	var limitErr *subscription.LimitError
	require.ErrorAs(t, err, &limitErr)
	assert.ErrorIs(t, err, subscription.ErrListingLimitReached)
	assert.Equal(t, 10, limitErr.Limit)
	assert.Equal(t, string(subscription.PlanGallop), limitErr.UpgradeTo)
	assert.Equal(t, 10, f.activeCount(t, sellerID))

	got, err := f.svc.Get(ctx, sellerID, extra.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, got.Status)
}

func TestPublish_OverlappingRequestsHoldOneSlot(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	sellerID := f.newSeller(t, 15, subscription.PlanTrot)
	l := f.draft(t, sellerID, 1, 0)

	stale := f.serviceWith(&staleRepo{Repository: NewRepository(f.db)})
	_, err := stale.Publish(ctx, sellerID, l.ID)
	require.NoError(t, err)
	_, err = stale.Publish(ctx, sellerID, l.ID)
	assert.ErrorIs(t, err, ErrAlreadyPublished)
	assert.Equal(t, 1, f.activeCount(t, sellerID), "losing publish returns its slot")

	_, err = f.svc.Unpublish(ctx, sellerID, l.ID)
	require.NoError(t, err)
	assert.Zero(t, f.activeCount(t, sellerID))
}

func TestPublish_ConcurrentDoubleClick(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	sellerID := f.newSeller(t, 16, subscription.PlanFree)
	l := f.draft(t, sellerID, 1, 0)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Publish(ctx, sellerID, l.ID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, f.activeCount(t, sellerID))

	_, err := f.svc.Unpublish(ctx, sellerID, l.ID)
	require.NoError(t, err)
	_, err = f.svc.Publish(ctx, sellerID, l.ID)
	require.NoError(t, err, "the slot is not leaked")
}

func TestUnpublish_FreesSlot(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	sellerID := f.newSeller(t, 8, subscription.PlanFree)

	first := f.draft(t, sellerID, 1, 0)
	second := f.draft(t, sellerID, 1, 0)
	_, err := f.svc.Publish(ctx, sellerID, first.ID)
	require.NoError(t, err)
	_, err = f.svc.Publish(ctx, sellerID, second.ID)
	require.ErrorIs(t, err, subscription.ErrListingLimitReached)

	l, err := f.svc.Unpublish(ctx, sellerID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, l.Status)
	assert.Zero(t, f.activeCount(t, sellerID))

	_, err = f.svc.Unpublish(ctx, sellerID, first.ID)
	assert.ErrorIs(t, err, ErrNotPublished)

	_, err = f.svc.Publish(ctx, sellerID, second.ID)
	require.NoError(t, err)
}

func TestBoost(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	trot := f.newSeller(t, 9, subscription.PlanTrot)
	tl := f.draft(t, trot, 1, 0)
	_, err := f.svc.Boost(ctx, trot, tl.ID)
	assert.ErrorIs(t, err, ErrNotPublished)

	_, err = f.svc.Publish(ctx, trot, tl.ID)
	require.NoError(t, err)
	_, err = f.svc.Boost(ctx, trot, tl.ID)
	assert.ErrorIs(t, err, subscription.ErrFeatureNotAvailable)

	royal := f.newSeller(t, 10, subscription.PlanRoyalStallion)
	rl := f.draft(t, royal, 30, 5)
	_, err = f.svc.Publish(ctx, royal, rl.ID)
	require.NoError(t, err)
	boosted, err := f.svc.Boost(ctx, royal, rl.ID)
	require.NoError(t, err)
	assert.True(t, boosted.BoostedUntil.Time.Equal(t0.AddDate(0, 0, 7)))

	vis, err := f.svc.Visibility(ctx, royal, rl.ID)
	require.NoError(t, err)
	assert.True(t, vis.Boosted)
	assert.True(t, vis.Featured)

	f.clock.now = t0.AddDate(0, 0, 8)
	vis, err = f.svc.Visibility(ctx, royal, rl.ID)
	require.NoError(t, err)
	assert.False(t, vis.Boosted, "boost window elapsed")
	assert.Equal(t, StatusActive, vis.Status)
}

func TestSpotlight_MonthlyAllowance(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	sellerID := f.newSeller(t, 11, subscription.PlanGallop)

	l := f.draft(t, sellerID, 1, 0)
	_, err := f.svc.Publish(ctx, sellerID, l.ID)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		sp, err := f.svc.Spotlight(ctx, sellerID, l.ID)
		require.NoError(t, err)
		assert.True(t, sp.SpotlightUntil.Time.Equal(t0.AddDate(0, 0, 3)))
	}
	_, err = f.svc.Spotlight(ctx, sellerID, l.ID)
	var limitErr *subscription.LimitError
	require.ErrorAs(t, err, &limitErr)
	assert.ErrorIs(t, err, subscription.ErrSpotlightLimitReached)
	assert.Equal(t, 2, limitErr.Limit)

	f.clock.now = time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)
	_, err = f.svc.Spotlight(ctx, sellerID, l.ID)
	require.NoError(t, err, "a new month brings a fresh allowance")
}

func TestSpotlight_RefundedWhenListingUpdateFails(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	sellerID := f.newSeller(t, 17, subscription.PlanGallop)
	l := f.draft(t, sellerID, 1, 0)
	_, err := f.svc.Publish(ctx, sellerID, l.ID)
	require.NoError(t, err)

	dbErr := errors.New("db unavailable")
	broken := f.serviceWith(&failingRepo{Repository: NewRepository(f.db), column: "spotlight_until", err: dbErr})
	_, err = broken.Spotlight(ctx, sellerID, l.ID)
	assert.ErrorIs(t, err, dbErr)
	assert.Zero(t, f.spotlightsUsed(t, sellerID))

	for i := 0; i < 2; i++ {
		_, err = f.svc.Spotlight(ctx, sellerID, l.ID)
		require.NoError(t, err, "full allowance still available")
	}
}

func TestSpotlightAndBoost_ListingUnpublishedMeanwhile(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	sellerID := f.newSeller(t, 18, subscription.PlanRoyalStallion)
	l := f.draft(t, sellerID, 1, 0)
	_, err := f.svc.Publish(ctx, sellerID, l.ID)
	require.NoError(t, err)

	repo := &staleRepo{Repository: NewRepository(f.db)}
	stale := f.serviceWith(repo)
	_, err = stale.Get(ctx, sellerID, l.ID)
	require.NoError(t, err)

	_, err = f.svc.Unpublish(ctx, sellerID, l.ID)
	require.NoError(t, err)

	_, err = stale.Spotlight(ctx, sellerID, l.ID)
	assert.ErrorIs(t, err, ErrNotPublished)
	assert.Zero(t, f.spotlightsUsed(t, sellerID))

	_, err = stale.Boost(ctx, sellerID, l.ID)
	assert.ErrorIs(t, err, ErrNotPublished)

	got, err := f.svc.Get(ctx, sellerID, l.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, got.Status)
	assert.False(t, got.BoostedUntil.Valid)
	assert.Zero(t, f.activeCount(t, sellerID))
}

func TestSpotlight_NotOnTrot(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	sellerID := f.newSeller(t, 12, subscription.PlanTrot)
	l := f.draft(t, sellerID, 1, 0)
	_, err := f.svc.Publish(ctx, sellerID, l.ID)
	require.NoError(t, err)

	_, err = f.svc.Spotlight(ctx, sellerID, l.ID)
	assert.ErrorIs(t, err, subscription.ErrFeatureNotAvailable)
}

func TestExpireListings(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	sellerID := f.newSeller(t, 13, subscription.PlanFree)

	l := f.draft(t, sellerID, 1, 0)
	_, err := f.svc.Publish(ctx, sellerID, l.ID)
	require.NoError(t, err)

	f.clock.now = t0.AddDate(0, 0, 6)
	n, err := f.svc.ExpireListings(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	f.clock.now = t0.AddDate(0, 0, 7)
	vis, err := f.svc.Visibility(ctx, sellerID, l.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusExpired, vis.Status, "expired on read before the sweep runs")

	n, err = f.svc.ExpireListings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Zero(t, f.activeCount(t, sellerID))

	n, err = f.svc.ExpireListings(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "sweep is idempotent")
}

func TestPublish_RepublishStaleListing(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	sellerID := f.newSeller(t, 14, subscription.PlanTrot)

	l := f.draft(t, sellerID, 1, 0)
	_, err := f.svc.Publish(ctx, sellerID, l.ID)
	require.NoError(t, err)

	f.clock.now = t0.AddDate(0, 0, 30)
	_, err = f.subs.ActivateWithProof(ctx, sellerID, subscription.PlanTrot, subscription.PaymentProof{Accepted: true, Reference: "pay_renew"})
	require.NoError(t, err)

	pub, err := f.svc.Publish(ctx, sellerID, l.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusActive, pub.Status)
	assert.True(t, pub.ExpiresAt.Time.Equal(f.clock.now.AddDate(0, 0, 30)))
	assert.Equal(t, 1, f.activeCount(t, sellerID), "stale slot released before the new claim")
}

func TestVisibilityAt(t *testing.T) {
	l := &Listing{
		Status:         StatusActive,
		Featured:       true,
		ExpiresAt:      validTime(t0.Add(48 * time.Hour)),
		SpotlightUntil: validTime(t0.Add(time.Hour)),
	}
	vis := VisibilityAt(l, t0)
	assert.Equal(t, Visibility{Status: StatusActive, Featured: true, Spotlighted: true}, vis)

	vis = VisibilityAt(l, t0.Add(72*time.Hour))
	assert.Equal(t, Visibility{Status: StatusExpired}, vis)

	draft := &Listing{Status: StatusDraft, Featured: true}
	assert.Equal(t, Visibility{Status: StatusDraft}, VisibilityAt(draft, t0))
}
