package identity_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketlens/attribution-engine/internal/domain"
	"github.com/marketlens/attribution-engine/internal/identity"
	"github.com/marketlens/attribution-engine/internal/logger"
	"github.com/marketlens/attribution-engine/internal/mocks"
	"github.com/marketlens/attribution-engine/internal/store/schema"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

type testResolverMocks struct {
	ctrl     *gomock.Controller
	store    *mocks.MockStore
	clock    *mocks.MockClock
	resolver *identity.Resolver
}

func setupTestResolver(t *testing.T) *testResolverMocks {
	ctrl := gomock.NewController(t)

	tm := &testResolverMocks{
		ctrl:  ctrl,
		store: mocks.NewMockStore(ctrl),
		clock: mocks.NewMockClock(ctrl),
	}
	tm.resolver = identity.NewResolver(tm.store, tm.clock)

	return tm
}

func tearDownTestResolver(mocks *testResolverMocks) {
	mocks.ctrl.Finish()
}

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string {
	return &s
}

func testVisitor() *schema.Visitor {
	return &schema.Visitor{
		ID:               "01VISITOR",
		Fingerprint:      "fp-abc",
		FirstUTMSource:   strPtr("google"),
		FirstUTMMedium:   strPtr("cpc"),
		FirstLandingPage: strPtr("https://shop.example.com/sale"),
		FirstGCLID:       strPtr("g-123"),
	}
}

func TestResolver_Identify_NewCustomer(t *testing.T) {
	mocks := setupTestResolver(t)
	defer tearDownTestResolver(mocks)

	ctx := context.Background()

	mocks.clock.EXPECT().Now().Return(testNow)
	mocks.store.EXPECT().
		GetVisitorByFingerprint(ctx, "fp-abc").
		Return(testVisitor(), nil)
	mocks.store.EXPECT().
		GetCustomerByEmail(ctx, "jane@example.com").
		Return(nil, nil)

	var created *schema.Customer
	mocks.store.EXPECT().
		CreateCustomer(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, c *schema.Customer) error {
			created = c
			return nil
		})
	mocks.store.EXPECT().
		LinkVisitorToCustomer(ctx, "01VISITOR", gomock.Any()).
		Return(nil)
	mocks.store.EXPECT().
		MarkSessionConverted(ctx, "sess-1", domain.ConversionTypeEmail, testNow).
		Return(nil)

	result, err := mocks.resolver.Identify(ctx, identity.Identification{
		Email:     "  Jane@Example.COM ",
		FirstName: "Jane",
		VisitorID: "fp-abc",
		SessionID: "sess-1",
	})
	require.NoError(t, err)
	assert.True(t, result.IsNewCustomer)
	assert.NotEmpty(t, result.CustomerID)

	require.NotNil(t, created)
	assert.Equal(t, result.CustomerID, created.ID)
	assert.Equal(t, "jane@example.com", created.Email)
	assert.Equal(t, "Jane", *created.FirstName)
	assert.Equal(t, string(domain.CustomerStatusLead), created.Status)
	assert.Equal(t, testNow, created.EmailCapturedAt)
	// First touch inherited from the visitor
	assert.Equal(t, "google", *created.FirstUTMSource)
	assert.Equal(t, "g-123", *created.FirstGCLID)
}

func TestResolver_Identify_ExistingCustomerMergeIfAbsent(t *testing.T) {
	mocks := setupTestResolver(t)
	defer tearDownTestResolver(mocks)

	ctx := context.Background()

	existing := &schema.Customer{
		ID:             "cust-1",
		Email:          "jane@example.com",
		FirstUTMSource: strPtr("facebook"), // already attributed, must survive
		Status:         string(domain.CustomerStatusLead),
	}

	mocks.clock.EXPECT().Now().Return(testNow)
	mocks.store.EXPECT().
		GetVisitorByFingerprint(ctx, "fp-abc").
		Return(testVisitor(), nil)
	mocks.store.EXPECT().
		GetCustomerByEmail(ctx, "jane@example.com").
		Return(existing, nil)

	var updated *schema.Customer
	mocks.store.EXPECT().
		UpdateCustomer(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, c *schema.Customer) error {
			updated = c
			return nil
		})
	mocks.store.EXPECT().
		LinkVisitorToCustomer(ctx, "01VISITOR", "cust-1").
		Return(nil)
	mocks.store.EXPECT().
		MarkSessionConverted(ctx, "sess-1", domain.ConversionTypeEmail, testNow).
		Return(nil)

	result, err := mocks.resolver.Identify(ctx, identity.Identification{
		Email:     "jane@example.com",
		Phone:     "+1-555-0100",
		VisitorID: "fp-abc",
		SessionID: "sess-1",
	})
	require.NoError(t, err)
	assert.False(t, result.IsNewCustomer)
	assert.Equal(t, "cust-1", result.CustomerID)

	require.NotNil(t, updated)
	// Existing attribution wins; absent fields filled from the visitor
	assert.Equal(t, "facebook", *updated.FirstUTMSource)
	assert.Equal(t, "cpc", *updated.FirstUTMMedium)
	assert.Equal(t, "g-123", *updated.FirstGCLID)
	assert.Equal(t, "+1-555-0100", *updated.Phone)
}

func TestResolver_Identify_UnknownVisitor(t *testing.T) {
	mocks := setupTestResolver(t)
	defer tearDownTestResolver(mocks)

	ctx := context.Background()

	mocks.clock.EXPECT().Now().Return(testNow)
	mocks.store.EXPECT().
		GetVisitorByFingerprint(ctx, "fp-ghost").
		Return(nil, nil)

	// Identify requires a prior session beacon
	_, err := mocks.resolver.Identify(ctx, identity.Identification{
		Email:     "jane@example.com",
		VisitorID: "fp-ghost",
	})
	assert.ErrorIs(t, err, domain.ErrVisitorNotFound)
}

func TestResolver_Identify_BookkeepingFailuresAreNonFatal(t *testing.T) {
	mocks := setupTestResolver(t)
	defer tearDownTestResolver(mocks)

	ctx := context.Background()

	mocks.clock.EXPECT().Now().Return(testNow)
	mocks.store.EXPECT().
		GetVisitorByFingerprint(ctx, "fp-abc").
		Return(testVisitor(), nil)
	mocks.store.EXPECT().
		GetCustomerByEmail(ctx, "jane@example.com").
		Return(nil, nil)
	mocks.store.EXPECT().
		CreateCustomer(ctx, gomock.Any()).
		Return(nil)
	mocks.store.EXPECT().
		LinkVisitorToCustomer(ctx, "01VISITOR", gomock.Any()).
		Return(errors.New("connection reset"))
	mocks.store.EXPECT().
		MarkSessionConverted(ctx, "sess-1", domain.ConversionTypeEmail, testNow).
		Return(domain.ErrSessionNotFound)

	result, err := mocks.resolver.Identify(ctx, identity.Identification{
		Email:     "jane@example.com",
		VisitorID: "fp-abc",
		SessionID: "sess-1",
	})
	require.NoError(t, err)
	assert.True(t, result.IsNewCustomer)
}

func TestResolver_Identify_CustomerStoreFailureIsFatal(t *testing.T) {
	mocks := setupTestResolver(t)
	defer tearDownTestResolver(mocks)

	ctx := context.Background()

	mocks.clock.EXPECT().Now().Return(testNow)
	mocks.store.EXPECT().
		GetVisitorByFingerprint(ctx, "fp-abc").
		Return(testVisitor(), nil)
	mocks.store.EXPECT().
		GetCustomerByEmail(ctx, "jane@example.com").
		Return(nil, errors.New("connection reset"))

	_, err := mocks.resolver.Identify(ctx, identity.Identification{
		Email:     "jane@example.com",
		VisitorID: "fp-abc",
	})
	assert.Error(t, err)
}

func TestResolver_Identify_Validation(t *testing.T) {
	mocks := setupTestResolver(t)
	defer tearDownTestResolver(mocks)

	for _, email := range []string{"", "not-an-email", "missing@dot"} {
		_, err := mocks.resolver.Identify(context.Background(), identity.Identification{
			Email:     email,
			VisitorID: "fp-abc",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, email)
	}

	// Missing visitor id never reaches the store
	_, err := mocks.resolver.Identify(context.Background(), identity.Identification{
		Email: "jane@example.com",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMergeFirstTouch(t *testing.T) {
	t.Run("nil visitor leaves customer unchanged", func(t *testing.T) {
		customer := &schema.Customer{FirstUTMSource: strPtr("facebook")}
		identity.MergeFirstTouch(customer, nil)
		assert.Equal(t, "facebook", *customer.FirstUTMSource)
	})

	t.Run("fills only absent fields", func(t *testing.T) {
		customer := &schema.Customer{FirstUTMSource: strPtr("facebook")}
		identity.MergeFirstTouch(customer, testVisitor())
		assert.Equal(t, "facebook", *customer.FirstUTMSource)
		assert.Equal(t, "cpc", *customer.FirstUTMMedium)
		assert.Equal(t, "https://shop.example.com/sale", *customer.FirstLandingPage)
		assert.Nil(t, customer.FirstUTMCampaign) // absent on both sides
	})
}
