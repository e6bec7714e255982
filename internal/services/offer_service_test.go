// internal/services/offer_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/homestead/estate-backend/internal/models"
)

type offerFixture struct {
	db              *gorm.DB
	propertyService *PropertyService
	offerService    *OfferService
	salesman        *models.User
	buyer           *models.Partner
	property        *models.Property
}

func newOfferFixture(t *testing.T, expectedPrice float64) *offerFixture {
	t.Helper()

	db := setupTestDB(t)
	f := &offerFixture{
		db:              db,
		propertyService: newPropertyService(db),
		offerService:    NewOfferService(db, nil),
		salesman:        createTestUser(t, db, "agent1"),
		buyer:           createTestPartner(t, db, "First Buyer"),
	}

	property, err := f.propertyService.CreateProperty(f.salesman.ID, &CreatePropertyRequest{
		Name:          "Garden House",
		ExpectedPrice: expectedPrice,
	})
	require.NoError(t, err)
	f.property = property
	return f
}

func (f *offerFixture) submit(t *testing.T, price float64) *models.Offer {
	t.Helper()
	offer, err := f.offerService.SubmitOffer(&SubmitOfferRequest{
		PropertyID: f.property.ID,
		BuyerID:    f.buyer.ID,
		Price:      price,
	})
	require.NoError(t, err)
	return offer
}

func (f *offerFixture) reloadProperty(t *testing.T) *models.Property {
	t.Helper()
	property, err := f.propertyService.GetProperty(f.property.ID)
	require.NoError(t, err)
	return property
}

func TestSubmitOfferMovesPropertyToOfferReceived(t *testing.T) {
	f := newOfferFixture(t, 100000)

	offer := f.submit(t, 95000)

	assert.Equal(t, 7, offer.Validity)
	assert.Equal(t, models.OfferStatus(""), offer.Status)
	assert.Equal(t, f.property.PropertyTypeID, offer.PropertyTypeID)
	assert.Equal(t, models.PropertyStateOfferReceived, f.reloadProperty(t).State)
}

func TestSubmitOfferMustBeatExistingOffers(t *testing.T) {
	f := newOfferFixture(t, 100000)

	f.submit(t, 100)

	// Matching the best offer is not enough; it must be strictly higher.
	_, err := f.offerService.SubmitOffer(&SubmitOfferRequest{
		PropertyID: f.property.ID,
		BuyerID:    f.buyer.ID,
		Price:      100,
	})
	require.Error(t, err)
	assert.EqualError(t, err, "the offer must be higher than 100.00")

	_, err = f.offerService.SubmitOffer(&SubmitOfferRequest{
		PropertyID: f.property.ID,
		BuyerID:    f.buyer.ID,
		Price:      99,
	})
	require.Error(t, err)
	assert.EqualError(t, err, "the offer must be higher than 100.00")

	best := f.submit(t, 150)
	assert.Equal(t, 150.0, best.Price)
}

func TestSubmitOfferUnknownBuyer(t *testing.T) {
	f := newOfferFixture(t, 100000)

	_, err := f.offerService.SubmitOffer(&SubmitOfferRequest{
		PropertyID: f.property.ID,
		BuyerID:    uuid.New(),
		Price:      95000,
	})
	assert.EqualError(t, err, "buyer not found")
}

func TestAcceptOfferUpdatesPropertyAtomically(t *testing.T) {
	f := newOfferFixture(t, 200000)

	offer := f.submit(t, 190000)
	accepted, err := f.offerService.AcceptOffer(offer.ID)
	require.NoError(t, err)

	assert.Equal(t, models.OfferStatusAccepted, accepted.Status)

	property := f.reloadProperty(t)
	assert.Equal(t, models.PropertyStateOfferAccepted, property.State)
	assert.Equal(t, 190000.0, property.SellingPrice)
	require.NotNil(t, property.BuyerID)
	assert.Equal(t, f.buyer.ID, *property.BuyerID)
}

func TestAcceptOfferBelowFloorRollsBack(t *testing.T) {
	f := newOfferFixture(t, 200000)

	offer := f.submit(t, 150000)
	_, err := f.offerService.AcceptOffer(offer.ID)
	assert.ErrorIs(t, err, ErrSellingPriceTooLow)

	// Nothing moved: not the property, not the offer.
	property := f.reloadProperty(t)
	assert.Equal(t, models.PropertyStateOfferReceived, property.State)
	assert.Zero(t, property.SellingPrice)
	assert.Nil(t, property.BuyerID)

	reloaded, err := f.offerService.GetOffer(offer.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OfferStatus(""), reloaded.Status)
}

func TestAcceptOfferExactlyAtFloor(t *testing.T) {
	f := newOfferFixture(t, 200000)

	offer := f.submit(t, 180000)
	accepted, err := f.offerService.AcceptOffer(offer.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OfferStatusAccepted, accepted.Status)
}

func TestAcceptOfferTwiceFails(t *testing.T) {
	f := newOfferFixture(t, 200000)

	offer := f.submit(t, 190000)
	_, err := f.offerService.AcceptOffer(offer.ID)
	require.NoError(t, err)

	_, err = f.offerService.AcceptOffer(offer.ID)
	assert.ErrorIs(t, err, ErrOfferAlreadyAccepted)
}

func TestRefuseOfferLeavesPropertyAlone(t *testing.T) {
	f := newOfferFixture(t, 100000)

	offer := f.submit(t, 95000)
	refused, err := f.offerService.RefuseOffer(offer.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OfferStatusRefused, refused.Status)

	property := f.reloadProperty(t)
	assert.Equal(t, models.PropertyStateOfferReceived, property.State)
	assert.Zero(t, property.SellingPrice)
	assert.Nil(t, property.BuyerID)
}

func TestOfferDeadlineDerivation(t *testing.T) {
	f := newOfferFixture(t, 100000)

	offer := f.submit(t, 95000)
	property := f.reloadProperty(t)

	expected := time.Date(
		property.CreatedAt.Year(), property.CreatedAt.Month(), property.CreatedAt.Day(),
		0, 0, 0, 0, property.CreatedAt.Location(),
	).AddDate(0, 0, 7)
	assert.Equal(t, expected, offer.DateDeadline)
}

func TestUpdateDeadlineRewritesValidity(t *testing.T) {
	f := newOfferFixture(t, 100000)

	offer := f.submit(t, 95000)
	property := f.reloadProperty(t)

	deadline := property.CreatedAt.AddDate(0, 0, 30)
	updated, err := f.offerService.UpdateDeadline(offer.ID, &UpdateDeadlineRequest{
		DateDeadline: deadline,
	})
	require.NoError(t, err)
	assert.Equal(t, 30, updated.Validity)

	// A deadline on or before the listing date is rejected.
	_, err = f.offerService.UpdateDeadline(offer.ID, &UpdateDeadlineRequest{
		DateDeadline: property.CreatedAt,
	})
	assert.EqualError(t, err, "deadline must be after the property listing date")
}

func TestListByProperty(t *testing.T) {
	f := newOfferFixture(t, 100000)

	f.submit(t, 90000)
	f.submit(t, 95000)

	offers, total, err := f.offerService.ListByProperty(f.property.ID, listParams())
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, offers, 2)
	for _, offer := range offers {
		assert.False(t, offer.DateDeadline.IsZero())
	}
}
