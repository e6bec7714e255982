// internal/services/property_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/homestead/estate-backend/internal/models"
)

func newPropertyService(db *gorm.DB) *PropertyService {
	return NewPropertyService(db, NewAccountingService(db, testConfig()))
}

func TestCreatePropertyDefaults(t *testing.T) {
	db := setupTestDB(t)
	salesman := createTestUser(t, db, "agent1")
	service := newPropertyService(db)

	before := time.Now()
	property, err := service.CreateProperty(salesman.ID, &CreatePropertyRequest{
		Name:          "Quiet Villa",
		ExpectedPrice: 250000,
	})
	require.NoError(t, err)

	assert.Equal(t, models.PropertyStateNew, property.State)
	assert.Equal(t, 2, property.Bedrooms)
	assert.Equal(t, models.GardenOrientationNorth, property.GardenOrientation)
	assert.Equal(t, salesman.ID, property.SalesmanID)
	assert.Nil(t, property.BuyerID)
	assert.Zero(t, property.SellingPrice)
	assert.True(t, property.Active)

	// Availability defaults to three months out.
	expected := before.AddDate(0, 3, 0)
	assert.WithinDuration(t, expected, property.DateAvailability, time.Minute)
}

func TestCreatePropertyExplicitValues(t *testing.T) {
	db := setupTestDB(t)
	salesman := createTestUser(t, db, "agent1")
	service := newPropertyService(db)

	bedrooms := 4
	availability := time.Date(2027, 1, 15, 0, 0, 0, 0, time.UTC)
	property, err := service.CreateProperty(salesman.ID, &CreatePropertyRequest{
		Name:              "Townhouse",
		ExpectedPrice:     180000,
		Bedrooms:          &bedrooms,
		DateAvailability:  &availability,
		Garden:            true,
		GardenArea:        25,
		GardenOrientation: "south",
		LivingArea:        120,
	})
	require.NoError(t, err)

	assert.Equal(t, 4, property.Bedrooms)
	assert.Equal(t, models.GardenOrientationSouth, property.GardenOrientation)
	assert.Equal(t, 145, property.TotalArea)
}

func TestCreatePropertyRejectsNegativePrice(t *testing.T) {
	db := setupTestDB(t)
	salesman := createTestUser(t, db, "agent1")
	service := newPropertyService(db)

	_, err := service.CreateProperty(salesman.ID, &CreatePropertyRequest{
		Name:          "Bad Listing",
		ExpectedPrice: -1,
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestCheckPriceInvariant(t *testing.T) {
	// Zero selling price means no accepted offer yet; nothing to check.
	assert.NoError(t, checkPriceInvariant(0, 100000))

	assert.NoError(t, checkPriceInvariant(90000, 100000))
	assert.NoError(t, checkPriceInvariant(95000, 100000))

	err := checkPriceInvariant(89999, 100000)
	assert.ErrorIs(t, err, ErrSellingPriceTooLow)
}

func TestUpdatePropertyExpectedPriceFloor(t *testing.T) {
	db := setupTestDB(t)
	salesman := createTestUser(t, db, "agent1")
	buyer := createTestPartner(t, db, "Alice Buyer")
	propertyService := newPropertyService(db)
	offerService := NewOfferService(db, nil)

	property, err := propertyService.CreateProperty(salesman.ID, &CreatePropertyRequest{
		Name:          "Loft",
		ExpectedPrice: 100000,
	})
	require.NoError(t, err)

	offer, err := offerService.SubmitOffer(&SubmitOfferRequest{
		PropertyID: property.ID,
		BuyerID:    buyer.ID,
		Price:      95000,
	})
	require.NoError(t, err)
	_, err = offerService.AcceptOffer(offer.ID)
	require.NoError(t, err)

	// Raising the expected price above selling/0.9 violates the floor.
	tooHigh := 120000.0
	_, err = propertyService.UpdateProperty(property.ID, &UpdatePropertyRequest{
		ExpectedPrice: &tooHigh,
	})
	assert.ErrorIs(t, err, ErrSellingPriceTooLow)

	fine := 105000.0
	updated, err := propertyService.UpdateProperty(property.ID, &UpdatePropertyRequest{
		ExpectedPrice: &fine,
	})
	require.NoError(t, err)
	assert.Equal(t, 105000.0, updated.ExpectedPrice)
	assert.Equal(t, 95000.0, updated.SellingPrice)
}

func TestMarkSoldOnCanceledFails(t *testing.T) {
	db := setupTestDB(t)
	salesman := createTestUser(t, db, "agent1")
	service := newPropertyService(db)

	property, err := service.CreateProperty(salesman.ID, &CreatePropertyRequest{
		Name:          "Cottage",
		ExpectedPrice: 80000,
	})
	require.NoError(t, err)

	_, err = service.CancelProperty(property.ID)
	require.NoError(t, err)

	_, err = service.MarkSold(property.ID)
	assert.ErrorIs(t, err, ErrSellCanceledProperty)
	assert.Equal(t, "Canceled properties cannot be sold.", ErrSellCanceledProperty.Error())
}

func TestCancelOnSoldFails(t *testing.T) {
	db := setupTestDB(t)
	salesman := createTestUser(t, db, "agent1")
	service := newPropertyService(db)

	property, err := service.CreateProperty(salesman.ID, &CreatePropertyRequest{
		Name:          "Bungalow",
		ExpectedPrice: 80000,
	})
	require.NoError(t, err)

	sold, err := service.MarkSold(property.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PropertyStateSold, sold.State)

	_, err = service.CancelProperty(property.ID)
	assert.ErrorIs(t, err, ErrCancelSoldProperty)
	assert.Equal(t, "Sold properties cannot be canceled.", ErrCancelSoldProperty.Error())
}

func TestMarkSoldIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	salesman := createTestUser(t, db, "agent1")
	service := newPropertyService(db)

	property, err := service.CreateProperty(salesman.ID, &CreatePropertyRequest{
		Name:          "Chalet",
		ExpectedPrice: 80000,
	})
	require.NoError(t, err)

	_, err = service.MarkSold(property.ID)
	require.NoError(t, err)

	again, err := service.MarkSold(property.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PropertyStateSold, again.State)
}

func TestMarkSoldCreatesInvoice(t *testing.T) {
	db := setupTestDB(t)
	salesman := createTestUser(t, db, "agent1")
	buyer := createTestPartner(t, db, "Bob Buyer")
	propertyService := newPropertyService(db)
	offerService := NewOfferService(db, nil)

	property, err := propertyService.CreateProperty(salesman.ID, &CreatePropertyRequest{
		Name:          "Manor",
		ExpectedPrice: 200000,
	})
	require.NoError(t, err)

	offer, err := offerService.SubmitOffer(&SubmitOfferRequest{
		PropertyID: property.ID,
		BuyerID:    buyer.ID,
		Price:      190000,
	})
	require.NoError(t, err)
	_, err = offerService.AcceptOffer(offer.ID)
	require.NoError(t, err)

	sold, err := propertyService.MarkSold(property.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PropertyStateSold, sold.State)

	var invoice models.Invoice
	require.NoError(t, db.Preload("Lines").Where("property_id = ?", property.ID).First(&invoice).Error)

	// 6% commission plus 100.00 administrative fees.
	assert.InDelta(t, 190000*0.06+100, invoice.Total, 0.001)
	assert.Equal(t, buyer.ID, invoice.PartnerID)
	require.Len(t, invoice.Lines, 2)
	labels := []string{invoice.Lines[0].Label, invoice.Lines[1].Label}
	assert.Contains(t, labels, "6.00% commission on Manor")
	assert.Contains(t, labels, "Administrative fees")
}

func TestMarkSoldWithoutBuyerSkipsInvoice(t *testing.T) {
	db := setupTestDB(t)
	salesman := createTestUser(t, db, "agent1")
	service := newPropertyService(db)

	property, err := service.CreateProperty(salesman.ID, &CreatePropertyRequest{
		Name:          "Empty Lot",
		ExpectedPrice: 50000,
	})
	require.NoError(t, err)

	_, err = service.MarkSold(property.ID)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Invoice{}).Where("property_id = ?", property.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeletePropertyRules(t *testing.T) {
	db := setupTestDB(t)
	salesman := createTestUser(t, db, "agent1")
	buyer := createTestPartner(t, db, "Carol Buyer")
	propertyService := newPropertyService(db)
	offerService := NewOfferService(db, nil)

	t.Run("new property can be deleted", func(t *testing.T) {
		property, err := propertyService.CreateProperty(salesman.ID, &CreatePropertyRequest{
			Name: "Fresh", ExpectedPrice: 100000,
		})
		require.NoError(t, err)

		require.NoError(t, propertyService.DeleteProperty(property.ID))
		_, err = propertyService.GetProperty(property.ID)
		assert.EqualError(t, err, "property not found")
	})

	t.Run("canceled property can be deleted", func(t *testing.T) {
		property, err := propertyService.CreateProperty(salesman.ID, &CreatePropertyRequest{
			Name: "Withdrawn", ExpectedPrice: 100000,
		})
		require.NoError(t, err)
		_, err = propertyService.CancelProperty(property.ID)
		require.NoError(t, err)

		assert.NoError(t, propertyService.DeleteProperty(property.ID))
	})

	t.Run("property with offers cannot be deleted", func(t *testing.T) {
		property, err := propertyService.CreateProperty(salesman.ID, &CreatePropertyRequest{
			Name: "Contested", ExpectedPrice: 100000,
		})
		require.NoError(t, err)

		_, err = offerService.SubmitOffer(&SubmitOfferRequest{
			PropertyID: property.ID,
			BuyerID:    buyer.ID,
			Price:      100000,
		})
		require.NoError(t, err)

		err = propertyService.DeleteProperty(property.ID)
		assert.ErrorIs(t, err, ErrDeleteActiveProperty)

		// Still there.
		_, err = propertyService.GetProperty(property.ID)
		assert.NoError(t, err)
	})
}

func TestDuplicatePropertyResetsSaleFields(t *testing.T) {
	db := setupTestDB(t)
	salesman := createTestUser(t, db, "agent1")
	buyer := createTestPartner(t, db, "Dora Buyer")
	propertyService := newPropertyService(db)
	offerService := NewOfferService(db, nil)

	property, err := propertyService.CreateProperty(salesman.ID, &CreatePropertyRequest{
		Name:          "Penthouse A",
		ExpectedPrice: 300000,
		LivingArea:    200,
	})
	require.NoError(t, err)

	offer, err := offerService.SubmitOffer(&SubmitOfferRequest{
		PropertyID: property.ID,
		BuyerID:    buyer.ID,
		Price:      290000,
	})
	require.NoError(t, err)
	_, err = offerService.AcceptOffer(offer.ID)
	require.NoError(t, err)

	clone, err := propertyService.DuplicateProperty(property.ID, salesman.ID)
	require.NoError(t, err)

	assert.Equal(t, "Penthouse A (copy)", clone.Name)
	assert.Equal(t, models.PropertyStateNew, clone.State)
	assert.Zero(t, clone.SellingPrice)
	assert.Nil(t, clone.BuyerID)
	assert.Empty(t, clone.Offers)
	assert.Equal(t, 300000.0, clone.ExpectedPrice)
	assert.Equal(t, 200, clone.LivingArea)
}

func TestSearchPropertiesExcludesClosedByDefault(t *testing.T) {
	db := setupTestDB(t)
	salesman := createTestUser(t, db, "agent1")
	service := newPropertyService(db)

	open, err := service.CreateProperty(salesman.ID, &CreatePropertyRequest{
		Name: "Open Listing", ExpectedPrice: 100000,
	})
	require.NoError(t, err)

	closed, err := service.CreateProperty(salesman.ID, &CreatePropertyRequest{
		Name: "Closed Listing", ExpectedPrice: 100000,
	})
	require.NoError(t, err)
	_, err = service.CancelProperty(closed.ID)
	require.NoError(t, err)

	properties, total, err := service.SearchProperties(PropertySearchParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, properties, 1)
	assert.Equal(t, open.ID, properties[0].ID)

	_, total, err = service.SearchProperties(PropertySearchParams{IncludeClosed: true})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}
