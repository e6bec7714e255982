// internal/services/catalog_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTagUniqueName(t *testing.T) {
	db := setupTestDB(t)
	service := NewCatalogService(db)

	tag, err := service.CreateTag(&CreateTagRequest{Name: "cozy", Color: 3})
	require.NoError(t, err)
	assert.Equal(t, "cozy", tag.Name)

	_, err = service.CreateTag(&CreateTagRequest{Name: "cozy"})
	assert.ErrorIs(t, err, ErrDuplicateTagName)
	assert.Equal(t, "Property tags should have a unique name.", ErrDuplicateTagName.Error())

	// Different name is fine.
	_, err = service.CreateTag(&CreateTagRequest{Name: "renovated"})
	assert.NoError(t, err)
}

func TestListTagsSortedByName(t *testing.T) {
	db := setupTestDB(t)
	service := NewCatalogService(db)

	for _, name := range []string{"seaside", "cozy", "renovated"} {
		_, err := service.CreateTag(&CreateTagRequest{Name: name})
		require.NoError(t, err)
	}

	tags, err := service.ListTags()
	require.NoError(t, err)
	require.Len(t, tags, 3)
	assert.Equal(t, "cozy", tags[0].Name)
	assert.Equal(t, "renovated", tags[1].Name)
	assert.Equal(t, "seaside", tags[2].Name)
}

func TestDeleteTagDetachesFromProperties(t *testing.T) {
	db := setupTestDB(t)
	catalogService := NewCatalogService(db)
	propertyService := newPropertyService(db)
	salesman := createTestUser(t, db, "agent1")

	tag, err := catalogService.CreateTag(&CreateTagRequest{Name: "cozy"})
	require.NoError(t, err)

	property, err := propertyService.CreateProperty(salesman.ID, &CreatePropertyRequest{
		Name:          "Tagged House",
		ExpectedPrice: 100000,
		TagIDs:        []uuid.UUID{tag.ID},
	})
	require.NoError(t, err)
	require.Len(t, property.Tags, 1)

	require.NoError(t, catalogService.DeleteTag(tag.ID))

	reloaded, err := propertyService.GetProperty(property.ID)
	require.NoError(t, err)
	assert.Empty(t, reloaded.Tags)
}

func TestPropertyTypeLifecycle(t *testing.T) {
	db := setupTestDB(t)
	catalogService := NewCatalogService(db)
	propertyService := newPropertyService(db)
	salesman := createTestUser(t, db, "agent1")

	house, err := catalogService.CreatePropertyType(&CreatePropertyTypeRequest{Name: "House", Sequence: 1})
	require.NoError(t, err)

	apartment, err := catalogService.CreatePropertyType(&CreatePropertyTypeRequest{Name: "Apartment", Sequence: 2})
	require.NoError(t, err)

	_, err = catalogService.CreatePropertyType(&CreatePropertyTypeRequest{Name: "House"})
	assert.EqualError(t, err, "property type name already exists")

	types, err := catalogService.ListPropertyTypes()
	require.NoError(t, err)
	require.Len(t, types, 2)
	assert.Equal(t, "House", types[0].Name)

	_, err = propertyService.CreateProperty(salesman.ID, &CreatePropertyRequest{
		Name:           "Typed House",
		ExpectedPrice:  100000,
		PropertyTypeID: &house.ID,
	})
	require.NoError(t, err)

	// Types in use are protected; unused ones go.
	err = catalogService.DeletePropertyType(house.ID)
	assert.EqualError(t, err, "property type is still assigned to properties")

	assert.NoError(t, catalogService.DeletePropertyType(apartment.ID))
	assert.EqualError(t, catalogService.DeletePropertyType(apartment.ID), "property type not found")
}

func TestPartnerSearch(t *testing.T) {
	db := setupTestDB(t)
	service := NewPartnerService(db)

	for _, name := range []string{"Alice Martin", "Bob Martinez", "Carol Jones"} {
		_, err := service.CreatePartner(&CreatePartnerRequest{Name: name})
		require.NoError(t, err)
	}

	params := listParams()
	params.Search = "martin"
	partners, total, err := service.ListPartners(params)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, partners, 2)
}
