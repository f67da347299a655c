package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Keoroanthony/go-storefront/internal/catalog"
	"github.com/Keoroanthony/go-storefront/internal/db"
	"github.com/Keoroanthony/go-storefront/internal/db/dbtest"
	"github.com/Keoroanthony/go-storefront/internal/models"
)

func TestFilterIsCategory(t *testing.T) {
	assert.True(t, catalog.Filter{SectionSlug: "s", CategorySlug: "c"}.IsCategory())
	assert.False(t, catalog.Filter{SectionSlug: "s"}.IsCategory())
	assert.False(t, catalog.Filter{CategorySlug: "c"}.IsCategory())
	assert.False(t, catalog.Filter{}.IsCategory())
}

func TestListProducts(t *testing.T) {
	gdb := dbtest.Open(t)
	seed := dbtest.SeedCatalog(t, gdb)
	ctx := context.Background()

	t.Run("all products", func(t *testing.T) {
		l, err := catalog.ListProducts(ctx, gdb, catalog.Filter{}, 1, 5)
		require.NoError(t, err)
		assert.Equal(t, catalog.AllProductsTitle, l.Title)
		assert.Nil(t, l.Category)
		assert.Len(t, l.Products, 3)
		assert.Equal(t, 1, l.Page.Count)
		require.NotNil(t, l.Products[0].Category)
		require.NotNil(t, l.Products[0].Category.Section)
		assert.Equal(t, "electronics", l.Products[0].Category.Section.Slug)
	})

	t.Run("only one slug lists everything", func(t *testing.T) {
		l, err := catalog.ListProducts(ctx, gdb, catalog.Filter{CategorySlug: "phones"}, 1, 5)
		require.NoError(t, err)
		assert.Equal(t, catalog.AllProductsTitle, l.Title)
		assert.Len(t, l.Products, 3)
	})

	t.Run("by category", func(t *testing.T) {
		l, err := catalog.ListProducts(ctx, gdb, catalog.Filter{SectionSlug: "electronics", CategorySlug: "laptops"}, 1, 5)
		require.NoError(t, err)
		assert.Equal(t, "Laptops", l.Title)
		require.Len(t, l.Products, 2)
		assert.Equal(t, seed.Ultrabook.ID, l.Products[0].ID)
		assert.Equal(t, seed.Workstation.ID, l.Products[1].ID)
	})

	t.Run("paginates and clamps", func(t *testing.T) {
		l, err := catalog.ListProducts(ctx, gdb, catalog.Filter{}, 2, 2)
		require.NoError(t, err)
		assert.Equal(t, 2, l.Page.Number)
		assert.Equal(t, 2, l.Page.Count)
		require.Len(t, l.Products, 1)
		assert.Equal(t, seed.Smartphone.ID, l.Products[0].ID)

		l, err = catalog.ListProducts(ctx, gdb, catalog.Filter{}, 99, 2)
		require.NoError(t, err)
		assert.Equal(t, 2, l.Page.Number)

		l, err = catalog.ListProducts(ctx, gdb, catalog.Filter{}, -1, 2)
		require.NoError(t, err)
		assert.Equal(t, 1, l.Page.Number)
		assert.Len(t, l.Products, 2)
	})

	t.Run("unknown category", func(t *testing.T) {
		_, err := catalog.ListProducts(ctx, gdb, catalog.Filter{SectionSlug: "electronics", CategorySlug: "nope"}, 1, 5)
		assert.ErrorIs(t, err, db.ErrNotFound)
	})

	t.Run("category under the wrong section", func(t *testing.T) {
		_, err := catalog.ListProducts(ctx, gdb, catalog.Filter{SectionSlug: "garden", CategorySlug: "laptops"}, 1, 5)
		assert.ErrorIs(t, err, db.ErrNotFound)
	})

	t.Run("empty category", func(t *testing.T) {
		l, err := catalog.ListProducts(ctx, gdb, catalog.Filter{SectionSlug: "garden", CategorySlug: "tools"}, 1, 5)
		require.NoError(t, err)
		assert.Empty(t, l.Products)
		assert.Equal(t, 1, l.Page.Count)
	})
}

func TestFindProduct(t *testing.T) {
	gdb := dbtest.Open(t)
	seed := dbtest.SeedCatalog(t, gdb)
	ctx := context.Background()

	require.NoError(t, gdb.Create(&models.Review{ProductID: seed.Ultrabook.ID, Name: "Ann", Content: "very nice", Rating: 5}).Error)

	p, err := catalog.FindProduct(ctx, gdb, "electronics", "laptops", "ultrabook")
	require.NoError(t, err)
	assert.Equal(t, seed.Ultrabook.ID, p.ID)
	require.Len(t, p.Reviews, 1)
	assert.Equal(t, "★★★★★", p.Reviews[0].Stars())
	require.NotNil(t, p.Category)
	assert.Equal(t, "electronics", p.Category.Section.Slug)

	for _, slugs := range [][3]string{
		{"nope", "laptops", "ultrabook"},
		{"electronics", "nope", "ultrabook"},
		{"electronics", "laptops", "nope"},
		{"electronics", "phones", "ultrabook"},
	} {
		_, err := catalog.FindProduct(ctx, gdb, slugs[0], slugs[1], slugs[2])
		assert.ErrorIs(t, err, db.ErrNotFound, "%v", slugs)
	}
}

func TestListArticles(t *testing.T) {
	gdb := dbtest.Open(t)
	seed := dbtest.SeedCatalog(t, gdb)

	first := models.Article{Name: "Spring sale", Text: "...", Products: []models.Product{seed.Ultrabook}}
	second := models.Article{Name: "New phones", Text: "..."}
	require.NoError(t, gdb.Create(&first).Error)
	require.NoError(t, gdb.Create(&second).Error)

	as, err := catalog.ListArticles(context.Background(), gdb)
	require.NoError(t, err)
	require.Len(t, as, 2)
	assert.Equal(t, "Spring sale", as[0].Name)
	require.Len(t, as[0].Products, 1)
	assert.Equal(t, seed.Ultrabook.ID, as[0].Products[0].ID)
}

func TestNewPage(t *testing.T) {
	p := catalog.NewPage(1, 5, 0)
	assert.Equal(t, 1, p.Count)
	assert.False(t, p.HasPrev())
	assert.False(t, p.HasNext())

	p = catalog.NewPage(2, 5, 11)
	assert.Equal(t, 3, p.Count)
	assert.Equal(t, 5, p.Offset())
	assert.True(t, p.HasPrev())
	assert.True(t, p.HasNext())
	assert.Equal(t, 1, p.Prev())
	assert.Equal(t, 3, p.Next())
}
