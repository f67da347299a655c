package dbtest

import (
	"testing"

	"gorm.io/gorm"

	"github.com/Keoroanthony/go-storefront/internal/models"
)

// Catalog is a small seeded catalog:
//
//	electronics/laptops: ultrabook, workstation
//	electronics/phones:  smartphone
//	garden/tools:        (empty)
type Catalog struct {
	Electronics models.Section
	Garden      models.Section
	Laptops     models.Category
	Phones      models.Category
	Tools       models.Category
	Ultrabook   models.Product
	Workstation models.Product
	Smartphone  models.Product
}

func SeedCatalog(t testing.TB, gdb *gorm.DB) Catalog {
	t.Helper()

	var c Catalog
	c.Electronics = models.Section{Name: "Electronics", Slug: "electronics"}
	c.Garden = models.Section{Name: "Garden", Slug: "garden"}
	mustCreate(t, gdb, &c.Electronics)
	mustCreate(t, gdb, &c.Garden)

	c.Laptops = models.Category{Name: "LAPTOPS", Slug: "laptops", SectionID: c.Electronics.ID}
	c.Phones = models.Category{Name: "phones", Slug: "phones", SectionID: c.Electronics.ID}
	c.Tools = models.Category{Name: "tools", Slug: "tools", SectionID: c.Garden.ID}
	mustCreate(t, gdb, &c.Laptops)
	mustCreate(t, gdb, &c.Phones)
	mustCreate(t, gdb, &c.Tools)

	c.Ultrabook = models.Product{Name: "Ultrabook", Slug: "ultrabook", Description: "Thin and light", CategoryID: c.Laptops.ID}
	c.Workstation = models.Product{Name: "Workstation", Slug: "workstation", Description: "Heavy duty", CategoryID: c.Laptops.ID}
	c.Smartphone = models.Product{Name: "Smartphone", Slug: "smartphone", Description: "Pocket sized", CategoryID: c.Phones.ID}
	mustCreate(t, gdb, &c.Ultrabook)
	mustCreate(t, gdb, &c.Workstation)
	mustCreate(t, gdb, &c.Smartphone)

	return c
}

// SeedCustomer creates a user with the given email and its customer.
func SeedCustomer(t testing.TB, gdb *gorm.DB, email string) models.Customer {
	t.Helper()

	u := models.User{Username: email, Email: email}
	mustCreate(t, gdb, &u)
	c := models.Customer{UserID: u.ID}
	mustCreate(t, gdb, &c)
	c.User = &u
	return c
}

func mustCreate(t testing.TB, gdb *gorm.DB, v any) {
	t.Helper()
	if err := gdb.Create(v).Error; err != nil {
		t.Fatalf("failed to seed %T: %v", v, err)
	}
}
