package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/Keoroanthony/go-storefront/internal/auth"
	"github.com/Keoroanthony/go-storefront/internal/catalog"
	"github.com/Keoroanthony/go-storefront/internal/db"
	"github.com/Keoroanthony/go-storefront/internal/models"
	"github.com/Keoroanthony/go-storefront/internal/reviews"
	"github.com/Keoroanthony/go-storefront/internal/validation"
)

// Home lists the articles. GET /
func (s *Shop) Home(c *gin.Context) {
	articles, err := catalog.ListArticles(c.Request.Context(), db.DB)
	if err != nil {
		fail(c, "handlers.Home", err)
		return
	}
	c.HTML(http.StatusOK, "index.html", page(c, "", gin.H{"Articles": articles}))
}

// ListProducts serves both the whole catalog and a single category.
// GET /products and GET /products/:section/:category
func (s *Shop) ListProducts(c *gin.Context) {
	f := catalog.Filter{SectionSlug: c.Param("section"), CategorySlug: c.Param("category")}

	// unparsable pages fall back to the first one
	number, _ := strconv.Atoi(c.Query("page"))

	l, err := catalog.ListProducts(c.Request.Context(), db.DB, f, number, s.PageSize)
	if err != nil {
		fail(c, "handlers.ListProducts", err)
		return
	}

	c.HTML(http.StatusOK, "products.html", page(c, l.Title, gin.H{
		"Products": l.Products,
		"Page":     l.Page,
		"Next":     c.Request.URL.RequestURI(),
	}))
}

// ShowProduct renders a product, its reviews and an empty review form.
// GET /products/:section/:category/:product
func (s *Shop) ShowProduct(c *gin.Context) {
	p, err := catalog.FindProduct(c.Request.Context(), db.DB, c.Param("section"), c.Param("category"), c.Param("product"))
	if err != nil {
		fail(c, "handlers.ShowProduct", err)
		return
	}

	form := reviews.Input{Rating: reviews.MaxRating}
	if u := sessionUser(c); u != nil {
		form.Name = u.Username
	}
	s.renderProduct(c, http.StatusOK, p, form, nil)
}

// SubmitReview stores a review and redirects back to the product, or
// re-renders the page with the form errors.
// POST /products/:section/:category/:product
func (s *Shop) SubmitReview(c *gin.Context) {
	const op = "handlers.SubmitReview"

	ctx := c.Request.Context()
	p, err := catalog.FindProduct(ctx, db.DB, c.Param("section"), c.Param("category"), c.Param("product"))
	if err != nil {
		fail(c, op, err)
		return
	}

	var in reviews.Input
	if err := c.ShouldBind(&in); err != nil {
		ve := validation.Errors{}
		ve.Add("rating", "rating must be between 1 and 5")
		s.renderProduct(c, http.StatusBadRequest, p, in, ve)
		return
	}

	if _, err := reviews.Submit(ctx, db.DB, p, in); err != nil {
		if ve, ok := validation.As(err); ok {
			s.renderProduct(c, http.StatusBadRequest, p, in, ve)
			return
		}
		fail(c, op, err)
		return
	}

	c.Redirect(http.StatusFound, ProductURL(p))
}

func (s *Shop) renderProduct(c *gin.Context, status int, p models.Product, form reviews.Input, ve validation.Errors) {
	if ve == nil {
		ve = validation.Errors{}
	}

	ratings := make([]int, 0, reviews.MaxRating)
	for r := reviews.MinRating; r <= reviews.MaxRating; r++ {
		ratings = append(ratings, r)
	}

	c.HTML(status, "product.html", page(c, p.Name, gin.H{
		"Product": p,
		"Form":    form,
		"Errors":  ve,
		"Ratings": ratings,
		"Next":    c.Request.URL.Path,
	}))
}

// sessionUser loads the principal of the session, if any, without requiring
// one.
func sessionUser(c *gin.Context) *models.User {
	if u := auth.CurrentUser(c); u != nil {
		return u
	}
	id, ok := auth.SessionUserID(sessions.Default(c))
	if !ok {
		return nil
	}
	var u models.User
	if err := db.DB.WithContext(c.Request.Context()).First(&u, id).Error; err != nil {
		return nil
	}
	return &u
}
