package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Keoroanthony/go-storefront/internal/catalog"
	"github.com/Keoroanthony/go-storefront/internal/db"
	"github.com/Keoroanthony/go-storefront/internal/models"
)

type CreateSectionRequest struct {
	Name string `json:"name" binding:"required,max=128"`
	Slug string `json:"slug" binding:"required,max=128"`
}

type CreateCategoryRequest struct {
	Name      string `json:"name" binding:"required,max=128"`
	Slug      string `json:"slug" binding:"required,max=128"`
	SectionID uint   `json:"section_id" binding:"required"`
}

type CreateProductRequest struct {
	Name        string `json:"name" binding:"required,max=128"`
	Slug        string `json:"slug" binding:"required,max=128"`
	Description string `json:"description" binding:"max=256"`
	Image       string `json:"image" binding:"max=256"`
	CategoryID  uint   `json:"category_id" binding:"required"`
}

func CreateSection(c *gin.Context) {
	var req CreateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	section := models.Section{Name: req.Name, Slug: req.Slug}
	if err := catalog.CreateSection(c.Request.Context(), db.DB, &section); err != nil {
		adminError(c, "handlers.CreateSection", err)
		return
	}
	c.JSON(http.StatusCreated, section)
}

func CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category := models.Category{Name: req.Name, Slug: req.Slug, SectionID: req.SectionID}
	if err := catalog.CreateCategory(c.Request.Context(), db.DB, &category); err != nil {
		if errors.Is(err, catalog.ErrParentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Section not found with ID: %d", req.SectionID)})
			return
		}
		adminError(c, "handlers.CreateCategory", err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product := models.Product{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Image:       req.Image,
		CategoryID:  req.CategoryID,
	}
	if err := catalog.CreateProduct(c.Request.Context(), db.DB, &product); err != nil {
		if errors.Is(err, catalog.ErrParentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Category not found with ID: %d", req.CategoryID)})
			return
		}
		adminError(c, "handlers.CreateProduct", err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func DeleteSection(c *gin.Context) {
	deleteByID(c, "handlers.DeleteSection", catalog.DeleteSection)
}

func DeleteCategory(c *gin.Context) {
	deleteByID(c, "handlers.DeleteCategory", catalog.DeleteCategory)
}

func DeleteProduct(c *gin.Context) {
	deleteByID(c, "handlers.DeleteProduct", catalog.DeleteProduct)
}

type deleteFunc func(ctx context.Context, gdb *gorm.DB, id uint) error

func deleteByID(c *gin.Context, op string, del deleteFunc) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := del(c.Request.Context(), db.DB, uint(id)); err != nil {
		adminError(c, op, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// adminError maps store errors onto JSON responses.
func adminError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, db.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case db.Protected(err):
		c.JSON(http.StatusConflict, gin.H{"error": "still referenced, delete its dependents first"})
	case errors.Is(err, gorm.ErrDuplicatedKey):
		c.JSON(http.StatusConflict, gin.H{"error": "slug already in use"})
	default:
		slog.Error("admin request failed", "op", op, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
