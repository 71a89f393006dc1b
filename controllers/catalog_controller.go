package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/2eliot/Inefablestore/models"
	"github.com/2eliot/Inefablestore/repositories"
)

// CatalogController exposes the storefront catalog: public reads for
// buyers, writes for the operator.
type CatalogController struct {
	catalog *repositories.CatalogRepository
}

func NewCatalogController(catalog *repositories.CatalogRepository) *CatalogController {
	return &CatalogController{catalog: catalog}
}

// ListPackages returns the active packages. Public endpoint.
func (cc *CatalogController) ListPackages(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	packages, err := cc.catalog.ListPackages(ctx)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Packages retrieved successfully",
		Data:    packages,
	})
}

// ListItems returns the active items of a package, cheapest first. Public
// endpoint.
func (cc *CatalogController) ListItems(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	packageID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid package ID",
		})
	}

	items, err := cc.catalog.ListActiveItems(ctx, packageID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Items retrieved successfully",
		Data:    items,
	})
}

