package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/2eliot/Inefablestore/middleware"
	"github.com/2eliot/Inefablestore/models"
	"github.com/2eliot/Inefablestore/repositories"
	"github.com/2eliot/Inefablestore/services"
	"github.com/2eliot/Inefablestore/utils"
)

// AffiliateController exposes the referral surface: the public code
// validation used at checkout, the affiliate's own dashboard, and the
// admin CRUD.
type AffiliateController struct {
	affiliates *repositories.AffiliateRepository
	discounts  *services.DiscountService
	orders     *services.OrderService
}

func NewAffiliateController(affiliates *repositories.AffiliateRepository, discounts *services.DiscountService, orders *services.OrderService) *AffiliateController {
	return &AffiliateController{
		affiliates: affiliates,
		discounts:  discounts,
		orders:     orders,
	}
}

// ValidateCode quotes the discount a referral code grants on a package.
// Public endpoint: ?code=X with an optional &packageId=Y target.
func (ac *AffiliateController) ValidateCode(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	code := c.QueryParam("code")
	if code == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Code is required",
		})
	}
	var packageID *primitive.ObjectID
	if raw := c.QueryParam("packageId"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid package ID",
			})
		}
		packageID = &id
	}

	quote, err := ac.discounts.Quote(ctx, code, packageID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Code is valid",
		Data:    quote,
	})
}

// Summary returns the logged-in affiliate's dashboard numbers.
func (ac *AffiliateController) Summary(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	claims := middleware.GetUserFromToken(c)
	id, err := affiliateID(claims)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}

	summary, err := ac.orders.Summary(ctx, id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Summary retrieved successfully",
		Data:    summary,
	})
}

// ListAffiliates returns every affiliate for the admin panel.
func (ac *AffiliateController) ListAffiliates(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	affiliates, err := ac.affiliates.List(ctx)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Affiliates retrieved successfully",
		Data:    affiliates,
	})
}

// CreateAffiliate registers a new referral partner. An empty code gets a
// generated one.
func (ac *AffiliateController) CreateAffiliate(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.AffiliateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if req.Code == "" {
		code, err := utils.GenerateAffiliateCode()
		if err != nil {
			return respondError(c, err)
		}
		req.Code = code
	}

	affiliate := &models.Affiliate{
		Name:   req.Name,
		Code:   req.Code,
		Email:  req.Email,
		Active: true,
		Scope:  models.ScopeAll,
		Discount: models.DiscountSettings{
			Percent:        req.Percent,
			MobilePercent:  req.MobilePercent,
			GiftMaxPercent: req.GiftMaxPercent,
		},
		Commission: models.CommissionSettings{
			Percent:       req.CommissionPercent,
			MobilePercent: req.CommissionMobilePercent,
			GiftPercent:   req.CommissionGiftPercent,
		},
	}
	if req.Active != nil {
		affiliate.Active = *req.Active
	}
	if req.Balance != nil {
		affiliate.Balance = utils.Round2(*req.Balance)
	}
	if req.Password != "" {
		hash, err := utils.HashPassword(req.Password)
		if err != nil {
			return respondError(c, err)
		}
		affiliate.PasswordHash = hash
	}
	if req.Scope == models.ScopePackage {
		pkgID, err := primitive.ObjectIDFromHex(req.ScopePackageID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "A package-scoped code needs a valid package ID",
			})
		}
		affiliate.Scope = models.ScopePackage
		affiliate.ScopePackageID = &pkgID
	}

	if err := ac.affiliates.Create(ctx, affiliate); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Affiliate created successfully",
		Data:    affiliate,
	})
}

// UpdateAffiliate edits an affiliate. Only fields present in the payload
// change; balance edits are an explicit admin override.
func (ac *AffiliateController) UpdateAffiliate(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid affiliate ID",
		})
	}

	var req models.AffiliateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	set := bson.M{}
	if req.Name != "" {
		set["name"] = req.Name
	}
	if req.Code != "" {
		set["code"] = req.Code
		set["codeLower"] = utils.NormalizeCode(req.Code)
	}
	if req.Email != "" {
		set["email"] = req.Email
	}
	if req.Password != "" {
		hash, err := utils.HashPassword(req.Password)
		if err != nil {
			return respondError(c, err)
		}
		set["passwordHash"] = hash
	}
	if req.Active != nil {
		set["active"] = *req.Active
	}
	if req.Balance != nil {
		set["balance"] = utils.Round2(*req.Balance)
	}
	if req.Percent > 0 {
		set["discount.percent"] = req.Percent
	}
	if req.MobilePercent > 0 {
		set["discount.mobilePercent"] = req.MobilePercent
	}
	if req.GiftMaxPercent > 0 {
		set["discount.giftMaxPercent"] = req.GiftMaxPercent
	}
	if req.CommissionPercent > 0 {
		set["commission.percent"] = req.CommissionPercent
	}
	if req.CommissionMobilePercent > 0 {
		set["commission.mobilePercent"] = req.CommissionMobilePercent
	}
	if req.CommissionGiftPercent > 0 {
		set["commission.giftPercent"] = req.CommissionGiftPercent
	}
	switch req.Scope {
	case models.ScopeAll:
		set["scope"] = models.ScopeAll
		set["scopePackageId"] = nil
	case models.ScopePackage:
		pkgID, err := primitive.ObjectIDFromHex(req.ScopePackageID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "A package-scoped code needs a valid package ID",
			})
		}
		set["scope"] = models.ScopePackage
		set["scopePackageId"] = pkgID
	}

	if len(set) == 0 {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Nothing to update",
		})
	}

	if err := ac.affiliates.Update(ctx, id, set); err != nil {
		return respondError(c, err)
	}

	affiliate, err := ac.affiliates.FindByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Affiliate updated successfully",
		Data:    affiliate,
	})
}

// DeleteAffiliate removes an affiliate.
func (ac *AffiliateController) DeleteAffiliate(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid affiliate ID",
		})
	}

	if err := ac.affiliates.Delete(ctx, id); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Affiliate deleted successfully",
	})
}
