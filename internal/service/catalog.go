package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mstepanov/storefront/internal/models"
	"github.com/mstepanov/storefront/internal/repo"
	"github.com/mstepanov/storefront/internal/transport"
)

type CatalogService struct {
	Repo *repo.GormRepo
}

type ListProductsParams struct {
	CategorySlug string
	Status       string
	MinPrice     string
	MaxPrice     string
	Sort         string
	Query        string
}

func (s *CatalogService) ListProducts(ctx context.Context, params ListProductsParams, offset, limit int) (int64, []models.Product, error) {
	filter := repo.ProductFilter{
		Status:   params.Status,
		MinPrice: params.MinPrice,
		MaxPrice: params.MaxPrice,
		Sort:     params.Sort,
		Query:    params.Query,
	}

	if params.CategorySlug != "" {
		cat, err := s.Repo.GetCategoryBySlug(ctx, params.CategorySlug)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, []models.Product{}, nil
			}
			return 0, nil, err
		}
		filter.CategoryID = &cat.ID
	}

	return s.Repo.ListProducts(ctx, filter, offset, limit)
}

func (s *CatalogService) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	product, err := s.Repo.GetProductBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product", ErrNotFound)
		}
		return nil, err
	}
	// Inactive products are hidden from the storefront, matching the listing.
	if product.Status != models.ProductStatusActive {
		return nil, fmt.Errorf("%w: product", ErrNotFound)
	}
	return product, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name required", ErrValidation)
	}
	if req.Price.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: price must be > 0", ErrValidation)
	}
	if err := validateSalePrice(req.SalePrice, req.Price); err != nil {
		return nil, err
	}
	if req.CategoryID == 0 {
		return nil, fmt.Errorf("%w: category_id required", ErrValidation)
	}
	if _, err := s.Repo.GetCategory(ctx, req.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: category does not exist", ErrValidation)
		}
		return nil, err
	}

	slug := req.Slug
	if slug == "" {
		slug = Slugify(req.Name)
	}
	taken, err := s.Repo.SlugTaken(ctx, slug, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: slug already in use", ErrConflict)
	}

	status := req.Status
	if status == "" {
		status = models.ProductStatusActive
	}
	if status != models.ProductStatusActive && status != models.ProductStatusInactive {
		return nil, fmt.Errorf("%w: status must be active or inactive", ErrValidation)
	}

	product := &models.Product{
		Name:        req.Name,
		Slug:        slug,
		Description: req.Description,
		Price:       req.Price,
		SalePrice:   req.SalePrice,
		Stock:       req.Stock,
		Image:       req.Image,
		CategoryID:  req.CategoryID,
		Status:      status,
	}
	return s.Repo.CreateProduct(ctx, product)
}

func (s *CatalogService) PatchProduct(ctx context.Context, req transport.PatchProductRequest, id uint) (*models.Product, error) {
	existing, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	price := existing.Price
	if req.Price != nil {
		if req.Price.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: price must be > 0", ErrValidation)
		}
		price = *req.Price
	}
	salePrice := existing.SalePrice
	if req.SalePrice != nil {
		salePrice = *req.SalePrice
	}
	if err := validateSalePrice(salePrice, price); err != nil {
		return nil, err
	}

	if req.Slug != nil {
		taken, err := s.Repo.SlugTaken(ctx, *req.Slug, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("%w: slug already in use", ErrConflict)
		}
	}
	if req.Status != nil && *req.Status != models.ProductStatusActive && *req.Status != models.ProductStatusInactive {
		return nil, fmt.Errorf("%w: status must be active or inactive", ErrValidation)
	}
	if req.CategoryID != nil {
		if _, err := s.Repo.GetCategory(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: category does not exist", ErrValidation)
			}
			return nil, err
		}
	}

	return s.Repo.PatchProduct(ctx, req, id)
}

// DeleteProduct refuses to remove a product that appears in any order, so
// order-item snapshots keep a valid reference.
func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	n, err := s.Repo.CountOrderItemsForProduct(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: product is referenced by existing orders", ErrConflict)
	}
	return s.Repo.DeleteProduct(ctx, id)
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.Repo.ListCategories(ctx)
}

func (s *CatalogService) CreateCategory(ctx context.Context, req transport.CreateCategoryRequest) (*models.Category, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name required", ErrValidation)
	}

	slug := req.Slug
	if slug == "" {
		slug = Slugify(req.Name)
	}
	taken, err := s.Repo.CategorySlugTaken(ctx, slug, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: slug already in use", ErrConflict)
	}

	if req.ParentID != nil {
		if _, err := s.Repo.GetCategory(ctx, *req.ParentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: parent category does not exist", ErrValidation)
			}
			return nil, err
		}
	}

	cat := &models.Category{Name: req.Name, Slug: slug, ParentID: req.ParentID}
	if err := s.Repo.CreateCategory(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

func (s *CatalogService) PatchCategory(ctx context.Context, req transport.PatchCategoryRequest, id uint) (*models.Category, error) {
	cat, err := s.Repo.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		cat.Name = *req.Name
	}
	if req.Slug != nil {
		taken, err := s.Repo.CategorySlugTaken(ctx, *req.Slug, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("%w: slug already in use", ErrConflict)
		}
		cat.Slug = *req.Slug
	}
	if req.ParentID != nil {
		if *req.ParentID == id {
			return nil, fmt.Errorf("%w: category cannot be its own parent", ErrValidation)
		}
		cat.ParentID = req.ParentID
	}

	if err := s.Repo.SaveCategory(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

// DeleteCategory blocks deletion while the category still has products or
// child categories.
func (s *CatalogService) DeleteCategory(ctx context.Context, id uint) error {
	products, err := s.Repo.CountProductsInCategory(ctx, id)
	if err != nil {
		return err
	}
	if products > 0 {
		return fmt.Errorf("%w: category still has products", ErrConflict)
	}

	children, err := s.Repo.CountChildCategories(ctx, id)
	if err != nil {
		return err
	}
	if children > 0 {
		return fmt.Errorf("%w: category still has subcategories", ErrConflict)
	}

	return s.Repo.DeleteCategory(ctx, id)
}

func validateSalePrice(salePrice decimal.NullDecimal, price decimal.Decimal) error {
	if !salePrice.Valid {
		return nil
	}
	if salePrice.Decimal.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: sale_price must be > 0", ErrValidation)
	}
	if salePrice.Decimal.GreaterThanOrEqual(price) {
		return fmt.Errorf("%w: sale_price must be less than price", ErrValidation)
	}
	return nil
}

// Slugify lowercases a name and collapses every non-alphanumeric run into a
// single dash.
func Slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
