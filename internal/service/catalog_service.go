package service

import (
	"context"
	"fmt"

	"github.com/fsdevblog/topup-store/internal/domain"
	"github.com/fsdevblog/topup-store/internal/repository/repoargs"
	"github.com/fsdevblog/topup-store/pkg/uow"
)

type CatalogService struct {
	uow          uow.UOW
	categoryRepo CategoryRepository
	productRepo  ProductRepository
}

func NewCatalogService(u uow.UOW) (*CatalogService, error) {
	categoryRepo, cRepoErr := uow.GetRepositoryAs[CategoryRepository](u, uow.RepositoryName(repoargs.CategoryRepoName))
	if cRepoErr != nil {
		return nil, cRepoErr
	}
	productRepo, pRepoErr := uow.GetRepositoryAs[ProductRepository](u, uow.RepositoryName(repoargs.ProductRepoName))
	if pRepoErr != nil {
		return nil, pRepoErr
	}
	return &CatalogService{
		uow:          u,
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
	}, nil
}

func (s *CatalogService) Categories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categoryRepo.All(ctx)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return categories, nil
}

func (s *CatalogService) Category(ctx context.Context, id int64) (*domain.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return category, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, args repoargs.UpsertCategory) (*domain.Category, error) {
	category, err := s.categoryRepo.Create(ctx, args)
	if err != nil {
		return nil, fmt.Errorf("creating category: %w", err)
	}
	return category, nil
}

func (s *CatalogService) UpdateCategory(
	ctx context.Context,
	id int64,
	args repoargs.UpsertCategory,
) (*domain.Category, error) {
	category, err := s.categoryRepo.Update(ctx, id, args)
	if err != nil {
		return nil, fmt.Errorf("updating category: %w", err)
	}
	return category, nil
}

// DeleteCategory удаляет категорию. Категория с продуктами не удаляется:
// вернется ErrReferenceConstraint.
func (s *CatalogService) DeleteCategory(ctx context.Context, id int64) error {
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		categoryRepo, repoErr := uow.GetAs[CategoryRepository](tx, uow.RepositoryName(repoargs.CategoryRepoName))
		if repoErr != nil {
			return repoErr //nolint:wrapcheck
		}

		count, countErr := categoryRepo.CountProducts(c, id)
		if countErr != nil {
			return countErr //nolint:wrapcheck
		}
		if count > 0 {
			return fmt.Errorf("category has %d products: %w", count, domain.ErrReferenceConstraint)
		}
		return categoryRepo.Delete(c, id) //nolint:wrapcheck
	})
	if txErr != nil {
		return fmt.Errorf("deleting category: %w", txErr)
	}
	return nil
}

// CategoryProducts возвращает категорию вместе с ее продуктами.
func (s *CatalogService) CategoryProducts(ctx context.Context, id int64) (*domain.Category, []domain.Product, error) {
	category, categoryErr := s.categoryRepo.FindByID(ctx, id)
	if categoryErr != nil {
		return nil, nil, categoryErr //nolint:wrapcheck
	}
	products, productsErr := s.productRepo.ListByCategory(ctx, id)
	if productsErr != nil {
		return nil, nil, productsErr //nolint:wrapcheck
	}
	return category, products, nil
}

func (s *CatalogService) Products(
	ctx context.Context,
	filter repoargs.ProductFilter,
) ([]domain.Product, repoargs.Pagination, error) {
	products, total, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, repoargs.Pagination{}, err //nolint:wrapcheck
	}

	pages := total / filter.PerPage
	if total%filter.PerPage > 0 {
		pages++
	}
	return products, repoargs.Pagination{
		Page:    filter.Page,
		PerPage: filter.PerPage,
		Total:   total,
		Pages:   pages,
	}, nil
}

// ProductDetails - продукт вместе с настраиваемыми опциями и остатком на складе.
// Inventory равен nil если остаток для продукта не ведется.
type ProductDetails struct {
	Product       *domain.Product
	CustomOptions []domain.ProductCustomOption
	Inventory     *domain.ProductInventory
}

func (s *CatalogService) Product(ctx context.Context, id int64) (*ProductDetails, error) {
	product, productErr := s.productRepo.FindByID(ctx, id)
	if productErr != nil {
		return nil, productErr //nolint:wrapcheck
	}

	options, optionsErr := s.productRepo.CustomOptions(ctx, id)
	if optionsErr != nil {
		return nil, optionsErr //nolint:wrapcheck
	}

	details := &ProductDetails{
		Product:       product,
		CustomOptions: options,
	}

	inventory, invErr := s.productRepo.Inventory(ctx, id)
	if invErr == nil {
		details.Inventory = inventory
	}
	return details, nil
}

type UpsertProductArgs struct {
	Product       repoargs.UpsertProduct
	CustomOptions []repoargs.CreateCustomOption
	Quantity      *int32
}

// CreateProduct создает продукт вместе с опциями и остатком одной транзакцией.
// Опции сохраняются только для типа custom, остаток - только для типа quantities.
func (s *CatalogService) CreateProduct(ctx context.Context, args UpsertProductArgs) (*domain.Product, error) {
	var product *domain.Product
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		productRepo, repoErr := uow.GetAs[ProductRepository](tx, uow.RepositoryName(repoargs.ProductRepoName))
		if repoErr != nil {
			return repoErr //nolint:wrapcheck
		}

		var createErr error
		product, createErr = productRepo.Create(c, args.Product)
		if createErr != nil {
			return createErr //nolint:wrapcheck
		}
		return s.saveProductExtras(c, productRepo, product, args)
	})
	if txErr != nil {
		return nil, fmt.Errorf("creating product: %w", txErr)
	}
	return product, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id int64, args UpsertProductArgs) (*domain.Product, error) {
	var product *domain.Product
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		productRepo, repoErr := uow.GetAs[ProductRepository](tx, uow.RepositoryName(repoargs.ProductRepoName))
		if repoErr != nil {
			return repoErr //nolint:wrapcheck
		}

		var updateErr error
		product, updateErr = productRepo.Update(c, id, args.Product)
		if updateErr != nil {
			return updateErr //nolint:wrapcheck
		}
		return s.saveProductExtras(c, productRepo, product, args)
	})
	if txErr != nil {
		return nil, fmt.Errorf("updating product: %w", txErr)
	}
	return product, nil
}

func (s *CatalogService) saveProductExtras(
	ctx context.Context,
	productRepo ProductRepository,
	product *domain.Product,
	args UpsertProductArgs,
) error {
	if product.ProductType == domain.ProductTypeCustom {
		if err := productRepo.ReplaceCustomOptions(ctx, product.ID, args.CustomOptions); err != nil {
			return err //nolint:wrapcheck
		}
	}
	if product.ProductType == domain.ProductTypeQuantities && args.Quantity != nil {
		if err := productRepo.SetInventory(ctx, product.ID, *args.Quantity); err != nil {
			return err //nolint:wrapcheck
		}
	}
	return nil
}

// DeleteProduct удаляет продукт. Продукт с заказами не удаляется.
func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) error {
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		productRepo, repoErr := uow.GetAs[ProductRepository](tx, uow.RepositoryName(repoargs.ProductRepoName))
		if repoErr != nil {
			return repoErr //nolint:wrapcheck
		}

		count, countErr := productRepo.CountOrders(c, id)
		if countErr != nil {
			return countErr //nolint:wrapcheck
		}
		if count > 0 {
			return fmt.Errorf("product has %d orders: %w", count, domain.ErrReferenceConstraint)
		}
		return productRepo.Delete(c, id) //nolint:wrapcheck
	})
	if txErr != nil {
		return fmt.Errorf("deleting product: %w", txErr)
	}
	return nil
}

func (s *CatalogService) ToggleProductAvailability(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.productRepo.ToggleAvailability(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("toggling product availability: %w", err)
	}
	return product, nil
}
