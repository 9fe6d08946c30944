package service

import (
	"context"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/fsdevblog/topup-store/internal/domain"
	"github.com/fsdevblog/topup-store/internal/repository/repoargs"
	"github.com/fsdevblog/topup-store/internal/service/mocks"
	"github.com/fsdevblog/topup-store/pkg/uow"
	uowmocks "github.com/fsdevblog/topup-store/pkg/uow/mocks"
)

type CatalogServiceTestSuite struct {
	suite.Suite
	mockUOW          *uowmocks.MockUOW
	mockTX           *uowmocks.MockTX
	mockCategoryRepo *mocks.MockCategoryRepository
	mockProductRepo  *mocks.MockProductRepository
	catalogService   *CatalogService
}

func TestCatalogServiceSuite(t *testing.T) {
	suite.Run(t, new(CatalogServiceTestSuite))
}

func (s *CatalogServiceTestSuite) SetupTest() {
	mockCtrl := gomock.NewController(s.T())
	s.mockUOW = uowmocks.NewMockUOW(mockCtrl)
	s.mockTX = uowmocks.NewMockTX(mockCtrl)
	s.mockCategoryRepo = mocks.NewMockCategoryRepository(mockCtrl)
	s.mockProductRepo = mocks.NewMockProductRepository(mockCtrl)

	s.mockUOW.EXPECT().GetRepository(uow.RepositoryName(repoargs.CategoryRepoName)).
		Return(s.mockCategoryRepo, nil).AnyTimes()
	s.mockUOW.EXPECT().GetRepository(uow.RepositoryName(repoargs.ProductRepoName)).
		Return(s.mockProductRepo, nil).AnyTimes()

	catalogService, servErr := NewCatalogService(s.mockUOW)
	s.Require().NoError(servErr)
	s.catalogService = catalogService
}

func (s *CatalogServiceTestSuite) expectDo() {
	s.mockUOW.EXPECT().Do(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fn func(context.Context, uow.TX) error) error {
			return fn(s.T().Context(), s.mockTX)
		})
}

func (s *CatalogServiceTestSuite) TestDeleteCategory() {
	categoryID := int64(1)

	s.expectDo()
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.CategoryRepoName)).Return(s.mockCategoryRepo, nil)
	s.mockCategoryRepo.EXPECT().CountProducts(gomock.Any(), categoryID).Return(int64(0), nil)
	s.mockCategoryRepo.EXPECT().Delete(gomock.Any(), categoryID).Return(nil)

	s.Require().NoError(s.catalogService.DeleteCategory(s.T().Context(), categoryID))
}

// TestDeleteCategoryWithProducts проверяет защиту от удаления: категория с
// продуктами остается на месте.
func (s *CatalogServiceTestSuite) TestDeleteCategoryWithProducts() {
	categoryID := int64(1)

	s.expectDo()
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.CategoryRepoName)).Return(s.mockCategoryRepo, nil)
	s.mockCategoryRepo.EXPECT().CountProducts(gomock.Any(), categoryID).Return(int64(3), nil)
	s.mockCategoryRepo.EXPECT().Delete(gomock.Any(), gomock.Any()).Times(0)

	err := s.catalogService.DeleteCategory(s.T().Context(), categoryID)
	s.Require().ErrorIs(err, domain.ErrReferenceConstraint)
}

func (s *CatalogServiceTestSuite) TestProductsPagination() {
	filter := repoargs.ProductFilter{Page: 2, PerPage: 20}
	saved := make([]domain.Product, 20)
	for i := range saved {
		saved[i] = domain.Product{ID: int64(i + 1), Name: gofakeit.ProductName()}
	}

	cases := []struct {
		name      string
		total     uint
		wantPages uint
	}{
		{name: "exact pages", total: 40, wantPages: 2},
		{name: "rounds up", total: 41, wantPages: 3},
		{name: "single page", total: 5, wantPages: 1},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			s.mockProductRepo.EXPECT().List(gomock.Any(), filter).Return(saved, t.total, nil)

			products, pagination, err := s.catalogService.Products(s.T().Context(), filter)
			s.Require().NoError(err)
			s.Len(products, len(saved))
			s.Equal(filter.Page, pagination.Page)
			s.Equal(t.total, pagination.Total)
			s.Equal(t.wantPages, pagination.Pages)
		})
	}
}

func (s *CatalogServiceTestSuite) TestProduct() {
	product := domain.Product{ID: 1, ProductType: domain.ProductTypeQuantities}
	inventory := domain.ProductInventory{ID: 1, ProductID: product.ID, Quantity: 7}

	s.Run("with inventory", func() {
		s.mockProductRepo.EXPECT().FindByID(gomock.Any(), product.ID).Return(&product, nil)
		s.mockProductRepo.EXPECT().CustomOptions(gomock.Any(), product.ID).Return(nil, nil)
		s.mockProductRepo.EXPECT().Inventory(gomock.Any(), product.ID).Return(&inventory, nil)

		details, err := s.catalogService.Product(s.T().Context(), product.ID)
		s.Require().NoError(err)
		s.Equal(&inventory, details.Inventory)
	})

	s.Run("without inventory", func() {
		plain := domain.Product{ID: 2, ProductType: domain.ProductTypePlain}
		s.mockProductRepo.EXPECT().FindByID(gomock.Any(), plain.ID).Return(&plain, nil)
		s.mockProductRepo.EXPECT().CustomOptions(gomock.Any(), plain.ID).Return(nil, nil)
		s.mockProductRepo.EXPECT().Inventory(gomock.Any(), plain.ID).Return(nil, domain.ErrRecordNotFound)

		details, err := s.catalogService.Product(s.T().Context(), plain.ID)
		s.Require().NoError(err)
		s.Nil(details.Inventory)
	})
}

// TestCreateProduct проверяет, что опции пишутся только для custom типа, а
// остаток - только для quantities.
func (s *CatalogServiceTestSuite) TestCreateProduct() {
	s.Run("custom with options", func() {
		args := UpsertProductArgs{
			Product: repoargs.UpsertProduct{
				CategoryID:  1,
				Name:        "Custom pack",
				SellPrice:   decimal.NewFromInt(50),
				ProductType: string(domain.ProductTypeCustom),
			},
			CustomOptions: []repoargs.CreateCustomOption{
				{OptionName: "Server", OptionValues: "EU,NA,AS"},
			},
		}
		created := domain.Product{ID: 1, ProductType: domain.ProductTypeCustom}

		s.expectDo()
		s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.ProductRepoName)).Return(s.mockProductRepo, nil)
		s.mockProductRepo.EXPECT().Create(gomock.Any(), args.Product).Return(&created, nil)
		s.mockProductRepo.EXPECT().ReplaceCustomOptions(gomock.Any(), created.ID, args.CustomOptions).Return(nil)

		_, err := s.catalogService.CreateProduct(s.T().Context(), args)
		s.Require().NoError(err)
	})

	s.Run("quantities with inventory", func() {
		quantity := int32(100)
		args := UpsertProductArgs{
			Product: repoargs.UpsertProduct{
				CategoryID:  1,
				Name:        "Key pool",
				SellPrice:   decimal.NewFromInt(10),
				ProductType: string(domain.ProductTypeQuantities),
			},
			Quantity: &quantity,
		}
		created := domain.Product{ID: 2, ProductType: domain.ProductTypeQuantities}

		s.expectDo()
		s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.ProductRepoName)).Return(s.mockProductRepo, nil)
		s.mockProductRepo.EXPECT().Create(gomock.Any(), args.Product).Return(&created, nil)
		s.mockProductRepo.EXPECT().SetInventory(gomock.Any(), created.ID, quantity).Return(nil)

		_, err := s.catalogService.CreateProduct(s.T().Context(), args)
		s.Require().NoError(err)
	})

	s.Run("plain skips extras", func() {
		args := UpsertProductArgs{
			Product: repoargs.UpsertProduct{
				CategoryID:  1,
				Name:        "Plain",
				SellPrice:   decimal.NewFromInt(5),
				ProductType: string(domain.ProductTypePlain),
			},
		}
		created := domain.Product{ID: 3, ProductType: domain.ProductTypePlain}

		s.expectDo()
		s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.ProductRepoName)).Return(s.mockProductRepo, nil)
		s.mockProductRepo.EXPECT().Create(gomock.Any(), args.Product).Return(&created, nil)
		s.mockProductRepo.EXPECT().ReplaceCustomOptions(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
		s.mockProductRepo.EXPECT().SetInventory(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		_, err := s.catalogService.CreateProduct(s.T().Context(), args)
		s.Require().NoError(err)
	})
}

func (s *CatalogServiceTestSuite) TestDeleteProductWithOrders() {
	productID := int64(1)

	s.expectDo()
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.ProductRepoName)).Return(s.mockProductRepo, nil)
	s.mockProductRepo.EXPECT().CountOrders(gomock.Any(), productID).Return(int64(2), nil)
	s.mockProductRepo.EXPECT().Delete(gomock.Any(), gomock.Any()).Times(0)

	err := s.catalogService.DeleteProduct(s.T().Context(), productID)
	s.Require().ErrorIs(err, domain.ErrReferenceConstraint)
}
