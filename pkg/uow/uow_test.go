package uow_test

import (
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fsdevblog/topup-store/pkg/uow"
	"github.com/fsdevblog/topup-store/pkg/uow/mocks"
)

type fakeRepo struct{}

func TestRegister(t *testing.T) {
	u := uow.NewUnitOfWork(nil)
	factory := func(uow.DBTX) uow.Repository { return fakeRepo{} }

	require.NoError(t, u.Register("fake", factory))
	assert.ErrorIs(t, u.Register("fake", factory), uow.ErrRepositoryAlreadyRegistered)
}

func TestGetRepository(t *testing.T) {
	u := uow.NewUnitOfWork(nil)
	require.NoError(t, u.Register("fake", func(uow.DBTX) uow.Repository { return fakeRepo{} }))

	repo, err := u.GetRepository("fake")
	require.NoError(t, err)
	assert.IsType(t, fakeRepo{}, repo)

	_, missingErr := u.GetRepository("missing")
	assert.ErrorIs(t, missingErr, uow.ErrRepositoryNotRegistered)
}

func TestGetRepositoryAs(t *testing.T) {
	u := uow.NewUnitOfWork(nil)
	require.NoError(t, u.Register("fake", func(uow.DBTX) uow.Repository { return fakeRepo{} }))

	repo, err := uow.GetRepositoryAs[fakeRepo](u, "fake")
	require.NoError(t, err)
	assert.Equal(t, fakeRepo{}, repo)

	_, typeErr := uow.GetRepositoryAs[int](u, "fake")
	assert.ErrorIs(t, typeErr, uow.ErrInvalidRepositoryType)

	_, missingErr := uow.GetRepositoryAs[fakeRepo](u, "missing")
	assert.ErrorIs(t, missingErr, uow.ErrRepositoryNotRegistered)
}

func TestGetAs(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockTX := mocks.NewMockTX(ctrl)

	mockTX.EXPECT().Get(uow.RepositoryName("fake")).Return(fakeRepo{}, nil).Times(2)

	repo, err := uow.GetAs[fakeRepo](mockTX, "fake")
	require.NoError(t, err)
	assert.Equal(t, fakeRepo{}, repo)

	_, typeErr := uow.GetAs[int](mockTX, "fake")
	assert.ErrorIs(t, typeErr, uow.ErrInvalidRepositoryType)
}
