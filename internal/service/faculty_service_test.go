package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/feedback-api/internal/dto"
	appErrors "github.com/noah-isme/feedback-api/pkg/errors"
)

func newFacultyServiceForTest() (*FacultyService, *memoryFaculty) {
	other := testFaculty("F3", "Linus")
	other.Department = "ECE"
	repo := newMemoryFaculty(testFaculty("F1", "Ada"), testFaculty("F2", "Grace"), other)
	return NewFacultyService(repo, nil, nil, zap.NewNop()), repo
}

func TestFacultyServiceCreate(t *testing.T) {
	svc, repo := newFacultyServiceForTest()
	ctx := context.Background()

	created, err := svc.Create(ctx, cseHoD, dto.CreateFacultyRequest{
		Code:       " CS-101 ",
		Name:       "Barbara",
		Subject:    "Compilers",
		College:    "KIT",
		Department: "CSE",
	})
	require.NoError(t, err)
	assert.Equal(t, "CS-101", created.Code)
	assert.True(t, created.Active)
	assert.Contains(t, repo.items, created.ID)

	_, err = svc.Create(ctx, adminViewer, dto.CreateFacultyRequest{Code: "C-F1", Name: "Dup", College: "KIT", Department: "CSE"})
	assert.ErrorIs(t, err, appErrors.ErrConflict)

	_, err = svc.Create(ctx, eceHoD, dto.CreateFacultyRequest{Code: "X", Name: "Other", College: "KIT", Department: "CSE"})
	assert.ErrorIs(t, err, appErrors.ErrForbidden)

	_, err = svc.Create(ctx, adminViewer, dto.CreateFacultyRequest{Code: "X"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestFacultyServiceListPinsHoDScope(t *testing.T) {
	svc, repo := newFacultyServiceForTest()
	ctx := context.Background()

	list, page, err := svc.List(ctx, cseHoD, dto.FacultyListQuery{Department: "ECE"})
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, 2, page.TotalCount)
	assert.Equal(t, 20, page.PageSize)

	list, _, err = svc.List(ctx, adminViewer, dto.FacultyListQuery{})
	require.NoError(t, err)
	assert.Len(t, list, 3)

	repo.listErr = errors.New("db down")
	_, _, err = svc.List(ctx, adminViewer, dto.FacultyListQuery{})
	assert.ErrorIs(t, err, appErrors.ErrInternal)
}

func TestFacultyServiceGetAndDeactivate(t *testing.T) {
	svc, repo := newFacultyServiceForTest()
	ctx := context.Background()

	_, err := svc.Get(ctx, cseHoD, "F3")
	assert.ErrorIs(t, err, appErrors.ErrForbidden)
	_, err = svc.Get(ctx, cseHoD, "missing")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	require.NoError(t, svc.Deactivate(ctx, cseHoD, "F1"))
	assert.False(t, repo.items["F1"].Active)
	assert.ErrorIs(t, svc.Deactivate(ctx, cseHoD, "F1"), appErrors.ErrConflict)
}
