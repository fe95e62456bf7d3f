package services

import (
	"errors"
	"testing"

	"campushub/internal/apperr"
	"campushub/internal/mocks"
	"campushub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupServiceWithMocks() (*ArticleService, *mocks.MockArticleRepository, *mocks.MockCommentRepository, *mocks.MockBlobRepository) {
	articleRepo := new(mocks.MockArticleRepository)
	commentRepo := new(mocks.MockCommentRepository)
	blobRepo := new(mocks.MockBlobRepository)
	svc := NewArticleService(articleRepo, commentRepo, blobRepo, nil)
	return svc, articleRepo, commentRepo, blobRepo
}

func validInput() ArticleInput {
	return ArticleInput{
		Title:     "T",
		Content:   "C",
		Partition: models.PartitionSquare,
	}
}

func TestCreateStatusFollowsPublishIntent(t *testing.T) {
	tests := []struct {
		name    string
		role    models.Role
		publish bool
		want    models.ArticleStatus
	}{
		{"draft stays private", models.RoleUser, false, models.StatusPrivate},
		{"user publish queues review", models.RoleUser, true, models.StatusPending},
		{"admin publish is immediate", models.RoleAdmin, true, models.StatusPublic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, articleRepo, _, _ := setupServiceWithMocks()
			articleRepo.On("Create", mock.AnythingOfType("*models.Article")).Return(nil)

			in := validInput()
			in.Publish = tt.publish
			article, err := svc.Create(42, tt.role, in)

			assert.NoError(t, err)
			assert.Equal(t, tt.want, article.Status)
			assert.Equal(t, uint(42), article.AuthorID)
			articleRepo.AssertExpectations(t)
		})
	}
}

func TestCreateRejectsMissingFields(t *testing.T) {
	svc, _, _, _ := setupServiceWithMocks()

	in := validInput()
	in.Title = "   "
	_, err := svc.Create(1, models.RoleUser, in)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	in = validInput()
	in.Content = ""
	_, err = svc.Create(1, models.RoleUser, in)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	in = validInput()
	in.Partition = "BLOG"
	_, err = svc.Create(1, models.RoleUser, in)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCreateVerifiesBlobReferences(t *testing.T) {
	svc, articleRepo, _, blobRepo := setupServiceWithMocks()
	blobRepo.On("Exists", uint(10)).Return(true, nil)
	blobRepo.On("Exists", uint(11)).Return(false, nil)

	in := validInput()
	in.ImageIDs = []uint{10, 11}
	_, err := svc.Create(1, models.RoleUser, in)

	assert.ErrorIs(t, err, apperr.ErrValidation)
	articleRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestApproveRequiresModerator(t *testing.T) {
	svc, articleRepo, _, _ := setupServiceWithMocks()

	err := svc.Approve(5, models.RoleUser)

	assert.ErrorIs(t, err, apperr.ErrForbidden)
	articleRepo.AssertNotCalled(t, "UpdateStatusIf", mock.Anything, mock.Anything, mock.Anything)
}

func TestApproveTransitionsPendingToPublic(t *testing.T) {
	svc, articleRepo, _, _ := setupServiceWithMocks()
	articleRepo.On("UpdateStatusIf", uint(5), models.StatusPending, models.StatusPublic).Return(nil)

	assert.NoError(t, svc.Approve(5, models.RoleAdmin))
	articleRepo.AssertExpectations(t)
}

func TestApprovePropagatesInvalidState(t *testing.T) {
	svc, articleRepo, _, _ := setupServiceWithMocks()
	articleRepo.On("UpdateStatusIf", uint(5), models.StatusPending, models.StatusPublic).
		Return(apperr.ErrInvalidState)

	err := svc.Approve(5, models.RoleSuperAdmin)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)
}

func TestRejectTransitionsPendingToPrivate(t *testing.T) {
	svc, articleRepo, _, _ := setupServiceWithMocks()
	articleRepo.On("UpdateStatusIf", uint(7), models.StatusPending, models.StatusPrivate).Return(nil)

	assert.NoError(t, svc.Reject(7, models.RoleAdmin))
	articleRepo.AssertExpectations(t)
}

func TestUpdateForbiddenForNonAuthor(t *testing.T) {
	svc, articleRepo, _, _ := setupServiceWithMocks()
	articleRepo.On("FindByID", uint(3)).Return(&models.Article{ID: 3, AuthorID: 1}, nil)

	_, err := svc.Update(3, 2, models.RoleUser, validInput())

	assert.ErrorIs(t, err, apperr.ErrForbidden)
	articleRepo.AssertNotCalled(t, "Update", mock.Anything)
}

func TestUpdateDeletesDroppedBlobReferences(t *testing.T) {
	svc, articleRepo, _, blobRepo := setupServiceWithMocks()
	cover := uint(3)
	existing := &models.Article{
		ID:           9,
		AuthorID:     1,
		ImageIDs:     models.IDList{1, 2},
		CoverImageID: &cover,
	}
	articleRepo.On("FindByID", uint(9)).Return(existing, nil)
	articleRepo.On("Update", mock.AnythingOfType("*models.Article")).Return(nil)
	blobRepo.On("Exists", uint(2)).Return(true, nil)
	blobRepo.On("Delete", uint(1)).Return(nil)
	blobRepo.On("Delete", uint(3)).Return(nil)

	in := validInput()
	in.ImageIDs = []uint{2}
	article, err := svc.Update(9, 1, models.RoleUser, in)

	assert.NoError(t, err)
	assert.Nil(t, article.CoverImageID)
	blobRepo.AssertExpectations(t)
}

func TestUpdateRerunsPublishIntent(t *testing.T) {
	svc, articleRepo, _, _ := setupServiceWithMocks()
	existing := &models.Article{ID: 4, AuthorID: 1, Status: models.StatusPrivate}
	articleRepo.On("FindByID", uint(4)).Return(existing, nil)
	articleRepo.On("Update", mock.AnythingOfType("*models.Article")).Return(nil)

	in := validInput()
	in.Publish = true
	article, err := svc.Update(4, 1, models.RoleUser, in)

	assert.NoError(t, err)
	assert.Equal(t, models.StatusPending, article.Status)
}

func TestDeleteCascadesToCommentsAndBlobs(t *testing.T) {
	svc, articleRepo, commentRepo, blobRepo := setupServiceWithMocks()
	cover := uint(30)
	article := &models.Article{
		ID:            8,
		AuthorID:      1,
		ImageIDs:      models.IDList{10, 11},
		AttachmentIDs: models.IDList{20},
		CoverImageID:  &cover,
	}
	articleRepo.On("FindByID", uint(8)).Return(article, nil)
	articleRepo.On("Delete", uint(8)).Return(nil)
	commentRepo.On("DeleteByArticleID", uint(8)).Return(int64(2), nil)
	for _, id := range []uint{10, 11, 20, 30} {
		blobRepo.On("Delete", id).Return(nil)
	}

	assert.NoError(t, svc.Delete(8, 1, models.RoleUser))
	articleRepo.AssertExpectations(t)
	commentRepo.AssertExpectations(t)
	blobRepo.AssertExpectations(t)
}

func TestDeleteBlobFailureDoesNotFailDelete(t *testing.T) {
	svc, articleRepo, commentRepo, blobRepo := setupServiceWithMocks()
	article := &models.Article{ID: 8, AuthorID: 1, ImageIDs: models.IDList{10, 11}}
	articleRepo.On("FindByID", uint(8)).Return(article, nil)
	articleRepo.On("Delete", uint(8)).Return(nil)
	commentRepo.On("DeleteByArticleID", uint(8)).Return(int64(0), nil)
	blobRepo.On("Delete", uint(10)).Return(errors.New("storage failure"))
	blobRepo.On("Delete", uint(11)).Return(nil)

	assert.NoError(t, svc.Delete(8, 1, models.RoleUser))
	blobRepo.AssertExpectations(t)
}

func TestDeleteAllowsModerator(t *testing.T) {
	svc, articleRepo, commentRepo, _ := setupServiceWithMocks()
	article := &models.Article{ID: 8, AuthorID: 1}
	articleRepo.On("FindByID", uint(8)).Return(article, nil)
	articleRepo.On("Delete", uint(8)).Return(nil)
	commentRepo.On("DeleteByArticleID", uint(8)).Return(int64(0), nil)

	assert.NoError(t, svc.Delete(8, 99, models.RoleAdmin))
}

func TestDeleteForbiddenForStranger(t *testing.T) {
	svc, articleRepo, _, _ := setupServiceWithMocks()
	articleRepo.On("FindByID", uint(8)).Return(&models.Article{ID: 8, AuthorID: 1}, nil)

	err := svc.Delete(8, 99, models.RoleUser)

	assert.ErrorIs(t, err, apperr.ErrForbidden)
	articleRepo.AssertNotCalled(t, "Delete", mock.Anything)
}
