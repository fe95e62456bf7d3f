package services

import (
	"campushub/internal/apperr"
	"campushub/internal/models"
	"campushub/internal/repository"
	"errors"
	"fmt"
	"log"
	"strings"
)

// ArticleInput carries the author-editable fields for create and update.
// Publish is the intent flag the moderation rule turns into a status.
type ArticleInput struct {
	Title         string
	Content       string
	Description   string
	Partition     models.Partition
	Category      string
	SubCategory   string
	CoverImageID  *uint
	ImageIDs      []uint
	AttachmentIDs []uint
	Publish       bool
}

// ArticleService owns the moderation workflow and the attachment
// lifecycle: every path that changes which blobs an article references,
// or what its status is, goes through here.
type ArticleService struct {
	articles repository.ArticleRepository
	comments repository.CommentRepository
	blobs    repository.BlobRepository
	cleanup  *CleanupWorker
}

// NewArticleService wires the service. cleanup may be nil; blob deletions
// that fail are then only logged instead of retried.
func NewArticleService(
	articles repository.ArticleRepository,
	comments repository.CommentRepository,
	blobs repository.BlobRepository,
	cleanup *CleanupWorker,
) *ArticleService {
	return &ArticleService{
		articles: articles,
		comments: comments,
		blobs:    blobs,
		cleanup:  cleanup,
	}
}

func (s *ArticleService) Create(authorID uint, role models.Role, in ArticleInput) (*models.Article, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if err := s.verifyBlobRefs(blobRefs(in)); err != nil {
		return nil, err
	}

	article := &models.Article{
		Title:         strings.TrimSpace(in.Title),
		Content:       in.Content,
		Description:   strings.TrimSpace(in.Description),
		Status:        ResolveInitialStatus(role, in.Publish),
		Partition:     in.Partition,
		Category:      strings.TrimSpace(in.Category),
		SubCategory:   strings.TrimSpace(in.SubCategory),
		AuthorID:      authorID,
		CoverImageID:  in.CoverImageID,
		ImageIDs:      models.IDList(in.ImageIDs),
		AttachmentIDs: models.IDList(in.AttachmentIDs),
		CommentIDs:    models.IDList{},
	}
	if err := s.articles.Create(article); err != nil {
		return nil, err
	}
	return article, nil
}

// Update applies an author edit. Editing re-runs the publish-intent rule,
// so resubmitting a rejected draft goes back through review. Blob
// references dropped by the edit have their blobs deleted; blobs are 1:1
// owned by the article that uploaded them.
func (s *ArticleService) Update(id, requesterID uint, role models.Role, in ArticleInput) (*models.Article, error) {
	article, err := s.articles.FindByID(id)
	if err != nil {
		return nil, err
	}
	if article.AuthorID != requesterID {
		return nil, fmt.Errorf("only the author may edit article %d: %w", id, apperr.ErrForbidden)
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}

	oldRefs := article.BlobIDs()
	newRefs := blobRefs(in)
	if err := s.verifyBlobRefs(newRefs); err != nil {
		return nil, err
	}

	article.Title = strings.TrimSpace(in.Title)
	article.Content = in.Content
	article.Description = strings.TrimSpace(in.Description)
	article.Partition = in.Partition
	article.Category = strings.TrimSpace(in.Category)
	article.SubCategory = strings.TrimSpace(in.SubCategory)
	article.CoverImageID = in.CoverImageID
	article.ImageIDs = models.IDList(in.ImageIDs)
	article.AttachmentIDs = models.IDList(in.AttachmentIDs)
	article.Status = ResolveInitialStatus(role, in.Publish)
	article.Author = nil

	if err := s.articles.Update(article); err != nil {
		return nil, err
	}

	s.deleteBlobs(removedRefs(oldRefs, newRefs))
	return article, nil
}

// Delete permanently removes the article, its comments and every
// referenced blob. The article record goes first: a leftover blob is
// recoverable, a half-deleted article is not.
func (s *ArticleService) Delete(id, requesterID uint, role models.Role) error {
	article, err := s.articles.FindByID(id)
	if err != nil {
		return err
	}
	if article.AuthorID != requesterID && !role.IsModerator() {
		return fmt.Errorf("not the author of article %d: %w", id, apperr.ErrForbidden)
	}

	if err := s.articles.Delete(id); err != nil {
		return err
	}

	if removed, err := s.comments.DeleteByArticleID(id); err != nil {
		log.Printf("Failed to delete comments of article %d: %v", id, err)
	} else if removed > 0 {
		log.Printf("Deleted %d comments of article %d", removed, id)
	}

	s.deleteBlobs(article.BlobIDs())
	return nil
}

func (s *ArticleService) Approve(id uint, role models.Role) error {
	if !role.IsModerator() {
		return fmt.Errorf("approving requires a moderator role: %w", apperr.ErrForbidden)
	}
	return s.articles.UpdateStatusIf(id, models.StatusPending, models.StatusPublic)
}

// Reject returns a pending article to the author as a private draft; it
// is never deleted.
func (s *ArticleService) Reject(id uint, role models.Role) error {
	if !role.IsModerator() {
		return fmt.Errorf("rejecting requires a moderator role: %w", apperr.ErrForbidden)
	}
	return s.articles.UpdateStatusIf(id, models.StatusPending, models.StatusPrivate)
}

// deleteBlobs removes blobs best-effort. A failure is logged and handed
// to the cleanup worker; it never fails the surrounding operation.
func (s *ArticleService) deleteBlobs(ids []uint) {
	for _, blobID := range ids {
		if err := s.blobs.Delete(blobID); err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				continue
			}
			log.Printf("Failed to delete blob %d: %v", blobID, err)
			if s.cleanup != nil {
				s.cleanup.Enqueue(blobID)
			}
		}
	}
}

// verifyBlobRefs confirms every referenced blob exists before the
// association is persisted, so a failed upload can never leave an
// article pointing at nothing.
func (s *ArticleService) verifyBlobRefs(ids []uint) error {
	for _, blobID := range ids {
		ok, err := s.blobs.Exists(blobID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("referenced blob %d does not exist: %w", blobID, apperr.ErrValidation)
		}
	}
	return nil
}

func validateInput(in ArticleInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("title is required: %w", apperr.ErrValidation)
	}
	if strings.TrimSpace(in.Content) == "" {
		return fmt.Errorf("content is required: %w", apperr.ErrValidation)
	}
	if !in.Partition.Valid() {
		return fmt.Errorf("unknown partition %q: %w", in.Partition, apperr.ErrValidation)
	}
	return nil
}

func blobRefs(in ArticleInput) []uint {
	refs := make([]uint, 0, len(in.ImageIDs)+len(in.AttachmentIDs)+1)
	refs = append(refs, in.ImageIDs...)
	refs = append(refs, in.AttachmentIDs...)
	if in.CoverImageID != nil {
		refs = append(refs, *in.CoverImageID)
	}
	return refs
}

func removedRefs(old, current []uint) []uint {
	kept := make(map[uint]struct{}, len(current))
	for _, id := range current {
		kept[id] = struct{}{}
	}
	var removed []uint
	for _, id := range old {
		if _, ok := kept[id]; !ok {
			removed = append(removed, id)
		}
	}
	return removed
}
