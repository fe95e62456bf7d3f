package repository

import (
	"campushub/internal/apperr"
	"campushub/internal/models"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommentRepository interface {
	// Create inserts the comment and prepends its id to the owning
	// article's comment_ids, both in one transaction.
	Create(comment *models.Comment) error
	FindByID(id uint) (*models.Comment, error)
	FindByArticleID(articleID uint) ([]models.Comment, error)
	// Delete removes the comment and pulls its id out of the owning
	// article's comment_ids, both in one transaction.
	Delete(id uint) error
	DeleteByArticleID(articleID uint) (int64, error)
}

// ArticleCacheInvalidator drops an article's cache entries after a
// mutation outside the article repository touches its row. The article
// repository itself satisfies it.
type ArticleCacheInvalidator interface {
	InvalidateCache(id uint) error
	InvalidateListCache() error
}

type commentRepository struct {
	db    *gorm.DB
	cache ArticleCacheInvalidator
}

// NewCommentRepository wires the repository. cache may be nil when the
// article repository runs uncached.
func NewCommentRepository(db *gorm.DB, cache ArticleCacheInvalidator) CommentRepository {
	return &commentRepository{db: db, cache: cache}
}

func (r *commentRepository) Create(comment *models.Comment) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		article, err := lockArticle(tx, comment.ArticleID)
		if err != nil {
			return err
		}
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		// Newest first.
		refs := append(models.IDList{comment.ID}, article.CommentIDs...)
		return setCommentRefs(tx, article.ID, refs)
	})
	if err != nil {
		return err
	}
	r.invalidateArticle(comment.ArticleID)
	return nil
}

func (r *commentRepository) FindByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.Preload("Author").First(&comment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) FindByArticleID(articleID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Preload("Author").
		Where("article_id = ?", articleID).
		Order("created_at DESC").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) Delete(id uint) error {
	var articleID uint
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		if err := tx.First(&comment, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrNotFound
			}
			return err
		}
		articleID = comment.ArticleID

		article, err := lockArticle(tx, comment.ArticleID)
		if err != nil && !errors.Is(err, apperr.ErrNotFound) {
			return err
		}

		if err := tx.Delete(&models.Comment{}, id).Error; err != nil {
			return err
		}
		if article == nil {
			return nil
		}

		refs := make(models.IDList, 0, len(article.CommentIDs))
		for _, ref := range article.CommentIDs {
			if ref != id {
				refs = append(refs, ref)
			}
		}
		return setCommentRefs(tx, article.ID, refs)
	})
	if err != nil {
		return err
	}
	r.invalidateArticle(articleID)
	return nil
}

func (r *commentRepository) DeleteByArticleID(articleID uint) (int64, error) {
	result := r.db.Where("article_id = ?", articleID).Delete(&models.Comment{})
	return result.RowsAffected, result.Error
}

// invalidateArticle drops the article's cached document and the list
// cache: both embed comment_ids.
func (r *commentRepository) invalidateArticle(articleID uint) {
	if r.cache == nil {
		return
	}
	_ = r.cache.InvalidateCache(articleID)
	_ = r.cache.InvalidateListCache()
}

// lockArticle takes a row lock on the article so comment_ids mutations
// against the same article serialize instead of overwriting each other.
func lockArticle(tx *gorm.DB, articleID uint) (*models.Article, error) {
	var article models.Article
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&article, articleID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &article, nil
}

func setCommentRefs(tx *gorm.DB, articleID uint, refs models.IDList) error {
	return tx.Model(&models.Article{}).
		Where("id = ?", articleID).
		Update("comment_ids", refs).Error
}
