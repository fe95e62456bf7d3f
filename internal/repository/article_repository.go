package repository

import (
	"campushub/internal/apperr"
	"campushub/internal/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	articleCacheKeyPrefix = "article:"
	articleListCachePref  = "articles:list:"
	cacheExpiration       = 30 * time.Minute
)

// ArticleFilter narrows list queries. An empty Statuses slice means the
// default visibility: PUBLIC only, so unauthenticated queries never leak
// private or pending content.
type ArticleFilter struct {
	Statuses  []models.ArticleStatus
	Partition models.Partition
	Category  string
	AuthorID  uint
}

type ArticleRepository interface {
	Create(article *models.Article) error
	FindByID(id uint) (*models.Article, error)
	FindWithFilter(filter ArticleFilter) ([]models.Article, error)
	FindLikedBy(userID uint) ([]models.Article, error)
	SearchByTitle(query string, limit int) ([]models.ArticleSummary, error)
	Update(article *models.Article) error
	Delete(id uint) error

	// UpdateStatusIf transitions the status only when the stored status
	// still equals `from`. Under a concurrent approve/reject race the
	// first writer wins and the loser gets apperr.ErrInvalidState.
	UpdateStatusIf(id uint, from, to models.ArticleStatus) error

	// ToggleLike flips userID's membership in the article's like set and
	// returns the new membership plus the resulting cardinality. The
	// toggle touches only the user's own like row, so concurrent toggles
	// by different users cannot overwrite each other.
	ToggleLike(articleID, userID uint) (liked bool, count int64, err error)
	CountLikes(articleID uint) (int64, error)

	InvalidateCache(id uint) error
	InvalidateListCache() error
}

type articleRepository struct {
	db    *gorm.DB
	redis *redis.Client
	ctx   context.Context
}

func getArticleCacheKey(id uint) string {
	return fmt.Sprintf("%s%d", articleCacheKeyPrefix, id)
}

func getListCacheKey(filter ArticleFilter) string {
	return fmt.Sprintf("%s%v|%s|%s|%d",
		articleListCachePref, filter.Statuses, filter.Partition, filter.Category, filter.AuthorID)
}

func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{
		db:    db,
		redis: nil,
		ctx:   context.Background(),
	}
}

func NewCachedArticleRepository(db *gorm.DB, redisClient *redis.Client) ArticleRepository {
	return &articleRepository{
		db:    db,
		redis: redisClient,
		ctx:   context.Background(),
	}
}

func (r *articleRepository) Create(article *models.Article) error {
	if result := r.db.Create(article); result.Error != nil {
		log.Printf("Error creating article: %v", result.Error)
		return result.Error
	}
	_ = r.InvalidateListCache()
	return nil
}

func (r *articleRepository) FindByID(id uint) (*models.Article, error) {
	if r.redis != nil {
		cachedData, err := r.redis.Get(r.ctx, getArticleCacheKey(id)).Result()
		if err == nil {
			var article models.Article
			if err := json.Unmarshal([]byte(cachedData), &article); err == nil {
				return &article, nil
			}
			log.Printf("Failed to unmarshal cached article: %v", err)
		}
	}

	var article models.Article
	err := r.db.Preload("Author").First(&article, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}

	count, err := r.CountLikes(id)
	if err != nil {
		return nil, err
	}
	article.LikeCount = count

	if r.redis != nil {
		if articleJSON, err := json.Marshal(article); err == nil {
			if err := r.redis.Set(r.ctx, getArticleCacheKey(id), articleJSON, cacheExpiration).Err(); err != nil {
				log.Printf("Failed to cache article ID %d: %v", id, err)
			}
		}
	}

	return &article, nil
}

func (r *articleRepository) FindWithFilter(filter ArticleFilter) ([]models.Article, error) {
	if len(filter.Statuses) == 0 {
		filter.Statuses = []models.ArticleStatus{models.StatusPublic}
	}

	cacheKey := getListCacheKey(filter)
	if r.redis != nil {
		if cachedData, err := r.redis.Get(r.ctx, cacheKey).Result(); err == nil {
			var articles []models.Article
			if err := json.Unmarshal([]byte(cachedData), &articles); err == nil {
				return articles, nil
			}
		}
	}

	query := r.db.Preload("Author").Where("status IN ?", filter.Statuses)
	if filter.Partition != "" {
		query = query.Where("partition = ?", filter.Partition)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.AuthorID != 0 {
		query = query.Where("author_id = ?", filter.AuthorID)
	}

	var articles []models.Article
	if err := query.Order("created_at DESC").Find(&articles).Error; err != nil {
		return nil, err
	}
	if err := r.fillLikeCounts(articles); err != nil {
		return nil, err
	}

	if r.redis != nil {
		if articlesJSON, err := json.Marshal(articles); err == nil {
			if err := r.redis.Set(r.ctx, cacheKey, articlesJSON, cacheExpiration).Err(); err != nil {
				log.Printf("Failed to cache article list: %v", err)
			}
		}
	}

	return articles, nil
}

func (r *articleRepository) FindLikedBy(userID uint) ([]models.Article, error) {
	var articles []models.Article
	err := r.db.Preload("Author").
		Joins("JOIN article_likes ON article_likes.article_id = articles.id").
		Where("article_likes.user_id = ?", userID).
		Order("articles.created_at DESC").
		Find(&articles).Error
	if err != nil {
		return nil, err
	}
	if err := r.fillLikeCounts(articles); err != nil {
		return nil, err
	}
	return articles, nil
}

func (r *articleRepository) SearchByTitle(query string, limit int) ([]models.ArticleSummary, error) {
	var results []models.ArticleSummary
	err := r.db.Model(&models.Article{}).
		Select("id", "title").
		Where("title ILIKE ?", "%"+query+"%").
		Limit(limit).
		Find(&results).Error
	return results, err
}

// Update persists an author edit. Only the author-editable columns are
// written: comment_ids belongs to the comment repository's transactions,
// and an edit snapshot may hold a stale copy of it.
func (r *articleRepository) Update(article *models.Article) error {
	err := r.db.Model(article).
		Select("title", "content", "description", "status", "partition",
			"category", "sub_category", "cover_image_id", "image_ids",
			"attachment_ids", "updated_at").
		Updates(article).Error
	if err != nil {
		return err
	}
	_ = r.InvalidateCache(article.ID)
	_ = r.InvalidateListCache()
	return nil
}

func (r *articleRepository) Delete(id uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("article_id = ?", id).Delete(&models.ArticleLike{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Article{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperr.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}
	_ = r.InvalidateCache(id)
	_ = r.InvalidateListCache()
	return nil
}

func (r *articleRepository) UpdateStatusIf(id uint, from, to models.ArticleStatus) error {
	// Conditional update: the status check and the write are one
	// statement, so the precondition cannot be interleaved away.
	result := r.db.Model(&models.Article{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.Model(&models.Article{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return apperr.ErrNotFound
		}
		return apperr.ErrInvalidState
	}
	_ = r.InvalidateCache(id)
	_ = r.InvalidateListCache()
	return nil
}

func (r *articleRepository) ToggleLike(articleID, userID uint) (bool, int64, error) {
	var exists int64
	if err := r.db.Model(&models.Article{}).Where("id = ?", articleID).Count(&exists).Error; err != nil {
		return false, 0, err
	}
	if exists == 0 {
		return false, 0, apperr.ErrNotFound
	}

	liked := false
	result := r.db.Where("article_id = ? AND user_id = ?", articleID, userID).
		Delete(&models.ArticleLike{})
	if result.Error != nil {
		return false, 0, result.Error
	}
	if result.RowsAffected == 0 {
		// Not currently a member: add. ON CONFLICT keeps a racing double
		// tap from inserting twice.
		like := models.ArticleLike{ArticleID: articleID, UserID: userID}
		if err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error; err != nil {
			return false, 0, err
		}
		liked = true
	}

	count, err := r.CountLikes(articleID)
	if err != nil {
		return false, 0, err
	}
	// Cached lists embed like_count.
	_ = r.InvalidateCache(articleID)
	_ = r.InvalidateListCache()
	return liked, count, nil
}

func (r *articleRepository) CountLikes(articleID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.ArticleLike{}).Where("article_id = ?", articleID).Count(&count).Error
	return count, err
}

func (r *articleRepository) fillLikeCounts(articles []models.Article) error {
	for i := range articles {
		count, err := r.CountLikes(articles[i].ID)
		if err != nil {
			return err
		}
		articles[i].LikeCount = count
	}
	return nil
}

func (r *articleRepository) InvalidateCache(id uint) error {
	if r.redis == nil {
		return nil
	}
	return r.redis.Del(r.ctx, getArticleCacheKey(id)).Err()
}

func (r *articleRepository) InvalidateListCache() error {
	if r.redis == nil {
		return nil
	}
	iter := r.redis.Scan(r.ctx, 0, articleListCachePref+"*", 0).Iterator()
	for iter.Next(r.ctx) {
		if err := r.redis.Del(r.ctx, iter.Val()).Err(); err != nil {
			log.Printf("Failed to invalidate list cache key %s: %v", iter.Val(), err)
		}
	}
	return iter.Err()
}
