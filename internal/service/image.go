package service

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/plateful/recipe-api/internal/models"
)

// BlobStore is the attachment storage consumed by ImageService. The S3
// implementation lives in the config package; tests use an in-memory fake.
type BlobStore interface {
	// Put stores data under key and returns the public URL.
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// ImageService attaches image blobs to recipes. Each accepted upload gets a
// fresh uniquely named blob; the previous blob is released only after the
// recipe points at the new one, so a rejected or failed upload never
// disturbs the existing image.
type ImageService struct {
	db    *gorm.DB
	blobs BlobStore
}

func NewImageService(db *gorm.DB, blobs BlobStore) *ImageService {
	return &ImageService{db: db, blobs: blobs}
}

// UploadRecipeImage validates that data decodes as an image, stores it and
// swaps the recipe's attachment reference.
func (s *ImageService) UploadRecipeImage(ctx context.Context, userID, recipeID uuid.UUID, data []byte) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&recipe, "id = ?", recipeID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrNotAnImage
	}

	// Re-encode so the stored blob is always a JPEG regardless of what was
	// uploaded.
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("recipe-images/%s.jpg", uuid.New().String())
	url, err := s.blobs.Put(ctx, key, buf.Bytes(), "image/jpeg")
	if err != nil {
		return nil, err
	}

	oldKey := recipe.ImageKey
	updates := map[string]interface{}{"image_key": key, "image_url": url}
	if err := s.db.WithContext(ctx).Model(&recipe).Updates(updates).Error; err != nil {
		// The recipe still references the old blob; drop the new one.
		if delErr := s.blobs.Delete(ctx, key); delErr != nil {
			log.Printf("[ImageService] failed to remove orphaned blob %s: %v", key, delErr)
		}
		return nil, err
	}

	if oldKey != "" {
		if err := s.blobs.Delete(ctx, oldKey); err != nil {
			log.Printf("[ImageService] failed to remove replaced blob %s: %v", oldKey, err)
		}
	}
	return &recipe, nil
}

// Release removes a blob that no recipe references anymore, e.g. after the
// owning recipe was deleted. A missing key is a no-op.
func (s *ImageService) Release(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.blobs.Delete(ctx, key); err != nil {
		log.Printf("[ImageService] failed to remove blob %s: %v", key, err)
	}
}
