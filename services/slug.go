package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"blogicum/forms"
	"blogicum/models"
	"blogicum/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const maxSlugAttempts = 3

// maxBaseSlug leaves room for a "-999" suffix inside the 300 character column.
const maxBaseSlug = models.SlugLength - len("-999")

const msgSlugTaken = "An object with this slug already exists."

// uniqueSlug returns base, or base-1, base-2, ... whichever is free first.
// Rows whose primary key equals exclude are ignored so an object can keep its own slug.
func uniqueSlug(tx *gorm.DB, model any, base string, exclude uint) (string, error) {
	candidate := base
	for i := 1; ; i++ {
		taken, err := slugTaken(tx, model, candidate, exclude)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

func slugTaken(tx *gorm.DB, model any, slug string, exclude uint) (bool, error) {
	q := tx.Model(model).Where("slug = ?", slug)
	if exclude != 0 {
		q = q.Where("id <> ?", exclude)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func baseSlug(title, fallback string) string {
	base := utils.Slugify(title)
	if len(base) > maxBaseSlug {
		base = strings.TrimRight(base[:maxBaseSlug], "-_")
	}
	if base == "" {
		return fallback
	}
	return base
}

// createWithSlug inserts row. When *slug is blank it is derived from title;
// an explicit slug must be free. Check and insert share a transaction, and
// when a concurrent writer still wins the race the unique index rejects the
// insert and a derived slug is recomputed.
func createWithSlug(ctx context.Context, db *gorm.DB, row any, title string, slug *string, fallback string) error {
	explicit := *slug != ""

	var err error
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if explicit {
				taken, err := slugTaken(tx, row, *slug, 0)
				if err != nil {
					return err
				}
				if taken {
					return forms.Field("slug", msgSlugTaken)
				}
			} else {
				candidate, err := uniqueSlug(tx, row, baseSlug(title, fallback), 0)
				if err != nil {
					return err
				}
				*slug = candidate
			}
			return tx.Omit(clause.Associations).Create(row).Error
		})
		if err == nil || !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		if explicit {
			return forms.Field("slug", msgSlugTaken)
		}
	}
	return fmt.Errorf("assigning slug after %d attempts: %w", maxSlugAttempts, err)
}
