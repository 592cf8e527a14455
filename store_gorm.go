package main

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// gormStore implements Store on a relational database. All counter
// maintenance (likes_count, comments_count, total_likes, prompt_count)
// happens in the same transaction as the row change it mirrors, guarded by
// an existence check so replays cannot drift the counters.
type gormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) Store { return &gormStore{db: db} }

/* ===================== Profiles ====================== */

func (s *gormStore) CreateProfile(ctx context.Context, p *Profile) error {
	return s.db.WithContext(ctx).Create(p).Error
}

func (s *gormStore) ProfileByID(ctx context.Context, id string) (*Profile, error) {
	var p Profile
	err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *gormStore) ProfileByEmail(ctx context.Context, email string) (*Profile, error) {
	var p Profile
	err := s.db.WithContext(ctx).First(&p, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *gormStore) ProfilesByIDs(ctx context.Context, ids []string) ([]Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []Profile
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *gormStore) ProfileTaken(ctx context.Context, email, username string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&Profile{}).
		Where("email = ? OR username = ?", email, username).
		Count(&count).Error
	return count > 0, err
}

func (s *gormStore) UpdateProfile(ctx context.Context, p *Profile) error {
	return s.db.WithContext(ctx).Save(p).Error
}

func (s *gormStore) ListProfiles(ctx context.Context) ([]Profile, error) {
	var out []Profile
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *gormStore) SetRole(ctx context.Context, id, role string) error {
	res := s.db.WithContext(ctx).Model(&Profile{}).Where("id = ?", id).Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

/* ===================== Prompts ====================== */

func (s *gormStore) PublicPrompts(ctx context.Context) ([]Prompt, error) {
	var out []Prompt
	err := s.db.WithContext(ctx).
		Where("is_public = ?", true).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *gormStore) PromptsByAuthor(ctx context.Context, authorID string) ([]Prompt, error) {
	var out []Prompt
	err := s.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *gormStore) PromptByID(ctx context.Context, id string) (*Prompt, error) {
	var p Prompt
	err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *gormStore) CreatePrompt(ctx context.Context, p *Prompt) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		return tx.Model(&Profile{}).Where("id = ?", p.AuthorID).
			UpdateColumn("prompt_count", gorm.Expr("prompt_count + 1")).Error
	})
}

// DeletePrompt removes a prompt owned by ownerID together with its comments
// and like edges. TotalLikes is cumulative reputation and is deliberately
// left untouched.
func (s *gormStore) DeletePrompt(ctx context.Context, id, ownerID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND author_id = ?", id, ownerID).Delete(&Prompt{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Where("prompt_id = ?", id).Delete(&PromptComment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("prompt_id = ?", id).Delete(&PromptLike{}).Error; err != nil {
			return err
		}
		return tx.Model(&Profile{}).Where("id = ? AND prompt_count > 0", ownerID).
			UpdateColumn("prompt_count", gorm.Expr("prompt_count - 1")).Error
	})
}

/* ===================== Comments ====================== */

func (s *gormStore) CommentsByPrompt(ctx context.Context, promptID string) ([]PromptComment, error) {
	var out []PromptComment
	err := s.db.WithContext(ctx).
		Where("prompt_id = ?", promptID).
		Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *gormStore) CreateComment(ctx context.Context, c *PromptComment) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var prompt Prompt
		if err := tx.First(&prompt, "id = ?", c.PromptID).Error; errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		} else if err != nil {
			return err
		}
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		return tx.Model(&Prompt{}).Where("id = ?", c.PromptID).
			UpdateColumn("comments_count", gorm.Expr("comments_count + 1")).Error
	})
}

func (s *gormStore) DeleteComment(ctx context.Context, id, userID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c PromptComment
		err := tx.First(&c, "id = ? AND user_id = ?", id, userID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		} else if err != nil {
			return err
		}
		if err := tx.Delete(&PromptComment{}, "id = ?", c.ID).Error; err != nil {
			return err
		}
		return tx.Model(&Prompt{}).Where("id = ? AND comments_count > 0", c.PromptID).
			UpdateColumn("comments_count", gorm.Expr("comments_count - 1")).Error
	})
}

/* ===================== Like edges ====================== */

func (s *gormStore) LikedPromptIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).Model(&PromptLike{}).
		Where("user_id = ?", userID).
		Pluck("prompt_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// InsertLike creates the (prompt, user) edge if it does not already exist
// and bumps both denormalized counters. A replay on an existing edge is a
// no-op, so the counters track edge cardinality exactly. Promotion to
// prompt master happens here, on the author row, and never reverses.
func (s *gormStore) InsertLike(ctx context.Context, promptID, userID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var prompt Prompt
		if err := tx.First(&prompt, "id = ?", promptID).Error; errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		} else if err != nil {
			return err
		}

		var edge PromptLike
		err := tx.Where("prompt_id = ? AND user_id = ?", promptID, userID).First(&edge).Error
		if err == nil {
			return nil // already liked
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Create(&PromptLike{PromptID: promptID, UserID: userID}).Error; err != nil {
			return err
		}
		if err := tx.Model(&Prompt{}).Where("id = ?", promptID).
			UpdateColumn("likes_count", gorm.Expr("likes_count + 1")).Error; err != nil {
			return err
		}

		var author Profile
		if err := tx.First(&author, "id = ?", prompt.AuthorID).Error; err != nil {
			return err
		}
		author.TotalLikes++
		if author.Role == RoleUser && author.TotalLikes >= promptMasterThreshold {
			author.Role = RolePromptMaster
		}
		return tx.Model(&Profile{}).Where("id = ?", author.ID).
			Updates(map[string]any{"total_likes": author.TotalLikes, "role": author.Role}).Error
	})
}

func (s *gormStore) DeleteLike(ctx context.Context, promptID, userID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("prompt_id = ? AND user_id = ?", promptID, userID).Delete(&PromptLike{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil // nothing to unlike
		}
		if err := tx.Model(&Prompt{}).Where("id = ? AND likes_count > 0", promptID).
			UpdateColumn("likes_count", gorm.Expr("likes_count - 1")).Error; err != nil {
			return err
		}
		var prompt Prompt
		if err := tx.First(&prompt, "id = ?", promptID).Error; err != nil {
			return err
		}
		// Role stays as-is: promotion is one-directional.
		return tx.Model(&Profile{}).Where("id = ? AND total_likes > 0", prompt.AuthorID).
			UpdateColumn("total_likes", gorm.Expr("total_likes - 1")).Error
	})
}
