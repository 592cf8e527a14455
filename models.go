package main

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* ===================== Roles ====================== */

const (
	RoleUser          = "user"
	RolePromptMaster  = "prompt_master"
	RoleAdministrator = "administrator"
)

// A standard user is promoted to prompt master once their received likes
// reach this count. Promotion is one-way: dropping back under the
// threshold never demotes.
const promptMasterThreshold = 10

/* ===================== DB models ====================== */

// Profile is both the auth record and the public author identity.
// Handlers convert it to profileDTO before it leaves the API.
type Profile struct {
	ID           string    `gorm:"primaryKey;type:text"`
	Username     string    `gorm:"uniqueIndex;size:64;not null"`
	Email        string    `gorm:"uniqueIndex;size:320;not null"`
	PasswordHash string    `gorm:"size:255;not null"`
	Role         string    `gorm:"type:text;not null;default:user"`
	Avatar       *string   `gorm:"type:text"`
	Bio          *string   `gorm:"type:text"`
	TotalLikes   int       `gorm:"not null;default:0"`
	PromptCount  int       `gorm:"not null;default:0"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (Profile) TableName() string { return "profiles" }

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

type Prompt struct {
	ID            string    `gorm:"primaryKey;type:text"`
	Title         string    `gorm:"size:255;not null"`
	Content       string    `gorm:"type:text;not null"`
	Description   *string   `gorm:"type:text"`
	Category      *string   `gorm:"size:64"`
	Tags          []string  `gorm:"serializer:json;type:text"`
	AuthorID      string    `gorm:"index;type:text;not null"`
	// No column default here: gorm would treat an explicit false as unset
	// and store the default, flipping private prompts to public.
	IsPublic      bool      `gorm:"not null"`
	LikesCount    int       `gorm:"not null;default:0"`
	CommentsCount int       `gorm:"not null;default:0"`
	CreatedAt     time.Time `gorm:"index;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

func (Prompt) TableName() string { return "prompts" }

func (p *Prompt) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

type PromptComment struct {
	ID        string    `gorm:"primaryKey;type:text"`
	PromptID  string    `gorm:"index;type:text;not null"`
	UserID    string    `gorm:"index;type:text;not null"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (PromptComment) TableName() string { return "prompt_comments" }

func (c *PromptComment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// PromptLike is an existence-only edge: at most one row per (prompt, user).
// Its cardinality is the source of truth behind the denormalized
// Prompt.LikesCount and Profile.TotalLikes counters.
type PromptLike struct {
	PromptID  string    `gorm:"primaryKey;type:text"`
	UserID    string    `gorm:"primaryKey;type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (PromptLike) TableName() string { return "prompt_likes" }
