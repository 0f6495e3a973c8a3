// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Item kinds. Posts and poems share one schema and differ only in the
// required fields at creation time.
const (
	KindPost = "post"
	KindPoem = "poem"
)

// Item is a feed entry: a post on the home feed or a poem on the poetry page.
type Item struct {
	ID       string `gorm:"primaryKey;size:36" json:"id"`
	Kind     string `gorm:"size:8;not null;index" json:"-"`
	Title    string `json:"title,omitempty"`
	Category string `json:"category,omitempty"`
	Content  string `gorm:"type:text" json:"content"`
	// Images holds opaque image references in insertion order (posts only).
	Images []string `gorm:"serializer:json" json:"images"`
	// Liked is the owner's single-click like flag, independent of visitor likes.
	Liked bool `json:"liked"`
	// LikesCount is not persisted; computed at query time from like rows
	// plus the owner flag.
	LikesCount int `gorm:"->" json:"likes"`
	// CommentsCount is not persisted; computed at query time.
	CommentsCount int `gorm:"->" json:"comments"`
	// LikesBy lists the visitor names that currently like this item.
	LikesBy []string `gorm:"-" json:"likes_by"`

	CommentsList []Comment `gorm:"foreignKey:ItemID" json:"comments_list"`
	LikeRecords  []Like    `gorm:"foreignKey:ItemID" json:"-"`

	CreatedAt time.Time `json:"timestamp"`
	UpdatedAt time.Time `json:"-"`
}

// Comment is a visitor comment on an item, append-only in display order.
type Comment struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	ItemID      string    `gorm:"size:36;not null;index" json:"-"`
	VisitorName string    `gorm:"not null" json:"visitorName"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	CreatedAt   time.Time `json:"timestamp"`
}

// Like marks that a named visitor currently likes an item. The composite
// primary key makes a repeat like from the same name a no-op at the storage
// layer, which is what keeps concurrent toggles from double-counting.
type Like struct {
	ItemID      string    `gorm:"primaryKey;size:36" json:"-"`
	VisitorName string    `gorm:"primaryKey;size:255" json:"visitorName"`
	CreatedAt   time.Time `json:"-"`
}

// Visitor records a single page view.
type Visitor struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	IP        string    `gorm:"size:64" json:"ip"`
	CreatedAt time.Time `json:"timestamp"`
}
