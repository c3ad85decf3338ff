package domain

import (
	"time"
)

// ReviewSnippet is a merchant-authored text blurb attached to a product.
// At most one snippet exists per (shop, product) pair; repeated saves
// overwrite the content in place. Snippets are never deleted.
type ReviewSnippet struct {
	ID        int64     `json:"id"`
	Shop      string    `json:"shop"`
	ProductID string    `json:"product_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
