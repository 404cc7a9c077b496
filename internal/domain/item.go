package domain

import (
	"strings"
	"time"
)

// ItemStatus enumerates moderation/lifecycle states for listings.
type ItemStatus string

const (
	ItemStatusPending  ItemStatus = "pending"
	ItemStatusApproved ItemStatus = "approved"
	ItemStatusRejected ItemStatus = "rejected"
	ItemStatusSwapped  ItemStatus = "swapped"
)

// ItemCategory enumerates clothing categories.
type ItemCategory string

const (
	CategoryTops        ItemCategory = "tops"
	CategoryBottoms     ItemCategory = "bottoms"
	CategoryDresses     ItemCategory = "dresses"
	CategoryOuterwear   ItemCategory = "outerwear"
	CategoryShoes       ItemCategory = "shoes"
	CategoryAccessories ItemCategory = "accessories"
	CategoryOther       ItemCategory = "other"
)

// ItemCondition enumerates wear conditions.
type ItemCondition string

const (
	ConditionExcellent ItemCondition = "excellent"
	ConditionGood      ItemCondition = "good"
	ConditionFair      ItemCondition = "fair"
	ConditionPoor      ItemCondition = "poor"
)

// ItemSizes lists accepted size labels.
var ItemSizes = []string{
	"XS", "S", "M", "L", "XL", "XXL", "XXXL",
	"6", "7", "8", "9", "10", "11", "12", "One Size",
}

// Item is the aggregate for a listed clothing article.
type Item struct {
	ID           string
	OwnerID      string
	Title        string
	Description  string
	Category     ItemCategory
	ClothingType string
	Size         string
	Condition    ItemCondition
	Images       []string
	Tags         []string
	Status       ItemStatus
	Featured     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ValidCategory reports whether the category is a known enum value.
func ValidCategory(c ItemCategory) bool {
	switch c {
	case CategoryTops, CategoryBottoms, CategoryDresses, CategoryOuterwear,
		CategoryShoes, CategoryAccessories, CategoryOther:
		return true
	}
	return false
}

// ValidCondition reports whether the condition is a known enum value.
func ValidCondition(c ItemCondition) bool {
	switch c {
	case ConditionExcellent, ConditionGood, ConditionFair, ConditionPoor:
		return true
	}
	return false
}

// ValidSize reports whether the size label is accepted.
func ValidSize(size string) bool {
	for _, s := range ItemSizes {
		if s == size {
			return true
		}
	}
	return false
}

// ValidImageURL reports whether the value looks like an http(s) URL.
func ValidImageURL(url string) bool {
	return strings.HasPrefix(url, "http")
}
