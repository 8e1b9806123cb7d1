package models

import "time"

// News is an item in the public news feed
type News struct {
	ID          int64     `json:"id,string"`
	Title       string    `json:"title"`
	Date        string    `json:"date"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	VideoURL    string    `json:"videoUrl,omitempty"`
	MediaURLs   []string  `json:"mediaUrls"`
	CreatedAt   time.Time `json:"createdAt"`
}
