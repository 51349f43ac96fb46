package listing

import (
	"time"
)

type CreateDraftRequest struct {
	Title      string `json:"title" binding:"required,max=200"`
	PhotoCount int    `json:"photo_count" binding:"min=0"`
	VideoCount int    `json:"video_count" binding:"min=0"`
}

type ListingResponse struct {
	ID             int64      `json:"id"`
	SellerID       int64      `json:"seller_id"`
	Title          string     `json:"title"`
	Status         Status     `json:"status"`
	PhotoCount     int        `json:"photo_count"`
	VideoCount     int        `json:"video_count"`
	PublishedAt    *string    `json:"published_at,omitempty"`
	ExpiresAt      *string    `json:"expires_at,omitempty"`
	BoostedUntil   *string    `json:"boosted_until,omitempty"`
	SpotlightUntil *string    `json:"spotlight_until,omitempty"`
	Visibility     Visibility `json:"visibility"`
}

func buildListingResponse(l *Listing, now time.Time) ListingResponse {
	vis := VisibilityAt(l, now)
	return ListingResponse{
		ID:             l.ID,
		SellerID:       l.SellerID,
		Title:          l.Title,
		Status:         vis.Status,
		PhotoCount:     l.PhotoCount,
		VideoCount:     l.VideoCount,
		PublishedAt:    formatTime(l.PublishedAt.Time, l.PublishedAt.Valid),
		ExpiresAt:      formatTime(l.ExpiresAt.Time, l.ExpiresAt.Valid),
		BoostedUntil:   formatTime(l.BoostedUntil.Time, l.BoostedUntil.Valid),
		SpotlightUntil: formatTime(l.SpotlightUntil.Time, l.SpotlightUntil.Valid),
		Visibility:     vis,
	}
}

func formatTime(t time.Time, valid bool) *string {
	if !valid {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}
