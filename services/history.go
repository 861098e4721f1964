package services

import (
	"context"

	"tableorder-telegram/api"
	"tableorder-telegram/models"
)

// HistoryService reads the session's past order lines. Pure read: entries
// come entirely from the server and are rendered in the order delivered.
type HistoryService struct {
	client *api.Client
}

func NewHistoryService(client *api.Client) *HistoryService {
	return &HistoryService{client: client}
}

func (h *HistoryService) Fetch(ctx context.Context, token string) ([]models.HistoryEntry, error) {
	records, err := h.client.MyOrders(ctx, token)
	if err != nil {
		return nil, err
	}
	entries := make([]models.HistoryEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, models.HistoryEntry{
			ID:          rec.ID,
			MenuName:    rec.Menu.Name,
			ImageURL:    rec.Menu.ImageURL,
			Quantity:    rec.Quantity,
			PriceAtTime: rec.PriceAtTime,
			Status:      rec.Status,
			Options:     rec.Options,
		})
	}
	return entries, nil
}

// HistorySubtotal sums price-at-time times quantity across all entries.
func HistorySubtotal(entries []models.HistoryEntry) int64 {
	var total int64
	for _, e := range entries {
		total += e.PriceAtTime * int64(e.Quantity)
	}
	return total
}
