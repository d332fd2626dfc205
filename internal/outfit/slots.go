package outfit

import "github.com/Rrens/wardrobe-stylist/internal/domain"

// TopLabel returns the label for the first slot. Only the exact category
// "Dress" switches it away from "Top".
func TopLabel(top *domain.ClothingItem) string {
	if top != nil && top.Category == domain.DressCategory {
		return domain.LabelDress
	}
	return domain.LabelTop
}

// Slots returns the present slots in display order with their labels.
// Absent slots are omitted.
func Slots(s *domain.OutfitSuggestion) []domain.Slot {
	if s == nil {
		return nil
	}
	slots := make([]domain.Slot, 0, 3)
	if s.Top != nil {
		slots = append(slots, domain.Slot{Label: TopLabel(s.Top), Item: *s.Top})
	}
	if s.Bottom != nil {
		slots = append(slots, domain.Slot{Label: domain.LabelBottom, Item: *s.Bottom})
	}
	if s.Outerwear != nil {
		slots = append(slots, domain.Slot{Label: domain.LabelOuterwear, Item: *s.Outerwear})
	}
	return slots
}
