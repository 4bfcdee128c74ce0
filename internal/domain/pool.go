package domain

// PoolItem is one catalog activity a generator can place in a slot.
type PoolItem struct {
	Name        string
	Location    string
	Description string
	Duration    string
	Cost        float64
}

// ActivityPool is a destination's catalog bucketed by category.
type ActivityPool struct {
	Destination    string
	BaseCostPerDay float64
	Items          map[Category][]PoolItem
}

// Bucket returns the items of one category. Nil-safe.
func (p *ActivityPool) Bucket(c Category) []PoolItem {
	if p == nil {
		return nil
	}
	return p.Items[c]
}
