package component

import "errors"

// ErrInventoryFull is returned when an add would exceed capacity.
var ErrInventoryFull = errors.New("inventory is full")

// Item is a carried object. Items are values inside an inventory, not
// entities of their own.
type Item struct {
	Kind       string  `json:"kind"`
	Weight     float64 `json:"weight"`
	Value      int     `json:"value"`
	Stackable  bool    `json:"stackable"`
	StackCount int     `json:"stack_count"`
}

// Inventory is a bounded list of items. Capacity is enforced at add-time
// only; shrinking capacity later never evicts existing items.
type Inventory struct {
	Items    []Item `json:"items"`
	Capacity int    `json:"capacity"`
}

func NewInventory(capacity int) *Inventory {
	return &Inventory{Capacity: capacity}
}

func (inv *Inventory) Full() bool {
	return len(inv.Items) >= inv.Capacity
}

// Add inserts an item, merging onto an existing stack when the kind is
// stackable. A merged stack does not consume a new slot, so it succeeds even
// at capacity.
func (inv *Inventory) Add(item Item) error {
	if item.Stackable {
		for i := range inv.Items {
			if inv.Items[i].Stackable && inv.Items[i].Kind == item.Kind {
				inv.Items[i].StackCount += itemCount(item)
				return nil
			}
		}
	}
	if inv.Full() {
		return ErrInventoryFull
	}
	if item.Stackable && item.StackCount == 0 {
		item.StackCount = 1
	}
	inv.Items = append(inv.Items, item)
	return nil
}

// Remove takes one item (or one stack unit) of the given kind. It reports
// whether anything was removed.
func (inv *Inventory) Remove(kind string) bool {
	for i := range inv.Items {
		if inv.Items[i].Kind != kind {
			continue
		}
		if inv.Items[i].Stackable && inv.Items[i].StackCount > 1 {
			inv.Items[i].StackCount--
			return true
		}
		inv.Items = append(inv.Items[:i], inv.Items[i+1:]...)
		return true
	}
	return false
}

// Count returns how many units of kind are carried, counting stacks.
func (inv *Inventory) Count(kind string) int {
	n := 0
	for _, it := range inv.Items {
		if it.Kind == kind {
			n += itemCount(it)
		}
	}
	return n
}

func itemCount(it Item) int {
	if it.Stackable && it.StackCount > 0 {
		return it.StackCount
	}
	return 1
}
