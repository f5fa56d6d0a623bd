package products

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrVariationInUse     = errors.New("product variation cannot be deleted because it is used in an order")
	ErrUnknownVariation   = errors.New("product variation does not belong to this product")
	ErrDuplicateVariation = errors.New("product variation listed more than once")
)

// VariationRef is an order line item pointing at a variation.
type VariationRef struct {
	VariationID uuid.UUID
	OrderID     uuid.UUID
	Delivered   bool
}

// VariationPlan is the set of writes that turns the persisted variations of a
// product into the incoming list.
type VariationPlan struct {
	Create     []VariationInput `json:"create"`
	Update     []VariationInput `json:"update"`
	Disconnect []uuid.UUID      `json:"disconnect"`
	Delete     []uuid.UUID      `json:"delete"`
}

// NewVariations returns the incoming entries that have no identity yet.
func NewVariations(incoming []VariationInput) []VariationInput {
	out := []VariationInput{}
	for _, v := range incoming {
		if v.ID == nil {
			out = append(out, v)
		}
	}
	return out
}

// ExistingVariations returns the incoming entries whose identity is persisted.
func ExistingVariations(persisted []*Variation, incoming []VariationInput) []VariationInput {
	known := make(map[uuid.UUID]struct{}, len(persisted))
	for _, p := range persisted {
		known[p.ID] = struct{}{}
	}

	out := []VariationInput{}
	for _, v := range incoming {
		if v.ID == nil {
			continue
		}
		if _, ok := known[*v.ID]; ok {
			out = append(out, v)
		}
	}
	return out
}

// RemovedVariations returns the persisted variations missing from incoming.
func RemovedVariations(persisted []*Variation, incoming []VariationInput) []*Variation {
	kept := make(map[uuid.UUID]struct{}, len(incoming))
	for _, v := range incoming {
		if v.ID != nil {
			kept[*v.ID] = struct{}{}
		}
	}

	out := []*Variation{}
	for _, p := range persisted {
		if _, ok := kept[p.ID]; !ok {
			out = append(out, p)
		}
	}
	return out
}

// PlanVariations classifies incoming against persisted. refs must hold the
// order line items that reference the removed variations; refs for other
// variations are ignored.
//
// A removed variation referenced by an order that is not delivered blocks the
// whole update. Removed variations referenced only by delivered orders are
// disconnected, the rest are deleted.
func PlanVariations(persisted []*Variation, incoming []VariationInput, refs []VariationRef) (*VariationPlan, error) {
	known := make(map[uuid.UUID]struct{}, len(persisted))
	for _, p := range persisted {
		known[p.ID] = struct{}{}
	}

	seen := make(map[uuid.UUID]struct{}, len(incoming))
	for _, v := range incoming {
		if v.ID == nil {
			continue
		}
		if _, ok := known[*v.ID]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownVariation, *v.ID)
		}
		if _, dup := seen[*v.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateVariation, *v.ID)
		}
		seen[*v.ID] = struct{}{}
	}

	plan := &VariationPlan{
		Create:     NewVariations(incoming),
		Update:     ExistingVariations(persisted, incoming),
		Disconnect: []uuid.UUID{},
		Delete:     []uuid.UUID{},
	}

	removed := RemovedVariations(persisted, incoming)
	if len(removed) == 0 {
		return plan, nil
	}

	referenced := make(map[uuid.UUID]struct{})
	var blocking []uuid.UUID
	for _, r := range refs {
		referenced[r.VariationID] = struct{}{}
		if !r.Delivered {
			blocking = append(blocking, r.VariationID)
		}
	}

	for _, v := range removed {
		for _, b := range blocking {
			if b == v.ID {
				return nil, fmt.Errorf("%w: %s", ErrVariationInUse, v.ID)
			}
		}
	}

	for _, v := range removed {
		if _, ok := referenced[v.ID]; ok {
			plan.Disconnect = append(plan.Disconnect, v.ID)
		} else {
			plan.Delete = append(plan.Delete, v.ID)
		}
	}

	return plan, nil
}

func variationIDs(vs []*Variation) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.ID.String())
	}
	return out
}
