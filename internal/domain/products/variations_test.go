package products

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func persistedVariation(id uuid.UUID) *Variation {
	pid := uuid.New()
	return &Variation{ID: id, ProductID: &pid, SizeID: uuid.New(), ColorID: uuid.New(), Quantity: 3}
}

func inputFor(id uuid.UUID, qty int) VariationInput {
	return VariationInput{ID: &id, SizeID: uuid.New(), ColorID: uuid.New(), Quantity: qty}
}

func TestPlanVariations_ClassifiesNewExistingRemoved(t *testing.T) {
	keep, drop := uuid.New(), uuid.New()
	persisted := []*Variation{persistedVariation(keep), persistedVariation(drop)}

	fresh := VariationInput{SizeID: uuid.New(), ColorID: uuid.New(), Quantity: 5}
	incoming := []VariationInput{inputFor(keep, 10), fresh}

	plan, err := PlanVariations(persisted, incoming, nil)
	require.NoError(t, err)

	require.Len(t, plan.Create, 1)
	assert.Equal(t, 5, plan.Create[0].Quantity)
	require.Len(t, plan.Update, 1)
	assert.Equal(t, keep, *plan.Update[0].ID)
	assert.Equal(t, 10, plan.Update[0].Quantity)
	assert.Equal(t, []uuid.UUID{drop}, plan.Delete)
	assert.Empty(t, plan.Disconnect)
}

func TestPlanVariations_DeliveredRefsDisconnect(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	persisted := []*Variation{persistedVariation(a), persistedVariation(b)}

	refs := []VariationRef{
		{VariationID: a, OrderID: uuid.New(), Delivered: true},
		{VariationID: a, OrderID: uuid.New(), Delivered: true},
	}

	plan, err := PlanVariations(persisted, nil, refs)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a}, plan.Disconnect)
	assert.Equal(t, []uuid.UUID{b}, plan.Delete)
	assert.Empty(t, plan.Create)
	assert.Empty(t, plan.Update)
}

func TestPlanVariations_UndeliveredRefRejectsWholeUpdate(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	persisted := []*Variation{persistedVariation(a), persistedVariation(b)}

	refs := []VariationRef{
		{VariationID: a, OrderID: uuid.New(), Delivered: true},
		{VariationID: b, OrderID: uuid.New(), Delivered: false},
	}

	plan, err := PlanVariations(persisted, []VariationInput{{SizeID: uuid.New(), ColorID: uuid.New()}}, refs)
	require.ErrorIs(t, err, ErrVariationInUse)
	assert.Nil(t, plan)
}

func TestPlanVariations_RefsOnKeptVariationsAreIgnored(t *testing.T) {
	a := uuid.New()
	persisted := []*Variation{persistedVariation(a)}
	refs := []VariationRef{{VariationID: a, OrderID: uuid.New(), Delivered: false}}

	plan, err := PlanVariations(persisted, []VariationInput{inputFor(a, 1)}, refs)
	require.NoError(t, err)
	assert.Len(t, plan.Update, 1)
	assert.Empty(t, plan.Delete)
}

func TestPlanVariations_UnknownID(t *testing.T) {
	persisted := []*Variation{persistedVariation(uuid.New())}

	_, err := PlanVariations(persisted, []VariationInput{inputFor(uuid.New(), 1)}, nil)
	require.ErrorIs(t, err, ErrUnknownVariation)

	_, err = PlanVariations(nil, []VariationInput{inputFor(uuid.New(), 1)}, nil)
	require.ErrorIs(t, err, ErrUnknownVariation)
}

func TestPlanVariations_DuplicateID(t *testing.T) {
	a := uuid.New()
	persisted := []*Variation{persistedVariation(a)}

	_, err := PlanVariations(persisted, []VariationInput{inputFor(a, 1), inputFor(a, 2)}, nil)
	require.ErrorIs(t, err, ErrDuplicateVariation)
}

func TestPlanVariations_PreservesIncomingOrder(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	persisted := []*Variation{persistedVariation(a), persistedVariation(b), persistedVariation(c)}

	plan, err := PlanVariations(persisted, []VariationInput{inputFor(c, 1), inputFor(a, 1), inputFor(b, 1)}, nil)
	require.NoError(t, err)
	require.Len(t, plan.Update, 3)
	assert.Equal(t, c, *plan.Update[0].ID)
	assert.Equal(t, a, *plan.Update[1].ID)
	assert.Equal(t, b, *plan.Update[2].ID)
}

func TestRemovedVariations(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	persisted := []*Variation{persistedVariation(a), persistedVariation(b)}

	removed := RemovedVariations(persisted, []VariationInput{inputFor(b, 1)})
	require.Len(t, removed, 1)
	assert.Equal(t, a, removed[0].ID)

	assert.Empty(t, RemovedVariations(nil, nil))
	assert.Equal(t, []string{a.String()}, variationIDs(removed))
}
