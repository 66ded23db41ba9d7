package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/kentonium3/bake-tracker-sub012/pkg/domain/entities"
	"github.com/kentonium3/bake-tracker-sub012/pkg/domain/repositories"
)

// Store is an in-memory data store for tests and CSV scenarios. Begin
// clones the whole state; Commit swaps the clone in, Rollback discards
// it, so a unit of work is all-or-nothing just like a real transaction.
type Store struct {
	state *state
}

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return &Store{state: newState()}
}

// Verify interface compliance
var _ repositories.Store = (*Store)(nil)

// Begin opens a unit of work over a snapshot of the current state
func (s *Store) Begin(ctx context.Context) (repositories.UnitOfWork, error) {
	return &unitOfWork{store: s, working: s.state.clone()}, nil
}

type state struct {
	ingredients map[entities.IngredientID]*entities.Ingredient
	lots        []*entities.InventoryLot
	recipes     map[entities.RecipeID]*entities.Recipe
	units       map[entities.FinishedUnitID]*entities.FinishedUnit
	bundles     map[entities.BundleID]*entities.Bundle
	events      map[entities.EventID]*entities.Event
	reqs        []*entities.EventRequirement
	decisions   []*entities.BatchDecision
	snapshots   map[entities.EventID]*entities.PlanSnapshot
	nextSeq     int64
}

func newState() *state {
	return &state{
		ingredients: make(map[entities.IngredientID]*entities.Ingredient),
		recipes:     make(map[entities.RecipeID]*entities.Recipe),
		units:       make(map[entities.FinishedUnitID]*entities.FinishedUnit),
		bundles:     make(map[entities.BundleID]*entities.Bundle),
		events:      make(map[entities.EventID]*entities.Event),
		snapshots:   make(map[entities.EventID]*entities.PlanSnapshot),
	}
}

func (st *state) clone() *state {
	next := newState()
	for id, v := range st.ingredients {
		c := *v
		next.ingredients[id] = &c
	}
	for _, lot := range st.lots {
		c := *lot
		next.lots = append(next.lots, &c)
	}
	for id, v := range st.recipes {
		c := *v
		c.Lines = append([]entities.RecipeLine(nil), v.Lines...)
		c.YieldOptions = append([]entities.YieldOption(nil), v.YieldOptions...)
		next.recipes[id] = &c
	}
	for id, v := range st.units {
		c := *v
		next.units[id] = &c
	}
	for id, v := range st.bundles {
		c := *v
		c.Edges = append([]entities.CompositionEdge(nil), v.Edges...)
		next.bundles[id] = &c
	}
	for id, v := range st.events {
		c := *v
		next.events[id] = &c
	}
	for _, req := range st.reqs {
		c := *req
		next.reqs = append(next.reqs, &c)
	}
	for _, d := range st.decisions {
		c := *d
		next.decisions = append(next.decisions, &c)
	}
	for id, v := range st.snapshots {
		c := *v
		c.RecipeBatches = append([]entities.RecipeBatchPlan(nil), v.RecipeBatches...)
		c.Ingredients = append([]entities.IngredientNeed(nil), v.Ingredients...)
		c.ShoppingList = append([]entities.GapItem(nil), v.ShoppingList...)
		c.Warnings = append([]string(nil), v.Warnings...)
		next.snapshots[id] = &c
	}
	next.nextSeq = st.nextSeq
	return next
}

type unitOfWork struct {
	store     *Store
	working   *state
	committed bool
}

// Verify interface compliance
var _ repositories.UnitOfWork = (*unitOfWork)(nil)

func (u *unitOfWork) Ingredients() repositories.IngredientRepository { return &ingredientRepo{u.working} }
func (u *unitOfWork) Inventory() repositories.InventoryRepository    { return &inventoryRepo{u.working} }
func (u *unitOfWork) Recipes() repositories.RecipeRepository         { return &recipeRepo{u.working} }
func (u *unitOfWork) Bundles() repositories.BundleRepository         { return &bundleRepo{u.working} }
func (u *unitOfWork) Events() repositories.EventRepository           { return &eventRepo{u.working} }
func (u *unitOfWork) Plans() repositories.PlanRepository             { return &planRepo{u.working} }

func (u *unitOfWork) Commit() error {
	u.store.state = u.working
	u.committed = true
	return nil
}

func (u *unitOfWork) Rollback() error {
	if u.committed {
		return nil
	}
	u.working = u.store.state.clone()
	return nil
}

type ingredientRepo struct{ st *state }

func (r *ingredientRepo) GetIngredient(id entities.IngredientID) (*entities.Ingredient, error) {
	ing, ok := r.st.ingredients[id]
	if !ok {
		return nil, &entities.NotFoundError{Kind: "ingredient", ID: string(id)}
	}
	c := *ing
	return &c, nil
}

func (r *ingredientRepo) GetAllIngredients() ([]*entities.Ingredient, error) {
	out := make([]*entities.Ingredient, 0, len(r.st.ingredients))
	for _, ing := range r.st.ingredients {
		c := *ing
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *ingredientRepo) SaveIngredient(ingredient *entities.Ingredient) error {
	c := *ingredient
	r.st.ingredients[ingredient.ID] = &c
	return nil
}

type inventoryRepo struct{ st *state }

func (r *inventoryRepo) GetLots(ingredientID entities.IngredientID) ([]*entities.InventoryLot, error) {
	var lots []*entities.InventoryLot
	for _, lot := range r.st.lots {
		if lot.IngredientID == ingredientID && lot.Quantity.IsPositive() {
			c := *lot
			lots = append(lots, &c)
		}
	}
	sort.Slice(lots, func(i, j int) bool { return lots[i].Before(lots[j]) })
	return lots, nil
}

func (r *inventoryRepo) GetAllLots() ([]*entities.InventoryLot, error) {
	out := make([]*entities.InventoryLot, 0, len(r.st.lots))
	for _, lot := range r.st.lots {
		c := *lot
		out = append(out, &c)
	}
	return out, nil
}

func (r *inventoryRepo) SaveLot(lot *entities.InventoryLot) error {
	for _, existing := range r.st.lots {
		if existing.ID == lot.ID {
			seq := existing.Seq
			*existing = *lot
			existing.Seq = seq
			return nil
		}
	}
	c := *lot
	r.st.nextSeq++
	c.Seq = r.st.nextSeq
	r.st.lots = append(r.st.lots, &c)
	return nil
}

func (r *inventoryRepo) UpdateLotQuantity(lotID entities.LotID, quantity decimal.Decimal) error {
	for _, lot := range r.st.lots {
		if lot.ID == lotID {
			lot.Quantity = quantity
			return nil
		}
	}
	return &entities.NotFoundError{Kind: "lot", ID: string(lotID)}
}

type recipeRepo struct{ st *state }

func (r *recipeRepo) GetRecipe(id entities.RecipeID) (*entities.Recipe, error) {
	recipe, ok := r.st.recipes[id]
	if !ok {
		return nil, &entities.NotFoundError{Kind: "recipe", ID: string(id)}
	}
	c := *recipe
	return &c, nil
}

func (r *recipeRepo) GetAllRecipes() ([]*entities.Recipe, error) {
	out := make([]*entities.Recipe, 0, len(r.st.recipes))
	for _, recipe := range r.st.recipes {
		c := *recipe
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *recipeRepo) SaveRecipe(recipe *entities.Recipe) error {
	c := *recipe
	r.st.recipes[recipe.ID] = &c
	return nil
}

func (r *recipeRepo) GetFinishedUnit(id entities.FinishedUnitID) (*entities.FinishedUnit, error) {
	unit, ok := r.st.units[id]
	if !ok {
		return nil, &entities.NotFoundError{Kind: "finished unit", ID: string(id)}
	}
	c := *unit
	return &c, nil
}

func (r *recipeRepo) GetAllFinishedUnits() ([]*entities.FinishedUnit, error) {
	out := make([]*entities.FinishedUnit, 0, len(r.st.units))
	for _, unit := range r.st.units {
		c := *unit
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *recipeRepo) SaveFinishedUnit(unit *entities.FinishedUnit) error {
	c := *unit
	r.st.units[unit.ID] = &c
	return nil
}

type bundleRepo struct{ st *state }

func (r *bundleRepo) GetBundle(id entities.BundleID) (*entities.Bundle, error) {
	bundle, ok := r.st.bundles[id]
	if !ok {
		return nil, &entities.NotFoundError{Kind: "bundle", ID: string(id)}
	}
	c := *bundle
	return &c, nil
}

func (r *bundleRepo) GetAllBundles() ([]*entities.Bundle, error) {
	out := make([]*entities.Bundle, 0, len(r.st.bundles))
	for _, bundle := range r.st.bundles {
		c := *bundle
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *bundleRepo) SaveBundle(bundle *entities.Bundle) error {
	c := *bundle
	r.st.bundles[bundle.ID] = &c
	return nil
}

type eventRepo struct{ st *state }

func (r *eventRepo) GetEvent(id entities.EventID) (*entities.Event, error) {
	event, ok := r.st.events[id]
	if !ok {
		return nil, &entities.NotFoundError{Kind: "event", ID: string(id)}
	}
	c := *event
	return &c, nil
}

func (r *eventRepo) SaveEvent(event *entities.Event) error {
	c := *event
	r.st.events[event.ID] = &c
	return nil
}

func (r *eventRepo) GetRequirements(eventID entities.EventID) ([]*entities.EventRequirement, error) {
	var out []*entities.EventRequirement
	for _, req := range r.st.reqs {
		if req.EventID == eventID {
			c := *req
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *eventRepo) SaveRequirement(req *entities.EventRequirement) error {
	for _, existing := range r.st.reqs {
		if existing.ID == req.ID {
			*existing = *req
			return nil
		}
	}
	c := *req
	r.st.reqs = append(r.st.reqs, &c)
	return nil
}

func (r *eventRepo) GetBatchDecisions(eventID entities.EventID) ([]*entities.BatchDecision, error) {
	var out []*entities.BatchDecision
	for _, d := range r.st.decisions {
		if d.EventID == eventID {
			c := *d
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *eventRepo) SaveBatchDecision(decision *entities.BatchDecision) error {
	for _, existing := range r.st.decisions {
		if existing.EventID == decision.EventID && existing.RecipeID == decision.RecipeID {
			*existing = *decision
			return nil
		}
	}
	c := *decision
	r.st.decisions = append(r.st.decisions, &c)
	return nil
}

type planRepo struct{ st *state }

func (r *planRepo) GetSnapshot(eventID entities.EventID) (*entities.PlanSnapshot, error) {
	snapshot, ok := r.st.snapshots[eventID]
	if !ok {
		return nil, &entities.NotFoundError{Kind: "plan snapshot", ID: string(eventID)}
	}
	c := *snapshot
	return &c, nil
}

func (r *planRepo) SaveSnapshot(snapshot *entities.PlanSnapshot) error {
	c := *snapshot
	r.st.snapshots[snapshot.EventID] = &c
	return nil
}
