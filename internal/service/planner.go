package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/platewise/backend/internal/plan"
)

// ErrGenerationInFlight is returned when a generation request arrives
// while another one is still running. There is one logical writer, so
// the second request is rejected rather than queued.
var ErrGenerationInFlight = errors.New("meal generation already in progress")

// ErrItemNotFound is returned for shopping list lookups by name that
// match nothing.
var ErrItemNotFound = errors.New("shopping list item not found")

const snapshotKey = "planner:snapshot"

// snapshot is the opaque JSON persisted to Redis after every successful
// mutation, and reloaded at startup.
type snapshot struct {
	Plan         *plan.Plan              `json:"plan"`
	ShoppingList []plan.ShoppingListItem `json:"shopping_list"`
}

// PlanService owns the live weekly plan and its derived shopping list.
// All mutations are serialized and budget-gated; the shopping list is
// recomputed on every plan change, resetting purchased flags. Per-item
// purchased toggles and manual amount/price overrides survive until the
// next plan change.
type PlanService struct {
	mu         sync.Mutex
	generating atomic.Bool

	plan  *plan.Plan
	items []plan.ShoppingListItem

	source MealSource
	prefs  PreferenceReader
	redis  *redis.Client

	onChange []func()
}

// NewPlanService creates a new PlanService instance, restoring the last
// plan snapshot from Redis when one exists.
func NewPlanService(source MealSource, prefs PreferenceReader, redisClient *redis.Client) *PlanService {
	s := &PlanService{
		plan:   plan.New(),
		source: source,
		prefs:  prefs,
		redis:  redisClient,
	}
	s.restoreSnapshot()
	return s
}

// OnChange registers a callback invoked after every successful mutation.
func (s *PlanService) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = append(s.onChange, fn)
}

// GetPlan returns a deep copy of the current plan.
func (s *PlanService) GetPlan() *plan.Plan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plan.Clone()
}

// GetShoppingList returns a copy of the current shopping list state.
func (s *PlanService) GetShoppingList() []plan.ShoppingListItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]plan.ShoppingListItem, len(s.items))
	copy(out, s.items)
	return out
}

// GeneratePlan fetches seven meals per category from the meal source and
// maps them onto the full grid. Concurrent calls are rejected; a source
// failure or budget rejection leaves the current plan untouched.
func (s *PlanService) GeneratePlan(ctx context.Context) error {
	if !s.generating.CompareAndSwap(false, true) {
		return ErrGenerationInFlight
	}
	defer s.generating.Store(false)

	prefs, err := s.prefs.Get(ctx)
	if err != nil {
		return err
	}

	byType := make(map[plan.MealType][]plan.Meal, len(plan.MealTypes))
	for _, category := range plan.MealTypes {
		batch, err := s.source.GenerateMeals(ctx, category, len(plan.Days), prefs)
		if err != nil {
			return err
		}
		byType[category] = batch
	}

	// flatten day-major, meal-type-minor; a short category batch leaves
	// the remaining slots empty
	var meals []plan.Meal
	for i := 0; i < len(plan.Days)*len(plan.MealTypes); i++ {
		batch := byType[plan.MealTypes[i%4]]
		if i/4 >= len(batch) {
			break
		}
		meals = append(meals, batch[i/4])
	}

	s.mu.Lock()
	if err := s.plan.SetFullPlan(meals, prefs.Servings, prefs.WeeklyBudget); err != nil {
		s.mu.Unlock()
		return err
	}
	s.afterChange(ctx)
	s.mu.Unlock()

	s.notify()
	return nil
}

// RegenerateSlot replaces one slot with a freshly generated meal of the
// slot's category, at the default serving count.
func (s *PlanService) RegenerateSlot(ctx context.Context, day plan.Day, mealType plan.MealType) error {
	if !s.generating.CompareAndSwap(false, true) {
		return ErrGenerationInFlight
	}
	defer s.generating.Store(false)

	prefs, err := s.prefs.Get(ctx)
	if err != nil {
		return err
	}

	batch, err := s.source.GenerateMeals(ctx, mealType, 1, prefs)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if err := s.plan.SetSlot(day, mealType, batch[0], prefs.Servings, prefs.WeeklyBudget); err != nil {
		s.mu.Unlock()
		return err
	}
	s.afterChange(ctx)
	s.mu.Unlock()

	s.notify()
	return nil
}

// SetSlot fills one slot with the given meal, budget-gated.
func (s *PlanService) SetSlot(ctx context.Context, day plan.Day, mealType plan.MealType, meal plan.Meal, servings int) error {
	prefs, err := s.prefs.Get(ctx)
	if err != nil {
		return err
	}
	if servings <= 0 {
		servings = prefs.Servings
	}

	s.mu.Lock()
	if err := s.plan.SetSlot(day, mealType, meal, servings, prefs.WeeklyBudget); err != nil {
		s.mu.Unlock()
		return err
	}
	s.afterChange(ctx)
	s.mu.Unlock()

	s.notify()
	return nil
}

// SetSlotServings rescales the meal in one slot to a new serving count,
// budget-gated since scaling up raises cost.
func (s *PlanService) SetSlotServings(ctx context.Context, day plan.Day, mealType plan.MealType, servings int) error {
	prefs, err := s.prefs.Get(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if err := s.plan.SetSlotServings(day, mealType, servings, prefs.WeeklyBudget); err != nil {
		s.mu.Unlock()
		return err
	}
	s.afterChange(ctx)
	s.mu.Unlock()

	s.notify()
	return nil
}

// ClearPlan empties the whole grid and resets the shopping list.
func (s *PlanService) ClearPlan(ctx context.Context) {
	s.mu.Lock()
	s.plan.Clear()
	s.afterChange(ctx)
	s.mu.Unlock()

	s.notify()
}

// SetItemPurchased toggles the purchased flag on one shopping list item.
// The flag lives on derived state: it survives until the next plan
// change, when a full resynthesis resets it.
func (s *PlanService) SetItemPurchased(ctx context.Context, name string, purchased bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].Ingredient.Name == name {
			s.items[i].Purchased = purchased
			s.persistSnapshot(ctx)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrItemNotFound, name)
}

// OverrideItem applies a manual amount and/or cost override to one
// shopping list item. Like purchased flags, overrides survive until the
// next plan change.
func (s *PlanService) OverrideItem(ctx context.Context, name string, amount *string, estimatedCost *float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].Ingredient.Name == name {
			if amount != nil {
				s.items[i].Ingredient.Amount = *amount
			}
			if estimatedCost != nil {
				s.items[i].Ingredient.EstimatedCost = *estimatedCost
			}
			s.persistSnapshot(ctx)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrItemNotFound, name)
}

// afterChange recomputes derived state and persists a snapshot. Caller
// holds the mutex.
func (s *PlanService) afterChange(ctx context.Context) {
	s.items = s.plan.ShoppingList()
	s.persistSnapshot(ctx)
}

// persistSnapshot writes the current state to Redis. Best effort: a
// failed write keeps the in-memory state authoritative.
func (s *PlanService) persistSnapshot(ctx context.Context) {
	if s.redis == nil {
		return
	}
	data, err := json.Marshal(snapshot{Plan: s.plan, ShoppingList: s.items})
	if err != nil {
		log.Printf("failed to marshal plan snapshot: %v", err)
		return
	}
	if err := s.redis.Set(ctx, snapshotKey, data, 0).Err(); err != nil {
		log.Printf("failed to persist plan snapshot: %v", err)
	}
}

func (s *PlanService) restoreSnapshot() {
	if s.redis == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	data, err := s.redis.Get(ctx, snapshotKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("failed to load plan snapshot: %v", err)
		}
		return
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		log.Printf("failed to unmarshal plan snapshot: %v", err)
		return
	}
	if snap.Plan != nil && snap.Plan.Slots != nil {
		s.plan = snap.Plan
		s.items = snap.ShoppingList
	}
}

func (s *PlanService) notify() {
	s.mu.Lock()
	callbacks := append([]func(){}, s.onChange...)
	s.mu.Unlock()
	for _, fn := range callbacks {
		fn()
	}
}
