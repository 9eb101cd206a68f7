package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"order-momentum-lab/internal/domain"
	"order-momentum-lab/internal/storage"
)

// SanityCheck represents one dataset sanity criterion.
type SanityCheck struct {
	Name      string
	Threshold string
	Actual    string
	Pass      bool
}

// SanityResult contains all checks.
type SanityResult struct {
	Checks  []SanityCheck
	AllPass bool
	Errors  []string // data integrity errors
}

// SanityChecker validates the loaded dataset before computation starts.
type SanityChecker struct {
	orderStore    storage.OrderStore
	lineItemStore storage.LineItemStore
}

// NewSanityChecker creates a new sanity checker.
func NewSanityChecker(orderStore storage.OrderStore, lineItemStore storage.LineItemStore) *SanityChecker {
	return &SanityChecker{
		orderStore:    orderStore,
		lineItemStore: lineItemStore,
	}
}

// Check performs all dataset sanity checks. A failed check means the loaded
// dataset cannot support the pipeline; the caller aborts before computing
// any derived relation.
func (c *SanityChecker) Check(ctx context.Context) (*SanityResult, error) {
	result := &SanityResult{
		Checks:  make([]SanityCheck, 0, 6),
		AllPass: true,
		Errors:  []string{},
	}

	totalOrders, err := c.orderStore.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	priorOrders, err := c.orderStore.GetByEvalSet(ctx, domain.EvalSetPrior)
	if err != nil {
		return nil, fmt.Errorf("failed to load prior orders: %w", err)
	}

	items, err := c.lineItemStore.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load line items: %w", err)
	}

	// Check 1: total orders > 0
	check1 := c.checkTotalOrders(totalOrders)
	result.Checks = append(result.Checks, check1)
	if !check1.Pass {
		result.AllPass = false
	}

	// Check 2: prior orders > 0
	check2 := c.checkPriorOrders(priorOrders)
	result.Checks = append(result.Checks, check2)
	if !check2.Pass {
		result.AllPass = false
	}

	// Check 3: distinct users > 0
	check3 := c.checkDistinctUsers(priorOrders)
	result.Checks = append(result.Checks, check3)
	if !check3.Pass {
		result.AllPass = false
	}

	// Check 4: line items > 0
	check4 := c.checkLineItems(items)
	result.Checks = append(result.Checks, check4)
	if !check4.Pass {
		result.AllPass = false
	}

	// Check 5: repeat orders (non-NULL cadence) > 0
	check5 := c.checkRepeatOrders(priorOrders)
	result.Checks = append(result.Checks, check5)
	if !check5.Pass {
		result.AllPass = false
	}

	// Check 6: orphan line items == 0
	check6, orphanErrors := c.checkOrphanLineItems(ctx, items)
	result.Checks = append(result.Checks, check6)
	if !check6.Pass {
		result.AllPass = false
		result.Errors = append(result.Errors, orphanErrors...)
	}

	return result, nil
}

// checkTotalOrders: at least one order of any evaluation split.
func (c *SanityChecker) checkTotalOrders(count int64) SanityCheck {
	return SanityCheck{
		Name:      "Total orders",
		Threshold: "> 0",
		Actual:    fmt.Sprintf("%d", count),
		Pass:      count > 0,
	}
}

// checkPriorOrders: the pipeline only consumes prior orders, so an empty
// prior split means there is nothing to compute.
func (c *SanityChecker) checkPriorOrders(priorOrders []*domain.Order) SanityCheck {
	return SanityCheck{
		Name:      "Prior orders",
		Threshold: "> 0",
		Actual:    fmt.Sprintf("%d", len(priorOrders)),
		Pass:      len(priorOrders) > 0,
	}
}

// checkDistinctUsers: at least one user with prior history.
func (c *SanityChecker) checkDistinctUsers(priorOrders []*domain.Order) SanityCheck {
	users := make(map[int64]struct{})
	for _, o := range priorOrders {
		users[o.UserID] = struct{}{}
	}
	return SanityCheck{
		Name:      "Distinct users",
		Threshold: "> 0",
		Actual:    fmt.Sprintf("%d", len(users)),
		Pass:      len(users) > 0,
	}
}

// checkLineItems: at least one line item, or every order size is NULL and
// the volume columns degenerate.
func (c *SanityChecker) checkLineItems(items []*domain.LineItem) SanityCheck {
	return SanityCheck{
		Name:      "Line items",
		Threshold: "> 0",
		Actual:    fmt.Sprintf("%d", len(items)),
		Pass:      len(items) > 0,
	}
}

// checkRepeatOrders: at least one prior order with a known cadence. A dataset
// of only first-ever orders has no repurchase signal to score.
func (c *SanityChecker) checkRepeatOrders(priorOrders []*domain.Order) SanityCheck {
	count := 0
	for _, o := range priorOrders {
		if o.DaysSincePrior != nil {
			count++
		}
	}
	return SanityCheck{
		Name:      "Repeat orders",
		Threshold: "> 0",
		Actual:    fmt.Sprintf("%d", count),
		Pass:      count > 0,
	}
}

// checkOrphanLineItems: line items referencing an order that was never
// loaded == 0.
func (c *SanityChecker) checkOrphanLineItems(ctx context.Context, items []*domain.LineItem) (SanityCheck, []string) {
	var errs []string
	known := make(map[int64]bool)
	orphanSet := make(map[int64]struct{})

	for _, item := range items {
		exists, seen := known[item.OrderID]
		if !seen {
			_, err := c.orderStore.GetByID(ctx, item.OrderID)
			switch {
			case err == nil:
				exists = true
			case errors.Is(err, storage.ErrNotFound):
				exists = false
			default:
				exists = false
				errs = append(errs, fmt.Sprintf("error fetching order %d: %v", item.OrderID, err))
			}
			known[item.OrderID] = exists
		}
		if !exists {
			orphanSet[item.OrderID] = struct{}{}
		}
	}

	// Sort orphan ids for deterministic output
	orphans := make([]int64, 0, len(orphanSet))
	for id := range orphanSet {
		orphans = append(orphans, id)
	}
	sort.Slice(orphans, func(i, j int) bool { return orphans[i] < orphans[j] })

	for _, id := range orphans {
		errs = append(errs, fmt.Sprintf("line items reference unknown order %d", id))
	}

	return SanityCheck{
		Name:      "Orphan line items",
		Threshold: "= 0",
		Actual:    fmt.Sprintf("%d", len(orphans)),
		Pass:      len(orphans) == 0,
	}, errs
}
