// Package cart owns the authoritative list of cart lines for a session.
package cart

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/example/brewbuddy/pkg/models"
	"github.com/example/brewbuddy/pkg/storage"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// StorageKey is the logical persistence name of the cart.
const StorageKey = "cart"

var (
	ErrLineNotFound     = errors.New("cart line not found")
	ErrInvalidQuantity  = errors.New("quantity must not be negative")
	ErrInvalidCandidate = errors.New("cart candidate needs a product and a positive quantity")
)

// Candidate is a configured product ready to be added. TotalPrice is
// precomputed by the pricing package.
type Candidate struct {
	Product                models.Product
	Quantity               int
	SelectedSize           *models.Size
	SelectedCustomizations []models.SelectedCustomization
	TotalPrice             decimal.Decimal
}

type Cart struct {
	mu     sync.Mutex
	store  *storage.Store
	logger *zap.Logger
	lines  []models.CartLine
	newID  func() string
}

// New restores the persisted cart, starting empty when nothing usable is
// stored.
func New(ctx context.Context, store *storage.Store, logger *zap.Logger) *Cart {
	c := &Cart{
		store:  store,
		logger: logger.Named("cart"),
		lines:  []models.CartLine{},
		newID:  uuid.NewString,
	}
	store.Load(ctx, StorageKey, &c.lines)
	if c.lines == nil {
		c.lines = []models.CartLine{}
	}
	return c
}

// Add merges the candidate into an existing line with the same merge key, or
// appends a new line. A merge adds quantity and cached total; nothing is
// repriced.
func (c *Cart) Add(ctx context.Context, cand Candidate) (models.CartLine, error) {
	if cand.Product.ID == "" || cand.Quantity < 1 {
		return models.CartLine{}, ErrInvalidCandidate
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key := MergeKey(cand.Product.ID, cand.SelectedSize, cand.SelectedCustomizations)
	for i := range c.lines {
		line := &c.lines[i]
		if MergeKey(line.ProductID, line.SelectedSize, line.SelectedCustomizations) != key {
			continue
		}
		line.Quantity += cand.Quantity
		line.TotalPrice = line.TotalPrice.Add(cand.TotalPrice)
		c.logger.Debug("Merged cart line",
			zap.String("line_id", line.ID),
			zap.Int("quantity", line.Quantity))
		c.persist(ctx)
		return cloneLine(*line), nil
	}

	line := models.CartLine{
		ID:                     c.newID(),
		ProductID:              cand.Product.ID,
		Product:                cand.Product,
		Quantity:               cand.Quantity,
		SelectedSize:           cloneSize(cand.SelectedSize),
		SelectedCustomizations: cloneSelections(cand.SelectedCustomizations),
		TotalPrice:             cand.TotalPrice,
	}
	c.lines = append(c.lines, line)
	c.logger.Debug("Added cart line",
		zap.String("line_id", line.ID),
		zap.String("product_id", line.ProductID),
		zap.Int("quantity", line.Quantity))
	c.persist(ctx)
	return cloneLine(line), nil
}

// UpdateQuantity sets a line's quantity, keeping the per-unit price implied by
// its cached total. Zero removes the line.
func (c *Cart) UpdateQuantity(ctx context.Context, lineID string, quantity int) error {
	if quantity < 0 {
		return ErrInvalidQuantity
	}
	if quantity == 0 {
		c.Remove(ctx, lineID)
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(lineID)
	if i < 0 {
		return ErrLineNotFound
	}

	line := &c.lines[i]
	line.TotalPrice = line.TotalPrice.
		Mul(decimal.NewFromInt(int64(quantity))).
		Div(decimal.NewFromInt(int64(line.Quantity)))
	line.Quantity = quantity
	c.persist(ctx)
	return nil
}

// Remove deletes a line; unknown ids are ignored.
func (c *Cart) Remove(ctx context.Context, lineID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(lineID)
	if i < 0 {
		return
	}
	c.lines = slices.Delete(c.lines, i, i+1)
	c.persist(ctx)
}

func (c *Cart) Clear(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lines = []models.CartLine{}
	c.persist(ctx)
}

// Lines returns a snapshot of the cart in insertion order.
func (c *Cart) Lines() []models.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.CartLine, len(c.lines))
	for i, l := range c.lines {
		out[i] = cloneLine(l)
	}
	return out
}

func (c *Cart) Line(lineID string) (models.CartLine, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(lineID)
	if i < 0 {
		return models.CartLine{}, false
	}
	return cloneLine(c.lines[i]), true
}

// Total sums the cached line totals.
func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.TotalPrice)
	}
	return total
}

// ItemCount sums quantities (badge count), not lines.
func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) IsEmpty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines) == 0
}

func (c *Cart) indexOf(lineID string) int {
	return slices.IndexFunc(c.lines, func(l models.CartLine) bool { return l.ID == lineID })
}

func (c *Cart) persist(ctx context.Context) {
	c.store.Save(ctx, StorageKey, c.lines)
}

func cloneSize(s *models.Size) *models.Size {
	if s == nil {
		return nil
	}
	cp := *s
	return &cp
}

func cloneSelections(in []models.SelectedCustomization) []models.SelectedCustomization {
	out := make([]models.SelectedCustomization, len(in))
	for i, sel := range in {
		out[i] = sel
		out[i].SelectedOptions = slices.Clone(sel.SelectedOptions)
	}
	return out
}

func cloneLine(l models.CartLine) models.CartLine {
	l.SelectedSize = cloneSize(l.SelectedSize)
	l.SelectedCustomizations = cloneSelections(l.SelectedCustomizations)
	return l
}
