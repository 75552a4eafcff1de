package session

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/cucumber/godog"
	"github.com/example/brewbuddy/pkg/cart"
	"github.com/example/brewbuddy/pkg/models"
	"github.com/example/brewbuddy/pkg/orders"
	"github.com/example/brewbuddy/pkg/pricing"
	"github.com/example/brewbuddy/pkg/selection"
	"github.com/example/brewbuddy/pkg/storage"
	"go.uber.org/zap"
)

type orderingTestContext struct {
	mem     *storage.Memory
	deps    Deps
	session *Session
	sel     *selection.Selection
	order   models.Order
	err     error
}

func (c *orderingTestContext) reset() {
	c.mem = storage.NewMemory()
	opts := orders.DefaultOptions()
	opts.ProcessingDelay = 0
	c.deps = Deps{
		Store:   storage.New(c.mem, "brewBuddy", zap.NewNop()),
		Options: opts,
		Logger:  zap.NewNop(),
	}
	c.session = nil
	c.sel = nil
	c.order = models.Order{}
	c.err = nil
}

func (c *orderingTestContext) anEmptyStorefrontSession() error {
	c.session = New(context.Background(), storage.DefaultSession, c.deps)
	return nil
}

func (c *orderingTestContext) theSessionIsReopened() error {
	return c.anEmptyStorefrontSession()
}

func (c *orderingTestContext) theStoredCartIsCorrupt() error {
	return c.mem.Set(context.Background(), c.deps.Store.Key(cart.StorageKey), []byte(`[{"quantity": "lots"}]`))
}

func (c *orderingTestContext) iConfigureProduct(id string) error {
	sel, err := c.session.Configure(id)
	c.sel = sel
	return err
}

func (c *orderingTestContext) iChooseSize(name string) error {
	return c.sel.SetSize(name)
}

func (c *orderingTestContext) iSelectOptionOf(option, group string) error {
	return c.sel.ToggleOption(group, option, true)
}

func (c *orderingTestContext) iDeselectOptionOf(option, group string) error {
	return c.sel.ToggleOption(group, option, false)
}

func (c *orderingTestContext) iSetTheQuantityTo(n int) error {
	c.sel.SetQuantity(n)
	return nil
}

func (c *orderingTestContext) thePriceIs(want string) error {
	if got := pricing.Format(c.sel.Price()); got != want {
		return fmt.Errorf("expected price %s, got %s", want, got)
	}
	return nil
}

func (c *orderingTestContext) noCustomizationsAreSelected() error {
	if got := c.sel.Customizations(); len(got) != 0 {
		return fmt.Errorf("expected no customizations, got %+v", got)
	}
	return nil
}

func (c *orderingTestContext) add(req AddRequest) error {
	_, err := c.session.AddToCart(context.Background(), req)
	return err
}

func (c *orderingTestContext) iAddOfProductInSizeWithMilk(qty int, id, size, milk string) error {
	return c.add(AddRequest{
		ProductID:      id,
		Size:           size,
		Quantity:       qty,
		Customizations: map[string][]string{"milk-type": {milk}},
	})
}

func (c *orderingTestContext) iAddOfProductInSize(qty int, id, size string) error {
	return c.add(AddRequest{ProductID: id, Size: size, Quantity: qty})
}

func (c *orderingTestContext) iAddOfProduct(qty int, id string) error {
	return c.add(AddRequest{ProductID: id, Quantity: qty})
}

func (c *orderingTestContext) iChangeTheQuantityOfTheFirstLineTo(n int) error {
	lines := c.session.Cart.Lines()
	if len(lines) == 0 {
		return errors.New("cart is empty")
	}
	return c.session.Cart.UpdateQuantity(context.Background(), lines[0].ID, n)
}

func (c *orderingTestContext) theCartHasLinesAndItems(lines, items int) error {
	if got := len(c.session.Cart.Lines()); got != lines {
		return fmt.Errorf("expected %d lines, got %d", lines, got)
	}
	if got := c.session.Cart.ItemCount(); got != items {
		return fmt.Errorf("expected %d items, got %d", items, got)
	}
	return nil
}

func (c *orderingTestContext) theCartTotalIs(want string) error {
	if got := pricing.Format(c.session.Cart.Total()); got != want {
		return fmt.Errorf("expected cart total %s, got %s", want, got)
	}
	return nil
}

func (c *orderingTestContext) iCheckOutForPickup(name, phone string) error {
	c.order, c.err = c.session.Checkout.Submit(context.Background(), orders.Request{
		OrderType: models.OrderTypePickup,
		Customer:  models.CustomerInfo{Name: name, Phone: phone},
	})
	return nil
}

func (c *orderingTestContext) iCheckOutForDelivery(name, phone, street, city string) error {
	c.order, c.err = c.session.Checkout.Submit(context.Background(), orders.Request{
		OrderType:       models.OrderTypeDelivery,
		Customer:        models.CustomerInfo{Name: name, Phone: phone},
		DeliveryAddress: &models.Address{Street: street, City: city},
	})
	return nil
}

func (c *orderingTestContext) theCheckoutFailsWith(msg string) error {
	if c.err == nil {
		return errors.New("expected checkout to fail")
	}
	if c.err.Error() != msg {
		return fmt.Errorf("expected error %q, got %q", msg, c.err.Error())
	}
	return nil
}

func (c *orderingTestContext) theOrderTotalIs(want string) error {
	if c.err != nil {
		return fmt.Errorf("checkout failed: %w", c.err)
	}
	if got := pricing.Format(c.order.TotalAmount); got != want {
		return fmt.Errorf("expected order total %s, got %s", want, got)
	}
	return nil
}

func (c *orderingTestContext) theOrderIsEstimatedAtMinutes(minutes int) error {
	if c.err != nil {
		return fmt.Errorf("checkout failed: %w", c.err)
	}
	if c.order.EstimatedTime != minutes {
		return fmt.Errorf("expected %d minutes, got %d", minutes, c.order.EstimatedTime)
	}
	return nil
}

func (c *orderingTestContext) theOrderHistoryHasOrders(n int) error {
	if got := c.session.History.Len(); got != n {
		return fmt.Errorf("expected %d orders, got %d", n, got)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &orderingTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^an empty storefront session$`, tc.anEmptyStorefrontSession)
	ctx.Step(`^the stored cart is corrupt$`, tc.theStoredCartIsCorrupt)

	// When steps
	ctx.Step(`^the session is reopened$`, tc.theSessionIsReopened)
	ctx.Step(`^I configure product "([^"]*)"$`, tc.iConfigureProduct)
	ctx.Step(`^I choose size "([^"]*)"$`, tc.iChooseSize)
	ctx.Step(`^I select option "([^"]*)" of "([^"]*)"$`, tc.iSelectOptionOf)
	ctx.Step(`^I deselect option "([^"]*)" of "([^"]*)"$`, tc.iDeselectOptionOf)
	ctx.Step(`^I set the quantity to (\d+)$`, tc.iSetTheQuantityTo)
	ctx.Step(`^I add (\d+) of product "([^"]*)" in size "([^"]*)" with "([^"]*)" milk$`, tc.iAddOfProductInSizeWithMilk)
	ctx.Step(`^I add (\d+) of product "([^"]*)" in size "([^"]*)"$`, tc.iAddOfProductInSize)
	ctx.Step(`^I add (\d+) of product "([^"]*)"$`, tc.iAddOfProduct)
	ctx.Step(`^I change the quantity of the first line to (\d+)$`, tc.iChangeTheQuantityOfTheFirstLineTo)
	ctx.Step(`^I check out for pickup as "([^"]*)" with phone "([^"]*)"$`, tc.iCheckOutForPickup)
	ctx.Step(`^I check out for delivery as "([^"]*)" with phone "([^"]*)" to street "([^"]*)" in city "([^"]*)"$`, tc.iCheckOutForDelivery)

	// Then steps
	ctx.Step(`^the price is "([^"]*)"$`, tc.thePriceIs)
	ctx.Step(`^no customizations are selected$`, tc.noCustomizationsAreSelected)
	ctx.Step(`^the cart has (\d+) lines? and (\d+) items?$`, tc.theCartHasLinesAndItems)
	ctx.Step(`^the cart total is "([^"]*)"$`, tc.theCartTotalIs)
	ctx.Step(`^the checkout fails with "([^"]*)"$`, tc.theCheckoutFailsWith)
	ctx.Step(`^the order total is "([^"]*)"$`, tc.theOrderTotalIs)
	ctx.Step(`^the order is estimated at (\d+) minutes$`, tc.theOrderIsEstimatedAtMinutes)
	ctx.Step(`^the order history has (\d+) orders?$`, tc.theOrderHistoryHasOrders)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"testdata/ordering.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
