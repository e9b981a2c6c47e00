package quote

import (
	"context"
	"testing"

	"github.com/khaizansolutions/khaizan-storefront/internal/catalog"
	pkgerrors "github.com/khaizansolutions/khaizan-storefront/pkg/errors"
	"github.com/khaizansolutions/khaizan-storefront/pkg/logger"
	"github.com/shopspring/decimal"
)

type stubSubmitter struct {
	submitted *catalog.QuoteSubmission
	receipt   catalog.QuoteReceipt
	err       error
}

func (s *stubSubmitter) SubmitQuote(_ context.Context, submission catalog.QuoteSubmission) (catalog.QuoteReceipt, error) {
	s.submitted = &submission
	if s.err != nil {
		return catalog.QuoteReceipt{}, s.err
	}
	return s.receipt, nil
}

func newTestService(t *testing.T, submitter quoteSubmitter) Service {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "test"})
	svc, err := NewService(ServiceOptions{
		Store:     NewMemoryStore(),
		Submitter: submitter,
		Logger:    logg,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestServiceAddItemAndGetQuote(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newTestService(t, nil)

	view, err := svc.AddItem(ctx, "sess-1", AddItemInput{
		ProductID: "p1",
		Name:      "Stapler",
		UnitPrice: decimal.RequireFromString("45.00"),
	})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if view.Count != 1 || view.Subtotal != "45.00" || view.Currency != Currency {
		t.Fatalf("unexpected view: %+v", view)
	}

	again, err := svc.GetQuote(ctx, "sess-1")
	if err != nil {
		t.Fatalf("get quote: %v", err)
	}
	if again.Count != 1 || len(again.Items) != 1 || again.Items[0].ID != "p1" {
		t.Fatalf("quote did not persist: %+v", again)
	}
}

func TestServiceAddItemRequiresProductID(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, nil)

	_, err := svc.AddItem(context.Background(), "sess-1", AddItemInput{Name: "Nameless"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestServiceRequiresSessionID(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, nil)

	_, err := svc.GetQuote(context.Background(), "  ")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestServiceRemoveUnknownItemIsNotFound(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, nil)

	_, err := svc.RemoveItem(context.Background(), "sess-1", "missing")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestServiceSetItemQuantityZeroDeletesLine(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newTestService(t, nil)

	if _, err := svc.AddItem(ctx, "sess-1", AddItemInput{ProductID: "p1", Name: "Toner"}); err != nil {
		t.Fatalf("add item: %v", err)
	}
	view, err := svc.SetItemQuantity(ctx, "sess-1", "p1", 0)
	if err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	if view.Count != 0 || len(view.Items) != 0 {
		t.Fatalf("expected empty quote, got %+v", view)
	}
}

func TestServiceCountIsSessionScoped(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newTestService(t, nil)

	if _, err := svc.AddItem(ctx, "sess-a", AddItemInput{ProductID: "p1", Name: "Toner"}); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if _, err := svc.SetItemQuantity(ctx, "sess-a", "p1", 3); err != nil {
		t.Fatalf("set quantity: %v", err)
	}

	count, err := svc.Count(ctx, "sess-a")
	if err != nil || count != 3 {
		t.Fatalf("expected count 3, got %d (%v)", count, err)
	}

	other, err := svc.Count(ctx, "sess-b")
	if err != nil || other != 0 {
		t.Fatalf("expected empty session, got %d (%v)", other, err)
	}
}

func TestServiceSubmitForwardsAndClears(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	submitter := &stubSubmitter{receipt: catalog.QuoteReceipt{ID: "q-77", Status: "received"}}
	svc := newTestService(t, submitter)

	if _, err := svc.AddItem(ctx, "sess-1", AddItemInput{
		ProductID: "p1",
		Name:      "Stapler",
		UnitPrice: decimal.RequireFromString("45.00"),
	}); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if _, err := svc.SetItemQuantity(ctx, "sess-1", "p1", 2); err != nil {
		t.Fatalf("set quantity: %v", err)
	}

	receipt, err := svc.Submit(ctx, "sess-1", SubmitInput{
		CustomerName: "Fatima",
		Phone:        "+971500000000",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if receipt.ID != "q-77" || receipt.Status != "received" || receipt.Count != 2 {
		t.Fatalf("unexpected receipt: %+v", receipt)
	}

	if submitter.submitted == nil {
		t.Fatal("expected a submission upstream")
	}
	if submitter.submitted.Currency != Currency {
		t.Fatalf("expected %s currency, got %s", Currency, submitter.submitted.Currency)
	}
	if len(submitter.submitted.Items) != 1 || submitter.submitted.Items[0].Quantity != 2 {
		t.Fatalf("unexpected submission items: %+v", submitter.submitted.Items)
	}

	view, err := svc.GetQuote(ctx, "sess-1")
	if err != nil || view.Count != 0 {
		t.Fatalf("expected cleared quote after submit, got %+v (%v)", view, err)
	}
}

func TestServiceSubmitRejectsEmptyQuote(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubSubmitter{})

	_, err := svc.Submit(context.Background(), "sess-1", SubmitInput{CustomerName: "Omar", Phone: "+971"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestServiceSubmitFailureKeepsQuote(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	submitter := &stubSubmitter{err: pkgerrors.New(pkgerrors.CodeDependency, "catalog down")}
	svc := newTestService(t, submitter)

	if _, err := svc.AddItem(ctx, "sess-1", AddItemInput{ProductID: "p1", Name: "Stapler"}); err != nil {
		t.Fatalf("add item: %v", err)
	}

	if _, err := svc.Submit(ctx, "sess-1", SubmitInput{CustomerName: "Omar", Phone: "+971"}); err == nil {
		t.Fatal("expected submit to fail")
	}

	view, err := svc.GetQuote(ctx, "sess-1")
	if err != nil || view.Count != 1 {
		t.Fatalf("failed submit must not clear the quote, got %+v (%v)", view, err)
	}
}
