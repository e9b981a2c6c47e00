package quote

import (
	"context"
	"errors"
	"strings"

	"github.com/khaizansolutions/khaizan-storefront/internal/catalog"
	pkgerrors "github.com/khaizansolutions/khaizan-storefront/pkg/errors"
	"github.com/khaizansolutions/khaizan-storefront/pkg/logger"
	"github.com/shopspring/decimal"
)

// Currency is the only currency the storefront quotes in.
const Currency = "AED"

// quoteSubmitter is the slice of the catalog client the quote service needs
// to forward a composed quotation upstream.
type quoteSubmitter interface {
	SubmitQuote(ctx context.Context, submission catalog.QuoteSubmission) (catalog.QuoteReceipt, error)
}

// QuoteView is the serialized quote state returned to the storefront.
type QuoteView struct {
	Items    []LineItem `json:"items"`
	Count    int        `json:"count"`
	Subtotal string     `json:"subtotal"`
	Currency string     `json:"currency"`
}

// AddItemInput carries the product being added to a quote.
type AddItemInput struct {
	ProductID string
	Name      string
	UnitPrice decimal.Decimal
	Image     *string
	Category  *string
	Quantity  int
}

// SubmitInput carries the customer contact details for a quote submission.
type SubmitInput struct {
	CustomerName string
	Email        string
	Phone        string
	Note         string
}

// Receipt acknowledges a submitted quotation.
type Receipt struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// Service exposes per-session quote operations to the HTTP layer. Every call
// addresses one session's quote; mutations persist through the snapshot store
// before returning.
type Service interface {
	GetQuote(ctx context.Context, sessionID string) (QuoteView, error)
	AddItem(ctx context.Context, sessionID string, input AddItemInput) (QuoteView, error)
	RemoveItem(ctx context.Context, sessionID, productID string) (QuoteView, error)
	SetItemQuantity(ctx context.Context, sessionID, productID string, quantity int) (QuoteView, error)
	Clear(ctx context.Context, sessionID string) (QuoteView, error)
	Count(ctx context.Context, sessionID string) (int, error)
	Submit(ctx context.Context, sessionID string, input SubmitInput) (Receipt, error)
}

type service struct {
	store     SnapshotStore
	submitter quoteSubmitter
	logg      *logger.Logger
}

// ServiceOptions carries the quote service dependencies. Submitter is
// optional; without it Submit reports a dependency failure.
type ServiceOptions struct {
	Store     SnapshotStore
	Submitter quoteSubmitter
	Logger    *logger.Logger
}

// NewService wires the quote service.
func NewService(opts ServiceOptions) (Service, error) {
	if opts.Store == nil {
		return nil, errors.New("snapshot store is required")
	}
	if opts.Logger == nil {
		return nil, errors.New("logger is required")
	}
	return &service{
		store:     opts.Store,
		submitter: opts.Submitter,
		logg:      opts.Logger,
	}, nil
}

func (s *service) GetQuote(ctx context.Context, sessionID string) (QuoteView, error) {
	manager, err := s.manager(ctx, sessionID)
	if err != nil {
		return QuoteView{}, err
	}
	return viewOf(manager), nil
}

func (s *service) AddItem(ctx context.Context, sessionID string, input AddItemInput) (QuoteView, error) {
	if strings.TrimSpace(input.ProductID) == "" {
		return QuoteView{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	manager, err := s.manager(ctx, sessionID)
	if err != nil {
		return QuoteView{}, err
	}
	manager.Add(ctx, LineItem{
		ID:        strings.TrimSpace(input.ProductID),
		Name:      input.Name,
		UnitPrice: input.UnitPrice,
		Image:     input.Image,
		Category:  input.Category,
	}, input.Quantity)
	return viewOf(manager), nil
}

func (s *service) RemoveItem(ctx context.Context, sessionID, productID string) (QuoteView, error) {
	manager, err := s.manager(ctx, sessionID)
	if err != nil {
		return QuoteView{}, err
	}
	if manager.ItemQuantity(productID) == 0 {
		return QuoteView{}, pkgerrors.New(pkgerrors.CodeNotFound, "product is not on the quote")
	}
	manager.Remove(ctx, productID)
	return viewOf(manager), nil
}

func (s *service) SetItemQuantity(ctx context.Context, sessionID, productID string, quantity int) (QuoteView, error) {
	manager, err := s.manager(ctx, sessionID)
	if err != nil {
		return QuoteView{}, err
	}
	if manager.ItemQuantity(productID) == 0 {
		return QuoteView{}, pkgerrors.New(pkgerrors.CodeNotFound, "product is not on the quote")
	}
	manager.SetQuantity(ctx, productID, quantity)
	return viewOf(manager), nil
}

func (s *service) Clear(ctx context.Context, sessionID string) (QuoteView, error) {
	manager, err := s.manager(ctx, sessionID)
	if err != nil {
		return QuoteView{}, err
	}
	manager.Clear(ctx)
	return viewOf(manager), nil
}

func (s *service) Count(ctx context.Context, sessionID string) (int, error) {
	manager, err := s.manager(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return manager.Count(), nil
}

// Submit forwards the session's quote upstream and clears it on success. An
// empty quote is rejected before any upstream call.
func (s *service) Submit(ctx context.Context, sessionID string, input SubmitInput) (Receipt, error) {
	if s.submitter == nil {
		return Receipt{}, pkgerrors.New(pkgerrors.CodeDependency, "quote submission is not configured")
	}
	manager, err := s.manager(ctx, sessionID)
	if err != nil {
		return Receipt{}, err
	}
	items := manager.Items()
	if len(items) == 0 {
		return Receipt{}, pkgerrors.New(pkgerrors.CodeValidation, "quote is empty")
	}

	submission := catalog.QuoteSubmission{
		CustomerName: input.CustomerName,
		Email:        input.Email,
		Phone:        input.Phone,
		Note:         input.Note,
		Currency:     Currency,
		Items:        make([]catalog.QuoteSubmissionItem, 0, len(items)),
	}
	for _, item := range items {
		submission.Items = append(submission.Items, catalog.QuoteSubmissionItem{
			ProductID: item.ID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice.String(),
			Quantity:  item.Quantity,
		})
	}

	receipt, err := s.submitter.SubmitQuote(ctx, submission)
	if err != nil {
		return Receipt{}, err
	}

	count := manager.Count()
	manager.Clear(ctx)
	s.logg.Info(s.logg.WithSessionID(ctx, sessionID), "quote submitted")
	return Receipt{
		ID:     receipt.ID.String(),
		Status: receipt.Status,
		Count:  count,
	}, nil
}

func (s *service) manager(ctx context.Context, sessionID string) (*Manager, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	return NewManager(ctx, s.store, s.logg, sessionID), nil
}

func viewOf(manager *Manager) QuoteView {
	return QuoteView{
		Items:    manager.Items(),
		Count:    manager.Count(),
		Subtotal: manager.Subtotal().StringFixed(2),
		Currency: Currency,
	}
}
