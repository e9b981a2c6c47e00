package quote

import (
	"github.com/shopspring/decimal"

	quotesvc "github.com/khaizansolutions/khaizan-storefront/internal/quote"
)

// AddItemRequest is the payload for adding a product to the session's quote.
// Quantity below 1 counts as 1; a product already on the quote gains the
// delta instead of a new line.
type AddItemRequest struct {
	ID       string          `json:"id" validate:"required"`
	Name     string          `json:"name" validate:"required"`
	Price    decimal.Decimal `json:"price"`
	Image    *string         `json:"image"`
	Category *string         `json:"category"`
	Quantity int             `json:"quantity" validate:"omitempty,min=1,max=999"`
}

// UpdateQuantityRequest pins a quote line to an exact quantity. Zero removes
// the line.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"min=0,max=999"`
}

// SubmitRequest carries the contact details attached to a quotation request.
type SubmitRequest struct {
	CustomerName string `json:"customer_name" validate:"required,max=200"`
	Email        string `json:"email" validate:"omitempty,email"`
	Phone        string `json:"phone" validate:"required,max=32"`
	Note         string `json:"note" validate:"omitempty,max=2000"`
}

func toAddItemInput(payload AddItemRequest) quotesvc.AddItemInput {
	return quotesvc.AddItemInput{
		ProductID: payload.ID,
		Name:      payload.Name,
		UnitPrice: payload.Price,
		Image:     payload.Image,
		Category:  payload.Category,
		Quantity:  payload.Quantity,
	}
}

func toSubmitInput(payload SubmitRequest) quotesvc.SubmitInput {
	return quotesvc.SubmitInput{
		CustomerName: payload.CustomerName,
		Email:        payload.Email,
		Phone:        payload.Phone,
		Note:         payload.Note,
	}
}
