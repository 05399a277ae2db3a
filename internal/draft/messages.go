package draft

import (
	"encoding/json"
	"errors"
	"fmt"

	"pos-backoffice/internal/models"
)

var (
	ErrLastLineItem          = errors.New("a draft keeps at least one line item")
	ErrIndexOutOfRange       = errors.New("line item index out of range")
	ErrShippingNotApplicable = errors.New("invoices carry no shipping amount")
	ErrWrongKind             = errors.New("message does not apply to this kind of draft")
	ErrUnknownMessage        = errors.New("unknown message type")
	ErrOrderNotFound         = errors.New("order not found")
)

// Msg is one editor transition. The set is closed: only the types below implement it.
type Msg interface {
	msgType() string
}

type AddItem struct{}

type RemoveItem struct {
	Index int
}

type SetProduct struct {
	Index     int
	ProductID int64
}

type SetDescription struct {
	Index       int
	Description string
}

type SetQuantity struct {
	Index    int
	Quantity float64
}

type SetUnitPrice struct {
	Index     int
	UnitPrice float64
}

type SetTaxRate struct {
	Rate float64
}

type SetShipping struct {
	Amount float64
}

// SelectOrder transplants an order's lines into an invoice draft
type SelectOrder struct {
	Order models.Order
}

func (AddItem) msgType() string        { return "addItem" }
func (RemoveItem) msgType() string     { return "removeItem" }
func (SetProduct) msgType() string     { return "setProduct" }
func (SetDescription) msgType() string { return "setDescription" }
func (SetQuantity) msgType() string    { return "setQuantity" }
func (SetUnitPrice) msgType() string   { return "setUnitPrice" }
func (SetTaxRate) msgType() string     { return "setTaxRate" }
func (SetShipping) msgType() string    { return "setShipping" }
func (SelectOrder) msgType() string    { return "selectOrder" }

// OrderLookup resolves order ids for selectOrder messages
type OrderLookup interface {
	Find(id int64) (models.Order, bool)
}

// envelope is the JSON form of a message, e.g. {"type":"setQuantity","index":0,"quantity":2}
type envelope struct {
	Type        string  `json:"type"`
	Index       int     `json:"index"`
	ProductID   int64   `json:"productId"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	Rate        float64 `json:"rate"`
	Amount      float64 `json:"amount"`
	OrderID     int64   `json:"orderId"`
}

// DecodeMsg parses the JSON form of a message. orders is only consulted for selectOrder.
func DecodeMsg(data []byte, orders OrderLookup) (Msg, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to decode message: %w", err)
	}

	switch env.Type {
	case "addItem":
		return AddItem{}, nil
	case "removeItem":
		return RemoveItem{Index: env.Index}, nil
	case "setProduct":
		return SetProduct{Index: env.Index, ProductID: env.ProductID}, nil
	case "setDescription":
		return SetDescription{Index: env.Index, Description: env.Description}, nil
	case "setQuantity":
		return SetQuantity{Index: env.Index, Quantity: env.Quantity}, nil
	case "setUnitPrice":
		return SetUnitPrice{Index: env.Index, UnitPrice: env.UnitPrice}, nil
	case "setTaxRate":
		return SetTaxRate{Rate: env.Rate}, nil
	case "setShipping":
		return SetShipping{Amount: env.Amount}, nil
	case "selectOrder":
		order, ok := orders.Find(env.OrderID)
		if !ok {
			return nil, fmt.Errorf("order %d: %w", env.OrderID, ErrOrderNotFound)
		}
		return SelectOrder{Order: order}, nil
	default:
		return nil, fmt.Errorf("%q: %w", env.Type, ErrUnknownMessage)
	}
}
