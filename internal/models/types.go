package models

// ErrorResponse represents the error body returned by the backend and by the console
type ErrorResponse struct {
	Code    string        `json:"code,omitempty"`
	Message string        `json:"message"`
	Error   string        `json:"error,omitempty"`
	Details []ErrorDetail `json:"details,omitempty"`
}

type ErrorDetail struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

// Category groups products in the catalog
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

func (c Category) GetID() int64 { return c.ID }

// Product is a catalog entry. CostPrice is optional on the wire.
type Product struct {
	ID                int64      `json:"id"`
	SKU               string     `json:"sku"`
	Brand             string     `json:"brand,omitempty"`
	Name              string     `json:"name"`
	Description       string     `json:"description,omitempty"`
	BarCode           string     `json:"barCode"`
	MeasureUnit       string     `json:"measureUnit,omitempty"`
	CostPrice         *float64   `json:"costPrice,omitempty"`
	IsActive          *bool      `json:"isActive,omitempty"`
	TaxPercentage     *float64   `json:"taxPercentage,omitempty"`
	ProductCategories []Category `json:"productCategories,omitempty"`
	CreatedAt         string     `json:"createdAt,omitempty"`
	UpdatedAt         string     `json:"updatedAt,omitempty"`
}

func (p Product) GetID() int64 { return p.ID }

// Cost returns the cost price, or zero when the backend did not send one
func (p Product) Cost() float64 {
	if p.CostPrice == nil {
		return 0
	}
	return *p.CostPrice
}

// Inventory is the stock record for one product. Product is an embedded snapshot.
type Inventory struct {
	ID              int64    `json:"id"`
	Quantity        int      `json:"quantity"`
	MinStock        int      `json:"minStock"`
	MaxStock        int      `json:"maxStock"`
	LastRestockDate string   `json:"lastRestockDate,omitempty"`
	Location        string   `json:"location,omitempty"`
	CreatedAt       string   `json:"createdAt,omitempty"`
	UpdatedAt       string   `json:"updatedAt,omitempty"`
	Product         *Product `json:"product,omitempty"`
}

func (i Inventory) GetID() int64 { return i.ID }

// IsLowStock reports quantity at or below the configured minimum
func (i Inventory) IsLowStock() bool {
	return i.Quantity <= i.MinStock
}

// ProductName returns the snapshot name or the generic label
func (i Inventory) ProductName() string {
	if i.Product == nil || i.Product.Name == "" {
		return DefaultProductLabel
	}
	return i.Product.Name
}

// DefaultProductLabel is shown wherever a line or record has no named product
const DefaultProductLabel = "Producto"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusConfirmed  OrderStatus = "CONFIRMED"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// OrderStatuses lists the statuses in workflow order
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

func (s OrderStatus) Valid() bool {
	for _, status := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsOpen is true for orders that are neither delivered nor cancelled
func (s OrderStatus) IsOpen() bool {
	return s != OrderStatusDelivered && s != OrderStatusCancelled
}

type OrderItem struct {
	ID          int64    `json:"id"`
	Quantity    float64  `json:"quantity"`
	UnitPrice   float64  `json:"unitPrice"`
	TotalPrice  float64  `json:"totalPrice"`
	Description string   `json:"description,omitempty"`
	Product     *Product `json:"product,omitempty"`
}

type Order struct {
	ID              int64       `json:"id"`
	OrderNumber     string      `json:"orderNumber"`
	Status          OrderStatus `json:"status"`
	Subtotal        float64     `json:"subtotal"`
	TaxAmount       float64     `json:"taxAmount"`
	ShippingAmount  float64     `json:"shippingAmount"`
	TotalAmount     float64     `json:"totalAmount"`
	ShippingAddress string      `json:"shippingAddress,omitempty"`
	BillingAddress  string      `json:"billingAddress,omitempty"`
	Notes           string      `json:"notes,omitempty"`
	CreatedAt       string      `json:"createdAt,omitempty"`
	UpdatedAt       string      `json:"updatedAt,omitempty"`
	OrderItems      []OrderItem `json:"orderItems,omitempty"`
}

func (o Order) GetID() int64 { return o.ID }

type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "DRAFT"
	InvoiceStatusIssued    InvoiceStatus = "ISSUED"
	InvoiceStatusPaid      InvoiceStatus = "PAID"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
)

var InvoiceStatuses = []InvoiceStatus{
	InvoiceStatusDraft,
	InvoiceStatusIssued,
	InvoiceStatusPaid,
	InvoiceStatusCancelled,
}

func (s InvoiceStatus) Valid() bool {
	for _, status := range InvoiceStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "CASH"
	PaymentMethodCard     PaymentMethod = "CARD"
	PaymentMethodTransfer PaymentMethod = "TRANSFER"
	PaymentMethodCheck    PaymentMethod = "CHECK"
)

var PaymentMethods = []PaymentMethod{
	PaymentMethodCash,
	PaymentMethodCard,
	PaymentMethodTransfer,
	PaymentMethodCheck,
}

func (m PaymentMethod) Valid() bool {
	for _, method := range PaymentMethods {
		if m == method {
			return true
		}
	}
	return false
}

type InvoiceItem struct {
	ID          int64    `json:"id"`
	Description string   `json:"description"`
	Quantity    float64  `json:"quantity"`
	UnitPrice   float64  `json:"unitPrice"`
	TotalPrice  float64  `json:"totalPrice"`
	Product     *Product `json:"product,omitempty"`
}

type Invoice struct {
	ID            int64         `json:"id"`
	InvoiceNumber string        `json:"invoiceNumber"`
	IssueDate     string        `json:"issueDate"`
	DueDate       string        `json:"dueDate,omitempty"`
	Subtotal      float64       `json:"subtotal"`
	TaxAmount     float64       `json:"taxAmount"`
	TotalAmount   float64       `json:"totalAmount"`
	TaxRate       float64       `json:"taxRate"`
	Status        InvoiceStatus `json:"status"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	PaymentDate   string        `json:"paymentDate,omitempty"`
	Notes         string        `json:"notes,omitempty"`
	XMLData       string        `json:"xmlData,omitempty"`
	CreatedAt     string        `json:"createdAt,omitempty"`
	Order         *Order        `json:"order,omitempty"`
	InvoiceItems  []InvoiceItem `json:"invoiceItems,omitempty"`
}

func (i Invoice) GetID() int64 { return i.ID }

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthUser struct {
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}

type AuthResponse struct {
	Token string   `json:"token"`
	User  AuthUser `json:"user"`
}
