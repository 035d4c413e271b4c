package receipts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/lorenagil/storefront-backend/pkg/config"
	pkgerrors "github.com/lorenagil/storefront-backend/pkg/errors"
	"github.com/lorenagil/storefront-backend/pkg/outbox/payloads"
	"github.com/lorenagil/storefront-backend/pkg/storage/gcs"
	"github.com/shopspring/decimal"
)

// ReceiptProduct is one line of the archived receipt. The field names are
// the wire contract of the stored JSON documents and stay as they are.
type ReceiptProduct struct {
	ProductName string          `json:"ProductName"`
	Quantity    int             `json:"Quantity"`
	Price       decimal.Decimal `json:"Price"`
}

// Receipt is the JSON document archived per order.
type Receipt struct {
	OrderID      string           `json:"OrderId"`
	CustomerName string           `json:"CustomerName"`
	TotalAmount  decimal.Decimal  `json:"TotalAmount"`
	Products     []ReceiptProduct `json:"Products"`
}

// Archive stores order receipts as JSON objects under the receipts prefix,
// one object per order named <email>_Order_<orderID>.json.
type Archive struct {
	objects objectStore
	prefix  string
}

type objectStore interface {
	ReadAll(ctx context.Context, object string) ([]byte, error)
	Write(ctx context.Context, object string, data []byte, contentType string) error
	ListPrefix(ctx context.Context, prefix string) ([]string, error)
}

// NewArchive constructs a receipt archive over the provided object store.
func NewArchive(objects objectStore, cfg config.GCSConfig) (*Archive, error) {
	if objects == nil {
		return nil, fmt.Errorf("object store is required")
	}
	return &Archive{objects: objects, prefix: cfg.ReceiptPrefix}, nil
}

// Write archives the receipt for a placed order. Re-archiving the same order
// overwrites the object with identical content, so replays are harmless.
func (a *Archive) Write(ctx context.Context, event payloads.OrderPlacedEvent) error {
	receipt := Receipt{
		OrderID:      event.OrderID.String(),
		CustomerName: event.CustomerName,
		TotalAmount:  event.TotalAmount,
		Products:     make([]ReceiptProduct, 0, len(event.Items)),
	}
	for _, item := range event.Items {
		receipt.Products = append(receipt.Products, ReceiptProduct{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.UnitPrice,
		})
	}

	data, err := json.Marshal(receipt)
	if err != nil {
		return fmt.Errorf("encoding receipt: %w", err)
	}

	object := a.objectName(event.CustomerEmail, event.OrderID.String())
	if err := a.objects.Write(ctx, object, data, "application/json"); err != nil {
		return fmt.Errorf("writing receipt %s: %w", object, err)
	}
	return nil
}

// ListByCustomer returns the receipt object names archived for the customer.
func (a *Archive) ListByCustomer(ctx context.Context, email string) ([]string, error) {
	prefix := path.Join(a.prefix, fmt.Sprintf("%s_Order_", email))
	names, err := a.objects.ListPrefix(ctx, prefix)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing receipts")
	}
	return names, nil
}

// Read returns one archived receipt by object name. The name must live under
// the receipts prefix, anything else is rejected.
func (a *Archive) Read(ctx context.Context, object string) (*Receipt, error) {
	if !strings.HasPrefix(object, a.prefix+"/") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "not a receipt object")
	}

	data, err := a.objects.ReadAll(ctx, object)
	if err != nil {
		if errors.Is(err, gcs.ErrObjectNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "receipt not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reading receipt")
	}

	var receipt Receipt
	if err := json.Unmarshal(data, &receipt); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decoding receipt")
	}
	return &receipt, nil
}

// ReadByOrder returns the archived receipt for one of the customer's orders.
func (a *Archive) ReadByOrder(ctx context.Context, email, orderID string) (*Receipt, error) {
	return a.Read(ctx, a.objectName(email, orderID))
}

func (a *Archive) objectName(email, orderID string) string {
	return path.Join(a.prefix, fmt.Sprintf("%s_Order_%s.json", email, orderID))
}
