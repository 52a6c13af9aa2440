// Package orders holds customer order records, the stores that look them up
// and the markup rendering used by the chat surface.
package orders

import (
	"context"
	"errors"
	"strings"
)

// Record is a single customer order as kept by the order store.
type Record struct {
	OrderID    string  `dynamodbav:"order_id" json:"order_id"`
	FirstName  string  `dynamodbav:"first_name" json:"first_name"`
	LastName   string  `dynamodbav:"last_name" json:"last_name"`
	Product    string  `dynamodbav:"product" json:"product"`
	Quantity   int     `dynamodbav:"quantity" json:"quantity"`
	OrderDate  string  `dynamodbav:"order_date" json:"order_date"`
	TotalPrice float64 `dynamodbav:"total_price" json:"total_price"`
}

// Store looks up every order placed by a customer. An empty result means the
// customer has no orders; errors are reserved for store failures.
type Store interface {
	LookupOrders(ctx context.Context, firstName, lastName string) ([]Record, error)
}

// ErrNameRequired is returned when a lookup is attempted without a full name.
var ErrNameRequired = errors.New("orders: first and last name required")

// CustomerKey is the partition value used by the stores: "<First> <Last>".
func CustomerKey(firstName, lastName string) string {
	return strings.TrimSpace(firstName) + " " + strings.TrimSpace(lastName)
}

func validateName(firstName, lastName string) error {
	if strings.TrimSpace(firstName) == "" || strings.TrimSpace(lastName) == "" {
		return ErrNameRequired
	}
	return nil
}
