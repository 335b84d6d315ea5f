package models

type AlertType string

const (
	AlertNewOrder   AlertType = "new_order"
	AlertOrderReady AlertType = "order_ready"
)

// Alert is a transient notification tied to an order-lifecycle event. The
// only mutation after creation is the read acknowledgement.
type Alert struct {
	Meta
	Type    AlertType `json:"type"`
	Message string    `json:"message"`
	OrderID string    `json:"orderId"`
	Read    bool      `json:"read"`
}
