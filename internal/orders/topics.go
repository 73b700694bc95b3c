package orders

const (
	TopicOrderPlaced     = "order.placed"
	TopicOrderCancelled  = "order.cancelled"
	TopicPurchaseCreated = "purchase.created"
)

// Partition key = order_id, supaya semua event 1 order maintain urutan.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
