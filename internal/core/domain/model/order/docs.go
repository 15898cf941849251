// Package order contains the customer order aggregate of the fulfillment domain.
//
// An Order is the aggregate root. It exclusively owns one SubOrder per vendor, and every
// SubOrder owns the LineItems bought from that vendor. Orders and sub-orders share one
// Status enum; the order status is derived from its sub-orders and changes only through:
//   - creation (Pending)
//   - customer cancellation (Cancel)
//   - payment confirmation (ConfirmPayment)
//   - the status cascade (ChangeSubOrderStatus followed by Settle)
//
// Every status change is reported as a Transition so that callers can record history,
// notifications and audit entries in the same unit of work.
package order
