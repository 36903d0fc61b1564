package domain

import "context"

type ChangeAction string

const (
	ChangeCreated ChangeAction = "created"
	ChangeUpdated ChangeAction = "updated"
)

// VisitChange is a row-change notification emitted after a confirmed
// write, consumed by open dashboards to refresh their in-memory copy.
// Delivery is best-effort, at most once per event.
type VisitChange struct {
	Action ChangeAction `json:"action"`
	Visit  *Visit       `json:"visit"`
}

// ChangePublisher publishes visit changes to subscribed dashboards.
// Publishing must never fail the mutation that triggered it.
type ChangePublisher interface {
	PublishVisitChange(ctx context.Context, change VisitChange)
}
