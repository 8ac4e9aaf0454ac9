package services

// Realtime event names
const (
	EventNewOrder       = "newOrder"
	EventOrderUpdated   = "orderUpdated"
	EventNotification   = "notification"
	EventNewMessage     = "newMessage"
	EventCatalogUpdated = "catalogUpdated"
)

// EventSink delivers realtime events to connected clients. Services receive it
// explicitly at construction; delivery failures are the sink's problem and must
// never fail the operation that emitted the event. A nil sink is valid.
type EventSink interface {
	EmitToUser(userID uint, event string, payload interface{})
	EmitToAdmins(event string, payload interface{})
	Broadcast(event string, payload interface{})
}
