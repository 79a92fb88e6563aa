package shared

// Task types
const (
	TypeEntityCreated = "entity:created"
)

// Queues, highest priority first
const (
	QueueNotification = "notification"
	QueueDefault      = "default"
)

// QueuePriorities is the asynq weight per queue.
var QueuePriorities = map[string]int{
	QueueNotification: 6,
	QueueDefault:      3,
}
