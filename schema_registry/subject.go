package schema_registry

// Role is the message part a schema describes.
type Role string

const (
	RoleKey   Role = "key"
	RoleValue Role = "value"
)

// Subject returns the topic name strategy subject for topic and role.
func Subject(topic string, role Role) string {
	return topic + "-" + string(role)
}
