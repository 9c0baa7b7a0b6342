package record

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// ErrUnknownTopic is returned when a topic is bound to no shape.
var ErrUnknownTopic = errors.New("record: unknown topic")

// TopicTable is a bijection between shapes and topic names.
type TopicTable struct {
	byShape map[ShapeID]string
	byTopic map[string]ShapeID
}

// NewTopicTable checks that every shape has a non-empty topic and that no
// two shapes share one.
func NewTopicTable(topics map[ShapeID]string) (*TopicTable, error) {
	t := &TopicTable{
		byShape: make(map[ShapeID]string, len(topics)),
		byTopic: make(map[string]ShapeID, len(topics)),
	}

	var problems []string
	for _, id := range ShapeIDs() {
		topic := strings.TrimSpace(topics[id])
		if topic == "" {
			problems = append(problems, fmt.Sprintf("%s has no topic", id))
			continue
		}
		if other, taken := t.byTopic[topic]; taken {
			problems = append(problems, fmt.Sprintf("%s and %s share topic %q", other, id, topic))
			continue
		}
		t.byShape[id] = topic
		t.byTopic[topic] = id
	}

	extra := lo.Filter(lo.Keys(topics), func(id ShapeID, _ int) bool {
		_, known := catalog[id]
		return !known
	})
	for _, id := range extra {
		problems = append(problems, fmt.Sprintf("%s is not a known shape", id))
	}

	if len(problems) > 0 {
		sort.Strings(problems)
		return nil, fmt.Errorf("record: invalid topic table: %s", strings.Join(problems, "; "))
	}
	return t, nil
}

// Topic returns the topic bound to kind and version.
func (t *TopicTable) Topic(kind Kind, version Version) (string, error) {
	topic, ok := t.byShape[ShapeID{Kind: kind, Version: version}]
	if !ok {
		return "", fmt.Errorf("%w: %s/%s", ErrUnknownShape, kind, version)
	}
	return topic, nil
}

// Resolve returns the shape bound to topic.
func (t *TopicTable) Resolve(topic string) (ShapeID, error) {
	id, ok := t.byTopic[topic]
	if !ok {
		return ShapeID{}, fmt.Errorf("%w: %q", ErrUnknownTopic, topic)
	}
	return id, nil
}

// Topics returns every bound topic in ShapeIDs order.
func (t *TopicTable) Topics() []string {
	return lo.FilterMap(ShapeIDs(), func(id ShapeID, _ int) (string, bool) {
		topic, ok := t.byShape[id]
		return topic, ok
	})
}
