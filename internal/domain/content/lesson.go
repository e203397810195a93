package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/phrazzld/bloom/internal/domain"
)

// ErrMissingIdentity is matched by every DecodeError of kind MissingIdentity.
var ErrMissingIdentity = errors.New("missing identity")

// ErrorKind classifies decode failures.
type ErrorKind string

// MissingIdentity means a record lacks one of its identity members.
const MissingIdentity ErrorKind = "missing_identity"

// DecodeError reports a record that could not be decoded.
type DecodeError struct {
	Kind ErrorKind
	// Entity is "lesson" or "content item".
	Entity string
	// Index is the position of the content item, or -1 for the lesson.
	Index int
	// Fields lists the missing identity members.
	Fields []string
}

func (e *DecodeError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("%s %d: %s: %s", e.Entity, e.Index, ErrMissingIdentity, strings.Join(e.Fields, ", "))
	}
	return fmt.Sprintf("%s: %s: %s", e.Entity, ErrMissingIdentity, strings.Join(e.Fields, ", "))
}

// Unwrap allows errors.Is(err, ErrMissingIdentity).
func (e *DecodeError) Unwrap() error {
	if e.Kind == MissingIdentity {
		return ErrMissingIdentity
	}
	return nil
}

// Item is one ordered content item of a lesson.
type Item struct {
	ID          string `json:"id"`
	LessonID    string `json:"lesson_id"`
	OrderIndex  int    `json:"order_index"`
	ContentType string `json:"content_type"`
	Data        Data   `json:"content_data"`
}

// Placeholder reports whether the item was substituted for an undecodable one.
func (i Item) Placeholder() bool {
	return i.ContentType == placeholderType
}

// Question returns the item's question payload, if it has one.
func (i Item) Question() (Question, bool) {
	q, ok := i.Data.(Question)
	return q, ok
}

const placeholderType = "placeholder"

// Lesson is a lesson with its ordered content items.
type Lesson struct {
	domain.Lesson
	Content []Item `json:"content"`

	// Problems lists the content items that were replaced by placeholders.
	Problems []*DecodeError `json:"-"`
}

// UnmarshalJSON decodes through DecodeLesson.
func (l *Lesson) UnmarshalJSON(raw []byte) error {
	decoded, err := DecodeLesson(raw)
	if err != nil {
		return err
	}
	*l = *decoded
	return nil
}

var (
	lessonIdentity = []string{"id", "level_id", "order_index"}
	itemIdentity   = []string{"id", "lesson_id", "order_index"}
)

// DecodeLesson decodes a lesson with its content. It fails only when the
// lesson's own identity members are absent. A content item missing its
// identity is replaced by a placeholder and reported in Lesson.Problems.
// Items are returned in OrderIndex order.
func DecodeLesson(raw []byte) (*Lesson, error) {
	f, ok := parseFields(raw)
	if !ok {
		return nil, &DecodeError{Kind: MissingIdentity, Entity: "lesson", Index: -1, Fields: lessonIdentity}
	}
	if missing := missingIdentity(f, lessonIdentity); len(missing) > 0 {
		return nil, &DecodeError{Kind: MissingIdentity, Entity: "lesson", Index: -1, Fields: missing}
	}

	id, _ := field[string](f, "id")
	levelID, _ := field[string](f, "level_id")
	order, _ := field[int](f, "order_index")

	lesson := &Lesson{
		Lesson: domain.Lesson{
			ID:         id,
			LevelID:    levelID,
			Title:      optional[string](f, "title"),
			IconURL:    optional[string](f, "icon_url"),
			Type:       optional[string](f, "type"),
			OrderIndex: order,
		},
		Content: []Item{},
	}

	elems := optional[[]json.RawMessage](f, "content")
	for i, elem := range elems {
		item, problem := decodeItem(elem, id, i)
		if problem != nil {
			lesson.Problems = append(lesson.Problems, problem)
		}
		lesson.Content = append(lesson.Content, item)
	}

	sort.SliceStable(lesson.Content, func(a, b int) bool {
		return lesson.Content[a].OrderIndex < lesson.Content[b].OrderIndex
	})

	return lesson, nil
}

// decodeItem decodes one content item at position index.
func decodeItem(raw json.RawMessage, lessonID string, index int) (Item, *DecodeError) {
	f, ok := parseFields(raw)
	if !ok {
		return placeholder(lessonID, index), &DecodeError{
			Kind: MissingIdentity, Entity: "content item", Index: index, Fields: itemIdentity,
		}
	}

	if missing := missingIdentity(f, itemIdentity); len(missing) > 0 {
		item := placeholder(lessonID, index)
		if id, ok := field[string](f, "id"); ok {
			item.ID = id
		}
		if order, ok := field[int](f, "order_index"); ok {
			item.OrderIndex = order
		}
		return item, &DecodeError{Kind: MissingIdentity, Entity: "content item", Index: index, Fields: missing}
	}

	id, _ := field[string](f, "id")
	itemLessonID, _ := field[string](f, "lesson_id")
	order, _ := field[int](f, "order_index")

	return Item{
		ID:          id,
		LessonID:    itemLessonID,
		OrderIndex:  order,
		ContentType: optional[string](f, "content_type"),
		Data:        DecodeData(f["content_data"]),
	}, nil
}

func placeholder(lessonID string, index int) Item {
	return Item{
		LessonID:    lessonID,
		OrderIndex:  index,
		ContentType: placeholderType,
		Data:        Empty(),
	}
}

// missingIdentity returns the identity members of f that are absent or
// empty. String identities must be non-empty strings and order_index must
// be an integer.
func missingIdentity(f fields, identity []string) []string {
	var missing []string
	for _, key := range identity {
		if key == "order_index" {
			if _, ok := field[int](f, key); !ok {
				missing = append(missing, key)
			}
			continue
		}
		if s, ok := field[string](f, key); !ok || s == "" {
			missing = append(missing, key)
		}
	}
	return missing
}
