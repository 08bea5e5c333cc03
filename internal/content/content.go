// Package content serves the static vocabulary sets shipped with the
// application. Content is embedded in the binary as JSON and is read-only:
// the mastery tracker copies word pairs and examples out of it but never
// writes back.
//
// Only the de-ru direction is authored; ru-de is derived at load time by
// mirroring each entry, the same way the mobile app generates it.
package content

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/bili-app/bili-api/internal/domain"
)

//go:embed vocabulary.json
var vocabularyJSON []byte

// Catalog answers vocabulary lookups by (level, direction, day).
type Catalog struct {
	// level -> direction -> day -> items
	sets map[string]map[string]map[int][]domain.VocabularyItem
}

// NewCatalog parses the embedded vocabulary content and derives the
// mirrored direction. Returns an error if the embedded data is malformed,
// which would be a packaging defect rather than a runtime condition.
func NewCatalog() (*Catalog, error) {
	var raw map[string]map[string]map[string][]domain.VocabularyItem
	if err := json.Unmarshal(vocabularyJSON, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse embedded vocabulary content: %w", err)
	}

	sets := make(map[string]map[string]map[int][]domain.VocabularyItem, len(raw))
	for level, directions := range raw {
		sets[level] = make(map[string]map[int][]domain.VocabularyItem, len(directions))
		for direction, days := range directions {
			parsed := make(map[int][]domain.VocabularyItem, len(days))
			for dayStr, items := range days {
				var day int
				if _, err := fmt.Sscanf(dayStr, "%d", &day); err != nil || day < 1 {
					return nil, fmt.Errorf("invalid day key %q in vocabulary content", dayStr)
				}
				for i := range items {
					items[i].Day = day
					if err := items[i].Validate(); err != nil {
						return nil, fmt.Errorf("invalid vocabulary item on day %d: %w", day, err)
					}
				}
				parsed[day] = items
			}
			sets[level][direction] = parsed
		}
	}

	c := &Catalog{sets: sets}
	c.deriveMirrored()
	return c, nil
}

// deriveMirrored fills every missing reverse direction by swapping the
// word and example sides of the authored one.
func (c *Catalog) deriveMirrored() {
	mirror := map[string]string{
		domain.DirectionGermanToRussian: domain.DirectionRussianToGerman,
		domain.DirectionRussianToGerman: domain.DirectionGermanToRussian,
	}

	for _, directions := range c.sets {
		for direction, days := range directions {
			reversed := mirror[direction]
			if _, ok := directions[reversed]; ok && len(directions[reversed]) > 0 {
				continue
			}
			mirrored := make(map[int][]domain.VocabularyItem, len(days))
			for day, items := range days {
				out := make([]domain.VocabularyItem, len(items))
				for i, it := range items {
					out[i] = domain.VocabularyItem{
						From:        it.To,
						To:          it.From,
						ExampleFrom: it.ExampleTo,
						ExampleTo:   it.ExampleFrom,
						Day:         it.Day,
					}
				}
				mirrored[day] = out
			}
			directions[reversed] = mirrored
		}
	}
}

// ForDay returns the vocabulary set for one day within a (level, direction)
// scope, or an empty slice when no content exists for the combination.
func (c *Catalog) ForDay(level, direction string, day int) []domain.VocabularyItem {
	items := c.sets[level][direction][day]
	if items == nil {
		return []domain.VocabularyItem{}
	}
	out := make([]domain.VocabularyItem, len(items))
	copy(out, items)
	return out
}

// Days returns the sorted day numbers available for a (level, direction)
// scope.
func (c *Catalog) Days(level, direction string) []int {
	days := c.sets[level][direction]
	out := make([]int, 0, len(days))
	for day := range days {
		out = append(out, day)
	}
	sort.Ints(out)
	return out
}

// HasContent reports whether any vocabulary exists for the scope.
func (c *Catalog) HasContent(level, direction string) bool {
	return len(c.sets[level][direction]) > 0
}
