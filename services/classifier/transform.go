package classifier

import (
	"encoding/gob"
	"os"
	"strings"
	"unicode"
)

// Transform is the bag-of-words feature transform applied to body text before
// classification. Its configuration is persisted alongside the trained model
// so both halves of the artifact pair travel together.
type Transform struct {
	MinTokenLength int
	Lowercase      bool
	StopWords      map[string]struct{}
}

func NewTransform() *Transform {
	return &Transform{
		MinTokenLength: 2,
		Lowercase:      true,
		StopWords: map[string]struct{}{
			"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "of": {},
			"to": {}, "in": {}, "on": {}, "is": {}, "it": {}, "at": {},
		},
	}
}

// Tokenize splits body text into feature tokens: unicode letter/digit runs,
// optionally lowercased, with stop words and short tokens dropped.
func (t *Transform) Tokenize(text string) []string {
	if t.Lowercase {
		text = strings.ToLower(text)
	}

	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		if len(field) < t.MinTokenLength {
			continue
		}
		if _, stop := t.StopWords[field]; stop {
			continue
		}
		tokens = append(tokens, field)
	}

	return tokens
}

func (t *Transform) WriteToFile(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return gob.NewEncoder(file).Encode(t)
}

func LoadTransformFromFile(path string) (*Transform, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	transform := &Transform{}
	if err := gob.NewDecoder(file).Decode(transform); err != nil {
		return nil, err
	}
	return transform, nil
}
