package grade

import (
	"errors"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Keys of the evaluation criteria embedded in a grade's more-details blobs.
// A blob looks like
//
//	{'vyhodnotenie': {'hodnoty': [{'do': 50, 'znamka': '5'}, {'do': 100, 'znamka': '1'}]}}
const (
	keyEvaluation = "vyhodnotenie"
	keyValues     = "hodnoty"
	keyUpperBound = "do"
	keyGrade      = "znamka"
)

// defaultUpperBound is used for a threshold without an explicit bound.
const defaultUpperBound = 100

var (
	// ErrNotCriteria is returned when a blob does not carry a threshold table.
	// The evaluator skips such blobs and tries the next one.
	ErrNotCriteria = errors.New("not an evaluation criteria mapping")

	// ErrMalformedCriteria is returned when a blob has the criteria keys but
	// the table cannot be read (a non-numeric bound, a non-list table).
	// The evaluator gives up on the grade entirely in that case.
	ErrMalformedCriteria = errors.New("malformed evaluation criteria")
)

// Threshold maps a percentage upper bound to a grade label.
type Threshold struct {
	// UpperBound is the highest percentage (inclusive) that earns Grade.
	UpperBound float64

	// Grade is the label to display. Empty when the entry had none.
	Grade string
}

// ParseThresholds decodes one more-details blob into its threshold table,
// in the order the blob lists them.
//
// Blobs are Python-style literal mappings (single-quoted strings, True,
// None) or JSON. Both are valid YAML flow documents, so the blob is read
// as a YAML node tree and walked explicitly; nothing in it is evaluated.
// The function is total: every input yields a table or one of
// ErrNotCriteria and ErrMalformedCriteria.
func ParseThresholds(blob string) ([]Threshold, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(blob), &doc); err != nil {
		return nil, ErrNotCriteria
	}

	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil, ErrNotCriteria
		}
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, ErrNotCriteria
	}

	evaluation := lookup(root, keyEvaluation)
	if evaluation == nil || evaluation.Kind != yaml.MappingNode {
		return nil, ErrNotCriteria
	}

	values := lookup(evaluation, keyValues)
	if values == nil {
		return nil, ErrNotCriteria
	}
	if values.Kind != yaml.SequenceNode {
		return nil, ErrMalformedCriteria
	}

	thresholds := make([]Threshold, 0, len(values.Content))
	for _, item := range values.Content {
		threshold, err := parseThreshold(item)
		if err != nil {
			return nil, err
		}
		thresholds = append(thresholds, threshold)
	}

	return thresholds, nil
}

// parseThreshold reads one {'do': ..., 'znamka': ...} entry.
func parseThreshold(item *yaml.Node) (Threshold, error) {
	if item.Kind != yaml.MappingNode {
		return Threshold{}, ErrMalformedCriteria
	}

	threshold := Threshold{UpperBound: defaultUpperBound}

	if bound := lookup(item, keyUpperBound); bound != nil {
		value, err := parseNumber(bound)
		if err != nil {
			return Threshold{}, err
		}
		threshold.UpperBound = value
	}

	if grade := lookup(item, keyGrade); grade != nil && grade.Kind == yaml.ScalarNode && !isNull(grade) {
		threshold.Grade = grade.Value
	}

	return threshold, nil
}

// parseNumber reads a numeric scalar. Quoted numbers ('50') are accepted
// because the portal is not consistent about quoting.
func parseNumber(n *yaml.Node) (float64, error) {
	if n.Kind != yaml.ScalarNode || isNull(n) {
		return 0, ErrMalformedCriteria
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(n.Value), 64)
	if err != nil {
		return 0, ErrMalformedCriteria
	}
	return value, nil
}

// isNull reports whether a scalar is a null (YAML null or Python None).
func isNull(n *yaml.Node) bool {
	return n.Tag == "!!null" || (n.Style == 0 && n.Value == "None")
}

// lookup returns the value node for key in a mapping node, or nil.
// For duplicate keys the last one wins, as in a Python dict literal.
func lookup(mapping *yaml.Node, key string) *yaml.Node {
	var found *yaml.Node
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		k := mapping.Content[i]
		if k.Kind == yaml.ScalarNode && k.Value == key {
			found = mapping.Content[i+1]
		}
	}
	return found
}
