package execmock

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ParseResults decodes a YAML (or JSON) list of results. Each entry may take any
// shape accepted by Queue.SetResults:
//
//	- "plain stdout"
//	- [out, err, 1]
//	- {stdout: out, stderr: err, code: 2}
func ParseResults(data []byte) ([]MockResult, error) {
	var items []any
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse results: %w", err)
	}

	results := make([]MockResult, 0, len(items))

	for i, item := range items {
		res, err := normalize(item)
		if err != nil {
			return nil, fmt.Errorf("result %d: %w", i, err)
		}

		results = append(results, res)
	}

	return results, nil
}

// LoadFile replaces the queue contents with the results in a fixture file.
func (q *Queue) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	results, err := ParseResults(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	items := make([]any, len(results))
	for i, res := range results {
		items[i] = res
	}

	return q.SetResults(items...)
}
