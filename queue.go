package execmock

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/eapache/queue"
)

// Queue is a FIFO of programmed results, drained one entry per intercepted call.
// The zero value is an empty, ready to use queue.
type Queue struct {
	mu    sync.Mutex
	items *queue.Queue
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{items: queue.New()}
}

// SetResults normalizes items and replaces the queue contents with them.
// Each item is one result:
//
//	"out"                      stdout only
//	3                          exit code only
//	[]any{"out", "err", 1}     positional stdout, stderr, code (any prefix)
//	map[string]any{"code": 2}  named fields
//	MockResult, *MockResult
//
// On error the queue is left unchanged.
func (q *Queue) SetResults(items ...any) error {
	results := make([]MockResult, 0, len(items))

	for i, item := range items {
		res, err := normalize(item)
		if err != nil {
			return fmt.Errorf("result %d: %w", i, err)
		}

		results = append(results, res)
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	q.items = queue.New()
	for _, res := range results {
		q.items.Add(res)
	}

	return nil
}

// Push appends results to the end of the queue.
func (q *Queue) Push(results ...MockResult) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.init()

	for _, res := range results {
		q.items.Add(res)
	}
}

// Next removes and returns the first queued result, or the zero result when empty.
func (q *Queue) Next() MockResult {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.init()

	if q.items.Length() == 0 {
		return MockResult{}
	}

	return q.items.Remove().(MockResult)
}

// Len returns the number of queued results.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.items == nil {
		return 0
	}

	return q.items.Length()
}

// Reset empties the queue.
func (q *Queue) Reset() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.items = queue.New()
}

func (q *Queue) init() {
	if q.items == nil {
		q.items = queue.New()
	}
}

// normalize converts item and checks the record can be rendered.
func normalize(item any) (MockResult, error) {
	res, err := convert(item)
	if err != nil {
		return MockResult{}, err
	}

	return res, res.Validate()
}

func convert(item any) (MockResult, error) {
	switch v := item.(type) {
	case MockResult:
		return v, v.Validate()
	case *MockResult:
		if v == nil {
			return MockResult{}, nil
		}

		return *v, v.Validate()
	case string:
		return MockResult{Stdout: v}, nil
	case []string:
		fields := make([]any, len(v))
		for i, s := range v {
			fields[i] = s
		}

		return positional(fields)
	case []any:
		return positional(v)
	case map[string]any:
		return named(v)
	case map[string]string:
		fields := make(map[string]any, len(v))
		for k, s := range v {
			fields[k] = s
		}

		return named(fields)
	default:
		if _, ok := numeric(item); ok {
			code, err := toCode(item)
			if err != nil {
				return MockResult{}, err
			}

			return MockResult{Code: code}, nil
		}

		return MockResult{}, fmt.Errorf("%w: unsupported type %T", ErrInvalidResult, item)
	}
}

// Validate checks that Code is a valid exit status and that the rendered
// script fits in a single exec argument (see MaxScriptLen).
func (m MockResult) Validate() error {
	if m.Code < 0 || m.Code > 255 {
		return fmt.Errorf("%w: code %d out of range 0-255", ErrInvalidResult, m.Code)
	}

	if n := len(renderPOSIX(m, m.Code)); n > MaxScriptLen {
		return fmt.Errorf("%w: output renders to %d bytes, over the %d byte argument limit", ErrInvalidResult, n, MaxScriptLen)
	}

	return nil
}

func positional(fields []any) (MockResult, error) {
	var res MockResult

	if len(fields) > 3 {
		return res, fmt.Errorf("%w: expected at most 3 fields, got %d", ErrInvalidResult, len(fields))
	}

	var err error

	for i, f := range fields {
		switch i {
		case 0:
			res.Stdout, err = toText("stdout", f)
		case 1:
			res.Stderr, err = toText("stderr", f)
		case 2:
			res.Code, err = toCode(f)
		}

		if err != nil {
			return MockResult{}, err
		}
	}

	return res, nil
}

func named(fields map[string]any) (MockResult, error) {
	var (
		res MockResult
		err error
	)

	seen := make(map[string]string, len(fields))

	for k, f := range fields {
		key := strings.ToLower(k)
		if prev, dup := seen[key]; dup {
			return MockResult{}, fmt.Errorf("%w: fields %q and %q collide", ErrInvalidResult, prev, k)
		}

		seen[key] = k

		switch key {
		case "stdout":
			res.Stdout, err = toText("stdout", f)
		case "stderr":
			res.Stderr, err = toText("stderr", f)
		case "code":
			res.Code, err = toCode(f)
		default:
			err = fmt.Errorf("%w: unknown field %q", ErrInvalidResult, k)
		}

		if err != nil {
			return MockResult{}, err
		}
	}

	return res, nil
}

func toText(field string, v any) (string, error) {
	switch s := v.(type) {
	case nil:
		return "", nil
	case string:
		return s, nil
	case []byte:
		return string(s), nil
	default:
		return "", fmt.Errorf("%w: %s must be a string, got %T", ErrInvalidResult, field, v)
	}
}

// toCode converts v to an exit status. Exit statuses are 0-255.
func toCode(v any) (int, error) {
	var code int

	switch n := v.(type) {
	case nil:
		return 0, nil
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, fmt.Errorf("%w: code %q is not a number", ErrInvalidResult, n)
		}

		code = parsed
	default:
		f, ok := numeric(v)
		if !ok || f != math.Trunc(f) {
			return 0, fmt.Errorf("%w: code must be an integer, got %v", ErrInvalidResult, v)
		}

		code = int(f)
	}

	return code, MockResult{Code: code}.Validate()
}

func numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
