package subscriber

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Backend is the durable storage behind a Store. Save always receives the
// complete set and replaces whatever was stored before.
type Backend interface {
	Load(ctx context.Context) ([]int64, error)
	Save(ctx context.Context, ids []int64) error
	Name() string
}

// CorruptError lists persisted entries that could not be parsed as ids.
// It is returned together with the ids that did parse and is not fatal.
type CorruptError struct {
	Source  string
	Entries []string
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("%s: skipped %d malformed entries: %s", e.Source, len(e.Entries), strings.Join(e.Entries, ", "))
}

// ParseIDs reads one integer id per line. Blank lines and zero ids are
// ignored; any other non-numeric line is reported through *CorruptError.
func ParseIDs(source string, r io.Reader) ([]int64, error) {
	var ids []int64
	var bad []string

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		id, err := strconv.ParseInt(line, 10, 64)
		if err != nil {
			bad = append(bad, strconv.Quote(line))
			continue
		}
		if id == 0 {
			continue
		}
		ids = append(ids, id)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", source, err)
	}
	if len(bad) > 0 {
		return ids, &CorruptError{Source: source, Entries: bad}
	}
	return ids, nil
}

// FormatIDs renders ids in the line-delimited persisted form.
func FormatIDs(ids []int64) string {
	var b strings.Builder
	for i, id := range ids {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strconv.FormatInt(id, 10))
	}
	return b.String()
}
