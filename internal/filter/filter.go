// Package filter narrows a row table with a JMESPath expression, or with a
// shell command written as $(command) that receives the rows on stdin.
package filter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/jmespath/go-jmespath"

	"github.com/studiowebux/archibus-connect/internal/result"
)

const (
	// QueryShellTimeout is the maximum time allowed for query shell command execution
	QueryShellTimeout = 30 * time.Second
)

var (
	// Shell command pattern: $(command)
	shellPattern = regexp.MustCompile(`^\$\((.+)\)$`)
)

// Apply evaluates expression against a JSON document and returns JSON.
// Object keys listed in order come first, in that order.
func Apply(ctx context.Context, body, expression string, order []string) (string, error) {
	if matches := shellPattern.FindStringSubmatch(expression); len(matches) > 1 {
		out, err := executeShellCommand(ctx, body, matches[1])
		if err != nil {
			return "", fmt.Errorf("failed to execute filter command: %w", err)
		}
		return out, nil
	}

	out, err := applyJMESPath(body, expression, order)
	if err != nil {
		return "", fmt.Errorf("failed to apply filter: %w", err)
	}
	return out, nil
}

// ApplyToResult filters a table result. Output that is still an array of
// objects stays a table, anything else becomes raw JSON text.
func ApplyToResult(ctx context.Context, r result.Result, expression string) (result.Result, error) {
	if !r.IsTable() {
		return r, fmt.Errorf("filter needs a table result, got %s", r.Kind())
	}
	if strings.TrimSpace(expression) == "" {
		return r, nil
	}

	var order []string
	if rows := r.Rows(); len(rows) > 0 {
		order = rows[0].Keys()
	}

	out, err := Apply(ctx, RowsJSON(r.Rows()), expression, order)
	if err != nil {
		return r, err
	}

	trimmed := strings.TrimSpace(out)
	if strings.HasPrefix(trimmed, "[") {
		if rows, err := result.ParseRows(trimmed); err == nil {
			return result.RowTable(rows), nil
		}
	}
	return result.RawText(out), nil
}

// RowsJSON re-encodes rows as a JSON array keeping each row's key order
func RowsJSON(rows []result.Row) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, row := range rows {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte('{')
		for j, c := range row {
			if j > 0 {
				sb.WriteByte(',')
			}
			key, _ := json.Marshal(c.Key)
			sb.Write(key)
			sb.WriteByte(':')
			sb.WriteString(c.Raw)
		}
		sb.WriteByte('}')
	}
	sb.WriteByte(']')
	return sb.String()
}

// applyJMESPath applies a JMESPath expression to a JSON string
func applyJMESPath(jsonStr, expression string, order []string) (string, error) {
	var data interface{}
	if err := json.Unmarshal([]byte(jsonStr), &data); err != nil {
		return "", fmt.Errorf("invalid JSON: %w", err)
	}

	jp, err := jmespath.Compile(expression)
	if err != nil {
		return "", fmt.Errorf("invalid JMESPath expression '%s': %w", expression, err)
	}

	out, err := jp.Search(data)
	if err != nil {
		return "", fmt.Errorf("JMESPath search failed: %w", err)
	}

	var buf bytes.Buffer
	if err := encodeOrdered(&buf, out, rank(order)); err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}
	return buf.String(), nil
}

func rank(order []string) map[string]int {
	m := make(map[string]int, len(order))
	for i, k := range order {
		m[k] = i
	}
	return m
}

// encodeOrdered writes compact JSON, ordering object keys by rank and then
// alphabetically
func encodeOrdered(buf *bytes.Buffer, v interface{}, ranks map[string]int) error {
	switch val := v.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			ri, iok := ranks[keys[i]]
			rj, jok := ranks[keys[j]]
			switch {
			case iok && jok:
				return ri < rj
			case iok != jok:
				return iok
			default:
				return keys[i] < keys[j]
			}
		})

		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, _ := json.Marshal(k)
			buf.Write(key)
			buf.WriteByte(':')
			if err := encodeOrdered(buf, val[k], ranks); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case []interface{}:
		buf.WriteByte('[')
		for i, el := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeOrdered(buf, el, ranks); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return err
		}
		buf.Write(data)
	}
	return nil
}

// executeShellCommand executes a shell command with the body piped to stdin
func executeShellCommand(ctx context.Context, body, command string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryShellTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Stdin = strings.NewReader(body)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		errMsg := err.Error()
		if stderr.Len() > 0 {
			errMsg = strings.TrimSpace(stderr.String())
		}
		return "", fmt.Errorf("command '%s' failed: %s", command, errMsg)
	}

	return strings.TrimSpace(stdout.String()), nil
}

// IsValid checks if an expression is a shell command or valid JMESPath syntax
func IsValid(expression string) bool {
	if IsShellCommand(expression) {
		return true
	}
	_, err := jmespath.Compile(expression)
	return err == nil
}

// IsShellCommand checks if an expression is a shell command ($(...))
func IsShellCommand(expression string) bool {
	return shellPattern.MatchString(expression)
}
