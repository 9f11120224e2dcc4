package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/notify"
)

// render prints rows as an aligned table, or v as indented JSON.
func (e *env) render(v any, headers []string, rows [][]string) error {
	if e.format == "json" {
		enc := json.NewEncoder(e.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	tw := tabwriter.NewWriter(e.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// printf writes human output; it is suppressed in json mode.
func (e *env) printf(format string, args ...any) {
	if e.format == "json" {
		return
	}
	fmt.Fprintf(e.out, format, args...)
}

func (e *env) confirm(prompt string) (bool, error) {
	if e.yes {
		return true, nil
	}
	fmt.Fprintf(e.out, "%s [y/N]: ", prompt)
	line, err := e.in.ReadString('\n')
	if err != nil && line == "" {
		return false, errors.New("confirmation required; pass --yes to skip")
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func (e *env) prompt(label string) (string, error) {
	fmt.Fprintf(e.out, "%s: ", label)
	line, err := e.in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimSpace(line), nil
}

// outcome turns a screen's notices into command output: the success banner
// is printed, the error banner becomes the returned error.
func (e *env) outcome(n *notify.Center, err error) error {
	if err != nil {
		if msg := n.ErrorMessage(); msg != "" {
			return errors.New(msg)
		}
		return err
	}
	if msg := n.SuccessMessage(); msg != "" {
		fmt.Fprintln(e.out, msg)
	}
	return nil
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
