package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// varPattern matches ${var}, ${env:VAR} and ${func(args)} placeholders.
var varPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

var funcRegistry = map[string]func(args string, now time.Time) (string, error){
	"date":      fnDate,
	"timestamp": fnTimestamp,
}

// Vars returns the placeholder values available to output paths.
func (c *Config) Vars() map[string]string {
	return map[string]string{
		"seed":     c.Seed,
		"name":     c.Name,
		"strategy": c.Strategy,
		"runs":     strconv.Itoa(c.Runs),
	}
}

// Expand replaces placeholders in text, e.g. "results/${seed}_${strategy}.csv"
// or "out/${date(2006-01-02)}/run.csv". All failures are joined.
// Text without placeholders is returned unchanged.
func Expand(text string, vars map[string]string, now time.Time) (string, error) {
	if !strings.Contains(text, "${") {
		return text, nil
	}

	var errs []error
	result := varPattern.ReplaceAllStringFunc(text, func(match string) string {
		name := match[2 : len(match)-1]

		if strings.HasPrefix(name, "env:") {
			envName := name[4:]
			if val, ok := os.LookupEnv(envName); ok {
				return val
			}
			errs = append(errs, fmt.Errorf("env var %q not set", envName))
			return match
		}

		if val, ok, err := evalFunction(name, now); ok {
			if err != nil {
				errs = append(errs, err)
				return match
			}
			return val
		}

		if val, ok := vars[name]; ok {
			return val
		}
		errs = append(errs, fmt.Errorf("variable %q not found", name))
		return match
	})

	if len(errs) > 0 {
		return "", errors.Join(errs...)
	}
	return result, nil
}

// ExpandPaths expands the output and comparison paths in place.
func (c *Config) ExpandPaths(now time.Time) error {
	vars := c.Vars()
	out, err := Expand(c.Out, vars, now)
	if err != nil {
		return fmt.Errorf("out: %w", err)
	}
	compare, err := Expand(c.Compare, vars, now)
	if err != nil {
		return fmt.Errorf("compare: %w", err)
	}
	c.Out, c.Compare = out, compare
	return nil
}

// evalFunction evaluates a built-in function call. ok is false when expr is
// not a known function.
func evalFunction(expr string, now time.Time) (string, bool, error) {
	parenIdx := strings.Index(expr, "(")
	if parenIdx == -1 || !strings.HasSuffix(expr, ")") {
		return "", false, nil
	}

	funcName := expr[:parenIdx]
	args := expr[parenIdx+1 : len(expr)-1]

	fn, ok := funcRegistry[funcName]
	if !ok {
		return "", false, nil
	}

	result, err := fn(args, now)
	if err != nil {
		return "", true, fmt.Errorf("function %s: %w", funcName, err)
	}
	return result, true, nil
}

// fnDate formats now with a Go reference layout, RFC 3339 by default.
// Usage: date(2006-01-02)
func fnDate(args string, now time.Time) (string, error) {
	layout := strings.TrimSpace(args)
	if layout == "" {
		layout = time.RFC3339
	}
	return now.Format(layout), nil
}

// fnTimestamp returns now as Unix seconds.
func fnTimestamp(args string, now time.Time) (string, error) {
	if args != "" {
		return "", fmt.Errorf("timestamp() takes no arguments")
	}
	return strconv.FormatInt(now.Unix(), 10), nil
}
