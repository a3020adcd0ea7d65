// Command phonecheck validates, parses and deduplicates Liberian phone
// numbers given as arguments or one per line on stdin.
//
//	phonecheck 088123456 +23177123456
//	phonecheck -dedupe < signups.txt
//	phonecheck -parse -json 088
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"text/tabwriter"

	"golang.org/x/sync/errgroup"

	"github.com/libmarket/phonecheck/internal/errmap"
	"github.com/libmarket/phonecheck/internal/phone"
)

// Exit codes.
const (
	exitOK      = 0
	exitInvalid = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	json   bool
	dedupe bool
	parse  bool
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("phonecheck", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.BoolVar(&opts.json, "json", false, "emit one JSON object per input")
	fs.BoolVar(&opts.dedupe, "dedupe", false, "group inputs that share a canonical number")
	fs.BoolVar(&opts.parse, "parse", false, "show typing feedback instead of validating")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if opts.dedupe && opts.parse {
		fmt.Fprintln(stderr, "-dedupe and -parse are mutually exclusive")
		return exitUsage
	}

	inputs := fs.Args()
	if len(inputs) == 0 {
		var err error
		if inputs, err = readLines(stdin); err != nil {
			fmt.Fprintln(stderr, "read stdin:", err)
			return exitUsage
		}
	}

	switch {
	case opts.parse:
		return runParse(inputs, opts, stdout)
	case opts.dedupe:
		return runDedupe(ctx, inputs, opts, stdout)
	default:
		return runValidate(ctx, inputs, opts, stdout)
	}
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, sc.Err()
}

// validateAll validates inputs concurrently, preserving input order.
func validateAll(ctx context.Context, inputs []string) ([]phone.ValidationResult, error) {
	results := make([]phone.ValidationResult, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, raw := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = phone.Validate(raw)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

type validationLine struct {
	Input     string        `json:"input"`
	Valid     bool          `json:"valid"`
	Canonical string        `json:"canonical,omitempty"`
	Carrier   phone.Carrier `json:"carrier,omitempty"`
	Display   string        `json:"display,omitempty"`
	Code      string        `json:"code,omitempty"`
	Error     string        `json:"error,omitempty"`
}

func toLine(raw string, res phone.ValidationResult) validationLine {
	if !res.Valid {
		return validationLine{Input: raw, Code: errmap.ToHTTPError(res.Err).Code, Error: res.ErrorMessage()}
	}
	return validationLine{
		Input:     raw,
		Valid:     true,
		Canonical: res.Canonical,
		Carrier:   res.Carrier,
		Display:   phone.Format(res.Canonical),
	}
}

func runValidate(ctx context.Context, inputs []string, opts options, stdout io.Writer) int {
	results, err := validateAll(ctx, inputs)
	if err != nil {
		fmt.Fprintln(stdout, "validate:", err)
		return exitInvalid
	}

	code := exitOK
	enc := json.NewEncoder(stdout)
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	for i, res := range results {
		line := toLine(inputs[i], res)
		if !line.Valid {
			code = exitInvalid
		}
		if opts.json {
			_ = enc.Encode(line)
			continue
		}
		if line.Valid {
			fmt.Fprintf(tw, "%s\tOK\t%s\t%s\n", line.Input, line.Display, line.Carrier)
		} else {
			fmt.Fprintf(tw, "%s\tINVALID\t%s\t\n", line.Input, line.Error)
		}
	}
	_ = tw.Flush()
	return code
}

type dedupeGroup struct {
	Canonical string   `json:"canonical"`
	Display   string   `json:"display"`
	Raw       []string `json:"raw"`
}

func runDedupe(ctx context.Context, inputs []string, opts options, stdout io.Writer) int {
	results, err := validateAll(ctx, inputs)
	if err != nil {
		fmt.Fprintln(stdout, "validate:", err)
		return exitInvalid
	}

	idx := phone.NewIndex()
	var invalid []validationLine
	for i, res := range results {
		if !res.Valid {
			invalid = append(invalid, toLine(inputs[i], res))
			continue
		}
		// Validate already accepted the input, so Add cannot fail.
		_, _, _ = idx.Add(inputs[i])
	}

	dups := idx.Duplicates()
	groups := make([]dedupeGroup, 0, len(dups))
	for _, g := range dups {
		groups = append(groups, dedupeGroup{Canonical: g.Number.String(), Display: g.Number.Display(), Raw: g.Raw})
	}

	if opts.json {
		_ = json.NewEncoder(stdout).Encode(struct {
			Unique     int              `json:"unique"`
			Duplicates []dedupeGroup    `json:"duplicates"`
			Invalid    []validationLine `json:"invalid"`
		}{idx.Len(), groups, invalid})
	} else {
		for _, g := range groups {
			fmt.Fprintf(stdout, "%s: %s\n", g.Display, strings.Join(g.Raw, ", "))
		}
		for _, l := range invalid {
			fmt.Fprintf(stdout, "invalid %q: %s\n", l.Input, l.Error)
		}
		fmt.Fprintf(stdout, "%d unique, %d duplicated, %d invalid\n", idx.Len(), len(groups), len(invalid))
	}

	if len(groups) > 0 || len(invalid) > 0 {
		return exitInvalid
	}
	return exitOK
}

func runParse(inputs []string, opts options, stdout io.Writer) int {
	enc := json.NewEncoder(stdout)
	for _, raw := range inputs {
		res := phone.Parse(raw)
		if opts.json {
			_ = enc.Encode(res)
			continue
		}
		fmt.Fprintf(stdout, "%s: %s\n", raw, strings.Join(res.Suggestions, "; "))
	}
	return exitOK
}
