package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	customerlookup "github.com/tarmac-project/customer-lookup"
	"github.com/tarmac-project/customer-lookup/connection"
	"github.com/tarmac-project/customer-lookup/customer"
)

// inputError marks failures caused by the caller's input rather than the
// environment, so main can exit with a distinct code.
type inputError struct{ err error }

func (e *inputError) Error() string { return e.err.Error() }
func (e *inputError) Unwrap() error { return e.err }

func newInvokeCmd(opts *options) *cobra.Command {
	var (
		input      string
		pretty     bool
		invocation bool
	)

	cmd := &cobra.Command{
		Use:   "invoke",
		Short: "Run one lookup and print the matching customers as JSON",
		Long: `Run one lookup. The input mapping is read from --input, or from stdin when
--input is empty or "-". It must contain FirstName, MiddleName and LastName;
MiddleName may be empty. A database failure prints an empty array.

With --invocation the input is a workflow invocation payload carrying both the
inputs and the connection, and the connection flags are ignored.`,
		Example: `  customer-lookup invoke --input '{"FirstName":"Orlando","MiddleName":"","LastName":"Gee"}'
  echo '{"FirstName":"Orlando","MiddleName":"","LastName":"Gee"}' | customer-lookup invoke --connection-file conn.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := opts.logger()
			if err != nil {
				return err
			}

			raw, err := readInput(input, cmd.InOrStdin())
			if err != nil {
				return &inputError{err: err}
			}

			lookup, err := opts.lookup(log, nil)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			if invocation {
				fn, err := customerlookup.New(customerlookup.Config{Lookup: lookup})
				if err != nil {
					return err
				}
				b, err := fn.HandleContext(ctx, []byte(raw))
				if err != nil {
					return classify(err)
				}
				return writeJSON(cmd.OutOrStdout(), json.RawMessage(b), pretty)
			}

			conn, err := opts.connection()
			if err != nil {
				return &inputError{err: err}
			}

			rs, err := lookup.Invoke(ctx, raw, conn)
			if err != nil {
				return classify(err)
			}
			return writeJSON(cmd.OutOrStdout(), rs, pretty)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", `lookup input as JSON ("-" or empty reads stdin)`)
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent the JSON output")
	cmd.Flags().BoolVar(&invocation, "invocation", false, `treat the input as a full {"inputs":...,"connection":...} invocation payload`)
	return cmd
}

func readInput(flagValue string, stdin io.Reader) (string, error) {
	if flagValue != "" && flagValue != "-" {
		return flagValue, nil
	}
	b, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	if strings.TrimSpace(string(b)) == "" {
		return "", errors.New("no input given: pass --input or pipe JSON on stdin")
	}
	return string(b), nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, customer.ErrInvalidInput),
		errors.Is(err, customerlookup.ErrInvalidPayload),
		errors.Is(err, connection.ErrMissingConnectionString):
		return &inputError{err: err}
	}
	return err
}

func writeJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
