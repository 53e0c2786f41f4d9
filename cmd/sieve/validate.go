package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/sieve/pkg/form"
	"github.com/dmitrymomot/sieve/pkg/i18n"
	"github.com/dmitrymomot/sieve/pkg/validator"
)

var errInputNotObject = errors.New("input must be a mapping")

type validateOptions struct {
	schema string
	form   string
	input  string
	lang   string
}

type validateOutput struct {
	Valid  bool             `json:"valid"`
	Result map[string]any   `json:"result"`
	Errors validator.Errors `json:"errors,omitempty"`
}

func newValidateCmd() *cobra.Command {
	var opts validateOptions

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a JSON or YAML document against a schema",
		Long: `Validates one input object against a schema file or a registered form and prints
the sanitized result with any errors as JSON. Exits with status 1 when the input is invalid.`,
		Example: `  sieve validate --schema signup.yaml --input payload.json
  cat payload.json | sieve validate --form signup --lang de`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.schema, "schema", "s", "", "schema file (YAML or JSON)")
	cmd.Flags().StringVarP(&opts.form, "form", "f", "", "registered form name")
	cmd.Flags().StringVarP(&opts.input, "input", "i", "-", "input file, - for stdin")
	cmd.Flags().StringVarP(&opts.lang, "lang", "l", "", "message language")
	cmd.MarkFlagsOneRequired("schema", "form")
	cmd.MarkFlagsMutuallyExclusive("schema", "form")
	return cmd
}

func runValidate(cmd *cobra.Command, opts validateOptions) error {
	ctx := cmd.Context()
	a := appFrom(cmd)

	schema, err := resolveSchema(cmd, a, opts)
	if err != nil {
		return err
	}
	input, err := readInput(cmd.InOrStdin(), opts.input)
	if err != nil {
		return err
	}

	tr, err := a.translator(ctx)
	if err != nil {
		return err
	}
	v, err := a.validator(tr)
	if err != nil {
		return err
	}
	if opts.lang != "" {
		ctx = i18n.SetLocale(ctx, opts.lang)
	}

	result, errs, err := v.Validate(ctx, schema, input)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(validateOutput{Valid: errs.IsEmpty(), Result: result, Errors: errs}); err != nil {
		return err
	}
	if !errs.IsEmpty() {
		return exitError{code: 1}
	}
	return nil
}

func resolveSchema(cmd *cobra.Command, a *app, opts validateOptions) (validator.Schema, error) {
	if opts.schema != "" {
		return validator.LoadSchemaFile(opts.schema)
	}
	client, err := a.redisClient(cmd.Context())
	if err != nil {
		return nil, err
	}
	if client != nil {
		defer client.Close()
	}
	reg, err := form.NewRegistry(cmd.Context(), a.formSources(client)...)
	if err != nil {
		return nil, err
	}
	return reg.Get(opts.form)
}

// readInput decodes a YAML or JSON mapping from path, or from stdin for "-".
func readInput(stdin io.Reader, path string) (map[string]any, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode input: %w", err)
	}
	switch v := doc.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return v, nil
	}
	return nil, errInputNotObject
}
