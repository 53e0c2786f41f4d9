package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/sieve/pkg/form"
	"github.com/dmitrymomot/sieve/pkg/logger"
)

var errRedisRequired = errors.New("REDIS_URL is not set")

func newFormsCmd() *cobra.Command {
	var dir, file string

	cmd := &cobra.Command{
		Use:   "forms",
		Short: "List registered forms",
		Long:  `Loads forms from SIEVE_FORMS_FILE, SIEVE_FORMS_DIR and Redis and prints their names with their fields.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := appFrom(cmd)
			if dir != "" {
				a.cfg.FormsDir = dir
			}
			if file != "" {
				a.cfg.FormsFile = file
			}

			client, err := a.redisClient(cmd.Context())
			if err != nil {
				return err
			}
			if client != nil {
				defer client.Close()
			}

			reg, err := form.NewRegistry(cmd.Context(), a.formSources(client)...)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, name := range reg.Names() {
				schema, _ := reg.Get(name)
				fmt.Fprintf(out, "%s\t%v\n", name, schema.Names())
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "forms directory (overrides SIEVE_FORMS_DIR)")
	cmd.Flags().StringVar(&file, "file", "", "forms file (overrides SIEVE_FORMS_FILE)")

	cmd.AddCommand(newFormsPushCmd(), newFormsDeleteCmd())
	return cmd
}

func newFormsPushCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "push NAME FILE",
		Short: "Store a form schema in Redis",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			doc, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			src, closeFn, err := a.requireRedisSource(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			if err := src.Put(cmd.Context(), args[0], doc); err != nil {
				return err
			}
			a.log.InfoContext(cmd.Context(), "form stored", logger.Form(args[0]))
			return nil
		},
	}
}

func newFormsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Remove a form schema from Redis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			src, closeFn, err := a.requireRedisSource(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			if err := src.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			a.log.InfoContext(cmd.Context(), "form deleted", logger.Form(args[0]))
			return nil
		},
	}
}

func (a *app) requireRedisSource(cmd *cobra.Command) (form.RedisSource, func(), error) {
	client, err := a.redisClient(cmd.Context())
	if err != nil {
		return form.RedisSource{}, nil, err
	}
	if client == nil {
		return form.RedisSource{}, nil, errRedisRequired
	}
	return a.redisSource(client), func() { _ = client.Close() }, nil
}
