package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"envoi/internal/execution"
)

func newDescribeCommand(ctx *commandContext) *cobra.Command {
	var executionARN string
	var urisOnly bool

	cmd := &cobra.Command{
		Use:   "describe [execution-arn]",
		Short: "Describe an execution",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			handle := strings.TrimSpace(executionARN)
			if len(args) == 1 {
				if handle != "" && handle != strings.TrimSpace(args[0]) {
					return errors.New("execution arn given both as flag and argument")
				}
				handle = strings.TrimSpace(args[0])
			}
			if handle == "" {
				return errors.New("an execution arn is required (--execution-arn or argument)")
			}

			logger, err := ctx.ensureLogger(cmd)
			if err != nil {
				return err
			}
			clients, err := ctx.ensureClients(cmd.Context())
			if err != nil {
				return err
			}

			record, err := execution.NewInspector(clients.StepFunctions, logger).Describe(cmd.Context(), execution.Handle(handle))
			if err != nil {
				return err
			}
			if urisOnly {
				uris, err := execution.ProjectURIs(record)
				if err != nil {
					return err
				}
				return writeJSON(cmd, uris)
			}
			return writeJSON(cmd, record.Document())
		},
	}

	cmd.Flags().StringVar(&executionARN, "execution-arn", "", "The ARN of the execution to describe")
	cmd.Flags().BoolVar(&urisOnly, "uris-only", false, "Only print the URIs of the output files")
	return cmd
}
