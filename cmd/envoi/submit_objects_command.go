package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"envoi/internal/execution"
	"envoi/internal/history"
	"envoi/internal/storage"
)

type objectDocument struct {
	URL    string         `json:"url"`
	Object storage.Object `json:"object"`
}

func newSubmitObjectsCommand(ctx *commandContext) *cobra.Command {
	var (
		bucket          string
		prefix          string
		stateMachineARN string
		assumeYes       bool
	)

	cmd := &cobra.Command{
		Use:   "submit-objects",
		Short: "Start one execution per object under a bucket prefix",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(bucket) == "" || strings.TrimSpace(stateMachineARN) == "" {
				return errors.New("--bucket and --state-machine-arn are required")
			}
			logger, err := ctx.ensureLogger(cmd)
			if err != nil {
				return err
			}
			runCtx := cmd.Context()
			clients, err := ctx.ensureClients(runCtx)
			if err != nil {
				return err
			}

			objects, err := storage.NewLister(clients.S3, 0, logger).List(runCtx, bucket, prefix)
			if err != nil {
				return err
			}
			status := cmd.ErrOrStderr()
			if len(objects) == 0 {
				fmt.Fprintf(status, "No objects found under s3://%s/%s\n", bucket, prefix)
				return nil
			}
			fmt.Fprintln(status, summarizeObjects(objects))

			if !assumeYes {
				if !ctx.opts.stdinIsTerminal() {
					return errors.New("stdin is not a terminal; pass --yes to submit without confirmation")
				}
				fmt.Fprintf(status, "Are you sure you want to submit these objects to the step function %q? [y/N] ", stateMachineARN)
				if !confirmed(cmd.InOrStdin()) {
					fmt.Fprintln(status, "Aborting...")
					return nil
				}
			}

			dispatcher := execution.NewDispatcher(clients.StepFunctions, logger)
			for _, obj := range objects {
				handle, err := dispatcher.Start(runCtx, stateMachineARN, objectDocument{URL: obj.URL(), Object: obj})
				if err != nil {
					return err
				}
				ctx.recordHistory(runCtx, logger, history.Entry{
					Kind:   history.KindExecution,
					Handle: handle.String(),
					Target: stateMachineARN,
					Name:   obj.Key,
					Source: obj.URL(),
				})
				fmt.Fprintln(cmd.OutOrStdout(), handle)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&bucket, "bucket", "b", "", "The name of the S3 bucket")
	cmd.Flags().StringVarP(&prefix, "prefix", "p", "", "The object prefix")
	cmd.Flags().StringVarP(&stateMachineARN, "state-machine-arn", "s", "", "The ARN of the state machine to run per object")
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Submit without asking for confirmation")
	return cmd
}

func summarizeObjects(objects []storage.Object) string {
	count := len(objects)
	size := storage.TotalSize(objects)
	verb, noun := "are", "objects"
	if count == 1 {
		verb, noun = "is", "object"
	}
	unit := "bytes"
	if size == 1 {
		unit = "byte"
	}
	return fmt.Sprintf("There %s %s %s with a total size of %s %s (%s).",
		verb, humanize.Comma(int64(count)), noun, humanize.Comma(int64(size)), unit, humanize.Bytes(size))
}

func confirmed(in io.Reader) bool {
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
