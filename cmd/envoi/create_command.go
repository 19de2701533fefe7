package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"envoi/internal/execution"
	"envoi/internal/history"
	"envoi/internal/language"
	"envoi/internal/logging"
)

func newCreateCommand(ctx *commandContext) *cobra.Command {
	var (
		mediaFileURI     string
		outputBucketName string
		stateMachineARN  string
		sourceLanguage   string
		languages        []string
		jobName          string
		dryRun           bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Start a transcription and translation execution",
		Long: `Start a transcription and translation execution for one media file.

Translation languages are given with -l/--translation-languages, either as
separate values (-l es fr de), comma separated (-l es,fr) or as the single
value "all" to translate into every language the catalog supports.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				if !cmd.Flags().Changed("translation-languages") {
					return fmt.Errorf("unexpected arguments: %s", strings.Join(args, " "))
				}
				languages = append(languages, args...)
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger(cmd)
			if err != nil {
				return err
			}
			runCtx := cmd.Context()

			var catalog language.Catalog
			if language.IsAll(languages) {
				clients, err := ctx.ensureClients(runCtx)
				if err != nil {
					return err
				}
				catalog = language.NewTranslateCatalog(clients.Translate, cfg.Transcribe.CatalogPageSize)
			}
			targets, err := language.NewResolver(catalog, logger).Resolve(runCtx, languages, outputBucketName)
			if err != nil {
				return err
			}

			req, err := execution.NewBuilder().Build(execution.Params{
				MediaFileURI:     mediaFileURI,
				OutputBucketName: outputBucketName,
				JobName:          jobName,
				SourceLanguage:   firstNonEmpty(sourceLanguage, cfg.Transcribe.SourceLanguage),
				Languages:        targets,
			})
			if err != nil {
				return err
			}

			if dryRun {
				return writeJSON(cmd, req)
			}

			clients, err := ctx.ensureClients(runCtx)
			if err != nil {
				return err
			}
			target := firstNonEmpty(stateMachineARN, cfg.Transcribe.StateMachineARN)
			handle, err := execution.NewDispatcher(clients.StepFunctions, logger).Submit(runCtx, target, req)
			if err != nil {
				return err
			}
			ctx.recordHistory(runCtx, logger, history.Entry{
				Kind:   history.KindExecution,
				Handle: handle.String(),
				Target: target,
				Name:   req.Transcribe.TranscriptionJobName,
				Source: req.Transcribe.Media.MediaFileURI,
			})
			logger.Debug("create complete", logging.String(logging.FieldExecutionARN, handle.String()))
			fmt.Fprintln(cmd.OutOrStdout(), handle)
			return nil
		},
	}

	cmd.Flags().StringVar(&mediaFileURI, "media-file-uri", "", "The S3 URI of the media file to transcribe")
	cmd.Flags().StringVar(&outputBucketName, "output-bucket-name", "", "The bucket that receives transcripts and translations")
	cmd.Flags().StringVar(&stateMachineARN, "state-machine-arn", "", "The ARN of the state machine to run (defaults to transcribe.state_machine_arn)")
	cmd.Flags().StringVar(&sourceLanguage, "source-language", "", "The language of the source media (defaults to transcribe.source_language)")
	cmd.Flags().StringSliceVarP(&languages, "translation-languages", "l", nil, `The languages to translate to, or "all"`)
	cmd.Flags().StringVar(&jobName, "job-name", "", "The transcription job name (defaults to <file stem>-<random suffix>)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the execution input instead of starting it")
	_ = cmd.MarkFlagRequired("media-file-uri")
	_ = cmd.MarkFlagRequired("output-bucket-name")
	return cmd
}
