package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"envoi/internal/storage"
)

func newTagObjectsCommand(ctx *commandContext) *cobra.Command {
	var (
		bucket     string
		prefix     string
		tagPairs   []string
		tagMapPath string
	)

	cmd := &cobra.Command{
		Use:   "tag-objects",
		Short: "Replace the tags of every object under a bucket prefix",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(bucket) == "" || strings.TrimSpace(prefix) == "" {
				return errors.New("--bucket and --prefix are required")
			}
			if len(tagPairs) == 0 && strings.TrimSpace(tagMapPath) == "" {
				return errors.New("one of --tag or --tag-map is required")
			}

			var (
				explicit storage.Tags
				tagMap   storage.TagMap
				err      error
			)
			if len(tagPairs) > 0 {
				if explicit, err = storage.ParseTags(tagPairs); err != nil {
					return err
				}
			} else if tagMap, err = storage.LoadTagMap(tagMapPath); err != nil {
				return err
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
			tagger := storage.NewTagger(clients.S3, logger)
			status := cmd.ErrOrStderr()
			tagged := 0
			for _, obj := range objects {
				tags := explicit
				if tags == nil {
					var ok bool
					if tags, ok = tagMap.Lookup(bucket, prefix, obj.Key); !ok {
						fmt.Fprintf(status, "No tags mapped for %s\n", obj.URL())
						continue
					}
				}
				if err := tagger.Apply(runCtx, obj, tags); err != nil {
					return err
				}
				tagged++
				fmt.Fprintln(cmd.OutOrStdout(), obj.URL())
			}
			fmt.Fprintf(status, "Tagged %d of %d objects under s3://%s/%s\n", tagged, len(objects), bucket, prefix)
			return nil
		},
	}

	cmd.Flags().StringVarP(&bucket, "bucket", "b", "", "The name of the S3 bucket")
	cmd.Flags().StringVarP(&prefix, "prefix", "p", "", "The object key prefix")
	cmd.Flags().StringArrayVarP(&tagPairs, "tag", "t", nil, "Tag to set as key=value (repeatable)")
	cmd.Flags().StringVar(&tagMapPath, "tag-map", "", "JSON file mapping bucket and key prefix to tags")
	cmd.MarkFlagsMutuallyExclusive("tag", "tag-map")
	return cmd
}
