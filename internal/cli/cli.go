// Package cli wires the cobra commands.
package cli

import (
	"errors"
	"fmt"

	"github.com/bwhitfield/texforge/internal/asset"
	"github.com/bwhitfield/texforge/internal/catalog"
	"github.com/bwhitfield/texforge/internal/input"
	"github.com/bwhitfield/texforge/internal/log"
	"github.com/bwhitfield/texforge/internal/menu"
	"github.com/bwhitfield/texforge/internal/texture"
	"github.com/samber/do"
	"github.com/spf13/cobra"
)

func New(injector *do.Injector) *cobra.Command {
	root := &cobra.Command{
		Use:           "texforge",
		Short:         "Generate texture assets from text prompts via AWS Bedrock",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newGenerateCommand(injector),
		newRegisterCommand(injector),
		newUnregisterCommand(injector),
		newFeedCommand(injector),
	)
	return root
}

func newGenerateCommand(injector *do.Injector) *cobra.Command {
	var prompt, sizeStr, dest string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a texture and import it into the editor",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			logger := log.FromContextOrDiscard(ctx)
			runner := do.MustInvoke[*texture.Runner](injector)

			var handle *asset.Handle
			var err error
			if cmd.Flags().Changed("prompt") {
				handle, err = runner.Generate(ctx, texture.Request{Prompt: prompt, Size: sizeStr, Dest: dest})
			} else {
				handle, err = runner.Interactive(ctx)
			}

			// A failed generation is terminal for this invocation only; it
			// never takes the process down.
			switch {
			case errors.Is(err, input.ErrCancelled):
				logger.Info("cancelled")
			case err != nil:
				logger.Error("generation failed", "error", err)
			default:
				fmt.Fprintln(cmd.OutOrStdout(), handle.Path)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&prompt, "prompt", "p", "", "text prompt; prompts interactively when omitted")
	cmd.Flags().StringVarP(&sizeStr, "size", "s", "", `image size like "512x512" or "1024,1024"`)
	cmd.Flags().StringVarP(&dest, "dest", "d", "", "destination path in the project")
	return cmd
}

func newRegisterCommand(injector *do.Injector) *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Add the Generate Texture entry to the editor's Edit menu",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return do.MustInvoke[*menu.Registrar](injector).Register(cmd.Context())
		},
	}
}

func newUnregisterCommand(injector *do.Injector) *cobra.Command {
	return &cobra.Command{
		Use:   "unregister",
		Short: "Remove the Generate Texture entry from the editor's Edit menu",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return do.MustInvoke[*menu.Registrar](injector).Unregister(cmd.Context())
		},
	}
}

func newFeedCommand(injector *do.Injector) *cobra.Command {
	return &cobra.Command{
		Use:   "feed",
		Short: "Regenerate the Atom feed of published textures",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return do.MustInvoke[*catalog.Generator](injector).Publish(cmd.Context())
		},
	}
}
