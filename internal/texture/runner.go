// Package texture runs the prompt-to-asset pipeline.
package texture

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/bwhitfield/texforge/internal/asset"
	"github.com/bwhitfield/texforge/internal/editor"
	"github.com/bwhitfield/texforge/internal/image"
	"github.com/bwhitfield/texforge/internal/input"
	"github.com/bwhitfield/texforge/internal/log"
	"github.com/bwhitfield/texforge/internal/name"
	"github.com/bwhitfield/texforge/internal/size"
	"github.com/samber/do"
	"github.com/samber/lo"
)

const defaultPrompt = "blue neon logo"

type Request struct {
	Prompt string
	Size   string
	Dest   string
}

type browserSyncer interface {
	SyncBrowser(context.Context, string) error
}

type Runner struct {
	generator    image.Generator
	materializer asset.Materializer
	publisher    asset.Publisher
	prompter     input.Prompter
	editor       browserSyncer
	model        string
	dest         string
}

func NewRunner(i *do.Injector) (*Runner, error) {
	return &Runner{
		generator:    do.MustInvoke[image.Generator](i),
		materializer: do.MustInvoke[asset.Materializer](i),
		publisher:    do.MustInvoke[asset.Publisher](i),
		prompter:     do.MustInvoke[input.Prompter](i),
		editor:       do.MustInvoke[*editor.Client](i),
		model:        do.MustInvokeNamed[string](i, "model_id"),
		dest:         do.MustInvokeNamed[string](i, "dest_path"),
	}, nil
}

// Generate runs one prompt through generation, import and publishing. The
// temp file handed to the editor is removed on every exit path.
func (r *Runner) Generate(ctx context.Context, req Request) (*asset.Handle, error) {
	log := log.FromContextOrDiscard(ctx).WithGroup("texture")

	prompt := lo.Ternary(strings.TrimSpace(req.Prompt) != "", req.Prompt, defaultPrompt)
	w, h, err := size.Parse(req.Size)
	if err != nil {
		return nil, err
	}
	dest := lo.Ternary(strings.TrimSpace(req.Dest) != "", req.Dest, r.dest)

	log.Info("generating texture", "prompt", prompt, "model", r.model,
		"size", fmt.Sprintf("%dx%d", w, h), "dest", dest)
	img, err := r.generator.Generate(ctx, image.Params{
		Model:  r.model,
		Prompt: prompt,
		Width:  w,
		Height: h,
	})
	if err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp("", "texforge-*.png")
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := os.Remove(tmp.Name()); err != nil {
			log.Warn("could not remove temp file", "file", tmp.Name(), "error", err)
		}
	}()
	if _, err := tmp.Write(img); err != nil {
		_ = tmp.Close()
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		return nil, err
	}

	assetName := name.Sanitize(prompt, name.DefaultPrefix, name.DefaultMaxLen)
	log.Info("importing texture", "asset", assetName)
	handle, err := r.materializer.Import(ctx, asset.ImportParams{
		Path:   tmp.Name(),
		Folder: dest,
		Name:   assetName,
	})
	if err != nil {
		return nil, err
	}

	if err := r.publisher.Publish(ctx, asset.PublishParams{
		Name: assetName,
		Data: img,
		Metadata: map[string]string{
			"prompt": prompt,
			"model":  r.model,
		},
	}); err != nil {
		log.Warn("publish failed", "asset", assetName, "error", err)
	}

	if err := r.editor.SyncBrowser(ctx, handle.Path); err != nil {
		log.Warn("could not focus asset", "asset", handle.Path, "error", err)
	}

	log.Info("done", "asset", handle.Path)
	return handle, nil
}

// Interactive prompts for the three inputs then runs Generate. An empty
// prompt cancels before anything else happens.
func (r *Runner) Interactive(ctx context.Context) (*asset.Handle, error) {
	prompt, err := r.prompter.Prompt(ctx, "Text prompt", "")
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(prompt) == "" {
		return nil, input.ErrCancelled
	}

	sizeStr, err := r.prompter.Prompt(ctx, "Size (e.g. 512x512)", "512x512")
	if err != nil {
		return nil, err
	}
	dest, err := r.prompter.Prompt(ctx, "Destination path", r.dest)
	if err != nil {
		return nil, err
	}

	return r.Generate(ctx, Request{Prompt: prompt, Size: sizeStr, Dest: dest})
}
