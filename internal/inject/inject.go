package inject

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/bwhitfield/texforge/internal/asset"
	"github.com/bwhitfield/texforge/internal/catalog"
	"github.com/bwhitfield/texforge/internal/editor"
	"github.com/bwhitfield/texforge/internal/image"
	"github.com/bwhitfield/texforge/internal/input"
	"github.com/bwhitfield/texforge/internal/log"
	"github.com/bwhitfield/texforge/internal/menu"
	"github.com/bwhitfield/texforge/internal/param"
	"github.com/bwhitfield/texforge/internal/texture"
	"github.com/samber/do"
	"github.com/samber/lo"
)

const (
	defaultModelID   = "amazon.titan-image-generator-v1"
	defaultDestPath  = "/Game/Generated"
	defaultEditorURL = "http://localhost:30010"
)

func Setup(ctx context.Context) *do.Injector {
	log := log.FromContextOrDiscard(ctx)

	injector := do.NewWithOpts(&do.InjectorOpts{
		Logf: func(format string, args ...any) {
			log.Debug(fmt.Sprintf(format, args...))
		},
	})
	do.Provide[aws.Config](injector, func(i *do.Injector) (aws.Config, error) {
		return config.LoadDefaultConfig(ctx)
	})
	do.Provide[*bedrockruntime.Client](injector, func(i *do.Injector) (*bedrockruntime.Client, error) {
		return bedrockruntime.NewFromConfig(do.MustInvoke[aws.Config](i)), nil
	})
	do.Provide[*s3.Client](injector, func(i *do.Injector) (*s3.Client, error) {
		return s3.NewFromConfig(do.MustInvoke[aws.Config](i)), nil
	})
	do.Provide[*cloudfront.Client](injector, func(i *do.Injector) (*cloudfront.Client, error) {
		return cloudfront.NewFromConfig(do.MustInvoke[aws.Config](i)), nil
	})
	do.Provide[*ssm.Client](injector, func(i *do.Injector) (*ssm.Client, error) {
		return ssm.NewFromConfig(do.MustInvoke[aws.Config](i)), nil
	})
	do.ProvideValue[*http.Client](injector, http.DefaultClient)

	do.Provide[param.Fetcher](injector, param.NewParameterStoreFetcher)
	do.Provide[*editor.Client](injector, editor.NewClient)
	do.Provide[image.Generator](injector, image.NewBedrockGenerator)
	do.Provide[asset.Materializer](injector, asset.NewEditorMaterializer)
	do.Provide[asset.Invalidator](injector, asset.NewCloudFrontInvalidator)
	do.Provide[asset.Publisher](injector, asset.NewS3Publisher)
	do.Provide[input.Prompter](injector, input.NewTerminalPrompter)
	do.Provide[*menu.Registrar](injector, menu.NewRegistrar)
	do.Provide[*catalog.Generator](injector, catalog.NewGenerator)

	do.ProvideNamed[string](injector, "model_id", func(i *do.Injector) (string, error) {
		if path := os.Getenv("TEXFORGE_MODEL_ID_PARAM"); path != "" {
			v, err := do.MustInvoke[param.Fetcher](i).Fetch(ctx, path)
			if err != nil {
				return "", err
			}
			if v != "" {
				return v, nil
			}
		}
		return envOr("TEXFORGE_MODEL_ID", defaultModelID), nil
	})
	do.ProvideNamedValue[string](injector, "dest_path", envOr("TEXFORGE_DEST_PATH", defaultDestPath))
	do.ProvideNamedValue[string](injector, "editor_url", envOr("TEXFORGE_EDITOR_URL", defaultEditorURL))
	do.ProvideNamedValue[string](injector, "bucket", os.Getenv("TEXFORGE_BUCKET"))
	do.ProvideNamedValue[string](injector, "distribution", os.Getenv("TEXFORGE_DISTRIBUTION"))

	do.Provide[*texture.Runner](injector, texture.NewRunner)

	return injector
}

func envOr(key, def string) string {
	return lo.Ternary(os.Getenv(key) != "", os.Getenv(key), def)
}
