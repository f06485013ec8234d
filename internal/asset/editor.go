package asset

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bwhitfield/texforge/internal/editor"
	"github.com/bwhitfield/texforge/internal/log"
	"github.com/samber/do"
)

const assetToolsPath = "/Script/AssetTools.Default__AssetToolsHelpers"

type importTask struct {
	Filename        string `json:"filename"`
	DestinationPath string `json:"destination_path"`
	DestinationName string `json:"destination_name"`
	Automated       bool   `json:"automated"`
	ReplaceExisting bool   `json:"replace_existing"`
	Save            bool   `json:"save"`
}

type importResponse struct {
	ImportedObjectPaths []string `json:"importedObjectPaths"`
}

type EditorMaterializer struct {
	client *editor.Client
}

func NewEditorMaterializer(i *do.Injector) (Materializer, error) {
	return &EditorMaterializer{client: do.MustInvoke[*editor.Client](i)}, nil
}

func (m *EditorMaterializer) Import(ctx context.Context, params ImportParams) (*Handle, error) {
	log := log.FromContextOrDiscard(ctx).WithGroup("import").With(
		"file", params.Path,
		"folder", params.Folder,
		"name", params.Name,
	)
	log.Info("importing into editor")

	raw, err := m.client.Call(ctx, assetToolsPath, "ImportAssetTasks", map[string]any{
		"Tasks": []importTask{{
			Filename:        params.Path,
			DestinationPath: params.Folder,
			DestinationName: params.Name,
			Automated:       true,
			ReplaceExisting: true,
			Save:            true,
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImport, err)
	}

	var resp importResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImport, err)
	}
	if len(resp.ImportedObjectPaths) == 0 {
		return nil, fmt.Errorf("%w: editor reported no imported objects", ErrImport)
	}

	log.Info("imported", "asset", resp.ImportedObjectPaths[0])
	return &Handle{Path: resp.ImportedObjectPaths[0], Name: params.Name}, nil
}
