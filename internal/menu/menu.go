// Package menu manages the tool's entry in the editor's Edit menu.
package menu

import (
	"context"

	"github.com/bwhitfield/texforge/internal/editor"
	"github.com/bwhitfield/texforge/internal/log"
	"github.com/samber/do"
)

const (
	toolMenusPath = "/Engine/Transient.ToolMenus_0"
	menuName      = "LevelEditor.MainMenu.Edit"
	sectionName   = "EditMain"
	entryName     = "TexForge_Generate"
)

type Registrar struct {
	client *editor.Client
}

func NewRegistrar(i *do.Injector) (*Registrar, error) {
	return &Registrar{client: do.MustInvoke[*editor.Client](i)}, nil
}

// Register removes any stale entry first so repeated registration stays
// idempotent.
func (r *Registrar) Register(ctx context.Context) error {
	log := log.FromContextOrDiscard(ctx).WithGroup("menu")

	if err := r.remove(ctx); err != nil && !editor.IsNotFound(err) {
		return err
	}

	if _, err := r.client.Call(ctx, toolMenusPath, "AddMenuEntry", map[string]any{
		"Menu":    menuName,
		"Section": sectionName,
		"Name":    entryName,
		"Label":   "Generate Texture (AWS)",
		"ToolTip": "Generate a Texture2D from a text prompt via AWS Bedrock",
		"Command": "texforge generate",
	}); err != nil {
		return err
	}

	log.Info("registered menu entry", "menu", menuName, "entry", entryName)
	return r.refresh(ctx)
}

func (r *Registrar) Unregister(ctx context.Context) error {
	log := log.FromContextOrDiscard(ctx).WithGroup("menu")

	if err := r.remove(ctx); err != nil && !editor.IsNotFound(err) {
		return err
	}

	log.Info("unregistered menu entry", "menu", menuName, "entry", entryName)
	return r.refresh(ctx)
}

func (r *Registrar) remove(ctx context.Context) error {
	_, err := r.client.Call(ctx, toolMenusPath, "RemoveMenuEntry", map[string]any{
		"Menu":    menuName,
		"Section": sectionName,
		"Name":    entryName,
	})
	return err
}

func (r *Registrar) refresh(ctx context.Context) error {
	_, err := r.client.Call(ctx, toolMenusPath, "RefreshAllWidgets", nil)
	return err
}
