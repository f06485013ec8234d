// Package editor talks to a running Unreal Editor through its Remote
// Control HTTP API.
package editor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/bwhitfield/texforge/internal/log"
	"github.com/samber/do"
)

const assetLibraryPath = "/Script/EditorScriptingUtilities.Default__EditorAssetLibrary"

type CallError struct {
	Status int
	Body   string
}

func (e *CallError) Error() string {
	return fmt.Sprintf("editor call failed: status %d: %s", e.Status, e.Body)
}

// IsNotFound reports whether err is the editor saying the target object,
// function or menu entry does not exist.
func IsNotFound(err error) bool {
	var ce *CallError
	return errors.As(err, &ce) && ce.Status == http.StatusNotFound
}

type Client struct {
	HTTP    *http.Client
	BaseURL string
}

func NewClient(i *do.Injector) (*Client, error) {
	return &Client{
		HTTP:    do.MustInvoke[*http.Client](i),
		BaseURL: do.MustInvokeNamed[string](i, "editor_url"),
	}, nil
}

type callRequest struct {
	ObjectPath          string `json:"objectPath"`
	FunctionName        string `json:"functionName"`
	Parameters          any    `json:"parameters,omitempty"`
	GenerateTransaction bool   `json:"generateTransaction"`
}

// Call invokes a function on a scripting object inside the editor and
// returns the raw response body for the caller to decode.
func (c *Client) Call(ctx context.Context, objectPath, function string, params any) (json.RawMessage, error) {
	log := log.FromContextOrDiscard(ctx).WithGroup("editor").With("object", objectPath, "function", function)
	log.Debug("calling remote control api")

	body, err := json.Marshal(callRequest{
		ObjectPath:   objectPath,
		FunctionName: function,
		Parameters:   params,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.BaseURL+"/remote/object/call", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Add("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &CallError{Status: resp.StatusCode, Body: string(data)}
	}
	return data, nil
}

// SyncBrowser focuses the Content Browser on an asset. Purely cosmetic, so
// failures are the caller's to downgrade.
func (c *Client) SyncBrowser(ctx context.Context, assetPath string) error {
	_, err := c.Call(ctx, assetLibraryPath, "SyncBrowserToObjects", map[string]any{
		"AssetPaths": []string{assetPath},
	})
	return err
}
