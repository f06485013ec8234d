package main

import (
	"context"
	"os"

	"github.com/bwhitfield/texforge/internal/cli"
	"github.com/bwhitfield/texforge/internal/inject"
	"github.com/bwhitfield/texforge/internal/log"
)

func main() {
	ctx := log.NewContext(context.Background(), log.New(os.Stderr))
	injector := inject.Setup(ctx)
	err := cli.New(injector).ExecuteContext(ctx)
	_ = injector.Shutdown()
	if err != nil {
		os.Exit(1)
	}
}
