package main

import (
	"context"
	"os"

	"github.com/agbru/fibdrv/internal/app"
	apperrors "github.com/agbru/fibdrv/internal/errors"
)

func main() {
	if app.HasVersionFlag(os.Args[1:]) {
		app.PrintVersion(os.Stdout)
		return
	}

	application, err := app.New(os.Args, os.Stderr)
	if err != nil {
		if app.IsHelpError(err) {
			os.Exit(0)
		}
		os.Exit(apperrors.ExitCodeFor(err))
	}

	os.Exit(application.Run(context.Background(), os.Stdout))
}
