package workspace

import (
	"context"
	"fmt"

	"github.com/uber/lspterm/src/lspterm/controller/editor"
	"github.com/uber/lspterm/src/lspterm/entity"
	"github.com/uber/lspterm/src/lspterm/internal/errors"
	"github.com/uber/lspterm/src/lspterm/internal/fs"
	"github.com/uber/lspterm/src/lspterm/ui"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module provides the startup workspace controller.
var Module = fx.Options(
	fx.Provide(New),
)

// Controller prepares the initial editor layout from the command line.
type Controller interface {
	// OpenArgs opens the files named on the command line.
	// With no arguments a scratch document is opened. A directory as the first argument
	// opens a scratch document and a file picker rooted there; a directory anywhere
	// else is an error, leaving the files opened before it in place.
	OpenArgs(ctx context.Context, ed *editor.Editor, comp *ui.Compositor, args []string) error
}

// Params are the dependencies of New.
type Params struct {
	fx.In

	FS     fs.FS
	Logger *zap.SugaredLogger
}

type controller struct {
	fs     fs.FS
	logger *zap.SugaredLogger
}

// New creates a workspace controller.
func New(p Params) Controller {
	return &controller{
		fs:     p.FS,
		logger: p.Logger.Named("workspace"),
	}
}

func (c *controller) OpenArgs(ctx context.Context, ed *editor.Editor, comp *ui.Compositor, args []string) error {
	if len(args) == 0 {
		ed.NewFile(entity.ActionVerticalSplit)
		return nil
	}

	first, err := editor.NormalizePath(args[0])
	if err != nil {
		return err
	}
	isDir, err := c.fs.DirExists(first)
	if err != nil {
		return err
	}
	if isDir {
		return c.openPicker(ed, comp, first)
	}

	for i, arg := range args {
		path, err := editor.NormalizePath(arg)
		if err != nil {
			return err
		}
		isDir, err := c.fs.DirExists(path)
		if err != nil {
			return err
		}
		if isDir {
			return &errors.ExpectedFileFoundDirectoryError{Path: path}
		}

		action := entity.ActionLoad
		if i == 0 {
			action = entity.ActionVerticalSplit
		}
		if _, err := ed.Open(ctx, path, action); err != nil {
			return fmt.Errorf("unable to open %q: %w", path, err)
		}
	}

	c.logger.Infow("loaded files from the command line", "count", len(args))
	ed.SetStatus(fmt.Sprintf("Loaded %d files.", len(args)))
	return nil
}

func (c *controller) openPicker(ed *editor.Editor, comp *ui.Compositor, root string) error {
	ed.NewFile(entity.ActionVerticalSplit)

	picker, err := ui.NewFilePicker(c.fs, root)
	if err != nil {
		return fmt.Errorf("listing %q: %w", root, err)
	}
	picker.Attach(comp.Push(picker))
	return nil
}
