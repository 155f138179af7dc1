package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/KaramelBytes/classmate-cli/internal/utils"
	"github.com/KaramelBytes/classmate-cli/internal/workspace"
)

// File keeps the snapshot in a single file. The format follows the extension.
type File struct {
	Path string
}

// NewFile returns a file store; "~" in path is expanded.
func NewFile(path string) (*File, error) {
	p, err := utils.ExpandHome(path)
	if err != nil {
		return nil, err
	}
	return &File{Path: p}, nil
}

func (f *File) Load(_ context.Context) (workspace.Snapshot, bool, error) {
	b, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return workspace.Snapshot{}, false, nil
		}
		return workspace.Snapshot{}, false, fmt.Errorf("read workspace: %w", err)
	}
	snap, err := Decode(FormatFromPath(f.Path), b)
	if err != nil {
		return workspace.Snapshot{}, false, err
	}
	return snap, true, nil
}

// Save writes the snapshot atomically.
func (f *File) Save(_ context.Context, snap workspace.Snapshot) error {
	b, err := Encode(FormatFromPath(f.Path), snap)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(f.Path, b)
}
