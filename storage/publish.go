package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
)

// Upload copies the local file src to dst in store.
func Upload(ctx context.Context, store FileStore, dst, src string) (int64, error) {
	f, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	w, err := store.Write(ctx, dst)
	if err != nil {
		return 0, fmt.Errorf("storage: upload %s: %w", dst, err)
	}
	n, err := io.Copy(w, f)
	if err = errors.Join(err, w.Close()); err != nil {
		return n, fmt.Errorf("storage: upload %s: %w", dst, err)
	}
	return n, nil
}

// PublishDir uploads every regular file directly under dir to
// <prefix>/<name> and returns the uploaded paths in name order.
func PublishDir(ctx context.Context, store FileStore, dir, prefix string, log *slog.Logger) ([]string, error) {
	if log == nil {
		log = slog.Default()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("storage: publish: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var done []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return done, err
		}
		dst := path.Join(prefix, e.Name())
		n, err := Upload(ctx, store, dst, filepath.Join(dir, e.Name()))
		if err != nil {
			return done, err
		}
		log.Info("published", "path", dst, "bytes", n)
		done = append(done, dst)
	}
	return done, nil
}
