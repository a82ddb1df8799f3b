/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"

	"github.com/fluffle/apiserver/config"
	"github.com/fluffle/apiserver/internal/storage"
	"github.com/spf13/cobra"
)

// iconsCmd represents the icons command.
var iconsCmd = &cobra.Command{
	Use:   "icons",
	Short: "Manage animal icon assets in object storage",
}

var iconsUploadCmd = &cobra.Command{
	Use:   "upload <dir>",
	Short: "Upload a directory of icon assets to the configured bucket",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()

		var backend storage.ObjectStorage
		switch cfg.Storage.Backend {
		case "minio":
			b, err := storage.NewMinioBackend(cfg.Storage.Minio)
			if err != nil {
				return err
			}
			backend = b
		case "gcs":
			b, err := storage.NewGCSBackend(cmd.Context(), cfg.Storage.GCS)
			if err != nil {
				return err
			}
			backend = b
		default:
			return errors.New("STORAGE_BACKEND must be minio or gcs")
		}

		icons := storage.NewIconStore(backend)
		if err := icons.EnsureBucket(cmd.Context()); err != nil {
			return fmt.Errorf("ensure bucket failed: %w", err)
		}

		root := args[0]
		return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}

			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			key := filepath.ToSlash(filepath.Join("icons", rel))

			file, err := os.Open(path)
			if err != nil {
				return err
			}
			defer file.Close()

			info, err := file.Stat()
			if err != nil {
				return err
			}

			contentType := mime.TypeByExtension(filepath.Ext(path))
			if err := icons.Put(cmd.Context(), key, file, info.Size(), contentType); err != nil {
				return fmt.Errorf("upload %s failed: %w", key, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "uploaded %s\n", key)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(iconsCmd)
	iconsCmd.AddCommand(iconsUploadCmd)
}
