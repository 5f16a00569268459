package main

import (
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func (c *cli) instrumentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "instruments",
		Short: "Show the instrument catalogue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printJSON(cmd.OutOrStdout(), c.app.Store.Instruments())
		},
	}
}

func (c *cli) uploadsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "uploads", Short: "Instrument data uploads"}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List uploads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printJSON(cmd.OutOrStdout(), c.app.Store.DataUploads())
		},
	})

	var instrument, fileType string
	add := &cobra.Command{
		Use:   "add <file>",
		Short: "Store an instrument file and record a pending upload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()
			if fileType == "" {
				fileType = mime.TypeByExtension(filepath.Ext(args[0]))
			}
			u, err := c.app.Store.UploadInstrumentFile(cmd.Context(), instrument, filepath.Base(args[0]), fileType, f)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), u)
		},
	}
	add.Flags().StringVar(&instrument, "instrument", "", "instrument id")
	add.Flags().StringVar(&fileType, "type", "", "MIME type (guessed from the extension when empty)")
	cmd.AddCommand(add)

	cmd.AddCommand(&cobra.Command{
		Use:   "link <upload-id> <batch-id>",
		Short: "Link an upload to a batch",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := c.app.Store.LinkUploadToBatch(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), u)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "cat <upload-id>",
		Short: "Write an upload's stored file to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, rc, err := c.app.Store.OpenUploadFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer func() { _ = rc.Close() }()
			if _, err := io.Copy(cmd.OutOrStdout(), rc); err != nil {
				return fmt.Errorf("read upload %s: %w", args[0], err)
			}
			return nil
		},
	})
	return cmd
}
