package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/cratedb/crate-go/core"
)

var flagOutput string

var blobCmd = &cobra.Command{
	Use:   "blob",
	Short: "Manage blobs",
	Long:  "Uploads, downloads, lists and deletes blobs. Blobs are addressed by the SHA-1 digest of their content.",
}

var blobPutCmd = &cobra.Command{
	Use:   "put <bucket> <file>...",
	Short: "Upload files as blobs",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cluster, err := newCluster()
		if err != nil {
			return err
		}

		bucket := args[0]
		files := args[1:]

		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(4)

		refs := make([]*core.BlobRef, len(files))
		for i, path := range files {
			i, path := i, path
			g.Go(func() error {
				f, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("os.Open: %w", err)
				}
				defer f.Close()

				ref, err := cluster.PutBlob(ctx, bucket, f)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				refs[i] = ref
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		for i, ref := range refs {
			fmt.Printf("%s  %s\n", ref.HexDigest(), files[i])
		}
		return nil
	},
}

var blobGetCmd = &cobra.Command{
	Use:   "get <bucket> <digest>",
	Short: "Download a blob",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cluster, err := newCluster()
		if err != nil {
			return err
		}
		ref, err := blobRef(args[0], args[1])
		if err != nil {
			return err
		}

		stream, err := cluster.GetBlob(cmd.Context(), ref)
		if err != nil {
			return err
		}
		defer stream.Close()

		out := io.Writer(os.Stdout)
		if flagOutput != "" {
			f, err := os.Create(flagOutput)
			if err != nil {
				return fmt.Errorf("os.Create: %w", err)
			}
			defer f.Close()
			out = f
		}

		n, err := io.Copy(out, stream)
		if err != nil {
			return fmt.Errorf("io.Copy: %w", err)
		}
		slog.Debug("blob fetched", "digest", ref.HexDigest(), "bytes", n)
		return nil
	},
}

var blobRmCmd = &cobra.Command{
	Use:   "rm <bucket> <digest>",
	Short: "Delete a blob",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cluster, err := newCluster()
		if err != nil {
			return err
		}
		ref, err := blobRef(args[0], args[1])
		if err != nil {
			return err
		}
		return cluster.DeleteBlob(cmd.Context(), ref)
	},
}

var blobLsCmd = &cobra.Command{
	Use:   "ls <bucket>",
	Short: "List blob digests in a bucket",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cluster, err := newCluster()
		if err != nil {
			return err
		}

		refs, err := cluster.ListBlobs(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		for _, ref := range refs {
			fmt.Println(ref.HexDigest())
		}
		return nil
	},
}

func blobRef(bucket, digest string) (*core.BlobRef, error) {
	raw, err := hex.DecodeString(digest)
	if err != nil {
		return nil, fmt.Errorf("invalid digest %q: %w", digest, err)
	}
	return &core.BlobRef{Bucket: bucket, Digest: raw}, nil
}

func init() {
	blobGetCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "write blob to file instead of stdout")

	blobCmd.AddCommand(blobPutCmd, blobGetCmd, blobRmCmd, blobLsCmd)
	rootCmd.AddCommand(blobCmd)
}
