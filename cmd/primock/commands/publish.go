package commands

import (
	"errors"
	"fmt"
	"path"

	"github.com/spf13/cobra"

	"github.com/ieee0824/primock-go/internal/config"
	"github.com/ieee0824/primock-go/storage"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Upload packaged data to S3 or a local directory",
	Long: `Upload every file in <out>/data to the store configured in the publish
section, under <prefix>/data/<file>. Credentials for S3 are read from
AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and AWS_SESSION_TOKEN.`,
	Args: cobra.NoArgs,
	RunE: runPublish,
}

func openStore(p config.Publish) (storage.FileStore, error) {
	switch p.Backend {
	case "local":
		if p.Dir == "" {
			return nil, errors.New("publish.dir is required for the local backend")
		}
		return storage.NewLocal(p.Dir)
	case "s3":
		if p.Bucket == "" {
			return nil, errors.New("publish.bucket is required for the s3 backend")
		}
		client := storage.NewS3Client(storage.S3Options{Region: p.Region, Endpoint: p.Endpoint})
		return storage.NewS3(client, p.Bucket, p.Prefix), nil
	}
	return nil, fmt.Errorf("unknown publish backend %q", p.Backend)
}

func runPublish(cmd *cobra.Command, _ []string) error {
	p := globalConfig.Publish
	store, err := openStore(p)
	if err != nil {
		return err
	}
	// S3Store applies the prefix itself; the local store is rooted at dir.
	dst := "data"
	if p.Backend == "local" && p.Prefix != "" {
		dst = path.Join(p.Prefix, dst)
	}
	done, err := storage.PublishDir(cmd.Context(), store, dataDir(), dst, logger())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "published %d files\n", len(done))
	return nil
}
