package patchblob

import (
	"context"
	"io"
	"os"

	"gocloud.dev/blob"
)

const (
	ContentTypeAPK = "application/vnd.android.package-archive"
)

func Copy(ctx context.Context, bucket *blob.Bucket, key string, r io.Reader) error {
	w, err := bucket.NewWriter(ctx, key, &blob.WriterOptions{ContentType: ContentTypeAPK})
	if err != nil {
		return err
	}

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return err
	}

	if err = w.Close(); err != nil {
		return err
	}

	return nil
}

// Upload opens the bucket at urlstr and copies the file at name to key.
func Upload(ctx context.Context, urlstr, key, name string) error {
	bucket, err := blob.OpenBucket(ctx, urlstr)
	if err != nil {
		return err
	}
	defer bucket.Close()

	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	return Copy(ctx, bucket, key, f)
}
