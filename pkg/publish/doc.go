// Package publish ships build outputs to a storage backend.
//
// The package is built around the Storage interface, a byte-oriented API for
// putting, reading, listing and deleting files plus public URL generation. Two
// implementations are provided:
//   - LocalStorage: filesystem-based, every operation confined to a base
//     directory, writes are atomic (temp file + rename)
//   - S3Storage: AWS S3 and S3-compatible services (MinIO, Wasabi, etc.)
//
// Publish is the high-level operation: it uploads every artifact listed in a
// build manifest plus the manifest itself, sets content types from file
// extensions, and skips artifacts whose SHA-256 already matches the previously
// published manifest.
//
// # Usage
//
//	storage, err := publish.NewLocalStorage("public/i18n", "/static/")
//	if err != nil {
//		return err
//	}
//
//	manifest, err := build.LoadManifest("dist")
//	if err != nil {
//		return err
//	}
//
//	res, err := publish.Publish(ctx, storage, manifest, "dist", "v2")
//	if err != nil {
//		return err
//	}
//	fmt.Printf("uploaded %d, skipped %d\n", res.Uploaded, res.Skipped)
//
// Using S3 storage:
//
//	storage, err := publish.NewS3Storage(ctx, publish.S3Config{
//		Bucket:      "my-bucket",
//		Region:      "us-east-1",
//		AccessKeyID: "key",
//		SecretKey:   "secret",
//	})
//
// # Error Handling
//
// Backend failures are classified to package sentinels so callers can branch
// with errors.Is:
//
//	err := storage.Delete(ctx, "v2/app.fi.js")
//	if errors.Is(err, publish.ErrFileNotFound) {
//		// already gone
//	} else if errors.Is(err, publish.ErrAccessDenied) {
//		// credentials problem
//	}
//
// S3 API errors map to the same sentinels as local filesystem errors
// (NoSuchKey -> ErrFileNotFound, NoSuchBucket -> ErrBucketNotFound), so code
// written against the interface behaves the same on either backend.
package publish
