// Package saver stores downloaded file payloads where the user can find
// them.
//
// An upload box never keeps files itself; when a file is downloaded
// rather than viewed, the payload goes to a Saver. This package provides
// three targets:
//
//	// Local directory, like a browser's download folder.
//	s, _ := saver.NewDiskSaver("./downloads")
//
//	// S3 bucket under a key prefix.
//	cfg, _ := config.LoadDefaultConfig(ctx)
//	s := saver.NewS3Saver(s3.NewFromConfig(cfg), "my-bucket", "downloads/")
//
//	// S3-compatible server (MinIO, Ceph) by endpoint.
//	mc, _ := saver.NewMinioClient("http://localhost:9000", key, secret)
//	s := saver.NewMinioSaver(mc, "my-bucket", "downloads/")
//
// All satisfy uploadbox.Saver.
package saver
