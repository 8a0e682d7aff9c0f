// Command extract runs one certificate extraction and prints the result as
// JSON. The document comes from a local file or an S3 reference.
// Usage: go run ./cmd/extract -file cert.pdf
//
//	go run ./cmd/extract -bucket certs -key vendor/acme.pdf
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"coiscan/internal/backend"
	"coiscan/internal/config"
	"coiscan/internal/port"
	"coiscan/internal/service"
	"coiscan/internal/storage/s3"

	_ "coiscan/internal/backend/tesseract"
	_ "coiscan/internal/backend/textract"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	file := flag.String("file", "", "path to a local document")
	bucket := flag.String("bucket", "", "S3 bucket of the document")
	key := flag.String("key", "", "S3 key of the document")
	timeout := flag.Duration("timeout", 60*time.Second, "extraction deadline")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	var store port.ObjectStorage
	if *bucket != "" {
		store, err = s3.NewS3Client(&cfg.AWS)
		if err != nil {
			return fmt.Errorf("creating storage client: %w", err)
		}
	}

	ocrBackend, err := backend.New(cfg, store)
	if err != nil {
		return fmt.Errorf("creating backend: %w", err)
	}
	svc := service.NewExtractService(ocrBackend)

	input := service.ExtractInput{Bucket: *bucket, Key: *key}
	if *file != "" {
		data, err := os.ReadFile(*file)
		if err != nil {
			return fmt.Errorf("reading %s: %w", *file, err)
		}
		input.Bytes = data
		input.Filename = *file
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	res, err := svc.Extract(ctx, input)
	if err != nil {
		return fmt.Errorf("extracting: %w", err)
	}

	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
