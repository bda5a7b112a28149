// Package schema handles loading, compiling, and validating MCP JSON schemas.
// This file loads schema content from an operator-supplied override URI
// (file:// or http(s)://); it is never consulted unless SchemaOverrideURI is
// configured, in which case it takes priority over the embedded default.
// file: internal/schema/loader.go
package schema

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/dkoosis/mcpsdk/internal/logging"
)

// loadSchemaFromURI dispatches to the file or HTTP(S) loader based on uri's
// scheme, returning the raw schema bytes. A URI that does not parse yields
// a wrapped parse error; every other loading failure is a ValidationError.
func loadSchemaFromURI(ctx context.Context, uri string, logger logging.Logger, httpClient *http.Client) ([]byte, error) {
	parsed, err := url.Parse(uri)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid schema override URI: %s", uri)
	}
	logger.Info("Loading schema override.", "uri", uri, "scheme", parsed.Scheme)

	switch parsed.Scheme {
	case "file":
		return loadSchemaFile(parsed, logger)
	case "http", "https":
		return loadSchemaHTTP(ctx, uri, logger, httpClient)
	default:
		logger.Error("Unsupported schema override scheme.", "uri", uri, "scheme", parsed.Scheme)
		return nil, NewValidationError(
			ErrSchemaLoadFailed,
			fmt.Sprintf("unsupported schema override scheme: %s", parsed.Scheme),
			nil,
		).WithContext("uri", uri)
	}
}

// filePathFromURI converts a file:// URI's path component to an OS path,
// stripping the leading slash Windows absolute paths (file:///C:/...) pick
// up from URI parsing.
func filePathFromURI(raw string) string {
	if runtime.GOOS == "windows" && strings.HasPrefix(raw, "/") && len(raw) > 2 && raw[2] == ':' {
		return raw[1:]
	}
	return raw
}

func loadSchemaFile(parsed *url.URL, logger logging.Logger) ([]byte, error) {
	path := filePathFromURI(parsed.Path)
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	} else {
		logger.Warn("Could not resolve absolute schema file path.", "path", path, "error", err)
	}

	logger.Debug("Reading schema override file.", "path", path)
	// #nosec G304 -- path originates from trusted configuration, not user input.
	data, err := os.ReadFile(path)
	if err != nil {
		code := ErrSchemaLoadFailed
		if os.IsNotExist(err) {
			code = ErrSchemaNotFound
		}
		logger.Error("Failed to read schema override file.", "path", path, "error", err)
		return nil, NewValidationError(code, fmt.Sprintf("failed to read schema override file: %s", path), err).
			WithContext("path", path)
	}
	logger.Debug("Read schema override file.", "path", path, "sizeBytes", len(data))
	return data, nil
}

func loadSchemaHTTP(ctx context.Context, uri string, logger logging.Logger, client *http.Client) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, NewValidationError(ErrSchemaLoadFailed, "failed to build schema override request", err).
			WithContext("uri", uri)
	}
	req.Header.Set("Accept", "application/json, application/schema+json, */*")
	req.Header.Set("User-Agent", "mcpsdk-schema-loader/1.0")

	resp, err := client.Do(req)
	if err != nil {
		return nil, NewValidationError(ErrSchemaLoadFailed, "failed to fetch schema override", err).
			WithContext("uri", uri)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			logger.Warn("Error closing schema override response body.", "uri", uri, "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		preview := calculatePreview(body)
		code := ErrSchemaLoadFailed
		if resp.StatusCode == http.StatusNotFound {
			code = ErrSchemaNotFound
		}
		logger.Error("Schema override fetch returned non-200 status.",
			"uri", uri, "status", resp.Status, "bodyPreview", preview)
		return nil, NewValidationError(code, fmt.Sprintf("schema override fetch returned HTTP %d", resp.StatusCode), nil).
			WithContext("uri", uri).WithContext("status", resp.StatusCode).WithContext("bodyPreview", preview)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewValidationError(ErrSchemaLoadFailed, "failed to read schema override response body", err).
			WithContext("uri", uri)
	}
	logger.Debug("Fetched schema override.", "uri", uri, "sizeBytes", len(data))
	return data, nil
}
