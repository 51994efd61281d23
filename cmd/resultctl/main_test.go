package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	gojson "github.com/goccy/go-json"
	"github.com/hupe1980/results/archive"
	"github.com/hupe1980/results/blobstore"
	"github.com/hupe1980/results/cloudevents"
	"github.com/hupe1980/results/compress"
	"github.com/hupe1980/results/httpbody"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes resultctl with args and stdin and returns stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&errOut)

	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestEncodeValidate(t *testing.T) {
	t.Run("Value", func(t *testing.T) {
		out, err := run(t, "", "encode", "--value", `{"total":42}`, "--id", "evt-1", "--source", "urn:shop")
		require.NoError(t, err)
		assert.Contains(t, out, `"source":"urn:shop"`)
		assert.Contains(t, out, `"type":"resultctl.success"`)
		assert.Contains(t, out, `"data":{"total":42}`)

		out, err = run(t, out, "validate", "-")
		require.NoError(t, err)
		assert.Equal(t, "valid success envelope id=evt-1 type=resultctl.success\n", out)
	})

	t.Run("Void", func(t *testing.T) {
		out, err := run(t, "", "encode", "--id", "evt-2", "--type", "shop.ping")
		require.NoError(t, err)
		assert.NotContains(t, out, `"data"`)

		out, err = run(t, out, "validate", "-")
		require.NoError(t, err)
		assert.Equal(t, "valid success envelope id=evt-2 type=shop.ping\n", out)
	})

	t.Run("Failure", func(t *testing.T) {
		out, err := run(t, "", "encode", "--outcome", "failure", "--id", "evt-3",
			"--message", "must be positive", "--target", "total", "--category", "validation")
		require.NoError(t, err)
		assert.Contains(t, out, `"lroutcome":"failure"`)
		assert.Contains(t, out, `"category":"Validation"`)

		out, err = run(t, out, "validate", "-")
		require.NoError(t, err)
		assert.Equal(t, "valid failure (1 errors) envelope id=evt-3 type=resultctl.failure\n", out)
	})
}

func TestEncodeHTTP(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"Value", []string{"--value", `{"total":42}`},
			[]string{"HTTP 200 OK\n", "Content-Type: application/json", `{"value":{"total":42}}`}},
		{"Void", nil, []string{"HTTP 204 No Content\n"}},
		{"Failure", []string{"--outcome", "failure", "--message", "order missing", "--category", "notfound"},
			[]string{"HTTP 404 Not Found\n", "Content-Type: application/problem+json", `"detail":"order missing"`, `"category":"NotFound"`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, "", append([]string{"encode", "--http"}, tt.args...)...)
			require.NoError(t, err)
			for _, want := range tt.want {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestEncodeUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"BadOutcome", []string{"encode", "--outcome", "maybe"}},
		{"BadOutcomeHTTP", []string{"encode", "--http", "--outcome", "maybe"}},
		{"InvalidValue", []string{"encode", "--value", "{nope"}},
		{"FailureWithoutMessage", []string{"encode", "--outcome", "failure"}},
		{"UnknownCategory", []string{"encode", "--outcome", "failure", "--message", "x", "--category", "cosmic"}},
		{"UnknownCodec", []string{"encode", "--codec", "xml"}},
		{"BadLogLevel", []string{"encode", "--log-level", "loud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, "", tt.args...)
			require.ErrorIs(t, err, errUsage)
			assert.Equal(t, exitUserError, exitCode(err))
		})
	}

	t.Run("InvalidSource", func(t *testing.T) {
		_, err := run(t, "", "encode", "--source", "%zz")
		require.ErrorIs(t, err, cloudevents.ErrInvalidAttribute)
		assert.Equal(t, exitUserError, exitCode(err))
	})
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"NotJSON", "nope"},
		{"MissingSource", `{"specversion":"1.0","type":"t","id":"1"}`},
		{"FailureWithoutData", `{"specversion":"1.0","type":"t","source":"urn:x","id":"1","lroutcome":"failure"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.input, "validate", "-")
			require.ErrorIs(t, err, cloudevents.ErrParse)
			assert.Equal(t, exitUserError, exitCode(err))
		})
	}

	t.Run("MissingFile", func(t *testing.T) {
		_, err := run(t, "", "validate", filepath.Join(t.TempDir(), "missing.json"))
		require.Error(t, err)
	})
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "failure.json",
		`{"specversion":"1.0","type":"shop.order.rejected","source":"urn:shop","id":"evt-9","time":"2024-01-02T03:04:05Z",`+
			`"lroutcome":"failure","tenant":"acme","datacontenttype":"application/json",`+
			`"data":{"errors":[{"message":"out of stock","code":"E42","category":"Conflict"}],"metadata":{"attempt":2}}}`)

	out, err := run(t, "", "inspect", path)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, gojson.Unmarshal([]byte(out), &got))

	assert.Equal(t, "shop.order.rejected", got["type"])
	assert.Equal(t, "evt-9", got["id"])
	assert.Equal(t, "failure", got["outcome"])
	assert.Equal(t, "2024-01-02T03:04:05Z", got["time"])
	assert.Equal(t, map[string]any{"lroutcome": "failure", "tenant": "acme"}, got["extensions"])
	assert.Equal(t, map[string]any{"attempt": float64(2)}, got["metadata"])

	errs, ok := got["errors"].([]any)
	require.True(t, ok)
	require.Len(t, errs, 1)
	first := errs[0].(map[string]any)
	assert.Equal(t, "out of stock", first["message"])
	assert.Equal(t, "E42", first["code"])
	assert.Equal(t, "Conflict", first["category"])

	t.Run("Value", func(t *testing.T) {
		envelope, err := run(t, "", "encode", "--value", `[1,2,3]`, "--id", "evt-1")
		require.NoError(t, err)

		out, err := run(t, envelope, "inspect", "-")
		require.NoError(t, err)
		assert.Contains(t, out, `"value": [`)
		assert.Contains(t, out, `"outcome": "success"`)
	})
}

func TestCompressRoundTrip(t *testing.T) {
	dir := t.TempDir()
	input := strings.Repeat(`{"specversion":"1.0","type":"t"}`, 32)
	path := writeFile(t, dir, "in.json", input)

	for _, coding := range []string{"none", "lz4", "zstd", "s2", "gzip"} {
		t.Run(coding, func(t *testing.T) {
			compressed, err := run(t, "", "compress", "--type", coding, path)
			require.NoError(t, err)
			if coding != "none" {
				assert.Less(t, len(compressed), len(input))
			}

			cpath := writeFile(t, dir, "in."+coding, compressed)
			out, err := run(t, "", "decompress", "--type", coding, cpath)
			require.NoError(t, err)
			assert.Equal(t, input, out)
		})
	}

	t.Run("UnknownType", func(t *testing.T) {
		_, err := run(t, "", "compress", "--type", "brotli", path)
		require.ErrorIs(t, err, compress.ErrUnknownType)
		assert.Equal(t, exitUserError, exitCode(err))
	})

	t.Run("ConfiguredDefault", func(t *testing.T) {
		compressed, err := run(t, input, "compress", "--compression", "s2", "-")
		require.NoError(t, err)
		out, err := run(t, compressed, "decompress", "--type", "s2", "-")
		require.NoError(t, err)
		assert.Equal(t, input, out)
	})
}

func TestArchiveCommands(t *testing.T) {
	dir := t.TempDir()
	archiveDir := filepath.Join(dir, "archive")
	backend := []string{"--backend", "local", "--dir", archiveDir, "--workers", "2"}

	var paths []string
	for i := range 3 {
		envelope, err := run(t, "", "encode", "--value", fmt.Sprintf(`{"n":%d}`, i), "--id", fmt.Sprintf("evt-%d", i))
		require.NoError(t, err)
		paths = append(paths, writeFile(t, dir, fmt.Sprintf("e%d.json", i), envelope))
	}

	out, err := run(t, "", append(append([]string{"archive", "push"}, paths...), backend...)...)
	require.NoError(t, err)
	assert.Equal(t, "evt-0\nevt-1\nevt-2\n", out)

	_, err = os.Stat(filepath.Join(archiveDir, "envelopes", "evt-1.ce"))
	require.NoError(t, err)

	out, err = run(t, "", append([]string{"archive", "list"}, backend...)...)
	require.NoError(t, err)
	assert.Equal(t, "evt-0\nevt-1\nevt-2\n", out)

	out, err = run(t, "", append([]string{"archive", "get", "evt-1"}, backend...)...)
	require.NoError(t, err)
	original, err := os.ReadFile(paths[1])
	require.NoError(t, err)
	assert.Equal(t, string(original)+"\n", out)

	_, err = run(t, "", append([]string{"archive", "delete", "evt-1"}, backend...)...)
	require.NoError(t, err)

	_, err = run(t, "", append([]string{"archive", "get", "evt-1"}, backend...)...)
	require.ErrorIs(t, err, blobstore.ErrNotFound)
	assert.Equal(t, exitUserError, exitCode(err))

	_, err = run(t, "", append([]string{"archive", "get", "../etc"}, backend...)...)
	require.ErrorIs(t, err, archive.ErrInvalidID)

	_, err = run(t, "", append([]string{"archive", "latest", "evt-0"}, backend...)...)
	require.ErrorIs(t, err, archive.ErrNoIndex)
	assert.Equal(t, exitSysError, exitCode(err))

	t.Run("Cached", func(t *testing.T) {
		out, err := run(t, "", append([]string{"archive", "list", "--config", writeFile(t, dir, "cache.yaml", "archive:\n  cache_bytes: 65536\n")}, backend...)...)
		require.NoError(t, err)
		assert.Equal(t, "evt-0\nevt-2\n", out)
	})

	t.Run("PushRejectsInvalid", func(t *testing.T) {
		bad := writeFile(t, dir, "bad.json", "{}")
		_, err := run(t, "", append([]string{"archive", "push", bad}, backend...)...)
		require.ErrorIs(t, err, cloudevents.ErrParse)
	})
}

func TestArchiveBackendErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"Unknown", []string{"--backend", "tape"}},
		{"LocalWithoutDir", []string{"--backend", "local", "--dir", ""}},
		{"S3WithoutBucket", []string{"--backend", "s3"}},
		{"MinioWithoutEndpoint", []string{"--backend", "minio", "--bucket", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, "", append([]string{"archive", "list"}, tt.args...)...)
			require.ErrorIs(t, err, errUsage)
		})
	}

	t.Run("Memory", func(t *testing.T) {
		out, err := run(t, "", "archive", "list", "--backend", "memory")
		require.NoError(t, err)
		assert.Empty(t, out)
	})
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "resultctl.yaml", `source: urn:from-config
success_type: cfg.success
metadata_mode: errors-only
`)

	out, err := run(t, "", "encode", "--config", cfg, "--id", "evt-1", "--value", "1")
	require.NoError(t, err)
	assert.Contains(t, out, `"source":"urn:from-config"`)
	assert.Contains(t, out, `"type":"cfg.success"`)

	t.Run("FlagOverridesFile", func(t *testing.T) {
		out, err := run(t, "", "encode", "--config", cfg, "--source", "urn:flag", "--id", "evt-1")
		require.NoError(t, err)
		assert.Contains(t, out, `"source":"urn:flag"`)
	})

	t.Run("Env", func(t *testing.T) {
		t.Setenv("RESULTCTL_SOURCE", "urn:env")
		out, err := run(t, "", "encode", "--id", "evt-1")
		require.NoError(t, err)
		assert.Contains(t, out, `"source":"urn:env"`)
	})

	t.Run("MissingExplicitFile", func(t *testing.T) {
		_, err := run(t, "", "encode", "--config", filepath.Join(dir, "missing.yaml"))
		require.Error(t, err)
	})

	t.Run("InvalidMetadataMode", func(t *testing.T) {
		_, err := run(t, "", "encode", "--metadata-mode", "sometimes")
		require.ErrorIs(t, err, cloudevents.ErrInvalidAttribute)
	})
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"Nil", nil, exitSuccess},
		{"Usage", usageErr("bad flag"), exitUserError},
		{"Parse", fmt.Errorf("x: %w", cloudevents.ErrParse), exitUserError},
		{"InvalidHTTPResult", fmt.Errorf("x: %w", httpbody.ErrInvalidResult), exitUserError},
		{"NotFound", blobstore.ErrNotFound, exitUserError},
		{"Other", errors.New("disk on fire"), exitSysError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestSplitEndpoint(t *testing.T) {
	host, secure := splitEndpoint("http://localhost:9000")
	assert.Equal(t, "localhost:9000", host)
	assert.False(t, secure)

	host, secure = splitEndpoint("https://s3.example.com")
	assert.Equal(t, "s3.example.com", host)
	assert.True(t, secure)

	host, secure = splitEndpoint("play.min.io")
	assert.Equal(t, "play.min.io", host)
	assert.True(t, secure)
}
