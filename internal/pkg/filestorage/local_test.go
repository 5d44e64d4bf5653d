package filestorage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"
)

func newFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("photo", filename)
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("Failed to write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Failed to close writer: %v", err)
	}

	form, err := multipart.NewReader(body, writer.Boundary()).ReadForm(1 << 20)
	if err != nil {
		t.Fatalf("Failed to read form: %v", err)
	}
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["photo"][0]
}

func newTestStorage(t *testing.T, namer Namer) *LocalStorage {
	t.Helper()
	ls, err := NewLocalStorage(filepath.Join(t.TempDir(), "uploads"), namer)
	if err != nil {
		t.Fatalf("NewLocalStorage error: %v", err)
	}
	return ls
}

func TestLocalStorage_SaveTimestampName(t *testing.T) {
	ls := newTestStorage(t, TimestampNamer)
	ls.now = func() time.Time { return time.UnixMilli(1700000000123) }

	name, err := ls.Save(context.Background(), newFileHeader(t, "me.png", []byte("png-bytes")))
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if name != "1700000000123.png" {
		t.Fatalf("Expected 1700000000123.png, got %s", name)
	}

	got, err := os.ReadFile(filepath.Join(ls.BasePath(), name))
	if err != nil {
		t.Fatalf("Expected stored file: %v", err)
	}
	if string(got) != "png-bytes" {
		t.Errorf("Unexpected content %q", got)
	}
}

func TestLocalStorage_SaveUniqueNames(t *testing.T) {
	ls := newTestStorage(t, UniqueNamer)
	fixed := time.UnixMilli(1700000000123)
	ls.now = func() time.Time { return fixed }

	pattern := regexp.MustCompile(`^1700000000123-[0-9a-f-]{36}\.jpg$`)
	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		name, err := ls.Save(context.Background(), newFileHeader(t, "face.jpg", []byte{byte(i)}))
		if err != nil {
			t.Fatalf("Save #%d error: %v", i, err)
		}
		if !pattern.MatchString(name) {
			t.Errorf("Name %q does not match %s", name, pattern)
		}
		seen[name] = true
	}
	if len(seen) != 3 {
		t.Errorf("Expected 3 distinct names within the same millisecond, got %d", len(seen))
	}
}

// Same-millisecond uploads with timestamp naming share one name. Only the
// collision itself is checked; which payload survives is unspecified.
func TestLocalStorage_TimestampCollisionIsKnownLimitation(t *testing.T) {
	ls := newTestStorage(t, TimestampNamer)
	fixed := time.UnixMilli(1700000000999)
	ls.now = func() time.Time { return fixed }

	first, err := ls.Save(context.Background(), newFileHeader(t, "a.jpg", []byte("first")))
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}
	second, err := ls.Save(context.Background(), newFileHeader(t, "b.jpg", []byte("second")))
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if first != second {
		t.Fatalf("Expected colliding names, got %s and %s", first, second)
	}

	entries, err := os.ReadDir(ls.BasePath())
	if err != nil {
		t.Fatalf("ReadDir error: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected a single file after collision, got %d", len(entries))
	}
}

func TestLocalStorage_SaveUnusualExtension(t *testing.T) {
	ls := newTestStorage(t, TimestampNamer)
	ls.now = func() time.Time { return time.UnixMilli(1700000000123) }

	name, err := ls.Save(context.Background(), newFileHeader(t, `scan.jp\g`, []byte("jpeg")))
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if name != "1700000000123" {
		t.Errorf("Expected extension to be dropped, got %s", name)
	}
	if err := ValidateName(name); err != nil {
		t.Errorf("Stored name %q is not servable: %v", name, err)
	}
}

func TestLocalStorage_SaveLeavesNoTempFiles(t *testing.T) {
	ls := newTestStorage(t, nil)

	if _, err := ls.Save(context.Background(), newFileHeader(t, "x.gif", []byte("gif"))); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	entries, err := os.ReadDir(ls.BasePath())
	if err != nil {
		t.Fatalf("ReadDir error: %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), tempPrefix) {
			t.Errorf("Temp file left behind: %s", e.Name())
		}
	}
}

func TestLocalStorage_SaveCancelledContext(t *testing.T) {
	ls := newTestStorage(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := ls.Save(ctx, newFileHeader(t, "x.gif", []byte("gif"))); err == nil {
		t.Fatal("Expected error for cancelled context")
	}

	entries, err := os.ReadDir(ls.BasePath())
	if err != nil {
		t.Fatalf("ReadDir error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected empty directory after failed save, got %d entries", len(entries))
	}
}

func TestLocalStorage_SaveNilHeader(t *testing.T) {
	ls := newTestStorage(t, nil)
	name, err := ls.Save(context.Background(), nil)
	if err != nil || name != "" {
		t.Errorf("Expected empty name and nil error, got %q, %v", name, err)
	}
}

func TestLocalStorage_OpenAndDelete(t *testing.T) {
	ls := newTestStorage(t, nil)
	ctx := context.Background()

	name, err := ls.Save(ctx, newFileHeader(t, "doc.txt", []byte("hello")))
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}

	f, err := ls.Open(ctx, name)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	content, err := io.ReadAll(f)
	_ = f.Close()
	if err != nil {
		t.Fatalf("ReadAll error: %v", err)
	}
	if string(content) != "hello" || f.Size != 5 || f.Name != name {
		t.Errorf("Unexpected stored file: %q size=%d name=%s", content, f.Size, f.Name)
	}

	if err := ls.Delete(ctx, name); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, err := ls.Open(ctx, name); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("Expected ErrFileNotFound after delete, got %v", err)
	}
	if err := ls.Delete(ctx, name); err != nil {
		t.Errorf("Expected deleting a missing file to succeed, got %v", err)
	}
}

func TestValidateName(t *testing.T) {
	valid := []string{"1700000000123.png", "1700000000123-abc.jpg", "noext"}
	for _, name := range valid {
		if err := ValidateName(name); err != nil {
			t.Errorf("Expected %q to be valid, got %v", name, err)
		}
	}

	invalid := []string{"", ".", "..", "../etc/passwd", "a/b.png", `a\b.png`, ".upload-123", ".hidden"}
	for _, name := range invalid {
		if err := ValidateName(name); !errors.Is(err, ErrInvalidFileName) {
			t.Errorf("Expected %q to be rejected, got %v", name, err)
		}
	}
}

func TestNamerFor(t *testing.T) {
	now := time.UnixMilli(42)

	n, err := NamerFor("timestamp")
	if err != nil {
		t.Fatalf("NamerFor error: %v", err)
	}
	if got := n("photo.JPG", now); got != "42.JPG" {
		t.Errorf("Expected 42.JPG, got %s", got)
	}

	n, err = NamerFor("unique")
	if err != nil {
		t.Fatalf("NamerFor error: %v", err)
	}
	if got := n("photo", now); !strings.HasPrefix(got, "42-") || strings.Contains(got, ".") {
		t.Errorf("Unexpected unique name for extensionless file: %s", got)
	}

	for _, original := range []string{`scan.jp\g`, "photo.", "bad.p\x00ng"} {
		if got := n(original, now); strings.Contains(got, ".") {
			t.Errorf("Expected extension of %q to be dropped, got %s", original, got)
		}
	}

	if _, err := NamerFor("random"); err == nil {
		t.Error("Expected error for unknown strategy")
	}
}

func TestNormaliseEndpoint(t *testing.T) {
	tests := []struct {
		raw        string
		useSSL     bool
		wantHost   string
		wantSecure bool
		wantErr    bool
	}{
		{raw: "minio:9000", wantHost: "minio:9000"},
		{raw: "minio:9000", useSSL: true, wantHost: "minio:9000", wantSecure: true},
		{raw: "http://localhost:9000", wantHost: "localhost:9000"},
		{raw: "https://s3.example.com/", wantHost: "s3.example.com", wantSecure: true},
		{raw: "https://s3.example.com/bucket", wantErr: true},
		{raw: "  ", wantErr: true},
	}

	for _, tt := range tests {
		host, secure, err := normaliseEndpoint(tt.raw, tt.useSSL)
		if tt.wantErr {
			if err == nil {
				t.Errorf("normaliseEndpoint(%q): expected error", tt.raw)
			}
			continue
		}
		if err != nil {
			t.Errorf("normaliseEndpoint(%q): unexpected error %v", tt.raw, err)
			continue
		}
		if host != tt.wantHost || secure != tt.wantSecure {
			t.Errorf("normaliseEndpoint(%q) = %s,%v; want %s,%v", tt.raw, host, secure, tt.wantHost, tt.wantSecure)
		}
	}
}
