package gcid

import (
	"bytes"
	"context"
	"crypto/sha1" // #nosec G505
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func expectedGCID(content []byte, blockSize int) string {
	outer := sha1.New()
	for off := 0; off < len(content); off += blockSize {
		end := off + blockSize
		if end > len(content) {
			end = len(content)
		}
		b := sha1.Sum(content[off:end])
		outer.Write(b[:])
	}
	return hex.EncodeToString(outer.Sum(nil))
}

func TestBlockSize(t *testing.T) {
	tests := []struct {
		size int64
		want int64
	}{
		{0, 0x40000},
		{512 * 0x40000, 0x40000},
		{512*0x40000 + 1, 0x80000},
		{512*0x80000 + 1, 0x100000},
		{512*0x100000 + 1, 0x200000},
		{10 << 30, 0x200000},
	}
	for _, tt := range tests {
		if got := BlockSize(tt.size); got != tt.want {
			t.Fatalf("BlockSize(%d) = %#x, want %#x", tt.size, got, tt.want)
		}
	}
}

func TestDigester_TableDriven(t *testing.T) {
	dir := t.TempDir()

	makeFile := func(name string, content []byte) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, content, 0o600); err != nil {
			t.Fatalf("write temp file: %v", err)
		}
		return p
	}

	multiBlock := bytes.Repeat([]byte("0123456789abcdef"), 600<<10/16) // 600 KiB, three blocks

	tests := []struct {
		name       string
		content    []byte
		bufferSize int
		missing    bool
		wantReason string
	}{
		{name: "empty", content: nil},
		{name: "hello", content: []byte("hello")},
		{name: "multi block", content: multiBlock},
		{name: "multi block small buffer", content: multiBlock, bufferSize: 4096},
		{name: "file missing", missing: true, wantReason: "No such file or directory"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			var path string
			if tt.missing {
				path = filepath.Join(dir, "does-not-exist.bin")
			} else {
				path = makeFile(tt.name+".bin", tt.content)
			}

			var progressed int64
			d := &Digester{BufferSize: tt.bufferSize, Observer: observerFunc(func(string, int64) (func(int64), func()) {
				return func(n int64) { progressed += n }, func() {}
			})}

			got, err := d.Digest(context.Background(), path)
			if tt.wantReason != "" {
				var ae *AccessError
				if !errors.As(err, &ae) {
					t.Fatalf("expected *AccessError, got %v", err)
				}
				if ae.Path != path || Reason(ae.Err) != tt.wantReason {
					t.Fatalf("unexpected access error: %v", ae)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			want := expectedGCID(tt.content, 0x40000)
			if got != want {
				t.Fatalf("digest mismatch:\n got: %s\nwant: %s", got, want)
			}
			if sum := Sum(tt.content); sum != want {
				t.Fatalf("Sum mismatch:\n got: %s\nwant: %s", sum, want)
			}
			if progressed != int64(len(tt.content)) {
				t.Fatalf("progress mismatch:\n got: %d\nwant: %d", progressed, len(tt.content))
			}
		})
	}
}

func TestDigester_EmptyIsSHA1OfNothing(t *testing.T) {
	if got := Sum(nil); got != "da39a3ee5e6b4b0d3255bfef95601890afd80709" {
		t.Fatalf("unexpected empty digest %s", got)
	}
}

func TestDigester_Directory(t *testing.T) {
	dir := t.TempDir()

	_, err := (&Digester{}).Digest(context.Background(), dir)
	var ae *AccessError
	if !errors.As(err, &ae) {
		t.Fatalf("expected *AccessError, got %v", err)
	}
	if want := "can't open '" + dir + "': Is a directory"; ae.Error() != want {
		t.Fatalf("got %q want %q", ae.Error(), want)
	}
}

func TestDigester_PermissionDenied(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("file modes are not enforced here")
	}
	p := filepath.Join(t.TempDir(), "locked.bin")
	if err := os.WriteFile(p, []byte("secret"), 0o000); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := (&Digester{}).Digest(context.Background(), p)
	var ae *AccessError
	if !errors.As(err, &ae) || Reason(ae.Err) != "Permission denied" {
		t.Fatalf("expected permission error, got %v", err)
	}
}

func TestDigester_Canceled(t *testing.T) {
	p := filepath.Join(t.TempDir(), "a.bin")
	if err := os.WriteFile(p, []byte("data"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&Digester{}).Digest(ctx, p)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

type observerFunc func(path string, size int64) (func(int64), func())

func (f observerFunc) Begin(path string, size int64) (func(int64), func()) { return f(path, size) }
