package gcid

import (
	"context"
	"crypto/sha1" // #nosec G505 -- GCID is defined over SHA-1
	"encoding/hex"
	"io"
	"os"
	"syscall"
)

const (
	minBlockSize = 0x40000  // 256 KiB
	maxBlockSize = 0x200000 // 2 MiB
	maxBlocks    = 0x200

	defaultBufferSize = 1 << 20 // 1 MiB
)

// Provider computes the GCID of a named file.
type Provider interface {
	Digest(ctx context.Context, path string) (string, error)
}

// Observer is told about every file the Digester reads. Begin returns a
// callback fed with the number of bytes hashed and a function called once
// the file is done.
type Observer interface {
	Begin(path string, size int64) (advance func(n int64), end func())
}

// Digester is the file-backed Provider.
type Digester struct {
	BufferSize int
	Observer   Observer
}

// BlockSize returns the block length GCID uses for a file of size bytes:
// 256 KiB, doubled while the file would need more than 512 blocks, capped
// at 2 MiB.
func BlockSize(size int64) int64 {
	bs := int64(minBlockSize)
	for size > maxBlocks*bs && bs < maxBlockSize {
		bs <<= 1
	}
	return bs
}

// Sum returns the lowercase GCID of an in-memory buffer.
func Sum(data []byte) string {
	outer := sha1.New() // #nosec G401
	bs := int(BlockSize(int64(len(data))))
	for off := 0; off < len(data); off += bs {
		end := min(off+bs, len(data))
		block := sha1.Sum(data[off:end]) // #nosec G401
		outer.Write(block[:])
	}
	return hex.EncodeToString(outer.Sum(nil))
}

// Digest implements Provider. Open, stat and read failures come back as
// *AccessError; cancellation comes back as ctx.Err().
func (d *Digester) Digest(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return "", &AccessError{Path: path, Err: err}
	}
	defer func() {
		_ = f.Close()
	}()

	info, err := f.Stat()
	if err != nil {
		return "", &AccessError{Path: path, Err: err}
	}
	if info.IsDir() {
		return "", &AccessError{Path: path, Err: &os.PathError{Op: "read", Path: path, Err: syscall.EISDIR}}
	}

	var onProgress func(n int64)
	if d.Observer != nil {
		advance, end := d.Observer.Begin(path, info.Size())
		defer end()
		onProgress = advance
	}

	bufSize := d.BufferSize
	if bufSize <= 0 {
		bufSize = defaultBufferSize
	}

	sum, err := digestReader(ctx, f, BlockSize(info.Size()), bufSize, onProgress)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", &AccessError{Path: path, Err: err}
	}
	return hex.EncodeToString(sum), nil
}

func digestReader(ctx context.Context, r io.Reader, blockSize int64, bufSize int, onProgress func(n int64)) ([]byte, error) {
	outer := sha1.New() // #nosec G401
	block := sha1.New() // #nosec G401
	buf := make([]byte, bufSize)

	var inBlock, pending int64
	flush := func() {
		if pending > 0 && onProgress != nil {
			onProgress(pending)
		}
		pending = 0
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		want := int64(len(buf))
		if remain := blockSize - inBlock; remain < want {
			want = remain
		}

		n, rerr := r.Read(buf[:want])
		if n > 0 {
			block.Write(buf[:n])
			inBlock += int64(n)
			pending += int64(n)
			if pending >= int64(bufSize) {
				flush()
			}
			if inBlock == blockSize {
				outer.Write(block.Sum(nil))
				block.Reset()
				inBlock = 0
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return nil, rerr
		}
	}
	if inBlock > 0 {
		outer.Write(block.Sum(nil))
	}
	flush()

	return outer.Sum(nil), nil
}
