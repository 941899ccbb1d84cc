package extension

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zip"

	"github.com/entrhq/launchpad/pkg/security/workspace"
	"github.com/entrhq/launchpad/pkg/types"
)

// crxMagic starts every packed Chrome extension. The zip payload follows
// a version-dependent header.
var crxMagic = []byte("Cr24")

// payloadOffset returns where the zip data starts in an archive: 0 for a
// plain zip, past the signed header for CRX2 and CRX3 files.
func payloadOffset(f io.ReaderAt, size int64) (int64, error) {
	head := make([]byte, 16)
	n, err := f.ReadAt(head, 0)
	if err != nil && err != io.EOF {
		return 0, err
	}
	if n < 12 || !bytes.Equal(head[:4], crxMagic) {
		return 0, nil
	}

	var offset int64
	switch version := binary.LittleEndian.Uint32(head[4:8]); version {
	case 2:
		if n < 16 {
			return 0, fmt.Errorf("truncated crx2 header")
		}
		pubKeyLen := int64(binary.LittleEndian.Uint32(head[8:12]))
		sigLen := int64(binary.LittleEndian.Uint32(head[12:16]))
		offset = 16 + pubKeyLen + sigLen
	case 3:
		headerLen := int64(binary.LittleEndian.Uint32(head[8:12]))
		offset = 12 + headerLen
	default:
		return 0, fmt.Errorf("unsupported crx version %d", version)
	}

	if offset > size {
		return 0, fmt.Errorf("crx header runs past end of file")
	}
	return offset, nil
}

// unpack extracts every entry of archive into dir.
func unpack(archive, dir string) error {
	const op = "extract extension"

	f, err := os.Open(archive)
	if err != nil {
		return types.WrapError(types.KindIO, op, archive, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return types.WrapError(types.KindIO, op, archive, err)
	}

	offset, err := payloadOffset(f, info.Size())
	if err != nil {
		return types.WrapError(types.KindParse, op, archive, err)
	}

	zr, err := zip.NewReader(io.NewSectionReader(f, offset, info.Size()-offset), info.Size()-offset)
	if err != nil {
		return types.WrapError(types.KindParse, op, archive, err)
	}

	guard, err := workspace.NewGuard(dir)
	if err != nil {
		return types.WrapError(types.KindIO, op, dir, err)
	}

	for _, zf := range zr.File {
		target, err := guard.ResolvePath(zf.Name)
		if err != nil {
			return types.WrapError(types.KindInvalidArgument, op, archive, err)
		}
		if err := writeEntry(zf, target); err != nil {
			return types.WrapError(types.KindIO, op, target, err)
		}
	}
	return nil
}

func writeEntry(zf *zip.File, target string) error {
	if zf.FileInfo().IsDir() {
		return os.MkdirAll(target, 0o755)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	rc, err := zf.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	mode := zf.Mode().Perm()
	if mode == 0 {
		mode = 0o644
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
