package util

import (
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"syscall"
)

// tailWindow is how many trailing bytes feed the content checksum.
const tailWindow = 2048

// FileStamp identifies one version of a file on disk.
type FileStamp struct {
	ModTime int64  // modification time, unix nanoseconds
	Size    int64  // size in bytes
	Inode   uint64 // inode number, changes when the file is replaced
	TailCRC uint32 // CRC32 of the last 2KB
}

// String renders the stamp for debug logs.
func (s FileStamp) String() string {
	return fmt.Sprintf("%d:%d:%d:%08x", s.Inode, s.Size, s.ModTime, s.TailCRC)
}

// StampFile reads the stamp of the file at path. Supported on Linux and macOS.
func StampFile(path string) (FileStamp, error) {
	file, err := os.Open(path)
	if err != nil {
		return FileStamp{}, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return FileStamp{}, err
	}

	sysStat, ok := stat.Sys().(*syscall.Stat_t)
	if !ok {
		return FileStamp{}, fmt.Errorf("failed to get file system information: %s", path)
	}

	stamp := FileStamp{
		ModTime: stat.ModTime().UnixNano(),
		Size:    stat.Size(),
		Inode:   uint64(sysStat.Ino),
	}

	readSize := int64(tailWindow)
	if stamp.Size < readSize {
		readSize = stamp.Size
	}
	if readSize == 0 {
		return stamp, nil
	}

	if _, err := file.Seek(-readSize, io.SeekEnd); err != nil {
		return FileStamp{}, err
	}
	data := make([]byte, readSize)
	if _, err := io.ReadFull(file, data); err != nil {
		return FileStamp{}, err
	}
	stamp.TailCRC = crc32.ChecksumIEEE(data)
	return stamp, nil
}
