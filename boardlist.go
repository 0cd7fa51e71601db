package settle

import (
	"encoding/binary"
	"os"

	"github.com/zeebo/errs"
	"golang.org/x/sys/unix"
)

//
// board lists are flat files of packed boards:
//
// | 4 bytes magic "sbl1"    |
// | 1 byte bands per board  |
// | 8 bytes board count     |
// | per board, per band: a uvarint of the xor against the previous
//   board's same band |
//
// similar boards differ in few bits, so the xors stay small and the
// varints short. the file is grown page-aligned and filled through a
// mmap so large lists append without buffering.
//

const (
	boardListMagic  = "sbl1"
	boardListHeader = 13

	// worst case encoding of one board.
	boardListRecord = MaxBands * binary.MaxVarintLen32
)

// BoardList writes packed boards to a file. The caller owns the file
// handle; Close finishes the file but does not close it.
type BoardList struct {
	fh    *os.File
	buf   []byte
	off   int
	n     int
	count uint64
	prev  [MaxBands]band
}

// CreateBoardList starts a new board list on fh, which must be empty
// and writable.
func CreateBoardList(fh *os.File, bands int) (_ *BoardList, err error) {
	if bands < MinBands || bands > MaxBands {
		return nil, errs.New("band count %d outside [%d, %d]", bands, MinBands, MaxBands)
	}

	l := &BoardList{fh: fh, off: boardListHeader, n: bands}
	if err := l.grow(boardListHeader + boardListRecord); err != nil {
		return nil, err
	}

	copy(l.buf, boardListMagic)
	l.buf[4] = byte(bands)

	return l, nil
}

// grow truncates the backing file up to at least size, rounded to the
// next page, and remaps it.
func (l *BoardList) grow(size int) error {
	pageSize := unix.Getpagesize()
	size = (size + pageSize - 1) / pageSize * pageSize

	if l.buf != nil {
		if err := unix.Munmap(l.buf); err != nil {
			return errs.Wrap(err)
		}
		l.buf = nil
	}
	if err := l.fh.Truncate(int64(size)); err != nil {
		return errs.Wrap(err)
	}

	buf, err := unix.Mmap(int(l.fh.Fd()), 0, size,
		unix.PROT_WRITE|unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return errs.Wrap(err)
	}
	l.buf = buf

	return nil
}

// Append adds a board to the list. The board must have the band count
// the list was created with.
func (l *BoardList) Append(b Board) error {
	if b.n != l.n {
		return errs.New("board has %d bands, list has %d", b.n, l.n)
	}
	if l.off+boardListRecord > len(l.buf) {
		if err := l.grow(2 * len(l.buf)); err != nil {
			return err
		}
	}

	for i := 0; i < l.n; i++ {
		l.off += binary.PutUvarint(l.buf[l.off:], uint64(b.bands[i]^l.prev[i]))
	}
	l.prev = b.bands
	l.count++

	return nil
}

// Len returns the number of boards appended so far.
func (l *BoardList) Len() uint64 { return l.count }

// Close writes the final header, unmaps the buffer, and trims the file
// to its exact length.
func (l *BoardList) Close() (err error) {
	binary.LittleEndian.PutUint64(l.buf[5:boardListHeader], l.count)
	if err := unix.Munmap(l.buf); err != nil {
		return errs.Wrap(err)
	}
	l.buf = nil

	if err := l.fh.Truncate(int64(l.off)); err != nil {
		return errs.Wrap(err)
	}
	return nil
}

// ReadBoardList decodes every board in a board list file.
func ReadBoardList(fh *os.File) (_ []Board, err error) {
	st, err := fh.Stat()
	if err != nil {
		return nil, errs.Wrap(err)
	}
	if st.Size() < boardListHeader {
		return nil, errs.New("board list too short: %d bytes", st.Size())
	}

	buf, err := unix.Mmap(int(fh.Fd()), 0, int(st.Size()), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, errs.Wrap(err)
	}
	defer func() { err = errs.Combine(err, unix.Munmap(buf)) }()

	if string(buf[:4]) != boardListMagic {
		return nil, errs.New("bad board list magic %q", buf[:4])
	}
	bands := int(buf[4])
	if bands < MinBands || bands > MaxBands {
		return nil, errs.New("band count %d outside [%d, %d]", bands, MinBands, MaxBands)
	}
	count := binary.LittleEndian.Uint64(buf[5:boardListHeader])

	boards := make([]Board, 0, count)
	prev := Board{n: bands}
	rest := buf[boardListHeader:]

	for i := uint64(0); i < count; i++ {
		b := prev
		for j := 0; j < bands; j++ {
			delta, n := binary.Uvarint(rest)
			if n <= 0 || delta > uint64(bandFull) {
				return nil, errs.New("board %d: corrupt band delta", i)
			}
			b.bands[j] ^= band(delta)
			rest = rest[n:]
		}
		boards = append(boards, b)
		prev = b
	}

	return boards, nil
}
