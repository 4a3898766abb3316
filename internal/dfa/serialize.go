package dfa

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// magic is the fixed 4-byte header identifying a serialized DFA (§6).
var magic = [4]byte{'D', 'F', 'A', '1'}

// Serialize writes d to w in the binary layout of §6. All integers are
// little-endian.
func Serialize(d *DFA, w io.Writer) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.Write(magic[:]); err != nil {
		return err
	}
	if err := writeU32(bw, uint32(d.numStates)); err != nil {
		return err
	}
	if err := writeU32(bw, uint32(len(d.alphabet))); err != nil {
		return err
	}
	if _, err := bw.Write(d.alphabet); err != nil {
		return err
	}

	for state := 0; state < d.numStates; state++ {
		for col := 0; col < d.stride; col++ {
			if err := writeU32(bw, d.trans[state*d.stride+col]); err != nil {
				return err
			}
		}
	}

	for state := 0; state < d.numStates; state++ {
		if !d.accepting[state] {
			if err := bw.WriteByte(0); err != nil {
				return err
			}
			continue
		}
		if err := bw.WriteByte(1); err != nil {
			return err
		}
		ids := d.acceptIDs[state]
		if err := writeU32(bw, uint32(len(ids))); err != nil {
			return err
		}
		for _, id := range ids {
			if err := writeU32(bw, id); err != nil {
				return err
			}
		}
	}

	return bw.Flush()
}

// SerializeToFile serializes d to a freshly created (or truncated) file
// at path. The file is always closed, including on error.
func SerializeToFile(d *DFA, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return Serialize(d, f)
}

// Deserialize reads a DFA from r. It fails with a *FormatError on magic
// mismatch, truncation, or an out-of-range state reference (§7).
func Deserialize(r io.Reader) (*DFA, error) {
	br := bufio.NewReader(r)

	var got [4]byte
	if _, err := io.ReadFull(br, got[:]); err != nil {
		return nil, truncOrErr(err)
	}
	if got != magic {
		return nil, &FormatError{Err: ErrBadMagic}
	}

	stateCount, err := readU32(br)
	if err != nil {
		return nil, truncOrErr(err)
	}
	alphabetSize, err := readU32(br)
	if err != nil {
		return nil, truncOrErr(err)
	}

	alphabet := make([]byte, alphabetSize)
	if _, err := io.ReadFull(br, alphabet); err != nil {
		return nil, truncOrErr(err)
	}

	d := New(int(stateCount), alphabet)

	for state := uint32(0); state < stateCount; state++ {
		for col := 0; col < d.stride; col++ {
			v, err := readU32(br)
			if err != nil {
				return nil, truncOrErr(err)
			}
			if v >= stateCount {
				return nil, &FormatError{Err: fmt.Errorf("%w: transition target %d", ErrOutOfRange, v)}
			}
			d.trans[int(state)*d.stride+col] = v
		}
	}

	for state := uint32(0); state < stateCount; state++ {
		flag, err := br.ReadByte()
		if err != nil {
			return nil, truncOrErr(err)
		}
		if flag == 0 {
			continue
		}
		idCount, err := readU32(br)
		if err != nil {
			return nil, truncOrErr(err)
		}
		ids := make([]uint32, idCount)
		for i := range ids {
			v, err := readU32(br)
			if err != nil {
				return nil, truncOrErr(err)
			}
			ids[i] = v
		}
		d.SetAccepting(state, ids)
	}

	return d, nil
}

// DeserializeFromFile reads a DFA from the file at path. The file is
// always closed, including on error.
func DeserializeFromFile(path string) (*DFA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	d, err := Deserialize(f)
	if err != nil {
		if fe, ok := err.(*FormatError); ok {
			fe.Path = path
			return nil, fe
		}
		return nil, err
	}
	return d, nil
}

func writeU32(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func readU32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

func truncOrErr(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return &FormatError{Err: ErrTruncated}
	}
	return &FormatError{Err: err}
}
