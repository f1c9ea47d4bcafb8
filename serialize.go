package trajectory

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
	"log"
	"math"
)

// Binary stream format: a 0x62FF magic, a version, the configuration groups,
// the raw waypoint buffer, the description and (version >= 2) the readable
// annotations, all little endian. Non-binary streams are detected by the
// absence of the magic and handled as textual markup.
const (
	binaryMagic   = 0x62FF
	binaryVersion = 0x0003
)

// SerializeOptions selects the output form of Serialize.
type SerializeOptions struct {
	// Textual switches to the markup form instead of the binary stream.
	Textual bool
}

func writeBinaryUint16(w io.Writer, v uint16) error {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func writeBinaryUint32(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func writeBinaryInt32(w io.Writer, v int32) error {
	return writeBinaryUint32(w, uint32(v))
}

func writeBinaryString(w io.Writer, s string) error {
	if len(s) > math.MaxUint16 {
		return invalidArgf("string of length %d does not fit the stream format", len(s))
	}
	if err := writeBinaryUint16(w, uint16(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func writeBinaryVector(w io.Writer, v []Real) error {
	if err := writeBinaryUint32(w, uint32(len(v))); err != nil {
		return err
	}
	buf := make([]byte, len(v)*realSize)
	for i, x := range v {
		binary.LittleEndian.PutUint64(buf[i*realSize:], math.Float64bits(x))
	}
	_, err := w.Write(buf)
	return err
}

func readBinaryUint16(r io.Reader) (uint16, error) {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(buf[:]), nil
}

func readBinaryUint32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

func readBinaryInt32(r io.Reader) (int32, error) {
	v, err := readBinaryUint32(r)
	return int32(v), err
}

func readBinaryString(r io.Reader) (string, error) {
	n, err := readBinaryUint16(r)
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func readBinaryVector(r io.Reader) ([]Real, error) {
	n, err := readBinaryUint32(r)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, int(n)*realSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	v := make([]Real, n)
	for i := range v {
		v[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[i*realSize:]))
	}
	return v, nil
}

// Serialize writes the trajectory to w, binary by default.
func (t *Trajectory) Serialize(w io.Writer, opts SerializeOptions) error {
	if opts.Textual {
		return t.serializeXML(w)
	}
	if err := writeBinaryUint16(w, binaryMagic); err != nil {
		return err
	}
	if err := writeBinaryUint16(w, binaryVersion); err != nil {
		return err
	}
	if len(t.spec.Groups) > math.MaxUint16 {
		return invalidArgf("%d groups do not fit the stream format", len(t.spec.Groups))
	}
	if err := writeBinaryUint16(w, uint16(len(t.spec.Groups))); err != nil {
		return err
	}
	for _, g := range t.spec.Groups {
		if err := writeBinaryString(w, g.Name); err != nil {
			return err
		}
		if err := writeBinaryInt32(w, int32(g.Offset)); err != nil {
			return err
		}
		if err := writeBinaryInt32(w, int32(g.DOF)); err != nil {
			return err
		}
		if err := writeBinaryString(w, g.Interpolation); err != nil {
			return err
		}
	}
	if err := writeBinaryVector(w, t.data); err != nil {
		return err
	}
	if err := writeBinaryString(w, t.description); err != nil {
		return err
	}
	if err := writeBinaryUint16(w, uint16(len(t.readables))); err != nil {
		return err
	}
	for _, e := range t.readables {
		if err := writeBinaryString(w, e.id); err != nil {
			return err
		}
		body, err := e.readable.payload()
		if err != nil {
			// neither serializable form: write an empty string readable
			body = ""
		}
		if err := writeBinaryString(w, body); err != nil {
			return err
		}
		if err := writeBinaryString(w, e.readable.readerType()); err != nil {
			return err
		}
	}
	return nil
}

// Deserialize replaces the trajectory state with the stream contents. The
// mode is auto-detected: streams that do not start with the binary magic are
// parsed as textual markup.
func (t *Trajectory) Deserialize(r io.Reader) error {
	br := bufio.NewReader(r)
	head, err := br.Peek(2)
	if err != nil {
		return invalidArgf("cannot read first 2 bytes for deserializing trajectory, stream might be empty")
	}
	if binary.LittleEndian.Uint16(head) != binaryMagic {
		return t.deserializeXML(br)
	}
	if _, err := br.Discard(2); err != nil {
		return err
	}
	return t.deserializeBinary(br)
}

// DeserializeBytes is Deserialize over an in-memory buffer.
func (t *Trajectory) DeserializeBytes(data []byte) error {
	return t.Deserialize(bytes.NewReader(data))
}

func (t *Trajectory) deserializeBinary(r io.Reader) error {
	version, err := readBinaryUint16(r)
	if err != nil {
		return err
	}
	if version < 0x0001 || version > binaryVersion {
		return invalidArgf("unsupported trajectory format version %d", version)
	}
	numGroups, err := readBinaryUint16(r)
	if err != nil {
		return err
	}
	spec := ConfigurationSpec{Groups: make([]Group, numGroups)}
	for i := range spec.Groups {
		g := &spec.Groups[i]
		if g.Name, err = readBinaryString(r); err != nil {
			return err
		}
		offset, err := readBinaryInt32(r)
		if err != nil {
			return err
		}
		dof, err := readBinaryInt32(r)
		if err != nil {
			return err
		}
		g.Offset, g.DOF = int(offset), int(dof)
		if g.Interpolation, err = readBinaryString(r); err != nil {
			return err
		}
	}
	if err := t.Init(spec); err != nil {
		return err
	}
	if t.data, err = readBinaryVector(r); err != nil {
		return err
	}
	t.changed = true
	if t.description, err = readBinaryString(r); err != nil {
		return err
	}
	t.ClearReadables()
	if version < 0x0002 {
		return nil
	}
	numReadables, err := readBinaryUint16(r)
	if err != nil {
		return err
	}
	for i := 0; i < int(numReadables); i++ {
		id, err := readBinaryString(r)
		if err != nil {
			return err
		}
		body, err := readBinaryString(r)
		if err != nil {
			return err
		}
		readerType := "StringReadable"
		if version >= 0x0003 {
			if readerType, err = readBinaryString(r); err != nil {
				return err
			}
		}
		t.SetReadable(id, decodeReadable(id, body, readerType))
	}
	return nil
}

// decodeReadable dispatches a stream annotation on its reader type tag.
// Hierarchical markup payloads carry a synthetic root element whose single
// child is promoted to be the readable; anything else stays an opaque
// string.
func decodeReadable(id, body, readerType string) Readable {
	if readerType != "HierarchicalXMLReadable" {
		return &StringReadable{Data: body}
	}
	root, err := parseXMLElement(body)
	if err != nil {
		log.Printf("could not parse readable '%s' as markup: %v", id, err)
		return &StringReadable{Data: body}
	}
	if len(root.Children) == 1 {
		return &HierarchicalReadable{Root: root.Children[0]}
	}
	log.Printf("tried to parse readable '%s', but got more than one root", id)
	return &HierarchicalReadable{Root: root}
}
