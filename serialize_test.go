package trajectory

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/banshee-data/trajectory/internal/testutil"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func testTrajectory(t *testing.T) *Trajectory {
	t.Helper()
	traj := newLinearTrajectory(t, []Real{
		0, 0, 0,
		1, 2, 0.5,
	})
	traj.SetDescription("t")
	traj.SetReadable("x", &StringReadable{Data: "p"})
	return traj
}

func assertTrajectoriesEqual(t *testing.T, want, got *Trajectory) {
	t.Helper()
	if diff := cmp.Diff(want.Spec().Groups, got.Spec().Groups); diff != "" {
		t.Errorf("spec mismatch (-want +got):\n%s", diff)
	}
	wantData, err := want.Waypoints(0, want.NumWaypoints())
	testutil.AssertNoError(t, err)
	gotData, err := got.Waypoints(0, got.NumWaypoints())
	testutil.AssertNoError(t, err)
	if diff := cmp.Diff(wantData, gotData); diff != "" {
		t.Errorf("waypoint data mismatch (-want +got):\n%s", diff)
	}
	if want.Description() != got.Description() {
		t.Errorf("description = %q, want %q", got.Description(), want.Description())
	}
	if diff := cmp.Diff(want.ReadableIDs(), got.ReadableIDs()); diff != "" {
		t.Errorf("readable ids mismatch (-want +got):\n%s", diff)
	}
}

func TestBinaryRoundTrip(t *testing.T) {
	traj := testTrajectory(t)

	var buf bytes.Buffer
	testutil.AssertNoError(t, traj.Serialize(&buf, SerializeOptions{}))

	restored := New()
	testutil.AssertNoError(t, restored.Deserialize(&buf))
	assertTrajectoriesEqual(t, traj, restored)

	r, ok := restored.Readable("x").(*StringReadable)
	require.True(t, ok, "readable must come back as a string readable")
	require.Equal(t, "p", r.Data)

	// the restored trajectory samples identically
	row, err := restored.Sample(0.25)
	testutil.AssertNoError(t, err)
	testutil.AssertRowsNear(t, row, []Real{0.5, 2, 0.25}, 1e-12)
}

func TestBinaryStreamLayout(t *testing.T) {
	traj := testTrajectory(t)
	var buf bytes.Buffer
	testutil.AssertNoError(t, traj.Serialize(&buf, SerializeOptions{}))
	raw := buf.Bytes()

	if got := binary.LittleEndian.Uint16(raw[0:]); got != 0x62FF {
		t.Errorf("magic = %#x, want 0x62ff", got)
	}
	if got := binary.LittleEndian.Uint16(raw[2:]); got != 0x0003 {
		t.Errorf("version = %#x, want 0x0003", got)
	}
	if got := binary.LittleEndian.Uint16(raw[4:]); got != 3 {
		t.Errorf("numGroups = %d, want 3", got)
	}
	// first group in canonical order is deltatime
	nameLen := int(binary.LittleEndian.Uint16(raw[6:]))
	if got := string(raw[8 : 8+nameLen]); got != "deltatime" {
		t.Errorf("first group name = %q, want deltatime", got)
	}
}

func TestBinaryRoundTripHierarchicalReadable(t *testing.T) {
	traj := testTrajectory(t)
	traj.SetReadable("cal", &HierarchicalReadable{Root: &XMLElement{
		Name:  "calibration",
		Attrs: map[string]string{"sensor": "wrist"},
		Children: []*XMLElement{
			{Name: "offset", Text: "0.25"},
		},
	}})

	var buf bytes.Buffer
	testutil.AssertNoError(t, traj.Serialize(&buf, SerializeOptions{}))
	restored := New()
	testutil.AssertNoError(t, restored.Deserialize(&buf))

	r, ok := restored.Readable("cal").(*HierarchicalReadable)
	require.True(t, ok, "readable must come back hierarchical")
	require.Equal(t, "calibration", r.Root.Name)
	require.Equal(t, "wrist", r.Root.Attrs["sensor"])
	require.Len(t, r.Root.Children, 1)
	require.Equal(t, "0.25", r.Root.Children[0].Text)
}

func TestDeserializeOlderVersions(t *testing.T) {
	traj := testTrajectory(t)
	var buf bytes.Buffer
	testutil.AssertNoError(t, traj.Serialize(&buf, SerializeOptions{}))
	raw := buf.Bytes()

	// version 1 ends after the description: no readables
	v1 := append([]byte(nil), raw...)
	binary.LittleEndian.PutUint16(v1[2:], 0x0001)
	cut := len(v1) - readableSectionLength(t, traj)
	restored := New()
	testutil.AssertNoError(t, restored.DeserializeBytes(v1[:cut]))
	if len(restored.ReadableIDs()) != 0 {
		t.Errorf("version 1 must synthesize zero readables, got %v", restored.ReadableIDs())
	}

	// version 2 has readables without reader-type tags
	var v2 bytes.Buffer
	v2.Write(raw[:cut])
	binary.LittleEndian.PutUint16(v2.Bytes()[2:], 0x0002)
	writeBinaryUint16(&v2, 1)
	writeBinaryString(&v2, "x")
	writeBinaryString(&v2, "p")
	restored = New()
	testutil.AssertNoError(t, restored.DeserializeBytes(v2.Bytes()))
	r, ok := restored.Readable("x").(*StringReadable)
	require.True(t, ok)
	require.Equal(t, "p", r.Data)
}

// readableSectionLength computes the byte length of the serialized readable
// section of a version-3 stream.
func readableSectionLength(t *testing.T, traj *Trajectory) int {
	t.Helper()
	n := 2 // numReadables
	for _, id := range traj.ReadableIDs() {
		body, err := traj.Readable(id).payload()
		testutil.AssertNoError(t, err)
		n += 2 + len(id) + 2 + len(body) + 2 + len(traj.Readable(id).readerType())
	}
	return n
}

func TestDeserializeRejectsUnknownVersion(t *testing.T) {
	traj := testTrajectory(t)
	var buf bytes.Buffer
	testutil.AssertNoError(t, traj.Serialize(&buf, SerializeOptions{}))
	raw := buf.Bytes()
	binary.LittleEndian.PutUint16(raw[2:], 0x0004)

	restored := New()
	if err := restored.DeserializeBytes(raw); !errors.Is(err, ErrInvalidArguments) {
		t.Errorf("unknown version: err = %v, want invalid arguments", err)
	}
}

func TestDeserializeEmptyStream(t *testing.T) {
	restored := New()
	if err := restored.Deserialize(bytes.NewReader(nil)); !errors.Is(err, ErrInvalidArguments) {
		t.Errorf("empty stream: err = %v, want invalid arguments", err)
	}
}

func TestTextualRoundTrip(t *testing.T) {
	traj := testTrajectory(t)

	var buf bytes.Buffer
	testutil.AssertNoError(t, traj.Serialize(&buf, SerializeOptions{Textual: true}))
	if bytes.HasPrefix(buf.Bytes(), []byte{0xFF, 0x62}) {
		t.Fatal("textual form must not start with the binary magic")
	}

	restored := New()
	testutil.AssertNoError(t, restored.Deserialize(&buf))
	assertTrajectoriesEqual(t, traj, restored)

	row, err := restored.Sample(0.25)
	testutil.AssertNoError(t, err)
	testutil.AssertRowsNear(t, row, []Real{0.5, 2, 0.25}, 1e-12)
}

func TestBinaryWaypointDataIsBitwise(t *testing.T) {
	traj := newLinearTrajectory(t, []Real{
		math.Pi, math.Sqrt2, 0,
		math.Nextafter(1, 2), math.Copysign(0, -1), 0.125,
	})
	var buf bytes.Buffer
	testutil.AssertNoError(t, traj.Serialize(&buf, SerializeOptions{}))
	restored := New()
	testutil.AssertNoError(t, restored.Deserialize(&buf))

	want, _ := traj.Waypoints(0, 2)
	got, _ := restored.Waypoints(0, 2)
	for i := range want {
		if math.Float64bits(want[i]) != math.Float64bits(got[i]) {
			t.Errorf("value %d: bits %#x != %#x", i, math.Float64bits(want[i]), math.Float64bits(got[i]))
		}
	}
}
