package wav

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metastrip/metastrip/internal/container"
)

func chunk(id string, payload []byte) []byte {
	out := []byte(id)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(payload)))
	out = append(out, payload...)
	if len(payload)%2 != 0 {
		out = append(out, 0)
	}
	return out
}

func buildWAV(chunks ...[]byte) []byte {
	out := []byte("RIFF\x00\x00\x00\x00WAVE")
	for _, c := range chunks {
		out = append(out, c...)
	}
	binary.LittleEndian.PutUint32(out[4:8], uint32(len(out)-8))
	return out
}

func pcmFmt() []byte {
	p := make([]byte, 16)
	binary.LittleEndian.PutUint16(p[0:2], 1)      // PCM
	binary.LittleEndian.PutUint16(p[2:4], 2)      // stereo
	binary.LittleEndian.PutUint32(p[4:8], 44100)  // sample rate
	binary.LittleEndian.PutUint32(p[8:12], 176400) // byte rate
	binary.LittleEndian.PutUint16(p[12:14], 4)
	binary.LittleEndian.PutUint16(p[14:16], 16)
	return p
}

func TestClassify(t *testing.T) {
	eng := New()
	tests := []struct {
		id   string
		want container.Class
	}{
		{"fmt ", container.ClassEssential},
		{"data", container.ClassEssential},
		{"fact", container.ClassEssential},
		{"LIST", container.ClassSafe},
		{"cue ", container.ClassSafe},
		{"smpl", container.ClassSafe},
		{"inst", container.ClassSafe},
		{"bext", container.ClassUnsafe},
		{"iXML", container.ClassUnsafe},
		{"ID3 ", container.ClassUnsafe},
		{"JUNK", container.ClassUnsafe},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, eng.Classify(tt.id), "Classify(%q)", tt.id)
	}
}

// fmt (16B) + LIST (20B) + data (1000B): under PolicyAll the output holds
// only fmt and data, and the RIFF size field reflects the reduced length.
func TestStripAllDropsListChunk(t *testing.T) {
	fmtPayload := pcmFmt()
	listPayload := append([]byte("INFO"), chunk("IART", []byte("someone "))...)
	require.Len(t, listPayload, 20)
	dataPayload := make([]byte, 1000)

	input := buildWAV(chunk("fmt ", fmtPayload), chunk("LIST", listPayload), chunk("data", dataPayload))

	out, err := container.Strip(New(), input, container.PolicyAll)
	require.NoError(t, err)

	// 12-byte header + (8+16) fmt + (8+1000) data
	assert.Equal(t, 12+8+16+8+1000, len(out))
	assert.Equal(t, uint32(len(out)-8), binary.LittleEndian.Uint32(out[4:8]))

	records, err := New().Walk(out)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "fmt ", records[0].ID)
	assert.Equal(t, fmtPayload, records[0].Payload)
	assert.Equal(t, "data", records[1].ID)
	assert.Equal(t, dataPayload, records[1].Payload)
}

func TestStripSafeKeepsListDropsBext(t *testing.T) {
	input := buildWAV(
		chunk("fmt ", pcmFmt()),
		chunk("bext", make([]byte, 602)),
		chunk("LIST", append([]byte("INFO"), chunk("ICMT", []byte("take 3\x00"))...)),
		chunk("data", make([]byte, 64)),
	)

	out, err := container.Strip(New(), input, container.PolicySafe)
	require.NoError(t, err)

	records, err := New().Walk(out)
	require.NoError(t, err)
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	assert.Equal(t, []string{"fmt ", "LIST", "data"}, ids)
}

func TestStripNoneIsIdentity(t *testing.T) {
	input := buildWAV(chunk("fmt ", pcmFmt()), chunk("data", make([]byte, 10)))
	out, err := container.Strip(New(), input, container.PolicyNone)
	require.NoError(t, err)
	assert.Equal(t, input, out)
}

// A final data chunk whose declared size overruns the file is clamped, not
// rejected, and the rebuilt file declares the clamped length.
func TestTruncatedFinalChunkClamped(t *testing.T) {
	input := buildWAV(chunk("fmt ", pcmFmt()))
	input = append(input, "data"...)
	input = binary.LittleEndian.AppendUint32(input, 5000)
	input = append(input, make([]byte, 200)...)

	records, err := New().Walk(input)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Len(t, records[1].Payload, 200)

	out, err := container.Strip(New(), input, container.PolicyAll)
	require.NoError(t, err)
	outRecords, err := New().Walk(out)
	require.NoError(t, err)
	assert.Equal(t, uint32(200), binary.LittleEndian.Uint32(out[len(out)-204:len(out)-200]))
	assert.Len(t, outRecords[1].Payload, 200)
}

func TestStripConverges(t *testing.T) {
	input := buildWAV(
		chunk("fmt ", pcmFmt()),
		chunk("iXML", []byte("<BWFXML/>")),
		chunk("data", make([]byte, 17)),
	)
	once, err := container.Strip(New(), input, container.PolicyAll)
	require.NoError(t, err)
	twice, err := container.Strip(New(), once, container.PolicyAll)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestWalkErrors(t *testing.T) {
	_, err := New().Walk([]byte("RIFF\x04\x00\x00\x00WEBP"))
	require.Error(t, err)
	var de *container.DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, container.FormatWAV, de.Format)
}
