package webp

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

func buildWebP(chunks ...[]byte) []byte {
	out := []byte("RIFF\x00\x00\x00\x00WEBP")
	for _, c := range chunks {
		out = append(out, c...)
	}
	binary.LittleEndian.PutUint32(out[4:8], uint32(len(out)-8))
	return out
}

func TestClassify(t *testing.T) {
	eng := New()
	tests := []struct {
		id   string
		want container.Class
	}{
		{"VP8 ", container.ClassEssential},
		{"VP8L", container.ClassEssential},
		{"ALPH", container.ClassEssential},
		{"VP8X", container.ClassSafe},
		{"ANIM", container.ClassSafe},
		{"ANMF", container.ClassSafe},
		{"ICCP", container.ClassUnsafe},
		{"EXIF", container.ClassUnsafe},
		{"XMP ", container.ClassUnsafe},
		{"ZZZZ", container.ClassUnsafe},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, eng.Classify(tt.id), "Classify(%q)", tt.id)
	}
}

func TestStripPolicies(t *testing.T) {
	vp8x := chunk("VP8X", make([]byte, 10))
	vp8 := chunk("VP8 ", []byte{1, 2, 3, 4})
	exif := chunk("EXIF", []byte("Exif\x00\x00camera-serial"))
	input := buildWebP(vp8x, vp8, exif)

	tests := []struct {
		name    string
		policy  container.Policy
		wantIDs []string
	}{
		{"all drops extended header and metadata", container.PolicyAll, []string{"VP8 "}},
		{"safe keeps extended header", container.PolicySafe, []string{"VP8X", "VP8 "}},
		{"none keeps everything", container.PolicyNone, []string{"VP8X", "VP8 ", "EXIF"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := container.Strip(New(), input, tt.policy)
			require.NoError(t, err)

			records, err := New().Walk(out)
			require.NoError(t, err)
			ids := make([]string, len(records))
			for i, r := range records {
				ids[i] = r.ID
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, uint32(len(out)-8), binary.LittleEndian.Uint32(out[4:8]), "RIFF size field")
		})
	}
}

func TestStripNoneIsIdentity(t *testing.T) {
	input := buildWebP(chunk("VP8 ", []byte{1, 2, 3}), chunk("XMP ", []byte("<x/>")))
	out, err := container.Strip(New(), input, container.PolicyNone)
	require.NoError(t, err)
	assert.Equal(t, input, out)
}

func TestStripConverges(t *testing.T) {
	input := buildWebP(
		chunk("VP8X", make([]byte, 10)),
		chunk("ICCP", make([]byte, 33)),
		chunk("VP8 ", []byte{1, 2, 3, 4, 5}),
	)
	once, err := container.Strip(New(), input, container.PolicyAll)
	require.NoError(t, err)
	twice, err := container.Strip(New(), once, container.PolicyAll)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

// Odd-sized essential payloads keep their bytes and get fresh padding.
func TestOddPayloadPadding(t *testing.T) {
	vp8 := []byte{1, 2, 3, 4, 5}
	input := buildWebP(chunk("VP8 ", vp8), chunk("EXIF", []byte("x")))

	out, err := container.Strip(New(), input, container.PolicyAll)
	require.NoError(t, err)

	records, err := New().Walk(out)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, vp8, records[0].Payload)
	assert.Zero(t, len(out)%2, "padded output must be word-aligned")
}

func TestWalkErrors(t *testing.T) {
	_, err := New().Walk([]byte("RIFF\x04\x00\x00\x00WAVE"))
	assert.Error(t, err, "wrong fourcc")

	// truncated chunk is a hard error for WebP
	bad := buildWebP()
	bad = append(bad, "VP8 "...)
	bad = binary.LittleEndian.AppendUint32(bad, 500)
	_, err = New().Walk(bad)
	var de *container.DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, container.FormatWebP, de.Format)
}
