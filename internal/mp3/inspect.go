package mp3

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode"

	id3v2lib "github.com/bogem/id3v2/v2"
	humanize "github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	"github.com/metastrip/metastrip/internal/container"
	"github.com/metastrip/metastrip/internal/id3"
)

var frameNames = map[string]string{
	"TIT2": "Title",
	"TPE1": "Artist",
	"TPE2": "Album Artist",
	"TALB": "Album",
	"TYER": "Year",
	"TDRC": "Recording Time",
	"TCON": "Genre",
	"TRCK": "Track Number",
	"TPOS": "Disc Number",
	"TCOM": "Composer",
	"TPUB": "Publisher",
	"TCOP": "Copyright",
	"TENC": "Encoded By",
	"TSSE": "Encoder Settings",
	"TLEN": "Length (ms)",
	"APIC": "Attached Picture",
	"COMM": "Comment",
	"PRIV": "Private Data",
	"USLT": "Lyrics",
	"TXXX": "User-Defined Text",
	"WXXX": "User-Defined URL",
	"POPM": "Popularity/Rating",
	"UFID": "Unique File ID",
	"GEOB": "Embedded Object",
}

// Inspect writes a human-readable tag report for an MP3 buffer. Frame
// content decoding goes through the id3v2 library; the report is
// diagnostic output and does not need the deterministic serialization the
// strip path requires.
func Inspect(w io.Writer, input []byte) error {
	eng := New()
	records, err := eng.Walk(input)
	if err != nil {
		return err
	}

	v2Size := id3.DetectV2Size(input)
	audioLen := 0
	for _, r := range records {
		if r.ID == recordAudio {
			audioLen = len(r.Payload)
		}
	}
	fmt.Fprintf(w, "MP3, %s (%d bytes), audio %s\n",
		humanize.Bytes(uint64(len(input))), len(input), humanize.Bytes(uint64(audioLen)))

	if v2Size > 0 {
		if err := writeV2Report(w, input, eng); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(w, "no ID3v2 tag")
	}

	if v1, ok := id3.ParseV1(input); ok {
		writeV1Report(w, v1)
	} else {
		fmt.Fprintln(w, "no ID3v1 tag")
	}
	return nil
}

func writeV2Report(w io.Writer, input []byte, eng *Engine) error {
	tag, err := id3v2lib.ParseReader(bytes.NewReader(input), id3v2lib.Options{Parse: true})
	if err != nil {
		fmt.Fprintf(w, "ID3v2 tag present but unreadable: %v\n", err)
		return nil
	}
	defer tag.Close()

	fmt.Fprintf(w, "ID3v2.%d tag, %s\n\n", tag.Version(), humanize.Bytes(uint64(tag.Size())))

	all := tag.AllFrames()
	ids := make([]string, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	table := tablewriter.NewWriter(w)
	table.Header("Frame", "Class", "Description", "Content")
	unsafeCount := 0
	for _, fid := range ids {
		class := eng.Classify(fid)
		name := frameNames[fid]
		if name == "" {
			name = "Unknown frame"
		}
		for _, f := range all[fid] {
			if class == container.ClassUnsafe {
				unsafeCount++
			}
			table.Append([]string{fid, class.String(), name, frameContent(fid, f)})
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n%d frames, %d unsafe\n", tag.Count(), unsafeCount)
	return nil
}

func writeV1Report(w io.Writer, v1 id3.V1Tag) {
	fmt.Fprintln(w, "ID3v1 trailer (128 bytes, unsafe):")
	fields := []struct{ name, value string }{
		{"title", v1.Title},
		{"artist", v1.Artist},
		{"album", v1.Album},
		{"year", v1.Year},
		{"comment", v1.Comment},
		{"genre", GenreName(v1.Genre)},
	}
	for _, f := range fields {
		if f.value != "" {
			fmt.Fprintf(w, "  %-8s %s\n", f.name, f.value)
		}
	}
}

// frameContent renders one frame's payload for display.
func frameContent(id string, f id3v2lib.Framer) string {
	switch fr := f.(type) {
	case id3v2lib.TextFrame:
		return clip(fr.Text)
	case id3v2lib.CommentFrame:
		if fr.Description != "" {
			return clip(fr.Description + ": " + fr.Text)
		}
		return clip(fr.Text)
	case id3v2lib.PictureFrame:
		return fmt.Sprintf("%s, %s", fr.MimeType, humanize.Bytes(uint64(len(fr.Picture))))
	case id3v2lib.UserDefinedTextFrame:
		return clip(fr.Description + "=" + fr.Value)
	case id3v2lib.UnsynchronisedLyricsFrame:
		return clip(fr.Lyrics)
	case id3v2lib.PopularimeterFrame:
		return fmt.Sprintf("%s rating=%d", fr.Email, fr.Rating)
	case id3v2lib.UnknownFrame:
		if id == "PRIV" {
			return privContent(fr.Body)
		}
		return fmt.Sprintf("%s opaque", humanize.Bytes(uint64(len(fr.Body))))
	}
	return ""
}

// privContent splits a PRIV body into its owner identifier and payload,
// surfacing embedded text when the payload is mostly printable. PRIV
// payloads from desktop encoders frequently embed source filesystem paths.
func privContent(body []byte) string {
	owner := ""
	data := body
	if i := bytes.IndexByte(body, 0); i >= 0 {
		owner = string(body[:i])
		data = body[i+1:]
	}

	out := "owner " + owner
	if text, ok := printableText(data); ok {
		if strings.ContainsAny(text, "/\\") {
			out += ", embedded path: " + clip(text)
		} else {
			out += ": " + clip(text)
		}
	} else {
		out += fmt.Sprintf(", %d opaque bytes", len(data))
	}
	return out
}

// printableText returns the payload as a string when at least 60% of its
// bytes are printable, trimming control bytes from both ends.
func printableText(data []byte) (string, bool) {
	if len(data) == 0 {
		return "", false
	}
	printable := 0
	for _, b := range data {
		if b >= 0x20 && b < 0x7F {
			printable++
		}
	}
	if printable*10 < len(data)*6 {
		return "", false
	}
	s := strings.TrimFunc(string(data), func(r rune) bool {
		return r < 0x20 || r == 0x7F || !unicode.IsPrint(r)
	})
	return s, s != ""
}

func clip(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) > 60 {
		return s[:57] + "..."
	}
	return s
}
