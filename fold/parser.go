package fold

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// rawDocument mirrors the FOLD top-level object: file metadata plus the
// key frame's fields inlined at the top level (FOLD lets the document
// double as its own key frame), plus the file_frames list.
type rawDocument struct {
	FileSpec    int    `json:"file_spec,omitempty"`
	FileCreator string `json:"file_creator,omitempty"`
	FileAuthor  string `json:"file_author,omitempty"`
	rawFrame

	FileFrames []rawFrame `json:"file_frames,omitempty"`
}

// Parse decodes a FOLD document from raw JSON bytes, resolving frame
// inheritance lazily (spec.md §9). A syntax or type error returns a
// *ParseError with the offending line and column; encoding/json does not
// expose column directly, so Parse recovers it from the reported byte
// offset. Any other decode failure (truncated input, an unknown field)
// returns a *ParseError of category Eof with no position.
func Parse(data []byte) (*Document, error) {
	var rd rawDocument
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&rd); err != nil {
		return nil, wrapDecodeError(data, err)
	}

	key, frames := buildFrames(&rd.rawFrame, rd.FileFrames)

	doc := &Document{
		FileSpec:    rd.FileSpec,
		FileCreator: rd.FileCreator,
		FileAuthor:  rd.FileAuthor,
		KeyFrame:    key,
		FileFrames:  frames,
	}

	if doc.KeyFrame.VerticesCoords() == nil {
		return nil, &MissingFieldError{Field: "vertices_coords"}
	}
	if doc.KeyFrame.FacesVertices() == nil {
		return nil, &MissingFieldError{Field: "faces_vertices"}
	}
	return doc, nil
}

// buildFrames wraps the key frame and each file frame in a Frame,
// wiring frame_parent/frame_inherit into parent pointers. frame_parent
// absent or nil means "the key frame"; an out-of-range index falls back
// to the key frame rather than panicking, matching spec.md §9's
// leniency toward malformed ancillary fields.
func buildFrames(keyRaw *rawFrame, raws []rawFrame) (Frame, []Frame) {
	key := Frame{raw: keyRaw}
	frames := make([]Frame, len(raws))
	for i := range raws {
		frames[i] = Frame{raw: &raws[i]}
	}
	for i := range raws {
		if !raws[i].FrameInherit {
			continue
		}
		if raws[i].FrameParent == nil {
			frames[i].parent = &key
			continue
		}
		p := *raws[i].FrameParent
		if p >= 0 && p < len(frames) {
			parent := frames[p]
			frames[i].parent = &parent
		} else {
			frames[i].parent = &key
		}
	}
	return key, frames
}

// wrapDecodeError turns an encoding/json error into a *ParseError,
// recovering line/column from the byte offset json.SyntaxError and
// json.UnmarshalTypeError both carry.
func wrapDecodeError(data []byte, err error) error {
	var offset int64
	category := CategoryData
	switch e := err.(type) {
	case *json.SyntaxError:
		offset = e.Offset
		category = CategorySyntax
	case *json.UnmarshalTypeError:
		offset = e.Offset
		category = CategoryData
	default:
		return &ParseError{Category: CategoryEOF, Message: err.Error()}
	}
	line, col := lineColOf(data, offset)
	return &ParseError{Line: line, Column: col, Category: category, Message: err.Error()}
}

func lineColOf(data []byte, offset int64) (line, col int) {
	if offset < 0 {
		offset = 0
	}
	if int(offset) > len(data) {
		offset = int64(len(data))
	}
	line = 1
	lastNewline := -1
	for i := 0; i < int(offset); i++ {
		if data[i] == '\n' {
			line++
			lastNewline = i
		}
	}
	col = int(offset) - lastNewline
	return line, col
}

// cloneMaterialized round-trips m through JSON, the codec the solver
// already speaks, playing postcard's role from the original (spec.md §9,
// testable property 10).
func cloneMaterialized(m Materialized) (Materialized, error) {
	bs, err := json.Marshal(m)
	if err != nil {
		return Materialized{}, fmt.Errorf("fold: clone marshal: %w", err)
	}
	var out Materialized
	if err := json.Unmarshal(bs, &out); err != nil {
		return Materialized{}, fmt.Errorf("fold: clone unmarshal: %w", err)
	}
	return out, nil
}
